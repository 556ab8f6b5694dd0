package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dgallion1/qbank/internal/config"
	"github.com/dgallion1/qbank/internal/source"
)

// Worker converts uploaded PDFs into datasets under the data directory.
type Worker struct {
	cfg   config.Config
	stats *Stats
	log   *slog.Logger

	// open is replaced in tests.
	open func(data []byte, name string) (source.Document, error)
}

func NewWorker(cfg config.Config, stats *Stats, log *slog.Logger) *Worker {
	return &Worker{
		cfg:   cfg,
		stats: stats,
		log:   log,
		open: func(data []byte, name string) (source.Document, error) {
			return source.FromReader(bytes.NewReader(data), name, source.DefaultOptions())
		},
	}
}

// RunOptions maps configuration onto a conversion writing to outDir.
func RunOptions(cfg config.Config, slug, outDir string) Options {
	return Options{
		Slug:             slug,
		OutDir:           outDir,
		PublicPrefix:     cfg.PublicPrefix,
		AnswerWindow:     cfg.AnswerWindow,
		OverlapThreshold: cfg.OverlapThreshold,
		IDWidth:          cfg.IDWidth,
	}
}

// DatasetDir is where the service keeps the dataset of slug.
func DatasetDir(dataDir, slug string) string {
	return filepath.Join(dataDir, slug)
}

// Process runs one conversion for a job. Failures are recorded on the job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "slug", job.Slug)
	defer job.ReleaseUpload()

	fail := func(err error) {
		log.Error("extraction failed", "phase", job.Snapshot().Phase, "error", err)
		job.Fail(err)
		w.stats.RecordFailure()
	}

	job.SetStatus(StatusReading, "opening")
	doc, err := w.open(job.Upload(), job.Filename)
	if err != nil {
		fail(fmt.Errorf("open: %w", err))
		return
	}
	defer doc.Close()

	opts := RunOptions(w.cfg, job.Slug, DatasetDir(w.cfg.DataDir, job.Slug))
	opts.OnPhase = func(s JobStatus) { job.SetStatus(s, string(s)) }

	res, err := Run(ctx, doc, opts, log)
	if err != nil {
		fail(err)
		return
	}

	w.stats.RecordSuccess(res)
	job.Complete(res)
	log.Info("job completed", "questions", res.Dataset.Meta.QuestionCount, "duration_ms", res.Duration.Milliseconds())
}
