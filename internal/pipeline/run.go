package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/qbank/internal/bank"
	"github.com/dgallion1/qbank/internal/binder"
	"github.com/dgallion1/qbank/internal/extract"
	"github.com/dgallion1/qbank/internal/layout"
	"github.com/dgallion1/qbank/internal/segment"
	"github.com/dgallion1/qbank/internal/source"
)

// OutputFile is the dataset file written into the output directory.
const OutputFile = "questions.raw.json"

// ImageDir is the image store directory inside the output directory.
const ImageDir = "images"

// Options configures one conversion.
type Options struct {
	Slug             string
	OutDir           string
	PublicPrefix     string  // Public URL root of datasets; "/qbank" when empty
	AnswerWindow     int     // extract.DefaultAnswerWindow when zero
	OverlapThreshold float64 // binder.DefaultOverlapThreshold when zero
	IDWidth          int

	Now     func() time.Time // Clock for meta.extractedAt; time.Now when nil
	OnPhase func(JobStatus)  // Called as each phase starts
}

// Result summarizes a finished conversion.
type Result struct {
	Dataset    bank.Dataset
	Pages      int
	Lines      int
	MCQ        int
	Row        int
	Assets     int // Bound placements
	ImageFiles int // Distinct stored images
	OutputPath string
	ImageDir   string
	Duration   time.Duration
}

// Summary is the completion message shown to the user.
func (r *Result) Summary() string {
	return fmt.Sprintf("Extracted %d questions (%d mcq, %d row) from %d pages\nWrote: %s\nImages: %s (%d files, %d placements)",
		r.Dataset.Meta.QuestionCount, r.MCQ, r.Row, r.Pages, r.OutputPath, r.ImageDir, r.ImageFiles, r.Assets)
}

// Run converts doc into a dataset and writes it under opts.OutDir. Provider
// and write failures abort the run; malformed questions only produce null
// answer fields.
func Run(ctx context.Context, doc source.Document, opts Options, log *slog.Logger) (*Result, error) {
	if log == nil {
		log = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PublicPrefix == "" {
		opts.PublicPrefix = "/qbank"
	}
	phase := func(s JobStatus) {
		if opts.OnPhase != nil {
			opts.OnPhase(s)
		}
	}
	start := time.Now()
	log = log.With("pdf", doc.Name(), "slug", opts.Slug)

	// Phase 1: read pages.
	phase(StatusReading)
	pages := make([]source.Page, 0, doc.NumPages())
	for n := 1; n <= doc.NumPages(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := doc.Page(n)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", n, err)
		}
		pages = append(pages, p)
	}
	log.Info("pages read", "pages", len(pages))

	// Phase 2: reading order, blocks, questions.
	phase(StatusSegmenting)
	lines := layout.Order(pages)
	blocks := segment.Segment(lines)
	buildOpts := extract.Options{
		PDFName: filepath.Base(doc.Name()),
		IDWidth: opts.IDWidth,
		Window:  opts.AnswerWindow,
	}
	questions := make([]bank.Question, 0, len(blocks))
	for _, b := range blocks {
		questions = append(questions, extract.Build(b, buildOpts))
	}
	log.Info("questions segmented", "lines", len(lines), "questions", len(questions))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 3: images.
	phase(StatusBinding)
	imageDir := filepath.Join(opts.OutDir, ImageDir)
	store := binder.NewAssetStore(binder.DirSink{Dir: imageDir}, binder.PublicBase(opts.PublicPrefix, opts.Slug))
	bound, err := binder.New(store, binder.Options{Threshold: opts.OverlapThreshold}, log).Bind(questions, pages, doc)
	if err != nil {
		return nil, fmt.Errorf("bind images: %w", err)
	}
	log.Info("images bound", "placements", bound, "files", store.Len())

	// Phase 4: write.
	phase(StatusWriting)
	ds := Assemble(opts.Slug, doc.Name(), questions, opts.Now())
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	// The image dir exists even when no image bound.
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	outPath := filepath.Join(opts.OutDir, OutputFile)
	if err := bank.WriteFile(outPath, &ds); err != nil {
		return nil, err
	}

	res := &Result{
		Dataset:    ds,
		Pages:      len(pages),
		Lines:      len(lines),
		Assets:     bound,
		ImageFiles: store.Len(),
		OutputPath: outPath,
		ImageDir:   imageDir,
		Duration:   time.Since(start),
	}
	for _, q := range questions {
		if q.Type == bank.TypeMCQ {
			res.MCQ++
		} else {
			res.Row++
		}
	}
	log.Info("dataset written", "path", outPath, "questions", len(questions), "duration_ms", res.Duration.Milliseconds())
	return res, nil
}

// Assemble builds the payload. Questions keep their order.
func Assemble(slug, pdfName string, questions []bank.Question, at time.Time) bank.Dataset {
	if questions == nil {
		questions = []bank.Question{}
	}
	return bank.Dataset{
		Meta: bank.Meta{
			Slug:          slug,
			PDF:           filepath.Base(pdfName),
			ExtractedAt:   FormatTimestamp(at),
			QuestionCount: len(questions),
		},
		Questions: questions,
	}
}

// FormatTimestamp renders t as ISO-8601 UTC with microseconds.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}
