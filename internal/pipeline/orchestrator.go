package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/qbank/internal/config"
)

// ErrQueueFull is returned by Submit when no queue slot is free.
var ErrQueueFull = errors.New("job queue is full")

// cleanupInterval is how often finished jobs past their TTL are evicted.
const cleanupInterval = 5 * time.Minute

// Orchestrator queues uploaded PDFs and runs them on a fixed worker pool.
// Each job is one single-threaded conversion.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	stats *Stats
	log   *slog.Logger
	cfg   config.Config

	newWorker func() *Worker

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewOrchestrator creates the pipeline. Call Start to launch workers. A nil
// stats gets a window of cfg.StatsWindow.
func NewOrchestrator(cfg config.Config, stats *Stats, log *slog.Logger) *Orchestrator {
	if stats == nil {
		stats = NewStats(cfg.StatsWindow)
	}
	o := &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		stats: stats,
		log:   log,
		cfg:   cfg,
	}
	o.newWorker = func() *Worker { return NewWorker(cfg, stats, log) }
	return o
}

// Start launches cfg.WorkerCount workers and the job janitor.
func (o *Orchestrator) Start(ctx context.Context) {
	ctx, o.cancel = context.WithCancel(ctx)

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go o.work(ctx, o.newWorker())
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := o.jobs.Cleanup(now); n > 0 {
					o.log.Debug("evicted finished jobs", "count", n)
				}
			}
		}
	}()
}

func (o *Orchestrator) work(ctx context.Context, w *Worker) {
	defer o.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-o.queue:
			if !ok {
				return
			}
			w.Process(ctx, job)
			o.jobs.Release(job)
		}
	}
}

// Stop cancels running conversions, waits for the workers and fails jobs
// still waiting in the queue. Submit must not be called afterwards.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		if o.cancel != nil {
			o.cancel()
		}
		close(o.queue)
		o.wg.Wait()
		for job := range o.queue {
			job.SetStatus(StatusFailed, "shutdown")
			job.Fail(errors.New("service stopped before the job ran"))
			job.ReleaseUpload()
			o.jobs.Release(job)
		}
	})
}

// Submit registers job and queues it. Jobs rejected for a full queue stay
// visible as failed.
func (o *Orchestrator) Submit(job *Job) error {
	if err := o.jobs.Add(job); err != nil {
		return err
	}
	select {
	case o.queue <- job:
		o.log.Info("job queued", "job_id", job.ID, "slug", job.Slug, "queue_depth", len(o.queue))
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		job.Fail(ErrQueueFull)
		job.ReleaseUpload()
		o.jobs.Release(job)
		return fmt.Errorf("%w (%d)", ErrQueueFull, cap(o.queue))
	}
}

// GetJob returns a job by ID, or nil.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// Jobs lists tracked jobs, newest first.
func (o *Orchestrator) Jobs() []JobSnapshot {
	return o.jobs.List()
}

// QueueDepth returns the number of jobs waiting for a worker.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the window of finished conversions.
func (o *Orchestrator) Stats() *Stats {
	return o.stats
}
