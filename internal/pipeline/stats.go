package pipeline

import (
	"sort"
	"sync"
	"time"
)

// Stats keeps a rolling window of finished conversions for the service.
type Stats struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	runs   []runSample
}

type runSample struct {
	at        time.Time
	failed    bool
	duration  time.Duration
	pages     int
	questions int
	images    int
}

// StatsSnapshot aggregates the runs still inside the window. Durations
// cover successful runs only.
type StatsSnapshot struct {
	Runs        int     `json:"runs"`
	Failures    int     `json:"failures"`
	Pages       int     `json:"pages"`
	Questions   int     `json:"questions"`
	Images      int     `json:"images"`
	P50Ms       float64 `json:"p50_ms"`
	P95Ms       float64 `json:"p95_ms"`
	MaxMs       float64 `json:"max_ms"`
	PagesPerSec float64 `json:"pages_per_sec"`
}

// NewStats returns an empty window; one hour when window is unset.
func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{window: window, now: time.Now}
}

// RecordSuccess adds a finished run.
func (s *Stats) RecordSuccess(r *Result) {
	s.add(runSample{
		duration:  r.Duration,
		pages:     r.Pages,
		questions: r.Dataset.Meta.QuestionCount,
		images:    r.ImageFiles,
	})
}

// RecordFailure adds a run that ended in error.
func (s *Stats) RecordFailure() {
	s.add(runSample{failed: true})
}

func (s *Stats) add(r runSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.at = s.now()
	s.prune(r.at)
	s.runs = append(s.runs, r)
}

// Snapshot aggregates the current window.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune(s.now())

	var snap StatsSnapshot
	var ms []float64
	var busy time.Duration
	for _, r := range s.runs {
		snap.Runs++
		if r.failed {
			snap.Failures++
			continue
		}
		snap.Pages += r.pages
		snap.Questions += r.questions
		snap.Images += r.images
		busy += r.duration
		ms = append(ms, float64(r.duration)/float64(time.Millisecond))
	}
	if len(ms) == 0 {
		return snap
	}
	sort.Float64s(ms)
	snap.P50Ms = quantile(ms, 0.50)
	snap.P95Ms = quantile(ms, 0.95)
	snap.MaxMs = ms[len(ms)-1]
	if busy > 0 {
		snap.PagesPerSec = float64(snap.Pages) / busy.Seconds()
	}
	return snap
}

// prune drops runs older than the window. Runs are appended in time order.
func (s *Stats) prune(now time.Time) {
	cutoff := now.Add(-s.window)
	i := 0
	for i < len(s.runs) && s.runs[i].at.Before(cutoff) {
		i++
	}
	s.runs = s.runs[i:]
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[lo+1]-sorted[lo])*frac
}
