package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/qbank/internal/bank"
)

func result(ms, pages, questions, images int) *Result {
	return &Result{
		Dataset:    bank.Dataset{Meta: bank.Meta{QuestionCount: questions}},
		Pages:      pages,
		ImageFiles: images,
		Duration:   time.Duration(ms) * time.Millisecond,
	}
}

func TestStats_Snapshot(t *testing.T) {
	s := NewStats(time.Hour)
	for i, ms := range []int{100, 200, 300, 400, 500} {
		s.RecordSuccess(result(ms, 2, 10+i, 1))
	}
	s.RecordFailure()

	snap := s.Snapshot()
	if snap.Runs != 6 || snap.Failures != 1 {
		t.Fatalf("runs = %d failures = %d", snap.Runs, snap.Failures)
	}
	if snap.Pages != 10 || snap.Questions != 60 || snap.Images != 5 {
		t.Errorf("totals = %+v", snap)
	}
	if snap.P50Ms != 300 || snap.P95Ms != 480 || snap.MaxMs != 500 {
		t.Errorf("p50 = %v p95 = %v max = %v", snap.P50Ms, snap.P95Ms, snap.MaxMs)
	}
	// 10 pages in 1.5s of work.
	if got := snap.PagesPerSec; got < 6.66 || got > 6.67 {
		t.Errorf("pages/sec = %v", got)
	}
}

func TestStats_WindowPrunes(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStats(time.Minute)
	s.now = func() time.Time { return now }

	s.RecordSuccess(result(100, 1, 1, 0))
	now = now.Add(2 * time.Minute)
	s.RecordSuccess(result(200, 1, 1, 0))

	snap := s.Snapshot()
	if snap.Runs != 1 || snap.MaxMs != 200 {
		t.Fatalf("snapshot = %+v", snap)
	}

	now = now.Add(2 * time.Minute)
	if snap := s.Snapshot(); snap.Runs != 0 || snap.P50Ms != 0 {
		t.Errorf("expired snapshot = %+v", snap)
	}
}

func TestStats_OnlyFailures(t *testing.T) {
	s := NewStats(0)
	s.RecordFailure()
	snap := s.Snapshot()
	if snap.Runs != 1 || snap.Failures != 1 || snap.MaxMs != 0 {
		t.Errorf("snapshot = %+v", snap)
	}
}
