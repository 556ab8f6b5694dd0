package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the state of an extraction job. The in-progress values
// double as the phases reported by Run.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusReading    JobStatus = "reading"
	StatusSegmenting JobStatus = "segmenting"
	StatusBinding    JobStatus = "binding"
	StatusWriting    JobStatus = "writing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Done reports whether s is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ErrSlugBusy is returned when a slug already has an unfinished job.
var ErrSlugBusy = errors.New("slug has an extraction in progress")

// Job is one uploaded PDF on its way to a dataset.
type Job struct {
	mu sync.Mutex

	ID          string
	Slug        string
	Filename    string
	ContentHash string
	CreatedAt   time.Time

	status    JobStatus
	phase     string
	progress  Progress
	output    string
	updatedAt time.Time
	upload    []byte
}

// Progress holds the counts known so far.
type Progress struct {
	Pages     int      `json:"pages"`
	Questions int      `json:"questions"`
	MCQ       int      `json:"mcq"`
	Row       int      `json:"row"`
	Images    int      `json:"images"`
	Errors    []string `json:"errors"`
}

// NewJob returns a queued job for an uploaded PDF.
func NewJob(filename, slug string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:          uuid.NewString(),
		Slug:        slug,
		Filename:    filename,
		ContentHash: ContentHashHex(data),
		CreatedAt:   now,
		status:      StatusQueued,
		phase:       string(StatusQueued),
		updatedAt:   now,
		upload:      data,
	}
}

// SetStatus moves the job to status, recording phase as the detail.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = status
	j.phase = phase
	j.updatedAt = time.Now()
}

// Fail records err and marks the job failed, keeping the current phase so
// the caller can see where it stopped.
func (j *Job) Fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progress.Errors = append(j.progress.Errors, err.Error())
	j.status = StatusFailed
	j.updatedAt = time.Now()
}

// Complete copies the counts of a finished run into the job.
func (j *Job) Complete(r *Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progress.Pages = r.Pages
	j.progress.Questions = r.Dataset.Meta.QuestionCount
	j.progress.MCQ = r.MCQ
	j.progress.Row = r.Row
	j.progress.Images = r.Assets
	j.output = r.OutputPath
	j.status = StatusCompleted
	j.phase = "done"
	j.updatedAt = time.Now()
}

// Status returns the current status.
func (j *Job) Status() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Upload returns the PDF bytes until ReleaseUpload is called.
func (j *Job) Upload() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.upload
}

// ReleaseUpload drops the PDF bytes once they are no longer needed.
func (j *Job) ReleaseUpload() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.upload = nil
}

// JobSnapshot is a JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Slug        string    `json:"slug"`
	Filename    string    `json:"filename"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Progress    Progress  `json:"progress"`
	Output      string    `json:"output,omitempty"`
	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot copies the job state. The errors slice is never nil and never
// shared with the job.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	p := j.progress
	p.Errors = append(make([]string, 0, len(p.Errors)), p.Errors...)
	return JobSnapshot{
		ID:          j.ID,
		Slug:        j.Slug,
		Filename:    j.Filename,
		Status:      j.status,
		Phase:       j.phase,
		Progress:    p,
		Output:      j.output,
		ContentHash: j.ContentHash,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.updatedAt,
	}
}

// JobStore tracks jobs by id and reserves each slug for at most one
// unfinished job, since conversions of one slug share an output directory.
type JobStore struct {
	mu     sync.Mutex
	jobs   map[string]*Job
	active map[string]*Job // slug -> unfinished job
	ttl    time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs:   make(map[string]*Job),
		active: make(map[string]*Job),
		ttl:    ttl,
	}
}

// Add registers job and reserves its slug.
func (s *JobStore) Add(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if other, ok := s.active[job.Slug]; ok && !other.Status().Done() {
		return fmt.Errorf("%w: %s (job %s)", ErrSlugBusy, job.Slug, other.ID)
	}
	s.jobs[job.ID] = job
	s.active[job.Slug] = job
	return nil
}

// Release frees the slug reserved by job.
func (s *JobStore) Release(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active[job.Slug] == job {
		delete(s.active, job.Slug)
	}
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// List returns snapshots of all tracked jobs, newest first.
func (s *JobStore) List() []JobSnapshot {
	s.mu.Lock()
	out := make([]JobSnapshot, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j.Snapshot())
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out
}

// Cleanup evicts finished jobs idle for longer than the TTL and returns how
// many were removed. Unfinished jobs are kept however old they are.
func (s *JobStore) Cleanup(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, job := range s.jobs {
		snap := job.Snapshot()
		if snap.Status.Done() && now.Sub(snap.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// ContentHashHex is the hex SHA-256 of an upload.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
