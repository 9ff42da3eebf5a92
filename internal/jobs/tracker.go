package jobs

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"code-armor/internal/domain"
)

// ErrUnknownJob is returned for transitions on jobs the tracker no longer
// holds.
var ErrUnknownJob = errors.New("unknown job")

var idCounter atomic.Uint64

// NewID derives a job identity from the submission timestamp plus a
// per-process counter, so concurrent submissions within one millisecond
// stay distinct.
func NewID() string {
	return fmt.Sprintf("job-%d-%d", time.Now().UnixMilli(), idCounter.Add(1))
}

// Tracker holds snapshots of all in-flight jobs. Jobs are ephemeral: they
// are removed when their terminal event is emitted and are never persisted
// across restarts.
type Tracker struct {
	mu   sync.RWMutex
	jobs map[string]domain.Job
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{jobs: map[string]domain.Job{}}
}

// Start registers a new in-flight job.
func (t *Tracker) Start(job domain.Job) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if job.Status == "" {
		job.Status = domain.JobStatusPending
	}
	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now().UTC()
	}
	t.jobs[job.ID] = job
}

// Transition validates and applies a status change for one job.
func (t *Tracker) Transition(id string, status domain.JobStatus) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrUnknownJob)
	}
	if status == job.Status {
		return nil
	}
	if !isValidTransition(job.Status, status) {
		return fmt.Errorf("invalid transition: %s -> %s", job.Status, status)
	}

	job.Status = status
	t.jobs[id] = job
	return nil
}

// SetOutput records the artifact name and effective preset for one job.
func (t *Tracker) SetOutput(id, outputName, effectivePreset string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if job, ok := t.jobs[id]; ok {
		job.OutputName = outputName
		job.EffectivePreset = effectivePreset
		t.jobs[id] = job
	}
}

// Finish drops a job after its terminal event has been emitted.
func (t *Tracker) Finish(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.jobs, id)
}

// InFlight returns the number of jobs currently tracked.
func (t *Tracker) InFlight() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.jobs)
}

// Snapshot returns copies of all in-flight jobs.
func (t *Tracker) Snapshot() []domain.Job {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.Job, 0, len(t.jobs))
	for _, job := range t.jobs {
		out = append(out, job)
	}
	return out
}

// isValidTransition enforces the allowed job state machine edges.
func isValidTransition(from, to domain.JobStatus) bool {
	switch from {
	case domain.JobStatusPending:
		return to == domain.JobStatusReading || to == domain.JobStatusFailed
	case domain.JobStatusReading:
		return to == domain.JobStatusWrapping || to == domain.JobStatusFailed
	case domain.JobStatusWrapping:
		return to == domain.JobStatusObfuscating || to == domain.JobStatusFailed
	case domain.JobStatusObfuscating:
		return to == domain.JobStatusWriting || to == domain.JobStatusFailed
	case domain.JobStatusWriting:
		return to == domain.JobStatusDone || to == domain.JobStatusFailed
	default:
		return false
	}
}
