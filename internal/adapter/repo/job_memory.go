package repo

import (
	"context"
	"sync"
	"time"

	"github.com/drafterhq/drafter/internal/domain"
)

// JobRepositoryMemory implements domain.JobRepository with an in-process
// map. It is the store used by the single-binary api deployment and tests.
type JobRepositoryMemory struct {
	mu   sync.Mutex
	jobs map[string]*domain.Job
}

// NewJobRepositoryMemory creates an empty in-memory job repository.
func NewJobRepositoryMemory() *JobRepositoryMemory {
	return &JobRepositoryMemory{jobs: make(map[string]*domain.Job)}
}

// Create inserts a new job record.
func (r *JobRepositoryMemory) Create(ctx context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job.Clone()
	return nil
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryMemory) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return job.Clone(), nil
}

// Claim atomically transitions a QUEUED job to RUNNING, counting the
// attempt. The mutex makes the compare-and-set exclusive, so a job already
// RUNNING under another runner can not be claimed again.
func (r *JobRepositoryMemory) Claim(ctx context.Context, id string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if job.Status != domain.JobStatusQueued {
		return nil, domain.ErrNotClaimable
	}
	job.BeginAttempt(time.Now().UTC())
	return job.Clone(), nil
}

// Update replaces the stored record with the given snapshot.
func (r *JobRepositoryMemory) Update(ctx context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID]; !ok {
		return domain.ErrNotFound
	}
	r.jobs[job.ID] = job.Clone()
	return nil
}

// Cancel withdraws a QUEUED job. Jobs in any other state are untouched.
func (r *JobRepositoryMemory) Cancel(ctx context.Context, id string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if job.Status != domain.JobStatusQueued {
		return nil, domain.ErrNotCancelable
	}
	now := time.Now().UTC()
	job.RecordError(domain.NewValidationError("job cancelled before execution"), now)
	job.Fail(now)
	return job.Clone(), nil
}
