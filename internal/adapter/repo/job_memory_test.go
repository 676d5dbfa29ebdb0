package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/drafterhq/drafter/internal/domain"
)

func queuedJob(id string) *domain.Job {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Job{
		ID:        id,
		Source:    "manual",
		RecordID:  "opp-001",
		Status:    domain.JobStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestJobRepositoryMemoryClaimIsExclusive(t *testing.T) {
	ctx := context.Background()
	store := NewJobRepositoryMemory()
	if err := store.Create(ctx, queuedJob("job-1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	claimed, err := store.Claim(ctx, "job-1")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed.Status != domain.JobStatusRunning || claimed.Attempts != 1 {
		t.Fatalf("claimed job: status=%q attempts=%d", claimed.Status, claimed.Attempts)
	}

	if _, err := store.Claim(ctx, "job-1"); !errors.Is(err, domain.ErrNotClaimable) {
		t.Fatalf("second claim: got %v, want ErrNotClaimable", err)
	}
	if _, err := store.Claim(ctx, "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown id: got %v, want ErrNotFound", err)
	}
}

func TestJobRepositoryMemoryClaimAfterRequeue(t *testing.T) {
	ctx := context.Background()
	store := NewJobRepositoryMemory()
	if err := store.Create(ctx, queuedJob("job-1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	job, err := store.Claim(ctx, "job-1")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	job.Requeue(time.Now().UTC())
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("update: %v", err)
	}

	job, err = store.Claim(ctx, "job-1")
	if err != nil {
		t.Fatalf("reclaim: %v", err)
	}
	if job.Attempts != 2 {
		t.Fatalf("attempts: got %d, want 2", job.Attempts)
	}
}

func TestJobRepositoryMemoryCancel(t *testing.T) {
	ctx := context.Background()
	store := NewJobRepositoryMemory()
	if err := store.Create(ctx, queuedJob("job-1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	cancelled, err := store.Cancel(ctx, "job-1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != domain.JobStatusFailed {
		t.Fatalf("status: got %q, want %q", cancelled.Status, domain.JobStatusFailed)
	}
	if len(cancelled.Errors) != 1 || cancelled.Errors[0].Kind != domain.ErrorKindValidation {
		t.Fatalf("cancel must leave a trail entry: %#v", cancelled.Errors)
	}

	if _, err := store.Cancel(ctx, "job-1"); !errors.Is(err, domain.ErrNotCancelable) {
		t.Fatalf("cancel of terminal job: got %v, want ErrNotCancelable", err)
	}
}

func TestJobRepositoryMemoryCancelRunningJob(t *testing.T) {
	ctx := context.Background()
	store := NewJobRepositoryMemory()
	if err := store.Create(ctx, queuedJob("job-1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Claim(ctx, "job-1"); err != nil {
		t.Fatalf("claim: %v", err)
	}

	if _, err := store.Cancel(ctx, "job-1"); !errors.Is(err, domain.ErrNotCancelable) {
		t.Fatalf("cancel of running job: got %v, want ErrNotCancelable", err)
	}
	job, err := store.GetByID(ctx, "job-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if job.Status != domain.JobStatusRunning {
		t.Fatalf("running job must be untouched, got %q", job.Status)
	}
}

func TestJobRepositoryMemoryIsolatesSnapshots(t *testing.T) {
	ctx := context.Background()
	store := NewJobRepositoryMemory()
	original := queuedJob("job-1")
	if err := store.Create(ctx, original); err != nil {
		t.Fatalf("create: %v", err)
	}

	original.Status = domain.JobStatusFailed

	stored, err := store.GetByID(ctx, "job-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != domain.JobStatusQueued {
		t.Fatalf("store must not alias caller values: got %q", stored.Status)
	}

	stored.Status = domain.JobStatusCompleted
	again, err := store.GetByID(ctx, "job-1")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again.Status != domain.JobStatusQueued {
		t.Fatalf("returned snapshots must not alias the store: got %q", again.Status)
	}
}
