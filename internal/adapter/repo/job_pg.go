package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drafterhq/drafter/internal/domain"
	"github.com/drafterhq/drafter/internal/sqlinline"
)

// JobRepositoryPG implements domain.JobRepository on PostgreSQL. The claim
// and cancel transitions are single conditional UPDATEs, so the database
// enforces the at-most-one-runner invariant across processes.
type JobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobRepositoryPG creates a job repository backed by PostgreSQL.
func NewJobRepositoryPG(pool *pgxpool.Pool) *JobRepositoryPG {
	return &JobRepositoryPG{pool: pool}
}

// Create inserts a new job record.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.Job) error {
	opportunity, errTrail, outputs, err := marshalJobPayloads(job)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, sqlinline.QInsertJob,
		job.ID,
		job.Source,
		job.RecordID,
		opportunity,
		job.Status,
		job.Progress,
		job.Attempts,
		errTrail,
		outputs,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	row := r.pool.QueryRow(ctx, sqlinline.QGetJob, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// Claim transitions a QUEUED job to RUNNING and counts the attempt. The
// conditional UPDATE returns no row when the job is missing or not QUEUED.
func (r *JobRepositoryPG) Claim(ctx context.Context, id string) (*domain.Job, error) {
	row := r.pool.QueryRow(ctx, sqlinline.QClaimJob, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.missOrState(ctx, id, domain.ErrNotClaimable)
		}
		return nil, err
	}
	return job, nil
}

// Update persists the job snapshot.
func (r *JobRepositoryPG) Update(ctx context.Context, job *domain.Job) error {
	_, errTrail, outputs, err := marshalJobPayloads(job)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, sqlinline.QUpdateJob,
		job.ID,
		job.Status,
		job.Progress,
		job.Attempts,
		errTrail,
		outputs,
		job.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Cancel withdraws a QUEUED job.
func (r *JobRepositoryPG) Cancel(ctx context.Context, id string) (*domain.Job, error) {
	job, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	job.RecordError(domain.NewValidationError("job cancelled before execution"), time.Now().UTC())
	trail, err := json.Marshal(job.Errors)
	if err != nil {
		return nil, fmt.Errorf("marshal error trail: %w", err)
	}
	row := r.pool.QueryRow(ctx, sqlinline.QCancelJob, id, trail)
	cancelled, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.missOrState(ctx, id, domain.ErrNotCancelable)
		}
		return nil, err
	}
	return cancelled, nil
}

// missOrState distinguishes "row does not exist" from "row exists in the
// wrong state" after a conditional UPDATE matched nothing.
func (r *JobRepositoryPG) missOrState(ctx context.Context, id string, stateErr error) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return stateErr
}

func marshalJobPayloads(job *domain.Job) (opportunity, errTrail, outputs []byte, err error) {
	if job.Opportunity != nil {
		opportunity, err = json.Marshal(job.Opportunity)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("marshal opportunity: %w", err)
		}
	}
	if len(job.Errors) > 0 {
		errTrail, err = json.Marshal(job.Errors)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("marshal error trail: %w", err)
		}
	}
	if job.Outputs != nil {
		outputs, err = json.Marshal(job.Outputs)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("marshal outputs: %w", err)
		}
	}
	return opportunity, errTrail, outputs, nil
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var (
		job         domain.Job
		opportunity []byte
		errTrail    []byte
		outputs     []byte
	)
	if err := row.Scan(
		&job.ID,
		&job.Source,
		&job.RecordID,
		&opportunity,
		&job.Status,
		&job.Progress,
		&job.Attempts,
		&errTrail,
		&outputs,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.StartedAt,
	); err != nil {
		return nil, err
	}
	if len(opportunity) > 0 {
		job.Opportunity = &domain.Opportunity{}
		if err := json.Unmarshal(opportunity, job.Opportunity); err != nil {
			return nil, fmt.Errorf("decode opportunity: %w", err)
		}
	}
	if len(errTrail) > 0 {
		if err := json.Unmarshal(errTrail, &job.Errors); err != nil {
			return nil, fmt.Errorf("decode error trail: %w", err)
		}
	}
	if len(outputs) > 0 {
		job.Outputs = &domain.Outputs{}
		if err := json.Unmarshal(outputs, job.Outputs); err != nil {
			return nil, fmt.Errorf("decode outputs: %w", err)
		}
	}
	return &job, nil
}
