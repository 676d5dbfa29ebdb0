package domain

import "context"

// JobRepository defines persistence for job records. Implementations must
// make Claim and Cancel atomic with respect to concurrent runners.
type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	// Claim transitions a QUEUED job to RUNNING and returns the claimed
	// record. It returns ErrNotClaimable when the job is in any other
	// state, so a job already running elsewhere can not be claimed twice.
	Claim(ctx context.Context, id string) (*Job, error)
	Update(ctx context.Context, job *Job) error
	// Cancel withdraws a QUEUED job before any runner claims it. It
	// returns ErrNotCancelable for jobs in any other state.
	Cancel(ctx context.Context, id string) (*Job, error)
}

// OpportunityRepository resolves opportunity records from an external record
// system by source and record id.
type OpportunityRepository interface {
	Get(ctx context.Context, source, recordID string) (*Opportunity, error)
}
