package domain

import (
	"context"
	"time"
)

// Message is the unit of work handed to a runner. It carries only a job
// reference; the job record itself lives in the repository.
type Message struct {
	JobID string
	// NotBefore delays redelivery for retry backoff. The zero value means
	// the message is deliverable immediately.
	NotBefore time.Time
}

// Queue is the transport that hands jobs to runners. Implementations must
// support at-least-once delivery; the generation pipeline is deterministic,
// so duplicate delivery of the same job is safe.
type Queue interface {
	Enqueue(ctx context.Context, msg Message) error
	// Dequeue blocks until a message is available or ctx is done.
	Dequeue(ctx context.Context) (Message, error)
}

// DeadLetter receives jobs that exhausted their retry budget, carrying the
// full error trail. Dead-lettered jobs are never silently dropped; they
// signal that human intervention is expected.
type DeadLetter interface {
	Publish(ctx context.Context, job *Job) error
}
