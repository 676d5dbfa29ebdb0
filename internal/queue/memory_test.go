package queue

import (
	"context"
	"testing"
	"time"

	"github.com/drafterhq/drafter/internal/domain"
)

func TestMemoryPreservesOrder(t *testing.T) {
	ctx := context.Background()
	q := NewMemory(4)

	for _, id := range []string{"a", "b", "c"} {
		if err := q.Enqueue(ctx, domain.Message{JobID: id}); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}
	for _, want := range []string{"a", "b", "c"} {
		msg, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("dequeue: %v", err)
		}
		if msg.JobID != want {
			t.Fatalf("order: got %q, want %q", msg.JobID, want)
		}
	}
}

func TestMemoryHonorsNotBefore(t *testing.T) {
	ctx := context.Background()
	q := NewMemory(4)

	delay := 50 * time.Millisecond
	start := time.Now()
	if err := q.Enqueue(ctx, domain.Message{JobID: "delayed", NotBefore: start.Add(delay)}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	msg, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if msg.JobID != "delayed" {
		t.Fatalf("got %q, want delayed", msg.JobID)
	}
	if elapsed := time.Since(start); elapsed < delay {
		t.Fatalf("delivered after %v, want at least %v", elapsed, delay)
	}
}

func TestMemoryDequeueRespectsContext(t *testing.T) {
	q := NewMemory(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := q.Dequeue(ctx); err == nil {
		t.Fatalf("expected context error on empty queue")
	}
}

func TestDeadLetterChannelDelivers(t *testing.T) {
	ctx := context.Background()
	dead := NewDeadLetterChannel(1)

	job := &domain.Job{ID: "job-1", Status: domain.JobStatusFailed}
	if err := dead.Publish(ctx, job); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-dead.Chan():
		if got.ID != "job-1" {
			t.Fatalf("got %q, want job-1", got.ID)
		}
	default:
		t.Fatalf("expected a buffered dead letter")
	}
}

func TestDeadLetterChannelBlocksUntilDrained(t *testing.T) {
	dead := NewDeadLetterChannel(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := dead.Publish(ctx, &domain.Job{ID: "first"}); err != nil {
		t.Fatalf("publish first: %v", err)
	}
	// Buffer full and nobody draining: publish must not drop silently.
	if err := dead.Publish(ctx, &domain.Job{ID: "second"}); err == nil {
		t.Fatalf("expected publish to block until the context expired")
	}
}
