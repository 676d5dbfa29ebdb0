// Package queue provides the in-process implementation of the job transport
// contract. It gives at-least-once hand-off inside a single binary; swapping
// in a broker-backed transport only requires another domain.Queue.
package queue

import (
	"context"
	"time"

	"github.com/drafterhq/drafter/internal/domain"
)

// Memory is a buffered-channel queue. Delayed messages (retry backoff) are
// re-armed on a timer instead of blocking a consumer.
type Memory struct {
	ch chan domain.Message
}

// NewMemory creates a queue with the given buffer capacity.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 64
	}
	return &Memory{ch: make(chan domain.Message, capacity)}
}

// Enqueue publishes msg, honoring its NotBefore delay.
func (q *Memory) Enqueue(ctx context.Context, msg domain.Message) error {
	delay := time.Until(msg.NotBefore)
	if delay <= 0 {
		select {
		case q.ch <- msg:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	timer := time.NewTimer(delay)
	go func() {
		defer timer.Stop()
		select {
		case <-timer.C:
			q.ch <- msg
		case <-ctx.Done():
		}
	}()
	return nil
}

// Dequeue blocks until a message arrives or ctx is done.
func (q *Memory) Dequeue(ctx context.Context) (domain.Message, error) {
	select {
	case msg := <-q.ch:
		return msg, nil
	case <-ctx.Done():
		return domain.Message{}, ctx.Err()
	}
}

// DeadLetterChannel collects dead-lettered jobs on a channel so an operator
// process can drain and surface them.
type DeadLetterChannel struct {
	ch chan *domain.Job
}

// NewDeadLetterChannel creates a dead-letter sink with the given capacity.
func NewDeadLetterChannel(capacity int) *DeadLetterChannel {
	if capacity <= 0 {
		capacity = 16
	}
	return &DeadLetterChannel{ch: make(chan *domain.Job, capacity)}
}

// Publish delivers job to the failure channel. It blocks rather than drop:
// a dead-lettered job must never be silently lost.
func (d *DeadLetterChannel) Publish(ctx context.Context, job *domain.Job) error {
	select {
	case d.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Chan exposes the receive side for the draining consumer.
func (d *DeadLetterChannel) Chan() <-chan *domain.Job {
	return d.ch
}
