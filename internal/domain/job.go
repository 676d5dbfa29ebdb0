package domain

import (
	"encoding/json"
	"time"
)

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "QUEUED"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// JobError is one entry of a job's error trail. The trail is append-only;
// earlier attempts' errors are never overwritten.
type JobError struct {
	Attempt int       `json:"attempt"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Outputs is the artifact bundle of one successful generation. It is
// attached to a job atomically: either all four artifacts are present or
// none is.
type Outputs struct {
	Structure *Structure `json:"structure,omitempty"`
	Wire      *WireDraft `json:"wire,omitempty"`
	Estimate  *Estimate  `json:"estimate,omitempty"`
	Summary   string     `json:"summary,omitempty"`
}

// Complete reports whether all four artifacts are attached.
func (o *Outputs) Complete() bool {
	return o != nil && o.Structure != nil && o.Wire != nil && o.Estimate != nil && o.Summary != ""
}

// Job tracks one generation request through its lifecycle. The persisted
// record is owned by the job repository; a runner owns the value for the
// duration of a single attempt.
type Job struct {
	ID          string       `json:"id"`
	Source      string       `json:"source"`
	RecordID    string       `json:"record_id"`
	Opportunity *Opportunity `json:"opportunity,omitempty"`
	Status      JobStatus    `json:"status"`
	Progress    float64      `json:"progress"`
	Attempts    int          `json:"attempts"`
	Errors      []JobError   `json:"errors,omitempty"`
	Outputs     *Outputs     `json:"outputs,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	StartedAt   *time.Time   `json:"started_at,omitempty"`
}

// BeginAttempt transitions the job to RUNNING and counts the attempt.
// Claiming (the QUEUED→RUNNING compare-and-set) is the repository's
// responsibility; this only records the bookkeeping.
func (j *Job) BeginAttempt(now time.Time) {
	j.Status = JobStatusRunning
	j.Attempts++
	j.StartedAt = &now
	j.UpdatedAt = now
	j.Progress = 0.1
}

// RecordError appends err to the error trail for the current attempt.
func (j *Job) RecordError(err error, now time.Time) {
	j.Errors = append(j.Errors, JobError{
		Attempt: j.Attempts,
		Kind:    Classify(err),
		Message: err.Error(),
		At:      now,
	})
	j.UpdatedAt = now
}

// Complete attaches the output bundle and transitions to COMPLETED. A
// partial bundle is rejected so the job can never look finished without all
// four artifacts.
func (j *Job) Complete(outputs *Outputs, now time.Time) error {
	if !outputs.Complete() {
		return NewValidationError("job %s: output bundle is incomplete", j.ID)
	}
	j.Outputs = outputs
	j.Status = JobStatusCompleted
	j.Progress = 1.0
	j.UpdatedAt = now
	return nil
}

// Fail transitions to FAILED. The caller must have recorded the triggering
// error first; a failed job always carries a non-empty error trail.
func (j *Job) Fail(now time.Time) {
	j.Status = JobStatusFailed
	j.Progress = 1.0
	j.UpdatedAt = now
}

// Requeue returns a RUNNING job to QUEUED for a retry attempt. The attempt
// count and error trail are preserved.
func (j *Job) Requeue(now time.Time) {
	j.Status = JobStatusQueued
	j.StartedAt = nil
	j.Progress = 0
	j.UpdatedAt = now
}

// Terminal reports whether the job reached COMPLETED or FAILED.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// Clone returns a deep copy so stores can hand out records without aliasing
// their internal state.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	raw, err := json.Marshal(j)
	if err != nil {
		cp := *j
		return &cp
	}
	var cp Job
	if err := json.Unmarshal(raw, &cp); err != nil {
		cp = *j
	}
	return &cp
}
