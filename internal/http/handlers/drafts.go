package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/drafterhq/drafter/internal/domain"
	"github.com/drafterhq/drafter/internal/schema"
)

// CreateDraftRequest is the trigger payload. The opportunity can be given
// inline or as a reference resolvable by the configured record source.
type CreateDraftRequest struct {
	Source   string          `json:"source"`
	RecordID string          `json:"record_id"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// CreateDraftResponse acknowledges an accepted generation job.
type CreateDraftResponse struct {
	JobID  string           `json:"job_id"`
	Status domain.JobStatus `json:"status"`
}

// CreateDraft accepts an opportunity, creates a QUEUED job and hands it to
// the queue. Inline payloads are schema-validated here so a malformed brief
// is rejected with 400 instead of burning a job attempt.
func (a *App) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var req CreateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, domain.NewValidationError("decode request body: %v", err))
		return
	}

	var opp *domain.Opportunity
	if len(req.Payload) > 0 {
		validated, err := schema.ValidateOpportunity(req.Payload)
		if err != nil {
			a.fail(w, err)
			return
		}
		opp = validated
		if req.RecordID == "" {
			req.RecordID = opp.ID
		}
	}
	if req.Source == "" {
		req.Source = "manual"
	}
	if req.RecordID == "" {
		a.fail(w, domain.NewValidationError("record_id or an inline payload is required"))
		return
	}

	now := time.Now().UTC()
	job := &domain.Job{
		ID:          newJobID(req.RecordID),
		Source:      req.Source,
		RecordID:    req.RecordID,
		Opportunity: opp,
		Status:      domain.JobStatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.Jobs.Create(r.Context(), job); err != nil {
		a.fail(w, err)
		return
	}
	if err := a.Queue.Enqueue(r.Context(), domain.Message{JobID: job.ID}); err != nil {
		a.Logger.Error().Err(err).Str("job_id", job.ID).Msg("api: enqueue failed")
		a.fail(w, err)
		return
	}

	a.Logger.Info().Str("job_id", job.ID).Str("source", job.Source).Str("record_id", job.RecordID).Msg("api: draft job accepted")
	a.json(w, http.StatusAccepted, CreateDraftResponse{JobID: job.ID, Status: job.Status})
}

// newJobID derives a readable job id from the record reference plus a
// random suffix, so retriggering the same record yields distinct jobs.
func newJobID(recordID string) string {
	safe := strings.ReplaceAll(strings.TrimSpace(recordID), "/", "-")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return "job_" + safe + "_" + suffix
}
