package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/drafterhq/drafter/internal/adapter/repo"
	"github.com/drafterhq/drafter/internal/domain"
	"github.com/drafterhq/drafter/internal/queue"
)

func newTestApp() (*App, *repo.JobRepositoryMemory, *queue.Memory) {
	jobs := repo.NewJobRepositoryMemory()
	q := queue.NewMemory(8)
	return NewApp(jobs, q, zerolog.Nop()), jobs, q
}

func TestCreateDraftWithInlinePayload(t *testing.T) {
	app, jobs, q := newTestApp()

	body := `{"payload": {"id": "opp-001", "company": "Acme", "title": "Campaign site", "goal": "lead generation"}}`
	req := httptest.NewRequest("POST", "/v1/drafts", strings.NewReader(body))
	rr := httptest.NewRecorder()

	app.CreateDraft(rr, req)

	if rr.Code != 202 {
		t.Fatalf("status: got %d, want 202 (%s)", rr.Code, rr.Body.String())
	}
	var resp CreateDraftResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != domain.JobStatusQueued {
		t.Fatalf("response status: got %q, want %q", resp.Status, domain.JobStatusQueued)
	}
	if !strings.HasPrefix(resp.JobID, "job_opp-001_") {
		t.Fatalf("job id: got %q", resp.JobID)
	}

	job, err := jobs.GetByID(context.Background(), resp.JobID)
	if err != nil {
		t.Fatalf("stored job: %v", err)
	}
	if job.Opportunity == nil || job.Opportunity.Company != "Acme" {
		t.Fatalf("inline payload not attached: %+v", job.Opportunity)
	}
	if job.RecordID != "opp-001" {
		t.Fatalf("record id defaulted wrong: %q", job.RecordID)
	}

	dequeueCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, err := q.Dequeue(dequeueCtx)
	if err != nil {
		t.Fatalf("expected an enqueued message: %v", err)
	}
	if msg.JobID != resp.JobID {
		t.Fatalf("queued job id: got %q, want %q", msg.JobID, resp.JobID)
	}
}

func TestCreateDraftWithRecordReference(t *testing.T) {
	app, jobs, _ := newTestApp()

	body := `{"source": "kintone", "record_id": "opp-042"}`
	req := httptest.NewRequest("POST", "/v1/drafts", strings.NewReader(body))
	rr := httptest.NewRecorder()

	app.CreateDraft(rr, req)

	if rr.Code != 202 {
		t.Fatalf("status: got %d, want 202 (%s)", rr.Code, rr.Body.String())
	}
	var resp CreateDraftResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	job, err := jobs.GetByID(context.Background(), resp.JobID)
	if err != nil {
		t.Fatalf("stored job: %v", err)
	}
	if job.Source != "kintone" || job.RecordID != "opp-042" {
		t.Fatalf("reference not stored: source=%q record=%q", job.Source, job.RecordID)
	}
	if job.Opportunity != nil {
		t.Fatalf("reference job must not carry an inline payload")
	}
}

func TestCreateDraftRejectsInvalidPayload(t *testing.T) {
	app, _, _ := newTestApp()

	body := `{"payload": {"id": "opp-001", "company": "Acme"}}`
	req := httptest.NewRequest("POST", "/v1/drafts", strings.NewReader(body))
	rr := httptest.NewRecorder()

	app.CreateDraft(rr, req)

	if rr.Code != 400 {
		t.Fatalf("status: got %d, want 400 (%s)", rr.Code, rr.Body.String())
	}
}

func TestCreateDraftRequiresReferenceOrPayload(t *testing.T) {
	app, _, _ := newTestApp()

	req := httptest.NewRequest("POST", "/v1/drafts", strings.NewReader(`{"source": "manual"}`))
	rr := httptest.NewRecorder()

	app.CreateDraft(rr, req)

	if rr.Code != 400 {
		t.Fatalf("status: got %d, want 400 (%s)", rr.Code, rr.Body.String())
	}
}

func TestNewJobIDSanitizesRecordID(t *testing.T) {
	id := newJobID("crm/opp/7")
	if strings.Contains(id, "/") {
		t.Fatalf("job id must not contain path separators: %q", id)
	}
	if !strings.HasPrefix(id, "job_crm-opp-7_") {
		t.Fatalf("unexpected id shape: %q", id)
	}
	if id == newJobID("crm/opp/7") {
		t.Fatalf("ids for the same record must differ")
	}
}
