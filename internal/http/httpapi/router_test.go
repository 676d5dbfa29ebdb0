package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/drafterhq/drafter/internal/adapter/repo"
	"github.com/drafterhq/drafter/internal/http/handlers"
	"github.com/drafterhq/drafter/internal/queue"
)

func newTestServer(t *testing.T, rateLimitPerMin int) *httptest.Server {
	t.Helper()
	app := handlers.NewApp(repo.NewJobRepositoryMemory(), queue.NewMemory(8), zerolog.Nop())
	srv := httptest.NewServer(NewRouter(app, zerolog.Nop(), rateLimitPerMin))
	t.Cleanup(srv.Close)
	return srv
}

func TestRouterHealthz(t *testing.T) {
	srv := newTestServer(t, 60)

	resp, err := http.Get(srv.URL + "/v1/healthz")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body: %v", body)
	}
}

func TestRouterDraftLifecycleRoutes(t *testing.T) {
	srv := newTestServer(t, 60)

	payload := `{"payload": {"id": "opp-001", "company": "Acme", "title": "Campaign site", "goal": "lead generation"}}`
	resp, err := http.Post(srv.URL+"/v1/drafts", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 202 {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("create status: got %d, want 202 (%s)", resp.StatusCode, body)
	}
	var created struct {
		JobID string `json:"job_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create: %v", err)
	}

	statusResp, err := http.Get(srv.URL + "/v1/jobs/" + created.JobID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	defer statusResp.Body.Close()
	if statusResp.StatusCode != 200 {
		t.Fatalf("get job status: got %d, want 200", statusResp.StatusCode)
	}

	cancelResp, err := http.Post(srv.URL+"/v1/jobs/"+created.JobID+"/cancel", "application/json", nil)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	defer cancelResp.Body.Close()
	if cancelResp.StatusCode != 200 {
		t.Fatalf("cancel status: got %d, want 200", cancelResp.StatusCode)
	}

	zipResp, err := http.Get(srv.URL + "/v1/jobs/" + created.JobID + "/artifacts.zip")
	if err != nil {
		t.Fatalf("artifacts: %v", err)
	}
	defer zipResp.Body.Close()
	if zipResp.StatusCode != 409 {
		t.Fatalf("artifacts of a cancelled job: got %d, want 409", zipResp.StatusCode)
	}
}

func TestRouterRateLimitsDraftCreation(t *testing.T) {
	srv := newTestServer(t, 2)

	payload := `{"source": "manual", "record_id": "opp-001"}`
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := http.Post(srv.URL+"/v1/drafts", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	if codes[0] != 202 || codes[1] != 202 {
		t.Fatalf("first two requests should pass: %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("third request: got %d, want 429", codes[2])
	}
}
