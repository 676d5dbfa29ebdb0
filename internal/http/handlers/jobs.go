package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/drafterhq/drafter/internal/domain"
	"github.com/drafterhq/drafter/pkg/zip"
)

// JobResponse is the status view of a job. Outputs appear only for
// completed jobs, errors only once at least one attempt failed.
type JobResponse struct {
	ID        string            `json:"id"`
	Status    domain.JobStatus  `json:"status"`
	Progress  float64           `json:"progress"`
	Attempts  int               `json:"attempts"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Outputs   *domain.Outputs   `json:"outputs,omitempty"`
	Errors    []domain.JobError `json:"errors,omitempty"`
}

func jobResponse(job *domain.Job) JobResponse {
	resp := JobResponse{
		ID:        job.ID,
		Status:    job.Status,
		Progress:  job.Progress,
		Attempts:  job.Attempts,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
		Errors:    job.Errors,
	}
	if job.Status == domain.JobStatusCompleted {
		resp.Outputs = job.Outputs
	}
	return resp
}

// GetJob returns the lifecycle view of one job.
func (a *App) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := a.Jobs.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, jobResponse(job))
}

// CancelJob withdraws a job that no runner has claimed yet.
func (a *App) CancelJob(w http.ResponseWriter, r *http.Request) {
	job, err := a.Jobs.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.Logger.Info().Str("job_id", job.ID).Msg("api: job cancelled")
	a.json(w, http.StatusOK, jobResponse(job))
}

// DownloadArtifacts streams the four artifacts of a completed job as a zip.
func (a *App) DownloadArtifacts(w http.ResponseWriter, r *http.Request) {
	job, err := a.Jobs.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	if job.Status != domain.JobStatusCompleted || !job.Outputs.Complete() {
		a.json(w, http.StatusConflict, map[string]string{"error": "job has no completed outputs"})
		return
	}

	files, err := bundleFiles(job.Outputs)
	if err != nil {
		a.fail(w, err)
		return
	}
	archive, err := zip.Archive(files)
	if err != nil {
		a.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", job.ID+".zip"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func bundleFiles(outputs *domain.Outputs) ([]zip.File, error) {
	structure, err := json.MarshalIndent(outputs.Structure, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode structure: %w", err)
	}
	wire, err := json.MarshalIndent(outputs.Wire, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode wire: %w", err)
	}
	estimate, err := json.MarshalIndent(outputs.Estimate, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode estimate: %w", err)
	}
	return []zip.File{
		{Name: "structure.json", Data: structure},
		{Name: "wire.json", Data: wire},
		{Name: "estimate.json", Data: estimate},
		{Name: "summary.md", Data: []byte(outputs.Summary)},
	}, nil
}
