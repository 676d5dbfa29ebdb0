// Package handlers implements the public trigger and status surface of the
// draft generation service.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/drafterhq/drafter/internal/domain"
	"github.com/drafterhq/drafter/internal/infra"
)

// App bundles the collaborators the HTTP handlers depend on. Handlers talk
// to the job repository and the queue only through their interfaces; the
// concrete store and transport are wired in main.
type App struct {
	Jobs   domain.JobRepository
	Queue  domain.Queue
	Logger infra.Logger
}

// NewApp creates the handler container.
func NewApp(jobs domain.JobRepository, queue domain.Queue, logger infra.Logger) *App {
	return &App{Jobs: jobs, Queue: queue, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail maps domain errors onto HTTP status codes and a JSON error body.
func (a *App) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrNotCancelable), errors.Is(err, domain.ErrNotClaimable):
		code = http.StatusConflict
	default:
		switch domain.Classify(err) {
		case domain.ErrorKindValidation:
			code = http.StatusBadRequest
		case domain.ErrorKindConfiguration:
			code = http.StatusInternalServerError
		}
	}
	a.json(w, code, map[string]string{"error": err.Error()})
}
