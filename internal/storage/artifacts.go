// Package storage persists finished artifact bundles onto the local
// filesystem. It is intended for development and single-host deployments
// where an object storage service is not available.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/drafterhq/drafter/internal/domain"
)

// ArtifactStore writes one directory per completed job containing the four
// artifacts: structure.json, wire.json, estimate.json and summary.md.
type ArtifactStore struct {
	basePath string
}

// NewArtifactStore initializes a store rooted at basePath.
func NewArtifactStore(basePath string) (*ArtifactStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &ArtifactStore{basePath: basePath}, nil
}

// BasePath returns the configured root directory.
func (s *ArtifactStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Save writes the job's output bundle. It refuses partial bundles so the
// directory on disk mirrors the atomic-attachment rule of the job record.
func (s *ArtifactStore) Save(ctx context.Context, job *domain.Job) error {
	if s == nil {
		return errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !job.Outputs.Complete() {
		return fmt.Errorf("storage: job %s has an incomplete output bundle", job.ID)
	}

	dir, err := s.jobDir(job.ID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: ensure job directory: %w", err)
	}

	files := map[string]any{
		"structure.json": job.Outputs.Structure,
		"wire.json":      job.Outputs.Wire,
		"estimate.json":  job.Outputs.Estimate,
	}
	for name, v := range files {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("storage: encode %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("storage: write %s: %w", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "summary.md"), []byte(job.Outputs.Summary), 0o644); err != nil {
		return fmt.Errorf("storage: write summary.md: %w", err)
	}
	return nil
}

// jobDir resolves the directory for a job id, rejecting ids that would
// escape the storage root.
func (s *ArtifactStore) jobDir(jobID string) (string, error) {
	cleaned := filepath.Base(strings.TrimSpace(jobID))
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "", fmt.Errorf("storage: invalid job id %q", jobID)
	}
	return filepath.Join(s.basePath, cleaned), nil
}
