package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/drafterhq/drafter/internal/domain"
)

// OpportunityRepositoryFile resolves opportunity records from JSON files
// under a base directory, one file per record id. It backs local
// development and the CLI; production deployments plug in a CRM-backed
// implementation behind the same interface.
type OpportunityRepositoryFile struct {
	basePath string
}

// NewOpportunityRepositoryFile creates a file-backed opportunity repository.
func NewOpportunityRepositoryFile(basePath string) *OpportunityRepositoryFile {
	return &OpportunityRepositoryFile{basePath: basePath}
}

// Get loads and validates the opportunity stored as <record_id>.json.
func (r *OpportunityRepositoryFile) Get(ctx context.Context, source, recordID string) (*domain.Opportunity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	safe := filepath.Base(strings.TrimSpace(recordID))
	if safe == "" || safe == "." {
		return nil, domain.NewValidationError("record id is required")
	}
	path := filepath.Join(r.basePath, safe+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewValidationError("opportunity record %q not found", recordID)
		}
		return nil, domain.NewTransientError(fmt.Sprintf("read opportunity %q", recordID), err)
	}
	var opp domain.Opportunity
	if err := json.Unmarshal(data, &opp); err != nil {
		return nil, domain.NewValidationError("opportunity record %q is not valid JSON: %v", recordID, err)
	}
	if err := opp.Validate(); err != nil {
		return nil, err
	}
	return &opp, nil
}
