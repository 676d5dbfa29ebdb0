package domain

import (
	"strings"
	"time"
)

// Assets captures which production materials the client already has.
// A nil flag means "unknown", which is treated differently from an
// explicit false by the estimate rules.
type Assets struct {
	Copy  *bool `json:"copy,omitempty"`
	Photo *bool `json:"photo,omitempty"`
	Logo  *bool `json:"logo,omitempty"`
}

// Opportunity is the sales-side project brief a draft is generated from.
// It is immutable once received; retries of the same job always see the
// same opportunity.
type Opportunity struct {
	ID          string     `json:"id"`
	Company     string     `json:"company"`
	Title       string     `json:"title"`
	Goal        string     `json:"goal"`
	KPI         []string   `json:"kpi,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	BudgetBand  string     `json:"budget_band,omitempty"`
	Persona     string     `json:"persona,omitempty"`
	MustHave    []string   `json:"must_have,omitempty"`
	References  []string   `json:"references,omitempty"`
	Constraints []string   `json:"constraints,omitempty"`
	Assets      Assets     `json:"assets"`
	Notes       string     `json:"notes,omitempty"`
	Source      string     `json:"source,omitempty"`
}

// Validate checks the structural invariants the pipeline depends on.
func (o *Opportunity) Validate() error {
	if o == nil {
		return NewValidationError("opportunity is required")
	}
	if strings.TrimSpace(o.ID) == "" {
		return NewValidationError("opportunity id is required")
	}
	if strings.TrimSpace(o.Company) == "" {
		return NewValidationError("opportunity company is required")
	}
	if strings.TrimSpace(o.Goal) == "" {
		return NewValidationError("opportunity goal is required")
	}
	return nil
}

// CopyMissing reports whether copy assets were explicitly confirmed missing.
func (a Assets) CopyMissing() bool {
	return a.Copy != nil && !*a.Copy
}

// PhotoMissing reports whether photo assets were explicitly confirmed missing.
func (a Assets) PhotoMissing() bool {
	return a.Photo != nil && !*a.Photo
}
