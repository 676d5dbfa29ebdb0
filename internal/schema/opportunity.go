// Package schema validates inbound opportunity payloads against a JSON
// Schema before they are accepted as job input. Violations surface as
// validation errors, so the caller learns about a malformed brief
// immediately instead of through a failed job.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/drafterhq/drafter/internal/domain"
)

const opportunitySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["id", "company", "title", "goal"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "company": {"type": "string", "minLength": 1},
    "title": {"type": "string"},
    "goal": {"type": "string", "minLength": 1},
    "kpi": {"type": "array", "items": {"type": "string"}},
    "deadline": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}([Tt].+)?$"},
    "budget_band": {"type": "string"},
    "persona": {"type": "string"},
    "must_have": {"type": "array", "items": {"type": "string"}},
    "references": {"type": "array", "items": {"type": "string"}},
    "constraints": {"type": "array", "items": {"type": "string"}},
    "assets": {
      "type": "object",
      "properties": {
        "copy": {"type": "boolean"},
        "photo": {"type": "boolean"},
        "logo": {"type": "boolean"}
      },
      "additionalProperties": false
    },
    "notes": {"type": "string"},
    "source": {"type": "string"}
  },
  "additionalProperties": false
}`

var compileOnce = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("opportunity.json", strings.NewReader(opportunitySchema)); err != nil {
		return nil, fmt.Errorf("add opportunity schema: %w", err)
	}
	return compiler.Compile("opportunity.json")
})

// normalizeDeadline rewrites a date-only deadline to midnight UTC so the
// decoder sees one canonical timestamp form. CRM exports commonly send
// plain dates. It reports whether the payload was changed.
func normalizeDeadline(m map[string]any) bool {
	s, ok := m["deadline"].(string)
	if !ok {
		return false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return false
	}
	m["deadline"] = t.UTC().Format(time.RFC3339)
	return true
}

// ValidateOpportunity checks raw JSON against the opportunity schema and
// decodes it. Schema violations and decode failures are ValidationErrors.
func ValidateOpportunity(data []byte) (*domain.Opportunity, error) {
	schema, err := compileOnce()
	if err != nil {
		return nil, domain.NewConfigurationError("opportunity schema is invalid: %v", err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, domain.NewValidationError("opportunity payload is not valid JSON: %v", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, domain.NewValidationError("opportunity payload does not match schema: %v", err)
	}
	if m, ok := raw.(map[string]any); ok && normalizeDeadline(m) {
		if data, err = json.Marshal(m); err != nil {
			return nil, domain.NewValidationError("re-encode opportunity payload: %v", err)
		}
	}
	var opp domain.Opportunity
	if err := json.Unmarshal(data, &opp); err != nil {
		return nil, domain.NewValidationError("decode opportunity payload: %v", err)
	}
	if err := opp.Validate(); err != nil {
		return nil, err
	}
	return &opp, nil
}
