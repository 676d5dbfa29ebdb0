package dict

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/drafterhq/drafter/internal/domain"
)

// Condition is the declarative form of a coefficient predicate in a
// dictionary file. Exactly one field must be set.
type Condition struct {
	DeadlineWithinDays *int    `yaml:"deadline_within_days,omitempty"`
	AssetMissing       *string `yaml:"asset_missing,omitempty"`
	NotesContain       *string `yaml:"notes_contain,omitempty"`
	MinSections        *int    `yaml:"min_sections,omitempty"`
}

// Compile turns the declarative condition into an executable predicate.
func (c Condition) Compile() (Predicate, error) {
	var preds []Predicate
	if c.DeadlineWithinDays != nil {
		preds = append(preds, DeadlineWithinDays(*c.DeadlineWithinDays))
	}
	if c.AssetMissing != nil {
		preds = append(preds, AssetMissing(*c.AssetMissing))
	}
	if c.NotesContain != nil {
		preds = append(preds, NotesContain(*c.NotesContain))
	}
	if c.MinSections != nil {
		preds = append(preds, SectionCountAtLeast(*c.MinSections))
	}
	switch len(preds) {
	case 0:
		return nil, domain.NewConfigurationError("coefficient condition is empty")
	case 1:
		return preds[0], nil
	default:
		return nil, domain.NewConfigurationError("coefficient condition must set exactly one field")
	}
}

type fileCoefficient struct {
	Name       string    `yaml:"name"`
	Multiplier float64   `yaml:"multiplier"`
	Reason     string    `yaml:"reason"`
	Assumption string    `yaml:"assumption,omitempty"`
	When       Condition `yaml:"when"`
}

type file struct {
	Version         string                             `yaml:"version"`
	DefaultSiteType domain.SiteType                    `yaml:"default_site_type"`
	Currency        string                             `yaml:"currency"`
	IARole          string                             `yaml:"ia_role"`
	PMRole          string                             `yaml:"pm_role"`
	Sections        []SectionDef                       `yaml:"sections"`
	Presets         map[domain.SiteType][]PagePreset   `yaml:"presets"`
	SiteTypeRules   []SiteTypeRule                     `yaml:"site_type_rules"`
	Rates           map[string]float64                 `yaml:"rates"`
	Assumptions     []string                           `yaml:"assumptions"`
	AssetNotes      map[string]AssetNote               `yaml:"asset_notes"`
	Coefficients    []fileCoefficient                  `yaml:"coefficients"`
}

// Parse decodes and validates a dictionary payload. Fields left out of the
// file fall back to their builtin defaults, so a file can override only the
// tables a studio actually customizes.
func Parse(data []byte) (*Dictionary, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, domain.NewConfigurationError("dictionary payload is empty")
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("dict: decode dictionary: %w", err)
	}

	d := Default()
	if f.Version != "" {
		d.Version = f.Version
	}
	if f.DefaultSiteType != "" {
		d.DefaultSiteType = f.DefaultSiteType
	}
	if f.Currency != "" {
		d.Currency = f.Currency
	}
	if f.IARole != "" {
		d.IARole = f.IARole
	}
	if f.PMRole != "" {
		d.PMRole = f.PMRole
	}
	if len(f.Sections) > 0 {
		d.Sections = make(map[string]SectionDef, len(f.Sections))
		for _, def := range f.Sections {
			if _, dup := d.Sections[def.Kind]; dup {
				return nil, domain.NewConfigurationError("dictionary %s: duplicate section kind %q", d.Version, def.Kind)
			}
			d.Sections[def.Kind] = def
		}
	}
	if len(f.Presets) > 0 {
		d.Presets = f.Presets
	}
	if len(f.SiteTypeRules) > 0 {
		d.SiteTypeRules = f.SiteTypeRules
	}
	if len(f.Rates) > 0 {
		d.Rates = f.Rates
	}
	if len(f.Assumptions) > 0 {
		d.Assumptions = f.Assumptions
	}
	if len(f.AssetNotes) > 0 {
		d.AssetNotes = f.AssetNotes
	}
	if len(f.Coefficients) > 0 {
		rules := make([]CoefficientRule, 0, len(f.Coefficients))
		for _, fc := range f.Coefficients {
			when, err := fc.When.Compile()
			if err != nil {
				return nil, fmt.Errorf("dict: coefficient %q: %w", fc.Name, err)
			}
			rules = append(rules, CoefficientRule{
				Name:       fc.Name,
				Multiplier: fc.Multiplier,
				Reason:     fc.Reason,
				Assumption: fc.Assumption,
				When:       when,
			})
		}
		d.Coefficients = rules
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadFile reads and parses a dictionary YAML file from disk.
func LoadFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dict: read %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("dict: %s: %w", path, err)
	}
	return d, nil
}
