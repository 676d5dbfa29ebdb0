// Package dict holds the domain dictionary: the static lookup tables the
// generation pipeline branches on. A Dictionary is immutable after Validate;
// runtime updates replace the whole table through a Handle.
package dict

import (
	"strings"
	"time"

	"github.com/drafterhq/drafter/internal/domain"
)

// SectionDef is a catalog entry for one section kind.
type SectionDef struct {
	Kind        string            `yaml:"kind"`
	Label       string            `yaml:"label"`
	Variant     string            `yaml:"variant"`
	DesignHours float64           `yaml:"design_hours"`
	Height      int               `yaml:"height"`
	Role        string            `yaml:"role"`
	// Placeholders maps layer-name keys to wire copy templates. Keys must
	// be lowercase alphanumeric; templates may interpolate {company},
	// {goal}, {persona} and {budget}.
	Placeholders map[string]string `yaml:"placeholders,omitempty"`
}

// PlaceholderKey normalizes a template key to the lowercase alphanumeric
// form the layer-name matching contract requires. This function is the
// single owner of that contract; Validate uses it to reject catalogs whose
// keys would collide after normalization.
func PlaceholderKey(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// AssetNote pairs the estimate assumption texts for one client asset. The
// Supplied text is emitted unless the asset flag is explicitly false, in
// which case Missing is emitted instead. An empty variant emits nothing.
type AssetNote struct {
	Supplied string `yaml:"supplied,omitempty"`
	Missing  string `yaml:"missing,omitempty"`
}

// PagePreset maps a page archetype to its ordered section kinds.
type PagePreset struct {
	PageID   string   `yaml:"page_id"`
	Sections []string `yaml:"sections"`
	Notes    []string `yaml:"notes,omitempty"`
}

// SiteTypeRule is one keyword rule for site type inference. Rules are
// evaluated in declared order; the first match wins.
type SiteTypeRule struct {
	Keywords []string        `yaml:"keywords"`
	SiteType domain.SiteType `yaml:"site_type"`
}

// RuleContext is what a coefficient predicate may inspect.
type RuleContext struct {
	Opportunity *domain.Opportunity
	Structure   *domain.Structure
	LineItems   []domain.LineItem
	Now         time.Time
}

// Predicate decides whether a coefficient rule applies.
type Predicate func(RuleContext) bool

// CoefficientRule is one named multiplicative cost adjustment. Every rule is
// evaluated on every run (no short-circuiting) so the applied trace is a
// complete audit of the dictionary.
type CoefficientRule struct {
	Name       string
	Multiplier float64
	Reason     string
	// Assumption, when non-empty, is appended to the estimate assumptions
	// if the rule fires.
	Assumption string
	When       Predicate
}

// Evaluate returns the applied coefficient if the rule fires, or nil.
func (r CoefficientRule) Evaluate(ctx RuleContext) *domain.AppliedCoefficient {
	if r.When == nil || !r.When(ctx) {
		return nil
	}
	return &domain.AppliedCoefficient{Name: r.Name, Multiplier: r.Multiplier, Reason: r.Reason}
}

// Dictionary is one immutable version of all lookup tables.
type Dictionary struct {
	Version         string
	Sections        map[string]SectionDef
	Presets         map[domain.SiteType][]PagePreset
	SiteTypeRules   []SiteTypeRule
	DefaultSiteType domain.SiteType
	Rates           map[string]float64
	IARole          string
	PMRole          string
	Coefficients    []CoefficientRule
	Assumptions     []string
	// AssetNotes holds per-asset assumption texts keyed by asset name
	// ("copy", "photo", "logo").
	AssetNotes map[string]AssetNote
	Currency   string
}

// Section resolves a section kind from the catalog.
func (d *Dictionary) Section(kind string) (SectionDef, bool) {
	def, ok := d.Sections[kind]
	return def, ok
}

// Rate resolves the hourly rate for a role.
func (d *Dictionary) Rate(role string) (float64, bool) {
	rate, ok := d.Rates[role]
	return rate, ok
}

// Validate checks referential consistency of the whole dictionary. It is
// called at load time so a preset referencing an unregistered section kind
// is rejected before any job is accepted.
func (d *Dictionary) Validate() error {
	if len(d.Sections) == 0 {
		return domain.NewConfigurationError("dictionary %s: section catalog is empty", d.Version)
	}
	if len(d.Presets) == 0 {
		return domain.NewConfigurationError("dictionary %s: no page presets registered", d.Version)
	}
	for kind, def := range d.Sections {
		normalized := make(map[string]string, len(def.Placeholders))
		for key := range def.Placeholders {
			norm := PlaceholderKey(key)
			if norm == "" {
				return domain.NewConfigurationError(
					"dictionary %s: section %q placeholder key %q normalizes to nothing",
					d.Version, kind, key)
			}
			if prev, dup := normalized[norm]; dup {
				return domain.NewConfigurationError(
					"dictionary %s: section %q placeholder keys %q and %q collide after normalization",
					d.Version, kind, prev, key)
			}
			normalized[norm] = key
		}
	}
	for asset := range d.AssetNotes {
		switch asset {
		case "copy", "photo", "logo":
		default:
			return domain.NewConfigurationError("dictionary %s: asset note for unknown asset %q", d.Version, asset)
		}
	}
	for siteType, presets := range d.Presets {
		if len(presets) == 0 {
			return domain.NewConfigurationError("dictionary %s: site type %q has no pages", d.Version, siteType)
		}
		for _, preset := range presets {
			if preset.PageID == "" {
				return domain.NewConfigurationError("dictionary %s: site type %q has a preset without page id", d.Version, siteType)
			}
			for _, kind := range preset.Sections {
				def, ok := d.Sections[kind]
				if !ok {
					return domain.NewConfigurationError(
						"dictionary %s: preset %q references unregistered section kind %q",
						d.Version, preset.PageID, kind)
				}
				if def.DesignHours < 0 {
					return domain.NewConfigurationError("dictionary %s: section %q has negative design hours", d.Version, kind)
				}
				if _, ok := d.Rates[def.Role]; !ok {
					return domain.NewConfigurationError("dictionary %s: no rate for role %q (section %q)", d.Version, def.Role, kind)
				}
			}
		}
	}
	if _, ok := d.Presets[d.DefaultSiteType]; !ok {
		return domain.NewConfigurationError("dictionary %s: default site type %q has no preset", d.Version, d.DefaultSiteType)
	}
	for _, rule := range d.SiteTypeRules {
		if _, ok := d.Presets[rule.SiteType]; !ok {
			return domain.NewConfigurationError("dictionary %s: site type rule targets %q which has no preset", d.Version, rule.SiteType)
		}
	}
	for role, rate := range d.Rates {
		if rate <= 0 {
			return domain.NewConfigurationError("dictionary %s: rate for role %q must be positive", d.Version, role)
		}
	}
	if _, ok := d.Rates[d.IARole]; !ok {
		return domain.NewConfigurationError("dictionary %s: no rate for IA role %q", d.Version, d.IARole)
	}
	if _, ok := d.Rates[d.PMRole]; !ok {
		return domain.NewConfigurationError("dictionary %s: no rate for PM role %q", d.Version, d.PMRole)
	}
	for _, rule := range d.Coefficients {
		if rule.Multiplier <= 0 {
			return domain.NewConfigurationError("dictionary %s: coefficient %q multiplier must be positive", d.Version, rule.Name)
		}
		if rule.When == nil {
			return domain.NewConfigurationError("dictionary %s: coefficient %q has no condition", d.Version, rule.Name)
		}
	}
	return nil
}
