package generate

import (
	"math"
	"sort"
	"time"

	"github.com/drafterhq/drafter/internal/dict"
	"github.com/drafterhq/drafter/internal/domain"
)

// CalcEstimate turns the resolved structure into itemized hours and cost.
// One line is produced per distinct section kind (hours summed across all
// pages) plus derived IA and PM overhead lines, then the dictionary's
// coefficient rules are evaluated in declared order over the aggregate.
func CalcEstimate(d *dict.Dictionary, structure *domain.Structure, opp *domain.Opportunity, now time.Time) (*domain.Estimate, error) {
	sectionCount := structure.SectionCount()

	iaRate, ok := d.Rate(d.IARole)
	if !ok {
		return nil, domain.NewConfigurationError("no rate for role %q (dictionary %s)", d.IARole, d.Version)
	}
	items := []domain.LineItem{{
		Item:  "IA (site map and requirements)",
		Qty:   1,
		Hours: roundHours(math.Max(4.0, 1.5*float64(sectionCount))),
		Rate:  iaRate,
		Role:  d.IARole,
	}}

	// Aggregate per kind in first-appearance order.
	type kindAgg struct {
		label string
		role  string
		hours float64
		count int
	}
	var order []string
	byKind := map[string]*kindAgg{}
	for _, page := range structure.SiteMap {
		for _, section := range page.Sections {
			def, ok := d.Section(section.Kind)
			if !ok {
				return nil, domain.NewConfigurationError("section kind %q missing from catalog (dictionary %s)", section.Kind, d.Version)
			}
			agg, seen := byKind[section.Kind]
			if !seen {
				agg = &kindAgg{label: def.Label, role: def.Role}
				byKind[section.Kind] = agg
				order = append(order, section.Kind)
			}
			agg.hours += section.DesignHours
			agg.count++
		}
	}
	for _, kind := range order {
		agg := byKind[kind]
		rate, ok := d.Rate(agg.role)
		if !ok {
			return nil, domain.NewConfigurationError("no rate for role %q referenced by section %q (dictionary %s)", agg.role, kind, d.Version)
		}
		items = append(items, domain.LineItem{
			Item:  agg.label,
			Qty:   float64(agg.count),
			Hours: roundHours(agg.hours),
			Rate:  rate,
			Role:  agg.role,
		})
	}

	pmRate, ok := d.Rate(d.PMRole)
	if !ok {
		return nil, domain.NewConfigurationError("no rate for role %q (dictionary %s)", d.PMRole, d.Version)
	}
	items = append(items, domain.LineItem{
		Item:  "PM (progress management and reviews)",
		Qty:   1,
		Hours: roundHours(math.Max(4.0, 0.6*float64(len(items)))),
		Rate:  pmRate,
		Role:  d.PMRole,
	})

	ruleCtx := dict.RuleContext{
		Opportunity: opp,
		Structure:   structure,
		LineItems:   items,
		Now:         now,
	}
	var applied []domain.AppliedCoefficient
	assumptions := append([]string(nil), d.Assumptions...)
	assets := make([]string, 0, len(d.AssetNotes))
	for asset := range d.AssetNotes {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	for _, asset := range assets {
		note := d.AssetNotes[asset]
		text := note.Supplied
		if dict.AssetMissing(asset)(ruleCtx) {
			text = note.Missing
		}
		if text != "" {
			assumptions = append(assumptions, text)
		}
	}
	for _, rule := range d.Coefficients {
		coeff := rule.Evaluate(ruleCtx)
		if coeff == nil {
			continue
		}
		applied = append(applied, *coeff)
		if rule.Assumption != "" {
			assumptions = append(assumptions, rule.Assumption)
		}
	}

	return &domain.Estimate{
		LineItems:    items,
		Coefficients: applied,
		Assumptions:  dedupe(assumptions),
		Currency:     d.Currency,
	}, nil
}

func roundHours(h float64) float64 {
	return math.Round(h*10) / 10
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
