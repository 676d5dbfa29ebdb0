package generate

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/drafterhq/drafter/internal/dict"
	"github.com/drafterhq/drafter/internal/domain"
)

var pageTitle = cases.Title(language.English)

// ResolveStructure expands the page preset registered for siteType into a
// concrete site map. Dictionary hours and heights are carried verbatim; the
// opportunity never mutates them, which keeps the estimate auditable back to
// the dictionary version.
func ResolveStructure(d *dict.Dictionary, opp *domain.Opportunity, siteType domain.SiteType, now time.Time) (*domain.Structure, error) {
	presets, ok := d.Presets[siteType]
	if !ok || len(presets) == 0 {
		return nil, domain.NewConfigurationError("no page preset registered for site type %q (dictionary %s)", siteType, d.Version)
	}

	pages := make([]domain.PageSpec, 0, len(presets))
	for _, preset := range presets {
		sections := make([]domain.ResolvedSection, 0, len(preset.Sections))
		for _, kind := range preset.Sections {
			def, ok := d.Section(kind)
			if !ok {
				return nil, domain.NewConfigurationError("preset %q references section kind %q missing from catalog (dictionary %s)", preset.PageID, kind, d.Version)
			}
			sections = append(sections, domain.ResolvedSection{
				Kind:        def.Kind,
				Variant:     def.Variant,
				Height:      def.Height,
				DesignHours: def.DesignHours,
			})
		}
		pages = append(pages, domain.PageSpec{
			PageID:   preset.PageID,
			Sections: sections,
			Notes:    preset.Notes,
		})
	}

	return &domain.Structure{
		SiteType:   siteType,
		SiteMap:    pages,
		Flows:      deriveFlows(pages),
		Uncertains: deriveUncertains(opp),
		Risks:      deriveRisks(opp, now),
	}, nil
}

func deriveFlows(pages []domain.PageSpec) []string {
	var flows []string
	for _, page := range pages {
		label := pageTitle.String(page.PageID)
		for _, section := range page.Sections {
			switch section.Kind {
			case "Form":
				flows = append(flows, fmt.Sprintf("%s→Form", label))
			case "CTA":
				flows = append(flows, fmt.Sprintf("%s→CTA", label))
			}
		}
	}
	if len(flows) == 0 {
		flows = []string{"Top→Form"}
	}
	return flows
}

func deriveUncertains(opp *domain.Opportunity) []string {
	var items []string
	if opp.Deadline == nil {
		items = append(items, "Deadline unconfirmed; needs a discovery call")
	}
	if opp.Assets.Copy == nil || opp.Assets.CopyMissing() {
		items = append(items, "Copy hand-off timing to be confirmed")
	}
	if opp.Assets.Photo == nil || opp.Assets.PhotoMissing() {
		items = append(items, "Photo sourcing approach to be confirmed")
	}
	if len(opp.MustHave) == 0 {
		items = append(items, "Must-have features not yet fixed")
	}
	return items
}

func deriveRisks(opp *domain.Opportunity, now time.Time) []string {
	var risks []string
	if opp.Deadline != nil && opp.Deadline.Sub(now).Hours()/24 < 45 {
		risks = append(risks, "Schedule pressure from the short deadline")
	}
	if opp.Assets.CopyMissing() {
		risks = append(risks, "Production delay while copy is outstanding")
	}
	for _, c := range opp.Constraints {
		if c != "" {
			risks = append(risks, fmt.Sprintf("Constraint may force rework: %s", c))
		}
	}
	return risks
}
