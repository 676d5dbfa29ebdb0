package generate

import (
	"fmt"
	"strings"

	"github.com/drafterhq/drafter/internal/dict"
	"github.com/drafterhq/drafter/internal/domain"
)

// DefaultFrames are the target frame names the wireframe consumer renders.
var DefaultFrames = []string{"Desktop", "Tablet", "Mobile"}

// ComposeWire shadows the structure with placeholder copy for the design
// tool. It is total: a section kind without a placeholder template yields an
// empty map, never an error, so the consumer can still render a dashed
// placeholder for it.
func ComposeWire(d *dict.Dictionary, structure *domain.Structure, opp *domain.Opportunity) *domain.WireDraft {
	replacer := strings.NewReplacer(
		"{company}", opp.Company,
		"{goal}", goalPhrase(opp),
		"{persona}", orDefault(opp.Persona, "your target customer"),
		"{budget}", orDefault(opp.BudgetBand, "to be discussed"),
	)

	pages := make([]domain.WirePage, 0, len(structure.SiteMap))
	for _, page := range structure.SiteMap {
		sections := make([]domain.WireSection, 0, len(page.Sections))
		for _, section := range page.Sections {
			placeholders := map[string]string{}
			if def, ok := d.Section(section.Kind); ok {
				for key, tmpl := range def.Placeholders {
					placeholders[dict.PlaceholderKey(key)] = replacer.Replace(tmpl)
				}
			}
			sections = append(sections, domain.WireSection{
				Kind:         section.Kind,
				Variant:      section.Variant,
				Placeholders: placeholders,
			})
		}
		pages = append(pages, domain.WirePage{
			PageID:   page.PageID,
			Sections: sections,
			Notes:    page.Notes,
		})
	}

	return &domain.WireDraft{
		Project: domain.WireProject{
			ID:    opp.ID,
			Title: fmt.Sprintf("%s %s", opp.Company, opp.Title),
		},
		Frames: append([]string(nil), DefaultFrames...),
		Pages:  pages,
	}
}

func goalPhrase(opp *domain.Opportunity) string {
	goal := strings.TrimSpace(opp.Goal)
	if goal == "" {
		return "measurable results"
	}
	return goal
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
