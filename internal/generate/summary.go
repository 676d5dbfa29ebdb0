package generate

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/drafterhq/drafter/internal/domain"
)

var groupedDigits = message.NewPrinter(language.English)

// RenderSummary formats the condensed report for humans. The output is a
// pure function of its inputs, byte for byte, so it can be golden-file
// tested.
func RenderSummary(opp *domain.Opportunity, structure *domain.Structure, estimate *domain.Estimate) string {
	var b strings.Builder

	b.WriteString("## Proposal Summary\n")
	fmt.Fprintf(&b, "- Opportunity: %s\n", opp.ID)
	fmt.Fprintf(&b, "- Goal: %s\n", opp.Goal)
	fmt.Fprintf(&b, "- Site type: %s\n", structure.SiteType)
	fmt.Fprintf(&b, "- Sections: %d\n", structure.SectionCount())
	fmt.Fprintf(&b, "- Base estimate: %s\n", formatAmount(estimate.Currency, estimate.BaseCost()))
	fmt.Fprintf(&b, "- Adjusted estimate: %s\n", formatAmount(estimate.Currency, estimate.FinalCost()))

	b.WriteString("\n## Coefficients\n")
	if len(estimate.Coefficients) == 0 {
		b.WriteString("- none\n")
	}
	for _, c := range estimate.Coefficients {
		fmt.Fprintf(&b, "- %s ×%.2f (%s)\n", c.Name, c.Multiplier, c.Reason)
	}

	b.WriteString("\n## Assumptions\n")
	writeList(&b, estimate.Assumptions)

	b.WriteString("\n## Uncertainties\n")
	writeList(&b, structure.Uncertains)

	b.WriteString("\n## Risks\n")
	writeList(&b, structure.Risks)

	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString("- none\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func formatAmount(currency string, amount int64) string {
	grouped := groupedDigits.Sprintf("%d", amount)
	if currency == "JPY" {
		return "¥" + grouped
	}
	return fmt.Sprintf("%s %s", currency, grouped)
}
