package dict

import (
	"strings"

	"github.com/drafterhq/drafter/internal/domain"
)

// DeadlineWithinDays fires when the opportunity deadline is set and falls
// within the given number of days from the evaluation clock.
func DeadlineWithinDays(days int) Predicate {
	return func(ctx RuleContext) bool {
		opp := ctx.Opportunity
		if opp == nil || opp.Deadline == nil {
			return false
		}
		remaining := opp.Deadline.Sub(ctx.Now).Hours() / 24
		return remaining < float64(days)
	}
}

// AssetMissing fires when the named asset flag is explicitly false. An
// unset flag does not fire: unknown availability is an uncertainty, not a
// confirmed gap.
func AssetMissing(asset string) Predicate {
	return func(ctx RuleContext) bool {
		if ctx.Opportunity == nil {
			return false
		}
		switch asset {
		case "copy":
			return ctx.Opportunity.Assets.CopyMissing()
		case "photo":
			return ctx.Opportunity.Assets.PhotoMissing()
		case "logo":
			return ctx.Opportunity.Assets.Logo != nil && !*ctx.Opportunity.Assets.Logo
		default:
			return false
		}
	}
}

// NotesContain fires when the opportunity notes contain the substring,
// case-insensitively.
func NotesContain(substr string) Predicate {
	needle := strings.ToLower(substr)
	return func(ctx RuleContext) bool {
		if ctx.Opportunity == nil {
			return false
		}
		return strings.Contains(strings.ToLower(ctx.Opportunity.Notes), needle)
	}
}

// SectionCountAtLeast fires when the resolved structure has at least n
// sections in total.
func SectionCountAtLeast(n int) Predicate {
	return func(ctx RuleContext) bool {
		return ctx.Structure != nil && ctx.Structure.SectionCount() >= n
	}
}

// InferSiteType scans the opportunity's goal, title and must-have strings
// against the dictionary's ordered keyword rules. The first matching rule
// wins; no match falls back to the dictionary default. The result is
// deterministic for a given opportunity and dictionary version.
func (d *Dictionary) InferSiteType(opp *domain.Opportunity) domain.SiteType {
	var haystack strings.Builder
	haystack.WriteString(strings.ToLower(opp.Goal))
	haystack.WriteByte(' ')
	haystack.WriteString(strings.ToLower(opp.Title))
	for _, must := range opp.MustHave {
		haystack.WriteByte(' ')
		haystack.WriteString(strings.ToLower(must))
	}
	text := haystack.String()
	for _, rule := range d.SiteTypeRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return rule.SiteType
			}
		}
	}
	return d.DefaultSiteType
}
