package dict

import (
	"strings"
	"testing"
	"time"

	"github.com/drafterhq/drafter/internal/domain"
)

func TestDefaultDictionaryValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("builtin dictionary failed validation: %v", err)
	}
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	b := Default()
	delete(a.Sections, "Hero")
	if _, ok := b.Sections["Hero"]; !ok {
		t.Fatalf("mutating one dictionary leaked into another")
	}
}

func TestValidateRejectsUnregisteredSectionKind(t *testing.T) {
	d := Default()
	d.Presets[domain.SiteTypeLanding] = []PagePreset{{
		PageID:   "top",
		Sections: []string{"Hero", "Carousel"},
	}}
	err := d.Validate()
	if err == nil {
		t.Fatalf("expected validation failure for unregistered kind")
	}
	if !strings.Contains(err.Error(), "Carousel") {
		t.Fatalf("error should name the offending kind: %v", err)
	}
}

func TestValidateRejectsMissingRate(t *testing.T) {
	d := Default()
	delete(d.Rates, RolePM)
	if err := d.Validate(); err == nil {
		t.Fatalf("expected validation failure for missing PM rate")
	}
}

func TestValidateRejectsCollidingPlaceholderKeys(t *testing.T) {
	d := Default()
	hero := d.Sections["Hero"]
	hero.Placeholders = map[string]string{"col1": "first", "col-1": "second"}
	d.Sections["Hero"] = hero
	err := d.Validate()
	if err == nil {
		t.Fatalf("expected validation failure for colliding placeholder keys")
	}
	if !strings.Contains(err.Error(), "collide") {
		t.Fatalf("error should report the collision: %v", err)
	}
}

func TestValidateRejectsEmptyPlaceholderKey(t *testing.T) {
	d := Default()
	hero := d.Sections["Hero"]
	hero.Placeholders = map[string]string{"---": "value"}
	d.Sections["Hero"] = hero
	if err := d.Validate(); err == nil {
		t.Fatalf("expected validation failure for a key that normalizes to nothing")
	}
}

func TestValidateRejectsUnknownAssetNote(t *testing.T) {
	d := Default()
	d.AssetNotes["video"] = AssetNote{Missing: "Video production is quoted separately"}
	err := d.Validate()
	if err == nil {
		t.Fatalf("expected validation failure for unknown asset note key")
	}
	if !strings.Contains(err.Error(), "video") {
		t.Fatalf("error should name the offending asset: %v", err)
	}
}

func TestValidateRejectsNonPositiveMultiplier(t *testing.T) {
	d := Default()
	d.Coefficients[0].Multiplier = 0
	if err := d.Validate(); err == nil {
		t.Fatalf("expected validation failure for zero multiplier")
	}
}

func TestInferSiteType(t *testing.T) {
	d := Default()
	cases := []struct {
		name string
		opp  domain.Opportunity
		want domain.SiteType
	}{
		{
			name: "goal keyword",
			opp:  domain.Opportunity{Goal: "Lead generation for spring"},
			want: domain.SiteTypeLanding,
		},
		{
			name: "title keyword",
			opp:  domain.Opportunity{Goal: "improve presence", Title: "Recruiting site refresh"},
			want: domain.SiteTypeCorporate,
		},
		{
			name: "must-have keyword",
			opp:  domain.Opportunity{Goal: "grow", MustHave: []string{"service catalog"}},
			want: domain.SiteTypeService,
		},
		{
			name: "first rule wins",
			opp:  domain.Opportunity{Goal: "landing page for recruiting push"},
			want: domain.SiteTypeLanding,
		},
		{
			name: "fallback",
			opp:  domain.Opportunity{Goal: "general refresh"},
			want: domain.SiteTypeLanding,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.InferSiteType(&tc.opp); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDeadlineWithinDays(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	pred := DeadlineWithinDays(45)

	soon := now.AddDate(0, 0, 30)
	if !pred(RuleContext{Opportunity: &domain.Opportunity{Deadline: &soon}, Now: now}) {
		t.Fatalf("30-day deadline should fire a 45-day rule")
	}
	far := now.AddDate(0, 0, 60)
	if pred(RuleContext{Opportunity: &domain.Opportunity{Deadline: &far}, Now: now}) {
		t.Fatalf("60-day deadline should not fire a 45-day rule")
	}
	if pred(RuleContext{Opportunity: &domain.Opportunity{}, Now: now}) {
		t.Fatalf("missing deadline should not fire")
	}
}

func TestAssetMissingDistinguishesUnsetFromFalse(t *testing.T) {
	pred := AssetMissing("copy")
	missing := false
	present := true

	if pred(RuleContext{Opportunity: &domain.Opportunity{}}) {
		t.Fatalf("unset flag must not count as missing")
	}
	if !pred(RuleContext{Opportunity: &domain.Opportunity{Assets: domain.Assets{Copy: &missing}}}) {
		t.Fatalf("explicit false must count as missing")
	}
	if pred(RuleContext{Opportunity: &domain.Opportunity{Assets: domain.Assets{Copy: &present}}}) {
		t.Fatalf("explicit true must not count as missing")
	}
}

func TestNotesContainIsCaseInsensitive(t *testing.T) {
	pred := NotesContain("cms")
	if !pred(RuleContext{Opportunity: &domain.Opportunity{Notes: "Client wants a CMS later"}}) {
		t.Fatalf("expected match on uppercase notes")
	}
	if pred(RuleContext{Opportunity: &domain.Opportunity{Notes: "static build only"}}) {
		t.Fatalf("unexpected match")
	}
}

func TestHandleSwapRejectsInvalidDictionary(t *testing.T) {
	handle, err := NewHandle(Default())
	if err != nil {
		t.Fatalf("new handle: %v", err)
	}
	before := handle.Current()

	broken := Default()
	broken.Sections = nil
	if err := handle.Swap(broken); err == nil {
		t.Fatalf("expected swap to be rejected")
	}
	if handle.Current() != before {
		t.Fatalf("rejected swap must keep the previous snapshot")
	}

	next := Default()
	next.Version = "v2"
	if err := handle.Swap(next); err != nil {
		t.Fatalf("valid swap failed: %v", err)
	}
	if handle.Current().Version != "v2" {
		t.Fatalf("swap not visible: got %q", handle.Current().Version)
	}
}

func TestNewHandleRejectsInvalidDictionary(t *testing.T) {
	broken := Default()
	broken.Presets = nil
	if _, err := NewHandle(broken); err == nil {
		t.Fatalf("expected handle construction to fail")
	}
}
