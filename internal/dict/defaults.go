package dict

import "github.com/drafterhq/drafter/internal/domain"

// Role names used by the default rate table.
const (
	RoleIA     = "IA"
	RoleDesign = "Design"
	RolePM     = "PM"
)

// Default returns the built-in dictionary. It is constructed fresh on every
// call so callers can never share mutable state through it.
func Default() *Dictionary {
	d := &Dictionary{
		Version: "builtin-v1",
		Sections: map[string]SectionDef{
			"Hero": {
				Kind: "Hero", Label: "Hero", Variant: "Center",
				DesignHours: 1.5, Height: 560, Role: RoleDesign,
				Placeholders: map[string]string{
					"headline": "{company} accelerates {goal}",
					"sub":      "Built for {persona}",
					"cta":      "Request the deck",
				},
			},
			"SocialProof": {
				Kind: "SocialProof", Label: "Social Proof", Variant: "LogosStrip",
				DesignHours: 1.0, Height: 240, Role: RoleDesign,
				Placeholders: map[string]string{
					"headline": "Trusted by teams like yours",
					"logos":    "Company A / Company B / Company C",
				},
			},
			"Features": {
				Kind: "Features", Label: "Features", Variant: "ThreeColsIcons",
				DesignHours: 1.4, Height: 520, Role: RoleDesign,
				Placeholders: map[string]string{
					"col1": "Feature one",
					"col2": "Feature two",
					"col3": "Feature three",
				},
			},
			"CaseStudies": {
				Kind: "CaseStudies", Label: "Case Studies", Variant: "CardsThree",
				DesignHours: 1.3, Height: 520, Role: RoleDesign,
				Placeholders: map[string]string{
					"title": "Selected results",
				},
			},
			"Offer": {
				Kind: "Offer", Label: "Offer", Variant: "PricingSimple",
				DesignHours: 1.2, Height: 480, Role: RoleDesign,
				Placeholders: map[string]string{
					"plan":   "Standard package",
					"budget": "Indicative budget: {budget}",
				},
			},
			"FAQ": {
				Kind: "FAQ", Label: "FAQ", Variant: "Accordion",
				DesignHours: 1.0, Height: 480, Role: RoleDesign,
				Placeholders: map[string]string{
					"q1": "How long does a typical build take?",
					"a1": "Answer placeholder",
				},
			},
			"CTA": {
				Kind: "CTA", Label: "CTA", Variant: "PrimaryBottom",
				DesignHours: 0.6, Height: 280, Role: RoleDesign,
				Placeholders: map[string]string{
					"cta": "Talk to us about {goal}",
				},
			},
			"Form": {
				Kind: "Form", Label: "Form", Variant: "ContactBasic",
				DesignHours: 1.2, Height: 560, Role: RoleDesign,
				Placeholders: map[string]string{
					"submit": "Send",
				},
			},
			"About": {
				Kind: "About", Label: "About", Variant: "Split",
				DesignHours: 1.1, Height: 480, Role: RoleDesign,
				Placeholders: map[string]string{
					"headline": "About {company}",
				},
			},
			"Services": {
				Kind: "Services", Label: "Services", Variant: "Grid",
				DesignHours: 1.3, Height: 560, Role: RoleDesign,
				Placeholders: map[string]string{
					"headline": "What we do",
				},
			},
		},
		Presets: map[domain.SiteType][]PagePreset{
			domain.SiteTypeLanding: {{
				PageID:   "top",
				Sections: []string{"Hero", "SocialProof", "Features", "CaseStudies", "Offer", "FAQ", "CTA", "Form"},
			}},
			domain.SiteTypeCorporate: {{
				PageID:   "home",
				Sections: []string{"Hero", "About", "Services", "CaseStudies", "FAQ", "CTA", "Form"},
			}},
			domain.SiteTypeService: {{
				PageID:   "home",
				Sections: []string{"Hero", "Services", "Features", "CaseStudies", "Offer", "CTA", "Form"},
			}},
		},
		SiteTypeRules: []SiteTypeRule{
			{Keywords: []string{"lead", "lp", "landing", "conversion"}, SiteType: domain.SiteTypeLanding},
			{Keywords: []string{"recruit", "hiring", "brand", "corporate"}, SiteType: domain.SiteTypeCorporate},
			{Keywords: []string{"service", "portfolio", "catalog"}, SiteType: domain.SiteTypeService},
		},
		DefaultSiteType: domain.SiteTypeLanding,
		Rates: map[string]float64{
			RoleIA:     12000,
			RoleDesign: 12000,
			RolePM:     12000,
		},
		IARole: RoleIA,
		PMRole: RolePM,
		Assumptions: []string{
			"CMS build is quoted separately",
			"Above-the-fold copy requires client sign-off",
		},
		AssetNotes: map[string]AssetNote{
			"photo": {
				Supplied: "Photo assets are assumed to be supplied by the client",
				Missing:  "Photo sourcing and licensing is quoted as a separate line",
			},
		},
		Currency: "JPY",
	}
	d.Coefficients = defaultCoefficients()
	return d
}

func defaultCoefficients() []CoefficientRule {
	return []CoefficientRule{
		{
			Name:       "rush-delivery",
			Multiplier: 1.15,
			Reason:     "deadline within 45 days",
			Assumption: "Rush schedule assumes client reviews within 2 business days",
			When:       DeadlineWithinDays(45),
		},
		{
			Name:       "copy-not-provided",
			Multiplier: 1.2,
			Reason:     "copy assets not supplied",
			Assumption: "Copywriting is produced jointly with the client",
			When:       AssetMissing("copy"),
		},
		{
			Name:       "cms-requirement",
			Multiplier: 1.1,
			Reason:     "notes request CMS integration",
			When:       NotesContain("cms"),
		},
	}
}
