package domain

// SiteType categorizes an opportunity and selects which page preset applies.
type SiteType string

const (
	SiteTypeLanding   SiteType = "landing-page"
	SiteTypeCorporate SiteType = "corporate-site"
	SiteTypeService   SiteType = "service-site"
)

// ResolvedSection is one section of a page after dictionary resolution.
// Kind and Variant are stable strings matched case-sensitively by the
// wireframe consumer.
type ResolvedSection struct {
	Kind        string  `json:"kind"`
	Variant     string  `json:"variant"`
	Height      int     `json:"h"`
	DesignHours float64 `json:"design_hours"`
}

// PageSpec is one page of the site map with its sections in render order.
type PageSpec struct {
	PageID   string            `json:"page_id"`
	Sections []ResolvedSection `json:"sections"`
	Notes    []string          `json:"notes,omitempty"`
}

// Structure is the resolved site map for an opportunity. It is built once
// per generation and never mutated afterwards.
type Structure struct {
	SiteType   SiteType   `json:"site_type"`
	SiteMap    []PageSpec `json:"site_map"`
	Flows      []string   `json:"flows,omitempty"`
	Uncertains []string   `json:"uncertains,omitempty"`
	Risks      []string   `json:"risks,omitempty"`
}

// SectionCount returns the total number of sections across all pages.
func (s *Structure) SectionCount() int {
	n := 0
	for _, page := range s.SiteMap {
		n += len(page.Sections)
	}
	return n
}
