package domain

// WireProject identifies the design-tool project a wireframe belongs to.
type WireProject struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// WireSection mirrors a resolved section and carries placeholder copy keyed
// by layer name. Keys are lowercase alphanumeric tokens; the consumer matches
// them case- and punctuation-insensitively.
type WireSection struct {
	Kind         string            `json:"kind"`
	Variant      string            `json:"variant"`
	Placeholders map[string]string `json:"placeholders"`
}

// WirePage is the wireframe view of one page.
type WirePage struct {
	PageID   string        `json:"page_id"`
	Sections []WireSection `json:"sections"`
	Notes    []string      `json:"notes,omitempty"`
}

// WireDraft is the wireframe feed handed to the design-tool consumer.
// It is a one-to-one shadow of the Structure it was built from.
type WireDraft struct {
	Project WireProject `json:"project"`
	Frames  []string    `json:"frames"`
	Pages   []WirePage  `json:"pages"`
}
