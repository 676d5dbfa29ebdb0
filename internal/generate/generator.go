// Package generate implements the deterministic proposal pipeline: site type
// inference, structure resolution, wireframe composition, cost estimation and
// the human-readable summary, orchestrated as one pure function of the
// opportunity and a dictionary snapshot.
package generate

import (
	"time"

	"github.com/drafterhq/drafter/internal/dict"
	"github.com/drafterhq/drafter/internal/domain"
)

// Generator composes the pipeline stages. It performs no I/O and holds no
// mutable state; the clock is injected so deadline math is reproducible.
type Generator struct {
	dict *dict.Handle
	now  func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the evaluation clock, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New creates a Generator reading dictionary snapshots from handle.
func New(handle *dict.Handle, opts ...Option) *Generator {
	g := &Generator{dict: handle, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs the full pipeline. Each invocation takes one dictionary
// snapshot up front, so a concurrent dictionary swap can not leave a run
// observing mixed versions. The same opportunity and dictionary version
// always produce the same bundle.
func (g *Generator) Generate(opp *domain.Opportunity) (*domain.Outputs, error) {
	if err := opp.Validate(); err != nil {
		return nil, err
	}

	d := g.dict.Current()
	now := g.now().UTC()

	siteType := d.InferSiteType(opp)
	structure, err := ResolveStructure(d, opp, siteType, now)
	if err != nil {
		return nil, err
	}
	wire := ComposeWire(d, structure, opp)
	estimate, err := CalcEstimate(d, structure, opp, now)
	if err != nil {
		return nil, err
	}
	summary := RenderSummary(opp, structure, estimate)

	return &domain.Outputs{
		Structure: structure,
		Wire:      wire,
		Estimate:  estimate,
		Summary:   summary,
	}, nil
}
