// Package plan defines the resolved build plan emitted by the resolver and
// its JSON serialization.
//
// A Plan is the deterministic output of feature-closure resolution: the
// package identity, the artifact kinds to produce, the activated feature
// set, and the full set of dependencies to fetch and link. Two resolutions
// of the same descriptor with the same requested features produce plans
// that differ only in ID and CreatedAt.
package plan

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a resolved build plan.
type Plan struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Package   Identity `json:"package"`
	LibName   string   `json:"lib_name"`
	Artifacts []string `json:"artifacts"` // normalized crate types, sorted

	Features     []string     `json:"features"` // activated features, sorted
	Dependencies []Dependency `json:"dependencies,omitempty"`
}

// Identity names the package the plan was resolved for.
type Identity struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Dependency is one resolved dependency to fetch and link.
type Dependency struct {
	Name    string `json:"name"`
	Source  string `json:"source"`  // version requirement, "path:..." or "workspace"
	Section string `json:"section"` // dependency table it came from

	Features        []string `json:"features,omitempty"` // enabled features, sorted
	DefaultFeatures bool     `json:"default_features"`
	Optional        bool     `json:"optional"` // was optional and feature-activated
}

// New creates an empty plan with a fresh UUID and timestamp.
func New(name, version string) *Plan {
	return &Plan{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Package:   Identity{Name: name, Version: version},
	}
}

// HasFeature reports whether the named feature was activated.
func (p *Plan) HasFeature(name string) bool {
	for _, f := range p.Features {
		if f == name {
			return true
		}
	}
	return false
}

// Dependency returns the resolved entry for name, if present.
func (p *Plan) Dependency(name string) (Dependency, bool) {
	for _, dep := range p.Dependencies {
		if dep.Name == name {
			return dep, true
		}
	}
	return Dependency{}, false
}
