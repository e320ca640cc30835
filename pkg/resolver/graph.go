package resolver

import (
	"github.com/matzehuels/cargoplan/pkg/dag"
	"github.com/matzehuels/cargoplan/pkg/descriptor"
	"github.com/matzehuels/cargoplan/pkg/plan"
)

// Node metadata keys set by Graph.
const (
	MetaKind      = "kind"      // "package", "feature" or "dependency"
	MetaLabel     = "label"     // display name (dependency IDs carry a prefix)
	MetaOptional  = "optional"  // dependency declared optional
	MetaActivated = "activated" // node is part of the resolved plan
)

// depNodePrefix disambiguates dependency node IDs from feature nodes;
// a feature and a dependency may share a name.
const depNodePrefix = "dep:"

// Graph builds the feature-activation graph of a descriptor: the package
// and its features and dependencies as nodes, activation references as
// edges. If p is non-nil, nodes that are part of the resolved plan are
// marked with the "activated" metadata key for rendering.
func Graph(d *descriptor.Descriptor, p *plan.Plan) *dag.Graph {
	g := dag.New()

	root := d.Package.Name
	_ = g.AddNode(dag.Node{ID: root, Meta: dag.Metadata{
		MetaKind:  "package",
		MetaLabel: root,
	}})

	for _, name := range d.FeatureNames() {
		meta := dag.Metadata{MetaKind: "feature", MetaLabel: name}
		if p != nil && p.HasFeature(name) {
			meta[MetaActivated] = true
		}
		_ = g.AddNode(dag.Node{ID: name, Meta: meta})
	}

	for _, sec := range descriptor.Sections {
		for name, dep := range d.DepsIn(sec) {
			meta := dag.Metadata{MetaKind: "dependency", MetaLabel: name}
			if dep.Optional {
				meta[MetaOptional] = true
			}
			if p != nil {
				if _, ok := p.Dependency(name); ok {
					meta[MetaActivated] = true
				}
			}
			// Same name across sections becomes one node; first section wins.
			_ = g.AddNode(dag.Node{ID: depNodePrefix + name, Meta: meta})
		}
	}

	for _, name := range d.FeatureNames() {
		for _, entry := range d.Features[name] {
			ref, err := descriptor.ParseFeatureRef(entry)
			if err != nil {
				continue
			}
			switch ref.Kind {
			case descriptor.RefFeature:
				_ = g.AddEdge(dag.Edge{From: name, To: ref.Feature})
			default:
				_ = g.AddEdge(dag.Edge{From: name, To: depNodePrefix + ref.Dep})
			}
		}
	}

	// The package points at its features and its always-on dependencies.
	for _, name := range d.FeatureNames() {
		_ = g.AddEdge(dag.Edge{From: root, To: name})
	}
	for name, dep := range d.Dependencies {
		if !dep.Optional {
			_ = g.AddEdge(dag.Edge{From: root, To: depNodePrefix + name})
		}
	}

	return g
}
