// Package resolver computes build plans from package descriptors.
//
// Resolution is the deterministic transformation at the heart of cargoplan:
// given a validated descriptor and a requested feature set, compute the
// transitive closure of activated features and the corresponding set of
// dependencies to fetch and link. The same inputs always yield the same
// closure, independent of declaration order; all output slices are sorted.
//
// Resolution is a pure function of its inputs. It performs no I/O and
// emits a [plan.Plan] that callers serialize, persist, or hand to a build
// tool.
package resolver

import (
	"fmt"
	"slices"

	"github.com/matzehuels/cargoplan/pkg/descriptor"
	apperrors "github.com/matzehuels/cargoplan/pkg/errors"
	"github.com/matzehuels/cargoplan/pkg/plan"
)

// Options configures feature-closure resolution.
type Options struct {
	// NoDefaultFeatures skips the implicit activation of the "default"
	// feature's closure.
	NoDefaultFeatures bool
	// AllFeatures activates every feature the descriptor defines.
	AllFeatures bool
	// IncludeDev links the dev-dependencies table into the plan.
	IncludeDev bool
	// IncludeBuild links the build-dependencies table into the plan.
	IncludeBuild bool
	// Workspace provides the shared dependency table that entries declared
	// with `workspace = true` inherit from. When nil, the descriptor's own
	// [workspace.dependencies] table is used if present.
	Workspace map[string]descriptor.Dependency
}

// Resolve computes the build plan for the requested feature set.
//
// The descriptor must already have passed [descriptor.Validate]; Resolve
// only re-checks what depends on its own inputs: every requested feature
// must be defined (ErrCodeUnresolvedFeature), workspace-inherited entries
// must be provided by a workspace table (ErrCodeNotFound), and dependencies
// activated from multiple tables must agree on their source
// (ErrCodeFeatureConflict).
//
// Default semantics: an empty request resolves the "default" feature's
// closure; explicit requests are added on top of that closure unless
// Options.NoDefaultFeatures is set.
func Resolve(d *descriptor.Descriptor, requested []string, opts Options) (*plan.Plan, error) {
	r := &resolution{
		desc:     d,
		opts:     opts,
		features: map[string]bool{},
		deps:     map[string]*depActivation{},
	}

	if err := r.seed(requested); err != nil {
		return nil, err
	}
	if err := r.assemble(); err != nil {
		return nil, err
	}
	return r.plan(), nil
}

// depActivation accumulates per-dependency state while walking the closure.
type depActivation struct {
	activated bool            // switched on via dep: or dep/feature
	features  map[string]bool // dependency features enabled by our features
	weak      map[string]bool // dep?/feature entries, applied only if active
}

type resolution struct {
	desc     *descriptor.Descriptor
	opts     Options
	features map[string]bool
	deps     map[string]*depActivation

	resolved []plan.Dependency
}

// seed activates the initial feature set and walks its closure.
func (r *resolution) seed(requested []string) error {
	if r.opts.AllFeatures {
		for _, name := range r.desc.FeatureNames() {
			r.activate(name)
		}
		return nil
	}

	if !r.opts.NoDefaultFeatures {
		if _, ok := r.desc.Features["default"]; ok {
			r.activate("default")
		}
	}

	// Sorted so that the first error reported is deterministic.
	req := slices.Clone(requested)
	slices.Sort(req)
	for _, name := range req {
		if _, ok := r.desc.Features[name]; !ok {
			return apperrors.New(apperrors.ErrCodeUnresolvedFeature,
				"requested feature %q is not defined", name).WithField("features")
		}
		r.activate(name)
	}
	return nil
}

// activate marks a feature and walks its activation list. The visited set
// makes mutually-activating features terminate.
func (r *resolution) activate(name string) {
	if r.features[name] {
		return
	}
	r.features[name] = true

	for _, entry := range r.desc.Features[name] {
		// Entries were validated with the descriptor; skip anything
		// unparsable rather than failing a pure computation.
		ref, err := descriptor.ParseFeatureRef(entry)
		if err != nil {
			continue
		}
		switch ref.Kind {
		case descriptor.RefFeature:
			r.activate(ref.Feature)
		case descriptor.RefDep:
			r.dep(ref.Dep).activated = true
		case descriptor.RefDepFeature:
			st := r.dep(ref.Dep)
			st.activated = true
			st.features[ref.Feature] = true
		case descriptor.RefWeakDepFeature:
			r.dep(ref.Dep).weak[ref.Feature] = true
		}
	}
}

func (r *resolution) dep(name string) *depActivation {
	st, ok := r.deps[name]
	if !ok {
		st = &depActivation{features: map[string]bool{}, weak: map[string]bool{}}
		r.deps[name] = st
	}
	return st
}

// assemble walks the included dependency tables and materializes the
// resolved dependency set, checking cross-table source conflicts.
func (r *resolution) assemble() error {
	type included struct {
		entry   plan.Dependency
		section descriptor.Section
	}
	byName := map[string]*included{}

	for _, sec := range r.includedSections() {
		table := r.desc.DepsIn(sec)
		names := sortedKeys(table)

		for _, name := range names {
			dep, err := r.inherit(name, table[name], sec)
			if err != nil {
				return err
			}

			st := r.deps[name]
			if dep.Optional && (st == nil || !st.activated) {
				continue // not switched on by any activated feature
			}

			entry := r.materialize(name, dep, sec, st)
			prev, ok := byName[name]
			if !ok {
				byName[name] = &included{entry: entry, section: sec}
				continue
			}
			if prev.entry.Source != entry.Source {
				return apperrors.New(apperrors.ErrCodeFeatureConflict,
					"%q resolves to %q in %s but %q in %s",
					name, prev.entry.Source, prev.section, entry.Source, sec).
					WithField(fmt.Sprintf("%s.%s", sec, name))
			}
			prev.entry.Features = mergeSorted(prev.entry.Features, entry.Features)
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		r.resolved = append(r.resolved, byName[name].entry)
	}
	return nil
}

func (r *resolution) includedSections() []descriptor.Section {
	secs := []descriptor.Section{descriptor.SectionNormal}
	if r.opts.IncludeDev {
		secs = append(secs, descriptor.SectionDev)
	}
	if r.opts.IncludeBuild {
		secs = append(secs, descriptor.SectionBuild)
	}
	return secs
}

// inherit substitutes a workspace-inherited declaration with the entry from
// the workspace table, merging the member's feature additions.
func (r *resolution) inherit(name string, dep descriptor.Dependency, sec descriptor.Section) (descriptor.Dependency, error) {
	if !dep.Workspace {
		return dep, nil
	}

	table := r.opts.Workspace
	if table == nil && r.desc.Workspace != nil {
		table = r.desc.Workspace.Dependencies
	}
	base, ok := table[name]
	if !ok {
		return descriptor.Dependency{}, apperrors.New(apperrors.ErrCodeNotFound,
			"workspace dependency %q is not provided by any workspace table", name).
			WithField(fmt.Sprintf("%s.%s", sec, name))
	}

	merged := base
	merged.Features = append(slices.Clone(base.Features), dep.Features...)
	merged.Optional = dep.Optional
	if dep.DefaultFeatures != nil {
		merged.DefaultFeatures = dep.DefaultFeatures
	}
	return merged, nil
}

// materialize converts a declaration plus its activation state into a plan
// entry with a sorted, deduplicated feature list.
func (r *resolution) materialize(name string, dep descriptor.Dependency, sec descriptor.Section, st *depActivation) plan.Dependency {
	feats := map[string]bool{}
	for _, f := range dep.Features {
		feats[f] = true
	}
	if st != nil {
		for f := range st.features {
			feats[f] = true
		}
		// Weak references only apply once the dependency is known active.
		for f := range st.weak {
			feats[f] = true
		}
	}

	return plan.Dependency{
		Name:            name,
		Source:          dep.Source(),
		Section:         string(sec),
		Features:        sortedKeys(feats),
		DefaultFeatures: dep.UsesDefaultFeatures(),
		Optional:        dep.Optional,
	}
}

// plan assembles the final Plan value.
func (r *resolution) plan() *plan.Plan {
	p := plan.New(r.desc.Package.Name, r.desc.Package.Version)
	p.LibName = r.desc.LibName()
	p.Artifacts = r.desc.CrateTypes()
	p.Dependencies = r.resolved

	// "default" is an alias for its activation list, not a capability of
	// its own; it is not reported as an activated feature.
	for name := range r.features {
		if name != "default" {
			p.Features = append(p.Features, name)
		}
	}
	slices.Sort(p.Features)
	return p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func mergeSorted(a, b []string) []string {
	set := map[string]bool{}
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		set[s] = true
	}
	return sortedKeys(set)
}
