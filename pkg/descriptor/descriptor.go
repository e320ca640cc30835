// Package descriptor parses and validates Cargo-style package descriptors.
//
// A descriptor is a TOML document declaring a package's identity, its output
// artifact kinds, its dependencies, and named feature toggles:
//
//	[package]
//	name = "deltachat_ffi"
//	version = "1.112.0"
//
//	[lib]
//	name = "deltachat"
//	crate-type = ["cdylib", "staticlib"]
//
//	[dependencies]
//	deltachat = { path = "../deltachat", default-features = false }
//	deltachat-jsonrpc = { version = "1.112.0", optional = true }
//	libc = "0.2"
//
//	[features]
//	default = ["vendored"]
//	vendored = ["deltachat/vendored"]
//	jsonrpc = ["dep:deltachat-jsonrpc"]
//
// Parse produces a typed Descriptor or fails with a structured error; no
// partial results are returned. Validate checks the invariants that TOML
// syntax alone cannot express (identity fields, feature references, optional
// dependency reachability). Resolution of feature closures into build plans
// lives in the resolver package.
package descriptor

import (
	"slices"
)

// Section identifies which dependency table an entry was declared in.
type Section string

const (
	SectionNormal Section = "dependencies"
	SectionDev    Section = "dev-dependencies"
	SectionBuild  Section = "build-dependencies"
)

// Sections lists all dependency tables in declaration order.
var Sections = []Section{SectionNormal, SectionDev, SectionBuild}

// Descriptor is a parsed package descriptor.
//
// Map fields are never nil after a successful Parse. The zero value is not
// a valid descriptor; construct via Parse or populate Package.Name and
// Package.Version before calling Validate.
type Descriptor struct {
	Package           Package               `toml:"package"`
	Lib               *Lib                  `toml:"lib,omitempty"`
	Dependencies      map[string]Dependency `toml:"dependencies,omitempty"`
	DevDependencies   map[string]Dependency `toml:"dev-dependencies,omitempty"`
	BuildDependencies map[string]Dependency `toml:"build-dependencies,omitempty"`
	Features          map[string][]string   `toml:"features,omitempty"`
	Workspace         *Workspace            `toml:"workspace,omitempty"`
}

// Package holds the identity and discovery metadata of a descriptor.
// Only Name and Version affect resolution; the rest is metadata.
type Package struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Edition     string   `toml:"edition,omitempty"`
	Readme      string   `toml:"readme,omitempty"`
	License     string   `toml:"license,omitempty"`
	Description string   `toml:"description,omitempty"`
	Keywords    []string `toml:"keywords,omitempty"`
	Categories  []string `toml:"categories,omitempty"`
}

// Lib declares the compiled-artifact shape: the output module name (which
// may differ from the package name) and the requested artifact kinds.
type Lib struct {
	Name      string   `toml:"name,omitempty"`
	CrateType []string `toml:"crate-type,omitempty"`
}

// Workspace holds dependency declarations shared across a workspace.
// Member descriptors reference them with `workspace = true` entries.
type Workspace struct {
	Dependencies map[string]Dependency `toml:"dependencies,omitempty"`
}

// Artifact kinds accepted in lib.crate-type. The abstract names
// "dynamic" and "static" are accepted as aliases for cdylib/staticlib.
const (
	CrateTypeLib       = "lib"
	CrateTypeRlib      = "rlib"
	CrateTypeDylib     = "dylib"
	CrateTypeCdylib    = "cdylib"
	CrateTypeStaticlib = "staticlib"
)

// crateTypeAliases maps abstract artifact-kind names to concrete ones.
var crateTypeAliases = map[string]string{
	"dynamic": CrateTypeCdylib,
	"static":  CrateTypeStaticlib,
}

// knownCrateTypes is the set of concrete artifact kinds.
var knownCrateTypes = []string{
	CrateTypeLib, CrateTypeRlib, CrateTypeDylib, CrateTypeCdylib, CrateTypeStaticlib,
}

// NormalizeCrateType resolves artifact-kind aliases to their concrete names.
// Unknown values are returned unchanged; Validate rejects them.
func NormalizeCrateType(kind string) string {
	if concrete, ok := crateTypeAliases[kind]; ok {
		return concrete
	}
	return kind
}

// KnownCrateType reports whether kind (after alias normalization) is a
// recognized artifact kind.
func KnownCrateType(kind string) bool {
	return slices.Contains(knownCrateTypes, NormalizeCrateType(kind))
}

// LibName returns the output module name: lib.name if set, otherwise the
// package name.
func (d *Descriptor) LibName() string {
	if d.Lib != nil && d.Lib.Name != "" {
		return d.Lib.Name
	}
	return d.Package.Name
}

// CrateTypes returns the normalized, deduplicated artifact kinds in sorted
// order. Descriptors without a lib section default to a plain library.
func (d *Descriptor) CrateTypes() []string {
	if d.Lib == nil || len(d.Lib.CrateType) == 0 {
		return []string{CrateTypeLib}
	}
	kinds := make([]string, 0, len(d.Lib.CrateType))
	for _, k := range d.Lib.CrateType {
		k = NormalizeCrateType(k)
		if !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}
	slices.Sort(kinds)
	return kinds
}

// Dependency finds a dependency by name, searching the normal, dev, and
// build sections in that order.
func (d *Descriptor) Dependency(name string) (Dependency, Section, bool) {
	for _, sec := range Sections {
		if dep, ok := d.DepsIn(sec)[name]; ok {
			return dep, sec, true
		}
	}
	return Dependency{}, "", false
}

// DepsIn returns the dependency table for the given section.
// The returned map may be nil for sections absent from the descriptor.
func (d *Descriptor) DepsIn(sec Section) map[string]Dependency {
	switch sec {
	case SectionDev:
		return d.DevDependencies
	case SectionBuild:
		return d.BuildDependencies
	default:
		return d.Dependencies
	}
}

// FeatureNames returns all defined feature names in sorted order.
func (d *Descriptor) FeatureNames() []string {
	names := make([]string, 0, len(d.Features))
	for name := range d.Features {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultFeatures returns the activation list of the distinguished "default"
// feature, or nil if the descriptor does not define one.
func (d *Descriptor) DefaultFeatures() []string {
	return d.Features["default"]
}
