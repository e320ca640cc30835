package descriptor

import (
	"fmt"
	"slices"

	apperrors "github.com/matzehuels/cargoplan/pkg/errors"
)

// Validate checks the invariants that TOML syntax alone cannot express.
//
// It returns nil for a well-formed descriptor, or the first violation found:
//   - ErrCodeInvalidIdentity / ErrCodeInvalidVersion: missing or malformed
//     package.name / package.version
//   - ErrCodeInvalidCrateType: unknown or duplicated artifact kind
//   - ErrCodeDuplicateDep: the same name redeclared across the normal and
//     build tables with an identical source
//   - ErrCodeUnresolvedFeature: a feature activation list references an
//     undefined feature or undeclared dependency
//   - ErrCodeInvalidFeature: malformed activation entry, or dep: reference
//     to a non-optional dependency
//   - ErrCodeUnreachableDep: an optional dependency no feature can activate
//
// Checks run in a fixed order (identity, lib, dependencies, features,
// reachability) so the reported violation is deterministic.
func Validate(d *Descriptor) error {
	if err := validateIdentity(d); err != nil {
		return err
	}
	if err := validateLib(d); err != nil {
		return err
	}
	if err := validateDependencies(d); err != nil {
		return err
	}
	if err := validateFeatures(d); err != nil {
		return err
	}
	return validateReachability(d)
}

func validateIdentity(d *Descriptor) error {
	if d.Package.Name == "" {
		return apperrors.New(apperrors.ErrCodeInvalidIdentity, "package name is required").
			WithField("package.name")
	}
	if err := apperrors.ValidateCrateName(d.Package.Name); err != nil {
		return fieldErr(err, "package.name")
	}
	if d.Package.Version == "" {
		return apperrors.New(apperrors.ErrCodeInvalidIdentity, "package version is required").
			WithField("package.version")
	}
	if err := apperrors.ValidateVersion(d.Package.Version); err != nil {
		return fieldErr(err, "package.version")
	}
	return nil
}

func validateLib(d *Descriptor) error {
	if d.Lib == nil {
		return nil
	}
	seen := map[string]string{}
	for _, kind := range d.Lib.CrateType {
		concrete := NormalizeCrateType(kind)
		if !KnownCrateType(kind) {
			return apperrors.New(apperrors.ErrCodeInvalidCrateType,
				"unknown artifact kind %q", kind).WithField("lib.crate-type")
		}
		if prev, dup := seen[concrete]; dup {
			return apperrors.New(apperrors.ErrCodeInvalidCrateType,
				"artifact kind %q duplicates %q", kind, prev).WithField("lib.crate-type")
		}
		seen[concrete] = kind
	}
	return nil
}

func validateDependencies(d *Descriptor) error {
	// Sorted iteration keeps the first reported violation deterministic.
	for _, sec := range Sections {
		table := d.DepsIn(sec)
		for _, name := range sortedDepNames(table) {
			field := fmt.Sprintf("%s.%s", sec, name)
			if err := apperrors.ValidateCrateName(name); err != nil {
				return fieldErr(err, field)
			}
			if err := validateDepEntry(table[name], field); err != nil {
				return err
			}
		}
	}

	// The normal and build tables link into the same build graph, so
	// redeclaring a name there with an identical source is a duplicate.
	// Diverging redeclarations are legal per-table and only conflict when
	// one plan includes both; the resolver reports those.
	// The dev table is test-only and may freely shadow.
	for _, name := range sortedDepNames(d.BuildDependencies) {
		if normal, ok := d.Dependencies[name]; ok && normal.Source() == d.BuildDependencies[name].Source() {
			return apperrors.New(apperrors.ErrCodeDuplicateDep,
				"%q duplicates the declaration in %s", name, SectionNormal).
				WithField(fmt.Sprintf("%s.%s", SectionBuild, name))
		}
	}

	if d.Workspace != nil {
		for _, name := range sortedDepNames(d.Workspace.Dependencies) {
			dep := d.Workspace.Dependencies[name]
			field := "workspace.dependencies." + name
			if err := apperrors.ValidateCrateName(name); err != nil {
				return fieldErr(err, field)
			}
			if dep.Workspace {
				return apperrors.New(apperrors.ErrCodeInvalidInput,
					"workspace table entries cannot themselves be workspace-inherited").
					WithField(field)
			}
			if err := validateDepEntry(dep, field); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateDepEntry(dep Dependency, field string) error {
	if dep.Workspace {
		if dep.Version != "" || dep.Path != "" {
			return apperrors.New(apperrors.ErrCodeInvalidInput,
				"workspace dependencies cannot also declare version or path").WithField(field)
		}
		return nil
	}
	if dep.Version == "" && dep.Path == "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"dependency needs a version requirement, path, or workspace = true").WithField(field)
	}
	if dep.Version != "" {
		if err := apperrors.ValidateVersionReq(dep.Version); err != nil {
			return fieldErr(err, field)
		}
	}
	if dep.Path != "" {
		if err := apperrors.ValidatePath(dep.Path); err != nil {
			return fieldErr(err, field)
		}
	}
	for _, feat := range dep.Features {
		if err := apperrors.ValidateFeatureName(feat); err != nil {
			return fieldErr(err, field)
		}
	}
	return nil
}

func validateFeatures(d *Descriptor) error {
	// Sorted iteration keeps the first reported violation deterministic.
	for _, name := range d.FeatureNames() {
		field := "features." + name
		if err := apperrors.ValidateFeatureName(name); err != nil {
			return fieldErr(err, field)
		}
		for _, entry := range d.Features[name] {
			ref, err := ParseFeatureRef(entry)
			if err != nil {
				return fieldErr(err, field)
			}
			if err := validateRef(d, ref, field); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRef(d *Descriptor, ref FeatureRef, field string) error {
	switch ref.Kind {
	case RefFeature:
		if _, ok := d.Features[ref.Feature]; !ok {
			return apperrors.New(apperrors.ErrCodeUnresolvedFeature,
				"undefined feature %q", ref.Feature).WithField(field)
		}
	case RefDep:
		dep, _, ok := d.Dependency(ref.Dep)
		if !ok {
			return apperrors.New(apperrors.ErrCodeUnresolvedFeature,
				"undeclared dependency %q", ref.Dep).WithField(field)
		}
		if !dep.Optional {
			return apperrors.New(apperrors.ErrCodeInvalidFeature,
				"dep:%s references a dependency that is not optional", ref.Dep).WithField(field)
		}
	case RefDepFeature, RefWeakDepFeature:
		if _, _, ok := d.Dependency(ref.Dep); !ok {
			return apperrors.New(apperrors.ErrCodeUnresolvedFeature,
				"undeclared dependency %q", ref.Dep).WithField(field)
		}
	}
	return nil
}

// validateReachability enforces that every optional dependency can be
// activated by at least one feature. An optional dependency nothing can
// switch on is unreachable dead weight.
func validateReachability(d *Descriptor) error {
	gated := map[string]bool{}
	for _, entries := range d.Features {
		for _, entry := range entries {
			ref, err := ParseFeatureRef(entry)
			if err != nil {
				continue // reported by validateFeatures
			}
			// Weak references never activate a dependency on their own.
			if ref.Kind == RefDep || ref.Kind == RefDepFeature {
				gated[ref.Dep] = true
			}
		}
	}

	for _, sec := range Sections {
		table := d.DepsIn(sec)
		for _, name := range sortedDepNames(table) {
			if table[name].Optional && !gated[name] {
				return apperrors.New(apperrors.ErrCodeUnreachableDep,
					"optional dependency %q is not activated by any feature", name).
					WithField(fmt.Sprintf("%s.%s", sec, name))
			}
		}
	}
	return nil
}

func sortedDepNames(m map[string]Dependency) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func fieldErr(err error, field string) error {
	var e *apperrors.Error
	if ok := asAppError(err, &e); ok {
		return e.WithField(field)
	}
	return err
}

func asAppError(err error, target **apperrors.Error) bool {
	e, ok := err.(*apperrors.Error)
	if ok {
		*target = e
	}
	return ok
}
