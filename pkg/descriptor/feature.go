package descriptor

import (
	"strings"

	apperrors "github.com/matzehuels/cargoplan/pkg/errors"
)

// RefKind classifies one entry of a feature activation list.
type RefKind int

const (
	// RefFeature activates another feature of this package ("vendored").
	RefFeature RefKind = iota
	// RefDep activates an optional dependency ("dep:deltachat-jsonrpc").
	RefDep
	// RefDepFeature enables a feature of a dependency ("deltachat/vendored"),
	// activating the dependency itself if it is optional.
	RefDepFeature
	// RefWeakDepFeature enables a feature of a dependency only if the
	// dependency is already active ("serde?/derive").
	RefWeakDepFeature
)

// FeatureRef is one parsed entry of a feature activation list.
type FeatureRef struct {
	Kind    RefKind
	Dep     string // dependency name (RefDep, RefDepFeature, RefWeakDepFeature)
	Feature string // feature name (RefFeature, RefDepFeature, RefWeakDepFeature)
}

// String renders the reference back to its descriptor syntax.
func (r FeatureRef) String() string {
	switch r.Kind {
	case RefDep:
		return "dep:" + r.Dep
	case RefDepFeature:
		return r.Dep + "/" + r.Feature
	case RefWeakDepFeature:
		return r.Dep + "?/" + r.Feature
	default:
		return r.Feature
	}
}

// ParseFeatureRef parses one activation-list entry.
//
// Grammar:
//
//	ref        = feature | "dep:" dep | dep "/" feature | dep "?/" feature
//	feature    = feature name of this package or of the dependency
//	dep        = dependency name declared in a dependency table
func ParseFeatureRef(s string) (FeatureRef, error) {
	if s == "" {
		return FeatureRef{}, apperrors.New(apperrors.ErrCodeInvalidFeature,
			"empty feature reference")
	}

	if name, ok := strings.CutPrefix(s, "dep:"); ok {
		if name == "" || strings.ContainsAny(name, "/?") {
			return FeatureRef{}, apperrors.New(apperrors.ErrCodeInvalidFeature,
				"invalid dependency reference %q", s)
		}
		return FeatureRef{Kind: RefDep, Dep: name}, nil
	}

	if dep, feat, ok := strings.Cut(s, "/"); ok {
		kind := RefDepFeature
		if weak, isWeak := strings.CutSuffix(dep, "?"); isWeak {
			kind = RefWeakDepFeature
			dep = weak
		}
		if dep == "" || feat == "" || strings.Contains(feat, "/") {
			return FeatureRef{}, apperrors.New(apperrors.ErrCodeInvalidFeature,
				"invalid dependency feature reference %q", s)
		}
		return FeatureRef{Kind: kind, Dep: dep, Feature: feat}, nil
	}

	if err := apperrors.ValidateFeatureName(s); err != nil {
		return FeatureRef{}, err
	}
	return FeatureRef{Kind: RefFeature, Feature: s}, nil
}
