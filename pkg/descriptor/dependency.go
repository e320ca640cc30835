package descriptor

import (
	"fmt"
	"strings"

	apperrors "github.com/matzehuels/cargoplan/pkg/errors"
)

// Dependency is one entry in a dependency table.
//
// In TOML a dependency is either a bare version-requirement string
// (`libc = "0.2"`) or a table
// (`serde = { version = "1.0", features = ["derive"], optional = true }`).
// Exactly one source is meaningful per entry: a registry version
// requirement, a local path, or workspace inheritance.
type Dependency struct {
	Version         string   // registry version requirement ("1.0", "^0.31", ">=1, <2")
	Path            string   // local path source
	Workspace       bool     // inherit declaration from [workspace.dependencies]
	Features        []string // dependency features to enable
	Optional        bool     // only linked when activated by a feature
	DefaultFeatures *bool    // nil means true (enable the dependency's default feature)
}

// Source describes where the dependency is fetched from, for display and
// plan output: "1.0" for registry requirements, "path:../foo" for local
// paths, "workspace" for inherited entries.
func (dep Dependency) Source() string {
	switch {
	case dep.Workspace:
		return "workspace"
	case dep.Path != "":
		return "path:" + dep.Path
	default:
		return dep.Version
	}
}

// UsesDefaultFeatures reports whether the dependency's own "default" feature
// is enabled (true unless `default-features = false` was declared).
func (dep Dependency) UsesDefaultFeatures() bool {
	return dep.DefaultFeatures == nil || *dep.DefaultFeatures
}

// UnmarshalTOML decodes either the string shorthand or the table form.
func (dep *Dependency) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		dep.Version = v
		return nil
	case map[string]any:
		return dep.fromTable(v)
	default:
		return apperrors.New(apperrors.ErrCodeInvalidSyntax,
			"dependency must be a version string or a table, got %T", data)
	}
}

func (dep *Dependency) fromTable(table map[string]any) error {
	for key, raw := range table {
		switch key {
		case "version":
			s, ok := raw.(string)
			if !ok {
				return badDepKey(key, "string", raw)
			}
			dep.Version = s
		case "path":
			s, ok := raw.(string)
			if !ok {
				return badDepKey(key, "string", raw)
			}
			dep.Path = s
		case "workspace":
			b, ok := raw.(bool)
			if !ok {
				return badDepKey(key, "boolean", raw)
			}
			dep.Workspace = b
		case "optional":
			b, ok := raw.(bool)
			if !ok {
				return badDepKey(key, "boolean", raw)
			}
			dep.Optional = b
		case "default-features":
			b, ok := raw.(bool)
			if !ok {
				return badDepKey(key, "boolean", raw)
			}
			dep.DefaultFeatures = &b
		case "features":
			list, ok := raw.([]any)
			if !ok {
				return badDepKey(key, "array of strings", raw)
			}
			for _, item := range list {
				s, ok := item.(string)
				if !ok {
					return badDepKey(key, "array of strings", raw)
				}
				dep.Features = append(dep.Features, s)
			}
		default:
			// Unrecognized keys (registry, branch, ...) are tolerated the
			// way Cargo tolerates them: ignored with no build effect.
		}
	}
	return nil
}

func badDepKey(key, want string, got any) error {
	return apperrors.New(apperrors.ErrCodeInvalidSyntax,
		"dependency key %q must be a %s, got %T", key, want, got)
}

// MarshalTOML encodes the dependency back to TOML: the string shorthand when
// only a version requirement is set, an inline table otherwise. Keys are
// emitted in a fixed order so encoding is deterministic.
func (dep Dependency) MarshalTOML() ([]byte, error) {
	if dep.isShorthand() {
		return []byte(fmt.Sprintf("%q", dep.Version)), nil
	}

	var parts []string
	if dep.Version != "" {
		parts = append(parts, fmt.Sprintf("version = %q", dep.Version))
	}
	if dep.Path != "" {
		parts = append(parts, fmt.Sprintf("path = %q", dep.Path))
	}
	if dep.Workspace {
		parts = append(parts, "workspace = true")
	}
	if len(dep.Features) > 0 {
		quoted := make([]string, len(dep.Features))
		for i, f := range dep.Features {
			quoted[i] = fmt.Sprintf("%q", f)
		}
		parts = append(parts, fmt.Sprintf("features = [%s]", strings.Join(quoted, ", ")))
	}
	if dep.Optional {
		parts = append(parts, "optional = true")
	}
	if dep.DefaultFeatures != nil {
		parts = append(parts, fmt.Sprintf("default-features = %t", *dep.DefaultFeatures))
	}

	return []byte("{ " + strings.Join(parts, ", ") + " }"), nil
}

func (dep Dependency) isShorthand() bool {
	return dep.Version != "" && dep.Path == "" && !dep.Workspace &&
		len(dep.Features) == 0 && !dep.Optional && dep.DefaultFeatures == nil
}
