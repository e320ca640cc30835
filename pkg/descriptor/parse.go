package descriptor

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/cargoplan/pkg/errors"
)

// Parse decodes and validates descriptor text.
//
// It returns either a fully validated descriptor or an error; no partial
// results are produced on failure. Syntax errors carry the
// [apperrors.ErrCodeInvalidSyntax] code with the TOML position in the
// message; validation errors carry the codes documented on [Validate].
func Parse(data []byte) (*Descriptor, error) {
	d, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(d); err != nil {
		return nil, err
	}
	return d, nil
}

// ParseFile reads and parses the descriptor at path.
func ParseFile(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "descriptor %s", path)
		}
		return nil, err
	}
	return Parse(data)
}

// decode unmarshals descriptor TOML without validating invariants.
// Unknown keys are tolerated with no build effect.
func decode(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := toml.Unmarshal(data, &d); err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidSyntax, err,
				"malformed descriptor at line %d", perr.Position.Line)
		}
		// Dependency.UnmarshalTOML reports structured errors already.
		var aerr *apperrors.Error
		if errors.As(err, &aerr) {
			return nil, aerr
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidSyntax, err, "malformed descriptor")
	}

	if d.Dependencies == nil {
		d.Dependencies = map[string]Dependency{}
	}
	if d.DevDependencies == nil {
		d.DevDependencies = map[string]Dependency{}
	}
	if d.BuildDependencies == nil {
		d.BuildDependencies = map[string]Dependency{}
	}
	if d.Features == nil {
		d.Features = map[string][]string{}
	}
	return &d, nil
}
