package descriptor

import (
	"bytes"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/cargoplan/pkg/errors"
)

// Encode serializes a descriptor back to TOML.
//
// Output is deterministic: tables follow struct order and map keys are
// emitted sorted. Encoding a parsed descriptor and parsing the result
// yields an equal descriptor (round-trip property).
func Encode(d *Descriptor) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(d); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode descriptor")
	}
	return buf.Bytes(), nil
}
