package descriptor

import (
	"bytes"
	"reflect"
	"testing"
)

func TestEncodeRoundTrip(t *testing.T) {
	d, err := Parse([]byte(ffiDescriptor))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	encoded, err := Encode(d)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	reparsed, err := Parse(encoded)
	if err != nil {
		t.Fatalf("reparse error: %v\n%s", err, encoded)
	}
	if !reflect.DeepEqual(d, reparsed) {
		t.Errorf("round trip changed the descriptor:\nbefore: %+v\nafter:  %+v", d, reparsed)
	}
}

func TestEncodeDeterministic(t *testing.T) {
	d, err := Parse([]byte(ffiDescriptor))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	first, err := Encode(d)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	for range 5 {
		next, err := Encode(d)
		if err != nil {
			t.Fatalf("Encode error: %v", err)
		}
		if !bytes.Equal(first, next) {
			t.Fatalf("encoding is not deterministic:\n%s\n---\n%s", first, next)
		}
	}
}

func TestEncodeIdempotent(t *testing.T) {
	// encode(parse(encode(parse(text)))) == encode(parse(text))
	d, err := Parse([]byte(ffiDescriptor))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	once, err := Encode(d)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	d2, err := Parse(once)
	if err != nil {
		t.Fatalf("reparse error: %v", err)
	}
	twice, err := Encode(d2)
	if err != nil {
		t.Fatalf("second Encode error: %v", err)
	}
	if !bytes.Equal(once, twice) {
		t.Errorf("encoding is not idempotent:\n%s\n---\n%s", once, twice)
	}
}
