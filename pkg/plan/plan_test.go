package plan

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"
)

func samplePlan() *Plan {
	p := New("deltachat_ffi", "1.112.0")
	p.LibName = "deltachat"
	p.Artifacts = []string{"cdylib", "staticlib"}
	p.Features = []string{"vendored"}
	p.Dependencies = []Dependency{
		{Name: "deltachat", Source: "path:../deltachat", Section: "dependencies", Features: []string{"vendored"}},
		{Name: "libc", Source: "0.2", Section: "dependencies", DefaultFeatures: true},
	}
	return p
}

func TestNew(t *testing.T) {
	a := New("pkg", "1.0.0")
	b := New("pkg", "1.0.0")

	if a.Package.Name != "pkg" || a.Package.Version != "1.0.0" {
		t.Errorf("identity = %+v", a.Package)
	}
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("IDs should be fresh and unique: %q vs %q", a.ID, b.ID)
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if loc := a.CreatedAt.Location(); loc != nil && loc.String() != "UTC" {
		t.Errorf("CreatedAt location = %v, want UTC", loc)
	}
}

func TestHasFeature(t *testing.T) {
	p := samplePlan()
	if !p.HasFeature("vendored") {
		t.Error("vendored should be present")
	}
	if p.HasFeature("jsonrpc") {
		t.Error("jsonrpc should be absent")
	}
}

func TestDependencyLookup(t *testing.T) {
	p := samplePlan()
	dep, ok := p.Dependency("libc")
	if !ok || dep.Source != "0.2" {
		t.Errorf("Dependency(libc) = %+v, %v", dep, ok)
	}
	if _, ok := p.Dependency("missing"); ok {
		t.Error("missing dependency should not be found")
	}
}

func TestMarshalReadRoundTrip(t *testing.T) {
	p := samplePlan()

	data, err := Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(p, got) {
		t.Errorf("round trip changed the plan:\nbefore: %+v\nafter:  %+v", p, got)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	p := samplePlan()
	first, err := Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 5 {
		next, err := Marshal(p)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, next) {
			t.Fatal("marshaling is not deterministic")
		}
	}
}

func TestFileRoundTrip(t *testing.T) {
	p := samplePlan()
	path := filepath.Join(t.TempDir(), "plan.json")

	if err := WriteFile(p, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !reflect.DeepEqual(p, got) {
		t.Error("file round trip changed the plan")
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should error")
	}
}
