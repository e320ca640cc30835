package descriptor

import (
	"reflect"
	"testing"
)

func TestCrateTypes(t *testing.T) {
	tests := []struct {
		name string
		lib  *Lib
		want []string
	}{
		{"nil lib defaults to lib", nil, []string{"lib"}},
		{"empty list defaults to lib", &Lib{}, []string{"lib"}},
		{"sorted output", &Lib{CrateType: []string{"staticlib", "cdylib"}}, []string{"cdylib", "staticlib"}},
		{"aliases normalized", &Lib{CrateType: []string{"dynamic", "static"}}, []string{"cdylib", "staticlib"}},
		{"duplicates collapsed", &Lib{CrateType: []string{"lib", "lib"}}, []string{"lib"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Descriptor{Lib: tt.lib}
			if got := d.CrateTypes(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CrateTypes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeCrateType(t *testing.T) {
	if got := NormalizeCrateType("dynamic"); got != CrateTypeCdylib {
		t.Errorf("dynamic = %q, want cdylib", got)
	}
	if got := NormalizeCrateType("static"); got != CrateTypeStaticlib {
		t.Errorf("static = %q, want staticlib", got)
	}
	if got := NormalizeCrateType("rlib"); got != "rlib" {
		t.Errorf("rlib = %q, want unchanged", got)
	}
	if !KnownCrateType("dynamic") || !KnownCrateType("cdylib") {
		t.Error("aliases and concrete kinds should both be known")
	}
	if KnownCrateType("sharedlib") {
		t.Error("sharedlib should be unknown")
	}
}

func TestDependencyLookupOrder(t *testing.T) {
	d := &Descriptor{
		Dependencies:    map[string]Dependency{"serde": {Version: "1.0"}},
		DevDependencies: map[string]Dependency{"serde": {Path: "../serde-fork"}},
	}

	// Normal section wins over dev when both declare the name.
	dep, sec, ok := d.Dependency("serde")
	if !ok || sec != SectionNormal || dep.Version != "1.0" {
		t.Errorf("Dependency(serde) = %+v, %q, %v", dep, sec, ok)
	}

	if _, _, ok := d.Dependency("missing"); ok {
		t.Error("missing dependency should not be found")
	}
}

func TestDependencySource(t *testing.T) {
	tests := []struct {
		dep  Dependency
		want string
	}{
		{Dependency{Version: "1.0"}, "1.0"},
		{Dependency{Path: "../sibling"}, "path:../sibling"},
		{Dependency{Workspace: true}, "workspace"},
		{Dependency{Workspace: true, Version: "1.0"}, "workspace"}, // workspace wins
	}
	for _, tt := range tests {
		if got := tt.dep.Source(); got != tt.want {
			t.Errorf("Source(%+v) = %q, want %q", tt.dep, got, tt.want)
		}
	}
}
