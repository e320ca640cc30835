package errors

import (
	"strings"
	"testing"
)

func TestValidateCrateName(t *testing.T) {
	valid := []string{"libc", "deltachat-jsonrpc", "serde_json", "a", "Tokio2"}
	for _, name := range valid {
		if err := ValidateCrateName(name); err != nil {
			t.Errorf("ValidateCrateName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{
		"",
		"1serde",      // must start with a letter
		"-dash",       // must start with a letter
		"a/b",         // path separator
		"a..b",        // traversal
		"dot.name",    // dots not allowed in crate names
		"with space",  // whitespace
		"back\\slash", // windows path
		strings.Repeat("a", 257),
	}
	for _, name := range invalid {
		if err := ValidateCrateName(name); err == nil {
			t.Errorf("ValidateCrateName(%q) = nil, want error", name)
		}
	}
}

func TestValidateFeatureName(t *testing.T) {
	valid := []string{"vendored", "jsonrpc", "default", "serde-derive", "io_uring", "v1.2", "c++20"}
	for _, name := range valid {
		if err := ValidateFeatureName(name); err != nil {
			t.Errorf("ValidateFeatureName(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "a/b", "a b", "dep:foo", strings.Repeat("a", 257)}
	for _, name := range invalid {
		if err := ValidateFeatureName(name); err == nil {
			t.Errorf("ValidateFeatureName(%q) = nil, want error", name)
		}
	}
}

func TestValidateVersion(t *testing.T) {
	valid := []string{"1.0.0", "0.1.0", "1.112.0", "2.0.0-beta.1", "1.0.0+build.5", "1.0.0-rc.1+exp.sha"}
	for _, v := range valid {
		if err := ValidateVersion(v); err != nil {
			t.Errorf("ValidateVersion(%q) = %v, want nil", v, err)
		}
	}

	invalid := []string{"", "1", "1.0", "v1.0.0", "1.0.0.0", "01.0.0", "1.0.x"}
	for _, v := range invalid {
		if err := ValidateVersion(v); err == nil {
			t.Errorf("ValidateVersion(%q) = nil, want error", v)
		}
	}
}

func TestValidateVersionReq(t *testing.T) {
	valid := []string{
		"1", "1.0", "1.0.3", "0.2",
		"^1.0", "~0.3.1", "=1.2.3",
		">=1.2, <2.0", "> 1, < 2",
		"*", "1.*",
		"1.0.0-alpha",
	}
	for _, req := range valid {
		if err := ValidateVersionReq(req); err != nil {
			t.Errorf("ValidateVersionReq(%q) = %v, want nil", req, err)
		}
	}

	invalid := []string{"", "  ", "abc", "^", ">=", "1.0,,2.0", "=>1.0"}
	for _, req := range invalid {
		if err := ValidateVersionReq(req); err == nil {
			t.Errorf("ValidateVersionReq(%q) = nil, want error", req)
		}
	}
}

func TestValidatePath(t *testing.T) {
	// Sibling paths with ".." are legitimate for local path dependencies.
	valid := []string{"../deltachat", "./sub", "libs/core", "../../other"}
	for _, p := range valid {
		if err := ValidatePath(p); err != nil {
			t.Errorf("ValidatePath(%q) = %v, want nil", p, err)
		}
	}

	invalid := []string{"", "bad\\path", "nul\x00byte", strings.Repeat("a", 501)}
	for _, p := range invalid {
		if err := ValidatePath(p); err == nil {
			t.Errorf("ValidatePath(%q) = nil, want error", p)
		}
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://crates.io/api/v1"); err != nil {
		t.Errorf("ValidateURL(https) = %v, want nil", err)
	}
	if err := ValidateURL("http://localhost:8080"); err != nil {
		t.Errorf("ValidateURL(http) = %v, want nil", err)
	}
	for _, u := range []string{"", "ftp://host", "file:///etc/passwd", "crates.io"} {
		if err := ValidateURL(u); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", u)
		}
	}
}
