package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateName validates a package or dependency name for safety and
// correctness. It rejects names that could be used for path traversal or
// injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 256 characters
//
// Registry-specific shape (crates.io naming) is checked separately by
// ValidateCrateName.
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidIdentity, "name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidIdentity, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidIdentity, "name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidIdentity, "name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// crateNameRegex matches valid crates.io package names.
var crateNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateCrateName validates a crates.io-style package name.
func ValidateCrateName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	if !crateNameRegex.MatchString(name) {
		return New(ErrCodeInvalidIdentity, "invalid package name: %q", name)
	}

	return nil
}

// featureNameRegex matches valid feature names. Cargo allows alphanumerics,
// hyphens, underscores, plus signs and dots in feature names.
var featureNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_+.-]+$`)

// ValidateFeatureName validates a feature name.
func ValidateFeatureName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFeature, "feature name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidFeature, "feature name too long (max 256 characters)")
	}

	if !featureNameRegex.MatchString(name) {
		return New(ErrCodeInvalidFeature, "invalid feature name: %q", name)
	}

	return nil
}

// semverRegex matches a semantic version: MAJOR.MINOR.PATCH with optional
// pre-release and build metadata suffixes (semver.org grammar, no leading v).
var semverRegex = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
	`(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)

// ValidateVersion validates a semantic version string (e.g., "1.2.3",
// "0.1.0-beta.1").
func ValidateVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidVersion, "version cannot be empty")
	}

	if !semverRegex.MatchString(version) {
		return New(ErrCodeInvalidVersion, "invalid semantic version: %q", version)
	}

	return nil
}

// versionReqRegex matches a single version requirement: an optional operator
// (^, ~, =, >, >=, <, <=) followed by a possibly-partial version ("1",
// "1.0", "1.0.3-alpha") or a bare wildcard ("*", "1.*").
var versionReqRegex = regexp.MustCompile(`^\s*(\^|~|=|>=|<=|>|<)?\s*` +
	`(\*|\d+(\.\d+)?(\.\d+)?(\.\*)?(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?|\d+\.\*)\s*$`)

// ValidateVersionReq validates a dependency version requirement.
// Comma-separated requirements (">=1.2, <2.0") are validated per component.
func ValidateVersionReq(req string) error {
	if strings.TrimSpace(req) == "" {
		return New(ErrCodeInvalidVersion, "version requirement cannot be empty")
	}

	for _, part := range strings.Split(req, ",") {
		if !versionReqRegex.MatchString(part) {
			return New(ErrCodeInvalidVersion, "invalid version requirement: %q", strings.TrimSpace(part))
		}
	}

	return nil
}

// ValidatePath validates a local dependency path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No backslashes (Windows-style paths)
//
// Relative paths including ".." segments are allowed here: local path
// dependencies legitimately point at sibling directories.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
