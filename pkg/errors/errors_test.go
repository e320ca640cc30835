package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidIdentity, "package name is required")
	if !strings.Contains(err.Error(), "INVALID_IDENTITY") {
		t.Errorf("error should contain code: %s", err.Error())
	}
	if !strings.Contains(err.Error(), "package name is required") {
		t.Errorf("error should contain message: %s", err.Error())
	}

	// Field path is prepended to the message
	err = err.WithField("package.name")
	if !strings.Contains(err.Error(), "package.name: package name is required") {
		t.Errorf("error should contain field path: %s", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "encode descriptor")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause with errors.Is")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error should contain cause: %s", err.Error())
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeUnresolvedFeature, "undefined feature %q", "jsonrpc")

	if !Is(err, ErrCodeUnresolvedFeature) {
		t.Error("Is should match the error's code")
	}
	if Is(err, ErrCodeInvalidSyntax) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeUnresolvedFeature) {
		t.Error("Is should not match plain errors")
	}

	// Code is found through wrapping
	wrapped := fmt.Errorf("resolve: %w", err)
	if !Is(wrapped, ErrCodeUnresolvedFeature) {
		t.Error("Is should unwrap to find the code")
	}
}

func TestGetCodeAndField(t *testing.T) {
	err := New(ErrCodeInvalidVersion, "invalid semantic version").WithField("package.version")

	if got := GetCode(err); got != ErrCodeInvalidVersion {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeInvalidVersion)
	}
	if got := GetField(err); got != "package.version" {
		t.Errorf("GetField = %q, want %q", got, "package.version")
	}

	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
	if got := GetField(stderrors.New("plain")); got != "" {
		t.Errorf("GetField on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidFeature, "invalid feature name").WithField("features.x")
	if got := UserMessage(err); got != "features.x: invalid feature name" {
		t.Errorf("UserMessage = %q", got)
	}
	if strings.Contains(UserMessage(err), "INVALID_FEATURE") {
		t.Error("UserMessage should not contain the code prefix")
	}

	plain := stderrors.New("plain error")
	if got := UserMessage(plain); got != "plain error" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}

func TestRateLimitedError(t *testing.T) {
	err := &RateLimitedError{RetryAfter: 30}
	if !strings.Contains(err.Error(), "30") {
		t.Errorf("error should mention retry-after seconds: %s", err.Error())
	}
	if err.Code() != ErrCodeRateLimited {
		t.Errorf("Code = %q, want %q", err.Code(), ErrCodeRateLimited)
	}

	noRetry := &RateLimitedError{}
	if noRetry.Error() != "rate limited" {
		t.Errorf("error without retry-after = %q", noRetry.Error())
	}
}
