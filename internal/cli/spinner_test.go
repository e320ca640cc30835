package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStopIsNotCancellation(t *testing.T) {
	s := newSpinner(context.Background(), "Checking serde…")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	// A normal Stop must not read as a cancelled run; audit uses
	// Cancelled to decide whether to abort the whole report.
	if s.Cancelled() {
		t.Error("Cancelled() should be false after a plain Stop")
	}
}

func TestSpinnerCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "Checking libc…")
	s.Start()

	cancel()
	// Give goroutine time to notice cancellation
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() should be true after context cancellation")
	}
}

func TestSpinnerCancelledByTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s := newSpinner(ctx, "Checking tokio…")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() should be true after context timeout")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), "Stopping twice…")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}
