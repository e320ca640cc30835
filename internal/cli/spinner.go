package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames is the braille animation cycle drawn while waiting.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a progress indicator on stderr while a slow operation
// runs, typically a registry lookup during audit. It stops on its own when
// the parent context is cancelled.
type spinner struct {
	message string
	parent  context.Context
	cancel  context.CancelFunc
	ctx     context.Context
	stopped chan struct{}
	once    sync.Once
}

// newSpinner creates a spinner bound to ctx. Start begins the animation;
// Stop clears it. Cancelled distinguishes a parent-context cancellation
// from a normal Stop.
func newSpinner(ctx context.Context, message string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &spinner{
		message: message,
		parent:  ctx,
		cancel:  cancel,
		ctx:     sctx,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation in a goroutine. Stop must be called before
// writing other output to the terminal.
func (s *spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			}
		}
	}()
}

// Stop halts the animation, waits for the goroutine to exit, and clears
// the line. Safe to call more than once.
func (s *spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
		fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
	})
}

// Cancelled reports whether the parent context ended while the spinner
// ran. A plain Stop does not count as cancellation.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
