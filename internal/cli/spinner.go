package cli

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Spinner shows an indeterminate progress indicator while a request runs.
type Spinner struct {
	writer  io.Writer
	enabled bool
}

// NewSpinner creates a spinner writing to w. A disabled spinner only runs
// the work.
func NewSpinner(w io.Writer, enabled bool) *Spinner {
	return &Spinner{writer: w, enabled: enabled && w != nil}
}

// Run calls fn while the spinner animates next to description.
func (s *Spinner) Run(ctx context.Context, description string, fn func(context.Context) error) error {
	if !s.enabled {
		return fn(ctx)
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.writer),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	err := fn(ctx)
	close(done)
	wg.Wait()
	_ = bar.Finish()
	return err
}
