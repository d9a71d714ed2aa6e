package ui

import (
	"fmt"
	"io"
	"time"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// StartSpinner draws "<label>... Ns |" on w until the returned stop func is
// called. It does nothing when w is not a terminal.
func StartSpinner(w io.Writer, label string) func() {
	if w == nil || !IsTTY(w) {
		return func() {}
	}
	return startSpinner(w, label, 200*time.Millisecond)
}

func startSpinner(w io.Writer, label string, interval time.Duration) func() {
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		index := 0

		for {
			select {
			case <-done:
				fmt.Fprint(w, "\r\033[2K")
				return
			case <-ticker.C:
				seconds := int(time.Since(start).Seconds())
				fmt.Fprintf(w, "\r\033[2K%s... %ds %s", label, seconds, spinnerFrames[index%len(spinnerFrames)])
				index++
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}
