package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func captureSpinner(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := spinnerOut
	spinnerOut = &buf
	t.Cleanup(func() { spinnerOut = prev })
	return &buf
}

func TestSpinnerDrawsAndClears(t *testing.T) {
	buf := captureSpinner(t)
	s := newSpinner("Connecting to redis...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Connecting to redis...") {
		t.Errorf("spinner output %q lacks message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("spinner did not clear its line: %q", out)
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerCancelled(t *testing.T) {
	captureSpinner(t)

	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			s := newSpinnerWithContext(ctx, "Waiting...")
			s.Start()
			if tt.name == "cancel" {
				cancel()
			}
			time.Sleep(100 * time.Millisecond)
			if !s.Cancelled() {
				t.Error("spinner should be cancelled")
			}
			cancel()
			s.Stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	captureSpinner(t)
	s := newSpinner("Stopping twice...")
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	s := newSpinner("Never started")
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a spinner that never started")
	}
}

func TestSpinnerStopWithMessage(t *testing.T) {
	captureSpinner(t)
	out := captureStdout(t)

	s := newSpinner("Delivering...")
	s.Start()
	s.Update("Delivering 2 reminders...")
	s.StopWithSuccess("Delivered %d", 2)

	s = newSpinner("Delivering...")
	s.Start()
	s.StopWithError("Failed: %s", "boom")

	got := out.String()
	for _, want := range []string{"Delivered 2", "Failed: boom"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q lacks %q", got, want)
		}
	}
}
