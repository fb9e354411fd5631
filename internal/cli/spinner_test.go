package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSpinnerShowsProgress(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Rendering frames")
	s.progress(3, 4)
	s.start(context.Background())
	time.Sleep(200 * time.Millisecond)
	s.finish()

	out := buf.String()
	if !strings.Contains(out, "Rendering frames 3/4 (75%)") {
		t.Errorf("spinner output = %q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Error("finish should clear the line")
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(&bytes.Buffer{}, "waiting")
	s.start(ctx)
	cancel()

	select {
	case <-s.exited:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after cancellation")
	}
	s.finish()
}

func TestSpinnerFinish(t *testing.T) {
	tests := []struct {
		name    string
		start   bool
		finishN int
	}{
		{"never started", false, 1},
		{"twice", true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			s := newSpinner(&buf, "x")
			if tt.start {
				s.start(context.Background())
			}
			for range tt.finishN {
				s.finish()
			}
			if !tt.start && buf.Len() != 0 {
				t.Errorf("an idle spinner wrote %q", buf.String())
			}
		})
	}
}

func TestSpinnerConcurrentProgress(t *testing.T) {
	s := newSpinner(&bytes.Buffer{}, "Rendering frames")
	s.start(context.Background())

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.progress(i+1, 8)
		}()
	}
	wg.Wait()
	s.finish()

	if s.total != 8 {
		t.Errorf("total = %d, want 8", s.total)
	}
}
