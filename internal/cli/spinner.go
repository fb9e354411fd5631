package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a one-line status on w. Once a count is reported with
// progress, the line also shows "done/total (pct%)".
type spinner struct {
	w      io.Writer
	label  string
	stop   chan struct{}
	exited chan struct{}
	once   sync.Once

	mu          sync.Mutex
	done, total int
	width       int // widest line drawn, for clearing
	running     bool
}

func newSpinner(w io.Writer, label string) *spinner {
	return &spinner{
		w:      w,
		label:  label,
		stop:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

// start animates until ctx ends or finish is called.
func (s *spinner) start(ctx context.Context) {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	go func() {
		defer close(s.exited)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// progress records a count. It is safe to call from any goroutine.
func (s *spinner) progress(done, total int) {
	s.mu.Lock()
	s.done, s.total = done, total
	s.mu.Unlock()
}

func (s *spinner) line(frame string) string {
	text := s.label
	if s.total > 0 {
		text += fmt.Sprintf(" %d/%d (%d%%)", s.done, s.total, s.done*100/s.total)
	}
	return styleIconSpinner.Render(frame) + " " + StyleDim.Render(text)
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := s.line(frame)
	s.width = max(s.width, lipgloss.Width(line))
	fmt.Fprintf(s.w, "\r%s", line)
}

// finish stops the animation and clears the line. Later calls do nothing.
func (s *spinner) finish() {
	s.once.Do(func() {
		close(s.stop)

		s.mu.Lock()
		running := s.running
		s.mu.Unlock()
		if running {
			<-s.exited
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		}
	})
}
