package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/zinspect/zinspect/internal/status"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerDone
	SpinnerFailed
)

var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

// Spinner shows progress of one blocking step, such as parsing a bundle,
// on a single rewritten line.
type Spinner struct {
	mu           sync.Mutex
	w            io.Writer
	label        string
	state        SpinnerState
	frame        int
	startTime    time.Time
	stopChan     chan struct{}
	doneChan     chan struct{}
	running      bool
	lastRendered string
}

// NewSpinner creates a spinner writing to w, normally stderr.
func NewSpinner(label string, w io.Writer) *Spinner {
	return &Spinner{label: label, w: w}
}

// Start begins the animation. Starting a running spinner is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.state = SpinnerInProgress
	s.startTime = time.Now()
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.render()
	s.mu.Unlock()

	go s.animate()
}

// Stop halts the animation without changing state.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	<-s.doneChan
}

// Finish stops the spinner and prints the level symbol, the label, detail
// and the elapsed time.
func (s *Spinner) Finish(level status.Level, detail string) {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SpinnerDone
	s.renderFinal(RenderLevel(level), detail)
}

// Fail stops the spinner and prints err.
func (s *Spinner) Fail(err error) {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SpinnerFailed
	detail := ""
	if err != nil {
		detail = firstLine(err.Error())
	}
	s.renderFinal(ErrorStyle.Render(SymbolFail), detail)
}

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed returns the time since the spinner started.
func (s *Spinner) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startTime.IsZero() {
		return 0
	}
	return time.Since(s.startTime)
}

// SetLabel updates the label shown on the next frame.
func (s *Spinner) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.label = label
}

func (s *Spinner) animate() {
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()
	defer close(s.doneChan)

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.render()
			s.mu.Unlock()
		}
	}
}

// render and renderFinal expect s.mu to be held.
func (s *Spinner) render() {
	line := fmt.Sprintf("%s %s...", InfoStyle.Render(spinnerFrames[s.frame]), s.label)
	s.clear()
	fmt.Fprint(s.w, line)
	s.lastRendered = line
}

func (s *Spinner) renderFinal(symbol, detail string) {
	s.clear()
	line := symbol + " " + s.label
	if detail != "" {
		line += ": " + detail
	}
	fmt.Fprintf(s.w, "%s %s\n", line, MutedStyle.Render(formatDuration(time.Since(s.startTime))))
	s.lastRendered = ""
}

func (s *Spinner) clear() {
	if s.lastRendered == "" {
		return
	}
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", len([]rune(s.lastRendered)))+"\r")
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, SymbolFail+" ")
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// formatDuration formats a duration for display (e.g., "0.3s", "1.2s").
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
