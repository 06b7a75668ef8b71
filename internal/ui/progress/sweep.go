// Package progress shows terminal feedback for long-running vsort commands:
// a progress bar for fetching a project's images and a spinner with removal
// counts for disk cache sweeps.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/raphi011/vsort/internal/fetch"
	"github.com/raphi011/vsort/internal/ui/static"
)

// sweepUpdate carries the latest sweep counts into the model.
type sweepUpdate fetch.SweepProgress

// SweepSpinner animates while the disk cache is swept and shows how many
// entries are gone and how many bytes they freed.
type SweepSpinner struct {
	program *tea.Program
	out     io.Writer
	updates chan fetch.SweepProgress
	done    chan struct{}

	mu      sync.Mutex
	running bool
	label   string
	last    fetch.SweepProgress
}

type sweepModel struct {
	spinner  spinner.Model
	label    string
	progress fetch.SweepProgress
	updates  <-chan fetch.SweepProgress
}

func (m sweepModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForUpdate())
}

func (m sweepModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		p, ok := <-m.updates
		if !ok {
			return tea.Quit()
		}
		return sweepUpdate(p)
	}
}

func (m sweepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sweepUpdate:
		m.progress = fetch.SweepProgress(msg)
		return m, m.waitForUpdate()
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m sweepModel) View() tea.View {
	return tea.NewView(m.line())
}

func (m sweepModel) line() string {
	return m.spinner.View() + " " + sweepLine(m.label, m.progress)
}

// sweepLine renders "Removing expired files 3/10 (1.2 KB freed)".
func sweepLine(label string, p fetch.SweepProgress) string {
	if p.Total == 0 {
		return label
	}
	return fmt.Sprintf("%s %d/%d (%s freed)", label, p.Removed, p.Total, static.FormatBytes(p.Freed))
}

// NewSweepSpinner creates a spinner labelled label that draws to out.
func NewSweepSpinner(label string, out io.Writer) *SweepSpinner {
	return &SweepSpinner{
		out:     out,
		updates: make(chan fetch.SweepProgress, 16),
		done:    make(chan struct{}),
		label:   label,
	}
}

// Start begins the animation.
func (s *SweepSpinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	model := sweepModel{
		spinner:  sp,
		label:    s.label,
		progress: s.last,
		updates:  s.updates,
	}
	s.program = tea.NewProgram(model, tea.WithoutSignalHandler(), tea.WithOutput(s.out))
	s.running = true

	go func() {
		_, _ = s.program.Run()
		close(s.done)
	}()
}

// Report records p and redraws. It never blocks the sweep: when the program
// lags behind, intermediate counts are dropped.
func (s *SweepSpinner) Report(p fetch.SweepProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = p
	if !s.running {
		return
	}
	select {
	case s.updates <- p:
	default:
	}
}

// Last returns the most recent counts.
func (s *SweepSpinner) Last() fetch.SweepProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Stop ends the animation and clears its line.
func (s *SweepSpinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.updates)
	s.mu.Unlock()

	select {
	case <-s.done:
	case <-time.After(500 * time.Millisecond):
		s.program.Quit()
	}
	fmt.Fprint(s.out, "\r\033[K")
}
