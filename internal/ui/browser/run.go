package browser

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
)

// Run shows the browser until the user quits. Unsaved changes are saved on a
// regular quit; when ctx is cancelled they are saved before returning.
func Run(ctx context.Context, m *Model) error {
	// Detect color profile for stdout (handles NO_COLOR, dumb terminals, etc.)
	profile := colorprofile.Detect(os.Stdout, os.Environ())

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithColorProfile(profile),
	)
	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("browser: %w", err)
	}

	if m.session.Dirty() {
		if err := m.session.Save(); err != nil {
			return err
		}
	}
	return nil
}
