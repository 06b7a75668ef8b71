// Package styles provides shared lipgloss styles for UI components.
//
// Colors follow the active theme (see Init). Thumbnail borders are the
// exception: their colors come from the border class so that membership
// reads the same under every theme.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/vsort/internal/render"
)

// Primary colors used throughout the UI
var (
	Primary color.Color = lipgloss.Color("62")  // borders, titles
	Accent  color.Color = lipgloss.Color("212") // cursor, selection
	Success color.Color = lipgloss.Color("82")
	Error   color.Color = lipgloss.Color("196")
	Muted   color.Color = lipgloss.Color("240")
	Normal  color.Color = lipgloss.Color("252")
	Info    color.Color = lipgloss.Color("244")
	Warning color.Color = lipgloss.Color("214")
)

// Common styles
var (
	Bold = lipgloss.NewStyle().Bold(true)

	PrimaryStyle = lipgloss.NewStyle().Foreground(Primary)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(Error)
	MutedStyle   = lipgloss.NewStyle().Foreground(Muted)
	NormalStyle  = lipgloss.NewStyle().Foreground(Normal)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Info).
			Italic(true)
)

// Pane and highlight styles
var (
	// PaneStyle frames the grid and folder panes
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted)

	// ActivePaneStyle frames the pane that has focus
	ActivePaneStyle = PaneStyle.BorderForeground(Primary)

	// HighlightStyle marks folders that contain the selected image
	HighlightStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true).
			Underline(true)
)

// colorBorders is false for the "none" theme, which tells classes apart by
// border shape only.
var colorBorders = true

// BorderColor returns the color of a border class.
func BorderColor(c render.BorderClass) color.Color {
	if !colorBorders {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(c.Color())
}

// CellBorder returns the border shape of a class. Shapes differ per class so
// membership stays visible without colors.
func CellBorder(c render.BorderClass) lipgloss.Border {
	switch c {
	case render.Selected:
		return lipgloss.ThickBorder()
	case render.MultiMembership:
		return lipgloss.DoubleBorder()
	case render.SingleMembership:
		return lipgloss.NormalBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}

// Cell returns the style of a grid cell with border class c.
func Cell(c render.BorderClass) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(CellBorder(c)).
		BorderForeground(BorderColor(c))
}
