package browser

import (
	"image"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/vsort/internal/fetch"
)

// upperHalf draws the top pixel in the foreground and the bottom pixel in the
// background, giving two pixel rows per terminal row.
const upperHalf = "▀"

// halfBlocks renders img into a cols x rows block of half-block characters,
// scaled to fit with its aspect ratio kept and padded with spaces. Every line
// is exactly cols cells wide.
func halfBlocks(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return blank(cols, rows)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return blank(cols, rows)
	}

	w, h := fetch.FitSize(b.Dx(), b.Dy(), cols, rows*2)
	usedRows := (h + 1) / 2
	padLeft := (cols - w) / 2
	padTop := (rows - usedRows) / 2

	at := func(x, y int) color.Color {
		sx := b.Min.X + x*b.Dx()/w
		sy := b.Min.Y + y*b.Dy()/h
		return img.At(sx, sy)
	}

	lines := make([]string, 0, rows)
	for r := 0; r < padTop; r++ {
		lines = append(lines, strings.Repeat(" ", cols))
	}
	for r := 0; r < usedRows; r++ {
		var line strings.Builder
		line.WriteString(strings.Repeat(" ", padLeft))
		for x := 0; x < w; x++ {
			style := lipgloss.NewStyle().Foreground(at(x, 2*r))
			if 2*r+1 < h {
				style = style.Background(at(x, 2*r+1))
			}
			line.WriteString(style.Render(upperHalf))
		}
		line.WriteString(strings.Repeat(" ", cols-padLeft-w))
		lines = append(lines, line.String())
	}
	for len(lines) < rows {
		lines = append(lines, strings.Repeat(" ", cols))
	}
	return strings.Join(lines, "\n")
}

// placeholder centers text in a cols x rows block.
func placeholder(text string, cols, rows int, style lipgloss.Style) string {
	return lipgloss.Place(cols, rows, lipgloss.Center, lipgloss.Center, style.Render(text))
}

func blank(cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	line := strings.Repeat(" ", cols)
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
