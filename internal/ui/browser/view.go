package browser

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/raphi011/vsort/internal/imagecache"
	"github.com/raphi011/vsort/internal/membership"
	"github.com/raphi011/vsort/internal/render"
	"github.com/raphi011/vsort/internal/ui/static"
	"github.com/raphi011/vsort/internal/ui/styles"
	"github.com/raphi011/vsort/internal/version"
)

// Layout in terminal cells.
const (
	cellCols        = 18 // preview width
	cellRows        = 5  // preview height, two pixel rows each
	cellWidth       = cellCols + 2
	cellHeight      = cellRows + 1 + 2 // preview, title, border
	folderPaneWidth = 34
	chromeHeight    = 5 // header, tooltip, status and pane borders

	defaultWidth  = 120
	defaultHeight = 40
)

func (m *Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// gridCols is the number of cells per grid row.
func (m *Model) gridCols() int {
	w, _ := m.size()
	return max(1, (w-folderPaneWidth-4)/cellWidth)
}

// gridRows is the number of grid rows on screen.
func (m *Model) gridRows() int {
	_, h := m.size()
	return max(1, (h-chromeHeight)/cellHeight)
}

// scrollToCursor moves the grid window so the cursor row is on screen.
func (m *Model) scrollToCursor() {
	row := m.cursor / m.gridCols()
	rows := m.gridRows()
	switch {
	case row < m.scroll:
		m.scroll = row
	case row >= m.scroll+rows:
		m.scroll = row - rows + 1
	}
	m.scroll = max(m.scroll, 0)
}

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.WindowTitle = "vsort · " + m.session.Project.Name
	return v
}

func (m *Model) render() string {
	if m.quitting {
		return ""
	}

	w, h := m.size()
	bodyHeight := h - chromeHeight

	var body string
	if m.mode == modeViewer {
		body = m.renderViewer(w-2, bodyHeight)
	} else {
		main := m.renderGrid()
		if m.mode == modeDetail {
			main = m.renderDetail(bodyHeight)
		}
		mainStyle := styles.PaneStyle
		folderStyle := styles.PaneStyle
		if m.focus == focusFolders {
			folderStyle = styles.ActivePaneStyle
		} else {
			mainStyle = styles.ActivePaneStyle
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			mainStyle.Width(w-folderPaneWidth-2).Height(bodyHeight).MaxHeight(bodyHeight+2).Render(main),
			folderStyle.Width(folderPaneWidth-2).Height(bodyHeight).MaxHeight(bodyHeight+2).Render(m.renderFolders()),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderTooltip(),
		m.renderStatus(),
	)
}

func (m *Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(styles.AccentStyle.Render(m.session.Project.Name))
	b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("  %d/%d versions  ", len(m.visible), len(m.records))))

	for i, c := range version.Categories {
		label := fmt.Sprintf("%d %s", i+1, c)
		if m.hidden[c] {
			b.WriteString(styles.MutedStyle.Strikethrough(true).Render(label))
		} else {
			b.WriteString(styles.PrimaryStyle.Render(label))
		}
		b.WriteString("  ")
	}

	if m.filtering || m.filter != "" {
		cursor := ""
		if m.filtering {
			cursor = "█"
		}
		b.WriteString(styles.NormalStyle.Render("/" + m.filter + cursor))
	}
	return b.String()
}

func (m *Model) renderGrid() string {
	if len(m.visible) == 0 {
		return styles.MutedStyle.Render("No versions match")
	}

	cols := m.gridCols()
	var rows []string
	for r := m.scroll; r < m.scroll+m.gridRows(); r++ {
		var cells []string
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(m.visible) {
				break
			}
			cells = append(cells, m.renderCell(m.records[m.visible[i]], i == m.cursor))
		}
		if len(cells) == 0 {
			break
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderCell draws one thumbnail with the border its membership derives.
func (m *Model) renderCell(rec version.Record, selected bool) string {
	st := render.For(m.session.Index, rec.ID, selected)
	title := static.Truncate(rec.Title(), cellCols)
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.thumb(rec.ID).render(cellCols, cellRows),
		lipgloss.PlaceHorizontal(cellCols, lipgloss.Left, title),
	)
	return styles.Cell(st.Border).Render(body)
}

func (m *Model) renderDetail(height int) string {
	d := m.detail
	var b strings.Builder
	b.WriteString(styles.AccentStyle.Render(d.folder.Label()))
	b.WriteString(styles.MutedStyle.Render("  " + static.Plural(len(d.ids), "image")))
	b.WriteString("\n")

	if len(d.ids) == 0 {
		b.WriteString(styles.MutedStyle.Render("Empty folder. Press esc and drop images with a."))
		return b.String()
	}

	cols := m.gridCols()
	i := 0
	for _, cat := range version.Categories {
		var cells []string
		for ; i < len(d.ids); i++ {
			rec, ok := m.session.Record(d.ids[i])
			if !ok {
				rec = version.Record{ID: d.ids[i]}
			}
			if rec.Category() != cat {
				break
			}
			cells = append(cells, m.renderCell(rec, i == d.cursor))
		}
		if len(cells) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(styles.Bold.Render(cat.String()))
		b.WriteString("\n")
		for start := 0; start < len(cells); start += cols {
			end := min(start+cols, len(cells))
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells[start:end]...))
			b.WriteString("\n")
		}
	}
	return lipgloss.NewStyle().MaxHeight(height).Render(b.String())
}

func (m *Model) renderFolders() string {
	selected, hasSelected := m.selectedID()
	var b strings.Builder
	i := 0
	for _, t := range membership.FolderTypes {
		b.WriteString(styles.Bold.Render(t.Title() + "s"))
		b.WriteString("\n")
		names := m.session.Index.Folders(t)
		if len(names) == 0 {
			b.WriteString(styles.MutedStyle.Render("  none"))
			b.WriteString("\n")
		}
		for _, name := range names {
			marker := "  "
			if i == m.folderCursor {
				marker = "▸ "
				if m.focus == focusFolders {
					marker = styles.AccentStyle.Render(marker)
				} else {
					marker = styles.MutedStyle.Render(marker)
				}
			}
			count := static.Plural(m.session.Index.Count(t, name), "image")
			label := static.Truncate(name, folderPaneWidth-6-len(count))

			nameStyle := styles.NormalStyle
			if hasSelected && m.session.Index.Contains(t, name, selected) {
				nameStyle = styles.HighlightStyle
			}
			pad := max(1, folderPaneWidth-6-lipgloss.Width(label)-len(count))
			b.WriteString(marker + nameStyle.Render(label) + strings.Repeat(" ", pad) + styles.MutedStyle.Render(count))
			b.WriteString("\n")
			i++
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m *Model) renderViewer(width, height int) string {
	v := m.viewer
	rec, _ := m.session.Record(v.id)
	st := render.For(m.session.Index, v.id, true)

	cols, rows := max(1, width-2), max(1, height-2)
	body := v.cell.render(cols, rows)

	caption := []string{styles.AccentStyle.Render(rec.Title())}
	switch v.cell.state {
	case cellLoaded:
		img := v.cell.image
		caption = append(caption,
			fmt.Sprintf("%dx%d", img.Width, img.Height),
			static.FormatBytes(int64(img.SourceBytes)))
	case cellFailed:
		msg := styles.ErrorStyle.Render(v.cell.err.Error())
		if imagecache.Retryable(v.cell.err) {
			msg += styles.MutedStyle.Render("  r to retry")
		}
		caption = append(caption, msg)
	}
	if loc := rec.ViewerLocator(); loc != "" {
		caption = append(caption, styles.MutedStyle.Render(static.Truncate(loc, width/2)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Cell(st.Border).Render(body),
		strings.Join(caption, "  "),
	)
}

func (m *Model) renderTooltip() string {
	id, ok := m.selectedID()
	if !ok {
		return ""
	}
	tip := render.Tooltip(m.session.Index.FoldersContaining(id))
	if tip == "" {
		return styles.MutedStyle.Render("Not in any folder")
	}
	return styles.InfoStyle.Render(tip)
}

func (m *Model) renderStatus() string {
	var parts []string
	if n := m.engine.Pending(); n > 0 {
		parts = append(parts, m.spinner.View()+styles.MutedStyle.Render(fmt.Sprintf(" fetching %d", n)))
	}
	if m.session.Dirty() {
		parts = append(parts, styles.WarningStyle.Render("● unsaved"))
	}
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, styles.ErrorStyle.Render(m.status))
		} else {
			parts = append(parts, styles.SuccessStyle.Render(m.status))
		}
	}
	parts = append(parts, styles.MutedStyle.Render(m.help()))
	return strings.Join(parts, "  ")
}

func (m *Model) help() string {
	switch {
	case m.filtering:
		return "type to filter • enter keep • esc clear"
	case m.mode == modeViewer:
		return "esc close • r retry • y copy • q quit"
	case m.mode == modeDetail:
		return "←/→ move • x remove • v view • esc back • s save • q quit"
	default:
		return "tab pane • a drop • enter open • v view • / filter • 1-4 categories • y copy • r retry • R reload folders • s save • q quit"
	}
}
