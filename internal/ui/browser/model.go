package browser

import (
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/sahilm/fuzzy"

	"github.com/raphi011/vsort/internal/config"
	"github.com/raphi011/vsort/internal/imagecache"
	"github.com/raphi011/vsort/internal/membership"
	"github.com/raphi011/vsort/internal/project"
	"github.com/raphi011/vsort/internal/version"
)

// Size is a fetch size in pixels.
type Size struct {
	Width  int
	Height int
}

// Options are the fetch sizes and loader timeouts of the views.
type Options struct {
	Thumbnail        Size
	Viewer           Size
	ThumbnailTimeout time.Duration
	DetailTimeout    time.Duration
	ViewerTimeout    time.Duration
}

// OptionsFromConfig reads the view options from cfg.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Thumbnail:        Size{cfg.Thumbnail.Width, cfg.Thumbnail.Height},
		Viewer:           Size{cfg.Viewer.Width, cfg.Viewer.Height},
		ThumbnailTimeout: cfg.Thumbnail.Timeout.Duration,
		DetailTimeout:    cfg.Detail.Timeout.Duration,
		ViewerTimeout:    cfg.Viewer.Timeout.Duration,
	}
}

type focus int

const (
	focusGrid focus = iota
	focusFolders
)

type mode int

const (
	modeBrowse mode = iota
	modeDetail
	modeViewer
)

// detailView is an open folder.
type detailView struct {
	folder membership.FolderRef
	ids    []membership.ImageID // grouped by category, then by id
	cursor int
}

// viewerView is the enlarged image. Closing it drops its pending delivery.
type viewerView struct {
	id   membership.ImageID
	back mode
	cell cell
}

// deliveryMsg carries a finished fetch from a worker into Update.
type deliveryMsg struct {
	c imagecache.Completion
}

// requestMsg asks Update to request the thumbnails on screen.
type requestMsg struct{}

// Model is the bubbletea model of the browser.
type Model struct {
	session *project.Session
	engine  *imagecache.Engine
	opts    Options
	copy    func(string) error

	records   []version.Record
	visible   []int // indices into records passing the filters
	hidden    map[version.Category]bool
	filter    string
	filtering bool

	cursor int // index into visible
	scroll int // first grid row on screen

	folders      []membership.FolderRef
	folderCursor int
	focus        focus
	mode         mode

	detail *detailView
	viewer *viewerView
	thumbs map[membership.ImageID]*cell

	spinner   spinner.Model
	width     int
	height    int
	status    string
	statusErr bool
	quitting  bool
}

// New creates a browser over session. All images are requested through engine,
// whose consuming side the model becomes once it runs.
func New(session *project.Session, engine *imagecache.Engine, opts Options) *Model {
	m := &Model{
		session: session,
		engine:  engine,
		opts:    opts,
		copy:    clipboard.WriteAll,
		records: session.Records(),
		hidden:  make(map[version.Category]bool),
		thumbs:  make(map[membership.ImageID]*cell),
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
	m.listFolders()
	m.applyFilter()
	return m
}

// listFolders rebuilds the folder pane from the index.
func (m *Model) listFolders() {
	m.folders = m.folders[:0]
	for _, t := range membership.FolderTypes {
		for _, name := range m.session.Index.Folders(t) {
			m.folders = append(m.folders, membership.FolderRef{Type: t, Name: name})
		}
	}
	m.folderCursor = min(m.folderCursor, max(len(m.folders)-1, 0))
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForDelivery(),
		m.spinner.Tick,
		func() tea.Msg { return requestMsg{} },
	)
}

// waitForDelivery blocks on the engine's delivery channel. Exactly one of these
// is outstanding while the program runs.
func (m *Model) waitForDelivery() tea.Cmd {
	ch := m.engine.Deliveries()
	return func() tea.Msg {
		return deliveryMsg{c: <-ch}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case deliveryMsg:
		m.engine.Complete(msg.c)
		return m, m.waitForDelivery()

	case requestMsg:
		m.requestVisible()
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.scrollToCursor()
		m.requestVisible()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		m.filterKey(msg)
		return m, nil
	}

	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m, m.saveAndQuit()
	case "s":
		m.save()
		return m, nil
	case "y":
		m.copyLocator()
		return m, nil
	}

	switch m.mode {
	case modeViewer:
		m.viewerKey(key)
	case modeDetail:
		m.detailKey(key)
	default:
		m.browseKey(key)
	}
	return m, nil
}

func (m *Model) browseKey(key string) {
	switch key {
	case "tab":
		if m.focus == focusGrid {
			m.focus = focusFolders
		} else {
			m.focus = focusGrid
		}
	case "up", "k":
		m.move(0, -1)
	case "down", "j":
		m.move(0, 1)
	case "left", "h":
		m.move(-1, 0)
	case "right", "l":
		m.move(1, 0)
	case "a":
		m.dropSelected()
	case "enter":
		if m.focus == focusFolders {
			m.openFolder()
		}
	case "space", "v":
		if id, ok := m.selectedID(); ok {
			m.openViewer(id)
		}
	case "/":
		m.filtering = true
	case "1", "2", "3", "4":
		m.toggleCategory(int(key[0] - '1'))
	case "r":
		m.retrySelected()
	case "R":
		m.reloadFolders()
	case "esc":
		if m.filter != "" {
			m.filter = ""
			m.applyFilter()
		}
	}
}

func (m *Model) detailKey(key string) {
	d := m.detail
	switch key {
	case "esc", "backspace":
		m.detail = nil
		m.mode = modeBrowse
	case "up", "k", "left", "h":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j", "right", "l":
		if d.cursor < len(d.ids)-1 {
			d.cursor++
		}
	case "x":
		m.removeSelected()
	case "space", "v":
		if id, ok := m.selectedID(); ok {
			m.openViewer(id)
		}
	case "r":
		m.retrySelected()
	}
}

func (m *Model) viewerKey(key string) {
	switch key {
	case "esc", "space", "v", "enter":
		m.closeViewer()
	case "r":
		if m.viewer.cell.state == cellFailed {
			m.requestViewer()
		}
	}
}

func (m *Model) filterKey(msg tea.KeyPressMsg) {
	switch msg.String() {
	case "enter":
		m.filtering = false
	case "esc":
		m.filtering = false
		m.filter = ""
	case "backspace":
		if r := []rune(m.filter); len(r) > 0 {
			m.filter = string(r[:len(r)-1])
		}
	default:
		if msg.Text == "" {
			return
		}
		m.filter += msg.Text
	}
	m.applyFilter()
}

// selectedID returns the image the next action applies to.
func (m *Model) selectedID() (membership.ImageID, bool) {
	switch m.mode {
	case modeViewer:
		return m.viewer.id, true
	case modeDetail:
		if len(m.detail.ids) == 0 {
			return 0, false
		}
		return m.detail.ids[m.detail.cursor], true
	}
	if len(m.visible) == 0 {
		return 0, false
	}
	return m.records[m.visible[m.cursor]].ID, true
}

// move shifts the cursor of the focused pane.
func (m *Model) move(dx, dy int) {
	if m.focus == focusFolders {
		if n := len(m.folders); n > 0 {
			m.folderCursor = min(max(m.folderCursor+dy+dx, 0), n-1)
		}
		return
	}
	if len(m.visible) == 0 {
		return
	}
	next := m.cursor + dx + dy*m.gridCols()
	if next < 0 || next >= len(m.visible) {
		return
	}
	m.cursor = next
	m.scrollToCursor()
	m.requestVisible()
}

// dropSelected adds the selected image to the folder under the folder cursor.
func (m *Model) dropSelected() {
	id, ok := m.selectedID()
	if !ok || len(m.folders) == 0 {
		return
	}
	f := m.folders[m.folderCursor]
	if m.session.Index.Contains(f.Type, f.Name, id) {
		m.setStatus(fmt.Sprintf("#%s is already in %s", id, f.Label()))
		return
	}
	if err := m.session.Add(f.Type, f.Name, id); err != nil {
		m.setError(err)
		return
	}
	m.setStatus(fmt.Sprintf("Dropped #%s to %s", id, f.Label()))
}

// removeSelected removes the selected image from the open folder.
func (m *Model) removeSelected() {
	id, ok := m.selectedID()
	if !ok {
		return
	}
	f := m.detail.folder
	if err := m.session.Remove(f.Type, f.Name, id); err != nil {
		m.setError(err)
		return
	}
	m.detail.ids = m.folderContents(f)
	m.detail.cursor = min(m.detail.cursor, max(len(m.detail.ids)-1, 0))
	m.setStatus(fmt.Sprintf("Removed #%s from %s", id, f.Label()))
}

// reloadFolders re-reads the breakdown from the project file and syncs the
// folder list. Memberships of dropped folders are lost.
func (m *Model) reloadFolders() {
	p, err := project.Load(m.session.Project.Path())
	if err != nil {
		m.setError(err)
		return
	}
	m.session.Project.Breakdown = p.Breakdown
	res := m.session.Sync()
	m.listFolders()
	m.setStatus(fmt.Sprintf("Folders reloaded: %d added, %d removed", len(res.Added), len(res.Removed)))
}

func (m *Model) openFolder() {
	if len(m.folders) == 0 {
		return
	}
	f := m.folders[m.folderCursor]
	m.detail = &detailView{folder: f, ids: m.folderContents(f)}
	m.mode = modeDetail
	m.requestVisible()
}

// folderContents lists the images of f grouped by category.
func (m *Model) folderContents(f membership.FolderRef) []membership.ImageID {
	byCategory := make(map[version.Category][]membership.ImageID)
	for _, id := range m.session.Index.Images(f.Type, f.Name) {
		cat := version.ConceptArt
		if rec, ok := m.session.Record(id); ok {
			cat = rec.Category()
		}
		byCategory[cat] = append(byCategory[cat], id)
	}
	var ids []membership.ImageID
	for _, cat := range version.Categories {
		ids = append(ids, byCategory[cat]...)
	}
	return ids
}

func (m *Model) openViewer(id membership.ImageID) {
	if _, ok := m.session.Record(id); !ok {
		return
	}
	m.viewer = &viewerView{id: id, back: m.mode}
	m.mode = modeViewer
	m.requestViewer()
}

func (m *Model) requestViewer() {
	v := m.viewer
	rec, _ := m.session.Record(v.id)
	gen := v.cell.begin()
	size := m.opts.Viewer
	m.engine.RequestImageTimeout(rec.ViewerLocator(), size.Width, size.Height, m.opts.ViewerTimeout,
		imagecache.SinkFunc(func(r imagecache.Result) {
			v.cell.apply(gen, r)
		}))
}

func (m *Model) closeViewer() {
	m.viewer.cell.drop()
	m.mode = m.viewer.back
	m.viewer = nil
}

// thumb returns the thumbnail cell of id, creating an idle one.
func (m *Model) thumb(id membership.ImageID) *cell {
	c, ok := m.thumbs[id]
	if !ok {
		c = &cell{}
		m.thumbs[id] = c
	}
	return c
}

// requestThumb starts loading the thumbnail of rec unless it is loading or done.
func (m *Model) requestThumb(rec version.Record, timeout time.Duration) {
	c := m.thumb(rec.ID)
	if c.state != cellIdle {
		return
	}
	gen := c.begin()
	size := m.opts.Thumbnail
	m.engine.RequestImageTimeout(rec.ThumbnailLocator(), size.Width, size.Height, timeout,
		imagecache.SinkFunc(func(r imagecache.Result) {
			c.apply(gen, r)
		}))
}

// requestVisible requests every thumbnail currently on screen.
func (m *Model) requestVisible() {
	if m.mode == modeDetail {
		for _, id := range m.detail.ids {
			if rec, ok := m.session.Record(id); ok {
				m.requestThumb(rec, m.opts.DetailTimeout)
			}
		}
		return
	}

	cols := m.gridCols()
	first := m.scroll * cols
	last := min(first+m.gridRows()*cols, len(m.visible))
	for i := first; i < last; i++ {
		m.requestThumb(m.records[m.visible[i]], m.opts.ThumbnailTimeout)
	}
}

// retrySelected issues a new request for a failed thumbnail.
func (m *Model) retrySelected() {
	id, ok := m.selectedID()
	if !ok {
		return
	}
	c := m.thumb(id)
	if c.state != cellFailed {
		return
	}
	c.state = cellIdle
	timeout := m.opts.ThumbnailTimeout
	if m.mode == modeDetail {
		timeout = m.opts.DetailTimeout
	}
	rec, _ := m.session.Record(id)
	m.requestThumb(rec, timeout)
	m.setStatus("Retrying " + rec.Title())
}

func (m *Model) toggleCategory(i int) {
	if i < 0 || i >= len(version.Categories) {
		return
	}
	c := version.Categories[i]
	m.hidden[c] = !m.hidden[c]
	m.applyFilter()
}

// recordSource adapts the candidate records to fuzzy.Source.
type recordSource struct {
	records []version.Record
	idx     []int
}

func (s recordSource) String(i int) string { return s.records[s.idx[i]].Title() }
func (s recordSource) Len() int            { return len(s.idx) }

// applyFilter recomputes the visible records from the category toggles and the
// text filter. Fuzzy matches are ordered best first.
func (m *Model) applyFilter() {
	var candidates []int
	for i, rec := range m.records {
		if !m.hidden[rec.Category()] {
			candidates = append(candidates, i)
		}
	}

	if m.filter == "" {
		m.visible = candidates
	} else {
		matches := fuzzy.FindFrom(m.filter, recordSource{records: m.records, idx: candidates})
		m.visible = make([]int, len(matches))
		for i, match := range matches {
			m.visible[i] = candidates[match.Index]
		}
	}

	m.cursor = min(m.cursor, max(len(m.visible)-1, 0))
	m.scrollToCursor()
	m.requestVisible()
}

func (m *Model) copyLocator() {
	id, ok := m.selectedID()
	if !ok {
		return
	}
	rec, _ := m.session.Record(id)
	loc := rec.ViewerLocator()
	if loc == "" {
		m.setStatus("No locator for " + rec.Title())
		return
	}
	if err := m.copy(loc); err != nil {
		m.setError(fmt.Errorf("copy to clipboard: %w", err))
		return
	}
	m.setStatus("Copied " + loc)
}

func (m *Model) save() bool {
	if err := m.session.Save(); err != nil {
		m.setError(err)
		return false
	}
	m.setStatus("Saved")
	return true
}

// saveAndQuit saves unsaved changes and quits. A failed save keeps the browser
// open with the error shown.
func (m *Model) saveAndQuit() tea.Cmd {
	if m.session.Dirty() && !m.save() {
		return nil
	}
	m.quitting = true
	return tea.Quit
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}
