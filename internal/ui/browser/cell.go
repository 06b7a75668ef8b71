package browser

import (
	"errors"

	"github.com/raphi011/vsort/internal/imagecache"
	"github.com/raphi011/vsort/internal/ui/styles"
)

type cellState int

const (
	cellIdle cellState = iota
	cellLoading
	cellLoaded
	cellNoPreview
	cellFailed
)

func (s cellState) String() string {
	switch s {
	case cellLoading:
		return "Loading…"
	case cellLoaded:
		return "Loaded"
	case cellNoPreview:
		return "No Preview"
	case cellFailed:
		return "Failed"
	default:
		return ""
	}
}

// cell is the fetch state of one picture: a grid thumbnail or the viewer image.
// gen changes on every request so late deliveries for an older request are
// dropped.
type cell struct {
	state cellState
	gen   int
	image *imagecache.Image
	err   error

	preview     string // rendered half blocks, built on first draw
	previewSize [2]int
}

// begin marks the cell as loading and returns the generation a sink must match.
func (c *cell) begin() int {
	c.gen++
	c.state = cellLoading
	c.image = nil
	c.err = nil
	c.preview = ""
	return c.gen
}

// apply stores a delivery for generation gen. Stale deliveries are ignored.
func (c *cell) apply(gen int, r imagecache.Result) {
	if c.gen != gen {
		return
	}
	switch {
	case r.OK():
		c.state = cellLoaded
		c.image = r.Image
	case errors.Is(r.Err, imagecache.ErrSourceMissing):
		c.state = cellNoPreview
		c.err = r.Err
	default:
		c.state = cellFailed
		c.err = r.Err
	}
}

// drop invalidates any outstanding request so its delivery becomes a no-op.
func (c *cell) drop() {
	c.gen++
}

// render returns the cell body at cols x rows, caching the half-block preview.
func (c *cell) render(cols, rows int) string {
	switch c.state {
	case cellLoaded:
		if c.preview == "" || c.previewSize != [2]int{cols, rows} {
			c.preview = halfBlocks(c.image.Pixels, cols, rows)
			c.previewSize = [2]int{cols, rows}
		}
		return c.preview
	case cellFailed:
		return placeholder(c.state.String(), cols, rows, styles.ErrorStyle)
	case cellIdle:
		return blank(cols, rows)
	default:
		return placeholder(c.state.String(), cols, rows, styles.MutedStyle)
	}
}
