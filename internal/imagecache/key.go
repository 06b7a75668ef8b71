package imagecache

import "fmt"

// Key identifies one decoded variant of a source image.
type Key struct {
	Locator string
	Width   int
	Height  int
}

// NewKey creates a key for locator scaled to fit width x height.
func NewKey(locator string, width, height int) Key {
	return Key{Locator: locator, Width: width, Height: height}
}

// String returns the flat form used in logs, e.g. "http://x/img.png_166x136".
func (k Key) String() string {
	return fmt.Sprintf("%s_%dx%d", k.Locator, k.Width, k.Height)
}
