package imagecache

import (
	"context"
	"image"
)

// Image is a decoded, scaled image. Never mutated after it is stored.
type Image struct {
	Pixels      image.Image
	Width       int
	Height      int
	SourceBytes int // size of the encoded source, for display
}

// NewImage wraps decoded pixels.
func NewImage(px image.Image, sourceBytes int) *Image {
	b := px.Bounds()
	return &Image{
		Pixels:      px,
		Width:       b.Dx(),
		Height:      b.Dy(),
		SourceBytes: sourceBytes,
	}
}

// Result is what a sink receives: either Image or Err is set.
type Result struct {
	Key   Key
	Image *Image
	Err   error
}

// OK reports whether the result carries an image.
func (r Result) OK() bool {
	return r.Err == nil && r.Image != nil
}

// Sink receives the outcome of a request.
// Deliver may be called after the sink's view is gone and must then do nothing.
type Sink interface {
	Deliver(Result)
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(Result)

// Deliver calls f(r).
func (f SinkFunc) Deliver(r Result) { f(r) }

// LoadFunc fetches and decodes the image for key. It runs on a worker goroutine and
// must not touch any state owned by the consuming goroutine.
type LoadFunc func(ctx context.Context, key Key) (*Image, error)
