package fetch

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/raphi011/vsort/internal/imagecache"
)

// MaxSourcePixels caps the declared size of an image before it is decoded.
const MaxSourcePixels = 64 << 20

// Decode decodes data and scales it down to fit within width x height, keeping the
// aspect ratio. Images that already fit are returned unscaled.
func Decode(data []byte, width, height int) (*imagecache.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image data")
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > MaxSourcePixels {
		return nil, fmt.Errorf("image size %dx%d exceeds %d pixels", cfg.Width, cfg.Height, MaxSourcePixels)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", b.Dx(), b.Dy())
	}

	w, h := FitSize(b.Dx(), b.Dy(), width, height)
	if w == b.Dx() && h == b.Dy() {
		return imagecache.NewImage(src, len(data)), nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return imagecache.NewImage(dst, len(data)), nil
}

// FitSize returns the largest size with the aspect ratio of srcW x srcH that fits
// within maxW x maxH. A bound <= 0 is ignored. Images are never enlarged, and
// neither side drops below 1.
func FitSize(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0
	}

	scale := 1.0
	if maxW > 0 {
		scale = min(scale, float64(maxW)/float64(srcW))
	}
	if maxH > 0 {
		scale = min(scale, float64(maxH)/float64(srcH))
	}
	if scale >= 1 {
		return srcW, srcH
	}

	w := max(1, int(math.Round(float64(srcW)*scale)))
	h := max(1, int(math.Round(float64(srcH)*scale)))
	return w, h
}
