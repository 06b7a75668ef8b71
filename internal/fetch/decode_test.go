package fetch

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestFitSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		srcW, srcH   int
		maxW, maxH   int
		wantW, wantH int
	}{
		{"landscape into thumbnail", 1600, 1200, 166, 136, 166, 125},
		{"portrait into thumbnail", 1200, 1600, 166, 136, 102, 136},
		{"already fits", 100, 80, 166, 136, 100, 80},
		{"never enlarges", 10, 10, 1600, 1200, 10, 10},
		{"width bound only", 400, 200, 100, 0, 100, 50},
		{"no bounds", 400, 200, 0, 0, 400, 200},
		{"extreme aspect keeps one pixel", 10000, 1, 100, 100, 100, 1},
		{"empty source", 0, 10, 100, 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w, h := FitSize(tt.srcW, tt.srcH, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("FitSize(%d, %d, %d, %d) = %dx%d, want %dx%d",
					tt.srcW, tt.srcH, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, 64, 32)

	img, err := Decode(data, 16, 16)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if img.Width != 16 || img.Height != 8 {
		t.Errorf("size = %dx%d, want 16x8", img.Width, img.Height)
	}
	if img.SourceBytes != len(data) {
		t.Errorf("SourceBytes = %d, want %d", img.SourceBytes, len(data))
	}

	img, err = Decode(data, 166, 136)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if img.Width != 64 || img.Height != 32 {
		t.Errorf("unscaled size = %dx%d, want 64x32", img.Width, img.Height)
	}
}

func TestDecode_Invalid(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"empty":   nil,
		"garbage": []byte("<html>not an image</html>"),
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := Decode(data, 10, 10); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
}

// withDeclaredSize rewrites the IHDR dimensions of an encoded PNG.
func withDeclaredSize(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	out := bytes.Clone(data)
	if string(out[12:16]) != "IHDR" {
		t.Fatalf("unexpected PNG layout")
	}
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestDecode_TooManyPixels(t *testing.T) {
	t.Parallel()

	data := withDeclaredSize(t, encodePNG(t, 8, 8), 20000, 20000)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width != 20000 {
		t.Fatalf("DecodeConfig() = %+v, %v, want a 20000 pixel wide header", cfg, err)
	}

	_, err = Decode(data, 166, 136)
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("Decode() error = %v, want pixel limit error", err)
	}
}
