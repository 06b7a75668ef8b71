package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/vsort/internal/config"
	"github.com/raphi011/vsort/internal/output"
)

// testEnv isolates history and cache under temp dirs and returns a context
// whose printer writes to the returned buffer. Tests using it cannot run in
// parallel because of t.Setenv.
func testEnv(t *testing.T) (context.Context, *bytes.Buffer, *config.Config) {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("VSORT_HOME", filepath.Join(home, ".vsort"))

	cfg := config.Default()
	cfg.Cache.Dir = filepath.Join(home, "cache")

	var buf bytes.Buffer
	ctx := config.WithResolver(context.Background(), config.NewResolver(&cfg))
	ctx = output.WithPrinter(ctx, &buf)
	return ctx, &buf, &cfg
}

// runCmd executes the command tree with args. Logging is silenced.
func runCmd(ctx context.Context, stdin io.Reader, args ...string) error {
	root := newRootCmd()
	root.SetArgs(append(args, "--quiet"))
	root.SetOut(output.FromContext(ctx).Writer())
	root.SetErr(io.Discard)
	if stdin != nil {
		root.SetIn(stdin)
	}
	return root.ExecuteContext(ctx)
}

// writeTestProject writes a project with two local images and one version
// without a source. Returns the project file path.
func writeTestProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	for _, name := range []string{"1.png", "2.png"} {
		writePNG(t, filepath.Join(dir, name), 40, 30)
	}

	content := fmt.Sprintf(`{
	"name": "Ship Trailer",
	"versions": [
		{"id": 1, "code": "hero_v001", "sg_version_type": "Concept Art", "image": %q},
		{"id": 2, "code": "board_v001", "sg_version_type": "Storyboard", "image": {"local_path": %q}},
		{"id": 3, "code": "hero_v002", "sg_version_type": "Concept Art"}
	],
	"breakdown": [
		{"sg_bid_assets": ["Hero Ship", "Station"], "sg_sequence_code": "SQ010"}
	]
}`, filepath.Join(dir, "1.png"), filepath.Join(dir, "2.png"))

	path := filepath.Join(dir, "trailer.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 8), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("output missing %q:\n%s", w, got)
		}
	}
}
