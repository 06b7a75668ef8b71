package static

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	out := RenderTable(
		[]string{"TYPE", "FOLDER", "IMAGES"},
		[][]string{
			{"asset", "Hero", "3"},
			{"scene", "Opening Shot", "12"},
		},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}
	for _, want := range []string{"TYPE", "Hero", "Opening Shot", "12"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Columns are aligned: the FOLDER column starts at the same offset on every line.
	col := strings.Index(lines[0], "FOLDER")
	if strings.Index(lines[1], "Hero") != col || strings.Index(lines[2], "Opening Shot") != col {
		t.Errorf("FOLDER column is not aligned:\n%s", out)
	}
}

func TestRenderTable_Empty(t *testing.T) {
	t.Parallel()

	if got := RenderTable([]string{"A"}, nil); got != "" {
		t.Errorf("RenderTable() with no rows = %q, want empty", got)
	}
}

func TestRenderKeyValue(t *testing.T) {
	t.Parallel()

	out := RenderKeyValue([][2]string{
		{"Dir", "/tmp/cache"},
		{"Files", "4"},
	})
	for _, want := range []string{"Dir:", "/tmp/cache", "Files:", "4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if RenderKeyValue(nil) != "" {
		t.Error("RenderKeyValue(nil) should be empty")
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"concept_art_v003", 8, "concept…"},
		{"anything", 0, ""},
		{"ab", 1, "…"},
	}

	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
