package static

import "testing"

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.n); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestPlural(t *testing.T) {
	t.Parallel()

	if got := Plural(1, "image"); got != "1 image" {
		t.Errorf("Plural(1) = %q", got)
	}
	if got := Plural(0, "image"); got != "0 images" {
		t.Errorf("Plural(0) = %q", got)
	}
	if got := Plural(12, "file"); got != "12 files" {
		t.Errorf("Plural(12) = %q", got)
	}
}
