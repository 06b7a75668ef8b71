package imagecache

import (
	"errors"
	"strings"
	"testing"
)

func TestFetchError(t *testing.T) {
	t.Parallel()

	cause := errors.New("HTTP 502")
	key := NewKey("http://x/a.png", 1, 1)
	err := error(NewFetchError(ErrNetwork, key, cause))

	if !errors.Is(err, ErrNetwork) {
		t.Error("errors.Is(err, ErrNetwork) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if errors.Is(err, ErrDecode) {
		t.Error("errors.Is(err, ErrDecode) = true")
	}
	if msg := err.Error(); !strings.Contains(msg, "http://x/a.png_1x1") || !strings.Contains(msg, "HTTP 502") {
		t.Errorf("Error() = %q, want key and cause", msg)
	}
}

func TestKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"missing", NewFetchError(ErrSourceMissing, Key{}, nil), ErrSourceMissing},
		{"decode", NewFetchError(ErrDecode, Key{}, nil), ErrDecode},
		{"unclassified", errors.New("eof"), ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Kind(tt.err); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}
