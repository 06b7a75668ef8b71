package output

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestWithPrinter_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		ctx := WithPrinter(context.Background(), &buf)
		p := FromContext(ctx)
		if p == nil {
			t.Fatal("FromContext returned nil")
		}
		if p.Writer() != &buf {
			t.Error("Writer() should return the buffer passed to WithPrinter")
		}
	})

	t.Run("default to stdout when not set", func(t *testing.T) {
		t.Parallel()
		p := FromContext(context.Background())
		if p == nil {
			t.Fatal("FromContext returned nil on empty context")
		}
		if p.Writer() != os.Stdout {
			t.Error("Writer() should default to os.Stdout")
		}
	})
}

func TestPrinter_Print(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))

	p.Print("hello", " ", "world")
	if got := buf.String(); got != "hello world" {
		t.Errorf("Print() wrote %q, want %q", got, "hello world")
	}
}

func TestPrinter_Printf(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))

	p.Printf("count: %d", 42)
	if got := buf.String(); got != "count: 42" {
		t.Errorf("Printf() wrote %q, want %q", got, "count: 42")
	}
}

func TestPrinter_Println(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))

	p.Println("line one")
	p.Println("line two")
	want := "line one\nline two\n"
	if got := buf.String(); got != want {
		t.Errorf("Println() wrote %q, want %q", got, want)
	}
}

func TestPrinter_Writer(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithPrinter(context.Background(), &buf)
	p := FromContext(ctx)

	w := p.Writer()
	if w != &buf {
		t.Error("Writer() should return the underlying writer")
	}

	// Write directly through the writer
	if _, err := w.Write([]byte("direct")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := buf.String(); got != "direct" {
		t.Errorf("direct Write produced %q, want %q", got, "direct")
	}
}

func TestPrinter_PrintJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))

	v := struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}{"Hero Ship", 2}
	if err := p.PrintJSON(v); err != nil {
		t.Fatalf("PrintJSON() error = %v", err)
	}

	want := "{\n  \"name\": \"Hero Ship\",\n  \"count\": 2\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("PrintJSON() wrote %q, want %q", got, want)
	}
}

func TestPrinter_Emit(t *testing.T) {
	t.Parallel()

	type folder struct {
		Name   string `json:"name"`
		Images int    `json:"images"`
	}

	tests := []struct {
		name   string
		asJSON bool
		v      any
		want   string
	}{
		{"json", true, []folder{{"Hero Ship", 2}}, "[\n  {\n    \"name\": \"Hero Ship\",\n    \"images\": 2\n  }\n]\n"},
		{"nil slice is an empty list", true, []folder(nil), "[]\n"},
		{"human", false, []folder{{"Hero Ship", 2}}, "Hero Ship: 2 images\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			p := New(&buf)
			err := p.Emit(tt.asJSON, tt.v, func() error {
				p.Println("Hero Ship: 2 images")
				return nil
			})
			if err != nil {
				t.Fatalf("Emit() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Emit() wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrinter_EmitReturnsHumanError(t *testing.T) {
	t.Parallel()

	want := errors.New("render failed")
	if err := New(&bytes.Buffer{}).Emit(false, nil, func() error { return want }); !errors.Is(err, want) {
		t.Errorf("Emit() error = %v, want %v", err, want)
	}
}

func TestPrinter_TableAndFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := New(&buf)
	p.Table([]string{"TYPE", "FOLDER", "IMAGES"}, [][]string{{"asset", "Hero Ship", "2 images"}})
	p.Fields([][2]string{{"Border", "multi"}})

	for _, want := range []string{"TYPE", "Hero Ship", "2 images", "Border", "multi"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}
