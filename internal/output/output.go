// Package output writes the results of vsort commands to stdout: reports,
// folder tables, membership details and bulk JSON mappings. Each command
// picks JSON or a human rendering with [Printer.Emit]. Diagnostics go to
// stderr through the log package.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/raphi011/vsort/internal/ui/static"
)

type ctxKey struct{}

// Printer writes primary output (data, tables, paths, JSON) to stdout.
type Printer struct {
	w io.Writer
}

// New creates a new Printer writing to the given writer.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// WithPrinter attaches a Printer to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, &Printer{w: w})
}

// FromContext retrieves the Printer from context.
// Returns a Printer writing to os.Stdout if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return &Printer{w: os.Stdout}
}

// Print writes output without a newline.
func (p *Printer) Print(a ...any) {
	fmt.Fprint(p.w, a...)
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Println writes a line of output.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Emit writes v as JSON when asJSON is set and calls human otherwise.
// Nil slices are written as [] so scripts never see null for an empty list.
func (p *Printer) Emit(asJSON bool, v any, human func() error) error {
	if !asJSON {
		return human()
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice && rv.IsNil() {
		v = []any{}
	}
	return p.PrintJSON(v)
}

// Table writes rows under headers in the shared table style.
func (p *Printer) Table(headers []string, rows [][]string) {
	p.Print(static.RenderTable(headers, rows))
}

// Fields writes aligned label/value pairs, such as the details of one image.
func (p *Printer) Fields(pairs [][2]string) {
	p.Print(static.RenderKeyValue(pairs))
}

// PrintJSON writes v as indented JSON followed by a newline.
func (p *Printer) PrintJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
