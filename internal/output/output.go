// Package output provides context-aware output for mr.
// Stdout is used for primary data output (status lines, paths, command output).
// Stderr (via log package) is used for diagnostics.
package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

type ctxKey struct{}

// Printer writes primary output to stdout.
// It is safe for concurrent use.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

// New creates a new Printer writing to the given writer.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// WithPrinter attaches a Printer to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, New(w))
}

// FromContext retrieves the Printer from context.
// Returns a Printer writing to os.Stdout if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

// Print writes output without a newline.
func (p *Printer) Print(a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.w, a...)
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, a...)
}

// Println writes a line of output.
func (p *Printer) Println(a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, a...)
}

// Block writes every line of the given chunks prefixed with "prefix: ".
// The block is written with a single Write, so blocks from concurrent
// callers never interleave. Empty chunks are skipped.
func (p *Printer) Block(prefix string, chunks ...[]byte) {
	b := FormatBlock(prefix, chunks...)
	if len(b) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = p.w.Write(b)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// FormatBlock prefixes each line of chunks with "prefix: ".
// A missing trailing newline is added.
func FormatBlock(prefix string, chunks ...[]byte) []byte {
	var buf bytes.Buffer
	for _, chunk := range chunks {
		for len(chunk) > 0 {
			line := chunk
			if i := bytes.IndexByte(chunk, '\n'); i >= 0 {
				line, chunk = chunk[:i+1], chunk[i+1:]
			} else {
				chunk = nil
			}
			buf.WriteString(prefix)
			buf.WriteString(": ")
			buf.Write(line)
			if line[len(line)-1] != '\n' {
				buf.WriteByte('\n')
			}
		}
	}
	return buf.Bytes()
}
