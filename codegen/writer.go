package codegen

import (
	"bytes"
	"fmt"
	"strings"
)

// SourceWriter accumulates Java source one line at a time, tracking brace
// indentation.
type SourceWriter struct {
	buf       bytes.Buffer
	indent    int
	indentStr string
}

func NewSourceWriter() *SourceWriter {
	return &SourceWriter{indentStr: "  "}
}

// Line writes one formatted line at the current indentation.
func (w *SourceWriter) Line(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if text != "" {
		w.buf.WriteString(strings.Repeat(w.indentStr, w.indent))
		w.buf.WriteString(text)
	}
	w.buf.WriteByte('\n')
}

func (w *SourceWriter) Blank() {
	w.buf.WriteByte('\n')
}

// Open writes a line ending in an opening brace and indents what follows.
func (w *SourceWriter) Open(format string, args ...any) {
	w.Line(format+" {", args...)
	w.indent++
}

// Close dedents and writes the closing brace.
func (w *SourceWriter) Close() {
	w.CloseWith("")
}

// CloseWith dedents and writes the closing brace followed by suffix, as in
// `} else {`.
func (w *SourceWriter) CloseWith(suffix string) {
	if w.indent > 0 {
		w.indent--
	}
	w.Line("}%s", suffix)
}

// Else closes the current block and opens an else branch.
func (w *SourceWriter) Else() {
	w.CloseWith(" else {")
	w.indent++
}

func (w *SourceWriter) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *SourceWriter) String() string {
	return w.buf.String()
}
