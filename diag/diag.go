// Package diag models the notes, warnings and errors reported against
// source declarations.
package diag

import (
	"fmt"
	"sync"

	"github.com/dhamidi/freebuilder/java/parser"
)

type Severity int

const (
	Note Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Note:
		return "note"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is attached to one declaration: Element names it (a qualified
// type name, or Type.method) and Pos is where it was declared.
type Diagnostic struct {
	Severity Severity
	Pos      parser.Position
	Element  string
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}

type Sink interface {
	Report(d Diagnostic)
}

// Log is an append-only Sink. Diagnostics keep their emission order.
type Log struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

func (l *Log) Report(d Diagnostic) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.diagnostics = append(l.diagnostics, d)
}

func (l *Log) Diagnostics() []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Diagnostic(nil), l.diagnostics...)
}

func (l *Log) Count(s Severity) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, d := range l.diagnostics {
		if d.Severity == s {
			n++
		}
	}
	return n
}

func (l *Log) HasErrors() bool {
	return l.Count(Error) > 0
}

// For returns the diagnostics reported against element, in emission order.
func (l *Log) For(element string) []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []Diagnostic
	for _, d := range l.diagnostics {
		if d.Element == element {
			result = append(result, d)
		}
	}
	return result
}
