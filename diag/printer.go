package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func (m ColorMode) Valid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	}
	return false
}

// Printer writes diagnostics in the compiler style
// `file:line:col: error: message`, coloring the severity.
type Printer struct {
	w      io.Writer
	colors map[Severity]*color.Color
	bold   *color.Color
}

func NewPrinter(w io.Writer, mode ColorMode) *Printer {
	p := &Printer{
		w: w,
		colors: map[Severity]*color.Color{
			Note:    color.New(color.FgCyan, color.Bold),
			Warning: color.New(color.FgYellow, color.Bold),
			Error:   color.New(color.FgRed, color.Bold),
		},
		bold: color.New(color.Bold),
	}
	all := []*color.Color{p.bold}
	for _, c := range p.colors {
		all = append(all, c)
	}
	for _, c := range all {
		switch mode {
		case ColorAlways:
			c.EnableColor()
		case ColorNever:
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) Print(d Diagnostic) error {
	_, err := fmt.Fprintf(p.w, "%s %s %s\n",
		p.bold.Sprintf("%s:", d.Pos),
		p.colors[d.Severity].Sprintf("%s:", d.Severity),
		d.Message)
	return err
}

func (p *Printer) PrintAll(diagnostics []Diagnostic) error {
	for _, d := range diagnostics {
		if err := p.Print(d); err != nil {
			return err
		}
	}
	return nil
}
