// Package format encodes analysis reports for the CLI.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/freebuilder/analysis"
	"github.com/dhamidi/freebuilder/diag"
)

// Report is the outcome of analyzing one type. Metadata is nil when the
// builder cannot be generated.
type Report struct {
	Type        string
	Metadata    *analysis.Metadata
	Diagnostics []diag.Diagnostic
}

type Encoder interface {
	encoding.TextMarshaler
	Encode(report Report) error
}

// New returns the encoder registered under name, json or line.
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "line", "":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format %q (want json or line)", name)
}
