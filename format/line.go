package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/freebuilder/analysis"
)

// LineEncoder writes one tab-separated record per line, suited to grep and
// cut: a type line, one line per property, one per diagnostic.
type LineEncoder struct {
	w      io.Writer
	report Report
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(report Report) error {
	e.report = report
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	r := e.report

	if md := r.Metadata; md != nil {
		fmt.Fprintf(&sb, "type\t%s\t%s\t%s\n", md.Type, md.GeneratedBuilder, e.typeFlagsStr(md))
		for _, p := range md.Properties {
			fmt.Fprintf(&sb, "property\t%s\t%s\t%s\t%s\t%s\n",
				p.Name,
				p.Type.String(),
				p.GetterName,
				p.SetterName,
				e.strategyStr(p),
			)
		}
	} else {
		fmt.Fprintf(&sb, "type\t%s\t-\tfailed\n", r.Type)
	}

	for _, d := range r.Diagnostics {
		fmt.Fprintf(&sb, "diagnostic\t%s\t%s\t%s\t%s\n", d.Severity, d.Element, d.Pos, d.Message)
	}

	return []byte(sb.String()), nil
}

func (e *LineEncoder) typeFlagsStr(md *analysis.Metadata) string {
	var flags []string
	if md.Builder != nil {
		flags = append(flags, "builder="+md.Builder.String())
	}
	if md.BuilderFactory != analysis.NoBuilderFactory {
		flags = append(flags, "factory="+md.BuilderFactory.String())
	}
	if md.Extensible {
		flags = append(flags, "extensible")
	}
	if md.HasToBuilderMethod {
		flags = append(flags, "toBuilder")
	}
	if md.BuilderSerializable {
		flags = append(flags, "serializable")
	}
	if md.GwtSerializable() {
		flags = append(flags, "gwt")
	}
	flags = append(flags, "value="+md.ValueTypeVisibility.String())
	return strings.Join(flags, ",")
}

func (e *LineEncoder) strategyStr(p analysis.Property) string {
	if p.CodeGenerator == nil {
		return "-"
	}
	return p.CodeGenerator.Kind()
}
