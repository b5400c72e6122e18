package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/freebuilder/analysis"
	"github.com/dhamidi/freebuilder/diag"
)

type JSONEncoder struct {
	w      io.Writer
	report Report
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(report Report) error {
	e.report = report
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data := e.buildReportData()
	return json.MarshalIndent(data, "", "  ")
}

type jsonReport struct {
	Type        string           `json:"type"`
	Metadata    *jsonMetadata    `json:"metadata,omitempty"`
	Diagnostics []jsonDiagnostic `json:"diagnostics,omitempty"`
}

type jsonMetadata struct {
	Type                string              `json:"type"`
	Interface           bool                `json:"interface,omitempty"`
	Builder             string              `json:"builder,omitempty"`
	BuilderFactory      string              `json:"builderFactory,omitempty"`
	Extensible          bool                `json:"extensible"`
	BuilderSerializable bool                `json:"builderSerializable,omitempty"`
	ToBuilder           bool                `json:"toBuilder,omitempty"`
	GeneratedBuilder    string              `json:"generatedBuilder"`
	ValueType           string              `json:"valueType"`
	PartialType         string              `json:"partialType"`
	ValueTypeVisibility string              `json:"valueTypeVisibility"`
	Properties          []jsonProperty      `json:"properties,omitempty"`
	Underrides          map[string]string   `json:"underrides,omitempty"`
	NestedClasses       []string            `json:"nestedClasses,omitempty"`
	VisibleNestedTypes  []string            `json:"visibleNestedTypes,omitempty"`
	Annotations         map[string][]string `json:"annotations,omitempty"`
	BuilderVariables    map[string]string   `json:"builderVariables,omitempty"`
}

type jsonProperty struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	BoxedType        string `json:"boxedType,omitempty"`
	Getter           string `json:"getter"`
	Setter           string `json:"setter"`
	AllCapsName      string `json:"allCapsName"`
	BeanConvention   bool   `json:"beanConvention,omitempty"`
	FullyCheckedCast bool   `json:"fullyCheckedCast,omitempty"`
	Strategy         string `json:"strategy"`
}

type jsonDiagnostic struct {
	Severity string `json:"severity"`
	Element  string `json:"element"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Message  string `json:"message"`
}

func (e *JSONEncoder) buildReportData() jsonReport {
	r := e.report
	data := jsonReport{Type: r.Type}
	if r.Metadata != nil {
		md := jsonMetadataOf(r.Metadata)
		data.Metadata = &md
	}
	for _, d := range r.Diagnostics {
		data.Diagnostics = append(data.Diagnostics, jsonDiagnosticOf(d))
	}
	return data
}

func jsonMetadataOf(md *analysis.Metadata) jsonMetadata {
	data := jsonMetadata{
		Type:                md.Type.String(),
		Interface:           md.InterfaceType,
		BuilderFactory:      md.BuilderFactory.String(),
		Extensible:          md.Extensible,
		BuilderSerializable: md.BuilderSerializable,
		ToBuilder:           md.HasToBuilderMethod,
		GeneratedBuilder:    md.GeneratedBuilder.String(),
		ValueType:           md.ValueType.String(),
		PartialType:         md.PartialType.String(),
		ValueTypeVisibility: md.ValueTypeVisibility.String(),
		BuilderVariables:    md.Generics.BuilderVariables,
	}
	if md.Builder != nil {
		data.Builder = md.Builder.String()
	}
	for _, p := range md.Properties {
		data.Properties = append(data.Properties, jsonPropertyOf(p))
	}
	for m, u := range md.StandardMethodUnderrides {
		if u == analysis.Absent {
			continue
		}
		if data.Underrides == nil {
			data.Underrides = map[string]string{}
		}
		data.Underrides[m.String()] = u.String()
	}
	for _, n := range md.NestedClasses {
		data.NestedClasses = append(data.NestedClasses, n.String())
	}
	for _, n := range md.VisibleNestedTypes {
		data.VisibleNestedTypes = append(data.VisibleNestedTypes, n.String())
	}
	if len(md.GeneratedBuilderAnnotations) > 0 || len(md.ValueTypeAnnotations) > 0 {
		data.Annotations = map[string][]string{}
		if len(md.GeneratedBuilderAnnotations) > 0 {
			data.Annotations["generatedBuilder"] = md.GeneratedBuilderAnnotations
		}
		if len(md.ValueTypeAnnotations) > 0 {
			data.Annotations["valueType"] = md.ValueTypeAnnotations
		}
	}
	return data
}

func jsonPropertyOf(p analysis.Property) jsonProperty {
	data := jsonProperty{
		Name:             p.Name,
		Type:             p.Type.String(),
		Getter:           p.GetterName,
		Setter:           p.SetterName,
		AllCapsName:      p.AllCapsName,
		BeanConvention:   p.UsingBeanConvention,
		FullyCheckedCast: p.FullyCheckedCast,
	}
	if p.BoxedType != nil {
		data.BoxedType = p.BoxedType.String()
	}
	if p.CodeGenerator != nil {
		data.Strategy = p.CodeGenerator.Kind()
	}
	return data
}

func jsonDiagnosticOf(d diag.Diagnostic) jsonDiagnostic {
	return jsonDiagnostic{
		Severity: d.Severity.String(),
		Element:  d.Element,
		File:     d.Pos.File,
		Line:     d.Pos.Line,
		Column:   d.Pos.Column,
		Message:  d.Message,
	}
}
