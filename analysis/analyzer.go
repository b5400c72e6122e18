// Package analysis inspects a type annotated @FreeBuilder and produces the
// Metadata its generated builder is rendered from.
package analysis

import (
	"errors"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/freebuilder/diag"
	"github.com/dhamidi/freebuilder/java"
	"github.com/dhamidi/freebuilder/java/parser"
)

// ErrCannotGenerate is returned when a type cannot have a builder
// generated. The reasons have already been reported to the sink.
var ErrCannotGenerate = errors.New("cannot generate builder")

var errUnsealed = errors.New("analysis: universe is not sealed")

// analysis holds the state of one Analyze call. Nothing in it is shared
// with other analyses except the sealed universe.
type analysis struct {
	universe *java.Universe
	decl     *java.TypeDecl
	sink     diag.Sink
	log      commonlog.Logger
}

// Analyze builds the Metadata of decl. Findings are reported to sink;
// fatal ones make Analyze return ErrCannotGenerate and no Metadata.
// The universe must be sealed and contain decl.
func Analyze(u *java.Universe, decl *java.TypeDecl, sink diag.Sink) (*Metadata, error) {
	if !u.Sealed() {
		return nil, errUnsealed
	}
	a := &analysis{universe: u, decl: decl, sink: sink, log: commonlog.GetLogger("freebuilder.analysis")}
	if !a.checkDeclaration() {
		return nil, ErrCannotGenerate
	}

	md := &Metadata{
		Type:          ParameterizedType{Name: NameOf(decl), TypeParameters: decl.TypeParameters},
		InterfaceType: decl.IsInterface(),
	}
	md.GeneratedBuilder = ParameterizedType{
		Name:           generatedBuilderName(decl),
		TypeParameters: decl.TypeParameters,
	}
	md.ValueType = md.GeneratedBuilder.Nested("Value")
	md.PartialType = md.GeneratedBuilder.Nested("Partial")
	md.PropertyEnum = md.GeneratedBuilder.Nested("Property")

	builder := a.builderShape(md)
	a.builderFactory(md, builder)
	md.Generics = a.genericSignature(builder)

	var defaults map[string]bool
	if builder != nil {
		defaults = map[string]bool{}
		for _, name := range u.ConstructorInvocations(builder) {
			defaults[name] = true
		}
	}
	md.Properties = a.properties(defaults)
	a.checkToBuilder(md, builder)
	md.StandardMethodUnderrides = a.underrides()

	a.gwt(md)
	md.VisibleNestedTypes = a.visibleNestedTypes(md.NestedClasses)

	a.log.Debugf("analyzed %s: %d properties, builder factory %q", md.Type, len(md.Properties), md.BuilderFactory)
	return md, nil
}

// generatedBuilderName joins the simple names of decl's enclosing chain:
// com.example.Outer.Inner becomes com.example.Outer_Inner_Builder.
func generatedBuilderName(decl *java.TypeDecl) QualifiedName {
	return QualifiedName{
		Package:     decl.Package,
		SimpleNames: []string{strings.Join(decl.SimpleNames(), "_") + "_Builder"},
	}
}

func (a *analysis) report(severity diag.Severity, element string, pos parser.Position, message string) {
	a.sink.Report(diag.Diagnostic{Severity: severity, Pos: pos, Element: element, Message: message})
}

// errorAt reports an error against method m of the analyzed type.
func (a *analysis) errorAt(m java.Method, message string) {
	a.report(diag.Error, a.decl.QualifiedName()+"."+m.Name, m.Pos, message)
}

func (a *analysis) errorOn(decl *java.TypeDecl, message string) {
	a.report(diag.Error, decl.QualifiedName(), decl.Pos, message)
}

func (a *analysis) noteOn(decl *java.TypeDecl, message string) {
	a.report(diag.Note, decl.QualifiedName(), decl.Pos, message)
}
