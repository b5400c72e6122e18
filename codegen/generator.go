// Package codegen renders analysis Metadata into the Java source of the
// generated builder superclass.
package codegen

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/dhamidi/freebuilder/analysis"
)

const generatorName = "org.inferred.freebuilder.processor.Processor"

// Generator renders builders. The zero value omits @Generated.
type Generator struct {
	GeneratedAnnotation bool
}

// File is one rendered compilation unit. Path is relative to the output
// root, e.g. com/example/Person_Builder.java.
type File struct {
	Path   string
	Source []byte
}

// unit holds the names shared by every part of one rendered builder.
type unit struct {
	md *analysis.Metadata
	// builderType is what mutators return: the user's Builder when one is
	// declared, the generated class otherwise.
	builderType string
	// generated is the generated class as used inside itself.
	generated string
	typeName  string
	props     []propertyCode
}

func (u *unit) hasUnset() bool {
	for _, p := range u.props {
		if p.tracked() {
			return true
		}
	}
	return false
}

// wildcards returns `<?, ?>` for a type with two parameters.
func (u *unit) wildcards() string {
	n := len(u.md.Type.TypeParameters)
	if n == 0 {
		return ""
	}
	return "<" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ">"
}

func (u *unit) diamond() string {
	if u.md.Type.IsParameterized() {
		return "<>"
	}
	return ""
}

// Generate renders the builder superclass of md.
func (g *Generator) Generate(md *analysis.Metadata) (*File, error) {
	if md == nil {
		return nil, errors.New("render: no metadata")
	}
	params := md.Type.TypeParameterNames()
	u := &unit{
		md:        md,
		generated: md.GeneratedBuilder.Name.SimpleName() + params,
		typeName:  md.Type.String(),
	}
	u.builderType = u.generated
	if md.Builder != nil {
		u.builderType = md.Builder.Name.String() + params
	}
	for _, p := range md.Properties {
		code, err := codeFor(u, p)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", md.Type.Name, err)
		}
		u.props = append(u.props, code)
	}

	w := NewSourceWriter()
	g.writeUnit(w, u)

	dir := strings.ReplaceAll(md.GeneratedBuilder.Name.Package, ".", "/")
	return &File{
		Path:   path.Join(dir, md.GeneratedBuilder.Name.SimpleName()+".java"),
		Source: w.Bytes(),
	}, nil
}

func (g *Generator) writeUnit(w *SourceWriter, u *unit) {
	md := u.md
	w.Line("// Generated by freebuilder. Do not edit.")
	w.Line("package %s;", md.GeneratedBuilder.Name.Package)
	w.Blank()
	if g.GeneratedAnnotation {
		w.Line("@javax.annotation.Generated(%q)", generatorName)
	}
	for _, a := range md.GeneratedBuilderAnnotations {
		w.Line("%s", a)
	}
	w.Open("abstract class %s%s", md.GeneratedBuilder.Name.SimpleName(), md.Type.Declaration())
	w.Blank()

	writeFrom(w, u)
	writePropertyEnum(w, u)

	for _, p := range u.props {
		p.builderField(w)
	}
	if u.hasUnset() {
		w.Line("private final java.util.EnumSet<Property> _unsetProperties = java.util.EnumSet.of(%s);", strings.Join(trackedConstants(u), ", "))
	}
	w.Blank()

	for _, p := range u.props {
		p.builderMethods(w)
	}
	writeMergeFromValue(w, u)
	writeMergeFromBuilder(w, u)
	writeClear(w, u)
	writeBuild(w, u)
	writeSelf(w, u)

	writeValue(w, u)
	writePartial(w, u)
	if md.GwtSerializable() {
		writeGwt(w, u)
	}
	w.Close()
}

func trackedConstants(u *unit) []string {
	var names []string
	for _, p := range u.props {
		if p.tracked() {
			names = append(names, "Property."+p.prop().AllCapsName)
		}
	}
	return names
}

// writeFrom renders the static factory copying a value, available when
// generated code can construct the user's Builder.
func writeFrom(w *SourceWriter, u *unit) {
	md := u.md
	if md.Builder == nil || !md.Extensible {
		return
	}
	w.Line("/** Creates a new builder using {@code value} as a template. */")
	w.Open("public static %s%s from(%s value)", typeParamsPrefix(md), u.builderType, u.typeName)
	w.Line("return new %s().mergeFrom(value);", u.builderType)
	w.Close()
	w.Blank()
}

func typeParamsPrefix(md *analysis.Metadata) string {
	if decl := md.Type.Declaration(); decl != "" {
		return decl + " "
	}
	return ""
}

func writePropertyEnum(w *SourceWriter, u *unit) {
	w.Open("private enum Property")
	for _, p := range u.props {
		w.Line("%s(%q),", p.prop().AllCapsName, p.prop().Name)
	}
	w.Line(";")
	w.Blank()
	w.Line("private final String name;")
	w.Blank()
	w.Open("private Property(String name)")
	w.Line("this.name = name;")
	w.Close()
	w.Blank()
	w.Line("@Override")
	w.Open("public String toString()")
	w.Line("return name;")
	w.Close()
	w.Close()
	w.Blank()
}

func writeMergeFromValue(w *SourceWriter, u *unit) {
	w.Line("/** Sets all property values using the given {@code %s} as a template. */", u.md.Type.Name.SimpleName())
	w.Open("public %s mergeFrom(%s value)", u.builderType, u.typeName)
	unset := ""
	if u.hasUnset() {
		unset = "unset"
		w.Line("java.util.Set<Property> unset = (value instanceof Partial)")
		w.Line("    ? ((Partial%s) value)._unsetProperties", u.wildcards())
		w.Line("    : java.util.EnumSet.noneOf(Property.class);")
	}
	for _, p := range u.props {
		p.mergeFromValue(w, "value", unset)
	}
	w.Line("return self();")
	w.Close()
	w.Blank()
}

func writeMergeFromBuilder(w *SourceWriter, u *unit) {
	w.Line("/** Copies values from the given {@code Builder}. Does not affect any properties not set on the input. */")
	w.Open("public %s mergeFrom(%s template)", u.builderType, u.builderType)
	w.Line("%s base = template;", u.generated)
	for _, p := range u.props {
		p.mergeFromBuilder(w, "base")
	}
	w.Line("return self();")
	w.Close()
	w.Blank()
}

// writeClear resets the builder. When generated code can construct a
// fresh Builder its constructor defaults are restored too.
func writeClear(w *SourceWriter, u *unit) {
	md := u.md
	w.Line("/** Resets the state of this builder. */")
	w.Open("public %s clear()", u.builderType)
	defaults := ""
	if md.Builder != nil && md.Extensible {
		defaults = "defaults"
		w.Line("%s defaults = new %s();", u.generated, u.builderType)
	}
	for _, p := range u.props {
		p.clear(w, defaults)
	}
	if defaults != "" && u.hasUnset() {
		w.Line("_unsetProperties.clear();")
		w.Line("_unsetProperties.addAll(defaults._unsetProperties);")
	}
	w.Line("return self();")
	w.Close()
	w.Blank()
}

func writeBuild(w *SourceWriter, u *unit) {
	w.Line("/** Returns a newly-created {@link %s} based on the contents of this builder. */", u.md.Type.Name.SimpleName())
	w.Open("public %s build()", u.typeName)
	if u.hasUnset() {
		w.Open("if (!_unsetProperties.isEmpty())")
		w.Line("throw new IllegalStateException(\"Not set: \" + _unsetProperties);")
		w.Close()
	}
	w.Line("return new Value%s(this);", u.diamond())
	w.Close()
	w.Blank()

	w.Line("/** Returns a newly-created partial {@link %s}; unset required properties throw on access. */", u.md.Type.Name.SimpleName())
	w.Open("public %s buildPartial()", u.typeName)
	w.Line("return new Partial%s(this);", u.diamond())
	w.Close()
	w.Blank()
}

func writeSelf(w *SourceWriter, u *unit) {
	w.Open("private %s self()", u.builderType)
	if u.md.Builder == nil {
		w.Line("return this;")
	} else {
		w.Line("return (%s) this;", u.builderType)
	}
	w.Close()
	w.Blank()
}
