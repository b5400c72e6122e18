package analysis

import (
	"fmt"

	"github.com/dhamidi/freebuilder/java"
)

const (
	errBuilderNotStatic   = "Builder must be static on FreeBuilder types"
	errBuilderNotGeneric  = "Builder must be generic"
	errBuilderTypeParams  = "Builder has the wrong type parameters"
	errBuilderSupertype   = "Builder extends the wrong type (should be %s)"
	errToBuilderNoFactory = "No accessible no-args Builder constructor available to implement toBuilder"
)

// builderShape finds the user's Builder and checks its declaration. It
// returns nil when there is none or it is unusable; the builder stays
// absent from md in that case.
func (a *analysis) builderShape(md *Metadata) *java.TypeDecl {
	builder, ok := a.decl.Nested("Builder")
	if !ok {
		a.noteOn(a.decl, a.builderStanza(md))
		return nil
	}
	if !builder.IsEffectivelyStatic() {
		a.errorOn(builder, errBuilderNotStatic)
		return nil
	}

	want, got := len(a.decl.TypeParameters), len(builder.TypeParameters)
	switch {
	case want > 0 && got == 0:
		a.errorOn(builder, errBuilderNotGeneric)
		return nil
	case want != got:
		a.errorOn(builder, errBuilderTypeParams)
		return nil
	}

	if expected := generatedSupertype(md, builder); builder.SuperClass == nil || !builder.SuperClass.SameType(expected) {
		should := md.GeneratedBuilder.Name.SimpleName() + typeVariableList(builder.TypeParameters)
		a.errorOn(builder, fmt.Sprintf(errBuilderSupertype, should))
		return nil
	}

	md.Builder = &ParameterizedType{Name: NameOf(builder), TypeParameters: builder.TypeParameters}
	return builder
}

// builderStanza is the declaration the user should add to get a builder.
func (a *analysis) builderStanza(md *Metadata) string {
	params := md.Type.TypeParameterNames()
	kind := "class"
	if md.InterfaceType {
		kind = "interface"
	}
	return fmt.Sprintf("Add \"public static class Builder%s extends %s%s {}\" to your %s to enable the FreeBuilder API",
		params, md.GeneratedBuilder.Name.SimpleName(), params, kind)
}

// generatedSupertype is the superclass the builder must extend: the
// generated builder, parameterized by the builder's own type variables.
func generatedSupertype(md *Metadata, builder *java.TypeDecl) java.TypeRef {
	ref := java.Declared(md.GeneratedBuilder.Name.String())
	for _, tp := range builder.TypeParameters {
		ref.Args = append(ref.Args, java.Var(tp.Name))
	}
	return ref
}

func typeVariableList(params []java.TypeParameter) string {
	return ParameterizedType{TypeParameters: params}.TypeParameterNames()
}

// builderFactory records how generated code obtains a builder instance.
// A static factory method takes precedence over the constructor, but only
// an accessible no-args constructor makes the builder extensible.
func (a *analysis) builderFactory(md *Metadata, builder *java.TypeDecl) {
	if builder == nil {
		return
	}
	if f, ok := staticFactory(a.decl, builder); ok {
		md.BuilderFactory = f
	}
	ctor, ok := builder.NoArgConstructor()
	md.Extensible = ok && ctor.Visibility.Accessible()
	if md.BuilderFactory == NoBuilderFactory && md.Extensible {
		md.BuilderFactory = NoArgsConstructor
	}
	md.BuilderSerializable = a.universe.IsSubtype(builder, "java.io.Serializable")
}

// isToBuilder matches an abstract zero-arg toBuilder() returning the
// builder. Any other toBuilder is an ordinary accessor.
func (a *analysis) isToBuilder(m java.Method) bool {
	return m.Name == "toBuilder" && m.IsAbstract && !m.IsStatic && len(m.Parameters) == 0 &&
		a.returnsBuilder(m.ReturnType)
}

// returnsBuilder reports whether t names the analyzed type's nested
// Builder or its generated builder. Without a nested Builder, an
// unresolved type named Builder counts too.
func (a *analysis) returnsBuilder(t java.TypeRef) bool {
	if t.Kind != java.TypeDeclared || t.IsArray() {
		return false
	}
	switch t.Name {
	case a.decl.QualifiedName() + ".Builder", generatedBuilderName(a.decl).String():
		return true
	}
	if _, ok := a.decl.Nested("Builder"); ok {
		return false
	}
	_, known := a.universe.Lookup(t.Name)
	return !known && t.SimpleName() == "Builder"
}

// checkToBuilder enables toBuilder when the type declares it and generated
// code can construct the builder.
func (a *analysis) checkToBuilder(md *Metadata, builder *java.TypeDecl) {
	for _, m := range a.universe.Methods(a.decl) {
		if !a.isToBuilder(m) {
			continue
		}
		if builder == nil || !md.Extensible {
			a.errorAt(m, errToBuilderNoFactory)
			return
		}
		md.HasToBuilderMethod = true
		return
	}
}
