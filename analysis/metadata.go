package analysis

import (
	"fmt"
	"strings"

	"github.com/dhamidi/freebuilder/java"
	"github.com/dhamidi/freebuilder/java/parser"
)

// QualifiedName is a package plus the chain of simple names from the
// outermost type inwards.
type QualifiedName struct {
	Package     string
	SimpleNames []string
}

func NameOf(decl *java.TypeDecl) QualifiedName {
	return QualifiedName{Package: decl.Package, SimpleNames: decl.SimpleNames()}
}

func (q QualifiedName) SimpleName() string {
	if len(q.SimpleNames) == 0 {
		return ""
	}
	return q.SimpleNames[len(q.SimpleNames)-1]
}

func (q QualifiedName) Nested(simpleName string) QualifiedName {
	names := append(append([]string(nil), q.SimpleNames...), simpleName)
	return QualifiedName{Package: q.Package, SimpleNames: names}
}

// Enclosing returns the type q is nested in, or q itself for a top-level
// type.
func (q QualifiedName) Enclosing() QualifiedName {
	if len(q.SimpleNames) <= 1 {
		return q
	}
	return QualifiedName{Package: q.Package, SimpleNames: q.SimpleNames[:len(q.SimpleNames)-1]}
}

func (q QualifiedName) String() string {
	name := strings.Join(q.SimpleNames, ".")
	if q.Package == "" {
		return name
	}
	return q.Package + "." + name
}

func (q QualifiedName) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// ParameterizedType is a type name together with the type parameters it
// declares.
type ParameterizedType struct {
	Name           QualifiedName
	TypeParameters []java.TypeParameter
}

func (p ParameterizedType) IsParameterized() bool {
	return len(p.TypeParameters) > 0
}

// TypeParameterNames returns `<A, B>`, or the empty string when there are
// no type parameters.
func (p ParameterizedType) TypeParameterNames() string {
	if len(p.TypeParameters) == 0 {
		return ""
	}
	names := make([]string, len(p.TypeParameters))
	for i, tp := range p.TypeParameters {
		names[i] = tp.Name
	}
	return "<" + strings.Join(names, ", ") + ">"
}

// Declaration returns the type parameters with their bounds, suitable for a
// class declaration: `<K extends java.lang.Comparable<K>, V>`.
func (p ParameterizedType) Declaration() string {
	if len(p.TypeParameters) == 0 {
		return ""
	}
	parts := make([]string, len(p.TypeParameters))
	for i, tp := range p.TypeParameters {
		parts[i] = tp.Name
		for j, bound := range tp.Bounds {
			if j == 0 {
				parts[i] += " extends "
			} else {
				parts[i] += " & "
			}
			parts[i] += bound.String()
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// String returns the type as used, e.g. com.example.Person_Builder<K, V>.
func (p ParameterizedType) String() string {
	return p.Name.String() + p.TypeParameterNames()
}

func (p ParameterizedType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Nested returns a type nested in p, parameterized like p.
func (p ParameterizedType) Nested(simpleName string) ParameterizedType {
	return ParameterizedType{Name: p.Name.Nested(simpleName), TypeParameters: p.TypeParameters}
}

type BuilderFactory int

const (
	NoBuilderFactory BuilderFactory = iota
	NoArgsConstructor
	BuilderMethod
	NewBuilderMethod
)

func (f BuilderFactory) String() string {
	switch f {
	case NoBuilderFactory:
		return ""
	case NoArgsConstructor:
		return "NO_ARGS_CONSTRUCTOR"
	case BuilderMethod:
		return "BUILDER_METHOD"
	case NewBuilderMethod:
		return "NEW_BUILDER_METHOD"
	}
	return fmt.Sprintf("BuilderFactory(%d)", int(f))
}

func (f BuilderFactory) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// NewBuilder returns the Java expression creating a builder of type
// builder with this factory.
func (f BuilderFactory) NewBuilder(builder string, enclosing string) string {
	switch f {
	case BuilderMethod:
		return enclosing + ".builder()"
	case NewBuilderMethod:
		return enclosing + ".newBuilder()"
	}
	return "new " + builder + "()"
}

type StandardMethod int

const (
	Equals StandardMethod = iota
	HashCode
	ToString
)

func (m StandardMethod) String() string {
	switch m {
	case Equals:
		return "EQUALS"
	case HashCode:
		return "HASH_CODE"
	case ToString:
		return "TO_STRING"
	}
	return fmt.Sprintf("StandardMethod(%d)", int(m))
}

func (m StandardMethod) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

type Underride int

const (
	Absent Underride = iota
	Overrideable
	Final
)

func (u Underride) String() string {
	switch u {
	case Absent:
		return "ABSENT"
	case Overrideable:
		return "OVERRIDEABLE"
	case Final:
		return "FINAL"
	}
	return fmt.Sprintf("Underride(%d)", int(u))
}

func (u Underride) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

type Visibility int

const (
	VisibilityPrivate Visibility = iota
	VisibilityPackage
	VisibilityPublic
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "PRIVATE"
	case VisibilityPackage:
		return "PACKAGE"
	case VisibilityPublic:
		return "PUBLIC"
	}
	return fmt.Sprintf("Visibility(%d)", int(v))
}

func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Keyword returns the Java modifier for v; package visibility has none.
func (v Visibility) Keyword() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityPublic:
		return "public"
	}
	return ""
}

// Property is one accessor of the user type.
type Property struct {
	Name                string
	CapitalizedName     string
	AllCapsName         string
	GetterName          string
	SetterName          string
	Type                java.TypeRef
	BoxedType           *java.TypeRef
	UsingBeanConvention bool
	FullyCheckedCast    bool
	CodeGenerator       PropertyType
	Pos                 parser.Position
}

// BoxedOrType returns the boxed type for primitives and Type otherwise.
func (p Property) BoxedOrType() java.TypeRef {
	if p.BoxedType != nil {
		return *p.BoxedType
	}
	return p.Type
}

// GenericSignature relates the builder's type variables to the user type's.
type GenericSignature struct {
	// BuilderVariables maps each builder type variable to the user type
	// variable at the same position.
	BuilderVariables map[string]string
	// StaleSuperclassArity is set when an existing generated superclass in
	// the universe declares a different number of type parameters.
	StaleSuperclassArity bool
}

// Metadata describes everything the renderer needs to generate the
// builder of one user type. It is not modified after Analyze returns.
type Metadata struct {
	Type                        ParameterizedType
	InterfaceType               bool
	Builder                     *ParameterizedType
	BuilderFactory              BuilderFactory
	Extensible                  bool
	BuilderSerializable         bool
	HasToBuilderMethod          bool
	GeneratedBuilder            ParameterizedType
	ValueType                   ParameterizedType
	PartialType                 ParameterizedType
	PropertyEnum                ParameterizedType
	Properties                  []Property
	StandardMethodUnderrides    map[StandardMethod]Underride
	ValueTypeVisibility         Visibility
	NestedClasses               []QualifiedName
	VisibleNestedTypes          []QualifiedName
	GeneratedBuilderAnnotations []string
	ValueTypeAnnotations        []string
	Generics                    GenericSignature
}

// Underride returns the recorded underride of m, Absent when none.
func (m *Metadata) Underride(method StandardMethod) Underride {
	return m.StandardMethodUnderrides[method]
}

func (m *Metadata) Property(name string) (Property, bool) {
	for _, p := range m.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// GwtSerializable reports whether the GWT serialization helpers are
// generated.
func (m *Metadata) GwtSerializable() bool {
	for _, n := range m.NestedClasses {
		if n.SimpleName() == "Value_CustomFieldSerializer" {
			return true
		}
	}
	return false
}
