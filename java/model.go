package java

import (
	"strings"

	"github.com/dhamidi/freebuilder/java/parser"
)

type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityPackage   Visibility = "package"
)

// Accessible reports whether code in the same package can reach a member
// with this visibility.
func (v Visibility) Accessible() bool {
	return v != VisibilityPrivate
}

type TypeKind string

const (
	TypeKindClass      TypeKind = "class"
	TypeKindInterface  TypeKind = "interface"
	TypeKindEnum       TypeKind = "enum"
	TypeKindAnnotation TypeKind = "annotation"
	TypeKindRecord     TypeKind = "record"
)

// File is one parsed compilation unit.
type File struct {
	Path    string
	Package string
	Imports []Import
	Types   []*TypeDecl
}

type Import struct {
	Name     string
	Static   bool
	Wildcard bool
}

// TypeDecl is a class, interface, enum, record or annotation type declared
// in source.
type TypeDecl struct {
	Package        string
	SimpleName     string
	Enclosing      *TypeDecl
	Kind           TypeKind
	Visibility     Visibility
	IsStatic       bool
	IsFinal        bool
	IsAbstract     bool
	IsLocal        bool
	TypeParameters []TypeParameter
	SuperClass     *TypeRef
	Interfaces     []TypeRef
	Annotations    []Annotation
	Methods        []Method
	Constructors   []Constructor
	NestedTypes    []*TypeDecl
	// LocalTypes are declared inside method, constructor or initializer
	// bodies. They are not members and never resolve as nested names.
	LocalTypes     []*TypeDecl
	File           *File
	Pos            parser.Position
}

// SimpleNames returns the names of the enclosing chain, outermost first,
// ending with the type's own name.
func (t *TypeDecl) SimpleNames() []string {
	if t.Enclosing == nil {
		return []string{t.SimpleName}
	}
	return append(t.Enclosing.SimpleNames(), t.SimpleName)
}

// QualifiedName returns the canonical name, e.g. com.example.Outer.Inner.
func (t *TypeDecl) QualifiedName() string {
	name := strings.Join(t.SimpleNames(), ".")
	if t.Package == "" {
		return name
	}
	return t.Package + "." + name
}

func (t *TypeDecl) IsInterface() bool {
	return t.Kind == TypeKindInterface || t.Kind == TypeKindAnnotation
}

// IsEffectivelyStatic reports whether the type needs no enclosing instance.
// Only classes declared without static inside another class are inner.
func (t *TypeDecl) IsEffectivelyStatic() bool {
	if t.Enclosing == nil || t.IsStatic {
		return true
	}
	if t.Kind != TypeKindClass {
		return true
	}
	return t.Enclosing.IsInterface()
}

// Type returns a reference to the type parameterized by its own type
// variables.
func (t *TypeDecl) Type() TypeRef {
	ref := TypeRef{Kind: TypeDeclared, Name: t.QualifiedName()}
	for _, tp := range t.TypeParameters {
		ref.Args = append(ref.Args, TypeRef{Kind: TypeVariable, Name: tp.Name})
	}
	return ref
}

// Supertypes returns the declared superclass and interfaces, in source
// order.
func (t *TypeDecl) Supertypes() []TypeRef {
	var supers []TypeRef
	if t.SuperClass != nil {
		supers = append(supers, *t.SuperClass)
	}
	return append(supers, t.Interfaces...)
}

func (t *TypeDecl) Nested(simpleName string) (*TypeDecl, bool) {
	for _, nested := range t.NestedTypes {
		if nested.SimpleName == simpleName {
			return nested, true
		}
	}
	return nil, false
}

func (t *TypeDecl) Annotation(name string) (Annotation, bool) {
	return findAnnotation(t.Annotations, name)
}

// NoArgConstructor returns the constructor taking no parameters. A class
// that declares no constructors gets an implicit one with the class's own
// visibility.
func (t *TypeDecl) NoArgConstructor() (Constructor, bool) {
	if len(t.Constructors) == 0 {
		if t.Kind != TypeKindClass {
			return Constructor{}, false
		}
		return Constructor{Visibility: t.Visibility, Implicit: true, Pos: t.Pos}, true
	}
	for _, c := range t.Constructors {
		if len(c.Parameters) == 0 {
			return c, true
		}
	}
	return Constructor{}, false
}

type TypeParameter struct {
	Name   string
	Bounds []TypeRef
}

type Method struct {
	Name           string
	DeclaringType  string
	TypeParameters []TypeParameter
	ReturnType     TypeRef
	Parameters     []Parameter
	Visibility     Visibility
	IsStatic       bool
	IsFinal        bool
	IsAbstract     bool
	IsDefault      bool
	HasBody        bool
	Annotations    []Annotation
	Pos            parser.Position
}

func (m Method) Annotation(name string) (Annotation, bool) {
	return findAnnotation(m.Annotations, name)
}

// Signature identifies a method for override matching: its name and the
// erasures of its parameter types.
func (m Method) Signature() string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, p := range m.Parameters {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.Type.Erasure())
	}
	sb.WriteByte(')')
	return sb.String()
}

type Parameter struct {
	Name    string
	Type    TypeRef
	Varargs bool
}

type Constructor struct {
	Visibility Visibility
	Parameters []Parameter
	Body       []Statement
	Implicit   bool
	Pos        parser.Position
}

type StatementKind int

const (
	// StatementOther is any statement that is not known to run
	// unconditionally against this.
	StatementOther StatementKind = iota
	// StatementCalls is a chain of method calls on this, e.g.
	// `setName("x").setAge(3);`.
	StatementCalls
	// StatementThis is an explicit this(..) constructor invocation.
	StatementThis
	// StatementSuper is an explicit super(..) constructor invocation.
	StatementSuper
)

type Statement struct {
	Kind  StatementKind
	Calls []Call
	// Args is the argument count of a this(..) or super(..) invocation.
	Args int
}

type Call struct {
	Name string
	Args int
}
