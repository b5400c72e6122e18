package java

import "strings"

type TypeRefKind int

const (
	TypeDeclared TypeRefKind = iota
	TypePrimitive
	TypeVariable
	TypeWildcard
	TypeVoid
)

// TypeRef is a use of a type. Declared types carry their qualified name once
// resolved; before resolution Name holds the source spelling.
type TypeRef struct {
	Kind TypeRefKind
	Name string
	Args []TypeRef
	// ArrayDims is the number of [] suffixes.
	ArrayDims int
	// Bound is the wildcard bound; BoundKind is "extends" or "super".
	Bound       *TypeRef
	BoundKind   string
	Annotations []Annotation
}

func Primitive(name string) TypeRef {
	return TypeRef{Kind: TypePrimitive, Name: name}
}

func Declared(name string, args ...TypeRef) TypeRef {
	return TypeRef{Kind: TypeDeclared, Name: name, Args: args}
}

func Var(name string) TypeRef {
	return TypeRef{Kind: TypeVariable, Name: name}
}

func Wildcard(boundKind string, bound *TypeRef) TypeRef {
	return TypeRef{Kind: TypeWildcard, Name: "?", BoundKind: boundKind, Bound: bound}
}

func (t TypeRef) IsPrimitive() bool {
	return t.Kind == TypePrimitive && t.ArrayDims == 0
}

func (t TypeRef) IsVoid() bool {
	return t.Kind == TypeVoid
}

func (t TypeRef) IsArray() bool {
	return t.ArrayDims > 0
}

// Erasure returns the erased type name: the qualified name without type
// arguments, plus array brackets. Type variables erase to their name.
func (t TypeRef) Erasure() string {
	if t.Kind == TypeWildcard {
		if t.Bound != nil && t.BoundKind == "extends" {
			return t.Bound.Erasure()
		}
		return "java.lang.Object"
	}
	return t.Name + strings.Repeat("[]", t.ArrayDims)
}

// SimpleName returns the last segment of the type name.
func (t TypeRef) SimpleName() string {
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

func (t TypeRef) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t TypeRef) write(sb *strings.Builder) {
	if t.Kind == TypeWildcard {
		sb.WriteByte('?')
		if t.Bound != nil {
			sb.WriteByte(' ')
			sb.WriteString(t.BoundKind)
			sb.WriteByte(' ')
			t.Bound.write(sb)
		}
		return
	}
	sb.WriteString(t.Name)
	if len(t.Args) > 0 {
		sb.WriteByte('<')
		for i, arg := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			arg.write(sb)
		}
		sb.WriteByte('>')
	}
	for i := 0; i < t.ArrayDims; i++ {
		sb.WriteString("[]")
	}
}

var boxes = map[string]string{
	"boolean": "java.lang.Boolean",
	"byte":    "java.lang.Byte",
	"char":    "java.lang.Character",
	"short":   "java.lang.Short",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
}

// Boxed returns the wrapper type of a primitive.
func (t TypeRef) Boxed() (TypeRef, bool) {
	if !t.IsPrimitive() {
		return TypeRef{}, false
	}
	name, ok := boxes[t.Name]
	if !ok {
		return TypeRef{}, false
	}
	return Declared(name), true
}

// Substitute replaces type variables by the bindings in vars.
func (t TypeRef) Substitute(vars map[string]TypeRef) TypeRef {
	if len(vars) == 0 {
		return t
	}
	switch t.Kind {
	case TypeVariable:
		if bound, ok := vars[t.Name]; ok {
			bound.ArrayDims += t.ArrayDims
			if len(t.Annotations) > 0 {
				bound.Annotations = append(append([]Annotation(nil), t.Annotations...), bound.Annotations...)
			}
			return bound
		}
		return t
	case TypeWildcard:
		if t.Bound != nil {
			bound := t.Bound.Substitute(vars)
			t.Bound = &bound
		}
		return t
	case TypeDeclared:
		if len(t.Args) == 0 {
			return t
		}
		args := make([]TypeRef, len(t.Args))
		for i, arg := range t.Args {
			args[i] = arg.Substitute(vars)
		}
		t.Args = args
		return t
	}
	return t
}

// SameType compares two references ignoring type-use annotations.
func (t TypeRef) SameType(o TypeRef) bool {
	if t.Kind != o.Kind || t.Name != o.Name || t.ArrayDims != o.ArrayDims ||
		t.BoundKind != o.BoundKind || len(t.Args) != len(o.Args) {
		return false
	}
	if (t.Bound == nil) != (o.Bound == nil) {
		return false
	}
	if t.Bound != nil && !t.Bound.SameType(*o.Bound) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].SameType(o.Args[i]) {
			return false
		}
	}
	return true
}

// HasTypeVariables reports whether a type variable occurs anywhere in t.
func (t TypeRef) HasTypeVariables() bool {
	switch t.Kind {
	case TypeVariable:
		return true
	case TypeWildcard:
		return t.Bound != nil && t.Bound.HasTypeVariables()
	}
	for _, arg := range t.Args {
		if arg.HasTypeVariables() {
			return true
		}
	}
	return false
}

// Bindings maps the type parameters of decl to args by position. Missing
// arguments (raw use) leave the variables unbound.
func Bindings(params []TypeParameter, args []TypeRef) map[string]TypeRef {
	if len(args) != len(params) {
		return nil
	}
	vars := make(map[string]TypeRef, len(params))
	for i, p := range params {
		vars[p.Name] = args[i]
	}
	return vars
}
