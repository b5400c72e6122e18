package analysis

import "github.com/dhamidi/freebuilder/java"

const errNullablePrimitive = "Primitive properties cannot be @Nullable"

// PropertyType is the code generation strategy chosen for a property. It is
// a closed set; renderers switch over the concrete types.
type PropertyType interface {
	// Kind names the strategy, e.g. "list" or "required".
	Kind() string
	isPropertyType()
}

// Required is a scalar that must be set before build.
type Required struct{}

// Default is a scalar whose value the builder's constructor sets.
type Default struct{}

// Nullable is a scalar annotated @Nullable; it defaults to null.
type Nullable struct{}

// Optional wraps java.util.Optional or Guava's Optional.
type Optional struct {
	Element java.TypeRef
	Guava   bool
}

type List struct {
	Element   java.TypeRef
	Immutable bool
}

type Set struct {
	Element   java.TypeRef
	Sorted    bool
	Immutable bool
}

type Multiset struct {
	Element   java.TypeRef
	Immutable bool
}

type Map struct {
	Key       java.TypeRef
	Value     java.TypeRef
	Sorted    bool
	Immutable bool
}

type ListMultimap struct {
	Key       java.TypeRef
	Value     java.TypeRef
	Immutable bool
}

type SetMultimap struct {
	Key       java.TypeRef
	Value     java.TypeRef
	Immutable bool
}

type BuildableShape int

const (
	// FreeBuilt types are generated by this tool.
	FreeBuilt BuildableShape = iota
	// ProtoLike types have a static newBuilder() and a Builder with the
	// protocol buffer method shapes.
	ProtoLike
	// BuilderLike types have a Builder providing build, buildPartial,
	// mergeFrom and clear, possibly inherited.
	BuilderLike
)

func (s BuildableShape) String() string {
	switch s {
	case FreeBuilt:
		return "FREEBUILDER"
	case ProtoLike:
		return "PROTO"
	}
	return "BUILDER"
}

// Buildable is a property whose type has its own builder, which the
// generated builder exposes for in-place mutation.
type Buildable struct {
	Shape   BuildableShape
	Builder java.TypeRef
	Factory BuilderFactory
}

func (Required) Kind() string     { return "required" }
func (Default) Kind() string      { return "default" }
func (Nullable) Kind() string     { return "nullable" }
func (Optional) Kind() string     { return "optional" }
func (List) Kind() string         { return "list" }
func (Set) Kind() string          { return "set" }
func (Multiset) Kind() string     { return "multiset" }
func (Map) Kind() string          { return "map" }
func (ListMultimap) Kind() string { return "list_multimap" }
func (SetMultimap) Kind() string  { return "set_multimap" }
func (Buildable) Kind() string    { return "buildable" }

func (Required) isPropertyType()     {}
func (Default) isPropertyType()      {}
func (Nullable) isPropertyType()     {}
func (Optional) isPropertyType()     {}
func (List) isPropertyType()         {}
func (Set) isPropertyType()          {}
func (Multiset) isPropertyType()     {}
func (Map) isPropertyType()          {}
func (ListMultimap) isPropertyType() {}
func (SetMultimap) isPropertyType()  {}
func (Buildable) isPropertyType()    {}

type collectionKind struct {
	strategy  string
	sorted    bool
	immutable bool
	guava     bool
}

const guavaCollect = "com.google.common.collect."

var collectionErasures = map[string]collectionKind{
	"java.util.List":                       {strategy: "list"},
	"java.util.Collection":                 {strategy: "list"},
	guavaCollect + "ImmutableList":         {strategy: "list", immutable: true},
	"java.util.Set":                        {strategy: "set"},
	guavaCollect + "ImmutableSet":          {strategy: "set", immutable: true},
	"java.util.SortedSet":                  {strategy: "set", sorted: true},
	"java.util.NavigableSet":               {strategy: "set", sorted: true},
	guavaCollect + "ImmutableSortedSet":    {strategy: "set", sorted: true, immutable: true},
	guavaCollect + "Multiset":              {strategy: "multiset"},
	guavaCollect + "ImmutableMultiset":     {strategy: "multiset", immutable: true},
	"java.util.Map":                        {strategy: "map"},
	guavaCollect + "ImmutableMap":          {strategy: "map", immutable: true},
	"java.util.SortedMap":                  {strategy: "map", sorted: true},
	"java.util.NavigableMap":               {strategy: "map", sorted: true},
	guavaCollect + "ImmutableSortedMap":    {strategy: "map", sorted: true, immutable: true},
	guavaCollect + "Multimap":              {strategy: "list_multimap"},
	guavaCollect + "ListMultimap":          {strategy: "list_multimap"},
	guavaCollect + "ImmutableListMultimap": {strategy: "list_multimap", immutable: true},
	guavaCollect + "ImmutableMultimap":     {strategy: "list_multimap", immutable: true},
	guavaCollect + "SetMultimap":           {strategy: "set_multimap"},
	guavaCollect + "ImmutableSetMultimap":  {strategy: "set_multimap", immutable: true},
	"java.util.Optional":                   {strategy: "optional"},
	"com.google.common.base.Optional":      {strategy: "optional", guava: true},
}

// selectPropertyType chooses the strategy for p. defaults holds the setter
// names the builder's constructor calls unconditionally.
func (a *analysis) selectPropertyType(p *Property, m java.Method, defaults map[string]bool) PropertyType {
	if isNullable(m) {
		if !p.Type.IsPrimitive() {
			return Nullable{}
		}
		a.errorAt(m, errNullablePrimitive)
	}
	if b, ok := a.buildable(p.Type); ok {
		return b
	}
	if t, ok := collectionType(p.Type); ok {
		return t
	}
	if defaults[p.SetterName] {
		return Default{}
	}
	return Required{}
}

func isNullable(m java.Method) bool {
	if _, ok := m.Annotation("Nullable"); ok {
		return true
	}
	_, ok := findNullable(m.ReturnType.Annotations)
	return ok
}

func findNullable(annotations []java.Annotation) (java.Annotation, bool) {
	for _, a := range annotations {
		if a.SimpleName() == "Nullable" {
			return a, true
		}
	}
	return java.Annotation{}, false
}

// collectionType matches t against the known collection erasures. Raw
// uses take java.lang.Object for every type argument.
func collectionType(t java.TypeRef) (PropertyType, bool) {
	if t.Kind != java.TypeDeclared || t.IsArray() {
		return nil, false
	}
	kind, ok := collectionErasures[t.Name]
	if !ok {
		return nil, false
	}
	arity := 1
	switch kind.strategy {
	case "map", "list_multimap", "set_multimap":
		arity = 2
	}
	args, ok := typeArguments(t, arity)
	if !ok {
		return nil, false
	}
	switch kind.strategy {
	case "list":
		return List{Element: args[0], Immutable: kind.immutable}, true
	case "set":
		return Set{Element: args[0], Sorted: kind.sorted, Immutable: kind.immutable}, true
	case "multiset":
		return Multiset{Element: args[0], Immutable: kind.immutable}, true
	case "map":
		return Map{Key: args[0], Value: args[1], Sorted: kind.sorted, Immutable: kind.immutable}, true
	case "list_multimap":
		return ListMultimap{Key: args[0], Value: args[1], Immutable: kind.immutable}, true
	case "set_multimap":
		return SetMultimap{Key: args[0], Value: args[1], Immutable: kind.immutable}, true
	case "optional":
		return Optional{Element: args[0], Guava: kind.guava}, true
	}
	return nil, false
}

// typeArguments returns the mutator types of t's arguments, or arity
// Objects when t is raw. A wrong argument count does not match.
func typeArguments(t java.TypeRef, arity int) ([]java.TypeRef, bool) {
	args := make([]java.TypeRef, arity)
	switch len(t.Args) {
	case 0:
		for i := range args {
			args[i] = java.Declared("java.lang.Object")
		}
	case arity:
		for i, arg := range t.Args {
			args[i] = elementType(arg)
		}
	default:
		return nil, false
	}
	return args, true
}

// elementType returns the type accepted by mutators for a type argument:
// the bound of a wildcard, Object for an unbounded one.
func elementType(arg java.TypeRef) java.TypeRef {
	if arg.Kind != java.TypeWildcard {
		return arg
	}
	if arg.Bound != nil {
		return *arg.Bound
	}
	return java.Declared("java.lang.Object")
}

var builderProtocol = []string{"build()", "buildPartial()", "clear()"}

// buildable recognises a property type that has its own builder.
func (a *analysis) buildable(t java.TypeRef) (Buildable, bool) {
	if t.Kind != java.TypeDeclared || t.IsArray() {
		return Buildable{}, false
	}
	decl, ok := a.universe.Lookup(t.Name)
	if !ok {
		return Buildable{}, false
	}
	builder, ok := decl.Nested("Builder")
	if !ok || builder.Visibility == java.VisibilityPrivate || !builder.IsEffectivelyStatic() {
		return Buildable{}, false
	}
	builderRef := builder.Type()
	builderRef.Args = t.Args
	factory := nestedBuilderFactory(decl, builder)

	if _, annotated := decl.Annotation("FreeBuilder"); annotated {
		if factory == NoBuilderFactory {
			return Buildable{}, false
		}
		return Buildable{Shape: FreeBuilt, Builder: builderRef, Factory: factory}, true
	}

	if hasStaticNewBuilder(decl, builder) && declaresProtocol(builder.Methods, decl, builder, false) {
		return Buildable{Shape: ProtoLike, Builder: builderRef, Factory: NewBuilderMethod}, true
	}

	if factory != NoBuilderFactory && declaresProtocol(a.universe.Methods(builder), decl, builder, true) {
		return Buildable{Shape: BuilderLike, Builder: builderRef, Factory: factory}, true
	}
	return Buildable{}, false
}

func hasStaticNewBuilder(decl, builder *java.TypeDecl) bool {
	for _, m := range decl.Methods {
		if m.Name == "newBuilder" && m.IsStatic && len(m.Parameters) == 0 &&
			m.Visibility.Accessible() && m.ReturnType.Name == builder.QualifiedName() {
			return true
		}
	}
	return false
}

// declaresProtocol checks for build(), buildPartial(), clear() and the
// mergeFrom overloads. Proto-like builders need only mergeFrom(Value);
// builder-like ones need mergeFrom(Builder) as well.
func declaresProtocol(methods []java.Method, decl, builder *java.TypeDecl, needMergeFromBuilder bool) bool {
	have := map[string]bool{}
	mergeValue, mergeBuilder := false, false
	for _, m := range methods {
		if m.IsStatic || !m.Visibility.Accessible() {
			continue
		}
		if m.Name == "mergeFrom" && len(m.Parameters) == 1 {
			switch m.Parameters[0].Type.Name {
			case decl.QualifiedName():
				mergeValue = true
			case builder.QualifiedName():
				mergeBuilder = true
			}
			continue
		}
		if len(m.Parameters) == 0 {
			have[m.Signature()] = true
		}
	}
	for _, sig := range builderProtocol {
		if !have[sig] {
			return false
		}
	}
	if needMergeFromBuilder {
		return mergeValue && mergeBuilder
	}
	return mergeValue
}

// nestedBuilderFactory finds how generated code can create builder, using
// the same rules as for the user type's own builder but without reporting.
func nestedBuilderFactory(decl, builder *java.TypeDecl) BuilderFactory {
	if f, ok := staticFactory(decl, builder); ok {
		return f
	}
	if ctor, ok := builder.NoArgConstructor(); ok && ctor.Visibility.Accessible() && !builder.IsAbstract {
		return NoArgsConstructor
	}
	return NoBuilderFactory
}

// staticFactory returns the first non-private static builder() or
// newBuilder() method of decl returning builder, in declaration order.
func staticFactory(decl, builder *java.TypeDecl) (BuilderFactory, bool) {
	for _, m := range decl.Methods {
		if !m.IsStatic || len(m.Parameters) != 0 || !m.Visibility.Accessible() {
			continue
		}
		if m.ReturnType.Name != builder.QualifiedName() {
			continue
		}
		switch m.Name {
		case "builder":
			return BuilderMethod, true
		case "newBuilder":
			return NewBuilderMethod, true
		}
	}
	return NoBuilderFactory, false
}
