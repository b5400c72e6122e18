package java

import "strings"

var javaLangTypes = map[string]bool{
	"Object": true, "String": true, "Class": true, "System": true,
	"Throwable": true, "Exception": true, "RuntimeException": true, "Error": true,
	"Integer": true, "Long": true, "Short": true, "Byte": true,
	"Float": true, "Double": true, "Character": true, "Boolean": true,
	"Number": true, "Comparable": true, "CharSequence": true,
	"Iterable": true, "Cloneable": true, "Runnable": true,
	"Thread": true, "StringBuilder": true, "StringBuffer": true,
	"Math": true, "Enum": true, "Record": true, "Void": true,
	"Override": true, "Deprecated": true, "SuppressWarnings": true, "FunctionalInterface": true,
	"SafeVarargs": true,
}

// wellKnownTypes lists library types that wildcard imports may bring into
// scope even though their sources are not part of the universe.
var wellKnownTypes = map[string]bool{}

func init() {
	for pkg, names := range map[string][]string{
		"java.util": {
			"Collection", "List", "ArrayList", "LinkedList", "Set", "HashSet", "LinkedHashSet",
			"SortedSet", "NavigableSet", "TreeSet", "EnumSet", "Map", "HashMap", "LinkedHashMap",
			"SortedMap", "NavigableMap", "TreeMap", "EnumMap", "Optional", "OptionalInt",
			"OptionalLong", "OptionalDouble", "Comparator", "Iterator", "Objects", "Collections",
			"Arrays", "Date", "UUID", "Locale", "Spliterator",
		},
		"java.util.function": {"Consumer", "BiConsumer", "Function", "Supplier", "Predicate", "UnaryOperator"},
		"java.io":            {"Serializable", "IOException", "File"},
		"java.time":          {"Instant", "Duration", "LocalDate", "LocalDateTime", "ZonedDateTime"},
		"java.math":          {"BigDecimal", "BigInteger"},
		"javax.annotation":   {"Nullable", "Generated", "Nonnull", "ParametersAreNonnullByDefault"},
		"com.google.common.collect": {
			"ImmutableCollection", "ImmutableList", "ImmutableSet", "ImmutableSortedSet",
			"ImmutableMap", "ImmutableSortedMap", "ImmutableBiMap", "Multiset", "ImmutableMultiset",
			"SortedMultiset", "ImmutableSortedMultiset", "Multimap", "ListMultimap",
			"SetMultimap", "ImmutableMultimap", "ImmutableListMultimap", "ImmutableSetMultimap",
			"Lists", "Sets", "Maps", "Multisets", "Multimaps", "LinkedHashMultiset",
			"LinkedListMultimap", "LinkedHashMultimap", "Ordering", "BiMap",
		},
		"com.google.common.base":        {"Optional", "Preconditions", "Objects", "MoreObjects", "Function"},
		"com.google.common.annotations": {"GwtCompatible", "GwtIncompatible", "VisibleForTesting"},
		"org.inferred.freebuilder":      {"FreeBuilder"},
	} {
		for _, name := range names {
			wellKnownTypes[pkg+"."+name] = true
		}
	}
}

// typeResolver rewrites the source spellings in one file to qualified
// names. Supertypes are resolved in a first pass so that the second pass can
// find member types inherited from them.
type typeResolver struct {
	universe *Universe
	file     *File
}

func newTypeResolver(u *Universe, file *File) *typeResolver {
	return &typeResolver{universe: u, file: file}
}

func (r *typeResolver) resolveSupertypes() {
	walkTypes(r.file.Types, func(decl *TypeDecl) {
		if decl.SuperClass != nil {
			r.resolveRef(decl.SuperClass, decl, nil, false)
		}
		for i := range decl.Interfaces {
			r.resolveRef(&decl.Interfaces[i], decl, nil, false)
		}
	})
}

func (r *typeResolver) resolveMembers() {
	walkTypes(r.file.Types, func(decl *TypeDecl) {
		r.resolveAnnotations(decl.Annotations, decl)
		r.resolveTypeParameters(decl.TypeParameters, decl, nil)
		for i := range decl.Methods {
			m := &decl.Methods[i]
			r.resolveAnnotations(m.Annotations, decl)
			r.resolveTypeParameters(m.TypeParameters, decl, m.TypeParameters)
			r.resolveRef(&m.ReturnType, decl, m.TypeParameters, true)
			for j := range m.Parameters {
				r.resolveRef(&m.Parameters[j].Type, decl, m.TypeParameters, true)
			}
		}
		for i := range decl.Constructors {
			for j := range decl.Constructors[i].Parameters {
				r.resolveRef(&decl.Constructors[i].Parameters[j].Type, decl, nil, true)
			}
		}
	})
}

func walkTypes(types []*TypeDecl, fn func(*TypeDecl)) {
	for _, decl := range types {
		fn(decl)
		walkTypes(decl.NestedTypes, fn)
		walkTypes(decl.LocalTypes, fn)
	}
}

func (r *typeResolver) resolveTypeParameters(params []TypeParameter, decl *TypeDecl, methodVars []TypeParameter) {
	for i := range params {
		for j := range params[i].Bounds {
			r.resolveRef(&params[i].Bounds[j], decl, methodVars, true)
		}
	}
}

func (r *typeResolver) resolveAnnotations(annotations []Annotation, decl *TypeDecl) {
	for i := range annotations {
		annotations[i].Name = r.resolveName(annotations[i].Name, decl, false)
	}
}

func (r *typeResolver) resolveRef(ref *TypeRef, decl *TypeDecl, methodVars []TypeParameter, inherited bool) {
	for i := range ref.Args {
		r.resolveRef(&ref.Args[i], decl, methodVars, inherited)
	}
	if ref.Bound != nil {
		r.resolveRef(ref.Bound, decl, methodVars, inherited)
	}
	r.resolveAnnotations(ref.Annotations, decl)
	if ref.Kind != TypeDeclared {
		return
	}
	if !strings.Contains(ref.Name, ".") && isTypeVariable(ref.Name, decl, methodVars) {
		ref.Kind = TypeVariable
		return
	}
	ref.Name = r.resolveName(ref.Name, decl, inherited)
}

func isTypeVariable(name string, decl *TypeDecl, methodVars []TypeParameter) bool {
	for _, tp := range methodVars {
		if tp.Name == name {
			return true
		}
	}
	for t := decl; t != nil; t = t.Enclosing {
		for _, tp := range t.TypeParameters {
			if tp.Name == name {
				return true
			}
		}
		if t.IsEffectivelyStatic() {
			break
		}
	}
	return false
}

// resolveName qualifies a possibly dotted source name. The first segment
// is looked up in scope; when it is unknown a dotted name is taken to be
// qualified already, and a simple name to live in the current package.
func (r *typeResolver) resolveName(name string, decl *TypeDecl, inherited bool) string {
	if name == "" {
		return ""
	}
	first, rest, dotted := strings.Cut(name, ".")
	if q, ok := r.resolveSimple(first, decl, inherited); ok {
		if dotted {
			return q + "." + rest
		}
		return q
	}
	if dotted {
		return name
	}
	if r.file.Package != "" {
		return r.file.Package + "." + name
	}
	return name
}

func (r *typeResolver) resolveSimple(name string, decl *TypeDecl, inherited bool) (string, bool) {
	for t := decl; t != nil; t = t.Enclosing {
		if t.SimpleName == name {
			return t.QualifiedName(), true
		}
		if nested, ok := t.Nested(name); ok {
			return nested.QualifiedName(), true
		}
		if inherited {
			if q, ok := r.inheritedMember(t, name, map[string]bool{}); ok {
				return q, true
			}
		}
	}

	for _, imp := range r.file.Imports {
		if imp.Wildcard || imp.Static {
			continue
		}
		if imp.Name == name || strings.HasSuffix(imp.Name, "."+name) {
			return imp.Name, true
		}
	}

	if candidate := qualify(r.file.Package, name); r.universe.has(candidate) {
		return candidate, true
	}

	for _, imp := range r.file.Imports {
		if !imp.Wildcard || imp.Static {
			continue
		}
		candidate := imp.Name + "." + name
		if r.universe.has(candidate) || wellKnownTypes[candidate] {
			return candidate, true
		}
	}

	if javaLangTypes[name] {
		return "java.lang." + name, true
	}
	return "", false
}

func (r *typeResolver) inheritedMember(t *TypeDecl, name string, visited map[string]bool) (string, bool) {
	for _, super := range t.Supertypes() {
		if visited[super.Name] {
			continue
		}
		visited[super.Name] = true
		sd, ok := r.universe.byName[super.Name]
		if !ok {
			continue
		}
		if nested, ok := sd.Nested(name); ok {
			return nested.QualifiedName(), true
		}
		if q, ok := r.inheritedMember(sd, name, visited); ok {
			return q, true
		}
	}
	return "", false
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}
