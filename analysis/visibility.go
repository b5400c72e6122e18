package analysis

import "github.com/dhamidi/freebuilder/java"

const (
	errPrivateType      = "FreeBuilder types cannot be private"
	errInnerClass       = "Inner classes cannot be FreeBuilder types (did you forget the static keyword?)"
	errUnnamedPackage   = "FreeBuilder does not support types in unnamed packages"
	errLocalType        = "Only top-level or static nested types can be FreeBuilder types"
	errNoArgConstructor = "FreeBuilder types must have a package-visible no-args constructor"
)

var unsupportedKinds = map[java.TypeKind]string{
	java.TypeKindEnum:       "FreeBuilder does not support enum types",
	java.TypeKindAnnotation: "FreeBuilder does not support annotation types",
	java.TypeKindRecord:     "FreeBuilder does not support record types",
}

// checkDeclaration runs the checks that make generation impossible. It
// stops at the first failure.
func (a *analysis) checkDeclaration() bool {
	decl := a.decl
	if msg, ok := unsupportedKinds[decl.Kind]; ok {
		a.errorOn(decl, msg)
		return false
	}
	if decl.Package == "" {
		a.errorOn(decl, errUnnamedPackage)
		return false
	}
	if decl.IsLocal {
		a.errorOn(decl, errLocalType)
		return false
	}
	for t := decl; t != nil; t = t.Enclosing {
		if t.Visibility == java.VisibilityPrivate {
			if t == decl {
				a.errorOn(decl, errPrivateType)
			} else {
				a.errorOn(decl, errPrivateType+", but enclosing type "+t.SimpleName+" is inaccessible")
			}
			return false
		}
		if !t.IsEffectivelyStatic() {
			a.errorOn(decl, errInnerClass)
			return false
		}
	}
	if decl.Kind == java.TypeKindClass {
		ctor, ok := decl.NoArgConstructor()
		if !ok || !ctor.Visibility.Accessible() {
			a.errorOn(decl, errNoArgConstructor)
			return false
		}
	}
	return true
}

// gwt applies @GwtCompatible: the annotation is copied onto the generated
// builder, and serializable types get the custom field serializer and
// whitelist, and have the annotation copied onto the value type too.
func (a *analysis) gwt(md *Metadata) {
	md.NestedClasses = []QualifiedName{md.ValueType.Name, md.PartialType.Name, md.PropertyEnum.Name}
	gwt, ok := a.decl.Annotation("GwtCompatible")
	if !ok {
		md.ValueTypeVisibility = typeVisibility(a.decl)
		return
	}
	md.GeneratedBuilderAnnotations = []string{gwt.String()}
	if v, _ := gwt.Value("serializable"); v != "true" {
		md.ValueTypeVisibility = VisibilityPrivate
		return
	}
	md.ValueTypeVisibility = VisibilityPackage
	md.ValueTypeAnnotations = []string{gwt.String()}
	md.NestedClasses = append(md.NestedClasses,
		md.GeneratedBuilder.Name.Nested("Value_CustomFieldSerializer"),
		md.GeneratedBuilder.Name.Nested("GwtWhitelist"))
}

// typeVisibility is public when decl and every type enclosing it are
// public, package otherwise.
func typeVisibility(decl *java.TypeDecl) Visibility {
	for t := decl; t != nil; t = t.Enclosing {
		if t.Visibility != java.VisibilityPublic {
			return VisibilityPackage
		}
	}
	return VisibilityPublic
}

// visibleNestedTypes lists the generated nested classes, then the member
// types decl inherits, then its own.
func (a *analysis) visibleNestedTypes(generated []QualifiedName) []QualifiedName {
	seen := map[string]bool{}
	var result []QualifiedName
	add := func(q QualifiedName) {
		if key := q.String(); !seen[key] {
			seen[key] = true
			result = append(result, q)
		}
	}
	for _, q := range generated {
		add(q)
	}
	for _, nested := range a.universe.NestedTypes(a.decl) {
		add(NameOf(nested))
	}
	return result
}
