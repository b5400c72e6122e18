package analysis

import "github.com/dhamidi/freebuilder/java"

const (
	errGetterParameters = "Getter methods cannot take parameters"
	errGetterVoid       = "Getter methods must not be void"
)

// standardMethods are never properties, even when redeclared abstract.
var standardMethods = map[string]StandardMethod{
	"equals(java.lang.Object)": Equals,
	"hashCode()":               HashCode,
	"toString()":               ToString,
}

// properties turns the abstract accessors visible on the type into
// properties, in order. Invalid accessors are reported and dropped.
func (a *analysis) properties(defaults map[string]bool) []Property {
	var props []Property
	for _, m := range a.universe.Methods(a.decl) {
		if !a.isAccessorCandidate(m) {
			continue
		}
		if len(m.Parameters) > 0 {
			a.errorAt(m, errGetterParameters)
			continue
		}
		if m.ReturnType.IsVoid() {
			a.errorAt(m, errGetterVoid)
			continue
		}
		n, msg := resolveNames(m.Name, m.ReturnType)
		if msg != "" {
			a.errorAt(m, msg)
			continue
		}
		p := Property{
			Name:                n.Name,
			CapitalizedName:     n.Capitalized,
			AllCapsName:         n.AllCaps,
			GetterName:          n.Getter,
			SetterName:          n.Setter,
			Type:                m.ReturnType,
			UsingBeanConvention: n.Bean,
			FullyCheckedCast:    fullyCheckedCast(m.ReturnType),
			Pos:                 m.Pos,
		}
		if boxed, ok := m.ReturnType.Boxed(); ok {
			p.BoxedType = &boxed
		}
		p.CodeGenerator = a.selectPropertyType(&p, m, defaults)
		a.log.Debugf("%s.%s: %s strategy", a.decl.QualifiedName(), p.Name, p.CodeGenerator.Kind())
		props = append(props, p)
	}
	return props
}

// isAccessorCandidate filters out methods that are not meant as accessors:
// static and implemented methods, methods the type cannot see, the
// standard Object methods and a toBuilder returning the builder.
func (a *analysis) isAccessorCandidate(m java.Method) bool {
	if m.IsStatic || !m.IsAbstract || m.Visibility == java.VisibilityPrivate {
		return false
	}
	if m.Visibility == java.VisibilityPackage && m.DeclaringType != a.decl.QualifiedName() {
		if owner, ok := a.universe.Lookup(m.DeclaringType); ok && owner.Package != a.decl.Package {
			return false
		}
	}
	if _, ok := standardMethods[m.Signature()]; ok {
		return false
	}
	return !a.isToBuilder(m)
}

// fullyCheckedCast reports whether casting to t is checked at runtime:
// t is not a type variable and has no type arguments, or only unbounded or
// Object-bounded wildcards.
func fullyCheckedCast(t java.TypeRef) bool {
	if t.Kind == java.TypeVariable {
		return false
	}
	for _, arg := range t.Args {
		if arg.Kind != java.TypeWildcard {
			return false
		}
		if arg.Bound == nil {
			continue
		}
		if arg.BoundKind != "extends" || arg.Bound.Name != "java.lang.Object" || len(arg.Bound.Args) > 0 {
			return false
		}
	}
	return true
}
