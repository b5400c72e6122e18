package java

import (
	"errors"
	"fmt"
)

var ErrSealed = errors.New("universe is sealed")

// Universe is the set of type declarations visible to an analysis. Files
// are added, then the universe is sealed, which resolves every type name.
// A sealed universe is never modified and may be read concurrently.
type Universe struct {
	files  []*File
	types  []*TypeDecl
	byName map[string]*TypeDecl
	sealed bool
}

func NewUniverse() *Universe {
	return &Universe{byName: make(map[string]*TypeDecl)}
}

// Add registers the types of files. A later declaration of an already known
// qualified name replaces the earlier one.
func (u *Universe) Add(files ...*File) error {
	if u.sealed {
		return ErrSealed
	}
	for _, file := range files {
		if file == nil {
			continue
		}
		u.files = append(u.files, file)
		walkTypes(file.Types, func(decl *TypeDecl) {
			name := decl.QualifiedName()
			if old, ok := u.byName[name]; ok {
				u.removeType(old)
			}
			u.byName[name] = decl
			u.types = append(u.types, decl)
		})
	}
	return nil
}

func (u *Universe) removeType(decl *TypeDecl) {
	for i, t := range u.types {
		if t == decl {
			u.types = append(u.types[:i:i], u.types[i+1:]...)
			return
		}
	}
}

// Seal resolves type names in all files and freezes the universe.
func (u *Universe) Seal() {
	if u.sealed {
		return
	}
	resolvers := make([]*typeResolver, len(u.files))
	for i, file := range u.files {
		resolvers[i] = newTypeResolver(u, file)
		resolvers[i].resolveSupertypes()
	}
	for _, r := range resolvers {
		r.resolveMembers()
	}
	u.sealed = true
}

func (u *Universe) Sealed() bool {
	return u.sealed
}

func (u *Universe) has(name string) bool {
	_, ok := u.byName[name]
	return ok
}

func (u *Universe) Lookup(qualifiedName string) (*TypeDecl, bool) {
	decl, ok := u.byName[qualifiedName]
	return decl, ok
}

// Types returns every declaration, nested ones included, in load order.
func (u *Universe) Types() []*TypeDecl {
	return u.types
}

func (u *Universe) Files() []*File {
	return u.files
}

// Supertypes returns the direct supertypes of decl with decl's type
// variables bound to args. Raw use (no args) leaves them unbound.
func (u *Universe) Supertypes(decl *TypeDecl, args []TypeRef) []TypeRef {
	vars := Bindings(decl.TypeParameters, args)
	supers := decl.Supertypes()
	result := make([]TypeRef, len(supers))
	for i, s := range supers {
		result[i] = s.Substitute(vars)
	}
	return result
}

// AllSupertypes walks the supertype graph of decl depth first, superclass
// before interfaces, and returns each supertype once with type arguments in
// terms of decl's own variables. Supertypes outside the universe are
// included but not walked further.
func (u *Universe) AllSupertypes(decl *TypeDecl) []TypeRef {
	var result []TypeRef
	seen := map[string]bool{decl.QualifiedName(): true}
	var walk func(d *TypeDecl, args []TypeRef)
	walk = func(d *TypeDecl, args []TypeRef) {
		for _, s := range u.Supertypes(d, args) {
			if seen[s.Name] {
				continue
			}
			seen[s.Name] = true
			result = append(result, s)
			if sd, ok := u.byName[s.Name]; ok {
				walk(sd, s.Args)
			}
		}
	}
	walk(decl, decl.Type().Args)
	return result
}

// IsSubtype reports whether decl is, or transitively extends or
// implements, the type named qualifiedName.
func (u *Universe) IsSubtype(decl *TypeDecl, qualifiedName string) bool {
	if decl.QualifiedName() == qualifiedName {
		return true
	}
	for _, s := range u.AllSupertypes(decl) {
		if s.Name == qualifiedName {
			return true
		}
	}
	return false
}

// Methods returns the methods visible on decl. Inherited methods come first,
// ancestors before descendants, each group in declaration order. A method
// overridden further down the hierarchy keeps its first position but takes
// the overriding declaration, so the return type is the most specific one
// visible at decl. Inherited signatures have decl's type variables
// substituted in.
func (u *Universe) Methods(decl *TypeDecl) []Method {
	var (
		methods []Method
		index   = map[string]int{}
		visited = map[string]bool{}
	)
	add := func(m Method) {
		sig := m.Signature()
		i, ok := index[sig]
		if !ok {
			index[sig] = len(methods)
			methods = append(methods, m)
			return
		}
		if u.overrides(m, methods[i]) {
			methods[i] = m
		}
	}

	var walk func(d *TypeDecl, vars map[string]TypeRef)
	walk = func(d *TypeDecl, vars map[string]TypeRef) {
		name := d.QualifiedName()
		if visited[name] {
			return
		}
		visited[name] = true
		for _, s := range d.Supertypes() {
			sd, ok := u.byName[s.Name]
			if !ok {
				continue
			}
			bound := s.Substitute(vars)
			walk(sd, Bindings(sd.TypeParameters, bound.Args))
		}
		for _, m := range d.Methods {
			add(substituteMethod(m, vars))
		}
	}
	walk(decl, nil)
	return methods
}

// overrides reports whether m should replace the already collected method
// with the same signature.
func (u *Universe) overrides(m, existing Method) bool {
	if m.DeclaringType == existing.DeclaringType {
		return false
	}
	if sub, ok := u.byName[m.DeclaringType]; ok && u.IsSubtype(sub, existing.DeclaringType) {
		return true
	}
	if !m.IsAbstract && existing.IsAbstract {
		return true
	}
	if rt, ok := u.byName[m.ReturnType.Name]; ok && m.ReturnType.Name != existing.ReturnType.Name {
		return u.IsSubtype(rt, existing.ReturnType.Name)
	}
	return false
}

func substituteMethod(m Method, vars map[string]TypeRef) Method {
	if len(vars) == 0 {
		return m
	}
	m.ReturnType = m.ReturnType.Substitute(vars)
	if len(m.Parameters) > 0 {
		params := make([]Parameter, len(m.Parameters))
		for i, p := range m.Parameters {
			p.Type = p.Type.Substitute(vars)
			params[i] = p
		}
		m.Parameters = params
	}
	return m
}

// NestedTypes returns the member types visible in decl: those inherited
// from supertypes first, ancestors before descendants, then decl's own, each
// group in declaration order.
func (u *Universe) NestedTypes(decl *TypeDecl) []*TypeDecl {
	var result []*TypeDecl
	seen := map[*TypeDecl]bool{}
	visited := map[string]bool{}
	var walk func(d *TypeDecl)
	walk = func(d *TypeDecl) {
		if visited[d.QualifiedName()] {
			return
		}
		visited[d.QualifiedName()] = true
		for _, s := range d.Supertypes() {
			if sd, ok := u.byName[s.Name]; ok {
				walk(sd)
			}
		}
		for _, nested := range d.NestedTypes {
			if !seen[nested] {
				seen[nested] = true
				result = append(result, nested)
			}
		}
	}
	walk(decl)
	return result
}

// ConstructorInvocations returns the names of the methods that decl's no-arg
// constructor unconditionally invokes on this, in order. One this(..)
// delegation is followed; anything else the constructor does is ignored.
func (u *Universe) ConstructorInvocations(decl *TypeDecl) []string {
	ctor, ok := decl.NoArgConstructor()
	if !ok {
		return nil
	}
	return invocations(decl, ctor, true)
}

func invocations(decl *TypeDecl, ctor Constructor, delegate bool) []string {
	var names []string
	for _, stmt := range ctor.Body {
		switch stmt.Kind {
		case StatementCalls:
			for _, call := range stmt.Calls {
				names = append(names, call.Name)
			}
		case StatementThis:
			if !delegate {
				continue
			}
			for _, target := range decl.Constructors {
				if len(target.Parameters) == stmt.Args {
					names = append(names, invocations(decl, target, false)...)
					break
				}
			}
		}
	}
	return names
}

func (u *Universe) String() string {
	return fmt.Sprintf("Universe(%d files, %d types)", len(u.files), len(u.types))
}
