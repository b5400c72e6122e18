package analysis

import "github.com/dhamidi/freebuilder/java"

// genericSignature matches the builder's type variables to the type's by
// position, and notices a previously generated superclass whose arity no
// longer matches. The generated code always uses the fresh signature.
func (a *analysis) genericSignature(builder *java.TypeDecl) GenericSignature {
	var sig GenericSignature
	if builder != nil && len(builder.TypeParameters) > 0 {
		sig.BuilderVariables = make(map[string]string, len(builder.TypeParameters))
		for i, tp := range builder.TypeParameters {
			sig.BuilderVariables[tp.Name] = a.decl.TypeParameters[i].Name
		}
	}
	name := generatedBuilderName(a.decl).String()
	if existing, ok := a.universe.Lookup(name); ok && len(existing.TypeParameters) != len(a.decl.TypeParameters) {
		sig.StaleSuperclassArity = true
		a.log.Debugf("%s declares %d type parameters, regenerating with %d",
			name, len(existing.TypeParameters), len(a.decl.TypeParameters))
	}
	return sig
}
