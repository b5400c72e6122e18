package analysis

import "github.com/dhamidi/freebuilder/java"

const errEqualsHashCode = "hashCode and equals must be implemented together"

// underrides classifies the equals, hashCode and toString methods declared
// directly on the type. Abstract redeclarations leave the method absent.
func (a *analysis) underrides() map[StandardMethod]Underride {
	result := map[StandardMethod]Underride{}
	declared := map[StandardMethod]java.Method{}
	for _, m := range a.decl.Methods {
		std, ok := standardMethods[m.Signature()]
		if !ok || m.IsStatic || m.IsAbstract {
			continue
		}
		declared[std] = m
		if m.IsFinal {
			result[std] = Final
		} else {
			result[std] = Overrideable
		}
	}

	equals, hasEquals := declared[Equals]
	hashCode, hasHashCode := declared[HashCode]
	switch {
	case hasEquals && !hasHashCode:
		a.errorAt(equals, errEqualsHashCode)
	case hasHashCode && !hasEquals:
		a.errorAt(hashCode, errEqualsHashCode)
	}
	return result
}
