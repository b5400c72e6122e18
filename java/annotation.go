package java

import "strings"

// Annotation is an annotation use. Element values are kept as source text:
// literals verbatim, names dotted, arrays as {a, b}.
type Annotation struct {
	Name     string
	Elements []AnnotationElement
}

type AnnotationElement struct {
	Name  string
	Value string
}

func (a Annotation) SimpleName() string {
	if i := strings.LastIndexByte(a.Name, '.'); i >= 0 {
		return a.Name[i+1:]
	}
	return a.Name
}

func (a Annotation) Value(name string) (string, bool) {
	for _, e := range a.Elements {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

// String renders the annotation as it would appear in source, using the
// qualified name.
func (a Annotation) String() string {
	var sb strings.Builder
	sb.WriteByte('@')
	sb.WriteString(a.Name)
	if len(a.Elements) == 0 {
		return sb.String()
	}
	sb.WriteByte('(')
	if len(a.Elements) == 1 && a.Elements[0].Name == "value" {
		sb.WriteString(a.Elements[0].Value)
	} else {
		for i, e := range a.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.Name)
			sb.WriteString(" = ")
			sb.WriteString(e.Value)
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// findAnnotation matches name against the qualified name, or against the
// simple name when name has no package.
func findAnnotation(annotations []Annotation, name string) (Annotation, bool) {
	qualified := strings.Contains(name, ".")
	for _, a := range annotations {
		if a.Name == name || (!qualified && a.SimpleName() == name) {
			return a, true
		}
	}
	return Annotation{}, false
}
