package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/freebuilder/java"
)

const errIsNotBoolean = "Getter methods starting with 'is' must return a boolean"

// names holds everything derived from an accessor's method name.
type names struct {
	Name        string
	Capitalized string
	AllCaps     string
	Getter      string
	Setter      string
	Bean        bool
}

// resolveNames applies the getter naming rules to one accessor. It returns
// an error message when the accessor breaks them.
func resolveNames(methodName string, returnType java.TypeRef) (names, string) {
	if rest, ok := stripPrefix(methodName, "get"); ok {
		return beanNames(methodName, rest), ""
	}
	if rest, ok := stripPrefix(methodName, "is"); ok {
		if !returnType.IsPrimitive() || returnType.Name != "boolean" {
			return names{}, errIsNotBoolean
		}
		return beanNames(methodName, rest), ""
	}
	return names{
		Name:        methodName,
		Capitalized: capitalize(methodName),
		AllCaps:     allCaps(methodName),
		Getter:      methodName,
		Setter:      methodName,
	}, ""
}

// stripPrefix matches prefix followed by an upper-case letter.
func stripPrefix(name, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok || rest == "" {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return "", false
	}
	return rest, true
}

func beanNames(methodName, rest string) names {
	name := decapitalize(rest)
	return names{
		Name:        name,
		Capitalized: rest,
		AllCaps:     allCaps(name),
		Getter:      methodName,
		Setter:      "set" + rest,
		Bean:        true,
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// allCaps converts lowerCamel to SCREAMING_SNAKE. An underscore goes before
// an upper-case letter that follows a lower-case letter or digit, and before
// the last letter of an upper-case run that is followed by a lower-case
// letter, so customURLTemplate becomes CUSTOM_URL_TEMPLATE.
func allCaps(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(unicode.ToUpper(r))
	}
	return sb.String()
}
