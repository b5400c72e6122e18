package codegen

import (
	"strings"

	"github.com/dhamidi/freebuilder/analysis"
)

// inherits returns the extends or implements clause tying a generated value
// class to the user type.
func inherits(u *unit) string {
	if u.md.InterfaceType {
		return "implements " + u.typeName
	}
	return "extends " + u.typeName
}

func writeValue(w *SourceWriter, u *unit) {
	md := u.md
	for _, a := range md.ValueTypeAnnotations {
		w.Line("%s", a)
	}
	modifiers := strings.TrimSpace(md.ValueTypeVisibility.Keyword() + " static final class")
	w.Open("%s Value%s %s", modifiers, md.Type.Declaration(), inherits(u))
	for _, p := range u.props {
		w.Line("private final %s %s;", p.valueFieldType(), p.prop().Name)
	}
	if len(u.props) > 0 {
		w.Blank()
	}

	w.Open("private Value(%s builder)", u.generated)
	for _, p := range u.props {
		w.Line("this.%s = %s;", p.prop().Name, p.valueInit("builder", false))
	}
	w.Close()
	w.Blank()

	for _, p := range u.props {
		prop := p.prop()
		w.Line("@Override")
		w.Open("public %s %s()", prop.Type, prop.GetterName)
		w.Line("return %s;", p.valueGetter(prop.Name))
		w.Close()
		w.Blank()
	}

	if md.Underride(analysis.Equals) == analysis.Absent {
		writeEquals(w, u, "Value", false)
	}
	if md.Underride(analysis.HashCode) == analysis.Absent {
		writeHashCode(w, u, false)
	}
	if md.Underride(analysis.ToString) == analysis.Absent {
		writeToString(w, u, false)
	}
	w.Close()
	w.Blank()
}

// writePartial renders the value returned by buildPartial. Its getters throw
// for required properties that were never set.
func writePartial(w *SourceWriter, u *unit) {
	md := u.md
	w.Open("private static final class Partial%s %s", md.Type.Declaration(), inherits(u))
	for _, p := range u.props {
		w.Line("private final %s %s;", p.valueFieldType(), p.prop().Name)
	}
	if u.hasUnset() {
		w.Line("private final java.util.EnumSet<Property> _unsetProperties;")
	}
	w.Blank()

	w.Open("Partial(%s builder)", u.generated)
	for _, p := range u.props {
		w.Line("this.%s = %s;", p.prop().Name, p.valueInit("builder", true))
	}
	if u.hasUnset() {
		w.Line("this._unsetProperties = builder._unsetProperties.clone();")
	}
	w.Close()
	w.Blank()

	for _, p := range u.props {
		prop := p.prop()
		w.Line("@Override")
		w.Open("public %s %s()", prop.Type, prop.GetterName)
		if p.tracked() {
			w.Open("if (_unsetProperties.contains(Property.%s))", prop.AllCapsName)
			w.Line("throw new UnsupportedOperationException(%q);", prop.Name+" not set")
			w.Close()
		}
		w.Line("return %s;", p.valueGetter(prop.Name))
		w.Close()
		w.Blank()
	}

	if md.Underride(analysis.Equals) != analysis.Final {
		writeEquals(w, u, "Partial", true)
	}
	if md.Underride(analysis.HashCode) != analysis.Final {
		writeHashCode(w, u, true)
	}
	if md.Underride(analysis.ToString) != analysis.Final {
		writeToString(w, u, true)
	}
	w.Close()
	w.Blank()
}

func writeEquals(w *SourceWriter, u *unit, class string, partial bool) {
	w.Line("@Override")
	w.Open("public boolean equals(Object obj)")
	w.Open("if (!(obj instanceof %s))", class)
	w.Line("return false;")
	w.Close()
	var terms []string
	for _, p := range u.props {
		name := p.prop().Name
		terms = append(terms, "java.util.Objects.equals("+name+", other."+name+")")
	}
	if partial && u.hasUnset() {
		terms = append(terms, "java.util.Objects.equals(_unsetProperties, other._unsetProperties)")
	}
	if len(terms) == 0 {
		w.Line("return true;")
	} else {
		w.Line("%s%s other = (%s%s) obj;", class, u.wildcards(), class, u.wildcards())
		w.Line("return %s;", strings.Join(terms, " && "))
	}
	w.Close()
	w.Blank()
}

func writeHashCode(w *SourceWriter, u *unit, partial bool) {
	var fields []string
	for _, p := range u.props {
		fields = append(fields, p.prop().Name)
	}
	if partial && u.hasUnset() {
		fields = append(fields, "_unsetProperties")
	}
	w.Line("@Override")
	w.Open("public int hashCode()")
	w.Line("return java.util.Objects.hash(%s);", strings.Join(fields, ", "))
	w.Close()
	w.Blank()
}

// writeToString prints `Person{name=Alice, age=3}`. Partial values prefix
// the type name with "partial " and omit unset required properties.
func writeToString(w *SourceWriter, u *unit, partial bool) {
	prefix := u.md.Type.Name.SimpleName() + "{"
	if partial {
		prefix = "partial " + prefix
	}
	w.Line("@Override")
	w.Open("public String toString()")
	w.Line("StringBuilder result = new StringBuilder(%q);", prefix)
	if len(u.props) > 0 {
		w.Line("String separator = \"\";")
	}
	for _, p := range u.props {
		name := p.prop().Name
		cond := p.presence(name)
		if partial && p.tracked() {
			cond = "!_unsetProperties.contains(Property." + p.prop().AllCapsName + ")"
		}
		if cond != "" {
			w.Open("if (%s)", cond)
		}
		w.Line("result.append(separator).append(%q).append(%s);", name+"=", name)
		w.Line("separator = \", \";")
		if cond != "" {
			w.Close()
		}
	}
	w.Line("return result.append(\"}\").toString();")
	w.Close()
	w.Blank()
}

const gwtRPC = "com.google.gwt.user.client.rpc."

// writeGwt renders the custom field serializer of Value and the whitelist
// class that keeps Value reachable for GWT's serialization policy.
func writeGwt(w *SourceWriter, u *unit) {
	raw := u.md.GeneratedBuilder.Name.SimpleName()
	builder := raw + " builder = new " + raw + "() {};"
	if u.md.Builder != nil && u.md.Extensible {
		builder = raw + " builder = new " + u.md.Builder.Name.String() + "();"
	}
	value := "Value" + u.wildcards()

	w.Line("@SuppressWarnings({\"unchecked\", \"rawtypes\"})")
	w.Open("public static class Value_CustomFieldSerializer extends %sCustomFieldSerializer<%s>", gwtRPC, value)
	w.Blank()
	w.Line("@Override")
	w.Open("public void deserializeInstance(%sSerializationStreamReader reader, %s instance)", gwtRPC, value)
	w.Close()
	w.Blank()
	w.Line("@Override")
	w.Open("public boolean hasCustomInstantiateInstance()")
	w.Line("return true;")
	w.Close()
	w.Blank()
	w.Line("@Override")
	w.Open("public %s instantiateInstance(%sSerializationStreamReader reader) throws %sSerializationException", value, gwtRPC, gwtRPC)
	w.Line("%s", builder)
	for _, p := range u.props {
		w.Line("%s", p.readInto("builder", "reader.readObject()"))
	}
	w.Line("return (%s) builder.build();", value)
	w.Close()
	w.Blank()
	w.Line("@Override")
	w.Open("public void serializeInstance(%sSerializationStreamWriter writer, %s instance) throws %sSerializationException", gwtRPC, value, gwtRPC)
	for _, p := range u.props {
		w.Line("writer.writeObject(instance.%s);", p.prop().Name)
	}
	w.Close()
	w.Close()
	w.Blank()

	w.Line("/** Ensures the GWT serialization policy whitelists Value. */")
	w.Open("static final class GwtWhitelist%s implements java.io.Serializable", u.md.Type.Declaration())
	w.Line("%s%s value;", "Value", u.md.Type.TypeParameterNames())
	w.Blank()
	w.Open("private GwtWhitelist()")
	w.Line("throw new UnsupportedOperationException();")
	w.Close()
	w.Close()
}
