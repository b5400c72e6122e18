package codegen

import (
	"fmt"

	"github.com/dhamidi/freebuilder/analysis"
	"github.com/dhamidi/freebuilder/java"
)

// propertyCode renders everything one property contributes to the
// generated builder, value and partial classes.
type propertyCode interface {
	prop() analysis.Property
	builderField(w *SourceWriter)
	builderMethods(w *SourceWriter)
	mergeFromValue(w *SourceWriter, value, unset string)
	mergeFromBuilder(w *SourceWriter, base string)
	clear(w *SourceWriter, defaults string)
	valueFieldType() string
	valueInit(builder string, partial bool) string
	valueGetter(field string) string
	// readInto is the statement restoring the property from a deserialized
	// object onto builder.
	readInto(builder, object string) string
	// tracked properties must be set before build.
	tracked() bool
	// presence is the condition under which the property is printed by
	// toString, empty when always.
	presence(field string) string
}

// codeFor selects the renderer of p's strategy.
func codeFor(u *unit, p analysis.Property) (propertyCode, error) {
	b := base{u: u, p: p}
	switch s := p.CodeGenerator.(type) {
	case analysis.Required:
		return scalarCode{base: b, required: true}, nil
	case analysis.Default:
		return scalarCode{base: b}, nil
	case analysis.Nullable:
		return nullableCode{base: b}, nil
	case analysis.Optional:
		return optionalCode{base: b, s: s}, nil
	case analysis.List:
		return collectionCode{base: b, elem: s.Element.String(), iface: "java.util.List", impl: "java.util.ArrayList", view: "unmodifiableList"}, nil
	case analysis.Set:
		if s.Sorted {
			return collectionCode{base: b, elem: s.Element.String(), iface: "java.util.SortedSet", impl: "java.util.TreeSet", view: "unmodifiableSortedSet", removable: true}, nil
		}
		return collectionCode{base: b, elem: s.Element.String(), iface: "java.util.Set", impl: "java.util.LinkedHashSet", view: "unmodifiableSet", removable: true}, nil
	case analysis.Multiset:
		return multisetCode{base: b, elem: s.Element.String()}, nil
	case analysis.Map:
		return mapCode{base: b, s: s}, nil
	case analysis.ListMultimap:
		return multimapCode{base: b, key: s.Key.String(), value: s.Value.String(), kind: "ListMultimap", impl: "LinkedListMultimap"}, nil
	case analysis.SetMultimap:
		return multimapCode{base: b, key: s.Key.String(), value: s.Value.String(), kind: "SetMultimap", impl: "LinkedHashMultimap"}, nil
	case analysis.Buildable:
		return buildableCode{base: b, s: s}, nil
	case nil:
		return nil, fmt.Errorf("property %s has no code generator", p.Name)
	default:
		return nil, fmt.Errorf("property %s: unknown code generator %T", p.Name, s)
	}
}

type base struct {
	u *unit
	p analysis.Property
}

func (b base) prop() analysis.Property         { return b.p }
func (b base) typ() string                     { return b.p.Type.String() }
func (b base) constant() string                { return "Property." + b.p.AllCapsName }
func (b base) method(verb string) string       { return verb + b.p.CapitalizedName }
func (b base) tracked() bool                   { return false }
func (b base) presence(string) string          { return "" }
func (b base) valueFieldType() string          { return b.typ() }
func (b base) valueGetter(field string) string { return field }

func (b base) valueInit(builder string, _ bool) string {
	return builder + "." + b.p.Name
}

func (b base) returnSelf(w *SourceWriter) {
	w.Line("return self();")
	w.Close()
	w.Blank()
}

func requireNonNull(t java.TypeRef, expr string) string {
	if t.IsPrimitive() {
		return expr
	}
	return "java.util.Objects.requireNonNull(" + expr + ")"
}

// scalarCode covers required properties and those whose default value the
// builder's constructor sets.
type scalarCode struct {
	base
	required bool
}

func (c scalarCode) tracked() bool { return c.required }

func (c scalarCode) builderField(w *SourceWriter) {
	w.Line("private %s %s;", c.typ(), c.p.Name)
}

func (c scalarCode) builderMethods(w *SourceWriter) {
	w.Line("/** Sets the value to be returned by {@link %s#%s()}. */", c.u.md.Type.Name, c.p.GetterName)
	w.Open("public %s %s(%s %s)", c.u.builderType, c.p.SetterName, c.typ(), c.p.Name)
	w.Line("this.%s = %s;", c.p.Name, requireNonNull(c.p.Type, c.p.Name))
	if c.required {
		w.Line("_unsetProperties.remove(%s);", c.constant())
	}
	c.returnSelf(w)

	w.Line("/** Returns the value that will be returned by {@link %s#%s()}. */", c.u.md.Type.Name, c.p.GetterName)
	w.Open("public %s %s()", c.typ(), c.p.GetterName)
	if c.required {
		w.Open("if (_unsetProperties.contains(%s))", c.constant())
		w.Line("throw new IllegalStateException(%q);", c.p.Name+" not set")
		w.Close()
	}
	w.Line("return %s;", c.p.Name)
	w.Close()
	w.Blank()
}

func (c scalarCode) mergeFromValue(w *SourceWriter, value, unset string) {
	if c.required && unset != "" {
		w.Open("if (!%s.contains(%s))", unset, c.constant())
		w.Line("%s(%s.%s());", c.p.SetterName, value, c.p.GetterName)
		w.Close()
		return
	}
	w.Line("%s(%s.%s());", c.p.SetterName, value, c.p.GetterName)
}

func (c scalarCode) mergeFromBuilder(w *SourceWriter, b string) {
	if c.required {
		w.Open("if (!%s._unsetProperties.contains(%s))", b, c.constant())
		w.Line("%s(%s.%s);", c.p.SetterName, b, c.p.Name)
		w.Close()
		return
	}
	w.Line("%s(%s.%s);", c.p.SetterName, b, c.p.Name)
}

func (c scalarCode) clear(w *SourceWriter, defaults string) {
	switch {
	case defaults != "":
		w.Line("%s = %s.%s;", c.p.Name, defaults, c.p.Name)
	case c.required:
		w.Line("_unsetProperties.add(%s);", c.constant())
	}
}

func (c scalarCode) readInto(builder, object string) string {
	return fmt.Sprintf("%s.%s((%s) %s);", builder, c.p.SetterName, c.p.BoxedOrType(), object)
}

type nullableCode struct {
	base
}

func (c nullableCode) presence(field string) string { return field + " != null" }

func (c nullableCode) builderField(w *SourceWriter) {
	w.Line("private %s %s = null;", c.typ(), c.p.Name)
}

func (c nullableCode) builderMethods(w *SourceWriter) {
	w.Line("/** Sets the value to be returned by {@link %s#%s()}; may be null. */", c.u.md.Type.Name, c.p.GetterName)
	w.Open("public %s %s(%s %s)", c.u.builderType, c.p.SetterName, c.typ(), c.p.Name)
	w.Line("this.%s = %s;", c.p.Name, c.p.Name)
	c.returnSelf(w)

	w.Open("public %s %s()", c.typ(), c.p.GetterName)
	w.Line("return %s;", c.p.Name)
	w.Close()
	w.Blank()
}

func (c nullableCode) mergeFromValue(w *SourceWriter, value, _ string) {
	w.Line("%s(%s.%s());", c.p.SetterName, value, c.p.GetterName)
}

func (c nullableCode) mergeFromBuilder(w *SourceWriter, b string) {
	w.Line("%s(%s.%s);", c.p.SetterName, b, c.p.Name)
}

func (c nullableCode) clear(w *SourceWriter, defaults string) {
	if defaults != "" {
		w.Line("%s = %s.%s;", c.p.Name, defaults, c.p.Name)
		return
	}
	w.Line("%s = null;", c.p.Name)
}

func (c nullableCode) readInto(builder, object string) string {
	return fmt.Sprintf("%s.%s((%s) %s);", builder, c.p.SetterName, c.typ(), object)
}

type optionalCode struct {
	base
	s analysis.Optional
}

func (c optionalCode) wrapper() (class, ofNullable string) {
	if c.s.Guava {
		return "com.google.common.base.Optional", "fromNullable"
	}
	return "java.util.Optional", "ofNullable"
}

func (c optionalCode) elem() string                 { return c.s.Element.String() }
func (c optionalCode) presence(field string) string { return field + " != null" }
func (c optionalCode) valueFieldType() string       { return c.elem() }

func (c optionalCode) valueGetter(field string) string {
	class, ofNullable := c.wrapper()
	return fmt.Sprintf("%s.%s(%s)", class, ofNullable, field)
}

func (c optionalCode) builderField(w *SourceWriter) {
	w.Line("private %s %s = null;", c.elem(), c.p.Name)
}

func (c optionalCode) builderMethods(w *SourceWriter) {
	class, _ := c.wrapper()
	setter, clearer := c.p.SetterName, c.method("clear")
	nullable := "setNullable" + c.p.CapitalizedName

	w.Line("/** Sets the value to be returned by {@link %s#%s()}. */", c.u.md.Type.Name, c.p.GetterName)
	w.Open("public %s %s(%s %s)", c.u.builderType, setter, c.elem(), c.p.Name)
	w.Line("this.%s = java.util.Objects.requireNonNull(%s);", c.p.Name, c.p.Name)
	c.returnSelf(w)

	w.Open("public %s %s(%s<? extends %s> %s)", c.u.builderType, setter, class, c.elem(), c.p.Name)
	w.Open("if (%s.isPresent())", c.p.Name)
	w.Line("return %s(%s.get());", setter, c.p.Name)
	w.Close()
	w.Line("return %s();", clearer)
	w.Close()
	w.Blank()

	w.Open("public %s %s(%s %s)", c.u.builderType, nullable, c.elem(), c.p.Name)
	w.Open("if (%s != null)", c.p.Name)
	w.Line("return %s(%s);", setter, c.p.Name)
	w.Close()
	w.Line("return %s();", clearer)
	w.Close()
	w.Blank()

	w.Open("public %s %s()", c.u.builderType, clearer)
	w.Line("this.%s = null;", c.p.Name)
	c.returnSelf(w)

	w.Open("public %s %s()", c.typ(), c.p.GetterName)
	w.Line("return %s;", c.valueGetter(c.p.Name))
	w.Close()
	w.Blank()
}

func (c optionalCode) mergeFromValue(w *SourceWriter, value, _ string) {
	w.Open("if (%s.%s().isPresent())", value, c.p.GetterName)
	w.Line("%s(%s.%s().get());", c.p.SetterName, value, c.p.GetterName)
	w.Close()
}

func (c optionalCode) mergeFromBuilder(w *SourceWriter, b string) {
	w.Open("if (%s.%s != null)", b, c.p.Name)
	w.Line("%s(%s.%s);", c.p.SetterName, b, c.p.Name)
	w.Close()
}

func (c optionalCode) clear(w *SourceWriter, defaults string) {
	if defaults != "" {
		w.Line("%s = %s.%s;", c.p.Name, defaults, c.p.Name)
		return
	}
	w.Line("%s = null;", c.p.Name)
}

func (c optionalCode) readInto(builder, object string) string {
	return fmt.Sprintf("%s.setNullable%s((%s) %s);", builder, c.p.CapitalizedName, c.elem(), object)
}

// collectionCode covers lists and sets: an insertion-ordered or sorted
// mutable collection in the builder, copied on build.
type collectionCode struct {
	base
	elem      string
	iface     string
	impl      string
	view      string
	removable bool
}

func (c collectionCode) builderField(w *SourceWriter) {
	w.Line("private final %s<%s> %s = new %s<>();", c.impl, c.elem, c.p.Name, c.impl)
}

func (c collectionCode) builderMethods(w *SourceWriter) {
	add := c.method("add")
	w.Line("/** Adds {@code element} to the collection returned by {@link %s#%s()}. */", c.u.md.Type.Name, c.p.GetterName)
	w.Open("public %s %s(%s element)", c.u.builderType, add, c.elem)
	w.Line("this.%s.add(java.util.Objects.requireNonNull(element));", c.p.Name)
	c.returnSelf(w)

	writeBulkAdd(w, c.base, add, c.elem)

	if c.removable {
		w.Open("public %s %s(%s element)", c.u.builderType, c.method("remove"), c.elem)
		w.Line("this.%s.remove(java.util.Objects.requireNonNull(element));", c.p.Name)
		c.returnSelf(w)
	}

	writeMutateAndClear(w, c.base, fmt.Sprintf("%s<%s>", c.iface, c.elem))

	w.Open("public %s<%s> %s()", c.iface, c.elem, c.p.GetterName)
	w.Line("return java.util.Collections.%s(%s);", c.view, c.p.Name)
	w.Close()
	w.Blank()
}

// writeBulkAdd renders the varargs and Iterable overloads, both calling
// the single-element mutator.
func writeBulkAdd(w *SourceWriter, b base, add, elem string) {
	w.Open("public %s %s(%s... elements)", b.u.builderType, add, elem)
	w.Open("for (%s element : elements)", elem)
	w.Line("%s(element);", add)
	w.Close()
	b.returnSelf(w)

	w.Open("public %s %s(Iterable<? extends %s> elements)", b.u.builderType, b.method("addAll"), elem)
	w.Open("for (%s element : elements)", elem)
	w.Line("%s(element);", add)
	w.Close()
	b.returnSelf(w)
}

func writeMutateAndClear(w *SourceWriter, b base, view string) {
	w.Open("public %s %s(java.util.function.Consumer<? super %s> mutator)", b.u.builderType, b.method("mutate"), view)
	w.Line("mutator.accept(%s);", b.p.Name)
	b.returnSelf(w)

	w.Open("public %s %s()", b.u.builderType, b.method("clear"))
	w.Line("%s.clear();", b.p.Name)
	b.returnSelf(w)
}

func (c collectionCode) mergeFromValue(w *SourceWriter, value, _ string) {
	w.Line("%s(%s.%s());", c.method("addAll"), value, c.p.GetterName)
}

func (c collectionCode) mergeFromBuilder(w *SourceWriter, b string) {
	w.Line("%s(%s.%s);", c.method("addAll"), b, c.p.Name)
}

func (c collectionCode) clear(w *SourceWriter, defaults string) {
	w.Line("%s.clear();", c.p.Name)
	if defaults != "" {
		w.Line("%s.addAll(%s.%s);", c.p.Name, defaults, c.p.Name)
	}
}

func (c collectionCode) valueInit(builder string, _ bool) string {
	return immutableCopy(c.p.Type.Name, builder+"."+c.p.Name)
}

func (c collectionCode) readInto(builder, object string) string {
	return fmt.Sprintf("%s.%s((Iterable<%s>) %s);", builder, c.method("addAll"), c.elem, object)
}

// immutableCopies gives, per declared erasure, the expression freezing a
// copy of the builder's collection.
var immutableCopies = map[string]string{
	"java.util.List":                "java.util.Collections.unmodifiableList(new java.util.ArrayList<>(%s))",
	"java.util.Collection":          "java.util.Collections.unmodifiableList(new java.util.ArrayList<>(%s))",
	"java.util.Set":                 "java.util.Collections.unmodifiableSet(new java.util.LinkedHashSet<>(%s))",
	"java.util.SortedSet":           "java.util.Collections.unmodifiableSortedSet(new java.util.TreeSet<>(%s))",
	"java.util.NavigableSet":        "java.util.Collections.unmodifiableNavigableSet(new java.util.TreeSet<>(%s))",
	"java.util.Map":                 "java.util.Collections.unmodifiableMap(new java.util.LinkedHashMap<>(%s))",
	"java.util.SortedMap":           "java.util.Collections.unmodifiableSortedMap(new java.util.TreeMap<>(%s))",
	"java.util.NavigableMap":        "java.util.Collections.unmodifiableNavigableMap(new java.util.TreeMap<>(%s))",
	guava + "ImmutableList":         guava + "ImmutableList.copyOf(%s)",
	guava + "ImmutableSet":          guava + "ImmutableSet.copyOf(%s)",
	guava + "ImmutableSortedSet":    guava + "ImmutableSortedSet.copyOfSorted(%s)",
	guava + "ImmutableMap":          guava + "ImmutableMap.copyOf(%s)",
	guava + "ImmutableSortedMap":    guava + "ImmutableSortedMap.copyOfSorted(%s)",
	guava + "Multiset":              guava + "ImmutableMultiset.copyOf(%s)",
	guava + "ImmutableMultiset":     guava + "ImmutableMultiset.copyOf(%s)",
	guava + "Multimap":              guava + "ImmutableListMultimap.copyOf(%s)",
	guava + "ListMultimap":          guava + "ImmutableListMultimap.copyOf(%s)",
	guava + "ImmutableMultimap":     guava + "ImmutableListMultimap.copyOf(%s)",
	guava + "ImmutableListMultimap": guava + "ImmutableListMultimap.copyOf(%s)",
	guava + "SetMultimap":           guava + "ImmutableSetMultimap.copyOf(%s)",
	guava + "ImmutableSetMultimap":  guava + "ImmutableSetMultimap.copyOf(%s)",
}

const guava = "com.google.common.collect."

func immutableCopy(erasure, expr string) string {
	if format, ok := immutableCopies[erasure]; ok {
		return fmt.Sprintf(format, expr)
	}
	return expr
}

type multisetCode struct {
	base
	elem string
}

func (c multisetCode) builderField(w *SourceWriter) {
	w.Line("private final %sLinkedHashMultiset<%s> %s = %sLinkedHashMultiset.create();", guava, c.elem, c.p.Name, guava)
}

func (c multisetCode) builderMethods(w *SourceWriter) {
	add, addCopies, setCount := c.method("add"), c.method("addCopiesTo"), c.method("setCountOf")

	w.Line("/** Adds {@code element} to the multiset returned by {@link %s#%s()}. */", c.u.md.Type.Name, c.p.GetterName)
	w.Open("public %s %s(%s element)", c.u.builderType, add, c.elem)
	w.Line("return %s(element, 1);", addCopies)
	w.Close()
	w.Blank()

	writeBulkAdd(w, c.base, add, c.elem)

	w.Open("public %s %s(%s element, int occurrences)", c.u.builderType, addCopies, c.elem)
	w.Line("return %s(element, %s.count(element) + occurrences);", setCount, c.p.Name)
	w.Close()
	w.Blank()

	w.Open("public %s %s(%s element, int occurrences)", c.u.builderType, setCount, c.elem)
	w.Line("%s.setCount(java.util.Objects.requireNonNull(element), occurrences);", c.p.Name)
	c.returnSelf(w)

	view := fmt.Sprintf("%sMultiset<%s>", guava, c.elem)
	writeMutateAndClear(w, c.base, view)

	w.Open("public %s %s()", view, c.p.GetterName)
	w.Line("return %sMultisets.unmodifiableMultiset(%s);", guava, c.p.Name)
	w.Close()
	w.Blank()
}

func (c multisetCode) mergeFromValue(w *SourceWriter, value, _ string) {
	w.Line("%s(%s.%s());", c.method("addAll"), value, c.p.GetterName)
}

func (c multisetCode) mergeFromBuilder(w *SourceWriter, b string) {
	w.Line("%s(%s.%s);", c.method("addAll"), b, c.p.Name)
}

func (c multisetCode) clear(w *SourceWriter, defaults string) {
	w.Line("%s.clear();", c.p.Name)
	if defaults != "" {
		w.Line("%s.addAll(%s.%s);", c.p.Name, defaults, c.p.Name)
	}
}

func (c multisetCode) valueInit(builder string, _ bool) string {
	return immutableCopy(c.p.Type.Name, builder+"."+c.p.Name)
}

func (c multisetCode) readInto(builder, object string) string {
	return fmt.Sprintf("%s.%s((Iterable<%s>) %s);", builder, c.method("addAll"), c.elem, object)
}

type mapCode struct {
	base
	s analysis.Map
}

func (c mapCode) kv() string { return c.s.Key.String() + ", " + c.s.Value.String() }

func (c mapCode) impl() string {
	if c.s.Sorted {
		return "java.util.TreeMap"
	}
	return "java.util.LinkedHashMap"
}

func (c mapCode) view() (iface, wrap string) {
	if c.s.Sorted {
		return "java.util.SortedMap", "unmodifiableSortedMap"
	}
	return "java.util.Map", "unmodifiableMap"
}

func (c mapCode) builderField(w *SourceWriter) {
	w.Line("private final %s<%s> %s = new %s<>();", c.impl(), c.kv(), c.p.Name, c.impl())
}

func (c mapCode) builderMethods(w *SourceWriter) {
	put := c.method("put")
	key, value := c.s.Key.String(), c.s.Value.String()

	w.Line("/** Associates {@code key} with {@code value} in the map returned by {@link %s#%s()}. */", c.u.md.Type.Name, c.p.GetterName)
	w.Open("public %s %s(%s key, %s value)", c.u.builderType, put, key, value)
	w.Line("%s.put(java.util.Objects.requireNonNull(key), java.util.Objects.requireNonNull(value));", c.p.Name)
	c.returnSelf(w)

	w.Open("public %s %s(java.util.Map<? extends %s, ? extends %s> map)", c.u.builderType, c.method("putAll"), key, value)
	w.Open("for (java.util.Map.Entry<? extends %s, ? extends %s> entry : map.entrySet())", key, value)
	w.Line("%s(entry.getKey(), entry.getValue());", put)
	w.Close()
	c.returnSelf(w)

	w.Open("public %s %s(%s key)", c.u.builderType, c.method("remove"), key)
	w.Line("%s.remove(java.util.Objects.requireNonNull(key));", c.p.Name)
	c.returnSelf(w)

	iface, wrap := c.view()
	writeMutateAndClear(w, c.base, fmt.Sprintf("%s<%s>", iface, c.kv()))

	w.Open("public %s<%s> %s()", iface, c.kv(), c.p.GetterName)
	w.Line("return java.util.Collections.%s(%s);", wrap, c.p.Name)
	w.Close()
	w.Blank()
}

func (c mapCode) mergeFromValue(w *SourceWriter, value, _ string) {
	w.Line("%s(%s.%s());", c.method("putAll"), value, c.p.GetterName)
}

func (c mapCode) mergeFromBuilder(w *SourceWriter, b string) {
	w.Line("%s(%s.%s);", c.method("putAll"), b, c.p.Name)
}

func (c mapCode) clear(w *SourceWriter, defaults string) {
	w.Line("%s.clear();", c.p.Name)
	if defaults != "" {
		w.Line("%s.putAll(%s.%s);", c.p.Name, defaults, c.p.Name)
	}
}

func (c mapCode) valueInit(builder string, _ bool) string {
	return immutableCopy(c.p.Type.Name, builder+"."+c.p.Name)
}

func (c mapCode) readInto(builder, object string) string {
	return fmt.Sprintf("%s.%s((java.util.Map<%s>) %s);", builder, c.method("putAll"), c.kv(), object)
}

// multimapCode covers list multimaps, which keep duplicates in insertion
// order, and set multimaps, which deduplicate per key.
type multimapCode struct {
	base
	key, value string
	kind       string
	impl       string
}

func (c multimapCode) kv() string { return c.key + ", " + c.value }

func (c multimapCode) builderField(w *SourceWriter) {
	w.Line("private final %s%s<%s> %s = %s%s.create();", guava, c.impl, c.kv(), c.p.Name, guava, c.impl)
}

func (c multimapCode) builderMethods(w *SourceWriter) {
	put, putAll := c.method("put"), c.method("putAll")

	w.Line("/** Adds a {@code key}-{@code value} mapping to the multimap returned by {@link %s#%s()}. */", c.u.md.Type.Name, c.p.GetterName)
	w.Open("public %s %s(%s key, %s value)", c.u.builderType, put, c.key, c.value)
	w.Line("%s.put(java.util.Objects.requireNonNull(key), java.util.Objects.requireNonNull(value));", c.p.Name)
	c.returnSelf(w)

	w.Open("public %s %s(%s key, Iterable<? extends %s> values)", c.u.builderType, putAll, c.key, c.value)
	w.Open("for (%s value : values)", c.value)
	w.Line("%s(key, value);", put)
	w.Close()
	c.returnSelf(w)

	w.Open("public %s %s(%sMultimap<? extends %s, ? extends %s> multimap)", c.u.builderType, putAll, guava, c.key, c.value)
	w.Open("for (java.util.Map.Entry<? extends %s, ? extends %s> entry : multimap.entries())", c.key, c.value)
	w.Line("%s(entry.getKey(), entry.getValue());", put)
	w.Close()
	c.returnSelf(w)

	w.Open("public %s %s(%s key, %s value)", c.u.builderType, c.method("remove"), c.key, c.value)
	w.Line("%s.remove(java.util.Objects.requireNonNull(key), java.util.Objects.requireNonNull(value));", c.p.Name)
	c.returnSelf(w)

	w.Open("public %s %s(%s key)", c.u.builderType, c.method("removeAll"), c.key)
	w.Line("%s.removeAll(java.util.Objects.requireNonNull(key));", c.p.Name)
	c.returnSelf(w)

	view := fmt.Sprintf("%s%s<%s>", guava, c.kind, c.kv())
	writeMutateAndClear(w, c.base, view)

	w.Open("public %s %s()", view, c.p.GetterName)
	w.Line("return %sMultimaps.unmodifiable%s(%s);", guava, c.kind, c.p.Name)
	w.Close()
	w.Blank()
}

func (c multimapCode) mergeFromValue(w *SourceWriter, value, _ string) {
	w.Line("%s(%s.%s());", c.method("putAll"), value, c.p.GetterName)
}

func (c multimapCode) mergeFromBuilder(w *SourceWriter, b string) {
	w.Line("%s(%s.%s);", c.method("putAll"), b, c.p.Name)
}

func (c multimapCode) clear(w *SourceWriter, defaults string) {
	w.Line("%s.clear();", c.p.Name)
	if defaults != "" {
		w.Line("%s.putAll(%s.%s);", c.p.Name, defaults, c.p.Name)
	}
}

func (c multimapCode) valueInit(builder string, _ bool) string {
	return immutableCopy(c.p.Type.Name, builder+"."+c.p.Name)
}

func (c multimapCode) readInto(builder, object string) string {
	return fmt.Sprintf("%s.%s((%sMultimap<%s>) %s);", builder, c.method("putAll"), guava, c.kv(), object)
}

// buildableCode keeps a live nested builder that callers may mutate in
// place.
type buildableCode struct {
	base
	s analysis.Buildable
}

func (c buildableCode) builderType() string { return c.s.Builder.String() }

func (c buildableCode) builderField(w *SourceWriter) {
	w.Line("private final %s %s = %s;", c.builderType(), c.p.Name, c.s.Factory.NewBuilder(c.builderType(), c.p.Type.Erasure()))
}

func (c buildableCode) builderMethods(w *SourceWriter) {
	w.Line("/** Sets the value to be returned by {@link %s#%s()}. */", c.u.md.Type.Name, c.p.GetterName)
	w.Open("public %s %s(%s %s)", c.u.builderType, c.p.SetterName, c.typ(), c.p.Name)
	w.Line("this.%s.clear();", c.p.Name)
	w.Line("this.%s.mergeFrom(java.util.Objects.requireNonNull(%s));", c.p.Name, c.p.Name)
	c.returnSelf(w)

	w.Open("public %s %s(%s builder)", c.u.builderType, c.p.SetterName, c.builderType())
	w.Line("return %s(builder.build());", c.p.SetterName)
	w.Close()
	w.Blank()

	w.Line("/** Returns the builder of the value that will be returned by {@link %s#%s()}. */", c.u.md.Type.Name, c.p.GetterName)
	w.Open("public %s %sBuilder()", c.builderType(), c.p.GetterName)
	w.Line("return %s;", c.p.Name)
	w.Close()
	w.Blank()

	w.Open("public %s %s(java.util.function.Consumer<? super %s> mutator)", c.u.builderType, c.method("mutate"), c.builderType())
	w.Line("mutator.accept(%s);", c.p.Name)
	c.returnSelf(w)
}

func (c buildableCode) mergeFromValue(w *SourceWriter, value, _ string) {
	w.Line("%s.mergeFrom(%s.%s());", c.p.Name, value, c.p.GetterName)
}

func (c buildableCode) mergeFromBuilder(w *SourceWriter, b string) {
	if c.s.Shape == analysis.ProtoLike {
		w.Line("%s.mergeFrom(%s.%s.buildPartial());", c.p.Name, b, c.p.Name)
		return
	}
	w.Line("%s.mergeFrom(%s.%s);", c.p.Name, b, c.p.Name)
}

func (c buildableCode) clear(w *SourceWriter, _ string) {
	w.Line("%s.clear();", c.p.Name)
}

func (c buildableCode) valueInit(builder string, partial bool) string {
	if partial {
		return builder + "." + c.p.Name + ".buildPartial()"
	}
	return builder + "." + c.p.Name + ".build()"
}

func (c buildableCode) readInto(builder, object string) string {
	return fmt.Sprintf("%s.%s((%s) %s);", builder, c.p.SetterName, c.typ(), object)
}
