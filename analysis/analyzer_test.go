package analysis

import (
	"errors"
	"sort"
	"testing"

	"github.com/dhamidi/freebuilder/diag"
	"github.com/dhamidi/freebuilder/java"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type result struct {
	md          *Metadata
	err         error
	diagnostics []diag.Diagnostic
}

func mustUniverse(t *testing.T, sources map[string]string) *java.Universe {
	t.Helper()
	paths := make([]string, 0, len(sources))
	for path := range sources {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	u := java.NewUniverse()
	for _, path := range paths {
		file, err := java.ParseFile(path, []byte(sources[path]))
		if err != nil {
			t.Fatalf("ParseFile(%s): %v", path, err)
		}
		if err := u.Add(file); err != nil {
			t.Fatal(err)
		}
	}
	u.Seal()
	return u
}

func analyzeIn(t *testing.T, u *java.Universe, name string) result {
	t.Helper()
	decl, ok := u.Lookup(name)
	if !ok {
		t.Fatalf("Lookup(%q) failed", name)
	}
	var sink diag.Log
	md, err := Analyze(u, decl, &sink)
	return result{md: md, err: err, diagnostics: sink.Diagnostics()}
}

func analyzeSource(t *testing.T, name, src string) result {
	t.Helper()
	return analyzeIn(t, mustUniverse(t, map[string]string{"Source.java": src}), name)
}

func (r result) mustSucceed(t *testing.T) *Metadata {
	t.Helper()
	if r.err != nil {
		t.Fatalf("Analyze: %v (diagnostics %v)", r.err, r.diagnostics)
	}
	return r.md
}

func messages(diagnostics []diag.Diagnostic) []string {
	var result []string
	for _, d := range diagnostics {
		result = append(result, d.Severity.String()+": "+d.Element+": "+d.Message)
	}
	return result
}

func propertyNames(md *Metadata) []string {
	var result []string
	for _, p := range md.Properties {
		result = append(result, p.Name)
	}
	return result
}

const personSource = `package com.example;

import java.util.List;
import org.inferred.freebuilder.FreeBuilder;

@FreeBuilder
public abstract class Person {
  public abstract String getName();
  public abstract void getNothing();
  public abstract int getAge();
  public abstract String lookup(String key);
  public abstract List<String> getNicknames();
  public abstract String isBroken();
  public abstract boolean isEmployed();
  public String describe() { return getName(); }
  public static Person of() { return null; }

  public static class Builder extends Person_Builder {}
}
`

func TestAnalyzeProperties(t *testing.T) {
	r := analyzeSource(t, "com.example.Person", personSource)
	md := r.mustSucceed(t)

	if diff := cmp.Diff([]string{"name", "age", "nicknames", "employed"}, propertyNames(md)); diff != "" {
		t.Errorf("properties (-want +got):\n%s", diff)
	}
	wantMessages := []string{
		"error: com.example.Person.getNothing: Getter methods must not be void",
		"error: com.example.Person.lookup: Getter methods cannot take parameters",
		"error: com.example.Person.isBroken: Getter methods starting with 'is' must return a boolean",
	}
	if diff := cmp.Diff(wantMessages, messages(r.diagnostics)); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}

	age, _ := md.Property("age")
	want := Property{
		Name:                "age",
		CapitalizedName:     "Age",
		AllCapsName:         "AGE",
		GetterName:          "getAge",
		SetterName:          "setAge",
		Type:                java.Primitive("int"),
		BoxedType:           &java.TypeRef{Kind: java.TypeDeclared, Name: "java.lang.Integer"},
		UsingBeanConvention: true,
		FullyCheckedCast:    true,
		CodeGenerator:       Required{},
	}
	if diff := cmp.Diff(want, age, cmpopts.EquateEmpty(), cmpopts.IgnoreFields(Property{}, "Pos")); diff != "" {
		t.Errorf("age (-want +got):\n%s", diff)
	}
	if age.Pos.Line != 10 {
		t.Errorf("age declared on line %d, want 10", age.Pos.Line)
	}

	nicknames, _ := md.Property("nicknames")
	if nicknames.FullyCheckedCast {
		t.Error("List<String> cast reported as fully checked")
	}
	if diff := cmp.Diff(List{Element: java.Declared("java.lang.String")}, nicknames.CodeGenerator, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("nicknames strategy (-want +got):\n%s", diff)
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	u := mustUniverse(t, map[string]string{"Person.java": personSource})
	first := analyzeIn(t, u, "com.example.Person")
	second := analyzeIn(t, u, "com.example.Person")
	if diff := cmp.Diff(first.md, second.md); diff != "" {
		t.Errorf("metadata differs between runs:\n%s", diff)
	}
	if diff := cmp.Diff(first.diagnostics, second.diagnostics); diff != "" {
		t.Errorf("diagnostics differ between runs:\n%s", diff)
	}
}

func TestAnalyzeGeneratedNames(t *testing.T) {
	md := analyzeSource(t, "com.example.Outer.Pair", `package com.example;

public class Outer {
  @FreeBuilder
  public abstract static class Pair<A, B extends Comparable<B>> {
    public abstract A first();
    public abstract B second();
    public static class Builder<X, Y extends Comparable<Y>> extends Outer_Pair_Builder<X, Y> {}
  }
}
`).mustSucceed(t)

	got := map[string]string{
		"type":      md.Type.String(),
		"builder":   md.Builder.String(),
		"generated": md.GeneratedBuilder.String(),
		"value":     md.ValueType.String(),
		"partial":   md.PartialType.String(),
		"property":  md.PropertyEnum.String(),
		"decl":      md.GeneratedBuilder.Declaration(),
	}
	want := map[string]string{
		"type":      "com.example.Outer.Pair<A, B>",
		"builder":   "com.example.Outer.Pair.Builder<X, Y>",
		"generated": "com.example.Outer_Pair_Builder<A, B>",
		"value":     "com.example.Outer_Pair_Builder.Value<A, B>",
		"partial":   "com.example.Outer_Pair_Builder.Partial<A, B>",
		"property":  "com.example.Outer_Pair_Builder.Property<A, B>",
		"decl":      "<A, B extends java.lang.Comparable<B>>",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"X": "A", "Y": "B"}, md.Generics.BuilderVariables); diff != "" {
		t.Errorf("builder variables (-want +got):\n%s", diff)
	}
	if md.Generics.StaleSuperclassArity {
		t.Error("StaleSuperclassArity set without a generated superclass")
	}
	first, _ := md.Property("first")
	if first.FullyCheckedCast {
		t.Error("type variable cast reported as fully checked")
	}
}

func TestAnalyzeBuilderFactory(t *testing.T) {
	const note = `note: com.example.Person: Add "public static class Builder extends Person_Builder {}" to your class to enable the FreeBuilder API`
	tests := []struct {
		name        string
		members     string
		factory     BuilderFactory
		extensible  bool
		hasBuilder  bool
		diagnostics []string
	}{
		{
			name:        "no builder",
			diagnostics: []string{note},
		},
		{
			name:        "misspelled builder",
			members:     `public static class Bulider extends Person_Builder {}`,
			diagnostics: []string{note},
		},
		{
			name:       "implicit constructor",
			members:    `public static class Builder extends Person_Builder {}`,
			factory:    NoArgsConstructor,
			extensible: true,
			hasBuilder: true,
		},
		{
			name: "builder method",
			members: `public static class Builder extends Person_Builder {}
  public static Builder builder() { return new Builder(); }`,
			factory:    BuilderMethod,
			extensible: true,
			hasBuilder: true,
		},
		{
			name: "builder method with private constructor",
			members: `public static class Builder extends Person_Builder { private Builder() {} }
  public static Builder builder() { return new Builder(); }`,
			factory:    BuilderMethod,
			hasBuilder: true,
		},
		{
			name: "new builder method",
			members: `public static class Builder extends Person_Builder {}
  static Builder newBuilder() { return new Builder(); }`,
			factory:    NewBuilderMethod,
			extensible: true,
			hasBuilder: true,
		},
		{
			name: "first factory method wins",
			members: `public static class Builder extends Person_Builder {}
  public static Builder newBuilder() { return new Builder(); }
  public static Builder builder() { return new Builder(); }`,
			factory:    NewBuilderMethod,
			extensible: true,
			hasBuilder: true,
		},
		{
			name: "private factory method",
			members: `public static class Builder extends Person_Builder { private Builder() {} }
  private static Builder builder() { return new Builder(); }`,
			hasBuilder: true,
		},
		{
			name:       "only a parameterized constructor",
			members:    `public static class Builder extends Person_Builder { public Builder(String name) {} }`,
			factory:    NoBuilderFactory,
			hasBuilder: true,
		},
		{
			name:        "inner builder",
			members:     `public class Builder extends Person_Builder {}`,
			diagnostics: []string{"error: com.example.Person.Builder: Builder must be static on FreeBuilder types"},
		},
		{
			name:        "wrong supertype",
			members:     `public static class Builder extends Object {}`,
			diagnostics: []string{"error: com.example.Person.Builder: Builder extends the wrong type (should be Person_Builder)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := analyzeSource(t, "com.example.Person", `package com.example;

@FreeBuilder
public abstract class Person {
  public abstract String getName();
  `+tt.members+`
}
`)
			md := r.mustSucceed(t)
			if md.BuilderFactory != tt.factory {
				t.Errorf("BuilderFactory = %v, want %v", md.BuilderFactory, tt.factory)
			}
			if md.Extensible != tt.extensible {
				t.Errorf("Extensible = %v, want %v", md.Extensible, tt.extensible)
			}
			if (md.Builder != nil) != tt.hasBuilder {
				t.Errorf("Builder = %v, want present %v", md.Builder, tt.hasBuilder)
			}
			if diff := cmp.Diff(tt.diagnostics, messages(r.diagnostics)); diff != "" {
				t.Errorf("diagnostics (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyzeBuilderTypeParameters(t *testing.T) {
	tests := []struct {
		name    string
		builder string
		want    string
	}{
		{"not generic", `public static class Builder extends Pair_Builder {}`, "Builder must be generic"},
		{"wrong arity", `public static class Builder<A> extends Pair_Builder<A> {}`, "Builder has the wrong type parameters"},
		{"swapped", `public static class Builder<X, Y> extends Pair_Builder<Y, X> {}`, "Builder extends the wrong type (should be Pair_Builder<X, Y>)"},
		{"raw supertype", `public static class Builder<X, Y> extends Pair_Builder {}`, "Builder extends the wrong type (should be Pair_Builder<X, Y>)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := analyzeSource(t, "com.example.Pair", `package com.example;

public abstract class Pair<A, B> {
  public abstract A first();
  public abstract B second();
  `+tt.builder+`
}
`)
			md := r.mustSucceed(t)
			if md.Builder != nil {
				t.Errorf("Builder = %v, want absent", md.Builder)
			}
			if md.Generics.BuilderVariables != nil {
				t.Errorf("BuilderVariables = %v, want none", md.Generics.BuilderVariables)
			}
			want := []string{"error: com.example.Pair.Builder: " + tt.want}
			if diff := cmp.Diff(want, messages(r.diagnostics)); diff != "" {
				t.Errorf("diagnostics (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyzeGenericNote(t *testing.T) {
	r := analyzeSource(t, "com.example.Pair", `package com.example;

public interface Pair<A, B> {
  A first();
}
`)
	r.mustSucceed(t)
	want := []string{`note: com.example.Pair: Add "public static class Builder<A, B> extends Pair_Builder<A, B> {}" to your interface to enable the FreeBuilder API`}
	if diff := cmp.Diff(want, messages(r.diagnostics)); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}
}

func TestAnalyzeToBuilder(t *testing.T) {
	const errToBuilder = "error: com.example.Person.toBuilder: No accessible no-args Builder constructor available to implement toBuilder"
	const builder = `public static class Builder extends Person_Builder {}`
	tests := []struct {
		name        string
		toBuilder   string
		builder     string
		want        bool
		properties  []string
		diagnostics []string
	}{
		{
			name:       "accessible constructor",
			toBuilder:  `public abstract Builder toBuilder();`,
			builder:    builder,
			want:       true,
			properties: []string{"name"},
		},
		{
			name:      "private constructor",
			toBuilder: `public abstract Builder toBuilder();`,
			builder: `public static class Builder extends Person_Builder { private Builder() {} }
  public static Builder builder() { return new Builder(); }`,
			properties:  []string{"name"},
			diagnostics: []string{errToBuilder},
		},
		{
			name:        "constructor with parameters",
			toBuilder:   `public abstract Builder toBuilder();`,
			builder:     `public static class Builder extends Person_Builder { public Builder(String name) {} }`,
			properties:  []string{"name"},
			diagnostics: []string{errToBuilder},
		},
		{
			name:       "no builder",
			toBuilder:  `public abstract Builder toBuilder();`,
			properties: []string{"name"},
			diagnostics: []string{
				`note: com.example.Person: Add "public static class Builder extends Person_Builder {}" to your class to enable the FreeBuilder API`,
				errToBuilder,
			},
		},
		{
			name:       "returns another type",
			toBuilder:  `public abstract String toBuilder();`,
			builder:    builder,
			properties: []string{"name", "toBuilder"},
		},
		{
			name:       "returns the generated builder",
			toBuilder:  `public abstract Person_Builder toBuilder();`,
			builder:    builder,
			want:       true,
			properties: []string{"name"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := analyzeSource(t, "com.example.Person", `package com.example;

public abstract class Person {
  public abstract String getName();
  `+tt.toBuilder+`
  `+tt.builder+`
}
`)
			md := r.mustSucceed(t)
			if md.HasToBuilderMethod != tt.want {
				t.Errorf("HasToBuilderMethod = %v, want %v", md.HasToBuilderMethod, tt.want)
			}
			if diff := cmp.Diff(tt.properties, propertyNames(md)); diff != "" {
				t.Errorf("properties (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.diagnostics, messages(r.diagnostics), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("diagnostics (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyzeUnderrides(t *testing.T) {
	tests := []struct {
		name        string
		members     string
		want        map[StandardMethod]Underride
		diagnostics []string
	}{
		{
			name: "none",
			want: map[StandardMethod]Underride{},
		},
		{
			name:        "equals only",
			members:     `@Override public boolean equals(Object o) { return false; }`,
			want:        map[StandardMethod]Underride{Equals: Overrideable},
			diagnostics: []string{"error: com.example.Person.equals: hashCode and equals must be implemented together"},
		},
		{
			name:        "final hashCode only",
			members:     `@Override public final int hashCode() { return 1; }`,
			want:        map[StandardMethod]Underride{HashCode: Final},
			diagnostics: []string{"error: com.example.Person.hashCode: hashCode and equals must be implemented together"},
		},
		{
			name: "both with mixed finality",
			members: `@Override public final boolean equals(Object o) { return false; }
  @Override public int hashCode() { return 1; }
  @Override public final String toString() { return ""; }`,
			want: map[StandardMethod]Underride{Equals: Final, HashCode: Overrideable, ToString: Final},
		},
		{
			name:    "abstract redeclarations",
			members: `@Override public abstract boolean equals(Object o);
  @Override public abstract String toString();`,
			want: map[StandardMethod]Underride{},
		},
		{
			name:    "overload is not equals",
			members: `public boolean equals(Person other) { return false; }`,
			want:    map[StandardMethod]Underride{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := analyzeSource(t, "com.example.Person", `package com.example;

public abstract class Person {
  public abstract String getName();
  `+tt.members+`
  public static class Builder extends Person_Builder {}
}
`)
			md := r.mustSucceed(t)
			if diff := cmp.Diff(tt.want, md.StandardMethodUnderrides); diff != "" {
				t.Errorf("underrides (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"name"}, propertyNames(md)); diff != "" {
				t.Errorf("properties (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.diagnostics, messages(r.diagnostics)); diff != "" {
				t.Errorf("diagnostics (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyzeFatal(t *testing.T) {
	tests := []struct {
		name string
		decl string
		src  string
		want string
	}{
		{
			name: "private type",
			decl: "com.example.Outer.Person",
			src: `package com.example;
public class Outer {
  @FreeBuilder
  private abstract static class Person {
    public abstract String getName();
  }
}`,
			want: "error: com.example.Outer.Person: FreeBuilder types cannot be private",
		},
		{
			name: "private enclosing type",
			decl: "com.example.Outer.Mid.Person",
			src: `package com.example;
public class Outer {
  private static class Mid {
    public abstract static class Person {}
  }
}`,
			want: "error: com.example.Outer.Mid.Person: FreeBuilder types cannot be private, but enclosing type Mid is inaccessible",
		},
		{
			name: "inner class",
			decl: "com.example.Outer.Person",
			src: `package com.example;
public class Outer {
  public abstract class Person {}
}`,
			want: "error: com.example.Outer.Person: Inner classes cannot be FreeBuilder types (did you forget the static keyword?)",
		},
		{
			name: "local class",
			decl: "com.example.Host.Local",
			src: `package com.example;
public class Host {
  void run() {
    @FreeBuilder
    abstract class Local {
      abstract String name();
    }
  }
}`,
			want: "error: com.example.Host.Local: Only top-level or static nested types can be FreeBuilder types",
		},
		{
			name: "enum",
			decl: "com.example.Color",
			src:  "package com.example;\npublic enum Color { RED, GREEN }",
			want: "error: com.example.Color: FreeBuilder does not support enum types",
		},
		{
			name: "annotation type",
			decl: "com.example.Marker",
			src:  "package com.example;\npublic @interface Marker {}",
			want: "error: com.example.Marker: FreeBuilder does not support annotation types",
		},
		{
			name: "unnamed package",
			decl: "Person",
			src:  "public abstract class Person { public abstract String getName(); }",
			want: "error: Person: FreeBuilder does not support types in unnamed packages",
		},
		{
			name: "constructor with parameters",
			decl: "com.example.Person",
			src:  "package com.example;\npublic abstract class Person { Person(String name) {} }",
			want: "error: com.example.Person: FreeBuilder types must have a package-visible no-args constructor",
		},
		{
			name: "private constructor",
			decl: "com.example.Person",
			src:  "package com.example;\npublic abstract class Person { private Person() {} }",
			want: "error: com.example.Person: FreeBuilder types must have a package-visible no-args constructor",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := analyzeSource(t, tt.decl, tt.src)
			if !errors.Is(r.err, ErrCannotGenerate) {
				t.Fatalf("err = %v, want ErrCannotGenerate", r.err)
			}
			if r.md != nil {
				t.Errorf("metadata returned alongside failure: %+v", r.md)
			}
			if diff := cmp.Diff([]string{tt.want}, messages(r.diagnostics)); diff != "" {
				t.Errorf("diagnostics (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAnalyzeUnsealedUniverse(t *testing.T) {
	file, err := java.ParseFile("A.java", []byte("package p; public interface A {}"))
	if err != nil {
		t.Fatal(err)
	}
	u := java.NewUniverse()
	if err := u.Add(file); err != nil {
		t.Fatal(err)
	}
	_, err = Analyze(u, file.Types[0], &diag.Log{})
	if err == nil || errors.Is(err, ErrCannotGenerate) {
		t.Errorf("err = %v, want an environment error", err)
	}
}

func TestAnalyzeInheritedProperties(t *testing.T) {
	u := mustUniverse(t, map[string]string{
		"Named.java": `package com.example.base;
public interface Named<N extends CharSequence> {
  N getName();
  String getTitle();
}`,
		"Person.java": `package com.example;

import com.example.base.Named;

public interface Person extends Named<String> {
  int getAge();
  @Override default String getTitle() { return "Dr"; }
  class Builder extends Person_Builder {}
}`,
	})
	md := analyzeIn(t, u, "com.example.Person").mustSucceed(t)
	if diff := cmp.Diff([]string{"name", "age"}, propertyNames(md)); diff != "" {
		t.Errorf("properties (-want +got):\n%s", diff)
	}
	name, _ := md.Property("name")
	if got := name.Type.String(); got != "java.lang.String" {
		t.Errorf("name type = %s, want java.lang.String", got)
	}
	if !md.InterfaceType {
		t.Error("InterfaceType = false")
	}
}

func TestAnalyzeSkipsPackagePrivateInOtherPackage(t *testing.T) {
	u := mustUniverse(t, map[string]string{
		"Base.java": `package com.example.base;
public abstract class Base {
  abstract String secret();
  protected abstract String shared();
}`,
		"Person.java": `package com.example;

import com.example.base.Base;

public abstract class Person extends Base {
  public abstract String getName();
  public static class Builder extends Person_Builder {}
}`,
	})
	md := analyzeIn(t, u, "com.example.Person").mustSucceed(t)
	if diff := cmp.Diff([]string{"shared", "name"}, propertyNames(md)); diff != "" {
		t.Errorf("properties (-want +got):\n%s", diff)
	}
}

const orderSource = `package com.example;

import com.example.proto.Money;
import com.google.common.collect.ImmutableList;
import com.google.common.collect.ImmutableMultiset;
import com.google.common.collect.ImmutableSetMultimap;
import com.google.common.collect.ListMultimap;
import com.google.common.collect.Multiset;
import com.google.common.collect.SetMultimap;
import java.util.Collection;
import java.util.List;
import java.util.Map;
import java.util.Optional;
import java.util.Set;
import java.util.SortedSet;
import javax.annotation.Nullable;
import org.inferred.freebuilder.FreeBuilder;

@FreeBuilder
public interface Order {
  String id();
  @Nullable String note();
  @Nullable int broken();
  Optional<Integer> priority();
  com.google.common.base.Optional<String> legacy();
  List<? extends Number> amounts();
  ImmutableList<String> frozen();
  Set<String> tags();
  SortedSet<String> sortedTags();
  Multiset<String> counts();
  Map<String, Integer> totals();
  ListMultimap<String, Integer> history();
  SetMultimap<String, Integer> groups();
  List raw();
  Collection things();
  Map lookup();
  ImmutableMultiset<String> frozenCounts();
  ImmutableSetMultimap<String, Integer> frozenGroups();
  Address address();
  Money money();
  Range range();
  int quantity();

  class Builder extends Order_Builder {
    public Builder() {
      quantity(1);
    }
  }
}
`

func strategyUniverse(t *testing.T) *java.Universe {
	t.Helper()
	return mustUniverse(t, map[string]string{
		"Order.java": orderSource,
		"Address.java": `package com.example;

@FreeBuilder
public interface Address {
  String street();
  class Builder extends Address_Builder {}
}`,
		"Money.java": `package com.example.proto;

public final class Money {
  public static Builder newBuilder() { return new Builder(); }
  public static final class Builder {
    public Money build() { return null; }
    public Money buildPartial() { return null; }
    public Builder mergeFrom(Money other) { return this; }
    public Builder clear() { return this; }
  }
}`,
		"Range.java": `package com.example;

public class Range {
  public static class Builder extends RangeBase {
    public Builder mergeFrom(Range value) { return this; }
    public Builder mergeFrom(Builder builder) { return this; }
  }
}

abstract class RangeBase {
  public Range build() { return null; }
  public Range buildPartial() { return null; }
  public RangeBase clear() { return this; }
}`,
	})
}

func TestSelectPropertyType(t *testing.T) {
	r := analyzeIn(t, strategyUniverse(t), "com.example.Order")
	md := r.mustSucceed(t)

	kinds := map[string]string{}
	for _, p := range md.Properties {
		kinds[p.Name] = p.CodeGenerator.Kind()
	}
	wantKinds := map[string]string{
		"id":           "required",
		"note":         "nullable",
		"broken":       "required",
		"priority":     "optional",
		"legacy":       "optional",
		"amounts":      "list",
		"frozen":       "list",
		"tags":         "set",
		"sortedTags":   "set",
		"counts":       "multiset",
		"totals":       "map",
		"history":      "list_multimap",
		"groups":       "set_multimap",
		"raw":          "list",
		"things":       "list",
		"lookup":       "map",
		"frozenCounts": "multiset",
		"frozenGroups": "set_multimap",
		"address":      "buildable",
		"money":        "buildable",
		"range":        "buildable",
		"quantity":     "default",
	}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Errorf("strategies (-want +got):\n%s", diff)
	}

	wantDiagnostics := []string{"error: com.example.Order.broken: Primitive properties cannot be @Nullable"}
	if diff := cmp.Diff(wantDiagnostics, messages(r.diagnostics)); diff != "" {
		t.Errorf("diagnostics (-want +got):\n%s", diff)
	}

	str := java.Declared("java.lang.String")
	integer := java.Declared("java.lang.Integer")
	object := java.Declared("java.lang.Object")
	details := map[string]PropertyType{
		"legacy":       Optional{Element: str, Guava: true},
		"amounts":      List{Element: java.Declared("java.lang.Number")},
		"frozen":       List{Element: str, Immutable: true},
		"sortedTags":   Set{Element: str, Sorted: true},
		"totals":       Map{Key: str, Value: integer},
		"raw":          List{Element: object},
		"things":       List{Element: object},
		"lookup":       Map{Key: object, Value: object},
		"frozenCounts": Multiset{Element: str, Immutable: true},
		"frozenGroups": SetMultimap{Key: str, Value: integer, Immutable: true},
		"address":      Buildable{Shape: FreeBuilt, Builder: java.Declared("com.example.Address.Builder"), Factory: NoArgsConstructor},
		"money":        Buildable{Shape: ProtoLike, Builder: java.Declared("com.example.proto.Money.Builder"), Factory: NewBuilderMethod},
		"range":        Buildable{Shape: BuilderLike, Builder: java.Declared("com.example.Range.Builder"), Factory: NoArgsConstructor},
	}
	for name, want := range details {
		p, _ := md.Property(name)
		if diff := cmp.Diff(want, p.CodeGenerator, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s strategy (-want +got):\n%s", name, diff)
		}
	}
}

func TestAnalyzeGwt(t *testing.T) {
	tests := []struct {
		name       string
		annotation string
		visibility Visibility
		nested     []string
		valueAnns  []string
	}{
		{
			name:       "no annotation",
			visibility: VisibilityPublic,
			nested:     []string{"Value", "Partial", "Property"},
		},
		{
			name:       "gwt compatible",
			annotation: "@GwtCompatible",
			visibility: VisibilityPrivate,
			nested:     []string{"Value", "Partial", "Property"},
		},
		{
			name:       "gwt serializable",
			annotation: "@GwtCompatible(serializable = true)",
			visibility: VisibilityPackage,
			nested:     []string{"Value", "Partial", "Property", "Value_CustomFieldSerializer", "GwtWhitelist"},
			valueAnns:  []string{"@com.google.common.annotations.GwtCompatible(serializable = true)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := analyzeSource(t, "com.example.Token", `package com.example;

import com.google.common.annotations.GwtCompatible;

`+tt.annotation+`
public abstract class Token {
  public abstract String value();
  public static class Builder extends Token_Builder {}
}
`).mustSucceed(t)
			if md.ValueTypeVisibility != tt.visibility {
				t.Errorf("ValueTypeVisibility = %v, want %v", md.ValueTypeVisibility, tt.visibility)
			}
			var nested []string
			for _, q := range md.NestedClasses {
				nested = append(nested, q.SimpleName())
			}
			if diff := cmp.Diff(tt.nested, nested); diff != "" {
				t.Errorf("nested classes (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.valueAnns, md.ValueTypeAnnotations); diff != "" {
				t.Errorf("value annotations (-want +got):\n%s", diff)
			}
			if got := md.GwtSerializable(); got != (len(tt.valueAnns) > 0) {
				t.Errorf("GwtSerializable() = %v", got)
			}
			if tt.annotation != "" && len(md.GeneratedBuilderAnnotations) != 1 {
				t.Errorf("GeneratedBuilderAnnotations = %v, want the GWT annotation", md.GeneratedBuilderAnnotations)
			}
		})
	}
}

func TestValueTypeVisibilityFollowsEnclosingChain(t *testing.T) {
	md := analyzeSource(t, "com.example.Outer.Person", `package com.example;

class Outer {
  public abstract static class Person {
    public abstract String name();
    public static class Builder extends Outer_Person_Builder {}
  }
}
`).mustSucceed(t)
	if md.ValueTypeVisibility != VisibilityPackage {
		t.Errorf("ValueTypeVisibility = %v, want PACKAGE", md.ValueTypeVisibility)
	}
}

func TestAnalyzeVisibleNestedTypes(t *testing.T) {
	u := mustUniverse(t, map[string]string{
		"Base.java": `package com.example;
public abstract class Base {
  public enum Kind { A, B }
  public interface Visitor {}
}`,
		"Person.java": `package com.example;
public abstract class Person extends Base {
  public abstract Kind kind();
  public static class Builder extends Person_Builder {}
  public static class Helper {}
}`,
	})
	md := analyzeIn(t, u, "com.example.Person").mustSucceed(t)
	var got []string
	for _, q := range md.VisibleNestedTypes {
		got = append(got, q.String())
	}
	want := []string{
		"com.example.Person_Builder.Value",
		"com.example.Person_Builder.Partial",
		"com.example.Person_Builder.Property",
		"com.example.Base.Kind",
		"com.example.Base.Visitor",
		"com.example.Person.Builder",
		"com.example.Person.Helper",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("visible nested types (-want +got):\n%s", diff)
	}
	kind, _ := md.Property("kind")
	if got := kind.Type.Name; got != "com.example.Base.Kind" {
		t.Errorf("kind type = %s, want com.example.Base.Kind", got)
	}
}

func TestAnalyzeStaleGeneratedSuperclass(t *testing.T) {
	u := mustUniverse(t, map[string]string{
		"Pair.java": `package com.example;
public abstract class Pair<A, B> {
  public abstract A first();
  public static class Builder<A, B> extends Pair_Builder<A, B> {}
}`,
		"Pair_Builder.java": `package com.example;
abstract class Pair_Builder<A> {}`,
	})
	md := analyzeIn(t, u, "com.example.Pair").mustSucceed(t)
	if !md.Generics.StaleSuperclassArity {
		t.Error("StaleSuperclassArity = false, want true")
	}
	if got := md.GeneratedBuilder.String(); got != "com.example.Pair_Builder<A, B>" {
		t.Errorf("GeneratedBuilder = %s", got)
	}
}

func TestAnalyzeBuilderSerializable(t *testing.T) {
	md := analyzeSource(t, "com.example.Person", `package com.example;

import java.io.Serializable;

public abstract class Person {
  public abstract String name();
  public static class Builder extends Person_Builder implements Serializable {}
}
`).mustSucceed(t)
	if !md.BuilderSerializable {
		t.Error("BuilderSerializable = false")
	}
}
