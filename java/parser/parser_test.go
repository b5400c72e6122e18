package parser

import (
	"strings"
	"testing"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"class", []TokenKind{TokenKeyword, TokenEOF}},
		{"public class Main {}", []TokenKind{TokenKeyword, TokenKeyword, TokenIdent, TokenPunct, TokenPunct, TokenEOF}},
		{"123L 0x1F 3.14e-2f", []TokenKind{TokenNumber, TokenNumber, TokenNumber, TokenEOF}},
		{`"hello \"there\""`, []TokenKind{TokenString, TokenEOF}},
		{"'a' '\\n'", []TokenKind{TokenChar, TokenChar, TokenEOF}},
		{"\"\"\"\ntext\n\"\"\"", []TokenKind{TokenTextBlock, TokenEOF}},
		{"// comment\nclass", []TokenKind{TokenKeyword, TokenEOF}},
		{"/* block */ record", []TokenKind{TokenIdent, TokenEOF}},
		{"non-sealed", []TokenKind{TokenIdent, TokenEOF}},
		{"... :: ->", []TokenKind{TokenPunct, TokenPunct, TokenPunct, TokenEOF}},
		{"größe", []TokenKind{TokenIdent, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.java")
			var got []TokenKind
			for {
				tok := lexer.NextToken()
				if tok.Kind != TokenWhitespace && tok.Kind != TokenComment && tok.Kind != TokenLineComment {
					got = append(got, tok.Kind)
				}
				if tok.Kind == TokenEOF {
					break
				}
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerNeverMergesClosingAngles(t *testing.T) {
	lexer := NewLexer([]byte("Map<String, List<Integer>>"), "")
	var closing int
	for tok := lexer.NextToken(); tok.Kind != TokenEOF; tok = lexer.NextToken() {
		if tok.Literal == ">>" {
			t.Fatal("lexer produced a '>>' token")
		}
		if tok.Literal == ">" {
			closing++
		}
	}
	if closing != 2 {
		t.Errorf("closing angles = %d, want 2", closing)
	}
}

func TestLexerPositions(t *testing.T) {
	lexer := NewLexer([]byte("package a;\n  class B {}"), "B.java")
	var class Token
	for tok := lexer.NextToken(); tok.Kind != TokenEOF; tok = lexer.NextToken() {
		if tok.Literal == "class" {
			class = tok
		}
	}
	if class.Span.Start.Line != 2 || class.Span.Start.Column != 3 {
		t.Errorf("class at %v, want 2:3", class.Span.Start)
	}
	if got := class.Span.Start.String(); got != "B.java:2:3" {
		t.Errorf("String() = %q, want %q", got, "B.java:2:3")
	}
}

func parse(t *testing.T, src string) *Node {
	t.Helper()
	p := ParseCompilationUnit(strings.NewReader(src), WithFile("Test.java"))
	node := p.Finish()
	if node == nil {
		t.Fatal("Finish() returned nil")
	}
	for _, err := range p.Errors() {
		t.Errorf("unexpected syntax error: %v", err)
	}
	return node
}

func TestParseCompilationUnit(t *testing.T) {
	cu := parse(t, `@ParametersAreNonnullByDefault
package com.example.data;

import java.util.List;
import static java.util.Objects.requireNonNull;
import com.google.common.collect.*;

@FreeBuilder
public abstract class Person {
  public abstract String getName();
  public abstract List<? extends Number> getScores();
  public static class Builder extends Person_Builder {}
}
`)

	pkg := cu.FirstChildOfKind(KindPackageDecl)
	if pkg == nil {
		t.Fatal("missing package declaration")
	}
	if !pkg.HasChild(KindAnnotation) {
		t.Error("package annotation was dropped")
	}

	imports := cu.ChildrenOfKind(KindImportDecl)
	if len(imports) != 3 {
		t.Fatalf("got %d imports, want 3", len(imports))
	}
	if lit := imports[1].Children[0].TokenLiteral(); lit != "static" {
		t.Errorf("second import first child = %q, want static", lit)
	}
	if last := imports[2].Children[len(imports[2].Children)-1]; last.TokenLiteral() != "*" {
		t.Errorf("wildcard import marker = %q, want *", last.TokenLiteral())
	}

	decls := cu.ChildrenOfKind(KindTypeDecl)
	if len(decls) != 1 {
		t.Fatalf("got %d type declarations, want 1", len(decls))
	}
	person := decls[0]
	if person.TokenLiteral() != "class" {
		t.Errorf("kind = %q, want class", person.TokenLiteral())
	}
	body := person.FirstChildOfKind(KindClassBody)
	if got := len(body.ChildrenOfKind(KindMethodDecl)); got != 2 {
		t.Errorf("got %d methods, want 2", got)
	}
	builder := body.FirstChildOfKind(KindTypeDecl)
	if builder == nil {
		t.Fatal("nested Builder not parsed")
	}
	ext := builder.FirstChildOfKind(KindExtendsClause)
	if ext == nil || ext.Children[0].Children[0].TokenLiteral() != "Person_Builder" {
		t.Errorf("Builder extends clause = %v", ext)
	}
}

func TestParseMembers(t *testing.T) {
	cu := parse(t, `package p;
interface Shapes<K extends Comparable<K>, V> extends Base<K>, Other {
  int SIZE = 1 << 3, OTHER = SIZE > 2 ? 1 : 2;
  Map<String, List<Integer>> byName = new HashMap<String, List<Integer>>();
  default boolean isEmpty() { return size() == 0; }
  <T extends V> T pick(T[] options, String... rest) throws java.io.IOException;
  @Nullable String nickname();
  String[] legacy() [];
  enum Color { RED, GREEN("g") { void f() {} }, BLUE; Color() {} Color(String s) {} }
  @interface Marker { String value() default "x"; }
  record Point(int x, int y) implements Comparable<Point> {
    Point { if (x < 0) throw new IllegalArgumentException(); }
  }
  static { }
}
`)
	decl := cu.FirstChildOfKind(KindTypeDecl)
	if decl.TokenLiteral() != "interface" {
		t.Fatalf("kind = %q", decl.TokenLiteral())
	}
	params := decl.FirstChildOfKind(KindTypeParameters).ChildrenOfKind(KindTypeParameter)
	if len(params) != 2 {
		t.Fatalf("got %d type parameters, want 2", len(params))
	}
	if len(params[0].ChildrenOfKind(KindType)) != 1 {
		t.Error("type parameter bound missing")
	}
	if got := len(decl.FirstChildOfKind(KindExtendsClause).Children); got != 2 {
		t.Errorf("extends clause has %d types, want 2", got)
	}

	body := decl.FirstChildOfKind(KindClassBody)
	fields := body.ChildrenOfKind(KindFieldDecl)
	if len(fields) != 2 {
		t.Fatalf("got %d field declarations, want 2", len(fields))
	}
	if got := len(fields[0].ChildrenOfKind(KindIdentifier)); got != 2 {
		t.Errorf("first field declaration has %d names, want 2", got)
	}

	methods := body.ChildrenOfKind(KindMethodDecl)
	if len(methods) != 4 {
		t.Fatalf("got %d methods, want 4", len(methods))
	}
	if !methods[0].HasChild(KindBody) {
		t.Error("default method should have a body")
	}
	if methods[1].HasChild(KindBody) {
		t.Error("abstract method should not have a body")
	}
	pick := methods[1].FirstChildOfKind(KindParameters).ChildrenOfKind(KindParameter)
	if len(pick) != 2 || !pick[1].HasChild(KindVarargs) {
		t.Errorf("pick parameters = %v", pick)
	}
	if !methods[1].HasChild(KindThrowsList) {
		t.Error("throws clause missing")
	}
	if !methods[2].FirstChildOfKind(KindModifiers).HasChild(KindAnnotation) {
		t.Error("@Nullable should be kept with the method modifiers")
	}
	if got := len(methods[3].FirstChildOfKind(KindType).ChildrenOfKind(KindArrayDims)); got != 1 {
		t.Errorf("legacy() return type has %d dims, want 1", got)
	}

	nested := body.ChildrenOfKind(KindTypeDecl)
	if len(nested) != 3 {
		t.Fatalf("got %d nested types, want 3", len(nested))
	}
	color := nested[0].FirstChildOfKind(KindClassBody)
	if got := len(color.ChildrenOfKind(KindEnumConstant)); got != 3 {
		t.Errorf("got %d enum constants, want 3", got)
	}
	if got := len(color.ChildrenOfKind(KindConstructorDecl)); got != 2 {
		t.Errorf("got %d enum constructors, want 2", got)
	}
	if nested[1].TokenLiteral() != "@interface" || nested[2].TokenLiteral() != "record" {
		t.Errorf("nested kinds = %q, %q", nested[1].TokenLiteral(), nested[2].TokenLiteral())
	}
}

func TestParseConstructorStatements(t *testing.T) {
	cu := parse(t, `class Builder extends Person_Builder {
  Builder() {
    this(3);
  }
  Builder(int n) {
    super();
    setName("Bob");
    this.setAge(n).setNickname("b");
    if (n > 2) { setTitle("x"); } else setTitle("y");
    for (int i = 0; i < n; i++) addTags("t");
    Runnable r = () -> { setIgnored(1); };
    list.forEach(x -> setOther(x));
    do { n--; } while (n > 0);
    setLast(a, b(c, d));
  }
}
`)
	body := cu.FirstChildOfKind(KindTypeDecl).FirstChildOfKind(KindClassBody)
	ctors := body.ChildrenOfKind(KindConstructorDecl)
	if len(ctors) != 2 {
		t.Fatalf("got %d constructors, want 2", len(ctors))
	}

	first := ctors[0].FirstChildOfKind(KindBody).Children
	if len(first) != 1 || first[0].Kind != KindConstructorCall || first[0].TokenLiteral() != "this" {
		t.Fatalf("first constructor statements = %v", first)
	}
	if got := len(first[0].ChildrenOfKind(KindArgument)); got != 1 {
		t.Errorf("this(..) has %d arguments, want 1", got)
	}

	stmts := ctors[1].FirstChildOfKind(KindBody).Children
	var kinds []string
	for _, s := range stmts {
		kinds = append(kinds, s.Kind.String())
	}
	want := []string{
		"ConstructorCall", "CallChain", "CallChain", "OpaqueStmt", "OpaqueStmt",
		"OpaqueStmt", "OpaqueStmt", "OpaqueStmt", "CallChain",
	}
	if strings.Join(kinds, ",") != strings.Join(want, ",") {
		t.Fatalf("statement kinds = %v, want %v", kinds, want)
	}

	chain := stmts[2]
	if !chain.HasChild(KindThis) {
		t.Error("this. qualifier dropped")
	}
	calls := chain.ChildrenOfKind(KindCall)
	if len(calls) != 2 || calls[0].TokenLiteral() != "setAge" || calls[1].TokenLiteral() != "setNickname" {
		t.Errorf("chained calls = %v", calls)
	}
	last := stmts[8].ChildrenOfKind(KindCall)[0]
	if got := len(last.ChildrenOfKind(KindArgument)); got != 2 {
		t.Errorf("setLast has %d arguments, want 2", got)
	}
}

func TestParseLocalTypes(t *testing.T) {
	cu := parse(t, `class Host {
  void run() {
    Class<?> c = Host.class;
    final int n = 1;
    @FreeBuilder abstract class Local { abstract String name(); void f() { record Pair(int a, int b) {} } }
    new Thread(() -> { enum Mode { A } }).start();
  }
  abstract void later();
}
`)
	body := cu.FirstChildOfKind(KindTypeDecl).FirstChildOfKind(KindClassBody)
	methods := body.ChildrenOfKind(KindMethodDecl)
	if len(methods) != 2 {
		t.Fatalf("got %d methods, want 2", len(methods))
	}
	locals := methods[0].FirstChildOfKind(KindBody).ChildrenOfKind(KindTypeDecl)
	var kinds []string
	for _, local := range locals {
		kinds = append(kinds, local.TokenLiteral()+" "+local.FirstChildOfKind(KindIdentifier).TokenLiteral())
	}
	want := []string{"class Local", "enum Mode"}
	if strings.Join(kinds, ",") != strings.Join(want, ",") {
		t.Fatalf("local types = %v, want %v", kinds, want)
	}
	if !locals[0].FirstChildOfKind(KindModifiers).HasChild(KindAnnotation) {
		t.Error("local class lost its annotation")
	}
	inner := locals[0].FirstChildOfKind(KindClassBody).ChildrenOfKind(KindMethodDecl)[1]
	if got := len(inner.FirstChildOfKind(KindBody).ChildrenOfKind(KindTypeDecl)); got != 1 {
		t.Errorf("f() declares %d local types, want 1", got)
	}
}

func TestParseAnnotationValues(t *testing.T) {
	cu := parse(t, `@GwtCompatible(serializable = true, emulated = false)
@SuppressWarnings({"unchecked", "rawtypes"})
@Target(ElementType.TYPE)
@Weird(1 + 2)
class A {}
`)
	mods := cu.FirstChildOfKind(KindTypeDecl).FirstChildOfKind(KindModifiers)
	anns := mods.ChildrenOfKind(KindAnnotation)
	if len(anns) != 4 {
		t.Fatalf("got %d annotations, want 4", len(anns))
	}

	elems := anns[0].ChildrenOfKind(KindAnnotationElement)
	if len(elems) != 2 || elems[0].TokenLiteral() != "serializable" {
		t.Fatalf("GwtCompatible elements = %v", elems)
	}
	if v := elems[0].Children[0]; v.Kind != KindLiteral || v.TokenLiteral() != "true" {
		t.Errorf("serializable value = %v", v)
	}
	if v := anns[1].Children[1].Children[0]; v.Kind != KindArrayValue || len(v.Children) != 2 {
		t.Errorf("SuppressWarnings value = %v", v)
	}
	if v := anns[2].Children[1].Children[0]; v.Kind != KindQualifiedName {
		t.Errorf("Target value kind = %v, want QualifiedName", v.Kind)
	}
	if v := anns[3].Children[1].Children[0]; v.Kind != KindOpaqueExpr {
		t.Errorf("Weird value kind = %v, want OpaqueExpr", v.Kind)
	}
}

func TestParseRecoversFromErrors(t *testing.T) {
	p := ParseCompilationUnit(strings.NewReader(`class A {
  int ;
  String name();
  ## junk
  abstract int age();
}
`), WithFile("A.java"))
	cu := p.Finish()
	if cu == nil {
		t.Fatal("Finish() returned nil")
	}
	if len(p.Errors()) == 0 {
		t.Fatal("expected syntax errors")
	}
	if p.Errors()[0].Pos.Line != 2 {
		t.Errorf("first error on line %d, want 2", p.Errors()[0].Pos.Line)
	}
	body := cu.FirstChildOfKind(KindTypeDecl).FirstChildOfKind(KindClassBody)
	var names []string
	for _, m := range body.ChildrenOfKind(KindMethodDecl) {
		names = append(names, m.FirstChildOfKind(KindIdentifier).TokenLiteral())
	}
	if strings.Join(names, ",") != "name,age" {
		t.Errorf("recovered methods = %v, want [name age]", names)
	}
}

func TestFinishEmptyInput(t *testing.T) {
	if node := ParseCompilationUnit(strings.NewReader("")).Finish(); node != nil {
		t.Errorf("Finish() = %v, want nil", node)
	}
}
