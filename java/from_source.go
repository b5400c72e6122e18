package java

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/dhamidi/freebuilder/java/parser"
)

// SyntaxError collects the syntax errors of one file. It unwraps to the
// first of them.
type SyntaxError struct {
	Path   string
	Errors []parser.Error
}

func (e *SyntaxError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e.Errors[0].Error(), len(e.Errors)-1)
}

func (e *SyntaxError) Unwrap() error {
	return e.Errors[0]
}

// ReadFile reads and parses the Java source file at path.
func ReadFile(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseFile(path, src)
}

// ParseFile converts Java source into a File. Type names are left as
// spelled in source until the file is added to a sealed Universe. On syntax
// errors the declarations that could be recovered are still returned,
// together with a *SyntaxError.
func ParseFile(path string, src []byte) (*File, error) {
	p := parser.ParseCompilationUnit(bytes.NewReader(src), parser.WithFile(path))
	node := p.Finish()
	file := &File{Path: path}
	if node != nil {
		c := &sourceConverter{file: file, src: src}
		c.compilationUnit(node)
	}
	if errs := p.Errors(); len(errs) > 0 {
		return file, &SyntaxError{Path: path, Errors: errs}
	}
	return file, nil
}

type sourceConverter struct {
	file *File
	src  []byte
}

func (c *sourceConverter) compilationUnit(cu *parser.Node) {
	if pkg := cu.FirstChildOfKind(parser.KindPackageDecl); pkg != nil {
		c.file.Package = qualifiedNameToString(pkg.FirstChildOfKind(parser.KindQualifiedName))
	}
	for _, child := range cu.Children {
		switch child.Kind {
		case parser.KindImportDecl:
			c.file.Imports = append(c.file.Imports, importFromNode(child))
		case parser.KindTypeDecl:
			c.file.Types = append(c.file.Types, c.typeDecl(child, nil))
		}
	}
}

func qualifiedNameToString(qn *parser.Node) string {
	if qn == nil {
		return ""
	}
	var parts []string
	for _, child := range qn.Children {
		if child.Kind == parser.KindIdentifier && child.Token != nil {
			parts = append(parts, child.Token.Literal)
		}
	}
	return strings.Join(parts, ".")
}

func importFromNode(node *parser.Node) Import {
	imp := Import{}
	for _, child := range node.Children {
		switch {
		case child.Kind == parser.KindQualifiedName:
			imp.Name = qualifiedNameToString(child)
		case child.TokenLiteral() == "static":
			imp.Static = true
		case child.TokenLiteral() == "*":
			imp.Wildcard = true
		}
	}
	return imp
}

var typeKinds = map[string]TypeKind{
	"class":      TypeKindClass,
	"interface":  TypeKindInterface,
	"enum":       TypeKindEnum,
	"record":     TypeKindRecord,
	"@interface": TypeKindAnnotation,
}

func (c *sourceConverter) typeDecl(node *parser.Node, enclosing *TypeDecl) *TypeDecl {
	decl := &TypeDecl{
		Package:    c.file.Package,
		Enclosing:  enclosing,
		Kind:       typeKinds[node.TokenLiteral()],
		Visibility: VisibilityPackage,
		File:       c.file,
		Pos:        node.Span.Start,
	}
	if name := node.FirstChildOfKind(parser.KindIdentifier); name != nil {
		decl.SimpleName = name.TokenLiteral()
		decl.Pos = name.Span.Start
	}

	if enclosing != nil && enclosing.IsInterface() {
		decl.Visibility = VisibilityPublic
		decl.IsStatic = true
	}
	if decl.IsInterface() {
		decl.IsAbstract = true
	}
	if enclosing != nil && decl.Kind != TypeKindClass {
		decl.IsStatic = true
	}
	if mods := node.FirstChildOfKind(parser.KindModifiers); mods != nil {
		for _, child := range mods.Children {
			if child.Kind == parser.KindAnnotation {
				decl.Annotations = append(decl.Annotations, c.annotation(child))
				continue
			}
			switch child.TokenLiteral() {
			case "public":
				decl.Visibility = VisibilityPublic
			case "protected":
				decl.Visibility = VisibilityProtected
			case "private":
				decl.Visibility = VisibilityPrivate
			case "static":
				decl.IsStatic = true
			case "final":
				decl.IsFinal = true
			case "abstract":
				decl.IsAbstract = true
			}
		}
	}

	if params := node.FirstChildOfKind(parser.KindTypeParameters); params != nil {
		decl.TypeParameters = c.typeParameters(params)
	}
	if ext := node.FirstChildOfKind(parser.KindExtendsClause); ext != nil {
		supers := c.typeList(ext)
		if decl.Kind == TypeKindClass && len(supers) > 0 {
			decl.SuperClass = &supers[0]
			supers = supers[1:]
		}
		decl.Interfaces = append(decl.Interfaces, supers...)
	}
	if impl := node.FirstChildOfKind(parser.KindImplementsClause); impl != nil {
		decl.Interfaces = append(decl.Interfaces, c.typeList(impl)...)
	}

	if body := node.FirstChildOfKind(parser.KindClassBody); body != nil {
		for _, member := range body.Children {
			switch member.Kind {
			case parser.KindMethodDecl:
				decl.Methods = append(decl.Methods, c.method(member, decl))
				c.localTypes(decl, member.FirstChildOfKind(parser.KindBody))
			case parser.KindConstructorDecl:
				decl.Constructors = append(decl.Constructors, c.constructor(member, decl))
				c.localTypes(decl, member.FirstChildOfKind(parser.KindBody))
			case parser.KindInitializer:
				c.localTypes(decl, member)
			case parser.KindTypeDecl:
				decl.NestedTypes = append(decl.NestedTypes, c.typeDecl(member, decl))
			}
		}
	}
	return decl
}

// localTypes converts the types declared in a body of decl, including
// those in blocks nested in constructor statements.
func (c *sourceConverter) localTypes(decl *TypeDecl, body *parser.Node) {
	if body == nil {
		return
	}
	for _, child := range body.Children {
		switch child.Kind {
		case parser.KindTypeDecl:
			local := c.typeDecl(child, decl)
			local.IsLocal = true
			decl.LocalTypes = append(decl.LocalTypes, local)
		case parser.KindOpaqueStmt:
			c.localTypes(decl, child)
		}
	}
}

func (c *sourceConverter) typeList(node *parser.Node) []TypeRef {
	var refs []TypeRef
	for _, child := range node.ChildrenOfKind(parser.KindType) {
		refs = append(refs, c.typeRef(child))
	}
	return refs
}

func (c *sourceConverter) typeParameters(node *parser.Node) []TypeParameter {
	var params []TypeParameter
	for _, child := range node.ChildrenOfKind(parser.KindTypeParameter) {
		tp := TypeParameter{}
		if name := child.FirstChildOfKind(parser.KindIdentifier); name != nil {
			tp.Name = name.TokenLiteral()
		}
		for _, bound := range child.ChildrenOfKind(parser.KindType) {
			tp.Bounds = append(tp.Bounds, c.typeRef(bound))
		}
		params = append(params, tp)
	}
	return params
}

// typeRef converts a Type node. For nested names such as Outer<K>.Inner<V>
// only the last segment's type arguments are kept.
func (c *sourceConverter) typeRef(node *parser.Node) TypeRef {
	ref := TypeRef{Kind: TypeDeclared}
	if node.Token != nil {
		ref.Name = node.Token.Literal
		if ref.Name == "void" {
			ref.Kind = TypeVoid
		} else {
			ref.Kind = TypePrimitive
		}
	}
	var segments []string
	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindIdentifier:
			segments = append(segments, child.TokenLiteral())
			ref.Args = nil
		case parser.KindTypeArguments:
			ref.Args = c.typeArguments(child)
		case parser.KindAnnotation:
			ref.Annotations = append(ref.Annotations, c.annotation(child))
		case parser.KindArrayDims:
			ref.ArrayDims++
		}
	}
	if len(segments) > 0 {
		ref.Name = strings.Join(segments, ".")
	}
	return ref
}

func (c *sourceConverter) typeArguments(node *parser.Node) []TypeRef {
	args := []TypeRef{}
	for _, child := range node.Children {
		switch child.Kind {
		case parser.KindType:
			args = append(args, c.typeRef(child))
		case parser.KindWildcard:
			w := Wildcard("", nil)
			if mod := child.FirstChildOfKind(parser.KindModifier); mod != nil {
				w.BoundKind = mod.TokenLiteral()
			}
			if bound := child.FirstChildOfKind(parser.KindType); bound != nil {
				b := c.typeRef(bound)
				w.Bound = &b
			}
			args = append(args, w)
		}
	}
	return args
}

func (c *sourceConverter) method(node *parser.Node, owner *TypeDecl) Method {
	m := Method{
		DeclaringType: owner.QualifiedName(),
		Visibility:    VisibilityPackage,
		HasBody:       node.HasChild(parser.KindBody),
		Pos:           node.Span.Start,
	}
	if owner.IsInterface() {
		m.Visibility = VisibilityPublic
	}
	if name := node.FirstChildOfKind(parser.KindIdentifier); name != nil {
		m.Name = name.TokenLiteral()
		m.Pos = name.Span.Start
	}
	if mods := node.FirstChildOfKind(parser.KindModifiers); mods != nil {
		for _, child := range mods.Children {
			if child.Kind == parser.KindAnnotation {
				m.Annotations = append(m.Annotations, c.annotation(child))
				continue
			}
			switch child.TokenLiteral() {
			case "public":
				m.Visibility = VisibilityPublic
			case "protected":
				m.Visibility = VisibilityProtected
			case "private":
				m.Visibility = VisibilityPrivate
			case "static":
				m.IsStatic = true
			case "final":
				m.IsFinal = true
			case "abstract":
				m.IsAbstract = true
			case "default":
				m.IsDefault = true
			}
		}
	}
	if owner.IsInterface() && !m.HasBody && !m.IsStatic && m.Visibility != VisibilityPrivate {
		m.IsAbstract = true
	}
	if params := node.FirstChildOfKind(parser.KindTypeParameters); params != nil {
		m.TypeParameters = c.typeParameters(params)
	}
	if ret := node.FirstChildOfKind(parser.KindType); ret != nil {
		m.ReturnType = c.typeRef(ret)
	}
	if params := node.FirstChildOfKind(parser.KindParameters); params != nil {
		m.Parameters = c.parameters(params)
	}
	return m
}

func (c *sourceConverter) parameters(node *parser.Node) []Parameter {
	var params []Parameter
	for _, child := range node.ChildrenOfKind(parser.KindParameter) {
		param := Parameter{}
		if typ := child.FirstChildOfKind(parser.KindType); typ != nil {
			param.Type = c.typeRef(typ)
		}
		if child.HasChild(parser.KindVarargs) {
			param.Varargs = true
			param.Type.ArrayDims++
		}
		if name := child.FirstChildOfKind(parser.KindIdentifier); name != nil {
			param.Name = name.TokenLiteral()
		}
		params = append(params, param)
	}
	return params
}

func (c *sourceConverter) constructor(node *parser.Node, owner *TypeDecl) Constructor {
	ctor := Constructor{Visibility: VisibilityPackage, Pos: node.Span.Start}
	if owner.Kind == TypeKindEnum {
		ctor.Visibility = VisibilityPrivate
	}
	if name := node.FirstChildOfKind(parser.KindIdentifier); name != nil {
		ctor.Pos = name.Span.Start
	}
	if mods := node.FirstChildOfKind(parser.KindModifiers); mods != nil {
		for _, child := range mods.ChildrenOfKind(parser.KindModifier) {
			switch child.TokenLiteral() {
			case "public":
				ctor.Visibility = VisibilityPublic
			case "protected":
				ctor.Visibility = VisibilityProtected
			case "private":
				ctor.Visibility = VisibilityPrivate
			}
		}
	}
	if params := node.FirstChildOfKind(parser.KindParameters); params != nil {
		ctor.Parameters = c.parameters(params)
	}
	if body := node.FirstChildOfKind(parser.KindBody); body != nil {
		for _, stmt := range body.Children {
			if stmt.Kind == parser.KindTypeDecl {
				continue
			}
			ctor.Body = append(ctor.Body, statementFromNode(stmt))
		}
	}
	return ctor
}

func statementFromNode(node *parser.Node) Statement {
	switch node.Kind {
	case parser.KindConstructorCall:
		stmt := Statement{Kind: StatementThis, Args: len(node.ChildrenOfKind(parser.KindArgument))}
		if node.TokenLiteral() == "super" {
			stmt.Kind = StatementSuper
		}
		return stmt
	case parser.KindCallChain:
		stmt := Statement{Kind: StatementCalls}
		for _, call := range node.ChildrenOfKind(parser.KindCall) {
			stmt.Calls = append(stmt.Calls, Call{
				Name: call.TokenLiteral(),
				Args: len(call.ChildrenOfKind(parser.KindArgument)),
			})
		}
		return stmt
	}
	return Statement{Kind: StatementOther}
}

func (c *sourceConverter) annotation(node *parser.Node) Annotation {
	a := Annotation{Name: qualifiedNameToString(node.FirstChildOfKind(parser.KindQualifiedName))}
	for _, elem := range node.ChildrenOfKind(parser.KindAnnotationElement) {
		value := ""
		if len(elem.Children) > 0 {
			value = c.elementValue(elem.Children[0])
		}
		a.Elements = append(a.Elements, AnnotationElement{Name: elem.TokenLiteral(), Value: value})
	}
	return a
}

func (c *sourceConverter) elementValue(node *parser.Node) string {
	switch node.Kind {
	case parser.KindLiteral:
		return node.TokenLiteral()
	case parser.KindQualifiedName:
		return qualifiedNameToString(node)
	case parser.KindAnnotation:
		return c.annotation(node).String()
	case parser.KindArrayValue:
		var values []string
		for _, child := range node.Children {
			values = append(values, c.elementValue(child))
		}
		return "{" + strings.Join(values, ", ") + "}"
	}
	return c.text(node.Span)
}

func (c *sourceConverter) text(span parser.Span) string {
	start, end := span.Start.Offset, span.End.Offset
	if start < 0 || end > len(c.src) || start >= end {
		return ""
	}
	return strings.TrimSpace(string(c.src[start:end]))
}
