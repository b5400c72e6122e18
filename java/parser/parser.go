package parser

import (
	"fmt"
	"io"
	"sort"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// Parser reads Java compilation units at declaration level. Method bodies
// are skipped except for the local types they declare; constructor bodies
// are reduced to the statement shapes described in node.go.
type Parser struct {
	file   string
	reader io.Reader
	input  []byte
	tokens []Token
	pos    int
	errors []Error
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	p := &Parser{reader: r}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) File() string {
	return p.file
}

// Errors returns the syntax errors found by Finish, in source order.
func (p *Parser) Errors() []Error {
	return p.errors
}

// Finish parses the whole input. It returns nil when the input cannot be
// read or is empty; syntax errors are reported through Errors.
func (p *Parser) Finish() *Node {
	if p.input == nil {
		data, err := io.ReadAll(p.reader)
		if err != nil {
			p.errors = append(p.errors, Error{Message: fmt.Sprintf("read: %v", err), Pos: Position{File: p.file}})
			return nil
		}
		p.input = data
	}
	if len(p.input) == 0 {
		return nil
	}
	p.tokens = nil
	p.pos = 0
	p.errors = nil
	p.tokenize()
	cu := p.parseCompilationUnit()
	sort.SliceStable(p.errors, func(i, j int) bool {
		return p.errors[i].Pos.Offset < p.errors[j].Pos.Offset
	})
	return cu
}

func (p *Parser) tokenize() {
	lexer := NewLexer(p.input, p.file)
	for {
		tok := lexer.NextToken()
		switch tok.Kind {
		case TokenWhitespace, TokenComment, TokenLineComment:
			continue
		case TokenError:
			p.errors = append(p.errors, Error{Message: tok.Literal, Pos: tok.Span.Start})
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			return
		}
	}
}

func (p *Parser) peek() Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		if len(p.tokens) > 0 {
			return p.tokens[len(p.tokens)-1]
		}
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) && tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) at(lit string) bool {
	return p.peek().Is(lit)
}

func (p *Parser) atEOF() bool {
	return p.peek().Kind == TokenEOF
}

func (p *Parser) atIdent() bool {
	return p.peek().Kind == TokenIdent
}

func (p *Parser) accept(lit string) bool {
	if p.at(lit) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(lit string) bool {
	if p.accept(lit) {
		return true
	}
	p.errorf("expected %q, found %s", lit, p.peek())
	return false
}

func (p *Parser) expectIdent() *Token {
	if p.atIdent() {
		tok := p.advance()
		return &tok
	}
	p.errorf("expected identifier, found %s", p.peek())
	return nil
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, Error{
		Message: fmt.Sprintf(format, args...),
		Pos:     p.peek().Span.Start,
	})
}

// mustProgress returns a function that reports whether the parser advanced
// since it was created, forcing one token of progress when it did not.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			p.advance()
			return false
		}
		return true
	}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		n.Span.End = p.tokens[p.pos-1].Span.End
	}
	return n
}

func (p *Parser) tokenNode(kind NodeKind) *Node {
	tok := p.advance()
	return &Node{Kind: kind, Span: tok.Span, Token: &tok}
}

func (p *Parser) identNode(tok *Token) *Node {
	if tok == nil {
		return nil
	}
	return &Node{Kind: KindIdentifier, Span: tok.Span, Token: tok}
}

func (p *Parser) parseCompilationUnit() *Node {
	cu := p.startNode(KindCompilationUnit)

	saved := p.pos
	mods := p.parseModifiers()
	if p.at("package") {
		pkg := p.startNode(KindPackageDecl)
		pkg.Children = append(pkg.Children, mods.Children...)
		p.advance()
		pkg.AddChild(p.parseQualifiedName())
		p.expect(";")
		cu.AddChild(p.finishNode(pkg))
	} else {
		p.pos = saved
	}

	for p.at("import") {
		cu.AddChild(p.parseImport())
	}

	for !p.atEOF() {
		if p.accept(";") {
			continue
		}
		progress := p.mustProgress()
		mods := p.parseModifiers()
		if decl := p.parseTypeDecl(mods); decl != nil {
			cu.AddChild(decl)
		} else {
			p.errorf("expected type declaration, found %s", p.peek())
			p.recoverMember()
		}
		progress()
	}
	return p.finishNode(cu)
}

func (p *Parser) parseImport() *Node {
	n := p.startNode(KindImportDecl)
	p.advance()
	if p.at("static") {
		n.AddChild(p.tokenNode(KindIdentifier))
	}
	qn := p.startNode(KindQualifiedName)
	qn.AddChild(p.identNode(p.expectIdent()))
	var star *Node
	for p.at(".") {
		p.advance()
		if p.at("*") {
			star = p.tokenNode(KindIdentifier)
			break
		}
		qn.AddChild(p.identNode(p.expectIdent()))
	}
	n.AddChild(p.finishNode(qn))
	n.AddChild(star)
	p.expect(";")
	return p.finishNode(n)
}

func (p *Parser) parseQualifiedName() *Node {
	qn := p.startNode(KindQualifiedName)
	qn.AddChild(p.identNode(p.expectIdent()))
	for p.at(".") && p.peekN(1).Kind == TokenIdent {
		p.advance()
		qn.AddChild(p.identNode(p.expectIdent()))
	}
	return p.finishNode(qn)
}

var modifierKeywords = map[string]bool{
	"public": true, "protected": true, "private": true, "static": true,
	"final": true, "abstract": true, "native": true, "synchronized": true,
	"transient": true, "volatile": true, "strictfp": true, "default": true,
}

func (p *Parser) parseModifiers() *Node {
	mods := p.startNode(KindModifiers)
	for {
		tok := p.peek()
		switch {
		case tok.Is("@") && !p.peekN(1).Is("interface"):
			mods.AddChild(p.parseAnnotation())
		case tok.Kind == TokenKeyword && modifierKeywords[tok.Literal]:
			if tok.Literal == "default" && p.peekN(1).Is(":") {
				return p.finishNode(mods)
			}
			mods.AddChild(p.tokenNode(KindModifier))
		case tok.Kind == TokenIdent && (tok.Literal == "sealed" || tok.Literal == "non-sealed"):
			next := p.peekN(1)
			if next.Kind != TokenKeyword && next.Kind != TokenIdent {
				return p.finishNode(mods)
			}
			mods.AddChild(p.tokenNode(KindModifier))
		default:
			return p.finishNode(mods)
		}
	}
}

func (p *Parser) parseAnnotation() *Node {
	n := p.startNode(KindAnnotation)
	p.advance()
	n.AddChild(p.parseQualifiedName())
	if p.accept("(") {
		if !p.at(")") {
			if p.atIdent() && p.peekN(1).Is("=") {
				for {
					elem := p.startNode(KindAnnotationElement)
					name := p.expectIdent()
					elem.Token = name
					p.expect("=")
					elem.AddChild(p.parseElementValue())
					n.AddChild(p.finishNode(elem))
					if !p.accept(",") {
						break
					}
				}
			} else {
				elem := p.startNode(KindAnnotationElement)
				elem.Token = &Token{Kind: TokenIdent, Literal: "value", Span: p.peek().Span}
				elem.AddChild(p.parseElementValue())
				n.AddChild(p.finishNode(elem))
			}
		}
		p.expect(")")
	}
	return p.finishNode(n)
}

func (p *Parser) parseElementValue() *Node {
	if p.at("@") {
		return p.parseAnnotation()
	}
	if p.at("{") {
		arr := p.startNode(KindArrayValue)
		p.advance()
		for !p.at("}") && !p.atEOF() {
			progress := p.mustProgress()
			arr.AddChild(p.parseElementValue())
			if !p.accept(",") {
				progress()
				break
			}
			progress()
		}
		p.expect("}")
		return p.finishNode(arr)
	}

	start := p.pos
	tok := p.peek()
	var n *Node
	switch {
	case tok.Kind == TokenString || tok.Kind == TokenNumber || tok.Kind == TokenChar ||
		tok.Kind == TokenTextBlock || tok.Is("true") || tok.Is("false") || tok.Is("null"):
		n = p.tokenNode(KindLiteral)
	case tok.Kind == TokenIdent:
		n = p.startNode(KindQualifiedName)
		n.AddChild(p.tokenNode(KindIdentifier))
		for p.at(".") && (p.peekN(1).Kind == TokenIdent || p.peekN(1).Is("class")) {
			p.advance()
			n.AddChild(p.tokenNode(KindIdentifier))
		}
		p.finishNode(n)
	}
	if n != nil && p.atElementValueEnd() {
		return n
	}
	p.pos = start
	opaque := p.startNode(KindOpaqueExpr)
	opaque.Token = &tok
	p.skipExpression(",", ")", "}")
	return p.finishNode(opaque)
}

func (p *Parser) atElementValueEnd() bool {
	return p.at(",") || p.at(")") || p.at("}")
}

// parseTypeDecl parses a type declaration whose modifiers have already
// been consumed. It returns nil without consuming anything when the next
// tokens do not start a type declaration.
func (p *Parser) parseTypeDecl(mods *Node) *Node {
	tok := p.peek()
	var keyword Token
	switch {
	case tok.Is("class"), tok.Is("interface"), tok.Is("enum"):
		keyword = p.advance()
	case tok.Is("@") && p.peekN(1).Is("interface"):
		at := p.advance()
		p.advance()
		keyword = Token{Kind: TokenKeyword, Literal: "@interface", Span: Span{Start: at.Span.Start, End: p.tokens[p.pos-1].Span.End}}
	case tok.Kind == TokenIdent && tok.Literal == "record" && p.peekN(1).Kind == TokenIdent:
		keyword = p.advance()
	default:
		return nil
	}

	n := &Node{Kind: KindTypeDecl, Span: Span{Start: mods.Span.Start}, Token: &keyword}
	if len(mods.Children) == 0 {
		n.Span.Start = keyword.Span.Start
	}
	n.AddChild(mods)
	name := p.expectIdent()
	n.AddChild(p.identNode(name))
	if p.at("<") {
		n.AddChild(p.parseTypeParameters())
	}
	if keyword.Literal == "record" && p.at("(") {
		comps := p.parseParameters()
		comps.Kind = KindRecordComponents
		n.AddChild(comps)
	}
	if p.at("extends") {
		n.AddChild(p.parseTypeList(KindExtendsClause))
	}
	if p.at("implements") {
		n.AddChild(p.parseTypeList(KindImplementsClause))
	}
	if p.atIdent() && p.peek().Literal == "permits" {
		n.AddChild(p.parseTypeList(KindPermitsClause))
	}

	typeName := ""
	if name != nil {
		typeName = name.Literal
	}
	n.AddChild(p.parseClassBody(typeName, keyword.Literal == "enum"))
	return p.finishNode(n)
}

func (p *Parser) parseTypeList(kind NodeKind) *Node {
	n := p.startNode(kind)
	p.advance()
	for {
		typ := p.parseType()
		if typ == nil {
			p.errorf("expected type, found %s", p.peek())
			break
		}
		n.AddChild(typ)
		if !p.accept(",") {
			break
		}
	}
	return p.finishNode(n)
}

func (p *Parser) parseClassBody(typeName string, isEnum bool) *Node {
	body := p.startNode(KindClassBody)
	if !p.expect("{") {
		p.recoverMember()
		return p.finishNode(body)
	}
	if isEnum {
		p.parseEnumConstants(body)
	}
	for !p.at("}") && !p.atEOF() {
		progress := p.mustProgress()
		body.AddChild(p.parseMember(typeName))
		progress()
	}
	p.expect("}")
	return p.finishNode(body)
}

func (p *Parser) parseEnumConstants(body *Node) {
	for !p.atEOF() {
		if p.accept(";") || p.at("}") {
			return
		}
		progress := p.mustProgress()
		c := p.startNode(KindEnumConstant)
		c.AddChild(p.parseModifiers())
		c.Token = p.expectIdent()
		if p.at("(") {
			p.skipBalanced()
		}
		if p.at("{") {
			p.skipBalanced()
		}
		body.AddChild(p.finishNode(c))
		if !p.accept(",") {
			if !p.at("}") {
				p.expect(";")
			}
			return
		}
		if !progress() {
			return
		}
	}
}

func (p *Parser) parseMember(typeName string) *Node {
	if p.accept(";") {
		return nil
	}
	if p.at("{") || (p.at("static") && p.peekN(1).Is("{")) {
		n := p.startNode(KindInitializer)
		if p.at("static") {
			n.AddChild(p.tokenNode(KindModifier))
		}
		p.skipBody(n)
		return p.finishNode(n)
	}

	mods := p.parseModifiers()
	if decl := p.parseTypeDecl(mods); decl != nil {
		return decl
	}

	var typeParams *Node
	if p.at("<") {
		typeParams = p.parseTypeParameters()
	}

	if p.atIdent() && p.peek().Literal == typeName {
		switch {
		case p.peekN(1).Is("("):
			return p.parseConstructor(mods, typeParams)
		case p.peekN(1).Is("{"):
			// compact canonical record constructor
			n := &Node{Kind: KindInitializer, Span: Span{Start: p.peek().Span.Start}}
			p.advance()
			p.skipBalanced()
			return p.finishNode(n)
		}
	}

	typ := p.parseType()
	if typ == nil {
		p.errorf("expected member declaration, found %s", p.peek())
		p.recoverMember()
		return nil
	}
	name := p.expectIdent()
	if name == nil {
		p.recoverMember()
		return nil
	}
	if p.at("(") {
		return p.parseMethod(mods, typeParams, typ, name)
	}
	return p.parseField(mods, typ, name)
}

func (p *Parser) parseConstructor(mods, typeParams *Node) *Node {
	n := &Node{Kind: KindConstructorDecl, Span: Span{Start: mods.Span.Start}}
	n.AddChild(mods)
	n.AddChild(typeParams)
	n.AddChild(p.identNode(p.expectIdent()))
	n.AddChild(p.parseParameters())
	if p.at("throws") {
		n.AddChild(p.parseTypeList(KindThrowsList))
	}
	n.AddChild(p.parseConstructorBody())
	return p.finishNode(n)
}

func (p *Parser) parseMethod(mods, typeParams, returnType *Node, name *Token) *Node {
	n := &Node{Kind: KindMethodDecl, Span: Span{Start: mods.Span.Start}}
	if len(mods.Children) == 0 {
		n.Span.Start = returnType.Span.Start
	}
	n.AddChild(mods)
	n.AddChild(typeParams)
	n.AddChild(returnType)
	n.AddChild(p.identNode(name))
	n.AddChild(p.parseParameters())
	for p.at("[") && p.peekN(1).Is("]") {
		dims := p.startNode(KindArrayDims)
		p.advance()
		p.advance()
		returnType.AddChild(p.finishNode(dims))
	}
	if p.at("throws") {
		n.AddChild(p.parseTypeList(KindThrowsList))
	}
	if p.accept("default") {
		p.skipExpression(";")
	}
	if p.at("{") {
		body := p.startNode(KindBody)
		p.skipBody(body)
		n.AddChild(p.finishNode(body))
	} else {
		p.expect(";")
	}
	return p.finishNode(n)
}

func (p *Parser) parseField(mods, typ *Node, name *Token) *Node {
	n := &Node{Kind: KindFieldDecl, Span: Span{Start: mods.Span.Start}}
	n.AddChild(mods)
	n.AddChild(typ)
	for {
		n.AddChild(p.identNode(name))
		for p.at("[") && p.peekN(1).Is("]") {
			p.advance()
			p.advance()
		}
		if p.accept("=") {
			p.skipExpression(",", ";")
		}
		if !p.accept(",") {
			break
		}
		if name = p.expectIdent(); name == nil {
			break
		}
	}
	if !p.expect(";") {
		p.recoverMember()
	}
	return p.finishNode(n)
}

func (p *Parser) parseParameters() *Node {
	params := p.startNode(KindParameters)
	if !p.expect("(") {
		return p.finishNode(params)
	}
	for !p.at(")") && !p.atEOF() {
		progress := p.mustProgress()
		param := p.startNode(KindParameter)
		param.AddChild(p.parseModifiers())
		typ := p.parseType()
		if typ == nil {
			p.errorf("expected parameter type, found %s", p.peek())
			p.skipExpression(",", ")")
		} else {
			param.AddChild(typ)
			for p.at("@") {
				typ.AddChild(p.parseAnnotation())
			}
			if p.at("...") {
				param.AddChild(p.tokenNode(KindVarargs))
			}
			if p.at("this") {
				// receiver parameter
				p.advance()
				param = nil
			} else {
				param.AddChild(p.identNode(p.expectIdent()))
				for p.at("[") && p.peekN(1).Is("]") {
					dims := p.startNode(KindArrayDims)
					p.advance()
					p.advance()
					typ.AddChild(p.finishNode(dims))
				}
			}
		}
		if param != nil {
			params.AddChild(p.finishNode(param))
		}
		if !p.accept(",") {
			progress()
			break
		}
		progress()
	}
	p.expect(")")
	return p.finishNode(params)
}

func (p *Parser) parseTypeParameters() *Node {
	n := p.startNode(KindTypeParameters)
	p.advance()
	for !p.at(">") && !p.atEOF() {
		progress := p.mustProgress()
		tp := p.startNode(KindTypeParameter)
		for p.at("@") {
			p.parseAnnotation()
		}
		tp.AddChild(p.identNode(p.expectIdent()))
		if p.accept("extends") {
			for {
				bound := p.parseType()
				if bound == nil {
					p.errorf("expected type bound, found %s", p.peek())
					break
				}
				tp.AddChild(bound)
				if !p.accept("&") {
					break
				}
			}
		}
		n.AddChild(p.finishNode(tp))
		if !p.accept(",") {
			progress()
			break
		}
		progress()
	}
	p.expect(">")
	return p.finishNode(n)
}

// parseType parses a type, including void. The node carries the keyword
// token for primitives and void; class types are a sequence of Identifier
// children, each optionally followed by TypeArguments.
func (p *Parser) parseType() *Node {
	n := p.startNode(KindType)
	for p.at("@") && !p.peekN(1).Is("interface") {
		n.AddChild(p.parseAnnotation())
	}
	tok := p.peek()
	switch {
	case tok.Kind == TokenKeyword && (IsPrimitive(tok.Literal) || tok.Literal == "void"):
		t := p.advance()
		n.Token = &t
	case tok.Kind == TokenIdent:
		for {
			n.AddChild(p.tokenNode(KindIdentifier))
			if p.at("<") {
				n.AddChild(p.parseTypeArguments())
			}
			if !p.at(".") {
				break
			}
			next := p.peekN(1)
			if next.Kind != TokenIdent && !next.Is("@") {
				break
			}
			p.advance()
			for p.at("@") {
				n.AddChild(p.parseAnnotation())
			}
			if !p.atIdent() {
				break
			}
		}
	default:
		if len(n.Children) > 0 {
			p.errorf("expected type after annotation, found %s", tok)
		}
		return nil
	}
	for p.at("[") && p.peekN(1).Is("]") {
		dims := p.startNode(KindArrayDims)
		p.advance()
		p.advance()
		n.AddChild(p.finishNode(dims))
	}
	return p.finishNode(n)
}

func (p *Parser) parseTypeArguments() *Node {
	n := p.startNode(KindTypeArguments)
	p.advance()
	for !p.at(">") && !p.atEOF() {
		progress := p.mustProgress()
		saved := p.pos
		for p.at("@") {
			p.parseAnnotation()
		}
		if p.at("?") {
			w := p.startNode(KindWildcard)
			q := p.advance()
			w.Token = &q
			if p.at("extends") || p.at("super") {
				w.AddChild(p.tokenNode(KindModifier))
				if bound := p.parseType(); bound != nil {
					w.AddChild(bound)
				} else {
					p.errorf("expected wildcard bound, found %s", p.peek())
				}
			}
			n.AddChild(p.finishNode(w))
		} else {
			p.pos = saved
			typ := p.parseType()
			if typ == nil {
				p.errorf("expected type argument, found %s", p.peek())
				progress()
				break
			}
			n.AddChild(typ)
		}
		if !p.accept(",") {
			progress()
			break
		}
		progress()
	}
	p.expect(">")
	return p.finishNode(n)
}

func (p *Parser) parseConstructorBody() *Node {
	body := p.startNode(KindBody)
	if !p.expect("{") {
		return p.finishNode(body)
	}
	for !p.at("}") && !p.atEOF() {
		progress := p.mustProgress()
		body.AddChild(p.parseStatement())
		progress()
	}
	p.expect("}")
	return p.finishNode(body)
}

func (p *Parser) parseStatement() *Node {
	if decl := p.tryLocalTypeDecl(); decl != nil {
		return decl
	}
	if (p.at("this") || p.at("super")) && p.peekN(1).Is("(") {
		saved := p.pos
		n := p.startNode(KindConstructorCall)
		tok := p.advance()
		n.Token = &tok
		p.parseArguments(n)
		if p.accept(";") {
			return p.finishNode(n)
		}
		p.pos = saved
	}
	if chain := p.tryCallChain(); chain != nil {
		return chain
	}
	return p.skipStatement()
}

// tryCallChain matches `[this.]m(..){.m(..)};` and rewinds when the
// statement has any other shape.
func (p *Parser) tryCallChain() *Node {
	saved := p.pos
	chain := p.startNode(KindCallChain)
	if p.at("this") && p.peekN(1).Is(".") {
		chain.AddChild(p.tokenNode(KindThis))
		p.advance()
	}
	for {
		if !p.atIdent() || !p.peekN(1).Is("(") {
			p.pos = saved
			return nil
		}
		call := p.startNode(KindCall)
		tok := p.advance()
		call.Token = &tok
		p.parseArguments(call)
		chain.AddChild(p.finishNode(call))
		if p.accept(";") {
			return p.finishNode(chain)
		}
		if !p.accept(".") {
			p.pos = saved
			return nil
		}
	}
}

func (p *Parser) parseArguments(call *Node) {
	p.advance()
	for !p.at(")") && !p.atEOF() {
		progress := p.mustProgress()
		arg := p.startNode(KindArgument)
		p.skipExpression(",", ")")
		call.AddChild(p.finishNode(arg))
		if !p.accept(",") {
			progress()
			break
		}
		progress()
	}
	p.expect(")")
}

var blockStatementKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "do": true, "try": true,
	"switch": true, "synchronized": true, "class": true,
}

var continuationKeywords = map[string]bool{
	"else": true, "catch": true, "finally": true, "while": true,
}

func (p *Parser) skipStatement() *Node {
	n := p.startNode(KindOpaqueStmt)
	first := p.peek()
	n.Token = &first
	compound := first.Is("{") || (first.Kind == TokenKeyword && blockStatementKeywords[first.Literal])
	depth := 0
	for !p.atEOF() {
		tok := p.peek()
		switch {
		case tok.Is("(") || tok.Is("["):
			depth++
		case tok.Is(")") || tok.Is("]"):
			depth--
		case tok.Is("{") && depth == 0:
			p.skipBody(n)
			if compound && !p.atContinuation() {
				return p.finishNode(n)
			}
			continue
		case tok.Is("{"):
			p.skipBody(n)
			continue
		case tok.Is("}") && depth <= 0:
			return p.finishNode(n)
		case tok.Is(";") && depth <= 0:
			p.advance()
			if compound && p.atContinuation() {
				continue
			}
			return p.finishNode(n)
		}
		p.advance()
	}
	return p.finishNode(n)
}

func (p *Parser) atContinuation() bool {
	tok := p.peek()
	return tok.Kind == TokenKeyword && continuationKeywords[tok.Literal]
}

// skipBody consumes a brace-delimited body like skipBalanced, adding the
// local type declarations found in it to n.
func (p *Parser) skipBody(n *Node) {
	depth := 0
	for !p.atEOF() {
		if depth > 0 {
			if decl := p.tryLocalTypeDecl(); decl != nil {
				n.AddChild(decl)
				continue
			}
		}
		tok := p.advance()
		switch {
		case tok.Is("(") || tok.Is("[") || tok.Is("{"):
			depth++
		case tok.Is(")") || tok.Is("]") || tok.Is("}"):
			depth--
		}
		if depth <= 0 {
			return
		}
	}
	p.errorf("unbalanced brackets at end of file")
}

var localTypeStarts = map[string]bool{
	"@": true, "class": true, "interface": true, "enum": true,
	"abstract": true, "final": true, "static": true, "strictfp": true,
}

// tryLocalTypeDecl parses a type declared inside a block. It rewinds,
// dropping any errors, when the tokens turn out to be something else,
// such as an annotated local variable or a class literal.
func (p *Parser) tryLocalTypeDecl() *Node {
	tok := p.peek()
	record := tok.Kind == TokenIdent && tok.Literal == "record"
	if !record && !((tok.Kind == TokenKeyword || tok.Kind == TokenPunct) && localTypeStarts[tok.Literal]) {
		return nil
	}
	if p.pos > 0 && p.tokens[p.pos-1].Is(".") {
		return nil
	}
	saved, errs := p.pos, len(p.errors)
	if decl := p.parseTypeDecl(p.parseModifiers()); decl != nil {
		return decl
	}
	p.pos, p.errors = saved, p.errors[:errs]
	return nil
}

// skipBalanced consumes a bracketed group starting at the current token.
func (p *Parser) skipBalanced() {
	depth := 0
	for !p.atEOF() {
		tok := p.advance()
		switch {
		case tok.Is("(") || tok.Is("[") || tok.Is("{"):
			depth++
		case tok.Is(")") || tok.Is("]") || tok.Is("}"):
			depth--
		}
		if depth <= 0 {
			return
		}
	}
	p.errorf("unbalanced brackets at end of file")
}

// skipExpression consumes tokens up to, but excluding, one of stops at
// bracket depth zero. Angle brackets that look like type arguments suppress
// comma stops so `new HashMap<K, V>()` is skipped whole.
func (p *Parser) skipExpression(stops ...string) {
	depth, angles := 0, 0
	for !p.atEOF() {
		tok := p.peek()
		if depth == 0 {
			for _, stop := range stops {
				if tok.Is(stop) && (stop != "," || angles == 0) {
					return
				}
			}
		}
		switch {
		case tok.Is("(") || tok.Is("[") || tok.Is("{"):
			depth++
		case tok.Is(")") || tok.Is("]") || tok.Is("}"):
			if depth == 0 {
				return
			}
			depth--
		case tok.Is("<") && p.pos > 0 && p.tokens[p.pos-1].Kind == TokenIdent:
			next := p.peekN(1)
			if next.Kind == TokenIdent || next.Is("?") || next.Is(">") || next.Is("@") {
				angles++
			}
		case tok.Is(">") && angles > 0:
			angles--
		}
		p.advance()
	}
}

// recoverMember skips to the end of a malformed member, stopping before
// anything that can start the next one.
func (p *Parser) recoverMember() {
	for !p.atEOF() {
		tok := p.peek()
		switch {
		case tok.Is("}"), tok.Is("@"):
			return
		case tok.Kind == TokenKeyword && modifierKeywords[tok.Literal] && tok.Literal != "default":
			return
		case tok.Is(";"):
			p.advance()
			return
		case tok.Is("{"):
			p.skipBalanced()
			return
		}
		p.advance()
	}
}
