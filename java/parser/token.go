package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment

	TokenIdent
	TokenKeyword
	TokenNumber
	TokenString
	TokenTextBlock
	TokenChar

	// TokenPunct covers separators and operators. The lexer never merges
	// '>' with a following '>' or '=', so nested type arguments close one
	// bracket per token.
	TokenPunct
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:         "EOF",
	TokenError:       "Error",
	TokenWhitespace:  "Whitespace",
	TokenComment:     "Comment",
	TokenLineComment: "LineComment",
	TokenIdent:       "Identifier",
	TokenKeyword:     "Keyword",
	TokenNumber:      "Number",
	TokenString:      "String",
	TokenTextBlock:   "TextBlock",
	TokenChar:        "Char",
	TokenPunct:       "Punct",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

type Token struct {
	Kind    TokenKind
	Literal string
	Span    Span
}

// Is reports whether t is the keyword or punctuation lit.
func (t Token) Is(lit string) bool {
	return (t.Kind == TokenKeyword || t.Kind == TokenPunct) && t.Literal == lit
}

func (t Token) String() string {
	if t.Kind == TokenEOF {
		return "end of file"
	}
	return fmt.Sprintf("%q", t.Literal)
}

var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true,
	"class": true, "const": true, "continue": true, "default": true,
	"do": true, "double": true, "else": true, "enum": true,
	"extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true,
	"import": true, "instanceof": true, "int": true, "interface": true,
	"long": true, "native": true, "new": true, "package": true,
	"private": true, "protected": true, "public": true, "return": true,
	"short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true,
	"throws": true, "transient": true, "try": true, "void": true,
	"volatile": true, "while": true, "true": true, "false": true,
	"null": true,
}

// IsKeyword reports whether s is a reserved Java keyword or literal.
// Contextual keywords (record, sealed, permits, var, yield) are identifiers.
func IsKeyword(s string) bool {
	return keywords[s]
}

var primitives = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true,
	"int": true, "long": true, "float": true, "double": true,
}

// IsPrimitive reports whether s names a primitive type.
func IsPrimitive(s string) bool {
	return primitives[s]
}
