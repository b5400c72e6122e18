package parser

import (
	"unicode"
	"unicode/utf8"
)

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.input) {
		return 0, 0
	}
	return utf8.DecodeRune(l.input[l.pos:])
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	r, size := utf8.DecodeRune(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) NextToken() Token {
	start := l.Position()
	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()
	switch {
	case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f':
		for c := l.peek(); c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f'; c = l.peek() {
			l.advance()
		}
		return l.token(TokenWhitespace, start)
	case ch == '/' && l.peekN(1) == '/':
		for l.peek() != 0 && l.peek() != '\n' {
			l.advance()
		}
		return l.token(TokenLineComment, start)
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(start)
	case ch == '"':
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			return l.scanTextBlock(start)
		}
		return l.scanQuoted(start, '"', TokenString)
	case ch == '\'':
		return l.scanQuoted(start, '\'', TokenChar)
	case isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))):
		return l.scanNumber(start)
	}

	if r, _ := l.peekRune(); isJavaLetter(r) {
		for r, size := l.peekRune(); size > 0 && isJavaLetterOrDigit(r); r, size = l.peekRune() {
			l.advance()
		}
		tok := l.token(TokenIdent, start)
		if tok.Literal == "non" && string(l.input[l.pos:min(l.pos+7, len(l.input))]) == "-sealed" {
			l.advanceN(7)
			tok = l.token(TokenIdent, start)
		} else if IsKeyword(tok.Literal) {
			tok.Kind = TokenKeyword
		}
		return tok
	}

	return l.scanPunct(start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for l.peek() != 0 {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			return l.token(TokenComment, start)
		}
		l.advance()
	}
	tok := l.token(TokenError, start)
	tok.Literal = "unterminated comment"
	return tok
}

func (l *Lexer) scanQuoted(start Position, quote byte, kind TokenKind) Token {
	l.advance()
	for l.peek() != 0 && l.peek() != quote && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.peek() != quote {
		tok := l.token(TokenError, start)
		tok.Literal = "unterminated literal"
		return tok
	}
	l.advance()
	return l.token(kind, start)
}

func (l *Lexer) scanTextBlock(start Position) Token {
	l.advanceN(3)
	for l.peek() != 0 {
		if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			return l.token(TokenTextBlock, start)
		}
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	tok := l.token(TokenError, start)
	tok.Literal = "unterminated text block"
	return tok
}

// scanNumber accepts every Java numeric literal form loosely: digits,
// underscores, radix prefixes, fractions, exponents and type suffixes.
func (l *Lexer) scanNumber(start Position) Token {
	for {
		ch := l.peek()
		switch {
		case isDigit(ch) || isHexDigit(ch) || ch == '_' || ch == '.' ||
			ch == 'x' || ch == 'X' || ch == 'l' || ch == 'L' || ch == 'p' || ch == 'P':
			l.advance()
		case (ch == '+' || ch == '-') && isExponent(l.input[l.pos-1]):
			l.advance()
		default:
			return l.token(TokenNumber, start)
		}
	}
}

func isExponent(ch byte) bool {
	return ch == 'e' || ch == 'E' || ch == 'p' || ch == 'P'
}

var multiCharPuncts = []string{
	"...", "<<=", "->", "::", "++", "--", "&&", "||", "==", "!=", "<=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<",
}

func (l *Lexer) scanPunct(start Position) Token {
	rest := l.input[l.pos:]
	for _, p := range multiCharPuncts {
		if len(rest) >= len(p) && string(rest[:len(p)]) == p {
			l.advanceN(len(p))
			return l.token(TokenPunct, start)
		}
	}
	switch l.peek() {
	case '(', ')', '{', '}', '[', ']', ';', ',', '.', '@', '=', '>', '<',
		'!', '~', '?', ':', '+', '-', '*', '/', '&', '|', '^', '%':
		l.advance()
		return l.token(TokenPunct, start)
	}
	l.advance()
	tok := l.token(TokenError, start)
	tok.Literal = "unexpected character " + tok.Literal
	return tok
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isJavaLetter(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$'
}

func isJavaLetterOrDigit(r rune) bool {
	return isJavaLetter(r) || unicode.IsDigit(r)
}
