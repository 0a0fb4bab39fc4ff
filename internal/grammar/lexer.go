// Package grammar provides the Lucene query grammar: a hand-written
// lexer and recursive-descent parser that turn raw query syntax into
// the syntax trees of the ast package.
//
// The grammar covers the boolean subset the explanation pipeline
// understands: bare terms, quoted phrases, field scopes (field:expr,
// field:(expr)), parenthesized groups, AND/OR/NOT, and implicit
// juxtaposition. Precedence, loosest to tightest:
//
//	implicit juxtaposition < OR < AND < NOT < primary
//
// so `a OR b NOT c` parses as Unknown(Or(a, b), Not(c)). Runs of the
// same explicit operator flatten into one n-ary node.
//
// The rendering pipeline consumes trees only through the ast package;
// it never depends on this package directly, so the grammar can be
// swapped or stubbed behind the explain.Grammar interface.
package grammar

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenType identifies the kind of a lexical token.
type TokenType int

const (
	TokenTerm TokenType = iota
	TokenPhrase
	TokenField
	TokenAnd
	TokenOr
	TokenNot
	TokenLParen
	TokenRParen
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenTerm:
		return "TERM"
	case TokenPhrase:
		return "PHRASE"
	case TokenField:
		return "FIELD"
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenNot:
		return "NOT"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Token is one lexical token with its starting byte offset in the input.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

func (t Token) String() string {
	if t.Value != "" {
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	}
	return t.Type.String()
}

// Lexer tokenizes a query string.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a lexer over the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize tokenizes a query string into tokens, EOF-terminated.
func Tokenize(query string) ([]Token, error) {
	return NewLexer(query).TokenizeAll()
}

// TokenizeAll returns all tokens from the input.
func (l *Lexer) TokenizeAll() ([]Token, error) {
	var tokens []Token
	for {
		token, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
		if token.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	switch c := l.input[l.pos]; c {
	case '(':
		l.pos++
		return Token{Type: TokenLParen, Pos: start}, nil
	case ')':
		l.pos++
		return Token{Type: TokenRParen, Pos: start}, nil
	case '"':
		return l.lexPhrase()
	case ':':
		return Token{}, fmt.Errorf("unexpected ':' at position %d", start)
	default:
		return l.lexTerm()
	}
}

// lexPhrase reads a quoted phrase. The returned value keeps its
// surrounding quotes; downstream rendering relies on that.
func (l *Lexer) lexPhrase() (Token, error) {
	start := l.pos
	l.pos++ // opening quote
	for l.pos < len(l.input) {
		if l.input[l.pos] == '"' {
			l.pos++
			return Token{Type: TokenPhrase, Value: l.input[start:l.pos], Pos: start}, nil
		}
		l.pos++
	}
	return Token{}, fmt.Errorf("unterminated phrase starting at position %d", start)
}

// lexTerm reads a bare term. A term immediately followed by ':' is a
// field name; the colon is consumed and excluded from the value.
// "AND"/"OR"/"NOT" and their symbol aliases become operator tokens;
// the lowercase words stay ordinary terms, matching Lucene.
func (l *Lexer) lexTerm() (Token, error) {
	start := l.pos
	for l.pos < len(l.input) && !isTermBoundary(rune(l.input[l.pos])) {
		l.pos++
	}
	value := l.input[start:l.pos]

	if l.pos < len(l.input) && l.input[l.pos] == ':' {
		l.pos++
		if value == "" {
			return Token{}, fmt.Errorf("missing field name at position %d", start)
		}
		return Token{Type: TokenField, Value: value, Pos: start}, nil
	}

	switch value {
	case "AND", "&&":
		return Token{Type: TokenAnd, Pos: start}, nil
	case "OR", "||":
		return Token{Type: TokenOr, Pos: start}, nil
	case "NOT":
		return Token{Type: TokenNot, Pos: start}, nil
	}
	return Token{Type: TokenTerm, Value: value, Pos: start}, nil
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
}

// isTermBoundary reports whether a rune terminates a bare term.
func isTermBoundary(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(`():"`, r)
}
