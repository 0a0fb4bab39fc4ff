package grammar

import (
	"fmt"
	"strings"

	"github.com/roach88/querylens/internal/ast"
)

// Parser parses tokens into a syntax tree.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a parser over the given tokens.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse tokenizes and parses a raw query into a syntax tree.
// Empty or whitespace-only input is a grammar error: there is no empty
// query tree.
func Parse(query string) (ast.Node, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query")
	}
	tokens, err := Tokenize(query)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// Parse parses the tokens into a syntax tree.
func (p *Parser) Parse() (ast.Node, error) {
	if len(p.tokens) == 0 || p.tokens[0].Type == TokenEOF {
		return nil, fmt.Errorf("empty query")
	}

	node, err := p.parseImplicit()
	if err != nil {
		return nil, err
	}

	if tok := p.current(); tok.Type != TokenEOF {
		return nil, fmt.Errorf("unexpected token %s at position %d", tok, tok.Pos)
	}
	return node, nil
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.current()
	p.pos++
	return tok
}

// parseImplicit handles juxtaposition, the loosest level: adjacent
// expressions with no operator between them collect into one
// UnknownOperation.
func (p *Parser) parseImplicit() (ast.Node, error) {
	first, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	operands := []ast.Node{first}
	for startsExpression(p.current().Type) {
		next, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}

	if len(operands) == 1 {
		return first, nil
	}
	return &ast.UnknownOperation{Children: operands}, nil
}

// parseOr handles OR, flattening runs into one n-ary OrOperation.
func (p *Parser) parseOr() (ast.Node, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	operands := []ast.Node{first}
	for p.current().Type == TokenOr {
		p.advance()
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}

	if len(operands) == 1 {
		return first, nil
	}
	return &ast.OrOperation{Children: operands}, nil
}

// parseAnd handles explicit AND, flattening runs into one n-ary
// AndOperation. Juxtaposition is not consumed here; it belongs to the
// looser implicit level.
func (p *Parser) parseAnd() (ast.Node, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	operands := []ast.Node{first}
	for p.current().Type == TokenAnd {
		p.advance()
		next, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		operands = append(operands, next)
	}

	if len(operands) == 1 {
		return first, nil
	}
	return &ast.AndOperation{Children: operands}, nil
}

// parseUnary handles prefix NOT.
func (p *Parser) parseUnary() (ast.Node, error) {
	if p.current().Type == TokenNot {
		p.advance()
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Not{Children: []ast.Node{expr}}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.current()
	switch tok.Type {
	case TokenTerm:
		p.advance()
		return &ast.Word{Value: tok.Value}, nil

	case TokenPhrase:
		p.advance()
		return &ast.Phrase{Value: tok.Value}, nil

	case TokenField:
		p.advance()
		return p.parseFieldScope(tok)

	case TokenLParen:
		p.advance()
		inner, err := p.parseImplicit()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return &ast.Group{Child: inner}, nil

	case TokenEOF:
		return nil, fmt.Errorf("unexpected end of query")

	default:
		return nil, fmt.Errorf("unexpected token %s at position %d", tok, tok.Pos)
	}
}

// parseFieldScope parses what follows "field:". A parenthesized scope
// becomes a FieldGroup so the renderer can tell field:(a OR b) apart
// from an unscoped group; a bare term or phrase attaches directly.
func (p *Parser) parseFieldScope(field Token) (ast.Node, error) {
	tok := p.current()
	switch tok.Type {
	case TokenTerm:
		p.advance()
		return &ast.SearchField{Name: field.Value, Expr: &ast.Word{Value: tok.Value}}, nil

	case TokenPhrase:
		p.advance()
		return &ast.SearchField{Name: field.Value, Expr: &ast.Phrase{Value: tok.Value}}, nil

	case TokenLParen:
		p.advance()
		inner, err := p.parseImplicit()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRParen); err != nil {
			return nil, err
		}
		return &ast.SearchField{Name: field.Value, Expr: &ast.FieldGroup{Expr: inner}}, nil

	default:
		return nil, fmt.Errorf("expected expression after field %q at position %d", field.Value, field.Pos)
	}
}

// startsExpression reports whether a token can begin an expression,
// which is what separates juxtaposition from the end of a clause.
func startsExpression(t TokenType) bool {
	switch t {
	case TokenTerm, TokenPhrase, TokenField, TokenLParen, TokenNot:
		return true
	}
	return false
}

func (p *Parser) expect(want TokenType) error {
	tok := p.current()
	if tok.Type != want {
		return fmt.Errorf("expected %s at position %d, got %s", want, tok.Pos, tok)
	}
	p.advance()
	return nil
}
