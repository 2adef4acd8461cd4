package parser

import (
	"github.com/funvibe/hxtype/internal/ast"
	"github.com/funvibe/hxtype/internal/diagnostics"
	"github.com/funvibe/hxtype/internal/pipeline"
	"github.com/funvibe/hxtype/internal/token"
)

// Parser builds type syntax trees from a token stream.
// Newlines are insignificant inside type expressions and are skipped.
type Parser struct {
	tokens []token.Token
	pos    int
	ctx    *pipeline.PipelineContext

	curToken  token.Token
	peekToken token.Token
}

func New(tokens []token.Token, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{tokens: tokens, ctx: ctx}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.read()
}

func (p *Parser) read() token.Token {
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++
		if tok.Type != token.NEWLINE {
			return tok
		}
	}
	if n := len(p.tokens); n > 0 && p.tokens[n-1].Type == token.EOF {
		return p.tokens[n-1]
	}
	return token.Token{Type: token.EOF}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.addError(diagnostics.NewError(diagnostics.ErrP002, p.peekToken,
		"expected %s, got %s", describe(t), describeToken(p.peekToken)))
}

func (p *Parser) unexpected(tok token.Token) {
	p.addError(diagnostics.NewError(diagnostics.ErrP001, tok, "unexpected %s", describeToken(tok)))
}

func (p *Parser) addError(err *diagnostics.DiagnosticError) {
	if p.ctx != nil {
		p.ctx.AddError(err)
	}
}

// skipTo advances until the peek token is one of types (or EOF).
func (p *Parser) skipTo(types ...token.TokenType) {
	for !p.peekTokenIs(token.EOF) {
		for _, t := range types {
			if p.peekTokenIs(t) {
				return
			}
		}
		p.nextToken()
	}
}

// ParseType parses a complete type expression. Input left over after the
// type is reported as an error; the parsed prefix is still returned.
func (p *Parser) ParseType() ast.TypeNode {
	if p.curTokenIs(token.EOF) {
		p.addError(diagnostics.NewError(diagnostics.ErrP002, p.curToken, "expected a type, got end of input"))
		return nil
	}
	t := p.parseType()
	if t != nil && !p.peekTokenIs(token.EOF) {
		p.addError(diagnostics.NewError(diagnostics.ErrP003, p.peekToken,
			"unexpected %s after type", describeToken(p.peekToken)))
	}
	return t
}

// ParseFunctionType parses a type expression that must be a function type.
func (p *Parser) ParseFunctionType() *ast.FunctionType {
	start := p.curToken
	t := p.ParseType()
	if t == nil {
		return nil
	}
	fn, ok := t.(*ast.FunctionType)
	if !ok {
		p.addError(diagnostics.NewError(diagnostics.ErrP001, start, "%s is not a function type", t.String()))
		return nil
	}
	return fn
}

func describe(t token.TokenType) string {
	if t == token.EOF {
		return "end of input"
	}
	return "'" + string(t) + "'"
}

func describeToken(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT:
		return "identifier '" + tok.Lexeme + "'"
	}
	return "'" + tok.Lexeme + "'"
}
