package parser

import (
	"github.com/funvibe/hxtype/internal/ast"
	"github.com/funvibe/hxtype/internal/config"
	"github.com/funvibe/hxtype/internal/token"
)

// chainOperand is one element of an old-style Int -> ?String -> Void chain.
type chainOperand struct {
	tok      token.Token
	optional *token.Token
	node     ast.TypeNode
}

// parseType parses one type starting at curToken and leaves curToken on its last token.
func (p *Parser) parseType() ast.TypeNode {
	if p.curTokenIs(token.LPAREN) {
		return p.parseParenthesized()
	}
	return p.parseChain()
}

// parseParenthesized handles both the argument list of a new-style function
// type, (a:Int, ?b:String) -> Void, and plain grouping, (Int -> Void).
func (p *Parser) parseParenthesized() ast.TypeNode {
	start := p.curToken
	args := p.parseArgumentList()

	if p.peekTokenIs(token.ARROW) {
		p.nextToken() // consume ')', cur is '->'
		ret := p.parseReturnType()
		return &ast.FunctionType{Token: start, Arguments: args, ReturnType: ret}
	}

	if len(args) == 1 && args[0].Name == nil && args[0].OptionalMark == nil {
		return slotNode(args[0].TypeOrAnonymous, args[0].FunctionType)
	}
	p.addError(diagnosticExpectedArrow(p.peekToken))
	return nil
}

// parseArgumentList parses '(' [argument {',' argument}] ')' and leaves curToken on ')'.
func (p *Parser) parseArgumentList() []*ast.FunctionArgument {
	args := []*ast.FunctionArgument{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}

	for {
		p.nextToken() // move to the first token of the argument
		args = append(args, p.parseArgument())

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
			return args
		}
		p.peekError(token.RPAREN)
		p.skipTo(token.COMMA, token.RPAREN)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if p.peekTokenIs(token.RPAREN) {
			p.nextToken()
		}
		return args
	}
}

// parseArgument parses [?][name:]type. A failed type leaves both slots nil.
func (p *Parser) parseArgument() *ast.FunctionArgument {
	arg := &ast.FunctionArgument{Token: p.curToken}

	if p.curTokenIs(token.QUESTION) {
		mark := p.curToken
		arg.OptionalMark = &mark
		p.nextToken()
	}

	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
		arg.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		p.nextToken() // ':'
		if p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.RPAREN) {
			p.unexpected(p.peekToken)
			return arg
		}
		p.nextToken()
	}

	t := p.parseType()
	if t == nil {
		p.skipTo(token.COMMA, token.RPAREN)
		return arg
	}
	arg.TypeOrAnonymous, arg.FunctionType = splitSlot(t)
	return arg
}

// parseReturnType parses the type after '->' (curToken). A missing or broken
// return type yields a return slot with both fields nil.
func (p *Parser) parseReturnType() *ast.FunctionReturnType {
	ret := &ast.FunctionReturnType{Token: p.peekToken}
	if p.peekTokenIs(token.EOF) || p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.RPAREN) || p.peekTokenIs(token.GT) {
		p.unexpected(p.peekToken)
		return ret
	}
	p.nextToken()
	if t := p.parseType(); t != nil {
		ret.TypeOrAnonymous, ret.FunctionType = splitSlot(t)
	}
	return ret
}

// parseChain parses a single operand or a right-associative old-style chain.
// Void -> R has no arguments.
func (p *Parser) parseChain() ast.TypeNode {
	first, ok := p.parseChainOperand()
	if !ok {
		return nil
	}
	if !p.peekTokenIs(token.ARROW) {
		if first.optional != nil {
			p.addError(diagnosticExpectedArrow(p.peekToken))
			return nil
		}
		return first.node
	}

	operands := []chainOperand{first}
	for p.peekTokenIs(token.ARROW) {
		p.nextToken() // cur is '->'
		if p.peekTokenIs(token.EOF) || p.peekTokenIs(token.COMMA) || p.peekTokenIs(token.RPAREN) || p.peekTokenIs(token.GT) {
			p.unexpected(p.peekToken)
			operands = append(operands, chainOperand{tok: p.peekToken})
			break
		}
		p.nextToken()
		next, ok := p.parseChainOperand()
		if !ok {
			operands = append(operands, chainOperand{tok: p.curToken})
			break
		}
		operands = append(operands, next)
	}

	last := operands[len(operands)-1]
	if last.optional != nil {
		p.unexpected(*last.optional)
	}
	ret := &ast.FunctionReturnType{Token: last.tok}
	if last.node != nil {
		ret.TypeOrAnonymous, ret.FunctionType = splitSlot(last.node)
	}

	params := operands[:len(operands)-1]
	if len(params) == 1 && params[0].optional == nil && isVoid(params[0].node) {
		params = nil
	}

	args := make([]*ast.FunctionArgument, len(params))
	for i, op := range params {
		arg := &ast.FunctionArgument{Token: op.tok, OptionalMark: op.optional}
		arg.TypeOrAnonymous, arg.FunctionType = splitSlot(op.node)
		args[i] = arg
	}
	return &ast.FunctionType{Token: first.tok, Arguments: args, ReturnType: ret}
}

func (p *Parser) parseChainOperand() (chainOperand, bool) {
	op := chainOperand{tok: p.curToken}
	if p.curTokenIs(token.QUESTION) {
		mark := p.curToken
		op.optional = &mark
		p.nextToken()
	}

	if p.curTokenIs(token.LPAREN) {
		// Inside a chain, parentheses only group.
		args := p.parseArgumentList()
		if len(args) != 1 || args[0].Name != nil || args[0].OptionalMark != nil {
			p.addError(diagnosticExpectedArrow(p.peekToken))
			return op, false
		}
		op.node = slotNode(args[0].TypeOrAnonymous, args[0].FunctionType)
		return op, op.node != nil
	}

	toa := p.parseTypeOrAnonymous()
	if toa == nil {
		return op, false
	}
	op.node = toa
	return op, true
}

// parseTypeOrAnonymous parses a named type or an anonymous structure.
func (p *Parser) parseTypeOrAnonymous() *ast.TypeOrAnonymous {
	start := p.curToken
	switch {
	case p.curTokenIs(token.LBRACE):
		anon := p.parseAnonymousType()
		if anon == nil {
			return nil
		}
		return &ast.TypeOrAnonymous{Token: start, Anonymous: anon}
	case p.curTokenIs(token.IDENT):
		ref := p.parseTypeReference()
		if ref == nil {
			return nil
		}
		return &ast.TypeOrAnonymous{Token: start, Type: ref}
	}
	p.unexpected(p.curToken)
	return nil
}

func (p *Parser) parseTypeReference() *ast.TypeReference {
	ref := &ast.TypeReference{Token: p.curToken, Name: p.curToken.Lexeme}

	// Qualified names: haxe.ds.StringMap
	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		ref.Name += "." + p.curToken.Lexeme
	}

	if !p.peekTokenIs(token.LT) {
		return ref
	}
	p.nextToken() // cur is '<'
	if p.peekTokenIs(token.GT) {
		p.unexpected(p.peekToken)
		return nil
	}
	for {
		p.nextToken()
		param := p.parseType()
		if param == nil {
			return nil
		}
		ref.Params = append(ref.Params, param)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.GT) {
			return nil
		}
		return ref
	}
}

func (p *Parser) parseAnonymousType() *ast.AnonymousType {
	anon := &ast.AnonymousType{Token: p.curToken}
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return anon
	}
	for {
		p.nextToken()
		field := &ast.AnonymousField{Token: p.curToken}
		if p.curTokenIs(token.QUESTION) {
			field.Optional = true
			p.nextToken()
		}
		if !p.curTokenIs(token.IDENT) {
			p.unexpected(p.curToken)
			return nil
		}
		field.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		field.Type = p.parseType()
		if field.Type == nil {
			return nil
		}
		anon.Fields = append(anon.Fields, field)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.RBRACE) {
			return nil
		}
		return anon
	}
}

func splitSlot(t ast.TypeNode) (*ast.TypeOrAnonymous, *ast.FunctionType) {
	switch v := t.(type) {
	case *ast.TypeOrAnonymous:
		return v, nil
	case *ast.FunctionType:
		return nil, v
	}
	return nil, nil
}

func slotNode(toa *ast.TypeOrAnonymous, fn *ast.FunctionType) ast.TypeNode {
	switch {
	case toa != nil:
		return toa
	case fn != nil:
		return fn
	}
	return nil
}

func isVoid(t ast.TypeNode) bool {
	toa, ok := t.(*ast.TypeOrAnonymous)
	return ok && toa.Type != nil && toa.Type.Name == config.VoidTypeName && len(toa.Type.Params) == 0
}
