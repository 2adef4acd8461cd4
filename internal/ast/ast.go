package ast

import (
	"strings"

	"github.com/funvibe/hxtype/internal/token"
)

// Node is the base interface for all syntax nodes.
type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	String() string
}

// TypeNode is a node that can stand where a type is expected:
// either a *TypeOrAnonymous or a *FunctionType.
type TypeNode interface {
	Node
	typeNode()
}

// GenericScope is implemented by nodes and declarations that introduce
// their own type parameters. Bindings with these names from an enclosing
// specialization are shadowed inside the scope.
type GenericScope interface {
	TypeParameterNames() []string
}

type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) TokenLiteral() string  { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token { return i.Token }
func (i *Identifier) String() string        { return i.Value }

// TypeReference is a named type with optional type parameters,
// e.g. Int, haxe.ds.Map<String, Int>, Array<Int -> Void>.
type TypeReference struct {
	Token  token.Token // first identifier
	Name   string      // dotted path
	Params []TypeNode
}

func (tr *TypeReference) TokenLiteral() string  { return tr.Token.Lexeme }
func (tr *TypeReference) GetToken() token.Token { return tr.Token }
func (tr *TypeReference) String() string {
	if len(tr.Params) == 0 {
		return tr.Name
	}
	params := make([]string, len(tr.Params))
	for i, p := range tr.Params {
		params[i] = p.String()
	}
	return tr.Name + "<" + strings.Join(params, ", ") + ">"
}

// AnonymousField is one field of an anonymous structure type.
type AnonymousField struct {
	Token    token.Token
	Optional bool
	Name     *Identifier
	Type     TypeNode
}

func (af *AnonymousField) TokenLiteral() string  { return af.Token.Lexeme }
func (af *AnonymousField) GetToken() token.Token { return af.Token }
func (af *AnonymousField) String() string {
	var out strings.Builder
	if af.Optional {
		out.WriteString("?")
	}
	out.WriteString(af.Name.String())
	out.WriteString(":")
	if af.Type != nil {
		out.WriteString(af.Type.String())
	}
	return out.String()
}

// AnonymousType is a structural type, e.g. { x:Int, ?y:Int }.
type AnonymousType struct {
	Token  token.Token // the '{' token
	Fields []*AnonymousField
}

func (at *AnonymousType) TokenLiteral() string  { return at.Token.Lexeme }
func (at *AnonymousType) GetToken() token.Token { return at.Token }
func (at *AnonymousType) String() string {
	fields := make([]string, len(at.Fields))
	for i, f := range at.Fields {
		fields[i] = f.String()
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

// TypeOrAnonymous holds exactly one of Type or Anonymous.
type TypeOrAnonymous struct {
	Token     token.Token
	Type      *TypeReference
	Anonymous *AnonymousType
}

func (toa *TypeOrAnonymous) typeNode()             {}
func (toa *TypeOrAnonymous) TokenLiteral() string  { return toa.Token.Lexeme }
func (toa *TypeOrAnonymous) GetToken() token.Token { return toa.Token }
func (toa *TypeOrAnonymous) String() string {
	switch {
	case toa.Type != nil:
		return toa.Type.String()
	case toa.Anonymous != nil:
		return toa.Anonymous.String()
	}
	return ""
}

// FunctionArgument is one formal argument of a function type.
// Either TypeOrAnonymous or FunctionType is set; both nil means the
// argument type could not be parsed.
type FunctionArgument struct {
	Token           token.Token
	OptionalMark    *token.Token
	Name            *Identifier // nil for positional arguments
	TypeOrAnonymous *TypeOrAnonymous
	FunctionType    *FunctionType
}

func (fa *FunctionArgument) TokenLiteral() string  { return fa.Token.Lexeme }
func (fa *FunctionArgument) GetToken() token.Token { return fa.Token }
func (fa *FunctionArgument) String() string {
	var out strings.Builder
	if fa.OptionalMark != nil {
		out.WriteString("?")
	}
	if fa.Name != nil {
		out.WriteString(fa.Name.Value)
		out.WriteString(":")
	}
	out.WriteString(typeSlotString(fa.TypeOrAnonymous, fa.FunctionType))
	return out.String()
}

// FunctionReturnType is the return slot of a function type.
type FunctionReturnType struct {
	Token           token.Token
	TypeOrAnonymous *TypeOrAnonymous
	FunctionType    *FunctionType
}

func (rt *FunctionReturnType) TokenLiteral() string  { return rt.Token.Lexeme }
func (rt *FunctionReturnType) GetToken() token.Token { return rt.Token }
func (rt *FunctionReturnType) String() string {
	return typeSlotString(rt.TypeOrAnonymous, rt.FunctionType)
}

// FunctionType is a function type declaration, e.g. (a:Int, ?b:String) -> Void
// or the older Int -> String -> Void chain form.
type FunctionType struct {
	Token      token.Token // first token of the type
	Arguments  []*FunctionArgument
	ReturnType *FunctionReturnType
}

func (ft *FunctionType) typeNode()             {}
func (ft *FunctionType) TokenLiteral() string  { return ft.Token.Lexeme }
func (ft *FunctionType) GetToken() token.Token { return ft.Token }

// String always prints the parenthesised argument list form.
func (ft *FunctionType) String() string {
	args := make([]string, len(ft.Arguments))
	for i, a := range ft.Arguments {
		args[i] = a.String()
	}
	ret := ""
	if ft.ReturnType != nil {
		ret = ft.ReturnType.String()
	}
	return "(" + strings.Join(args, ", ") + ") -> " + ret
}

func typeSlotString(toa *TypeOrAnonymous, fn *FunctionType) string {
	switch {
	case toa != nil:
		return toa.String()
	case fn != nil:
		return "(" + fn.String() + ")"
	}
	return ""
}
