package token

import "fmt"

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string // Raw source text of the token
	Literal interface{}
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"
	NEWLINE = "NEWLINE"

	IDENT = "IDENT" // Int, Array, a, b

	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LT       = "<"
	GT       = ">"
	COMMA    = ","
	COLON    = ":"
	DOT      = "."
	QUESTION = "?"
	ARROW    = "->"
)
