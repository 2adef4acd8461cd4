package diagnostics

import (
	"fmt"

	"github.com/funvibe/hxtype/internal/token"
)

type ErrorCode string

const (
	ErrL001 ErrorCode = "L001" // illegal character
	ErrP000 ErrorCode = "P000" // no token stream
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // expected token
	ErrP003 ErrorCode = "P003" // trailing input after type
	ErrR001 ErrorCode = "R001" // unresolved declaration reference
)

// DiagnosticError is a positioned error produced by one of the pipeline stages.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
	File    string
}

func (e *DiagnosticError) Error() string {
	pos := fmt.Sprintf("%d:%d", e.Token.Line, e.Token.Column)
	if e.File != "" {
		pos = e.File + ":" + pos
	}
	return fmt.Sprintf("%s: error [%s]: %s", pos, e.Code, e.Message)
}

// NewError builds a diagnostic. Extra args are applied to msg with fmt.Sprintf.
func NewError(code ErrorCode, tok token.Token, msg string, args ...interface{}) *DiagnosticError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}
