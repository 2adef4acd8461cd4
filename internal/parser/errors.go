package parser

import (
	"github.com/funvibe/hxtype/internal/diagnostics"
	"github.com/funvibe/hxtype/internal/token"
)

func diagnosticExpectedArrow(tok token.Token) *diagnostics.DiagnosticError {
	return diagnostics.NewError(diagnostics.ErrP002, tok,
		"expected '->' after argument list, got %s", describeToken(tok))
}
