package pipeline

import (
	"github.com/google/uuid"

	"github.com/funvibe/hxtype/internal/ast"
	"github.com/funvibe/hxtype/internal/diagnostics"
	"github.com/funvibe/hxtype/internal/token"
	"github.com/funvibe/hxtype/internal/typesystem"
)

// PipelineContext carries one type expression through lexing, parsing and resolution.
type PipelineContext struct {
	ID          uuid.UUID
	Source      string
	FilePath    string
	TokenStream []token.Token
	AstRoot     ast.TypeNode
	Errors      []*diagnostics.DiagnosticError

	// Type is the resolved type of AstRoot. Function is set as well when
	// AstRoot is a function type.
	Type     *typesystem.ResultHolder
	Function *typesystem.FunctionReference
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		ID:     uuid.New(),
		Source: source,
	}
}

// HasErrors reports whether any stage recorded a diagnostic.
func (ctx *PipelineContext) HasErrors() bool {
	return len(ctx.Errors) > 0
}

// AddError records a diagnostic, stamping it with the context's file path.
func (ctx *PipelineContext) AddError(err *diagnostics.DiagnosticError) {
	if err.File == "" {
		err.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, err)
}
