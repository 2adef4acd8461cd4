package parser

import (
	"github.com/funvibe/hxtype/internal/diagnostics"
	"github.com/funvibe/hxtype/internal/pipeline"
	"github.com/funvibe/hxtype/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		ctx.AddError(diagnostics.NewError(diagnostics.ErrP000, token.Token{}, "parser: token stream is nil"))
		return ctx
	}

	parser := New(ctx.TokenStream, ctx)
	if t := parser.ParseType(); t != nil {
		ctx.AstRoot = t
	}
	return ctx
}
