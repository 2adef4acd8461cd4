package lexer

import (
	"github.com/funvibe/hxtype/internal/diagnostics"
	"github.com/funvibe/hxtype/internal/pipeline"
	"github.com/funvibe/hxtype/internal/token"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	tokens := New(ctx.Source).Tokenize()
	for _, tok := range tokens {
		if tok.Type == token.ILLEGAL {
			ctx.AddError(diagnostics.NewError(diagnostics.ErrL001, tok, "illegal character %q", tok.Lexeme))
		}
	}
	ctx.TokenStream = tokens
	return ctx
}
