package analyzer

import (
	"github.com/funvibe/hxtype/internal/lexer"
	"github.com/funvibe/hxtype/internal/parser"
	"github.com/funvibe/hxtype/internal/pipeline"
	"github.com/funvibe/hxtype/internal/typesystem"
)

// Analyze lexes, parses and resolves a single type expression.
func Analyze(source string, resolver *typesystem.TypeResolver, spec *typesystem.Specialization) *pipeline.PipelineContext {
	return Run(pipeline.NewPipelineContext(source), &SignatureProcessor{Resolver: resolver, Specialization: spec})
}

// Run pushes ctx through the lexer and parser stages followed by sig.
func Run(ctx *pipeline.PipelineContext, sig *SignatureProcessor) *pipeline.PipelineContext {
	p := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		sig,
	)
	return p.Run(ctx)
}
