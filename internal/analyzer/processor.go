package analyzer

import (
	"github.com/funvibe/hxtype/internal/ast"
	"github.com/funvibe/hxtype/internal/config"
	"github.com/funvibe/hxtype/internal/diagnostics"
	"github.com/funvibe/hxtype/internal/pipeline"
	"github.com/funvibe/hxtype/internal/typesystem"
)

// SignatureProcessor resolves the parsed type in ctx.AstRoot.
type SignatureProcessor struct {
	Resolver       *typesystem.TypeResolver
	Specialization *typesystem.Specialization

	// Declaration is attached to the resulting function type, if any.
	Declaration typesystem.Declaration

	// When Strict is set, a referenced name that is neither built in, declared
	// nor listed in TypeParameters is reported as R001.
	Strict         bool
	TypeParameters []string
}

func (sp *SignatureProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if !ast.IsUsable(ctx.AstRoot) {
		return ctx
	}

	resolver := sp.Resolver
	if resolver == nil {
		resolver = typesystem.NewTypeResolver(nil)
	}

	if sp.Strict {
		sp.checkReferences(ctx, resolver)
	}

	if fn, ok := ctx.AstRoot.(*ast.FunctionType); ok {
		ctx.Function = resolver.CreateFunctionWithDeclaration(
			typesystem.NewSpecificFunction(fn, sp.Specialization), sp.Declaration)
		ctx.Type = typesystem.NewResultHolder(ctx.Function)
		return ctx
	}
	ctx.Type = resolver.ResolveType(ctx.AstRoot, sp.Specialization)
	return ctx
}

func (sp *SignatureProcessor) checkReferences(ctx *pipeline.PipelineContext, resolver *typesystem.TypeResolver) {
	params := make(map[string]bool, len(sp.TypeParameters))
	for _, p := range sp.TypeParameters {
		params[p] = true
	}

	reported := make(map[string]bool)
	ast.Walk(ctx.AstRoot, func(n ast.Node) bool {
		ref, ok := n.(*ast.TypeReference)
		if !ok || reported[ref.Name] {
			return true
		}
		if config.IsBuiltinTypeName(ref.Name) || params[ref.Name] {
			return true
		}
		if resolver.Classes != nil {
			if _, found := resolver.Classes.LookupClass(ref.Name); found {
				return true
			}
		}
		reported[ref.Name] = true
		ctx.AddError(diagnostics.NewError(diagnostics.ErrR001, ref.Token, "unknown type %s", ref.Name))
		return true
	})
}
