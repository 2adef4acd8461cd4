package model

import (
	"sync"

	"github.com/funvibe/hxtype/internal/analyzer"
	"github.com/funvibe/hxtype/internal/ast"
	"github.com/funvibe/hxtype/internal/diagnostics"
	"github.com/funvibe/hxtype/internal/lexer"
	"github.com/funvibe/hxtype/internal/parser"
	"github.com/funvibe/hxtype/internal/pipeline"
	"github.com/funvibe/hxtype/internal/token"
	"github.com/funvibe/hxtype/internal/typesystem"
)

// Project is a loaded project file. It is safe for concurrent use once built.
type Project struct {
	Path  string
	Files []*FileModel

	classes  map[string]*ClassModel
	resolver *typesystem.TypeResolver
}

type FileModel struct {
	Name    string
	Classes []*ClassModel
}

// ClassModel implements typesystem.ClassDeclaration.
type ClassModel struct {
	File    *FileModel
	Members []*MemberModel

	config  ClassConfig
	project *Project

	superOnce    sync.Once
	superclasses []*typesystem.ClassReference
	interfaces   []*typesystem.ClassReference
	superTokens  []token.Token
	superErrors  []*diagnostics.DiagnosticError

	cycleOnce   sync.Once
	cycleErrors []*diagnostics.DiagnosticError
}

// MemberModel is a method or field. Methods implement typesystem.Declaration.
type MemberModel struct {
	Class *ClassModel

	config MemberConfig

	parseOnce   sync.Once
	root        ast.TypeNode
	parseErrors []*diagnostics.DiagnosticError
}

// Load reads a project file and builds its model.
func Load(path string) (*Project, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return New(cfg, path), nil
}

// New builds a project from a validated config.
func New(cfg *Config, path string) *Project {
	p := &Project{Path: path, classes: make(map[string]*ClassModel)}
	p.resolver = typesystem.NewTypeResolver(p)

	for _, fc := range cfg.Files {
		file := &FileModel{Name: fc.Name}
		for _, cc := range fc.Classes {
			class := &ClassModel{File: file, config: cc, project: p}
			for _, mc := range cc.Members {
				class.Members = append(class.Members, &MemberModel{Class: class, config: mc})
			}
			file.Classes = append(file.Classes, class)
			p.classes[cc.Name] = class
		}
		p.Files = append(p.Files, file)
	}
	return p
}

// SetCache installs a function type cache used by all member resolutions.
// It must be called before the project is used concurrently.
func (p *Project) SetCache(cache typesystem.FunctionCache) {
	p.resolver.Cache = cache
}

// Resolver returns the resolver that knows the project's classes.
func (p *Project) Resolver() *typesystem.TypeResolver {
	return p.resolver
}

func (p *Project) LookupClass(name string) (typesystem.ClassDeclaration, bool) {
	class, ok := p.classes[name]
	if !ok {
		return nil, false
	}
	return class, true
}

// Class returns the class model with the given name, or nil.
func (p *Project) Class(name string) *ClassModel {
	return p.classes[name]
}

// Members returns every member in declaration order.
func (p *Project) Members() []*MemberModel {
	var out []*MemberModel
	for _, f := range p.Files {
		for _, c := range f.Classes {
			out = append(out, c.Members...)
		}
	}
	return out
}

func (c *ClassModel) Name() string             { return c.config.Name }
func (c *ClassModel) TypeParameters() []string { return c.config.Params }
func (c *ClassModel) Kind() string             { return c.config.Kind }
func (c *ClassModel) Access() string           { return c.config.Access }
func (c *ClassModel) IsInterface() bool        { return c.config.Kind == KindInterface }

// Supertypes returns the extended types followed by the implemented ones.
func (c *ClassModel) Supertypes() []*typesystem.ClassReference {
	c.resolveSupertypes()
	out := make([]*typesystem.ClassReference, 0, len(c.superclasses)+len(c.interfaces))
	out = append(out, c.superclasses...)
	return append(out, c.interfaces...)
}

func (c *ClassModel) Superclasses() []*typesystem.ClassReference {
	c.resolveSupertypes()
	return c.superclasses
}

func (c *ClassModel) Interfaces() []*typesystem.ClassReference {
	c.resolveSupertypes()
	return c.interfaces
}

// SupertypeErrors returns the diagnostics produced while resolving supertypes,
// including supertypes that lead back to c.
func (c *ClassModel) SupertypeErrors() []*diagnostics.DiagnosticError {
	c.resolveSupertypes()
	c.checkCycles()
	if len(c.cycleErrors) == 0 {
		return c.superErrors
	}
	out := make([]*diagnostics.DiagnosticError, 0, len(c.superErrors)+len(c.cycleErrors))
	out = append(out, c.superErrors...)
	return append(out, c.cycleErrors...)
}

// Member returns the member declared directly on c, or nil.
func (c *ClassModel) Member(name string) *MemberModel {
	for _, m := range c.Members {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

func (c *ClassModel) resolveSupertypes() {
	c.superOnce.Do(func() {
		c.superclasses = c.resolveRefs(c.config.Extends)
		c.interfaces = c.resolveRefs(c.config.Implements)
	})
}

// checkCycles must stay outside superOnce: walking other classes resolves
// their supertypes, which may in turn walk back to c.
func (c *ClassModel) checkCycles() {
	c.cycleOnce.Do(func() {
		for i, super := range c.Supertypes() {
			if !reaches(super, c, make(map[string]bool)) {
				continue
			}
			err := diagnostics.NewError(diagnostics.ErrR001, c.superTokens[i],
				"class %s has cyclic supertype %s", c.Name(), super.String())
			err.File = c.File.Name
			c.cycleErrors = append(c.cycleErrors, err)
		}
	})
}

func reaches(ref *typesystem.ClassReference, target *ClassModel, seen map[string]bool) bool {
	class, ok := ref.Class.(*ClassModel)
	if !ok {
		return false
	}
	if class == target {
		return true
	}
	if seen[class.Name()] {
		return false
	}
	seen[class.Name()] = true
	for _, super := range class.Supertypes() {
		if reaches(super, target, seen) {
			return true
		}
	}
	return false
}

func (c *ClassModel) resolveRefs(sources []string) []*typesystem.ClassReference {
	var refs []*typesystem.ClassReference
	for _, src := range sources {
		ctx := pipeline.NewPipelineContext(src)
		ctx.FilePath = c.File.Name
		analyzer.Run(ctx, &analyzer.SignatureProcessor{
			Resolver:       c.project.resolver,
			Strict:         true,
			TypeParameters: c.config.Params,
		})
		if ctx.HasErrors() {
			c.superErrors = append(c.superErrors, ctx.Errors...)
			continue
		}
		class := ctx.Type.ClassType()
		if class == nil || class.Class == nil {
			err := diagnostics.NewError(diagnostics.ErrR001, ctx.TokenStream[0],
				"class %s cannot extend %s", c.Name(), ctx.Type.String())
			err.File = c.File.Name
			c.superErrors = append(c.superErrors, err)
			continue
		}
		refs = append(refs, class)
		c.superTokens = append(c.superTokens, ctx.TokenStream[0])
	}
	return refs
}

func (m *MemberModel) Name() string      { return m.config.Name }
func (m *MemberModel) Kind() string      { return m.config.Kind }
func (m *MemberModel) Access() string    { return m.config.Access }
func (m *MemberModel) Signature() string { return m.config.Signature }
func (m *MemberModel) IsMethod() bool    { return m.config.Kind == KindMethod }

// TypeParameters are the method-level type parameters.
func (m *MemberModel) TypeParameters() []string { return m.config.Params }

// QualifiedName is Class.member.
func (m *MemberModel) QualifiedName() string {
	return m.Class.Name() + "." + m.Name()
}

func (m *MemberModel) parse() {
	m.parseOnce.Do(func() {
		ctx := pipeline.NewPipelineContext(m.config.Signature)
		ctx.FilePath = m.Class.File.Name
		pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
		m.root = ctx.AstRoot
		m.parseErrors = ctx.Errors
	})
}

// Resolve resolves the member's declared type under spec. Method-level type
// parameters shadow bindings of the same name in spec.
func (m *MemberModel) Resolve(spec *typesystem.Specialization) (*typesystem.ResultHolder, []*diagnostics.DiagnosticError) {
	m.parse()

	if spec == nil {
		spec = typesystem.EmptySpecialization()
	}
	if len(m.config.Params) > 0 {
		spec = spec.Without(m.config.Params...)
	}

	params := make([]string, 0, len(m.Class.config.Params)+len(m.config.Params))
	params = append(params, m.Class.config.Params...)
	params = append(params, m.config.Params...)

	sig := &analyzer.SignatureProcessor{
		Resolver:       m.Class.project.resolver,
		Specialization: spec,
		Strict:         true,
		TypeParameters: params,
	}
	if m.IsMethod() {
		sig.Declaration = m
	}

	ctx := pipeline.NewPipelineContext(m.config.Signature)
	ctx.FilePath = m.Class.File.Name
	ctx.AstRoot = m.root
	ctx.Errors = append(ctx.Errors, m.parseErrors...)
	sig.Process(ctx)

	if ctx.Type == nil {
		return typesystem.NewResultHolder(typesystem.NewUnknown(nil)), ctx.Errors
	}
	return ctx.Type, ctx.Errors
}

// FunctionType returns the member's own function type, or nil when the
// signature is not a function type. Methods are attached as the declaration.
func (m *MemberModel) FunctionType() *typesystem.FunctionReference {
	h, _ := m.Resolve(nil)
	return h.FunctionType()
}
