package model

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/hxtype/internal/analyzer"
	"github.com/funvibe/hxtype/internal/diagnostics"
	"github.com/funvibe/hxtype/internal/typesystem"
)

var (
	ErrNotAClass      = errors.New("not a declared class")
	ErrMemberNotFound = errors.New("member not found")
)

// MemberType resolves member as seen through the class reference classRef,
// e.g. MemberType("Box<Int>", "map") yields (f:Int -> U) -> Box<U>.
// Members inherited from supertypes are specialized through the extends chain.
func (p *Project) MemberType(classRef, member string) (*typesystem.ResultHolder, []*diagnostics.DiagnosticError, error) {
	ctx := analyzer.Analyze(classRef, p.resolver, nil)
	if ctx.HasErrors() {
		return nil, ctx.Errors, fmt.Errorf("class reference %q: %w", classRef, ctx.Errors[0])
	}
	ref := ctx.Type.ClassType()
	if ref == nil || ref.Class == nil {
		return nil, nil, fmt.Errorf("%s: %w", classRef, ErrNotAClass)
	}

	m, spec := p.findMember(ref, member, make(map[string]bool))
	if m == nil {
		return nil, nil, fmt.Errorf("%s.%s: %w", ref.Name, member, ErrMemberNotFound)
	}
	h, diags := m.Resolve(spec)
	return h, diags, nil
}

func (p *Project) findMember(ref *typesystem.ClassReference, name string, seen map[string]bool) (*MemberModel, *typesystem.Specialization) {
	class, ok := ref.Class.(*ClassModel)
	if !ok || seen[class.Name()] {
		return nil, nil
	}
	seen[class.Name()] = true

	spec := ref.Specialization()
	if m := class.Member(name); m != nil {
		return m, spec
	}

	resolver := spec.ToGenericResolver(ref.Context())
	for _, super := range class.Supertypes() {
		specialized, ok := resolver.Substitute(super).(*typesystem.ClassReference)
		if !ok {
			continue
		}
		if m, s := p.findMember(specialized, name, seen); m != nil {
			return m, s
		}
	}
	return nil, nil
}

// MemberResult is the outcome of resolving one member.
type MemberResult struct {
	File   string
	Member *MemberModel
	Type   *typesystem.ResultHolder
	Errors []*diagnostics.DiagnosticError
}

// Report collects the results of ResolveAll in declaration order.
type Report struct {
	Members    []MemberResult
	Supertypes []*diagnostics.DiagnosticError
}

// Diagnostics returns every diagnostic in the report.
func (r *Report) Diagnostics() []*diagnostics.DiagnosticError {
	out := append([]*diagnostics.DiagnosticError(nil), r.Supertypes...)
	for _, m := range r.Members {
		out = append(out, m.Errors...)
	}
	return out
}

// HasErrors reports whether any member or supertype failed to resolve cleanly.
func (r *Report) HasErrors() bool {
	if len(r.Supertypes) > 0 {
		return true
	}
	for _, m := range r.Members {
		if len(m.Errors) > 0 {
			return true
		}
	}
	return false
}

// ResolveAll resolves every member of the project with at most workers
// resolutions in flight. Results keep declaration order regardless of
// scheduling.
func (p *Project) ResolveAll(ctx context.Context, workers int) (*Report, error) {
	members := p.Members()
	report := &Report{Members: make([]MemberResult, len(members))}

	for _, f := range p.Files {
		for _, c := range f.Classes {
			report.Supertypes = append(report.Supertypes, c.SupertypeErrors()...)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, m := range members {
		i, m := i, m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			h, errs := m.Resolve(nil)
			report.Members[i] = MemberResult{File: m.Class.File.Name, Member: m, Type: h, Errors: errs}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}
