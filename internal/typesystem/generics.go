package typesystem

import (
	"sort"
	"strings"

	"github.com/funvibe/hxtype/internal/ast"
)

// Specialization is an immutable mapping from generic parameter names to types.
type Specialization struct {
	bindings map[string]*ResultHolder
}

var emptySpecialization = &Specialization{bindings: map[string]*ResultHolder{}}

func EmptySpecialization() *Specialization {
	return emptySpecialization
}

// NewSpecialization copies bindings into a new specialization.
func NewSpecialization(bindings map[string]*ResultHolder) *Specialization {
	s := &Specialization{bindings: make(map[string]*ResultHolder, len(bindings))}
	for k, v := range bindings {
		s.bindings[k] = v
	}
	return s
}

func (s *Specialization) Get(name string) (*ResultHolder, bool) {
	if s == nil {
		return nil, false
	}
	h, ok := s.bindings[name]
	return h, ok
}

func (s *Specialization) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bindings)
}

// Names returns the bound parameter names in sorted order.
func (s *Specialization) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.bindings))
	for k := range s.bindings {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// With returns a copy of s with name bound to h.
func (s *Specialization) With(name string, h *ResultHolder) *Specialization {
	out := NewSpecialization(s.bindingsOrNil())
	out.bindings[name] = h
	return out
}

// Without returns a copy of s with the given names unbound. Declarations that
// introduce their own type parameters use it to shadow outer bindings.
func (s *Specialization) Without(names ...string) *Specialization {
	out := NewSpecialization(s.bindingsOrNil())
	for _, n := range names {
		delete(out.bindings, n)
	}
	return out
}

func (s *Specialization) bindingsOrNil() map[string]*ResultHolder {
	if s == nil {
		return nil
	}
	return s.bindings
}

// Key is a deterministic fingerprint, e.g. "T=Int;U=String". Bindings
// that carry a constant are keyed with it.
func (s *Specialization) Key() string {
	names := s.Names()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=" + s.bindings[n].String()
	}
	return strings.Join(parts, ";")
}

// ToGenericResolver derives a resolver for resolving types under context.
// A nil specialization yields an empty resolver.
func (s *Specialization) ToGenericResolver(context ast.Node) *GenericResolver {
	r := NewGenericResolver(context)
	for _, name := range s.Names() {
		r.Add(name, s.bindings[name])
	}
	return r
}

// GenericResolver holds ordered generic bindings used during resolution.
// It is built once and then only read.
type GenericResolver struct {
	context  ast.Node
	names    []string
	bindings map[string]*ResultHolder
}

func NewGenericResolver(context ast.Node) *GenericResolver {
	return &GenericResolver{context: context, bindings: make(map[string]*ResultHolder)}
}

// Add binds name to h, replacing an earlier binding of the same name.
func (r *GenericResolver) Add(name string, h *ResultHolder) *GenericResolver {
	if _, exists := r.bindings[name]; !exists {
		r.names = append(r.names, name)
	}
	r.bindings[name] = h
	return r
}

// Resolve returns the binding for name, or nil.
func (r *GenericResolver) Resolve(name string) *ResultHolder {
	if r == nil {
		return nil
	}
	return r.bindings[name]
}

func (r *GenericResolver) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *GenericResolver) IsEmpty() bool {
	return r == nil || len(r.names) == 0
}

// GetSpecialization snapshots the bindings as a specialization scoped to context.
func (r *GenericResolver) GetSpecialization(context ast.Node) *Specialization {
	if r.IsEmpty() {
		return EmptySpecialization()
	}
	return NewSpecialization(r.bindings)
}

// Substitute replaces bound type parameters in t, recursing into generics,
// function arguments and anonymous fields. Self-referencing bindings are cut
// off instead of looping.
func (r *GenericResolver) Substitute(t Type) Type {
	if r.IsEmpty() || t == nil {
		return t
	}
	return r.substitute(t, make(map[string]bool))
}

func (r *GenericResolver) substitute(t Type, visited map[string]bool) Type {
	switch typ := t.(type) {
	case *ClassReference:
		if typ.IsTypeParameter() {
			bound := r.bindings[typ.Name]
			if bound == nil || visited[typ.Name] {
				return typ
			}
			newVisited := copyVisited(visited)
			newVisited[typ.Name] = true
			return r.substitute(bound.Type(), newVisited)
		}
		if len(typ.Generics) == 0 {
			return typ
		}
		generics, changed := r.substituteHolders(typ.Generics, visited)
		if !changed {
			return typ
		}
		copied := *typ
		copied.Generics = generics
		return &copied

	case *FunctionReference:
		changed := false
		args := make([]*Argument, len(typ.arguments))
		for i, arg := range typ.arguments {
			at := arg.typ.Type()
			if argType := r.substitute(at, visited); argType != at {
				changed = true
				args[i] = NewArgument(arg.index, arg.optional, NewResultHolder(argType), arg.name)
			} else {
				args[i] = arg
			}
		}
		ret := typ.returnValue
		rt := ret.Type()
		if retType := r.substitute(rt, visited); retType != rt {
			changed = true
			ret = NewResultHolder(retType)
		}
		if !changed {
			return typ
		}
		return &FunctionReference{
			typeBase:    typ.typeBase,
			arguments:   args,
			returnValue: ret,
			declaration: typ.declaration,
			std:         typ.std,
		}

	case *AnonymousReference:
		changed := false
		fields := make([]AnonymousField, len(typ.Fields))
		for i, f := range typ.Fields {
			fields[i] = f
			old := f.Type.Type()
			if ft := r.substitute(old, visited); ft != old {
				changed = true
				fields[i].Type = NewResultHolder(ft)
			}
		}
		if !changed {
			return typ
		}
		copied := *typ
		copied.Fields = fields
		return &copied
	}
	return t
}

func (r *GenericResolver) substituteHolders(holders []*ResultHolder, visited map[string]bool) ([]*ResultHolder, bool) {
	changed := false
	out := make([]*ResultHolder, len(holders))
	for i, h := range holders {
		out[i] = h
		old := h.Type()
		if nt := r.substitute(old, visited); nt != old {
			changed = true
			out[i] = NewResultHolder(nt)
		}
	}
	return out, changed
}

func copyVisited(m map[string]bool) map[string]bool {
	newMap := make(map[string]bool, len(m)+1)
	for k, v := range m {
		newMap[k] = v
	}
	return newMap
}

// PropagateGenericsToType applies the resolver's bindings to a class type, so
// generic parameters of the enclosing context flow into nested references.
func PropagateGenericsToType(class *ClassReference, resolver *GenericResolver) Type {
	if class == nil {
		return nil
	}
	return resolver.Substitute(class)
}
