package typesystem

import (
	"github.com/funvibe/hxtype/internal/ast"
	"github.com/funvibe/hxtype/internal/config"
)

// FunctionCache memoizes resolved function types by syntax node identity and
// specialization key.
type FunctionCache interface {
	Load(node *ast.FunctionType, specKey string) (*FunctionReference, bool)
	Store(node *ast.FunctionType, specKey string, ref *FunctionReference)
}

// SpecificFunction is a function type node together with the generic
// specialization it is resolved under.
type SpecificFunction struct {
	Node           *ast.FunctionType
	Specialization *Specialization
}

func NewSpecificFunction(node *ast.FunctionType, spec *Specialization) *SpecificFunction {
	return &SpecificFunction{Node: node, Specialization: spec}
}

// TypeResolver turns type syntax into resolved types.
type TypeResolver struct {
	Classes ClassLookup   // nil resolves only built-ins; other names become type parameters
	Cache   FunctionCache // optional
}

func NewTypeResolver(classes ClassLookup) *TypeResolver {
	return &TypeResolver{Classes: classes}
}

// CreateFunction resolves fn into a function type without a declaration.
// It returns nil when fn or its node is absent.
func (tr *TypeResolver) CreateFunction(fn *SpecificFunction) *FunctionReference {
	return tr.CreateFunctionWithDeclaration(fn, nil)
}

// CreateFunctionWithDeclaration is CreateFunction for function types that
// belong to a declaration, such as a method signature.
func (tr *TypeResolver) CreateFunctionWithDeclaration(fn *SpecificFunction, decl Declaration) *FunctionReference {
	if fn == nil || fn.Node == nil {
		return nil
	}
	node := fn.Node
	spec := fn.Specialization
	if spec == nil {
		spec = EmptySpecialization()
	}

	cacheable := decl == nil && tr.Cache != nil
	if cacheable {
		if ref, ok := tr.Cache.Load(node, spec.Key()); ok {
			return ref
		}
	}

	resolver := spec.ToGenericResolver(node)

	args := make([]*Argument, 0, len(node.Arguments))
	for i, arg := range node.Arguments {
		if arg == nil {
			args = append(args, NewArgument(i, false, NewResultHolder(NewUnknown(node)), ""))
			continue
		}
		result := tr.determineType(node, resolver, arg.FunctionType, arg.TypeOrAnonymous)
		name := ""
		if arg.Name != nil {
			name = arg.Name.Value
		}
		args = append(args, NewArgument(i, arg.OptionalMark != nil, result, name))
	}

	var returnResult *ResultHolder
	if rt := node.ReturnType; rt != nil {
		returnResult = tr.determineType(node, resolver, rt.FunctionType, rt.TypeOrAnonymous)
	} else {
		returnResult = NewResultHolder(NewUnknown(node))
	}

	ref := NewFunctionReference(args, returnResult, decl, node)
	if cacheable {
		tr.Cache.Store(node, spec.Key(), ref)
	}
	return ref
}

// determineType resolves one argument or return slot. An explicit type
// annotation wins; generic bindings are pushed into class and anonymous types.
// Otherwise the nested function type is resolved under the same bindings.
func (tr *TypeResolver) determineType(context ast.Node, resolver *GenericResolver, fnType *ast.FunctionType, toa *ast.TypeOrAnonymous) *ResultHolder {
	if toa != nil {
		result := tr.TypeFromTypeOrAnonymous(toa)
		if class := result.ClassType(); class != nil {
			return NewResultHolder(PropagateGenericsToType(class, resolver))
		}
		if anon := result.AnonymousType(); anon != nil {
			return NewResultHolder(resolver.Substitute(anon))
		}
		return result
	}

	if fnType != nil {
		nested := tr.CreateFunction(NewSpecificFunction(fnType, resolver.GetSpecialization(context)))
		return NewResultHolder(nested)
	}
	return NewResultHolder(NewUnknown(context))
}

// TypeFromTypeOrAnonymous resolves an annotation syntactically, without
// applying any generic bindings.
func (tr *TypeResolver) TypeFromTypeOrAnonymous(toa *ast.TypeOrAnonymous) *ResultHolder {
	switch {
	case toa == nil:
		return NewResultHolder(NewUnknown(nil))
	case toa.Type != nil:
		return NewResultHolder(tr.typeFromReference(toa.Type))
	case toa.Anonymous != nil:
		fields := make([]AnonymousField, 0, len(toa.Anonymous.Fields))
		for _, f := range toa.Anonymous.Fields {
			fields = append(fields, AnonymousField{
				Name:     f.Name.Value,
				Optional: f.Optional,
				Type:     tr.TypeFromNode(f.Type),
			})
		}
		return NewResultHolder(NewAnonymousReference(fields, toa.Anonymous))
	}
	return NewResultHolder(NewUnknown(toa))
}

func (tr *TypeResolver) typeFromReference(ref *ast.TypeReference) Type {
	var generics []*ResultHolder
	for _, p := range ref.Params {
		generics = append(generics, tr.TypeFromNode(p))
	}

	if config.IsBuiltinTypeName(ref.Name) {
		return NewClassReference(ref.Name, nil, generics, ref)
	}
	if tr.Classes != nil {
		if class, ok := tr.Classes.LookupClass(ref.Name); ok {
			return NewClassReference(ref.Name, class, generics, ref)
		}
	}
	return NewClassReference(ref.Name, nil, generics, ref)
}

// TypeFromNode resolves either kind of type node without generic bindings.
func (tr *TypeResolver) TypeFromNode(node ast.TypeNode) *ResultHolder {
	switch n := node.(type) {
	case *ast.TypeOrAnonymous:
		return tr.TypeFromTypeOrAnonymous(n)
	case *ast.FunctionType:
		if n == nil {
			break
		}
		return NewResultHolder(tr.CreateFunction(NewSpecificFunction(n, EmptySpecialization())))
	}
	return NewResultHolder(NewUnknown(nil))
}

// ResolveType resolves any type node under spec, following the same
// preference rule as function arguments.
func (tr *TypeResolver) ResolveType(node ast.TypeNode, spec *Specialization) *ResultHolder {
	switch n := node.(type) {
	case *ast.FunctionType:
		if n == nil {
			break
		}
		return NewResultHolder(tr.CreateFunction(NewSpecificFunction(n, spec)))
	case *ast.TypeOrAnonymous:
		if n == nil {
			break
		}
		return tr.determineType(n, spec.ToGenericResolver(n), nil, n)
	}
	return NewResultHolder(NewUnknown(nil))
}
