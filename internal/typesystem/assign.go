package typesystem

import "github.com/funvibe/hxtype/internal/config"

// CanAssign reports whether a value of type from may be used where to is
// expected. Dynamic and invalid types on either side are accepted so that a
// single unresolved slot does not turn every comparison into an error.
func CanAssign(to, from Type) bool {
	return canAssign(to, from, make(map[assignPair]bool))
}

// assignPair marks a class pair on the current supertype path. Names rather
// than full renderings are used so that chains whose generics keep growing,
// such as A<T> extends A<Array<T>>, still terminate.
type assignPair struct {
	to, from string
}

func canAssign(to, from Type, seen map[assignPair]bool) bool {
	if to == nil || from == nil {
		return true
	}
	if to.IsDynamic() || from.IsDynamic() || to.IsInvalid() || from.IsInvalid() {
		return true
	}
	if to.CanBeTypeVariable() {
		return true
	}

	switch t := to.(type) {
	case *ClassReference:
		if f, ok := from.(*ClassReference); ok {
			return canAssignClass(t, f, seen)
		}
	case *FunctionReference:
		if f, ok := from.(*FunctionReference); ok {
			return canAssignFunction(t, f, seen)
		}
	case *AnonymousReference:
		if f, ok := from.(*AnonymousReference); ok {
			return canAssignAnonymous(t, f, seen)
		}
	}
	return false
}

func canAssignClass(to, from *ClassReference, seen map[assignPair]bool) bool {
	if to.Name == from.Name {
		if len(to.Generics) == 0 || len(from.Generics) == 0 {
			return true
		}
		if len(to.Generics) != len(from.Generics) {
			return false
		}
		for i, g := range to.Generics {
			fg := from.Generics[i]
			if g.Type().CanBeTypeVariable() || fg.Type().CanBeTypeVariable() {
				continue
			}
			// Generics are invariant.
			if !canAssign(g.Type(), fg.Type(), seen) || !canAssign(fg.Type(), g.Type(), seen) {
				return false
			}
		}
		return true
	}

	if to.Name == config.FloatTypeName && from.Name == config.IntTypeName && to.IsBuiltin() && from.IsBuiltin() {
		return true
	}

	if from.Class == nil {
		return false
	}

	pair := assignPair{to: to.Name, from: from.Name}
	if seen[pair] {
		return false
	}
	seen[pair] = true
	defer delete(seen, pair)

	resolver := from.Specialization().ToGenericResolver(from.Context())
	for _, super := range from.Class.Supertypes() {
		if super == nil {
			continue
		}
		specialized, ok := resolver.Substitute(super).(*ClassReference)
		if !ok {
			continue
		}
		if canAssignClass(to, specialized, seen) {
			return true
		}
	}
	return false
}

func canAssignFunction(to, from *FunctionReference, seen map[assignPair]bool) bool {
	if to.IsStd() {
		return true
	}
	if len(to.arguments) != len(from.arguments) {
		return false
	}
	for i, arg := range to.arguments {
		other := from.arguments[i]
		if arg.optional != other.optional || !canAssign(arg.typ.Type(), other.typ.Type(), seen) {
			return false
		}
	}
	if to.returnValue.IsVoid() {
		return true
	}
	return canAssign(to.returnValue.Type(), from.returnValue.Type(), seen)
}

// canAssignAnonymous implements width subtyping: from may carry extra fields.
func canAssignAnonymous(to, from *AnonymousReference, seen map[assignPair]bool) bool {
	for _, field := range to.Fields {
		other, ok := from.Field(field.Name)
		if !ok {
			if field.Optional {
				continue
			}
			return false
		}
		if !field.Optional && other.Optional {
			return false
		}
		if !canAssign(field.Type.Type(), other.Type.Type(), seen) {
			return false
		}
	}
	return true
}
