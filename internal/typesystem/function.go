package typesystem

import (
	"strings"

	"github.com/funvibe/hxtype/internal/ast"
	"github.com/funvibe/hxtype/internal/config"
)

// Argument is one formal parameter of a function type.
type Argument struct {
	index    int
	optional bool
	name     string
	typ      *ResultHolder
}

// NewArgument creates an argument. An empty name means the argument is positional.
func NewArgument(index int, optional bool, typ *ResultHolder, name string) *Argument {
	return &Argument{index: index, optional: optional, name: name, typ: typ}
}

func (a *Argument) Index() int          { return a.index }
func (a *Argument) IsOptional() bool    { return a.optional }
func (a *Argument) Name() string        { return a.name }
func (a *Argument) HasName() bool       { return a.name != "" }
func (a *Argument) Type() *ResultHolder { return a.typ }
func (a *Argument) IsVoid() bool        { return a.typ.IsVoid() }
func (a *Argument) IsInvalid() bool     { return a.typ.IsInvalid() }

// CanAssign requires identical optionality; a required and an optional
// argument are never interchangeable, whatever their types.
func (a *Argument) CanAssign(other *Argument) bool {
	return a.optional == other.optional && a.typ.CanAssign(other.typ)
}

func (a *Argument) String() string {
	return a.render(true)
}

// StringWithoutConstant omits the argument name as well as constants.
func (a *Argument) StringWithoutConstant() string {
	return a.render(false)
}

func (a *Argument) render(withConstant bool) string {
	var out strings.Builder
	if a.optional {
		out.WriteString(config.OptionalMark)
	}
	if withConstant && a.HasName() {
		out.WriteString(a.name)
		out.WriteString(config.NameSeparator)
	}

	if withConstant {
		out.WriteString(a.typ.String())
	} else {
		out.WriteString(a.typ.StringWithoutConstant())
	}
	return out.String()
}

// FunctionReference is a structural function type: ordered arguments and a
// return type, optionally tied to the declaration it came from.
type FunctionReference struct {
	typeBase
	arguments   []*Argument
	returnValue *ResultHolder
	declaration Declaration
	std         bool
}

// NewFunctionReference builds a function type. Argument indexes must match
// their positions in args.
func NewFunctionReference(args []*Argument, returnValue *ResultHolder, declaration Declaration, context ast.Node) *FunctionReference {
	return &FunctionReference{
		typeBase:    typeBase{context: context},
		arguments:   args,
		returnValue: returnValue,
		declaration: declaration,
	}
}

// NewStdFunctionReference returns the "any function" type: no arguments,
// Dynamic return and no declaration.
func NewStdFunctionReference(context ast.Node) *FunctionReference {
	f := NewFunctionReference(nil, NewResultHolder(NewDynamic(context)), nil, context)
	f.std = true
	return f
}

// IsStd reports whether f is the "any function" type.
func (f *FunctionReference) IsStd() bool { return f.std }

// Arguments returns the arguments in call-site order. The slice is a copy;
// the Argument values are shared.
func (f *FunctionReference) Arguments() []*Argument {
	out := make([]*Argument, len(f.arguments))
	copy(out, f.arguments)
	return out
}

func (f *FunctionReference) ReturnType() *ResultHolder { return f.returnValue }

// Declaration returns the originating declaration, or nil.
func (f *FunctionReference) Declaration() Declaration { return f.declaration }

func (f *FunctionReference) GetNonOptionalArgumentsCount() int {
	if len(f.arguments) == 0 {
		return 0
	}
	count := 0
	for _, arg := range f.arguments {
		if !arg.IsOptional() {
			count++
		}
	}
	return count
}

func (f *FunctionReference) IsVoid() bool    { return false }
func (f *FunctionReference) IsDynamic() bool { return false }
func (f *FunctionReference) IsInvalid() bool { return false }

// CanBeTypeVariable is always false: function types never stand in for type variables.
func (f *FunctionReference) CanBeTypeVariable() bool { return false }

func (f *FunctionReference) WithConstantValue(v interface{}) Type {
	return &FunctionReference{
		typeBase:    typeBase{context: f.context, constant: v},
		arguments:   f.arguments,
		returnValue: f.returnValue,
		declaration: f.declaration,
		std:         f.std,
	}
}

func (f *FunctionReference) String() string {
	return f.render(true) + f.constantSuffix()
}

func (f *FunctionReference) StringWithoutConstant() string {
	return f.render(false)
}

// Signature is the canonical textual signature used for comparisons.
func (f *FunctionReference) Signature() string {
	return f.StringWithoutConstant()
}

// render parenthesises the argument list only when there is more than one
// argument; existing textual signatures depend on that.
func (f *FunctionReference) render(withConstant bool) string {
	parts := make([]string, 0, 3)
	if len(f.arguments) > 0 {
		args := make([]string, len(f.arguments))
		for i, arg := range f.arguments {
			if withConstant {
				args[i] = arg.String()
			} else {
				args[i] = arg.StringWithoutConstant()
			}
		}
		list := strings.Join(args, ", ")
		if len(f.arguments) > 1 {
			list = "(" + list + ")"
		}
		parts = append(parts, list)
	}

	parts = append(parts, config.FunctionDelimiter)
	if withConstant {
		parts = append(parts, f.returnValue.String())
	} else {
		parts = append(parts, f.returnValue.StringWithoutConstant())
	}
	return strings.Join(parts, " ")
}

// Equal reports structural equality: same arity, same optional flags, same
// argument and return types. Names, constants, declarations and contexts are ignored.
func (f *FunctionReference) Equal(other *FunctionReference) bool {
	if other == nil || len(f.arguments) != len(other.arguments) {
		return false
	}
	for i, arg := range f.arguments {
		o := other.arguments[i]
		if arg.optional != o.optional || arg.StringWithoutConstant() != o.StringWithoutConstant() {
			return false
		}
	}
	return f.returnValue.StringWithoutConstant() == other.returnValue.StringWithoutConstant()
}
