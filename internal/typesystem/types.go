package typesystem

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/hxtype/internal/ast"
	"github.com/funvibe/hxtype/internal/config"
)

// Type is a resolved type. All implementations are immutable; transforms such
// as WithConstantValue return new values.
type Type interface {
	// String renders the type including any constant annotation.
	String() string
	StringWithoutConstant() string
	// Context is the syntax node the type was resolved from. It is only used
	// for diagnostics and never takes part in type identity.
	Context() ast.Node
	IsVoid() bool
	IsInvalid() bool
	IsDynamic() bool
	CanBeTypeVariable() bool
	ConstantValue() interface{}
	WithConstantValue(v interface{}) Type
}

// Declaration is the declaration a function type originates from (e.g. a method).
type Declaration interface {
	Name() string
}

// ClassDeclaration is the nominal information the type model needs about a class or interface.
type ClassDeclaration interface {
	Name() string
	TypeParameters() []string
	// Supertypes are the extended classes and implemented interfaces, expressed
	// in terms of this declaration's own type parameters.
	Supertypes() []*ClassReference
}

// ClassLookup resolves type names to class declarations.
type ClassLookup interface {
	LookupClass(name string) (ClassDeclaration, bool)
}

type typeBase struct {
	context  ast.Node
	constant interface{}
}

func (b typeBase) Context() ast.Node          { return b.context }
func (b typeBase) ConstantValue() interface{} { return b.constant }

func (b typeBase) constantSuffix() string {
	if b.constant == nil {
		return ""
	}
	return " = " + formatConstant(b.constant)
}

func formatConstant(v interface{}) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprint(v)
}

// ClassReference is a nominal type: a built-in (Int, Void, Dynamic, ...), a
// declared class, or a type parameter placeholder (an unresolved name without
// generics, e.g. T).
type ClassReference struct {
	typeBase
	Name     string
	Class    ClassDeclaration // nil for built-ins and unresolved names
	Generics []*ResultHolder
}

func NewClassReference(name string, class ClassDeclaration, generics []*ResultHolder, context ast.Node) *ClassReference {
	return &ClassReference{typeBase: typeBase{context: context}, Name: name, Class: class, Generics: generics}
}

// NewDynamic returns the top type.
func NewDynamic(context ast.Node) *ClassReference {
	return NewClassReference(config.DynamicTypeName, nil, nil, context)
}

// NewVoid returns the Void type.
func NewVoid(context ast.Node) *ClassReference {
	return NewClassReference(config.VoidTypeName, nil, nil, context)
}

func (c *ClassReference) IsBuiltin() bool {
	return c.Class == nil && config.IsBuiltinTypeName(c.Name)
}

// IsTypeParameter reports whether c is a placeholder for a generic parameter.
func (c *ClassReference) IsTypeParameter() bool {
	return c.Class == nil && len(c.Generics) == 0 && !config.IsBuiltinTypeName(c.Name)
}

func (c *ClassReference) IsVoid() bool            { return c.IsBuiltin() && c.Name == config.VoidTypeName }
func (c *ClassReference) IsDynamic() bool         { return c.IsBuiltin() && c.Name == config.DynamicTypeName }
func (c *ClassReference) IsInvalid() bool         { return false }
func (c *ClassReference) CanBeTypeVariable() bool { return c.IsTypeParameter() }

func (c *ClassReference) String() string {
	return c.render(true) + c.constantSuffix()
}

func (c *ClassReference) StringWithoutConstant() string {
	return c.render(false)
}

func (c *ClassReference) render(withConstant bool) string {
	if len(c.Generics) == 0 {
		return c.Name
	}
	generics := make([]string, len(c.Generics))
	for i, g := range c.Generics {
		if withConstant {
			generics[i] = g.String()
		} else {
			generics[i] = g.StringWithoutConstant()
		}
	}
	return c.Name + "<" + strings.Join(generics, ", ") + ">"
}

func (c *ClassReference) WithConstantValue(v interface{}) Type {
	copied := *c
	copied.constant = v
	return &copied
}

// Specialization maps the declaration's type parameters to this reference's generics.
// Parameters without a corresponding generic stay unbound.
func (c *ClassReference) Specialization() *Specialization {
	if c.Class == nil {
		return EmptySpecialization()
	}
	bindings := make(map[string]*ResultHolder)
	for i, param := range c.Class.TypeParameters() {
		if i < len(c.Generics) {
			bindings[param] = c.Generics[i]
		}
	}
	return NewSpecialization(bindings)
}

// AnonymousField is one field of an anonymous structure.
type AnonymousField struct {
	Name     string
	Optional bool
	Type     *ResultHolder
}

// AnonymousReference is a structural type, e.g. {x:Int, ?y:String}.
type AnonymousReference struct {
	typeBase
	Fields []AnonymousField
}

func NewAnonymousReference(fields []AnonymousField, context ast.Node) *AnonymousReference {
	return &AnonymousReference{typeBase: typeBase{context: context}, Fields: fields}
}

// Field returns the field with the given name.
func (a *AnonymousReference) Field(name string) (AnonymousField, bool) {
	for _, f := range a.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return AnonymousField{}, false
}

func (a *AnonymousReference) IsVoid() bool            { return false }
func (a *AnonymousReference) IsDynamic() bool         { return false }
func (a *AnonymousReference) IsInvalid() bool         { return false }
func (a *AnonymousReference) CanBeTypeVariable() bool { return false }

func (a *AnonymousReference) String() string {
	return a.render(true) + a.constantSuffix()
}

func (a *AnonymousReference) StringWithoutConstant() string {
	return a.render(false)
}

func (a *AnonymousReference) render(withConstant bool) string {
	fields := make([]string, len(a.Fields))
	for i, f := range a.Fields {
		prefix := f.Name + config.NameSeparator
		if f.Optional {
			prefix = config.OptionalMark + prefix
		}
		if withConstant {
			fields[i] = prefix + f.Type.String()
		} else {
			fields[i] = prefix + f.Type.StringWithoutConstant()
		}
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

func (a *AnonymousReference) WithConstantValue(v interface{}) Type {
	copied := *a
	copied.constant = v
	return &copied
}

// UnknownReference is the type of a slot that could not be resolved.
type UnknownReference struct {
	typeBase
}

func NewUnknown(context ast.Node) *UnknownReference {
	return &UnknownReference{typeBase: typeBase{context: context}}
}

func (u *UnknownReference) IsVoid() bool                  { return false }
func (u *UnknownReference) IsDynamic() bool               { return false }
func (u *UnknownReference) IsInvalid() bool               { return true }
func (u *UnknownReference) CanBeTypeVariable() bool       { return false }
func (u *UnknownReference) String() string                { return config.UnknownTypeName + u.constantSuffix() }
func (u *UnknownReference) StringWithoutConstant() string { return config.UnknownTypeName }

func (u *UnknownReference) WithConstantValue(v interface{}) Type {
	copied := *u
	copied.constant = v
	return &copied
}
