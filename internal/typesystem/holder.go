package typesystem

// ResultHolder wraps a resolved type. A nil holder, or one without a type,
// behaves as the invalid Unknown type.
type ResultHolder struct {
	typ Type
}

func NewResultHolder(t Type) *ResultHolder {
	return &ResultHolder{typ: t}
}

func (h *ResultHolder) Type() Type {
	if h == nil || h.typ == nil {
		return NewUnknown(nil)
	}
	return h.typ
}

// ClassType returns the held class reference, or nil.
func (h *ResultHolder) ClassType() *ClassReference {
	c, _ := h.Type().(*ClassReference)
	return c
}

// FunctionType returns the held function reference, or nil.
func (h *ResultHolder) FunctionType() *FunctionReference {
	f, _ := h.Type().(*FunctionReference)
	return f
}

// AnonymousType returns the held anonymous structure, or nil.
func (h *ResultHolder) AnonymousType() *AnonymousReference {
	a, _ := h.Type().(*AnonymousReference)
	return a
}

func (h *ResultHolder) String() string                { return h.Type().String() }
func (h *ResultHolder) StringWithoutConstant() string { return h.Type().StringWithoutConstant() }
func (h *ResultHolder) IsVoid() bool                  { return h.Type().IsVoid() }
func (h *ResultHolder) IsInvalid() bool               { return h.Type().IsInvalid() }
func (h *ResultHolder) IsDynamic() bool               { return h.Type().IsDynamic() }

// CanAssign reports whether a value of other's type can be used where h's type is expected.
func (h *ResultHolder) CanAssign(other *ResultHolder) bool {
	return CanAssign(h.Type(), other.Type())
}

func (h *ResultHolder) WithConstantValue(v interface{}) *ResultHolder {
	return NewResultHolder(h.Type().WithConstantValue(v))
}
