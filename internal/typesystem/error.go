package typesystem

import "fmt"

// NotAssignableError reports a failed assignability check.
type NotAssignableError struct {
	To   string
	From string
}

func (e *NotAssignableError) Error() string {
	return fmt.Sprintf("%s is not assignable to %s", e.From, e.To)
}

// CheckAssign is CanAssign returning a descriptive error on failure.
func CheckAssign(to, from Type) error {
	if CanAssign(to, from) {
		return nil
	}
	return &NotAssignableError{To: renderOrUnknown(to), From: renderOrUnknown(from)}
}

func renderOrUnknown(t Type) string {
	if t == nil {
		return NewUnknown(nil).String()
	}
	return t.StringWithoutConstant()
}
