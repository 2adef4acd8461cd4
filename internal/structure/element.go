// Package structure builds the outline of a project: files, the classes they
// declare and the members of each class.
package structure

import (
	"strings"

	"github.com/funvibe/hxtype/internal/model"
	"github.com/funvibe/hxtype/internal/typesystem"
)

type Kind int

const (
	FileKind Kind = iota
	ClassKind
	MemberKind
)

func (k Kind) String() string {
	switch k {
	case FileKind:
		return "file"
	case ClassKind:
		return "class"
	case MemberKind:
		return "member"
	}
	return "unknown"
}

type AccessLevel int

const (
	Private AccessLevel = iota
	Public
)

func (a AccessLevel) String() string {
	if a == Public {
		return model.AccessPublic
	}
	return model.AccessPrivate
}

// Sortable elements can be ordered alphabetically.
type Sortable interface {
	AlphaSortKey() string
}

// AccessClassified elements expose a visibility level.
type AccessClassified interface {
	AccessLevel() AccessLevel
}

// Presentation is what an outline shows for an element.
type Presentation struct {
	Text     string
	Location string
}

type Presentable interface {
	Presentation() Presentation
}

// Element is one node of the outline. Exactly one of File, Class or Member
// is set, according to Kind.
type Element struct {
	Kind   Kind
	File   *model.FileModel
	Class  *model.ClassModel
	Member *model.MemberModel

	// Via is the supertype reference when a class element is listed as
	// another class's superclass or interface.
	Via *typesystem.ClassReference
}

func NewFile(f *model.FileModel) *Element     { return &Element{Kind: FileKind, File: f} }
func NewClass(c *model.ClassModel) *Element   { return &Element{Kind: ClassKind, Class: c} }
func NewMember(m *model.MemberModel) *Element { return &Element{Kind: MemberKind, Member: m} }

// Roots returns one file element per project file.
func Roots(p *model.Project) []*Element {
	roots := make([]*Element, 0, len(p.Files))
	for _, f := range p.Files {
		roots = append(roots, NewFile(f))
	}
	return roots
}

// Children lists a file's classes, or a class's resolved superclasses, then
// its interfaces, then its members in declaration order. Members have none.
func (e *Element) Children() []*Element {
	var out []*Element
	switch e.Kind {
	case FileKind:
		for _, c := range e.File.Classes {
			out = append(out, NewClass(c))
		}
	case ClassKind:
		out = appendSupertypes(out, e.Class.Superclasses())
		out = appendSupertypes(out, e.Class.Interfaces())
		for _, m := range e.Class.Members {
			out = append(out, NewMember(m))
		}
	}
	return out
}

func appendSupertypes(out []*Element, refs []*typesystem.ClassReference) []*Element {
	for _, ref := range refs {
		c, ok := ref.Class.(*model.ClassModel)
		if !ok {
			continue
		}
		out = append(out, &Element{Kind: ClassKind, Class: c, Via: ref})
	}
	return out
}

func (e *Element) Name() string {
	switch e.Kind {
	case FileKind:
		return e.File.Name
	case ClassKind:
		return e.Class.Name()
	case MemberKind:
		return e.Member.Name()
	}
	return ""
}

func (e *Element) AlphaSortKey() string {
	return e.Name()
}

// AccessLevel is Public only for public classes and members; files are private.
func (e *Element) AccessLevel() AccessLevel {
	switch e.Kind {
	case ClassKind:
		if e.Class.Access() == model.AccessPublic {
			return Public
		}
	case MemberKind:
		if e.Member.Access() == model.AccessPublic {
			return Public
		}
	}
	return Private
}

func (e *Element) Presentation() Presentation {
	switch e.Kind {
	case FileKind:
		return Presentation{Text: e.File.Name}
	case ClassKind:
		loc := e.Class.File.Name
		if e.Via != nil {
			return Presentation{Text: e.Via.String(), Location: loc}
		}
		text := e.Class.Kind() + " " + e.Class.Name()
		if params := e.Class.TypeParameters(); len(params) > 0 {
			text += "<" + strings.Join(params, ", ") + ">"
		}
		return Presentation{Text: text, Location: loc}
	case MemberKind:
		return Presentation{Text: memberText(e.Member), Location: e.Member.Class.File.Name}
	}
	return Presentation{}
}

func memberText(m *model.MemberModel) string {
	h, _ := m.Resolve(nil)
	name := m.Name()
	if params := m.TypeParameters(); len(params) > 0 {
		name += "<" + strings.Join(params, ", ") + ">"
	}
	if m.IsMethod() {
		if fn := h.FunctionType(); fn != nil {
			return name + "(" + argumentList(fn) + "): " + fn.ReturnType().String()
		}
	}
	return name + ": " + h.String()
}

func argumentList(fn *typesystem.FunctionReference) string {
	args := fn.Arguments()
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

var (
	_ Sortable         = (*Element)(nil)
	_ AccessClassified = (*Element)(nil)
	_ Presentable      = (*Element)(nil)
)
