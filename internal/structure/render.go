package structure

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Filter keeps members whose names match a glob pattern. Files and classes
// are always kept.
type Filter struct {
	pattern string
	g       glob.Glob
}

func NewFilter(pattern string) (*Filter, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", pattern, err)
	}
	return &Filter{pattern: pattern, g: g}, nil
}

func (f *Filter) Keep(e *Element) bool {
	if f == nil || e.Kind != MemberKind {
		return true
	}
	return f.g.Match(e.Name())
}

// Options control Render.
type Options struct {
	Filter *Filter
	Sort   bool // order siblings by AlphaSortKey
	Color  bool
}

const (
	colorReset = "\033[0m"
	colorDim   = "\033[2m"
	colorBold  = "\033[1m"
)

// Render writes an indented outline of roots. A class reached again through
// its own supertype chain is printed but not expanded.
func Render(w io.Writer, roots []*Element, opts Options) error {
	r := &renderer{w: w, opts: opts, expanding: make(map[string]bool)}
	for _, e := range r.visible(roots) {
		if err := r.render(e, 0); err != nil {
			return err
		}
	}
	return nil
}

type renderer struct {
	w         io.Writer
	opts      Options
	expanding map[string]bool
}

func (r *renderer) visible(elements []*Element) []*Element {
	out := make([]*Element, 0, len(elements))
	for _, e := range elements {
		if r.opts.Filter.Keep(e) {
			out = append(out, e)
		}
	}
	if r.opts.Sort {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].AlphaSortKey() < out[j].AlphaSortKey()
		})
	}
	return out
}

func (r *renderer) render(e *Element, depth int) error {
	if _, err := io.WriteString(r.w, r.line(e, depth)); err != nil {
		return err
	}

	if e.Kind == ClassKind {
		if r.expanding[e.Class.Name()] {
			return nil
		}
		r.expanding[e.Class.Name()] = true
		defer delete(r.expanding, e.Class.Name())
	}

	for _, child := range r.visible(e.Children()) {
		if err := r.render(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) line(e *Element, depth int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))

	if e.Kind != FileKind {
		if e.AccessLevel() == Public {
			b.WriteString("+ ")
		} else {
			b.WriteString("- ")
		}
	}

	text := e.Presentation().Text
	switch {
	case e.Kind == FileKind && r.opts.Color:
		text = colorBold + text + colorReset
	case e.Via != nil && r.opts.Color:
		text = colorDim + text + colorReset
	}
	b.WriteString(text)
	b.WriteString("\n")
	return b.String()
}
