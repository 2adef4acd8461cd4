package structure

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/hxtype/internal/model"
)

const outlineProject = `
files:
  - name: Shapes.hx
    classes:
      - name: Shape
        kind: interface
        members:
          - name: area
            signature: "Void -> Float"
      - name: Base
        access: private
        members:
          - name: id
            kind: var
            signature: Int
      - name: Circle
        extends: [Base]
        implements: [Shape]
        members:
          - name: radius
            kind: var
            access: private
            signature: Float
          - name: scale
            signature: "(by:Float, ?round:Bool) -> Circle"
          - name: area
            signature: "Void -> Float"
  - name: Util.hx
    classes:
      - name: Pair
        params: [A, B]
        members:
          - name: swap
            signature: "Void -> Pair<B, A>"
          - name: mapFirst
            params: [C]
            signature: "(f:A -> C) -> Pair<C, B>"
      - name: Ouroboros
        extends: [Tail]
      - name: Tail
        extends: [Ouroboros]
`

func loadProject(t *testing.T, src string) *model.Project {
	t.Helper()
	cfg, err := model.ParseConfig([]byte(src), "outline.yaml")
	require.NoError(t, err)
	return model.New(cfg, "outline.yaml")
}

func TestChildrenOrder(t *testing.T) {
	p := loadProject(t, outlineProject)
	roots := Roots(p)
	require.Len(t, roots, 2)
	assert.Equal(t, FileKind, roots[0].Kind)

	classes := roots[0].Children()
	require.Len(t, classes, 3)
	circle := classes[2]
	assert.Equal(t, "Circle", circle.Name())

	var names []string
	var kinds []Kind
	for _, c := range circle.Children() {
		names = append(names, c.Name())
		kinds = append(kinds, c.Kind)
	}
	// Superclasses, then interfaces, then members in declaration order.
	assert.Equal(t, []string{"Base", "Shape", "radius", "scale", "area"}, names)
	assert.Equal(t, []Kind{ClassKind, ClassKind, MemberKind, MemberKind, MemberKind}, kinds)

	member := circle.Children()[3]
	assert.Empty(t, member.Children())
}

func TestAccessLevelAndSortKey(t *testing.T) {
	p := loadProject(t, outlineProject)
	file := Roots(p)[0]
	classes := file.Children()

	assert.Equal(t, Private, file.AccessLevel(), "files are private")
	assert.Equal(t, "Shapes.hx", file.AlphaSortKey())
	assert.Equal(t, Public, classes[0].AccessLevel())
	assert.Equal(t, Private, classes[1].AccessLevel())

	circle := classes[2].Children()
	assert.Equal(t, Private, circle[2].AccessLevel(), "radius")
	assert.Equal(t, Public, circle[3].AccessLevel(), "scale")
	assert.Equal(t, "scale", circle[3].AlphaSortKey())
	assert.Equal(t, "private", Private.String())
}

func TestPresentation(t *testing.T) {
	p := loadProject(t, outlineProject)
	util := Roots(p)[1]
	pair := util.Children()[0]

	assert.Equal(t, Presentation{Text: "class Pair<A, B>", Location: "Util.hx"}, pair.Presentation())

	members := pair.Children()
	assert.Equal(t, "swap(): Pair<B, A>", members[0].Presentation().Text)
	assert.Equal(t, "mapFirst<C>(f:A -> C): Pair<C, B>", members[1].Presentation().Text)

	circle := Roots(p)[0].Children()[2].Children()
	assert.Equal(t, "Base", circle[0].Presentation().Text)
	assert.Equal(t, "radius: Float", circle[2].Presentation().Text)
	assert.Equal(t, "scale(by:Float, ?round:Bool): Circle", circle[3].Presentation().Text)
}

func TestRender(t *testing.T) {
	p := loadProject(t, outlineProject)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Roots(p)[:1], Options{}))

	want := `Shapes.hx
  + interface Shape
    + area(): Float
  - class Base
    + id: Int
  + class Circle
    - Base
      + id: Int
    + Shape
      + area(): Float
    - radius: Float
    + scale(by:Float, ?round:Bool): Circle
    + area(): Float
`
	assert.Equal(t, want, buf.String())
}

func TestRenderFilterAndSort(t *testing.T) {
	p := loadProject(t, outlineProject)
	filter, err := NewFilter("{area,s*}")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Roots(p)[:1], Options{Filter: filter, Sort: true}))

	want := `Shapes.hx
  - class Base
  + class Circle
    - Base
    + Shape
      + area(): Float
    + area(): Float
    + scale(by:Float, ?round:Bool): Circle
  + interface Shape
    + area(): Float
`
	assert.Equal(t, want, buf.String())
}

func TestRenderStopsOnCycles(t *testing.T) {
	p := loadProject(t, outlineProject)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Roots(p)[1:], Options{Filter: mustFilter(t, "none")}))

	want := `Util.hx
  + class Pair<A, B>
  + class Ouroboros
    + Tail
      + Ouroboros
  + class Tail
    + Ouroboros
      + Tail
`
	assert.Equal(t, want, buf.String())
}

func TestNewFilterRejectsBadPattern(t *testing.T) {
	_, err := NewFilter("[")
	assert.Error(t, err)
}

func mustFilter(t *testing.T, pattern string) *Filter {
	t.Helper()
	f, err := NewFilter(pattern)
	require.NoError(t, err)
	return f
}
