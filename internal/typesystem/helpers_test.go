package typesystem_test

import (
	"testing"

	"github.com/funvibe/hxtype/internal/ast"
	"github.com/funvibe/hxtype/internal/lexer"
	"github.com/funvibe/hxtype/internal/parser"
	"github.com/funvibe/hxtype/internal/pipeline"
	"github.com/funvibe/hxtype/internal/typesystem"
)

type fakeClass struct {
	name   string
	params []string
	supers []*typesystem.ClassReference
}

func (c *fakeClass) Name() string                              { return c.name }
func (c *fakeClass) TypeParameters() []string                  { return c.params }
func (c *fakeClass) Supertypes() []*typesystem.ClassReference { return c.supers }

type fakeClasses map[string]*fakeClass

func (f fakeClasses) LookupClass(name string) (typesystem.ClassDeclaration, bool) {
	c, ok := f[name]
	if !ok {
		return nil, false
	}
	return c, true
}

func ref(c *fakeClass, generics ...typesystem.Type) *typesystem.ClassReference {
	var holders []*typesystem.ResultHolder
	for _, g := range generics {
		holders = append(holders, typesystem.NewResultHolder(g))
	}
	return typesystem.NewClassReference(c.name, c, holders, nil)
}

func placeholder(name string) *typesystem.ClassReference {
	return typesystem.NewClassReference(name, nil, nil, nil)
}

// hierarchy declares:
//
//	class Animal; class Dog extends Animal
//	class Box<T>; class IntBox extends Box<Int>; class Crate<V> extends Box<V>
//	class Loop extends Knot; class Knot extends Loop
func hierarchy() fakeClasses {
	animal := &fakeClass{name: "Animal"}
	dog := &fakeClass{name: "Dog", supers: []*typesystem.ClassReference{ref(animal)}}
	box := &fakeClass{name: "Box", params: []string{"T"}}
	intBox := &fakeClass{name: "IntBox", supers: []*typesystem.ClassReference{ref(box, placeholder("Int"))}}
	crate := &fakeClass{name: "Crate", params: []string{"V"}, supers: []*typesystem.ClassReference{ref(box, placeholder("V"))}}
	loop := &fakeClass{name: "Loop"}
	knot := &fakeClass{name: "Knot", supers: []*typesystem.ClassReference{ref(loop)}}
	loop.supers = []*typesystem.ClassReference{ref(knot)}

	return fakeClasses{
		"Animal": animal,
		"Dog":    dog,
		"Box":    box,
		"IntBox": intBox,
		"Crate":  crate,
		"Loop":   loop,
		"Knot":   knot,
	}
}

func parseNode(t *testing.T, src string) ast.TypeNode {
	t.Helper()
	ctx := pipeline.NewPipelineContext(src)
	node := parser.New(lexer.New(src).Tokenize(), ctx).ParseType()
	if node == nil {
		t.Fatalf("parse %q: %v", src, ctx.Errors)
	}
	return node
}

func resolve(t *testing.T, tr *typesystem.TypeResolver, src string, spec *typesystem.Specialization) *typesystem.ResultHolder {
	t.Helper()
	return tr.ResolveType(parseNode(t, src), spec)
}

func bindings(pairs ...string) *typesystem.Specialization {
	spec := typesystem.EmptySpecialization()
	for i := 0; i+1 < len(pairs); i += 2 {
		spec = spec.With(pairs[i], typesystem.NewResultHolder(placeholder(pairs[i+1])))
	}
	return spec
}
