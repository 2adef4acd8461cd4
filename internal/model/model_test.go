package model

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/hxtype/internal/analyzer"
	"github.com/funvibe/hxtype/internal/diagnostics"
	"github.com/funvibe/hxtype/internal/typesystem"
)

func loadZoo(t *testing.T) *Project {
	t.Helper()
	p, err := Load("testdata/zoo.hxtypes.yaml")
	require.NoError(t, err)
	return p
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no files", "files: []", "no files defined"},
		{"file without name", "files: [{classes: []}]", "name is required"},
		{"duplicate class", `
files:
  - name: A.hx
    classes: [{name: A}]
  - name: B.hx
    classes: [{name: A}]`, "declared in both A.hx and B.hx"},
		{"unknown class kind", `
files:
  - name: A.hx
    classes: [{name: A, kind: enum}]`, `unknown kind "enum"`},
		{"unknown access", `
files:
  - name: A.hx
    classes: [{name: A, access: protected}]`, `unknown access "protected"`},
		{"duplicate param", `
files:
  - name: A.hx
    classes: [{name: A, params: [T, T]}]`, "duplicate type parameter T"},
		{"var with params", `
files:
  - name: A.hx
    classes:
      - name: A
        members: [{name: x, kind: var, params: [T], signature: T}]`, "only valid on methods"},
		{"missing signature", `
files:
  - name: A.hx
    classes:
      - name: A
        members: [{name: x}]`, "signature is required"},
		{"duplicate member", `
files:
  - name: A.hx
    classes:
      - name: A
        members: [{name: x, signature: Int}, {name: x, signature: Int}]`, "duplicate member x"},
		{"builtin param", `
files:
  - name: A.hx
    classes: [{name: Box, params: [Int]}]`, "type parameter Int shadows a built-in type"},
		{"class named param", `
files:
  - name: A.hx
    classes:
      - name: Box
        params: [T]
        members: [{name: get, params: [Item], signature: "Void -> Item"}]
  - name: B.hx
    classes: [{name: Item}]`, "type parameter Item shadows class Item"},
		{"invalid yaml", "files: [", "parsing test.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml), "test.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
files:
  - name: A.hx
    classes:
      - name: A
        members: [{name: run, signature: "Void -> Void"}]`), "test.yaml")
	require.NoError(t, err)

	class := cfg.Files[0].Classes[0]
	assert.Equal(t, KindClass, class.Kind)
	assert.Equal(t, AccessPublic, class.Access)
	assert.Equal(t, KindMethod, class.Members[0].Kind)
	assert.Equal(t, AccessPublic, class.Members[0].Access)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading project")
}

func TestMethodFunctionType(t *testing.T) {
	p := loadZoo(t)
	fetch := p.Class("Dog").Member("fetch")
	require.NotNil(t, fetch)

	fn := fetch.FunctionType()
	require.NotNil(t, fn)
	assert.Equal(t, "(thing:String, ?times:Int) -> Void", fn.String())
	assert.Equal(t, 1, fn.GetNonOptionalArgumentsCount())
	assert.Equal(t, typesystem.Declaration(fetch), fn.Declaration())

	name := p.Class("Animal").Member("name")
	assert.Nil(t, name.FunctionType(), "a String field has no function type")
}

func TestMemberType(t *testing.T) {
	p := loadZoo(t)

	tests := []struct {
		class, member string
		want          string
	}{
		{"Box<Int>", "map", "f:Int -> U -> Box<U>"},
		{"Box<String>", "value", "String"},
		{"Box<Int>", "shadow", "x:T -> T"},
		{"Box", "value", "T"},
		{"IntBox", "each", "f:Int -> Void -> Void"},
		{"IntBox", "value", "Int"},
		{"Crate<Bool>", "value", "Array<Bool>"},
		{"Crate<Bool>", "open", "-> {contents:Bool, ?label:String}"},
		{"Dog", "speak", "?loud:Bool -> String"},
		{"Dog", "compareTo", "other:Dog -> Int"},
	}

	for _, tt := range tests {
		h, diags, err := p.MemberType(tt.class, tt.member)
		require.NoError(t, err, "%s.%s", tt.class, tt.member)
		assert.Empty(t, diags, "%s.%s", tt.class, tt.member)
		assert.Equal(t, tt.want, h.String(), "%s.%s", tt.class, tt.member)
	}
}

func TestMemberTypeErrors(t *testing.T) {
	p := loadZoo(t)

	_, _, err := p.MemberType("Box<Int>", "missing")
	assert.ErrorIs(t, err, ErrMemberNotFound)

	_, _, err = p.MemberType("Int", "value")
	assert.ErrorIs(t, err, ErrNotAClass)

	_, diags, err := p.MemberType("Box<", "value")
	require.Error(t, err)
	assert.NotEmpty(t, diags)
}

func TestSupertypes(t *testing.T) {
	p := loadZoo(t)
	dog := p.Class("Dog")

	supers := dog.Supertypes()
	require.Len(t, supers, 2)
	assert.Equal(t, "Animal", supers[0].String())
	assert.Equal(t, "Comparable<Dog>", supers[1].String())
	assert.Len(t, dog.Superclasses(), 1)
	assert.Len(t, dog.Interfaces(), 1)
	assert.Empty(t, dog.SupertypeErrors())

	resolve := func(src string) typesystem.Type {
		h, _, err := p.MemberType("Box<"+src+">", "value")
		require.NoError(t, err)
		return h.Type()
	}
	assert.True(t, typesystem.CanAssign(resolve("Animal"), resolve("Dog")))
	assert.True(t, typesystem.CanAssign(resolve("Comparable<Dog>"), resolve("Dog")))
	assert.False(t, typesystem.CanAssign(resolve("Dog"), resolve("Animal")))
	assert.True(t, typesystem.CanAssign(resolve("Box<Int>"), resolve("IntBox")))
	assert.True(t, typesystem.CanAssign(resolve("Box<Array<String>>"), resolve("Crate<String>")))
}

func TestResolveAll(t *testing.T) {
	p := loadZoo(t)

	report, err := p.ResolveAll(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, report.HasErrors(), "%v", report.Diagnostics())
	require.Len(t, report.Members, 10)

	var names []string
	for _, r := range report.Members {
		names = append(names, r.Member.QualifiedName())
	}
	assert.Equal(t, []string{
		"Animal.name", "Animal.speak", "Dog.fetch", "Dog.wag", "Comparable.compareTo",
		"Box.value", "Box.map", "Box.each", "Box.shadow", "Crate.open",
	}, names)
	assert.Equal(t, "Box.hx", report.Members[6].File)
	assert.Equal(t, "f:T -> U -> Box<U>", report.Members[6].Type.String())

	sequential, err := p.ResolveAll(context.Background(), 1)
	require.NoError(t, err)
	for i := range report.Members {
		assert.Equal(t, report.Members[i].Type.String(), sequential.Members[i].Type.String())
	}
}

func TestResolveAllCancelled(t *testing.T) {
	p := loadZoo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ResolveAll(ctx, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveAllReportsDiagnostics(t *testing.T) {
	p, err := Load("testdata/broken.hxtypes.yaml")
	require.NoError(t, err)

	report, err := p.ResolveAll(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, report.HasErrors())

	require.Len(t, report.Supertypes, 2)
	for _, d := range report.Supertypes {
		assert.Equal(t, diagnostics.ErrR001, d.Code)
		assert.Equal(t, "Broken.hx", d.File)
	}
	assert.Contains(t, report.Supertypes[0].Message, "Missing")
	assert.Contains(t, report.Supertypes[1].Message, "cannot extend T")

	byName := make(map[string]MemberResult)
	for _, r := range report.Members {
		byName[r.Member.Name()] = r
	}
	require.NotEmpty(t, byName["bad"].Errors)
	assert.Equal(t, diagnostics.ErrP001, byName["bad"].Errors[0].Code)
	assert.Equal(t, "(a:Int, b:Unknown) -> Void", byName["bad"].Type.String())

	require.Len(t, byName["lost"].Errors, 1)
	assert.Equal(t, diagnostics.ErrR001, byName["lost"].Errors[0].Code)
	assert.True(t, strings.HasPrefix(byName["lost"].Errors[0].Error(), "Broken.hx:1:"))

	assert.Empty(t, byName["fine"].Errors)
	assert.Len(t, report.Diagnostics(), 4)
}

func TestCyclicSupertypes(t *testing.T) {
	p, err := Load("testdata/cyclic.hxtypes.yaml")
	require.NoError(t, err)

	counts := map[string]int{"Seq": 0, "Grow": 1, "Spiral": 1, "Coil": 1, "Leaf": 0}
	for name, want := range counts {
		errs := p.Class(name).SupertypeErrors()
		require.Len(t, errs, want, name)
		for _, d := range errs {
			assert.Equal(t, diagnostics.ErrR001, d.Code)
			assert.Contains(t, d.Message, "class "+name+" has cyclic supertype")
			assert.True(t, strings.HasPrefix(d.Error(), "Cycles.hx:1:1:"), d.Error())
		}
	}

	resolve := func(src string) typesystem.Type {
		return analyzer.Analyze(src, p.Resolver(), nil).Type.Type()
	}
	assert.False(t, typesystem.CanAssign(resolve("Seq<Int>"), resolve("Grow<Int>")))
	assert.False(t, typesystem.CanAssign(resolve("Leaf"), resolve("Spiral<Int>")))
	assert.True(t, typesystem.CanAssign(resolve("Seq<Int>"), resolve("Leaf")))

	h, _, err := p.MemberType("Spiral<Int>", "wind")
	require.NoError(t, err)
	assert.Equal(t, "x:Seq<Int> -> Void", h.String())

	_, _, err = p.MemberType("Grow<Int>", "wind")
	assert.ErrorIs(t, err, ErrMemberNotFound)

	report, err := p.ResolveAll(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, report.Supertypes, 3)
}
