package parser

import (
	"testing"

	"github.com/funvibe/hxtype/internal/ast"
	"github.com/funvibe/hxtype/internal/diagnostics"
	"github.com/funvibe/hxtype/internal/lexer"
	"github.com/funvibe/hxtype/internal/pipeline"
)

func parse(input string) (ast.TypeNode, *pipeline.PipelineContext) {
	ctx := pipeline.NewPipelineContext(input)
	p := New(lexer.New(input).Tokenize(), ctx)
	return p.ParseType(), ctx
}

func mustParse(t *testing.T, input string) ast.TypeNode {
	t.Helper()
	node, ctx := parse(input)
	if len(ctx.Errors) > 0 {
		t.Fatalf("parse %q: unexpected errors: %v", input, ctx.Errors)
	}
	if node == nil {
		t.Fatalf("parse %q: nil node", input)
	}
	return node
}

func TestParseTypeRoundTrip(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Int", "Int"},
		{"haxe.ds.StringMap<Int>", "haxe.ds.StringMap<Int>"},
		{"Map<String, Array<Int>>", "Map<String, Array<Int>>"},
		{"{x:Int, ?y:String}", "{x:Int, ?y:String}"},
		{"{}", "{}"},
		{"(a:Int, ?b:String) -> Void", "(a:Int, ?b:String) -> Void"},
		{"() -> Void", "() -> Void"},
		{"(Int) -> Void", "(Int) -> Void"},
		{"Int -> String -> Void", "(Int, String) -> Void"},
		{"Void -> Int", "() -> Int"},
		{"?Int -> Void", "(?Int) -> Void"},
		{"(Int -> Int) -> Void", "(((Int) -> Int)) -> Void"},
		{"Int -> (String -> Void)", "(Int) -> ((String) -> Void)"},
		{"(f:Int -> Void, x:Int) -> Bool", "(f:((Int) -> Void), x:Int) -> Bool"},
		{"Array<Int -> Void>", "Array<(Int) -> Void>"},
		{"(Int)", "Int"},
		{"(cb:{ok:Bool}) -> Void", "(cb:{ok:Bool}) -> Void"},
		{"Int ->\n  Void", "(Int) -> Void"},
	}

	for _, tt := range tests {
		node := mustParse(t, tt.input)
		if got := node.String(); got != tt.want {
			t.Errorf("parse %q: String() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseFunctionTypeShape(t *testing.T) {
	node := mustParse(t, "(a:Int, ?b:String) -> Void")
	fn, ok := node.(*ast.FunctionType)
	if !ok {
		t.Fatalf("node is %T, want *ast.FunctionType", node)
	}
	if len(fn.Arguments) != 2 {
		t.Fatalf("got %d arguments, want 2", len(fn.Arguments))
	}

	a, b := fn.Arguments[0], fn.Arguments[1]
	if a.Name == nil || a.Name.Value != "a" || a.OptionalMark != nil {
		t.Errorf("argument 0 = %s, want required a", a.String())
	}
	if b.Name == nil || b.Name.Value != "b" || b.OptionalMark == nil {
		t.Errorf("argument 1 = %s, want optional b", b.String())
	}
	if fn.ReturnType == nil || fn.ReturnType.TypeOrAnonymous == nil || fn.ReturnType.TypeOrAnonymous.Type.Name != "Void" {
		t.Errorf("return type = %v, want Void", fn.ReturnType)
	}
}

func TestParseNestedReturnFunction(t *testing.T) {
	node := mustParse(t, "(x:Int) -> (y:Int) -> Bool")
	fn := node.(*ast.FunctionType)
	if fn.ReturnType.TypeOrAnonymous != nil {
		t.Fatalf("return slot has a plain type, want nested function")
	}
	inner := fn.ReturnType.FunctionType
	if inner == nil || len(inner.Arguments) != 1 || inner.Arguments[0].Name.Value != "y" {
		t.Fatalf("nested return = %v", inner)
	}
}

func TestParseFunctionTypeRejectsPlainType(t *testing.T) {
	ctx := pipeline.NewPipelineContext("Int")
	p := New(lexer.New("Int").Tokenize(), ctx)
	if fn := p.ParseFunctionType(); fn != nil {
		t.Errorf("ParseFunctionType(Int) = %s, want nil", fn.String())
	}
	if len(ctx.Errors) != 1 {
		t.Errorf("got %d errors, want 1", len(ctx.Errors))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diagnostics.ErrorCode
	}{
		{"", diagnostics.ErrP002},
		{"Int Void", diagnostics.ErrP003},
		{"(Int, String)", diagnostics.ErrP002},
		{"Array<>", diagnostics.ErrP001},
		{"Map<String, Int", diagnostics.ErrP002},
		{"{x Int}", diagnostics.ErrP002},
		{"Int ->", diagnostics.ErrP001},
		{"?Int", diagnostics.ErrP002},
		{"haxe.", diagnostics.ErrP002},
	}

	for _, tt := range tests {
		_, ctx := parse(tt.input)
		if len(ctx.Errors) == 0 {
			t.Errorf("parse %q: expected error %s, got none", tt.input, tt.code)
			continue
		}
		if ctx.Errors[0].Code != tt.code {
			t.Errorf("parse %q: first error = %s (%s), want %s", tt.input, ctx.Errors[0].Code, ctx.Errors[0].Message, tt.code)
		}
	}
}

func TestParseRecoversMissingSlots(t *testing.T) {
	// Broken pieces leave nil slots instead of aborting the whole type.
	node, ctx := parse("(a:, b:Int) -> Void")
	if len(ctx.Errors) == 0 {
		t.Fatalf("expected an error for the missing type of a")
	}
	fn, ok := node.(*ast.FunctionType)
	if !ok {
		t.Fatalf("node is %T, want *ast.FunctionType", node)
	}
	if len(fn.Arguments) != 2 {
		t.Fatalf("got %d arguments, want 2", len(fn.Arguments))
	}
	if fn.Arguments[0].TypeOrAnonymous != nil || fn.Arguments[0].FunctionType != nil {
		t.Errorf("argument a should have no type")
	}
	if fn.Arguments[1].TypeOrAnonymous == nil {
		t.Errorf("argument b lost its type")
	}

	node, ctx = parse("(a:Int) ->")
	if len(ctx.Errors) == 0 {
		t.Fatalf("expected an error for the missing return type")
	}
	fn = node.(*ast.FunctionType)
	if fn.ReturnType == nil || fn.ReturnType.TypeOrAnonymous != nil || fn.ReturnType.FunctionType != nil {
		t.Errorf("return slot should be present and empty, got %v", fn.ReturnType)
	}
}

func TestParserProcessor(t *testing.T) {
	ctx := pipeline.NewPipelineContext("Int -> Void")
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&ParserProcessor{}).Process(ctx)
	if ctx.AstRoot == nil || ctx.HasErrors() {
		t.Fatalf("AstRoot = %v, errors = %v", ctx.AstRoot, ctx.Errors)
	}

	empty := pipeline.NewPipelineContext("Int")
	empty = (&ParserProcessor{}).Process(empty)
	if len(empty.Errors) != 1 || empty.Errors[0].Code != diagnostics.ErrP000 {
		t.Errorf("expected P000 without token stream, got %v", empty.Errors)
	}
}
