package expr_test

import (
	"errors"
	"testing"

	"github.com/thegaffer/tal-web-sub003/pkg/expr"
)

func TestEngine_ThisReference(t *testing.T) {
	t.Parallel()

	engine := expr.New()
	env := expr.Env{This: map[string]any{"id": 7, "name": "Ada"}}

	got, err := engine.Evaluate(env, "${this.id}", expr.KindAny)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != 7 {
		t.Fatalf("want 7, got %#v", got)
	}

	got, err = engine.Evaluate(env, "$this.name", expr.KindString)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != "Ada" {
		t.Fatalf("want Ada, got %#v", got)
	}
}

func TestEngine_ParentReference(t *testing.T) {
	t.Parallel()

	engine := expr.New()
	env := expr.Env{
		This:   map[string]any{"label": "row"},
		Parent: map[string]any{"label": "table"},
	}
	got, err := engine.Evaluate(env, "parent.label", expr.KindString)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != "table" {
		t.Fatalf("want table, got %#v", got)
	}
}

func TestEngine_BooleanOperators(t *testing.T) {
	t.Parallel()

	engine := expr.New()
	env := expr.Env{
		Attributes: map[string]any{"mode": "edit"},
		This:       map[string]any{"archived": false, "status": "open"},
	}

	cases := map[string]bool{
		`mode == "edit"`: true,
		`mode != "edit"`: false,
		`!this.archived`: true,
		`this.status == "open" && mode == "view"`: false,
		`this.status == "open" || mode == "view"`: true,
	}
	for src, want := range cases {
		got, err := engine.Evaluate(env, src, expr.KindBool)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if got != want {
			t.Fatalf("%s: want %v, got %#v", src, want, got)
		}
	}
}

func TestEngine_AbsentVariableIsNil(t *testing.T) {
	t.Parallel()

	engine := expr.New()
	got, err := engine.Evaluate(expr.Env{Attributes: map[string]any{}}, "missing", expr.KindAny)
	if err != nil {
		t.Fatalf("absent variables must not fail: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil, got %#v", got)
	}
}

func TestEngine_MalformedExpression(t *testing.T) {
	t.Parallel()

	engine := expr.New()
	_, err := engine.Evaluate(expr.Env{}, "${this.id ==}", expr.KindAny)
	if !errors.Is(err, expr.ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
	if _, err := engine.Evaluate(expr.Env{}, "  ", expr.KindAny); !errors.Is(err, expr.ErrSyntax) {
		t.Fatalf("expected ErrSyntax for empty expression, got %v", err)
	}
}

func TestEngine_CompileCachesPrograms(t *testing.T) {
	t.Parallel()

	engine := expr.New()
	if err := engine.Compile("${1 + 2}"); err != nil {
		t.Fatalf("compile: %v", err)
	}
	got, err := engine.Evaluate(expr.Env{}, "1 + 2", expr.KindNumber)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != float64(3) {
		t.Fatalf("want 3, got %#v", got)
	}
}

func TestEngine_Function(t *testing.T) {
	t.Parallel()

	engine := expr.New(expr.WithFunction("shout", func(params ...any) (any, error) {
		return expr.ToString(params[0]) + "!", nil
	}))
	got, err := engine.Evaluate(expr.Env{Attributes: map[string]any{"word": "hi"}}, "shout(word)", expr.KindString)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != "hi!" {
		t.Fatalf("want hi!, got %#v", got)
	}
}

func TestStrip(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"${this.id}": "this.id",
		" $this.id ": "this.id",
		"a && b":     "a && b",
		"${ total }": "total",
	}
	for in, want := range cases {
		got, ok := expr.Strip(in)
		if !ok || got != want {
			t.Fatalf("Strip(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
}

type row struct {
	ID       int
	FullName string `json:"full_name"`
	Tags     []string
}

func TestEngine_StructPropertiesFollowRenderRules(t *testing.T) {
	t.Parallel()

	engine := expr.New()
	env := expr.Env{This: row{ID: 7, FullName: "Ada Lovelace", Tags: []string{"x", "y"}}}

	cases := map[string]any{
		"${this.id}":        7,
		"${this.ID}":        7,
		"this.full_name":    "Ada Lovelace",
		"this.tags[1]":      "y",
		`this["full_name"]`: "Ada Lovelace",
		"this.unknown":      nil,
	}
	for src, want := range cases {
		got, err := engine.Evaluate(env, src, expr.KindAny)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		if got != want {
			t.Fatalf("%s: want %#v, got %#v", src, want, got)
		}
	}

	ok, err := engine.Evaluate(expr.Env{This: &row{ID: 3}}, "this.id == 3", expr.KindBool)
	if err != nil || ok != true {
		t.Fatalf("pointer row: got %#v, %v", ok, err)
	}
}

func TestEngine_MemberOfAbsentValueIsNil(t *testing.T) {
	t.Parallel()

	engine := expr.New()
	var nilRow *row
	envs := map[string]expr.Env{
		"missing.foo":     {Attributes: map[string]any{}},
		"missing.foo.bar": {Attributes: map[string]any{}},
		"${this.id}":      {},
		"this.id":         {This: nilRow},
		"parent.label":    {This: map[string]any{"id": 1}},
	}
	for src, env := range envs {
		got, err := engine.Evaluate(env, src, expr.KindAny)
		if err != nil {
			t.Fatalf("%s: absent values must not fail: %v", src, err)
		}
		if got != nil {
			t.Fatalf("%s: want nil, got %#v", src, got)
		}
	}
}
