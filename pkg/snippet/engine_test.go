package snippet_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/thegaffer/tal-web-sub003/pkg/snippet"
)

func TestEngine_Render(t *testing.T) {
	t.Parallel()

	engine := snippet.New()
	var buf bytes.Buffer
	if err := engine.Render(&buf, "Hello {{ name }}!", map[string]any{"name": "Ada"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := buf.String(); got != "Hello Ada!" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_CompileCaches(t *testing.T) {
	t.Parallel()

	engine := snippet.New()
	first, err := engine.Compile("{{ value }}")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, err := engine.Compile("{{ value }}")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if first != second {
		t.Fatalf("expected cached snippet instance")
	}
}

func TestEngine_Errors(t *testing.T) {
	t.Parallel()

	engine := snippet.New()
	if _, err := engine.Compile("   "); !errors.Is(err, snippet.ErrEmptySnippet) {
		t.Fatalf("expected ErrEmptySnippet, got %v", err)
	}
	if _, err := engine.Compile("{% if %}"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEngine_GlobalsFiltersAndFunctions(t *testing.T) {
	t.Parallel()

	engine := snippet.New(snippet.WithGlobals(map[string]any{"site": "Docs"}))
	ctx := map[string]any{
		"title": "  Welcome  ",
		"shout": func(s string) string { return strings.ToUpper(s) },
	}
	var buf bytes.Buffer
	if err := engine.Render(&buf, "{{ site }}:{{ title|trim|lowerfirst }}:{{ shout(\"hi\") }}", ctx); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := buf.String(); got != "Docs:welcome:HI" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_IncludeFromFS(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"badge.tpl": &fstest.MapFile{Data: []byte("<b>{{ label }}</b>")},
	}
	engine := snippet.New(snippet.WithFS(files))
	var buf bytes.Buffer
	if err := engine.Render(&buf, `{% include "badge.tpl" %}`, map[string]any{"label": "new"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := buf.String(); got != "<b>new</b>" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRegisterFilter(t *testing.T) {
	t.Parallel()

	err := snippet.RegisterFilter("initials_test", func(in, _ any) (any, error) {
		var out strings.Builder
		for _, word := range strings.Fields(in.(string)) {
			out.WriteString(word[:1])
		}
		return out.String(), nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := snippet.RegisterFilter("initials_test", func(in, _ any) (any, error) { return in, nil }); err == nil {
		t.Fatalf("expected an error for a duplicate filter")
	}

	var buf bytes.Buffer
	if err := snippet.New().Render(&buf, "{{ name|initials_test }}", map[string]any{"name": "Ada Lovelace"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := buf.String(); got != "AL" {
		t.Fatalf("unexpected output %q", got)
	}
}
