package markup_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/thegaffer/tal-web-sub003/pkg/i18n"
	"github.com/thegaffer/tal-web-sub003/pkg/render"
	"github.com/thegaffer/tal-web-sub003/pkg/targets/markup"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
	"github.com/thegaffer/tal-web-sub003/pkg/testsupport"
)

func renderElement(t *testing.T, el render.Element, attrs map[string]any, opts ...render.ModelOption) string {
	t.Helper()

	var buf bytes.Buffer
	opts = append([]render.ModelOption{render.WithLogger(testsupport.DiscardLogger())}, opts...)
	if err := el.Render(render.NewModel(&buf, attrs, opts...)); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestPropertyAttrs(t *testing.T) {
	t.Parallel()

	classes, attrs := markup.PropertyAttrs(map[string]string{
		"class":      "a b",
		"styleClass": "c",
		"tag":        "section",
		"onClick":    "go()",
		"title":      "tip.key",
		"data-id":    "${this.id}",
	})
	if diff := cmp.Diff([]string{"a", "b", "c"}, classes); diff != "" {
		t.Fatalf("classes mismatch (-want +got):\n%s", diff)
	}
	want := []markup.Attr{
		{Name: "data-id", Value: render.ExpressionParameter{Expression: "${this.id}"}},
		{Name: "title", Value: render.ResourceParameter{Key: "tip.key", Default: "tip.key"}},
	}
	if diff := cmp.Diff(want, attrs); diff != "" {
		t.Fatalf("attrs mismatch (-want +got):\n%s", diff)
	}
}

func TestTag_IgnoreExpression(t *testing.T) {
	t.Parallel()

	tag := markup.NewTag("div", markup.WithID("box"), markup.WithIgnore("hide"))
	if err := tag.AddElement(render.Text("x")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := renderElement(t, tag, map[string]any{"hide": true}); got != "" {
		t.Fatalf("expected nothing, got %q", got)
	}
	if got := renderElement(t, tag, map[string]any{"hide": false}); got != `<div id="box">x</div>` {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestTag_EscapesAttributes(t *testing.T) {
	t.Parallel()

	tag := markup.NewTag("span", markup.WithAttrs(markup.Static("title", `"quoted" & <b>`)), markup.WithClass("x"))
	got := renderElement(t, tag, nil)
	want := `<span class="x" title="&#34;quoted&#34; &amp; &lt;b&gt;"></span>`
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestInput_DateUsesISOValue(t *testing.T) {
	t.Parallel()

	in := markup.NewInput(markup.InputDate, "born")
	got := renderElement(t, in, map[string]any{"born": time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)})
	want := `<input type="date" id="born" name="born" value="2024-03-05"/>`
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestSelect_NoMatchSelectsNothing(t *testing.T) {
	t.Parallel()

	sel := markup.NewSelect("status", []template.Code{{Value: "a", Label: "code.a"}}, nil, "", nil)
	got := renderElement(t, sel, map[string]any{"status": nil})
	want := `<select id="status" name="status"><option value="a">code.a</option></select>`
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestImage_EmptySourceWritesNothing(t *testing.T) {
	t.Parallel()

	img := markup.NewImage("avatar", []string{"role-value"}, nil)
	if got := renderElement(t, img, map[string]any{"avatar": ""}); got != "" {
		t.Fatalf("expected nothing, got %q", got)
	}
	got := renderElement(t, img, map[string]any{"avatar": "/a.png"})
	if got != `<img id="avatar" src="/a.png" class="role-value"/>` {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestLink_PrefixesNamespace(t *testing.T) {
	t.Parallel()

	link := markup.NewLink("open", render.Action{Name: "open"}, nil, "", nil)
	got := renderElement(t, link, nil,
		render.WithNamespace("crm"),
		render.WithURLGenerator(render.PathURLGenerator{Base: "/app"}),
	)
	if got != `<a id="crm-open" href="/app/crm/open"></a>` {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestMessages_ReadsEveryKind(t *testing.T) {
	t.Parallel()

	translator := render.TranslatorFunc(func(_ string, key string, args ...any) (string, error) {
		if key == "stock.low" {
			return i18n.Format("Only {0} left", args...), nil
		}
		return "", i18n.ErrMissingTranslation
	})
	node := markup.NewMessages("", markup.MessageSource{})
	got := renderElement(t, node, map[string]any{
		"errors":   []string{"bad <input>"},
		"warnings": []any{map[string]any{"code": "stock.low", "params": []any{3}}},
		"messages": "saved",
	}, render.WithTranslator(translator))

	want := `<div id="messages" class="messages">` + "\n" +
		`<div class="message error">bad &lt;input&gt;</div>` + "\n" +
		`<div class="message warning">Only 3 left</div>` + "\n" +
		`<div class="message">saved</div>` + "\n" +
		"</div>\n"
	if got != want {
		t.Fatalf("unexpected output:\nwant %q\ngot  %q", want, got)
	}
}

func TestMessages_EmptyWritesNothing(t *testing.T) {
	t.Parallel()

	node := markup.NewMessages("", markup.MessageSource{ErrorsAttribute: "problems"})
	got := renderElement(t, node, map[string]any{
		"problems": &render.Errors{Fields: map[string][]string{"name": {"required"}}},
	})
	if got != "" {
		t.Fatalf("expected nothing, got %q", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	out, err := markup.RenderMarkdown("# Title\n\n[x](javascript:alert(1))")
	if err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if !strings.Contains(out, "<h1") || strings.Contains(out, "javascript:") {
		t.Fatalf("unexpected output %q", out)
	}
}
