package render_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thegaffer/tal-web-sub003/pkg/render"
	"github.com/thegaffer/tal-web-sub003/pkg/testsupport"
)

func TestMultiRenderer_RendersInNameOrder(t *testing.T) {
	t.Parallel()

	r := render.NewMultiRenderer(
		render.NewTemplateRenderer("zeta", render.Text("z;")),
		nil,
		render.NewTemplateRenderer("alpha", render.Text("a;")),
	)
	if got := testsupport.RenderString(t, r, nil); got != "a;z;" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestTemplateRenderer_MissingTree(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := render.RenderTo(&buf, render.NewTemplateRenderer("empty", nil), nil); err == nil {
		t.Fatalf("expected error for missing tree")
	}
	if err := render.RenderTo(&buf, nil, nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := render.NewRegistry()
	html := render.NewTemplateRenderer("page", render.Text("<p/>"))
	if err := reg.Register("html", html); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("html", html); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := reg.Register(" ", html); err == nil {
		t.Fatalf("expected error for blank name")
	}
	reg.Replace("script", render.RendererFunc(func(*render.Model) error { return nil }))

	if diff := cmp.Diff([]string{"html", "script"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	got, err := reg.Get("html")
	if err != nil || got != html {
		t.Fatalf("get html = %v, %v", got, err)
	}
	if _, err := reg.Get("pdf"); err == nil {
		t.Fatalf("expected missing renderer error")
	}
	if !reg.Has("script") || reg.Has("pdf") {
		t.Fatalf("Has reported wrong membership")
	}
}
