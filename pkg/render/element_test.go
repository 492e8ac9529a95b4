package render_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/thegaffer/tal-web-sub003/pkg/render"
)

type tag struct {
	render.Composite
	name string
}

func (t *tag) Render(m *render.Model) error {
	if err := m.WriteString("<" + t.name + ">"); err != nil {
		return err
	}
	if err := t.RenderChildren(m); err != nil {
		return err
	}
	return m.WriteString("</" + t.name + ">")
}

func TestWrapping_ForwardsChildrenAndRender(t *testing.T) {
	t.Parallel()

	outer := &tag{name: "div"}
	inner := &tag{name: "span"}
	w, err := render.NewWrapping(outer, inner)
	if err != nil {
		t.Fatalf("wrapping: %v", err)
	}
	if err := w.AddElement(render.Text("a")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := w.AddElement(render.Text("b")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if outer.Len() != 1 || inner.Len() != 2 {
		t.Fatalf("children misrouted: outer %d inner %d", outer.Len(), inner.Len())
	}

	var buf bytes.Buffer
	if err := w.Render(render.NewModel(&buf, nil)); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := buf.String(); got != "<div><span>ab</span></div>" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestWrapping_Nested(t *testing.T) {
	t.Parallel()

	first, err := render.NewWrapping(&tag{name: "a"}, &tag{name: "b"})
	if err != nil {
		t.Fatalf("wrapping: %v", err)
	}
	second, err := render.NewWrapping(first, &tag{name: "c"})
	if err != nil {
		t.Fatalf("wrapping: %v", err)
	}
	if err := second.AddElement(render.Text("x")); err != nil {
		t.Fatalf("add: %v", err)
	}
	var buf bytes.Buffer
	if err := second.Render(render.NewModel(&buf, nil)); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := buf.String(); got != "<a><b><c>x</c></b></a>" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestWrapping_RequiresBothParts(t *testing.T) {
	t.Parallel()

	if _, err := render.NewWrapping(nil, render.NewGroup()); !errors.Is(err, render.ErrNilElement) {
		t.Fatalf("expected ErrNilElement, got %v", err)
	}
	if _, err := render.NewWrapping(render.Text("leaf"), render.NewGroup()); !errors.Is(err, render.ErrNotContainer) {
		t.Fatalf("expected ErrNotContainer, got %v", err)
	}
}

func TestGroup_RendersInOrderAndStopsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	g := render.NewGroup(render.Text("1"), nil, render.Text("2"))
	if err := g.AddElement(render.ElementFunc(func(*render.Model) error { return boom })); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := g.AddElement(render.Text("3")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := g.AddElement(nil); !errors.Is(err, render.ErrNilElement) {
		t.Fatalf("expected ErrNilElement, got %v", err)
	}

	var buf bytes.Buffer
	if err := g.Render(render.NewModel(&buf, nil)); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got := buf.String(); got != "12" {
		t.Fatalf("unexpected output %q", got)
	}
}
