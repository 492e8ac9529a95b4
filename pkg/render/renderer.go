package render

import (
	"fmt"
	"io"
	"sort"
)

// Renderer is the entry point of a compiled template set. Render is
// synchronous and stops at the first failure.
type Renderer interface {
	Render(m *Model) error
}

// RendererFunc adapts a function into a Renderer.
type RendererFunc func(m *Model) error

// Render calls the function.
func (fn RendererFunc) Render(m *Model) error { return fn(m) }

// TemplateRenderer renders a single compiled template tree.
type TemplateRenderer struct {
	name string
	root Element
}

// NewTemplateRenderer binds a compiled tree to its template name.
func NewTemplateRenderer(name string, root Element) *TemplateRenderer {
	return &TemplateRenderer{name: name, root: root}
}

// Name returns the template name.
func (r *TemplateRenderer) Name() string { return r.name }

// Root returns the compiled tree.
func (r *TemplateRenderer) Root() Element { return r.root }

// Render walks the compiled tree.
func (r *TemplateRenderer) Render(m *Model) error {
	if r.root == nil {
		return fmt.Errorf("render: template %q has no compiled tree", r.name)
	}
	return r.root.Render(m)
}

// MultiRenderer renders several compiled templates one after the other, in
// template name order. Script targets use it to emit every template in a
// single pass.
type MultiRenderer struct {
	templates []*TemplateRenderer
}

// NewMultiRenderer sorts the templates by name.
func NewMultiRenderer(templates ...*TemplateRenderer) *MultiRenderer {
	sorted := make([]*TemplateRenderer, 0, len(templates))
	for _, t := range templates {
		if t != nil {
			sorted = append(sorted, t)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })
	return &MultiRenderer{templates: sorted}
}

// Templates returns the renderers in render order.
func (r *MultiRenderer) Templates() []*TemplateRenderer { return r.templates }

// Render renders every template.
func (r *MultiRenderer) Render(m *Model) error {
	for _, t := range r.templates {
		if err := t.Render(m); err != nil {
			return fmt.Errorf("render: template %q: %w", t.name, err)
		}
	}
	return nil
}

// RenderTo builds a model writing to w and renders r with it.
func RenderTo(w io.Writer, r Renderer, attrs map[string]any, opts ...ModelOption) error {
	if r == nil {
		return fmt.Errorf("render: renderer is required")
	}
	return r.Render(NewModel(w, attrs, opts...))
}

var (
	_ Renderer = (*TemplateRenderer)(nil)
	_ Renderer = (*MultiRenderer)(nil)
	_ Renderer = RendererFunc(nil)
)
