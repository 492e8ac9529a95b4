package render

import "fmt"

// Element is one node of a compiled renderer tree. Children are added with
// AddElement while the tree is compiled; once published the tree is never
// mutated and Render may run concurrently against independent Models.
type Element interface {
	Render(m *Model) error
	AddElement(child Element) error
}

// Composite holds ordered children. Embed it to give a node child handling.
type Composite struct {
	children []Element
}

// AddElement appends a child.
func (c *Composite) AddElement(child Element) error {
	if child == nil {
		return ErrNilElement
	}
	c.children = append(c.children, child)
	return nil
}

// Children returns the children in order.
func (c *Composite) Children() []Element {
	return c.children
}

// Len returns the number of children.
func (c *Composite) Len() int {
	return len(c.children)
}

// RenderChildren renders every child in order, stopping at the first
// failure.
func (c *Composite) RenderChildren(m *Model) error {
	for _, child := range c.children {
		if err := child.Render(m); err != nil {
			return err
		}
	}
	return nil
}

// Group is a transparent node that renders its children in order. It is the
// result of group molds and the root of every compiled template.
type Group struct {
	Composite
}

// NewGroup returns a group holding children.
func NewGroup(children ...Element) *Group {
	g := &Group{}
	for _, child := range children {
		if child != nil {
			g.children = append(g.children, child)
		}
	}
	return g
}

// Render renders the children.
func (g *Group) Render(m *Model) error {
	return g.RenderChildren(m)
}

// Wrapping presents an outer shell and an inner continuation as one node.
// AddElement goes to the inner node and Render goes to the outer node, which
// holds the inner node as its child.
type Wrapping struct {
	outer Element
	inner Element
}

// NewWrapping adds inner to outer and returns the combined handle.
func NewWrapping(outer, inner Element) (*Wrapping, error) {
	if outer == nil || inner == nil {
		return nil, fmt.Errorf("render: wrapping requires outer and inner elements: %w", ErrNilElement)
	}
	if err := outer.AddElement(inner); err != nil {
		return nil, fmt.Errorf("render: wrapping: %w", err)
	}
	return &Wrapping{outer: outer, inner: inner}, nil
}

// AddElement adds child to the inner continuation.
func (w *Wrapping) AddElement(child Element) error {
	return w.inner.AddElement(child)
}

// Render renders the outer shell.
func (w *Wrapping) Render(m *Model) error {
	return w.outer.Render(m)
}

// Outer returns the shell node.
func (w *Wrapping) Outer() Element { return w.outer }

// Inner returns the continuation node.
func (w *Wrapping) Inner() Element { return w.inner }

// ElementFunc adapts a function into a leaf Element.
type ElementFunc func(m *Model) error

// Render calls the function.
func (fn ElementFunc) Render(m *Model) error { return fn(m) }

// AddElement always fails: function nodes take no children.
func (fn ElementFunc) AddElement(Element) error { return ErrNotContainer }

// Text writes a fixed string.
type Text string

// Render writes the text.
func (t Text) Render(m *Model) error { return m.WriteString(string(t)) }

// AddElement always fails: text nodes take no children.
func (t Text) AddElement(Element) error { return ErrNotContainer }

var (
	_ Element = (*Group)(nil)
	_ Element = (*Wrapping)(nil)
	_ Element = ElementFunc(nil)
	_ Element = Text("")
)
