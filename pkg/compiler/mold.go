package compiler

import (
	"fmt"

	"github.com/thegaffer/tal-web-sub003/pkg/render"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// Mold turns one template element into a render element. A nil result with
// a nil error means the mold produced nothing for the element.
type Mold interface {
	Compile(c *Compiler, t *template.Template, e *template.Element) (render.Element, error)
}

// MoldFunc adapts a function into a Mold.
type MoldFunc func(c *Compiler, t *template.Template, e *template.Element) (render.Element, error)

// Compile calls the function.
func (fn MoldFunc) Compile(c *Compiler, t *template.Template, e *template.Element) (render.Element, error) {
	return fn(c, t, e)
}

// Fragment contributes one ingredient of a composite mold, such as a
// wrapper, a label or an input control. Fragments read the element and
// never modify it; a nil result declines.
type Fragment interface {
	Interested(c *Compiler, t *template.Template, e *template.Element) bool
	Compile(c *Compiler, mold Mold, t *template.Template, e *template.Element) (render.Element, error)
}

// FragmentFunc adapts a function into a Fragment that is interested in
// every element.
type FragmentFunc func(c *Compiler, mold Mold, t *template.Template, e *template.Element) (render.Element, error)

// Interested always reports true.
func (fn FragmentFunc) Interested(*Compiler, *template.Template, *template.Element) bool { return true }

// Compile calls the function.
func (fn FragmentFunc) Compile(c *Compiler, mold Mold, t *template.Template, e *template.Element) (render.Element, error) {
	return fn(c, mold, t, e)
}

// CompositeMold assembles an element from fragments: a wrapper that
// becomes the parent of every later ingredient, a label, exactly one
// behavior fragment chosen by the element's primary behavior and any
// trailing fragments.
type CompositeMold struct {
	Wrapper    Fragment
	Label      Fragment
	ByBehavior map[template.Behavior]Fragment
	Trailing   []Fragment

	// Styles are active while this mold compiles the element.
	Styles []string
	// TemplateStyles apply to templates compiled from within the element.
	TemplateStyles []string
	// RequireWrapper turns a declining wrapper into a configuration error.
	RequireWrapper bool
}

var _ Mold = (*CompositeMold)(nil)

// Compile runs the fragments in order.
func (m *CompositeMold) Compile(c *Compiler, t *template.Template, e *template.Element) (render.Element, error) {
	restore := c.apply(m.Styles, m.TemplateStyles)
	defer restore()

	var parent render.Element
	if m.Wrapper != nil && m.Wrapper.Interested(c, t, e) {
		wrapper, err := m.Wrapper.Compile(c, m, t, e)
		if err != nil {
			return nil, err
		}
		parent = wrapper
	}
	if parent == nil && m.RequireWrapper {
		return nil, ConfigError(fmt.Errorf("compiler: %s.%s: wrapper declined", t.Name, e.Name))
	}
	wrapped := parent != nil
	if !wrapped {
		parent = render.NewGroup()
	}

	added := 0
	add := func(f Fragment) error {
		if f == nil || !f.Interested(c, t, e) {
			return nil
		}
		el, err := f.Compile(c, m, t, e)
		if err != nil || el == nil {
			return err
		}
		if err := parent.AddElement(el); err != nil {
			return fmt.Errorf("compiler: %s.%s: %w", t.Name, e.Name, err)
		}
		added++
		return nil
	}

	if err := add(m.Label); err != nil {
		return nil, err
	}
	primary, err := e.Primary()
	if err != nil {
		return nil, ConfigError(err)
	}
	if err := add(m.ByBehavior[primary]); err != nil {
		return nil, err
	}
	for _, f := range m.Trailing {
		if err := add(f); err != nil {
			return nil, err
		}
	}

	if wrapped {
		return parent, nil
	}
	if added == 0 {
		return nil, nil
	}
	return parent, nil
}

// GroupMold compiles an element's children into a transparent group.
type GroupMold struct{}

var _ Mold = GroupMold{}

// Compile recurses into the children.
func (GroupMold) Compile(c *Compiler, t *template.Template, e *template.Element) (render.Element, error) {
	group := render.NewGroup()
	if err := c.CompileChildren(t, e, group); err != nil {
		return nil, err
	}
	return group, nil
}

// ChildrenFragment compiles the element's children into a transparent
// group. It is the behavior fragment for groups.
type ChildrenFragment struct {
	// TemplateStyles apply to templates compiled from within the children.
	TemplateStyles []string
}

var _ Fragment = ChildrenFragment{}

// Interested reports whether the element has children.
func (f ChildrenFragment) Interested(_ *Compiler, _ *template.Template, e *template.Element) bool {
	return len(e.Children) > 0
}

// Compile recurses into the children.
func (f ChildrenFragment) Compile(c *Compiler, _ Mold, t *template.Template, e *template.Element) (render.Element, error) {
	restore := c.apply(nil, f.TemplateStyles)
	defer restore()

	group := render.NewGroup()
	if err := c.CompileChildren(t, e, group); err != nil {
		return nil, err
	}
	if group.Len() == 0 {
		return nil, nil
	}
	return group, nil
}

// RequireSetting returns the named setting or a configuration error.
func RequireSetting(t *template.Template, e *template.Element, key string) (string, error) {
	if value, ok := e.Setting(key); ok && value != "" {
		return value, nil
	}
	return "", ConfigError(fmt.Errorf("%w: %s.%s needs %q", ErrMissingSetting, t.Name, e.Name, key))
}
