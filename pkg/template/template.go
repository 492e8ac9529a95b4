package template

import (
	"fmt"
	"strings"
	"sync"
)

// Template is a named, ordered tree of elements plus named property sets.
// Templates are built by a reader (or by hand), initialised once with Init
// and read-only afterwards.
type Template struct {
	Name         string
	Shape        DataShape
	Elements     []*Element
	PropertySets map[string]map[string]string
	Settings     map[string]string

	once    sync.Once
	initErr error
	frozen  bool
}

// NewTemplate constructs a template with the supplied top-level elements.
func NewTemplate(name string, elements ...*Element) *Template {
	return &Template{
		Name:     strings.TrimSpace(name),
		Elements: append([]*Element(nil), elements...),
	}
}

// NewShapedTemplate constructs a template that populates its elements from
// shape when Init runs.
func NewShapedTemplate(name string, shape DataShape) *Template {
	return &Template{Name: strings.TrimSpace(name), Shape: shape}
}

// AddElement appends a top-level element before initialisation.
func (t *Template) AddElement(el *Element) error {
	if t.frozen {
		return fmt.Errorf("%w: %s", ErrFrozen, t.Name)
	}
	if el == nil {
		return fmt.Errorf("template: %s: element is required", t.Name)
	}
	t.Elements = append(t.Elements, el)
	return nil
}

// Init self-populates the template from its shape when it has no elements,
// resolves member kinds the shape knows about, and validates every element.
// Repeated calls return the first result.
func (t *Template) Init() error {
	t.once.Do(func() {
		t.initErr = t.init()
		t.frozen = true
	})
	return t.initErr
}

// Initialised reports whether Init has run.
func (t *Template) Initialised() bool {
	return t.frozen
}

func (t *Template) init() error {
	if t.Name == "" {
		return fmt.Errorf("template: template name is required")
	}
	if t.Shape != nil {
		if len(t.Elements) == 0 {
			t.Elements = ElementsFromShape(t.Shape)
		}
		applyShape(t.Shape, t.Elements)
	}

	seen := make(map[string]struct{}, len(t.Elements))
	for _, el := range t.Elements {
		if el == nil {
			return fmt.Errorf("template: %s: nil element", t.Name)
		}
		if _, dup := seen[el.Name]; dup {
			return fmt.Errorf("%w: %s.%s", ErrDuplicateElement, t.Name, el.Name)
		}
		seen[el.Name] = struct{}{}
		if err := el.init(t.Name); err != nil {
			return err
		}
	}
	return nil
}

// Element finds a top-level element by name.
func (t *Template) Element(name string) (*Element, bool) {
	for _, el := range t.Elements {
		if el.Name == name {
			return el, true
		}
	}
	return nil, false
}

// PropertySet returns the template-level property set, or nil.
func (t *Template) PropertySet(name string) map[string]string {
	if t == nil || t.PropertySets == nil {
		return nil
	}
	return t.PropertySets[name]
}

// References lists the template names referenced by member and
// inner-template elements, in document order and without duplicates.
func (t *Template) References() []string {
	var out []string
	seen := make(map[string]struct{})
	var walk func([]*Element)
	walk = func(elements []*Element) {
		for _, el := range elements {
			var ref string
			switch {
			case el.Member != nil:
				ref = el.Member.Template
			case el.Inner != "":
				ref = el.Inner
			}
			if ref != "" {
				if _, ok := seen[ref]; !ok {
					seen[ref] = struct{}{}
					out = append(out, ref)
				}
			}
			walk(el.Children)
		}
	}
	walk(t.Elements)
	return out
}

// applyShape fills member kinds and targets left unknown by the author.
func applyShape(shape DataShape, elements []*Element) {
	fields := make(map[string]Field)
	for _, f := range shape.Fields() {
		fields[f.Name] = f
	}
	for _, el := range elements {
		if el == nil {
			continue
		}
		if el.Member != nil {
			if f, ok := fields[el.Name]; ok {
				if el.Member.Kind == MemberUnknown {
					el.Member.Kind = f.Kind.memberKind()
				}
				if el.Member.Template == "" {
					el.Member.Template = f.Template
				}
			}
		}
		if el.Is(CapContainer) && el.Member == nil {
			// groups share the shape of their enclosing template
			applyShape(shape, el.Children)
		}
	}
}
