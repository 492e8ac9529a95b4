package markup

import (
	"strings"

	"github.com/thegaffer/tal-web-sub003/pkg/expr"
	"github.com/thegaffer/tal-web-sub003/pkg/render"
)

// TagOption configures a Tag.
type TagOption func(*Tag)

// WithID sets the id, adapted to the current position at render time.
func WithID(id string) TagOption {
	return func(t *Tag) {
		t.id = strings.TrimSpace(id)
	}
}

// WithClass adds static classes.
func WithClass(classes ...string) TagOption {
	return func(t *Tag) {
		t.addClass(classes...)
	}
}

// WithRole adds the theme classes of role at render time.
func WithRole(role string) TagOption {
	return func(t *Tag) {
		t.role = role
	}
}

// WithErrorField flags the tag with ErrorClass when the field has errors.
func WithErrorField(field string) TagOption {
	return func(t *Tag) {
		t.errorField = field
	}
}

// WithAttrs appends attributes.
func WithAttrs(attrs ...Attr) TagOption {
	return func(t *Tag) {
		t.attrs = append(t.attrs, attrs...)
	}
}

// WithPropertySet applies a property set's classes and attributes.
func WithPropertySet(props map[string]string) TagOption {
	return func(t *Tag) {
		classes, attrs := PropertyAttrs(props)
		t.addClass(classes...)
		t.attrs = append(t.attrs, attrs...)
	}
}

// WithNewline writes a line break after the end tag.
func WithNewline() TagOption {
	return func(t *Tag) {
		t.newline = true
	}
}

// WithBlock writes a line break after the start tag and after the end tag.
func WithBlock() TagOption {
	return func(t *Tag) {
		t.block, t.newline = true, true
	}
}

// WithIgnore skips the tag and its children when expression is true.
func WithIgnore(expression string) TagOption {
	return func(t *Tag) {
		t.ignore = expression
	}
}

// Tag is an HTML element rendering its children between the start and end
// tags.
type Tag struct {
	render.Composite
	decoration
	name    string
	id      string
	newline bool
	block   bool
	ignore  string
}

// NewTag builds a tag node.
func NewTag(name string, opts ...TagOption) *Tag {
	t := &Tag{name: name}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Name returns the element name.
func (t *Tag) Name() string { return t.name }

// Render writes the element.
func (t *Tag) Render(m *render.Model) error {
	if t.ignore != "" {
		skip, err := m.Evaluate(t.ignore, expr.KindBool)
		if err != nil {
			return err
		}
		if b, _ := skip.(bool); b {
			return nil
		}
	}
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(t.name)
	if t.id != "" {
		writeAttr(&b, "id", m.AdaptID(t.id))
	}
	if err := t.write(&b, m); err != nil {
		return err
	}
	b.WriteByte('>')
	if t.block {
		b.WriteByte('\n')
	}
	if err := m.WriteString(b.String()); err != nil {
		return err
	}
	if err := t.RenderChildren(m); err != nil {
		return err
	}
	end := "</" + t.name + ">"
	if t.newline {
		end += "\n"
	}
	return m.WriteString(end)
}

var _ render.Element = (*Tag)(nil)
