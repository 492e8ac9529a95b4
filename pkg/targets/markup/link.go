package markup

import (
	"strings"

	"github.com/thegaffer/tal-web-sub003/pkg/render"
)

// Link writes an anchor whose href is an action URL resolved at the
// current position, then its children.
type Link struct {
	render.Composite
	decoration
	id     string
	action render.Action
}

// NewLink builds an anchor for action.
func NewLink(id string, action render.Action, classes []string, role string, attrs []Attr) *Link {
	l := &Link{id: id, action: action}
	l.addClass(classes...)
	l.role = role
	l.attrs = attrs
	return l
}

// Action returns the bound action.
func (l *Link) Action() render.Action { return l.action }

// Render writes the anchor.
func (l *Link) Render(m *render.Model) error {
	href, _, err := l.action.URL(m)
	if err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString("<a")
	if l.id != "" {
		writeAttr(&b, "id", m.AdaptID(l.id))
	}
	writeAttr(&b, "href", href)
	if err := l.write(&b, m); err != nil {
		return err
	}
	b.WriteByte('>')
	if err := m.WriteString(b.String()); err != nil {
		return err
	}
	if err := l.RenderChildren(m); err != nil {
		return err
	}
	return m.WriteString("</a>")
}

// Form writes a POST form for an action. The model's hidden fields are
// written before the children.
type Form struct {
	render.Composite
	decoration
	id     string
	action render.Action
}

// NewForm builds a form node.
func NewForm(id string, action render.Action, classes []string, role string, attrs []Attr) *Form {
	f := &Form{id: id, action: action}
	f.addClass(classes...)
	f.role = role
	f.attrs = attrs
	return f
}

// Render writes the form.
func (f *Form) Render(m *render.Model) error {
	target, _, err := f.action.URL(m)
	if err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString("<form")
	writeAttr(&b, "id", m.AdaptID(f.id))
	writeAttr(&b, "method", "post")
	writeAttr(&b, "action", target)
	if err := f.write(&b, m); err != nil {
		return err
	}
	b.WriteString(">\n")
	for _, field := range m.HiddenFields() {
		b.WriteString("<input")
		writeAttr(&b, "type", "hidden")
		writeAttr(&b, "name", field.Name)
		writeAttr(&b, "value", field.Value)
		b.WriteString("/>\n")
	}
	if err := m.WriteString(b.String()); err != nil {
		return err
	}
	if err := f.RenderChildren(m); err != nil {
		return err
	}
	return m.WriteString("</form>\n")
}

var (
	_ render.Element = (*Link)(nil)
	_ render.Element = (*Form)(nil)
)
