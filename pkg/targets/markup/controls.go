package markup

import (
	"strings"

	"github.com/thegaffer/tal-web-sub003/internal/introspect"
	"github.com/thegaffer/tal-web-sub003/pkg/expr"
	"github.com/thegaffer/tal-web-sub003/pkg/render"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// Input kinds.
const (
	InputText     = "text"
	InputHidden   = "hidden"
	InputNumber   = "number"
	InputDate     = "date"
	InputCheckbox = "checkbox"
)

const isoDate = "%Y-%m-%d"

// Input writes an input control bound to a property. The field name is
// the property name unless set otherwise.
type Input struct {
	decoration
	kind     string
	property string
	field    string
	checked  string
	date     bool
}

// InputOption configures an Input.
type InputOption func(*Input)

// InputField overrides the id and name of the control.
func InputField(field string) InputOption {
	return func(in *Input) {
		in.field = field
	}
}

// InputChecked sets the value a checkbox submits.
func InputChecked(value string) InputOption {
	return func(in *Input) {
		in.checked = value
	}
}

// InputDecoration applies classes, theme role and attributes.
func InputDecoration(classes []string, role string, attrs []Attr) InputOption {
	return func(in *Input) {
		in.addClass(classes...)
		in.role = role
		in.attrs = append(in.attrs, attrs...)
	}
}

// NewInput builds an input control.
func NewInput(kind, property string, opts ...InputOption) *Input {
	in := &Input{kind: kind, property: property, field: property, date: kind == InputDate}
	for _, opt := range opts {
		if opt != nil {
			opt(in)
		}
	}
	if in.kind == InputCheckbox && in.checked == "" {
		in.checked = "true"
	}
	return in
}

// Kind returns the input type.
func (in *Input) Kind() string { return in.kind }

// Render writes the control.
func (in *Input) Render(m *render.Model) error {
	value, err := m.Lookup(in.property)
	if err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString("<input")
	writeAttr(&b, "type", in.kind)
	writeAttr(&b, "id", m.AdaptID(in.field))
	writeAttr(&b, "name", m.AdaptName(in.field))
	switch {
	case in.kind == InputCheckbox:
		writeAttr(&b, "value", in.checked)
		if on, _ := expr.ToBool(value); on {
			b.WriteString(` checked="checked"`)
		}
	case in.date:
		if text, ok := render.FormatDate(m.Locale(), value, &template.DateSpec{DatePattern: isoDate}); ok {
			writeAttr(&b, "value", text)
		}
	default:
		writeAttr(&b, "value", expr.ToString(value))
	}
	if err := in.write(&b, m); err != nil {
		return err
	}
	b.WriteString("/>")
	return m.WriteString(b.String())
}

// AddElement always fails.
func (in *Input) AddElement(render.Element) error { return render.ErrNotContainer }

// TextArea writes a multi line text control.
type TextArea struct {
	decoration
	property string
}

// NewTextArea builds a text area.
func NewTextArea(property string, classes []string, role string, attrs []Attr) *TextArea {
	ta := &TextArea{property: property}
	ta.addClass(classes...)
	ta.role = role
	ta.attrs = attrs
	return ta
}

// Render writes the control.
func (ta *TextArea) Render(m *render.Model) error {
	value, err := m.Lookup(ta.property)
	if err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString("<textarea")
	writeAttr(&b, "id", m.AdaptID(ta.property))
	writeAttr(&b, "name", m.AdaptName(ta.property))
	if err := ta.write(&b, m); err != nil {
		return err
	}
	b.WriteByte('>')
	if err := m.WriteString(b.String()); err != nil {
		return err
	}
	if err := writeText(m, expr.ToString(value)); err != nil {
		return err
	}
	return m.WriteString("</textarea>")
}

// AddElement always fails.
func (ta *TextArea) AddElement(render.Element) error { return render.ErrNotContainer }

// Select writes a drop down of a coded property's codes. Labels are
// message keys.
type Select struct {
	decoration
	property string
	codes    []template.Code
}

// NewSelect builds a select control.
func NewSelect(property string, codes []template.Code, classes []string, role string, attrs []Attr) *Select {
	s := &Select{property: property, codes: append([]template.Code(nil), codes...)}
	s.addClass(classes...)
	s.role = role
	s.attrs = attrs
	return s
}

// Render writes the control with the current value selected.
func (s *Select) Render(m *render.Model) error {
	value, err := m.Lookup(s.property)
	if err != nil {
		return err
	}
	current := ""
	if !introspect.IsNil(value) {
		current = expr.ToString(value)
	}
	var b strings.Builder
	b.WriteString("<select")
	writeAttr(&b, "id", m.AdaptID(s.property))
	writeAttr(&b, "name", m.AdaptName(s.property))
	if err := s.write(&b, m); err != nil {
		return err
	}
	b.WriteByte('>')
	for _, code := range s.codes {
		b.WriteString("<option")
		b.WriteString(` value="`)
		b.WriteString(escape(code.Value))
		b.WriteByte('"')
		if code.Value == current {
			b.WriteString(` selected="selected"`)
		}
		b.WriteByte('>')
		label := code.Label
		if label == "" {
			label = code.Value
		}
		b.WriteString(escape(m.Message(label, label)))
		b.WriteString("</option>")
	}
	b.WriteString("</select>")
	return m.WriteString(b.String())
}

// AddElement always fails.
func (s *Select) AddElement(render.Element) error { return render.ErrNotContainer }

// Button writes a button submitting its name.
type Button struct {
	decoration
	kind  string
	name  string
	label string
	def   string
}

// NewButton builds a button. label is a message key, def its fallback.
func NewButton(kind, name, label, def string, classes []string, role string, attrs []Attr) *Button {
	btn := &Button{kind: kind, name: name, label: label, def: def}
	btn.addClass(classes...)
	btn.role = role
	btn.attrs = attrs
	return btn
}

// Render writes the button.
func (btn *Button) Render(m *render.Model) error {
	var b strings.Builder
	b.WriteString("<button")
	writeAttr(&b, "type", btn.kind)
	writeAttr(&b, "id", m.AdaptID(btn.name))
	writeAttr(&b, "name", btn.name)
	writeAttr(&b, "value", btn.name)
	if err := btn.write(&b, m); err != nil {
		return err
	}
	b.WriteByte('>')
	b.WriteString(escape(m.Message(btn.label, btn.def)))
	b.WriteString("</button>")
	return m.WriteString(b.String())
}

// AddElement always fails.
func (btn *Button) AddElement(render.Element) error { return render.ErrNotContainer }

var (
	_ render.Element = (*Input)(nil)
	_ render.Element = (*TextArea)(nil)
	_ render.Element = (*Select)(nil)
	_ render.Element = (*Button)(nil)
)
