package markup

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/thegaffer/tal-web-sub003/pkg/expr"
	"github.com/thegaffer/tal-web-sub003/pkg/render"
	"github.com/thegaffer/tal-web-sub003/pkg/snippet"
)

// Value writes a property of the current object, formatted for display and
// escaped.
type Value struct {
	property string
	format   render.ValueFormat
}

// NewValue builds a value node for property.
func NewValue(property string, format render.ValueFormat) *Value {
	return &Value{property: property, format: format}
}

// Render writes the formatted value.
func (v *Value) Render(m *render.Model) error {
	value, err := m.Lookup(v.property)
	if err != nil {
		return err
	}
	return writeText(m, v.format.Format(m, value))
}

// AddElement always fails.
func (v *Value) AddElement(render.Element) error { return render.ErrNotContainer }

// Message writes a localized message.
type Message struct {
	key string
	def string
}

// NewMessage builds a message node. def is used when the key has no
// translation.
func NewMessage(key, def string) *Message {
	return &Message{key: key, def: def}
}

// Render writes the escaped message.
func (t *Message) Render(m *render.Model) error {
	return writeText(m, m.Message(t.key, t.def))
}

// AddElement always fails.
func (t *Message) AddElement(render.Element) error { return render.ErrNotContainer }

var (
	ugcOnce   sync.Once
	ugcPolicy *bluemonday.Policy

	markdownOnce sync.Once
	markdownConv goldmark.Markdown
)

func sanitizer() *bluemonday.Policy {
	ugcOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
	})
	return ugcPolicy
}

func markdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownConv = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownConv
}

// SanitizeHTML strips markup a user could abuse, keeping formatting tags.
func SanitizeHTML(raw string) string {
	return sanitizer().Sanitize(raw)
}

// RenderMarkdown converts markdown to sanitized HTML.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown().Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markup: markdown: %w", err)
	}
	return sanitizer().Sanitize(buf.String()), nil
}

// Markup writes an HTML property after sanitizing it.
type Markup struct {
	property string
}

// NewMarkup builds a sanitized HTML node.
func NewMarkup(property string) *Markup {
	return &Markup{property: property}
}

// Render writes the sanitized value.
func (h *Markup) Render(m *render.Model) error {
	value, err := m.Lookup(h.property)
	if err != nil {
		return err
	}
	if out := SanitizeHTML(expr.ToString(value)); out != "" {
		return m.WriteString(out)
	}
	return nil
}

// AddElement always fails.
func (h *Markup) AddElement(render.Element) error { return render.ErrNotContainer }

// Markdown writes a markdown property as sanitized HTML.
type Markdown struct {
	property string
}

// NewMarkdown builds a markdown node.
func NewMarkdown(property string) *Markdown {
	return &Markdown{property: property}
}

// Render converts and writes the value.
func (d *Markdown) Render(m *render.Model) error {
	value, err := m.Lookup(d.property)
	if err != nil {
		return err
	}
	source := expr.ToString(value)
	if strings.TrimSpace(source) == "" {
		return nil
	}
	out, err := RenderMarkdown(source)
	if err != nil {
		return err
	}
	return m.WriteString(out)
}

// AddElement always fails.
func (d *Markdown) AddElement(render.Element) error { return render.ErrNotContainer }

// Snippet renders a property through a pongo2 snippet compiled with the
// template. The snippet sees the value, the current object as "this", the
// model attributes as "attrs", the element "id" and "name", and a
// "message" function.
type Snippet struct {
	property string
	snippet  *snippet.Snippet
}

// NewSnippet binds a compiled snippet to property.
func NewSnippet(property string, s *snippet.Snippet) *Snippet {
	return &Snippet{property: property, snippet: s}
}

// Render executes the snippet.
func (s *Snippet) Render(m *render.Model) error {
	value, err := m.Lookup(s.property)
	if err != nil {
		return err
	}
	var this any
	if current := m.CurrentNode(); current != nil {
		this = current.Object()
	}
	ctx := render.TemplateFuncs(m, render.TemplateFuncsConfig{})
	ctx["value"] = value
	ctx["this"] = this
	ctx["attrs"] = m.Attributes()
	ctx["id"] = m.AdaptID(s.property)
	ctx["name"] = m.AdaptName(s.property)
	var out strings.Builder
	if err := s.snippet.Execute(&out, ctx); err != nil {
		return fmt.Errorf("markup: snippet %q: %w", s.property, err)
	}
	return m.WriteString(out.String())
}

// AddElement always fails.
func (s *Snippet) AddElement(render.Element) error { return render.ErrNotContainer }

// Image writes an img tag whose source is the property value.
type Image struct {
	decoration
	property string
}

// NewImage builds an image node.
func NewImage(property string, classes []string, attrs []Attr) *Image {
	img := &Image{property: property}
	img.addClass(classes...)
	img.attrs = attrs
	return img
}

// Render writes the tag, or nothing for an empty source.
func (i *Image) Render(m *render.Model) error {
	value, err := m.Lookup(i.property)
	if err != nil {
		return err
	}
	src := expr.ToString(value)
	if src == "" {
		return nil
	}
	var b strings.Builder
	b.WriteString("<img")
	writeAttr(&b, "id", m.AdaptID(i.property))
	writeAttr(&b, "src", src)
	if err := i.write(&b, m); err != nil {
		return err
	}
	b.WriteString("/>")
	return m.WriteString(b.String())
}

// AddElement always fails.
func (i *Image) AddElement(render.Element) error { return render.ErrNotContainer }

var (
	_ render.Element = (*Value)(nil)
	_ render.Element = (*Message)(nil)
	_ render.Element = (*Markup)(nil)
	_ render.Element = (*Markdown)(nil)
	_ render.Element = (*Snippet)(nil)
	_ render.Element = (*Image)(nil)
)
