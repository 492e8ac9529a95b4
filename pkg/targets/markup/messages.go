package markup

import (
	"strings"

	"github.com/thegaffer/tal-web-sub003/internal/introspect"
	"github.com/thegaffer/tal-web-sub003/pkg/expr"
	"github.com/thegaffer/tal-web-sub003/pkg/render"
)

// MessageSource names the model attributes a Messages node reads and how
// each item is unpacked.
type MessageSource struct {
	ErrorsAttribute   string
	WarningsAttribute string
	MessagesAttribute string
	MessageProperty   string
	ParamsProperty    string
}

// DefaultMessageSource reads "errors", "warnings" and "messages", with
// items carrying "code" and "params".
func DefaultMessageSource() MessageSource {
	return MessageSource{
		ErrorsAttribute:   render.ErrorsAttribute,
		WarningsAttribute: "warnings",
		MessagesAttribute: "messages",
		MessageProperty:   "code",
		ParamsProperty:    "params",
	}
}

// Messages writes the form level errors, warnings and informational
// messages held in model attributes. Nothing is written when there are
// none.
type Messages struct {
	id     string
	source MessageSource
}

// NewMessages builds a messages node.
func NewMessages(id string, source MessageSource) *Messages {
	def := DefaultMessageSource()
	if source.ErrorsAttribute == "" {
		source.ErrorsAttribute = def.ErrorsAttribute
	}
	if source.WarningsAttribute == "" {
		source.WarningsAttribute = def.WarningsAttribute
	}
	if source.MessagesAttribute == "" {
		source.MessagesAttribute = def.MessagesAttribute
	}
	if source.MessageProperty == "" {
		source.MessageProperty = def.MessageProperty
	}
	if source.ParamsProperty == "" {
		source.ParamsProperty = def.ParamsProperty
	}
	if id == "" {
		id = "messages"
	}
	return &Messages{id: id, source: source}
}

type messageLine struct {
	class string
	text  string
}

// Render writes the messages.
func (n *Messages) Render(m *render.Model) error {
	var lines []messageLine
	add := func(attr, class string) {
		for _, text := range n.collect(m, m.Attribute(attr)) {
			lines = append(lines, messageLine{class: class, text: text})
		}
	}
	add(n.source.ErrorsAttribute, "message error")
	add(n.source.WarningsAttribute, "message warning")
	add(n.source.MessagesAttribute, "message")
	if len(lines) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("<div")
	writeAttr(&b, "id", m.AdaptID(n.id))
	writeAttr(&b, "class", "messages")
	b.WriteString(">\n")
	for _, line := range lines {
		b.WriteString("<div")
		writeAttr(&b, "class", line.class)
		b.WriteByte('>')
		b.WriteString(escape(line.text))
		b.WriteString("</div>\n")
	}
	b.WriteString("</div>\n")
	return m.WriteString(b.String())
}

// AddElement always fails.
func (n *Messages) AddElement(render.Element) error { return render.ErrNotContainer }

func (n *Messages) collect(m *render.Model, value any) []string {
	if introspect.IsNil(value) {
		return nil
	}
	switch v := value.(type) {
	case *render.Errors:
		return n.items(m, toAny(v.Form))
	case render.Errors:
		return n.items(m, toAny(v.Form))
	case string:
		return n.items(m, []any{v})
	}
	if items, ok := introspect.Items(value); ok {
		return n.items(m, items)
	}
	if entries, ok := introspect.Entries(value); ok {
		var out []string
		for _, entry := range entries {
			out = append(out, n.collect(m, entry.Value)...)
		}
		return out
	}
	return n.items(m, []any{value})
}

func (n *Messages) items(m *render.Model, items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if text := n.text(m, item); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func (n *Messages) text(m *render.Model, item any) string {
	if introspect.IsNil(item) {
		return ""
	}
	if code, ok := item.(string); ok {
		return m.Message(code, code)
	}
	raw, ok := introspect.Property(item, n.source.MessageProperty)
	if !ok {
		return expr.ToString(item)
	}
	code := expr.ToString(raw)
	if code == "" {
		return ""
	}
	var args []any
	if params, ok := introspect.Property(item, n.source.ParamsProperty); ok && !introspect.IsNil(params) {
		if list, ok := introspect.Items(params); ok {
			args = list
		} else {
			args = []any{params}
		}
	}
	return m.Message(code, code, args...)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

var _ render.Element = (*Messages)(nil)
