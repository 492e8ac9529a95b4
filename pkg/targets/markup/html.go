package markup

import (
	"html"
	"sort"
	"strings"

	"github.com/thegaffer/tal-web-sub003/pkg/expr"
	"github.com/thegaffer/tal-web-sub003/pkg/render"
)

// Styles consulted by the HTML molds and fragments.
const (
	StyleForm        = "form"
	StyleTable       = "table"
	StyleTableMember = "table-member"
	StyleTableRow    = "table-row"
	StyleNoLabel     = "no-label"
	StyleInElement   = "in-element"
)

// Property sets read by the fragments. They double as theme roles.
const (
	SetWrapper  = "htmlWrapper"
	SetLabel    = "htmlLabel"
	SetField    = "htmlField"
	SetValue    = "htmlValue"
	SetLink     = "htmlLink"
	SetForm     = "htmlForm"
	SetTable    = "htmlTable"
	SetHeadings = "htmlHeadings"
)

// ErrorClass marks wrappers of fields with validation errors.
const ErrorClass = "error"

// Attr is an HTML attribute whose value is resolved per render. Attributes
// resolving to nil or "" are omitted.
type Attr struct {
	Name  string
	Value render.Parameter
}

// Static returns a fixed attribute.
func Static(name, value string) Attr {
	return Attr{Name: name, Value: render.LiteralParameter{Value: value}}
}

// idParameter resolves to the element id of name at the current position.
type idParameter string

func (p idParameter) Resolve(m *render.Model) (any, error) {
	return m.AdaptID(string(p)), nil
}

// nameParameter resolves to the field name of name at the current position.
type nameParameter string

func (p nameParameter) Resolve(m *render.Model) (any, error) {
	return m.AdaptName(string(p)), nil
}

// PropertyAttrs splits a property set into CSS classes and attributes.
// "class" and "styleClass" hold classes; "title" and "accessKey" are
// message keys; "tag" and on* handlers are consumed elsewhere. Attributes
// come back in name order.
func PropertyAttrs(props map[string]string) ([]string, []Attr) {
	if len(props) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var classes []string
	var attrs []Attr
	for _, key := range keys {
		value := props[key]
		switch {
		case key == "class" || key == "styleClass":
			classes = append(classes, strings.Fields(value)...)
		case key == "tag" || isHandler(key):
		case key == "title" || key == "accessKey":
			attrs = append(attrs, Attr{Name: strings.ToLower(key), Value: render.ResourceParameter{Key: value, Default: value}})
		default:
			attrs = append(attrs, Attr{Name: key, Value: render.ParseParameter(value)})
		}
	}
	return classes, attrs
}

func isHandler(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on") && key[2] >= 'A' && key[2] <= 'Z'
}

// decoration is the attribute state shared by every HTML node: static
// classes, the theme role, the field whose errors flag the node and extra
// attributes.
type decoration struct {
	classes    []string
	role       string
	errorField string
	attrs      []Attr
}

func (d *decoration) addClass(classes ...string) {
	for _, class := range classes {
		for _, c := range strings.Fields(class) {
			if !contains(d.classes, c) {
				d.classes = append(d.classes, c)
			}
		}
	}
}

// classList joins static classes, theme classes and the error marker.
func (d *decoration) classList(m *render.Model) string {
	classes := append([]string(nil), d.classes...)
	if d.role != "" {
		for _, c := range strings.Fields(m.ThemeClass(d.role)) {
			if !contains(classes, c) {
				classes = append(classes, c)
			}
		}
	}
	if d.errorField != "" && m.IsError(d.errorField) {
		classes = append(classes, ErrorClass)
	}
	return strings.Join(classes, " ")
}

func (d *decoration) write(b *strings.Builder, m *render.Model) error {
	writeAttr(b, "class", d.classList(m))
	for _, attr := range d.attrs {
		if attr.Value == nil {
			continue
		}
		value, err := attr.Value.Resolve(m)
		if err != nil {
			return err
		}
		writeAttr(b, attr.Name, expr.ToString(value))
	}
	return nil
}

func writeAttr(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteByte('"')
}

func writeText(m *render.Model, text string) error {
	if text == "" {
		return nil
	}
	return m.WriteString(escape(text))
}

func escape(text string) string { return html.EscapeString(text) }

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
