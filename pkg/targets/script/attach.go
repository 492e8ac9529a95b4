package script

import (
	"sort"
	"strings"
	texttemplate "text/template"

	"github.com/thegaffer/tal-web-sub003/pkg/expr"
	"github.com/thegaffer/tal-web-sub003/pkg/render"
)

// Handler binds a client side function to an event of a rendered element.
// The generated code calls dynamicHandlerAttach once the page has loaded.
type Handler struct {
	// Property identifies the element as "<template>-<element>".
	Property string
	// Role is the part of the element the handler attaches to, such as
	// "role-value". Empty means the wrapper.
	Role    string
	Event   string
	Handler string
}

var _ render.Element = Handler{}

// Render writes the attachment.
func (h Handler) Render(m *render.Model) error {
	var b strings.Builder
	b.WriteString("dynamicOnLoad(function() {\n")
	b.WriteString("\tvar input = {\n")
	b.WriteString("\t\tpropertyName : \"" + jsString(h.Property) + "\",\n")
	if h.Role != "" {
		b.WriteString("\t\troleName : \"" + jsString(h.Role) + "\",\n")
	}
	b.WriteString("\t\teventName : \"" + jsString(h.Event) + "\",\n")
	b.WriteString("\t\thandlerName : \"" + jsString(h.Handler) + "\"\n")
	b.WriteString("\t};\n")
	b.WriteString("\tdynamicHandlerAttach(input.propertyName, input.roleName, input.eventName, input.handlerName);\n")
	b.WriteString("});\n\n")
	return m.WriteString(b.String())
}

// AddElement rejects children.
func (Handler) AddElement(render.Element) error { return render.ErrNotContainer }

// FieldAttribute is one widget attribute of a field attachment.
type FieldAttribute struct {
	Name  string
	Value render.Parameter
}

// Field turns a rendered input into a client side widget of Widget type
// through dynamicFieldAttach_<Widget>. Attributes resolving to nothing are
// left out.
type Field struct {
	Wrapper    string
	Role       string
	Widget     string
	Attributes []FieldAttribute
}

var _ render.Element = (*Field)(nil)

// NewField builds a field attachment with attributes sorted by name.
func NewField(wrapper, role, widget string, attrs map[string]render.Parameter) *Field {
	f := &Field{Wrapper: wrapper, Role: role, Widget: widget}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if attrs[name] != nil {
			f.Attributes = append(f.Attributes, FieldAttribute{Name: name, Value: attrs[name]})
		}
	}
	return f
}

// Render writes the attachment.
func (f *Field) Render(m *render.Model) error {
	var b strings.Builder
	b.WriteString("dynamicOnLoad(function() {\n")
	b.WriteString("\tvar input = {\n")
	b.WriteString("\t\twrapperType : \"" + jsString(f.Wrapper) + "\",\n")
	b.WriteString("\t\troleName : \"" + jsString(f.Role) + "\"")

	first := true
	for _, attr := range f.Attributes {
		value, err := attr.Value.Resolve(m)
		if err != nil {
			return err
		}
		text := expr.ToString(value)
		if text == "" {
			continue
		}
		if first {
			b.WriteString(",\n\t\tattributes : {\n")
		} else {
			b.WriteString(",\n")
		}
		b.WriteString("\t\t\t" + attr.Name + " : \"" + jsString(text) + "\"")
		first = false
	}
	if !first {
		b.WriteString(" }")
	}

	b.WriteString("\n\t};\n")
	b.WriteString("\tdynamicFieldAttach_" + f.Widget + "(input.wrapperType, input.roleName, input.attributes);\n")
	b.WriteString("});\n\n")
	return m.WriteString(b.String())
}

// AddElement rejects children.
func (*Field) AddElement(render.Element) error { return render.ErrNotContainer }

// Reference marks an element that refers to another page, so the client
// can attach a title to it.
type Reference struct {
	Property string
}

var _ render.Element = Reference{}

// Render writes the attachment.
func (r Reference) Render(m *render.Model) error {
	return m.WriteString("dynamicOnLoad(function() {\n\tdynamicTitleAttach('" + jsString(r.Property) + "', null);\n});\n\n")
}

// AddElement rejects children.
func (Reference) AddElement(render.Element) error { return render.ErrNotContainer }

func jsString(s string) string {
	return texttemplate.JSEscapeString(s)
}
