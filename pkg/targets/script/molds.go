package script

import (
	"strconv"
	"strings"

	"github.com/thegaffer/tal-web-sub003/pkg/compiler"
	"github.com/thegaffer/tal-web-sub003/pkg/render"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// Property sets read by the molds.
const (
	SetWrapper   = "wrapper"
	SetValue     = "value"
	SetLabel     = "label"
	SetField     = "field"
	SetTimeField = "timeField"
)

// Events lists the handler keys looked up in the wrapper, value and label
// property sets, in attachment order.
var Events = []string{
	"onBlur", "onFocus", "onClick", "onDblClick",
	"onMouseDown", "onMouseUp", "onMouseOver", "onMouseOut", "onMouseMove",
	"onKeyDown", "onKeyUp", "onKeyPress",
}

// ElementMold recurses into children and referenced templates. Handlers
// adds attachments for the element's event handlers and a title
// attachment for references. Referenced templates are compiled so they are
// cached under the current styles; IncludeTemplates also adds their output.
type ElementMold struct {
	Styles           []string
	TemplateStyles   []string
	Handlers         bool
	IncludeTemplates bool
}

var _ compiler.Mold = ElementMold{}

// Compile builds the element's attachments.
func (m ElementMold) Compile(c *compiler.Compiler, t *template.Template, e *template.Element) (render.Element, error) {
	restore := applyStyles(c, m.Styles, m.TemplateStyles)
	defer restore()

	group := render.NewGroup()
	if len(e.Children) > 0 {
		if err := c.CompileChildren(t, e, group); err != nil {
			return nil, err
		}
	}
	for _, name := range referenced(e) {
		el, err := c.CompileTemplate(name, e, t)
		if err != nil {
			return nil, err
		}
		if m.IncludeTemplates && !empty(el) {
			if err := group.AddElement(el); err != nil {
				return nil, err
			}
		}
	}

	if m.Handlers {
		for _, el := range handlers(t, e) {
			if err := group.AddElement(el); err != nil {
				return nil, err
			}
		}
		if e.Is(template.CapReference) {
			if err := group.AddElement(Reference{Property: t.Name + "-" + e.Name}); err != nil {
				return nil, err
			}
		}
	}

	if group.Len() == 0 {
		return nil, nil
	}
	return group, nil
}

func referenced(e *template.Element) []string {
	var names []string
	if e.Member != nil && e.Member.Template != "" {
		names = append(names, e.Member.Template)
	}
	if e.Inner != "" {
		names = append(names, e.Inner)
	}
	return names
}

func empty(el render.Element) bool {
	if el == nil {
		return true
	}
	if sized, ok := el.(interface{ Len() int }); ok {
		return sized.Len() == 0
	}
	return false
}

func handlers(t *template.Template, e *template.Element) []render.Element {
	var out []render.Element
	property := t.Name + "-" + e.Name
	for _, set := range []string{SetWrapper, SetValue, SetLabel} {
		props := e.PropertySet(set)
		if len(props) == 0 {
			continue
		}
		role := ""
		if set != SetWrapper {
			role = "role-" + set
		}
		for _, event := range Events {
			fn, ok := props[event]
			if !ok {
				continue
			}
			out = append(out, Handler{
				Property: property,
				Role:     role,
				Event:    strings.ToLower(event),
				Handler:  fn,
			})
		}
	}
	return out
}

func applyStyles(c *compiler.Compiler, styles, templateStyles []string) func() {
	var added, addedTemplate []string
	for _, s := range styles {
		if c.AddStyle(s) {
			added = append(added, s)
		}
	}
	for _, s := range templateStyles {
		if c.AddTemplateStyle(s) {
			addedTemplate = append(addedTemplate, s)
		}
	}
	return func() {
		for _, s := range addedTemplate {
			c.RemoveTemplateStyle(s)
		}
		for _, s := range added {
			c.RemoveStyle(s)
		}
	}
}

// Attributes each widget accepts from settings or its property set, on
// top of the event handlers and defaultAttrs.
var (
	defaultAttrs  = []string{"intermediateChanges", "onChange"}
	textAttrs     = []string{"trim", "uppercase", "lowercase", "propercase", "maxLength"}
	validateAttrs = []string{"trim", "uppercase", "lowercase", "propercase", "promptMessage", "constraints", "regExpGen", "maxLength", "required", "regExp"}
	dateAttrs     = []string{"strict"}
	timeAttrs     = []string{"strict", "clickableIncrement", "visibleIncrement", "visibleRange"}
	numberAttrs   = []string{"pattern"}
	choiceAttrs   = []string{"pageSize", "autoComplete", "searchDelay", "minChars", "showId"}
	memoAttrs     = []string{"cols", "rows", "maxLength"}
	buttonAttrs   = []string{"label", "showLabel", "iconClass"}
)

const roleField = "role-field"

// FieldMold attaches a client side widget to each input of a form. The
// widget follows the element's type tag.
type FieldMold struct{}

var _ compiler.Mold = FieldMold{}

// Compile builds the field attachments.
func (FieldMold) Compile(_ *compiler.Compiler, t *template.Template, e *template.Element) (render.Element, error) {
	primary, err := e.Primary()
	if err != nil {
		return nil, compiler.ConfigError(err)
	}
	wrapper := t.Name + "-" + e.Name

	var fields []render.Element
	switch {
	case strings.HasSuffix(e.Type, template.TypeCommand):
		fields = append(fields, NewField(wrapper, roleField, "button", extras(e, SetField, buttonAttrs)))
	case primary != template.BehaviorDynamicProperty:
	case strings.HasSuffix(e.Type, template.TypeDate):
		fields = dateFields(wrapper, e)
	case strings.HasSuffix(e.Type, template.TypeNumber):
		attrs := extras(e, SetField, numberAttrs)
		if spec := e.Number; spec != nil {
			setFloat(attrs, "min", spec.Min)
			setFloat(attrs, "max", spec.Max)
			if spec.DecimalPlaces >= 0 {
				attrs["places"] = literal(strconv.Itoa(spec.DecimalPlaces))
			}
		}
		fields = append(fields, NewField(wrapper, roleField, "number", attrs))
	case strings.HasSuffix(e.Type, template.TypeChoice):
		attrs := extras(e, SetField, choiceAttrs)
		widget := "select"
		if spec := e.Coded; spec != nil {
			if spec.Unbounded {
				widget = "combo"
			}
			if spec.Unbounded || spec.Dynamic {
				setLiteral(attrs, "searchUrl", spec.SearchURL)
			}
		}
		fields = append(fields, NewField(wrapper, roleField, widget, attrs))
	case strings.HasSuffix(e.Type, template.TypeBool):
		fields = append(fields, NewField(wrapper, roleField, "checkbox", extras(e, SetField, nil)))
	case strings.HasSuffix(e.Type, template.TypeMemo):
		fields = append(fields, NewField(wrapper, roleField, "memo", extras(e, SetField, memoAttrs)))
	case strings.HasSuffix(e.Type, template.TypeText):
		fields = append(fields, NewField(wrapper, roleField, "text", extras(e, SetField, validateAttrs)))
	case e.Type == template.TypeProperty:
		fields = append(fields, NewField(wrapper, roleField, "input", extras(e, SetField, textAttrs)))
	}

	if len(fields) == 0 {
		return nil, nil
	}
	return render.NewGroup(fields...), nil
}

// dateFields attaches a date widget, a time widget or both depending on
// which parts the element formats.
func dateFields(wrapper string, e *template.Element) []render.Element {
	spec := e.Date
	hasTime := spec != nil && (spec.TimeStyle != "" || spec.TimePattern != "")
	hasDate := spec == nil || !hasTime || spec.DateStyle != "" || spec.DatePattern != ""

	var out []render.Element
	if hasDate {
		attrs := extras(e, SetField, dateAttrs)
		if spec != nil {
			setLiteral(attrs, "formatLength", string(spec.DateStyle))
			setLiteral(attrs, "datePattern", spec.DatePattern)
		}
		out = append(out, NewField(wrapper, roleField, "date", attrs))
	}
	if hasTime {
		attrs := extras(e, SetTimeField, timeAttrs)
		setLiteral(attrs, "formatLength", string(spec.TimeStyle))
		setLiteral(attrs, "timePattern", spec.TimePattern)
		out = append(out, NewField(wrapper, "role-timeField", "time", attrs))
	}
	return out
}

// extras collects event handlers, the default attributes and allowed from
// the element settings, falling back to the named property set. Handlers
// become calls taking the widget.
func extras(e *template.Element, set string, allowed []string) map[string]render.Parameter {
	attrs := make(map[string]render.Parameter)
	props := e.PropertySet(set)
	lookup := func(name string) (string, bool) {
		if v, ok := e.Setting(name); ok {
			return v, true
		}
		v, ok := props[name]
		return v, ok
	}
	for _, name := range Events {
		if v, ok := lookup(name); ok && v != "" {
			attrs[strings.ToLower(name)] = render.ParseParameter(v + "(this);")
		}
	}
	for _, group := range [][]string{defaultAttrs, allowed} {
		for _, name := range group {
			if v, ok := lookup(name); ok && v != "" {
				attrs[name] = render.ParseParameter(v)
			}
		}
	}
	return attrs
}

func literal(v string) render.Parameter {
	return render.LiteralParameter{Value: v}
}

func setLiteral(attrs map[string]render.Parameter, name, v string) {
	if v != "" {
		attrs[name] = literal(v)
	}
}

func setFloat(attrs map[string]render.Parameter, name string, v *float64) {
	if v != nil {
		attrs[name] = literal(strconv.FormatFloat(*v, 'f', -1, 64))
	}
}
