package markup

import (
	"fmt"
	"strings"

	"github.com/thegaffer/tal-web-sub003/pkg/compiler"
	"github.com/thegaffer/tal-web-sub003/pkg/render"
	"github.com/thegaffer/tal-web-sub003/pkg/snippet"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// Static classes the fragments add.
const (
	classWrapper = "role-wrapper"
	classLabel   = "role-label"
	classValue   = "role-value"
	classField   = "role-field"
)

func isDynamic(e *template.Element) bool {
	primary, err := e.Primary()
	return err == nil && primary == template.BehaviorDynamicProperty
}

// WrapperFragment opens the element's outer tag. Top level elements get
// Tag, which defaults to div, elements inside another element get a span
// and elements in a table row get a cell. The "tag" entry of htmlWrapper
// overrides the choice.
type WrapperFragment struct {
	Tag string
}

var _ compiler.Fragment = WrapperFragment{}

// Interested declines hidden properties outside forms.
func (f WrapperFragment) Interested(c *compiler.Compiler, _ *template.Template, e *template.Element) bool {
	return !e.Is(template.CapHidden) || c.HasStyle(StyleForm)
}

// Compile builds the wrapper tag.
func (f WrapperFragment) Compile(c *compiler.Compiler, _ compiler.Mold, t *template.Template, e *template.Element) (render.Element, error) {
	props := e.PropertySet(SetWrapper)
	name := f.Tag
	if name == "" {
		name = "div"
	}
	switch {
	case c.HasStyle(StyleInElement):
		name = "span"
	case c.HasStyle(StyleTableRow):
		name = "td"
	}
	if tag := strings.TrimSpace(props["tag"]); tag != "" {
		name = tag
	}

	dynamic := isDynamic(e)
	suffix := "-grp"
	if dynamic {
		suffix = "-fld"
	}
	opts := []TagOption{
		WithID(e.Name + suffix),
		WithClass(e.Type, classWrapper, t.Name+"-"+e.Name),
		WithPropertySet(props),
		WithRole(SetWrapper),
	}
	if dynamic && name != "td" {
		opts = append(opts, WithErrorField(e.Name))
	}
	if name == "div" || name == "td" {
		opts = append(opts, WithNewline())
	}
	return NewTag(name, opts...), nil
}

// LabelFragment writes the element label. Dynamic properties are always
// labelled, other elements only when they carry a "label" setting.
type LabelFragment struct{}

var _ compiler.Fragment = LabelFragment{}

// Interested reports whether the element gets a label.
func (LabelFragment) Interested(c *compiler.Compiler, _ *template.Template, e *template.Element) bool {
	if c.HasStyle(StyleNoLabel) || e.Is(template.CapHidden) {
		return false
	}
	if isDynamic(e) {
		return true
	}
	label, ok := e.Setting("label")
	return ok && label != ""
}

// Compile builds the label.
func (LabelFragment) Compile(_ *compiler.Compiler, _ compiler.Mold, t *template.Template, e *template.Element) (render.Element, error) {
	label := NewTag("label",
		WithAttrs(Attr{Name: "for", Value: idParameter(e.Name)}),
		WithClass(classLabel),
		WithPropertySet(e.PropertySet(SetLabel)),
		WithRole(SetLabel),
	)
	if err := label.AddElement(NewMessage(labelKey(t, e), e.SettingOr("label", e.Name))); err != nil {
		return nil, err
	}
	return label, nil
}

func labelKey(t *template.Template, e *template.Element) string {
	return "label." + t.Name + "." + e.Name
}

// ValueFragment writes a property for display.
type ValueFragment struct{}

var _ compiler.Fragment = ValueFragment{}

// Interested accepts dynamic properties that are not hidden.
func (ValueFragment) Interested(_ *compiler.Compiler, _ *template.Template, e *template.Element) bool {
	return isDynamic(e) && !e.Is(template.CapHidden)
}

// Compile builds the value node for the element's capability.
func (ValueFragment) Compile(_ *compiler.Compiler, _ compiler.Mold, t *template.Template, e *template.Element) (render.Element, error) {
	classes, attrs := PropertyAttrs(e.PropertySet(SetValue))
	classes = append([]string{classValue}, classes...)
	holder := func(name string, child render.Element) (render.Element, error) {
		tag := NewTag(name, WithID(e.Name), WithClass(classes...), WithAttrs(attrs...), WithRole(SetValue))
		if err := tag.AddElement(child); err != nil {
			return nil, err
		}
		return tag, nil
	}

	switch {
	case e.Is(template.CapImage):
		return NewImage(e.Name, classes, attrs), nil
	case e.Is(template.CapMarkup):
		return holder("div", NewMarkup(e.Name))
	case e.Is(template.CapMarkdown):
		return holder("div", NewMarkdown(e.Name))
	case e.Is(template.CapSnippet):
		compiled, err := compileSnippet(t, e)
		if err != nil {
			return nil, err
		}
		return holder("div", NewSnippet(e.Name, compiled))
	case e.Is(template.CapResource) && e.Resource != nil && e.Resource.Key != "":
		return holder("span", NewMessage(e.Resource.Key, e.Resource.Default))
	}
	return holder("span", NewValue(e.Name, render.FormatFor(e)))
}

func compileSnippet(t *template.Template, e *template.Element) (*snippet.Snippet, error) {
	source := strings.TrimSpace(e.Snippet)
	if source == "" {
		return nil, compiler.ConfigError(fmt.Errorf("markup: %s.%s: snippet is empty", t.Name, e.Name))
	}
	compiled, err := snippet.Default().Compile(source)
	if err != nil {
		return nil, compiler.ConfigError(fmt.Errorf("markup: %s.%s: %w", t.Name, e.Name, err))
	}
	return compiled, nil
}

// InputFragment writes the form control of a property or command.
type InputFragment struct{}

var _ compiler.Fragment = InputFragment{}

// Interested accepts dynamic properties and commands.
func (InputFragment) Interested(_ *compiler.Compiler, _ *template.Template, e *template.Element) bool {
	primary, err := e.Primary()
	return err == nil && (primary == template.BehaviorDynamicProperty || primary == template.BehaviorCommand)
}

// Compile picks the control for the element.
func (InputFragment) Compile(_ *compiler.Compiler, _ compiler.Mold, t *template.Template, e *template.Element) (render.Element, error) {
	classes, attrs := PropertyAttrs(e.PropertySet(SetField))
	classes = append([]string{classField}, classes...)
	decorate := InputDecoration(classes, SetField, attrs)
	withErrors := func(in *Input) *Input {
		in.errorField = e.Name
		return in
	}

	if primary, _ := e.Primary(); primary == template.BehaviorCommand {
		kind := e.SettingOr("buttonType", "submit")
		if _, ok := e.Setting("buttonType"); !ok && strings.EqualFold(e.Name, "reset") {
			kind = "reset"
		}
		return NewButton(kind, e.Name, labelKey(t, e), e.SettingOr("label", e.Name), classes, SetField, attrs), nil
	}

	switch {
	case e.Is(template.CapHidden):
		return NewInput(InputHidden, e.Name), nil
	case e.Is(template.CapMemo):
		ta := NewTextArea(e.Name, classes, SetField, attrs)
		ta.errorField = e.Name
		return ta, nil
	case e.Is(template.CapNumber):
		return withErrors(NewInput(InputNumber, e.Name, decorate)), nil
	case e.Is(template.CapDate):
		return withErrors(NewInput(InputDate, e.Name, decorate)), nil
	case e.Is(template.CapChecked):
		return withErrors(NewInput(InputCheckbox, e.Name, decorate, InputChecked(e.SettingOr("checkedValue", "true")))), nil
	case e.Is(template.CapCoded):
		coded := e.Coded
		if coded == nil {
			coded = &template.CodedSpec{}
		}
		switch {
		case coded.Dynamic:
			return render.NewGroup(
				NewInput(InputHidden, e.Name),
				withErrors(NewInput(InputText, e.Name, decorate, InputField(e.Name+"_visible"))),
			), nil
		case coded.Unbounded:
			return withErrors(NewInput(InputText, e.Name, decorate)), nil
		}
		sel := NewSelect(e.Name, coded.Codes, classes, SetField, attrs)
		sel.errorField = e.Name
		return sel, nil
	}
	return withErrors(NewInput(InputText, e.Name, decorate)), nil
}

// MemberFragment renders the referenced template for each value of a
// member property, each repetition wrapped in a block named after the
// template. Row wraps repetitions in table rows.
type MemberFragment struct {
	Styles         []string
	TemplateStyles []string
	Row            bool
}

var _ compiler.Fragment = MemberFragment{}

// Interested accepts member properties.
func (f MemberFragment) Interested(_ *compiler.Compiler, _ *template.Template, e *template.Element) bool {
	return e.Member != nil && e.Member.Template != ""
}

// Compile compiles the referenced template and binds it to the member
// value by kind.
func (f MemberFragment) Compile(c *compiler.Compiler, _ compiler.Mold, t *template.Template, e *template.Element) (render.Element, error) {
	spec := e.Member
	inner, err := c.CompileTemplateWith(spec.Template, f.Styles, f.TemplateStyles, e, t)
	if err != nil {
		return nil, err
	}
	name := "div"
	if f.Row {
		name = "tr"
	}
	block := NewTag(name, WithID(spec.Template), WithClass(spec.Template), WithBlock())
	if err := block.AddElement(inner); err != nil {
		return nil, err
	}

	var opts []render.RepeatOption
	if spec.ShowIfNull != nil {
		opts = append(opts, render.ShowIfNull(*spec.ShowIfNull))
	}
	if spec.KeyIfNull != "" {
		opts = append(opts, render.KeyIfNull(spec.KeyIfNull))
	}
	switch spec.Kind {
	case template.MemberMap:
		return render.NewMap(e.Name, block, opts...), nil
	case template.MemberCollection:
		return render.NewCollection(e.Name, block, opts...), nil
	case template.MemberArray:
		return render.NewArray(e.Name, block, opts...), nil
	case template.MemberObject:
		return render.NewMember(e.Name, block, opts...), nil
	}
	return render.NewDynamicMember(e.Name, block, opts...), nil
}

// InnerTemplateFragment renders another template in place, against the
// current object.
type InnerTemplateFragment struct{}

var _ compiler.Fragment = InnerTemplateFragment{}

// Interested accepts inner template elements.
func (InnerTemplateFragment) Interested(_ *compiler.Compiler, _ *template.Template, e *template.Element) bool {
	return e.Inner != ""
}

// Compile compiles the referenced template.
func (InnerTemplateFragment) Compile(c *compiler.Compiler, _ compiler.Mold, t *template.Template, e *template.Element) (render.Element, error) {
	return c.CompileTemplate(e.Inner, e, t)
}

// ActionFragment writes a command as a link to its action. In a table row
// the link sits in its own cell. Children of the command render inside the
// link.
type ActionFragment struct{}

var _ compiler.Fragment = ActionFragment{}

// Interested accepts commands.
func (ActionFragment) Interested(_ *compiler.Compiler, _ *template.Template, e *template.Element) bool {
	primary, err := e.Primary()
	return err == nil && primary == template.BehaviorCommand
}

// Compile builds the link.
func (ActionFragment) Compile(c *compiler.Compiler, _ compiler.Mold, t *template.Template, e *template.Element) (render.Element, error) {
	classes, attrs := PropertyAttrs(e.PropertySet(SetLink))
	cell := !c.HasStyle(StyleInElement) && c.HasStyle(StyleTableRow)

	linkClasses := []string{}
	if !cell {
		linkClasses = append(linkClasses, classWrapper, t.Name+"-"+e.Name)
	}
	linkClasses = append(linkClasses, e.Type)
	linkClasses = append(linkClasses, classes...)
	link := NewLink(e.Name, compiler.ActionFor(e), linkClasses, SetLink, attrs)

	key := ""
	switch {
	case e.Resource != nil && e.Resource.Key != "":
		key = e.Resource.Key
	case !e.Is(template.CapContainer):
		key = labelKey(t, e)
	}
	if key != "" {
		content := NewTag("span", WithID(e.Name+"-content"))
		if err := content.AddElement(NewMessage(key, e.SettingOr("label", e.Name))); err != nil {
			return nil, err
		}
		if err := link.AddElement(content); err != nil {
			return nil, err
		}
	}
	if !cell {
		return link, nil
	}

	td := NewTag("td",
		WithID(e.Name+"-grp"),
		WithClass(e.Type, classWrapper, t.Name+"-"+e.Name),
		WithPropertySet(e.PropertySet(SetWrapper)),
		WithRole(SetWrapper),
		WithNewline(),
	)
	return render.NewWrapping(td, link)
}

// FormGroupFragment opens a form posting to the element's "action"
// setting. A form group without an action is a configuration error.
type FormGroupFragment struct{}

var _ compiler.Fragment = FormGroupFragment{}

// Interested always reports true.
func (FormGroupFragment) Interested(*compiler.Compiler, *template.Template, *template.Element) bool {
	return true
}

// Compile builds the form node.
func (FormGroupFragment) Compile(_ *compiler.Compiler, _ compiler.Mold, t *template.Template, e *template.Element) (render.Element, error) {
	name, err := compiler.RequireSetting(t, e, "action")
	if err != nil {
		return nil, err
	}
	classes, attrs := PropertyAttrs(e.PropertySet(SetForm))
	classes = append([]string{e.Type, t.Name + "-" + e.Name}, classes...)
	action := render.Action{Name: name}
	if e.Command != nil {
		action.Parameters = render.ParseParameters(e.Command.Parameters)
	}
	return NewForm(e.Name, action, classes, SetForm, attrs), nil
}

// TableFragment opens a table with an optional headings row. Headings come
// from the comma separated "headings" setting and are labelled by
// "label.heading.<heading>".
type TableFragment struct{}

var _ compiler.Fragment = TableFragment{}

// Interested always reports true.
func (TableFragment) Interested(*compiler.Compiler, *template.Template, *template.Element) bool {
	return true
}

// Compile builds the table and its headings.
func (TableFragment) Compile(_ *compiler.Compiler, _ compiler.Mold, _ *template.Template, e *template.Element) (render.Element, error) {
	table := NewTag("table",
		WithID(e.Name),
		WithClass(e.Name),
		WithPropertySet(e.PropertySet(SetTable)),
		WithRole(SetTable),
		WithBlock(),
	)
	headings := splitList(e.SettingOr("headings", ""))
	if len(headings) == 0 {
		return table, nil
	}
	row := NewTag("tr",
		WithID(e.Name+"-headings"),
		WithClass("headings"),
		WithPropertySet(e.PropertySet(SetHeadings)),
		WithRole(SetHeadings),
		WithNewline(),
	)
	for _, heading := range headings {
		th := NewTag("th", WithID(e.Name+"-"+heading), WithClass(heading))
		if err := th.AddElement(NewMessage("label.heading."+heading, heading)); err != nil {
			return nil, err
		}
		if err := row.AddElement(th); err != nil {
			return nil, err
		}
	}
	if err := table.AddElement(row); err != nil {
		return nil, err
	}
	return table, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// MessagesMold renders the form level messages of a message group. The
// group settings name the attributes and item properties to read.
type MessagesMold struct{}

var _ compiler.Mold = MessagesMold{}

// Compile builds the messages node.
func (MessagesMold) Compile(_ *compiler.Compiler, _ *template.Template, e *template.Element) (render.Element, error) {
	return NewMessages(e.Name, MessageSource{
		ErrorsAttribute:   e.SettingOr("errorsAttribute", ""),
		WarningsAttribute: e.SettingOr("warningsAttribute", ""),
		MessagesAttribute: e.SettingOr("messagesAttribute", ""),
		MessageProperty:   e.SettingOr("messageProperty", ""),
		ParamsProperty:    e.SettingOr("paramsProperty", ""),
	}), nil
}
