package template

import "strings"

// NewProperty builds a plain dynamic property.
func NewProperty(name string, opts ...ElementOption) *Element {
	return New(name, TypeProperty, opts...)
}

// NewTextProperty builds a single line text property.
func NewTextProperty(name string, opts ...ElementOption) *Element {
	return New(name, TypeText, opts...)
}

// NewMemoProperty builds a multi line text property.
func NewMemoProperty(name string, opts ...ElementOption) *Element {
	return New(name, TypeMemo, opts...)
}

// NewNumberProperty builds a locale formatted number property.
func NewNumberProperty(name string, opts ...ElementOption) *Element {
	return New(name, TypeNumber, opts...)
}

// NewDateProperty builds a date property.
func NewDateProperty(name string, opts ...ElementOption) *Element {
	return New(name, TypeDate, opts...)
}

// NewChoiceProperty builds a coded property.
func NewChoiceProperty(name string, codes []Code, opts ...ElementOption) *Element {
	el := New(name, TypeChoice, opts...)
	if len(codes) > 0 {
		el.Coded.Codes = append(el.Coded.Codes, codes...)
	}
	return el
}

// NewBoolProperty builds a checked property.
func NewBoolProperty(name string, opts ...ElementOption) *Element {
	return New(name, TypeBool, opts...)
}

// NewResourceProperty builds a property whose text comes from a message key.
func NewResourceProperty(name, key, def string, opts ...ElementOption) *Element {
	el := New(name, TypeResource, opts...)
	el.Resource = &ResourceSpec{Key: key, Default: def}
	return el
}

// NewGroup builds a container group.
func NewGroup(name string, children []*Element, opts ...ElementOption) *Element {
	el := New(name, TypeGroup, opts...)
	el.Children = append(el.Children, children...)
	return el
}

// NewMember builds a member element repeating the named template.
func NewMember(name, templateName string, kind MemberKind, opts ...ElementOption) *Element {
	el := New(name, TypeMember)
	el.Member.Template = strings.TrimSpace(templateName)
	el.Member.Kind = kind
	for _, opt := range opts {
		if opt != nil {
			opt(el)
		}
	}
	return el
}

// NewCommand builds a command element for action.
func NewCommand(name, action string, opts ...ElementOption) *Element {
	el := New(name, TypeCommand, opts...)
	if strings.TrimSpace(action) != "" {
		el.Command.Action = strings.TrimSpace(action)
	}
	return el
}

// NewInnerTemplate builds an element rendering another template in place.
func NewInnerTemplate(name, templateName string, opts ...ElementOption) *Element {
	el := New(name, TypeInnerTemplate, opts...)
	el.Inner = strings.TrimSpace(templateName)
	return el
}

// WithSetting sets an element setting.
func WithSetting(key, value string) ElementOption {
	return func(e *Element) {
		if e.Settings == nil {
			e.Settings = make(map[string]string)
		}
		e.Settings[strings.TrimSpace(key)] = value
	}
}

// WithLabel sets the default label text.
func WithLabel(label string) ElementOption {
	return WithSetting("label", label)
}

// WithPropertySet merges values into the named property set.
func WithPropertySet(set string, values map[string]string) ElementOption {
	return func(e *Element) {
		if len(values) == 0 {
			return
		}
		if e.PropertySets == nil {
			e.PropertySets = make(map[string]map[string]string)
		}
		target := e.PropertySets[set]
		if target == nil {
			target = make(map[string]string, len(values))
			e.PropertySets[set] = target
		}
		for k, v := range values {
			target[k] = v
		}
	}
}

// WithTraits adds secondary capabilities.
func WithTraits(traits Capability) ElementOption {
	return func(e *Element) {
		e.Traits |= traits
	}
}

// WithBehavior adds a primary behavior claim. Elements claiming more than
// one primary behavior fail at mold resolution.
func WithBehavior(b Behavior) ElementOption {
	return func(e *Element) {
		e.Claims = e.Claims.With(b)
	}
}

// WithChildren appends child elements and marks the element as a container.
func WithChildren(children ...*Element) ElementOption {
	return func(e *Element) {
		e.Traits |= CapContainer
		e.Children = append(e.Children, children...)
	}
}

// WithShowIfNull controls whether a member renders its template for a nil
// value.
func WithShowIfNull(show bool) ElementOption {
	return func(e *Element) {
		if e.Member == nil {
			e.Member = &MemberSpec{}
		}
		e.Member.ShowIfNull = &show
	}
}

// WithKeyIfNull names the frame pushed when a nil map renders once.
func WithKeyIfNull(key string) ElementOption {
	return func(e *Element) {
		if e.Member == nil {
			e.Member = &MemberSpec{}
		}
		e.Member.KeyIfNull = key
	}
}

// WithDecimalPlaces fixes the number of fraction digits of a number property.
func WithDecimalPlaces(places int) ElementOption {
	return func(e *Element) {
		if e.Number == nil {
			e.Number = &NumberSpec{}
		}
		e.Number.DecimalPlaces = places
	}
}

// WithRange records numeric bounds.
func WithRange(min, max float64) ElementOption {
	return func(e *Element) {
		if e.Number == nil {
			e.Number = &NumberSpec{DecimalPlaces: -1}
		}
		e.Number.Min, e.Number.Max = &min, &max
	}
}

// WithDateStyle sets the date and time styles.
func WithDateStyle(date, clock DateStyle) ElementOption {
	return func(e *Element) {
		if e.Date == nil {
			e.Date = &DateSpec{}
		}
		e.Date.DateStyle, e.Date.TimeStyle = date, clock
	}
}

// WithDatePattern sets strftime patterns for the date and time parts.
func WithDatePattern(date, clock string) ElementOption {
	return func(e *Element) {
		if e.Date == nil {
			e.Date = &DateSpec{}
		}
		e.Date.DatePattern, e.Date.TimePattern = date, clock
	}
}

// WithCodeType names the code table a choice property is described by.
func WithCodeType(codeType string) ElementOption {
	return func(e *Element) {
		if e.Coded == nil {
			e.Coded = &CodedSpec{}
		}
		e.Coded.CodeType = codeType
	}
}

// WithUnbounded renders a choice property as free text.
func WithUnbounded(searchURL string) ElementOption {
	return func(e *Element) {
		if e.Coded == nil {
			e.Coded = &CodedSpec{}
		}
		e.Coded.Unbounded = true
		e.Coded.SearchURL = searchURL
	}
}

// WithParameter adds a command parameter. Values prefixed with '$' are
// expressions.
func WithParameter(name, value string) ElementOption {
	return func(e *Element) {
		if e.Command == nil {
			e.Command = &CommandSpec{Action: e.Name}
		}
		if e.Command.Parameters == nil {
			e.Command.Parameters = make(map[string]string)
		}
		e.Command.Parameters[name] = value
	}
}

// WithSnippet attaches a pongo2 snippet rendered for snippet properties.
func WithSnippet(source string) ElementOption {
	return func(e *Element) {
		e.Snippet = source
	}
}
