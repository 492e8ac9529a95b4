package template

import (
	"fmt"
	"maps"
	"strings"
)

// Element type tags understood by the bundled molds.
const (
	TypeProperty      = "prop"
	TypeText          = "text-prop"
	TypeMemo          = "memo-prop"
	TypeNumber        = "number-prop"
	TypeDate          = "date-prop"
	TypeChoice        = "choice-prop"
	TypeBool          = "bool-prop"
	TypeHidden        = "hidden-prop"
	TypeResource      = "resource-prop"
	TypeImage         = "image-prop"
	TypeHTML          = "html-prop"
	TypeMarkdown      = "markdown-prop"
	TypeSnippet       = "snippet-prop"
	TypeGroup         = "group"
	TypeFormGroup     = "form-group"
	TypeGridGroup     = "grid-group"
	TypeMessageGroup  = "message-group"
	TypeMember        = "member-prop"
	TypeCommand       = "command-prop"
	TypeRowAction     = "row-action"
	TypeTableAction   = "table-action"
	TypeInnerTemplate = "inner-template"
)

type typeDefaults struct {
	primary Behavior
	traits  Capability
}

var defaultsByType = map[string]typeDefaults{
	TypeProperty:      {BehaviorDynamicProperty, 0},
	TypeText:          {BehaviorDynamicProperty, CapText},
	TypeMemo:          {BehaviorDynamicProperty, CapMemo},
	TypeNumber:        {BehaviorDynamicProperty, CapNumber},
	TypeDate:          {BehaviorDynamicProperty, CapDate},
	TypeChoice:        {BehaviorDynamicProperty, CapCoded},
	TypeBool:          {BehaviorDynamicProperty, CapChecked},
	TypeHidden:        {BehaviorDynamicProperty, CapHidden},
	TypeResource:      {BehaviorDynamicProperty, CapResource},
	TypeImage:         {BehaviorDynamicProperty, CapImage},
	TypeHTML:          {BehaviorDynamicProperty, CapMarkup},
	TypeMarkdown:      {BehaviorDynamicProperty, CapMarkdown},
	TypeSnippet:       {BehaviorDynamicProperty, CapSnippet},
	TypeGroup:         {BehaviorGroup, CapContainer},
	TypeFormGroup:     {BehaviorGroup, CapContainer},
	TypeGridGroup:     {BehaviorGroup, CapContainer},
	TypeMessageGroup:  {BehaviorGroup, CapContainer},
	TypeMember:        {BehaviorMemberProperty, CapReference},
	TypeCommand:       {BehaviorCommand, 0},
	TypeRowAction:     {BehaviorCommand, 0},
	TypeTableAction:   {BehaviorCommand, 0},
	TypeInnerTemplate: {BehaviorInnerTemplate, CapReference},
}

// MemberKind describes the shape of the value bound to a member element.
type MemberKind uint8

const (
	MemberUnknown MemberKind = iota
	MemberObject
	MemberCollection
	MemberArray
	MemberMap
)

func (k MemberKind) String() string {
	switch k {
	case MemberObject:
		return "object"
	case MemberCollection:
		return "collection"
	case MemberArray:
		return "array"
	case MemberMap:
		return "map"
	default:
		return "unknown"
	}
}

// ParseMemberKind resolves a member kind from its name.
func ParseMemberKind(raw string) MemberKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "object", "member":
		return MemberObject
	case "collection", "list", "set":
		return MemberCollection
	case "array", "slice":
		return MemberArray
	case "map":
		return MemberMap
	default:
		return MemberUnknown
	}
}

// MemberSpec configures a member element: the template each repetition is
// rendered with and how absent values are treated.
type MemberSpec struct {
	Template   string
	Kind       MemberKind
	ShowIfNull *bool
	KeyIfNull  string
}

// NumberSpec configures locale aware number formatting. DecimalPlaces < 0
// keeps the formatter default.
type NumberSpec struct {
	DecimalPlaces int
	Min           *float64
	Max           *float64
}

// DateStyle selects a predefined date or time layout.
type DateStyle string

const (
	DateStyleNone   DateStyle = ""
	DateStyleShort  DateStyle = "short"
	DateStyleMedium DateStyle = "medium"
	DateStyleLong   DateStyle = "long"
	DateStyleFull   DateStyle = "full"
)

// DateSpec configures date rendering. Patterns use strftime directives and
// take precedence over styles.
type DateSpec struct {
	DateStyle   DateStyle
	DatePattern string
	TimeStyle   DateStyle
	TimePattern string
}

// Code is one entry of a coded (choice) property.
type Code struct {
	Value string
	Label string
}

// CodedSpec configures choice properties.
type CodedSpec struct {
	CodeType  string
	Codes     []Code
	SearchURL string
	Unbounded bool
	Dynamic   bool
}

// Describe returns the label registered for value.
func (c *CodedSpec) Describe(value string) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, code := range c.Codes {
		if code.Value == value {
			return code.Label, true
		}
	}
	return "", false
}

// CommandScope controls whether a command is bound to a repeated row.
type CommandScope uint8

const (
	ScopeElement CommandScope = iota
	ScopeRow
	ScopeTable
)

// DefaultIDExpression evaluates the identifier of the current row.
const DefaultIDExpression = "${this.id}"

// DefaultIDAttribute is the parameter name row identifiers are sent under.
const DefaultIDAttribute = "id"

// CommandSpec configures command elements. Parameter values prefixed with
// '$' are expressions evaluated at render time.
type CommandSpec struct {
	Action       string
	Scope        CommandScope
	IDAttribute  string
	IDExpression string
	Parameters   map[string]string
}

// ResourceSpec names the message rendered by a resource property.
type ResourceSpec struct {
	Key     string
	Default string
}

// Element is one node of a template. The zero value is not usable; build
// elements with New or one of the typed constructors.
type Element struct {
	Name         string
	Type         string
	Claims       BehaviorSet
	Traits       Capability
	Children     []*Element
	PropertySets map[string]map[string]string
	Settings     map[string]string

	Member   *MemberSpec
	Inner    string
	Number   *NumberSpec
	Date     *DateSpec
	Coded    *CodedSpec
	Command  *CommandSpec
	Resource *ResourceSpec
	Snippet  string

	resolved bool
	primary  Behavior
	err      error
}

// ElementOption mutates an element during construction.
type ElementOption func(*Element)

// New builds an element of the given type tag. Known tags seed the primary
// behavior and secondary capabilities; unknown tags start empty and must
// claim a behavior through options.
func New(name, typeTag string, opts ...ElementOption) *Element {
	el := &Element{
		Name: strings.TrimSpace(name),
		Type: strings.TrimSpace(typeTag),
	}
	if defaults, ok := defaultsByType[el.Type]; ok {
		el.Claims = NewBehaviorSet(defaults.primary)
		el.Traits = defaults.traits
	}
	switch {
	case el.Traits.Has(CapNumber):
		el.Number = &NumberSpec{DecimalPlaces: -1}
	case el.Traits.Has(CapDate):
		el.Date = &DateSpec{DateStyle: DateStyleMedium}
	case el.Traits.Has(CapCoded):
		el.Coded = &CodedSpec{}
	}
	switch el.Type {
	case TypeCommand:
		el.Command = &CommandSpec{Action: el.Name}
	case TypeRowAction:
		el.Command = &CommandSpec{Action: el.Name, Scope: ScopeRow}
	case TypeTableAction:
		el.Command = &CommandSpec{Action: el.Name, Scope: ScopeTable}
	case TypeMember:
		el.Member = &MemberSpec{}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(el)
		}
	}
	if el.Command != nil && el.Command.Scope == ScopeRow {
		if el.Command.IDAttribute == "" {
			el.Command.IDAttribute = DefaultIDAttribute
		}
		if el.Command.IDExpression == "" {
			el.Command.IDExpression = DefaultIDExpression
		}
	}
	return el
}

// Primary resolves the single primary behavior of the element.
func (e *Element) Primary() (Behavior, error) {
	if e == nil {
		return BehaviorNone, ErrNoBehavior
	}
	if e.resolved {
		return e.primary, e.err
	}
	return resolvePrimary(e)
}

func resolvePrimary(e *Element) (Behavior, error) {
	claims := e.Claims.List()
	switch len(claims) {
	case 0:
		return BehaviorNone, fmt.Errorf("%w: element %q (type %q)", ErrNoBehavior, e.Name, e.Type)
	case 1:
		return claims[0], nil
	default:
		return BehaviorNone, fmt.Errorf("%w: element %q claims %s", ErrBehaviorConflict, e.Name, e.Claims)
	}
}

// Is reports whether the element exposes the secondary capability.
func (e *Element) Is(c Capability) bool {
	return e != nil && e.Traits.Has(c)
}

// Setting returns a trimmed element setting.
func (e *Element) Setting(key string) (string, bool) {
	if e == nil || e.Settings == nil {
		return "", false
	}
	value, ok := e.Settings[key]
	return strings.TrimSpace(value), ok
}

// SettingOr returns the named setting or fallback when unset or blank.
func (e *Element) SettingOr(key, fallback string) string {
	if value, ok := e.Setting(key); ok && value != "" {
		return value
	}
	return fallback
}

// PropertySet returns the named property set, or nil.
func (e *Element) PropertySet(name string) map[string]string {
	if e == nil || e.PropertySets == nil {
		return nil
	}
	return e.PropertySets[name]
}

// Clone returns a deep copy of the element tree. Cloned elements are
// unresolved and may be modified before the owning template is initialised.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := &Element{
		Name:         e.Name,
		Type:         e.Type,
		Claims:       e.Claims,
		Traits:       e.Traits,
		PropertySets: clonePropertySets(e.PropertySets),
		Settings:     maps.Clone(e.Settings),
		Inner:        e.Inner,
		Snippet:      e.Snippet,
	}
	if len(e.Children) > 0 {
		out.Children = make([]*Element, len(e.Children))
		for i, child := range e.Children {
			out.Children[i] = child.Clone()
		}
	}
	if e.Member != nil {
		member := *e.Member
		out.Member = &member
	}
	if e.Number != nil {
		number := *e.Number
		out.Number = &number
	}
	if e.Date != nil {
		date := *e.Date
		out.Date = &date
	}
	if e.Coded != nil {
		coded := *e.Coded
		coded.Codes = append([]Code(nil), e.Coded.Codes...)
		out.Coded = &coded
	}
	if e.Command != nil {
		command := *e.Command
		command.Parameters = maps.Clone(e.Command.Parameters)
		out.Command = &command
	}
	if e.Resource != nil {
		resource := *e.Resource
		out.Resource = &resource
	}
	return out
}

// ForRow clones a command element into a row scoped action. Empty arguments
// keep the defaults.
func (e *Element) ForRow(idAttribute, idExpression string) *Element {
	out := e.Clone()
	if out == nil {
		return nil
	}
	if out.Command == nil {
		out.Command = &CommandSpec{Action: out.Name}
	}
	out.Type = TypeRowAction
	out.Command.Scope = ScopeRow
	out.Command.IDAttribute = firstNonEmpty(idAttribute, out.Command.IDAttribute, DefaultIDAttribute)
	out.Command.IDExpression = firstNonEmpty(idExpression, out.Command.IDExpression, DefaultIDExpression)
	return out
}

// init resolves the primary behavior once and validates invariants that
// depend on it.
func (e *Element) init(templateName string) error {
	if e.Name == "" {
		return fmt.Errorf("template: %s: element of type %q has no name", templateName, e.Type)
	}
	primary, err := resolvePrimary(e)
	e.resolved, e.primary, e.err = true, primary, err
	if err != nil {
		// behavior conflicts surface at mold resolution
		return nil
	}
	switch primary {
	case BehaviorMemberProperty:
		if e.Member == nil || strings.TrimSpace(e.Member.Template) == "" {
			return fmt.Errorf("%w: %s.%s", ErrMissingTemplate, templateName, e.Name)
		}
	case BehaviorInnerTemplate:
		if strings.TrimSpace(e.Inner) == "" {
			return fmt.Errorf("%w: %s.%s", ErrMissingTemplate, templateName, e.Name)
		}
	case BehaviorCommand:
		if e.Command == nil {
			e.Command = &CommandSpec{Action: e.Name}
		}
	}
	if e.Is(CapContainer) && e.Children == nil {
		e.Children = []*Element{}
	}
	seen := make(map[string]struct{}, len(e.Children))
	for _, child := range e.Children {
		if child == nil {
			return fmt.Errorf("template: %s.%s: nil child element", templateName, e.Name)
		}
		if _, dup := seen[child.Name]; dup {
			return fmt.Errorf("%w: %s.%s.%s", ErrDuplicateElement, templateName, e.Name, child.Name)
		}
		seen[child.Name] = struct{}{}
		if err := child.init(templateName); err != nil {
			return err
		}
	}
	return nil
}

func clonePropertySets(sets map[string]map[string]string) map[string]map[string]string {
	if sets == nil {
		return nil
	}
	out := make(map[string]map[string]string, len(sets))
	for name, set := range sets {
		out[name] = maps.Clone(set)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
