package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// ErrUnknownShape reports a template naming a data shape nobody supplied.
var ErrUnknownShape = errors.New("config: unknown data shape")

// Template declares a template. A template naming a Shape and no elements
// populates itself from the shape.
type Template struct {
	Name         string                       `json:"name" yaml:"name"`
	Shape        string                       `json:"shape" yaml:"shape"`
	Settings     map[string]string            `json:"settings" yaml:"settings"`
	PropertySets map[string]map[string]string `json:"propertySets" yaml:"propertySets"`
	Elements     []Element                    `json:"elements" yaml:"elements"`
}

// Element declares one template element. Type picks the element kind;
// the remaining fields apply where the kind uses them.
type Element struct {
	Name         string                       `json:"name" yaml:"name"`
	Type         string                       `json:"type" yaml:"type"`
	Behavior     string                       `json:"behavior" yaml:"behavior"`
	Traits       []string                     `json:"traits" yaml:"traits"`
	Label        string                       `json:"label" yaml:"label"`
	Settings     map[string]string            `json:"settings" yaml:"settings"`
	PropertySets map[string]map[string]string `json:"propertySets" yaml:"propertySets"`
	Children     []Element                    `json:"children" yaml:"children"`

	// member-prop and inner-template
	Template   string `json:"template" yaml:"template"`
	Kind       string `json:"kind" yaml:"kind"`
	ShowIfNull *bool  `json:"showIfNull" yaml:"showIfNull"`
	KeyIfNull  string `json:"keyIfNull" yaml:"keyIfNull"`

	// commands
	Action     string            `json:"action" yaml:"action"`
	Scope      string            `json:"scope" yaml:"scope"`
	Parameters map[string]string `json:"parameters" yaml:"parameters"`

	// formatting
	DecimalPlaces *int     `json:"decimalPlaces" yaml:"decimalPlaces"`
	Min           *float64 `json:"min" yaml:"min"`
	Max           *float64 `json:"max" yaml:"max"`
	DateStyle     string   `json:"dateStyle" yaml:"dateStyle"`
	TimeStyle     string   `json:"timeStyle" yaml:"timeStyle"`
	DatePattern   string   `json:"datePattern" yaml:"datePattern"`
	TimePattern   string   `json:"timePattern" yaml:"timePattern"`

	// choice-prop
	Codes     []Code `json:"codes" yaml:"codes"`
	CodeType  string `json:"codeType" yaml:"codeType"`
	Unbounded bool   `json:"unbounded" yaml:"unbounded"`
	Dynamic   bool   `json:"dynamic" yaml:"dynamic"`
	SearchURL string `json:"searchUrl" yaml:"searchUrl"`

	// resource-prop and snippet-prop
	Key     string `json:"key" yaml:"key"`
	Default string `json:"default" yaml:"default"`
	Snippet string `json:"snippet" yaml:"snippet"`
}

// Code is one choice of a choice-prop.
type Code struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Form declares a form template built by template.FormTemplate.
type Form struct {
	Name         string    `json:"name" yaml:"name"`
	Action       string    `json:"action" yaml:"action"`
	Bean         string    `json:"bean" yaml:"bean"`
	BeanTemplate string    `json:"beanTemplate" yaml:"beanTemplate"`
	Commands     []Element `json:"commands" yaml:"commands"`
}

// Table declares a table and its row template, built by
// template.TableTemplate.
type Table struct {
	Name         string    `json:"name" yaml:"name"`
	Collection   string    `json:"collection" yaml:"collection"`
	RowTemplate  string    `json:"rowTemplate" yaml:"rowTemplate"`
	Headings     []string  `json:"headings" yaml:"headings"`
	RowActions   []Element `json:"rowActions" yaml:"rowActions"`
	TableActions []Element `json:"tableActions" yaml:"tableActions"`
	IDAttribute  string    `json:"idAttribute" yaml:"idAttribute"`
	IDExpression string    `json:"idExpression" yaml:"idExpression"`
}

// ShapeResolver finds data shapes by name.
type ShapeResolver func(name string) (template.DataShape, bool)

// ShapeMap resolves shapes from a map.
func ShapeMap(shapes map[string]template.DataShape) ShapeResolver {
	return func(name string) (template.DataShape, bool) {
		shape, ok := shapes[name]
		return shape, ok
	}
}

// BuildTemplates turns the declared templates, forms and tables into
// template definitions. shapes may be nil when no template names a shape.
func (c *Config) BuildTemplates(shapes ShapeResolver) ([]*template.Template, error) {
	var out []*template.Template
	for _, decl := range c.Templates {
		t, err := decl.build(shapes)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	for _, decl := range c.Forms {
		commands, err := buildAll(decl.Commands)
		if err != nil {
			return nil, fmt.Errorf("config: form %q: %w", decl.Name, err)
		}
		form, err := template.FormTemplate(template.FormSpec{
			Name:         decl.Name,
			Action:       decl.Action,
			Bean:         decl.Bean,
			BeanTemplate: decl.BeanTemplate,
			Commands:     commands,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, form)
	}
	for _, decl := range c.Tables {
		rowActions, err := buildAll(decl.RowActions)
		if err != nil {
			return nil, fmt.Errorf("config: table %q: %w", decl.Name, err)
		}
		tableActions, err := buildAll(decl.TableActions)
		if err != nil {
			return nil, fmt.Errorf("config: table %q: %w", decl.Name, err)
		}
		tables, err := template.TableTemplate(template.TableSpec{
			Name:         decl.Name,
			Collection:   decl.Collection,
			RowTemplate:  decl.RowTemplate,
			Headings:     decl.Headings,
			RowActions:   rowActions,
			TableActions: tableActions,
			IDAttribute:  decl.IDAttribute,
			IDExpression: decl.IDExpression,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, tables...)
	}
	return out, nil
}

func (decl Template) build(shapes ShapeResolver) (*template.Template, error) {
	elements, err := buildAll(decl.Elements)
	if err != nil {
		return nil, fmt.Errorf("config: template %q: %w", decl.Name, err)
	}
	t := template.NewTemplate(decl.Name, elements...)
	if name := strings.TrimSpace(decl.Shape); name != "" {
		var shape template.DataShape
		ok := false
		if shapes != nil {
			shape, ok = shapes(name)
		}
		if !ok {
			return nil, fmt.Errorf("%w %q (template %s)", ErrUnknownShape, name, decl.Name)
		}
		t.Shape = shape
	}
	if len(decl.Settings) > 0 {
		t.Settings = cloneStrings(decl.Settings)
	}
	if len(decl.PropertySets) > 0 {
		t.PropertySets = make(map[string]map[string]string, len(decl.PropertySets))
		for name, set := range decl.PropertySets {
			t.PropertySets[name] = cloneStrings(set)
		}
	}
	return t, nil
}

func buildAll(decls []Element) ([]*template.Element, error) {
	out := make([]*template.Element, 0, len(decls))
	for _, decl := range decls {
		el, err := decl.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// Build converts the declaration into a template element.
func (decl Element) Build() (*template.Element, error) {
	typeTag := strings.TrimSpace(decl.Type)
	if typeTag == "" {
		typeTag = template.TypeProperty
	}
	children, err := buildAll(decl.Children)
	if err != nil {
		return nil, err
	}

	var opts []template.ElementOption
	if len(children) > 0 {
		opts = append(opts, template.WithChildren(children...))
	}
	if decl.Label != "" {
		opts = append(opts, template.WithLabel(decl.Label))
	}
	for key, value := range decl.Settings {
		opts = append(opts, template.WithSetting(key, value))
	}
	for name, set := range decl.PropertySets {
		opts = append(opts, template.WithPropertySet(name, set))
	}
	if decl.Behavior != "" {
		b, ok := parseBehavior(decl.Behavior)
		if !ok {
			return nil, fmt.Errorf("element %q: unknown behavior %q", decl.Name, decl.Behavior)
		}
		opts = append(opts, template.WithBehavior(b))
	}
	if len(decl.Traits) > 0 {
		var traits template.Capability
		for _, name := range decl.Traits {
			c, ok := template.ParseCapability(name)
			if !ok {
				return nil, fmt.Errorf("element %q: unknown trait %q", decl.Name, name)
			}
			traits |= c
		}
		opts = append(opts, template.WithTraits(traits))
	}
	if decl.ShowIfNull != nil {
		opts = append(opts, template.WithShowIfNull(*decl.ShowIfNull))
	}
	if decl.KeyIfNull != "" {
		opts = append(opts, template.WithKeyIfNull(decl.KeyIfNull))
	}
	for name, value := range decl.Parameters {
		opts = append(opts, template.WithParameter(name, value))
	}
	if decl.DecimalPlaces != nil {
		opts = append(opts, template.WithDecimalPlaces(*decl.DecimalPlaces))
	}
	if decl.Snippet != "" {
		opts = append(opts, template.WithSnippet(decl.Snippet))
	}
	if decl.CodeType != "" {
		opts = append(opts, template.WithCodeType(decl.CodeType))
	}
	if decl.Unbounded {
		opts = append(opts, template.WithUnbounded(decl.SearchURL))
	}

	el := template.New(decl.Name, typeTag, opts...)
	switch {
	case typeTag == template.TypeInnerTemplate:
		el.Inner = strings.TrimSpace(decl.Template)
	case el.Member != nil:
		el.Member.Template = strings.TrimSpace(decl.Template)
		el.Member.Kind = template.ParseMemberKind(decl.Kind)
	}
	if el.Command != nil {
		if decl.Action != "" {
			el.Command.Action = strings.TrimSpace(decl.Action)
		}
		switch strings.ToLower(strings.TrimSpace(decl.Scope)) {
		case "row":
			el = el.ForRow(decl.Settings["idAttribute"], decl.Settings["idExpression"])
		case "table":
			el.Command.Scope = template.ScopeTable
		}
	}
	if el.Number != nil && (decl.Min != nil || decl.Max != nil) {
		el.Number.Min, el.Number.Max = decl.Min, decl.Max
	}
	if el.Date != nil {
		if decl.DateStyle != "" || decl.TimeStyle != "" {
			el.Date.DateStyle = template.DateStyle(decl.DateStyle)
			el.Date.TimeStyle = template.DateStyle(decl.TimeStyle)
		}
		el.Date.DatePattern, el.Date.TimePattern = decl.DatePattern, decl.TimePattern
	}
	if el.Coded != nil {
		for _, code := range decl.Codes {
			el.Coded.Codes = append(el.Coded.Codes, template.Code{Value: code.Value, Label: code.Label})
		}
		el.Coded.Dynamic = decl.Dynamic
		if decl.SearchURL != "" {
			el.Coded.SearchURL = decl.SearchURL
		}
	}
	if el.Is(template.CapResource) && decl.Key != "" {
		el.Resource = &template.ResourceSpec{Key: decl.Key, Default: decl.Default}
	}
	return el, nil
}

func parseBehavior(name string) (template.Behavior, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, b := range template.Behaviors() {
		if b.String() == name {
			return b, true
		}
	}
	return template.BehaviorNone, false
}
