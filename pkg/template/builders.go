package template

import (
	"fmt"
	"strings"
)

// FormSpec describes a form view over a bean template.
type FormSpec struct {
	Name         string
	Action       string
	Bean         string
	BeanTemplate string
	Commands     []*Element
}

// FormTemplate builds a template made of a messages group, a form group
// posting to Action around a member of the bean template, and a command
// group.
func FormTemplate(spec FormSpec) (*Template, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, fmt.Errorf("template: form name is required")
	}
	if strings.TrimSpace(spec.BeanTemplate) == "" {
		return nil, fmt.Errorf("%w: form %q", ErrMissingTemplate, name)
	}
	bean := spec.Bean
	if bean == "" {
		bean = spec.BeanTemplate
	}

	formChildren := []*Element{
		NewMember(bean, spec.BeanTemplate, MemberObject, WithShowIfNull(true)),
	}
	if len(spec.Commands) > 0 {
		formChildren = append(formChildren, NewGroup("commands", cloneAll(spec.Commands)))
	}

	return NewTemplate(name,
		New("messages", TypeMessageGroup),
		New("form", TypeFormGroup,
			WithSetting("action", spec.Action),
			WithChildren(formChildren...),
		),
	), nil
}

// TableSpec describes a table view over a collection of row beans.
type TableSpec struct {
	Name         string
	Collection   string
	RowTemplate  string
	Headings     []string
	RowActions   []*Element
	TableActions []*Element
	IDAttribute  string
	IDExpression string
}

// RowTemplateName returns the name of the generated row template.
func (s TableSpec) RowTemplateName() string {
	return s.Name + ".row"
}

// TableTemplate builds the table template and its row template. The row
// template renders RowTemplate in place followed by the row actions cloned
// into row scope.
func TableTemplate(spec TableSpec) ([]*Template, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, fmt.Errorf("template: table name is required")
	}
	if strings.TrimSpace(spec.RowTemplate) == "" {
		return nil, fmt.Errorf("%w: table %q", ErrMissingTemplate, name)
	}
	collection := spec.Collection
	if collection == "" {
		collection = "results"
	}

	rowElements := []*Element{NewInnerTemplate("columns", spec.RowTemplate)}
	for _, action := range spec.RowActions {
		rowElements = append(rowElements, action.ForRow(spec.IDAttribute, spec.IDExpression))
	}
	row := NewTemplate(spec.RowTemplateName(), rowElements...)

	grid := New("table", TypeGridGroup,
		WithSetting("headings", strings.Join(spec.Headings, ",")),
		WithChildren(NewMember(collection, row.Name, MemberCollection, WithShowIfNull(false))),
	)
	elements := []*Element{New("messages", TypeMessageGroup), grid}
	if len(spec.TableActions) > 0 {
		actions := make([]*Element, 0, len(spec.TableActions))
		for _, action := range spec.TableActions {
			cloned := action.Clone()
			cloned.Type = TypeTableAction
			if cloned.Command == nil {
				cloned.Command = &CommandSpec{Action: cloned.Name}
			}
			cloned.Command.Scope = ScopeTable
			actions = append(actions, cloned)
		}
		elements = append(elements, NewGroup("actions", actions))
	}

	return []*Template{NewTemplate(name, elements...), row}, nil
}

func cloneAll(elements []*Element) []*Element {
	out := make([]*Element, len(elements))
	for i, el := range elements {
		out[i] = el.Clone()
	}
	return out
}
