package render

import "fmt"

// Action describes what a command node invokes: the action identifier, its
// static and computed parameters and, for row scoped commands, how the row
// identifier is derived.
type Action struct {
	Name         string
	Parameters   []NamedParameter
	RowScoped    bool
	IDAttribute  string
	IDExpression string
}

// Resolve computes the parameter map for the current position. Row scoped
// actions add IDAttribute mapped to the evaluated IDExpression, but only
// when a frame is active and the identifier is non-nil.
func (a Action) Resolve(m *Model) (map[string]any, error) {
	params := make(map[string]any, len(a.Parameters)+1)
	for _, p := range a.Parameters {
		value, err := p.Value.Resolve(m)
		if err != nil {
			return nil, fmt.Errorf("render: action %q parameter %q: %w", a.Name, p.Name, err)
		}
		if value != nil {
			params[p.Name] = value
		}
	}
	if a.RowScoped && m.CurrentNode() != nil && a.IDAttribute != "" && a.IDExpression != "" {
		id, err := m.Evaluate(a.IDExpression, 0)
		if err != nil {
			return nil, fmt.Errorf("render: action %q row id: %w", a.Name, err)
		}
		if id != nil {
			params[a.IDAttribute] = id
		}
	}
	return params, nil
}

// URL resolves the parameters and asks the model's generator for the
// action address.
func (a Action) URL(m *Model) (string, map[string]any, error) {
	params, err := a.Resolve(m)
	if err != nil {
		return "", nil, err
	}
	u, err := m.ActionURL(a.Name, params)
	if err != nil {
		return "", nil, fmt.Errorf("render: action %q url: %w", a.Name, err)
	}
	return u, params, nil
}

// CommandWriter writes a resolved command in a target specific format.
type CommandWriter func(m *Model, action Action, params map[string]any) error

// CommandElement resolves an action at render time and hands it to a
// target specific writer. Target nodes such as links and buttons build on
// the same Action.Resolve contract.
type CommandElement struct {
	Composite
	action Action
	write  CommandWriter
}

// NewCommand builds a command node.
func NewCommand(action Action, write CommandWriter) *CommandElement {
	return &CommandElement{action: action, write: write}
}

// Action returns the bound action.
func (c *CommandElement) Action() Action { return c.action }

// Render resolves the parameters, writes the command and renders children.
func (c *CommandElement) Render(m *Model) error {
	params, err := c.action.Resolve(m)
	if err != nil {
		return err
	}
	if c.write != nil {
		if err := c.write(m, c.action, params); err != nil {
			return err
		}
	}
	return c.RenderChildren(m)
}

var _ Element = (*CommandElement)(nil)
