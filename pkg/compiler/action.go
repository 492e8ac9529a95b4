package compiler

import (
	"github.com/thegaffer/tal-web-sub003/pkg/render"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// ActionFor builds the render time action of a command element. Elements
// without a command spec act under their own name.
func ActionFor(e *template.Element) render.Action {
	if e == nil {
		return render.Action{}
	}
	spec := e.Command
	if spec == nil {
		return render.Action{Name: e.Name}
	}
	name := spec.Action
	if name == "" {
		name = e.Name
	}
	action := render.Action{
		Name:       name,
		Parameters: render.ParseParameters(spec.Parameters),
	}
	if spec.Scope == template.ScopeRow {
		action.RowScoped = true
		action.IDAttribute = spec.IDAttribute
		action.IDExpression = spec.IDExpression
	}
	return action
}
