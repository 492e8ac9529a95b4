package script

import (
	"github.com/thegaffer/tal-web-sub003/pkg/compiler"
	"github.com/thegaffer/tal-web-sub003/pkg/render"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// Target is the render type this package compiles for.
const Target = "script"

// Styles set by the script molds.
const (
	StyleForm        = "form"
	StyleTable       = "table"
	StyleTableMember = "table-member"
)

var everyBehavior = []template.Behavior{
	template.BehaviorDynamicProperty,
	template.BehaviorMemberProperty,
	template.BehaviorGroup,
	template.BehaviorCommand,
}

// Configure registers the script molds on reg. Properties, groups and
// members attach their event handlers; grid groups attach their own but
// nothing inside the table does. With forms, inputs within a form group
// get widget attachments and the form's member templates are emitted in
// place.
func Configure(reg *compiler.Registry, forms bool) {
	base := ElementMold{}
	handlers := ElementMold{Handlers: true}

	reg.SetDefault(base)
	reg.RegisterBehavior(template.BehaviorInnerTemplate, base)
	reg.RegisterType(template.TypeMessageGroup, compiler.MoldFunc(
		func(*compiler.Compiler, *template.Template, *template.Element) (render.Element, error) {
			return nil, nil
		}))
	reg.RegisterBehavior(template.BehaviorDynamicProperty, handlers)
	reg.RegisterBehavior(template.BehaviorGroup, handlers)
	reg.RegisterBehavior(template.BehaviorMemberProperty, handlers)
	reg.RegisterBehavior(template.BehaviorCommand, base)

	// tables
	reg.RegisterType(template.TypeGridGroup, ElementMold{
		Handlers:       true,
		Styles:         []string{StyleTable},
		TemplateStyles: []string{StyleTableMember},
	})
	for _, b := range everyBehavior {
		reg.RegisterBehavior(b, base, StyleTable)
	}
	reg.RegisterBehavior(template.BehaviorMemberProperty, base, StyleTable, StyleTableMember)

	if !forms {
		return
	}
	reg.RegisterType(template.TypeFormGroup, ElementMold{Styles: []string{StyleForm}})
	reg.RegisterBehavior(template.BehaviorDynamicProperty, FieldMold{}, StyleForm)
	reg.RegisterBehavior(template.BehaviorCommand, FieldMold{}, StyleForm)
	reg.RegisterBehavior(template.BehaviorGroup, base, StyleForm)
	reg.RegisterBehavior(template.BehaviorMemberProperty, ElementMold{IncludeTemplates: true}, StyleForm)
}

// NewRegistry returns a registry configured with the script molds.
func NewRegistry(forms bool) *compiler.Registry {
	reg := compiler.NewRegistry()
	Configure(reg, forms)
	return reg
}

// NewCompiler returns a compiler for the script target with form support.
// It compiles every template of a configuration.
func NewCompiler(opts ...compiler.Option) *compiler.Compiler {
	opts = append([]compiler.Option{compiler.WithName(Target), compiler.WithRecurseTemplates()}, opts...)
	return compiler.New(NewRegistry(true), opts...)
}
