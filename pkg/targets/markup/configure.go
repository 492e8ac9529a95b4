package markup

import (
	"github.com/thegaffer/tal-web-sub003/pkg/compiler"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// Target is the render type this package compiles for.
const Target = "html"

// Configure registers the HTML molds on reg.
//
// Without styles elements render as a labelled div around their value,
// member template or children; children of groups render in spans. Grid
// groups become tables whose member rows render each property in a cell.
// Form groups become forms and, within them, properties become inputs and
// commands become buttons. Outside forms commands are links.
func Configure(reg *compiler.Registry) {
	children := compiler.ChildrenFragment{TemplateStyles: []string{StyleInElement}}

	reg.SetDefault(&compiler.CompositeMold{
		Wrapper: WrapperFragment{},
		Label:   LabelFragment{},
		ByBehavior: map[template.Behavior]compiler.Fragment{
			template.BehaviorDynamicProperty: ValueFragment{},
			template.BehaviorMemberProperty:  MemberFragment{},
			template.BehaviorGroup:           children,
		},
	})
	reg.RegisterBehavior(template.BehaviorInnerTemplate, &compiler.CompositeMold{
		ByBehavior: map[template.Behavior]compiler.Fragment{
			template.BehaviorInnerTemplate: InnerTemplateFragment{},
		},
	})
	reg.RegisterType(template.TypeMessageGroup, MessagesMold{})

	command := &compiler.CompositeMold{
		Wrapper: ActionFragment{},
		ByBehavior: map[template.Behavior]compiler.Fragment{
			template.BehaviorCommand: children,
		},
		RequireWrapper: true,
	}
	reg.RegisterBehavior(template.BehaviorCommand, command)

	// forms
	reg.RegisterType(template.TypeFormGroup, &compiler.CompositeMold{
		Wrapper: FormGroupFragment{},
		ByBehavior: map[template.Behavior]compiler.Fragment{
			template.BehaviorGroup: compiler.ChildrenFragment{},
		},
		Styles:         []string{StyleForm},
		RequireWrapper: true,
	})
	reg.RegisterBehavior(template.BehaviorDynamicProperty, &compiler.CompositeMold{
		Wrapper: WrapperFragment{},
		Label:   LabelFragment{},
		ByBehavior: map[template.Behavior]compiler.Fragment{
			template.BehaviorDynamicProperty: InputFragment{},
		},
	}, StyleForm)
	reg.RegisterBehavior(template.BehaviorGroup, &compiler.CompositeMold{
		Wrapper: WrapperFragment{},
		Label:   LabelFragment{},
		ByBehavior: map[template.Behavior]compiler.Fragment{
			template.BehaviorGroup: compiler.ChildrenFragment{},
		},
	}, StyleForm)
	reg.RegisterBehavior(template.BehaviorMemberProperty, &compiler.CompositeMold{
		Wrapper: WrapperFragment{},
		Label:   LabelFragment{},
		ByBehavior: map[template.Behavior]compiler.Fragment{
			template.BehaviorMemberProperty: MemberFragment{},
		},
	}, StyleForm)
	reg.RegisterBehavior(template.BehaviorCommand, &compiler.CompositeMold{
		Wrapper: WrapperFragment{},
		ByBehavior: map[template.Behavior]compiler.Fragment{
			template.BehaviorCommand: InputFragment{},
		},
	}, StyleForm)

	// tables
	reg.RegisterType(template.TypeGridGroup, &compiler.CompositeMold{
		Wrapper: TableFragment{},
		Label:   LabelFragment{},
		ByBehavior: map[template.Behavior]compiler.Fragment{
			template.BehaviorGroup: compiler.ChildrenFragment{},
		},
		Styles:         []string{StyleTable},
		TemplateStyles: []string{StyleTableMember},
	})
	reg.RegisterBehavior(template.BehaviorMemberProperty, &compiler.CompositeMold{
		ByBehavior: map[template.Behavior]compiler.Fragment{
			template.BehaviorMemberProperty: MemberFragment{TemplateStyles: []string{StyleTableRow}, Row: true},
		},
	}, StyleTable, StyleTableMember)
	cell := &compiler.CompositeMold{
		Wrapper: WrapperFragment{Tag: "span"},
		ByBehavior: map[template.Behavior]compiler.Fragment{
			template.BehaviorDynamicProperty: ValueFragment{},
			template.BehaviorMemberProperty:  MemberFragment{},
			template.BehaviorGroup:           children,
		},
	}
	for _, b := range []template.Behavior{
		template.BehaviorDynamicProperty,
		template.BehaviorMemberProperty,
		template.BehaviorGroup,
	} {
		reg.RegisterBehavior(b, cell, StyleTable)
	}
	reg.RegisterBehavior(template.BehaviorCommand, command, StyleTable)
}

// NewRegistry returns a registry configured with the HTML molds.
func NewRegistry() *compiler.Registry {
	reg := compiler.NewRegistry()
	Configure(reg)
	return reg
}

// NewCompiler returns a compiler for the HTML target.
func NewCompiler(opts ...compiler.Option) *compiler.Compiler {
	opts = append([]compiler.Option{compiler.WithName(Target)}, opts...)
	return compiler.New(NewRegistry(), opts...)
}
