package script_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thegaffer/tal-web-sub003/pkg/compiler"
	"github.com/thegaffer/tal-web-sub003/pkg/render"
	"github.com/thegaffer/tal-web-sub003/pkg/targets/script"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
	"github.com/thegaffer/tal-web-sub003/pkg/testsupport"
)

func compileWith(t *testing.T, c *compiler.Compiler, root string, templates ...*template.Template) string {
	t.Helper()

	cfg, err := template.NewConfiguration(root, templates...)
	if err != nil {
		t.Fatalf("configuration: %v", err)
	}
	r, err := c.Compile(cfg)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return testsupport.RenderString(t, r, nil)
}

func compile(t *testing.T, root string, templates ...*template.Template) string {
	t.Helper()
	return compileWith(t, script.NewCompiler(compiler.WithLogger(testsupport.DiscardLogger())), root, templates...)
}

func TestScript_HandlersFollowRoleAndEventOrder(t *testing.T) {
	t.Parallel()

	title := template.NewProperty("title",
		template.WithPropertySet(script.SetValue, map[string]string{"onClick": "showTitle"}),
		template.WithPropertySet(script.SetWrapper, map[string]string{"onBlur": "check"}),
	)
	got := compile(t, "page", template.NewTemplate("page", title))

	want := "dynamicOnLoad(function() {\n" +
		"\tvar input = {\n" +
		"\t\tpropertyName : \"page-title\",\n" +
		"\t\teventName : \"onblur\",\n" +
		"\t\thandlerName : \"check\"\n" +
		"\t};\n" +
		"\tdynamicHandlerAttach(input.propertyName, input.roleName, input.eventName, input.handlerName);\n" +
		"});\n\n" +
		"dynamicOnLoad(function() {\n" +
		"\tvar input = {\n" +
		"\t\tpropertyName : \"page-title\",\n" +
		"\t\troleName : \"role-value\",\n" +
		"\t\teventName : \"onclick\",\n" +
		"\t\thandlerName : \"showTitle\"\n" +
		"\t};\n" +
		"\tdynamicHandlerAttach(input.propertyName, input.roleName, input.eventName, input.handlerName);\n" +
		"});\n\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestScript_NumberFieldAttributes(t *testing.T) {
	t.Parallel()

	qty := template.NewNumberProperty("qty",
		template.WithRange(1, 10),
		template.WithDecimalPlaces(2),
		template.WithSetting("onChange", "recalc"),
		template.WithPropertySet(script.SetField, map[string]string{"onClick": "go"}),
	)
	got := compile(t, "f", template.NewTemplate("f",
		template.New("form", template.TypeFormGroup, template.WithChildren(qty)),
	))

	want := "dynamicOnLoad(function() {\n" +
		"\tvar input = {\n" +
		"\t\twrapperType : \"f-qty\",\n" +
		"\t\troleName : \"role-field\",\n" +
		"\t\tattributes : {\n" +
		"\t\t\tmax : \"10\",\n" +
		"\t\t\tmin : \"1\",\n" +
		"\t\t\tonChange : \"recalc\",\n" +
		"\t\t\tonclick : \"go(this);\",\n" +
		"\t\t\tplaces : \"2\" }\n" +
		"\t};\n" +
		"\tdynamicFieldAttach_number(input.wrapperType, input.roleName, input.attributes);\n" +
		"});\n\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func formTemplates(t *testing.T) []*template.Template {
	t.Helper()

	form, err := template.FormTemplate(template.FormSpec{
		Name:         "edit",
		Action:       "save",
		Bean:         "person",
		BeanTemplate: "personForm",
		Commands:     []*template.Element{template.NewCommand("save", "save")},
	})
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	bean := template.NewTemplate("personForm",
		template.New("id", template.TypeHidden),
		template.NewTextProperty("name", template.WithSetting("maxLength", "40")),
		template.NewBoolProperty("active"),
		template.NewChoiceProperty("status", []template.Code{{Value: "a", Label: "Active"}}),
		template.NewMemoProperty("notes"),
	)
	return []*template.Template{form, bean}
}

func TestScript_FormInputsBecomeWidgets(t *testing.T) {
	t.Parallel()

	got := compile(t, "edit", formTemplates(t)...)

	for _, want := range []string{
		"\t\twrapperType : \"personForm-name\",\n\t\troleName : \"role-field\",\n\t\tattributes : {\n\t\t\tmaxLength : \"40\" }\n",
		"dynamicFieldAttach_text(",
		"\t\twrapperType : \"personForm-active\",\n\t\troleName : \"role-field\"\n\t};\n\tdynamicFieldAttach_checkbox(",
		"\t\twrapperType : \"personForm-status\",\n\t\troleName : \"role-field\"\n\t};\n\tdynamicFieldAttach_select(",
		"\t\twrapperType : \"personForm-notes\",\n\t\troleName : \"role-field\"\n\t};\n\tdynamicFieldAttach_memo(",
		"\t\twrapperType : \"edit-save\",\n\t\troleName : \"role-field\"\n\t};\n\tdynamicFieldAttach_button(",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
	if n := strings.Count(got, "dynamicFieldAttach_"); n != 5 {
		t.Fatalf("expected 5 widgets, got %d:\n%s", n, got)
	}
	if strings.Contains(got, "personForm-id") {
		t.Fatalf("hidden inputs get no widget:\n%s", got)
	}
}

func TestScript_WithoutFormsNoWidgets(t *testing.T) {
	t.Parallel()

	c := compiler.New(script.NewRegistry(false),
		compiler.WithRecurseTemplates(),
		compiler.WithLogger(testsupport.DiscardLogger()),
	)
	if got := compileWith(t, c, "edit", formTemplates(t)...); strings.Contains(got, "dynamicFieldAttach_") {
		t.Fatalf("expected no widgets:\n%s", got)
	}
}

func TestScript_DateAndTimeWidgets(t *testing.T) {
	t.Parallel()

	when := template.NewDateProperty("when", template.WithDateStyle(template.DateStyleShort, template.DateStyleShort))
	got := compile(t, "f", template.NewTemplate("f",
		template.New("form", template.TypeFormGroup, template.WithChildren(when)),
	))

	for _, want := range []string{
		"\t\troleName : \"role-field\",\n\t\tattributes : {\n\t\t\tformatLength : \"short\" }\n\t};\n\tdynamicFieldAttach_date(",
		"\t\troleName : \"role-timeField\",\n\t\tattributes : {\n\t\t\tformatLength : \"short\" }\n\t};\n\tdynamicFieldAttach_time(",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
}

func TestScript_ReferencedTemplatesEmitOnce(t *testing.T) {
	t.Parallel()

	got := compile(t, "page",
		template.NewTemplate("page", template.NewMember("items", "item", template.MemberCollection)),
		template.NewTemplate("item", template.NewProperty("label",
			template.WithPropertySet(script.SetLabel, map[string]string{"onMouseOver": "hint"}),
		)),
	)

	if !strings.Contains(got, "dynamicOnLoad(function() {\n\tdynamicTitleAttach('page-items', null);\n});\n\n") {
		t.Fatalf("missing reference attachment:\n%s", got)
	}
	if n := strings.Count(got, "handlerName : \"hint\""); n != 1 {
		t.Fatalf("expected the item handler once, got %d:\n%s", n, got)
	}
	if !strings.Contains(got, "\t\troleName : \"role-label\",\n\t\teventName : \"onmouseover\",\n") {
		t.Fatalf("missing label role:\n%s", got)
	}
}

func TestScript_TableContentsHaveNoHandlers(t *testing.T) {
	t.Parallel()

	grid := template.New("table", template.TypeGridGroup,
		template.WithPropertySet(script.SetWrapper, map[string]string{"onClick": "sort"}),
		template.WithChildren(template.NewProperty("total",
			template.WithPropertySet(script.SetValue, map[string]string{"onClick": "sum"}),
		)),
	)
	got := compile(t, "list", template.NewTemplate("list", grid))

	if !strings.Contains(got, "handlerName : \"sort\"") {
		t.Fatalf("missing grid handler:\n%s", got)
	}
	if strings.Contains(got, "handlerName : \"sum\"") {
		t.Fatalf("table cells get no handlers:\n%s", got)
	}
}

func TestField_SkipsEmptyAttributes(t *testing.T) {
	t.Parallel()

	field := script.NewField("page-name", "role-field", "text", map[string]render.Parameter{
		"prompt": render.ExpressionParameter{Expression: "${hint}"},
		"trim":   render.LiteralParameter{Value: "true"},
	})
	got := testsupport.RenderString(t, render.RendererFunc(field.Render), map[string]any{"hint": nil})
	if !strings.Contains(got, "attributes : {\n\t\t\ttrim : \"true\" }") || strings.Contains(got, "prompt") {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestHandler_EscapesValues(t *testing.T) {
	t.Parallel()

	h := script.Handler{Property: "p-x", Event: "onclick", Handler: `say("hi")`}
	got := testsupport.RenderString(t, render.RendererFunc(h.Render), nil)
	if !strings.Contains(got, `handlerName : "say(\"hi\")"`) {
		t.Fatalf("unexpected output %q", got)
	}
}
