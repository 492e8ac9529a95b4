package template_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

func TestElement_PrimaryFromTypeTag(t *testing.T) {
	t.Parallel()

	cases := map[string]template.Behavior{
		template.TypeProperty:      template.BehaviorDynamicProperty,
		template.TypeNumber:        template.BehaviorDynamicProperty,
		template.TypeGroup:         template.BehaviorGroup,
		template.TypeGridGroup:     template.BehaviorGroup,
		template.TypeCommand:       template.BehaviorCommand,
		template.TypeRowAction:     template.BehaviorCommand,
		template.TypeInnerTemplate: template.BehaviorInnerTemplate,
	}
	for tag, want := range cases {
		got, err := template.New("x", tag).Primary()
		if err != nil {
			t.Fatalf("%s: primary: %v", tag, err)
		}
		if got != want {
			t.Fatalf("%s: want %s, got %s", tag, want, got)
		}
	}
}

func TestElement_ConflictingClaims(t *testing.T) {
	t.Parallel()

	el := template.NewGroup("both", nil, template.WithBehavior(template.BehaviorDynamicProperty))
	tpl := template.NewTemplate("t", el)
	if err := tpl.Init(); err != nil {
		t.Fatalf("init should defer conflicts to mold resolution: %v", err)
	}
	if _, err := el.Primary(); !errors.Is(err, template.ErrBehaviorConflict) {
		t.Fatalf("expected ErrBehaviorConflict, got %v", err)
	}
}

func TestTemplate_InitRejectsMemberWithoutTarget(t *testing.T) {
	t.Parallel()

	tpl := template.NewTemplate("t", template.New("items", template.TypeMember))
	if err := tpl.Init(); !errors.Is(err, template.ErrMissingTemplate) {
		t.Fatalf("expected ErrMissingTemplate, got %v", err)
	}
}

func TestTemplate_FrozenAfterInit(t *testing.T) {
	t.Parallel()

	tpl := template.NewTemplate("t", template.NewProperty("title"))
	if err := tpl.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := tpl.AddElement(template.NewProperty("other")); !errors.Is(err, template.ErrFrozen) {
		t.Fatalf("expected ErrFrozen, got %v", err)
	}
}

func TestTemplate_DuplicateSiblings(t *testing.T) {
	t.Parallel()

	tpl := template.NewTemplate("t", template.NewProperty("a"), template.NewProperty("a"))
	if err := tpl.Init(); !errors.Is(err, template.ErrDuplicateElement) {
		t.Fatalf("expected ErrDuplicateElement, got %v", err)
	}
}

type address struct {
	Street string
	City   string `tal:"town,label=Town"`
}

type person struct {
	ID        int
	Name      string `json:"fullName"`
	Born      time.Time
	Active    bool
	Home      address
	Previous  []address
	Nicknames []string
	secret    string
	Ignored   string `tal:"-"`
}

func TestShapeOf_Struct(t *testing.T) {
	t.Parallel()

	shapes := template.ShapesOf(&person{})
	if len(shapes) != 2 {
		t.Fatalf("expected person and address shapes, got %d", len(shapes))
	}
	if shapes[0].ShapeName() != "person" || shapes[1].ShapeName() != "address" {
		t.Fatalf("unexpected shape order: %s, %s", shapes[0].ShapeName(), shapes[1].ShapeName())
	}

	want := []template.Field{
		{Name: "id", Kind: template.FieldNumber},
		{Name: "fullName", Kind: template.FieldText},
		{Name: "born", Kind: template.FieldDate},
		{Name: "active", Kind: template.FieldBool},
		{Name: "home", Kind: template.FieldObject, Template: "address"},
		{Name: "previous", Kind: template.FieldCollection, Template: "address"},
		{Name: "nicknames", Kind: template.FieldUnknown},
	}
	if diff := cmp.Diff(want, shapes[0].Fields()); diff != "" {
		t.Fatalf("person fields mismatch (-want +got):\n%s", diff)
	}

	wantAddress := []template.Field{
		{Name: "street", Kind: template.FieldText},
		{Name: "town", Kind: template.FieldText, Label: "Town"},
	}
	if diff := cmp.Diff(wantAddress, shapes[1].Fields()); diff != "" {
		t.Fatalf("address fields mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplate_InitFromShape(t *testing.T) {
	t.Parallel()

	tpl := template.NewShapedTemplate("person", template.ShapeOf(person{}))
	if err := tpl.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	var got []string
	for _, el := range tpl.Elements {
		got = append(got, el.Name+":"+el.Type)
	}
	want := []string{
		"id:number-prop",
		"fullName:text-prop",
		"born:date-prop",
		"active:bool-prop",
		"home:member-prop",
		"previous:member-prop",
		"nicknames:prop",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("elements mismatch (-want +got):\n%s", diff)
	}

	previous, _ := tpl.Element("previous")
	if previous.Member.Kind != template.MemberCollection {
		t.Fatalf("expected collection kind, got %s", previous.Member.Kind)
	}
	if diff := cmp.Diff([]string{"address"}, tpl.References()); diff != "" {
		t.Fatalf("references mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplate_ShapeResolvesUnknownMemberKind(t *testing.T) {
	t.Parallel()

	member := template.NewMember("previous", "address", template.MemberUnknown)
	tpl := template.NewTemplate("person", member)
	tpl.Shape = template.ShapeOf(person{})
	if err := tpl.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if member.Member.Kind != template.MemberCollection {
		t.Fatalf("expected collection kind from shape, got %s", member.Member.Kind)
	}
}

func TestElement_ForRow(t *testing.T) {
	t.Parallel()

	cmd := template.NewCommand("edit", "editUser")
	row := cmd.ForRow("", "")

	if cmd.Command.Scope != template.ScopeElement {
		t.Fatalf("original command must stay element scoped")
	}
	if row.Command.Scope != template.ScopeRow || row.Type != template.TypeRowAction {
		t.Fatalf("expected row scoped clone, got %+v", row.Command)
	}
	if row.Command.Action != "editUser" {
		t.Fatalf("action lost in clone: %q", row.Command.Action)
	}
	if row.Command.IDAttribute != template.DefaultIDAttribute || row.Command.IDExpression != template.DefaultIDExpression {
		t.Fatalf("row defaults not applied: %+v", row.Command)
	}
}

func TestConfiguration_Validate(t *testing.T) {
	t.Parallel()

	cfg := template.MustConfiguration("list",
		template.NewTemplate("list", template.NewMember("items", "item", template.MemberCollection)),
	)
	if err := cfg.Validate(); !errors.Is(err, template.ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
	if err := cfg.Add(template.NewTemplate("item", template.NewProperty("label"))); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := cfg.Add(template.NewTemplate("item")); !errors.Is(err, template.ErrDuplicateTemplate) {
		t.Fatalf("expected ErrDuplicateTemplate, got %v", err)
	}
}

func TestTableTemplate(t *testing.T) {
	t.Parallel()

	templates, err := template.TableTemplate(template.TableSpec{
		Name:        "users",
		Collection:  "users",
		RowTemplate: "user",
		Headings:    []string{"name", "email"},
		RowActions:  []*template.Element{template.NewCommand("edit", "editUser")},
	})
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("expected table and row templates, got %d", len(templates))
	}
	row := templates[1]
	if row.Name != "users.row" {
		t.Fatalf("unexpected row template name %q", row.Name)
	}
	edit, ok := row.Element("edit")
	if !ok || edit.Command.Scope != template.ScopeRow {
		t.Fatalf("expected row scoped edit action, got %+v", edit)
	}
	grid, _ := templates[0].Element("table")
	if headings, _ := grid.Setting("headings"); headings != "name,email" {
		t.Fatalf("unexpected headings %q", headings)
	}
}
