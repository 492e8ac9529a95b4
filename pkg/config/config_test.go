package config_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"github.com/thegaffer/tal-web-sub003/pkg/config"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

const siteYAML = `
name: crm
root: people
locale: en-GB
namespace: crm
targets: [html, script, HTML]
styles:
  html: [no-label]
messages: i18n
urlBase: /app
theme:
  name: acme
  tokens:
    class.htmlWrapper: field
    brand: "#123456"
  variants:
    dark:
      tokens:
        brand: "#000000"
templates:
  - name: person
    elements:
      - name: name
        type: text-prop
        label: Full name
        propertySets:
          htmlWrapper: {class: wide}
      - name: status
        type: choice-prop
        codes:
          - {value: a, label: Active}
          - {value: i, label: Inactive}
      - name: score
        type: number-prop
        decimalPlaces: 1
        min: 0
        max: 10
      - name: tags
        type: member-prop
        template: tag
        kind: collection
        showIfNull: false
  - name: tag
    elements:
      - name: label
forms:
  - name: edit
    action: save
    bean: person
    beanTemplate: person
    commands:
      - name: save
        type: command-prop
tables:
  - name: people
    rowTemplate: person
    headings: [name, status]
    rowActions:
      - name: open
        type: command-prop
        action: people/open
        parameters: {mode: full}
`

func TestLoadFS_YAML(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"site.yaml": {Data: []byte(siteYAML)}}
	cfg, err := config.LoadFS(fsys, "site.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if diff := cmp.Diff([]string{"html", "script"}, cfg.Targets); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}
	if cfg.LocaleTag() != language.MustParse("en-GB") {
		t.Fatalf("unexpected locale %v", cfg.LocaleTag())
	}
	if diff := cmp.Diff([]string{"no-label"}, cfg.StylesFor("html")); diff != "" {
		t.Fatalf("styles mismatch (-want +got):\n%s", diff)
	}
	if !cfg.HasTarget("script") || cfg.HasTarget("pdf") {
		t.Fatalf("unexpected targets %v", cfg.Targets)
	}

	templates, err := cfg.BuildTemplates(nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var names []string
	for _, tmpl := range templates {
		names = append(names, tmpl.Name)
	}
	if diff := cmp.Diff([]string{"person", "tag", "edit", "people", "people.row"}, names); diff != "" {
		t.Fatalf("template names mismatch (-want +got):\n%s", diff)
	}
	if _, err := template.NewConfiguration(cfg.Root, templates...); err != nil {
		t.Fatalf("configuration: %v", err)
	}

	person := templates[0]
	name, _ := person.Element("name")
	if name.Type != template.TypeText || name.SettingOr("label", "") != "Full name" || name.PropertySet("htmlWrapper")["class"] != "wide" {
		t.Fatalf("unexpected name element %+v", name)
	}
	status, _ := person.Element("status")
	if diff := cmp.Diff([]template.Code{{Value: "a", Label: "Active"}, {Value: "i", Label: "Inactive"}}, status.Coded.Codes); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	score, _ := person.Element("score")
	if score.Number.DecimalPlaces != 1 || *score.Number.Min != 0 || *score.Number.Max != 10 {
		t.Fatalf("unexpected number spec %+v", score.Number)
	}
	tags, _ := person.Element("tags")
	if tags.Member.Template != "tag" || tags.Member.Kind != template.MemberCollection || *tags.Member.ShowIfNull {
		t.Fatalf("unexpected member spec %+v", tags.Member)
	}

	row := templates[4]
	open, ok := row.Element("open")
	if !ok {
		t.Fatalf("row action missing")
	}
	if open.Command.Action != "people/open" || open.Command.Scope != template.ScopeRow || open.Command.Parameters["mode"] != "full" {
		t.Fatalf("unexpected row action %+v", open.Command)
	}
}

func TestParse_JSONAndDefaults(t *testing.T) {
	t.Parallel()

	data := []byte(`{"root": "page", "templates": [{"name": "page", "elements": [{"name": "title"}]}]}`)
	cfg, err := config.Parse(data, "site.json", config.WithDefaultTargets("html", "script"), config.WithDefaultLocale("fr"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]string{"html", "script"}, cfg.Targets); diff != "" {
		t.Fatalf("targets mismatch (-want +got):\n%s", diff)
	}
	if cfg.Locale != "fr" || cfg.Source != "site.json" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	templates, err := cfg.BuildTemplates(nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if el := templates[0].Elements[0]; el.Type != template.TypeProperty {
		t.Fatalf("expected a plain property, got %q", el.Type)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data string
		want error
	}{
		{name: "empty", data: "  \n", want: config.ErrEmpty},
		{name: "invalid", data: "{not json", want: config.ErrInvalid},
		{name: "locale", data: "locale: not_a_locale!", want: config.ErrLocale},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := config.Parse([]byte(tc.data), "site"); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParse_DuplicateAndUnknownRoot(t *testing.T) {
	t.Parallel()

	if _, err := config.Parse([]byte("templates:\n  - name: a\n  - name: a\n"), "dup.yaml"); err == nil {
		t.Fatalf("expected duplicate template error")
	}
	if _, err := config.Parse([]byte("root: b\ntemplates:\n  - name: a\n"), "root.yaml"); err == nil {
		t.Fatalf("expected unknown root error")
	}
}

func TestBuildTemplates_Shapes(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte("templates:\n  - name: person\n    shape: Person\n"), "shape.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := cfg.BuildTemplates(nil); !errors.Is(err, config.ErrUnknownShape) {
		t.Fatalf("expected ErrUnknownShape, got %v", err)
	}

	shape := template.StaticShape{Name: "Person", FieldsList: []template.Field{
		{Name: "name", Kind: template.FieldText},
		{Name: "age", Kind: template.FieldNumber},
	}}
	templates, err := cfg.BuildTemplates(config.ShapeMap(map[string]template.DataShape{"Person": shape}))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := templates[0].Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if len(templates[0].Elements) != 2 || templates[0].Elements[1].Type != template.TypeNumber {
		t.Fatalf("expected elements from the shape, got %+v", templates[0].Elements)
	}
}

func TestConfig_Manifest(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(siteYAML), "site.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	manifest := cfg.Manifest()
	if manifest == nil || manifest.Name != "acme" || manifest.Version == "" {
		t.Fatalf("unexpected manifest %+v", manifest)
	}
	if manifest.Tokens["class.htmlWrapper"] != "field" || manifest.Variants["dark"].Tokens["brand"] != "#000000" {
		t.Fatalf("unexpected tokens %+v", manifest)
	}

	bare, err := config.Parse([]byte("name: plain"), "plain.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if bare.Manifest() != nil {
		t.Fatalf("expected no manifest")
	}
}
