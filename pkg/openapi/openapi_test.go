package openapi_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/thegaffer/tal-web-sub003/pkg/openapi"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
	"github.com/thegaffer/tal-web-sub003/pkg/testsupport"
)

const petstore = `
openapi: 3.0.3
info:
  title: People
  version: 1.0.0
paths: {}
components:
  schemas:
    Person:
      type: object
      x-tal-order: [name, born]
      properties:
        name:
          type: string
          title: Full name
        born:
          type: string
          format: date
        age:
          type: integer
        active:
          type: boolean
        status:
          type: string
          enum: [active, retired]
        address:
          $ref: '#/components/schemas/Address'
        history:
          type: array
          items:
            $ref: '#/components/schemas/Address'
        nicknames:
          type: array
          items:
            type: string
        notes:
          type: string
          x-tal-kind: text
        links:
          type: object
          additionalProperties:
            $ref: '#/components/schemas/Address'
    Address:
      type: object
      properties:
        city:
          type: string
`

func load(t *testing.T, data string) openapi.Document {
	t.Helper()

	fsys := fstest.MapFS{"api.yaml": {Data: []byte(data)}}
	doc, err := openapi.Load(testsupport.Context(), fsys, openapi.SourceFromFS("api.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return doc
}

func TestShapes(t *testing.T) {
	t.Parallel()

	shapes, err := openapi.Shapes(testsupport.Context(), load(t, petstore))
	if err != nil {
		t.Fatalf("shapes: %v", err)
	}
	byName := openapi.ShapeMap(shapes)
	if len(shapes) != 2 || shapes[0].ShapeName() != "Address" {
		t.Fatalf("unexpected shapes %v", shapes)
	}

	want := []template.Field{
		{Name: "name", Kind: template.FieldText, Label: "Full name"},
		{Name: "born", Kind: template.FieldDate},
		{Name: "active", Kind: template.FieldBool},
		{Name: "address", Kind: template.FieldObject, Template: "Address"},
		{Name: "age", Kind: template.FieldNumber},
		{Name: "history", Kind: template.FieldCollection, Template: "Address"},
		{Name: "links", Kind: template.FieldMap, Template: "Address"},
		{Name: "nicknames", Kind: template.FieldArray},
		{Name: "notes", Kind: template.FieldText},
		{Name: "status", Kind: template.FieldChoice, Codes: []template.Code{
			{Value: "active", Label: "active"},
			{Value: "retired", Label: "retired"},
		}},
	}
	if diff := cmp.Diff(want, byName["Person"].Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestShapes_PopulateTemplates(t *testing.T) {
	t.Parallel()

	shapes, err := openapi.Shapes(testsupport.Context(), load(t, petstore))
	if err != nil {
		t.Fatalf("shapes: %v", err)
	}
	byName := openapi.ShapeMap(shapes)
	person := template.NewShapedTemplate("Person", byName["Person"])
	address := template.NewShapedTemplate("Address", byName["Address"])
	if _, err := template.NewConfiguration("Person", person, address); err != nil {
		t.Fatalf("configuration: %v", err)
	}
	if err := person.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	history, ok := person.Element("history")
	if !ok || history.Member == nil || history.Member.Kind != template.MemberCollection {
		t.Fatalf("expected a collection member, got %+v", history)
	}
}

func TestShapes_NoSchemas(t *testing.T) {
	t.Parallel()

	doc := load(t, "openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths: {}\n")
	if _, err := openapi.Shapes(testsupport.Context(), doc); !errors.Is(err, openapi.ErrNoSchemas) {
		t.Fatalf("expected ErrNoSchemas, got %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	if _, err := openapi.Load(testsupport.Context(), nil, openapi.SourceFromFS("api.yaml")); err == nil {
		t.Fatalf("expected an error without a filesystem")
	}
	fsys := fstest.MapFS{"empty.yaml": {Data: nil}}
	if _, err := openapi.Load(testsupport.Context(), fsys, openapi.SourceFromFS("empty.yaml")); !errors.Is(err, openapi.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}

	ctx, cancel := context.WithCancel(testsupport.Context())
	cancel()
	if _, err := openapi.Load(ctx, fsys, openapi.SourceFromFS("empty.yaml")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLint(t *testing.T) {
	t.Parallel()

	doc := load(t, `
openapi: 3.0.3
info: {title: x, version: '1'}
paths: {}
components:
  schemas:
    Person:
      type: object
      x-tal-order: [name, missing]
      x-tal-colour: red
      properties:
        name:
          type: string
          x-tal-kind: text
        age:
          type: integer
          x-tal-kind: weird
        friend:
          type: object
          x-tal-template: ''
`)
	got, err := openapi.Lint(testsupport.Context(), doc)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	want := []openapi.Violation{
		{Location: "schemas > Person", Message: `unsupported schema extension "x-tal-colour" (supported: x-tal-order)`},
		{Location: "schemas > Person", Message: `x-tal-order names unknown property "missing"`},
		{Location: "schemas > Person > properties > age", Message: `x-tal-kind has unknown kind "weird"`},
		{Location: "schemas > Person > properties > friend", Message: "x-tal-template must be a template name"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}

	clean, err := openapi.Lint(testsupport.Context(), openapi.MustNewDocument(openapi.SourceFromFS("api.yaml"), []byte(petstore)))
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(clean) != 0 {
		t.Fatalf("expected no violations, got %v", clean)
	}
}
