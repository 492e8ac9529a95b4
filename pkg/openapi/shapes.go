package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// Extensions read from schema properties.
const (
	// KindExtension overrides the field kind, using template.ParseFieldKind
	// names.
	KindExtension = "x-tal-kind"
	// TemplateExtension names the template nested values render with.
	TemplateExtension = "x-tal-template"
	// OrderExtension lists a schema's properties in display order. Properties
	// it leaves out follow in name order.
	OrderExtension = "x-tal-order"
)

// ErrNoSchemas reports a document without component schemas.
var ErrNoSchemas = errors.New("openapi: document has no component schemas")

// Shapes parses doc and returns one data shape per component schema, in
// name order.
func Shapes(ctx context.Context, doc Document) ([]template.DataShape, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, ErrEmptyDocument
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load %s: %w", doc.Location(), err)
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSchemas, doc.Location())
	}

	names := make([]string, 0, len(spec.Components.Schemas))
	for name := range spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	shapes := make([]template.DataShape, 0, len(names))
	for _, name := range names {
		ref := spec.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		shapes = append(shapes, template.StaticShape{Name: name, FieldsList: fields(ref.Value)})
	}
	return shapes, nil
}

// ShapeMap indexes shapes by name.
func ShapeMap(shapes []template.DataShape) map[string]template.DataShape {
	out := make(map[string]template.DataShape, len(shapes))
	for _, shape := range shapes {
		out[shape.ShapeName()] = shape
	}
	return out
}

func fields(schema *openapi3.Schema) []template.Field {
	out := make([]template.Field, 0, len(schema.Properties))
	for _, name := range propertyOrder(schema) {
		ref := schema.Properties[name]
		if ref == nil {
			continue
		}
		out = append(out, field(name, ref))
	}
	return out
}

func propertyOrder(schema *openapi3.Schema) []string {
	var order []string
	seen := make(map[string]struct{}, len(schema.Properties))
	if listed, ok := schema.Extensions[OrderExtension].([]any); ok {
		for _, entry := range listed {
			name, ok := entry.(string)
			if !ok {
				continue
			}
			if _, exists := schema.Properties[name]; !exists {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			order = append(order, name)
		}
	}
	rest := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func field(name string, ref *openapi3.SchemaRef) template.Field {
	f := template.Field{Name: name}
	prop := ref.Value
	if prop == nil {
		f.Kind = template.FieldObject
		f.Template = componentName(ref.Ref)
		return f
	}
	f.Label = prop.Title

	switch {
	case ref.Ref != "":
		f.Kind = template.FieldObject
		f.Template = componentName(ref.Ref)
	case len(prop.Enum) > 0:
		f.Kind = template.FieldChoice
		for _, v := range prop.Enum {
			value := fmt.Sprint(v)
			f.Codes = append(f.Codes, template.Code{Value: value, Label: value})
		}
	case is(prop, "string") && (prop.Format == "date" || prop.Format == "date-time"):
		f.Kind = template.FieldDate
	case is(prop, "string"):
		f.Kind = template.FieldText
	case is(prop, "integer"), is(prop, "number"):
		f.Kind = template.FieldNumber
	case is(prop, "boolean"):
		f.Kind = template.FieldBool
	case is(prop, "array"):
		f.Kind = template.FieldArray
		if prop.Items != nil && prop.Items.Ref != "" {
			f.Kind = template.FieldCollection
			f.Template = componentName(prop.Items.Ref)
		}
	case is(prop, "object"):
		f.Kind = template.FieldObject
		if extra := prop.AdditionalProperties.Schema; extra != nil && extra.Ref != "" {
			f.Kind = template.FieldMap
			f.Template = componentName(extra.Ref)
		}
	}

	if kind, ok := prop.Extensions[KindExtension].(string); ok {
		if parsed := template.ParseFieldKind(kind); parsed != template.FieldUnknown {
			f.Kind = parsed
		}
	}
	if tmpl, ok := prop.Extensions[TemplateExtension].(string); ok && strings.TrimSpace(tmpl) != "" {
		f.Template = strings.TrimSpace(tmpl)
	}
	return f
}

func is(schema *openapi3.Schema, typ string) bool {
	return schema.Type != nil && schema.Type.Is(typ)
}

// componentName turns "#/components/schemas/Person" into "Person".
func componentName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
