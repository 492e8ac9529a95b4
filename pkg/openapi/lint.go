package openapi

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

const extensionPrefix = "x-tal-"

// Violation is one unsupported or malformed x-tal extension.
type Violation struct {
	Location string
	Message  string
}

func (v Violation) String() string {
	return v.Location + " -> " + v.Message
}

// Lint reports the x-tal extensions of doc's component schemas that Shapes
// would ignore, sorted by location.
func Lint(ctx context.Context, doc Document) ([]Violation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(doc.Raw())
	if err != nil {
		return nil, fmt.Errorf("openapi: load %s: %w", doc.Location(), err)
	}
	if spec.Components == nil {
		return nil, nil
	}

	var out []Violation
	for name, ref := range spec.Components.Schemas {
		if ref == nil || ref.Value == nil {
			continue
		}
		path := []string{"schemas", name}
		out = append(out, lintSchema(path, ref.Value)...)
		for prop, propRef := range ref.Value.Properties {
			if propRef == nil || propRef.Value == nil || propRef.Ref != "" {
				continue
			}
			out = append(out, lintProperty(appendPath(path, "properties", prop), propRef.Value)...)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Location == out[j].Location {
			return out[i].Message < out[j].Message
		}
		return out[i].Location < out[j].Location
	})
	return out, nil
}

func lintSchema(path []string, schema *openapi3.Schema) []Violation {
	var out []Violation
	for _, key := range extensionKeys(schema.Extensions) {
		value := schema.Extensions[key]
		switch key {
		case OrderExtension:
			list, ok := value.([]any)
			if !ok {
				out = append(out, violation(path, "%s must be a list, found %T", key, value))
				continue
			}
			for _, entry := range list {
				name, ok := entry.(string)
				if !ok {
					out = append(out, violation(path, "%s entries must be strings, found %T", key, entry))
					continue
				}
				if _, exists := schema.Properties[name]; !exists {
					out = append(out, violation(path, "%s names unknown property %q", key, name))
				}
			}
		default:
			out = append(out, violation(path, "unsupported schema extension %q (supported: %s)", key, OrderExtension))
		}
	}
	return out
}

func lintProperty(path []string, schema *openapi3.Schema) []Violation {
	var out []Violation
	for _, key := range extensionKeys(schema.Extensions) {
		value := schema.Extensions[key]
		text, isString := value.(string)
		switch key {
		case KindExtension:
			if !isString {
				out = append(out, violation(path, "%s must be a string, found %T", key, value))
			} else if template.ParseFieldKind(text) == template.FieldUnknown {
				out = append(out, violation(path, "%s has unknown kind %q", key, text))
			}
		case TemplateExtension:
			if !isString || strings.TrimSpace(text) == "" {
				out = append(out, violation(path, "%s must be a template name", key))
			}
		default:
			out = append(out, violation(path, "unsupported property extension %q (supported: %s, %s)", key, KindExtension, TemplateExtension))
		}
	}
	return out
}

func extensionKeys(extensions map[string]any) []string {
	keys := make([]string, 0, len(extensions))
	for key := range extensions {
		if strings.HasPrefix(key, extensionPrefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func violation(path []string, format string, args ...any) Violation {
	return Violation{Location: strings.Join(path, " > "), Message: fmt.Sprintf(format, args...)}
}

func appendPath(path []string, segments ...string) []string {
	next := append([]string(nil), path...)
	return append(next, segments...)
}
