package template

import (
	"reflect"
	"sort"
	"strings"
	"time"
	"unicode"
)

// DataShape describes the data a template renders: the "template class".
// Templates with a shape populate their elements from it during Init.
type DataShape interface {
	ShapeName() string
	Fields() []Field
}

// FieldKind classifies a shape field.
type FieldKind uint8

const (
	FieldUnknown FieldKind = iota
	FieldText
	FieldNumber
	FieldDate
	FieldBool
	FieldChoice
	FieldObject
	FieldCollection
	FieldArray
	FieldMap
)

// ParseFieldKind resolves a kind name used in struct tags and schema hints.
func ParseFieldKind(raw string) FieldKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "text", "string":
		return FieldText
	case "number", "integer":
		return FieldNumber
	case "date", "date-time", "datetime", "time":
		return FieldDate
	case "bool", "boolean":
		return FieldBool
	case "choice", "enum", "coded":
		return FieldChoice
	case "object", "member":
		return FieldObject
	case "collection", "list":
		return FieldCollection
	case "array":
		return FieldArray
	case "map":
		return FieldMap
	default:
		return FieldUnknown
	}
}

func (k FieldKind) memberKind() MemberKind {
	switch k {
	case FieldObject:
		return MemberObject
	case FieldCollection:
		return MemberCollection
	case FieldArray:
		return MemberArray
	case FieldMap:
		return MemberMap
	default:
		return MemberUnknown
	}
}

// Field is one property of a data shape. Template names the shape of nested
// values for object, collection, array and map fields.
type Field struct {
	Name     string
	Kind     FieldKind
	Template string
	Label    string
	Codes    []Code
}

// StaticShape is a DataShape backed by a fixed field list.
type StaticShape struct {
	Name       string
	FieldsList []Field
}

func (s StaticShape) ShapeName() string { return s.Name }
func (s StaticShape) Fields() []Field   { return s.FieldsList }

// ElementsFromShape builds one element per shape field.
func ElementsFromShape(shape DataShape) []*Element {
	fields := shape.Fields()
	out := make([]*Element, 0, len(fields))
	for _, f := range fields {
		var opts []ElementOption
		if f.Label != "" {
			opts = append(opts, WithLabel(f.Label))
		}
		var el *Element
		switch f.Kind {
		case FieldText:
			el = NewTextProperty(f.Name, opts...)
		case FieldNumber:
			el = NewNumberProperty(f.Name, opts...)
		case FieldDate:
			el = NewDateProperty(f.Name, opts...)
		case FieldBool:
			el = NewBoolProperty(f.Name, opts...)
		case FieldChoice:
			el = NewChoiceProperty(f.Name, f.Codes, opts...)
		case FieldObject, FieldCollection, FieldArray, FieldMap:
			if f.Template == "" {
				el = NewProperty(f.Name, opts...)
				break
			}
			el = NewMember(f.Name, f.Template, f.Kind.memberKind(), opts...)
		default:
			el = NewProperty(f.Name, opts...)
		}
		out = append(out, el)
	}
	return out
}

var timeType = reflect.TypeOf(time.Time{})

type structShape struct {
	name   string
	fields []Field
	nested []DataShape
}

func (s *structShape) ShapeName() string { return s.name }
func (s *structShape) Fields() []Field   { return s.fields }

// ShapeOf introspects a struct (or pointer to struct) value. Field names
// come from the `tal` tag, then the `json` tag, then the Go name with its
// leading initialism lower-cased. The tag accepts `kind=`, `template=` and
// `label=` options; `tal:"-"` skips a field.
func ShapeOf(v any) DataShape {
	shapes := ShapesOf(v)
	if len(shapes) == 0 {
		return nil
	}
	return shapes[0]
}

// ShapesOf returns the shape of v followed by the shapes of every nested
// struct type it references, each once.
func ShapesOf(v any) []DataShape {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	seen := make(map[reflect.Type]*structShape)
	root := describe(t, seen)
	out := []DataShape{root}
	names := make([]string, 0, len(seen))
	byName := make(map[string]*structShape, len(seen))
	for typ, shape := range seen {
		if typ == t {
			continue
		}
		names = append(names, shape.name)
		byName[shape.name] = shape
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, byName[name])
	}
	return out
}

func describe(t reflect.Type, seen map[reflect.Type]*structShape) *structShape {
	if shape, ok := seen[t]; ok {
		return shape
	}
	shape := &structShape{name: t.Name()}
	seen[t] = shape
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := parseTag(sf.Tag.Get("tal"))
		if tag.skip {
			continue
		}
		field := Field{Name: tag.name, Label: tag.label, Template: tag.template}
		if field.Name == "" {
			field.Name = jsonName(sf)
		}
		if field.Name == "" {
			field.Name = lowerInitialism(sf.Name)
		}
		kind, nested := classify(sf.Type)
		if tag.kind != FieldUnknown {
			kind = tag.kind
		}
		field.Kind = kind
		if nested != nil && nested.Name() != "" {
			if field.Template == "" {
				field.Template = nested.Name()
			}
			describe(nested, seen)
		}
		shape.fields = append(shape.fields, field)
	}
	return shape
}

// classify maps a Go type onto a field kind and, for containers of structs,
// the struct type of the contained values.
func classify(t reflect.Type) (FieldKind, reflect.Type) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return FieldDate, nil
	}
	switch t.Kind() {
	case reflect.String:
		return FieldText, nil
	case reflect.Bool:
		return FieldBool, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return FieldNumber, nil
	case reflect.Struct:
		return FieldObject, t
	case reflect.Slice, reflect.Array:
		elem := structElem(t.Elem())
		if elem == nil {
			return FieldUnknown, nil
		}
		if t.Kind() == reflect.Array {
			return FieldArray, elem
		}
		return FieldCollection, elem
	case reflect.Map:
		elem := structElem(t.Elem())
		if elem == nil {
			return FieldUnknown, nil
		}
		return FieldMap, elem
	default:
		return FieldUnknown, nil
	}
}

func structElem(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct && t != timeType {
		return t
	}
	return nil
}

type fieldTag struct {
	name     string
	kind     FieldKind
	template string
	label    string
	skip     bool
}

func parseTag(raw string) fieldTag {
	if raw == "-" {
		return fieldTag{skip: true}
	}
	parts := strings.Split(raw, ",")
	tag := fieldTag{name: strings.TrimSpace(parts[0])}
	for _, part := range parts[1:] {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "kind":
			tag.kind = ParseFieldKind(value)
		case "template":
			tag.template = strings.TrimSpace(value)
		case "label":
			tag.label = strings.TrimSpace(value)
		}
	}
	return tag
}

func jsonName(sf reflect.StructField) string {
	raw := sf.Tag.Get("json")
	if raw == "" || raw == "-" {
		return ""
	}
	name, _, _ := strings.Cut(raw, ",")
	return strings.TrimSpace(name)
}

// lowerInitialism lower-cases the leading upper-case run of a Go identifier:
// Title -> title, ID -> id, URLPath -> urlPath.
func lowerInitialism(name string) string {
	runes := []rune(name)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	if n == 0 {
		return name
	}
	if n > 1 && n < len(runes) {
		n-- // keep the first letter of the next word upper-case
	}
	for i := 0; i < n; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}
