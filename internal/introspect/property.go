// Package introspect reads properties, items and entries off arbitrary Go
// values for the render runtime.
package introspect

import (
	"fmt"
	"iter"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Entry is one key/value pair of a map value.
type Entry struct {
	Key   string
	Value any
}

// IsNil reports whether v is nil or a nil pointer, map, slice, interface,
// func or channel.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Property reads name from obj. Maps are read by key. Structs are read by
// field (Go name, `tal` or `json` tag, or a case-insensitive match) and then
// by a niladic method named Name or GetName. The second result is false
// when obj cannot carry the property at all.
func Property(obj any, name string) (any, bool) {
	if obj == nil {
		return nil, true
	}
	if m, ok := obj.(map[string]any); ok {
		return m[name], true
	}

	orig := reflect.ValueOf(obj)
	rv := orig
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, true
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		value := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !value.IsValid() {
			return nil, true
		}
		return value.Interface(), true
	case reflect.Struct:
		index, ok := fieldIndex(rv.Type(), name)
		if ok {
			field, err := rv.FieldByIndexErr(index)
			if err != nil {
				// nil embedded pointer on the path
				return nil, true
			}
			return field.Interface(), true
		}
		if v, ok := method(orig, name); ok {
			return v, true
		}
		return nil, false
	}
	if v, ok := method(orig, name); ok {
		return v, true
	}
	return nil, false
}

func method(rv reflect.Value, name string) (any, bool) {
	if !rv.IsValid() || name == "" {
		return nil, false
	}
	upper := exported(name)
	for _, candidate := range []string{upper, "Get" + upper} {
		m := rv.MethodByName(candidate)
		if !m.IsValid() {
			continue
		}
		mt := m.Type()
		if mt.NumIn() != 0 || mt.NumOut() == 0 || mt.NumOut() > 2 {
			continue
		}
		out := m.Call(nil)
		if mt.NumOut() == 2 {
			if err, ok := out[1].Interface().(error); ok && err != nil {
				continue
			}
		}
		return out[0].Interface(), true
	}
	return nil, false
}

var fieldCache sync.Map // reflect.Type -> map[string][]int

func fieldIndex(t reflect.Type, name string) ([]int, bool) {
	cached, ok := fieldCache.Load(t)
	if !ok {
		cached, _ = fieldCache.LoadOrStore(t, buildFieldIndex(t))
	}
	fields := cached.(map[string][]int)
	if index, ok := fields[name]; ok {
		return index, true
	}
	index, ok := fields[strings.ToLower(name)]
	return index, ok
}

func buildFieldIndex(t reflect.Type) map[string][]int {
	out := make(map[string][]int)
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		names := []string{sf.Name}
		for _, key := range []string{"tal", "json"} {
			raw := sf.Tag.Get(key)
			if raw == "" || raw == "-" {
				continue
			}
			tagName, _, _ := strings.Cut(raw, ",")
			if tagName = strings.TrimSpace(tagName); tagName != "" {
				names = append(names, tagName)
			}
		}
		for _, n := range names {
			if _, exists := out[n]; !exists {
				out[n] = sf.Index
			}
		}
		lower := strings.ToLower(sf.Name)
		if _, exists := out[lower]; !exists {
			out[lower] = sf.Index
		}
	}
	return out
}

// Index reads position i of a slice or array.
func Index(obj any, i int) (any, bool) {
	rv := indirect(reflect.ValueOf(obj))
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	}
	return nil, false
}

// Items returns the elements of a slice, array, iter.Seq[any] or a type
// exposing All() iter.Seq[any]. The second result is false for any other
// value.
func Items(obj any) ([]any, bool) {
	switch v := obj.(type) {
	case []any:
		return v, true
	case iter.Seq[any]:
		var out []any
		for item := range v {
			out = append(out, item)
		}
		return out, true
	case interface{ All() iter.Seq[any] }:
		var out []any
		for item := range v.All() {
			out = append(out, item)
		}
		return out, true
	}
	rv := indirect(reflect.ValueOf(obj))
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	}
	return nil, false
}

// IsSequence reports whether Items would succeed for obj.
func IsSequence(obj any) bool {
	switch obj.(type) {
	case []any, iter.Seq[any], interface{ All() iter.Seq[any] }:
		return true
	}
	rv := indirect(reflect.ValueOf(obj))
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

// Entries returns the entries of a map sorted by key text.
func Entries(obj any) ([]Entry, bool) {
	rv := indirect(reflect.ValueOf(obj))
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make([]Entry, 0, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		out = append(out, Entry{Key: fmt.Sprint(it.Key().Interface()), Value: it.Value().Interface()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, true
}

// IsMap reports whether obj is a map.
func IsMap(obj any) bool {
	return indirect(reflect.ValueOf(obj)).Kind() == reflect.Map
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
