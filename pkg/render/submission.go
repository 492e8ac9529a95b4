package render

import (
	"fmt"
	"sort"
	"strings"
)

// HiddenField is a name/value pair form nodes emit as hidden inputs ahead
// of their children, such as anti-forgery tokens or entity versions.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden builds a hidden field from any value.
func Hidden(name string, value any) HiddenField {
	text := ""
	if value != nil {
		text = fmt.Sprint(value)
	}
	return HiddenField{Name: strings.TrimSpace(name), Value: text}
}

// CSRFToken builds the anti-forgery hidden field under the caller's chosen
// name.
func CSRFToken(name, token string) HiddenField { return Hidden(name, token) }

// VersionField carries an entity version for optimistic locking.
func VersionField(name string, version any) HiddenField { return Hidden(name, version) }

// MergeHiddenFields overlays fields onto base, returning a new map. Blank
// names are dropped and later fields win.
func MergeHiddenFields(base map[string]string, fields ...HiddenField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	add := func(name, value string) {
		if name = strings.TrimSpace(name); name != "" {
			out[name] = value
		}
	}
	for name, value := range base {
		add(name, value)
	}
	for _, field := range fields {
		add(field.Name, field.Value)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedHiddenFields lists fields in name order.
func SortedHiddenFields(fields map[string]string) []HiddenField {
	merged := MergeHiddenFields(fields)
	if merged == nil {
		return nil
	}
	out := make([]HiddenField, 0, len(merged))
	for name, value := range merged {
		out = append(out, HiddenField{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
