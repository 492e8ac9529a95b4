package render

import (
	"errors"
	"strings"
)

var (
	// ErrTypeMismatch reports a value whose runtime shape does not match the
	// node bound to it, such as a scalar bound to a collection.
	ErrTypeMismatch = errors.New("render: type mismatch")
	// ErrPropertyNotFound reports a property the current object cannot carry.
	ErrPropertyNotFound = errors.New("render: property not found")
	// ErrNotContainer reports AddElement on a node that takes no children.
	ErrNotContainer = errors.New("render: element does not accept children")
	// ErrNilElement reports AddElement with a nil child.
	ErrNilElement = errors.New("render: element is required")
	// ErrStackUnderflow reports PopNode on an empty frame stack.
	ErrStackUnderflow = errors.New("render: no current node to pop")
	// ErrMissingTranslator mirrors the translator contract: helpers return it
	// when a lookup is attempted without a translator.
	ErrMissingTranslator = errors.New("render: translator is required")
)

// ErrorsAttribute is the model attribute holding validation errors.
const ErrorsAttribute = "errors"

// Errors splits validation messages into field-level messages keyed by the
// dotted frame names used throughout the render pipeline and form-level
// messages.
type Errors struct {
	Fields map[string][]string
	Form   []string
}

// Add records a message for field, or for the form when field is empty.
func (e *Errors) Add(field, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	field = strings.TrimSpace(field)
	if field == "" {
		e.Form = MergeMessages(e.Form, message)
		return
	}
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = MergeMessages(e.Fields[field], message)
}

// Has reports whether field carries at least one message.
func (e *Errors) Has(field string) bool {
	if e == nil {
		return false
	}
	return len(e.Fields[field]) > 0
}

// Empty reports whether no messages are recorded.
func (e *Errors) Empty() bool {
	return e == nil || (len(e.Fields) == 0 && len(e.Form) == 0)
}

// MergeMessages concatenates and normalises message slices, trimming
// whitespace and removing duplicates while preserving order.
func MergeMessages(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)

	out := make([]string, 0, len(combined))
	seen := make(map[string]struct{}, len(combined))
	for _, message := range combined {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
