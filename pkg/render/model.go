package render

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"github.com/thegaffer/tal-web-sub003/internal/introspect"
	"github.com/thegaffer/tal-web-sub003/pkg/expr"
)

// Model is the per-render context: where output goes, the attribute map
// top-level lookups read from and the stack of frames tracking the current
// data position. A Model belongs to exactly one render call and must not be
// shared between goroutines.
type Model struct {
	writer     io.Writer
	attrs      map[string]any
	stack      []*Node
	locale     language.Tag
	namespace  string
	translator Translator
	onMissing  MissingTranslationHandler
	urls       URLGenerator
	evaluator  expr.Evaluator
	factory    NodeFactory
	theme      Theme
	hidden     map[string]string
	logger     *slog.Logger
}

// NewModel builds a render context writing to w. attrs is used directly,
// not copied; a nil map starts empty.
func NewModel(w io.Writer, attrs map[string]any, opts ...ModelOption) *Model {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	m := &Model{
		writer:    w,
		attrs:     attrs,
		locale:    language.English,
		onMissing: missingTranslationDefault,
		urls:      PathURLGenerator{},
		evaluator: expr.Default(),
		factory:   PathNodeFactory{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Writer returns the output sink.
func (m *Model) Writer() io.Writer { return m.writer }

// WriteString writes s to the output sink.
func (m *Model) WriteString(s string) error {
	if m.writer == nil {
		return fmt.Errorf("render: model has no writer")
	}
	_, err := io.WriteString(m.writer, s)
	return err
}

// Locale returns the render locale.
func (m *Model) Locale() language.Tag { return m.locale }

// Namespace returns the id and URL namespace.
func (m *Model) Namespace() string { return m.namespace }

// URLGenerator returns the action URL generator.
func (m *Model) URLGenerator() URLGenerator { return m.urls }

// Evaluator returns the expression evaluator.
func (m *Model) Evaluator() expr.Evaluator { return m.evaluator }

// Theme returns the CSS class theme, possibly nil.
func (m *Model) Theme() Theme { return m.theme }

// ThemeClass returns the theme classes for role, or "".
func (m *Model) ThemeClass(role string) string {
	if m.theme == nil {
		return ""
	}
	return m.theme.Class(role)
}

// Logger returns the model logger.
func (m *Model) Logger() *slog.Logger { return m.logger }

// HiddenFields returns the hidden fields in name order.
func (m *Model) HiddenFields() []HiddenField {
	return SortedHiddenFields(m.hidden)
}

// Attributes returns the backing attribute map.
func (m *Model) Attributes() map[string]any { return m.attrs }

// Object reads a top-level attribute.
func (m *Model) Object(name string) any { return m.attrs[name] }

// Attribute is an alias of Object.
func (m *Model) Attribute(name string) any { return m.attrs[name] }

// SetObject writes a top-level attribute.
func (m *Model) SetObject(name string, value any) { m.attrs[name] = value }

// CurrentNode returns the top frame, or nil when the stack is empty.
func (m *Model) CurrentNode() *Node {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// Depth returns the number of active frames.
func (m *Model) Depth() int { return len(m.stack) }

// Lookup resolves a value relative to the current position: a top-level
// attribute when no frame is active, the current object for an empty name,
// and otherwise the named property of the current object.
func (m *Model) Lookup(name string) (any, error) {
	current := m.CurrentNode()
	switch {
	case current == nil:
		if name == "" {
			return nil, nil
		}
		return m.Object(name), nil
	case name == "":
		return current.Object(), nil
	default:
		return current.Property(name)
	}
}

// PushNode resolves the object at name (or at index of the current object)
// and pushes a frame for it.
func (m *Model) PushNode(name string, index int) (*Node, error) {
	object, err := m.child(name, index)
	if err != nil {
		return nil, err
	}
	return m.PushValue(name, index, object), nil
}

// PushValue pushes a frame for an object the caller already resolved.
func (m *Model) PushValue(name string, index int, object any) *Node {
	node := m.factory.NewNode(m.CurrentNode(), name, index, object)
	m.stack = append(m.stack, node)
	return node
}

// PopNode removes the top frame.
func (m *Model) PopNode() error {
	if len(m.stack) == 0 {
		return ErrStackUnderflow
	}
	m.stack[len(m.stack)-1] = nil
	m.stack = m.stack[:len(m.stack)-1]
	return nil
}

func (m *Model) child(name string, index int) (any, error) {
	current := m.CurrentNode()
	if current == nil {
		if index >= 0 && name == "" {
			return nil, nil
		}
		return m.Object(name), nil
	}
	if index >= 0 {
		if value, ok := introspect.Index(current.Object(), index); ok {
			return value, nil
		}
		if introspect.IsMap(current.Object()) && name != "" {
			value, _ := introspect.Property(current.Object(), name)
			return value, nil
		}
		return nil, nil
	}
	return current.Property(name)
}

// Message resolves a localized message, falling back to def (or code when
// def is blank). String arguments prefixed with '#' are message keys
// themselves and are resolved first.
func (m *Model) Message(code, def string, args ...any) string {
	resolved := make([]any, len(args))
	for i, arg := range args {
		if s, ok := arg.(string); ok && strings.HasPrefix(s, "#") && len(s) > 1 {
			key := s[1:]
			resolved[i] = m.Message(key, key)
			continue
		}
		resolved[i] = arg
	}
	return translate(m.locale.String(), code, def, resolved, m.translator, m.onMissing)
}

// Evaluate evaluates expression against the current frame.
func (m *Model) Evaluate(expression string, kind expr.Kind) (any, error) {
	return m.EvaluateAt(m.CurrentNode(), expression, kind)
}

// EvaluateAt evaluates expression with node as "this" and its parent as
// "parent".
func (m *Model) EvaluateAt(node *Node, expression string, kind expr.Kind) (any, error) {
	env := expr.Env{Attributes: m.attrs}
	if node != nil {
		env.This = node.Object()
		if node.Parent() != nil {
			env.Parent = node.Parent().Object()
		}
	}
	return m.evaluator.Evaluate(env, expression, kind)
}

// AdaptID returns the element id for name relative to the current frame,
// prefixed by the namespace.
func (m *Model) AdaptID(name string) string {
	id := name
	if current := m.CurrentNode(); current != nil {
		switch {
		case name == "":
			id = current.ID()
		case current.ID() != "":
			id = current.ID() + "-" + name
		}
	}
	if m.namespace != "" && id != "" {
		return m.namespace + "-" + id
	}
	return id
}

// AdaptName returns the field name for name relative to the current frame.
func (m *Model) AdaptName(name string) string {
	current := m.CurrentNode()
	if current == nil {
		return name
	}
	switch {
	case name == "":
		return current.Name()
	case current.Name() == "":
		return name
	default:
		return current.Name() + "." + name
	}
}

// IsError reports whether the field name (relative to the current frame)
// has validation errors recorded under ErrorsAttribute.
func (m *Model) IsError(name string) bool {
	field := m.AdaptName(name)
	switch errs := m.attrs[ErrorsAttribute].(type) {
	case *Errors:
		return errs.Has(field)
	case Errors:
		return errs.Has(field)
	case map[string][]string:
		return len(errs[field]) > 0
	}
	return false
}

// ActionURL builds the URL for action within the model namespace.
func (m *Model) ActionURL(action string, params map[string]any) (string, error) {
	return m.urls.ActionURL(m.namespace, action, params)
}
