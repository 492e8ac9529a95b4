package render

import (
	"log/slog"

	"golang.org/x/text/language"

	"github.com/thegaffer/tal-web-sub003/pkg/expr"
)

// Theme maps a rendering role (a property-set name such as "htmlWrapper")
// onto CSS classes. A nil theme contributes nothing.
type Theme interface {
	Class(role string) string
}

// ThemeFunc adapts a function into a Theme.
type ThemeFunc func(role string) string

// Class calls the function.
func (fn ThemeFunc) Class(role string) string { return fn(role) }

// ModelOption configures a Model. Options describe per-request data and
// collaborators; none of them are shared between concurrent renders unless
// the collaborator itself is safe for concurrent use.
type ModelOption func(*Model)

// WithLocale sets the render locale.
func WithLocale(tag language.Tag) ModelOption {
	return func(m *Model) {
		m.locale = tag
	}
}

// WithNamespace prefixes generated ids and scopes generated URLs.
func WithNamespace(namespace string) ModelOption {
	return func(m *Model) {
		m.namespace = namespace
	}
}

// WithTranslator sets the message lookup.
func WithTranslator(t Translator) ModelOption {
	return func(m *Model) {
		m.translator = t
	}
}

// WithMissingTranslationHandler overrides how untranslated keys render.
func WithMissingTranslationHandler(fn MissingTranslationHandler) ModelOption {
	return func(m *Model) {
		if fn != nil {
			m.onMissing = fn
		}
	}
}

// WithURLGenerator sets the action URL generator.
func WithURLGenerator(g URLGenerator) ModelOption {
	return func(m *Model) {
		if g != nil {
			m.urls = g
		}
	}
}

// WithEvaluator sets the expression evaluator.
func WithEvaluator(e expr.Evaluator) ModelOption {
	return func(m *Model) {
		if e != nil {
			m.evaluator = e
		}
	}
}

// WithNodeFactory sets the frame factory.
func WithNodeFactory(f NodeFactory) ModelOption {
	return func(m *Model) {
		if f != nil {
			m.factory = f
		}
	}
}

// WithTheme sets the CSS class theme.
func WithTheme(t Theme) ModelOption {
	return func(m *Model) {
		m.theme = t
	}
}

// WithLogger sets the logger used for formatting fallbacks and diagnostics.
func WithLogger(logger *slog.Logger) ModelOption {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithHiddenFields adds hidden fields emitted by form nodes.
func WithHiddenFields(fields ...HiddenField) ModelOption {
	return func(m *Model) {
		m.hidden = MergeHiddenFields(m.hidden, fields...)
	}
}

// WithErrors stores validation errors under ErrorsAttribute.
func WithErrors(errs Errors) ModelOption {
	return func(m *Model) {
		m.attrs[ErrorsAttribute] = &errs
	}
}
