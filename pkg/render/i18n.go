package render

import (
	"strings"

	"github.com/thegaffer/tal-web-sub003/pkg/i18n"
)

// Translator resolves message keys for a locale. Implementations return an
// error (typically i18n.ErrMissingTranslation) when the key is unknown.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides the text rendered when a key cannot be
// translated. fallback is the caller supplied default.
type MissingTranslationHandler func(locale, key, fallback string, args []any, err error) string

// missingTranslationDefault renders the default text, or the key when the
// default is blank, with arguments substituted.
func missingTranslationDefault(_ string, key, fallback string, args []any, _ error) string {
	if strings.TrimSpace(fallback) != "" {
		return i18n.Format(fallback, args...)
	}
	return key
}

func translate(locale, key, fallback string, args []any, t Translator, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return i18n.Format(fallback, args...)
	}
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if t == nil {
		return onMissing(locale, key, fallback, args, ErrMissingTranslator)
	}

	result, err := t.Translate(locale, key, args...)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, fallback, args, err)
}
