package i18n

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// ErrMissingTranslation reports a key absent from every locale in the
// fallback chain.
var ErrMissingTranslation = errors.New("i18n: missing translation")

// Option configures a Bundle.
type Option func(*Bundle)

// WithFallback sets the locale consulted after the requested locale chain.
func WithFallback(tag language.Tag) Option {
	return func(b *Bundle) {
		b.fallback = tag
	}
}

// Bundle holds flattened messages per locale. It is safe for concurrent use.
type Bundle struct {
	mu       sync.RWMutex
	messages map[string]map[string]string
	fallback language.Tag
}

// NewBundle returns an empty bundle.
func NewBundle(opts ...Option) *Bundle {
	b := &Bundle{messages: make(map[string]map[string]string), fallback: language.Und}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Add merges messages for locale. An empty locale stores root messages.
func (b *Bundle) Add(locale string, messages map[string]string) error {
	tag, err := parseLocale(locale)
	if err != nil {
		return err
	}
	key := tag.String()

	b.mu.Lock()
	defer b.mu.Unlock()

	dst := b.messages[key]
	if dst == nil {
		dst = make(map[string]string, len(messages))
		b.messages[key] = dst
	}
	for k, v := range messages {
		if k = strings.TrimSpace(k); k != "" {
			dst[k] = v
		}
	}
	return nil
}

// AddTree flattens nested maps into dotted keys and adds them.
func (b *Bundle) AddTree(locale string, tree map[string]any) error {
	flat := make(map[string]string)
	flatten("", tree, flat)
	return b.Add(locale, flat)
}

// Locales lists the loaded locales.
func (b *Bundle) Locales() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]string, 0, len(b.messages))
	for locale := range b.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate resolves key for locale, walking the locale's parent chain
// (en-GB, en, root) and then the fallback locale's chain.
func (b *Bundle) Translate(locale, key string, args ...any) (string, error) {
	tag, err := parseLocale(locale)
	if err != nil {
		return "", err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, start := range []language.Tag{tag, b.fallback} {
		for t := start; ; t = t.Parent() {
			if msg, ok := b.messages[t.String()][key]; ok {
				return Format(msg, args...), nil
			}
			if t == language.Und {
				break
			}
		}
	}
	return "", fmt.Errorf("%w: %q (locale %s)", ErrMissingTranslation, key, tag)
}

func parseLocale(locale string) (language.Tag, error) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("i18n: locale %q: %w", locale, err)
	}
	return tag, nil
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch child := v.(type) {
		case map[string]any:
			flatten(key, child, out)
		case map[any]any:
			converted := make(map[string]any, len(child))
			for ck, cv := range child {
				converted[fmt.Sprint(ck)] = cv
			}
			flatten(key, converted, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(child)
		}
	}
}
