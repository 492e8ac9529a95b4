package i18n_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"github.com/thegaffer/tal-web-sub003/pkg/i18n"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pattern string
		args    []any
		want    string
	}{
		{"Hello {0}", []any{"Ada"}, "Hello Ada"},
		{"{1} before {0}", []any{"a", "b"}, "b before a"},
		{"missing {2}", []any{"a"}, "missing {2}"},
		{"{name} stays", []any{"a"}, "{name} stays"},
		{"unterminated {0", []any{"a"}, "unterminated {0"},
		{"no args {0}", nil, "no args {0}"},
	}
	for _, tc := range cases {
		if got := i18n.Format(tc.pattern, tc.args...); got != tc.want {
			t.Fatalf("Format(%q) = %q, want %q", tc.pattern, got, tc.want)
		}
	}
}

func TestBundle_FallbackChain(t *testing.T) {
	t.Parallel()

	bundle := i18n.NewBundle(i18n.WithFallback(language.French))
	mustAdd(t, bundle, "", map[string]string{"app.title": "Root"})
	mustAdd(t, bundle, "en", map[string]string{"label.greeting": "Hello {0}", "colour": "color"})
	mustAdd(t, bundle, "en-GB", map[string]string{"colour": "colour"})
	mustAdd(t, bundle, "fr", map[string]string{"only.fr": "Bonjour"})

	cases := []struct {
		locale, key, want string
	}{
		{"en-GB", "colour", "colour"},
		{"en-US", "colour", "color"},
		{"en_GB", "label.greeting", "Hello Ada"},
		{"de", "app.title", "Root"},
		{"de", "only.fr", "Bonjour"},
	}
	for _, tc := range cases {
		got, err := bundle.Translate(tc.locale, tc.key, "Ada")
		if err != nil {
			t.Fatalf("Translate(%s, %s): %v", tc.locale, tc.key, err)
		}
		if got != tc.want {
			t.Fatalf("Translate(%s, %s) = %q, want %q", tc.locale, tc.key, got, tc.want)
		}
	}

	if _, err := bundle.Translate("en", "absent"); !errors.Is(err, i18n.ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"messages/messages.yaml":     {Data: []byte("app:\n  title: Catalogue\n")},
		"messages/messages.en.yml":   {Data: []byte("label:\n  person:\n    name: Name\n")},
		"messages/messages.de.json":  {Data: []byte(`{"label": {"person": {"name": "Name (de)"}}}`)},
		"messages/README.md":         {Data: []byte("ignored")},
		"messages/other.en.yaml":     {Data: []byte("ignored: true")},
		"elsewhere/messages.fr.yaml": {Data: []byte("ignored: true")},
	}
	bundle, err := i18n.LoadFS(files, "messages")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"de", "en", "und"}, bundle.Locales()); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}
	got, err := bundle.Translate("de-AT", "label.person.name")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if got != "Name (de)" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got, _ := bundle.Translate("en", "app.title"); got != "Catalogue" {
		t.Fatalf("unexpected root translation %q", got)
	}
}

func TestLoadFS_InvalidFile(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"messages.en.yaml": {Data: []byte("key: [unclosed")},
	}
	if _, err := i18n.LoadFS(files, ""); err == nil {
		t.Fatalf("expected parse error")
	}
}

func mustAdd(t *testing.T, b *i18n.Bundle, locale string, messages map[string]string) {
	t.Helper()
	if err := b.Add(locale, messages); err != nil {
		t.Fatalf("add %q: %v", locale, err)
	}
}
