package markup

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/thegaffer/tal-web-sub003/pkg/render"
)

// ClassTokenPrefix marks theme tokens holding CSS classes. The token
// "class.htmlWrapper" supplies the classes of the wrapper role.
const ClassTokenPrefix = "class."

var (
	// ErrUnknownTheme reports a theme name no manifest was registered for.
	ErrUnknownTheme = errors.New("markup: unknown theme")
	// ErrUnknownVariant reports a variant the theme manifest does not carry.
	ErrUnknownVariant = errors.New("markup: unknown theme variant")
)

// Theme maps render roles onto CSS classes held in go-theme tokens. Variant
// tokens override the manifest's own.
type Theme struct {
	config *theme.RendererConfig
}

var _ render.Theme = (*Theme)(nil)

// NewTheme builds a class theme from a selection.
func NewTheme(sel *theme.Selection) *Theme {
	return &Theme{config: RendererConfig(sel)}
}

// SelectTheme resolves name and variant through selector.
func SelectTheme(selector theme.ThemeSelector, name, variant string) (*Theme, error) {
	if selector == nil {
		return nil, fmt.Errorf("markup: theme selector is required")
	}
	sel, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return NewTheme(sel), nil
}

// Class returns the classes of role, or "".
func (t *Theme) Class(role string) string {
	if t == nil || t.config == nil {
		return ""
	}
	return t.config.Tokens[ClassTokenPrefix+role]
}

// Config returns the resolved renderer configuration.
func (t *Theme) Config() *theme.RendererConfig {
	if t == nil {
		return nil
	}
	return t.config
}

// CSSVarsStyle renders the non class tokens as CSS custom properties,
// sorted by name, for a style attribute.
func (t *Theme) CSSVarsStyle() string {
	if t == nil || t.config == nil || len(t.config.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(t.config.CSSVars))
	for key := range t.config.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+t.config.CSSVars[key])
	}
	return strings.Join(parts, "; ")
}

// RendererConfig flattens a selection into the go-theme renderer
// configuration: tokens merged with the variant, CSS variables derived from
// the non class tokens and an asset resolver.
func RendererConfig(sel *theme.Selection) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Tokens:  map[string]string{},
		CSSVars: map[string]string{},
	}
	if sel == nil {
		return cfg
	}
	cfg.Theme, cfg.Variant = sel.Theme, sel.Variant
	manifest := sel.Manifest
	if manifest == nil {
		return cfg
	}

	partials := map[string]string{}
	files := map[string]string{}
	for k, v := range manifest.Tokens {
		cfg.Tokens[k] = v
	}
	for k, v := range manifest.Templates {
		partials[k] = v
	}
	for k, v := range manifest.Assets.Files {
		files[k] = v
	}
	prefix := manifest.Assets.Prefix
	if variant, ok := manifest.Variants[sel.Variant]; ok {
		for k, v := range variant.Tokens {
			cfg.Tokens[k] = v
		}
		for k, v := range variant.Templates {
			partials[k] = v
		}
		for k, v := range variant.Assets.Files {
			files[k] = v
		}
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}
	for k, v := range cfg.Tokens {
		if !strings.HasPrefix(k, ClassTokenPrefix) {
			cfg.CSSVars["--"+k] = v
		}
	}
	cfg.Partials = partials
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
	}
	return cfg
}

// StaticSelector selects among manifests known up front. Manifests are
// validated by a go-theme registry on construction.
type StaticSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*StaticSelector)(nil)

// NewStaticSelector registers manifests. The first manifest is the
// default theme.
func NewStaticSelector(manifests ...*theme.Manifest) (*StaticSelector, error) {
	registry := theme.NewRegistry()
	s := &StaticSelector{manifests: make(map[string]*theme.Manifest, len(manifests))}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("markup: register theme %q: %w", manifest.Name, err)
		}
		s.manifests[manifest.Name] = manifest
		if s.defaultTheme == "" {
			s.defaultTheme = manifest.Name
		}
	}
	return s, nil
}

// WithDefaultVariant sets the variant used when Select receives none.
func (s *StaticSelector) WithDefaultVariant(variant string) *StaticSelector {
	s.defaultVariant = variant
	return s
}

// Select resolves a theme and variant. Blank arguments pick the defaults.
func (s *StaticSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name = strings.TrimSpace(name); name == "" {
		name = s.defaultTheme
	}
	if variant = strings.TrimSpace(variant); variant == "" {
		variant = s.defaultVariant
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q (theme %q)", ErrUnknownVariant, variant, name)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}
