package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	theme "github.com/goliatone/go-theme"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmpty reports an empty configuration file.
	ErrEmpty = errors.New("config: file is empty")
	// ErrInvalid reports a file that is neither JSON nor YAML.
	ErrInvalid = errors.New("config: invalid JSON or YAML")
	// ErrLocale reports a locale that is not a BCP 47 tag.
	ErrLocale = errors.New("config: invalid locale")
)

// Config is an engine configuration: the templates to compile, the render
// targets to compile them for and the settings every render shares.
type Config struct {
	Name      string              `json:"name" yaml:"name"`
	Root      string              `json:"root" yaml:"root"`
	Locale    string              `json:"locale" yaml:"locale"`
	Namespace string              `json:"namespace" yaml:"namespace"`
	Targets   []string            `json:"targets" yaml:"targets"`
	Styles    map[string][]string `json:"styles" yaml:"styles"`
	Messages  string              `json:"messages" yaml:"messages"`
	URLBase   string              `json:"urlBase" yaml:"urlBase"`
	OpenAPI   string              `json:"openapi" yaml:"openapi"`
	Theme     *Theme              `json:"theme" yaml:"theme"`

	Templates []Template `json:"templates" yaml:"templates"`
	Forms     []Form     `json:"forms" yaml:"forms"`
	Tables    []Table    `json:"tables" yaml:"tables"`

	// Source is the path the configuration was read from.
	Source string `json:"-" yaml:"-"`
}

// Theme declares a single go-theme manifest.
type Theme struct {
	Name     string             `json:"name" yaml:"name"`
	Version  string             `json:"version" yaml:"version"`
	Variant  string             `json:"variant" yaml:"variant"`
	Tokens   map[string]string  `json:"tokens" yaml:"tokens"`
	Assets   Assets             `json:"assets" yaml:"assets"`
	Variants map[string]Variant `json:"variants" yaml:"variants"`
}

// Assets mirrors theme.Assets.
type Assets struct {
	Prefix string            `json:"prefix" yaml:"prefix"`
	Files  map[string]string `json:"files" yaml:"files"`
}

// Variant overrides theme tokens and assets.
type Variant struct {
	Tokens map[string]string `json:"tokens" yaml:"tokens"`
	Assets Assets            `json:"assets" yaml:"assets"`
}

type options struct {
	targets []string
	locale  string
}

// Option adjusts how a configuration is loaded.
type Option func(*options)

// WithDefaultTargets sets the targets used when the file lists none.
func WithDefaultTargets(targets ...string) Option {
	return func(o *options) {
		o.targets = append([]string(nil), targets...)
	}
}

// WithDefaultLocale sets the locale used when the file names none.
func WithDefaultLocale(locale string) Option {
	return func(o *options) {
		o.locale = strings.TrimSpace(locale)
	}
}

// LoadFS reads and validates the configuration at path in fsys.
func LoadFS(fsys fs.FS, path string, opts ...Option) (*Config, error) {
	if fsys == nil {
		return nil, fmt.Errorf("config: filesystem is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path, opts...)
}

// Parse decodes a JSON or YAML configuration. source names the data in
// errors.
func Parse(data []byte, source string, opts ...Option) (*Config, error) {
	o := options{targets: []string{"html"}, locale: "en"}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	cfg, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}
	cfg.Source = source
	if err := cfg.normalise(o); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseDocument(data []byte, source string) (*Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, source)
	}

	var cfg Config
	if isJSON(source, data) {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, source, err)
		}
		return &cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, source, err)
	}
	return &cfg, nil
}

func isJSON(source string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		return true
	case ".yaml", ".yml":
		return false
	}
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "{")
}

func (c *Config) normalise(o options) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Root = strings.TrimSpace(c.Root)
	c.Namespace = strings.TrimSpace(c.Namespace)
	if c.Locale = strings.TrimSpace(c.Locale); c.Locale == "" {
		c.Locale = o.locale
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("%w %q (file %s): %v", ErrLocale, c.Locale, c.Source, err)
	}

	targets := make([]string, 0, len(c.Targets))
	seen := make(map[string]struct{}, len(c.Targets))
	for _, target := range c.Targets {
		target = strings.ToLower(strings.TrimSpace(target))
		if target == "" {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		targets = append(targets, target)
	}
	if len(targets) == 0 {
		targets = append(targets, o.targets...)
	}
	c.Targets = targets

	if c.Theme != nil {
		c.Theme.Name = strings.TrimSpace(c.Theme.Name)
		if c.Theme.Name == "" {
			return fmt.Errorf("config: file %s declares a theme without a name", c.Source)
		}
	}

	names := make(map[string]struct{})
	claim := func(kind, name string) error {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("config: file %s declares a %s without a name", c.Source, kind)
		}
		if _, dup := names[name]; dup {
			return fmt.Errorf("config: file %s declares template %q twice", c.Source, name)
		}
		names[name] = struct{}{}
		return nil
	}
	for _, t := range c.Templates {
		if err := claim("template", t.Name); err != nil {
			return err
		}
	}
	for _, f := range c.Forms {
		if err := claim("form", f.Name); err != nil {
			return err
		}
	}
	for _, t := range c.Tables {
		if err := claim("table", t.Name); err != nil {
			return err
		}
		if err := claim("table row", strings.TrimSpace(t.Name)+".row"); err != nil {
			return err
		}
	}
	if c.Root != "" {
		if _, ok := names[c.Root]; !ok && len(names) > 0 {
			return fmt.Errorf("config: file %s: root %q is not declared", c.Source, c.Root)
		}
	}
	return nil
}

// LocaleTag returns the parsed locale.
func (c *Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// HasTarget reports whether target is listed.
func (c *Config) HasTarget(target string) bool {
	for _, t := range c.Targets {
		if t == target {
			return true
		}
	}
	return false
}

// StylesFor returns the initial compiler styles of target.
func (c *Config) StylesFor(target string) []string {
	return append([]string(nil), c.Styles[target]...)
}

// Manifest converts the theme section into a go-theme manifest, or nil
// when the configuration declares no theme.
func (c *Config) Manifest() *theme.Manifest {
	if c.Theme == nil {
		return nil
	}
	version := c.Theme.Version
	if version == "" {
		version = "1.0.0"
	}
	manifest := &theme.Manifest{
		Name:    c.Theme.Name,
		Version: version,
		Tokens:  cloneStrings(c.Theme.Tokens),
		Assets: theme.Assets{
			Prefix: c.Theme.Assets.Prefix,
			Files:  cloneStrings(c.Theme.Assets.Files),
		},
	}
	if len(c.Theme.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(c.Theme.Variants))
		for name, v := range c.Theme.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens: cloneStrings(v.Tokens),
				Assets: theme.Assets{Prefix: v.Assets.Prefix, Files: cloneStrings(v.Assets.Files)},
			}
		}
	}
	return manifest
}

func cloneStrings(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
