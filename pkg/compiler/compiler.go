package compiler

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/thegaffer/tal-web-sub003/pkg/render"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the compiler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStyles seeds the compiler styles.
func WithStyles(styles ...string) Option {
	return func(c *Compiler) {
		for _, s := range styles {
			c.AddStyle(s)
		}
	}
}

// WithRecurseTemplates makes Compile build every template of the
// configuration instead of only the root.
func WithRecurseTemplates() Option {
	return func(c *Compiler) {
		c.recurse = true
	}
}

// WithName labels the compiler in logs, typically with its render type.
func WithName(name string) Option {
	return func(c *Compiler) {
		c.name = strings.TrimSpace(name)
	}
}

// cacheKey identifies a compiled template under one style signature.
type cacheKey struct {
	template  string
	signature string
}

// Compiler turns templates into render trees using the molds of its
// registry. Compiled templates are cached per style signature. A Compiler
// is not safe for concurrent use.
type Compiler struct {
	name     string
	registry *Registry
	logger   *slog.Logger
	recurse  bool

	styles         map[string]struct{}
	templateStyles map[string]struct{}

	cfg          *template.Configuration
	cache        map[cacheKey]*render.Group
	compilations int
}

// New builds a compiler resolving molds from registry.
func New(registry *Registry, opts ...Option) *Compiler {
	if registry == nil {
		registry = NewRegistry()
	}
	c := &Compiler{
		name:           "default",
		registry:       registry,
		logger:         slog.Default(),
		styles:         make(map[string]struct{}),
		templateStyles: make(map[string]struct{}),
		cache:          make(map[cacheKey]*render.Group),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Name returns the compiler label.
func (c *Compiler) Name() string { return c.name }

// Registry returns the mold registry.
func (c *Compiler) Registry() *Registry { return c.registry }

// Configuration returns the configuration of the last Compile call.
func (c *Compiler) Configuration() *template.Configuration { return c.cfg }

// Compilations counts template compilations, which are cache misses.
func (c *Compiler) Compilations() int { return c.compilations }

// Compile builds the renderer for cfg: the root template, or every
// template when the compiler recurses.
func (c *Compiler) Compile(cfg *template.Configuration) (render.Renderer, error) {
	if cfg == nil {
		return nil, ConfigError(errors.New("compiler: configuration is required"))
	}
	if cfg != c.cfg {
		c.cfg = cfg
		c.cache = make(map[cacheKey]*render.Group)
	}
	if err := cfg.Validate(); err != nil {
		return nil, ConfigError(err)
	}

	if c.recurse {
		names := cfg.Names()
		renderers := make([]*render.TemplateRenderer, 0, len(names))
		for _, name := range names {
			root, err := c.CompileTemplate(name, nil, nil)
			if err != nil {
				return nil, err
			}
			renderers = append(renderers, render.NewTemplateRenderer(name, root))
		}
		return render.NewMultiRenderer(renderers...), nil
	}

	rootName := cfg.Root()
	if rootName == "" {
		return nil, ConfigError(errors.New("compiler: configuration has no root template"))
	}
	root, err := c.CompileTemplate(rootName, nil, nil)
	if err != nil {
		return nil, err
	}
	return render.NewTemplateRenderer(rootName, root), nil
}

// CompileTemplate returns the render tree of the named template for the
// current style signature, compiling it on a cache miss. parent and
// parentTemplate identify the referencing element, if any. Pending
// template styles become active for the duration of the compile.
func (c *Compiler) CompileTemplate(name string, parent *template.Element, parentTemplate *template.Template) (render.Element, error) {
	if c.cfg == nil {
		return nil, ConfigError(errors.New("compiler: no configuration; call Compile first"))
	}
	t, err := c.cfg.Template(name)
	if err != nil {
		if parent != nil && parentTemplate != nil {
			err = fmt.Errorf("%w (from %s.%s)", err, parentTemplate.Name, parent.Name)
		}
		return nil, ConfigError(err)
	}

	restore := c.enterTemplate()
	defer restore()

	key := cacheKey{template: name, signature: c.Signature()}
	if cached, ok := c.cache[key]; ok {
		c.logger.Debug("compiler cache hit", "compiler", c.name, "template", name, "signature", key.signature)
		return cached, nil
	}

	c.compilations++
	c.logger.Debug("compiler cache miss", "compiler", c.name, "template", name,
		"signature", key.signature, "compilations", c.compilations)

	// cached before compiling so a template reaching itself gets this node
	root := render.NewGroup()
	c.cache[key] = root

	for _, e := range t.Elements {
		el, err := c.CompileElement(t, e)
		if err != nil {
			delete(c.cache, key)
			return nil, err
		}
		if el == nil {
			continue
		}
		if err := root.AddElement(el); err != nil {
			delete(c.cache, key)
			return nil, fmt.Errorf("compiler: %s.%s: %w", t.Name, e.Name, err)
		}
	}
	return root, nil
}

// CompileTemplateWith compiles the named template with extra styles in
// force. templateStyles replace the pending template styles for the nested
// template, so styles meant for the caller's own children do not leak into
// it. Everything is restored afterwards.
func (c *Compiler) CompileTemplateWith(name string, styles, templateStyles []string, parent *template.Element, parentTemplate *template.Template) (render.Element, error) {
	saved := c.templateStyles
	c.templateStyles = make(map[string]struct{}, len(templateStyles))
	defer func() { c.templateStyles = saved }()

	restore := c.apply(styles, templateStyles)
	defer restore()
	return c.CompileTemplate(name, parent, parentTemplate)
}

// CompileElement resolves the mold for e and runs it.
func (c *Compiler) CompileElement(t *template.Template, e *template.Element) (render.Element, error) {
	if e == nil {
		return nil, nil
	}
	mold, err := c.registry.Resolve(t, e, c.HasStyle)
	if err != nil {
		return nil, err
	}
	return mold.Compile(c, t, e)
}

// CompileChildren compiles every child of e and adds the results to parent.
func (c *Compiler) CompileChildren(t *template.Template, e *template.Element, parent render.Element) error {
	for _, child := range e.Children {
		el, err := c.CompileElement(t, child)
		if err != nil {
			return err
		}
		if el == nil {
			continue
		}
		if err := parent.AddElement(el); err != nil {
			return fmt.Errorf("compiler: %s.%s: %w", t.Name, child.Name, err)
		}
	}
	return nil
}

// AddStyle activates a style and reports whether it was already active.
func (c *Compiler) AddStyle(style string) bool {
	return addTo(c.styles, style)
}

// RemoveStyle deactivates a style and reports whether it was active.
func (c *Compiler) RemoveStyle(style string) bool {
	return removeFrom(c.styles, style)
}

// HasStyle reports whether a style or pending template style is active.
func (c *Compiler) HasStyle(style string) bool {
	if _, ok := c.styles[style]; ok {
		return true
	}
	_, ok := c.templateStyles[style]
	return ok
}

// AddTemplateStyle registers a style for templates compiled next and
// reports whether it was already pending.
func (c *Compiler) AddTemplateStyle(style string) bool {
	return addTo(c.templateStyles, style)
}

// RemoveTemplateStyle drops a pending template style and reports whether
// it was pending.
func (c *Compiler) RemoveTemplateStyle(style string) bool {
	return removeFrom(c.templateStyles, style)
}

// Styles returns the active styles and pending template styles, sorted.
func (c *Compiler) Styles() []string {
	seen := make(map[string]struct{}, len(c.styles)+len(c.templateStyles))
	for s := range c.styles {
		seen[s] = struct{}{}
	}
	for s := range c.templateStyles {
		seen[s] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Signature is the canonical cache key part of the style set: the sorted
// styles joined by '.', with '.' and '\' inside a style escaped by '\'.
func (c *Compiler) Signature() string {
	styles := c.Styles()
	for i, s := range styles {
		styles[i] = signatureEscaper.Replace(s)
	}
	return strings.Join(styles, ".")
}

var signatureEscaper = strings.NewReplacer(`\`, `\\`, ".", `\.`)

// apply activates styles and template styles and returns a function that
// undoes exactly what was added.
func (c *Compiler) apply(styles, templateStyles []string) func() {
	var addedStyles, addedTemplate []string
	for _, s := range styles {
		if s = strings.TrimSpace(s); s != "" && !c.AddStyle(s) {
			addedStyles = append(addedStyles, s)
		}
	}
	for _, s := range templateStyles {
		if s = strings.TrimSpace(s); s != "" && !c.AddTemplateStyle(s) {
			addedTemplate = append(addedTemplate, s)
		}
	}
	return func() {
		for _, s := range addedStyles {
			c.RemoveStyle(s)
		}
		for _, s := range addedTemplate {
			c.RemoveTemplateStyle(s)
		}
	}
}

// enterTemplate promotes pending template styles to styles for the
// template about to compile.
func (c *Compiler) enterTemplate() func() {
	savedStyles, savedTemplate := c.styles, c.templateStyles
	merged := make(map[string]struct{}, len(c.styles)+len(c.templateStyles))
	for s := range c.styles {
		merged[s] = struct{}{}
	}
	for s := range c.templateStyles {
		merged[s] = struct{}{}
	}
	c.styles, c.templateStyles = merged, make(map[string]struct{})
	return func() {
		c.styles, c.templateStyles = savedStyles, savedTemplate
	}
}

func addTo(set map[string]struct{}, style string) bool {
	style = strings.TrimSpace(style)
	if style == "" {
		return true
	}
	if _, ok := set[style]; ok {
		return true
	}
	set[style] = struct{}{}
	return false
}

func removeFrom(set map[string]struct{}, style string) bool {
	style = strings.TrimSpace(style)
	if _, ok := set[style]; !ok {
		return false
	}
	delete(set, style)
	return true
}
