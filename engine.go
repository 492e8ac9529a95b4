package talweb

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/thegaffer/tal-web-sub003/pkg/compiler"
	"github.com/thegaffer/tal-web-sub003/pkg/render"
	"github.com/thegaffer/tal-web-sub003/pkg/targets/markup"
	"github.com/thegaffer/tal-web-sub003/pkg/targets/script"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// ErrUnknownTarget reports a render type the engine has no compiler for.
var ErrUnknownTarget = errors.New("talweb: unknown render target")

// CompilerFactory builds the compiler of one render target.
type CompilerFactory func(opts ...compiler.Option) *compiler.Compiler

// Targets returns the built-in compiler factories by render type.
func Targets() map[string]CompilerFactory {
	return map[string]CompilerFactory{
		markup.Target: markup.NewCompiler,
		script.Target: script.NewCompiler,
	}
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger sets the logger handed to compilers and render models.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTarget registers (or replaces) the compiler factory of a render type.
func WithTarget(name string, factory CompilerFactory) Option {
	return func(e *Engine) {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || factory == nil {
			return
		}
		e.factories[name] = factory
	}
}

// WithStyles sets the initial compile styles of a render type.
func WithStyles(target string, styles ...string) Option {
	return func(e *Engine) {
		target = strings.ToLower(strings.TrimSpace(target))
		e.styles[target] = append(e.styles[target], styles...)
	}
}

// WithLocale sets the default render locale.
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) {
		e.locale = tag
	}
}

// WithNamespace sets the default id and URL namespace.
func WithNamespace(namespace string) Option {
	return func(e *Engine) {
		e.namespace = strings.TrimSpace(namespace)
	}
}

// WithModelOptions appends render model options applied to every render
// before the per-call options.
func WithModelOptions(opts ...render.ModelOption) Option {
	return func(e *Engine) {
		e.modelOpts = append(e.modelOpts, opts...)
	}
}

// Engine holds a template configuration and one compiler per render type.
// Renderers compile lazily on first use and are reused until a template is
// added. An Engine is safe for concurrent use.
type Engine struct {
	mu        sync.Mutex
	logger    *slog.Logger
	cfg       *template.Configuration
	factories map[string]CompilerFactory
	styles    map[string][]string
	compilers map[string]*compiler.Compiler
	renderers *render.Registry

	locale    language.Tag
	namespace string
	modelOpts []render.ModelOption
}

// New returns an engine rendering root. Every built-in render type is
// available unless an option replaces it.
func New(root string, opts ...Option) *Engine {
	cfg, _ := template.NewConfiguration(root)
	e := &Engine{
		logger:    slog.Default(),
		cfg:       cfg,
		factories: Targets(),
		styles:    make(map[string][]string),
		compilers: make(map[string]*compiler.Compiler),
		renderers: render.NewRegistry(),
		locale:    language.Und,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Root returns the root template name.
func (e *Engine) Root() string { return e.cfg.Root() }

// SetRoot changes the template rendered by non recursing targets.
func (e *Engine) SetRoot(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.SetRoot(name)
	e.invalidate()
}

// Configuration returns the engine's templates.
func (e *Engine) Configuration() *template.Configuration { return e.cfg }

// TargetNames returns the render types the engine can compile for, sorted.
func (e *Engine) TargetNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.factories))
	for name := range e.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Init compiles every render type eagerly and reports the first failure.
func (e *Engine) Init() error {
	for _, name := range e.TargetNames() {
		if _, err := e.Renderer(name); err != nil {
			return err
		}
	}
	return nil
}

// Renderer returns the compiled renderer of a render type, compiling it on
// first use.
func (e *Engine) Renderer(target string) (render.Renderer, error) {
	target = strings.ToLower(strings.TrimSpace(target))

	e.mu.Lock()
	defer e.mu.Unlock()

	if r, err := e.renderers.Get(target); err == nil {
		return r, nil
	}
	c, err := e.compilerFor(target)
	if err != nil {
		return nil, err
	}
	r, err := c.Compile(e.cfg)
	if err != nil {
		return nil, fmt.Errorf("talweb: compile %s: %w", target, err)
	}
	e.renderers.Replace(target, r)
	e.logger.Info("compiled renderer",
		slog.String("target", target),
		slog.String("root", e.cfg.Root()),
		slog.Int("compilations", c.Compilations()),
	)
	return r, nil
}

// Render renders the render type to w. opts follow the engine's own model
// options, so they win.
func (e *Engine) Render(target string, w io.Writer, attrs map[string]any, opts ...render.ModelOption) error {
	r, err := e.Renderer(target)
	if err != nil {
		return err
	}
	if attrs == nil {
		attrs = make(map[string]any)
	}
	return render.RenderTo(w, r, attrs, append(e.ModelOptions(), opts...)...)
}

// ModelOptions returns the model options every render starts from.
func (e *Engine) ModelOptions() []render.ModelOption {
	opts := []render.ModelOption{
		render.WithLogger(e.logger),
		render.WithNamespace(e.namespace),
	}
	if e.locale != language.Und {
		opts = append(opts, render.WithLocale(e.locale))
	}
	return append(opts, e.modelOpts...)
}

func (e *Engine) compilerFor(target string) (*compiler.Compiler, error) {
	if c, ok := e.compilers[target]; ok {
		return c, nil
	}
	factory, ok := e.factories[target]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
	opts := []compiler.Option{compiler.WithLogger(e.logger)}
	if styles := e.styles[target]; len(styles) > 0 {
		opts = append(opts, compiler.WithStyles(styles...))
	}
	c := factory(opts...)
	e.compilers[target] = c
	return c, nil
}

// invalidate drops compiled renderers. Compilers keep their template cache
// because registered templates never change.
func (e *Engine) invalidate() {
	e.renderers = render.NewRegistry()
}
