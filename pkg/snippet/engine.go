package snippet

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
)

// ErrEmptySnippet reports a blank snippet source.
var ErrEmptySnippet = errors.New("snippet: source is required")

// Option configures an Engine.
type Option func(*config)

type config struct {
	name      string
	templates fs.FS
	globals   map[string]any
}

// WithName names the underlying template set.
func WithName(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.name = trimmed
		}
	}
}

// WithFS lets snippets include and extend templates from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithGlobals seeds values visible to every snippet.
func WithGlobals(values map[string]any) Option {
	return func(cfg *config) {
		if len(values) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(values))
		}
		for key, value := range values {
			if key = strings.TrimSpace(key); key != "" {
				cfg.globals[key] = value
			}
		}
	}
}

// Engine compiles pongo2 snippets once and executes them many times. The
// compiled snippets are shared; Execute is safe for concurrent use.
type Engine struct {
	mu       sync.RWMutex
	set      *pongo2.TemplateSet
	compiled map[string]*Snippet
}

// Snippet is a compiled template.
type Snippet struct {
	source string
	tmpl   *pongo2.Template
}

// Source returns the snippet text.
func (s *Snippet) Source() string { return s.source }

// Execute renders the snippet with ctx into w.
func (s *Snippet) Execute(w io.Writer, ctx map[string]any) error {
	if err := s.tmpl.ExecuteWriter(toContext(ctx), w); err != nil {
		return fmt.Errorf("snippet: execute: %w", err)
	}
	return nil
}

// New builds an engine.
func New(opts ...Option) *Engine {
	cfg := &config{name: "tal"}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	var loaders []pongo2.TemplateLoader
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}
	set := pongo2.NewSet(cfg.name, loaders...)
	if len(cfg.globals) > 0 {
		set.Globals = make(pongo2.Context, len(cfg.globals))
		for key, value := range cfg.globals {
			set.Globals[key] = value
		}
	}
	registerDefaultFilters()
	return &Engine{set: set, compiled: make(map[string]*Snippet)}
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns a process wide engine without a file loader.
func Default() *Engine {
	defaultOnce.Do(func() { defaultEngine = New() })
	return defaultEngine
}

// Compile parses source, returning the cached snippet on repeat calls.
func (e *Engine) Compile(source string) (*Snippet, error) {
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptySnippet
	}
	e.mu.RLock()
	s, ok := e.compiled[source]
	e.mu.RUnlock()
	if ok {
		return s, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.compiled[source]; ok {
		return s, nil
	}
	tmpl, err := e.set.FromString(source)
	if err != nil {
		return nil, fmt.Errorf("snippet: parse: %w", err)
	}
	s = &Snippet{source: source, tmpl: tmpl}
	e.compiled[source] = s
	return s, nil
}

// Render compiles source and executes it.
func (e *Engine) Render(w io.Writer, source string, ctx map[string]any) error {
	s, err := e.Compile(source)
	if err != nil {
		return err
	}
	return s.Execute(w, ctx)
}

// RegisterFilter adds a pongo2 filter backed by a plain function. pongo2
// filters are process wide; registering an existing name fails.
func RegisterFilter(name string, fn func(input, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("snippet: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("snippet: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var p any
		if param != nil {
			p = param.Interface()
		}
		out, err := fn(in.Interface(), p)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(out), nil
	})
}

func toContext(in map[string]any) pongo2.Context {
	out := make(pongo2.Context, len(in))
	for key, value := range in {
		if key = strings.TrimSpace(key); key == "" {
			continue
		}
		out[key] = value
	}
	return out
}

var filtersOnce sync.Once

func registerDefaultFilters() {
	filtersOnce.Do(func() {
		if !pongo2.FilterExists("trim") {
			_ = pongo2.RegisterFilter("trim", filterTrim)
		}
		if !pongo2.FilterExists("lowerfirst") {
			_ = pongo2.RegisterFilter("lowerfirst", filterLowerFirst)
		}
	})
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	text := in.String()
	start := len(text) - len(strings.TrimLeft(text, " \t\r\n"))
	if start >= len(text) {
		return pongo2.AsValue(text), nil
	}
	r, size := utf8.DecodeRuneInString(text[start:])
	return pongo2.AsValue(text[:start] + strings.ToLower(string(r)) + text[start+size:]), nil
}
