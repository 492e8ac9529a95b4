package compiler

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

type registration struct {
	mold   Mold
	styles []string
}

type patternRegistration struct {
	pattern *regexp.Regexp
	registration
}

// Registry maps elements onto molds. Lookups go from the most specific key
// to the least: element name (template qualified first), exact type tag,
// type pattern, primary behavior and finally the default. Within one key
// the registration requiring the most active styles wins; later
// registrations win ties. Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	named     map[string][]registration
	typed     map[string][]registration
	patterns  []patternRegistration
	behaviors map[template.Behavior][]registration
	defaults  []registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		named:     make(map[string][]registration),
		typed:     make(map[string][]registration),
		behaviors: make(map[template.Behavior][]registration),
	}
}

// RegisterNamed binds a mold to elements called name. "template.element"
// limits the binding to one template.
func (r *Registry) RegisterNamed(name string, m Mold, styles ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name = strings.TrimSpace(name)
	r.named[name] = append(r.named[name], newRegistration(m, styles))
}

// RegisterType binds a mold to an exact element type tag.
func (r *Registry) RegisterType(typeTag string, m Mold, styles ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	typeTag = strings.TrimSpace(typeTag)
	r.typed[typeTag] = append(r.typed[typeTag], newRegistration(m, styles))
}

// RegisterTypePattern binds a mold to type tags matching pattern.
func (r *Registry) RegisterTypePattern(pattern string, m Mold, styles ...string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("compiler: type pattern %q: %w", pattern, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns = append(r.patterns, patternRegistration{pattern: re, registration: newRegistration(m, styles)})
	return nil
}

// MustRegisterTypePattern panics when the pattern does not compile.
func (r *Registry) MustRegisterTypePattern(pattern string, m Mold, styles ...string) {
	if err := r.RegisterTypePattern(pattern, m, styles...); err != nil {
		panic(err)
	}
}

// RegisterBehavior binds a mold to a primary behavior.
func (r *Registry) RegisterBehavior(b template.Behavior, m Mold, styles ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.behaviors[b] = append(r.behaviors[b], newRegistration(m, styles))
}

// SetDefault registers the fallback mold.
func (r *Registry) SetDefault(m Mold, styles ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaults = append(r.defaults, newRegistration(m, styles))
}

// Resolve finds the mold for e in template t. active reports whether a
// style is in force.
func (r *Registry) Resolve(t *template.Template, e *template.Element, active func(string) bool) (Mold, error) {
	primary, err := e.Primary()
	if err != nil {
		return nil, ConfigError(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := [][]registration{
		r.named[t.Name+"."+e.Name],
		r.named[e.Name],
		r.typed[e.Type],
	}
	var matched []registration
	for _, p := range r.patterns {
		if p.pattern.MatchString(e.Type) {
			matched = append(matched, p.registration)
		}
	}
	candidates = append(candidates, matched, r.behaviors[primary], r.defaults)

	for _, regs := range candidates {
		if m := best(regs, active); m != nil {
			return m, nil
		}
	}
	return nil, ConfigError(fmt.Errorf("%w: %s.%s (type %q, behavior %s)", ErrNoMold, t.Name, e.Name, e.Type, primary))
}

func best(regs []registration, active func(string) bool) Mold {
	var (
		winner Mold
		score  = -1
	)
	for _, reg := range regs {
		if reg.mold == nil || !matches(reg.styles, active) {
			continue
		}
		if len(reg.styles) >= score {
			winner, score = reg.mold, len(reg.styles)
		}
	}
	return winner
}

func matches(styles []string, active func(string) bool) bool {
	for _, s := range styles {
		if active == nil || !active(s) {
			return false
		}
	}
	return true
}

func newRegistration(m Mold, styles []string) registration {
	clean := make([]string, 0, len(styles))
	for _, s := range styles {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	return registration{mold: m, styles: clean}
}
