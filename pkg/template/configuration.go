package template

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Configuration is the name -> Template lookup a compiler works against,
// plus the name of the root template.
type Configuration struct {
	mu        sync.RWMutex
	root      string
	templates map[string]*Template
}

// NewConfiguration builds a configuration and initialises every template.
func NewConfiguration(root string, templates ...*Template) (*Configuration, error) {
	cfg := &Configuration{
		root:      strings.TrimSpace(root),
		templates: make(map[string]*Template, len(templates)),
	}
	for _, t := range templates {
		if err := cfg.Add(t); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// MustConfiguration panics when NewConfiguration fails. Useful for tests and
// init-time wiring.
func MustConfiguration(root string, templates ...*Template) *Configuration {
	cfg, err := NewConfiguration(root, templates...)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Add initialises and registers a template. Duplicate names are rejected.
func (c *Configuration) Add(t *Template) error {
	if t == nil {
		return fmt.Errorf("template: template is required")
	}
	if err := t.Init(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.templates[t.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTemplate, t.Name)
	}
	c.templates[t.Name] = t
	return nil
}

// Root returns the root template name.
func (c *Configuration) Root() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root
}

// SetRoot changes the root template name.
func (c *Configuration) SetRoot(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.root = strings.TrimSpace(name)
}

// Template resolves a template by name.
func (c *Configuration) Template(name string) (*Template, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return t, nil
}

// Has reports whether a template is registered.
func (c *Configuration) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.templates[name]
	return ok
}

// Names returns the sorted template names.
func (c *Configuration) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.templates))
	for name := range c.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the root and every referenced template exist.
func (c *Configuration) Validate() error {
	if root := c.Root(); root != "" && !c.Has(root) {
		return fmt.Errorf("%w: root %q", ErrUnknownTemplate, root)
	}
	for _, name := range c.Names() {
		t, _ := c.Template(name)
		for _, ref := range t.References() {
			if !c.Has(ref) {
				return fmt.Errorf("%w: %q referenced by %q", ErrUnknownTemplate, ref, name)
			}
		}
	}
	return nil
}
