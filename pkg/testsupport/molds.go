package testsupport

import (
	"sync"

	"github.com/thegaffer/tal-web-sub003/pkg/compiler"
	"github.com/thegaffer/tal-web-sub003/pkg/render"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// CountingMold counts compilations per "template.element" and delegates to
// Mold, or emits the element name as text when Mold is nil.
type CountingMold struct {
	Mold compiler.Mold

	mu    sync.Mutex
	calls map[string]int
}

var _ compiler.Mold = (*CountingMold)(nil)

// Compile records the call and delegates.
func (m *CountingMold) Compile(c *compiler.Compiler, t *template.Template, e *template.Element) (render.Element, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[t.Name+"."+e.Name]++
	m.mu.Unlock()

	if m.Mold == nil {
		return render.Text(e.Name), nil
	}
	return m.Mold.Compile(c, t, e)
}

// Calls returns the compilations recorded for "template.element".
func (m *CountingMold) Calls(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[key]
}

// Total returns the number of recorded compilations.
func (m *CountingMold) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}
