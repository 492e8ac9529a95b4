package testsupport

import (
	"sync"

	"github.com/thegaffer/tal-web-sub003/pkg/render"
)

// Visit is what a Recorder saw on one render: the current frame's full
// name and index and the object it carried.
type Visit struct {
	Name   string
	Index  int
	Object any
}

// Recorder is a leaf element that records every render instead of writing
// output. Frame-free renders record an empty name and index -1.
type Recorder struct {
	mu     sync.Mutex
	visits []Visit
}

var _ render.Element = (*Recorder)(nil)

// Render records the current frame.
func (r *Recorder) Render(m *render.Model) error {
	visit := Visit{Index: -1}
	if node := m.CurrentNode(); node != nil {
		visit = Visit{Name: node.Name(), Index: node.Index(), Object: node.Object()}
	}
	r.mu.Lock()
	r.visits = append(r.visits, visit)
	r.mu.Unlock()
	return nil
}

// AddElement always fails.
func (r *Recorder) AddElement(render.Element) error { return render.ErrNotContainer }

// Visits returns a copy of the recorded visits.
func (r *Recorder) Visits() []Visit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Visit(nil), r.visits...)
}

// Names returns the recorded frame names.
func (r *Recorder) Names() []string {
	visits := r.Visits()
	if len(visits) == 0 {
		return nil
	}
	out := make([]string, len(visits))
	for i, v := range visits {
		out[i] = v.Name
	}
	return out
}

// Count returns the number of renders.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visits)
}
