package render

import (
	"fmt"
	"strconv"

	"github.com/thegaffer/tal-web-sub003/internal/introspect"
)

// RepeatOption configures a repetition node.
type RepeatOption func(*repeat)

// ShowIfNull controls whether the inner element renders once for a nil
// value.
func ShowIfNull(show bool) RepeatOption {
	return func(r *repeat) {
		r.showIfNull = show
	}
}

// KeyIfNull names the frame a map node pushes when it renders a nil value.
func KeyIfNull(key string) RepeatOption {
	return func(r *repeat) {
		r.keyIfNull = key
	}
}

// repeat carries the state shared by every repetition node. The inner
// element is fixed at construction; repetition nodes take no other
// children.
type repeat struct {
	name       string
	showIfNull bool
	keyIfNull  string
	inner      Element
}

func newRepeat(name string, inner Element, showIfNull bool, opts []RepeatOption) repeat {
	r := repeat{name: name, showIfNull: showIfNull, inner: inner}
	for _, opt := range opts {
		if opt != nil {
			opt(&r)
		}
	}
	return r
}

// Name returns the bound property name; "" marks an anonymous repetition.
func (r *repeat) Name() string { return r.name }

// Inner returns the element rendered for each repetition.
func (r *repeat) Inner() Element { return r.inner }

// ShowsIfNull reports the show-if-null flag.
func (r *repeat) ShowsIfNull() bool { return r.showIfNull }

// AddElement always fails.
func (r *repeat) AddElement(Element) error {
	return fmt.Errorf("%w: repetition %q", ErrNotContainer, r.name)
}

// within runs fn inside the named outer frame, or directly for anonymous
// repetitions.
func (r *repeat) within(m *Model, value any, fn func() error) error {
	if r.name == "" {
		return fn()
	}
	return inFrame(m, r.name, -1, value, fn)
}

func (r *repeat) renderInner(m *Model) error {
	if r.inner == nil {
		return nil
	}
	return r.inner.Render(m)
}

func inFrame(m *Model, name string, index int, value any, fn func() error) error {
	m.PushValue(name, index, value)
	err := fn()
	if popErr := m.PopNode(); err == nil {
		err = popErr
	}
	return err
}

// MemberElement renders its inner element once against a single object.
type MemberElement struct {
	repeat
}

// NewMember builds a member node. Named members show for nil values unless
// told otherwise.
func NewMember(name string, inner Element, opts ...RepeatOption) *MemberElement {
	return &MemberElement{repeat: newRepeat(name, inner, name != "", opts)}
}

// Render pushes the object frame and renders the inner element.
func (e *MemberElement) Render(m *Model) error {
	value, err := m.Lookup(e.name)
	if err != nil {
		return err
	}
	if introspect.IsNil(value) && !e.showIfNull {
		return nil
	}
	return e.within(m, value, func() error { return e.renderInner(m) })
}

// CollectionElement renders its inner element once per item of a slice,
// array or iter.Seq[any], in iteration order.
type CollectionElement struct {
	repeat
}

// NewCollection builds a collection node.
func NewCollection(name string, inner Element, opts ...RepeatOption) *CollectionElement {
	return &CollectionElement{repeat: newRepeat(name, inner, false, opts)}
}

// Render iterates the bound value.
func (e *CollectionElement) Render(m *Model) error {
	value, err := m.Lookup(e.name)
	if err != nil {
		return err
	}
	return renderSequence(m, &e.repeat, value, "collection")
}

// ArrayElement renders its inner element once per position of a slice or
// array.
type ArrayElement struct {
	repeat
}

// NewArray builds an array node.
func NewArray(name string, inner Element, opts ...RepeatOption) *ArrayElement {
	return &ArrayElement{repeat: newRepeat(name, inner, false, opts)}
}

// Render iterates the bound value by position.
func (e *ArrayElement) Render(m *Model) error {
	value, err := m.Lookup(e.name)
	if err != nil {
		return err
	}
	return renderSequence(m, &e.repeat, value, "array")
}

func renderSequence(m *Model, r *repeat, value any, kind string) error {
	if introspect.IsNil(value) {
		if !r.showIfNull {
			return nil
		}
		return r.within(m, nil, func() error {
			return inFrame(m, "0", 0, nil, func() error { return r.renderInner(m) })
		})
	}
	items, ok := introspect.Items(value)
	if !ok {
		return fmt.Errorf("%w: %q is %T, want %s", ErrTypeMismatch, r.name, value, kind)
	}
	return r.within(m, value, func() error {
		for i, item := range items {
			if err := inFrame(m, strconv.Itoa(i), i, item, func() error { return r.renderInner(m) }); err != nil {
				return err
			}
		}
		return nil
	})
}

// MapElement renders its inner element once per entry of a map, in key
// order.
type MapElement struct {
	repeat
}

// NewMap builds a map node.
func NewMap(name string, inner Element, opts ...RepeatOption) *MapElement {
	return &MapElement{repeat: newRepeat(name, inner, false, opts)}
}

// Render iterates the bound map.
func (e *MapElement) Render(m *Model) error {
	value, err := m.Lookup(e.name)
	if err != nil {
		return err
	}
	return renderMap(m, &e.repeat, value)
}

func renderMap(m *Model, r *repeat, value any) error {
	if introspect.IsNil(value) {
		if !r.showIfNull {
			return nil
		}
		key := r.keyIfNull
		if key == "" {
			key = "0"
		}
		return r.within(m, nil, func() error {
			return inFrame(m, key, 0, nil, func() error { return r.renderInner(m) })
		})
	}
	entries, ok := introspect.Entries(value)
	if !ok {
		return fmt.Errorf("%w: %q is %T, want map", ErrTypeMismatch, r.name, value)
	}
	return r.within(m, value, func() error {
		for i, entry := range entries {
			if err := inFrame(m, entry.Key, i, entry.Value, func() error { return r.renderInner(m) }); err != nil {
				return err
			}
		}
		return nil
	})
}

// DynamicMemberElement decides between member, collection and map
// semantics from the runtime value. It backs member elements whose kind is
// unknown at compile time.
type DynamicMemberElement struct {
	repeat
}

// NewDynamicMember builds a dynamic member node.
func NewDynamicMember(name string, inner Element, opts ...RepeatOption) *DynamicMemberElement {
	return &DynamicMemberElement{repeat: newRepeat(name, inner, false, opts)}
}

// Render dispatches on the runtime value.
func (e *DynamicMemberElement) Render(m *Model) error {
	value, err := m.Lookup(e.name)
	if err != nil {
		return err
	}
	switch {
	case introspect.IsNil(value):
		if !e.showIfNull {
			return nil
		}
		return e.within(m, nil, func() error { return e.renderInner(m) })
	case introspect.IsMap(value):
		return renderMap(m, &e.repeat, value)
	case introspect.IsSequence(value):
		return renderSequence(m, &e.repeat, value, "collection")
	default:
		return e.within(m, value, func() error { return e.renderInner(m) })
	}
}

var (
	_ Element = (*MemberElement)(nil)
	_ Element = (*CollectionElement)(nil)
	_ Element = (*ArrayElement)(nil)
	_ Element = (*MapElement)(nil)
	_ Element = (*DynamicMemberElement)(nil)
)
