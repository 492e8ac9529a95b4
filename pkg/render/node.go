package render

import (
	"fmt"
	"strconv"

	"github.com/thegaffer/tal-web-sub003/internal/introspect"
)

// Node is one frame of the render stack: the object at the current data
// position plus its relative name or index and the derived full name and id.
type Node struct {
	parent   *Node
	relative string
	index    int
	name     string
	id       string
	object   any
}

// Parent returns the enclosing frame, or nil for a root frame.
func (n *Node) Parent() *Node { return n.parent }

// Relative returns the name the frame was pushed with.
func (n *Node) Relative() string { return n.relative }

// Index returns the repetition index, or -1 for a named frame.
func (n *Node) Index() int { return n.index }

// IsIndex reports whether the frame is one repetition of a collection.
func (n *Node) IsIndex() bool { return n.index >= 0 }

// Name returns the full dotted name used for form field names.
func (n *Node) Name() string { return n.name }

// ID returns the id used for element ids.
func (n *Node) ID() string { return n.id }

// Object returns the object at this position.
func (n *Node) Object() any { return n.object }

// RootName returns the relative name of the outermost frame.
func (n *Node) RootName() string {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root.relative
}

// Property reads a named property off the frame's object. A nil object
// yields nil; an object that cannot carry the property fails with
// ErrPropertyNotFound.
func (n *Node) Property(name string) (any, error) {
	value, ok := introspect.Property(n.object, name)
	if !ok {
		return nil, fmt.Errorf("%w: %q on %T (node %q)", ErrPropertyNotFound, name, n.object, n.name)
	}
	return value, nil
}

// NodeFactory builds frames. Implementations decide naming; the object is
// resolved by the Model beforehand.
type NodeFactory interface {
	NewNode(parent *Node, relative string, index int, object any) *Node
}

// NodeFactoryFunc adapts a function into a NodeFactory.
type NodeFactoryFunc func(parent *Node, relative string, index int, object any) *Node

// NewNode calls the function.
func (fn NodeFactoryFunc) NewNode(parent *Node, relative string, index int, object any) *Node {
	return fn(parent, relative, index, object)
}

// PathNodeFactory names frames by path: a root frame takes its relative
// name, an indexed frame appends "[i]" to the name and "-i" to the id, and
// a property frame appends ".prop" to the name and "-prop" to the id.
type PathNodeFactory struct{}

var _ NodeFactory = PathNodeFactory{}

// NewNode builds a frame.
func (PathNodeFactory) NewNode(parent *Node, relative string, index int, object any) *Node {
	node := &Node{parent: parent, relative: relative, index: index, object: object}
	if relative == "" && index >= 0 {
		relative = strconv.Itoa(index)
	}
	switch {
	case parent == nil || parent.name == "":
		node.name, node.id = relative, relative
	case index >= 0:
		node.name = parent.name + "[" + relative + "]"
		node.id = parent.id + "-" + relative
	default:
		node.name = parent.name + "." + relative
		node.id = parent.id + "-" + relative
	}
	return node
}

// NewNode builds a frame with the default factory. Useful for tests and for
// evaluating expressions outside a render walk.
func NewNode(parent *Node, relative string, index int, object any) *Node {
	return PathNodeFactory{}.NewNode(parent, relative, index, object)
}
