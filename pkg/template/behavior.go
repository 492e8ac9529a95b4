package template

import (
	"fmt"
	"strings"
)

// Behavior is the primary behavior an element is compiled by. Exactly one
// primary behavior selects the mold for an element.
type Behavior uint8

const (
	BehaviorNone Behavior = iota
	BehaviorGroup
	BehaviorDynamicProperty
	BehaviorMemberProperty
	BehaviorCommand
	BehaviorInnerTemplate
)

var behaviorNames = map[Behavior]string{
	BehaviorNone:            "none",
	BehaviorGroup:           "group",
	BehaviorDynamicProperty: "dynamic-property",
	BehaviorMemberProperty:  "member-property",
	BehaviorCommand:         "command",
	BehaviorInnerTemplate:   "inner-template",
}

// String returns the canonical behavior name.
func (b Behavior) String() string {
	if name, ok := behaviorNames[b]; ok {
		return name
	}
	return fmt.Sprintf("behavior(%d)", uint8(b))
}

// Behaviors lists every primary behavior in dispatch order.
func Behaviors() []Behavior {
	return []Behavior{
		BehaviorGroup,
		BehaviorDynamicProperty,
		BehaviorMemberProperty,
		BehaviorCommand,
		BehaviorInnerTemplate,
	}
}

// BehaviorSet is the set of primary behaviors an element claims. A valid
// element claims exactly one.
type BehaviorSet uint8

// NewBehaviorSet builds a set from the supplied behaviors.
func NewBehaviorSet(behaviors ...Behavior) BehaviorSet {
	var set BehaviorSet
	for _, b := range behaviors {
		set = set.With(b)
	}
	return set
}

// With returns a copy of the set including b.
func (s BehaviorSet) With(b Behavior) BehaviorSet {
	if b == BehaviorNone {
		return s
	}
	return s | 1<<b
}

// Has reports whether b is claimed.
func (s BehaviorSet) Has(b Behavior) bool {
	return b != BehaviorNone && s&(1<<b) != 0
}

// List returns the claimed behaviors in dispatch order.
func (s BehaviorSet) List() []Behavior {
	var out []Behavior
	for _, b := range Behaviors() {
		if s.Has(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s BehaviorSet) String() string {
	list := s.List()
	names := make([]string, len(list))
	for i, b := range list {
		names[i] = b.String()
	}
	return strings.Join(names, "+")
}

// Capability is a secondary behavior consulted by fragments and value
// formatting regardless of the primary behavior.
type Capability uint32

const (
	CapContainer Capability = 1 << iota
	CapResource
	CapReference
	CapImage
	CapChecked
	CapNumber
	CapDate
	CapCoded
	CapText
	CapMemo
	CapHidden
	CapMarkup
	CapMarkdown
	CapSnippet
)

var capabilityNames = []struct {
	cap  Capability
	name string
}{
	{CapContainer, "container"},
	{CapResource, "resource"},
	{CapReference, "reference"},
	{CapImage, "image"},
	{CapChecked, "checked"},
	{CapNumber, "number"},
	{CapDate, "date"},
	{CapCoded, "coded"},
	{CapText, "text"},
	{CapMemo, "memo"},
	{CapHidden, "hidden"},
	{CapMarkup, "markup"},
	{CapMarkdown, "markdown"},
	{CapSnippet, "snippet"},
}

// Has reports whether every bit in c is present.
func (c Capability) Has(other Capability) bool {
	return other != 0 && c&other == other
}

func (c Capability) String() string {
	var names []string
	for _, entry := range capabilityNames {
		if c.Has(entry.cap) {
			names = append(names, entry.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseCapability resolves a capability by its canonical name.
func ParseCapability(name string) (Capability, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, entry := range capabilityNames {
		if entry.name == name {
			return entry.cap, true
		}
	}
	return 0, false
}
