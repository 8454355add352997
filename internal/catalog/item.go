package catalog

import (
	"sort"
	"strings"
)

// DefaultMaxStack is the stack cap used when an item does not declare one.
const DefaultMaxStack = 64

// Descriptor identifies a kind of item: a base type plus an optional variant tag
// (model/variant id). An empty Variant means "untagged".
type Descriptor struct {
	Type    string `json:"type" yaml:"type"`
	Variant string `json:"variant,omitempty" yaml:"variant,omitempty"`
}

// Matches reports whether two descriptors name the same item. Base types must be
// equal; tagged items only match items carrying the same tag, untagged items
// only match untagged items.
func (d Descriptor) Matches(o Descriptor) bool {
	return d.Type == o.Type && d.Variant == o.Variant
}

// Key is the normalized string form used in indexes.
func (d Descriptor) Key() string {
	if d.Variant == "" {
		return d.Type
	}
	return d.Type + "#" + d.Variant
}

func (d Descriptor) String() string { return d.Key() }

// Stack is a quantity of one item kind held in a slot. The zero value is an
// empty slot.
type Stack struct {
	Descriptor `yaml:",inline"`

	Amount   int `json:"amount" yaml:"amount"`
	MaxStack int `json:"max_stack,omitempty" yaml:"max_stack,omitempty"` // overrides DefaultMaxStack when positive
}

// NewStack builds an untagged stack.
func NewStack(itemType string, amount int) Stack {
	return Stack{Descriptor: Descriptor{Type: itemType}, Amount: amount}
}

// IsEmpty reports whether the stack holds nothing.
func (s Stack) IsEmpty() bool {
	return s.Type == "" || s.Amount <= 0
}

// Cap returns the maximum amount a single slot can hold for this item.
func (s Stack) Cap() int {
	if s.MaxStack > 0 {
		return s.MaxStack
	}
	return DefaultMaxStack
}

// Similar reports whether two stacks can merge into one slot.
func (s Stack) Similar(o Stack) bool {
	return !s.IsEmpty() && !o.IsEmpty() && s.Descriptor.Matches(o.Descriptor)
}

// WithAmount returns a copy of s holding n items.
func (s Stack) WithAmount(n int) Stack {
	s.Amount = n
	return s
}

// Signature returns the normalized input signature of a set of descriptors:
// the sorted distinct keys joined by '|'. Order of the input never matters.
func Signature(descs []Descriptor) string {
	seen := make(map[string]struct{}, len(descs))
	keys := make([]string, 0, len(descs))
	for _, d := range descs {
		k := d.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

// StackSignature is Signature over the non-empty stacks.
func StackSignature(stacks []Stack) string {
	descs := make([]Descriptor, 0, len(stacks))
	for _, s := range stacks {
		if s.IsEmpty() {
			continue
		}
		descs = append(descs, s.Descriptor)
	}
	return Signature(descs)
}
