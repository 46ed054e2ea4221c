// Package constraint implements the equality-constraint carrier the
// constraint generator emits and the unifier consumes (spec.md §3.3, §4.2).
package constraint

import (
	"sort"

	"github.com/tensorscript/tsc/internal/tstypes"
)

// Equals is one `a ≡ b` equality constraint between two types.
type Equals struct {
	A, B tstypes.Type
}

// Less orders two Equals pairs using the total type order, first by A then
// by B, so that a slice of Equals can be sorted into a deterministic,
// allocation-independent sequence.
func (e Equals) Less(o Equals) bool {
	if !e.A.Equals(o.A) {
		return tstypes.Less(e.A, o.A)
	}
	return tstypes.Less(e.B, o.B)
}

func (e Equals) equalTo(o Equals) bool {
	return e.A.Equals(o.A) && e.B.Equals(o.B)
}

// Set is an ordered, deduplicated collection of Equals constraints.
// spec.md §3.3 requires insertion order stabilised by a total order over
// Type so diagnostics are reproducible; a plain slice kept sorted on
// insertion (rather than a map) gives that directly and avoids the
// "hash-based containers are forbidden" hazard spec.md §9 calls out.
type Set struct {
	items []Equals
}

// NewSet returns an empty constraint set.
func NewSet() *Set { return &Set{} }

// Add inserts c into the set in sorted position, ignoring duplicates.
func (s *Set) Add(c Equals) {
	i := sort.Search(len(s.items), func(i int) bool { return !s.items[i].Less(c) })
	if i < len(s.items) && s.items[i].equalTo(c) {
		return
	}
	s.items = append(s.items, Equals{})
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = c
}

// AddAll inserts every constraint in cs.
func (s *Set) AddAll(cs []Equals) {
	for _, c := range cs {
		s.Add(c)
	}
}

// Len reports the number of constraints in the set.
func (s *Set) Len() int { return len(s.items) }

// IsEmpty reports whether the set has no constraints.
func (s *Set) IsEmpty() bool { return len(s.items) == 0 }

// Items returns the constraints in their deterministic order. The returned
// slice must not be mutated by the caller.
func (s *Set) Items() []Equals { return s.items }

// Pop removes and returns the first constraint in order, along with the
// remainder of the set. It is used by the unifier's recursive unify loop
// (spec.md §4.3 step 2).
func (s *Set) Pop() (Equals, *Set) {
	rest := &Set{items: append([]Equals{}, s.items[1:]...)}
	return s.items[0], rest
}
