// Package span provides the opaque source-location handle carried by every
// type and typed-term node, plus an NFC identifier-normalization helper.
package span

import "fmt"

// Pos is a single point in a source file.
type Pos struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Offset int    `json:"offset"`
}

func (p Pos) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Span is a range in a source file, from Start up to (not including) End.
// It is the "opaque location handle" §3.1 requires every Type variant to
// carry; equality and ordering of types ignore it.
type Span struct {
	Start Pos `json:"start"`
	End   Pos `json:"end"`
}

func (s Span) String() string {
	return s.Start.String()
}

// None is used where no real source location is available (e.g. freshly
// synthesized types that do not correspond to surface syntax).
var None = Span{}

// fresh is a monotonically increasing counter used by FreshSynthetic to mint
// spans that are distinguishable from one another even though they carry no
// real file position. The unifier's unify_var step mints one of these for
// every variable binding (§C.4): the bound type is re-stamped with a fresh
// span, not the span the variable carried at its point of origin.
var fresh int

// FreshSynthetic returns a new span with no file position, distinguishable
// from every other synthetic span by an increasing sequence number recorded
// in its Offset field.
func FreshSynthetic() Span {
	fresh++
	return Span{Start: Pos{Offset: -fresh}, End: Pos{Offset: -fresh}}
}
