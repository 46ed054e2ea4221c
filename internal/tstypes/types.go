// Package tstypes implements the TensorScript type model (spec.md §3.1): a
// tagged variant covering scalars, tensor shapes, function signatures, and
// the unknowns (type and dimension variables) the inference engine solves
// for. Every variant carries a span for diagnostics; Equals and the total
// Less order both ignore it, matching spec.md's "Equality and ordering are
// defined structurally, ignoring the span."
package tstypes

import (
	"fmt"
	"strings"

	"github.com/tensorscript/tsc/internal/span"
)

// Type is the closed sum of all TensorScript types. Implementations use a
// sealed-interface + type-switch discipline (the Go idiom for a closed
// variant, per the teacher's own internal/types package) rather than an
// open interface other packages could implement.
type Type interface {
	fmt.Stringer
	Span() span.Span
	// Equals compares two types structurally, ignoring spans.
	Equals(Type) bool
	typeNode()
}

// Unit is the type of the absence of a value.
type Unit struct{ Sp span.Span }

func (t *Unit) Span() span.Span { return t.Sp }
func (t *Unit) String() string  { return "()" }
func (t *Unit) typeNode()       {}
func (t *Unit) Equals(o Type) bool {
	_, ok := o.(*Unit)
	return ok
}

// Scalar primitives.
type primKind int

const (
	kindInt primKind = iota
	kindFloat
	kindBool
)

// Prim is a scalar primitive type: INT, FLOAT, or BOOL.
type Prim struct {
	Kind primKind
	Sp   span.Span
}

func NewInt(sp span.Span) *Prim   { return &Prim{Kind: kindInt, Sp: sp} }
func NewFloat(sp span.Span) *Prim { return &Prim{Kind: kindFloat, Sp: sp} }
func NewBool(sp span.Span) *Prim  { return &Prim{Kind: kindBool, Sp: sp} }

func (t *Prim) Span() span.Span { return t.Sp }
func (t *Prim) typeNode()       {}
func (t *Prim) String() string {
	switch t.Kind {
	case kindInt:
		return "INT"
	case kindFloat:
		return "FLOAT"
	case kindBool:
		return "BOOL"
	}
	return "<prim?>"
}
func (t *Prim) Equals(o Type) bool {
	op, ok := o.(*Prim)
	return ok && op.Kind == t.Kind
}

// IsInt reports whether t is the INT primitive.
func IsInt(t Type) bool { p, ok := t.(*Prim); return ok && p.Kind == kindInt }

// IsFloat reports whether t is the FLOAT primitive.
func IsFloat(t Type) bool { p, ok := t.(*Prim); return ok && p.Kind == kindFloat }

// IsBool reports whether t is the BOOL primitive.
func IsBool(t Type) bool { p, ok := t.(*Prim); return ok && p.Kind == kindBool }

// ResolvedDim is a concrete tensor-dimension literal.
type ResolvedDim struct {
	N  int64
	Sp span.Span
}

func (t *ResolvedDim) Span() span.Span { return t.Sp }
func (t *ResolvedDim) typeNode()       {}
func (t *ResolvedDim) String() string  { return fmt.Sprintf("%d", t.N) }
func (t *ResolvedDim) Equals(o Type) bool {
	op, ok := o.(*ResolvedDim)
	return ok && op.N == t.N
}

// DIM is an unknown dimension: a type variable restricted to dimension kind.
type DIM struct {
	ID uint64
	Sp span.Span
}

func (t *DIM) Span() span.Span { return t.Sp }
func (t *DIM) typeNode()       {}
func (t *DIM) String() string { return fmt.Sprintf("d%d", t.ID) }
func (t *DIM) Equals(o Type) bool {
	op, ok := o.(*DIM)
	return ok && op.ID == t.ID
}

// IsDimKinded reports whether t is legal inside a TSR's dimension list:
// either a ResolvedDim or a DIM (spec.md §3.1 invariant).
func IsDimKinded(t Type) bool {
	switch t.(type) {
	case *ResolvedDim, *DIM:
		return true
	default:
		return false
	}
}

// VAR is an unknown general-kind type variable.
type VAR struct {
	ID uint64
	Sp span.Span
}

func (t *VAR) Span() span.Span { return t.Sp }
func (t *VAR) typeNode()       {}
func (t *VAR) String() string  { return fmt.Sprintf("t%d", t.ID) }
func (t *VAR) Equals(o Type) bool {
	op, ok := o.(*VAR)
	return ok && op.ID == t.ID
}

// TSR is a tensor type: an ordered sequence of dimension-kinded types. Its
// length is the tensor's rank.
type TSR struct {
	Dims []Type
	Sp   span.Span
}

func (t *TSR) Span() span.Span { return t.Sp }
func (t *TSR) typeNode()       {}
func (t *TSR) Rank() int       { return len(t.Dims) }
func (t *TSR) String() string {
	dims := make([]string, len(t.Dims))
	for i, d := range t.Dims {
		dims[i] = d.String()
	}
	return fmt.Sprintf("TSR<%s>", strings.Join(dims, ","))
}
func (t *TSR) Equals(o Type) bool {
	ot, ok := o.(*TSR)
	if !ok || len(t.Dims) != len(ot.Dims) {
		return false
	}
	for i := range t.Dims {
		if !t.Dims[i].Equals(ot.Dims[i]) {
			return false
		}
	}
	return true
}

// FnArg is one formal/actual argument: Name is set for a keyword argument.
type FnArg struct {
	Name    string // empty means positional
	HasName bool
	Ty      Type
}

func (a FnArg) String() string {
	if a.HasName {
		return fmt.Sprintf("%s=%s", a.Name, a.Ty)
	}
	return a.Ty.String()
}

// FnArgs is an argument-list type.
type FnArgs struct {
	Args []FnArg
	Sp   span.Span
}

func (t *FnArgs) Span() span.Span { return t.Sp }
func (t *FnArgs) typeNode()       {}
func (t *FnArgs) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *FnArgs) Equals(o Type) bool {
	ot, ok := o.(*FnArgs)
	if !ok || len(t.Args) != len(ot.Args) {
		return false
	}
	for i := range t.Args {
		a, b := t.Args[i], ot.Args[i]
		if a.HasName != b.HasName || (a.HasName && a.Name != b.Name) {
			return false
		}
		if !a.Ty.Equals(b.Ty) {
			return false
		}
	}
	return true
}

// FUN is a function type, carrying its originating module and name for
// diagnostics and for recognizing identical module methods.
type FUN struct {
	Module string
	Name   string
	Param  *FnArgs
	Ret    Type
	Sp     span.Span
}

func (t *FUN) Span() span.Span { return t.Sp }
func (t *FUN) typeNode()       {}
func (t *FUN) String() string {
	return fmt.Sprintf("%s -> %s", t.Param, t.Ret)
}
func (t *FUN) Equals(o Type) bool {
	ot, ok := o.(*FUN)
	if !ok {
		return false
	}
	if t.Name != "" && ot.Name != "" && t.Name != ot.Name {
		return false
	}
	return t.Param.Equals(ot.Param) && t.Ret.Equals(ot.Ret)
}

// Tuple is a heterogeneous fixed-length product type.
type Tuple struct {
	Elems []Type
	Sp    span.Span
}

func (t *Tuple) Span() span.Span { return t.Sp }
func (t *Tuple) typeNode()       {}
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t *Tuple) Equals(o Type) bool {
	ot, ok := o.(*Tuple)
	if !ok || len(t.Elems) != len(ot.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equals(ot.Elems[i]) {
			return false
		}
	}
	return true
}

// Module is a module-level type; Body, when present, is typically a record
// of the module's public fields/methods.
type Module struct {
	Name string
	Body Type // nil if the module has no known body yet
	Sp   span.Span
}

func (t *Module) Span() span.Span { return t.Sp }
func (t *Module) typeNode()       {}
func (t *Module) String() string {
	if t.Body != nil {
		return fmt.Sprintf("Module(%s, %s)", t.Name, t.Body)
	}
	return fmt.Sprintf("Module(%s)", t.Name)
}
func (t *Module) Equals(o Type) bool {
	ot, ok := o.(*Module)
	if !ok || t.Name != ot.Name {
		return false
	}
	if t.Body == nil && ot.Body == nil {
		return true
	}
	if t.Body == nil || ot.Body == nil {
		return false
	}
	return t.Body.Equals(ot.Body)
}

// UnresolvedModuleFun is a placeholder for a field-access call whose
// signature depends on later information, e.g. `layer.forward(x)` whose
// signature requires knowing layer's module. The unifier treats it as a
// type variable: unifying it with any type binds the marker to that type.
type UnresolvedModuleFun struct {
	ID       uint64
	Module   string
	Method   string
	Receiver Type
	Sp       span.Span
}

func (t *UnresolvedModuleFun) Span() span.Span { return t.Sp }
func (t *UnresolvedModuleFun) typeNode()       {}
func (t *UnresolvedModuleFun) String() string {
	return fmt.Sprintf("<unresolved %s.%s>", t.Module, t.Method)
}
func (t *UnresolvedModuleFun) Equals(o Type) bool {
	ot, ok := o.(*UnresolvedModuleFun)
	return ok && ot.ID == t.ID
}
