// Package unify implements spec.md §4.3's unifier: a Robinson-style
// recursive-descent solver over a constraint.Set, producing an idempotent
// tstypes.Substitution. It is directly grounded on the original
// `Unifier::unify`/`unify_one`/`unify_var` (a pattern match over type pairs,
// recursing into structurally matching compounds and binding variables on
// the rest), adapted to report every mismatch through a diag.Emitter
// instead of printing and calling exit(-1): library code here never
// terminates the process (DESIGN.md, redesign decision 5).
package unify

import (
	"fmt"

	"github.com/tensorscript/tsc/internal/constraint"
	"github.com/tensorscript/tsc/internal/diag"
	"github.com/tensorscript/tsc/internal/span"
	"github.com/tensorscript/tsc/internal/tstypes"
)

// Unifier solves a constraint.Set against a diag.Emitter.
type Unifier struct {
	em diag.Emitter
}

// New returns a Unifier reporting through em.
func New(em diag.Emitter) *Unifier {
	return &Unifier{em: em}
}

// Unify solves every constraint in cs, returning the composed substitution.
// Mirrors the original's `unify`: pop one constraint, solve it, apply the
// result to the rest of the queue, recurse, and compose left-to-right.
func (u *Unifier) Unify(cs *constraint.Set) tstypes.Substitution {
	if cs.IsEmpty() {
		return tstypes.Empty()
	}
	head, rest := cs.Pop()
	s1 := u.unifyOne(head)
	restApplied := applySet(s1, rest)
	s2 := u.Unify(restApplied)
	return tstypes.Compose(s1, s2)
}

func applySet(s tstypes.Substitution, cs *constraint.Set) *constraint.Set {
	out := constraint.NewSet()
	for _, c := range cs.Items() {
		out.Add(constraint.Equals{A: tstypes.Apply(s, c.A), B: tstypes.Apply(s, c.B)})
	}
	return out
}

func (u *Unifier) unifyOne(eq constraint.Equals) tstypes.Substitution {
	a, b := eq.A, eq.B

	// UnresolvedModuleFun binds unconditionally, no occurs check, per
	// SPEC_FULL.md §C.3: it is a placeholder for call-site shape
	// information still being discovered, not a self-referential type.
	if umf, ok := a.(*tstypes.UnresolvedModuleFun); ok {
		return tstypes.Substitution{tstypes.KeyOfUMF(umf.ID): b}
	}
	if umf, ok := b.(*tstypes.UnresolvedModuleFun); ok {
		return tstypes.Substitution{tstypes.KeyOfUMF(umf.ID): a}
	}

	switch x := a.(type) {
	case *tstypes.Unit:
		if _, ok := b.(*tstypes.Unit); ok {
			return tstypes.Empty()
		}
	case *tstypes.Prim:
		if y, ok := b.(*tstypes.Prim); ok && x.Kind == y.Kind {
			return tstypes.Empty()
		}
		if _, ok := b.(*tstypes.ResolvedDim); ok && tstypes.IsInt(x) {
			return tstypes.Empty()
		}
	case *tstypes.ResolvedDim:
		if _, ok := b.(*tstypes.Prim); ok && tstypes.IsInt(b) {
			return tstypes.Empty()
		}
		if y, ok := b.(*tstypes.ResolvedDim); ok {
			if x.N == y.N {
				return tstypes.Empty()
			}
			u.em.Add(diag.New(diag.CodeDimensionMismatch,
				fmt.Sprintf("dimension mismatch: %s vs %s", x, y), x.Sp))
			return tstypes.Empty()
		}
	case *tstypes.VAR:
		return u.unifyVar(tstypes.KeyOfVar(x.ID), x.Sp, b)
	case *tstypes.DIM:
		return u.unifyVar(tstypes.KeyOfDim(x.ID), x.Sp, b)
	case *tstypes.FnArgs:
		if y, ok := b.(*tstypes.FnArgs); ok {
			return u.unifyFnArgs(x, y)
		}
	case *tstypes.FUN:
		if y, ok := b.(*tstypes.FUN); ok {
			return u.unifyFun(x, y)
		}
	case *tstypes.Tuple:
		if y, ok := b.(*tstypes.Tuple); ok && len(x.Elems) == len(y.Elems) {
			sub := constraint.NewSet()
			for i := range x.Elems {
				sub.Add(constraint.Equals{A: x.Elems[i], B: y.Elems[i]})
			}
			return u.Unify(sub)
		}
	case *tstypes.TSR:
		if y, ok := b.(*tstypes.TSR); ok {
			return u.unifyTSR(x, y)
		}
	case *tstypes.Module:
		if y, ok := b.(*tstypes.Module); ok {
			return u.unifyModule(x, y)
		}
	}

	// Symmetric var cases: ty ≡ VAR/DIM with the variable on the right.
	switch y := b.(type) {
	case *tstypes.VAR:
		return u.unifyVar(tstypes.KeyOfVar(y.ID), y.Sp, a)
	case *tstypes.DIM:
		return u.unifyVar(tstypes.KeyOfDim(y.ID), y.Sp, a)
	}

	u.em.Add(diag.New(diag.CodeTypeError, fmt.Sprintf("type mismatch: %s vs %s", a, b), a.Span()).
		WithTypes(a.String(), b.String()))
	return tstypes.Empty()
}

// unifyFnArgs unifies two argument-list types position by position,
// reporting ArityMismatch when the lengths differ and a mismatched keyword
// name as a TypeError (the original panics on this case; here it is a
// reported, non-fatal-process diagnostic instead).
func (u *Unifier) unifyFnArgs(x, y *tstypes.FnArgs) tstypes.Substitution {
	if len(x.Args) != len(y.Args) {
		u.em.Add(diag.New(diag.CodeArityMismatch,
			fmt.Sprintf("expected %d argument(s), got %d", len(x.Args), len(y.Args)), x.Sp))
	}
	n := len(x.Args)
	if len(y.Args) < n {
		n = len(y.Args)
	}
	sub := constraint.NewSet()
	for i := 0; i < n; i++ {
		pa, pb := x.Args[i], y.Args[i]
		if pa.HasName && pb.HasName && pa.Name != pb.Name {
			u.em.Add(diag.New(diag.CodeTypeError,
				fmt.Sprintf("supplied parameter is incorrect: %s != %s", pa.Name, pb.Name), x.Sp))
			continue
		}
		sub.Add(constraint.Equals{A: pa.Ty, B: pb.Ty})
	}
	return u.Unify(sub)
}

// unifyFun unifies two FUN types. Per spec.md §9's resolution of the "do
// function names matter" open question: a name mismatch is only reported
// when *both* sides carry a non-empty name (tstypes.FUN.Equals already
// encodes this; the unifier mirrors it rather than the original's blanket
// panic on any n1 != n2).
func (u *Unifier) unifyFun(x, y *tstypes.FUN) tstypes.Substitution {
	if x.Name != "" && y.Name != "" && x.Name != y.Name {
		u.em.Add(diag.New(diag.CodeTypeError,
			fmt.Sprintf("function name mismatch: %s != %s", x.Name, y.Name), x.Sp))
		return tstypes.Empty()
	}
	sub := constraint.NewSet()
	sub.Add(constraint.Equals{A: x.Param, B: y.Param})
	sub.Add(constraint.Equals{A: x.Ret, B: y.Ret})
	return u.Unify(sub)
}

// unifyTSR unifies two tensor types of equal rank dimension-by-dimension.
// Per SPEC_FULL.md §C.5's redesign, two differing ResolvedDim values report
// DimensionMismatch (not a bare TypeError) and are skipped rather than
// queued as a constraint that would only restate the same mismatch.
func (u *Unifier) unifyTSR(x, y *tstypes.TSR) tstypes.Substitution {
	if x.Rank() != y.Rank() {
		u.em.Add(diag.New(diag.CodeRankMismatch,
			fmt.Sprintf("rank mismatch: %s vs %s", x, y), x.Sp))
		return tstypes.Empty()
	}
	sub := constraint.NewSet()
	for i := range x.Dims {
		da, db := x.Dims[i], y.Dims[i]
		ra, aok := da.(*tstypes.ResolvedDim)
		rb, bok := db.(*tstypes.ResolvedDim)
		if aok && bok {
			if ra.N != rb.N {
				u.em.Add(diag.New(diag.CodeDimensionMismatch,
					fmt.Sprintf("dimension mismatch at position %d: %d vs %d", i, ra.N, rb.N), x.Sp))
			}
			continue
		}
		sub.Add(constraint.Equals{
			A: tstypes.WithFreshSpan(da, x.Sp),
			B: tstypes.WithFreshSpan(db, y.Sp),
		})
	}
	return u.Unify(sub)
}

// unifyModule unifies two Module types. Per SPEC_FULL.md §C.2's redesign of
// the original's `panic!()` on a name mismatch, this reports a fatal
// CodeModuleMismatch diagnostic instead of crashing the process; the caller
// (internal/pipeline) decides whether to halt based on Emitter.HasFatal.
func (u *Unifier) unifyModule(x, y *tstypes.Module) tstypes.Substitution {
	if x.Name != y.Name {
		u.em.Add(diag.New(diag.CodeModuleMismatch,
			fmt.Sprintf("module mismatch: %s != %s", x.Name, y.Name), x.Sp))
		return tstypes.Empty()
	}
	if x.Body == nil && y.Body == nil {
		return tstypes.Empty()
	}
	if x.Body == nil || y.Body == nil {
		u.em.Add(diag.New(diag.CodeTypeError, "module body presence mismatch", x.Sp))
		return tstypes.Empty()
	}
	sub := constraint.NewSet()
	sub.Add(constraint.Equals{A: x.Body, B: y.Body})
	return u.Unify(sub)
}

// unifyVar binds a VAR/DIM variable to ty. Equal same-kind variables unify
// to the empty substitution (already solved); anything else is checked for
// self-reference (occurs check) before binding, reporting CircularType
// instead of the original's `panic!("circular type")`.
func (u *Unifier) unifyVar(key tstypes.VarKey, sp span.Span, ty tstypes.Type) tstypes.Substitution {
	switch t := ty.(type) {
	case *tstypes.VAR:
		if key == tstypes.KeyOfVar(t.ID) {
			return tstypes.Empty()
		}
	case *tstypes.DIM:
		if key == tstypes.KeyOfDim(t.ID) {
			return tstypes.Empty()
		}
	}
	if tstypes.Occurs(key, ty) {
		u.em.Add(diag.New(diag.CodeCircularType,
			fmt.Sprintf("circular type: variable occurs in %s", ty), sp))
		return tstypes.Empty()
	}
	return tstypes.Substitution{key: tstypes.WithFreshSpan(ty, span.FreshSynthetic())}
}
