package tstypes

import "github.com/tensorscript/tsc/internal/span"

// VarKey identifies one substitutable variable — a VAR, a DIM, or an
// UnresolvedModuleFun marker (spec.md §3.4: "A finite mapping from type
// variables (VAR, DIM, or UnresolvedModuleFun) to Types").
type VarKey struct {
	kind varKind
	id   uint64
}

type varKind int

const (
	kindVar varKind = iota
	kindDim
	kindUMF
)

func KeyOfVar(id uint64) VarKey { return VarKey{kind: kindVar, id: id} }
func KeyOfDim(id uint64) VarKey { return VarKey{kind: kindDim, id: id} }
func KeyOfUMF(id uint64) VarKey { return VarKey{kind: kindUMF, id: id} }

// Substitution is a finite mapping from type variables to types. Per
// spec.md §3.4 it is kept idempotent after composition: no variable in the
// domain appears free in the codomain.
type Substitution map[VarKey]Type

// Empty returns an empty substitution.
func Empty() Substitution { return Substitution{} }

// Apply structurally replaces every variable in t bound by s.
func Apply(s Substitution, t Type) Type {
	if len(s) == 0 {
		return t
	}
	switch x := t.(type) {
	case *Unit, *Prim, *ResolvedDim:
		return t
	case *VAR:
		if to, ok := s[KeyOfVar(x.ID)]; ok {
			return Apply(s, to)
		}
		return t
	case *DIM:
		if to, ok := s[KeyOfDim(x.ID)]; ok {
			return Apply(s, to)
		}
		return t
	case *TSR:
		dims := make([]Type, len(x.Dims))
		for i, d := range x.Dims {
			dims[i] = Apply(s, d)
		}
		return &TSR{Dims: dims, Sp: x.Sp}
	case *FnArgs:
		args := make([]FnArg, len(x.Args))
		for i, a := range x.Args {
			args[i] = FnArg{Name: a.Name, HasName: a.HasName, Ty: Apply(s, a.Ty)}
		}
		return &FnArgs{Args: args, Sp: x.Sp}
	case *FUN:
		return &FUN{
			Module: x.Module,
			Name:   x.Name,
			Param:  Apply(s, x.Param).(*FnArgs),
			Ret:    Apply(s, x.Ret),
			Sp:     x.Sp,
		}
	case *Tuple:
		elems := make([]Type, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = Apply(s, e)
		}
		return &Tuple{Elems: elems, Sp: x.Sp}
	case *Module:
		var body Type
		if x.Body != nil {
			body = Apply(s, x.Body)
		}
		return &Module{Name: x.Name, Body: body, Sp: x.Sp}
	case *UnresolvedModuleFun:
		if to, ok := s[KeyOfUMF(x.ID)]; ok {
			return Apply(s, to)
		}
		return t
	default:
		return t
	}
}

// ApplyToSubstitution applies s to every type in the codomain of other,
// used while composing two substitutions.
func ApplyToSubstitution(s Substitution, other Substitution) Substitution {
	out := make(Substitution, len(other))
	for k, v := range other {
		out[k] = Apply(s, v)
	}
	return out
}

// Compose implements s1 ∘ s2 per spec.md §3.4: apply s1 to s2's codomain,
// then union, with s1 winning on key conflicts.
func Compose(s1, s2 Substitution) Substitution {
	out := ApplyToSubstitution(s1, s2)
	for k, v := range s1 {
		out[k] = v
	}
	return out
}

// Occurs reports whether the variable identified by key appears anywhere
// inside t. It is used by the unifier's occurs check (spec.md §4.3): every
// compound variant is descended, including TSR leaves, since a dimension
// variable could in principle alias into itself on pathological input.
func Occurs(key VarKey, t Type) bool {
	switch x := t.(type) {
	case *Unit, *Prim, *ResolvedDim:
		return false
	case *VAR:
		return key == KeyOfVar(x.ID)
	case *DIM:
		return key == KeyOfDim(x.ID)
	case *TSR:
		for _, d := range x.Dims {
			if Occurs(key, d) {
				return true
			}
		}
		return false
	case *FnArgs:
		for _, a := range x.Args {
			if Occurs(key, a.Ty) {
				return true
			}
		}
		return false
	case *FUN:
		return Occurs(key, x.Param) || Occurs(key, x.Ret)
	case *Tuple:
		for _, e := range x.Elems {
			if Occurs(key, e) {
				return true
			}
		}
		return false
	case *Module:
		return x.Body != nil && Occurs(key, x.Body)
	case *UnresolvedModuleFun:
		return key == KeyOfUMF(x.ID)
	default:
		return false
	}
}

// WithFreshSpan returns a shallow copy of t with its span replaced. It is
// used by unify_var to mint the fresh-span substitution key described in
// SPEC_FULL.md §C.4: the original implementation binds a variable to a key
// carrying a freshly minted span rather than the variable's point-of-origin
// span, so post-substitution diagnostics point at the binding site.
func WithFreshSpan(t Type, sp span.Span) Type {
	switch x := t.(type) {
	case *VAR:
		return &VAR{ID: x.ID, Sp: sp}
	case *DIM:
		return &DIM{ID: x.ID, Sp: sp}
	default:
		return t
	}
}
