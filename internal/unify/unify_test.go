package unify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tensorscript/tsc/internal/constraint"
	"github.com/tensorscript/tsc/internal/diag"
	"github.com/tensorscript/tsc/internal/span"
	"github.com/tensorscript/tsc/internal/tstypes"
)

func TestUnifyVarBindsToConcreteType(t *testing.T) {
	em := diag.NewSink()
	u := New(em)
	v := &tstypes.VAR{ID: 1, Sp: span.None}
	cs := constraint.NewSet()
	cs.Add(constraint.Equals{A: v, B: tstypes.NewInt(span.None)})

	s := u.Unify(cs)
	require.False(t, em.HasFatal())
	resolved := tstypes.Apply(s, v)
	require.True(t, tstypes.IsInt(resolved))
}

func TestUnifyResolvedDimMismatchReportsDimensionMismatch(t *testing.T) {
	em := diag.NewSink()
	u := New(em)
	cs := constraint.NewSet()
	cs.Add(constraint.Equals{A: &tstypes.ResolvedDim{N: 3, Sp: span.None}, B: &tstypes.ResolvedDim{N: 5, Sp: span.None}})

	u.Unify(cs)
	require.Len(t, em.Reports(), 1)
	require.Equal(t, diag.CodeDimensionMismatch, em.Reports()[0].Code)
	require.False(t, em.HasFatal())
}

func TestUnifyOccursCheckReportsCircularType(t *testing.T) {
	em := diag.NewSink()
	u := New(em)
	v := &tstypes.VAR{ID: 7, Sp: span.None}
	tsr := &tstypes.TSR{Dims: []tstypes.Type{v}, Sp: span.None}
	cs := constraint.NewSet()
	cs.Add(constraint.Equals{A: v, B: tsr})

	u.Unify(cs)
	require.Len(t, em.Reports(), 1)
	require.Equal(t, diag.CodeCircularType, em.Reports()[0].Code)
	require.True(t, em.HasFatal())
}

func TestUnifyRankMismatchIsNonFatal(t *testing.T) {
	em := diag.NewSink()
	u := New(em)
	a := &tstypes.TSR{Dims: []tstypes.Type{&tstypes.ResolvedDim{N: 1, Sp: span.None}}, Sp: span.None}
	b := &tstypes.TSR{Dims: []tstypes.Type{&tstypes.ResolvedDim{N: 1, Sp: span.None}, &tstypes.ResolvedDim{N: 2, Sp: span.None}}, Sp: span.None}
	cs := constraint.NewSet()
	cs.Add(constraint.Equals{A: a, B: b})

	u.Unify(cs)
	require.Len(t, em.Reports(), 1)
	require.Equal(t, diag.CodeRankMismatch, em.Reports()[0].Code)
	require.False(t, em.HasFatal())
}

func TestUnifyModuleNameMismatchIsFatal(t *testing.T) {
	em := diag.NewSink()
	u := New(em)
	cs := constraint.NewSet()
	cs.Add(constraint.Equals{
		A: &tstypes.Module{Name: "Linear", Sp: span.None},
		B: &tstypes.Module{Name: "Conv2d", Sp: span.None},
	})

	u.Unify(cs)
	require.Len(t, em.Reports(), 1)
	require.Equal(t, diag.CodeModuleMismatch, em.Reports()[0].Code)
	require.True(t, em.HasFatal())
}

func TestUnifyFunNameMismatchOnlyFlaggedWhenBothNamed(t *testing.T) {
	em := diag.NewSink()
	u := New(em)
	sp := span.None
	empty := &tstypes.FnArgs{Sp: sp}
	named := &tstypes.FUN{Name: "forward", Param: empty, Ret: tstypes.NewInt(sp), Sp: sp}
	unnamed := &tstypes.FUN{Name: "", Param: empty, Ret: tstypes.NewInt(sp), Sp: sp}

	cs := constraint.NewSet()
	cs.Add(constraint.Equals{A: named, B: unnamed})
	u.Unify(cs)
	require.Empty(t, em.Reports(), "an empty name on one side must not trigger a name-mismatch diagnostic")
}

func TestUnifyUnresolvedModuleFunBindsUnconditionally(t *testing.T) {
	em := diag.NewSink()
	u := New(em)
	sp := span.None
	umf := &tstypes.UnresolvedModuleFun{ID: 9, Module: "Linear", Method: "forward", Sp: sp}
	target := tstypes.NewFloat(sp)

	cs := constraint.NewSet()
	cs.Add(constraint.Equals{A: umf, B: target})
	s := u.Unify(cs)

	require.True(t, tstypes.Apply(s, umf).Equals(target))
	require.Empty(t, em.Reports())
}
