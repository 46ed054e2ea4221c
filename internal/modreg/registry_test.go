package modreg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tensorscript/tsc/internal/tsenv"
	"github.com/tensorscript/tsc/internal/tstypes"
)

func TestResolveUnknownMethodReturnsFalse(t *testing.T) {
	r := New()
	env := tsenv.New(r)
	_, ok := r.Resolve(env, "Nope", "forward")
	require.False(t, ok)
}

func TestResolveInstantiatesFreshCopyEachCall(t *testing.T) {
	r := NewWithPrelude()
	env := tsenv.New(r)

	f1, ok := r.Resolve(env, "Linear", "forward")
	require.True(t, ok)
	f2, ok := r.Resolve(env, "Linear", "forward")
	require.True(t, ok)

	require.False(t, f1.Param.Args[0].Ty.Equals(f2.Param.Args[0].Ty),
		"two resolutions of the same method must mint independent type variables")
}

func TestElementwiseOpSharesShapeBetweenArgsAndReturn(t *testing.T) {
	r := NewWithPrelude()
	env := tsenv.New(r)

	f, ok := r.Resolve(env, "", "add")
	require.True(t, ok)
	require.Len(t, f.Param.Args, 2)
	require.True(t, f.Param.Args[0].Ty.Equals(f.Param.Args[1].Ty))
	require.True(t, f.Param.Args[0].Ty.Equals(f.Ret))
}

func TestMSELossForwardReturnsFloat(t *testing.T) {
	r := NewWithPrelude()
	env := tsenv.New(r)

	f, ok := r.Resolve(env, "MSELoss", "forward")
	require.True(t, ok)
	require.True(t, tstypes.IsFloat(f.Ret))
}

func TestApplyManifestRegistersCustomUnaryOp(t *testing.T) {
	r := New()
	env := tsenv.New(r)
	m := &Manifest{Ops: []OpSpec{{Module: "", Method: "gelu", Kind: "unary"}}}
	require.NoError(t, r.Apply(m))

	f, ok := r.Resolve(env, "", "gelu")
	require.True(t, ok)
	require.True(t, f.Param.Args[0].Ty.Equals(f.Ret))
}

func TestApplyManifestRejectsUnknownKind(t *testing.T) {
	r := New()
	m := &Manifest{Ops: []OpSpec{{Module: "", Method: "weird", Kind: "bogus"}}}
	require.Error(t, r.Apply(m))
}
