package genconstraint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tensorscript/tsc/internal/constraint"
	"github.com/tensorscript/tsc/internal/diag"
	"github.com/tensorscript/tsc/internal/modreg"
	"github.com/tensorscript/tsc/internal/span"
	"github.com/tensorscript/tsc/internal/tsenv"
	"github.com/tensorscript/tsc/internal/tstypes"
	"github.com/tensorscript/tsc/internal/typedterm"
)

func sp() span.Span { return span.FreshSynthetic() }

func newGenerator() (*Generator, *tsenv.TypeEnv, *diag.Sink) {
	env := tsenv.New(modreg.NewWithPrelude())
	sink := diag.NewSink()
	return New(env, constraint.NewSet(), sink), env, sink
}

func TestFnAppOnUnboundNameReportsUnknownIdent(t *testing.T) {
	g, _, sink := newGenerator()
	call := &typedterm.FnApp{Name: "not_a_real_fn", RetTy: &tstypes.VAR{Sp: sp()}, Sp: sp()}

	g.fnApp(call)

	require.Len(t, sink.Reports(), 1)
	require.Equal(t, diag.CodeUnknownIdent, sink.Reports()[0].Code)
}

func TestFnAppOnBoundNameAddsArgAndReturnConstraints(t *testing.T) {
	g, env, sink := newGenerator()
	retTy := &tstypes.Prim{}
	sig := &tstypes.FUN{
		Name:  "identity",
		Param: &tstypes.FnArgs{Args: []tstypes.FnArg{{Ty: &tstypes.VAR{Sp: sp()}}}, Sp: sp()},
		Ret:   retTy,
		Sp:    sp(),
	}
	env.Bind("identity", sig)

	call := &typedterm.FnApp{
		Name: "identity",
		Args: []typedterm.FnAppArg{{Arg: &typedterm.Integer{TyAnn: tstypes.NewInt(sp()), Value: 1, Sp: sp()}}},
		RetTy: &tstypes.VAR{Sp: sp()},
		Sp:   sp(),
	}
	g.fnApp(call)

	require.Empty(t, sink.Reports())
	require.Equal(t, 2, g.cs.Len())
}

func TestFnAppArityMismatchReportsArityMismatch(t *testing.T) {
	g, env, sink := newGenerator()
	sig := &tstypes.FUN{
		Name:  "f",
		Param: &tstypes.FnArgs{Args: []tstypes.FnArg{{Ty: &tstypes.VAR{Sp: sp()}}}, Sp: sp()},
		Ret:   &tstypes.Prim{},
		Sp:    sp(),
	}
	env.Bind("f", sig)

	call := &typedterm.FnApp{Name: "f", RetTy: &tstypes.VAR{Sp: sp()}, Sp: sp()}
	g.fnApp(call)

	require.Len(t, sink.Reports(), 1)
	require.Equal(t, diag.CodeArityMismatch, sink.Reports()[0].Code)
}

// TestFieldAccessOnBareModuleNameResolvesRegistrySignature exercises
// spec.md S1: `Linear.forward(x)` names the registered module directly,
// with no local variable ever bound to it, and must still check x's shape
// against Linear.forward's TSR<batch,in> parameter.
func TestFieldAccessOnBareModuleNameResolvesRegistrySignature(t *testing.T) {
	g, env, sink := newGenerator()
	env.Bind("x", &tstypes.VAR{Sp: sp()})

	fa := &typedterm.FieldAccess{
		VarName:   "Linear",
		FieldName: "forward",
		FuncCall: &typedterm.FieldAccessCall{
			RetTy: &tstypes.VAR{Sp: sp()},
			Args:  []typedterm.FnAppArg{{Arg: &typedterm.Ident{Name: "x", Sp: sp()}}},
		},
		Sp: sp(),
	}

	g.fieldAccess(fa)

	require.Empty(t, sink.Reports())
	// One Equals per argument position plus one for the return type.
	require.Equal(t, 2, g.cs.Len())
}

// TestFieldAccessOnModuleBoundReceiverResolvesRegistrySignature exercises
// spec.md S6: a variable already bound to Module("Conv2d", ...) resolves
// `x.forward(y)` against Conv2d.forward without ever falling back to an
// UnresolvedModuleFun.
func TestFieldAccessOnModuleBoundReceiverResolvesRegistrySignature(t *testing.T) {
	g, env, sink := newGenerator()
	env.Bind("layer", &tstypes.Module{Name: "Conv2d", Sp: sp()})

	fa := &typedterm.FieldAccess{
		VarName:   "layer",
		FieldName: "forward",
		FuncCall: &typedterm.FieldAccessCall{
			RetTy: &tstypes.VAR{Sp: sp()},
			Args:  []typedterm.FnAppArg{{Arg: &typedterm.Integer{TyAnn: tstypes.NewInt(sp()), Value: 1, Sp: sp()}}},
		},
		Sp: sp(),
	}

	g.fieldAccess(fa)

	require.Empty(t, sink.Reports())
	require.Equal(t, 2, g.cs.Len())
}

// TestFieldAccessOnUnregisteredReceiverFallsBackToUnresolvedModuleFun covers
// the case neither comment above handles: a receiver with no known module
// identity at all must still produce a deferred constraint rather than
// panicking or silently dropping the call.
func TestFieldAccessOnUnregisteredReceiverFallsBackToUnresolvedModuleFun(t *testing.T) {
	g, env, sink := newGenerator()
	env.Bind("thing", &tstypes.VAR{Sp: sp()})
	fa := &typedterm.FieldAccess{
		VarName:   "thing",
		FieldName: "mystery",
		FuncCall:  &typedterm.FieldAccessCall{RetTy: &tstypes.VAR{Sp: sp()}},
		Sp:        sp(),
	}

	g.fieldAccess(fa)

	require.Empty(t, sink.Reports())
	require.Equal(t, 1, g.cs.Len())
}

// TestPipeConstrainsFirstStageArgAgainstCarriedType exercises spec.md S2:
// `x |> relu` must resolve `relu` through the module-"" registry prelude,
// since nothing ever binds it into scope by name.
func TestPipeConstrainsFirstStageArgAgainstCarriedType(t *testing.T) {
	g, env, sink := newGenerator()
	env.Bind("x", &tstypes.VAR{Sp: sp()})

	pipe := &typedterm.Pipes{
		Items: []typedterm.Term{
			&typedterm.Ident{Name: "x", Sp: sp()},
			&typedterm.FnApp{Name: "relu", RetTy: &tstypes.VAR{Sp: sp()}, Sp: sp()},
		},
		RetTy: &tstypes.VAR{Sp: sp()},
		Sp:    sp(),
	}

	g.pipe(pipe)

	require.Empty(t, sink.Reports())
	require.Greater(t, g.cs.Len(), 0)
}

// TestPipeOnUnregisteredStageReportsUnknownIdent checks the registry
// fallback doesn't swallow genuinely unknown pipe stages.
func TestPipeOnUnregisteredStageReportsUnknownIdent(t *testing.T) {
	g, env, sink := newGenerator()
	env.Bind("x", &tstypes.VAR{Sp: sp()})

	pipe := &typedterm.Pipes{
		Items: []typedterm.Term{
			&typedterm.Ident{Name: "x", Sp: sp()},
			&typedterm.FnApp{Name: "not_a_real_fn", RetTy: &tstypes.VAR{Sp: sp()}, Sp: sp()},
		},
		RetTy: &tstypes.VAR{Sp: sp()},
		Sp:    sp(),
	}

	g.pipe(pipe)

	require.Len(t, sink.Reports(), 1)
	require.Equal(t, diag.CodeUnknownIdent, sink.Reports()[0].Code)
}

func TestFnDeclConstrainsReturnTypeAgainstBlockType(t *testing.T) {
	g, _, sink := newGenerator()
	retTy := &tstypes.VAR{Sp: sp()}
	blockTy := &tstypes.Prim{}
	fn := &typedterm.FnDecl{
		Name:     "forward",
		ReturnTy: retTy,
		FuncBlock: &typedterm.Block{
			Stmts: &typedterm.List{Sp: sp()},
			Ret:   &typedterm.Expr{Items: &typedterm.None{Sp: sp()}, TyAnn: blockTy, Sp: sp()},
			Sp:    sp(),
		},
		Sp: sp(),
	}

	g.fnDecl(fn)

	require.Empty(t, sink.Reports())
	require.Equal(t, 1, g.cs.Len())
}
