package elaborate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tensorscript/tsc/internal/modreg"
	"github.com/tensorscript/tsc/internal/span"
	"github.com/tensorscript/tsc/internal/tsast"
	"github.com/tensorscript/tsc/internal/tsenv"
	"github.com/tensorscript/tsc/internal/tstypes"
	"github.com/tensorscript/tsc/internal/typedterm"
)

func sp() span.Span { return span.FreshSynthetic() }

func newEnv() *tsenv.TypeEnv { return tsenv.New(modreg.NewWithPrelude()) }

func TestNodeDeclBindsSignatureInEnv(t *testing.T) {
	env := newEnv()
	e := New(env)
	n := &tsast.NodeDecl{Name: "Linear", Sig: nil, Span: sp()}

	decl := e.decl(n)

	nodeDecl, ok := decl.(*typedterm.NodeDecl)
	require.True(t, ok)
	require.Equal(t, "Linear", nodeDecl.Name)

	bound, ok := env.Lookup("Linear")
	require.True(t, ok)
	require.Equal(t, nodeDecl.TySig, bound)
}

func TestFnDeclParamsGetFreshVarsWhenUnannotated(t *testing.T) {
	env := newEnv()
	e := New(env)
	fn := &tsast.FnDecl{
		Name:   "forward",
		Params: []tsast.FnDeclParam{{Name: "x", Span: sp()}},
		Block: &tsast.Block{
			Ret:  &tsast.Ident{Name: "x", Span: sp()},
			Span: sp(),
		},
		Span: sp(),
	}

	typed := e.fnDecl(fn)

	require.Len(t, typed.FnParams, 1)
	_, isVar := typed.FnParams[0].TySig.(*tstypes.VAR)
	require.True(t, isVar, "unannotated parameter should get a fresh VAR")
}

func TestIntLitElaboratesToIntPrim(t *testing.T) {
	env := newEnv()
	e := New(env)
	term := e.expr(&tsast.IntLit{Value: 3, Span: sp()})

	integer, ok := term.(*typedterm.Integer)
	require.True(t, ok)
	require.Equal(t, int64(3), integer.Value)
	_, isPrim := integer.Ty().(*tstypes.Prim)
	require.True(t, isPrim)
}

func TestWeightsAssignLeavesUnresolvedModuleFunForUnknownModule(t *testing.T) {
	env := newEnv()
	e := New(env)
	w := &tsast.WeightsAssign{Name: "w1", Module: "NotARealModule", Method: "forward", Span: sp()}

	typed := e.weightsAssign(w)

	_, isUMF := typed.FnTy.(*tstypes.UnresolvedModuleFun)
	require.True(t, isUMF)

	bound, ok := env.Lookup("w1")
	require.True(t, ok)
	mod, isMod := bound.(*tstypes.Module)
	require.True(t, isMod)
	require.Equal(t, "NotARealModule", mod.Name)
}

func TestWeightsAssignResolvesKnownModuleEagerly(t *testing.T) {
	env := newEnv()
	e := New(env)
	w := &tsast.WeightsAssign{Name: "layer", Module: "Linear", Method: "forward", Span: sp()}

	typed := e.weightsAssign(w)

	_, isFun := typed.FnTy.(*tstypes.FUN)
	require.True(t, isFun, "a registered module method should resolve eagerly rather than stay unresolved")
}

func TestPipeElaboratesEveryStage(t *testing.T) {
	env := newEnv()
	e := New(env)
	pipeExpr := &tsast.PipeExpr{
		Stages: []tsast.Expr{
			&tsast.Ident{Name: "x", Span: sp()},
			&tsast.FnCall{Name: "relu", Span: sp()},
		},
		Span: sp(),
	}

	term := e.expr(pipeExpr)

	pipes, ok := term.(*typedterm.Pipes)
	require.True(t, ok)
	require.Len(t, pipes.Items, 2)
}

func TestGraphDeclScopesParamsToItsOwnFunctions(t *testing.T) {
	env := newEnv()
	e := New(env)
	g := &tsast.GraphDecl{
		Name: "Net",
		Fns: []*tsast.FnDecl{{
			Name:   "forward",
			Params: []tsast.FnDeclParam{{Name: "x", Span: sp()}},
			Block: &tsast.Block{
				Ret:  &tsast.Ident{Name: "x", Span: sp()},
				Span: sp(),
			},
			Span: sp(),
		}},
		Span: sp(),
	}

	e.graphDecl(g)

	_, leaked := env.Lookup("x")
	require.False(t, leaked, "fn params must not leak past the graph's scope")
}
