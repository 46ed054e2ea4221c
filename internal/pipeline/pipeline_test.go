package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tensorscript/tsc/internal/diag"
	"github.com/tensorscript/tsc/internal/span"
	"github.com/tensorscript/tsc/internal/tsast"
)

func sp() span.Span { return span.FreshSynthetic() }

func TestRunUnknownIdentifierReportsDiagnostic(t *testing.T) {
	file := &tsast.File{
		Span: sp(),
		Decls: []tsast.Decl{
			&tsast.GraphDecl{
				Name: "Net",
				Sig:  nil,
				Fns: []*tsast.FnDecl{{
					Name: "forward",
					Params: []tsast.FnDeclParam{{Name: "x", Span: sp()}},
					Block: &tsast.Block{
						Ret: &tsast.FnCall{Name: "not_a_real_fn", Span: sp()},
						Span: sp(),
					},
					Span: sp(),
				}},
				Span: sp(),
			},
		},
	}

	result := Run(Config{}, file)
	require.NotEmpty(t, result.Reports)
	var found bool
	for _, r := range result.Reports {
		if r.Code == diag.CodeUnknownIdent {
			found = true
		}
	}
	require.True(t, found)
}

func dimSig(lit int64) tsast.DimSig { return tsast.DimSig{Lit: lit, IsLit: true, Span: sp()} }
func wildcardDim() tsast.DimSig     { return tsast.DimSig{Span: sp()} }

func noUnknownIdent(t *testing.T, reports []*diag.Report) {
	t.Helper()
	for _, r := range reports {
		require.NotEqual(t, diag.CodeUnknownIdent, r.Code, "unexpected UnknownIdent: %s", r.Message)
	}
}

// TestRunFieldAccessOnBareModuleNameConverges exercises spec.md S1:
// `Linear.forward(x)` names the registered module directly inside a graph
// body, with x's declared shape TSR(?,3) and a declared return TSR(?,5).
func TestRunFieldAccessOnBareModuleNameConverges(t *testing.T) {
	xSig := &tsast.TensorSig{Dims: []tsast.DimSig{wildcardDim(), dimSig(3)}, Span: sp()}
	retSig := &tsast.TensorSig{Dims: []tsast.DimSig{wildcardDim(), dimSig(5)}, Span: sp()}
	file := &tsast.File{
		Span: sp(),
		Decls: []tsast.Decl{
			&tsast.GraphDecl{
				Name: "Net",
				Fns: []*tsast.FnDecl{{
					Name:      "forward",
					Params:    []tsast.FnDeclParam{{Name: "x", Sig: xSig, Span: sp()}},
					ReturnSig: retSig,
					Block: &tsast.Block{
						Ret: &tsast.FieldAccessCall{
							Recv:    &tsast.Ident{Name: "Linear", Span: sp()},
							Field:   "forward",
							HasCall: true,
							Args:    []tsast.FnCallArg{{Arg: &tsast.Ident{Name: "x", Span: sp()}}},
							Span:    sp(),
						},
						Span: sp(),
					},
					Span: sp(),
				}},
				Span: sp(),
			},
		},
	}

	result := Run(Config{}, file)
	for _, r := range result.Reports {
		require.False(t, diag.IsFatal(r.Code), "unexpected fatal diagnostic: %s", r.Message)
	}
	noUnknownIdent(t, result.Reports)
}

// TestRunWeightsBoundModuleResolvesMethodCall exercises spec.md S6: a
// weights-block name bound to Module("Conv2d", ...) resolves
// `layer.forward(x)` against the registry directly.
func TestRunWeightsBoundModuleResolvesMethodCall(t *testing.T) {
	file := &tsast.File{
		Span: sp(),
		Decls: []tsast.Decl{
			&tsast.WeightsDecl{
				Name: "W",
				Inits: []*tsast.WeightsAssign{{
					Name:   "layer",
					Module: "Conv2d",
					Method: "forward",
					Span:   sp(),
				}},
				Span: sp(),
			},
			&tsast.GraphDecl{
				Name: "Net",
				Fns: []*tsast.FnDecl{{
					Name:   "forward",
					Params: []tsast.FnDeclParam{{Name: "x", Span: sp()}},
					Block: &tsast.Block{
						Ret: &tsast.FieldAccessCall{
							Recv:    &tsast.Ident{Name: "layer", Span: sp()},
							Field:   "forward",
							HasCall: true,
							Args:    []tsast.FnCallArg{{Arg: &tsast.Ident{Name: "x", Span: sp()}}},
							Span:    sp(),
						},
						Span: sp(),
					},
					Span: sp(),
				}},
				Span: sp(),
			},
		},
	}

	result := Run(Config{}, file)
	for _, r := range result.Reports {
		require.False(t, diag.IsFatal(r.Code), "unexpected fatal diagnostic: %s", r.Message)
	}
	noUnknownIdent(t, result.Reports)
}

// TestRunPipeIntoBuiltinConverges exercises spec.md S2's `x |> relu` stage:
// relu is never bound into any scope, only resolvable through the
// module-"" registry prelude.
func TestRunPipeIntoBuiltinConverges(t *testing.T) {
	file := &tsast.File{
		Span: sp(),
		Decls: []tsast.Decl{
			&tsast.GraphDecl{
				Name: "Net",
				Fns: []*tsast.FnDecl{{
					Name:   "forward",
					Params: []tsast.FnDeclParam{{Name: "x", Span: sp()}},
					Block: &tsast.Block{
						Ret: &tsast.PipeExpr{
							Stages: []tsast.Expr{
								&tsast.Ident{Name: "x", Span: sp()},
								&tsast.FnCall{Name: "relu", Span: sp()},
							},
							Span: sp(),
						},
						Span: sp(),
					},
					Span: sp(),
				}},
				Span: sp(),
			},
		},
	}

	result := Run(Config{}, file)
	for _, r := range result.Reports {
		require.False(t, diag.IsFatal(r.Code), "unexpected fatal diagnostic: %s", r.Message)
	}
	noUnknownIdent(t, result.Reports)
}

func TestRunRespectsMaxIterationsConfig(t *testing.T) {
	file := &tsast.File{Span: sp()}
	result := Run(Config{MaxIterations: 2}, file)
	require.LessOrEqual(t, result.Iterations, 2)
}
