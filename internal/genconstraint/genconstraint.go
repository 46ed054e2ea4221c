// Package genconstraint implements spec.md §4.2's constraint generator: a
// post-order walk of the typedterm tree that emits `Equals` constraints
// relating every call's actual argument types to its resolved signature's
// formal parameter types, and every call's own type variable to the
// signature's return type.
package genconstraint

import (
	"fmt"

	"github.com/tensorscript/tsc/internal/constraint"
	"github.com/tensorscript/tsc/internal/diag"
	"github.com/tensorscript/tsc/internal/span"
	"github.com/tensorscript/tsc/internal/tsenv"
	"github.com/tensorscript/tsc/internal/tstypes"
	"github.com/tensorscript/tsc/internal/typedterm"
)

// Generator walks a typedterm tree emitting constraints into a Set.
type Generator struct {
	env *tsenv.TypeEnv
	cs  *constraint.Set
	em  diag.Emitter
}

// New returns a Generator writing into cs and reporting unknown identifiers
// through em.
func New(env *tsenv.TypeEnv, cs *constraint.Set, em diag.Emitter) *Generator {
	return &Generator{env: env, cs: cs, em: em}
}

// Program walks every declaration in p.
func (g *Generator) Program(p *typedterm.Program) {
	for _, d := range p.Decls {
		g.decl(d)
	}
}

func (g *Generator) decl(d typedterm.Decl) {
	switch x := d.(type) {
	case *typedterm.WeightsDecl:
		for _, init := range x.Inits {
			g.weightsAssign(init)
		}
	case *typedterm.GraphDecl:
		for _, fn := range x.Fns {
			g.fnDecl(fn)
		}
	case *typedterm.NodeDecl, *typedterm.UseStmt, *typedterm.AliasAssign:
		// No call sites to constrain.
	default:
		panic("genconstraint: unknown typedterm.Decl variant")
	}
}

// weightsAssign constrains each initializer's actual args against its
// resolved (or still-unresolved) module-method signature, the same rule a
// direct call uses (spec.md §4.1's weights-initializer elaboration reuses
// the function-application rule). w.Ty is the Module instance the bound name
// resolves to afterwards, not the constructor call's own result, so the
// constructor's return position gets its own fresh variable here.
func (g *Generator) weightsAssign(w *typedterm.WeightsAssign) {
	argTys := make([]tstypes.Type, len(w.ResolvedArgs))
	for i, a := range w.ResolvedArgs {
		g.term(a.Arg)
		argTys[i] = g.termType(a.Arg)
	}
	g.constrainCall(w.FnTy, argTys, g.env.FreshVar(w.Sp), w.Sp)
}

func (g *Generator) fnDecl(f *typedterm.FnDecl) {
	g.env.PushScope()
	defer g.env.PopScope()
	for _, p := range f.FnParams {
		g.env.Bind(p.Name, p.TySig)
	}
	g.term(f.FuncBlock)
	g.cs.Add(constraint.Equals{A: f.ReturnTy, B: f.FuncBlock.Ty()})
}

// term walks any Term, emitting constraints for the calls it contains.
func (g *Generator) term(t typedterm.Term) {
	switch x := t.(type) {
	case *typedterm.Integer, *typedterm.Float, *typedterm.Ident, *typedterm.None:
		// Leaves: nothing to relate.
	case *typedterm.FnApp:
		g.fnApp(x)
	case *typedterm.FieldAccess:
		g.fieldAccess(x)
	case *typedterm.Block:
		g.term(x.Stmts)
		g.term(x.Ret)
	case *typedterm.Stmt:
		g.term(x.Items)
	case *typedterm.List:
		for _, item := range x.Items {
			g.term(item)
		}
	case *typedterm.Tuple:
		for _, el := range x.Elems {
			g.term(el)
		}
	case *typedterm.Expr:
		g.term(x.Items)
	case *typedterm.Pipes:
		g.pipe(x)
	default:
		panic(fmt.Sprintf("genconstraint: unknown typedterm.Term variant %T", t))
	}
}

// fnApp constrains a direct call `f(args...)`: f must resolve either to a
// scope-bound value or to one of the module-""-registered builtins (relu,
// add, zeros, ...) that no scope ever binds by name (UnknownIdent when
// neither resolves), each actual argument's type must equal the matching
// formal parameter's type, and the call's own RetTy must equal the
// signature's return type.
func (g *Generator) fnApp(f *typedterm.FnApp) {
	for _, a := range f.Args {
		g.term(a.Arg)
	}
	fnTy, ok := g.env.Lookup(f.Name)
	if !ok {
		sig, ok := g.env.ResolveModuleFun("", f.Name)
		if !ok {
			g.em.Add(diag.New(diag.CodeUnknownIdent, tsenv.UnboundIdentError(f.Name), f.Sp))
			return
		}
		fnTy = sig
	}
	argTys := make([]tstypes.Type, len(f.Args))
	for i, a := range f.Args {
		argTys[i] = g.termType(a.Arg)
	}
	g.constrainCall(fnTy, argTys, f.RetTy, f.Sp)
}

// fieldAccess constrains a method call `recv.field(args...)`. The receiver's
// module is read off its bound Module type, or, when recv is not bound to
// anything at all, off recv's own name read as a bare module reference
// (`Linear.forward(x)`, spec.md S1); constrainCall then unifies the call
// site's actual shapes against either the registry's resolved signature or,
// failing that, a fresh UnresolvedModuleFun for a later pass to bind.
func (g *Generator) fieldAccess(fa *typedterm.FieldAccess) {
	if fa.FuncCall == nil {
		return
	}
	for _, a := range fa.FuncCall.Args {
		g.term(a.Arg)
	}
	argTys := make([]tstypes.Type, len(fa.FuncCall.Args))
	for i, a := range fa.FuncCall.Args {
		argTys[i] = g.termType(a.Arg)
	}

	module := ""
	if recvTy, ok := g.env.Lookup(fa.VarName); ok {
		if mod, isMod := recvTy.(*tstypes.Module); isMod {
			module = mod.Name
		}
	} else {
		module = fa.VarName
	}

	var calleeTy tstypes.Type
	if sig, ok := g.env.ResolveModuleFun(module, fa.FieldName); ok {
		calleeTy = sig
	} else {
		calleeTy = g.env.FreshUnresolvedModuleFun(module, fa.FieldName, nil, fa.Sp)
	}
	g.constrainCall(calleeTy, argTys, fa.FuncCall.RetTy, fa.Sp)
}

// termType returns t's type as used at a call site. An Ident's own Ty() is
// always Unit (spec.md's identifier rule defers to the use site), so an
// Ident operand's real type comes from the environment instead.
func (g *Generator) termType(t typedterm.Term) tstypes.Type {
	if id, ok := t.(*typedterm.Ident); ok {
		if ty, ok := g.env.Lookup(id.Name); ok {
			return ty
		}
	}
	return t.Ty()
}

// pipe constrains a left-to-right chain `a |> f |> g`: each call stage's
// first positional parameter is equal to the previous stage's type, and the
// chain's own RetTy equals the last stage's type (SPEC_FULL.md §C.7).
func (g *Generator) pipe(p *typedterm.Pipes) {
	if len(p.Items) == 0 {
		return
	}
	g.term(p.Items[0])
	carried := g.termType(p.Items[0])
	for _, stage := range p.Items[1:] {
		g.constrainPipeStage(stage, carried)
		carried = g.termType(stage)
	}
	g.cs.Add(constraint.Equals{A: p.RetTy, B: carried})
}

func (g *Generator) constrainPipeStage(stage typedterm.Term, carried tstypes.Type) {
	implicit := typedterm.FnAppArg{Arg: &typedterm.Expr{Items: &typedterm.None{Sp: stage.Span()}, TyAnn: carried, Sp: stage.Span()}}
	switch x := stage.(type) {
	case *typedterm.FnApp:
		args := append([]typedterm.FnAppArg{implicit}, x.Args...)
		g.fnApp(&typedterm.FnApp{Name: x.Name, Args: args, RetTy: x.RetTy, Sp: x.Sp})
	case *typedterm.FieldAccess:
		if x.FuncCall != nil && len(x.FuncCall.Args) == 0 {
			// Allow `x |> layer.forward` with no explicit args: carried value
			// is the implicit sole argument.
			call := &typedterm.FieldAccessCall{RetTy: x.FuncCall.RetTy, Args: []typedterm.FnAppArg{implicit}}
			g.fieldAccess(&typedterm.FieldAccess{VarName: x.VarName, FieldName: x.FieldName, FuncCall: call, Sp: x.Sp})
			return
		}
		g.term(x)
	default:
		g.term(stage)
	}
}

// constrainCall is shared by weightsAssign and fnApp: given a signature
// (possibly still an UnresolvedModuleFun), equate it to the expected shape
// built from the call site's actual argument and return types.
func (g *Generator) constrainCall(fnTy tstypes.Type, argTys []tstypes.Type, retTy tstypes.Type, sp span.Span) {
	switch fn := fnTy.(type) {
	case *tstypes.FUN:
		n := fn.Param.Args
		for i, argTy := range argTys {
			if i < len(n) {
				g.cs.Add(constraint.Equals{A: argTy, B: n[i].Ty})
			}
		}
		if len(argTys) != len(n) {
			g.em.Add(diag.New(diag.CodeArityMismatch,
				fmt.Sprintf("expected %d argument(s), got %d", len(n), len(argTys)), sp))
		}
		g.cs.Add(constraint.Equals{A: retTy, B: fn.Ret})
	case *tstypes.UnresolvedModuleFun:
		expected := &tstypes.FUN{
			Name:  fn.Method,
			Param: &tstypes.FnArgs{Args: asFnArgs(argTys), Sp: sp},
			Ret:   retTy,
			Sp:    sp,
		}
		g.cs.Add(constraint.Equals{A: fn, B: expected})
	default:
		g.cs.Add(constraint.Equals{A: retTy, B: fnTy})
	}
}

func asFnArgs(tys []tstypes.Type) []tstypes.FnArg {
	out := make([]tstypes.FnArg, len(tys))
	for i, t := range tys {
		out[i] = tstypes.FnArg{Ty: t}
	}
	return out
}
