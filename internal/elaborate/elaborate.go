// Package elaborate implements spec.md §4.1: a pre-order walk of the
// surface tsast tree that produces a typedterm tree where every value
// position carries a Type — fresh variables standing in wherever the
// surface syntax leaves a type unstated. Elaboration never fails: an
// unrecognized shape still produces a term, with a fresh VAR in the type
// position an unresolved reference couldn't fill (spec.md §4.1's
// "non-failing" policy) so a single pass can surface every downstream
// diagnostic instead of aborting at the first unknown.
package elaborate

import (
	"github.com/tensorscript/tsc/internal/span"
	"github.com/tensorscript/tsc/internal/tsast"
	"github.com/tensorscript/tsc/internal/tsenv"
	"github.com/tensorscript/tsc/internal/tstypes"
	"github.com/tensorscript/tsc/internal/typedterm"
)

// Elaborator walks a tsast.File and produces a typedterm.Program, minting
// fresh type variables via env at every position the surface syntax leaves
// open.
type Elaborator struct {
	env *tsenv.TypeEnv
}

// New returns an Elaborator that mints fresh variables through env.
func New(env *tsenv.TypeEnv) *Elaborator {
	return &Elaborator{env: env}
}

// File elaborates a whole parsed source file.
func (e *Elaborator) File(f *tsast.File) *typedterm.Program {
	decls := make([]typedterm.Decl, 0, len(f.Decls))
	for _, d := range f.Decls {
		decls = append(decls, e.decl(d))
	}
	return &typedterm.Program{Decls: decls, Sp: f.Span}
}

func (e *Elaborator) decl(d tsast.Decl) typedterm.Decl {
	switch x := d.(type) {
	case *tsast.UseStmt:
		return &typedterm.UseStmt{ModName: x.Module, ImportedNames: x.Imports, Sp: x.Span}
	case *tsast.NodeDecl:
		return e.nodeDecl(x)
	case *tsast.WeightsDecl:
		return e.weightsDecl(x)
	case *tsast.GraphDecl:
		return e.graphDecl(x)
	case *tsast.AliasAssign:
		e.env.BindDimAlias(x.Name, x.Value)
		return &typedterm.AliasAssign{Name: x.Name, IsType: false, DimVal: x.Value, Sp: x.Span}
	default:
		panic("elaborate: unknown tsast.Decl variant")
	}
}

// nodeDecl elaborates `node Name<sig>`: the signature becomes a FUN type
// binding Name in scope, so later field-access calls to Name's methods can
// resolve against it.
func (e *Elaborator) nodeDecl(n *tsast.NodeDecl) *typedterm.NodeDecl {
	ty := e.typeSig(n.Name, n.Sig)
	e.env.Bind(n.Name, ty)
	return &typedterm.NodeDecl{Name: n.Name, TySig: ty, Sp: n.Span}
}

// typeSig elaborates a written `<params -> returns>` signature into a FUN,
// resolving named dims against the current alias table and minting fresh
// DIM vars for `?` positions (spec.md §4.1).
func (e *Elaborator) typeSig(name string, sig *tsast.TypeSig) tstypes.Type {
	if sig == nil {
		return e.env.FreshVar(e.env.FreshSpan())
	}
	args := make([]tstypes.FnArg, len(sig.Params))
	for i, t := range sig.Params {
		args[i] = tstypes.FnArg{Ty: e.tensorSig(t)}
	}
	var ret tstypes.Type
	if len(sig.Return) == 1 {
		ret = e.tensorSig(sig.Return[0])
	} else {
		elems := make([]tstypes.Type, len(sig.Return))
		for i, t := range sig.Return {
			elems[i] = e.tensorSig(t)
		}
		ret = &tstypes.Tuple{Elems: elems, Sp: sig.Span}
	}
	return &tstypes.FUN{
		Name:  name,
		Param: &tstypes.FnArgs{Args: args, Sp: sig.Span},
		Ret:   ret,
		Sp:    sig.Span,
	}
}

func (e *Elaborator) tensorSig(t tsast.TensorSig) tstypes.Type {
	dims := make([]tstypes.Type, len(t.Dims))
	for i, d := range t.Dims {
		dims[i] = e.dimSig(d)
	}
	return &tstypes.TSR{Dims: dims, Sp: t.Span}
}

func (e *Elaborator) dimSig(d tsast.DimSig) tstypes.Type {
	switch {
	case d.IsLit:
		return &tstypes.ResolvedDim{N: d.Lit, Sp: d.Span}
	case d.Name != "":
		if v, ok := e.env.LookupDimAlias(d.Name); ok {
			return &tstypes.ResolvedDim{N: v, Sp: d.Span}
		}
		return e.env.FreshDim(d.Span)
	default:
		return e.env.FreshDim(d.Span)
	}
}

func (e *Elaborator) weightsDecl(w *tsast.WeightsDecl) *typedterm.WeightsDecl {
	ty := e.typeSig(w.Name, w.Sig)
	inits := make([]*typedterm.WeightsAssign, len(w.Inits))
	for i, init := range w.Inits {
		inits[i] = e.weightsAssign(init)
	}
	e.env.Bind(w.Name, ty)
	return &typedterm.WeightsDecl{Name: w.Name, TySig: ty, Inits: inits, Sp: w.Span}
}

// weightsAssign elaborates `name = Module.method(args)` (spec.md §4.1): the
// module method's signature is resolved through the registry when known, or
// left as a fresh UnresolvedModuleFun marker that the fixpoint loop's later
// passes bind once more module information is available (spec.md §4.3,
// SPEC_FULL.md §C.3). The bound name's own type is a Module instance, not
// the constructor call's return value: that is what lets a later graph body
// resolve `name.forward(...)` against w.Module's registry entry (spec.md
// S6) instead of staying an UnresolvedModuleFun forever.
func (e *Elaborator) weightsAssign(w *tsast.WeightsAssign) *typedterm.WeightsAssign {
	args := make([]typedterm.FnAppArg, len(w.Args))
	for i, a := range w.Args {
		args[i] = typedterm.FnAppArg{Name: a.Name, Arg: e.expr(a.Arg)}
	}
	var fnTy tstypes.Type
	if sig, ok := e.env.ResolveModuleFun(w.Module, w.Method); ok {
		fnTy = sig
	} else {
		fnTy = e.env.FreshUnresolvedModuleFun(w.Module, w.Method, nil, w.Span)
	}
	modTy := &tstypes.Module{Name: w.Module, Sp: w.Span}
	e.env.Bind(w.Name, modTy)
	return &typedterm.WeightsAssign{
		Name:         w.Name,
		Ty:           modTy,
		ModName:      w.Module,
		FnName:       w.Method,
		FnTy:         fnTy,
		ResolvedArgs: args,
		Sp:           w.Span,
	}
}

func (e *Elaborator) graphDecl(g *tsast.GraphDecl) *typedterm.GraphDecl {
	ty := e.typeSig(g.Name, g.Sig)
	e.env.Bind(g.Name, ty)
	e.env.PushScope()
	defer e.env.PopScope()
	fns := make([]*typedterm.FnDecl, len(g.Fns))
	for i, f := range g.Fns {
		fns[i] = e.fnDecl(f)
	}
	return &typedterm.GraphDecl{Name: g.Name, TySig: ty, Fns: fns, Sp: g.Span}
}

func (e *Elaborator) fnDecl(f *tsast.FnDecl) *typedterm.FnDecl {
	e.env.PushScope()
	defer e.env.PopScope()

	params := make([]typedterm.FnDeclParam, len(f.Params))
	for i, p := range f.Params {
		var ty tstypes.Type
		if p.Sig != nil {
			ty = e.tensorSig(*p.Sig)
		} else {
			ty = e.env.FreshVar(p.Span)
		}
		e.env.Bind(p.Name, ty)
		params[i] = typedterm.FnDeclParam{Name: p.Name, TySig: ty}
	}

	var retTy tstypes.Type
	if f.ReturnSig != nil {
		retTy = e.tensorSig(*f.ReturnSig)
	} else {
		retTy = e.env.FreshVar(f.Span)
	}

	block := e.block(f.Block)
	return &typedterm.FnDecl{Name: f.Name, FnParams: params, ReturnTy: retTy, FuncBlock: block, Sp: f.Span}
}

func (e *Elaborator) block(b *tsast.Block) *typedterm.Block {
	stmts := make([]typedterm.Term, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		stmts = append(stmts, e.stmt(s))
	}
	var stmtsTerm typedterm.Term = &typedterm.List{Items: stmts, Sp: b.Span}
	var ret typedterm.Term
	if b.Ret != nil {
		ret = e.expr(b.Ret)
	} else {
		ret = &typedterm.None{Sp: b.Span}
	}
	return &typedterm.Block{Stmts: stmtsTerm, Ret: ret, Sp: b.Span}
}

func (e *Elaborator) stmt(s tsast.Stmt) typedterm.Term {
	switch x := s.(type) {
	case *tsast.ExprStmt:
		return &typedterm.Stmt{Items: e.expr(x.X), Sp: x.Span}
	default:
		panic("elaborate: unknown tsast.Stmt variant")
	}
}

func (e *Elaborator) expr(x tsast.Expr) typedterm.Term {
	switch n := x.(type) {
	case *tsast.IntLit:
		return &typedterm.Integer{TyAnn: tstypes.NewInt(n.Span), Value: n.Value, Sp: n.Span}
	case *tsast.FloatLit:
		return &typedterm.Float{TyAnn: tstypes.NewFloat(n.Span), Value: n.Value, Sp: n.Span}
	case *tsast.Ident:
		return &typedterm.Ident{Name: n.Name, Sp: n.Span}
	case *tsast.FnCall:
		return e.fnCall(n)
	case *tsast.FieldAccessCall:
		return e.fieldAccessCall(n)
	case *tsast.PipeExpr:
		return e.pipe(n)
	case *tsast.TupleExpr:
		return e.tuple(n)
	default:
		panic("elaborate: unknown tsast.Expr variant")
	}
}

func (e *Elaborator) fnCall(c *tsast.FnCall) *typedterm.FnApp {
	args := make([]typedterm.FnAppArg, len(c.Args))
	for i, a := range c.Args {
		args[i] = typedterm.FnAppArg{Name: a.Name, Arg: e.expr(a.Arg)}
	}
	return &typedterm.FnApp{
		Name:  c.Name,
		Args:  args,
		RetTy: e.env.FreshVar(c.Span),
		Sp:    c.Span,
	}
}

// fieldAccessCall elaborates `recv.field` and `recv.field(args)` (spec.md
// §4.1's field-access-call rule). When recv names a known module, either
// through a bound Module-typed variable or as a bare, unbound module
// reference, the call resolves eagerly through the registry; otherwise it is
// left as an UnresolvedModuleFun for the fixpoint loop to bind once recv's
// module becomes known.
func (e *Elaborator) fieldAccessCall(f *tsast.FieldAccessCall) *typedterm.FieldAccess {
	recvName := ""
	if id, ok := f.Recv.(*tsast.Ident); ok {
		recvName = id.Name
	}
	var call *typedterm.FieldAccessCall
	if f.HasCall {
		args := make([]typedterm.FnAppArg, len(f.Args))
		for i, a := range f.Args {
			args[i] = typedterm.FnAppArg{Name: a.Name, Arg: e.expr(a.Arg)}
		}
		retTy := e.resolveFieldCallReturn(recvName, f.Field, f.Span)
		call = &typedterm.FieldAccessCall{RetTy: retTy, Args: args}
	}
	return &typedterm.FieldAccess{VarName: recvName, FieldName: f.Field, FuncCall: call, Sp: f.Span}
}

// resolveFieldCallReturn finds the module a field-access call's receiver
// names: either the Module a bound variable was instantiated from, or, when
// recvName is not bound to anything at all, recvName itself read as a bare
// reference to a registered module (`Linear.forward(x)`, spec.md S1).
func (e *Elaborator) resolveFieldCallReturn(recvName, method string, sp span.Span) tstypes.Type {
	module := ""
	if recvTy, ok := e.env.Lookup(recvName); ok {
		if mod, ok := recvTy.(*tstypes.Module); ok {
			module = mod.Name
		}
	} else if recvName != "" {
		module = recvName
	}
	if module != "" {
		if sig, ok := e.env.ResolveModuleFun(module, method); ok {
			return sig.Ret
		}
	}
	umf := e.env.FreshUnresolvedModuleFun(module, method, nil, sp)
	return umf
}

func (e *Elaborator) pipe(p *tsast.PipeExpr) *typedterm.Pipes {
	items := make([]typedterm.Term, len(p.Stages))
	for i, s := range p.Stages {
		items[i] = e.expr(s)
	}
	return &typedterm.Pipes{Items: items, RetTy: e.env.FreshVar(p.Span), Sp: p.Span}
}

func (e *Elaborator) tuple(t *tsast.TupleExpr) *typedterm.Tuple {
	elems := make([]typedterm.Term, len(t.Elems))
	elemTys := make([]tstypes.Type, len(t.Elems))
	for i, el := range t.Elems {
		term := e.expr(el)
		elems[i] = term
		elemTys[i] = term.Ty()
	}
	return &typedterm.Tuple{Elems: elems, TyAnn: &tstypes.Tuple{Elems: elemTys, Sp: t.Span}, Sp: t.Span}
}
