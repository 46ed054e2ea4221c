// Package subst implements spec.md §4.4: pushing a solved tstypes.
// Substitution back through a typedterm tree, replacing every type position
// with its resolved type. It is grounded on the original's `subs`/
// `subs_decl`/`subs_fn_app` family: one case per typedterm variant,
// recursing into children and calling tstypes.Apply at every type-carrying
// field.
package subst

import (
	"github.com/tensorscript/tsc/internal/tstypes"
	"github.com/tensorscript/tsc/internal/typedterm"
)

// Program applies s to every declaration in p, returning a new Program.
func Program(s tstypes.Substitution, p *typedterm.Program) *typedterm.Program {
	decls := make([]typedterm.Decl, len(p.Decls))
	for i, d := range p.Decls {
		decls[i] = decl(s, d)
	}
	return &typedterm.Program{Decls: decls, Sp: p.Sp}
}

func decl(s tstypes.Substitution, d typedterm.Decl) typedterm.Decl {
	switch x := d.(type) {
	case *typedterm.UseStmt:
		return x
	case *typedterm.NodeDecl:
		return &typedterm.NodeDecl{Name: x.Name, TySig: tstypes.Apply(s, x.TySig), Sp: x.Sp}
	case *typedterm.AliasAssign:
		return x
	case *typedterm.WeightsDecl:
		inits := make([]*typedterm.WeightsAssign, len(x.Inits))
		for i, init := range x.Inits {
			inits[i] = weightsAssign(s, init)
		}
		return &typedterm.WeightsDecl{Name: x.Name, TySig: tstypes.Apply(s, x.TySig), Inits: inits, Sp: x.Sp}
	case *typedterm.GraphDecl:
		fns := make([]*typedterm.FnDecl, len(x.Fns))
		for i, f := range x.Fns {
			fns[i] = fnDecl(s, f)
		}
		return &typedterm.GraphDecl{Name: x.Name, TySig: tstypes.Apply(s, x.TySig), Fns: fns, Sp: x.Sp}
	default:
		panic("subst: unknown typedterm.Decl variant")
	}
}

func weightsAssign(s tstypes.Substitution, w *typedterm.WeightsAssign) *typedterm.WeightsAssign {
	args := make([]typedterm.FnAppArg, len(w.ResolvedArgs))
	for i, a := range w.ResolvedArgs {
		args[i] = typedterm.FnAppArg{Name: a.Name, Arg: Term(s, a.Arg)}
	}
	return &typedterm.WeightsAssign{
		Name:         w.Name,
		Ty:           tstypes.Apply(s, w.Ty),
		ModName:      w.ModName,
		FnName:       w.FnName,
		FnTy:         tstypes.Apply(s, w.FnTy),
		ResolvedArgs: args,
		Sp:           w.Sp,
	}
}

func fnDecl(s tstypes.Substitution, f *typedterm.FnDecl) *typedterm.FnDecl {
	params := make([]typedterm.FnDeclParam, len(f.FnParams))
	for i, p := range f.FnParams {
		params[i] = typedterm.FnDeclParam{Name: p.Name, TySig: tstypes.Apply(s, p.TySig)}
	}
	return &typedterm.FnDecl{
		Name:      f.Name,
		FnParams:  params,
		ReturnTy:  tstypes.Apply(s, f.ReturnTy),
		FuncBlock: Term(s, f.FuncBlock),
		Sp:        f.Sp,
	}
}

// Term applies s to every type position in t, returning a new Term.
func Term(s tstypes.Substitution, t typedterm.Term) typedterm.Term {
	switch x := t.(type) {
	case *typedterm.None:
		return x
	case *typedterm.Integer:
		return &typedterm.Integer{TyAnn: tstypes.Apply(s, x.TyAnn), Value: x.Value, Sp: x.Sp}
	case *typedterm.Float:
		return &typedterm.Float{TyAnn: tstypes.Apply(s, x.TyAnn), Value: x.Value, Sp: x.Sp}
	case *typedterm.Ident:
		return x
	case *typedterm.FnApp:
		return fnApp(s, x)
	case *typedterm.FieldAccess:
		return fieldAccess(s, x)
	case *typedterm.Block:
		return &typedterm.Block{Stmts: Term(s, x.Stmts), Ret: Term(s, x.Ret), Sp: x.Sp}
	case *typedterm.Expr:
		return &typedterm.Expr{Items: Term(s, x.Items), TyAnn: tstypes.Apply(s, x.TyAnn), Sp: x.Sp}
	case *typedterm.Stmt:
		return &typedterm.Stmt{Items: Term(s, x.Items), Sp: x.Sp}
	case *typedterm.List:
		items := make([]typedterm.Term, len(x.Items))
		for i, it := range x.Items {
			items[i] = Term(s, it)
		}
		return &typedterm.List{Items: items, Sp: x.Sp}
	case *typedterm.Tuple:
		elems := make([]typedterm.Term, len(x.Elems))
		elemTys := make([]tstypes.Type, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = Term(s, e)
			elemTys[i] = elems[i].Ty()
		}
		ty := tstypes.Apply(s, x.TyAnn).(*tstypes.Tuple)
		return &typedterm.Tuple{Elems: elems, TyAnn: ty, Sp: x.Sp}
	case *typedterm.Pipes:
		items := make([]typedterm.Term, len(x.Items))
		for i, it := range x.Items {
			items[i] = Term(s, it)
		}
		return &typedterm.Pipes{Items: items, RetTy: tstypes.Apply(s, x.RetTy), Sp: x.Sp}
	default:
		panic("subst: unknown typedterm.Term variant")
	}
}

func fnApp(s tstypes.Substitution, f *typedterm.FnApp) *typedterm.FnApp {
	args := make([]typedterm.FnAppArg, len(f.Args))
	for i, a := range f.Args {
		args[i] = typedterm.FnAppArg{Name: a.Name, Arg: Term(s, a.Arg)}
	}
	return &typedterm.FnApp{Name: f.Name, Args: args, RetTy: tstypes.Apply(s, f.RetTy), Sp: f.Sp}
}

func fieldAccess(s tstypes.Substitution, f *typedterm.FieldAccess) *typedterm.FieldAccess {
	var call *typedterm.FieldAccessCall
	if f.FuncCall != nil {
		args := make([]typedterm.FnAppArg, len(f.FuncCall.Args))
		for i, a := range f.FuncCall.Args {
			args[i] = typedterm.FnAppArg{Name: a.Name, Arg: Term(s, a.Arg)}
		}
		call = &typedterm.FieldAccessCall{RetTy: tstypes.Apply(s, f.FuncCall.RetTy), Args: args}
	}
	return &typedterm.FieldAccess{VarName: f.VarName, FieldName: f.FieldName, FuncCall: call, Sp: f.Sp}
}
