// Package typedterm is the typed intermediate representation spec.md §3.2
// describes: the surface tsast tree re-shaped so every term that produces a
// value carries its (still possibly unresolved) tstypes.Type, ready for
// constraint generation and, later, substitution.
package typedterm

import (
	"github.com/tensorscript/tsc/internal/span"
	"github.com/tensorscript/tsc/internal/tstypes"
)

// Term is the closed sum of typed terms, the Go idiom for a sealed variant
// (sealed interface + type-switch) mirroring tstypes.Type's own discipline.
type Term interface {
	Span() span.Span
	// Ty returns the term's type. Terms with no value (statements, Unit
	// placeholders) return tstypes.Unit, matching the original's `Typed for
	// TypedTerm` fallthrough.
	Ty() tstypes.Type
	termNode()
}

// None is the typed-term placeholder for "nothing here", used by the
// elaborator as the trailing value of a block that has no final expression.
type None struct{ Sp span.Span }

func (t *None) Span() span.Span  { return t.Sp }
func (t *None) Ty() tstypes.Type { return &tstypes.Unit{Sp: t.Sp} }
func (t *None) termNode()        {}

// Program is the root of a type-checked file: its declarations. The fully
// substituted type environment's residue is threaded separately through
// internal/pipeline.
type Program struct {
	Decls []Decl
	Sp    span.Span
}

func (t *Program) Span() span.Span  { return t.Sp }
func (t *Program) Ty() tstypes.Type { return &tstypes.Unit{Sp: t.Sp} }
func (t *Program) termNode()        {}

// Decl is the closed sum of typed top-level declarations.
type Decl interface {
	Span() span.Span
	declNode()
}

// UseStmt carries an import forward into the typed tree unchanged; imports
// do not participate in inference.
type UseStmt struct {
	ModName       string
	ImportedNames []string
	Sp            span.Span
}

func (d *UseStmt) Span() span.Span { return d.Sp }
func (d *UseStmt) declNode()       {}

// NodeDecl is a typed `node` type-signature declaration.
type NodeDecl struct {
	Name  string
	TySig tstypes.Type
	Sp    span.Span
}

func (d *NodeDecl) Span() span.Span { return d.Sp }
func (d *NodeDecl) declNode()       {}

// AliasAssign is a typed macro/type alias (`X = 32` or `type N = ...`).
type AliasAssign struct {
	Name   string
	IsType bool
	DimVal int64
	Ty     tstypes.Type // set when IsType
	Sp     span.Span
}

func (d *AliasAssign) Span() span.Span { return d.Sp }
func (d *AliasAssign) declNode()       {}

// WeightsAssign is one `name = Module.Fn(args...)` initializer inside a
// `weights` block. ModName/FnName/FnTy/ResolvedArgs are the "resolved call
// info" SPEC_FULL.md §C.6 restores after substitution, so a diagnostic or
// later codegen stage never has to re-derive which concrete module method a
// weights entry bound to.
type WeightsAssign struct {
	Name         string
	Ty           tstypes.Type
	ModName      string
	FnName       string
	FnTy         tstypes.Type
	ResolvedArgs []FnAppArg
	Sp           span.Span
}

func (d *WeightsAssign) Span() span.Span { return d.Sp }
func (d *WeightsAssign) declNode()       {}

// WeightsDecl is a typed `weights` block: a named group of WeightsAssigns.
type WeightsDecl struct {
	Name  string
	TySig tstypes.Type
	Inits []*WeightsAssign
	Sp    span.Span
}

func (d *WeightsDecl) Span() span.Span { return d.Sp }
func (d *WeightsDecl) declNode()       {}

// GraphDecl is a typed `graph` block: a named group of function
// declarations forming the computation graph.
type GraphDecl struct {
	Name  string
	TySig tstypes.Type
	Fns   []*FnDecl
	Sp    span.Span
}

func (d *GraphDecl) Span() span.Span { return d.Sp }
func (d *GraphDecl) declNode()       {}

// FnDeclParam is one typed formal parameter.
type FnDeclParam struct {
	Name  string
	TySig tstypes.Type
}

// FnDecl is a typed function declaration.
type FnDecl struct {
	Name      string
	FnParams  []FnDeclParam
	ReturnTy  tstypes.Type
	FuncBlock Term
	Sp        span.Span
}

func (d *FnDecl) Span() span.Span { return d.Sp }
func (d *FnDecl) declNode()       {}

// Integer is a typed integer literal.
type Integer struct {
	TyAnn tstypes.Type
	Value int64
	Sp    span.Span
}

func (t *Integer) Span() span.Span  { return t.Sp }
func (t *Integer) Ty() tstypes.Type { return t.TyAnn }
func (t *Integer) termNode()        {}

// Float is a typed float literal.
type Float struct {
	TyAnn tstypes.Type
	Value float64
	Sp    span.Span
}

func (t *Float) Span() span.Span  { return t.Sp }
func (t *Float) Ty() tstypes.Type { return t.TyAnn }
func (t *Float) termNode()        {}

// Ident is a typed identifier reference. The original assigns TypedIdent a
// fixed Unit type and relies on the surrounding FieldAccess/FnApp to carry
// the real type; this implementation keeps that behavior (spec.md §4.1's
// identifier rule resolves the *use site*'s type, not the Ident term
// itself).
type Ident struct {
	Name string
	Sp   span.Span
}

func (t *Ident) Span() span.Span  { return t.Sp }
func (t *Ident) Ty() tstypes.Type { return &tstypes.Unit{Sp: t.Sp} }
func (t *Ident) termNode()        {}

// FnAppArg is one typed actual argument to a function application.
type FnAppArg struct {
	Name string
	Arg  Term
}

// FnApp is a typed direct function application, e.g. `f(x, y)`.
type FnApp struct {
	Name  string
	Args  []FnAppArg
	RetTy tstypes.Type
	Sp    span.Span
}

func (t *FnApp) Span() span.Span  { return t.Sp }
func (t *FnApp) Ty() tstypes.Type { return t.RetTy }
func (t *FnApp) termNode()        {}

// FieldAccess is a typed `recv.field` or `recv.method(args...)` term.
// FuncCall is nil for plain field access; when present it carries the call's
// resolved return type and arguments (spec.md §4.1's field-access-call
// rule).
type FieldAccess struct {
	VarName   string
	FieldName string
	FuncCall  *FieldAccessCall
	Sp        span.Span
}

// FieldAccessCall is the resolved call portion of a FieldAccess.
type FieldAccessCall struct {
	RetTy tstypes.Type
	Args  []FnAppArg
}

func (t *FieldAccess) Span() span.Span { return t.Sp }
func (t *FieldAccess) Ty() tstypes.Type {
	if t.FuncCall == nil {
		return &tstypes.Unit{Sp: t.Sp}
	}
	return t.FuncCall.RetTy
}
func (t *FieldAccess) termNode() {}

// Block is a typed `{ stmts...; ret }` block; its type is its final
// expression's type.
type Block struct {
	Stmts Term
	Ret   Term
	Sp    span.Span
}

func (t *Block) Span() span.Span  { return t.Sp }
func (t *Block) Ty() tstypes.Type { return t.Ret.Ty() }
func (t *Block) termNode()        {}

// Expr wraps a term with an explicit type annotation, used where
// elaboration produces a type independently of the wrapped term.
type Expr struct {
	Items Term
	TyAnn tstypes.Type
	Sp    span.Span
}

func (t *Expr) Span() span.Span  { return t.Sp }
func (t *Expr) Ty() tstypes.Type { return t.TyAnn }
func (t *Expr) termNode()        {}

// Stmt wraps a term evaluated for effect; its type is always Unit.
type Stmt struct {
	Items Term
	Sp    span.Span
}

func (t *Stmt) Span() span.Span  { return t.Sp }
func (t *Stmt) Ty() tstypes.Type { return &tstypes.Unit{Sp: t.Sp} }
func (t *Stmt) termNode()        {}

// Tuple is a typed tuple construction.
type Tuple struct {
	Elems []Term
	TyAnn *tstypes.Tuple
	Sp    span.Span
}

func (t *Tuple) Span() span.Span  { return t.Sp }
func (t *Tuple) Ty() tstypes.Type { return t.TyAnn }
func (t *Tuple) termNode()        {}

// List is a typed list literal. TensorScript's prelude has no generic list
// type in spec.md's core, so this carries Unit like the original's
// TypedList; the elaborator uses it to hold a block's statements.
type List struct {
	Items []Term
	Sp    span.Span
}

func (t *List) Span() span.Span  { return t.Sp }
func (t *List) Ty() tstypes.Type { return &tstypes.Unit{Sp: t.Sp} }
func (t *List) termNode()        {}

// Pipes is a typed pipe chain `a |> f |> g` (SPEC_FULL.md §C.7): a
// dedicated variant rather than folding pipes into nested FnApps, so a
// diagnostic inside a pipe stage can still report which stage failed
// without reconstructing the chain from nested call terms.
type Pipes struct {
	Items []Term
	RetTy tstypes.Type
	Sp    span.Span
}

func (t *Pipes) Span() span.Span  { return t.Sp }
func (t *Pipes) Ty() tstypes.Type { return t.RetTy }
func (t *Pipes) termNode()        {}
