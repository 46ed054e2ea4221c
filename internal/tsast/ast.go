// Package tsast defines the surface AST that the (out-of-scope) TensorScript
// parser produces and that the elaborator (internal/elaborate) consumes.
// Nothing in this package lexes or parses source text; it only fixes the
// shape of the contract at the parser boundary (spec.md §6).
package tsast

import (
	"fmt"
	"strings"

	"github.com/tensorscript/tsc/internal/span"
)

// Node is the base interface implemented by every surface AST node.
type Node interface {
	String() string
	Position() span.Span
}

// File is a whole parsed TensorScript source file.
type File struct {
	Decls []Decl
	Span  span.Span
}

func (f *File) Position() span.Span { return f.Span }
func (f *File) String() string {
	parts := make([]string, len(f.Decls))
	for i, d := range f.Decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n")
}

// Decl is a top-level declaration: use, node, weights, or graph.
type Decl interface {
	Node
	declNode()
}

// UseStmt imports names from a module, e.g. `use nn.layers (Linear, Conv2d)`.
type UseStmt struct {
	Module  string
	Imports []string
	Span    span.Span
}

func (u *UseStmt) declNode()           {}
func (u *UseStmt) Position() span.Span { return u.Span }
func (u *UseStmt) String() string {
	if len(u.Imports) == 0 {
		return fmt.Sprintf("use %s", u.Module)
	}
	return fmt.Sprintf("use %s (%s)", u.Module, strings.Join(u.Imports, ", "))
}

// TypeSig is a function-signature type annotation written in source, e.g.
// `<?,3 -> ?,5>`. Dim entries are either a literal (Lit set, Name empty) or
// a named/unknown dimension (Name set, or both empty for `?`).
type TypeSig struct {
	Params []TensorSig `json:"params"`
	Return []TensorSig `json:"return"`
	Span   span.Span   `json:"span"`
}

// TensorSig is one tensor shape appearing in a TypeSig, an ordered list of
// dimension entries.
type TensorSig struct {
	Dims []DimSig  `json:"dims"`
	Span span.Span `json:"span"`
}

// DimSig is one dimension entry in a TensorSig.
type DimSig struct {
	Lit   int64     `json:"lit"` // set when the dimension is a literal, e.g. `32`
	IsLit bool      `json:"is_lit"`
	Name  string    `json:"name"` // set when the dimension is a named variable, e.g. `b`
	Span  span.Span `json:"span"`
}

// NodeDecl declares a typed computational node: `node Linear<?,i -> ?,o>{...}`.
type NodeDecl struct {
	Name  string
	Sig   *TypeSig
	Span  span.Span
}

func (n *NodeDecl) declNode()           {}
func (n *NodeDecl) Position() span.Span { return n.Span }
func (n *NodeDecl) String() string      { return fmt.Sprintf("node %s", n.Name) }

// WeightsAssign is one `name = Module.method(args)` line inside a weights
// block body, e.g. `w1 = Linear(in=32, out=10)`.
type WeightsAssign struct {
	Name   string
	Module string
	Method string
	Args   []FnCallArg
	Span   span.Span
}

func (w *WeightsAssign) String() string {
	return fmt.Sprintf("%s = %s.%s(...)", w.Name, w.Module, w.Method)
}
func (w *WeightsAssign) Position() span.Span { return w.Span }

// WeightsDecl declares a bundle of weight initializers.
type WeightsDecl struct {
	Name  string
	Sig   *TypeSig
	Inits []*WeightsAssign
	Span  span.Span
}

func (w *WeightsDecl) declNode()           {}
func (w *WeightsDecl) Position() span.Span { return w.Span }
func (w *WeightsDecl) String() string      { return fmt.Sprintf("weights %s", w.Name) }

// GraphDecl declares a graph composition: a named signature plus function
// definitions built from piped calls, literals, and field accesses.
type GraphDecl struct {
	Name  string
	Sig   *TypeSig
	Fns   []*FnDecl
	Span  span.Span
}

func (g *GraphDecl) declNode()           {}
func (g *GraphDecl) Position() span.Span { return g.Span }
func (g *GraphDecl) String() string      { return fmt.Sprintf("graph %s", g.Name) }

// AliasAssign is a macro-style named-constant assignment inside a decl body,
// e.g. `X = 32`, used to give a dimension literal a name reused elsewhere in
// the same declaration.
type AliasAssign struct {
	Name  string
	Value int64
	Span  span.Span
}

func (a *AliasAssign) declNode()           {}
func (a *AliasAssign) Position() span.Span { return a.Span }
func (a *AliasAssign) String() string      { return fmt.Sprintf("%s = %d", a.Name, a.Value) }

// FnDeclParam is one formal parameter of a function declaration.
type FnDeclParam struct {
	Name string
	Sig  *TensorSig // nil if the parameter has no declared shape
	Span span.Span
}

// FnDecl is a function declaration inside a graph body:
// `fn forward(x) { x |> Linear(out=5) |> relu }`.
type FnDecl struct {
	Name      string
	Params    []FnDeclParam
	ReturnSig *TensorSig // nil if no declared return type
	Block     *Block
	Span      span.Span
}

func (f *FnDecl) Position() span.Span { return f.Span }
func (f *FnDecl) String() string      { return fmt.Sprintf("fn %s(...)", f.Name) }

// Block is a sequence of statements followed by an optional trailing
// expression (its value).
type Block struct {
	Stmts []Stmt
	Ret   Expr // nil if the block has no trailing expression
	Span  span.Span
}

func (b *Block) Position() span.Span { return b.Span }
func (b *Block) String() string      { return "{ ... }" }

// Stmt is a statement inside a block body.
type Stmt interface {
	Node
	stmtNode()
}

// ExprStmt wraps an expression used as a statement (its value is discarded).
type ExprStmt struct {
	X    Expr
	Span span.Span
}

func (s *ExprStmt) stmtNode()           {}
func (s *ExprStmt) Position() span.Span { return s.Span }
func (s *ExprStmt) String() string      { return s.X.String() }

// Expr is any TensorScript expression.
type Expr interface {
	Node
	exprNode()
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
	Span  span.Span
}

func (l *IntLit) exprNode()           {}
func (l *IntLit) Position() span.Span { return l.Span }
func (l *IntLit) String() string      { return fmt.Sprintf("%d", l.Value) }

// FloatLit is a floating point literal.
type FloatLit struct {
	Value float64
	Span  span.Span
}

func (l *FloatLit) exprNode()           {}
func (l *FloatLit) Position() span.Span { return l.Span }
func (l *FloatLit) String() string      { return fmt.Sprintf("%g", l.Value) }

// Ident is a bare identifier reference.
type Ident struct {
	Name string
	Span span.Span
}

func (i *Ident) exprNode()           {}
func (i *Ident) Position() span.Span { return i.Span }
func (i *Ident) String() string      { return i.Name }

// FnCallArg is one actual argument to a function call. Name is empty for a
// positional argument.
type FnCallArg struct {
	Name string
	Arg  Expr
	Span span.Span
}

// FnCall is a function application with named or positional arguments:
// `Linear(out=5)`, `view(x, shape=(32, -1))`.
type FnCall struct {
	Name string
	Args []FnCallArg
	Span span.Span
}

func (c *FnCall) exprNode()           {}
func (c *FnCall) Position() span.Span { return c.Span }
func (c *FnCall) String() string      { return fmt.Sprintf("%s(...)", c.Name) }

// FieldAccessCall is `x.m(args)` — a field access that is also called. Used
// for module-method calls whose signature depends on x's module, e.g.
// `layer.forward(x)`.
type FieldAccessCall struct {
	Recv   Expr
	Field  string
	Args   []FnCallArg // actual arguments; nil for a call with no arguments
	HasCall bool       // true when the field is called; false for plain access
	Span   span.Span
}

func (f *FieldAccessCall) exprNode()           {}
func (f *FieldAccessCall) Position() span.Span { return f.Span }
func (f *FieldAccessCall) String() string {
	if f.HasCall {
		return fmt.Sprintf("%s.%s(...)", f.Recv, f.Field)
	}
	return fmt.Sprintf("%s.%s", f.Recv, f.Field)
}

// PipeExpr is a left-to-right pipe chain `x |> f |> g(k=v)`. The elaborator
// does not desugar it into nested FnApp applications: it keeps the stage list
// as a typedterm.Pipes, and the constraint generator passes each stage's
// incoming value to that stage's call as its first argument.
type PipeExpr struct {
	Stages []Expr // Stages[0] is the piped-in value; each later stage is a call
	Span   span.Span
}

func (p *PipeExpr) exprNode()           {}
func (p *PipeExpr) Position() span.Span { return p.Span }
func (p *PipeExpr) String() string {
	parts := make([]string, len(p.Stages))
	for i, s := range p.Stages {
		parts[i] = s.String()
	}
	return strings.Join(parts, " |> ")
}

// TupleExpr is a tuple literal `(a, b, c)`.
type TupleExpr struct {
	Elems []Expr
	Span  span.Span
}

func (t *TupleExpr) exprNode()           {}
func (t *TupleExpr) Position() span.Span { return t.Span }
func (t *TupleExpr) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
