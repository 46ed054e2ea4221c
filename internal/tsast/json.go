package tsast

import (
	"encoding/json"
	"fmt"

	"github.com/tensorscript/tsc/internal/span"
)

// This file defines the JSON wire format a File is read from. The
// TensorScript lexer/parser are out of scope (spec.md §6); what they must
// hand the elaborator — a tsast.File — still needs a concrete transport so
// cmd/tscheck has something to read, so JSON, tagged by a "kind" field per
// node, is that contract's concrete realization.

// DecodeFile parses data as a JSON-encoded File.
func DecodeFile(data []byte) (*File, error) {
	var raw struct {
		Decls []json.RawMessage `json:"decls"`
		Span  span.Span         `json:"span"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("tsast: decode file: %w", err)
	}
	decls := make([]Decl, len(raw.Decls))
	for i, d := range raw.Decls {
		decl, err := decodeDecl(d)
		if err != nil {
			return nil, fmt.Errorf("tsast: decl %d: %w", i, err)
		}
		decls[i] = decl
	}
	return &File{Decls: decls, Span: raw.Span}, nil
}

func kindOf(data json.RawMessage) (string, error) {
	var k struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &k); err != nil {
		return "", err
	}
	if k.Kind == "" {
		return "", fmt.Errorf("tsast: node missing \"kind\" field")
	}
	return k.Kind, nil
}

// DecodeDecl parses data as a single JSON-encoded top-level declaration,
// for callers (like the REPL) that accept one declaration at a time rather
// than a whole File.
func DecodeDecl(data []byte) (Decl, error) {
	return decodeDecl(json.RawMessage(data))
}

func decodeDecl(data json.RawMessage) (Decl, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "use":
		var d struct {
			Module  string    `json:"module"`
			Imports []string  `json:"imports"`
			Span    span.Span `json:"span"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		return &UseStmt{Module: d.Module, Imports: d.Imports, Span: d.Span}, nil
	case "node":
		var d struct {
			Name string    `json:"name"`
			Sig  *TypeSig  `json:"sig"`
			Span span.Span `json:"span"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		return &NodeDecl{Name: d.Name, Sig: d.Sig, Span: d.Span}, nil
	case "alias":
		var d struct {
			Name  string    `json:"name"`
			Value int64     `json:"value"`
			Span  span.Span `json:"span"`
		}
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, err
		}
		return &AliasAssign{Name: d.Name, Value: d.Value, Span: d.Span}, nil
	case "weights":
		return decodeWeightsDecl(data)
	case "graph":
		return decodeGraphDecl(data)
	default:
		return nil, fmt.Errorf("tsast: unknown decl kind %q", kind)
	}
}

func decodeWeightsDecl(data json.RawMessage) (*WeightsDecl, error) {
	var d struct {
		Name  string            `json:"name"`
		Sig   *TypeSig          `json:"sig"`
		Inits []json.RawMessage `json:"inits"`
		Span  span.Span         `json:"span"`
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	inits := make([]*WeightsAssign, len(d.Inits))
	for i, raw := range d.Inits {
		var w struct {
			Name   string        `json:"name"`
			Module string        `json:"module"`
			Method string        `json:"method"`
			Args   []jsonFnArg   `json:"args"`
			Span   span.Span     `json:"span"`
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, fmt.Errorf("weights init %d: %w", i, err)
		}
		args, err := decodeFnArgs(w.Args)
		if err != nil {
			return nil, err
		}
		inits[i] = &WeightsAssign{Name: w.Name, Module: w.Module, Method: w.Method, Args: args, Span: w.Span}
	}
	return &WeightsDecl{Name: d.Name, Sig: d.Sig, Inits: inits, Span: d.Span}, nil
}

func decodeGraphDecl(data json.RawMessage) (*GraphDecl, error) {
	var d struct {
		Name string            `json:"name"`
		Sig  *TypeSig          `json:"sig"`
		Fns  []json.RawMessage `json:"fns"`
		Span span.Span         `json:"span"`
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	fns := make([]*FnDecl, len(d.Fns))
	for i, raw := range d.Fns {
		fn, err := decodeFnDecl(raw)
		if err != nil {
			return nil, fmt.Errorf("fn %d: %w", i, err)
		}
		fns[i] = fn
	}
	return &GraphDecl{Name: d.Name, Sig: d.Sig, Fns: fns, Span: d.Span}, nil
}

func decodeFnDecl(data json.RawMessage) (*FnDecl, error) {
	var d struct {
		Name   string `json:"name"`
		Params []struct {
			Name string     `json:"name"`
			Sig  *TensorSig `json:"sig"`
			Span span.Span  `json:"span"`
		} `json:"params"`
		ReturnSig *TensorSig      `json:"return_sig"`
		Block     json.RawMessage `json:"block"`
		Span      span.Span       `json:"span"`
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	params := make([]FnDeclParam, len(d.Params))
	for i, p := range d.Params {
		params[i] = FnDeclParam{Name: p.Name, Sig: p.Sig, Span: p.Span}
	}
	block, err := decodeBlock(d.Block)
	if err != nil {
		return nil, err
	}
	return &FnDecl{Name: d.Name, Params: params, ReturnSig: d.ReturnSig, Block: block, Span: d.Span}, nil
}

func decodeBlock(data json.RawMessage) (*Block, error) {
	var d struct {
		Stmts []json.RawMessage `json:"stmts"`
		Ret   json.RawMessage   `json:"ret"`
		Span  span.Span         `json:"span"`
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	stmts := make([]Stmt, len(d.Stmts))
	for i, raw := range d.Stmts {
		var s struct {
			X    json.RawMessage `json:"x"`
			Span span.Span       `json:"span"`
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		x, err := decodeExpr(s.X)
		if err != nil {
			return nil, err
		}
		stmts[i] = &ExprStmt{X: x, Span: s.Span}
	}
	var ret Expr
	if len(d.Ret) > 0 {
		e, err := decodeExpr(d.Ret)
		if err != nil {
			return nil, err
		}
		ret = e
	}
	return &Block{Stmts: stmts, Ret: ret, Span: d.Span}, nil
}

type jsonFnArg struct {
	Name string          `json:"name"`
	Arg  json.RawMessage `json:"arg"`
	Span span.Span       `json:"span"`
}

func decodeFnArgs(raw []jsonFnArg) ([]FnCallArg, error) {
	args := make([]FnCallArg, len(raw))
	for i, a := range raw {
		e, err := decodeExpr(a.Arg)
		if err != nil {
			return nil, err
		}
		args[i] = FnCallArg{Name: a.Name, Arg: e, Span: a.Span}
	}
	return args, nil
}

func decodeExpr(data json.RawMessage) (Expr, error) {
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "int":
		var e struct {
			Value int64     `json:"value"`
			Span  span.Span `json:"span"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &IntLit{Value: e.Value, Span: e.Span}, nil
	case "float":
		var e struct {
			Value float64   `json:"value"`
			Span  span.Span `json:"span"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &FloatLit{Value: e.Value, Span: e.Span}, nil
	case "ident":
		var e struct {
			Name string    `json:"name"`
			Span span.Span `json:"span"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &Ident{Name: e.Name, Span: e.Span}, nil
	case "call":
		var e struct {
			Name string      `json:"name"`
			Args []jsonFnArg `json:"args"`
			Span span.Span   `json:"span"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		args, err := decodeFnArgs(e.Args)
		if err != nil {
			return nil, err
		}
		return &FnCall{Name: e.Name, Args: args, Span: e.Span}, nil
	case "field_call":
		var e struct {
			Recv    json.RawMessage `json:"recv"`
			Field   string          `json:"field"`
			Args    []jsonFnArg     `json:"args"`
			HasCall bool            `json:"has_call"`
			Span    span.Span       `json:"span"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		recv, err := decodeExpr(e.Recv)
		if err != nil {
			return nil, err
		}
		args, err := decodeFnArgs(e.Args)
		if err != nil {
			return nil, err
		}
		return &FieldAccessCall{Recv: recv, Field: e.Field, Args: args, HasCall: e.HasCall, Span: e.Span}, nil
	case "pipe":
		var e struct {
			Stages []json.RawMessage `json:"stages"`
			Span   span.Span         `json:"span"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		stages := make([]Expr, len(e.Stages))
		for i, raw := range e.Stages {
			s, err := decodeExpr(raw)
			if err != nil {
				return nil, err
			}
			stages[i] = s
		}
		return &PipeExpr{Stages: stages, Span: e.Span}, nil
	case "tuple":
		var e struct {
			Elems []json.RawMessage `json:"elems"`
			Span  span.Span         `json:"span"`
		}
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		elems := make([]Expr, len(e.Elems))
		for i, raw := range e.Elems {
			el, err := decodeExpr(raw)
			if err != nil {
				return nil, err
			}
			elems[i] = el
		}
		return &TupleExpr{Elems: elems, Span: e.Span}, nil
	default:
		return nil, fmt.Errorf("tsast: unknown expr kind %q", kind)
	}
}
