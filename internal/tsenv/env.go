// Package tsenv implements TypeEnv (spec.md §3.5, §4.5): a stacked scope
// map from identifier to type, a monotone fresh-variable counter, and an
// alias table, paired with a pluggable module registry for polymorphic
// built-in signatures.
package tsenv

import (
	"fmt"

	"github.com/tensorscript/tsc/internal/span"
	"github.com/tensorscript/tsc/internal/tstypes"
)

// ModuleRegistry resolves `(module, method)` pairs to a freshly instantiated
// FUN signature (spec.md §3.5, §6's "Module registry boundary"). It is an
// interface here so internal/modreg's concrete registry (and tests' fakes)
// can both satisfy TypeEnv's dependency without an import cycle.
type ModuleRegistry interface {
	Resolve(env *TypeEnv, module, method string) (*tstypes.FUN, bool)
}

// scope is one stack frame of identifier -> type bindings.
type scope struct {
	bindings map[string]tstypes.Type
	parent   *scope
}

// TypeEnv is the scoped symbol/type environment threaded through
// elaboration, constraint generation, and diagnostics.
type TypeEnv struct {
	top      *scope
	fresh    uint64
	registry ModuleRegistry
	aliases  map[string]aliasEntry
}

type aliasEntry struct {
	isType bool
	dim    int64       // set when the alias names a dimension literal, e.g. `X = 32`
	typ    tstypes.Type // set when the alias names a type, e.g. `type N = ...`
}

// New creates a root TypeEnv backed by the given module registry.
func New(registry ModuleRegistry) *TypeEnv {
	return &TypeEnv{
		top:      &scope{bindings: make(map[string]tstypes.Type)},
		registry: registry,
		aliases:  make(map[string]aliasEntry),
	}
}

// PushScope opens a new nested scope inheriting bindings from the current
// one. Push/Pop pairs must be strictly nested (spec.md §4.5); the root scope
// is never popped.
func (e *TypeEnv) PushScope() {
	e.top = &scope{bindings: make(map[string]tstypes.Type), parent: e.top}
}

// PopScope closes the current scope and returns to its parent. Popping the
// root scope panics: it indicates a bug in the caller's push/pop nesting,
// not a recoverable TensorScript-level error.
func (e *TypeEnv) PopScope() {
	if e.top.parent == nil {
		panic("tsenv: cannot pop the root scope")
	}
	e.top = e.top.parent
}

// Bind adds name -> ty to the current (innermost) scope.
func (e *TypeEnv) Bind(name string, ty tstypes.Type) {
	e.top.bindings[name] = ty
}

// Lookup finds name's type by walking outward from the current scope.
func (e *TypeEnv) Lookup(name string) (tstypes.Type, bool) {
	for s := e.top; s != nil; s = s.parent {
		if ty, ok := s.bindings[name]; ok {
			return ty, true
		}
	}
	return nil, false
}

// FreshVar returns a new, never-before-used general type variable.
func (e *TypeEnv) FreshVar(sp span.Span) *tstypes.VAR {
	e.fresh++
	return &tstypes.VAR{ID: e.fresh, Sp: sp}
}

// FreshDim returns a new, never-before-used dimension variable.
func (e *TypeEnv) FreshDim(sp span.Span) *tstypes.DIM {
	e.fresh++
	return &tstypes.DIM{ID: e.fresh, Sp: sp}
}

// FreshUnresolvedModuleFun returns a new UnresolvedModuleFun marker for a
// field-access call site whose receiver's module is not yet known.
func (e *TypeEnv) FreshUnresolvedModuleFun(module, method string, recv tstypes.Type, sp span.Span) *tstypes.UnresolvedModuleFun {
	e.fresh++
	return &tstypes.UnresolvedModuleFun{ID: e.fresh, Module: module, Method: method, Receiver: recv, Sp: sp}
}

// FreshSpan mints an opaque span for synthesized nodes that carry no real
// surface-syntax location.
func (e *TypeEnv) FreshSpan() span.Span { return span.FreshSynthetic() }

// ResolveModuleFun asks the module registry for a fresh instantiation of
// `module.method`'s polymorphic signature. Returns false if no such method
// is registered.
func (e *TypeEnv) ResolveModuleFun(module, method string) (*tstypes.FUN, bool) {
	if e.registry == nil {
		return nil, false
	}
	return e.registry.Resolve(e, module, method)
}

// BindDimAlias records a macro-style named-constant assignment
// (`X = 32`) so later dimension-position references to X resolve to the
// same ResolvedDim.
func (e *TypeEnv) BindDimAlias(name string, value int64) {
	e.aliases[name] = aliasEntry{dim: value}
}

// BindTypeAlias records a `type N = ...` alias.
func (e *TypeEnv) BindTypeAlias(name string, ty tstypes.Type) {
	e.aliases[name] = aliasEntry{isType: true, typ: ty}
}

// LookupDimAlias returns the literal value bound to a dimension alias name.
func (e *TypeEnv) LookupDimAlias(name string) (int64, bool) {
	a, ok := e.aliases[name]
	if !ok || a.isType {
		return 0, false
	}
	return a.dim, true
}

// LookupTypeAlias returns the type bound to a type alias name.
func (e *TypeEnv) LookupTypeAlias(name string) (tstypes.Type, bool) {
	a, ok := e.aliases[name]
	if !ok || !a.isType {
		return nil, false
	}
	return a.typ, true
}

// UnboundIdentError is a convenience formatter for the UnknownIdent
// diagnostic's message (spec.md §7).
func UnboundIdentError(name string) string {
	return fmt.Sprintf("unbound identifier: %s", name)
}
