package modreg

import (
	"github.com/tensorscript/tsc/internal/tsenv"
	"github.com/tensorscript/tsc/internal/tstypes"
)

// registerPrelude installs spec.md §4.5's built-in module/function table.
// Every builder below only touches env.FreshVar/FreshDim, so two call sites
// resolving the same method never share a variable — each Resolve is a
// fresh instantiation, which is what makes e.g. two independent `relu(x)`
// calls in the same program type-check against different tensor shapes.
func registerPrelude(r *Registry) {
	registerElementwise(r)
	registerActivations(r)
	registerTensorConstructors(r)
	r.Register("", "view", buildView)
	r.Register("Conv2d", "forward", buildConv2dForward)
	r.Register("Linear", "forward", buildLinearForward)
	r.Register("MSELoss", "forward", buildMSELossForward)
	registerOptimizers(r)
}

// shapePreservingUnary is shared by every elementwise/activation builtin: a
// single fresh variable stands for "whatever shape the caller passes",
// reused for both the parameter and the return so unification forces them
// equal without committing to a rank.
func shapePreservingUnary(module, name string) Builder {
	return func(env *tsenv.TypeEnv) *tstypes.FUN {
		v := env.FreshVar(env.FreshSpan())
		return fn(module, name, []tstypes.FnArg{arg("x", v)}, v)
	}
}

func shapePreservingBinary(module, name string) Builder {
	return func(env *tsenv.TypeEnv) *tstypes.FUN {
		v := env.FreshVar(env.FreshSpan())
		return fn(module, name, []tstypes.FnArg{arg("a", v), arg("b", v)}, v)
	}
}

func registerElementwise(r *Registry) {
	for _, name := range []string{"add", "sub", "mul", "div"} {
		r.Register("", name, shapePreservingBinary("", name))
	}
}

func registerActivations(r *Registry) {
	for _, name := range []string{"relu", "sigmoid", "tanh", "softmax"} {
		r.Register("", name, shapePreservingUnary("", name))
	}
}

// registerTensorConstructors wires zeros/ones/randn: (INT, INT) -> TSR of
// two fresh dimension variables. Integer-literal arguments elaborate to INT,
// so the returned tensor's dims are not tied to the argument values.
func registerTensorConstructors(r *Registry) {
	build := func(module, name string) Builder {
		return func(env *tsenv.TypeEnv) *tstypes.FUN {
			sp := env.FreshSpan()
			d0, d1 := env.FreshDim(sp), env.FreshDim(sp)
			ret := &tstypes.TSR{Dims: []tstypes.Type{d0, d1}, Sp: sp}
			return fn(module, name, []tstypes.FnArg{
				arg("rows", tstypes.NewInt(sp)),
				arg("cols", tstypes.NewInt(sp)),
			}, ret)
		}
	}
	for _, name := range []string{"zeros", "ones", "randn"} {
		r.Register("", name, build("", name))
	}
}

// buildView gives `view` an input tensor of unconstrained shape and an
// output tensor of a different, equally unconstrained shape. The signature
// takes only `x`, so nothing in it relates the output shape to the input,
// and a call passing a target shape as a second argument reports an
// arity mismatch.
func buildView(env *tsenv.TypeEnv) *tstypes.FUN {
	in := env.FreshVar(env.FreshSpan())
	out := env.FreshVar(env.FreshSpan())
	return fn("", "view", []tstypes.FnArg{arg("x", in)}, out)
}

// buildConv2dForward: TSR<batch,cin,h,w> -> TSR<batch,cout,hout,wout>. Every
// call site gets this fully polymorphic signature; the arguments of a
// weights initializer do not narrow its channel or spatial dims.
func buildConv2dForward(env *tsenv.TypeEnv) *tstypes.FUN {
	sp := env.FreshSpan()
	batch, cin, h, w := env.FreshDim(sp), env.FreshDim(sp), env.FreshDim(sp), env.FreshDim(sp)
	cout, hout, wout := env.FreshDim(sp), env.FreshDim(sp), env.FreshDim(sp)
	in := &tstypes.TSR{Dims: []tstypes.Type{batch, cin, h, w}, Sp: sp}
	out := &tstypes.TSR{Dims: []tstypes.Type{batch, cout, hout, wout}, Sp: sp}
	return fn("Conv2d", "forward", []tstypes.FnArg{arg("x", in)}, out)
}

// buildLinearForward: TSR<batch,in> -> TSR<batch,out>.
func buildLinearForward(env *tsenv.TypeEnv) *tstypes.FUN {
	sp := env.FreshSpan()
	batch, in, out := env.FreshDim(sp), env.FreshDim(sp), env.FreshDim(sp)
	paramTy := &tstypes.TSR{Dims: []tstypes.Type{batch, in}, Sp: sp}
	retTy := &tstypes.TSR{Dims: []tstypes.Type{batch, out}, Sp: sp}
	return fn("Linear", "forward", []tstypes.FnArg{arg("x", paramTy)}, retTy)
}

// buildMSELossForward: (pred, target) share one fresh tensor shape and
// reduce to a scalar FLOAT.
func buildMSELossForward(env *tsenv.TypeEnv) *tstypes.FUN {
	sp := env.FreshSpan()
	shape := env.FreshVar(sp)
	return fn("MSELoss", "forward", []tstypes.FnArg{
		arg("pred", shape),
		arg("target", shape),
	}, tstypes.NewFloat(sp))
}

// registerOptimizers wires SGD.step/Adam.step: any tensor in, Unit out.
// Optimizer state mutation is not itself a typed value in this model, so
// the signature only exists to make `opt.step(params)` call sites
// type-check rather than report UnknownIdent.
func registerOptimizers(r *Registry) {
	build := func(module string) Builder {
		return func(env *tsenv.TypeEnv) *tstypes.FUN {
			sp := env.FreshSpan()
			params := env.FreshVar(sp)
			return fn(module, "step", []tstypes.FnArg{arg("params", params)}, &tstypes.Unit{Sp: sp})
		}
	}
	for _, module := range []string{"SGD", "Adam"} {
		r.Register(module, "step", build(module))
	}
}
