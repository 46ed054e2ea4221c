package tstypes

// rank assigns each variant a stable position in the total order. Order
// between variants matters only in that it is fixed and unaffected by
// allocation order; the concrete values have no other significance.
func rank(t Type) int {
	switch t.(type) {
	case *Unit:
		return 0
	case *Prim:
		return 1
	case *ResolvedDim:
		return 2
	case *DIM:
		return 3
	case *VAR:
		return 4
	case *TSR:
		return 5
	case *FnArgs:
		return 6
	case *FUN:
		return 7
	case *Tuple:
		return 8
	case *Module:
		return 9
	case *UnresolvedModuleFun:
		return 10
	default:
		return 99
	}
}

// Less defines a total, span-independent order over Type so constraint sets
// can be kept in deterministic order (spec.md §3.3: "ordering is
// deterministic ... stabilised by a total order on Type"). Hash-based
// containers are deliberately avoided for anything that affects diagnostic
// ordering (spec.md §9, "Non-determinism hazards").
func Less(a, b Type) bool {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra < rb
	}
	switch x := a.(type) {
	case *Unit:
		return false
	case *Prim:
		y := b.(*Prim)
		return x.Kind < y.Kind
	case *ResolvedDim:
		y := b.(*ResolvedDim)
		return x.N < y.N
	case *DIM:
		y := b.(*DIM)
		return x.ID < y.ID
	case *VAR:
		y := b.(*VAR)
		return x.ID < y.ID
	case *TSR:
		y := b.(*TSR)
		if len(x.Dims) != len(y.Dims) {
			return len(x.Dims) < len(y.Dims)
		}
		for i := range x.Dims {
			if !x.Dims[i].Equals(y.Dims[i]) {
				return Less(x.Dims[i], y.Dims[i])
			}
		}
		return false
	case *FnArgs:
		y := b.(*FnArgs)
		if len(x.Args) != len(y.Args) {
			return len(x.Args) < len(y.Args)
		}
		for i := range x.Args {
			if x.Args[i].Name != y.Args[i].Name {
				return x.Args[i].Name < y.Args[i].Name
			}
			if !x.Args[i].Ty.Equals(y.Args[i].Ty) {
				return Less(x.Args[i].Ty, y.Args[i].Ty)
			}
		}
		return false
	case *FUN:
		y := b.(*FUN)
		if x.Module != y.Module {
			return x.Module < y.Module
		}
		if x.Name != y.Name {
			return x.Name < y.Name
		}
		if !x.Param.Equals(y.Param) {
			return Less(x.Param, y.Param)
		}
		return Less(x.Ret, y.Ret)
	case *Tuple:
		y := b.(*Tuple)
		if len(x.Elems) != len(y.Elems) {
			return len(x.Elems) < len(y.Elems)
		}
		for i := range x.Elems {
			if !x.Elems[i].Equals(y.Elems[i]) {
				return Less(x.Elems[i], y.Elems[i])
			}
		}
		return false
	case *Module:
		y := b.(*Module)
		return x.Name < y.Name
	case *UnresolvedModuleFun:
		y := b.(*UnresolvedModuleFun)
		return x.ID < y.ID
	default:
		return false
	}
}
