// Package diag implements the "Emitter boundary" of spec.md §6: a sink that
// receives structured diagnostic records, modeled on the teacher repo's
// internal/errors package (Report, ReportError, a per-phase error-code
// registry, and deterministic JSON rendering).
package diag

// Code is one of the closed set of diagnostic kinds spec.md §6 and §7 name.
type Code string

const (
	// CodeTypeError is the unifier's fallthrough: irreconcilable shapes.
	// Fatal unless explicitly noted otherwise at the call site (spec.md §7).
	CodeTypeError Code = "TC001"
	// CodeDimensionMismatch: two concrete dims disagree. Non-fatal.
	CodeDimensionMismatch Code = "TC002"
	// CodeRankMismatch: tensor ranks differ. Non-fatal.
	CodeRankMismatch Code = "TC003"
	// CodeArityMismatch: argument count disagreement. Non-fatal.
	CodeArityMismatch Code = "TC004"
	// CodeUnknownIdent: identifier not bound. Non-fatal.
	CodeUnknownIdent Code = "TC005"
	// CodeCircularType: occurs-check failure. Fatal.
	CodeCircularType Code = "TC006"
	// CodeInferenceNonConvergent: fixpoint loop exceeded its iteration cap.
	// Fatal.
	CodeInferenceNonConvergent Code = "TC007"
	// CodeModuleMismatch: two Module types with different names were
	// equated (SPEC_FULL.md §C.2). Fatal.
	CodeModuleMismatch Code = "TC008"
)

// info describes one code for the registry below.
type info struct {
	Code     Code
	Fatal    bool
	Category string
}

// registry mirrors the teacher's ErrorRegistry: one entry per code, so
// tooling can classify a diagnostic without a big switch at each use site.
var registry = map[Code]info{
	CodeTypeError:              {CodeTypeError, true, "unification"},
	CodeDimensionMismatch:      {CodeDimensionMismatch, false, "tensor-shape"},
	CodeRankMismatch:           {CodeRankMismatch, false, "tensor-shape"},
	CodeArityMismatch:          {CodeArityMismatch, false, "arity"},
	CodeUnknownIdent:           {CodeUnknownIdent, false, "scope"},
	CodeCircularType:           {CodeCircularType, true, "unification"},
	CodeInferenceNonConvergent: {CodeInferenceNonConvergent, true, "fixpoint"},
	CodeModuleMismatch:         {CodeModuleMismatch, true, "module"},
}

// IsFatal reports whether a diagnostic of this code terminates the pass
// immediately (spec.md §7's F/E severity split).
func IsFatal(c Code) bool {
	if i, ok := registry[c]; ok {
		return i.Fatal
	}
	return false
}

// Category returns the code's diagnostic category, used only for display.
func Category(c Code) string {
	if i, ok := registry[c]; ok {
		return i.Category
	}
	return "unknown"
}
