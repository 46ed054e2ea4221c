package diag

import (
	"encoding/json"
	"fmt"

	"github.com/tensorscript/tsc/internal/span"
)

// Report is the canonical structured diagnostic record flowing across the
// Emitter boundary (spec.md §6): `{kind, primary_span, secondary_spans,
// rendered_types}`.
type Report struct {
	Schema         string         `json:"schema"`
	Code           Code           `json:"code"`
	Message        string         `json:"message"`
	PrimarySpan    span.Span      `json:"primary_span"`
	SecondarySpans []span.Span    `json:"secondary_spans,omitempty"`
	RenderedTypes  []string       `json:"rendered_types,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

// Schema is the fixed schema tag stamped onto every Report, mirroring the
// teacher's `ailang.error/v1`.
const Schema = "tensorscript.diag/v1"

// New builds a Report with the schema tag pre-filled.
func New(code Code, msg string, primary span.Span) *Report {
	return &Report{Schema: Schema, Code: code, Message: msg, PrimarySpan: primary}
}

// WithTypes attaches rendered type strings for display (e.g. the two sides
// of a failed unification).
func (r *Report) WithTypes(rendered ...string) *Report {
	r.RenderedTypes = rendered
	return r
}

// WithSecondary attaches additional spans relevant to the diagnostic.
func (r *Report) WithSecondary(spans ...span.Span) *Report {
	r.SecondarySpans = spans
	return r
}

// Error implements the error interface so a Report can be returned directly
// from fatal call sites.
func (r *Report) Error() string {
	return fmt.Sprintf("%s: %s: %s", r.PrimarySpan, r.Code, r.Message)
}

// ToJSON renders the report as deterministic JSON. encoding/json already
// sorts map keys when marshaling a map[string]any, which is what makes
// Data's rendering reproducible across runs (spec.md Testable Property #4).
func (r *Report) ToJSON(indent bool) ([]byte, error) {
	if indent {
		return json.MarshalIndent(r, "", "  ")
	}
	return json.Marshal(r)
}
