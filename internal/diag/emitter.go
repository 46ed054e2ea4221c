package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Emitter is the diagnostic sink boundary spec.md §6 describes: something
// that "receives structured diagnostic records". The unifier never throws
// on a recoverable type error; it calls Add and keeps going so a single
// pass can surface every mismatch it finds (spec.md §7).
type Emitter interface {
	Add(r *Report)
	Reports() []*Report
	HasFatal() bool
}

// Sink is the default in-process Emitter: it buffers every report in
// arrival order and tracks whether a fatal one was seen, without printing
// or exiting. The driver (internal/pipeline) decides what to do with a
// fatal report; library code here never calls os.Exit itself.
type Sink struct {
	reports []*Report
	fatal   bool
}

// NewSink returns an empty buffering Emitter.
func NewSink() *Sink { return &Sink{} }

func (s *Sink) Add(r *Report) {
	s.reports = append(s.reports, r)
	if IsFatal(r.Code) {
		s.fatal = true
	}
}

func (s *Sink) Reports() []*Report { return s.reports }
func (s *Sink) HasFatal() bool     { return s.fatal }

// Printer renders buffered reports to a writer, color-coding by severity
// the way the teacher's REPL uses fatih/color for its own diagnostics.
type Printer struct {
	Out      io.Writer
	NoColor  bool
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer { return &Printer{Out: w} }

// PrintAll renders every buffered report, one per line, fatal diagnostics in
// red and recoverable ones in yellow — spec.md §7's "fatal diagnostics force
// immediate flush-and-terminate; recoverable ones are buffered and reported
// at the end of the pass" is the printer's caller's concern (internal/
// pipeline); PrintAll itself just renders whatever it is given.
func (p *Printer) PrintAll(reports []*Report) {
	sevColor := color.New(color.FgYellow)
	fatalColor := color.New(color.FgRed, color.Bold)
	if p.NoColor {
		sevColor.DisableColor()
		fatalColor.DisableColor()
	}
	for _, r := range reports {
		c := sevColor
		if IsFatal(r.Code) {
			c = fatalColor
		}
		line := fmt.Sprintf("%s [%s] %s", r.PrimarySpan, r.Code, r.Message)
		if len(r.RenderedTypes) > 0 {
			line += fmt.Sprintf(" (%v)", r.RenderedTypes)
		}
		c.Fprintln(p.Out, line)
	}
}
