// Package diag implements the process-wide diagnostic sink (spec §5, §7).
//
// Components append diagnostics and return normally; the driver consults
// ErrorCount between phases to decide whether to continue.
package diag

import "fmt"

// Location is the (file, line) origin carried by every IR instruction
// and diagnostic.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Kind categorizes a diagnostic (spec §7).
type Kind int

const (
	KindFileNotFound Kind = iota
	KindRuntimeCode
	KindExecutionFailed
	KindStackOverflow
	KindUndefinedValue
	KindTypeMismatch
	KindUninitialized
	KindUnplacedReferenced
	KindParse
	KindSemantic
)

func (k Kind) String() string {
	switch k {
	case KindFileNotFound:
		return "file-not-found"
	case KindRuntimeCode:
		return "runtime-code"
	case KindExecutionFailed:
		return "execution-failed"
	case KindStackOverflow:
		return "stack-overflow"
	case KindUndefinedValue:
		return "undefined-value"
	case KindTypeMismatch:
		return "type-mismatch"
	case KindUninitialized:
		return "uninitialized"
	case KindUnplacedReferenced:
		return "unplaced-referenced"
	case KindParse:
		return "parse"
	case KindSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// Severity distinguishes hard errors from advisory notes.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is a single reported condition.
type Diagnostic struct {
	Loc      Location
	Kind     Kind
	Severity Severity
	Message  string
	Payload  any // e.g. the opcode index for KindRuntimeCode
}

// Sink is the shared, append-only diagnostic list plus error counter.
// A single Sink is threaded through an entire compilation.
type Sink struct {
	items []Diagnostic
}

// NewSink returns an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{}
}

// Add appends a diagnostic to the sink.
func (s *Sink) Add(d Diagnostic) {
	s.items = append(s.items, d)
}

// Addf appends an error-severity diagnostic built from a format string.
func (s *Sink) Addf(loc Location, kind Kind, format string, args ...any) {
	s.Add(Diagnostic{Loc: loc, Kind: kind, Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
}

// Warnf appends a warning-severity diagnostic built from a format string.
func (s *Sink) Warnf(loc Location, kind Kind, format string, args ...any) {
	s.Add(Diagnostic{Loc: loc, Kind: kind, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

// All returns every diagnostic reported so far, in report order.
func (s *Sink) All() []Diagnostic {
	return s.items
}

// ErrorCount reports how many Severity-Error diagnostics have been added.
// The driver checks this between phases to short-circuit (spec §7).
func (s *Sink) ErrorCount() int {
	n := 0
	for _, d := range s.items {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}
