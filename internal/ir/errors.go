package ir

import "fmt"

// InternalError signals a broken invariant inside the IR layer — an
// unreachable opcode switch arm, a dominance/SSA invariant violated by
// a bug in the optimizer. These are bugs, not user errors (spec §7, §9):
// they panic rather than append to the diagnostic sink, and are only
// recovered at the top of the driver.
type InternalError struct {
	Loc     Location
	Message string
}

func (e *InternalError) Error() string {
	if e.Loc.File == "" {
		return "internal error: " + e.Message
	}
	return fmt.Sprintf("internal error at %s:%d: %s", e.Loc.File, e.Loc.Line, e.Message)
}

// Fail panics with an InternalError. Call it for conditions the front
// end's contract (spec §4.1) guarantees cannot happen.
func Fail(loc Location, format string, args ...any) {
	panic(&InternalError{Loc: loc, Message: fmt.Sprintf(format, args...)})
}
