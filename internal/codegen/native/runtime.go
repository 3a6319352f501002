package native

import (
	"github.com/go6502cc/oscarcc/internal/diag"
	"github.com/go6502cc/oscarcc/internal/link"
)

// RuntimeEntry names the linker object (and byte offset within it, for
// objects that bundle more than one helper) implementing one runtime
// helper identifier.
type RuntimeEntry struct {
	Obj    *link.Object
	Offset int
}

// Runtime is the closed set of runtime helper identifiers the native
// generator may call (spec §6's runtime helper contract). The driver
// populates it before Generate runs; Generate's first reference to a
// missing entry is fatal.
type Runtime map[string]RuntimeEntry

// RequiredIdents is the full closed set spec §6 names; a Runtime
// missing any of these that the generated code actually calls produces
// a diag.KindRuntimeCode diagnostic at first use, not eagerly — some
// programs never call, say, fdiv.
var RequiredIdents = []string{
	"mul16by8", "fsplitt", "fsplita", "faddsub", "fmul", "fdiv",
	"mul16", "divs16", "mods16", "divu16", "modu16", "bitshift",
	"ffloor", "fceil", "ftoi", "ffromi", "fcmp", "bcexec", "jmpaddr",
	"mul32", "divs32", "mods32", "divu32", "modu32",
}

// Resolve looks up ident, appending a fatal diag.KindRuntimeCode
// diagnostic and returning false if it hasn't been registered.
func (rt Runtime) Resolve(sink *diag.Sink, loc diag.Location, ident string) (RuntimeEntry, bool) {
	e, ok := rt[ident]
	if !ok {
		sink.Addf(loc, diag.KindRuntimeCode, "runtime helper %q not registered before code generation", ident)
		return RuntimeEntry{}, false
	}
	return e, true
}
