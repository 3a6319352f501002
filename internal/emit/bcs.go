package emit

import (
	"fmt"
	"io"

	"github.com/go6502cc/oscarcc/internal/codegen/bytecode"
)

// WriteByteCodeStats writes the .bcs file: one line per opcode that was
// used at least once, with its call-site count (spec §6's usage
// statistics, extended per original_source/'s oscar64 with a count
// rather than bare presence — SPEC_FULL.md §9).
func WriteByteCodeStats(w io.Writer, g *bytecode.Generator) error {
	for i := 0; i < 128; i++ {
		if g.Used[i] == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "op %3d  %6d call sites\n", i, g.Used[i]); err != nil {
			return err
		}
	}
	for op := range g.UsedExtended {
		if _, err := fmt.Fprintf(w, "op %3d  extended\n", int(op)); err != nil {
			return err
		}
	}
	return nil
}
