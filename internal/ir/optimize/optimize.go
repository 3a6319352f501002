// Package optimize implements the IR optimization pipeline of spec
// §4.2: renaming, trace building, dead-branch elimination, forwarding
// and folding, dead-code elimination, simple-locals promotion, peephole
// and coalescing per procedure, plus one module-wide static-relevance
// pass, each independently testable. LoopHeads and LoopBody compute
// loop structure, but Run does not call them and no pass hoists loop
// invariants.
package optimize

import (
	"log/slog"

	"github.com/go6502cc/oscarcc/internal/config"
	"github.com/go6502cc/oscarcc/internal/ir"
	"github.com/go6502cc/oscarcc/internal/logger"
)

// Run drives every procedure in mod through the optimizer's per-procedure
// passes, repeating dead-branch, forwarding, dead-code, promotion and
// peephole until nothing changes or maxIterations is hit (a runaway
// backstop; well-formed input converges in a handful of rounds), then
// runs the module-wide static-relevance pass once. Those repeated passes
// and static relevance only run when cfg.Basic (or a stronger preset)
// requests optimization at all; with cfg.Basic false only renaming,
// coalescing and trace-count bookkeeping run, since codegen still needs
// those regardless of optimization level.
func Run(log *slog.Logger, mod *ir.Module, cfg config.Settings) {
	if log == nil {
		log = logger.Discard()
	}
	for _, p := range mod.Procedures {
		RenameTemporaries(p)
		BuildTraces(p, cfg)

		if cfg.Basic {
			const maxIterations = 50
			for i := 0; i < maxIterations; i++ {
				changed := false
				computeDominators(p)
				if DeadBranch(p) {
					changed = true
				}
				if ForwardAndFold(p) {
					changed = true
				}
				if DeadCode(p) {
					changed = true
				}
				if PromoteSimpleLocals(p) {
					changed = true
				}
				if Peephole(p) {
					changed = true
				}
				if !changed {
					log.Debug("optimizer converged", "procedure", p.Ident.String(), "iterations", i+1)
					break
				}
			}
		}

		Coalesce(p)
	}

	if cfg.Basic {
		StaticRelevance(mod)
	}
}
