package optimize

import (
	"github.com/go6502cc/oscarcc/internal/config"
	"github.com/go6502cc/oscarcc/internal/ir"
)

// BuildTraces recomputes each block's EntryCount (spec §4.2 step 1) and,
// when cfg.Expand is set, inlines a block into its sole predecessor when
// that predecessor falls straight through to it (an extended basic
// block of one entry). This runs before the main optimization loop so
// later passes (data-flow, forwarding, dead-code) see the wider blocks
// an -auto-inline build asks for; the same fold-in shape reappears at
// the end of the pipeline in Peephole, gated by "did anything change"
// rather than by cfg.Expand.
//
// Returns true if anything changed.
func BuildTraces(p *ir.Procedure, cfg config.Settings) bool {
	preds := p.Predecessors()
	for _, b := range p.Blocks {
		if b == nil {
			continue
		}
		b.EntryCount = len(preds[b.Index])
	}

	if !cfg.Expand {
		return false
	}
	return mergeStraightLineBlocks(p)
}
