package optimize

import "github.com/go6502cc/oscarcc/internal/ir"

// DeadBranch rewrites a block whose conditional branch's condition
// folds to a compile-time constant into an unconditional jump to the
// live edge, and drops blocks no longer reachable from the entry block
// (spec §4.2 step 7). Reports whether anything changed.
func DeadBranch(p *ir.Procedure) bool {
	changed := false

	p.Walk(func(b *ir.BasicBlock) {
		if !b.IsConditional() || len(b.Instructions) == 0 {
			return
		}
		last := b.Instructions[len(b.Instructions)-1]
		if last.Opcode != ir.OpRelational || !allConstant(&last) {
			return
		}
		folded, ok := fold(&last)
		if !ok {
			return
		}
		b.Instructions = b.Instructions[:len(b.Instructions)-1]
		if folded.IntConst != 0 {
			b.FalseTarget = ir.NoSuccessor
		} else {
			b.TrueTarget = b.FalseTarget
			b.FalseTarget = ir.NoSuccessor
		}
		changed = true
	})

	reach := p.Reachable()
	if len(reach) != len(p.Blocks) {
		kept := make([]*ir.BasicBlock, 0, len(reach))
		remap := make(map[int]int, len(reach))
		for _, b := range p.Blocks {
			if b != nil && reach[b.Index] {
				remap[b.Index] = len(kept)
				kept = append(kept, b)
			}
		}
		for _, b := range kept {
			b.Index = remap[b.Index]
			if b.TrueTarget != ir.NoSuccessor {
				b.TrueTarget = remap[b.TrueTarget]
			}
			if b.FalseTarget != ir.NoSuccessor {
				b.FalseTarget = remap[b.FalseTarget]
			}
		}
		p.EntryBlock = remap[p.EntryBlock]
		p.Blocks = kept
		changed = true
	}

	return changed
}
