package optimize

import "github.com/go6502cc/oscarcc/internal/ir"

// Peephole applies block-local instruction cleanups, follows jumps that
// target an otherwise-empty forwarding block, and merges a block into
// its sole predecessor when that predecessor has no other successor
// (spec §4.2 step 13). Returns true if anything changed.
func Peephole(p *ir.Procedure) bool {
	changed := false
	if peepholeInstructions(p) {
		changed = true
	}
	if followEmptyJumps(p) {
		changed = true
	}
	if mergeStraightLineBlocks(p) {
		changed = true
	}
	return changed
}

// peepholeInstructions drops a load that immediately overwrites the
// temporary it just read with the same value (x = x), and collapses two
// consecutive loads into the same destination down to the second (the
// first is dead within the block and the general DCE pass may not see
// it if the destination later escapes the block).
func peepholeInstructions(p *ir.Procedure) bool {
	changed := false
	p.Walk(func(b *ir.BasicBlock) {
		kept := b.Instructions[:0]
		for i, in := range b.Instructions {
			if in.Opcode == ir.OpLoad && in.Dst.IsTemp() && in.Src[0] == in.Dst {
				changed = true
				continue
			}
			if len(kept) > 0 {
				prev := kept[len(kept)-1]
				if prev.Opcode == ir.OpLoad && in.Opcode == ir.OpLoad &&
					prev.Dst.IsTemp() && prev.Dst == in.Dst && !prev.Flags.Has(ir.FlagVolatile) {
					kept[len(kept)-1] = in
					changed = true
					continue
				}
			}
			kept = append(kept, b.Instructions[i])
		}
		b.Instructions = kept
	})
	return changed
}

// followEmptyJumps retargets any branch into a block that is empty and
// ends in an unconditional jump, directly to that block's own target,
// skipping the hop (spec §4.2 step 13's "jump to a jump").
func followEmptyJumps(p *ir.Procedure) bool {
	changed := false
	resolve := func(target int) int {
		seen := map[int]bool{}
		for {
			if target == ir.NoSuccessor || seen[target] {
				return target
			}
			seen[target] = true
			b := p.Blocks[target]
			if b == nil || len(b.Instructions) != 0 || !b.IsJump() {
				return target
			}
			target = b.TrueTarget
		}
	}
	for _, b := range p.Blocks {
		if b == nil {
			continue
		}
		if nt := resolve(b.TrueTarget); nt != b.TrueTarget {
			b.TrueTarget = nt
			changed = true
		}
		if nf := resolve(b.FalseTarget); nf != b.FalseTarget {
			b.FalseTarget = nf
			changed = true
		}
	}
	return changed
}

// mergeStraightLineBlocks appends a block's instructions into its sole
// predecessor when that predecessor ends in an unconditional jump to
// exactly that block and has no other successor, then makes the merged
// block unreachable so a later DeadBranch/Reachable pass drops it.
func mergeStraightLineBlocks(p *ir.Procedure) bool {
	changed := false
	preds := p.Predecessors()
	for _, b := range p.Blocks {
		if b == nil || b.Index == p.EntryBlock {
			continue
		}
		ps := preds[b.Index]
		if len(ps) != 1 {
			continue
		}
		pred := p.Blocks[ps[0]]
		if pred == nil || !pred.IsJump() || pred.TrueTarget != b.Index {
			continue
		}
		pred.Instructions = append(pred.Instructions, b.Instructions...)
		pred.TrueTarget = b.TrueTarget
		pred.FalseTarget = b.FalseTarget
		b.Instructions = nil
		b.TrueTarget = ir.NoSuccessor
		b.FalseTarget = ir.NoSuccessor
		changed = true
	}
	return changed
}
