package native

// Peephole applies block-local rewrites that the forwarding pass alone
// can't express: dropping a load that immediately follows a store to the
// same zero-page address, and retargeting an unconditional jump past
// empty jump-only blocks (spec §4.3's "peephole / block-level rewrites").
func Peephole(blocks []*Block) bool {
	changed := false
	for _, b := range blocks {
		if b == nil {
			continue
		}
		if removeDeadStoreLoad(b) {
			changed = true
		}
		if bypassEmptyJump(blocks, b) {
			changed = true
		}
	}
	return changed
}

// removeDeadStoreLoad drops an LDA zp that immediately follows an STA
// to the same zero-page address: the load is redundant since A
// already holds the value that was just stored there.
func removeDeadStoreLoad(b *Block) bool {
	changed := false
	kept := make([]Instruction, 0, len(b.Instructions))
	for i := 0; i < len(b.Instructions); i++ {
		in := b.Instructions[i]
		if in.Opcode == OpSTA && in.Mode == ModeZeroPage && i+1 < len(b.Instructions) {
			next := b.Instructions[i+1]
			if next.Opcode == OpLDA && next.Mode == ModeZeroPage && next.Operand == in.Operand {
				kept = append(kept, in)
				i++
				changed = true
				continue
			}
		}
		kept = append(kept, in)
	}
	b.Instructions = kept
	return changed
}

// bypassEmptyJump retargets b's unconditional jump past any chain of
// successor blocks that carry no instructions of their own.
func bypassEmptyJump(blocks []*Block, b *Block) bool {
	if !b.IsJump() {
		return false
	}
	target := b.TrueTarget
	changed := false
	for steps := 0; steps < len(blocks); steps++ {
		t := blocks[target]
		if t == nil || len(t.Instructions) != 0 || !t.IsJump() || t.TrueTarget == target {
			break
		}
		target = t.TrueTarget
		changed = true
	}
	b.TrueTarget = target
	return changed
}
