package native

import "github.com/go6502cc/oscarcc/internal/ir"

// forward runs the register-simulation forwarding pass over blocks:
// at each block entry it intersects the DataSet of every predecessor
// already visited (spec §4.3's "equal across predecessors -> keep,
// otherwise UNKNOWN"), then walks the block's instructions dropping any
// load whose source cell is already known to hold the loaded value.
//
// Blocks are visited in index order, which for the chains Generate
// builds is also CFG order, so every forward predecessor of a block has
// already contributed its exit state by the time it's needed. A
// predecessor that hasn't been visited yet (a loop back-edge) has no
// exit state to intersect, so a block with such a predecessor starts
// with every cell Unknown. forward makes a single pass.
func (g *Generator) forward(p *ir.Procedure, blocks []*Block) {
	preds := make([][]int, len(blocks))
	for _, b := range blocks {
		if b == nil {
			continue
		}
		for _, t := range []int{b.TrueTarget, b.FalseTarget} {
			if t != NoSuccessor {
				preds[t] = append(preds[t], b.Index)
			}
		}
	}

	exit := make([]*DataSet, len(blocks))
	for _, b := range blocks {
		if b == nil {
			continue
		}
		entry := NewDataSet()
		first := true
		for _, pi := range preds[b.Index] {
			if exit[pi] == nil {
				entry = NewDataSet()
				break
			}
			if first {
				entry = exit[pi].Clone()
				first = false
				continue
			}
			entry.Intersect(exit[pi])
		}
		b.Entry = entry
		exit[b.Index] = simulateBlock(entry, b)
	}
}

// simulateBlock walks b's instructions dropping immediate loads that
// are redundant against the running cell state, returning the state at
// block exit (a clone of entry, mutated as instructions are applied).
func simulateBlock(entry *DataSet, b *Block) *DataSet {
	d := entry.Clone()
	kept := b.Instructions[:0:0]
	for _, in := range b.Instructions {
		cell := destCell(in)
		if cell >= 0 && in.Mode == ModeImmediate && d.KnownImmediate(cell, in.Operand) {
			continue
		}
		kept = append(kept, in)
		applyEffect(d, in)
	}
	b.Instructions = kept
	return d
}

// destCell returns the DataSet cell index an instruction's result lands
// in, or -1 if it doesn't target a modeled cell (e.g. a branch).
func destCell(in Instruction) int {
	switch in.Opcode {
	case OpLDA:
		return CellA
	case OpLDX:
		return CellX
	case OpLDY:
		return CellY
	default:
		return -1
	}
}

// applyEffect updates d to reflect in having executed. Anything not
// precisely modeled (arithmetic, stores, calls) forgets the cells it
// could plausibly clobber rather than guessing.
func applyEffect(d *DataSet, in Instruction) {
	switch in.Opcode {
	case OpLDA:
		if in.Mode == ModeImmediate {
			d.Set(CellA, Immediate, in.Operand, nil)
		} else {
			d.Forget(CellA)
		}
	case OpLDX:
		if in.Mode == ModeImmediate {
			d.Set(CellX, Immediate, in.Operand, nil)
		} else {
			d.Forget(CellX)
		}
	case OpLDY:
		if in.Mode == ModeImmediate {
			d.Set(CellY, Immediate, in.Operand, nil)
		} else {
			d.Forget(CellY)
		}
	case OpSTA, OpADC, OpSBC, OpAND, OpORA, OpEOR, OpCMP:
		if in.Mode == ModeZeroPage {
			d.Forget(ZPIndex(in.Operand))
		}
		if in.Opcode != OpSTA && in.Opcode != OpCMP {
			d.Forget(CellA)
		}
	case OpPLA, OpTXA, OpTYA:
		d.Forget(CellA)
	case OpTAX, OpINX, OpDEX:
		d.Forget(CellX)
	case OpTAY, OpINY, OpDEY:
		d.Forget(CellY)
	case OpJSR:
		d.Forget(CellA)
		d.Forget(CellX)
		d.Forget(CellY)
	}
}
