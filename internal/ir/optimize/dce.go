package optimize

import "github.com/go6502cc/oscarcc/internal/ir"

// hasSideEffect reports whether an instruction's opcode always has an
// observable effect independent of whether its result is used
// (branches, calls, stores to non-temporary locations, returns, frame
// ops, assembler blobs, host calls).
func hasSideEffect(in *ir.Instruction) bool {
	switch in.Opcode {
	case ir.OpBranch, ir.OpJump, ir.OpCall, ir.OpCallNative,
		ir.OpFramePush, ir.OpFramePop, ir.OpReturnValue, ir.OpReturnStruct,
		ir.OpReturnVoid, ir.OpAssembler, ir.OpHostCall:
		return true
	case ir.OpStore:
		return true
	}
	return false
}

// DeadCode removes instructions whose result temporary is never used
// and that have no side effect (spec §4.2 step 6); stores to
// local/global/param memory are not removed here. Instructions flagged
// FlagVolatile are never removed. Runs to its own fixed point (repeated
// sweeps, since removing one dead def can make its sole source's
// producer dead too) and reports whether anything changed overall.
func DeadCode(p *ir.Procedure) bool {
	anyChanged := false
	for {
		if !deadCodeSweep(p) {
			break
		}
		anyChanged = true
	}
	return anyChanged
}

func deadCodeSweep(p *ir.Procedure) bool {
	used := liveTemps(p)
	changed := false

	p.Walk(func(b *ir.BasicBlock) {
		kept := b.Instructions[:0]
		for _, in := range b.Instructions {
			if in.Flags.Has(ir.FlagVolatile) || hasSideEffect(&in) {
				kept = append(kept, in)
				continue
			}
			if in.Dst.IsTemp() && !used[in.Dst.Temp] {
				changed = true
				continue // drop: unused result instruction
			}
			// Dead stores to local/global/param memory are handled by
			// simple-locals promotion (step 11, which turns eligible
			// locals into temporaries so this sweep then covers them)
			// and by static relevance (step 12, for globals). A direct
			// memory-class liveness sweep here would need the same
			// aliasing machinery as ForwardAndFold and is out of scope
			// for this pass.
			kept = append(kept, in)
		}
		if len(kept) != len(b.Instructions) {
			b.Instructions = kept
		}
	})
	return changed
}

// liveTemps returns the set of temporary numbers read by at least one
// surviving instruction or by a side-effecting instruction, plus the
// result of the relational that ends a conditional block (its branch
// condition).
func liveTemps(p *ir.Procedure) map[int]bool {
	used := make(map[int]bool)
	p.Walk(func(b *ir.BasicBlock) {
		if last := b.Last(); b.IsConditional() && last != nil && last.Opcode == ir.OpRelational && last.Dst.IsTemp() {
			used[last.Dst.Temp] = true
		}
		for _, in := range b.Instructions {
			for i := 0; i < in.NumSrc; i++ {
				if in.Src[i].IsTemp() {
					used[in.Src[i].Temp] = true
				}
			}
		}
	})
	return used
}
