package optimize

import "github.com/go6502cc/oscarcc/internal/ir"

// StaticRelevance marks every global that is read anywhere in the module
// as relevant, then sweeps every procedure to drop stores to globals
// that are never read (spec §4.2 step 12). Unlike the other passes this
// one spans the whole module: a write in one procedure can be dead only
// once every procedure's reads are known.
//
// Returns true if anything changed.
func StaticRelevance(mod *ir.Module) bool {
	for i := range mod.Globals {
		mod.Globals[i].Relevant = false
	}
	for _, p := range mod.Procedures {
		p.Walk(func(b *ir.BasicBlock) {
			for _, in := range b.Instructions {
				for si := 0; si < in.NumSrc; si++ {
					if in.Src[si].Class == ir.MemGlobal {
						mod.Globals[in.Src[si].VarIndex].Relevant = true
					}
				}
				// Indirect stores/loads may alias any global whose
				// address has been taken; conservatively mark those
				// relevant too since this pass can't tell which one.
				if in.Dst.Class == ir.MemIndirect {
					for gi := range mod.Globals {
						if mod.Globals[gi].AddressTaken {
							mod.Globals[gi].Relevant = true
						}
					}
				}
			}
		})
	}

	changed := false
	for _, p := range mod.Procedures {
		p.Walk(func(b *ir.BasicBlock) {
			kept := b.Instructions[:0]
			for _, in := range b.Instructions {
				if in.Dst.Class == ir.MemGlobal && !hasSideEffect(&in) && !in.Flags.Has(ir.FlagVolatile) {
					if !mod.Globals[in.Dst.VarIndex].Relevant {
						changed = true
						continue
					}
				}
				kept = append(kept, in)
			}
			if len(kept) != len(b.Instructions) {
				b.Instructions = kept
			}
		})
	}
	return changed
}
