package optimize

import "github.com/go6502cc/oscarcc/internal/ir"

// PromoteSimpleLocals replaces every operand referencing a local variable
// whose address is never taken with a fresh temporary, for any local
// small enough to live in one (spec §4.2 step 11). Promoted locals keep
// their slot in p.LocalVars (codegen may still need the name for debug
// info) but are no longer addressed as memory once this pass runs. Safe
// to call repeatedly in a fixed-point loop: a local with no remaining
// memory operand is left alone rather than given a second, unused temp.
//
// Returns true if any local was promoted.
func PromoteSimpleLocals(p *ir.Procedure) bool {
	candidate := make(map[int]bool, len(p.LocalVars))
	for i, v := range p.LocalVars {
		if !v.AddressTaken {
			candidate[i] = true
		}
	}
	if len(candidate) == 0 {
		return false
	}

	present := make(map[int]bool)
	p.Walk(func(b *ir.BasicBlock) {
		for _, in := range b.Instructions {
			for si := 0; si < in.NumSrc; si++ {
				if in.Src[si].Class == ir.MemLocal && candidate[in.Src[si].VarIndex] {
					present[in.Src[si].VarIndex] = true
				}
			}
			if in.Dst.Class == ir.MemLocal && candidate[in.Dst.VarIndex] {
				present[in.Dst.VarIndex] = true
			}
		}
	})
	if len(present) == 0 {
		return false
	}

	tempFor := make(map[int]int, len(present))
	for i := range present {
		tempFor[i] = p.NewTemp(p.LocalVars[i].Type)
	}

	rewrite := func(o *ir.Operand) {
		if o.Class != ir.MemLocal {
			return
		}
		t, ok := tempFor[o.VarIndex]
		if !ok {
			return
		}
		*o = ir.TempOperand(t, o.Type)
	}

	p.Walk(func(b *ir.BasicBlock) {
		for ii := range b.Instructions {
			in := &b.Instructions[ii]
			for si := 0; si < in.NumSrc; si++ {
				rewrite(&in.Src[si])
			}
			rewrite(&in.Dst)
		}
	})
	return true
}
