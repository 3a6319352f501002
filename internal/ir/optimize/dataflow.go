package optimize

import "github.com/go6502cc/oscarcc/internal/ir"

// Dataflow holds the per-block bitsets of spec §4.2 step 2 for one
// variable class (temporaries, locals, statics, or parameters). Index i
// of every slice corresponds to block i of the owning procedure.
type Dataflow struct {
	N int // domain size (e.g. number of temporaries)

	LocalRequired []ir.BitSet // upward-exposed uses within the block
	LocalProvided []ir.BitSet // definitions made within the block

	EntryRequired []ir.BitSet
	ExitRequired  []ir.BitSet
	EntryProvided []ir.BitSet
	ExitProvided  []ir.BitSet
}

func newDataflow(numBlocks, n int) *Dataflow {
	d := &Dataflow{N: n}
	d.LocalRequired = make([]ir.BitSet, numBlocks)
	d.LocalProvided = make([]ir.BitSet, numBlocks)
	d.EntryRequired = make([]ir.BitSet, numBlocks)
	d.ExitRequired = make([]ir.BitSet, numBlocks)
	d.EntryProvided = make([]ir.BitSet, numBlocks)
	d.ExitProvided = make([]ir.BitSet, numBlocks)
	for i := 0; i < numBlocks; i++ {
		d.LocalRequired[i] = ir.NewBitSet(n)
		d.LocalProvided[i] = ir.NewBitSet(n)
		d.EntryRequired[i] = ir.NewBitSet(n)
		d.ExitRequired[i] = ir.NewBitSet(n)
		d.EntryProvided[i] = ir.NewBitSet(n)
		d.ExitProvided[i] = ir.NewBitSet(n)
	}
	return d
}

// computeTempDataflow computes the local sets from a single linear scan
// (a use before any def in the block is "locally required"; any def is
// "locally provided") then propagates to entry/exit fixed points
// exactly per spec §4.2 step 2 / §3's invariant:
//
//	entry-required ⊇ local-required ∪ (exit-required \ local-provided)
func computeTempDataflow(p *ir.Procedure) *Dataflow {
	d := newDataflow(len(p.Blocks), p.NumTemps())
	reach := p.Reachable()

	for _, b := range p.Blocks {
		if b == nil || !reach[b.Index] {
			continue
		}
		lr, lp := d.LocalRequired[b.Index], d.LocalProvided[b.Index]
		for _, in := range b.Instructions {
			for i := 0; i < in.NumSrc; i++ {
				if t := in.Src[i].Temp; in.Src[i].IsTemp() && !lp.Test(t) {
					lr.Set(t)
				}
			}
			if in.Dst.IsTemp() {
				lp.Set(in.Dst.Temp)
			}
		}
	}

	order := reversePostorder(p)
	preds := p.Predecessors()

	// Backward fixed point for required sets.
	changed := true
	for changed {
		changed = false
		for i := len(order) - 1; i >= 0; i-- {
			bi := order[i]
			b := p.Blocks[bi]
			exitReq := ir.NewBitSet(d.N)
			for _, s := range b.Successors() {
				exitReq.Union(d.EntryRequired[s])
			}
			entryReq := exitReq.Clone()
			entryReq.Subtract(d.LocalProvided[bi])
			entryReq.Union(d.LocalRequired[bi])

			if !bitsetEqual(exitReq, d.ExitRequired[bi]) || !bitsetEqual(entryReq, d.EntryRequired[bi]) {
				changed = true
			}
			d.ExitRequired[bi] = exitReq
			d.EntryRequired[bi] = entryReq
		}
	}

	// Forward fixed point for provided sets (must-available: intersect at merges).
	changed = true
	for changed {
		changed = false
		for _, bi := range order {
			var entryProv ir.BitSet
			if bi == p.EntryBlock {
				entryProv = ir.NewBitSet(d.N)
			} else {
				ps := preds[bi]
				if len(ps) == 0 {
					entryProv = ir.NewBitSet(d.N)
				} else {
					entryProv = d.ExitProvided[ps[0]].Clone()
					for _, pr := range ps[1:] {
						entryProv.Intersect(d.ExitProvided[pr])
					}
				}
			}
			exitProv := entryProv.Clone()
			exitProv.Union(d.LocalProvided[bi])

			if !bitsetEqual(entryProv, d.EntryProvided[bi]) || !bitsetEqual(exitProv, d.ExitProvided[bi]) {
				changed = true
			}
			d.EntryProvided[bi] = entryProv
			d.ExitProvided[bi] = exitProv
		}
	}

	return d
}

func bitsetEqual(a, b ir.BitSet) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
