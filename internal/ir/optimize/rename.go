package optimize

import (
	"github.com/go6502cc/oscarcc/internal/ir"
	"github.com/go6502cc/oscarcc/internal/ir/optimize/unionfind"
)

// RenameTemporaries walks the CFG in dominance-consistent order and
// assigns a fresh temporary number on every definition, rewriting uses
// as it goes (spec §4.2 step 3). At a block with more than one
// predecessor, a definition reaching it along different predecessors
// is unified via union-find rather than modeled with a phi instruction
// (the IR has none, spec §3): the unified id may end up written by more
// than one static instruction when a value is carried around a loop or
// merged after a diamond, which is why spec calls this pass "SSA-ish"
// rather than true SSA. A second pass applies the unified mapping and
// compacts temporary numbers.
//
// Returns true if any renumbering happened.
func RenameTemporaries(p *ir.Procedure) bool {
	if p.NumTemps() == 0 {
		return false
	}
	computeDominators(p)
	order := reversePostorder(p)
	rpoPos := make(map[int]int, len(order))
	for i, bi := range order {
		rpoPos[bi] = i
	}
	preds := p.Predecessors()

	oldNumTemps := p.NumTemps()

	entryMap := make([]map[int]int, len(p.Blocks))
	exitMap := make([]map[int]int, len(p.Blocks))
	visited := make([]bool, len(p.Blocks))

	// First, allocate the maximum number of new temporaries we could
	// possibly need (one per original definition) so the union-find
	// never needs resizing mid-walk.
	var defCount int
	for _, b := range p.Blocks {
		if b == nil {
			continue
		}
		for _, in := range b.Instructions {
			if in.Dst.IsTemp() {
				defCount++
			}
		}
	}
	uf := unionfind.New(defCount + oldNumTemps + 1)
	nextNew := 0
	allocType := make([]ir.Type, defCount+oldNumTemps+1)

	mergeEntry := func(bi int) map[int]int {
		m := make(map[int]int)
		for _, pr := range preds[bi] {
			if !visited[pr] {
				continue
			}
			for oldT, newT := range exitMap[pr] {
				if cur, ok := m[oldT]; ok {
					if cur != newT {
						uf.Union(cur, newT)
					}
				} else {
					m[oldT] = newT
				}
			}
		}
		return m
	}

	for _, bi := range order {
		b := p.Blocks[bi]
		cur := mergeEntry(bi)
		entryMap[bi] = cur
		current := make(map[int]int, len(cur))
		for k, v := range cur {
			current[k] = v
		}

		for ii := range b.Instructions {
			in := &b.Instructions[ii]
			for si := 0; si < in.NumSrc; si++ {
				if in.Src[si].IsTemp() {
					if mapped, ok := current[in.Src[si].Temp]; ok {
						in.Src[si].Temp = mapped
					}
				}
			}
			if in.Dst.IsTemp() {
				oldT := in.Dst.Temp
				newT := nextNew
				nextNew++
				allocType[newT] = in.Dst.Type
				current[oldT] = newT
				in.Dst.Temp = newT
			}
		}
		exitMap[bi] = current
		visited[bi] = true
	}

	// Fix up back edges: a successor earlier in RPO than its predecessor
	// means the edge is a back edge; the successor's entry map must also
	// union with the predecessor's (now known) exit map.
	for _, bi := range order {
		b := p.Blocks[bi]
		for _, s := range b.Successors() {
			if rpoPos[s] <= rpoPos[bi] { // back edge
				for oldT, newT := range exitMap[bi] {
					if cur, ok := entryMap[s][oldT]; ok && cur != newT {
						uf.Union(cur, newT)
					}
				}
			}
		}
	}

	// Second pass: apply the unified mapping to every temp reference and
	// compact the numbering.
	canon := func(n int) int { return uf.Find(n) }
	used := make(map[int]bool)
	p.Walk(func(b *ir.BasicBlock) {
		for ii := range b.Instructions {
			in := &b.Instructions[ii]
			for si := 0; si < in.NumSrc; si++ {
				if in.Src[si].IsTemp() {
					c := canon(in.Src[si].Temp)
					in.Src[si].Temp = c
					used[c] = true
				}
			}
			if in.Dst.IsTemp() {
				c := canon(in.Dst.Temp)
				in.Dst.Temp = c
				used[c] = true
			}
		}
	})

	// Dense renumbering.
	ids := make([]int, 0, len(used))
	for id := range used {
		ids = append(ids, id)
	}
	sortInts(ids)
	remap := make(map[int]int, len(ids))
	newTypes := make([]ir.Type, len(ids))
	for i, id := range ids {
		remap[id] = i
		newTypes[i] = allocType[id]
	}
	p.Walk(func(b *ir.BasicBlock) {
		for ii := range b.Instructions {
			in := &b.Instructions[ii]
			for si := 0; si < in.NumSrc; si++ {
				if in.Src[si].IsTemp() {
					in.Src[si].Temp = remap[in.Src[si].Temp]
				}
			}
			if in.Dst.IsTemp() {
				in.Dst.Temp = remap[in.Dst.Temp]
			}
		}
	})
	p.TempTypes = newTypes
	p.TempSizes = make([]int, len(newTypes))
	p.TempOffsets = make([]int, len(newTypes))
	for i, ty := range newTypes {
		p.TempSizes[i] = ty.Size()
		p.TempOffsets[i] = -1
	}

	return true
}

func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}
