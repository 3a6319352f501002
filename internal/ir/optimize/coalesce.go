package optimize

import "github.com/go6502cc/oscarcc/internal/ir"

// Coalesce assigns each temporary a byte offset into a single shared
// scratch region, reusing the same bytes for temporaries whose live
// ranges never overlap (spec §4.2 step 10). Populates p.TempOffsets and
// returns the number of bytes the region needs.
func Coalesce(p *ir.Procedure) int {
	n := p.NumTemps()
	if n == 0 {
		return 0
	}
	interfere := buildInterference(p, n)

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	// First-fit decreasing: place the widest temporaries first so a
	// tight scratch budget packs well regardless of definition order.
	sortByKeyDesc(order, func(t int) int { return p.TempSizes[t] })

	offsets := make([]int, n)
	for i := range offsets {
		offsets[i] = -1
	}
	high := 0
	for _, t := range order {
		size := sizeOf(p, t)
		off := 0
		for !fits(offsets, p.TempSizes, interfere[t], off, size, t) {
			off++
		}
		offsets[t] = off
		if off+size > high {
			high = off + size
		}
	}
	p.TempOffsets = offsets
	return high
}

func sizeOf(p *ir.Procedure, t int) int {
	if s := p.TempSizes[t]; s > 0 {
		return s
	}
	return 1
}

func fits(offsets, sizes []int, conflicts map[int]bool, off, size, t int) bool {
	for other, assigned := range offsets {
		if other == t || assigned < 0 || !conflicts[other] {
			continue
		}
		osize := sizes[other]
		if osize <= 0 {
			osize = 1
		}
		if off < assigned+osize && assigned < off+size {
			return false
		}
	}
	return true
}

func sortByKeyDesc(a []int, key func(int) int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && key(a[j-1]) < key(a[j]); j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}

// buildInterference returns, for each temporary, the set of temporaries
// simultaneously live at some point in the procedure: a classic backward
// per-block liveness scan seeded from the already-computed exit-required
// sets (spec §4.2 step 2).
func buildInterference(p *ir.Procedure, n int) []map[int]bool {
	interfere := make([]map[int]bool, n)
	for i := range interfere {
		interfere[i] = make(map[int]bool)
	}
	mark := func(a, b int) {
		if a == b {
			return
		}
		interfere[a][b] = true
		interfere[b][a] = true
	}

	d := computeTempDataflow(p)
	p.Walk(func(b *ir.BasicBlock) {
		live := d.ExitRequired[b.Index].Clone()
		for i := len(b.Instructions) - 1; i >= 0; i-- {
			in := &b.Instructions[i]
			if in.Dst.IsTemp() {
				t := in.Dst.Temp
				live.Each(func(other int) { mark(t, other) })
				live.Clear(t)
			}
			for si := 0; si < in.NumSrc; si++ {
				if in.Src[si].IsTemp() {
					live.Set(in.Src[si].Temp)
				}
			}
		}
	})
	return interfere
}
