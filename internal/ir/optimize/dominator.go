package optimize

import "github.com/go6502cc/oscarcc/internal/ir"

// computeDominators implements InterCodeBasicBlock::PropagateDominator:
// iterative dominator refinement to a fixed point (spec §4.2 step 8).
// Unreachable blocks keep Dominator == ir.NoSuccessor.
func computeDominators(p *ir.Procedure) {
	reach := p.Reachable()
	preds := p.Predecessors()

	// Reverse postorder gives fast convergence; compute it via a simple
	// postorder DFS from the entry block.
	order := reversePostorder(p)

	idom := make([]int, len(p.Blocks))
	for i := range idom {
		idom[i] = ir.NoSuccessor
	}
	idom[p.EntryBlock] = p.EntryBlock

	changed := true
	for changed {
		changed = false
		for _, bi := range order {
			if bi == p.EntryBlock {
				continue
			}
			if !reach[bi] {
				continue
			}
			newIdom := ir.NoSuccessor
			for _, pr := range preds[bi] {
				if !reach[pr] || idom[pr] == ir.NoSuccessor {
					continue
				}
				if newIdom == ir.NoSuccessor {
					newIdom = pr
					continue
				}
				newIdom = intersect(idom, order, newIdom, pr)
			}
			if newIdom != ir.NoSuccessor && newIdom != idom[bi] {
				idom[bi] = newIdom
				changed = true
			}
		}
	}

	for _, bi := range order {
		if reach[bi] {
			p.Blocks[bi].Dominator = idom[bi]
		}
	}
}

// reversePostorder returns the indices of the blocks reachable from the
// entry block in reverse postorder.
func reversePostorder(p *ir.Procedure) []int {
	seen := make([]bool, len(p.Blocks))
	var post []int
	var visit func(int)
	visit = func(bi int) {
		if bi < 0 || bi >= len(p.Blocks) || seen[bi] {
			return
		}
		seen[bi] = true
		b := p.Blocks[bi]
		for _, s := range b.Successors() {
			visit(s)
		}
		post = append(post, bi)
	}
	visit(p.EntryBlock)
	// reverse
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

func intersect(idom []int, order []int, a, b int) int {
	pos := make(map[int]int, len(order))
	for i, bi := range order {
		pos[bi] = i
	}
	for a != b {
		for pos[a] > pos[b] {
			a = idom[a]
		}
		for pos[b] > pos[a] {
			b = idom[b]
		}
	}
	return a
}

// Dominates reports whether block `dom` dominates block `b` (including
// dom == b).
func Dominates(p *ir.Procedure, dom, b int) bool {
	for b != ir.NoSuccessor {
		if b == dom {
			return true
		}
		next := p.Blocks[b].Dominator
		if next == b {
			return b == dom
		}
		b = next
	}
	return false
}

// LoopHeads returns the set of block indices that are loop heads: a
// block is a loop head when it dominates at least one of its own
// predecessors (spec §4.2 step 9).
func LoopHeads(p *ir.Procedure) map[int]bool {
	preds := p.Predecessors()
	heads := make(map[int]bool)
	for _, b := range p.Blocks {
		if b == nil {
			continue
		}
		for _, pr := range preds[b.Index] {
			if Dominates(p, b.Index, pr) {
				heads[b.Index] = true
				break
			}
		}
	}
	return heads
}

// LoopBody collects every block dominated by head that can reach a
// back edge into head without leaving head's dominator subtree — the
// inner-loop detection of spec §4.2 step 9.
func LoopBody(p *ir.Procedure, head int) map[int]bool {
	preds := p.Predecessors()
	body := map[int]bool{head: true}
	// Seed with predecessors of head that head dominates (the back-edge sources).
	var worklist []int
	for _, pr := range preds[head] {
		if Dominates(p, head, pr) && !body[pr] {
			body[pr] = true
			worklist = append(worklist, pr)
		}
	}
	for len(worklist) > 0 {
		bi := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, pr := range preds[bi] {
			if !body[pr] {
				body[pr] = true
				worklist = append(worklist, pr)
			}
		}
	}
	return body
}
