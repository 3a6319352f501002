// Package unionfind implements a disjoint-set structure used by the
// optimizer's temporary-rename pass (spec §4.2 step 3) to merge
// temporaries that must refer to the same value across CFG join points.
package unionfind

// Set is a disjoint-set forest over the dense integer range [0, n).
type Set struct {
	parent []int
}

// New returns a Set where every element starts in its own singleton set.
func New(n int) *Set {
	s := &Set{parent: make([]int, n)}
	for i := range s.parent {
		s.parent[i] = i
	}
	return s
}

// Find returns the canonical representative of x's set, with path
// compression.
func (s *Set) Find(x int) int {
	for s.parent[x] != x {
		s.parent[x] = s.parent[s.parent[x]]
		x = s.parent[x]
	}
	return x
}

// Union merges the sets containing a and b. The smaller-numbered
// representative always wins so the resulting mapping is deterministic
// regardless of union order, which the rename pass's second pass
// (applying the unified mapping) depends on.
func (s *Set) Union(a, b int) {
	ra, rb := s.Find(a), s.Find(b)
	if ra == rb {
		return
	}
	if ra > rb {
		ra, rb = rb, ra
	}
	s.parent[rb] = ra
}

// Mapping returns, for every element, its canonical representative.
func (s *Set) Mapping() []int {
	out := make([]int, len(s.parent))
	for i := range out {
		out[i] = s.Find(i)
	}
	return out
}
