package ir

import "github.com/go6502cc/oscarcc/internal/ident"

// ProcFlags are per-procedure flags (spec §3).
type ProcFlags int

const (
	ProcLeaf ProcFlags = 1 << iota
	ProcNativeOnly
	ProcCallsFunctionPointer
	ProcHasDynamicStack
	ProcHasInlineAsm
	ProcCallsByteCode
	ProcFastCall
)

func (f ProcFlags) Has(bit ProcFlags) bool { return f&bit != 0 }

// Var describes a local variable or parameter: its type and whether its
// address has ever been taken (which blocks simple-locals promotion,
// spec §4.2 step 11, and forwarding through memory, step 5).
type Var struct {
	Name         string
	Type         Type
	Size         int
	AddressTaken bool
}

// Procedure is a CFG of basic blocks plus the temporary/variable tables
// the blocks' operands index into (spec §3).
type Procedure struct {
	Ident *ident.Ident

	EntryBlock int
	Blocks     []*BasicBlock

	// Temporaries: parallel slices indexed by temporary number.
	TempTypes   []Type
	TempSizes   []int
	TempOffsets []int // byte offset assigned by coalescing (spec §4.2 step 10)

	LocalVars []Var
	ParamVars []Var

	Section string // section-binding; the linker object is attached once codegen runs
	Obj     LinkObjectRef

	Flags ProcFlags
}

// NewProcedure returns an empty procedure bound to name, with a single
// empty entry block.
func NewProcedure(name *ident.Ident) *Procedure {
	p := &Procedure{Ident: name}
	entry := NewBasicBlock(0)
	p.Blocks = append(p.Blocks, entry)
	p.EntryBlock = 0
	return p
}

// NewTemp allocates a fresh temporary of the given type and returns its
// number.
func (p *Procedure) NewTemp(ty Type) int {
	n := len(p.TempTypes)
	p.TempTypes = append(p.TempTypes, ty)
	sz := ty.Size()
	p.TempSizes = append(p.TempSizes, sz)
	p.TempOffsets = append(p.TempOffsets, -1)
	return n
}

// NumTemps returns how many temporaries have been allocated.
func (p *Procedure) NumTemps() int { return len(p.TempTypes) }

// NewBlock appends a fresh empty block and returns it.
func (p *Procedure) NewBlock() *BasicBlock {
	b := NewBasicBlock(len(p.Blocks))
	p.Blocks = append(p.Blocks, b)
	return b
}

// Block returns the block at index i, or nil if out of range.
func (p *Procedure) Block(i int) *BasicBlock {
	if i < 0 || i >= len(p.Blocks) {
		return nil
	}
	return p.Blocks[i]
}

// Walk calls fn for every block reachable from the entry block, once
// each, in a stable order (entry first, then depth-first preorder, the
// last-listed successor visited first). Used by passes that don't need a particular traversal
// order (e.g. dataflow set computation re-walks to a fixed point
// regardless of order).
func (p *Procedure) Walk(fn func(*BasicBlock)) {
	seen := make([]bool, len(p.Blocks))
	var stack []int
	stack = append(stack, p.EntryBlock)
	var order []int
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if i < 0 || i >= len(p.Blocks) || seen[i] {
			continue
		}
		seen[i] = true
		order = append(order, i)
		b := p.Blocks[i]
		for _, s := range b.Successors() {
			stack = append(stack, s)
		}
	}
	for _, i := range order {
		fn(p.Blocks[i])
	}
}

// Reachable returns the set of block indices reachable from the entry
// block.
func (p *Procedure) Reachable() map[int]bool {
	out := make(map[int]bool)
	p.Walk(func(b *BasicBlock) { out[b.Index] = true })
	return out
}

// Predecessors computes, for every block, the indices of blocks whose
// successor it is. Recomputed on demand rather than kept incrementally
// consistent, matching the teacher's preference for deriving state from
// the CFG rather than maintaining redundant back-links (std/compiler/ir.go
// never stores predecessor lists either).
func (p *Procedure) Predecessors() [][]int {
	preds := make([][]int, len(p.Blocks))
	for _, b := range p.Blocks {
		if b == nil {
			continue
		}
		for _, s := range b.Successors() {
			preds[s] = append(preds[s], b.Index)
		}
	}
	return preds
}
