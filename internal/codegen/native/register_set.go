// Package native implements the 6502 native code generator of spec
// §4.3: lowering from the IR, a register-simulation forwarding pass,
// peephole rewrites, zero-page remapping, and optional X/Y global
// register assignment.
//
// Grounded on tinyrange-rtg's std/compiler/backend_vm.go, whose VM
// struct tracks flat, indexable interpreter state (registers, stack,
// memory) the way NativeRegisterDataSet tracks 260 6502 register/
// zero-page cells here — the same "flat array beats an interface per
// cell" idiom, generalized from a bytecode VM's state to a native
// target's.
package native

import "github.com/go6502cc/oscarcc/internal/link"

// CellMode is what a modeled register cell is currently known to hold.
type CellMode int

const (
	Unknown CellMode = iota
	Immediate
	ImmediateAddress
	ZeroPage
	Absolute
)

// Cell is the per-register-cell forwarding state: a mode, the value or
// address it's known to equal, and (for ABSOLUTE/ImmediateAddress cells)
// the linker object the value is relative to.
type Cell struct {
	Mode  CellMode
	Value int
	Obj   *link.Object
}

// NumCells is the 260 modeled register cells: A, X, Y, a single P cell
// for the status flags, and the 256 zero-page bytes.
const NumCells = 4 + 256

const (
	CellA = iota
	CellX
	CellY
	CellP
	CellZP0 // zero page byte 0 starts here; byte i is CellZP0+i
)

// DataSet is NativeRegisterDataSet: the forwarding simulator's state at
// one program point.
type DataSet struct {
	Cells [NumCells]Cell
}

// NewDataSet returns a data set with every cell Unknown.
func NewDataSet() *DataSet {
	return &DataSet{}
}

// Clone returns an independent copy.
func (d *DataSet) Clone() *DataSet {
	c := *d
	return &c
}

// Intersect merges incoming predecessor states cell-wise: a cell stays
// at its current value only if other agrees exactly, otherwise it
// degrades to Unknown (spec §4.3's block-entry intersection).
func (d *DataSet) Intersect(other *DataSet) {
	for i := range d.Cells {
		a, b := d.Cells[i], other.Cells[i]
		if a.Mode != b.Mode || a.Value != b.Value || a.Obj != b.Obj {
			d.Cells[i] = Cell{}
		}
	}
}

// Set records that cell i is now known to hold value under mode.
func (d *DataSet) Set(i int, mode CellMode, value int, obj *link.Object) {
	d.Cells[i] = Cell{Mode: mode, Value: value, Obj: obj}
}

// Forget clears cell i back to Unknown; used whenever an instruction's
// effect on a cell can't be modeled precisely (e.g. after a call, every
// cell a callee might clobber).
func (d *DataSet) Forget(i int) {
	d.Cells[i] = Cell{}
}

// KnownImmediate reports whether cell i is known to already hold the
// literal value v, letting the generator drop a redundant load.
func (d *DataSet) KnownImmediate(i, v int) bool {
	c := d.Cells[i]
	return c.Mode == Immediate && c.Value == v
}

// ZPIndex returns the DataSet cell index for zero-page byte zp.
func ZPIndex(zp int) int { return CellZP0 + zp }
