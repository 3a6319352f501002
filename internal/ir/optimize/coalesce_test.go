package optimize

import (
	"testing"

	"github.com/go6502cc/oscarcc/internal/ir"
	"github.com/go6502cc/oscarcc/internal/ir/fixture"
)

func TestCoalesceAssignsDisjointOffsetsToInterferingTemps(t *testing.T) {
	mod := ir.NewModule()
	p := fixture.LoopSum(mod, "sum")

	total := Coalesce(p)
	if total <= 0 {
		t.Fatalf("expected a positive scratch size, got %d", total)
	}
	for i, off := range p.TempOffsets {
		if off < 0 {
			t.Errorf("temp %d left unassigned", i)
		}
	}

	// s and i (temps 0 and 1 in fixture.LoopSum) are both live across the
	// loop body and must never share bytes.
	s, i := 0, 1
	sOff, iOff := p.TempOffsets[s], p.TempOffsets[i]
	sSize, iSize := p.TempSizes[s], p.TempSizes[i]
	overlap := sOff < iOff+iSize && iOff < sOff+sSize
	if overlap {
		t.Fatalf("interfering temps s=[%d,%d) and i=[%d,%d) overlap", sOff, sOff+sSize, iOff, iOff+iSize)
	}
}

func TestCoalesceReusesBytesForNonOverlappingTemps(t *testing.T) {
	mod := ir.NewModule()
	p := ir.NewProcedure(mod.Idents.Unique("seq"))
	loc := ir.Location{File: "fixture.c", Line: 1}
	a := p.NewTemp(ir.TypeInt32)
	b := p.NewTemp(ir.TypeInt32)
	blk := p.Blocks[0]
	blk.Append(ir.Move(ir.TempOperand(a, ir.TypeInt32), ir.IntOperand(1, ir.TypeInt32), loc))
	blk.Append(ir.ReturnValue(ir.TempOperand(a, ir.TypeInt32), loc))
	blk.Append(ir.Move(ir.TempOperand(b, ir.TypeInt32), ir.IntOperand(2, ir.TypeInt32), loc))
	mod.AddProcedure(p)

	Coalesce(p)
	if p.TempOffsets[a] != p.TempOffsets[b] {
		t.Errorf("non-interfering temps should share an offset, got a=%d b=%d", p.TempOffsets[a], p.TempOffsets[b])
	}
}
