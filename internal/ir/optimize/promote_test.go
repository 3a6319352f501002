package optimize

import (
	"testing"

	"github.com/go6502cc/oscarcc/internal/ir"
)

func TestPromoteSimpleLocalsRewritesUnaddressedLocal(t *testing.T) {
	mod := ir.NewModule()
	p := ir.NewProcedure(mod.Idents.Unique("f"))
	loc := ir.Location{File: "fixture.c", Line: 1}
	p.LocalVars = []ir.Var{{Name: "x", Type: ir.TypeInt32, Size: 4}}
	b := p.Blocks[0]
	b.Append(ir.Move(ir.VarOperand(ir.MemLocal, 0, ir.TypeInt32), ir.IntOperand(5, ir.TypeInt32), loc))
	b.Append(ir.ReturnValue(ir.VarOperand(ir.MemLocal, 0, ir.TypeInt32), loc))
	mod.AddProcedure(p)

	if !PromoteSimpleLocals(p) {
		t.Fatal("expected the unaddressed local to be promoted")
	}
	for _, in := range b.Instructions {
		if in.Dst.Class == ir.MemLocal {
			t.Errorf("dst still references memory: %+v", in.Dst)
		}
		for i := 0; i < in.NumSrc; i++ {
			if in.Src[i].Class == ir.MemLocal {
				t.Errorf("src still references memory: %+v", in.Src[i])
			}
		}
	}
}

func TestPromoteSimpleLocalsSkipsAddressTaken(t *testing.T) {
	mod := ir.NewModule()
	p := ir.NewProcedure(mod.Idents.Unique("f"))
	loc := ir.Location{File: "fixture.c", Line: 1}
	p.LocalVars = []ir.Var{{Name: "x", Type: ir.TypeInt32, Size: 4, AddressTaken: true}}
	b := p.Blocks[0]
	b.Append(ir.Move(ir.VarOperand(ir.MemLocal, 0, ir.TypeInt32), ir.IntOperand(5, ir.TypeInt32), loc))
	mod.AddProcedure(p)

	if PromoteSimpleLocals(p) {
		t.Fatal("expected no promotion: the local's address is taken")
	}
	if b.Instructions[0].Dst.Class != ir.MemLocal {
		t.Error("address-taken local must remain a memory operand")
	}
}
