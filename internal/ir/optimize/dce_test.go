package optimize

import (
	"testing"

	"github.com/go6502cc/oscarcc/internal/ir"
	"github.com/go6502cc/oscarcc/internal/ir/fixture"
)

func TestDeadCodeRemovesUnusedTemp(t *testing.T) {
	mod := ir.NewModule()
	p := fixture.DeadStore(mod, "ds")

	if !DeadCode(p) {
		t.Fatal("expected dead code removal to report a change")
	}

	b := p.Blocks[0]
	if len(b.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2 (dead def dropped)", len(b.Instructions))
	}
	for _, in := range b.Instructions {
		if in.Dst.IsTemp() && in.Opcode == ir.OpLoad && in.Src[0].IntConst == 99 {
			t.Fatal("dead store to the unused temp survived")
		}
	}
}

func TestDeadCodeKeepsSideEffects(t *testing.T) {
	mod := ir.NewModule()
	p := ir.NewProcedure(mod.Idents.Unique("call"))
	loc := ir.Location{File: "fixture.c", Line: 1}
	b := p.Blocks[0]
	b.Append(ir.Instruction{Opcode: ir.OpCallNative, Loc: loc, Flags: ir.FlagInUse})
	b.Append(ir.ReturnVoid(loc))
	mod.AddProcedure(p)

	if DeadCode(p) {
		t.Fatal("expected no change: call has a side effect and must be kept")
	}
	if len(b.Instructions) != 2 {
		t.Fatalf("got %d instructions, want 2", len(b.Instructions))
	}
}
