package optimize

import (
	"testing"

	"github.com/go6502cc/oscarcc/internal/config"
	"github.com/go6502cc/oscarcc/internal/ir"
	"github.com/go6502cc/oscarcc/internal/ir/fixture"
)

func TestRunConvergesOnLoopSum(t *testing.T) {
	mod := ir.NewModule()
	fixture.LoopSum(mod, "sum")
	cfg := config.Preset("basic")

	Run(nil, mod, cfg)

	p := mod.Procedures[0]
	for i, off := range p.TempOffsets {
		if off < 0 {
			t.Errorf("temp %d left without a coalesced offset after Run", i)
		}
	}
}

func TestRunFoldsConstantReturn(t *testing.T) {
	mod := ir.NewModule()
	fixture.ConstReturn(mod, "answer", 42)
	cfg := config.Preset("basic")

	Run(nil, mod, cfg)

	p := mod.Procedures[0]
	var ret *ir.Instruction
	p.Walk(func(b *ir.BasicBlock) {
		for ii := range b.Instructions {
			if b.Instructions[ii].Opcode == ir.OpReturnValue {
				ret = &b.Instructions[ii]
			}
		}
	})
	if ret == nil {
		t.Fatal("no return instruction survived")
	}
	if ret.Src[0].IsTemp() {
		t.Fatalf("expected the return operand to be forwarded to a constant, got %+v", ret.Src[0])
	}
	if ret.Src[0].IntConst != 42 {
		t.Fatalf("returned constant = %d, want 42", ret.Src[0].IntConst)
	}
}

func TestRunWithoutBasicStillRenamesAndCoalesces(t *testing.T) {
	mod := ir.NewModule()
	fixture.DeadStore(mod, "ds")
	cfg := config.Settings{Native: true}

	Run(nil, mod, cfg)

	p := mod.Procedures[0]
	if len(p.Blocks[0].Instructions) != 3 {
		t.Fatalf("got %d instructions, want 3 (no optimization passes requested)", len(p.Blocks[0].Instructions))
	}
	for i, off := range p.TempOffsets {
		if off < 0 {
			t.Errorf("temp %d left without a coalesced offset", i)
		}
	}
}
