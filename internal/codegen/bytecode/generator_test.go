package bytecode

import (
	"testing"

	"github.com/go6502cc/oscarcc/internal/diag"
	"github.com/go6502cc/oscarcc/internal/ir"
	"github.com/go6502cc/oscarcc/internal/ir/fixture"
)

func TestGenerateConstReturnEmitsPushAndReturn(t *testing.T) {
	mod := ir.NewModule()
	p := fixture.ConstReturn(mod, "answer", 42)

	g := NewGenerator(&diag.Sink{})
	stream := g.Generate(p)

	if len(stream) == 0 {
		t.Fatalf("expected a non-empty byte-code stream")
	}
	if stream[len(stream)-1] != byte(OpReturn) {
		t.Fatalf("expected stream to end with OpReturn, got %v", stream)
	}
	if g.Used[OpPushConst32] == 0 {
		t.Fatalf("expected OpPushConst32 to be counted as used for an int32 constant")
	}
}

func TestGenerateLoopSumEmitsBranchAndJump(t *testing.T) {
	mod := ir.NewModule()
	p := fixture.LoopSum(mod, "sum")

	g := NewGenerator(&diag.Sink{})
	stream := g.Generate(p)

	if g.Used[OpBranchFalse] == 0 {
		t.Fatalf("expected the loop header's conditional branch to emit OpBranchFalse")
	}
	if g.Used[OpJump] == 0 {
		t.Fatalf("expected the loop body's back edge to emit OpJump")
	}
	_ = stream
}

func TestExtendedOpcodeMarksUsedExtended(t *testing.T) {
	mod := ir.NewModule()
	p := ir.NewProcedure(mod.Idents.Unique("p"))
	loc := ir.Location{File: "t.c", Line: 1}
	p.Blocks[0].Append(ir.Instruction{Opcode: ir.OpHostCall, Loc: loc})
	mod.AddProcedure(p)

	g := NewGenerator(&diag.Sink{})
	g.Generate(p)

	if !g.UsedExtended[OpHostCall] {
		t.Fatalf("expected OpHostCall to be recorded in UsedExtended")
	}
}
