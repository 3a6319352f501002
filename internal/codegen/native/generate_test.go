package native

import (
	"testing"

	"github.com/go6502cc/oscarcc/internal/diag"
	"github.com/go6502cc/oscarcc/internal/ir"
	"github.com/go6502cc/oscarcc/internal/ir/fixture"
	"github.com/go6502cc/oscarcc/internal/ir/optimize"
)

func TestGenerateConstReturnLoadsAndReturns(t *testing.T) {
	mod := ir.NewModule()
	p := fixture.ConstReturn(mod, "answer", 42)

	sink := &diag.Sink{}
	g := NewGenerator(Runtime{}, sink)
	blocks := g.Generate(p)

	if len(blocks) != 1 {
		t.Fatalf("len(blocks) = %d, want 1", len(blocks))
	}
	b := blocks[0]

	var sawImmediate, sawRTS bool
	for _, in := range b.Instructions {
		if in.Opcode == OpLDA && in.Mode == ModeImmediate && in.Operand == 42 {
			sawImmediate = true
		}
		if in.Opcode == OpRTS {
			sawRTS = true
		}
	}
	if !sawImmediate {
		t.Fatalf("expected an LDA #42 in %+v", b.Instructions)
	}
	if !sawRTS {
		t.Fatalf("expected a trailing RTS in %+v", b.Instructions)
	}
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", sink.All())
	}
}

func TestGenerateLoopSumEmitsInlineAddAndBranch(t *testing.T) {
	mod := ir.NewModule()
	p := fixture.LoopSum(mod, "sum")

	sink := &diag.Sink{}
	g := NewGenerator(Runtime{}, sink)
	blocks := g.Generate(p)

	body := blocks[2]
	var sawADC, sawCLC bool
	for _, in := range body.Instructions {
		if in.Opcode == OpADC {
			sawADC = true
		}
		if in.Opcode == OpCLC {
			sawCLC = true
		}
	}
	if !sawADC || !sawCLC {
		t.Fatalf("expected an inline CLC/ADC sequence in loop body, got %+v", body.Instructions)
	}

	header := blocks[1]
	var sawBranch bool
	for _, in := range header.Instructions {
		switch in.Opcode {
		case OpBCC, OpBCS, OpBEQ, OpBNE:
			sawBranch = true
		}
	}
	if !sawBranch {
		t.Fatalf("expected a conditional branch lowering the loop header's comparison, got %+v", header.Instructions)
	}
}

func TestZpSlotIndexesTempOffsetsNotRawTempIndex(t *testing.T) {
	mod := ir.NewModule()
	p := ir.NewProcedure(mod.Idents.Unique("p"))
	a := p.NewTemp(ir.TypeInt32)
	b := p.NewTemp(ir.TypeInt32)
	// A raw-index reading of zpSlot would return a and b unchanged; a
	// TempOffsets-indexed reading must return the coalesced offsets
	// below instead, which deliberately disagree with the temp indices.
	p.TempOffsets[a] = 7
	p.TempOffsets[b] = 3

	if got := zpSlot(p, ir.TempOperand(a, ir.TypeInt32)); got != 7 {
		t.Fatalf("zpSlot(a) = %d, want 7 (TempOffsets[a])", got)
	}
	if got := zpSlot(p, ir.TempOperand(b, ir.TypeInt32)); got != 3 {
		t.Fatalf("zpSlot(b) = %d, want 3 (TempOffsets[b])", got)
	}
}

// TestGenerateMaterializesLoopSumEdges is testable property #7: every
// block's CFG edge (spec's TrueTarget/FalseTarget) becomes a real
// branch/JMP instruction with a resolved Target, not a dangling index.
func TestGenerateMaterializesLoopSumEdges(t *testing.T) {
	mod := ir.NewModule()
	p := fixture.LoopSum(mod, "sum")
	optimize.Coalesce(p)

	sink := &diag.Sink{}
	g := NewGenerator(Runtime{}, sink)
	blocks := g.Generate(p)

	pre, header, body := blocks[0], blocks[1], blocks[2]

	last := pre.Instructions[len(pre.Instructions)-1]
	if last.Opcode != OpJMP || last.Target != header.Index {
		t.Fatalf("pre block should end with JMP to header, got %+v", last)
	}

	var branch, jmp *Instruction
	for i := range header.Instructions {
		in := &header.Instructions[i]
		switch in.Opcode {
		case OpBCC, OpBCS, OpBEQ, OpBNE:
			branch = in
		case OpJMP:
			jmp = in
		}
	}
	if branch == nil || branch.Target != body.Index {
		t.Fatalf("header's conditional branch should target body (%d), got %+v", body.Index, branch)
	}
	if jmp == nil || jmp.Target != header.FalseTarget {
		t.Fatalf("header should fall through with a JMP to its FalseTarget, got %+v", jmp)
	}

	last = body.Instructions[len(body.Instructions)-1]
	if last.Opcode != OpJMP || last.Target != header.Index {
		t.Fatalf("body block should end with JMP back to header, got %+v", last)
	}
}

func TestGenerateMissingRuntimeHelperReportsDiagnostic(t *testing.T) {
	mod := ir.NewModule()
	p := ir.NewProcedure(mod.Idents.Unique("needs_mul"))
	loc := ir.Location{File: "t.c", Line: 1}
	a := p.NewTemp(ir.TypeInt32)
	r := p.NewTemp(ir.TypeInt32)
	b := p.Blocks[0]
	b.Append(ir.Binary(ir.OpMul, ir.TempOperand(r, ir.TypeInt32), ir.TempOperand(a, ir.TypeInt32), ir.IntOperand(3, ir.TypeInt32), loc))
	b.Append(ir.ReturnValue(ir.TempOperand(r, ir.TypeInt32), loc))
	mod.AddProcedure(p)

	sink := &diag.Sink{}
	g := NewGenerator(Runtime{}, sink)
	g.Generate(p)

	if sink.ErrorCount() == 0 {
		t.Fatalf("expected a diagnostic for the unregistered mul16 helper")
	}
}
