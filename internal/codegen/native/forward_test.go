package native

import "testing"

func TestSimulateBlockDropsRedundantImmediateLoad(t *testing.T) {
	b := NewBlock(0)
	b.Append(Instruction{Opcode: OpLDA, Mode: ModeImmediate, Operand: 5})
	b.Append(Instruction{Opcode: OpLDA, Mode: ModeImmediate, Operand: 5})

	exit := simulateBlock(NewDataSet(), b)

	if len(b.Instructions) != 1 {
		t.Fatalf("len(Instructions) = %d, want 1 (second load of the same immediate is redundant)", len(b.Instructions))
	}
	if !exit.KnownImmediate(CellA, 5) {
		t.Fatalf("exit state should still know A == 5")
	}
}

func TestSimulateBlockKeepsDifferingImmediateLoad(t *testing.T) {
	b := NewBlock(0)
	b.Append(Instruction{Opcode: OpLDA, Mode: ModeImmediate, Operand: 5})
	b.Append(Instruction{Opcode: OpLDA, Mode: ModeImmediate, Operand: 9})

	simulateBlock(NewDataSet(), b)

	if len(b.Instructions) != 2 {
		t.Fatalf("len(Instructions) = %d, want 2 (A changes value, both loads needed)", len(b.Instructions))
	}
}

func TestIntersectDegradesOnDisagreement(t *testing.T) {
	a := NewDataSet()
	a.Set(CellA, Immediate, 5, nil)
	other := NewDataSet()
	other.Set(CellA, Immediate, 9, nil)

	a.Intersect(other)

	if a.KnownImmediate(CellA, 5) {
		t.Fatalf("A should have degraded to Unknown after disagreeing predecessor states")
	}
}

func TestForwardEntryIntersectsAcrossPredecessors(t *testing.T) {
	blocks := []*Block{NewBlock(0), NewBlock(1), NewBlock(2)}
	blocks[0].Append(Instruction{Opcode: OpLDA, Mode: ModeImmediate, Operand: 1})
	blocks[0].TrueTarget = 2
	blocks[1].Append(Instruction{Opcode: OpLDA, Mode: ModeImmediate, Operand: 2})
	blocks[1].TrueTarget = 2
	blocks[2].Append(Instruction{Opcode: OpLDA, Mode: ModeImmediate, Operand: 1})

	g := &Generator{}
	g.forward(nil, blocks)

	if blocks[2].Entry == nil {
		t.Fatalf("block 2 should have an Entry DataSet")
	}
	if blocks[2].Entry.KnownImmediate(CellA, 1) {
		t.Fatalf("predecessors disagree on A (1 vs 2), entry should not know A==1")
	}
}
