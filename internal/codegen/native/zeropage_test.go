package native

import "testing"

func TestRemapZeroPageCompactsSparseAddresses(t *testing.T) {
	b := NewBlock(0)
	b.Append(Instruction{Opcode: OpLDA, Mode: ModeZeroPage, Operand: 40})
	b.Append(Instruction{Opcode: OpSTA, Mode: ModeZeroPage, Operand: 41})
	b.Append(Instruction{Opcode: OpLDA, Mode: ModeZeroPage, Operand: 200})

	remap := RemapZeroPage([]*Block{b})

	if len(remap) != 3 {
		t.Fatalf("len(remap) = %d, want 3", len(remap))
	}
	if b.Instructions[0].Operand != 0 || b.Instructions[1].Operand != 1 || b.Instructions[2].Operand != 2 {
		t.Fatalf("expected addresses compacted to 0,1,2 in order, got %+v", b.Instructions)
	}
}

func TestRemapZeroPagePreservesPairOrder(t *testing.T) {
	b := NewBlock(0)
	b.Append(Instruction{Opcode: OpLDA, Mode: ModeZeroPage, Operand: 10})
	b.Append(Instruction{Opcode: OpLDA, Mode: ModeZeroPage, Operand: 11})

	RemapZeroPage([]*Block{b})

	if b.Instructions[1].Operand != b.Instructions[0].Operand+1 {
		t.Fatalf("expected 10,11 to remain adjacent after remap, got %+v", b.Instructions)
	}
}
