package native

import "testing"

// TestBuildObjectResolvesShortBranch is spec §4.3's CalculateOffset in
// its common case: a branch whose target is well within range gets a
// two-byte short-form displacement computed against the assembled
// block offsets, not a fixed zero.
func TestBuildObjectResolvesShortBranch(t *testing.T) {
	b0 := NewBlock(0)
	b0.Append(Instruction{Opcode: OpLDA, Mode: ModeImmediate, Operand: 1})
	b0.Append(Instruction{Opcode: OpBEQ, Mode: ModeRelative, Target: 1})
	b0.Append(Instruction{Opcode: OpJMP, Mode: ModeAbsolute, Target: 1})

	b1 := NewBlock(1)
	b1.Append(Instruction{Opcode: OpRTS, Mode: ModeImplied})

	obj := BuildObject("p", []*Block{b0, b1})

	// LDA #1 (2 bytes), BEQ disp (2 bytes), JMP abs (3 bytes) = block 1
	// starts at offset 7; the BEQ sits at offset 2, branchEnd 4, so its
	// displacement should be 7-4 = 3.
	if obj.Data[0] != 0xA9 || obj.Data[1] != 1 {
		t.Fatalf("unexpected LDA encoding: % X", obj.Data[:2])
	}
	if obj.Data[2] != opcodeByte[OpBEQ][ModeRelative] {
		t.Fatalf("expected BEQ opcode byte at offset 2, got %#x", obj.Data[2])
	}
	if disp := int8(obj.Data[3]); disp != 3 {
		t.Fatalf("BEQ displacement = %d, want 3", disp)
	}
}

// TestBuildObjectRelaxesOutOfRangeBranch forces a branch whose target
// sits well past the signed-byte displacement range and checks it gets
// rewritten to the long invert-and-JMP form instead of silently
// truncating/wrapping.
func TestBuildObjectRelaxesOutOfRangeBranch(t *testing.T) {
	b0 := NewBlock(0)
	b0.Append(Instruction{Opcode: OpBNE, Mode: ModeRelative, Target: 2})

	b1 := NewBlock(1)
	for i := 0; i < 200; i++ {
		b1.Append(Instruction{Opcode: OpNOP, Mode: ModeImplied})
	}

	b2 := NewBlock(2)
	b2.Append(Instruction{Opcode: OpRTS, Mode: ModeImplied})

	obj := BuildObject("p", []*Block{b0, b1, b2})

	if obj.Data[0] != opcodeByte[OpBEQ][ModeRelative] {
		t.Fatalf("expected the branch inverted to BEQ for the long form, got %#x", obj.Data[0])
	}
	if obj.Data[1] != 3 {
		t.Fatalf("expected the inverted branch to skip the 3-byte JMP, got displacement %d", int8(obj.Data[1]))
	}
	if obj.Data[2] != opcodeByte[OpJMP][ModeAbsolute] {
		t.Fatalf("expected a JMP after the inverted branch, got %#x", obj.Data[2])
	}
	if len(obj.References) != 1 {
		t.Fatalf("expected one self-reference for the relaxed JMP's target, got %d", len(obj.References))
	}
	ref := obj.References[0]
	if ref.Target != obj || ref.Offset != 3 {
		t.Fatalf("unexpected relaxed-branch reference: %+v", ref)
	}
}
