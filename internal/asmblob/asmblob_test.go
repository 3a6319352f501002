package asmblob

import "testing"

func TestReferencesCollectsUniqueRefOperandsInOrder(t *testing.T) {
	b := &Blob{Statements: []Statement{
		{Mnemonic: "lda", Operands: []Operand{{Kind: OperandRef, Ident: "x"}}},
		{Mnemonic: "sta", Operands: []Operand{{Kind: OperandRef, Ident: "y"}}},
		{Mnemonic: "adc", Operands: []Operand{{Kind: OperandRef, Ident: "x"}, {Kind: OperandLiteral, Value: 1}}},
	}}

	got := b.References()
	want := []string{"x", "y"}
	if len(got) != len(want) {
		t.Fatalf("References() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("References()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReferencesSkipsNonRefOperands(t *testing.T) {
	b := &Blob{Statements: []Statement{
		{Mnemonic: "lda", Operands: []Operand{{Kind: OperandLiteral, Value: 5}, {Kind: OperandRaw, Value: 0xEA}}},
	}}
	if got := b.References(); len(got) != 0 {
		t.Fatalf("References() = %v, want empty", got)
	}
}
