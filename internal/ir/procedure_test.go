package ir

import "testing"

func TestWalkVisitsReachableOnly(t *testing.T) {
	p := NewProcedure(nil)
	loc := Location{File: "t.c", Line: 1}
	p.Blocks[0].Append(ReturnValue(IntOperand(1, TypeInt32), loc))

	unreachable := p.NewBlock()
	unreachable.Append(ReturnValue(IntOperand(2, TypeInt32), loc))

	var visited []int
	p.Walk(func(b *BasicBlock) { visited = append(visited, b.Index) })

	if len(visited) != 1 || visited[0] != 0 {
		t.Fatalf("Walk visited %v, want only [0]", visited)
	}
}

func TestPredecessors(t *testing.T) {
	p := NewProcedure(nil)
	loc := Location{File: "t.c", Line: 1}
	entry := p.Blocks[0]
	thenB := p.NewBlock()
	elseB := p.NewBlock()
	join := p.NewBlock()

	entry.TrueTarget = thenB.Index
	entry.FalseTarget = elseB.Index
	thenB.TrueTarget = join.Index
	elseB.TrueTarget = join.Index
	join.Append(ReturnValue(IntOperand(0, TypeInt32), loc))

	preds := p.Predecessors()
	if len(preds[join.Index]) != 2 {
		t.Fatalf("join block should have 2 predecessors, got %d", len(preds[join.Index]))
	}
}

func TestNewTempAssignsSizes(t *testing.T) {
	p := NewProcedure(nil)
	a := p.NewTemp(TypeInt32)
	b := p.NewTemp(TypeBool)
	if p.TempSizes[a] != 4 {
		t.Errorf("int32 temp size = %d, want 4", p.TempSizes[a])
	}
	if p.TempSizes[b] != 1 {
		t.Errorf("bool temp size = %d, want 1", p.TempSizes[b])
	}
	if p.NumTemps() != 2 {
		t.Errorf("NumTemps() = %d, want 2", p.NumTemps())
	}
}
