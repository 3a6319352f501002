package ir

import "testing"

func TestBitSetUnionIntersectSubtract(t *testing.T) {
	a := NewBitSet(130)
	b := NewBitSet(130)
	a.Set(1)
	a.Set(64)
	a.Set(129)
	b.Set(64)
	b.Set(2)

	union := a.Clone()
	if !union.Union(b) {
		t.Fatalf("expected Union to report a change")
	}
	for _, i := range []int{1, 2, 64, 129} {
		if !union.Test(i) {
			t.Errorf("expected bit %d set after union", i)
		}
	}

	inter := a.Clone()
	inter.Intersect(b)
	if !inter.Test(64) || inter.Test(1) || inter.Test(2) {
		t.Errorf("intersect result wrong: %v", inter)
	}

	sub := a.Clone()
	sub.Subtract(b)
	if sub.Test(64) || !sub.Test(1) || !sub.Test(129) {
		t.Errorf("subtract result wrong: %v", sub)
	}
}

func TestBitSetSupersetAndCount(t *testing.T) {
	required := NewBitSet(10)
	required.Set(3)
	required.Set(5)

	provided := NewBitSet(10)
	provided.Set(3)

	if provided.IsSupersetOf(required) {
		t.Fatalf("provided should not be a superset of required")
	}
	provided.Set(5)
	if !provided.IsSupersetOf(required) {
		t.Fatalf("provided should now be a superset of required")
	}
	if got := provided.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
}

func TestBitSetEach(t *testing.T) {
	b := NewBitSet(200)
	want := []int{0, 63, 64, 128, 199}
	for _, i := range want {
		b.Set(i)
	}
	var got []int
	b.Each(func(i int) { got = append(got, i) })
	if len(got) != len(want) {
		t.Fatalf("Each visited %d indices, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Each order mismatch at %d: got %d want %d", i, got[i], want[i])
		}
	}
}
