package unionfind

import "testing"

func TestUnionFindDeterministicRepresentative(t *testing.T) {
	s := New(5)
	s.Union(3, 1)
	s.Union(4, 3)

	if got := s.Find(4); got != 1 {
		t.Fatalf("Find(4) = %d, want 1 (lowest id in {1,3,4})", got)
	}
	if got := s.Find(1); got != 1 {
		t.Fatalf("Find(1) = %d, want 1", got)
	}
	if got := s.Find(0); got != 0 {
		t.Fatalf("Find(0) = %d, want 0 (untouched singleton)", got)
	}

	mapping := s.Mapping()
	want := []int{0, 1, 2, 1, 1}
	for i, w := range want {
		if mapping[i] != w {
			t.Errorf("Mapping()[%d] = %d, want %d", i, mapping[i], w)
		}
	}
}
