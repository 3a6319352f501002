package link

import "testing"

func TestAddDataAndAddSpaceCompose(t *testing.T) {
	o := NewObject("o", ObjectNormal)
	o.AddData([]byte{1, 2, 3})
	o.AddSpace(5)
	if o.Size != 8 {
		t.Fatalf("Size = %d, want 8 (3 data bytes + 5 reserved)", o.Size)
	}
	if len(o.Data) != 3 {
		t.Fatalf("len(Data) = %d, want 3", len(o.Data))
	}
}

func TestAddSpaceThenAddDataDoesNotShrinkSize(t *testing.T) {
	o := NewObject("o", ObjectNormal)
	o.AddSpace(8)
	o.AddData([]byte{1, 2})
	if o.Size != 8 {
		t.Fatalf("Size = %d, want 8 (reserved space dominates)", o.Size)
	}
}
