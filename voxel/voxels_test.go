package voxel

import "testing"

func TestVoxels_Accessors(t *testing.T) {
	v, err := FromCells(0.5, []Cell{{3, 0, 0}, {0, -2, 5}, {0, -2, 1}, {3, 0, 0}})
	if err != nil {
		t.Fatalf("FromCells failed: %v", err)
	}
	if v.Len() != 3 || v.Step() != 0.5 {
		t.Fatalf("Len = %d, Step = %v", v.Len(), v.Step())
	}
	want := []Cell{{0, -2, 1}, {0, -2, 5}, {3, 0, 0}}
	got := v.Cells()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Cells()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	lo, hi, ok := v.Bounds()
	if !ok || lo != (Cell{0, -2, 0}) || hi != (Cell{3, 0, 5}) {
		t.Fatalf("Bounds = %v %v %v", lo, hi, ok)
	}
	if v.Volume() != 3*0.125 {
		t.Fatalf("Volume = %v", v.Volume())
	}
}

func TestVoxels_CloneAndFingerprint(t *testing.T) {
	v, _ := FromCells(1.0, []Cell{{1, 2, 3}, {4, 5, 6}})
	c := v.Clone()
	if !c.Equal(v) || c.Fingerprint() != v.Fingerprint() {
		t.Fatalf("clone differs from original")
	}
	c.cells[Cell{9, 9, 9}] = struct{}{}
	if v.Contains(Cell{9, 9, 9}) {
		t.Fatalf("clone shares storage with the original")
	}
	other, _ := FromCells(1.0, []Cell{{1, 2, 3}})
	if other.Equal(v) || other.Fingerprint() == v.Fingerprint() {
		t.Fatalf("different sets compare equal")
	}
	rescaled, _ := FromCells(2.0, v.Cells())
	if rescaled.Equal(v) || rescaled.Fingerprint() == v.Fingerprint() {
		t.Fatalf("step is ignored by Equal or Fingerprint")
	}
}
