package voxel

import "testing"

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1.0, 2.0, 3.0)
	b := NewVec3(4.0, -5.0, 6.0)

	if got := a.Add(b); got != NewVec3(5.0, -3.0, 9.0) {
		t.Fatalf("Add = %v", got)
	}
	if got := a.Sub(b); got != NewVec3(-3.0, 7.0, -3.0) {
		t.Fatalf("Sub = %v", got)
	}
	if got := a.Mul(2); got != NewVec3(2.0, 4.0, 6.0) {
		t.Fatalf("Mul = %v", got)
	}
	if got := b.Div(2); got != NewVec3(2.0, -2.5, 3.0) {
		t.Fatalf("Div = %v", got)
	}
	if got := a.Dot(b); got != 12 {
		t.Fatalf("Dot = %v, want 12", got)
	}
	if got := XAxis[float64]().Cross(YAxis[float64]()); got != ZAxis[float64]() {
		t.Fatalf("X x Y = %v, want Z", got)
	}
	if got := b.Abs(); got != NewVec3(4.0, 5.0, 6.0) {
		t.Fatalf("Abs = %v", got)
	}
	if got := a.Min(b); got != NewVec3(1.0, -5.0, 3.0) {
		t.Fatalf("Min = %v", got)
	}
	if got := a.Max(b); got != NewVec3(4.0, 2.0, 6.0) {
		t.Fatalf("Max = %v", got)
	}
	if got := b.MaxAbs(); got != 6 {
		t.Fatalf("MaxAbs = %v, want 6", got)
	}
	if got := NewVec3(3.0, 4.0, 0.0).Length(); got != 5 {
		t.Fatalf("Length = %v, want 5", got)
	}
}

func TestVec3_Axes(t *testing.T) {
	for i, want := range []Vec3[float32]{XAxis[float32](), YAxis[float32](), ZAxis[float32]()} {
		if got := Axis[float32](i); got != want {
			t.Fatalf("Axis(%d) = %v, want %v", i, got, want)
		}
		if got := want.Component(i); got != 1 {
			t.Fatalf("Axis(%d).Component(%d) = %v, want 1", i, i, got)
		}
	}
}

func TestEpsilon(t *testing.T) {
	if got := Epsilon[float32](); float32(1)+got == 1 || float32(1)+got/2 != 1 {
		t.Fatalf("Epsilon[float32] = %v is not the machine epsilon", got)
	}
	if got := Epsilon[float64](); 1+got == 1 || 1+got/2 != 1 {
		t.Fatalf("Epsilon[float64] = %v is not the machine epsilon", got)
	}
}

func TestAABB(t *testing.T) {
	b := NewAABB(NewVec3(1.0, 1.0, 1.0), NewVec3(2.0, 4.0, 6.0))
	if b.Min != NewVec3(0.0, -1.0, -2.0) || b.Max != NewVec3(2.0, 3.0, 4.0) {
		t.Fatalf("NewAABB = %+v", b)
	}
	if b.Center() != NewVec3(1.0, 1.0, 1.0) {
		t.Fatalf("Center = %v", b.Center())
	}
	if b.HalfSize() != NewVec3(1.0, 2.0, 3.0) {
		t.Fatalf("HalfSize = %v", b.HalfSize())
	}

	touching := AABB[float64]{Min: NewVec3(2.0, 0.0, 0.0), Max: NewVec3(3.0, 1.0, 1.0)}
	if !b.Overlaps(touching) || !touching.Overlaps(b) {
		t.Fatalf("boxes sharing a face must overlap")
	}
	apart := AABB[float64]{Min: NewVec3(2.5, 0.0, 0.0), Max: NewVec3(3.0, 1.0, 1.0)}
	if b.Overlaps(apart) {
		t.Fatalf("separated boxes must not overlap")
	}
	if !b.Contains(b.Max) || b.Contains(NewVec3(2.1, 0.0, 0.0)) {
		t.Fatalf("Contains is not boundary inclusive")
	}

	bounds := BoundsOf(NewVec3(1.0, -1.0, 0.0), NewVec3(-2.0, 3.0, 5.0), NewVec3(0.0, 0.0, -1.0))
	if bounds.Min != NewVec3(-2.0, -1.0, -1.0) || bounds.Max != NewVec3(1.0, 3.0, 5.0) {
		t.Fatalf("BoundsOf = %+v", bounds)
	}
}
