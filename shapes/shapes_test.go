package shapes

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/voxelsplace/meshvox/voxel"
)

func TestKinds(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 5 {
		t.Fatalf("kinds = %v", kinds)
	}
	for _, k := range kinds {
		if _, err := Solid(k, 2); err != nil {
			t.Fatalf("Solid(%s) failed: %v", k, err)
		}
	}
}

func TestSolid_Errors(t *testing.T) {
	if _, err := Solid("teapot", 1); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("error = %v, want ErrUnknownKind", err)
	}
	for _, size := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := Solid("sphere", size); err == nil {
			t.Fatalf("expected error for size %v", size)
		}
	}
}

func TestGenerate_FitsSize(t *testing.T) {
	m, err := Generate("box", 2, 32)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if m.TriangleCount() == 0 {
		t.Fatalf("box produced no triangles")
	}
	lo, hi := m.BoundingBox()
	for i := 0; i < 3; i++ {
		if lo[i] < -1.1 || hi[i] > 1.1 {
			t.Fatalf("bounds %v %v exceed the requested cube", lo, hi)
		}
	}
}

func TestSphereVolume(t *testing.T) {
	const (
		radius = 1.0
		step   = 0.05
	)
	m, err := Generate("sphere", 2*radius, 48)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	v, err := voxel.Voxelize(m.Vertices, m.Faces, step, voxel.WithWorkers(0))
	if err != nil {
		t.Fatalf("Voxelize failed: %v", err)
	}
	v.Fill(voxel.WithWorkers(0))

	want := 4.0 / 3.0 * math.Pi * radius * radius * radius
	tolerance := 2 * m.SurfaceArea() * step
	if got := v.Volume(); math.Abs(got-want) > tolerance {
		t.Fatalf("volume = %v, want %v within %v", got, want, tolerance)
	}
}

func TestRandom_Deterministic(t *testing.T) {
	a, err := Random(rand.New(rand.NewSource(7)), 4, 4)
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	b, err := Random(rand.New(rand.NewSource(7)), 4, 4)
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	ma := Tessellate("a", a, 24)
	mb := Tessellate("b", b, 24)
	if ma.TriangleCount() == 0 || ma.TriangleCount() != mb.TriangleCount() {
		t.Fatalf("triangle counts differ: %d vs %d", ma.TriangleCount(), mb.TriangleCount())
	}
	if math.Abs(ma.SurfaceArea()-mb.SurfaceArea()) > 1e-9 {
		t.Fatalf("same seed produced different surfaces")
	}
}
