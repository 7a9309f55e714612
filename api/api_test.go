package api

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/voxelsplace/meshvox/meshio"
	"github.com/voxelsplace/meshvox/voxfile"
)

// cubeOBJ is an axis-aligned cube spanning [0.1, 1.9] with outward faces.
const cubeOBJ = `o cube
v 0.1 0.1 0.1
v 1.9 0.1 0.1
v 0.1 1.9 0.1
v 1.9 1.9 0.1
v 0.1 0.1 1.9
v 1.9 0.1 1.9
v 0.1 1.9 1.9
v 1.9 1.9 1.9
f 1 3 4 2
f 5 6 8 7
f 1 2 6 5
f 3 7 8 4
f 1 5 7 3
f 2 4 8 6
`

func TestMeshToVXS(t *testing.T) {
	shell, err := MeshToVXS([]byte(cubeOBJ), "obj", 0.5, false)
	if err != nil {
		t.Fatalf("MeshToVXS failed: %v", err)
	}
	solid, err := MeshToVXS([]byte(cubeOBJ), "obj", 0.5, true)
	if err != nil {
		t.Fatalf("MeshToVXS with fill failed: %v", err)
	}
	vs, err := voxfile.Decode(shell)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	vf, err := voxfile.Decode(solid)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	// cells 0..3 on each axis, hollow 1..2 inside
	if vs.Len() != 64-8 {
		t.Fatalf("shell cells = %d, want 56", vs.Len())
	}
	if vf.Len() != 64 {
		t.Fatalf("filled cells = %d, want 64", vf.Len())
	}
}

func TestMeshToVXS_Errors(t *testing.T) {
	if _, err := MeshToVXS([]byte(cubeOBJ), "ply", 0.5, false); !errors.Is(err, meshio.ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := MeshToVXS([]byte(cubeOBJ), "obj", 0, false); err == nil {
		t.Fatalf("expected error for zero step")
	}
}

func TestVXSToMesh(t *testing.T) {
	data, err := MeshToVXS([]byte(cubeOBJ), "obj", 0.5, true)
	if err != nil {
		t.Fatalf("MeshToVXS failed: %v", err)
	}
	for _, format := range []string{"stl", "obj"} {
		out, err := VXSToMesh(data, format)
		if err != nil {
			t.Fatalf("VXSToMesh(%s) failed: %v", format, err)
		}
		m, err := ParseMesh(out, format)
		if err != nil {
			t.Fatalf("ParseMesh(%s) failed: %v", format, err)
		}
		// 4x4 faces per side, two triangles each
		if m.TriangleCount() != 6*16*2 {
			t.Fatalf("%s triangles = %d, want 192", format, m.TriangleCount())
		}
		if got := m.SurfaceArea(); math.Abs(got-24) > 1e-9 {
			t.Fatalf("%s area = %v, want 24", format, got)
		}
	}
	if _, err := VXSToMesh(data, "fbx"); !errors.Is(err, meshio.ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestVXSToGLB(t *testing.T) {
	data, err := MeshToVXS([]byte(cubeOBJ), "obj", 0.5, true)
	if err != nil {
		t.Fatalf("MeshToVXS failed: %v", err)
	}
	culled, err := VXSToGLB(data, false)
	if err != nil {
		t.Fatalf("VXSToGLB failed: %v", err)
	}
	greedy, err := VXSToGLB(data, true)
	if err != nil {
		t.Fatalf("VXSToGLB greedy failed: %v", err)
	}
	if !bytes.HasPrefix(culled, []byte("glTF")) || !bytes.HasPrefix(greedy, []byte("glTF")) {
		t.Fatalf("GLB magic missing")
	}
	if len(greedy) >= len(culled) {
		t.Fatalf("greedy GLB (%d bytes) should be smaller than culled (%d bytes)", len(greedy), len(culled))
	}
}

func TestPackRoundtrip(t *testing.T) {
	a, err := MeshToVXS([]byte(cubeOBJ), "obj", 0.5, false)
	if err != nil {
		t.Fatalf("MeshToVXS failed: %v", err)
	}
	b, err := MeshToVXS([]byte(cubeOBJ), "obj", 0.25, true)
	if err != nil {
		t.Fatalf("MeshToVXS failed: %v", err)
	}
	files := map[string][]byte{"shell.vxs": a, "solid.vxs": b}
	packed, err := PackVXS(files)
	if err != nil {
		t.Fatalf("PackVXS failed: %v", err)
	}
	got, err := UnpackVXSPack(packed)
	if err != nil {
		t.Fatalf("UnpackVXSPack failed: %v", err)
	}
	if len(got) != len(files) {
		t.Fatalf("entries = %d, want %d", len(got), len(files))
	}
	for name, data := range files {
		if !bytes.Equal(got[name], data) {
			t.Fatalf("entry %s differs after roundtrip", name)
		}
	}
}

func TestPackVXS_Invalid(t *testing.T) {
	if _, err := PackVXS(nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := PackVXS(map[string][]byte{"x.vxs": []byte("nope")}); !errors.Is(err, voxfile.ErrFormat) {
		t.Fatalf("error = %v, want ErrFormat", err)
	}
}
