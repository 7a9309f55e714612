package meshio

import (
	"errors"
	"math"

	"github.com/voxelsplace/meshvox/voxel"
)

// ErrUnsupportedFormat is returned for file extensions no reader or writer
// handles.
var ErrUnsupportedFormat = errors.New("meshio: unsupported format")

// Mesh is an indexed triangle mesh in plain arrays, the hand-off between
// file formats and the voxelizer.
type Mesh struct {
	Name     string
	Vertices [][3]float64
	Faces    [][3]int

	index map[[3]float64]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(p [3]float64) int {
	m.Vertices = append(m.Vertices, p)
	return len(m.Vertices) - 1
}

// AddTriangle appends a face given by positions. Bitwise identical
// positions share one vertex.
func (m *Mesh) AddTriangle(a, b, c [3]float64) {
	if m.index == nil {
		m.index = make(map[[3]float64]int, len(m.Vertices))
		for i, p := range m.Vertices {
			m.index[p] = i
		}
	}
	var f [3]int
	for i, p := range [3][3]float64{a, b, c} {
		idx, ok := m.index[p]
		if !ok {
			idx = m.AddVertex(p)
			m.index[p] = idx
		}
		f[i] = idx
	}
	m.Faces = append(m.Faces, f)
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// Triangle returns the corner positions of face i.
func (m *Mesh) Triangle(i int) [3][3]float64 {
	f := m.Faces[i]
	return [3][3]float64{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// BoundingBox returns the componentwise extremes of all vertices.
func (m *Mesh) BoundingBox() (lo, hi [3]float64) {
	if len(m.Vertices) == 0 {
		return lo, hi
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, p := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}
	return lo, hi
}

// SurfaceArea returns the summed area of all faces.
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for i := range m.Faces {
		total += faceNormal(m.Triangle(i)).length() / 2
	}
	return total
}

// FromVoxelMesh converts reconstruction output to a Mesh. Vertices are kept
// as emitted.
func FromVoxelMesh[T voxel.Float](name string, vm *voxel.Mesh[T]) *Mesh {
	m := NewMesh(name)
	m.Vertices = make([][3]float64, len(vm.Vertices))
	for i, p := range vm.Vertices {
		m.Vertices[i] = [3]float64{float64(p[0]), float64(p[1]), float64(p[2])}
	}
	m.Faces = make([][3]int, 0, len(vm.Indices)/3)
	for i := 0; i+2 < len(vm.Indices); i += 3 {
		m.Faces = append(m.Faces, [3]int{int(vm.Indices[i]), int(vm.Indices[i+1]), int(vm.Indices[i+2])})
	}
	return m
}

type vec3 [3]float64

func (v vec3) length() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// faceNormal returns the unnormalized normal (b-a) x (c-a).
func faceNormal(t [3][3]float64) vec3 {
	a, b, c := t[0], t[1], t[2]
	u := vec3{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := vec3{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	return vec3{
		u[1]*v[2] - u[2]*v[1],
		u[2]*v[0] - u[0]*v[2],
		u[0]*v[1] - u[1]*v[0],
	}
}

// unitNormal returns the normalized face normal, or zero for degenerate
// faces.
func unitNormal(t [3][3]float64) vec3 {
	n := faceNormal(t)
	if l := n.length(); l > 0 {
		return vec3{n[0] / l, n[1] / l, n[2] / l}
	}
	return vec3{}
}
