package meshio

import (
	"bytes"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// GLBOptions controls glTF export.
type GLBOptions struct {
	// Color is the RGBA base color of the material. The zero value means
	// opaque white.
	Color [4]float32
	// AxisShading adds per-vertex colors that tint each face by the axis its
	// normal is closest to.
	AxisShading bool
}

var axisTints = [3][4]float32{
	{1, 0.85, 0.85, 1},
	{0.85, 1, 0.85, 1},
	{0.85, 0.85, 1, 1},
}

// Scene collects meshes into one glTF document, one node per mesh, sharing
// a single material.
type Scene struct {
	doc  *gltf.Document
	opts GLBOptions
}

// NewScene creates an empty scene.
func NewScene(opts GLBOptions) *Scene {
	doc := gltf.NewDocument()
	doc.Asset.Generator = "meshvox"

	base := opts.Color
	if base == ([4]float32{}) {
		base = [4]float32{1, 1, 1, 1}
	}
	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: &base,
		MetallicFactor:  gltf.Float(0),
		RoughnessFactor: gltf.Float(1),
	}
	material := &gltf.Material{Name: "voxel", PBRMetallicRoughness: pbr}
	if base[3] < 1.0 {
		material.AlphaMode = gltf.AlphaBlend
	} else {
		material.AlphaMode = gltf.AlphaOpaque
	}
	doc.Materials = []*gltf.Material{material}
	return &Scene{doc: doc, opts: opts}
}

// Add appends m as a new mesh and node placed at translation. Every face
// gets its own three vertices so normals stay flat.
func (s *Scene) Add(m *Mesh, translation [3]float32) {
	positions := make([][3]float32, 0, 3*len(m.Faces))
	normals := make([][3]float32, 0, 3*len(m.Faces))
	var colors [][4]float32
	indices := make([]uint32, 0, 3*len(m.Faces))

	for i := range m.Faces {
		t := m.Triangle(i)
		n := unitNormal(t)
		nf := [3]float32{float32(n[0]), float32(n[1]), float32(n[2])}
		tint := axisTints[dominantAxis(n)]
		for _, p := range t {
			indices = append(indices, uint32(len(positions)))
			positions = append(positions, [3]float32{float32(p[0]), float32(p[1]), float32(p[2])})
			normals = append(normals, nf)
			if s.opts.AxisShading {
				colors = append(colors, tint)
			}
		}
	}

	doc := s.doc
	prim := &gltf.Primitive{
		Attributes: map[string]uint32{},
		Material:   gltf.Index(0),
	}
	if len(positions) > 0 {
		prim.Attributes[gltf.POSITION] = uint32(modeler.WritePosition(doc, positions))
		prim.Attributes[gltf.NORMAL] = uint32(modeler.WriteNormal(doc, normals))
		if s.opts.AxisShading {
			prim.Attributes[gltf.COLOR_0] = uint32(modeler.WriteColor(doc, colors))
		}
		prim.Indices = gltf.Index(uint32(modeler.WriteIndices(doc, indices)))
	}

	name := m.Name
	if name == "" {
		name = "VoxelMesh"
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
	node := &gltf.Node{Name: name, Mesh: gltf.Index(uint32(len(doc.Meshes) - 1))}
	node.Translation = translation
	doc.Nodes = append(doc.Nodes, node)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
}

// Encode returns the scene as a binary glTF document.
func (s *Scene) Encode() ([]byte, error) {
	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(s.doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// EncodeGLB returns m as a binary glTF document with flat normals.
func EncodeGLB(m *Mesh, opts GLBOptions) ([]byte, error) {
	s := NewScene(opts)
	s.Add(m, [3]float32{})
	return s.Encode()
}

func dominantAxis(n vec3) int {
	axis := 0
	for i := 1; i < 3; i++ {
		if abs(n[i]) > abs(n[axis]) {
			axis = i
		}
	}
	return axis
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
