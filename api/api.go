package api

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/voxelsplace/meshvox/meshio"
	"github.com/voxelsplace/meshvox/voxel"
	"github.com/voxelsplace/meshvox/voxfile"
)

// ParseMesh decodes mesh bytes of the given format ("stl" or "obj").
func ParseMesh(data []byte, format string) (*meshio.Mesh, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "stl":
		return meshio.ReadSTL(bytes.NewReader(data))
	case "obj":
		return meshio.ReadOBJ(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %q", meshio.ErrUnsupportedFormat, format)
	}
}

// MeshToVXS voxelizes mesh bytes and returns a .vxs file as bytes. When fill
// is set the interior is solidified.
func MeshToVXS(data []byte, format string, step float64, fill bool) ([]byte, error) {
	m, err := ParseMesh(data, format)
	if err != nil {
		return nil, err
	}
	v, err := voxel.Voxelize(m.Vertices, m.Faces, step)
	if err != nil {
		return nil, fmt.Errorf("failed to voxelize: %w", err)
	}
	if fill {
		v.Fill()
	}
	return voxfile.Encode(v, voxfile.CompAuto)
}

// reconstruct rebuilds the surface of a .vxs file.
func reconstruct(data []byte, greedy bool) (*meshio.Mesh, error) {
	v, err := voxfile.Decode(data)
	if err != nil {
		return nil, err
	}
	var vm *voxel.Mesh[float64]
	if greedy {
		vm = v.GreedyMesh()
	} else {
		vm = v.ReconstructMesh()
	}
	return meshio.FromVoxelMesh("VoxelMesh", vm), nil
}

// VXSToGLB takes .vxs file bytes and returns .glb bytes. greedy merges
// coplanar faces into larger quads.
func VXSToGLB(data []byte, greedy bool) ([]byte, error) {
	m, err := reconstruct(data, greedy)
	if err != nil {
		return nil, err
	}
	return meshio.EncodeGLB(m, meshio.GLBOptions{AxisShading: true})
}

// VXSToMesh takes .vxs file bytes and returns the culled surface as STL
// (binary) or OBJ bytes.
func VXSToMesh(data []byte, format string) ([]byte, error) {
	m, err := reconstruct(data, false)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "stl":
		err = meshio.WriteSTL(&out, m)
	case "obj":
		err = meshio.WriteOBJ(&out, m)
	default:
		return nil, fmt.Errorf("%w: %q", meshio.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// PackVXS bundles named .vxs files into a .vxpack. Every input must carry a
// valid .vxs header; entries are stored in name order.
func PackVXS(files map[string][]byte) ([]byte, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no .vxs files provided")
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	pack := &voxfile.Pack{Entries: make([]voxfile.PackEntry, 0, len(names))}
	for _, name := range names {
		if _, _, err := voxfile.ParseHeader(files[name]); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pack.Entries = append(pack.Entries, voxfile.PackEntry{Name: name, Data: files[name]})
	}
	return pack.MarshalEx(voxfile.LayoutCDC, voxfile.CompZstd)
}

// UnpackVXSPack returns the named files of a .vxpack.
func UnpackVXSPack(data []byte) (map[string][]byte, error) {
	pack, _, err := voxfile.UnmarshalPack(data)
	if err != nil {
		return nil, err
	}
	files := make(map[string][]byte, len(pack.Entries))
	for _, e := range pack.Entries {
		files[e.Name] = e.Data
	}
	return files, nil
}
