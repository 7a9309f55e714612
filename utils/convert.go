package utils

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/voxelsplace/meshvox/meshio"
	"github.com/voxelsplace/meshvox/voxel"
	"github.com/voxelsplace/meshvox/voxfile"
)

// VoxelizeMesh loads a mesh file and voxelizes it according to cfg.
func VoxelizeMesh(inPath string, cfg Config) (*voxel.Voxels[float64], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m, err := meshio.Load(inPath)
	if err != nil {
		return nil, err
	}
	return voxelizeMesh(m, cfg)
}

func voxelizeMesh(m *meshio.Mesh, cfg Config) (*voxel.Voxels[float64], error) {
	start := time.Now()
	v, err := voxel.Voxelize(m.Vertices, m.Faces, cfg.Step, cfg.voxelOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to voxelize %s: %w", m.Name, err)
	}
	log.Printf("voxelized %s: %d triangles -> %d cells in %d ms", m.Name, m.TriangleCount(), v.Len(), time.Since(start).Milliseconds())

	if cfg.Fill {
		start = time.Now()
		before := v.Len()
		v.Fill(cfg.voxelOptions()...)
		log.Printf("filled %s: %d -> %d cells in %d ms", m.Name, before, v.Len(), time.Since(start).Milliseconds())
	}
	return v, nil
}

// RunMeshToVXS converts an STL or OBJ file into a .vxs file.
func RunMeshToVXS(inPath, outPath string, cfg Config) error {
	v, err := VoxelizeMesh(inPath, cfg)
	if err != nil {
		return err
	}
	return voxfile.Save(outPath, v, cfg.compression())
}

// SurfaceOf rebuilds the surface of v, merged into quads when cfg.Greedy is
// set.
func SurfaceOf(name string, v *voxel.Voxels[float64], cfg Config) *meshio.Mesh {
	var vm *voxel.Mesh[float64]
	if cfg.Greedy {
		vm = v.GreedyMesh()
	} else {
		vm = v.ReconstructMesh()
	}
	return meshio.FromVoxelMesh(name, vm)
}

// WriteVoxels writes v to outPath. The extension picks the output: .vxs
// stores the set, .glb/.stl/.obj store its surface, .xyz stores the point
// cloud of minimum corners.
func WriteVoxels(outPath string, v *voxel.Voxels[float64], cfg Config) error {
	switch meshio.Format(outPath) {
	case "vxs":
		return voxfile.Save(outPath, v, cfg.compression())
	case "xyz":
		return writePointCloud(outPath, v.PointCloud())
	case "glb", "stl", "obj":
		name := strings.TrimSuffix(filepath.Base(outPath), filepath.Ext(outPath))
		m := SurfaceOf(name, v, cfg)
		log.Printf("reconstructed %s: %d triangles", outPath, m.TriangleCount())
		return meshio.Save(outPath, m)
	default:
		return fmt.Errorf("%w: %s", meshio.ErrUnsupportedFormat, outPath)
	}
}

// RunVXSToMesh converts a .vxs file into a surface mesh or point cloud.
func RunVXSToMesh(inPath, outPath string, cfg Config) error {
	v, err := voxfile.Load(inPath)
	if err != nil {
		return err
	}
	return WriteVoxels(outPath, v, cfg)
}

// Convert runs the conversion implied by the two file extensions: meshes
// are voxelized, .vxs files are reconstructed and .vxpack files become a
// multi-node .glb.
func Convert(inPath, outPath string, cfg Config) error {
	switch meshio.Format(inPath) {
	case "stl", "obj":
		v, err := VoxelizeMesh(inPath, cfg)
		if err != nil {
			return err
		}
		return WriteVoxels(outPath, v, cfg)
	case "vxs":
		return RunVXSToMesh(inPath, outPath, cfg)
	case "vxpack":
		if meshio.Format(outPath) != "glb" {
			return fmt.Errorf("%w: a pack converts to .glb only", meshio.ErrUnsupportedFormat)
		}
		return RunVXSPackToGLB(inPath, outPath, cfg)
	default:
		return fmt.Errorf("%w: %s", meshio.ErrUnsupportedFormat, inPath)
	}
}

func writePointCloud(path string, points [][3]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	for _, p := range points {
		fmt.Fprintf(w, "%s %s %s\n",
			strconv.FormatFloat(p[0], 'g', -1, 64),
			strconv.FormatFloat(p[1], 'g', -1, 64),
			strconv.FormatFloat(p[2], 'g', -1, 64))
	}
	err = w.Flush()
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}
