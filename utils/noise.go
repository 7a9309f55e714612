package utils

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/voxelsplace/meshvox/meshio"
	"github.com/voxelsplace/meshvox/shapes"
)

// RunGenerateShape tessellates a named solid of the given size and writes
// it to outPath (.stl, .obj or .glb). A .vxs output voxelizes it with cfg.
func RunGenerateShape(kind string, size float64, cells int, outPath string, cfg Config) error {
	m, err := shapes.Generate(kind, size, cells)
	if err != nil {
		return err
	}
	return writeShape(m, outPath, cfg)
}

func writeShape(m *meshio.Mesh, outPath string, cfg Config) error {
	if meshio.Format(outPath) != "vxs" {
		return meshio.Save(outPath, m)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	v, err := voxelizeMesh(m, cfg)
	if err != nil {
		return err
	}
	return WriteVoxels(outPath, v, cfg)
}

// RunGenerateRandomShapes writes amount random solids named 0.stl ..
// (amount-1).stl into outDir, each a union of parts spheres and boxes
// inside a cube of side size. The same seed always gives the same files.
func RunGenerateRandomShapes(parts, amount int, size float64, seed int64, outDir string) error {
	if amount < 0 {
		amount = 0
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	for i := 0; i < amount; i++ {
		// derive a seed per file using a Weyl-like progression (unsigned math)
		const weyl = uint64(0x9e3779b97f4a7c15)
		fileSeed := uint64(seed) ^ (uint64(i)+1)*weyl
		r := rand.New(rand.NewSource(int64(fileSeed & 0x7fffffffffffffff)))

		s, err := shapes.Random(r, parts, size)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, fmt.Sprintf("%d.stl", i))
		m := shapes.Tessellate(fmt.Sprintf("random-%d", i), s, shapes.DefaultCells)
		if err := meshio.Save(path, m); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
	}
	return nil
}
