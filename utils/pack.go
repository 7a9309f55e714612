package utils

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/voxelsplace/meshvox/meshio"
	"github.com/voxelsplace/meshvox/voxel"
	"github.com/voxelsplace/meshvox/voxfile"
)

// CreatePack reads .vxs files and writes a .vxpack to outputFile. Every
// input is checked to be a well-formed .vxs file.
func CreatePack(inputFiles []string, outputFile string, layout voxfile.PackLayout, comp voxfile.Compression) error {
	if len(inputFiles) == 0 {
		return fmt.Errorf("no .vxs files provided")
	}
	type item struct {
		name string
		data []byte
		err  error
	}
	items := make([]item, len(inputFiles))

	var wg sync.WaitGroup
	for i := range inputFiles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := inputFiles[i]
			b, err := os.ReadFile(path)
			if err != nil {
				items[i].err = err
				return
			}
			if _, _, err := voxfile.ParseHeader(b); err != nil {
				items[i].err = fmt.Errorf("%s: %w", path, err)
				return
			}
			items[i] = item{name: filepath.Base(path), data: b}
		}(i)
	}
	wg.Wait()

	pack := &voxfile.Pack{Entries: make([]voxfile.PackEntry, len(items))}
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		if it.err != nil {
			return it.err
		}
		if seen[it.name] {
			return fmt.Errorf("duplicate entry name %s (%s)", it.name, inputFiles[i])
		}
		seen[it.name] = true
		pack.Entries[i] = voxfile.PackEntry{Name: it.name, Data: it.data}
	}

	start := time.Now()
	data, err := pack.MarshalEx(layout, comp)
	if err != nil {
		return err
	}
	log.Printf("packed %d entries into %s (%d bytes) in %d ms", len(items), outputFile, len(data), time.Since(start).Milliseconds())
	return os.WriteFile(outputFile, data, 0o644)
}

func readPack(packFile string) (*voxfile.Pack, error) {
	data, err := os.ReadFile(packFile)
	if err != nil {
		return nil, err
	}
	pack, _, err := voxfile.UnmarshalPack(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", packFile, err)
	}
	return pack, nil
}

// UnpackToDir writes the .vxs files of a .vxpack into outputDir.
func UnpackToDir(packFile, outputDir string) error {
	pack, err := readPack(packFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(pack.Entries))
	for _, e := range pack.Entries {
		name := filepath.Base(e.Name)
		if name != e.Name || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("refusing to unpack entry with path %q", e.Name)
		}
		wg.Add(1)
		go func(e voxfile.PackEntry) {
			defer wg.Done()
			if err := os.WriteFile(filepath.Join(outputDir, e.Name), e.Data, 0o644); err != nil {
				errCh <- err
			}
		}(e)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

// RunVXSPackToGLB converts a .vxpack into a .glb with one node per entry.
// Entries are laid out on a square grid in the XZ plane, side by side.
func RunVXSPackToGLB(packFile, outGlbPath string, cfg Config) error {
	pack, err := readPack(packFile)
	if err != nil {
		return err
	}
	n := len(pack.Entries)
	if n == 0 {
		return fmt.Errorf("empty pack: %s", packFile)
	}

	sets := make([]*voxel.Voxels[float64], n)
	var slotX, slotZ float64
	for i, e := range pack.Entries {
		v, err := voxfile.Decode(e.Data)
		if err != nil {
			return fmt.Errorf("entry %d (%s): %w", i, e.Name, err)
		}
		sets[i] = v
		if lo, hi, ok := v.Bounds(); ok {
			slotX = math.Max(slotX, float64(int64(hi[0])-int64(lo[0])+1)*v.Step())
			slotZ = math.Max(slotZ, float64(int64(hi[2])-int64(lo[2])+1)*v.Step())
		}
	}

	scene := meshio.NewScene(meshio.GLBOptions{AxisShading: true})
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	for i, v := range sets {
		// move each entry's minimum corner to its slot
		var offset [3]float64
		if lo, _, ok := v.Bounds(); ok {
			for a := 0; a < 3; a++ {
				offset[a] = -float64(lo[a]) * v.Step()
			}
		}
		offset[0] += float64(i%cols) * slotX
		offset[2] += float64(i/cols) * slotZ

		name := strings.TrimSuffix(filepath.Base(pack.Entries[i].Name), filepath.Ext(pack.Entries[i].Name))
		scene.Add(SurfaceOf(name, v, cfg), [3]float32{float32(offset[0]), float32(offset[1]), float32(offset[2])})
	}

	data, err := scene.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(outGlbPath, data, 0o644)
}
