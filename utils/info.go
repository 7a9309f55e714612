package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/voxelsplace/meshvox/meshio"
	"github.com/voxelsplace/meshvox/voxfile"
)

// PrintInfo writes a human readable summary of a mesh, .vxs or .vxpack
// file to w.
func PrintInfo(w io.Writer, path string) error {
	switch meshio.Format(path) {
	case "stl", "obj":
		return printMeshInfo(w, path)
	case "vxs":
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "File: %s\n", path)
		return printVXSInfo(w, data, "")
	case "vxpack":
		return printPackInfo(w, path)
	default:
		return fmt.Errorf("%w: %s", meshio.ErrUnsupportedFormat, path)
	}
}

func printMeshInfo(w io.Writer, path string) error {
	m, err := meshio.Load(path)
	if err != nil {
		return err
	}
	lo, hi := m.BoundingBox()
	fmt.Fprintf(w, "File: %s\n", path)
	fmt.Fprintf(w, "Name: %s\n", m.Name)
	fmt.Fprintf(w, "Vertices: %d\n", len(m.Vertices))
	fmt.Fprintf(w, "Triangles: %d\n", m.TriangleCount())
	fmt.Fprintf(w, "Surface Area: %.6f\n", m.SurfaceArea())
	fmt.Fprintf(w, "Bounds: [%.6f %.6f %.6f] - [%.6f %.6f %.6f]\n", lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
	return nil
}

func printVXSInfo(w io.Writer, data []byte, indent string) error {
	h, _, err := voxfile.ParseHeader(data)
	if err != nil {
		return err
	}
	v, err := voxfile.Decode(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%sStep: %g\n", indent, h.Step)
	fmt.Fprintf(w, "%sCells: %d\n", indent, v.Len())
	fmt.Fprintf(w, "%sOrigin: %v\n", indent, h.Origin)
	fmt.Fprintf(w, "%sDims: %v\n", indent, h.Dims)
	fmt.Fprintf(w, "%sLayout: %s (%s)\n", indent, h.Layout(), h.Compressed())
	fmt.Fprintf(w, "%sPayload: %d bytes\n", indent, h.PLen)
	fmt.Fprintf(w, "%sVolume: %.6f\n", indent, v.Volume())
	fmt.Fprintf(w, "%sFingerprint: %016x\n", indent, v.Fingerprint())
	return nil
}

func printPackInfo(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	pack, comp, err := voxfile.UnmarshalPack(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "File: %s\n", path)
	fmt.Fprintf(w, "Compression: %s\n", comp)
	fmt.Fprintf(w, "Entries: %d\n", len(pack.Entries))
	for _, e := range pack.Entries {
		fmt.Fprintf(w, "- %s (%d bytes)\n", e.Name, len(e.Data))
		if err := printVXSInfo(w, e.Data, "    "); err != nil {
			return fmt.Errorf("%s: %w", e.Name, err)
		}
	}
	return nil
}
