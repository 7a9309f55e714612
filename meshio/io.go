package meshio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format returns the lower-case extension of path without the dot.
func Format(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// Load reads a mesh file, choosing the parser by extension (.stl, .obj).
func Load(path string) (*Mesh, error) {
	var read func(*os.File) (*Mesh, error)
	switch Format(path) {
	case "stl":
		read = func(f *os.File) (*Mesh, error) { return ReadSTL(f) }
	case "obj":
		read = func(f *os.File) (*Mesh, error) { return ReadOBJ(f) }
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	m, err := read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// Save writes a mesh file, choosing the writer by extension (.stl, .obj,
// .glb).
func Save(path string, m *Mesh) error {
	switch Format(path) {
	case "stl", "obj":
	case "glb":
		data, err := EncodeGLB(m, GLBOptions{})
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	if Format(path) == "stl" {
		err = WriteSTL(w, m)
	} else {
		err = WriteOBJ(w, m)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}
