package meshio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	stlHeaderSize = 80
	stlRecordSize = 50
)

// ReadSTL parses an ASCII or binary STL stream. The format is detected from
// the data: a binary file's size always matches its triangle count, an
// ASCII file starts with "solid".
func ReadSTL(r io.Reader) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read STL: %w", err)
	}
	if len(data) >= stlHeaderSize+4 {
		n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
		if uint64(len(data)) == stlHeaderSize+4+uint64(n)*stlRecordSize {
			return parseBinarySTL(data)
		}
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return parseASCIISTL(bytes.NewReader(data))
	}
	return parseBinarySTL(data)
}

func parseASCIISTL(reader io.Reader) (*Mesh, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	mesh := NewMesh("")

	var corners [][3]float64
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				mesh.Name = strings.Join(fields[1:], " ")
			}
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", line)
			}
			p, err := parseTriple(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			corners = append(corners, p)
		case "endfacet":
			if len(corners) != 3 {
				return nil, fmt.Errorf("line %d: facet has %d vertices, want 3", line, len(corners))
			}
			mesh.AddTriangle(corners[0], corners[1], corners[2])
			corners = corners[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}
	return mesh, nil
}

func parseBinarySTL(data []byte) (*Mesh, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, fmt.Errorf("binary STL truncated: %d bytes", len(data))
	}
	mesh := NewMesh(strings.TrimSpace(string(bytes.TrimRight(data[:stlHeaderSize], "\x00"))))
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	body := data[stlHeaderSize+4:]
	if uint64(len(body)) < uint64(count)*stlRecordSize {
		return nil, fmt.Errorf("binary STL truncated: %d triangles declared, %d bytes of records", count, len(body))
	}

	for i := uint32(0); i < count; i++ {
		rec := body[int(i)*stlRecordSize:]
		var corners [3][3]float64
		// skip the stored normal; winding defines orientation
		off := 12
		for c := 0; c < 3; c++ {
			for a := 0; a < 3; a++ {
				corners[c][a] = float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[off:])))
				off += 4
			}
		}
		mesh.AddTriangle(corners[0], corners[1], corners[2])
	}
	return mesh, nil
}

func parseTriple(fields []string) ([3]float64, error) {
	var p [3]float64
	for i, f := range fields[:3] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return p, fmt.Errorf("bad coordinate %q: %w", f, err)
		}
		p[i] = v
	}
	return p, nil
}

// WriteSTL writes m as binary STL with per-face normals.
func WriteSTL(w io.Writer, m *Mesh) error {
	if uint64(len(m.Faces)) > math.MaxUint32 {
		return fmt.Errorf("too many triangles for STL: %d", len(m.Faces))
	}
	bw := bufio.NewWriter(w)
	header := make([]byte, stlHeaderSize)
	copy(header, m.Name)
	if _, err := bw.Write(header); err != nil {
		return err
	}
	_ = binary.Write(bw, binary.LittleEndian, uint32(len(m.Faces)))

	var rec [stlRecordSize]byte
	for i := range m.Faces {
		t := m.Triangle(i)
		n := unitNormal(t)
		vals := [12]float64{n[0], n[1], n[2]}
		for c := 0; c < 3; c++ {
			copy(vals[3+3*c:], t[c][:])
		}
		for j, v := range vals {
			binary.LittleEndian.PutUint32(rec[4*j:], math.Float32bits(float32(v)))
		}
		if _, err := bw.Write(rec[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteSTLASCII writes m as ASCII STL.
func WriteSTLASCII(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	name := strings.ReplaceAll(m.Name, "\n", " ")
	fmt.Fprintf(bw, "solid %s\n", name)
	for i := range m.Faces {
		t := m.Triangle(i)
		n := unitNormal(t)
		fmt.Fprintf(bw, "  facet normal %g %g %g\n    outer loop\n", n[0], n[1], n[2])
		for _, p := range t {
			fmt.Fprintf(bw, "      vertex %s %s %s\n", formatFloat(p[0]), formatFloat(p[1]), formatFloat(p[2]))
		}
		fmt.Fprint(bw, "    endloop\n  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
