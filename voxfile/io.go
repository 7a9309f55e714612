package voxfile

import (
	"fmt"
	"math"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/voxelsplace/meshvox/voxel"
)

// Encode serializes an occupancy set as a .vxs file. The payload layout is
// chosen by size; comp selects the codec (CompAuto picks the smallest).
func Encode[T voxel.Float](v *voxel.Voxels[T], comp Compression) ([]byte, error) {
	switch comp {
	case CompNone, CompZlib, CompZstd, CompAuto:
	default:
		return nil, fmt.Errorf("unsupported compression %v", comp)
	}
	if uint64(v.Len()) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d cells", ErrTooLarge, v.Len())
	}
	g, err := gridOf(v)
	if err != nil {
		return nil, err
	}
	cells := v.Cells()
	enc, raw := bestEncoding(g, cells, comp)
	if uint64(len(enc.payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: payload of %d bytes", ErrTooLarge, len(enc.payload))
	}
	h := Header{
		Version:  version1,
		Encoding: enc.encoding,
		Step:     float64(v.Step()),
		Origin:   g.origin,
		Dims:     g.dims,
		Count:    uint32(len(cells)),
		Checksum: xxhash.Sum64(raw),
	}
	return h.marshal(enc.payload), nil
}

// Decode parses a .vxs file.
func Decode(data []byte) (*voxel.Voxels[float64], error) {
	h, payload, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	raw, err := decompress(h.Encoding, payload)
	if err != nil {
		return nil, err
	}
	if xxhash.Sum64(raw) != h.Checksum {
		return nil, ErrChecksum
	}

	g := grid{origin: h.Origin, dims: h.Dims}
	var cells []voxel.Cell
	switch h.Encoding & encMask {
	case encBitmap:
		cells, err = decodeBitmap(g, raw, h.Count)
	case encMorton:
		cells, err = decodeMorton(g, raw, h.Count)
	default:
		err = fmt.Errorf("%w: unknown encoding %d", ErrFormat, h.Encoding&encMask)
	}
	if err != nil {
		return nil, err
	}
	if uint64(len(cells)) != uint64(h.Count) {
		return nil, fmt.Errorf("%w: decoded %d cells, header says %d", ErrFormat, len(cells), h.Count)
	}

	v, err := voxel.FromCells(h.Step, cells)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return v, nil
}

// Save writes v to filename.
func Save[T voxel.Float](filename string, v *voxel.Voxels[T], comp Compression) error {
	data, err := Encode(v, comp)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// Load reads a .vxs file from disk.
func Load(filename string) (*voxel.Voxels[float64], error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	v, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return v, nil
}
