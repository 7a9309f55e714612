package voxfile

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/voxelsplace/meshvox/voxel"
)

const (
	encBitmap = 0 // one bit per cell of the bounds box, x fastest
	encMorton = 1 // delta-coded uvarint Morton keys relative to the origin

	encMask  = 0x3F
	flagZstd = 0x40
	flagZlib = 0x80
)

const (
	// maxBitmapCells bounds the dense candidate (16 MiB of bits).
	maxBitmapCells = 1 << 27
	// maxPayload bounds how much a reader will inflate.
	maxPayload = 1 << 30
)

// Compression selects the codec for payloads and pack contents.
type Compression uint8

const (
	CompNone Compression = 0
	CompZlib Compression = 1
	CompZstd Compression = 2
	// CompAuto tries every codec and keeps the smallest result.
	CompAuto Compression = 0xFF
)

func (c Compression) String() string {
	switch c {
	case CompNone:
		return "none"
	case CompZlib:
		return "zlib"
	case CompZstd:
		return "zstd"
	case CompAuto:
		return "auto"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "zlib", "zstd" or "auto".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return CompNone, nil
	case "zlib":
		return CompZlib, nil
	case "zstd":
		return CompZstd, nil
	case "auto":
		return CompAuto, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", s)
	}
}

type encoded struct {
	encoding uint8
	payload  []byte
}

// grid is the bounds box of a set, origin-relative.
type grid struct {
	origin [3]int32
	dims   [3]uint32
}

func (g grid) volume() uint64 {
	return uint64(g.dims[0]) * uint64(g.dims[1]) * uint64(g.dims[2])
}

func gridOf[T voxel.Float](v *voxel.Voxels[T]) (grid, error) {
	lo, hi, ok := v.Bounds()
	if !ok {
		return grid{}, nil
	}
	g := grid{origin: lo}
	for i := 0; i < 3; i++ {
		d := int64(hi[i]) - int64(lo[i]) + 1
		if d > 1<<mortonBits {
			return grid{}, fmt.Errorf("%w: extent %d on axis %d exceeds %d cells", ErrTooLarge, d, i, 1<<mortonBits)
		}
		g.dims[i] = uint32(d)
	}
	return g, nil
}

func (g grid) local(c voxel.Cell) (uint32, uint32, uint32) {
	return uint32(int64(c[0]) - int64(g.origin[0])),
		uint32(int64(c[1]) - int64(g.origin[1])),
		uint32(int64(c[2]) - int64(g.origin[2]))
}

func (g grid) cell(x, y, z uint32) (voxel.Cell, error) {
	if x >= g.dims[0] || y >= g.dims[1] || z >= g.dims[2] {
		return voxel.Cell{}, fmt.Errorf("%w: cell (%d,%d,%d) outside %v", ErrFormat, x, y, z, g.dims)
	}
	var c voxel.Cell
	for i, d := range [3]uint32{x, y, z} {
		p := int64(g.origin[i]) + int64(d)
		if p > math.MaxInt32 {
			return voxel.Cell{}, fmt.Errorf("%w: cell coordinate %d overflows int32", ErrFormat, p)
		}
		c[i] = int32(p)
	}
	return c, nil
}

func (g grid) index(c voxel.Cell) uint64 {
	x, y, z := g.local(c)
	return uint64(x) + uint64(g.dims[0])*(uint64(y)+uint64(g.dims[1])*uint64(z))
}

func encodeBitmap(g grid, cells []voxel.Cell) []byte {
	bm := newBitmap(g.volume())
	for _, c := range cells {
		bm.set(g.index(c))
	}
	return bm
}

func decodeBitmap(g grid, payload []byte, count uint32) ([]voxel.Cell, error) {
	if g.volume() > maxBitmapCells {
		return nil, fmt.Errorf("%w: bitmap of %d cells", ErrTooLarge, g.volume())
	}
	if uint64(len(payload)) != (g.volume()+7)/8 {
		return nil, fmt.Errorf("%w: bitmap is %d bytes for %d cells", ErrFormat, len(payload), g.volume())
	}
	cells := make([]voxel.Cell, 0, min(uint64(count), g.volume()))
	plane := uint64(g.dims[0]) * uint64(g.dims[1])
	err := bitmap(payload).ones(func(i uint64) error {
		if i >= g.volume() {
			return fmt.Errorf("%w: padding bit %d set", ErrFormat, i)
		}
		x := i % uint64(g.dims[0])
		y := i / uint64(g.dims[0]) % uint64(g.dims[1])
		z := i / plane
		c, err := g.cell(uint32(x), uint32(y), uint32(z))
		if err != nil {
			return err
		}
		cells = append(cells, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cells, nil
}

func encodeMorton(g grid, cells []voxel.Cell) []byte {
	keys := make([]uint64, len(cells))
	for i, c := range cells {
		keys[i] = Morton3D64(g.local(c))
	}
	slices.Sort(keys)
	out := make([]byte, 0, len(keys)*2)
	var prev uint64
	for _, k := range keys {
		out = writeUVarint(out, k-prev)
		prev = k
	}
	return out
}

func decodeMorton(g grid, payload []byte, count uint32) ([]voxel.Cell, error) {
	cells := make([]voxel.Cell, 0, min(int(count), len(payload)))
	var key uint64
	pos := 0
	for i := uint32(0); i < count; i++ {
		d, err := readUVarint(payload, &pos)
		if err != nil {
			return nil, err
		}
		if (i > 0 && d == 0) || key+d < key {
			return nil, fmt.Errorf("%w: Morton keys not strictly increasing", ErrFormat)
		}
		key += d
		c, err := g.cell(MortonDecode3D64(key))
		if err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	if pos != len(payload) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrFormat, len(payload)-pos)
	}
	return cells, nil
}

func zlibCompress(b []byte) []byte {
	var buf bytes.Buffer
	zw, _ := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	_, _ = zw.Write(b)
	_ = zw.Close()
	return buf.Bytes()
}

func zlibDecompress(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(io.LimitReader(zr, maxPayload+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(out) > maxPayload {
		return nil, fmt.Errorf("%w: inflated payload exceeds %d bytes", ErrTooLarge, maxPayload)
	}
	return out, nil
}

func zstdCompress(b []byte) []byte {
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	defer enc.Close()
	return enc.EncodeAll(b, nil)
}

func zstdDecompress(b []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxPayload))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	out, err := dec.DecodeAll(b, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return out, nil
}

func compress(b []byte, comp Compression) (uint8, []byte) {
	switch comp {
	case CompZlib:
		return flagZlib, zlibCompress(b)
	case CompZstd:
		return flagZstd, zstdCompress(b)
	default:
		return 0, b
	}
}

func decompress(flags uint8, b []byte) ([]byte, error) {
	switch flags &^ encMask {
	case 0:
		return b, nil
	case flagZlib:
		return zlibDecompress(b)
	case flagZstd:
		return zstdDecompress(b)
	default:
		return nil, fmt.Errorf("%w: conflicting compression flags 0x%02x", ErrFormat, flags)
	}
}

// bestEncoding builds every layout the set allows and keeps the smallest
// after compression with comp (all codecs for CompAuto). The raw payload
// is returned alongside for checksumming.
func bestEncoding(g grid, cells []voxel.Cell, comp Compression) (best encoded, raw []byte) {
	layouts := []encoded{{encoding: encMorton, payload: encodeMorton(g, cells)}}
	if g.volume() <= maxBitmapCells {
		layouts = append(layouts, encoded{encoding: encBitmap, payload: encodeBitmap(g, cells)})
	}
	codecs := []Compression{comp}
	if comp == CompAuto {
		codecs = []Compression{CompNone, CompZlib, CompZstd}
	}

	first := true
	for _, l := range layouts {
		for _, c := range codecs {
			flag, payload := compress(l.payload, c)
			if first || len(payload) < len(best.payload) {
				best = encoded{encoding: l.encoding | flag, payload: payload}
				raw = l.payload
				first = false
			}
		}
	}
	return best, raw
}
