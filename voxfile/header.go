package voxfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrFormat is returned for input that is not a well-formed file of the
	// expected kind.
	ErrFormat = errors.New("voxfile: invalid format")
	// ErrChecksum is returned when a payload does not match its stored hash.
	ErrChecksum = errors.New("voxfile: checksum mismatch")
	// ErrTooLarge is returned when a set or payload exceeds what the format
	// can represent or what a reader is willing to allocate.
	ErrTooLarge = errors.New("voxfile: too large")

	errVarintOverflow  = fmt.Errorf("%w: varint overflows 64 bits", ErrFormat)
	errVarintTruncated = fmt.Errorf("%w: truncated varint", ErrFormat)
)

const (
	magic      = "VOXS"
	version1   = 1
	headerSize = 4 + 1 + 1 + 8 + 12 + 12 + 4 + 8 + 4
)

// Header holds the fixed fields of a .vxs file.
//
//	"VOXS" | ver u8 | enc u8 | step f64 | origin [3]i32 | dims [3]u32 |
//	count u32 | checksum u64 | plen u32 | payload
//
// All fields are little-endian. Checksum is the xxhash64 of the
// uncompressed payload.
type Header struct {
	Version  uint8
	Encoding uint8
	Step     float64
	Origin   [3]int32
	Dims     [3]uint32
	Count    uint32
	Checksum uint64
	PLen     uint32
}

// Compressed reports which codec the payload was stored with.
func (h Header) Compressed() Compression {
	switch {
	case h.Encoding&flagZlib != 0:
		return CompZlib
	case h.Encoding&flagZstd != 0:
		return CompZstd
	default:
		return CompNone
	}
}

// Layout returns the payload layout name.
func (h Header) Layout() string {
	switch h.Encoding & encMask {
	case encBitmap:
		return "bitmap"
	case encMorton:
		return "morton"
	default:
		return fmt.Sprintf("unknown(%d)", h.Encoding&encMask)
	}
}

func (h Header) marshal(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(headerSize + len(payload))
	buf.WriteString(magic)
	_ = binary.Write(&buf, binary.LittleEndian, h.Version)
	_ = binary.Write(&buf, binary.LittleEndian, h.Encoding)
	_ = binary.Write(&buf, binary.LittleEndian, h.Step)
	_ = binary.Write(&buf, binary.LittleEndian, h.Origin)
	_ = binary.Write(&buf, binary.LittleEndian, h.Dims)
	_ = binary.Write(&buf, binary.LittleEndian, h.Count)
	_ = binary.Write(&buf, binary.LittleEndian, h.Checksum)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	_, _ = buf.Write(payload)
	return buf.Bytes()
}

// ParseHeader parses the header of a .vxs file and returns it together with
// the stored (possibly compressed) payload.
func ParseHeader(data []byte) (Header, []byte, error) {
	var h Header
	if len(data) < headerSize || string(data[:4]) != magic {
		return h, nil, fmt.Errorf("%w: not a .vxs file", ErrFormat)
	}
	r := bytes.NewReader(data[4:headerSize])
	// fixed-size reads from a slice of the exact size cannot fail
	_ = binary.Read(r, binary.LittleEndian, &h.Version)
	_ = binary.Read(r, binary.LittleEndian, &h.Encoding)
	_ = binary.Read(r, binary.LittleEndian, &h.Step)
	_ = binary.Read(r, binary.LittleEndian, &h.Origin)
	_ = binary.Read(r, binary.LittleEndian, &h.Dims)
	_ = binary.Read(r, binary.LittleEndian, &h.Count)
	_ = binary.Read(r, binary.LittleEndian, &h.Checksum)
	_ = binary.Read(r, binary.LittleEndian, &h.PLen)

	if h.Version != version1 {
		return h, nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, h.Version)
	}
	if uint64(len(data)-headerSize) != uint64(h.PLen) {
		return h, nil, fmt.Errorf("%w: payload length %d, header says %d", ErrFormat, len(data)-headerSize, h.PLen)
	}
	return h, data[headerSize:], nil
}
