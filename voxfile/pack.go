package voxfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	xxhash "github.com/cespare/xxhash/v2"
)

const (
	packMagic    = "VXPACK"
	packVersion1 = 1
)

// PackLayout specifies how the content section stores entry data.
type PackLayout uint8

const (
	// LayoutRaw stores every entry as an independent blob.
	LayoutRaw PackLayout = 0
	// LayoutCDC stores a dictionary of content-defined chunks shared by all
	// entries, and each entry as a sequence of chunk references.
	LayoutCDC PackLayout = 1
)

// CDC parameters.
const (
	cdcTarget = 4096
	cdcMin    = 1024
	cdcMax    = 16384
)

// PackEntry is one named file inside a pack.
type PackEntry struct {
	Name string
	Data []byte
}

// Pack is an ordered collection of named files, typically .vxs sets.
type Pack struct {
	Entries []PackEntry
}

// Marshal encodes the pack with the raw layout.
func (p *Pack) Marshal(comp Compression) ([]byte, error) {
	return p.MarshalEx(LayoutRaw, comp)
}

// MarshalEx encodes the pack with the given layout and content codec.
func (p *Pack) MarshalEx(layout PackLayout, comp Compression) ([]byte, error) {
	var content bytes.Buffer
	_ = binary.Write(&content, binary.LittleEndian, uint8(layout))

	var sequences [][]int
	switch layout {
	case LayoutRaw:
	case LayoutCDC:
		var dict [][]byte
		dict, sequences = buildCDCIndex(p.Entries, cdcTarget, cdcMin, cdcMax)
		_ = binary.Write(&content, binary.LittleEndian, uint32(len(dict)))
		for _, blk := range dict {
			_ = binary.Write(&content, binary.LittleEndian, uint32(len(blk)))
			_, _ = content.Write(blk)
		}
	default:
		return nil, fmt.Errorf("unsupported pack layout %d", layout)
	}

	_ = binary.Write(&content, binary.LittleEndian, uint32(len(p.Entries)))
	for i, e := range p.Entries {
		nb := []byte(e.Name)
		if len(nb) > math.MaxUint16 {
			return nil, fmt.Errorf("entry name too long: %.32s...", e.Name)
		}
		if uint64(len(e.Data)) > math.MaxUint32 {
			return nil, fmt.Errorf("%w: entry %s is %d bytes", ErrTooLarge, e.Name, len(e.Data))
		}
		_ = binary.Write(&content, binary.LittleEndian, uint16(len(nb)))
		_, _ = content.Write(nb)
		_ = binary.Write(&content, binary.LittleEndian, xxhash.Sum64(e.Data))
		_ = binary.Write(&content, binary.LittleEndian, uint32(len(e.Data)))
		if layout == LayoutRaw {
			_, _ = content.Write(e.Data)
			continue
		}
		seq := sequences[i]
		_ = binary.Write(&content, binary.LittleEndian, uint32(len(seq)))
		for _, idx := range seq {
			_ = binary.Write(&content, binary.LittleEndian, uint32(idx))
		}
	}

	var final []byte
	switch comp {
	case CompNone, CompZlib, CompZstd:
		_, final = compress(content.Bytes(), comp)
	default:
		return nil, fmt.Errorf("unsupported pack compression %v", comp)
	}

	var out bytes.Buffer
	out.WriteString(packMagic)
	_ = binary.Write(&out, binary.LittleEndian, uint8(packVersion1))
	_ = binary.Write(&out, binary.LittleEndian, uint8(comp))
	_, _ = out.Write(final)
	return out.Bytes(), nil
}

// UnmarshalPack parses a .vxpack and returns the pack and the codec its
// content was stored with. Every entry is verified against its checksum.
func UnmarshalPack(data []byte) (*Pack, Compression, error) {
	if len(data) < len(packMagic)+2 || string(data[:len(packMagic)]) != packMagic {
		return nil, 0, fmt.Errorf("%w: not a .vxpack file", ErrFormat)
	}
	version := data[len(packMagic)]
	comp := Compression(data[len(packMagic)+1])
	if version != packVersion1 {
		return nil, 0, fmt.Errorf("%w: unsupported pack version %d", ErrFormat, version)
	}
	var flags uint8
	switch comp {
	case CompNone:
	case CompZlib:
		flags = flagZlib
	case CompZstd:
		flags = flagZstd
	default:
		return nil, 0, fmt.Errorf("%w: unsupported pack compression %d", ErrFormat, comp)
	}
	content, err := decompress(flags, data[len(packMagic)+2:])
	if err != nil {
		return nil, 0, err
	}

	r := &packReader{r: bytes.NewReader(content)}
	layout := PackLayout(r.u8())
	var blocks [][]byte
	switch layout {
	case LayoutRaw:
	case LayoutCDC:
		n := r.u32()
		for i := uint32(0); i < n && r.err == nil; i++ {
			blocks = append(blocks, r.bytes(int(r.u32())))
		}
	default:
		return nil, 0, fmt.Errorf("%w: unknown pack layout %d", ErrFormat, layout)
	}

	n := r.u32()
	pack := &Pack{}
	for i := uint32(0); i < n && r.err == nil; i++ {
		name := string(r.bytes(int(r.u16())))
		sum := r.u64()
		size := r.u32()
		var payload []byte
		if layout == LayoutRaw {
			payload = r.bytes(int(size))
		} else {
			payload, err = r.sequence(blocks, size)
			if err != nil {
				return nil, 0, fmt.Errorf("entry %s: %w", name, err)
			}
		}
		if r.err != nil {
			break
		}
		if xxhash.Sum64(payload) != sum {
			return nil, 0, fmt.Errorf("entry %s: %w", name, ErrChecksum)
		}
		pack.Entries = append(pack.Entries, PackEntry{Name: name, Data: payload})
	}
	if r.err != nil {
		return nil, 0, fmt.Errorf("%w: truncated pack: %v", ErrFormat, r.err)
	}
	return pack, comp, nil
}

// packReader reads little-endian fields and keeps the first error.
type packReader struct {
	r   *bytes.Reader
	err error
}

func (p *packReader) read(v any) {
	if p.err == nil {
		p.err = binary.Read(p.r, binary.LittleEndian, v)
	}
}

func (p *packReader) u8() (v uint8)   { p.read(&v); return }
func (p *packReader) u16() (v uint16) { p.read(&v); return }
func (p *packReader) u32() (v uint32) { p.read(&v); return }
func (p *packReader) u64() (v uint64) { p.read(&v); return }

func (p *packReader) bytes(n int) []byte {
	if p.err != nil {
		return nil
	}
	if n > p.r.Len() {
		p.err = io.ErrUnexpectedEOF
		return nil
	}
	b := make([]byte, n)
	_, p.err = io.ReadFull(p.r, b)
	return b
}

// sequence concatenates the referenced chunks of one CDC entry.
func (p *packReader) sequence(blocks [][]byte, size uint32) ([]byte, error) {
	n := p.u32()
	if p.err != nil {
		return nil, nil
	}
	var payload []byte
	for j := uint32(0); j < n; j++ {
		idx := p.u32()
		if p.err != nil {
			return nil, nil
		}
		if idx >= uint32(len(blocks)) {
			return nil, fmt.Errorf("%w: chunk index %d of %d", ErrFormat, idx, len(blocks))
		}
		if uint64(len(payload))+uint64(len(blocks[idx])) > uint64(size) {
			return nil, fmt.Errorf("%w: chunks exceed entry size %d", ErrFormat, size)
		}
		payload = append(payload, blocks[idx]...)
	}
	if uint32(len(payload)) != size {
		return nil, fmt.Errorf("%w: entry is %d bytes, header says %d", ErrFormat, len(payload), size)
	}
	return payload, nil
}

// gearTable is the rolling hash table of the chunker: 256 splitmix64
// outputs seeded from a fixed string, so boundaries are stable across runs.
var gearTable = sync.OnceValue(func() *[256]uint64 {
	var table [256]uint64
	state := xxhash.Sum64String("meshvox-cdc-gear-seed")
	for i := range table {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ z>>30) * 0xBF58476D1CE4E5B9
		z = (z ^ z>>27) * 0x94D049BB133111EB
		table[i] = z ^ z>>31
	}
	return &table
})

// cdcChunks splits data at content-defined boundaries: a cut falls where
// the gear hash has its low bits clear, never before minSz bytes and always
// by maxSz bytes.
func cdcChunks(data []byte, mask uint64, minSz, maxSz int) [][]byte {
	gear := gearTable()
	var chunks [][]byte
	start := 0
	var h uint64
	for pos, b := range data {
		h = h<<1 + gear[b]
		size := pos - start + 1
		if size < minSz {
			continue
		}
		if h&mask == 0 || size >= maxSz {
			chunks = append(chunks, data[start:pos+1])
			start = pos + 1
			h = 0
		}
	}
	if start < len(data) {
		chunks = append(chunks, data[start:])
	}
	return chunks
}

// buildCDCIndex chunks every entry and deduplicates the chunks. It returns
// the unique chunks plus, per entry, the sequence of chunk indices.
func buildCDCIndex(entries []PackEntry, target, minSz, maxSz int) ([][]byte, [][]int) {
	// average chunk size ~ target, rounded to a power of two
	mask := uint64(1)<<uint(math.Round(math.Log2(float64(target)))) - 1

	var blocks [][]byte
	byHash := make(map[uint64][]int)
	seqs := make([][]int, len(entries))
	for i, e := range entries {
		for _, chunk := range cdcChunks(e.Data, mask, minSz, maxSz) {
			h := xxhash.Sum64(chunk)
			idx := -1
			for _, j := range byHash[h] {
				if bytes.Equal(blocks[j], chunk) {
					idx = j
					break
				}
			}
			if idx < 0 {
				idx = len(blocks)
				blocks = append(blocks, chunk)
				byHash[h] = append(byHash[h], idx)
			}
			seqs[i] = append(seqs[i], idx)
		}
	}
	return blocks, seqs
}
