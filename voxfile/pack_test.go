package voxfile

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func samplePack(t *testing.T) *Pack {
	t.Helper()
	p := &Pack{}
	for i := 0; i < 4; i++ {
		data, err := Encode(sampleSet(t, 500+i, 400), CompNone)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		p.Entries = append(p.Entries, PackEntry{Name: fmt.Sprintf("set%d.vxs", i), Data: data})
	}
	// a duplicate entry for the chunk dictionary to share
	p.Entries = append(p.Entries, PackEntry{Name: "copy.vxs", Data: p.Entries[0].Data})
	p.Entries = append(p.Entries, PackEntry{Name: "empty"})
	return p
}

func TestPack_Roundtrip(t *testing.T) {
	p := samplePack(t)
	for _, layout := range []PackLayout{LayoutRaw, LayoutCDC} {
		for _, comp := range []Compression{CompNone, CompZlib, CompZstd} {
			data, err := p.MarshalEx(layout, comp)
			if err != nil {
				t.Fatalf("layout %d/%v: MarshalEx failed: %v", layout, comp, err)
			}
			got, gotComp, err := UnmarshalPack(data)
			if err != nil {
				t.Fatalf("layout %d/%v: UnmarshalPack failed: %v", layout, comp, err)
			}
			if gotComp != comp {
				t.Fatalf("compression = %v, want %v", gotComp, comp)
			}
			if len(got.Entries) != len(p.Entries) {
				t.Fatalf("got %d entries, want %d", len(got.Entries), len(p.Entries))
			}
			for i, e := range p.Entries {
				if got.Entries[i].Name != e.Name || !bytes.Equal(got.Entries[i].Data, e.Data) {
					t.Fatalf("layout %d/%v: entry %d (%s) differs", layout, comp, i, e.Name)
				}
			}
			if _, err := Decode(got.Entries[1].Data); err != nil {
				t.Fatalf("unpacked entry does not decode: %v", err)
			}
		}
	}
}

func TestPack_CDCDeduplicates(t *testing.T) {
	p := samplePack(t)
	raw, err := p.MarshalEx(LayoutRaw, CompNone)
	if err != nil {
		t.Fatalf("MarshalEx failed: %v", err)
	}
	cdc, err := p.MarshalEx(LayoutCDC, CompNone)
	if err != nil {
		t.Fatalf("MarshalEx failed: %v", err)
	}
	if len(cdc) >= len(raw) {
		t.Fatalf("CDC pack (%d bytes) is not smaller than raw (%d bytes) with a duplicate entry", len(cdc), len(raw))
	}
}

func TestUnmarshalPack_Corrupted(t *testing.T) {
	p := &Pack{Entries: []PackEntry{{Name: "a", Data: []byte("hello voxels")}}}
	data, err := p.Marshal(CompNone)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	flipped := append([]byte(nil), data...)
	flipped[len(flipped)-1] ^= 0xFF
	if _, _, err := UnmarshalPack(flipped); !errors.Is(err, ErrChecksum) {
		t.Fatalf("flipped entry byte: got %v, want ErrChecksum", err)
	}
	if _, _, err := UnmarshalPack(data[:len(data)-4]); !errors.Is(err, ErrFormat) {
		t.Fatalf("truncated pack: got %v, want ErrFormat", err)
	}
	if _, _, err := UnmarshalPack([]byte("VOPLPACK")); !errors.Is(err, ErrFormat) {
		t.Fatalf("foreign magic: got %v, want ErrFormat", err)
	}
	if _, err := p.MarshalEx(LayoutRaw, CompAuto); err == nil {
		t.Fatalf("pack accepted auto compression")
	}
}

func TestCDCChunks_Bounds(t *testing.T) {
	data := make([]byte, 100_000)
	rand.New(rand.NewSource(3)).Read(data)
	chunks := cdcChunks(data, 1<<12-1, cdcMin, cdcMax)
	var joined []byte
	for i, c := range chunks {
		if len(c) > cdcMax {
			t.Fatalf("chunk %d is %d bytes, max %d", i, len(c), cdcMax)
		}
		if i < len(chunks)-1 && len(c) < cdcMin {
			t.Fatalf("chunk %d is %d bytes, min %d", i, len(c), cdcMin)
		}
		joined = append(joined, c...)
	}
	if !bytes.Equal(joined, data) {
		t.Fatalf("chunks do not reassemble the input")
	}

	// an edit near the start leaves later boundaries in place
	edited := append([]byte{0xAA}, data...)
	shared := 0
	seen := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		seen[string(c)] = true
	}
	for _, c := range cdcChunks(edited, 1<<12-1, cdcMin, cdcMax) {
		if seen[string(c)] {
			shared++
		}
	}
	if shared < len(chunks)/2 {
		t.Fatalf("only %d of %d chunks survived a one-byte insert", shared, len(chunks))
	}
}
