package voxfile

import "math/bits"

// bitmap is a dense bit array: bit i lives in byte i/8 at position i%8.
type bitmap []byte

func newBitmap(n uint64) bitmap { return make(bitmap, (n+7)/8) }

func (b bitmap) set(i uint64) { b[i>>3] |= 1 << (i & 7) }

// ones calls fn with the index of every set bit, ascending. Zero bytes are
// skipped whole.
func (b bitmap) ones(fn func(i uint64) error) error {
	for pos, v := range b {
		for v != 0 {
			bit := uint64(bits.TrailingZeros8(v))
			if err := fn(uint64(pos)<<3 | bit); err != nil {
				return err
			}
			v &= v - 1
		}
	}
	return nil
}

func writeUVarint(dst []byte, x uint64) []byte {
	for x >= 0x80 {
		dst = append(dst, byte(x)|0x80)
		x >>= 7
	}
	return append(dst, byte(x))
}

func readUVarint(src []byte, pos *int) (uint64, error) {
	var x uint64
	var s uint
	i := *pos
	for {
		if i >= len(src) {
			return 0, errVarintTruncated
		}
		b := src[i]
		i++
		if b < 0x80 {
			if s == 63 && b > 1 {
				return 0, errVarintOverflow
			}
			x |= uint64(b) << s
			break
		}
		x |= uint64(b&0x7F) << s
		s += 7
		if s > 63 {
			return 0, errVarintOverflow
		}
	}
	*pos = i
	return x, nil
}
