package voxfile

// mortonBits is the per-axis coordinate width a 64-bit Morton key holds.
// It bounds the extent of a set stored with the Morton encoding.
const mortonBits = 21

// mortonStages spreads a 21-bit value so that bit i lands on bit 3i. Each
// stage shifts the partially spread value left and keeps the listed mask;
// run backwards with right shifts it gathers the bits again.
var mortonStages = [...]struct {
	shift uint
	mask  uint64
}{
	{32, 0x001f00000000ffff},
	{16, 0x001f0000ff0000ff},
	{8, 0x100f00f00f00f00f},
	{4, 0x10c30c30c30c30c3},
	{2, 0x1249249249249249},
}

const mortonAxisMask = 1<<mortonBits - 1

// Morton3D64 returns the key a cell gets in a .vxs Morton payload: the low
// 21 bits of the origin-relative coordinates interleaved x, y, z from bit 0
// up. Sorted keys are delta-coded as uvarints.
func Morton3D64(x, y, z uint32) uint64 {
	return spreadBits(uint64(x)) | spreadBits(uint64(y))<<1 | spreadBits(uint64(z))<<2
}

// MortonDecode3D64 recovers the origin-relative coordinates of a .vxs
// Morton key.
func MortonDecode3D64(key uint64) (x, y, z uint32) {
	return uint32(gatherBits(key)), uint32(gatherBits(key >> 1)), uint32(gatherBits(key >> 2))
}

func spreadBits(v uint64) uint64 {
	v &= mortonAxisMask
	for _, s := range mortonStages {
		v = (v | v<<s.shift) & s.mask
	}
	return v
}

func gatherBits(v uint64) uint64 {
	last := len(mortonStages) - 1
	v &= mortonStages[last].mask
	for i := last; i >= 0; i-- {
		keep := uint64(mortonAxisMask)
		if i > 0 {
			keep = mortonStages[i-1].mask
		}
		v = (v ^ v>>mortonStages[i].shift) & keep
	}
	return v
}
