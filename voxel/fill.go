package voxel

import "slices"

// Fill marks the interior of a closed shell as occupied.
//
// Each axis is swept independently over the set as it was before the call:
// occupied cells are grouped into lines along the axis, and walking a line a
// parity flag (starting inside) toggles at every gap. Gap cells crossed while
// inside are candidates. Only cells that are candidates on all three axes are
// added. The result is only meaningful for watertight shells.
//
// Fill never removes a cell and calling it twice is the same as calling it
// once. With WithWorkers(n > 1) the three sweeps run concurrently.
func (v *Voxels[T]) Fill(opts ...Option) {
	if len(v.cells) == 0 {
		return
	}
	o := newOptions(opts)

	var candidates [3]map[Cell]struct{}
	// sweeps only read v.cells; the merge below is the single writer
	parallelEach(3, o.workers, func(axis int) {
		candidates[axis] = v.sweep(axis)
	})

	for c := range candidates[0] {
		if _, ok := candidates[1][c]; !ok {
			continue
		}
		if _, ok := candidates[2][c]; !ok {
			continue
		}
		v.cells[c] = struct{}{}
	}
}

// sweep returns the parity candidates along axis.
func (v *Voxels[T]) sweep(axis int) map[Cell]struct{} {
	u, w := (axis+1)%3, (axis+2)%3
	lines := make(map[[2]int32][]int32)
	for c := range v.cells {
		key := [2]int32{c[u], c[w]}
		lines[key] = append(lines[key], c[axis])
	}

	out := make(map[Cell]struct{})
	for key, coords := range lines {
		slices.Sort(coords)
		inside := true
		for i := 1; i < len(coords); i++ {
			prev, cur := coords[i-1], coords[i]
			if int64(cur)-int64(prev) <= 1 {
				continue
			}
			if inside {
				var c Cell
				c[u], c[w] = key[0], key[1]
				for p := prev + 1; p < cur; p++ {
					c[axis] = p
					out[c] = struct{}{}
				}
			}
			inside = !inside
		}
	}
	return out
}
