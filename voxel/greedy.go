package voxel

import (
	"cmp"
	"slices"
)

// GreedyMesh returns the same exposed surface as ReconstructMesh with
// coplanar faces merged into maximal rectangles, slice by slice. Each
// rectangle becomes four shared vertices and two triangles.
func (v *Voxels[T]) GreedyMesh() *Mesh[T] {
	m := &Mesh[T]{}
	for _, d := range directions {
		layers := make(map[int32]map[[2]int32]bool)
		for c := range v.cells {
			if !v.exposed(c, d) {
				continue
			}
			mask := layers[c[d.axis]]
			if mask == nil {
				mask = make(map[[2]int32]bool)
				layers[c[d.axis]] = mask
			}
			mask[[2]int32{c[d.u], c[d.v]}] = true
		}

		keys := make([]int32, 0, len(layers))
		for p := range layers {
			keys = append(keys, p)
		}
		slices.Sort(keys)
		for _, p := range keys {
			v.mergeLayer(m, d, p, layers[p])
		}
	}
	return m
}

// mergeLayer covers the exposed faces of one slice with rectangles: each
// unvisited face grows along v first, then along u while whole rows fit.
func (v *Voxels[T]) mergeLayer(m *Mesh[T], d dirSpec, p int32, mask map[[2]int32]bool) {
	faces := make([][2]int32, 0, len(mask))
	for f := range mask {
		faces = append(faces, f)
	}
	slices.SortFunc(faces, func(a, b [2]int32) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})

	visited := make(map[[2]int32]bool, len(mask))
	free := func(u, w int64) bool {
		k := [2]int32{int32(u), int32(w)}
		return u <= maxCoord && w <= maxCoord && mask[k] && !visited[k]
	}

	for _, f := range faces {
		if visited[f] {
			continue
		}
		u0, v0 := int64(f[0]), int64(f[1])
		width := int64(1)
		for free(u0, v0+width) {
			width++
		}
		height := int64(1)
	grow:
		for {
			for w := v0; w < v0+width; w++ {
				if !free(u0+height, w) {
					break grow
				}
			}
			height++
		}
		for hu := u0; hu < u0+height; hu++ {
			for hv := v0; hv < v0+width; hv++ {
				visited[[2]int32{int32(hu), int32(hv)}] = true
			}
		}

		var start Cell
		start[d.axis], start[d.u], start[d.v] = p, f[0], f[1]
		q := quadCorners(d, start, width, height)
		base := uint32(len(m.Vertices))
		for _, c := range q {
			m.Vertices = append(m.Vertices, v.world(c))
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
}

const maxCoord = int64(1<<31 - 1)
