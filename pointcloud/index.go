package pointcloud

import (
	"math"

	"github.com/giovastabile/dtcc-builder/geom"
)

// Index is a 2D uniform grid index over a point cloud's (x,y) coordinates,
// used by building-point assignment to query candidate points without a
// full scan.
type Index struct {
	pc       *PointCloud
	cellSize float64
	bounds   geom.AABB2
	cols     int
	rows     int
	buckets  [][]int
}

// NewIndex builds a uniform grid index over pc with the given cell size.
func NewIndex(pc *PointCloud, cellSize float64) *Index {
	b := pc.Bounds()
	cols := iMax(1, int(math.Ceil(b.Width()/cellSize)))
	rows := iMax(1, int(math.Ceil(b.Height()/cellSize)))
	idx := &Index{
		pc:       pc,
		cellSize: cellSize,
		bounds:   b,
		cols:     cols,
		rows:     rows,
		buckets:  make([][]int, cols*rows),
	}
	for i := 0; i < pc.Len(); i++ {
		c, r := idx.cellOf(pc.Point2At(i))
		bi := r*cols + c
		idx.buckets[bi] = append(idx.buckets[bi], i)
	}
	return idx
}

func (idx *Index) cellOf(p geom.Point2) (col, row int) {
	col = int((p.X - idx.bounds.Min.X) / idx.cellSize)
	row = int((p.Y - idx.bounds.Min.Y) / idx.cellSize)
	col = clampi(col, 0, idx.cols-1)
	row = clampi(row, 0, idx.rows-1)
	return
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func iMax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// QueryAABB returns the indices of every point whose (x,y) lies within b,
// expanded by margin on every side.
func (idx *Index) QueryAABB(b geom.AABB2, margin float64) []int {
	qb := b.Expand(margin)
	c0, r0 := idx.cellOf(qb.Min)
	c1, r1 := idx.cellOf(qb.Max)
	var out []int
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			for _, i := range idx.buckets[r*idx.cols+c] {
				p := idx.pc.Point2At(i)
				if p.X >= qb.Min.X && p.X <= qb.Max.X && p.Y >= qb.Min.Y && p.Y <= qb.Max.Y {
					out = append(out, i)
				}
			}
		}
	}
	return out
}

// KNearest returns the indices of the k nearest points (3D distance) to p,
// excluding p itself if self is a valid index into the cloud (pass -1 when
// p does not correspond to a cloud point). Used by the roof statistical
// outlier remover.
func (idx *Index) KNearest(p geom.Point3, k int, self int) []int {
	// Expand the search radius ring by ring until we have at least k
	// candidates, then take the k closest among them. This avoids an O(n)
	// scan for the common case of a dense, roughly uniform cloud.
	center := geom.Point2{X: p.X, Y: p.Y}
	radius := idx.cellSize
	var candidates []int
	for tries := 0; tries < 8; tries++ {
		candidates = idx.QueryAABB(geom.AABB2{Min: center, Max: center}, radius)
		if len(candidates) > k {
			break
		}
		radius *= 2
	}
	type distIdx struct {
		d float64
		i int
	}
	ds := make([]distIdx, 0, len(candidates))
	for _, i := range candidates {
		if i == self {
			continue
		}
		ds = append(ds, distIdx{d: idx.pc.Point3At(i).Dist(p), i: i})
	}
	// partial selection sort for the smallest k - candidate sets here are
	// small (bounded by a handful of grid cells), so this is adequate.
	n := len(ds)
	limit := k
	if limit > n {
		limit = n
	}
	for a := 0; a < limit; a++ {
		min := a
		for bIdx := a + 1; bIdx < n; bIdx++ {
			if ds[bIdx].d < ds[min].d {
				min = bIdx
			}
		}
		ds[a], ds[min] = ds[min], ds[a]
	}
	out := make([]int, limit)
	for a := 0; a < limit; a++ {
		out[a] = ds[a].i
	}
	return out
}
