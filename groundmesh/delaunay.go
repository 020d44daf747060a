package groundmesh

import (
	"math"

	"github.com/giovastabile/dtcc-builder/geom"
)

// triangulator incrementally builds a Delaunay triangulation via the
// Bowyer-Watson algorithm, then recovers constraint edges by edge
// flipping.
type triangulator struct {
	verts []geom.Point2
	tris  [][3]int // indices into verts; may include the 3 super-triangle vertices during construction
	super [3]int   // indices of the bounding super-triangle's vertices
}

func newTriangulator(bounds geom.AABB2) *triangulator {
	// super-triangle large enough to strictly contain bounds
	dx := bounds.Width()
	dy := bounds.Height()
	d := math.Max(dx, dy) + 1
	cx := (bounds.Min.X + bounds.Max.X) / 2
	cy := (bounds.Min.Y + bounds.Max.Y) / 2

	t := &triangulator{}
	t.verts = []geom.Point2{
		{X: cx - 20*d, Y: cy - 20*d},
		{X: cx + 20*d, Y: cy - 20*d},
		{X: cx, Y: cy + 20*d},
	}
	t.super = [3]int{0, 1, 2}
	t.tris = [][3]int{{0, 1, 2}}
	return t
}

// addVertex registers p as a mesh vertex (without triangulating it) and
// returns its index.
func (t *triangulator) addVertex(p geom.Point2) int {
	t.verts = append(t.verts, p)
	return len(t.verts) - 1
}

func inCircumcircle(a, b, c, p geom.Point2) bool {
	// standard in-circle determinant test, assuming a,b,c are CCW.
	ax, ay := a.X-p.X, a.Y-p.Y
	bx, by := b.X-p.X, b.Y-p.Y
	cx, cy := c.X-p.X, c.Y-p.Y

	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)
	return det > 0
}

// insert adds the vertex at index vi into the triangulation via
// Bowyer-Watson point insertion.
func (t *triangulator) insert(vi int) {
	p := t.verts[vi]

	var bad [][3]int
	for _, tri := range t.tris {
		a, b, c := t.verts[tri[0]], t.verts[tri[1]], t.verts[tri[2]]
		if inCircumcircle(a, b, c, p) {
			bad = append(bad, tri)
		}
	}
	if len(bad) == 0 {
		// point coincides with an existing vertex or lies on a degenerate
		// configuration; skip rather than corrupt the triangulation.
		return
	}

	// boundary = edges of bad triangles not shared by another bad triangle
	edgeCount := make(map[[2]int]int)
	edgeOrder := make(map[[2]int][2]int)
	addEdge := func(u, v int) {
		k := [2]int{u, v}
		if u > v {
			k = [2]int{v, u}
		}
		edgeCount[k]++
		edgeOrder[k] = [2]int{u, v}
	}
	for _, tri := range bad {
		addEdge(tri[0], tri[1])
		addEdge(tri[1], tri[2])
		addEdge(tri[2], tri[0])
	}

	remaining := t.tris[:0]
	for _, tri := range t.tris {
		isBad := false
		for _, bt := range bad {
			if bt == tri {
				isBad = true
				break
			}
		}
		if !isBad {
			remaining = append(remaining, tri)
		}
	}
	t.tris = remaining

	for k, cnt := range edgeCount {
		if cnt != 1 {
			continue
		}
		e := edgeOrder[k]
		t.tris = append(t.tris, [3]int{e[0], e[1], vi})
	}
}

// isSuper reports whether triangle tri references a super-triangle vertex.
func (t *triangulator) isSuper(tri [3]int) bool {
	for _, vi := range tri {
		if vi == t.super[0] || vi == t.super[1] || vi == t.super[2] {
			return true
		}
	}
	return false
}

// finalize returns the mesh with super-triangle vertices/triangles removed
// and remaining triangles reindexed + oriented CCW.
func (t *triangulator) finalize() (*Mesh2D, map[int]int) {
	keep := make([]bool, len(t.verts))
	for i := range t.verts {
		keep[i] = true
	}
	keep[t.super[0]], keep[t.super[1]], keep[t.super[2]] = false, false, false

	remap := make(map[int]int)
	var verts []geom.Point2
	for i, p := range t.verts {
		if !keep[i] {
			continue
		}
		remap[i] = len(verts)
		verts = append(verts, p)
	}

	m := &Mesh2D{Vertices: verts}
	for _, tri := range t.tris {
		if t.isSuper(tri) {
			continue
		}
		nt := [3]int{remap[tri[0]], remap[tri[1]], remap[tri[2]]}
		nt = m.orientCCW(nt)
		m.Triangles = append(m.Triangles, nt)
	}
	m.Markers = make([]Marker, len(m.Vertices))
	return m, remap
}

// hasEdge reports whether (a,b) appears as an edge of any triangle.
func hasEdge(tris [][3]int, a, b int) bool {
	for _, tri := range tris {
		for i := 0; i < 3; i++ {
			u, v := tri[i], tri[(i+1)%3]
			if (u == a && v == b) || (u == b && v == a) {
				return true
			}
		}
	}
	return false
}

// recoverEdge makes sure (a,b) is present in tris by repeatedly flipping
// crossing edges (Sloan's constrained-edge-recovery algorithm). It reports
// ok=false if it cannot recover the edge within the iteration cap - the
// caller reports this as a NumericDegenerate warning and leaves the edge
// unconstrained.
func recoverEdge(verts []geom.Point2, tris [][3]int, a, b int) ([][3]int, bool) {
	if hasEdge(tris, a, b) {
		return tris, true
	}
	const maxFlips = 200
	pa, pb := verts[a], verts[b]

	for iter := 0; iter < maxFlips; iter++ {
		if hasEdge(tris, a, b) {
			return tris, true
		}
		flipped := false
		for i := 0; i < len(tris); i++ {
			for j := i + 1; j < len(tris); j++ {
				u, v, wi, wj, ok := sharedEdge(tris[i], tris[j])
				if !ok {
					continue
				}
				pu, pv := verts[u], verts[v]
				if !geom.SegmentsIntersect(pa, pb, pu, pv) {
					continue
				}
				pw1, pw2 := verts[wi], verts[wj]
				if !convexQuad(pu, pw1, pv, pw2) {
					continue
				}
				// flip diagonal u-v to wi-wj
				t1 := [3]int{wi, u, wj}
				t2 := [3]int{wi, wj, v}
				t1 = orientCCWverts(verts, t1)
				t2 = orientCCWverts(verts, t2)
				tris[i] = t1
				tris[j] = t2
				flipped = true
				break
			}
			if flipped {
				break
			}
		}
		if !flipped {
			break
		}
	}
	return tris, hasEdge(tris, a, b)
}

// sharedEdge returns the two vertices shared between triangles t1,t2 (u,v)
// and the two opposite vertices (wi from t1, wj from t2), if t1 and t2
// share exactly one edge.
func sharedEdge(t1, t2 [3]int) (u, v, wi, wj int, ok bool) {
	shared := []int{}
	for _, a := range t1 {
		for _, b := range t2 {
			if a == b {
				shared = append(shared, a)
			}
		}
	}
	if len(shared) != 2 {
		return 0, 0, 0, 0, false
	}
	u, v = shared[0], shared[1]
	for _, a := range t1 {
		if a != u && a != v {
			wi = a
		}
	}
	for _, b := range t2 {
		if b != u && b != v {
			wj = b
		}
	}
	return u, v, wi, wj, true
}

func convexQuad(a, b, c, d geom.Point2) bool {
	cross := func(o, p, q geom.Point2) float64 { return p.Sub(o).Cross(q.Sub(o)) }
	s1 := cross(a, b, c)
	s2 := cross(b, c, d)
	s3 := cross(c, d, a)
	s4 := cross(d, a, b)
	pos := s1 > 0 && s2 > 0 && s3 > 0 && s4 > 0
	neg := s1 < 0 && s2 < 0 && s3 < 0 && s4 < 0
	return pos || neg
}

func orientCCWverts(verts []geom.Point2, t [3]int) [3]int {
	if signedArea2(verts[t[0]], verts[t[1]], verts[t[2]]) < 0 {
		return [3]int{t[0], t[2], t[1]}
	}
	return t
}
