package geom

import (
	"math"

	assert "github.com/arl/assertgo"
)

// Ring is a closed sequence of vertices; the closing edge from the last
// vertex back to the first is implicit.
type Ring []Point2

// signedArea2 returns twice the signed area of the ring (positive for
// counter-clockwise orientation). Using twice the area avoids a division
// until callers actually need it.
func (r Ring) signedArea2() float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return sum
}

// Area returns the unsigned area enclosed by the ring.
func (r Ring) Area() float64 { return math.Abs(r.signedArea2()) / 2 }

// CCW reports whether the ring is wound counter-clockwise.
func (r Ring) CCW() bool { return r.signedArea2() > 0 }

// Reversed returns a copy of r with vertex order reversed.
func (r Ring) Reversed() Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// Canonicalize returns r wound counter-clockwise if ccw is true, clockwise
// otherwise, reversing it only if needed. Footprint readers use this to
// normalize rings regardless of how the source data was wound.
func (r Ring) Canonicalize(ccw bool) Ring {
	if r.CCW() == ccw {
		return r
	}
	return r.Reversed()
}

// Contains reports whether p lies strictly inside the ring, using the
// standard even-odd crossing-number test.
func (r Ring) Contains(p Point2) bool {
	n := len(r)
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := r[i], r[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xInt := (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if p.X < xInt {
				inside = !inside
			}
		}
	}
	return inside
}

// OnBoundary reports whether p lies on an edge of the ring within eps.
func (r Ring) OnBoundary(p Point2, eps float64) bool {
	n := len(r)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if distToSegment(p, r[i], r[j]) <= eps {
			return true
		}
	}
	return false
}

// Bounds returns the AABB of the ring.
func (r Ring) Bounds() AABB2 {
	if len(r) == 0 {
		return AABB2{}
	}
	b := AABB2{r[0], r[0]}
	for _, p := range r[1:] {
		if p.X < b.Min.X {
			b.Min.X = p.X
		}
		if p.Y < b.Min.Y {
			b.Min.Y = p.Y
		}
		if p.X > b.Max.X {
			b.Max.X = p.X
		}
		if p.Y > b.Max.Y {
			b.Max.Y = p.Y
		}
	}
	return b
}

// distToSegment returns the distance from p to segment ab.
func distToSegment(p, a, b Point2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Dist(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	t = clampf(t, 0, 1)
	proj := a.Add(ab.Scale(t))
	return p.Dist(proj)
}

// SegmentsIntersect reports whether segments p1p2 and p3p4 intersect,
// including endpoint and collinear-overlap contact.
func SegmentsIntersect(p1, p2, p3, p4 Point2) bool {
	d1 := orientation(p3, p4, p1)
	d2 := orientation(p3, p4, p2)
	d3 := orientation(p1, p2, p3)
	d4 := orientation(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

// orientation returns the signed area of triangle (a,b,c): positive if c is
// left of a->b, negative if right, zero if collinear.
func orientation(a, b, c Point2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func onSegment(a, b, p Point2) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// Polygon is a ring with optional holes. The outer ring is wound
// counter-clockwise, holes clockwise.
type Polygon struct {
	Outer Ring
	Holes []Ring
}

// Validate checks the orientation invariant, panicking via assertgo if it is
// violated - this is an internal-bug guard, not input validation. Readers
// must canonicalize rings (Ring.Canonicalize) before constructing a Polygon.
func (p Polygon) Validate() {
	assert.True(len(p.Outer) == 0 || p.Outer.CCW(), "outer ring must be counter-clockwise")
	for i, h := range p.Holes {
		assert.True(h.CCW() == false, "hole %d must be clockwise", i)
	}
}

// Area returns the polygon's area (outer minus holes).
func (p Polygon) Area() float64 {
	a := p.Outer.Area()
	for _, h := range p.Holes {
		a -= h.Area()
	}
	return a
}

// Bounds returns the AABB of the outer ring.
func (p Polygon) Bounds() AABB2 { return p.Outer.Bounds() }

// Centroid returns the area-weighted centroid of the outer ring (holes are
// ignored - adequate for the centroid sampling done by height inference).
func (r Ring) Centroid() Point2 {
	n := len(r)
	if n == 0 {
		return Point2{}
	}
	var cx, cy, area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := r[i].Cross(r[j])
		cx += (r[i].X + r[j].X) * cross
		cy += (r[i].Y + r[j].Y) * cross
		area += cross
	}
	if area == 0 {
		// degenerate ring (collinear points): fall back to vertex average.
		var sx, sy float64
		for _, p := range r {
			sx += p.X
			sy += p.Y
		}
		return Point2{sx / float64(n), sy / float64(n)}
	}
	area /= 2
	return Point2{cx / (6 * area), cy / (6 * area)}
}

// Centroid returns the centroid of the outer ring.
func (p Polygon) Centroid() Point2 { return p.Outer.Centroid() }

// Contains reports whether q lies strictly inside p (inside the outer ring
// and outside every hole) - the rule vertex classification uses.
func (p Polygon) Contains(q Point2) bool {
	if !p.Outer.Contains(q) {
		return false
	}
	for _, h := range p.Holes {
		if h.Contains(q) {
			return false
		}
	}
	return true
}

// OnBoundary reports whether q lies on the outer ring or on any hole ring,
// within eps - used to mark `building-halo` mesh vertices.
func (p Polygon) OnBoundary(q Point2, eps float64) bool {
	if p.Outer.OnBoundary(q, eps) {
		return true
	}
	for _, h := range p.Holes {
		if h.OnBoundary(q, eps) {
			return true
		}
	}
	return false
}

// Edges returns every edge of the outer ring and all holes, as segment
// pairs - the constraint edges the ground mesher must preserve.
func (p Polygon) Edges() [][2]Point2 {
	var edges [][2]Point2
	appendRing := func(r Ring) {
		n := len(r)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			edges = append(edges, [2]Point2{r[i], r[j]})
		}
	}
	appendRing(p.Outer)
	for _, h := range p.Holes {
		appendRing(h)
	}
	return edges
}

// MinDist returns the minimum distance between any edge of p and any edge of
// q - used by the simplifier's merge graph.
func (p Polygon) MinDist(q Polygon) float64 {
	min := math.Inf(1)
	pe := p.Edges()
	qe := q.Edges()
	for _, e1 := range pe {
		for _, e2 := range qe {
			d := segSegDist(e1[0], e1[1], e2[0], e2[1])
			if d < min {
				min = d
			}
		}
	}
	return min
}

func segSegDist(a, b, c, d Point2) float64 {
	if SegmentsIntersect(a, b, c, d) {
		return 0
	}
	dists := []float64{
		distToSegment(a, c, d),
		distToSegment(b, c, d),
		distToSegment(c, a, b),
		distToSegment(d, a, b),
	}
	min := dists[0]
	for _, v := range dists[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// ClipToAABB clips the polygon's outer ring (and holes) to the given box
// using Sutherland-Hodgman clipping, as required by the simplifier's first
// step. Returns ok=false if the clipped outer ring is empty.
func (p Polygon) ClipToAABB(b AABB2) (Polygon, bool) {
	outer := clipRingToAABB(p.Outer, b)
	if len(outer) < 3 {
		return Polygon{}, false
	}
	var holes []Ring
	for _, h := range p.Holes {
		ch := clipRingToAABB(h, b)
		if len(ch) >= 3 {
			holes = append(holes, ch)
		}
	}
	return Polygon{Outer: outer, Holes: holes}, true
}

func clipRingToAABB(r Ring, b AABB2) Ring {
	out := clipEdge(r, func(p Point2) bool { return p.X >= b.Min.X },
		func(a, c Point2) Point2 { return lerpX(a, c, b.Min.X) })
	out = clipEdge(out, func(p Point2) bool { return p.X <= b.Max.X },
		func(a, c Point2) Point2 { return lerpX(a, c, b.Max.X) })
	out = clipEdge(out, func(p Point2) bool { return p.Y >= b.Min.Y },
		func(a, c Point2) Point2 { return lerpY(a, c, b.Min.Y) })
	out = clipEdge(out, func(p Point2) bool { return p.Y <= b.Max.Y },
		func(a, c Point2) Point2 { return lerpY(a, c, b.Max.Y) })
	return out
}

func clipEdge(r Ring, inside func(Point2) bool, isect func(a, b Point2) Point2) Ring {
	if len(r) == 0 {
		return r
	}
	var out Ring
	n := len(r)
	for i := 0; i < n; i++ {
		cur := r[i]
		prev := r[(i-1+n)%n]
		curIn, prevIn := inside(cur), inside(prev)
		if curIn {
			if !prevIn {
				out = append(out, isect(prev, cur))
			}
			out = append(out, cur)
		} else if prevIn {
			out = append(out, isect(prev, cur))
		}
	}
	return out
}

func lerpX(a, b Point2, x float64) Point2 {
	t := (x - a.X) / (b.X - a.X)
	return Point2{x, a.Y + t*(b.Y-a.Y)}
}

func lerpY(a, b Point2, y float64) Point2 {
	t := (y - a.Y) / (b.Y - a.Y)
	return Point2{a.X + t*(b.X-a.X), y}
}

// SnapCloseVertices merges consecutive ring vertices closer than eps to
// their midpoint, re-checking for fewer than 3 distinct vertices afterwards
//. ok is false if the snapped ring degenerates.
func SnapCloseVertices(r Ring, eps float64) (out Ring, ok bool) {
	if len(r) < 3 {
		return nil, false
	}
	snapped := make(Ring, 0, len(r))
	cur := r[0]
	count := 1
	for i := 1; i <= len(r); i++ {
		var next Point2
		if i < len(r) {
			next = r[i]
		} else {
			next = r[0]
		}
		if cur.Dist(next) < eps && i < len(r) {
			// merge into running midpoint
			cur = Point2{
				(cur.X*float64(count) + next.X) / float64(count+1),
				(cur.Y*float64(count) + next.Y) / float64(count+1),
			}
			count++
			continue
		}
		snapped = append(snapped, cur)
		cur = next
		count = 1
	}
	// drop duplicate closing vertex if snapping merged first/last
	if len(snapped) > 2 && snapped[0].Dist(snapped[len(snapped)-1]) < eps {
		snapped = snapped[:len(snapped)-1]
	}
	if len(snapped) < 3 {
		return nil, false
	}
	return snapped, true
}

// BufferedUnion approximates the union of a set of rings that are within
// `gap` of one another: every vertex is pushed gap/2 away from its own
// ring's centroid and the convex hull of all pushed vertices is returned.
// The result is always convex, so concavities, holes and the space between
// the rings are filled in, and it is not eroded back by gap/2. An exact
// general-position polygon union would be a large dependency for the modest
// footprints this pipeline merges.
func BufferedUnion(rings []Ring, gap float64) Ring {
	// Push every vertex gap/2 outward from its ring's centroid, then take
	// the convex hull of the whole dilated vertex cloud.
	half := gap / 2
	var pts []Point2
	for _, r := range rings {
		c := r.Centroid()
		for _, v := range r {
			dir := v.Sub(c)
			l := math.Hypot(dir.X, dir.Y)
			if l > 1e-9 {
				dir = dir.Scale(half / l)
			}
			pts = append(pts, v.Add(dir))
		}
	}
	return ConvexHull(pts)
}

// ConvexHull returns the counter-clockwise convex hull of pts (monotone
// chain / Andrew's algorithm).
func ConvexHull(pts []Point2) Ring {
	if len(pts) < 3 {
		return append(Ring{}, pts...)
	}
	sorted := append([]Point2{}, pts...)
	sortPoints(sorted)

	cross := func(o, a, b Point2) float64 { return a.Sub(o).Cross(b.Sub(o)) }

	var lower, upper []Point2
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	return Ring(hull)
}

func sortPoints(pts []Point2) {
	// insertion sort is adequate: building vertex counts are small, and this
	// keeps the hull deterministic without importing sort for a one-off.
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && less(pts[j], pts[j-1]); j-- {
			pts[j], pts[j-1] = pts[j-1], pts[j]
		}
	}
}

func less(a, b Point2) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}
