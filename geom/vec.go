// Package geom provides the 2D and 3D geometric primitives shared by every
// stage of the meshing pipeline: points, axis-aligned bounding boxes, and
// the polygon predicates used by the city simplifier and ground mesher.
package geom

import "math"

// Point2 is a point in the horizontal plane.
type Point2 struct {
	X, Y float64
}

// Point3 is a point in space.
type Point3 struct {
	X, Y, Z float64
}

// To3 lifts p to a 3D point at the given height.
func (p Point2) To3(z float64) Point3 {
	return Point3{p.X, p.Y, z}
}

// To2 projects p onto the horizontal plane, dropping Z.
func (p Point3) To2() Point2 {
	return Point2{p.X, p.Y}
}

// Sub returns p - q.
func (p Point2) Sub(q Point2) Point2 { return Point2{p.X - q.X, p.Y - q.Y} }

// Add returns p + q.
func (p Point2) Add(q Point2) Point2 { return Point2{p.X + q.X, p.Y + q.Y} }

// Scale returns p scaled by s.
func (p Point2) Scale(s float64) Point2 { return Point2{p.X * s, p.Y * s} }

// Dot returns the dot product of p and q.
func (p Point2) Dot(q Point2) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z-component of the 3D cross product of p and q, treated
// as vectors in the plane. Positive when q is counter-clockwise from p.
func (p Point2) Cross(q Point2) float64 { return p.X*q.Y - p.Y*q.X }

// Dist returns the Euclidean distance between p and q.
func (p Point2) Dist(q Point2) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// DistSqr returns the squared Euclidean distance between p and q.
func (p Point2) DistSqr(q Point2) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Sub returns p - q.
func (p Point3) Sub(q Point3) Point3 { return Point3{p.X - q.X, p.Y - q.Y, p.Z - q.Z} }

// Add returns p + q.
func (p Point3) Add(q Point3) Point3 { return Point3{p.X + q.X, p.Y + q.Y, p.Z + q.Z} }

// Scale returns p scaled by s.
func (p Point3) Scale(s float64) Point3 { return Point3{p.X * s, p.Y * s, p.Z * s} }

// Cross returns the 3D cross product p x q.
func (p Point3) Cross(q Point3) Point3 {
	return Point3{
		p.Y*q.Z - p.Z*q.Y,
		p.Z*q.X - p.X*q.Z,
		p.X*q.Y - p.Y*q.X,
	}
}

// Dot returns the dot product of p and q.
func (p Point3) Dot(q Point3) float64 { return p.X*q.X + p.Y*q.Y + p.Z*q.Z }

// Dist returns the Euclidean distance between p and q.
func (p Point3) Dist(q Point3) float64 {
	d := p.Sub(q)
	return math.Sqrt(d.Dot(d))
}

// Len returns the Euclidean norm of p treated as a vector.
func (p Point3) Len() float64 { return math.Sqrt(p.Dot(p)) }

// Normalized returns p scaled to unit length, or p unchanged if it is (near) zero.
func (p Point3) Normalized() Point3 {
	l := p.Len()
	if l < 1e-12 {
		return p
	}
	return p.Scale(1 / l)
}

// AABB2 is an axis-aligned bounding box in the plane.
type AABB2 struct {
	Min, Max Point2
}

// NewAABB2 returns the AABB spanning [xmin,ymin]-[xmax,ymax]. It is the
// caller's responsibility to ensure xmin<=xmax and ymin<=ymax; an inverted
// box is a reported InvalidInput at the stage boundary, not here.
func NewAABB2(xmin, ymin, xmax, ymax float64) AABB2 {
	return AABB2{Point2{xmin, ymin}, Point2{xmax, ymax}}
}

// Valid reports whether the box is non-inverted.
func (b AABB2) Valid() bool { return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y }

// Width returns the extent of b along X.
func (b AABB2) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the extent of b along Y.
func (b AABB2) Height() float64 { return b.Max.Y - b.Min.Y }

// Contains reports whether p lies inside b, inclusive of the boundary.
func (b AABB2) Contains(p Point2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Clamp returns the closest point to p that lies within b.
func (b AABB2) Clamp(p Point2) Point2 {
	return Point2{
		clampf(p.X, b.Min.X, b.Max.X),
		clampf(p.Y, b.Min.Y, b.Max.Y),
	}
}

// Expand returns b grown by margin on every side.
func (b AABB2) Expand(margin float64) AABB2 {
	return AABB2{
		Point2{b.Min.X - margin, b.Min.Y - margin},
		Point2{b.Max.X + margin, b.Max.Y + margin},
	}
}

// Intersect returns the overlap of b and o. The result is invalid (Valid()
// returns false) if the boxes do not overlap.
func (b AABB2) Intersect(o AABB2) AABB2 {
	return AABB2{
		Point2{math.Max(b.Min.X, o.Min.X), math.Max(b.Min.Y, o.Min.Y)},
		Point2{math.Min(b.Max.X, o.Max.X), math.Min(b.Max.Y, o.Max.Y)},
	}
}

// Union returns the smallest box containing both b and o.
func (b AABB2) Union(o AABB2) AABB2 {
	return AABB2{
		Point2{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y)},
		Point2{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y)},
	}
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
