// Package pointcloud holds the LiDAR point cloud type and the conditioning
// operations over it: global outlier removal, the naive vegetation filter,
// and the per-building RANSAC plane outlier remover.
package pointcloud

import "github.com/giovastabile/dtcc-builder/geom"

// Classification values the point cloud reader is required to produce when
// it has classification data: ground and water returns.
const (
	ClassGround uint8 = 2
	ClassWater  uint8 = 9
)

// PointCloud is an ordered sequence of points with parallel, optional
// attribute arrays. A zero-length attribute slice means "unknown" for
// every point; otherwise its length must equal len(X).
type PointCloud struct {
	X, Y, Z []float64

	Classification []uint8
	ReturnNumber   []uint8
	NumReturns     []uint8

	// Origin is the 2D offset applied when the reader translated
	// coordinates to a local frame; kept so later stages can round-trip
	// back to the georeferenced frame if a collaborator needs to.
	Origin geom.Point2
}

// Len returns the number of points in the cloud.
func (pc *PointCloud) Len() int { return len(pc.X) }

// HasClassification reports whether per-point classification is available.
func (pc *PointCloud) HasClassification() bool { return len(pc.Classification) == len(pc.X) && len(pc.X) > 0 }

// HasReturnInfo reports whether per-point return-number/num-returns are
// available.
func (pc *PointCloud) HasReturnInfo() bool {
	return len(pc.ReturnNumber) == len(pc.X) && len(pc.NumReturns) == len(pc.X) && len(pc.X) > 0
}

// Point3At returns the (x,y,z) of point i.
func (pc *PointCloud) Point3At(i int) geom.Point3 {
	return geom.Point3{X: pc.X[i], Y: pc.Y[i], Z: pc.Z[i]}
}

// Point2At returns the (x,y) of point i.
func (pc *PointCloud) Point2At(i int) geom.Point2 {
	return geom.Point2{X: pc.X[i], Y: pc.Y[i]}
}

// XYZAt returns the raw (x,y,z) of point i, satisfying raster.GroundSource
// without raster needing to import this package.
func (pc *PointCloud) XYZAt(i int) (x, y, z float64) { return pc.X[i], pc.Y[i], pc.Z[i] }

// IsGround reports whether point i is classified as ground or water.
func (pc *PointCloud) IsGround(i int) bool {
	if !pc.HasClassification() {
		return false
	}
	c := pc.Classification[i]
	return c == ClassGround || c == ClassWater
}

// Bounds returns the 2D AABB spanning every point in the cloud.
func (pc *PointCloud) Bounds() geom.AABB2 {
	if len(pc.X) == 0 {
		return geom.AABB2{}
	}
	b := geom.NewAABB2(pc.X[0], pc.Y[0], pc.X[0], pc.Y[0])
	for i := 1; i < len(pc.X); i++ {
		p := pc.Point2At(i)
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

// Subset returns a new PointCloud containing only the points at the given
// indices, preserving Origin and which attribute arrays were populated -
// used by callers (e.g. selecting ground-classified points for BuildDEM)
// that need the same filtering conditioner.go does internally.
func (pc *PointCloud) Subset(idx []int) *PointCloud {
	return pc.subset(idx)
}

func (pc *PointCloud) subset(idx []int) *PointCloud {
	out := &PointCloud{Origin: pc.Origin}
	out.X = make([]float64, len(idx))
	out.Y = make([]float64, len(idx))
	out.Z = make([]float64, len(idx))
	if pc.HasClassification() {
		out.Classification = make([]uint8, len(idx))
	}
	if pc.HasReturnInfo() {
		out.ReturnNumber = make([]uint8, len(idx))
		out.NumReturns = make([]uint8, len(idx))
	}
	for j, i := range idx {
		out.X[j], out.Y[j], out.Z[j] = pc.X[i], pc.Y[i], pc.Z[i]
		if out.Classification != nil {
			out.Classification[j] = pc.Classification[i]
		}
		if out.ReturnNumber != nil {
			out.ReturnNumber[j] = pc.ReturnNumber[i]
			out.NumReturns[j] = pc.NumReturns[i]
		}
	}
	return out
}
