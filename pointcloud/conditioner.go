package pointcloud

import (
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/report"
)

// GlobalOutlierRemoval retains every point whose z lies within
// margin standard deviations of the mean z. It is a no-op returning
// NumericDegenerate as a warning (not a fatal error - the cloud is returned
// unchanged) when the z distribution has zero variance.
func GlobalOutlierRemoval(pc *PointCloud, margin float64) (*PointCloud, *report.Bundle, error) {
	b := report.NewBundle()
	if pc.Len() == 0 {
		return nil, b, report.Errorf(report.InvalidInput, "point cloud is empty")
	}
	mean, std := stat.MeanStdDev(pc.Z, nil)
	if std == 0 {
		b.Warn(report.NumericDegenerate, "zero z-variance, global outlier removal is a no-op")
		return pc, b, nil
	}
	lo, hi := mean-margin*std, mean+margin*std
	idx := make([]int, 0, pc.Len())
	for i, z := range pc.Z {
		if z >= lo && z <= hi {
			idx = append(idx, i)
		}
	}
	return pc.subset(idx), b, nil
}

// VegetationFilter drops points classified as vegetation by return
// geometry: num_returns>1 and return_number<num_returns. When return
// metadata is missing, it is a no-op and reports a warning.
func VegetationFilter(pc *PointCloud) (*PointCloud, *report.Bundle) {
	b := report.NewBundle()
	if !pc.HasReturnInfo() {
		b.Warn(report.InvalidInput, "no return-number/num-returns metadata, vegetation filter is a no-op")
		return pc, b
	}
	idx := make([]int, 0, pc.Len())
	for i := range pc.X {
		if pc.NumReturns[i] > 1 && pc.ReturnNumber[i] < pc.NumReturns[i] {
			continue
		}
		idx = append(idx, i)
	}
	return pc.subset(idx), b
}

// plane is the implicit form n.Dot(p) = d, with n a unit normal.
type plane struct {
	n geom.Point3
	d float64
}

func (pl plane) distance(p geom.Point3) float64 {
	return pl.n.Dot(p) - pl.d
}

func fitPlane(a, b, c geom.Point3) (plane, bool) {
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Len()
	if l < 1e-12 {
		return plane{}, false
	}
	n = n.Scale(1 / l)
	return plane{n: n, d: n.Dot(a)}, true
}

// RANSACPlaneFilter retains the inlier set of the best-scoring roof plane
// found over `iterations` random 3-point samples, scored by the count of
// points within `margin` perpendicular distance. Buildings with
// fewer than 3 roof candidates are skipped (returned unchanged).
func RANSACPlaneFilter(pts []geom.Point3, iterations int, margin float64, rng *rand.Rand) ([]geom.Point3, *report.Bundle) {
	b := report.NewBundle()
	if len(pts) < 3 {
		return pts, b
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	bestCount := -1
	var bestPlane plane
	haveBest := false
	for t := 0; t < iterations; t++ {
		i, j, k := rng.Intn(len(pts)), rng.Intn(len(pts)), rng.Intn(len(pts))
		if i == j || j == k || i == k {
			continue
		}
		pl, ok := fitPlane(pts[i], pts[j], pts[k])
		if !ok {
			continue
		}
		count := 0
		for _, p := range pts {
			if absf(pl.distance(p)) <= margin {
				count++
			}
		}
		if count > bestCount {
			bestCount = count
			bestPlane = pl
			haveBest = true
		}
	}
	if !haveBest {
		b.Warn(report.NumericDegenerate, "RANSAC found no non-degenerate plane sample")
		return pts, b
	}
	out := make([]geom.Point3, 0, bestCount)
	for _, p := range pts {
		if absf(bestPlane.distance(p)) <= margin {
			out = append(out, p)
		}
	}
	return out, b
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
