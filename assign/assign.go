// Package assign implements building-point assignment: partitioning
// a conditioned point cloud into per-building roof points and ground
// samples, using pointcloud.Index for the spatial queries.
package assign

import (
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/giovastabile/dtcc-builder/buildctx"
	"github.com/giovastabile/dtcc-builder/city"
	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/pointcloud"
	"github.com/giovastabile/dtcc-builder/report"
)

// Params bundles the thresholds that control assignment.
type Params struct {
	GroundMargin      float64
	OutlierNeighbors  int
	RoofOutlierMargin float64
	RANSACEnabled     bool
	RANSACMargin      float64
	RANSACIterations  int

	// Workers bounds the number of buildings processed concurrently.
	// Buildings are independent of one another and each gets its own
	// deterministically seeded RNG, so the result does not depend on
	// Workers. Values <= 1 run sequentially.
	Workers int
}

// Assign partitions pc into per-building roof/ground points, returning a
// new City whose buildings carry RoofPoints/GroundPoints. The point lists
// are set exactly once, on a fresh copy of each building.
func Assign(ctx *buildctx.Context, c *city.City, pc *pointcloud.PointCloud, p Params) (*city.City, *report.Bundle, error) {
	b := report.NewBundle()
	if pc.Len() == 0 {
		return nil, b, report.Errorf(report.InvalidInput, "point cloud is empty")
	}
	if ctx != nil {
		ctx.StartTimer(buildctx.TimerAssign)
		defer ctx.StopTimer(buildctx.TimerAssign)
	}

	cellSize := estimateCellSize(c, pc)
	idx := pointcloud.NewIndex(pc, cellSize)

	updated := make([]city.Building, len(c.Buildings))
	warns := make([]*report.Bundle, len(c.Buildings))

	process := func(i int) {
		bld := c.Buildings[i]
		rng := rand.New(rand.NewSource(int64(i) + 1))
		roof, ground, warn := assignOne(idx, pc, bld, p, rng)
		bld.RoofPoints = roof
		bld.GroundPoints = ground
		updated[i] = bld
		warns[i] = warn
	}

	if p.Workers > 1 && len(c.Buildings) > 1 {
		sem := make(chan struct{}, p.Workers)
		var wg sync.WaitGroup
		for i := range c.Buildings {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				process(i)
				<-sem
			}(i)
		}
		wg.Wait()
	} else {
		for i := range c.Buildings {
			process(i)
		}
	}

	// warnings are merged in building order regardless of completion order
	for _, w := range warns {
		b.Merge(w)
	}

	if ctx != nil {
		ctx.Progressf("assign: processed %d buildings", len(updated))
	}
	return c.WithHeights(updated), b, nil
}

func estimateCellSize(c *city.City, pc *pointcloud.PointCloud) float64 {
	bounds := pc.Bounds()
	area := bounds.Width() * bounds.Height()
	if area <= 0 || pc.Len() == 0 {
		return 1.0
	}
	// aim for a handful of points per cell on average
	return maxf(0.5, (area/float64(pc.Len()))*4)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func assignOne(idx *pointcloud.Index, pc *pointcloud.PointCloud, bld city.Building, p Params, rng *rand.Rand) ([]geom.Point3, []geom.Point3, *report.Bundle) {
	b := report.NewBundle()
	fpBounds := bld.Footprint.Bounds()

	candidateIdx := idx.QueryAABB(fpBounds, p.GroundMargin)

	var roofCandidates []geom.Point3
	var groundCandidates []geom.Point3
	for _, i := range candidateIdx {
		p2 := pc.Point2At(i)
		if bld.Footprint.Contains(p2) {
			roofCandidates = append(roofCandidates, pc.Point3At(i))
		} else if fpBounds.Expand(p.GroundMargin).Contains(p2) {
			groundCandidates = append(groundCandidates, pc.Point3At(i))
		}
	}

	roof, warn := statisticalOutlierRemoval(idx, pc, roofCandidates, p.OutlierNeighbors, p.RoofOutlierMargin)
	b.Merge(warn)

	if p.RANSACEnabled && len(roof) >= 3 {
		filtered, warn := ransacFilter(roof, p.RANSACIterations, p.RANSACMargin, rng)
		b.Merge(warn)
		roof = filtered
	}

	if len(roof) == 0 {
		b.Warn(report.InvalidInput, "building %s has no surviving roof points, flagged for default-height treatment", bld.ID)
	}

	return roof, groundCandidates, b
}

// statisticalOutlierRemoval drops a point whose mean distance to its k
// nearest neighbours (3D) exceeds the global mean of such distances by
// margin standard deviations.
func statisticalOutlierRemoval(idx *pointcloud.Index, pc *pointcloud.PointCloud, pts []geom.Point3, k int, margin float64) ([]geom.Point3, *report.Bundle) {
	b := report.NewBundle()
	if len(pts) < k+1 {
		return pts, b
	}
	meanDist := make([]float64, len(pts))
	for i, p := range pts {
		// p is itself a cloud point: ask for one extra neighbour and drop
		// the nearest, which is p at distance 0.
		neighbors := idx.KNearest(p, k+1, -1)
		if len(neighbors) > 0 {
			neighbors = neighbors[1:]
		}
		if len(neighbors) == 0 {
			meanDist[i] = 0
			continue
		}
		sum := 0.0
		for _, n := range neighbors {
			sum += pc.Point3At(n).Dist(p)
		}
		meanDist[i] = sum / float64(len(neighbors))
	}
	mean, std := stat.MeanStdDev(meanDist, nil)
	if std == 0 {
		b.Warn(report.NumericDegenerate, "zero variance in roof neighbour distances, outlier removal is a no-op")
		return pts, b
	}
	threshold := mean + margin*std
	out := make([]geom.Point3, 0, len(pts))
	for i, p := range pts {
		if meanDist[i] <= threshold {
			out = append(out, p)
		}
	}
	return out, b
}

func ransacFilter(pts []geom.Point3, iterations int, margin float64, rng *rand.Rand) ([]geom.Point3, *report.Bundle) {
	return pointcloud.RANSACPlaneFilter(pts, iterations, margin, rng)
}
