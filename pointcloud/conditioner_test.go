package pointcloud

import (
	"math/rand"
	"testing"

	"github.com/giovastabile/dtcc-builder/geom"
)

func TestGlobalOutlierRemovalDropsFarPoints(t *testing.T) {
	// inlier points clustered near z=10, plus two extreme outliers.
	n := 100
	pc := &PointCloud{}
	for i := 0; i < n; i++ {
		pc.X = append(pc.X, float64(i))
		pc.Y = append(pc.Y, 0)
		pc.Z = append(pc.Z, 10)
	}
	// add 2 far outliers
	pc.X = append(pc.X, 0, 0)
	pc.Y = append(pc.Y, 0, 0)
	pc.Z = append(pc.Z, 1000, -1000)

	out, _, err := GlobalOutlierRemoval(pc, 1.0)
	if err != nil {
		t.Fatalf("GlobalOutlierRemoval error: %v", err)
	}
	if out.Len() != n {
		t.Errorf("expected the %d inliers to survive and the 2 outliers dropped, got %d points", n, out.Len())
	}
}

func TestGlobalOutlierRemovalZeroVarianceIsNoop(t *testing.T) {
	pc := &PointCloud{X: []float64{0, 1, 2}, Y: []float64{0, 0, 0}, Z: []float64{5, 5, 5}}
	out, b, err := GlobalOutlierRemoval(pc, 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 3 {
		t.Errorf("expected no-op on zero variance, got %d points", out.Len())
	}
	if b.Empty() {
		t.Errorf("expected a NumericDegenerate warning on zero variance")
	}
}

func TestGlobalOutlierRemovalEmptyCloudIsError(t *testing.T) {
	_, _, err := GlobalOutlierRemoval(&PointCloud{}, 1.0)
	if err == nil {
		t.Fatalf("expected an error for an empty point cloud")
	}
}

func TestVegetationFilterDropsIntermediateReturns(t *testing.T) {
	pc := &PointCloud{
		X: []float64{0, 0, 0}, Y: []float64{0, 0, 0}, Z: []float64{0, 0, 0},
		ReturnNumber: []uint8{1, 1, 2},
		NumReturns:   []uint8{1, 2, 2},
	}
	out, _ := VegetationFilter(pc)
	// point 1 (return 1 of 2) should be dropped as vegetation; points 0 and 2
	// (last return in their pulse) survive.
	if out.Len() != 2 {
		t.Errorf("expected 2 surviving points, got %d", out.Len())
	}
}

func TestVegetationFilterNoopWithoutReturnInfo(t *testing.T) {
	pc := &PointCloud{X: []float64{0, 0}, Y: []float64{0, 0}, Z: []float64{0, 0}}
	out, b := VegetationFilter(pc)
	if out.Len() != 2 {
		t.Errorf("expected no-op without return metadata")
	}
	if b.Empty() {
		t.Errorf("expected a warning when return metadata is missing")
	}
}

func TestRANSACPlaneFilterRecoversFlatRoof(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var pts []geom.Point3
	for x := 0.0; x < 5; x++ {
		for y := 0.0; y < 5; y++ {
			pts = append(pts, geom.Point3{X: x, Y: y, Z: 10})
		}
	}
	// a handful of noisy outliers well off the roof plane
	pts = append(pts, geom.Point3{X: 2, Y: 2, Z: 2}, geom.Point3{X: 1, Y: 1, Z: 20})

	out, _ := RANSACPlaneFilter(pts, 200, 0.1, rng)
	if len(out) != 25 {
		t.Errorf("expected the 25 flat-roof points to survive as inliers, got %d", len(out))
	}
}

func TestRANSACPlaneFilterSkipsFewerThan3Points(t *testing.T) {
	pts := []geom.Point3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 1}}
	out, _ := RANSACPlaneFilter(pts, 10, 0.1, nil)
	if len(out) != 2 {
		t.Errorf("expected fewer-than-3-point input to pass through unchanged")
	}
}
