package assign

import (
	"testing"

	"github.com/giovastabile/dtcc-builder/city"
	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/pointcloud"
)

func square(x0, y0, side float64) geom.Ring {
	return geom.Ring{
		{x0, y0}, {x0 + side, y0}, {x0 + side, y0 + side}, {x0, y0 + side},
	}
}

func TestAssignPartitionsRoofAndGround(t *testing.T) {
	bld := city.Building{ID: "b1", Footprint: geom.Polygon{Outer: square(0, 0, 10)}}
	c := &city.City{Buildings: []city.Building{bld}}

	pc := &pointcloud.PointCloud{}
	// roof points inside the footprint
	for x := 1.0; x < 9; x += 2 {
		for y := 1.0; y < 9; y += 2 {
			pc.X = append(pc.X, x)
			pc.Y = append(pc.Y, y)
			pc.Z = append(pc.Z, 10)
		}
	}
	// ground points just outside the footprint, within the ground margin
	for _, xy := range [][2]float64{{-1, -1}, {-1, 11}, {11, -1}, {11, 11}} {
		pc.X = append(pc.X, xy[0])
		pc.Y = append(pc.Y, xy[1])
		pc.Z = append(pc.Z, 0)
	}

	out, _, err := Assign(nil, c, pc, Params{GroundMargin: 3, OutlierNeighbors: 3, RoofOutlierMargin: 3})
	if err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	got := out.Buildings[0]
	if len(got.RoofPoints) == 0 {
		t.Fatalf("expected roof points to be assigned")
	}
	for _, p := range got.RoofPoints {
		if p.Z != 10 {
			t.Errorf("unexpected point %v assigned as roof", p)
		}
	}
	if len(got.GroundPoints) == 0 {
		t.Fatalf("expected ground points within the margin to be assigned")
	}
}

func TestAssignEmptyPointCloudIsError(t *testing.T) {
	c := &city.City{Buildings: []city.Building{{ID: "b1"}}}
	_, _, err := Assign(nil, c, &pointcloud.PointCloud{}, Params{})
	if err == nil {
		t.Fatalf("expected an error for an empty point cloud")
	}
}

func TestAssignNoRoofPointsWarns(t *testing.T) {
	bld := city.Building{ID: "b1", Footprint: geom.Polygon{Outer: square(100, 100, 10)}}
	c := &city.City{Buildings: []city.Building{bld}}
	pc := &pointcloud.PointCloud{X: []float64{0}, Y: []float64{0}, Z: []float64{0}}

	out, b, err := Assign(nil, c, pc, Params{GroundMargin: 1})
	if err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	if len(out.Buildings[0].RoofPoints) != 0 {
		t.Errorf("expected no roof points for a building far from any data")
	}
	if b.Empty() {
		t.Errorf("expected a warning about the building with no roof points")
	}
}
