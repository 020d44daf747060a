package height

import (
	"testing"

	"github.com/giovastabile/dtcc-builder/city"
	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/raster"
)

func flatTerrain(z float64) *raster.GridField2D {
	bounds := geom.NewAABB2(-10, -10, 10, 10)
	g := raster.NewGridField2D(bounds, 1, 1)
	for i := range g.Values {
		g.Values[i] = z
	}
	return g
}

func TestInferHeightFromRoofAndGroundPoints(t *testing.T) {
	bld := city.Building{
		ID: "b1",
		RoofPoints: []geom.Point3{
			{X: 0, Y: 0, Z: 10}, {X: 1, Y: 0, Z: 10}, {X: 0, Y: 1, Z: 10}, {X: 1, Y: 1, Z: 10},
		},
		GroundPoints: []geom.Point3{
			{X: -1, Y: -1, Z: 2}, {X: 2, Y: -1, Z: 2}, {X: -1, Y: 2, Z: 2},
		},
	}
	c := &city.City{Buildings: []city.Building{bld}, Terrain: flatTerrain(0)}

	out, _, err := Infer(nil, c, 0.9, 1.0)
	if err != nil {
		t.Fatalf("Infer error: %v", err)
	}
	got := out.Buildings[0]
	if got.GroundLevel != 2 {
		t.Errorf("GroundLevel = %v, want 2 (median of ground points)", got.GroundLevel)
	}
	if got.Height != 8 {
		t.Errorf("Height = %v, want 8 (roof 10 - ground 2)", got.Height)
	}
}

func TestInferFallsBackToTerrainWhenNoGroundPoints(t *testing.T) {
	bld := city.Building{
		ID:        "b1",
		Footprint: geom.Polygon{Outer: geom.Ring{{0, 0}, {2, 0}, {2, 2}, {0, 2}}},
		RoofPoints: []geom.Point3{
			{X: 1, Y: 1, Z: 10},
		},
	}
	c := &city.City{Buildings: []city.Building{bld}, Terrain: flatTerrain(3)}

	out, _, err := Infer(nil, c, 0.9, 1.0)
	if err != nil {
		t.Fatalf("Infer error: %v", err)
	}
	got := out.Buildings[0]
	if got.GroundLevel != 3 {
		t.Errorf("GroundLevel = %v, want 3 (DEM centroid fallback)", got.GroundLevel)
	}
}

func TestInferUsesMinHeightWhenNoRoofPoints(t *testing.T) {
	bld := city.Building{
		ID:        "b1",
		Footprint: geom.Polygon{Outer: geom.Ring{{0, 0}, {2, 0}, {2, 2}, {0, 2}}},
	}
	c := &city.City{Buildings: []city.Building{bld}, Terrain: flatTerrain(0)}

	out, _, err := Infer(nil, c, 0.9, 2.5)
	if err != nil {
		t.Fatalf("Infer error: %v", err)
	}
	if out.Buildings[0].Height != 2.5 {
		t.Errorf("Height = %v, want minHeight 2.5", out.Buildings[0].Height)
	}
}

func TestInferRequiresTerrain(t *testing.T) {
	c := &city.City{Buildings: []city.Building{{ID: "b1"}}}
	_, _, err := Infer(nil, c, 0.9, 1.0)
	if err == nil {
		t.Fatalf("expected an error when the city has no terrain DEM")
	}
}

func TestInferClampsBelowMinHeight(t *testing.T) {
	bld := city.Building{
		ID: "b1",
		RoofPoints: []geom.Point3{
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1},
		},
		GroundPoints: []geom.Point3{
			{X: 0, Y: 0, Z: 0.5},
		},
	}
	c := &city.City{Buildings: []city.Building{bld}, Terrain: flatTerrain(0)}

	out, _, err := Infer(nil, c, 0.9, 3.0)
	if err != nil {
		t.Fatalf("Infer error: %v", err)
	}
	if out.Buildings[0].Height != 3.0 {
		t.Errorf("Height = %v, want clamped minHeight 3.0", out.Buildings[0].Height)
	}
}
