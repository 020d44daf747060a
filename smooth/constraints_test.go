package smooth

import (
	"testing"

	"github.com/giovastabile/dtcc-builder/city"
	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/groundmesh"
	"github.com/giovastabile/dtcc-builder/raster"
	"github.com/giovastabile/dtcc-builder/volume"
)

func flatTerrain(z float64) *raster.GridField2D {
	g := raster.NewGridField2D(geom.NewAABB2(-10, -10, 10, 10), 1, 1)
	for i := range g.Values {
		g.Values[i] = z
	}
	return g
}

func TestBuildDirichletPinsGroundAndTop(t *testing.T) {
	vm := &volume.VolumeMesh{
		Vertices: []geom.Point3{
			{X: 0, Y: 0, Z: 0},
			{X: 0, Y: 0, Z: 5},
			{X: 0, Y: 0, Z: 10},
		},
		Markers: []volume.Marker{
			{Horizontal: groundmesh.MarkerGround, Layer: 0},
			{Horizontal: groundmesh.MarkerGround, Layer: 1},
			{Horizontal: groundmesh.MarkerGround, Layer: 2, Top: true},
		},
	}
	c := &city.City{Terrain: flatTerrain(3)}

	fixed, _ := BuildDirichlet(vm, c, 13, false)
	if !fixed[0].Set || fixed[0].Z != 3 {
		t.Errorf("layer-0 vertex should be pinned to the terrain elevation 3, got %+v", fixed[0])
	}
	if fixed[1].Set {
		t.Errorf("interior-layer ground vertex should be free, got %+v", fixed[1])
	}
	if !fixed[2].Set || fixed[2].Z != 13 {
		t.Errorf("top vertex should be pinned to topHeight 13, got %+v", fixed[2])
	}
}

func TestBuildDirichletPinsCavityFloorToRoof(t *testing.T) {
	// one building-interior vertex below roof height at a non-zero layer,
	// the configuration trimming leaves behind over a building.
	vm := &volume.VolumeMesh{
		Vertices: []geom.Point3{
			{X: 0, Y: 0, Z: 6},
			{X: 0, Y: 0, Z: 20},
		},
		Markers: []volume.Marker{
			{Horizontal: groundmesh.MarkerBuildingInterior, Layer: 1},
			{Horizontal: groundmesh.MarkerBuildingInterior, Layer: 2},
		},
	}
	bld := city.Building{
		ID:          "b1",
		Footprint:   geom.Polygon{Outer: geom.Ring{{-5, -5}, {5, -5}, {5, 5}, {-5, 5}}},
		GroundLevel: 3,
		Height:      5,
	}
	c := &city.City{Buildings: []city.Building{bld}, Terrain: flatTerrain(3)}

	fixed, _ := BuildDirichlet(vm, c, 100, true)
	if !fixed[0].Set || fixed[0].Z != 8 {
		t.Errorf("below-roof interior vertex should be pinned to roof 8, got %+v", fixed[0])
	}
	if fixed[1].Set {
		t.Errorf("above-roof interior vertex should stay free, got %+v", fixed[1])
	}
}

func TestBuildDirichletGroundOnlyIgnoresBuildings(t *testing.T) {
	vm := &volume.VolumeMesh{
		Vertices: []geom.Point3{{X: 0, Y: 0, Z: 0}},
		Markers:  []volume.Marker{{Horizontal: groundmesh.MarkerBuildingInterior, Layer: 0}},
	}
	bld := city.Building{
		ID:          "b1",
		Footprint:   geom.Polygon{Outer: geom.Ring{{-5, -5}, {5, -5}, {5, 5}, {-5, 5}}},
		GroundLevel: 3,
		Height:      5,
	}
	c := &city.City{Buildings: []city.Building{bld}, Terrain: flatTerrain(3)}

	fixed, _ := BuildDirichlet(vm, c, 100, false)
	if !fixed[0].Set || fixed[0].Z != 3 {
		t.Errorf("in ground-only mode every layer-0 vertex follows the terrain, got %+v", fixed[0])
	}
}
