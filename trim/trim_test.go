package trim

import (
	"testing"

	"github.com/giovastabile/dtcc-builder/city"
	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/groundmesh"
	"github.com/giovastabile/dtcc-builder/volume"
)

// boxMesh builds a single-cube volume mesh (8 vertices, one layer over the
// two base triangles (0,1,2) and (0,2,3), split into 6 tets, three per
// prism), spanning [0,1]x[0,1]x[0,2].
func boxMesh() *volume.VolumeMesh {
	verts := []geom.Point3{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 2}, {X: 1, Y: 0, Z: 2}, {X: 1, Y: 1, Z: 2}, {X: 0, Y: 1, Z: 2},
	}
	markers := []volume.Marker{
		{Horizontal: groundmesh.MarkerGround, Layer: 0},
		{Horizontal: groundmesh.MarkerGround, Layer: 0},
		{Horizontal: groundmesh.MarkerGround, Layer: 0},
		{Horizontal: groundmesh.MarkerGround, Layer: 0},
		{Horizontal: groundmesh.MarkerGround, Layer: 1, Top: true},
		{Horizontal: groundmesh.MarkerGround, Layer: 1, Top: true},
		{Horizontal: groundmesh.MarkerGround, Layer: 1, Top: true},
		{Horizontal: groundmesh.MarkerGround, Layer: 1, Top: true},
	}
	tets := [][4]int{
		{0, 1, 2, 4}, {1, 2, 4, 5}, {2, 4, 5, 6},
		{0, 2, 3, 4}, {2, 3, 4, 7}, {2, 4, 6, 7},
	}
	return &volume.VolumeMesh{Vertices: verts, Markers: markers, Tets: tets}
}

func TestTrimNoBuildingsKeepsAllTets(t *testing.T) {
	vm := boxMesh()
	c := &city.City{}
	out, _, err := Trim(nil, vm, c)
	if err != nil {
		t.Fatalf("Trim error: %v", err)
	}
	if len(out.Tets) != len(vm.Tets) {
		t.Errorf("expected all %d tets to survive with no buildings, got %d", len(vm.Tets), len(out.Tets))
	}
}

func TestTrimDropsTetsInsideBuilding(t *testing.T) {
	vm := boxMesh()
	c := &city.City{Buildings: []city.Building{
		{
			ID:          "b1",
			Footprint:   geom.Polygon{Outer: geom.Ring{{-1, -1}, {2, -1}, {2, 2}, {-1, 2}}},
			GroundLevel: 0,
			Height:      2,
		},
	}}
	out, _, err := Trim(nil, vm, c)
	if err != nil {
		t.Fatalf("Trim error: %v", err)
	}
	if len(out.Tets) != 0 {
		t.Errorf("expected every tet to be dropped (whole box is inside the building volume), got %d remain", len(out.Tets))
	}
}

func TestBoundaryExtractsOuterFacesOnly(t *testing.T) {
	vm := boxMesh()
	sf := Boundary(vm)
	counts := make(map[[3]int]int)
	for _, f := range sf.Faces {
		counts[faceKey(f)]++
	}
	for f, n := range counts {
		if n != 1 {
			t.Errorf("boundary face %v appears %d times, want exactly 1", f, n)
		}
	}
	if len(sf.Faces) == 0 {
		t.Fatalf("expected a non-empty boundary surface for an untrimmed box")
	}
}

func TestOpenSurfaceExcludesTopFaces(t *testing.T) {
	vm := boxMesh()
	sf := Boundary(vm)
	open := OpenSurface(vm, sf)
	for _, f := range open {
		allTop := true
		for _, vi := range f {
			if !vm.Markers[vi].Top {
				allTop = false
			}
		}
		if allTop {
			t.Errorf("OpenSurface should exclude faces entirely on the domain top, found %v", f)
		}
	}
}
