package groundmesh

import (
	"testing"

	"github.com/giovastabile/dtcc-builder/city"
	"github.com/giovastabile/dtcc-builder/geom"
)

func TestBuildRejectsInvertedBounds(t *testing.T) {
	bounds := geom.AABB2{Min: geom.Point2{X: 10, Y: 10}, Max: geom.Point2{X: 0, Y: 0}}
	_, _, err := Build(nil, &city.City{}, bounds, 1)
	if err == nil {
		t.Fatalf("expected an error for inverted bounds")
	}
}

func TestBuildRejectsNonPositiveResolution(t *testing.T) {
	bounds := geom.NewAABB2(0, 0, 10, 10)
	_, _, err := Build(nil, &city.City{}, bounds, 0)
	if err == nil {
		t.Fatalf("expected an error for mesh_resolution <= 0")
	}
}

func TestBuildEmptyDomainProducesValidMesh(t *testing.T) {
	bounds := geom.NewAABB2(0, 0, 20, 20)
	mesh, _, err := Build(nil, &city.City{}, bounds, 5)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(mesh.Triangles) == 0 {
		t.Fatalf("expected a non-empty triangulation of the domain")
	}
	for _, tri := range mesh.Triangles {
		a, b, c := mesh.Vertices[tri[0]], mesh.Vertices[tri[1]], mesh.Vertices[tri[2]]
		if signedArea2(a, b, c) <= 0 {
			t.Errorf("triangle %v is not CCW", tri)
		}
	}
	counts := mesh.EdgeTriangleCounts()
	for e, n := range counts {
		if n > 2 {
			t.Errorf("edge %v borders %d triangles, want <= 2", e, n)
		}
	}
}

func TestBuildMarksFootprintVertices(t *testing.T) {
	bounds := geom.NewAABB2(0, 0, 20, 20)
	outer := geom.Ring{{5, 5}, {10, 5}, {10, 10}, {5, 10}}
	c := &city.City{Buildings: []city.Building{
		{ID: "b1", Footprint: geom.Polygon{Outer: outer}},
	}}
	mesh, _, err := Build(nil, c, bounds, 2)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	// at least one mesh vertex must be marked as building-related (halo or
	// interior) once a footprint is meshed.
	foundInterior := false
	for _, mk := range mesh.Markers {
		if mk == MarkerBuildingInterior || mk == MarkerBuildingHalo {
			foundInterior = true
			break
		}
	}
	if !foundInterior {
		t.Errorf("expected at least one vertex marked as building halo/interior")
	}
}

func TestInCircumcircleDetectsInteriorPoint(t *testing.T) {
	a := geom.Point2{X: 0, Y: 0}
	b := geom.Point2{X: 4, Y: 0}
	c := geom.Point2{X: 0, Y: 4}
	inside := geom.Point2{X: 1, Y: 1}
	outside := geom.Point2{X: 100, Y: 100}
	if !inCircumcircle(a, b, c, inside) {
		t.Errorf("expected point near the triangle to be inside its circumcircle")
	}
	if inCircumcircle(a, b, c, outside) {
		t.Errorf("expected a far point to be outside the circumcircle")
	}
}
