package pointcloud

import (
	"testing"

	"github.com/giovastabile/dtcc-builder/geom"
)

func buildGridPC() *PointCloud {
	pc := &PointCloud{}
	for x := 0.0; x < 10; x++ {
		for y := 0.0; y < 10; y++ {
			pc.X = append(pc.X, x)
			pc.Y = append(pc.Y, y)
			pc.Z = append(pc.Z, 0)
		}
	}
	return pc
}

func TestIndexQueryAABB(t *testing.T) {
	pc := buildGridPC()
	idx := NewIndex(pc, 1)
	b := geom.NewAABB2(2, 2, 4, 4)
	hits := idx.QueryAABB(b, 0)
	// points (2..4) x (2..4) inclusive = 3x3 = 9
	if len(hits) != 9 {
		t.Errorf("QueryAABB returned %d points, want 9", len(hits))
	}
}

func TestIndexKNearest(t *testing.T) {
	pc := buildGridPC()
	idx := NewIndex(pc, 1)
	q := geom.Point3{X: 5, Y: 5, Z: 0}
	nearest := idx.KNearest(q, 4, -1)
	if len(nearest) != 4 {
		t.Fatalf("KNearest returned %d points, want 4", len(nearest))
	}
	for _, i := range nearest {
		d := pc.Point3At(i).Dist(q)
		if d > 1.5 {
			t.Errorf("KNearest point %v too far from query point: dist=%v", pc.Point2At(i), d)
		}
	}
}

func TestIndexKNearestExcludesSelf(t *testing.T) {
	pc := buildGridPC()
	idx := NewIndex(pc, 1)
	self := 55 // arbitrary point index
	p := pc.Point3At(self)
	nearest := idx.KNearest(p, 1, self)
	if len(nearest) != 1 {
		t.Fatalf("expected 1 neighbour, got %d", len(nearest))
	}
	if nearest[0] == self {
		t.Errorf("KNearest must exclude the query point itself when self is given")
	}
}
