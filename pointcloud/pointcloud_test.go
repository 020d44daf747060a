package pointcloud

import "testing"

func TestPointCloudLenAndAccessors(t *testing.T) {
	pc := &PointCloud{X: []float64{1, 2}, Y: []float64{3, 4}, Z: []float64{5, 6}}
	if pc.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", pc.Len())
	}
	if pc.HasClassification() {
		t.Errorf("expected no classification data")
	}
	p := pc.Point3At(1)
	if p.X != 2 || p.Y != 4 || p.Z != 6 {
		t.Errorf("Point3At(1) = %v, want (2,4,6)", p)
	}
}

func TestPointCloudIsGround(t *testing.T) {
	pc := &PointCloud{
		X:              []float64{0, 0, 0},
		Y:              []float64{0, 0, 0},
		Z:              []float64{0, 0, 0},
		Classification: []uint8{ClassGround, ClassWater, 6},
	}
	want := []bool{true, true, false}
	for i, w := range want {
		if got := pc.IsGround(i); got != w {
			t.Errorf("IsGround(%d) = %v, want %v", i, got, w)
		}
	}
}

func TestPointCloudBounds(t *testing.T) {
	pc := &PointCloud{X: []float64{1, 5, -2}, Y: []float64{3, -1, 8}, Z: []float64{0, 0, 0}}
	b := pc.Bounds()
	if b.Min.X != -2 || b.Max.X != 5 || b.Min.Y != -1 || b.Max.Y != 8 {
		t.Errorf("Bounds() = %v, want [-2,-1]-[5,8]", b)
	}
}

func TestPointCloudSubset(t *testing.T) {
	pc := &PointCloud{
		X: []float64{1, 2, 3}, Y: []float64{1, 2, 3}, Z: []float64{1, 2, 3},
		Classification: []uint8{2, 9, 6},
	}
	sub := pc.Subset([]int{0, 2})
	if sub.Len() != 2 {
		t.Fatalf("Subset Len() = %d, want 2", sub.Len())
	}
	if sub.X[1] != 3 || sub.Classification[1] != 6 {
		t.Errorf("Subset did not preserve parallel attribute arrays correctly: %v", sub)
	}
}
