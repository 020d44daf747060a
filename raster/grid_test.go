package raster

import (
	"testing"

	"github.com/giovastabile/dtcc-builder/buildctx"
	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/report"
)

// gridPoints is a minimal GroundSource backed by a slice, for BuildDEM tests.
type gridPoints struct {
	x, y, z []float64
}

func (g gridPoints) Len() int { return len(g.x) }
func (g gridPoints) XYZAt(i int) (float64, float64, float64) { return g.x[i], g.y[i], g.z[i] }

func TestGridField2DEvalExactAtNodes(t *testing.T) {
	bounds := geom.NewAABB2(0, 0, 4, 4)
	g := NewGridField2D(bounds, 1, 1)
	for row := 0; row < g.H; row++ {
		for col := 0; col < g.W; col++ {
			g.set(col, row, float64(row*g.W+col))
		}
	}
	// cell centers are grid nodes: Eval must return the exact stored value
	// with no interpolation error.
	for row := 0; row < g.H; row++ {
		for col := 0; col < g.W; col++ {
			p := geom.Point2{X: bounds.Min.X + (float64(col)+0.5)*g.Dx, Y: bounds.Min.Y + (float64(row)+0.5)*g.Dy}
			got := g.Eval(p, nil)
			want := g.at(col, row)
			if got != want {
				t.Errorf("Eval(%v) = %v, want %v (cell center round-trip)", p, got, want)
			}
		}
	}
}

func TestGridField2DEvalClampsOutOfDomain(t *testing.T) {
	bounds := geom.NewAABB2(0, 0, 4, 4)
	g := NewGridField2D(bounds, 1, 1)
	for i := range g.Values {
		g.Values[i] = 1
	}
	b := report.NewBundle()
	got := g.Eval(geom.Point2{X: -10, Y: -10}, b)
	if got != 1 {
		t.Errorf("Eval outside domain = %v, want 1 (clamped)", got)
	}
	if b.Count(report.OutOfDomain) != 1 {
		t.Errorf("expected an OutOfDomain warning, got %d", b.Count(report.OutOfDomain))
	}
}

func TestBuildDEMMovingWindowAndHoleFill(t *testing.T) {
	bounds := geom.NewAABB2(0, 0, 10, 10)
	pts := gridPoints{
		x: []float64{1, 1, 9, 9},
		y: []float64{1, 1, 9, 9},
		z: []float64{10, 12, 20, 20},
	}
	ctx := buildctx.New(nil)
	g, b, err := BuildDEM(ctx, pts, bounds, 2, 1)
	if err != nil {
		t.Fatalf("BuildDEM error: %v", err)
	}
	for _, v := range g.Values {
		if v == NoData {
			t.Errorf("expected hole filling to remove every NoData cell, found one remaining")
			break
		}
	}
	_ = b
}

func TestBuildDEMRejectsInvertedBounds(t *testing.T) {
	bounds := geom.AABB2{Min: geom.Point2{X: 10, Y: 10}, Max: geom.Point2{X: 0, Y: 0}}
	_, _, err := BuildDEM(nil, gridPoints{}, bounds, 1, 1)
	if err == nil {
		t.Fatalf("expected an error for inverted bounds")
	}
}
