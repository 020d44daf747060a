// Package raster provides the regular 2D scalar grid (GridField2D)
// used to represent the terrain DEM, plus the moving-window construction
// and hole-filling algorithm that builds one from ground points.
package raster

import (
	"math"

	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/report"
)

// NoData marks a cell that received no samples during accumulation.
const NoData = math.MaxFloat64

// GridField2D is a regular grid of float64 samples over a georeferenced
// AABB, stored row-major.
type GridField2D struct {
	Bounds geom.AABB2
	Dx, Dy float64
	W, H   int
	Values []float64 // len == W*H, row-major: Values[row*W+col]
}

// NewGridField2D allocates a grid covering bounds at the given cell size,
// with every cell initialized to NoData.
func NewGridField2D(bounds geom.AABB2, dx, dy float64) *GridField2D {
	w := int(math.Ceil(bounds.Width() / dx))
	h := int(math.Ceil(bounds.Height() / dy))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	g := &GridField2D{Bounds: bounds, Dx: dx, Dy: dy, W: w, H: h}
	g.Values = make([]float64, w*h)
	for i := range g.Values {
		g.Values[i] = NoData
	}
	return g
}

func (g *GridField2D) at(col, row int) float64 { return g.Values[row*g.W+col] }
func (g *GridField2D) set(col, row int, v float64) { g.Values[row*g.W+col] = v }

// cellIndex returns the (col,row) of the cell containing p, clamped to the
// grid extent. ok is false (and OutOfDomain should be reported by the
// caller) if p lay outside Bounds before clamping.
func (g *GridField2D) cellIndex(p geom.Point2) (col, row int, ok bool) {
	ok = g.Bounds.Contains(p)
	clamped := g.Bounds.Clamp(p)
	col = int((clamped.X - g.Bounds.Min.X) / g.Dx)
	row = int((clamped.Y - g.Bounds.Min.Y) / g.Dy)
	if col >= g.W {
		col = g.W - 1
	}
	if row >= g.H {
		row = g.H - 1
	}
	return
}

// Eval bilinearly samples the grid at (x,y), clamping to the AABB and
// reporting OutOfDomain in bundle when clamping was necessary.
func (g *GridField2D) Eval(p geom.Point2, bundle *report.Bundle) float64 {
	clamped := g.Bounds.Clamp(p)
	if clamped != p && bundle != nil {
		bundle.Warn(report.OutOfDomain, "DEM query (%g,%g) clamped to AABB", p.X, p.Y)
	}

	// fractional cell coordinates of the clamped point
	fx := (clamped.X - g.Bounds.Min.X) / g.Dx
	fy := (clamped.Y - g.Bounds.Min.Y) / g.Dy

	c0 := int(math.Floor(fx - 0.5))
	r0 := int(math.Floor(fy - 0.5))
	tx := fx - 0.5 - float64(c0)
	ty := fy - 0.5 - float64(r0)

	c0 = clampi(c0, 0, g.W-1)
	r0 = clampi(r0, 0, g.H-1)
	c1 := clampi(c0+1, 0, g.W-1)
	r1 := clampi(r0+1, 0, g.H-1)

	v00, v10 := g.at(c0, r0), g.at(c1, r0)
	v01, v11 := g.at(c0, r1), g.at(c1, r1)

	top := v00 + (v10-v00)*tx
	bot := v01 + (v11-v01)*tx
	return top + (bot-top)*ty
}

// Mean returns the average of every cell value, skipping NoData cells.
// Returns 0 for a grid with no valid cells.
func (g *GridField2D) Mean() float64 {
	var sum float64
	var n int
	for _, v := range g.Values {
		if v == NoData {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
