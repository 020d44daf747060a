package raster

import (
	"math"

	"github.com/giovastabile/dtcc-builder/buildctx"
	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/report"
)

// GroundSource is the minimal view of ground points the DEM builder needs;
// satisfied by pointcloud.PointCloud without this package importing it,
// which keeps raster a leaf package.
type GroundSource interface {
	Len() int
	XYZAt(i int) (x, y, z float64)
}

// BuildDEM accumulates ground-point elevations into a grid via a moving
// window average, then fills no-data holes. This is the single way a
// terrain raster gets produced; City carries the result but has no
// terrain-building method of its own.
func BuildDEM(ctx *buildctx.Context, pts GroundSource, bounds geom.AABB2, cellSize float64, windowCells int) (*GridField2D, *report.Bundle, error) {
	b := report.NewBundle()
	if !bounds.Valid() {
		return nil, b, report.Errorf(report.InvalidInput, "DEM bounds are inverted")
	}
	if ctx != nil {
		ctx.StartTimer(buildctx.TimerDEM)
		defer ctx.StopTimer(buildctx.TimerDEM)
	}

	g := NewGridField2D(bounds, cellSize, cellSize)
	sum := make([]float64, g.W*g.H)
	count := make([]int, g.W*g.H)

	half := float64(windowCells) / 2

	for i := 0; i < pts.Len(); i++ {
		x, y, z := pts.XYZAt(i)
		p := geom.Point2{X: x, Y: y}
		if !bounds.Contains(p) {
			continue
		}
		col, row, _ := g.cellIndex(p)
		c0 := clampi(int(math.Floor(float64(col)-half)), 0, g.W-1)
		c1 := clampi(int(math.Ceil(float64(col)+half)), 0, g.W-1)
		r0 := clampi(int(math.Floor(float64(row)-half)), 0, g.H-1)
		r1 := clampi(int(math.Ceil(float64(row)+half)), 0, g.H-1)
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				bi := r*g.W + c
				sum[bi] += z
				count[bi]++
			}
		}
	}

	nodata := 0
	for i := range g.Values {
		if count[i] > 0 {
			g.Values[i] = sum[i] / float64(count[i])
		} else {
			g.Values[i] = NoData
			nodata++
		}
	}

	if nodata > 0 {
		filled, iterLimit := fillHoles(g)
		if filled > 0 && iterLimit {
			b.Warn(report.IterationLimit, "DEM hole filling hit its iteration cap with cells still unfilled")
		}
	}

	if ctx != nil {
		ctx.Progressf("DEM: %dx%d cells, %d no-data holes filled", g.W, g.H, nodata)
	}
	return g, b, nil
}

// fillHoles iteratively replaces every no-data cell whose 8-neighbourhood
// has at least one valid value with the mean of those neighbours, repeating
// until no no-data cells remain or max(width,height) iterations have run
//. It returns the number of cells still unfilled and whether the
// iteration cap was hit while holes remained.
func fillHoles(g *GridField2D) (remaining int, hitCap bool) {
	maxIter := g.W
	if g.H > maxIter {
		maxIter = g.H
	}

	countNoData := func() int {
		n := 0
		for _, v := range g.Values {
			if v == NoData {
				n++
			}
		}
		return n
	}

	for iter := 0; iter < maxIter; iter++ {
		if countNoData() == 0 {
			return 0, false
		}
		changed := false
		next := make([]float64, len(g.Values))
		copy(next, g.Values)
		for row := 0; row < g.H; row++ {
			for col := 0; col < g.W; col++ {
				if g.at(col, row) != NoData {
					continue
				}
				var sum float64
				var n int
				for dr := -1; dr <= 1; dr++ {
					for dc := -1; dc <= 1; dc++ {
						if dr == 0 && dc == 0 {
							continue
						}
						r, c := row+dr, col+dc
						if r < 0 || r >= g.H || c < 0 || c >= g.W {
							continue
						}
						if v := g.at(c, r); v != NoData {
							sum += v
							n++
						}
					}
				}
				if n > 0 {
					next[row*g.W+col] = sum / float64(n)
					changed = true
				}
			}
		}
		g.Values = next
		if !changed {
			// fixed point reached with holes remaining (fully isolated
			// no-data region larger than the neighbourhood radius).
			return countNoData(), false
		}
	}
	remaining = countNoData()
	return remaining, remaining > 0
}
