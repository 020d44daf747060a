// Package height implements per-building height inference.
package height

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/giovastabile/dtcc-builder/buildctx"
	"github.com/giovastabile/dtcc-builder/city"
	"github.com/giovastabile/dtcc-builder/report"
)

// Infer computes Height and GroundLevel for every building in c, using its
// assigned roof/ground points and the city's terrain DEM. A building with
// no roof points gets minHeight and the DEM value at its centroid as ground
// level; otherwise ground level is the median of the ground samples when
// any exist, else the DEM value at the centroid.
func Infer(ctx *buildctx.Context, c *city.City, roofPercentile, minHeight float64) (*city.City, *report.Bundle, error) {
	b := report.NewBundle()
	if c.Terrain == nil {
		return nil, b, report.Errorf(report.InvalidInput, "city has no terrain DEM; run raster.BuildDEM first")
	}
	if ctx != nil {
		ctx.StartTimer(buildctx.TimerHeight)
		defer ctx.StopTimer(buildctx.TimerHeight)
	}

	updated := make([]city.Building, len(c.Buildings))
	for i, bld := range c.Buildings {
		centroid := bld.Footprint.Centroid()
		groundLevel := c.Terrain.Eval(centroid, b)
		if len(bld.RoofPoints) == 0 {
			bld.Height = minHeight
			bld.GroundLevel = groundLevel
			updated[i] = bld
			continue
		}

		if len(bld.GroundPoints) > 0 {
			zs := make([]float64, len(bld.GroundPoints))
			for j, p := range bld.GroundPoints {
				zs[j] = p.Z
			}
			groundLevel = median(zs)
		}

		zs := make([]float64, len(bld.RoofPoints))
		for j, p := range bld.RoofPoints {
			zs[j] = p.Z
		}
		sort.Float64s(zs)
		roofTop := stat.Quantile(roofPercentile, stat.LinInterp, zs, nil)

		h := roofTop - groundLevel
		if h < minHeight {
			h = minHeight
		}
		bld.Height = h
		bld.GroundLevel = groundLevel
		updated[i] = bld
	}

	if ctx != nil {
		ctx.Progressf("height: inferred heights for %d buildings", len(updated))
	}
	return c.WithHeights(updated), b, nil
}

func median(xs []float64) float64 {
	sorted := append([]float64{}, xs...)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.LinInterp, sorted, nil)
}
