package smooth

import (
	"github.com/giovastabile/dtcc-builder/city"
	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/groundmesh"
	"github.com/giovastabile/dtcc-builder/report"
	"github.com/giovastabile/dtcc-builder/volume"
)

// BuildDirichlet derives the smoothing boundary conditions for vm from the
// terrain c.Terrain: every layer-0 (ground) vertex is pinned to the DEM
// elevation at its (x,y); every top-layer vertex is pinned to topHeight;
// and, when groundAndBuildings is set, every building-interior vertex at or
// below its building's roof elevation is instead pinned to that roof,
// producing a stepped building volume rather than a smooth dome over each
// footprint.
func BuildDirichlet(vm *volume.VolumeMesh, c *city.City, topHeight float64, groundAndBuildings bool) ([]Dirichlet, *report.Bundle) {
	b := report.NewBundle()
	n := len(vm.Vertices)
	fixed := make([]Dirichlet, n)

	const tol = 1e-9
	for i, p := range vm.Vertices {
		mk := vm.Markers[i]
		if mk.Top {
			fixed[i] = Dirichlet{Z: topHeight, Set: true}
			continue
		}
		p2 := p.To2()
		if groundAndBuildings && mk.Horizontal == groundmesh.MarkerBuildingInterior {
			// After trimming, the cavity floor over a building is made of
			// interior vertices at or below roof height, at whatever layer
			// survived; all of them land on the roof.
			if bld := buildingAt(c, p2); bld != nil {
				roof := bld.GroundLevel + bld.Height
				if p.Z <= roof+tol {
					fixed[i] = Dirichlet{Z: roof, Set: true}
					continue
				}
			}
		}
		if mk.Layer == 0 {
			fixed[i] = Dirichlet{Z: c.Terrain.Eval(p2, b), Set: true}
		}
	}
	return fixed, b
}

// buildingAt returns the building whose footprint contains p, or nil.
func buildingAt(c *city.City, p geom.Point2) *city.Building {
	for i := range c.Buildings {
		if c.Buildings[i].Footprint.Contains(p) {
			return &c.Buildings[i]
		}
	}
	return nil
}
