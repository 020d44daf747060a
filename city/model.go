// Package city holds the Building/City model and the footprint simplifier.
package city

import (
	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/raster"
)

// Building is a single footprint with its inferred vertical extent and the
// points assigned to it. ID is opaque and unique within a City.
type Building struct {
	ID         string
	Footprint  geom.Polygon
	Height     float64
	GroundLevel float64

	// RoofPoints and GroundPoints are populated exactly once by
	// assign.Assign; both are 3D points local to this building.
	RoofPoints   []geom.Point3
	GroundPoints []geom.Point3
}

// City is a set of buildings over a 2D domain, with a georeferenced origin
// and - once BuildDEM has run - a terrain raster.
type City struct {
	Buildings []Building
	Domain    geom.AABB2
	Origin    geom.Point2
	Terrain   *raster.GridField2D
}

// BuildingByID returns the building with the given ID, or ok=false if none
// matches.
func (c *City) BuildingByID(id string) (Building, bool) {
	for _, b := range c.Buildings {
		if b.ID == id {
			return b, true
		}
	}
	return Building{}, false
}

// WithHeights returns a copy of c whose buildings have been replaced by
// updated. Height inference produces a new City rather than mutating the
// input in place. updated must be indexed
// the same way as c.Buildings.
func (c *City) WithHeights(updated []Building) *City {
	out := &City{
		Buildings: updated,
		Domain:    c.Domain,
		Origin:    c.Origin,
		Terrain:   c.Terrain,
	}
	return out
}
