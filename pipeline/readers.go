// Package pipeline orchestrates the full city/mesh/volume-mesh build, the
// sequence every cmd/dtcc-builder subcommand drives.
package pipeline

import (
	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/pointcloud"
)

// PointCloudReader produces a raw point cloud (BuildCity conditions it) from
// whatever storage format a caller chooses, decoupling the pipeline from
// any one file format.
type PointCloudReader interface {
	ReadPointCloud() (*pointcloud.PointCloud, error)
}

// Footprint is a single building footprint as delivered by a
// FootprintReader, before simplification.
type Footprint struct {
	ID     string
	Outer  geom.Ring
	Holes  []geom.Ring
}

// FootprintReader produces the raw building footprints a FootprintReader
// implementation has loaded and canonicalized (outer ring CCW, holes CW),
// before city.Simplify runs.
type FootprintReader interface {
	ReadFootprints() ([]Footprint, error)
}
