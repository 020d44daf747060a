package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giovastabile/dtcc-builder/config"
	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/pointcloud"
)

// fixedFootprints and fixedPointCloud are in-memory FootprintReader /
// PointCloudReader implementations for exercising the pipeline without any
// file I/O, standing in for cmd/dtcc-builder's format-specific adapters.
type fixedFootprints struct{ fps []Footprint }

func (f fixedFootprints) ReadFootprints() ([]Footprint, error) { return f.fps, nil }

type fixedPointCloud struct{ pc *pointcloud.PointCloud }

func (f fixedPointCloud) ReadPointCloud() (*pointcloud.PointCloud, error) { return f.pc, nil }

func syntheticScene() (fixedFootprints, fixedPointCloud) {
	fp := Footprint{
		ID:    "b1",
		Outer: geom.Ring{{20, 20}, {30, 20}, {30, 30}, {20, 30}},
	}
	pc := &pointcloud.PointCloud{}
	addPoint := func(x, y, z float64, ground bool) {
		pc.X = append(pc.X, x)
		pc.Y = append(pc.Y, y)
		pc.Z = append(pc.Z, z)
		cls := uint8(6)
		if ground {
			cls = pointcloud.ClassGround
		}
		pc.Classification = append(pc.Classification, cls)
	}
	// roof points over the footprint
	for x := 22.0; x < 28; x += 2 {
		for y := 22.0; y < 28; y += 2 {
			addPoint(x, y, 15, false)
		}
	}
	// ground points covering the rest of the domain on a coarse grid
	for x := 0.0; x <= 50; x += 5 {
		for y := 0.0; y <= 50; y += 5 {
			addPoint(x, y, 0, true)
		}
	}
	return fixedFootprints{fps: []Footprint{fp}}, fixedPointCloud{pc: pc}
}

func smallConfig() config.Config {
	cfg := config.Default()
	cfg.AutoDomain = true
	cfg.DomainMargin = 5
	cfg.MeshResolution = 10
	cfg.DomainHeight = 30
	cfg.ElevationModelResolution = 5
	cfg.SmoothingMaxIterations = 50
	return cfg
}

func TestBuildCityProducesHeightedBuilding(t *testing.T) {
	fr, pr := syntheticScene()
	cfg := smallConfig()

	c, _, _, err := BuildCity(nil, cfg, fr, pr)
	require.NoError(t, err)
	require.Len(t, c.Buildings, 1)

	bld := c.Buildings[0]
	assert.Greater(t, bld.Height, 0.0, "expected a positive inferred height")
	assert.NotNil(t, c.Terrain, "expected BuildCity to populate the terrain DEM")
}

func TestBuildAllProducesConsistentMesh(t *testing.T) {
	fr, pr := syntheticScene()
	cfg := smallConfig()

	result, _, err := BuildAll(nil, cfg, fr, pr)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Mesh.Triangles, "expected a non-empty ground mesh")
	assert.NotEmpty(t, result.Volume.Tets, "expected a non-empty volume mesh")
	require.NotNil(t, result.Surface)
	assert.NotEmpty(t, result.Surface.Triangles, "expected a non-empty open boundary surface")
	assert.True(t, result.Surface.Valid(), "expected the extracted open surface to satisfy the SurfaceMesh invariants")
}

func TestBuildCityRejectsUnreadableFootprints(t *testing.T) {
	_, pr := syntheticScene()
	cfg := smallConfig()
	_, _, _, err := BuildCity(nil, cfg, erroringFootprints{}, pr)
	assert.Error(t, err, "expected an error when the footprint reader fails")
}

type erroringFootprints struct{}

func (erroringFootprints) ReadFootprints() ([]Footprint, error) {
	return nil, errReader
}

var errReader = errTest("simulated footprint read failure")

type errTest string

func (e errTest) Error() string { return string(e) }
