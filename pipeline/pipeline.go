package pipeline

import (
	"github.com/giovastabile/dtcc-builder/assign"
	"github.com/giovastabile/dtcc-builder/buildctx"
	"github.com/giovastabile/dtcc-builder/city"
	"github.com/giovastabile/dtcc-builder/config"
	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/groundmesh"
	"github.com/giovastabile/dtcc-builder/height"
	"github.com/giovastabile/dtcc-builder/pointcloud"
	"github.com/giovastabile/dtcc-builder/raster"
	"github.com/giovastabile/dtcc-builder/report"
	"github.com/giovastabile/dtcc-builder/smooth"
	"github.com/giovastabile/dtcc-builder/surface"
	"github.com/giovastabile/dtcc-builder/trim"
	"github.com/giovastabile/dtcc-builder/volume"
)

// Result bundles every artifact a full run can produce, so BuildAll callers
// (chiefly cmd/dtcc-builder) can write out whichever ones were asked for.
type Result struct {
	City       *city.City
	PointCloud *pointcloud.PointCloud
	Mesh       *groundmesh.Mesh2D
	Volume     *volume.VolumeMesh
	Surface    *surface.SurfaceMesh
}

// domain computes the working AABB: the manual box from cfg when
// AutoDomain is false, otherwise the union of every footprint's bounds and
// the point cloud's bounds, expanded by DomainMargin.
func domain(cfg config.Config, footprints []Footprint, pc *pointcloud.PointCloud) geom.AABB2 {
	if !cfg.AutoDomain {
		return geom.NewAABB2(cfg.XMin, cfg.YMin, cfg.XMax, cfg.YMax)
	}
	b := pc.Bounds()
	for _, f := range footprints {
		b = b.Union(f.Outer.Bounds())
	}
	return b.Expand(cfg.DomainMargin)
}

// groundSubset returns the points BuildDEM should sample: classified
// ground/water returns when classification is available, otherwise every
// remaining (already conditioned/filtered) point.
func groundSubset(pc *pointcloud.PointCloud) *pointcloud.PointCloud {
	if !pc.HasClassification() {
		return pc
	}
	var idx []int
	for i := 0; i < pc.Len(); i++ {
		if pc.IsGround(i) {
			idx = append(idx, i)
		}
	}
	return pc.Subset(idx)
}

// BuildCity runs conditioning, simplification, DEM construction, point
// assignment and height inference in order, producing a City with
// heights and a terrain raster.
func BuildCity(ctx *buildctx.Context, cfg config.Config, fr FootprintReader, pr PointCloudReader) (*city.City, *pointcloud.PointCloud, *report.Bundle, error) {
	b := report.NewBundle()

	footprints, err := fr.ReadFootprints()
	if err != nil {
		return nil, nil, b, report.Errorf(report.InvalidInput, "reading footprints: %v", err)
	}
	pc, err := pr.ReadPointCloud()
	if err != nil {
		return nil, nil, b, report.Errorf(report.InvalidInput, "reading point cloud: %v", err)
	}

	pc, warn, err := pointcloud.GlobalOutlierRemoval(pc, cfg.OutlierMargin)
	if err != nil {
		return nil, nil, b, err
	}
	b.Merge(warn)

	if cfg.NaiveVegetationFilter {
		var vwarn *report.Bundle
		pc, vwarn = pointcloud.VegetationFilter(pc)
		b.Merge(vwarn)
	}

	dom := domain(cfg, footprints, pc)

	buildings := make([]city.Building, len(footprints))
	for i, f := range footprints {
		buildings[i] = city.Building{
			ID: f.ID,
			Footprint: geom.Polygon{
				Outer: f.Outer.Canonicalize(true),
				Holes: canonicalizeHoles(f.Holes),
			},
		}
	}
	c := &city.City{Buildings: buildings, Domain: dom, Origin: geom.Point2{X: cfg.X0, Y: cfg.Y0}}

	c, swarn, err := city.Simplify(ctx, c, dom, cfg.MinBuildingDistance, cfg.MinBuildingSize, cfg.MinVertexDistance)
	if err != nil {
		return nil, nil, b, err
	}
	b.Merge(swarn)

	dem, dwarn, err := raster.BuildDEM(ctx, groundSubset(pc), dom, cfg.ElevationModelResolution, cfg.ElevationModelWindowSize)
	if err != nil {
		return nil, nil, b, err
	}
	b.Merge(dwarn)
	c.Terrain = dem

	c, awarn, err := assign.Assign(ctx, c, pc, assign.Params{
		GroundMargin:      cfg.GroundMargin,
		OutlierNeighbors:  cfg.OutlierNeighbors,
		RoofOutlierMargin: cfg.RoofOutlierMargin,
		RANSACEnabled:     cfg.RANSACOutlierRemover,
		RANSACMargin:      cfg.RANSACOutlierMargin,
		RANSACIterations:  cfg.RANSACIterations,
		Workers:           cfg.Workers,
	})
	if err != nil {
		return nil, nil, b, err
	}
	b.Merge(awarn)

	c, hwarn, err := height.Infer(ctx, c, cfg.RoofPercentile, cfg.MinBuildingHeight)
	if err != nil {
		return nil, nil, b, err
	}
	b.Merge(hwarn)

	return c, pc, b, nil
}

func canonicalizeHoles(holes []geom.Ring) []geom.Ring {
	out := make([]geom.Ring, len(holes))
	for i, h := range holes {
		out[i] = h.Canonicalize(false)
	}
	return out
}

// BuildMesh builds the constrained-Delaunay ground mesh over c's
// domain at the configured resolution.
func BuildMesh(ctx *buildctx.Context, cfg config.Config, c *city.City) (*groundmesh.Mesh2D, *report.Bundle, error) {
	return groundmesh.Build(ctx, c, c.Domain, cfg.MeshResolution)
}

// BuildVolumeMesh runs layering, smoothing and trimming over an
// already-built Mesh2D, returning the trimmed tetrahedral volume mesh. The
// smoother runs twice: a ground-only pass drapes the full column grid over
// the terrain before building interiors are trimmed away, then a
// ground-and-buildings pass lifts the vertices left on each footprint onto
// that building's roof. The domain top is pinned at domain_height above
// the mean terrain elevation so the airspace keeps its full vertical
// extent over high ground.
func BuildVolumeMesh(ctx *buildctx.Context, cfg config.Config, c *city.City, mesh *groundmesh.Mesh2D) (*volume.VolumeMesh, *report.Bundle, error) {
	b := report.NewBundle()

	vm, lwarn, err := volume.Build(ctx, mesh, cfg.DomainHeight, cfg.MeshResolution)
	if err != nil {
		return nil, b, err
	}
	b.Merge(lwarn)

	topHeight := cfg.DomainHeight + c.Terrain.Mean()

	fixed, cwarn := smooth.BuildDirichlet(vm, c, topHeight, false)
	b.Merge(cwarn)
	swarn, err := smooth.Smooth(ctx, vm, fixed, cfg.SmoothingMaxIterations, cfg.SmoothingRelativeTolerance)
	if err != nil {
		return nil, b, err
	}
	b.Merge(swarn)

	trimmed, twarn, err := trim.Trim(ctx, vm, c)
	if err != nil {
		return nil, b, err
	}
	b.Merge(twarn)

	fixed, cwarn = smooth.BuildDirichlet(trimmed, c, topHeight, true)
	b.Merge(cwarn)
	swarn, err = smooth.Smooth(ctx, trimmed, fixed, cfg.SmoothingMaxIterations, cfg.SmoothingRelativeTolerance)
	if err != nil {
		return nil, b, err
	}
	b.Merge(swarn)

	return trimmed, b, nil
}

// BuildAll runs the complete pipeline: city, mesh, volume mesh, and the
// open boundary surface extracted from it.
func BuildAll(ctx *buildctx.Context, cfg config.Config, fr FootprintReader, pr PointCloudReader) (*Result, *report.Bundle, error) {
	b := report.NewBundle()
	if ctx != nil {
		ctx.StartTimer(buildctx.TimerTotal)
		defer ctx.StopTimer(buildctx.TimerTotal)
	}

	c, pc, warn, err := BuildCity(ctx, cfg, fr, pr)
	if err != nil {
		return nil, b, err
	}
	b.Merge(warn)

	mesh, mwarn, err := BuildMesh(ctx, cfg, c)
	if err != nil {
		return nil, b, err
	}
	b.Merge(mwarn)

	vm, vwarn, err := BuildVolumeMesh(ctx, cfg, c, mesh)
	if err != nil {
		return nil, b, err
	}
	b.Merge(vwarn)

	bnd := trim.Boundary(vm)
	open := trim.OpenSurface(vm, bnd)
	sm := surface.FromIndices(vm.Vertices, open)

	return &Result{City: c, PointCloud: pc, Mesh: mesh, Volume: vm, Surface: sm}, b, nil
}
