package groundmesh

import (
	"math"

	"github.com/giovastabile/dtcc-builder/buildctx"
	"github.com/giovastabile/dtcc-builder/city"
	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/report"
)

// qualityRatio is the circumradius-to-shortest-edge bound used by
// refinement.
const qualityRatio = 1.4

// Build triangulates bounds with every footprint edge of c as a
// constraint, then refines the result to the target resolution h.
func Build(ctx *buildctx.Context, c *city.City, bounds geom.AABB2, h float64) (*Mesh2D, *report.Bundle, error) {
	b := report.NewBundle()
	if !bounds.Valid() {
		return nil, b, report.Errorf(report.InvalidInput, "ground mesh bounds are inverted")
	}
	if h <= 0 {
		return nil, b, report.Errorf(report.InvalidInput, "mesh_resolution must be > 0")
	}
	if ctx != nil {
		ctx.StartTimer(buildctx.TimerGroundMesh)
		defer ctx.StopTimer(buildctx.TimerGroundMesh)
	}

	t := newTriangulator(bounds)

	// Step 1: seed boundary vertices at spacing ~ h.
	boundaryPts := seedBoundary(bounds, h)
	for _, p := range boundaryPts {
		vi := t.addVertex(p)
		t.insert(vi)
	}

	// Step 2: insert every footprint ring vertex as a constraint vertex,
	// remembering the global index each maps to so we can reconstruct
	// constraint edges afterwards.
	type ringRef struct {
		indices []int
	}
	var rings []ringRef
	for _, bld := range c.Buildings {
		for _, ring := range append([]geom.Ring{bld.Footprint.Outer}, bld.Footprint.Holes...) {
			idxs := make([]int, len(ring))
			for i, p := range ring {
				vi := t.addVertex(p)
				t.insert(vi)
				idxs[i] = vi
			}
			rings = append(rings, ringRef{indices: idxs})
		}
	}

	// Step 3: the triangulation built above already satisfies the Delaunay
	// empty-circle property; recover every constraint edge that insertion
	// order did not already produce.
	degenerateEdges := 0
	for _, r := range rings {
		n := len(r.indices)
		for i := 0; i < n; i++ {
			a, bIdx := r.indices[i], r.indices[(i+1)%n]
			var ok bool
			t.tris, ok = recoverEdge(t.verts, t.tris, a, bIdx)
			if !ok {
				degenerateEdges++
			}
		}
	}
	if degenerateEdges > 0 {
		b.Warn(report.NumericDegenerate, "%d footprint edges could not be recovered exactly by constrained triangulation", degenerateEdges)
	}

	// Step 4: quality refinement by Steiner point insertion, bounded by an
	// iteration cap. Refinement only ever appends new
	// vertices, so the constraint indices recorded above stay valid.
	refineMesh(t, h)

	// Re-recover constraints: refinement may have introduced triangles that
	// cut across a footprint edge.
	for _, r := range rings {
		n := len(r.indices)
		for i := 0; i < n; i++ {
			a, bIdx := r.indices[i], r.indices[(i+1)%n]
			t.tris, _ = recoverEdge(t.verts, t.tris, a, bIdx)
		}
	}
	mesh, _ := t.finalize()

	markMesh(mesh, c)
	mesh.Validate()

	if ctx != nil {
		ctx.Progressf("groundmesh: %d vertices, %d triangles", len(mesh.Vertices), len(mesh.Triangles))
	}
	return mesh, b, nil
}

func seedBoundary(bounds geom.AABB2, h float64) []geom.Point2 {
	var pts []geom.Point2
	nx := int(math.Max(1, math.Round(bounds.Width()/h)))
	ny := int(math.Max(1, math.Round(bounds.Height()/h)))

	for i := 0; i <= nx; i++ {
		x := bounds.Min.X + bounds.Width()*float64(i)/float64(nx)
		pts = append(pts, geom.Point2{X: x, Y: bounds.Min.Y})
		pts = append(pts, geom.Point2{X: x, Y: bounds.Max.Y})
	}
	for j := 1; j < ny; j++ {
		y := bounds.Min.Y + bounds.Height()*float64(j)/float64(ny)
		pts = append(pts, geom.Point2{X: bounds.Min.X, Y: y})
		pts = append(pts, geom.Point2{X: bounds.Max.X, Y: y})
	}
	return pts
}

// refineMesh inserts Steiner points at circumcenters of triangles whose
// circumradius-to-shortest-edge ratio exceeds qualityRatio or whose area
// exceeds h*h, up to a fixed iteration cap.
func refineMesh(t *triangulator, h float64) {
	const maxIterations = 500
	maxArea := h * h

	for iter := 0; iter < maxIterations; iter++ {
		mesh, _ := t.finalize()
		worst := -1
		var worstCenter geom.Point2
		for _, tri := range mesh.Triangles {
			a, bb, c := mesh.Vertices[tri[0]], mesh.Vertices[tri[1]], mesh.Vertices[tri[2]]
			area := math.Abs(signedArea2(a, bb, c)) / 2
			center, radius, ok := circumcircle(a, bb, c)
			if !ok {
				continue
			}
			shortest := shortestEdge(a, bb, c)
			ratio := radius / shortest
			if ratio > qualityRatio || area > maxArea {
				worst = 0
				worstCenter = center
				break
			}
		}
		if worst < 0 {
			break
		}
		vi := t.addVertex(worstCenter)
		t.insert(vi)
	}
}

func shortestEdge(a, b, c geom.Point2) float64 {
	d1, d2, d3 := a.Dist(b), b.Dist(c), c.Dist(a)
	m := d1
	if d2 < m {
		m = d2
	}
	if d3 < m {
		m = d3
	}
	return m
}

func circumcircle(a, b, c geom.Point2) (center geom.Point2, radius float64, ok bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-12 {
		return geom.Point2{}, 0, false
	}
	ux := ((a.X*a.X+a.Y*a.Y)*(b.Y-c.Y) + (b.X*b.X+b.Y*b.Y)*(c.Y-a.Y) + (c.X*c.X+c.Y*c.Y)*(a.Y-b.Y)) / d
	uy := ((a.X*a.X+a.Y*a.Y)*(c.X-b.X) + (b.X*b.X+b.Y*b.Y)*(a.X-c.X) + (c.X*c.X+c.Y*c.Y)*(b.X-a.X)) / d
	center = geom.Point2{X: ux, Y: uy}
	radius = center.Dist(a)
	return center, radius, true
}

// markMesh assigns per-vertex markers by containment in any building
// footprint; per-triangle markers are derived from these on demand by
// Mesh2D.TriangleMarker.
func markMesh(mesh *Mesh2D, c *city.City) {
	const eps = 1e-6
	for vi, p := range mesh.Vertices {
		marker := MarkerGround
		for _, bld := range c.Buildings {
			if bld.Footprint.OnBoundary(p, eps) {
				marker = MarkerBuildingHalo
				break
			}
			if bld.Footprint.Contains(p) {
				marker = MarkerBuildingInterior
				break
			}
		}
		mesh.Markers[vi] = marker
	}
}
