// Package groundmesh builds the ground-and-buildings 2D mesh: a
// constrained Delaunay triangulation of the domain that preserves every
// footprint edge, refined to a target quality and resolution.
package groundmesh

import (
	assert "github.com/arl/assertgo"

	"github.com/giovastabile/dtcc-builder/geom"
)

// Marker tags a Mesh2D vertex or triangle by its relation to building
// footprints.
type Marker int

const (
	MarkerDomain Marker = iota
	MarkerGround
	MarkerBuildingHalo
	MarkerBuildingInterior
)

// Mesh2D is the triangulated domain: vertices, CCW triangles, and
// per-vertex markers.
type Mesh2D struct {
	Vertices  []geom.Point2
	Triangles [][3]int
	Markers   []Marker
}

// TriangleMarker returns the majority vertex marker of triangle t, ties broken toward the more specific class
// (building-interior > building-halo > ground > domain).
func (m *Mesh2D) TriangleMarker(t [3]int) Marker {
	counts := map[Marker]int{}
	for _, vi := range t {
		counts[m.Markers[vi]]++
	}
	best := MarkerDomain
	bestCount := -1
	// iterate from most to least specific so ties favour specificity
	for _, mk := range []Marker{MarkerBuildingInterior, MarkerBuildingHalo, MarkerGround, MarkerDomain} {
		if counts[mk] > bestCount {
			bestCount = counts[mk]
			best = mk
		}
	}
	return best
}

// edgeKey is an undirected edge between two vertex indices, canonicalized
// so (a,b) and (b,a) compare equal.
type edgeKey struct{ a, b int }

func newEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// EdgeTriangleCounts returns, for every edge appearing in the mesh, how
// many triangles it borders - used to validate the "≤2 triangles per edge"
// invariant and to find boundary edges.
func (m *Mesh2D) EdgeTriangleCounts() map[edgeKey]int {
	counts := make(map[edgeKey]int)
	for _, t := range m.Triangles {
		for i := 0; i < 3; i++ {
			counts[newEdgeKey(t[i], t[(i+1)%3])]++
		}
	}
	return counts
}

func signedArea2(a, b, c geom.Point2) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
}

// orientCCW returns t reordered to be counter-clockwise if it is currently
// clockwise, and t unchanged otherwise.
func (m *Mesh2D) orientCCW(t [3]int) [3]int {
	if signedArea2(m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]) < 0 {
		return [3]int{t[0], t[2], t[1]}
	}
	return t
}

// Validate panics via assertgo if the mesh invariants (CCW triangles,
// edges shared by at most two triangles) do not hold - an internal-bug guard, not
// input validation.
func (m *Mesh2D) Validate() {
	for _, t := range m.Triangles {
		assert.True(signedArea2(m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]) >= 0, "triangle %v must be counter-clockwise", t)
	}
	for e, n := range m.EdgeTriangleCounts() {
		assert.True(n <= 2, "edge %v shared by %d triangles, want <= 2", e, n)
	}
}
