// Package surface defines the final SurfaceMesh output and builds one
// from a trimmed volume mesh's open boundary.
package surface

import "github.com/giovastabile/dtcc-builder/geom"

// SurfaceMesh is a triangulated 2-manifold-with-boundary surface: every
// triangle has 3 distinct vertices, and every edge appears at most twice
//.
type SurfaceMesh struct {
	Vertices []geom.Point3
	Triangles [][3]int

	// VertexNormals and TriangleNormals are derived, not independently
	// authoritative - ComputeNormals (re)populates them from Triangles.
	VertexNormals   []geom.Point3
	TriangleNormals []geom.Point3
}

// New builds a SurfaceMesh from a shared vertex set and a list of
// oriented triangles, computing normals immediately.
func New(vertices []geom.Point3, triangles [][3]int) *SurfaceMesh {
	sm := &SurfaceMesh{Vertices: vertices, Triangles: triangles}
	sm.ComputeNormals()
	return sm
}

// triangleNormal returns the unit normal of triangle t via the right-hand
// rule over its vertex order.
func (sm *SurfaceMesh) triangleNormal(t [3]int) geom.Point3 {
	a, b, c := sm.Vertices[t[0]], sm.Vertices[t[1]], sm.Vertices[t[2]]
	n := b.Sub(a).Cross(c.Sub(a))
	return n.Normalized()
}

// ComputeNormals recomputes TriangleNormals (one per triangle, face normal)
// and VertexNormals (area-weighted average of incident face normals) from
// the current Triangles.
func (sm *SurfaceMesh) ComputeNormals() {
	sm.TriangleNormals = make([]geom.Point3, len(sm.Triangles))
	accum := make([]geom.Point3, len(sm.Vertices))
	for i, t := range sm.Triangles {
		a, b, c := sm.Vertices[t[0]], sm.Vertices[t[1]], sm.Vertices[t[2]]
		n := b.Sub(a).Cross(c.Sub(a)) // unnormalized: magnitude == 2*area, doubling as the area weight
		sm.TriangleNormals[i] = n.Normalized()
		for _, vi := range t {
			accum[vi] = accum[vi].Add(n)
		}
	}
	sm.VertexNormals = make([]geom.Point3, len(sm.Vertices))
	for i, n := range accum {
		sm.VertexNormals[i] = n.Normalized()
	}
}

// edgeKey canonicalizes an undirected edge for the multiplicity check.
type edgeKey struct{ a, b int }

func newEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// EdgeCounts returns, for every edge of the mesh, the number of triangles
// it borders - used to validate the "at most twice" invariant.
func (sm *SurfaceMesh) EdgeCounts() map[edgeKey]int {
	counts := make(map[edgeKey]int)
	for _, t := range sm.Triangles {
		counts[newEdgeKey(t[0], t[1])]++
		counts[newEdgeKey(t[1], t[2])]++
		counts[newEdgeKey(t[2], t[0])]++
	}
	return counts
}

// Valid reports whether every triangle has 3 distinct vertex indices and no
// edge appears more than twice.
func (sm *SurfaceMesh) Valid() bool {
	for _, t := range sm.Triangles {
		if t[0] == t[1] || t[1] == t[2] || t[2] == t[0] {
			return false
		}
	}
	for _, cnt := range sm.EdgeCounts() {
		if cnt > 2 {
			return false
		}
	}
	return true
}

// FromIndices builds a SurfaceMesh from a volume mesh's vertex set
// restricted to the triangles selected by the trim stage's boundary
// extraction. The triangle indices still reference the
// volume mesh's (sparse) vertex indexing; FromIndices renumbers them
// densely and carries over only the referenced vertices.
func FromIndices(allVerts []geom.Point3, triangles [][3]int) *SurfaceMesh {
	used := make(map[int]int)
	var verts []geom.Point3
	remapped := make([][3]int, len(triangles))
	for ti, t := range triangles {
		var nt [3]int
		for k, vi := range t {
			ni, ok := used[vi]
			if !ok {
				ni = len(verts)
				used[vi] = ni
				verts = append(verts, allVerts[vi])
			}
			nt[k] = ni
		}
		remapped[ti] = nt
	}
	return New(verts, remapped)
}
