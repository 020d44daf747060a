// Package volume extrudes a Mesh2D into a tetrahedral VolumeMesh up to a
// domain height.
package volume

import (
	assert "github.com/arl/assertgo"

	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/groundmesh"
)

// Marker mirrors groundmesh.Marker, extended with the top-of-domain and
// interior-layer tags the layered mesh needs.
type Marker struct {
	Horizontal groundmesh.Marker
	Top        bool
	Layer      int
}

// VolumeMesh is the layered tetrahedral mesh: 3D vertices, tetrahedra as
// index quadruples, and per-vertex markers.
type VolumeMesh struct {
	Vertices []geom.Point3
	Tets     [][4]int
	Markers  []Marker
}

// SignedVolume returns six times the signed volume of tetrahedron t;
// positive iff it is positively oriented.
func (vm *VolumeMesh) SignedVolume(t [4]int) float64 {
	a, b, c, d := vm.Vertices[t[0]], vm.Vertices[t[1]], vm.Vertices[t[2]], vm.Vertices[t[3]]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	return ab.Cross(ac).Dot(ad)
}

// orientPositive returns t, reordered if needed, so SignedVolume(t) > 0.
func (vm *VolumeMesh) orientPositive(t [4]int) [4]int {
	if vm.SignedVolume(t) < 0 {
		return [4]int{t[0], t[2], t[1], t[3]}
	}
	return t
}

// Validate panics via assertgo if any tetrahedron is not positively
// oriented - an internal-bug guard, not input validation.
func (vm *VolumeMesh) Validate() {
	for _, t := range vm.Tets {
		assert.True(vm.SignedVolume(t) > 0, "tetrahedron %v must be positively oriented", t)
	}
}
