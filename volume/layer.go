package volume

import (
	"math"
	"sort"

	"github.com/giovastabile/dtcc-builder/buildctx"
	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/groundmesh"
	"github.com/giovastabile/dtcc-builder/report"
)

// Build extrudes m vertically into L = max(1, round(H/h)) layers of
// thickness H/L, splitting every prism into 3 tetrahedra via the
// index-ordered decomposition, which is conforming between
// neighbouring prisms because the diagonal choice on every shared
// quadrilateral face depends only on the relative order of that face's two
// base-layer vertex indices - the same two vertices, and hence the same
// order, on both sides of the shared face.
func Build(ctx *buildctx.Context, m *groundmesh.Mesh2D, domainHeight, targetLayerThickness float64) (*VolumeMesh, *report.Bundle, error) {
	b := report.NewBundle()
	if domainHeight <= 0 {
		return nil, b, report.Errorf(report.InvalidInput, "domain_height must be > 0")
	}
	if targetLayerThickness <= 0 {
		return nil, b, report.Errorf(report.InvalidInput, "target layer thickness must be > 0")
	}
	if ctx != nil {
		ctx.StartTimer(buildctx.TimerVolumeLayer)
		defer ctx.StopTimer(buildctx.TimerVolumeLayer)
	}

	L := int(math.Round(domainHeight / targetLayerThickness))
	if L < 1 {
		L = 1
	}
	nv := len(m.Vertices)

	vm := &VolumeMesh{}
	vm.Vertices = make([]geom.Point3, 0, nv*(L+1))
	for k := 0; k <= L; k++ {
		z := domainHeight * float64(k) / float64(L)
		for _, p := range m.Vertices {
			vm.Vertices = append(vm.Vertices, p.To3(z))
		}
	}

	vm.Markers = make([]Marker, len(vm.Vertices))
	for k := 0; k <= L; k++ {
		for vi, mk := range m.Markers {
			gi := k*nv + vi
			vm.Markers[gi] = Marker{Horizontal: mk, Top: k == L, Layer: k}
		}
	}

	for k := 0; k < L; k++ {
		base := k * nv
		top := (k + 1) * nv
		for _, tri := range m.Triangles {
			a, bIdx, c := base+tri[0], base+tri[1], base+tri[2]
			tets := prismToTets(a, bIdx, c, top-base)
			for _, t := range tets {
				vm.Tets = append(vm.Tets, vm.orientPositive(t))
			}
		}
	}

	vm.Validate()

	if ctx != nil {
		ctx.Progressf("volume: %d layers, %d vertices, %d tetrahedra", L, len(vm.Vertices), len(vm.Tets))
	}
	return vm, b, nil
}

// prismToTets splits the prism with base vertices (a,b,c) and top vertices
// (a+off,b+off,c+off) into 3 tetrahedra, choosing the diagonal of every
// quad face by the relative order of its two base indices so that neighbor
// prisms agree on shared faces.
func prismToTets(a, b, c, off int) [][4]int {
	idx := []int{a, b, c}
	sort.Ints(idx)
	i0, i1, i2 := idx[0], idx[1], idx[2]
	return [][4]int{
		{i0, i1, i2, i0 + off},
		{i1, i2, i0 + off, i1 + off},
		{i2, i0 + off, i1 + off, i2 + off},
	}
}
