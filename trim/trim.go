// Package trim removes the part of a VolumeMesh that falls inside building
// volumes and extracts its boundary surface.
package trim

import (
	"github.com/giovastabile/dtcc-builder/buildctx"
	"github.com/giovastabile/dtcc-builder/city"
	"github.com/giovastabile/dtcc-builder/groundmesh"
	"github.com/giovastabile/dtcc-builder/report"
	"github.com/giovastabile/dtcc-builder/volume"
)

// Trim drops every tetrahedron of vm whose 4 vertices project strictly
// inside a single building's footprint and whose Z-range lies at or below
// that building's roof elevation, then renumbers vertices and drops any
// left with no remaining tetrahedron.
func Trim(ctx *buildctx.Context, vm *volume.VolumeMesh, c *city.City) (*volume.VolumeMesh, *report.Bundle, error) {
	b := report.NewBundle()
	if ctx != nil {
		ctx.StartTimer(buildctx.TimerTrim)
		defer ctx.StopTimer(buildctx.TimerTrim)
	}

	kept := make([][4]int, 0, len(vm.Tets))
	dropped := 0
	for _, t := range vm.Tets {
		if insideBuilding(vm, c, t) {
			dropped++
			continue
		}
		kept = append(kept, t)
	}

	out := renumber(vm, kept)
	if ctx != nil {
		ctx.Progressf("trim: dropped %d tetrahedra inside building volumes, %d vertices remain", dropped, len(out.Vertices))
	}
	return out, b, nil
}

// insideBuilding reports whether every vertex of t projects strictly inside
// the same building's footprint with Z at or below that building's roof
// elevation.
func insideBuilding(vm *volume.VolumeMesh, c *city.City, t [4]int) bool {
	for bi := range c.Buildings {
		bld := &c.Buildings[bi]
		roof := bld.GroundLevel + bld.Height
		all := true
		for _, vi := range t {
			p := vm.Vertices[vi]
			if p.Z > roof+1e-9 || !bld.Footprint.Contains(p.To2()) || bld.Footprint.OnBoundary(p.To2(), 1e-9) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// renumber builds a fresh VolumeMesh containing only the vertices
// referenced by tets, remapped to a dense 0..n-1 index range.
func renumber(vm *volume.VolumeMesh, tets [][4]int) *volume.VolumeMesh {
	used := make([]bool, len(vm.Vertices))
	for _, t := range tets {
		for _, vi := range t {
			used[vi] = true
		}
	}
	remap := make([]int, len(vm.Vertices))
	out := &volume.VolumeMesh{}
	for i, u := range used {
		if !u {
			remap[i] = -1
			continue
		}
		remap[i] = len(out.Vertices)
		out.Vertices = append(out.Vertices, vm.Vertices[i])
		out.Markers = append(out.Markers, vm.Markers[i])
	}
	for _, t := range tets {
		out.Tets = append(out.Tets, [4]int{remap[t[0]], remap[t[1]], remap[t[2]], remap[t[3]]})
	}
	return out
}

// face is an oriented boundary triangle: the 3 vertex indices that make up
// one face of a trimmed tetrahedron, plus the index of the 4th
// ("excluded") vertex it was cut from, used only to determine outward
// orientation.
type face struct {
	verts    [3]int
	excluded int
}

// faceKey canonicalizes a face's 3 vertices for the "appears in exactly one
// tet" boundary test, independent of winding.
func faceKey(f [3]int) [3]int {
	a, b, c := f[0], f[1], f[2]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]int{a, b, c}
}

// Boundary extracts the outward-oriented surface of vm: every face
// appearing in exactly one tetrahedron, oriented so its normal points away
// from that tet's 4th vertex.
func Boundary(vm *volume.VolumeMesh) *BoundaryFaces {
	counts := make(map[[3]int]int)
	owner := make(map[[3]int]face)
	addFace := func(t [4]int, i0, i1, i2, i3 int) {
		f := [3]int{t[i0], t[i1], t[i2]}
		k := faceKey(f)
		counts[k]++
		owner[k] = face{verts: f, excluded: t[i3]}
	}
	for _, t := range vm.Tets {
		addFace(t, 0, 1, 2, 3)
		addFace(t, 0, 1, 3, 2)
		addFace(t, 0, 2, 3, 1)
		addFace(t, 1, 2, 3, 0)
	}

	sf := &BoundaryFaces{}
	for k, cnt := range counts {
		if cnt != 1 {
			continue
		}
		fc := owner[k]
		sf.Faces = append(sf.Faces, orientOutward(vm, fc))
	}
	return sf
}

// BoundaryFaces is the intermediate boundary-extraction result: oriented
// triangles indexed against the volume mesh's vertex set, before
// surface.FromIndices renumbers them densely.
type BoundaryFaces struct {
	Faces [][3]int
}

func orientOutward(vm *volume.VolumeMesh, f face) [3]int {
	a, bb, cc := vm.Vertices[f.verts[0]], vm.Vertices[f.verts[1]], vm.Vertices[f.verts[2]]
	d := vm.Vertices[f.excluded]
	n := bb.Sub(a).Cross(cc.Sub(a))
	toD := d.Sub(a)
	if n.Dot(toD) > 0 {
		// normal points toward the excluded vertex; flip to point away
		return [3]int{f.verts[0], f.verts[2], f.verts[1]}
	}
	return f.verts
}

// OpenSurface keeps only the faces of sf whose three vertices are all
// marked ground or building-halo and none is marked top, dropping the
// domain top and any face touching a building-interior vertex.
func OpenSurface(vm *volume.VolumeMesh, sf *BoundaryFaces) [][3]int {
	var open [][3]int
	for _, f := range sf.Faces {
		keep := true
		for _, vi := range f {
			mk := vm.Markers[vi]
			if mk.Top || (mk.Horizontal != groundmesh.MarkerGround && mk.Horizontal != groundmesh.MarkerBuildingHalo) {
				keep = false
				break
			}
		}
		if keep {
			open = append(open, f)
		}
	}
	return open
}
