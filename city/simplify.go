package city

import (
	"fmt"

	"github.com/giovastabile/dtcc-builder/buildctx"
	"github.com/giovastabile/dtcc-builder/geom"
	"github.com/giovastabile/dtcc-builder/report"
)

// unionFind builds the merge graph's connected components. Union is
// associative only up to numerical round-off, so components are computed
// via union-find to keep the result deterministic.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[ra] = rb
	}
}

// Simplify runs four steps in order: clip to bounds, merge
// close buildings, remove small buildings, snap close vertices.
func Simplify(ctx *buildctx.Context, c *City, bounds geom.AABB2, minBuildingDistance, minBuildingSize, minVertexDistance float64) (*City, *report.Bundle, error) {
	b := report.NewBundle()
	if !bounds.Valid() {
		return nil, b, report.Errorf(report.InvalidInput, "simplify bounds are inverted")
	}
	if ctx != nil {
		ctx.StartTimer(buildctx.TimerSimplify)
		defer ctx.StopTimer(buildctx.TimerSimplify)
	}

	clipped := clipToBounds(c.Buildings, bounds, b)
	merged := mergeCloseBuildings(clipped, minBuildingDistance)
	kept := removeSmallBuildings(merged, minBuildingSize)
	snapped, snapWarnings := snapVertices(kept, minVertexDistance)
	b.Merge(snapWarnings)
	for _, bld := range snapped {
		bld.Footprint.Validate()
	}

	if ctx != nil {
		ctx.Progressf("simplify: %d -> %d buildings", len(c.Buildings), len(snapped))
	}

	out := &City{
		Buildings: snapped,
		Domain:    bounds,
		Origin:    c.Origin,
		Terrain:   c.Terrain,
	}
	return out, b, nil
}

func clipToBounds(buildings []Building, bounds geom.AABB2, b *report.Bundle) []Building {
	out := make([]Building, 0, len(buildings))
	for _, bld := range buildings {
		clipped, ok := bld.Footprint.ClipToAABB(bounds)
		if !ok {
			b.Warn(report.InvalidInput, "building %s clipped to empty footprint, dropped", bld.ID)
			continue
		}
		bld.Footprint = clipped
		out = append(out, bld)
	}
	return out
}

func mergeCloseBuildings(buildings []Building, minDist float64) []Building {
	n := len(buildings)
	if n == 0 {
		return buildings
	}
	uf := newUnionFind(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if buildings[i].Footprint.MinDist(buildings[j].Footprint) < minDist {
				uf.union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		if _, ok := groups[root]; !ok {
			order = append(order, root)
		}
		groups[root] = append(groups[root], i)
	}

	out := make([]Building, 0, len(order))
	for _, root := range order {
		members := groups[root]
		if len(members) == 1 {
			out = append(out, buildings[members[0]])
			continue
		}
		out = append(out, mergeGroup(buildings, members))
	}
	return out
}

func mergeGroup(buildings []Building, members []int) Building {
	rings := make([]geom.Ring, 0, len(members))
	var totalArea, heightSum, groundSum float64
	ids := ""
	for i, m := range members {
		area := buildings[m].Footprint.Area()
		totalArea += area
		heightSum += buildings[m].Height * area
		groundSum += buildings[m].GroundLevel * area
		rings = append(rings, buildings[m].Footprint.Outer)
		if i == 0 {
			ids = buildings[m].ID
		} else {
			ids = fmt.Sprintf("%s+%s", ids, buildings[m].ID)
		}
	}
	// Use the minimum pairwise distance between members as the dilation gap
	// for the buffered-union approximation.
	gap := -1.0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			d := buildings[members[i]].Footprint.MinDist(buildings[members[j]].Footprint)
			if gap < 0 || d < gap {
				gap = d
			}
		}
	}
	hull := geom.BufferedUnion(rings, gap)
	merged := Building{
		ID:        ids,
		Footprint: geom.Polygon{Outer: hull.Canonicalize(true)},
	}
	if totalArea > 0 {
		merged.Height = heightSum / totalArea
		merged.GroundLevel = groundSum / totalArea
	}
	return merged
}

func removeSmallBuildings(buildings []Building, minArea float64) []Building {
	out := make([]Building, 0, len(buildings))
	for _, bld := range buildings {
		if bld.Footprint.Area() < minArea {
			continue
		}
		out = append(out, bld)
	}
	return out
}

func snapVertices(buildings []Building, eps float64) ([]Building, *report.Bundle) {
	b := report.NewBundle()
	out := make([]Building, 0, len(buildings))
	for _, bld := range buildings {
		outer, ok := geom.SnapCloseVertices(bld.Footprint.Outer, eps)
		if !ok {
			b.Warn(report.NumericDegenerate, "building %s degenerated below 3 vertices after snapping, dropped", bld.ID)
			continue
		}
		var holes []geom.Ring
		for _, h := range bld.Footprint.Holes {
			if sh, ok := geom.SnapCloseVertices(h, eps); ok {
				holes = append(holes, sh)
			}
		}
		bld.Footprint = geom.Polygon{Outer: outer, Holes: holes}
		out = append(out, bld)
	}
	return out, b
}
