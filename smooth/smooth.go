// Package smooth relaxes the Z-coordinates of a VolumeMesh toward a
// Laplacian fixed point subject to Dirichlet boundary constraints.
package smooth

import (
	"math"

	"github.com/giovastabile/dtcc-builder/buildctx"
	"github.com/giovastabile/dtcc-builder/report"
	"github.com/giovastabile/dtcc-builder/volume"
)

// csr is the compressed-sparse-row adjacency of the tetrahedral mesh's
// 1-ring vertex graph, built once from the tet mesh's vertex graph rather
// than recomputed per iteration.
type csr struct {
	rowStart []int
	cols     []int
}

// buildCSR collects, for every vertex, the set of distinct neighbours it
// shares a tetrahedron edge with, then flattens that into CSR form.
func buildCSR(vm *volume.VolumeMesh) *csr {
	n := len(vm.Vertices)
	neighbors := make([]map[int]struct{}, n)
	for i := range neighbors {
		neighbors[i] = make(map[int]struct{})
	}
	addEdge := func(a, b int) {
		neighbors[a][b] = struct{}{}
		neighbors[b][a] = struct{}{}
	}
	for _, t := range vm.Tets {
		addEdge(t[0], t[1])
		addEdge(t[0], t[2])
		addEdge(t[0], t[3])
		addEdge(t[1], t[2])
		addEdge(t[1], t[3])
		addEdge(t[2], t[3])
	}

	c := &csr{rowStart: make([]int, n+1)}
	for i := 0; i < n; i++ {
		c.rowStart[i+1] = c.rowStart[i] + len(neighbors[i])
		for v := range neighbors[i] {
			c.cols = append(c.cols, v)
		}
	}
	return c
}

func (c *csr) neighborsOf(v int) []int {
	return c.cols[c.rowStart[v]:c.rowStart[v+1]]
}

// Dirichlet pins a vertex's Z to a fixed elevation: ground vertices to the
// DEM, top vertices to the domain height, and in ground-and-buildings
// mode, building-interior vertices at or below that building's roof to the
// roof).
type Dirichlet struct {
	Z   float64
	Set bool
}

// Smooth relaxes vm.Vertices[*].Z toward the discrete Laplace equation
// (each free vertex converges to the average Z of its neighbours) using
// Jacobi iteration, honouring fixed as Dirichlet boundary values. It
// terminates when the relative residual drops below relTol or after
// maxIterations, whichever comes first. Connected components with no
// Dirichlet vertex at all are left unchanged and reported as
// UnderConstrained, since a Laplacian with no boundary condition has no
// unique fixed point.
func Smooth(ctx *buildctx.Context, vm *volume.VolumeMesh, fixed []Dirichlet, maxIterations int, relTol float64) (*report.Bundle, error) {
	b := report.NewBundle()
	n := len(vm.Vertices)
	if len(fixed) != n {
		return b, report.Errorf(report.InvalidInput, "fixed must have one entry per vertex (%d), got %d", n, len(fixed))
	}
	if maxIterations <= 0 {
		return b, report.Errorf(report.InvalidInput, "smoothing_max_iterations must be > 0")
	}
	if relTol <= 0 {
		return b, report.Errorf(report.InvalidInput, "smoothing_relative_tolerance must be > 0")
	}
	if ctx != nil {
		ctx.StartTimer(buildctx.TimerSmooth)
		defer ctx.StopTimer(buildctx.TimerSmooth)
	}

	adj := buildCSR(vm)

	comps := connectedComponents(adj, n)
	unconstrained := 0
	for _, comp := range comps {
		hasFixed := false
		for _, v := range comp {
			if fixed[v].Set {
				hasFixed = true
				break
			}
		}
		if !hasFixed {
			unconstrained++
		}
	}
	if unconstrained > 0 {
		b.Warn(report.UnderConstrained, "%d connected component(s) have no Dirichlet vertex and were left unchanged", unconstrained)
	}

	z := make([]float64, n)
	free := make([]bool, n)
	for i := 0; i < n; i++ {
		if fixed[i].Set {
			z[i] = fixed[i].Z
		} else {
			z[i] = vm.Vertices[i].Z
			free[i] = true
		}
	}
	// vertices in an unconstrained component are never updated, regardless
	// of the free[] flag, since there's no boundary value to relax toward.
	inUnconstrained := make([]bool, n)
	for _, comp := range comps {
		hasFixed := false
		for _, v := range comp {
			if fixed[v].Set {
				hasFixed = true
				break
			}
		}
		if !hasFixed {
			for _, v := range comp {
				inUnconstrained[v] = true
			}
		}
	}

	next := make([]float64, n)
	iterations := 0
	converged := false
	for iter := 0; iter < maxIterations; iter++ {
		iterations++
		var maxDelta, maxZ float64
		for v := 0; v < n; v++ {
			if !free[v] || inUnconstrained[v] {
				next[v] = z[v]
				continue
			}
			nbrs := adj.neighborsOf(v)
			if len(nbrs) == 0 {
				next[v] = z[v]
				continue
			}
			sum := 0.0
			for _, u := range nbrs {
				sum += z[u]
			}
			avg := sum / float64(len(nbrs))
			next[v] = avg
			delta := math.Abs(avg - z[v])
			if delta > maxDelta {
				maxDelta = delta
			}
			if math.Abs(avg) > maxZ {
				maxZ = math.Abs(avg)
			}
		}
		z, next = next, z
		residual := maxDelta
		if maxZ > 1e-12 {
			residual = maxDelta / maxZ
		}
		if residual < relTol {
			converged = true
			break
		}
	}
	if !converged {
		b.Warn(report.IterationLimit, "smoother reached %d iterations without converging to relative tolerance %g", iterations, relTol)
	}

	for i := 0; i < n; i++ {
		vm.Vertices[i].Z = z[i]
	}
	if ctx != nil {
		if converged {
			ctx.Progressf("smooth: converged after %d iterations", iterations)
		} else {
			ctx.Progressf("smooth: iteration limit (%d) reached without convergence", iterations)
		}
	}
	return b, nil
}

// connectedComponents groups vertex indices by connectivity in adj, used
// only to locate Dirichlet-free components.
func connectedComponents(adj *csr, n int) [][]int {
	visited := make([]bool, n)
	var comps [][]int
	for s := 0; s < n; s++ {
		if visited[s] {
			continue
		}
		var comp []int
		stack := []int{s}
		visited[s] = true
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, v)
			for _, u := range adj.neighborsOf(v) {
				if !visited[u] {
					visited[u] = true
					stack = append(stack, u)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}
