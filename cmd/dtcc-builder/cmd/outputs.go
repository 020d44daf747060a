package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/giovastabile/dtcc-builder/city"
	"github.com/giovastabile/dtcc-builder/groundmesh"
	"github.com/giovastabile/dtcc-builder/surface"
	"github.com/giovastabile/dtcc-builder/volume"
)

// Writing the produced City/Mesh2D/VolumeMesh/SurfaceMesh to any particular
// file format is, like reading, out of this module's scope; writeJSON
// is the baseline dump the CLI offers so a build's result is inspectable
// without a dedicated viewer.
func writeJSON(path string, v interface{}) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

func printCitySummary(c *city.City) {
	fmt.Printf("city: %d buildings, domain [%.1f,%.1f]-[%.1f,%.1f]\n",
		len(c.Buildings), c.Domain.Min.X, c.Domain.Min.Y, c.Domain.Max.X, c.Domain.Max.Y)
}

func printMeshSummary(m *groundmesh.Mesh2D) {
	fmt.Printf("ground mesh: %d vertices, %d triangles\n", len(m.Vertices), len(m.Triangles))
}

func printVolumeSummary(vm *volume.VolumeMesh) {
	fmt.Printf("volume mesh: %d vertices, %d tetrahedra\n", len(vm.Vertices), len(vm.Tets))
}

func printSurfaceSummary(sm *surface.SurfaceMesh) {
	fmt.Printf("surface mesh: %d vertices, %d triangles, valid=%v\n", len(sm.Vertices), len(sm.Triangles), sm.Valid())
}
