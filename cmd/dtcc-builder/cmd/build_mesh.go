package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giovastabile/dtcc-builder/pipeline"
)

var (
	buildMeshConfig     string
	buildMeshFootprints string
	buildMeshPointCloud string
	buildMeshOut        string
)

var buildMeshCmd = &cobra.Command{
	Use:   "build-mesh",
	Short: "build the terrain-conforming ground mesh",
	Long: `Run the full city pipeline followed by the constrained
Delaunay ground mesh builder: a triangulation of the domain that
preserves every building footprint edge, refined to the configured
resolution and quality.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(buildMeshConfig)
		ctx := newContext()

		c, _, b, err := pipeline.BuildCity(ctx, cfg,
			jsonFootprintReader{path: buildMeshFootprints},
			xyzReader{path: buildMeshPointCloud})
		if err != nil {
			exitForError(err)
		}
		reportWarnings(b)
		printCitySummary(c)

		mesh, mb, err := pipeline.BuildMesh(ctx, cfg, c)
		if err != nil {
			exitForError(err)
		}
		reportWarnings(mb)
		printMeshSummary(mesh)

		if buildMeshOut != "" {
			if err := writeJSON(buildMeshOut, mesh); err != nil {
				fmt.Println("error writing output:", err)
				exitForError(err)
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(buildMeshCmd)
	buildMeshCmd.Flags().StringVar(&buildMeshConfig, "config", "dtcc-builder.yml", "build settings file")
	buildMeshCmd.Flags().StringVar(&buildMeshFootprints, "footprints", "", "footprint JSON file (required)")
	buildMeshCmd.Flags().StringVar(&buildMeshPointCloud, "pointcloud", "", "point cloud XYZ file (required)")
	buildMeshCmd.Flags().StringVar(&buildMeshOut, "out", "", "write the resulting Mesh2D as JSON to this path")
	buildMeshCmd.MarkFlagRequired("footprints")
	buildMeshCmd.MarkFlagRequired("pointcloud")
}
