package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giovastabile/dtcc-builder/pipeline"
)

var (
	buildAllConfig     string
	buildAllFootprints string
	buildAllPointCloud string
	buildAllOutDir     string
)

var buildAllCmd = &cobra.Command{
	Use:   "build-all",
	Short: "run the full pipeline: city, ground mesh, volume mesh and open surface",
	Long: `Run the full pipeline end to end, producing the City, the ground
Mesh2D, the trimmed VolumeMesh, and the open boundary SurfaceMesh extracted
from it.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(buildAllConfig)
		ctx := newContext()

		res, b, err := pipeline.BuildAll(ctx, cfg,
			jsonFootprintReader{path: buildAllFootprints},
			xyzReader{path: buildAllPointCloud})
		if err != nil {
			exitForError(err)
		}
		reportWarnings(b)

		printCitySummary(res.City)
		printMeshSummary(res.Mesh)
		printVolumeSummary(res.Volume)
		printSurfaceSummary(res.Surface)

		if buildAllOutDir != "" {
			writeOrExit(buildAllOutDir+"/city.json", res.City)
			writeOrExit(buildAllOutDir+"/mesh.json", res.Mesh)
			writeOrExit(buildAllOutDir+"/volume.json", res.Volume)
			writeOrExit(buildAllOutDir+"/surface.json", res.Surface)
		}
	},
}

func writeOrExit(path string, v interface{}) {
	if err := writeJSON(path, v); err != nil {
		fmt.Println("error writing", path, ":", err)
		exitForError(err)
	}
}

func init() {
	RootCmd.AddCommand(buildAllCmd)
	buildAllCmd.Flags().StringVar(&buildAllConfig, "config", "dtcc-builder.yml", "build settings file")
	buildAllCmd.Flags().StringVar(&buildAllFootprints, "footprints", "", "footprint JSON file (required)")
	buildAllCmd.Flags().StringVar(&buildAllPointCloud, "pointcloud", "", "point cloud XYZ file (required)")
	buildAllCmd.Flags().StringVar(&buildAllOutDir, "out-dir", "", "write every output as JSON into this directory")
	buildAllCmd.MarkFlagRequired("footprints")
	buildAllCmd.MarkFlagRequired("pointcloud")
}
