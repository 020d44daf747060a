package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giovastabile/dtcc-builder/pipeline"
)

var (
	buildVolumeConfig     string
	buildVolumeFootprints string
	buildVolumePointCloud string
	buildVolumeOut        string
)

var buildVolumeMeshCmd = &cobra.Command{
	Use:   "build-volume-mesh",
	Short: "build the layered tetrahedral volume mesh",
	Long: `Run the full pipeline through the volume layerer, both Laplacian
smoothing passes and the trim step, producing the trimmed tetrahedral
VolumeMesh over the domain.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(buildVolumeConfig)
		ctx := newContext()

		c, _, b, err := pipeline.BuildCity(ctx, cfg,
			jsonFootprintReader{path: buildVolumeFootprints},
			xyzReader{path: buildVolumePointCloud})
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

		vm, vb, err := pipeline.BuildVolumeMesh(ctx, cfg, c, mesh)
		if err != nil {
			exitForError(err)
		}
		reportWarnings(vb)
		printVolumeSummary(vm)

		if buildVolumeOut != "" {
			if err := writeJSON(buildVolumeOut, vm); err != nil {
				fmt.Println("error writing output:", err)
				exitForError(err)
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(buildVolumeMeshCmd)
	buildVolumeMeshCmd.Flags().StringVar(&buildVolumeConfig, "config", "dtcc-builder.yml", "build settings file")
	buildVolumeMeshCmd.Flags().StringVar(&buildVolumeFootprints, "footprints", "", "footprint JSON file (required)")
	buildVolumeMeshCmd.Flags().StringVar(&buildVolumePointCloud, "pointcloud", "", "point cloud XYZ file (required)")
	buildVolumeMeshCmd.Flags().StringVar(&buildVolumeOut, "out", "", "write the resulting VolumeMesh as JSON to this path")
	buildVolumeMeshCmd.MarkFlagRequired("footprints")
	buildVolumeMeshCmd.MarkFlagRequired("pointcloud")
}
