package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giovastabile/dtcc-builder/pipeline"
)

var (
	buildCityConfig      string
	buildCityFootprints  string
	buildCityPointCloud  string
	buildCityOut         string
)

var buildCityCmd = &cobra.Command{
	Use:   "build-city",
	Short: "condition the point cloud, build the terrain DEM, and infer building heights",
	Long: `Condition the input point cloud, build the terrain DEM,
simplify building footprints, assign points to buildings, and infer every
building's height and ground level.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(buildCityConfig)
		ctx := newContext()

		c, _, b, err := pipeline.BuildCity(ctx, cfg,
			jsonFootprintReader{path: buildCityFootprints},
			xyzReader{path: buildCityPointCloud})
		if err != nil {
			exitForError(err)
		}
		reportWarnings(b)
		printCitySummary(c)

		if buildCityOut != "" {
			if err := writeJSON(buildCityOut, c); err != nil {
				fmt.Println("error writing output:", err)
				exitForError(err)
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(buildCityCmd)
	buildCityCmd.Flags().StringVar(&buildCityConfig, "config", "dtcc-builder.yml", "build settings file")
	buildCityCmd.Flags().StringVar(&buildCityFootprints, "footprints", "", "footprint JSON file (required)")
	buildCityCmd.Flags().StringVar(&buildCityPointCloud, "pointcloud", "", "point cloud XYZ file (required)")
	buildCityCmd.Flags().StringVar(&buildCityOut, "out", "", "write the resulting City as JSON to this path")
	buildCityCmd.MarkFlagRequired("footprints")
	buildCityCmd.MarkFlagRequired("pointcloud")
}
