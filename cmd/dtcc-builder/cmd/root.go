package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes: 0 success, 1 invalid input, 2 numerical failure.
const (
	exitOK            = 0
	exitInvalidInput  = 1
	exitNumericalFail = 2
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "dtcc-builder",
	Short: "build terrain, footprint and volume meshes for urban CFD",
	Long: `dtcc-builder turns building footprints and a LiDAR point cloud into a
terrain-conforming ground mesh and a layered tetrahedral volume mesh,
suitable as a CFD domain.

Build settings are controlled by a YAML parameter file; see the 'config'
subcommand to scaffold one prefilled with defaults.`,
}

// Execute adds every child command to RootCmd and runs it. Called once from
// main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(exitInvalidInput)
	}
}
