package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giovastabile/dtcc-builder/config"
)

// configCmd scaffolds a build settings file prefilled with defaults.
var configCmd = &cobra.Command{
	Use:   "config FILE",
	Short: "create a build settings file",
	Long: `Create a build settings file in YAML format, prefilled with default values.

If FILE is not provided, 'dtcc-builder.yml' is used.`,
	Run: func(cmd *cobra.Command, args []string) {
		path := "dtcc-builder.yml"
		if len(args) >= 1 {
			path = args[0]
		}
		ok, err := confirmIfExists(path, fmt.Sprintf("file '%s' already exists, overwrite? [y/N]", path))
		if !ok {
			if err == nil {
				fmt.Println("aborted by user")
			} else {
				fmt.Println("aborted,", err)
			}
			return
		}
		if err := config.Save(path, config.Default()); err != nil {
			fmt.Println("error writing config:", err)
			return
		}
		fmt.Printf("build settings written to '%s'\n", path)
	},
}

func init() {
	RootCmd.AddCommand(configCmd)
}
