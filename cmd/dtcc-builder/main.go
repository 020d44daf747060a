// Command dtcc-builder drives the city/mesh/volume-mesh pipeline from the
// command line.
package main

import "github.com/giovastabile/dtcc-builder/cmd/dtcc-builder/cmd"

func main() {
	cmd.Execute()
}
