package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/giovastabile/dtcc-builder/buildctx"
	"github.com/giovastabile/dtcc-builder/config"
	"github.com/giovastabile/dtcc-builder/report"
)

// confirmIfExists checks that path exists and, if so, asks the user to
// confirm overwriting it.
func confirmIfExists(path, msg string) (ok bool, err error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return askForConfirmation(msg), nil
}

func askForConfirmation(msg string) bool {
	fmt.Println(msg)
	reader := bufio.NewReader(os.Stdin)
	for {
		input, _ := reader.ReadString('\n')
		if len(input) == 0 {
			return false
		}
		switch input[0] {
		case 'Y', 'y':
			return true
		case 'N', 'n', '\n':
			return false
		}
	}
}

// loadConfig loads the YAML settings file at path, exiting with
// exitInvalidInput on failure.
func loadConfig(path string) config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading %s: %v\n", path, err)
		os.Exit(exitInvalidInput)
	}
	return cfg
}

// exitForError maps a stage error to an exit code: InvalidInput (and
// any error that isn't a *report.Error) maps to 1, every other kind -
// fundamentally a numerical failure - maps to 2.
func exitForError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	if rerr, ok := err.(*report.Error); ok && rerr.Kind != report.InvalidInput {
		os.Exit(exitNumericalFail)
	}
	os.Exit(exitInvalidInput)
}

// reportWarnings prints every warning in b to stderr, one per line.
func reportWarnings(b *report.Bundle) {
	if b.Empty() {
		return
	}
	for _, w := range b.Warnings {
		fmt.Fprintln(os.Stderr, w.String())
	}
}

// newContext returns a buildctx.Context logging through the standard
// library logger, matching every subcommand's default verbosity.
func newContext() *buildctx.Context {
	return buildctx.New(nil)
}
