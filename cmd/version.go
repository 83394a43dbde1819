package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Actual version can be specified in build command.
var version = "unknown"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the genai SDK it was built with",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(versionLine())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func versionLine() string {
	return fmt.Sprintf("%s version: %s (genai %s, %s)", app, version, sdkVersion(), runtime.Version())
}

// sdkVersion reports the linked google.golang.org/genai module version.
func sdkVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path == "google.golang.org/genai" {
			return dep.Version
		}
	}
	return "unknown"
}
