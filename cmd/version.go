package cmd

import (
	"fmt"
	"runtime"
	rdebug "runtime/debug"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/termsite/pkg/settings"
)

// cliVersionString builds the version line for `termsite version` and --version.
func cliVersionString() string {
	info := settings.VersionInformation
	goVersion := runtime.Version()
	if bi, ok := rdebug.ReadBuildInfo(); ok && bi.GoVersion != "" {
		goVersion = bi.GoVersion
	}
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)",
		settings.CliBinaryName, info.BuildVersion, info.Commit, info.BuildTime, goVersion)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print termsite version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return err
	},
}
