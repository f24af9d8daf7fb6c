package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/termsite/pkg/logger"
)

var runLine string

// runCmd executes a command line without the interactive terminal.
var runCmd = &cobra.Command{
	Use:   "run [manifest] -c <line>",
	Short: "Run a command line and print its output",
	Long: `Run one command line ("&&" chains included) in a fresh session and
print the output without animation. Executables need the interactive
terminal and report so instead of launching.`,
	Example: "  termsite run -c 'ls ~'\n  termsite run site/manifest.json -c 'cd About && cat .'\n  termsite run - -c 'ls ~' < site.json\n",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(runLine) == "" {
			return errors.New("run: -c <line> is required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		engine, err := loadEngine(rootCtx, cfg, args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		logger.FromContext(rootCtx).V(1).Info("running line", logger.CommandKey, runLine)
		return engine.Execute(rootCtx, cmd.OutOrStdout(), runLine)
	},
}

func init() { //nolint:gochecknoinits
	runCmd.Flags().StringVarP(&runLine, "command", "c", "", "command line to run")
}
