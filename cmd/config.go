package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/termsite/internal/config"
)

var configDefaults bool

// configCmd prints the configuration the terminal would run with.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the merged configuration as YAML",
	Long: `Print the embedded defaults overlaid with the user config file
(--config-file, else $XDG_CONFIG_HOME/termsite/config.yaml). A user file
only needs the keys it changes; start from 'termsite config --defaults'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configDefaults {
			_, err := cmd.OutOrStdout().Write(config.DefaultConfigYAML())
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out, err := cfg.Marshal()
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use (empty when only defaults apply)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), config.ResolvePath(configFile))
		return err
	},
}

func init() { //nolint:gochecknoinits
	configCmd.Flags().BoolVar(&configDefaults, "defaults", false, "print the embedded default config (with comments) instead")
	configCmd.AddCommand(configPathCmd)
}
