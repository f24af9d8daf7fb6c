package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/termsite/internal/config"
	"github.com/oakwood-commons/termsite/internal/manifest"
	"github.com/oakwood-commons/termsite/pkg/core"
	"github.com/oakwood-commons/termsite/pkg/logger"
	"github.com/oakwood-commons/termsite/pkg/settings"
	"github.com/oakwood-commons/termsite/pkg/tui"
)

var (
	rootCtx = context.Background()
	params  = settings.NewCliParams()
	logFile io.Closer

	configFile string
	debug      bool
	mobile     bool
	startKeys  []string
	termWidth  int
	termHeight int
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName + " [manifest]",
	Short: "A fake Unix shell for browsing a content site from the terminal",
	Long: `termsite serves a small site as a fake shell: pages are files and
directories you explore with ls, cd and cat, and executables launch
full-screen programs. The manifest may be a local file, an http(s) URL,
or "-" to read an inline manifest from standard input.`,
	Example: "\n  termsite\n  termsite site/manifest.json\n  termsite https://example.com/manifest.json --mobile\n  termsite - < site.json\n  termsite --press 'ls ~<CR>'\n  termsite run -c 'cd About && cat .'\n",
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Map the debug flag to a zap level: -1 debug, 0 info.
		if debug {
			params.MinLogLevel = -1
		}
		params.Client = settings.ClientDesktop
		if mobile {
			params.Client = settings.ClientMobile
		}
		sink, err := logSink(cmd)
		if err != nil {
			return err
		}
		lgr := logger.Get(params.MinLogLevel, logger.WithSink(sink))
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		rootCtx = settings.IntoContext(logger.WithLogger(context.Background(), lgr), params)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		engine, err := loadEngine(rootCtx, cfg, args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		run := settings.FromContextOr(rootCtx, params)
		var opts []tea.ProgramOption
		if run.Manifest.FromStdin {
			tty, err := attachTTY()
			if err != nil {
				return err
			}
			defer func() { _ = tty.Close() }()
			opts = tty.programOptions(rootCtx)
		}
		return tui.Run(rootCtx, engine, terminalConfig(cfg, run), opts...)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// logSink picks where logs go. The interactive terminal owns the screen, so
// without --log-file its logs are discarded; subcommands log to stderr. An
// opened log file is kept in logFile until closeLogFile.
func logSink(cmd *cobra.Command) (io.Writer, error) {
	if params.LogFile != "" {
		f, err := os.OpenFile(params.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		closeLogFile()
		logFile = f
		return f, nil
	}
	if !cmd.HasParent() {
		return io.Discard, nil
	}
	return os.Stderr, nil
}

// closeLogFile flushes the logger and closes the --log-file handle, if any.
func closeLogFile() {
	if logFile == nil {
		return
	}
	logger.Sync()
	_ = logFile.Close()
	logFile = nil
}

func loadConfig() (config.Config, error) {
	return config.Load(config.ResolvePath(configFile))
}

// manifestSource returns the positional manifest, else the configured one.
// stdinSource is passed through for loadEngine to read.
func manifestSource(args []string, cfg config.Config) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0])
	}
	return cfg.Manifest.Source
}

// loadEngine builds the engine for the run parameters in ctx and loads the
// manifest, reading it from stdin when the source is stdinSource. The chosen
// source is recorded on the run parameters.
func loadEngine(ctx context.Context, cfg config.Config, args []string, stdin io.Reader) (*core.Engine, error) {
	run := settings.FromContextOr(ctx, params)
	engine, err := core.New(core.WithConfig(cfg), core.WithMobile(run.IsMobile()))
	if err != nil {
		return nil, err
	}
	source := manifestSource(args, cfg)
	run.Manifest.Source = source
	run.Manifest.FromURL = manifest.IsURL(source)
	run.Manifest.FromStdin = source == stdinSource
	if !run.Manifest.FromStdin {
		if err := engine.Load(ctx, source); err != nil {
			return nil, err
		}
		return engine, nil
	}
	data, err := readStdinManifest(stdin)
	if err != nil {
		return nil, err
	}
	// Nothing on stdin has a directory to resolve references against.
	if err := engine.LoadBytes(ctx, data); err != nil {
		return nil, fmt.Errorf("load manifest from stdin (only inline manifests are supported): %w", err)
	}
	return engine, nil
}

func terminalConfig(cfg config.Config, run *settings.Run) tui.Config {
	return tui.Config{
		Width:     termWidth,
		Height:    termHeight,
		NoColor:   run.NoColor,
		Mobile:    run.IsMobile(),
		StartKeys: startKeys,
		Settings:  &cfg,
	}
}

func init() { //nolint:gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configFile, "config-file", "", "path to a YAML config file (prompt, pacing, theme)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level")
	rootCmd.PersistentFlags().StringVar(&params.LogFile, "log-file", "", "append JSON logs to this file (the interactive terminal otherwise discards them)")
	rootCmd.PersistentFlags().BoolVar(&mobile, "mobile", false, "act as a touch client: hide executables and mobile-hidden pages")
	rootCmd.Flags().BoolVar(&params.NoColor, "no-color", false, "disable color output")
	rootCmd.Flags().StringArrayVar(&startKeys, "press", nil, "Simulate keys on startup. Use <Key> for special keys (e.g. <CR>, <Tab>, <F2>, <C-r>). Literal text types normally. Example: --press \"ls ~<CR>\"")
	rootCmd.Flags().IntVar(&termWidth, "width", 0, "terminal width in columns (default: detected)")
	rootCmd.Flags().IntVar(&termHeight, "height", 0, "terminal height in rows (default: detected)")
	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd, configCmd, runCmd, manifestCmd)
}

// Execute runs the root command and releases the log file it opened.
func Execute() error {
	defer closeLogFile()
	return rootCmd.Execute()
}
