// Package cli wires the commander-etl commands.
package cli

import (
	"context"
	"strings"

	"github.com/riskibarqy/commander-stats/internal/app"
	"github.com/riskibarqy/commander-stats/internal/config"
	"github.com/riskibarqy/commander-stats/internal/platform/logging"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

type options struct {
	cfg    config.Config
	logger *logging.Logger

	driver    string
	dbURL     string
	source    string
	threshold int
	logLevel  string

	// open builds the app for a command; tests replace it.
	open func(ctx context.Context, cfg config.Config, logger *logging.Logger, fn func(context.Context, *app.App) error) error
}

// NewRootCmd returns the commander-etl command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{open: app.Run})
}

func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "commander-etl",
		Short: "Reconcile Commander match records into a normalized schema",
		Long: `commander-etl loads a spreadsheet of Commander games into the players, commanders,
elimination methods, matches and performances tables.

Every command is idempotent: rerunning it over the same inputs adds nothing.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return opts.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.driver, "driver", "", "database driver: postgres or duckdb (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&opts.dbURL, "db-url", "", "database connection string or duckdb file (overrides DB_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides APP_LOG_LEVEL)")

	_ = rootCmd.RegisterFlagCompletionFunc("driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.DriverPostgres, config.DriverDuckDB}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newMigrateCommand(opts))
	rootCmd.AddCommand(newSeedCommand(opts))
	rootCmd.AddCommand(newRosterCommand(opts))
	rootCmd.AddCommand(newCatalogCommand(opts))
	rootCmd.AddCommand(newReconcileCommand(opts))
	rootCmd.AddCommand(newRunCommand(opts))

	return rootCmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context, args []string) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// setup loads the environment, applies flag overrides and builds the logger.
func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.DBDriver = strings.ToLower(strings.TrimSpace(o.driver))
	}
	if flags.Changed("db-url") {
		cfg.DBURL = strings.TrimSpace(o.dbURL)
	}
	if flags.Changed("source") {
		cfg.SourcePath = strings.TrimSpace(o.source)
	}
	if flags.Changed("threshold") {
		cfg.MatchThreshold = o.threshold
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = parseLevel(o.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = logging.New(cfg.LogLevel, cfg.LogFormat).With("service", cfg.ServiceName)
	logging.SetDefault(o.logger)
	return nil
}

func (o *options) run(cmd *cobra.Command, fn func(context.Context, *app.App) error) error {
	return o.open(cmd.Context(), o.cfg, o.logger, fn)
}

func parseLevel(raw string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
