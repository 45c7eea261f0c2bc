package cli

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commander-stats/internal/app"
	"github.com/riskibarqy/commander-stats/internal/infrastructure/spreadsheet"
	"github.com/riskibarqy/commander-stats/internal/usecase"
	"github.com/spf13/cobra"
)

type reconcileFlags struct {
	dryRun bool
	output string
}

func newReconcileCommand(opts *options) *cobra.Command {
	var flags reconcileFlags

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Load the match register into the fact tables",
		Long: `reconcile reads the roster and the match register, resolves commander names against
the catalog and inserts the matches and performances that are not stored yet.

The commander catalog must be populated first (see "catalog sync").`,
		Example: `  commander-etl reconcile --source historico.xlsx
  commander-etl reconcile --source ./sheets --threshold 90 --dry-run
  commander-etl reconcile --source historico.xlsx -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app.App) error {
				return reconcile(ctx, cmd, a, opts, flags)
			})
		},
	}

	addSourceFlag(cmd, opts)
	addReconcileFlags(cmd, opts, &flags)
	return cmd
}

func newRunCommand(opts *options) *cobra.Command {
	var (
		flags       reconcileFlags
		skipCatalog bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Migrate, seed, sync the catalog and reconcile in one go",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app.App) error {
				m, err := a.Migrator()
				if err != nil {
					return err
				}
				_, upErr := m.Up(ctx)
				if err := errors.CombineErrors(upErr, m.Close()); err != nil {
					return errors.Wrap(err, "apply migrations")
				}

				if _, err := a.Seed.SeedEliminationMethods(ctx); err != nil {
					return err
				}
				if !skipCatalog {
					if _, err := a.Catalog.Sync(ctx); err != nil {
						return err
					}
				}
				return reconcile(ctx, cmd, a, opts, flags)
			})
		},
	}

	addSourceFlag(cmd, opts)
	addReconcileFlags(cmd, opts, &flags)
	cmd.Flags().BoolVar(&skipCatalog, "skip-catalog", false, "reuse the stored catalog instead of fetching it")
	return cmd
}

func addSourceFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.source, "source", "", "path to the .xlsx workbook or a directory of <sheet>.csv files (overrides SOURCE_PATH)")
}

func addReconcileFlags(cmd *cobra.Command, opts *options, flags *reconcileFlags) {
	cmd.Flags().IntVar(&opts.threshold, "threshold", 0, "minimum similarity score (1-100) to accept a commander match (overrides MATCH_THRESHOLD)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "plan the load and print the report without writing")
	cmd.Flags().StringVarP(&flags.output, "output", "o", outputTable, "report format: table or json")
	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{outputTable, outputJSON}, cobra.ShellCompDirectiveNoFileComp
	})
}

func reconcile(ctx context.Context, cmd *cobra.Command, a *app.App, opts *options, flags reconcileFlags) error {
	source, err := openSource(a, opts.cfg.SourcePath)
	if err != nil {
		return err
	}
	defer source.Close()

	report, err := a.Reconciler(opts.cfg.MatchThreshold, flags.dryRun).Run(ctx, source)
	if err != nil {
		return err
	}
	return renderReport(cmd.OutOrStdout(), report, flags.output)
}

func openSource(a *app.App, path string) (*spreadsheet.Workbook, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.Mark(errors.New("a source workbook is required (--source or SOURCE_PATH)"), usecase.ErrInvalidInput)
	}
	source, err := a.OpenSource(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "open source %s", path), usecase.ErrInvalidInput)
	}
	return source, nil
}
