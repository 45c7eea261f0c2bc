package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commander-stats/internal/app"
	"github.com/riskibarqy/commander-stats/internal/infrastructure/repository/sqlstore"
	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, opts, func(ctx context.Context, m *sqlstore.Migrator) error {
				changed, err := m.Up(ctx)
				if err != nil {
					return errors.Wrap(err, "apply migrations")
				}
				if !changed {
					fmt.Fprintln(cmd.OutOrStdout(), "schema already up to date")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (postgres only, default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}
			return withMigrator(cmd, opts, func(_ context.Context, m *sqlstore.Migrator) error {
				if err := m.Down(steps); err != nil {
					return errors.Wrapf(err, "roll back %d migration(s)", steps)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version (postgres only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, opts, func(_ context.Context, m *sqlstore.Migrator) error {
				version, dirty, ok, err := m.Version()
				if err != nil {
					return errors.Wrap(err, "read version")
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "version: none")
					fmt.Fprintln(cmd.OutOrStdout(), "dirty: false")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "dirty: %t\n", dirty)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations (postgres only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			return withMigrator(cmd, opts, func(_ context.Context, m *sqlstore.Migrator) error {
				if err := m.Force(version); err != nil {
					return errors.Wrapf(err, "force version %d", version)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "forced version to %d\n", version)
				return nil
			})
		},
	})

	return cmd
}

func withMigrator(cmd *cobra.Command, opts *options, fn func(context.Context, *sqlstore.Migrator) error) error {
	return opts.run(cmd, func(ctx context.Context, a *app.App) (err error) {
		m, err := a.Migrator()
		if err != nil {
			return err
		}
		defer func() {
			err = errors.CombineErrors(err, m.Close())
		}()
		return fn(ctx, m)
	})
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid down steps %q", args[0])
	}
	if steps <= 0 {
		return 0, errors.New("down steps must be > 0")
	}

	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid version %q", raw)
	}
	if value < 0 {
		return 0, errors.New("version must be >= 0")
	}
	return value, nil
}
