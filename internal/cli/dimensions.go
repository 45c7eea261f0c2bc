package cli

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/commander-stats/internal/app"
	"github.com/spf13/cobra"
)

func newSeedCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the static elimination methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app.App) error {
				inserted, err := a.Seed.SeedEliminationMethods(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "elimination methods inserted: %d\n", inserted)
				return nil
			})
		},
	}
}

func newRosterCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Register the players listed on the roster sheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app.App) error {
				source, err := openSource(a, opts.cfg.SourcePath)
				if err != nil {
					return err
				}
				defer source.Close()

				names, err := source.Roster(ctx)
				if err != nil {
					return errors.Wrap(err, "read roster")
				}
				index, err := a.Roster.Ensure(ctx, names)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "players registered: %d\n", len(index))
				return nil
			})
		},
	}
	addSourceFlag(cmd, opts)
	return cmd
}

func newCatalogCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the commander catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Fetch every legal commander from Scryfall and insert the missing ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app.App) error {
				result, err := a.Catalog.Sync(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cards fetched: %d, invalid: %d, inserted: %d\n",
					result.Fetched, result.Invalid, result.Inserted)
				return nil
			})
		},
	})

	return cmd
}
