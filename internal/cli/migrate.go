// SPDX-License-Identifier: AGPL-3.0-only
package cli

import (
	"fmt"

	"github.com/fluffyriot/hubsync/internal/config"
	"github.com/spf13/cobra"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and print the schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			db, err := config.OpenDatabase(ctx, cfg)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to open database", err)
			}
			defer db.Close()

			version, err := config.Migrate(db, cfg.MigrationsDir)
			if err != nil {
				return WrapExitError(ExitCommandError, "migration failed", err)
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]int64{"version": version})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Current DB version: %d\n", version)
			return nil
		},
	}
}
