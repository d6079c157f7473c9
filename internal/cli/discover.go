// SPDX-License-Identifier: AGPL-3.0-only
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewDiscoverCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List FIDs found on the hub without syncing them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			applyOverrides(cmd, cfg, opts)

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			fids := newHubClient(cfg).DiscoverFids(ctx, cfg.Discovery.Shards, cfg.Discovery.Target, cfg.Discovery.PageSize)

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(out, fids)
			}
			for _, fid := range fids {
				fmt.Fprintln(out, fid)
			}
			return nil
		},
	}

	addDiscoveryFlags(cmd, &opts.Target, &opts.Shards)

	return cmd
}
