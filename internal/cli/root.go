// SPDX-License-Identifier: AGPL-3.0-only
package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/fluffyriot/hubsync/internal/config"
	"github.com/fluffyriot/hubsync/internal/fetcher"
	"github.com/spf13/cobra"
)

type RootOptions struct {
	Format string // "text" | "json"

	logCloser io.Closer
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hubsync",
		Short: "Copy Farcaster hub data into PostgreSQL",
		Long: `hubsync discovers Farcaster accounts on a hub and copies their casts,
reactions, verifications, follows and profile fields into PostgreSQL.

Configuration is read from the environment (see POSTGRES_*, HUB_*,
DISCOVERY_*, SYNC_* and LOG_* variables).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logCloser != nil {
				_ = opts.logCloser.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewDiscoverCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

// loadConfig reads the environment and starts file logging if configured.
func (o *RootOptions) loadConfig() (*config.AppConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	o.logCloser = config.SetupLogging(cfg.Log)
	return cfg, nil
}

func newHubClient(cfg *config.AppConfig) *fetcher.Client {
	return fetcher.NewClient(
		cfg.Hub.BaseURL,
		cfg.Hub.Timeout,
		fetcher.WithAPIKey(cfg.Hub.APIKey),
		fetcher.WithPageSize(cfg.Hub.PageSize),
		fetcher.WithMaxPages(cfg.Hub.MaxPages),
		fetcher.WithRetries(cfg.Hub.MaxRetries),
	)
}
