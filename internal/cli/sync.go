// SPDX-License-Identifier: AGPL-3.0-only
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/fluffyriot/hubsync/internal/config"
	"github.com/fluffyriot/hubsync/internal/database"
	"github.com/fluffyriot/hubsync/internal/syncer"
	"github.com/fluffyriot/hubsync/internal/worker"
	"github.com/spf13/cobra"
)

type SyncOptions struct {
	*RootOptions
	Workers int
	Delay   time.Duration
	Target  int
	Shards  []int
}

func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync [fid...]",
		Short: "Sync accounts from the hub into PostgreSQL",
		Long: `Sync accounts from the hub into PostgreSQL.

Without arguments the accounts are discovered from the hub's shards first.
With FID arguments only those accounts are synced.

Example:
  hubsync sync
  hubsync sync --workers 4 --delay 500ms
  hubsync sync 3 194 6546`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fids, err := parseFids(args)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid arguments", err)
			}
			return runSync(cmd, opts, fids)
		},
	}

	cmd.Flags().IntVar(&opts.Workers, "workers", 1, "accounts synced in parallel (overrides SYNC_WORKERS)")
	cmd.Flags().DurationVar(&opts.Delay, "delay", time.Second, "minimum delay between account starts (overrides SYNC_ACCOUNT_DELAY)")
	addDiscoveryFlags(cmd, &opts.Target, &opts.Shards)

	return cmd
}

func addDiscoveryFlags(cmd *cobra.Command, target *int, shards *[]int) {
	cmd.Flags().IntVar(target, "target", 100, "number of FIDs to discover (overrides DISCOVERY_TARGET)")
	cmd.Flags().IntSliceVar(shards, "shards", []int{1, 2}, "shards to enumerate, in order (overrides DISCOVERY_SHARDS)")
}

// applyOverrides copies explicitly set flags over the environment config.
func applyOverrides(cmd *cobra.Command, cfg *config.AppConfig, opts *SyncOptions) {
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Sync.Workers = max(opts.Workers, 1)
	}
	if flags.Changed("delay") {
		cfg.Sync.AccountDelay = opts.Delay
	}
	if flags.Changed("target") {
		cfg.Discovery.Target = opts.Target
	}
	if flags.Changed("shards") {
		cfg.Discovery.Shards = opts.Shards
	}
}

func parseFids(args []string) ([]int64, error) {
	fids := make([]int64, 0, len(args))
	for _, arg := range args {
		fid, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || fid <= 0 {
			return nil, fmt.Errorf("fid %q must be a positive integer", arg)
		}
		fids = append(fids, fid)
	}
	return fids, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runSync(cmd *cobra.Command, opts *SyncOptions, fids []int64) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg, opts)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	db, err := config.LoadDatabase(ctx, cfg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load database", err)
	}
	defer db.Close()

	client := newHubClient(cfg)
	s := syncer.New(database.NewStore(db), client)

	var summary worker.RunSummary
	if len(fids) > 0 {
		summary = worker.SyncAccounts(ctx, s, fids, worker.Options{
			Workers: cfg.Sync.Workers,
			Delay:   cfg.Sync.AccountDelay,
		})
	} else {
		summary = worker.RunSync(ctx, client, s, cfg)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		if err := writeJSON(out, summary); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, renderRunSummary(summary))
		failed := make([]int64, 0, len(summary.Failures))
		for fid := range summary.Failures {
			failed = append(failed, fid)
		}
		sort.Slice(failed, func(i, j int) bool { return failed[i] < failed[j] })
		for _, fid := range failed {
			fmt.Fprintf(out, "aborted fid %d: %s\n", fid, summary.Failures[fid])
		}
	}

	if summary.Aborted > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d accounts aborted", summary.Aborted, summary.Accounts))
	}
	return nil
}
