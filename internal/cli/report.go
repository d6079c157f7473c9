// SPDX-License-Identifier: AGPL-3.0-only
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fluffyriot/hubsync/internal/config"
	"github.com/fluffyriot/hubsync/internal/database"
	"github.com/fluffyriot/hubsync/internal/stats"
	"github.com/spf13/cobra"
)

type ReportOptions struct {
	*RootOptions
	Limit int
}

func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report [fid]",
		Short: "Show what has been synced",
		Long: `Show per-table totals, the first accounts, and the newest rows of one
account. Without a FID argument the first listed account is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fid int64
			if len(args) == 1 {
				fids, err := parseFids(args)
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid arguments", err)
				}
				fid = fids[0]
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			db, err := config.LoadDatabase(ctx, cfg)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load database", err)
			}
			defer db.Close()

			return runReport(ctx, cmd.OutOrStdout(), database.New(db), opts, fid)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 5, "rows shown per table")

	return cmd
}

type report struct {
	Tables   stats.TableCounts     `json:"tables"`
	Accounts []stats.AccountView   `json:"accounts"`
	Account  *stats.AccountSummary `json:"account,omitempty"`
}

func runReport(ctx context.Context, out io.Writer, q database.Querier, opts *ReportOptions, fid int64) error {
	limit := max(opts.Limit, 1)

	counts, err := stats.GetTableCounts(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}

	accounts, err := stats.ListAccounts(ctx, q, limit)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	r := report{Tables: counts, Accounts: accounts}

	if fid == 0 && len(accounts) > 0 {
		fid = accounts[0].Fid
	}
	if fid != 0 {
		summary, err := stats.GetAccountSummary(ctx, q, fid, limit)
		if err != nil {
			if errors.Is(err, stats.ErrAccountNotFound) {
				return WrapExitError(ExitFailure, "nothing to report", err)
			}
			return fmt.Errorf("failed to load account %d: %w", fid, err)
		}
		r.Account = &summary
	}

	if opts.Format == "json" {
		return writeJSON(out, r)
	}

	fmt.Fprintln(out, stats.RenderTableCounts(r.Tables))
	fmt.Fprintln(out, stats.RenderAccounts(r.Accounts))
	if r.Account != nil {
		fmt.Fprint(out, stats.RenderAccountSummary(*r.Account))
	}
	return nil
}
