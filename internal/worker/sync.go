// SPDX-License-Identifier: AGPL-3.0-only
package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fluffyriot/hubsync/internal/config"
	"github.com/fluffyriot/hubsync/internal/syncer"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type AccountSyncer interface {
	SyncAccount(ctx context.Context, fid int64) (syncer.AccountSyncResult, error)
}

type Discoverer interface {
	DiscoverFids(ctx context.Context, shards []int, target, pageSize int) []int64
}

type Options struct {
	Workers int
	Delay   time.Duration
}

// RunSummary aggregates one batch of accounts.
type RunSummary struct {
	Accounts int                   `json:"accounts"`
	Done     int                   `json:"done"`
	Aborted  int                   `json:"aborted"`
	Observed map[syncer.Kind]int   `json:"observed"`
	Inserted map[syncer.Kind]int64 `json:"inserted"`
	Failures map[int64]string      `json:"failures,omitempty"`
	Started  time.Time             `json:"started_at"`
	Finished time.Time             `json:"finished_at"`
}

func newRunSummary() RunSummary {
	return RunSummary{
		Observed: make(map[syncer.Kind]int),
		Inserted: make(map[syncer.Kind]int64),
		Failures: make(map[int64]string),
		Started:  time.Now().UTC(),
	}
}

func (s *RunSummary) add(fid int64, res syncer.AccountSyncResult, err error) {
	s.Accounts++
	if err != nil {
		s.Aborted++
		s.Failures[fid] = err.Error()
		return
	}
	s.Done++
	for kind, report := range res.PerEntity {
		s.Observed[kind] += report.Count
		s.Inserted[kind] += report.Inserted
	}
}

// SyncAccounts runs s over fids, at most opts.Workers at a time. Starts are
// spaced at least opts.Delay apart, and a worker slot stays idle for
// opts.Delay after its account finishes, so the hub sees a real pause between
// accounts however long each one takes. A failing or panicking account is
// logged and the batch moves on. Cancelling ctx stops new accounts from
// starting; accounts already running finish or roll back on their own.
func SyncAccounts(ctx context.Context, s AccountSyncer, fids []int64, opts Options) RunSummary {
	summary := newRunSummary()

	workers := max(opts.Workers, 1)
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Delay), 1)
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(workers)

	for i, fid := range fids {
		if err := limiter.Wait(ctx); err != nil {
			log.Printf("Worker: Stopping before fid=%d, %d accounts not started: %v", fid, len(fids)-i, err)
			break
		}

		last := i == len(fids)-1
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			res, err := syncOne(ctx, s, fid)
			mu.Lock()
			summary.add(fid, res, err)
			mu.Unlock()

			if !last {
				pause(ctx, opts.Delay)
			}
			return nil
		})
	}

	_ = g.Wait()
	summary.Finished = time.Now().UTC()
	return summary
}

// pause holds the caller for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func syncOne(ctx context.Context, s AccountSyncer, fid int64) (res syncer.AccountSyncResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Worker Panic in account sync (fid=%d): %v", fid, r)
			err = fmt.Errorf("panic: %v", r)
			res = syncer.AccountSyncResult{Fid: fid, Status: syncer.StatusAborted, Err: err.Error()}
		}
	}()

	res, err = s.SyncAccount(ctx, fid)
	if err != nil {
		log.Printf("Worker Account sync FAILED (fid=%d): %v", fid, err)
	}
	return res, err
}

// RunSync discovers accounts and syncs them.
func RunSync(ctx context.Context, d Discoverer, s AccountSyncer, cfg *config.AppConfig) RunSummary {
	log.Println("Worker: Starting sync...")

	fids := d.DiscoverFids(ctx, cfg.Discovery.Shards, cfg.Discovery.Target, cfg.Discovery.PageSize)
	if len(fids) == 0 {
		log.Println("Worker: No FIDs discovered, nothing to sync")
		summary := newRunSummary()
		summary.Finished = summary.Started
		return summary
	}

	summary := SyncAccounts(ctx, s, fids, Options{
		Workers: cfg.Sync.Workers,
		Delay:   cfg.Sync.AccountDelay,
	})

	log.Printf(
		"Worker: Completed sync for %d accounts (%d done, %d aborted)",
		summary.Accounts,
		summary.Done,
		summary.Aborted,
	)
	return summary
}
