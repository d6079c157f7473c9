// SPDX-License-Identifier: AGPL-3.0-only

// Package syncer copies one account's hub data into the store as a single
// unit of work.
package syncer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fluffyriot/hubsync/internal/database"
	"github.com/google/uuid"
)

// ErrRegistration means the account row could not be written, so nothing
// else for that account was attempted.
var ErrRegistration = errors.New("account registration failed")

type Status string

const (
	StatusDone    Status = "done"
	StatusAborted Status = "aborted"
)

type AccountSyncResult struct {
	RunID      uuid.UUID           `json:"run_id"`
	Fid        int64               `json:"fid"`
	Status     Status              `json:"status"`
	PerEntity  map[Kind]SyncReport `json:"per_entity"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	Err        string              `json:"error,omitempty"`
}

type Syncer struct {
	store    database.Store
	pager    Pager
	entities []synchronizer
}

func New(store database.Store, pager Pager) *Syncer {
	return &Syncer{
		store:    store,
		pager:    pager,
		entities: defaultEntities(),
	}
}

// SyncAccount registers fid and syncs every entity type inside one
// transaction. Entity failures are recorded and do not stop siblings; a
// registration failure, a lost connection or cancellation aborts the whole
// account and nothing is committed. The error is non-nil exactly when the
// result is aborted.
func (s *Syncer) SyncAccount(ctx context.Context, fid int64) (AccountSyncResult, error) {
	res := AccountSyncResult{
		RunID:     uuid.New(),
		Fid:       fid,
		PerEntity: make(map[Kind]SyncReport, len(s.entities)),
		StartedAt: time.Now().UTC(),
	}

	log.Printf("Sync: Starting account %d", fid)

	err := s.store.ExecTx(ctx, func(tx database.TxQuerier) error {
		if err := tx.RegisterAccount(ctx, fid); err != nil {
			return fmt.Errorf("%w: fid %d: %w", ErrRegistration, fid, err)
		}

		for _, e := range s.entities {
			if err := ctx.Err(); err != nil {
				return err
			}

			report, err := s.runEntity(ctx, tx, e, fid)
			res.PerEntity[e.Kind()] = report
			if err != nil {
				return err
			}
		}
		return nil
	})

	res.FinishedAt = time.Now().UTC()

	if err != nil {
		res.Status = StatusAborted
		res.Err = err.Error()
		log.Printf("Sync: Account %d aborted: %v", fid, err)
	} else {
		res.Status = StatusDone
		for _, kind := range Kinds {
			r, ok := res.PerEntity[kind]
			if !ok {
				continue
			}
			log.Printf("Sync: Account %d %s: observed=%d inserted=%d skipped=%d errors=%d failed=%t",
				fid, kind, r.Count, r.Inserted, r.Skipped, r.Errors, r.Failed)
		}
		log.Printf("Sync: Account %d done in %s", fid, res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond))
	}

	s.recordRun(ctx, res)

	if err != nil {
		return res, err
	}
	return res, nil
}

func (s *Syncer) runEntity(ctx context.Context, tx database.TxQuerier, e synchronizer, fid int64) (report SyncReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Sync: Panic in %s sync (fid=%d): %v", e.Kind(), fid, r)
			report = SyncReport{Kind: e.Kind(), Failed: true, Err: fmt.Sprintf("panic: %v", r)}
			err = nil
		}
	}()

	return e.sync(ctx, s.pager, tx, fid)
}

// recordRun appends the outcome to sync_runs. It runs after the unit of work
// so aborted accounts are recorded too.
func (s *Syncer) recordRun(ctx context.Context, res AccountSyncResult) {
	details, err := json.Marshal(res.PerEntity)
	if err != nil {
		log.Printf("Sync: Error encoding run details for fid=%d: %v", res.Fid, err)
		details = []byte("{}")
	}

	var runErr sql.NullString
	if res.Err != "" {
		runErr = sql.NullString{String: res.Err, Valid: true}
	}

	_, err = s.store.CreateSyncRun(context.WithoutCancel(ctx), database.CreateSyncRunParams{
		ID:         res.RunID,
		Fid:        res.Fid,
		Status:     string(res.Status),
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		Details:    details,
		Error:      runErr,
	})
	if err != nil {
		log.Printf("Sync: Error recording sync run for fid=%d: %v", res.Fid, err)
	}
}
