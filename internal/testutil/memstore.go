// SPDX-License-Identifier: AGPL-3.0-only
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/fluffyriot/hubsync/internal/database"
)

// MemStore is an in-memory database.Store. It enforces the same rules the
// Postgres schema does: fids are unique, dependent rows need a registered fid,
// duplicate rows are ignored, and a failed unit of work leaves nothing behind.
type MemStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	state memState
	runs  []database.SyncRun

	// FailRegister, when set, is returned by RegisterAccount.
	FailRegister error
	// FailInsert, when set, is consulted before every dependent insert.
	FailInsert func(table string, row any) error

	Commits   int
	Rollbacks int
}

type memState struct {
	fids          map[int64]time.Time
	casts         []database.InsertCastParams
	reactions     []database.InsertReactionParams
	verifications []database.InsertVerificationParams
	links         []database.InsertLinkParams
	userData      []database.InsertUserDataParams
}

func (s memState) clone() memState {
	return memState{
		fids:          maps.Clone(s.fids),
		casts:         slices.Clone(s.casts),
		reactions:     slices.Clone(s.reactions),
		verifications: slices.Clone(s.verifications),
		links:         slices.Clone(s.links),
		userData:      slices.Clone(s.userData),
	}
}

func NewMemStore() *MemStore {
	return &MemStore{
		state: memState{fids: make(map[int64]time.Time)},
	}
}

var _ database.Store = (*MemStore)(nil)

func (m *MemStore) ExecTx(ctx context.Context, fn func(tx database.TxQuerier) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := m.state.clone()
	m.mu.Unlock()

	if err := fn(memTx{m}); err != nil {
		m.mu.Lock()
		m.state = snapshot
		m.Rollbacks++
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	m.Commits++
	m.mu.Unlock()
	return nil
}

type memTx struct {
	*MemStore
}

func (t memTx) Try(ctx context.Context, fn func(q database.Querier) error) error {
	return fn(t.MemStore)
}

func (m *MemStore) checkInsert(table string, fid int64, row any) error {
	if m.FailInsert != nil {
		if err := m.FailInsert(table, row); err != nil {
			return err
		}
	}
	if _, ok := m.state.fids[fid]; !ok {
		return fmt.Errorf("insert on table %q violates foreign key constraint: fid %d not present", table, fid)
	}
	return nil
}

func (m *MemStore) RegisterAccount(ctx context.Context, fid int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRegister != nil {
		return m.FailRegister
	}
	if _, ok := m.state.fids[fid]; !ok {
		m.state.fids[fid] = time.Now().UTC()
	}
	return nil
}

func (m *MemStore) GetAccount(ctx context.Context, fid int64) (database.Fid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created, ok := m.state.fids[fid]
	if !ok {
		return database.Fid{}, sql.ErrNoRows
	}
	return database.Fid{Fid: fid, CreatedAt: created}, nil
}

func (m *MemStore) ListAccounts(ctx context.Context, limit int32) ([]database.Fid, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := slices.Sorted(maps.Keys(m.state.fids))
	var out []database.Fid
	for _, fid := range keys {
		if int32(len(out)) >= limit {
			break
		}
		out = append(out, database.Fid{Fid: fid, CreatedAt: m.state.fids[fid]})
	}
	return out, nil
}

func (m *MemStore) InsertCast(ctx context.Context, arg database.InsertCastParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkInsert("casts", arg.Fid, arg); err != nil {
		return 0, err
	}
	for _, c := range m.state.casts {
		if c.Fid == arg.Fid && c.Hash == arg.Hash {
			return 0, nil
		}
	}
	m.state.casts = append(m.state.casts, arg)
	return 1, nil
}

func (m *MemStore) InsertReaction(ctx context.Context, arg database.InsertReactionParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkInsert("reactions", arg.Fid, arg); err != nil {
		return 0, err
	}
	if slices.Contains(m.state.reactions, arg) {
		return 0, nil
	}
	m.state.reactions = append(m.state.reactions, arg)
	return 1, nil
}

func (m *MemStore) InsertVerification(ctx context.Context, arg database.InsertVerificationParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkInsert("verifications", arg.Fid, arg); err != nil {
		return 0, err
	}
	if slices.Contains(m.state.verifications, arg) {
		return 0, nil
	}
	m.state.verifications = append(m.state.verifications, arg)
	return 1, nil
}

func (m *MemStore) InsertLink(ctx context.Context, arg database.InsertLinkParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkInsert("links", arg.Fid, arg); err != nil {
		return 0, err
	}
	if slices.Contains(m.state.links, arg) {
		return 0, nil
	}
	m.state.links = append(m.state.links, arg)
	return 1, nil
}

func (m *MemStore) InsertUserData(ctx context.Context, arg database.InsertUserDataParams) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkInsert("user_data", arg.Fid, arg); err != nil {
		return 0, err
	}
	if slices.Contains(m.state.userData, arg) {
		return 0, nil
	}
	m.state.userData = append(m.state.userData, arg)
	return 1, nil
}

func (m *MemStore) ListRecentCasts(ctx context.Context, arg database.ListRecentCastsParams) ([]database.Cast, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []database.Cast
	for i, c := range m.state.casts {
		if c.Fid != arg.Fid {
			continue
		}
		out = append(out, database.Cast{
			ID: int64(i + 1), Fid: c.Fid, Hash: c.Hash, ParentHash: c.ParentHash,
			AuthorFid: c.AuthorFid, Text: c.Text, Timestamp: c.Timestamp,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return limitRows(out, arg.Limit), nil
}

func (m *MemStore) ListRecentReactions(ctx context.Context, arg database.ListRecentReactionsParams) ([]database.Reaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []database.Reaction
	for i, r := range m.state.reactions {
		if r.Fid != arg.Fid {
			continue
		}
		out = append(out, database.Reaction{
			ID: int64(i + 1), Fid: r.Fid, TargetFid: r.TargetFid, TargetHash: r.TargetHash,
			Type: r.Type, Timestamp: r.Timestamp,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return limitRows(out, arg.Limit), nil
}

func (m *MemStore) ListRecentVerifications(ctx context.Context, arg database.ListRecentVerificationsParams) ([]database.Verification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []database.Verification
	for i, v := range m.state.verifications {
		if v.Fid != arg.Fid {
			continue
		}
		out = append(out, database.Verification{
			ID: int64(i + 1), Fid: v.Fid, Address: v.Address, Timestamp: v.Timestamp,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return limitRows(out, arg.Limit), nil
}

func (m *MemStore) ListRecentLinks(ctx context.Context, arg database.ListRecentLinksParams) ([]database.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []database.Link
	for i, l := range m.state.links {
		if l.Fid != arg.Fid {
			continue
		}
		out = append(out, database.Link{
			ID: int64(i + 1), Fid: l.Fid, TargetFid: l.TargetFid, Type: l.Type, Timestamp: l.Timestamp,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return limitRows(out, arg.Limit), nil
}

func (m *MemStore) ListRecentUserData(ctx context.Context, arg database.ListRecentUserDataParams) ([]database.UserDatum, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []database.UserDatum
	for i, u := range m.state.userData {
		if u.Fid != arg.Fid {
			continue
		}
		out = append(out, database.UserDatum{
			ID: int64(i + 1), Fid: u.Fid, Type: u.Type, Value: u.Value, Timestamp: u.Timestamp,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return limitRows(out, arg.Limit), nil
}

func limitRows[T any](rows []T, limit int32) []T {
	if limit >= 0 && int(limit) < len(rows) {
		return rows[:limit]
	}
	return rows
}

func (m *MemStore) CountAccountRows(ctx context.Context, fid int64) (database.CountAccountRowsRow, error) {
	c := m.Counts(fid)
	return database.CountAccountRowsRow{
		Casts:         int64(c["casts"]),
		Reactions:     int64(c["reactions"]),
		Verifications: int64(c["verifications"]),
		Links:         int64(c["links"]),
		UserData:      int64(c["user_data"]),
	}, nil
}

func (m *MemStore) CountTableRows(ctx context.Context) (database.CountTableRowsRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return database.CountTableRowsRow{
		Fids:          int64(len(m.state.fids)),
		Casts:         int64(len(m.state.casts)),
		Reactions:     int64(len(m.state.reactions)),
		Verifications: int64(len(m.state.verifications)),
		Links:         int64(len(m.state.links)),
		UserData:      int64(len(m.state.userData)),
	}, nil
}

func (m *MemStore) CreateSyncRun(ctx context.Context, arg database.CreateSyncRunParams) (database.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run := database.SyncRun{
		ID:         arg.ID,
		Fid:        arg.Fid,
		Status:     arg.Status,
		StartedAt:  arg.StartedAt,
		FinishedAt: arg.FinishedAt,
		Details:    arg.Details,
		Error:      arg.Error,
	}
	m.runs = append(m.runs, run)
	return run, nil
}

func (m *MemStore) GetLatestSyncRun(ctx context.Context, fid int64) (database.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.runs) - 1; i >= 0; i-- {
		if m.runs[i].Fid == fid {
			return m.runs[i], nil
		}
	}
	return database.SyncRun{}, sql.ErrNoRows
}

// Counts returns the number of stored rows per table for fid.
func (m *MemStore) Counts(fid int64) map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int{}
	if _, ok := m.state.fids[fid]; ok {
		counts["fids"] = 1
	}
	for _, c := range m.state.casts {
		if c.Fid == fid {
			counts["casts"]++
		}
	}
	for _, r := range m.state.reactions {
		if r.Fid == fid {
			counts["reactions"]++
		}
	}
	for _, v := range m.state.verifications {
		if v.Fid == fid {
			counts["verifications"]++
		}
	}
	for _, l := range m.state.links {
		if l.Fid == fid {
			counts["links"]++
		}
	}
	for _, u := range m.state.userData {
		if u.Fid == fid {
			counts["user_data"]++
		}
	}
	return counts
}

func (m *MemStore) HasAccount(fid int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.state.fids[fid]
	return ok
}

func (m *MemStore) CastHashes(fid int64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, c := range m.state.casts {
		if c.Fid == fid {
			out = append(out, c.Hash)
		}
	}
	sort.Strings(out)
	return out
}

func (m *MemStore) Reactions(fid int64) []database.InsertReactionParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []database.InsertReactionParams
	for _, r := range m.state.reactions {
		if r.Fid == fid {
			out = append(out, r)
		}
	}
	return out
}

func (m *MemStore) SyncRuns() []database.SyncRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.runs)
}
