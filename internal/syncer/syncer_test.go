// SPDX-License-Identifier: AGPL-3.0-only
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fluffyriot/hubsync/internal/database"
	"github.com/fluffyriot/hubsync/internal/fetcher"
	"github.com/fluffyriot/hubsync/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncer(t *testing.T, hub *testutil.Hub, store *testutil.MemStore) *Syncer {
	t.Helper()
	client := fetcher.NewClient(hub.Start(t), time.Second, fetcher.WithRetries(0))
	return New(store, client)
}

// seedAccount scripts one page for every entity type of fid.
func seedAccount(hub *testutil.Hub, fid int64) {
	hub.SetPages(fetcher.EndpointCasts, fid, "",
		[]any{testutil.CastMessage("0xc1", fid, "hello", 10)},
	)
	hub.SetPages(fetcher.EndpointReactions, fid, "Like",
		[]any{testutil.ReactionMessage("REACTION_TYPE_LIKE", 3, "0xt1", 11)},
	)
	hub.SetPages(fetcher.EndpointVerifications, fid, "",
		[]any{testutil.VerificationMessage("0xaddr", 12)},
	)
	hub.SetPages(fetcher.EndpointLinks, fid, "",
		[]any{testutil.LinkMessage(5, 13)},
	)
	hub.SetPages(fetcher.EndpointUserData, fid, "USER_DATA_TYPE_BIO",
		[]any{testutil.UserDataMessage("USER_DATA_TYPE_BIO", "gm", 14)},
	)
}

func TestSyncAccountStoresCastPages(t *testing.T) {
	hub := testutil.NewHub()
	hub.SetPages(fetcher.EndpointCasts, 42, "",
		[]any{testutil.CastMessage("0x1", 42, "a", 1), testutil.CastMessage("0x2", 42, "b", 2)},
		[]any{testutil.CastMessage("0x3", 42, "c", 3), testutil.CastMessage("0x4", 42, "d", 4)},
		[]any{},
	)
	store := testutil.NewMemStore()

	res, err := newSyncer(t, hub, store).SyncAccount(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, StatusDone, res.Status)
	assert.Equal(t, []string{"0x1", "0x2", "0x3", "0x4"}, store.CastHashes(42))

	posts := res.PerEntity[KindPosts]
	assert.Equal(t, 4, posts.Count)
	assert.EqualValues(t, 4, posts.Inserted)
	assert.False(t, posts.Failed)
	assert.Len(t, res.PerEntity, len(Kinds))
}

func TestSyncAccountReactionDimensionFailure(t *testing.T) {
	hub := testutil.NewHub()
	hub.SetPages(fetcher.EndpointReactions, 42, "Like",
		[]any{
			testutil.ReactionMessage("REACTION_TYPE_LIKE", 1, "0xa", 1),
			testutil.ReactionMessage("REACTION_TYPE_LIKE", 1, "0xb", 2),
		},
		[]any{testutil.ReactionMessage("REACTION_TYPE_LIKE", 1, "0xc", 3)},
	)
	hub.FailAt(fetcher.EndpointReactions, 42, "Like", 1)
	hub.SetPages(fetcher.EndpointReactions, 42, "Recast",
		[]any{testutil.ReactionMessage("REACTION_TYPE_RECAST", 2, "0xd", 4)},
	)
	hub.SetPages(fetcher.EndpointReactions, 42, "None",
		[]any{testutil.ReactionMessage("REACTION_TYPE_NONE", 3, "0xe", 5)},
	)
	store := testutil.NewMemStore()

	res, err := newSyncer(t, hub, store).SyncAccount(context.Background(), 42)
	require.NoError(t, err)

	var hashes []string
	for _, r := range store.Reactions(42) {
		hashes = append(hashes, r.TargetHash.String)
	}
	assert.ElementsMatch(t, []string{"0xa", "0xb", "0xd", "0xe"}, hashes)

	report := res.PerEntity[KindReactions]
	assert.Equal(t, 4, report.Count)
	assert.False(t, report.Failed, "a failure after the first page is partial, not total")
	assert.NotEmpty(t, report.Err)
}

func TestSyncAccountIsIdempotent(t *testing.T) {
	hub := testutil.NewHub()
	seedAccount(hub, 42)
	store := testutil.NewMemStore()
	s := newSyncer(t, hub, store)

	first, err := s.SyncAccount(context.Background(), 42)
	require.NoError(t, err)
	counts := store.Counts(42)

	second, err := s.SyncAccount(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, counts, store.Counts(42))
	assert.Equal(t, map[string]int{
		"fids": 1, "casts": 1, "reactions": 1, "verifications": 1, "links": 1, "user_data": 1,
	}, counts)

	for _, kind := range Kinds {
		assert.Equal(t, first.PerEntity[kind].Count, second.PerEntity[kind].Count, kind)
		assert.Zero(t, second.PerEntity[kind].Inserted, kind)
	}
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestSyncAccountIsolatesUnreachableEntity(t *testing.T) {
	hub := testutil.NewHub()
	seedAccount(hub, 42)
	for _, dim := range []string{"Like", "Recast", "None"} {
		hub.FailAt(fetcher.EndpointReactions, 42, dim, 0)
	}
	store := testutil.NewMemStore()

	res, err := newSyncer(t, hub, store).SyncAccount(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, StatusDone, res.Status)
	assert.True(t, res.PerEntity[KindReactions].Failed)
	assert.False(t, res.PerEntity[KindPosts].Failed)

	counts := store.Counts(42)
	assert.Zero(t, counts["reactions"])
	assert.Equal(t, 1, counts["casts"])
	assert.Equal(t, 1, counts["verifications"])
	assert.Equal(t, 1, counts["links"])
	assert.Equal(t, 1, counts["user_data"])
}

func TestSyncAccountRegistrationFailureAborts(t *testing.T) {
	hub := testutil.NewHub()
	seedAccount(hub, 42)
	store := testutil.NewMemStore()
	store.FailRegister = errors.New("relation \"fids\" does not exist")

	res, err := newSyncer(t, hub, store).SyncAccount(context.Background(), 42)
	require.ErrorIs(t, err, ErrRegistration)

	assert.Equal(t, StatusAborted, res.Status)
	assert.False(t, store.HasAccount(42))
	assert.Empty(t, store.Counts(42))
	assert.Zero(t, hub.Requests(fetcher.EndpointCasts), "no entity runs after a failed registration")

	runs := store.SyncRuns()
	require.Len(t, runs, 1)
	assert.Equal(t, string(StatusAborted), runs[0].Status)
	assert.True(t, runs[0].Error.Valid)
}

func TestSyncAccountSkipsRejectedRow(t *testing.T) {
	hub := testutil.NewHub()
	hub.SetPages(fetcher.EndpointCasts, 42, "",
		[]any{
			testutil.CastMessage("0x1", 42, "a", 1),
			testutil.CastMessage("0x2", 42, "b", 2),
			testutil.CastMessage("0x3", 42, "c", 3),
		},
	)
	store := testutil.NewMemStore()
	store.FailInsert = func(table string, row any) error {
		if c, ok := row.(database.InsertCastParams); ok && c.Hash == "0x2" {
			return errors.New("value too long for type character varying")
		}
		return nil
	}

	res, err := newSyncer(t, hub, store).SyncAccount(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, []string{"0x1", "0x3"}, store.CastHashes(42))
	posts := res.PerEntity[KindPosts]
	assert.Equal(t, 3, posts.Count)
	assert.EqualValues(t, 2, posts.Inserted)
	assert.Equal(t, 1, posts.Errors)
}

func TestSyncAccountLostUnitOfWorkAborts(t *testing.T) {
	hub := testutil.NewHub()
	seedAccount(hub, 42)
	store := testutil.NewMemStore()
	store.FailInsert = func(table string, row any) error {
		if table == "verifications" {
			return fmt.Errorf("%w: connection reset by peer", database.ErrUnitOfWorkLost)
		}
		return nil
	}

	res, err := newSyncer(t, hub, store).SyncAccount(context.Background(), 42)
	require.ErrorIs(t, err, database.ErrUnitOfWorkLost)

	assert.Equal(t, StatusAborted, res.Status)
	assert.False(t, store.HasAccount(42), "earlier writes are rolled back with the unit of work")
	assert.Empty(t, store.Counts(42))
	assert.Equal(t, 1, store.Rollbacks)
	assert.NotContains(t, res.PerEntity, KindLinks)
}

func TestSyncAccountSkipsMalformedRecords(t *testing.T) {
	hub := testutil.NewHub()
	hub.SetPages(fetcher.EndpointCasts, 42, "",
		[]any{
			map[string]any{"hash": "0xnodata"},
			testutil.CastMessage("0x1", 42, "ok", 1),
		},
	)
	hub.SetPages(fetcher.EndpointUserData, 42, "USER_DATA_TYPE_PFP",
		[]any{testutil.UserDataMessage("USER_DATA_TYPE_LOCATION", "earth", 1)},
	)
	store := testutil.NewMemStore()

	res, err := newSyncer(t, hub, store).SyncAccount(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, 1, res.PerEntity[KindPosts].Skipped)
	assert.Equal(t, 1, res.PerEntity[KindPosts].Count)
	assert.Equal(t, 1, res.PerEntity[KindProfileFields].Skipped)
	assert.Zero(t, store.Counts(42)["user_data"])
}

type panicking struct{}

func (panicking) Kind() Kind { return KindLinks }

func (panicking) sync(context.Context, Pager, database.TxQuerier, int64) (SyncReport, error) {
	panic("nil map write")
}

func TestSyncAccountRecoversEntityPanic(t *testing.T) {
	hub := testutil.NewHub()
	seedAccount(hub, 42)
	store := testutil.NewMemStore()
	s := newSyncer(t, hub, store)

	entities := defaultEntities()
	entities[3] = panicking{}
	s.entities = entities

	res, err := s.SyncAccount(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, StatusDone, res.Status)
	assert.True(t, res.PerEntity[KindLinks].Failed)
	assert.Contains(t, res.PerEntity[KindLinks].Err, "panic")
	assert.Equal(t, 1, store.Counts(42)["user_data"], "entities after the panic still run")
}

func TestSyncAccountCancelled(t *testing.T) {
	hub := testutil.NewHub()
	seedAccount(hub, 42)
	store := testutil.NewMemStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newSyncer(t, hub, store).SyncAccount(ctx, 42)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusAborted, res.Status)
	assert.False(t, store.HasAccount(42))
	assert.Len(t, store.SyncRuns(), 1, "aborted runs are still recorded")
}

func TestSyncAccountRecordsRun(t *testing.T) {
	hub := testutil.NewHub()
	seedAccount(hub, 42)
	store := testutil.NewMemStore()

	res, err := newSyncer(t, hub, store).SyncAccount(context.Background(), 42)
	require.NoError(t, err)

	run, err := store.GetLatestSyncRun(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, res.RunID, run.ID)
	assert.Equal(t, string(StatusDone), run.Status)
	assert.False(t, run.Error.Valid)

	var details map[Kind]SyncReport
	require.NoError(t, json.Unmarshal(run.Details, &details))
	assert.Equal(t, 1, details[KindPosts].Count)
}

func TestDependentRowsRequireAccount(t *testing.T) {
	store := testutil.NewMemStore()
	_, err := store.InsertCast(context.Background(), database.InsertCastParams{Fid: 9, Hash: "0x1"})
	require.Error(t, err)

	hub := testutil.NewHub()
	seedAccount(hub, 9)
	_, err = newSyncer(t, hub, store).SyncAccount(context.Background(), 9)
	require.NoError(t, err)
	assert.True(t, store.HasAccount(9))
	assert.Equal(t, 1, store.Counts(9)["casts"])
}
