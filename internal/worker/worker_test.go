// SPDX-License-Identifier: AGPL-3.0-only
package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fluffyriot/hubsync/internal/config"
	"github.com/fluffyriot/hubsync/internal/syncer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncer struct {
	mu       sync.Mutex
	calls    []int64
	fail     map[int64]error
	panicOn  map[int64]bool
	hold     time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32
	spans    []span
}

type span struct {
	fid        int64
	start, end time.Time
}

func (f *fakeSyncer) SyncAccount(ctx context.Context, fid int64) (syncer.AccountSyncResult, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)

	started := time.Now()
	defer func() {
		f.mu.Lock()
		f.spans = append(f.spans, span{fid: fid, start: started, end: time.Now()})
		f.mu.Unlock()
	}()
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, fid)
	f.mu.Unlock()

	if f.hold > 0 {
		time.Sleep(f.hold)
	}
	if f.panicOn[fid] {
		panic("boom")
	}
	if err := f.fail[fid]; err != nil {
		return syncer.AccountSyncResult{Fid: fid, Status: syncer.StatusAborted}, err
	}
	return syncer.AccountSyncResult{
		Fid:    fid,
		Status: syncer.StatusDone,
		PerEntity: map[syncer.Kind]syncer.SyncReport{
			syncer.KindPosts: {Kind: syncer.KindPosts, Count: 2, Inserted: 1},
		},
	}, nil
}

func (f *fakeSyncer) called() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.calls...)
}

type fakeDiscoverer struct {
	fids  []int64
	calls atomic.Int32
}

func (f *fakeDiscoverer) DiscoverFids(ctx context.Context, shards []int, target, pageSize int) []int64 {
	f.calls.Add(1)
	if target < len(f.fids) {
		return f.fids[:target]
	}
	return f.fids
}

func testConfig() *config.AppConfig {
	cfg := &config.AppConfig{}
	cfg.Discovery.Shards = []int{1, 2}
	cfg.Discovery.Target = 10
	cfg.Sync.Workers = 1
	return cfg
}

func TestSyncAccountsContinuesAfterFailures(t *testing.T) {
	s := &fakeSyncer{
		fail:    map[int64]error{2: errors.New("account registration failed")},
		panicOn: map[int64]bool{3: true},
	}

	summary := SyncAccounts(context.Background(), s, []int64{1, 2, 3, 4}, Options{Workers: 1})

	assert.Equal(t, []int64{1, 2, 3, 4}, s.called())
	assert.Equal(t, 4, summary.Accounts)
	assert.Equal(t, 2, summary.Done)
	assert.Equal(t, 2, summary.Aborted)
	assert.Contains(t, summary.Failures[3], "panic")
	assert.Contains(t, summary.Failures, int64(2))
	assert.Equal(t, 4, summary.Observed[syncer.KindPosts])
	assert.EqualValues(t, 2, summary.Inserted[syncer.KindPosts])
}

func TestSyncAccountsBoundsParallelism(t *testing.T) {
	s := &fakeSyncer{hold: 20 * time.Millisecond}
	fids := []int64{1, 2, 3, 4, 5, 6, 7, 8}

	summary := SyncAccounts(context.Background(), s, fids, Options{Workers: 3})

	assert.Equal(t, len(fids), summary.Done)
	assert.LessOrEqual(t, s.peak.Load(), int32(3))
	assert.ElementsMatch(t, fids, s.called())
}

func TestSyncAccountsPacesAccounts(t *testing.T) {
	s := &fakeSyncer{}
	start := time.Now()

	SyncAccounts(context.Background(), s, []int64{1, 2, 3}, Options{Workers: 1, Delay: 30 * time.Millisecond})

	assert.GreaterOrEqual(t, time.Since(start), 55*time.Millisecond)
}

func TestSyncAccountsPausesAfterSlowAccounts(t *testing.T) {
	const delay = 40 * time.Millisecond
	s := &fakeSyncer{hold: 3 * delay}

	summary := SyncAccounts(context.Background(), s, []int64{1, 2, 3}, Options{Workers: 1, Delay: delay})
	require.Equal(t, 3, summary.Done)

	s.mu.Lock()
	spans := append([]span(nil), s.spans...)
	s.mu.Unlock()
	require.Len(t, spans, 3)

	for i := 1; i < len(spans); i++ {
		gap := spans[i].start.Sub(spans[i-1].end)
		assert.GreaterOrEqual(t, gap, delay, "gap before fid=%d", spans[i].fid)
	}
}

func TestSyncAccountsCancelDuringPause(t *testing.T) {
	s := &fakeSyncer{}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	start := time.Now()
	summary := SyncAccounts(ctx, s, []int64{1, 2, 3}, Options{Workers: 1, Delay: time.Hour})

	assert.Less(t, time.Since(start), time.Minute)
	assert.Equal(t, []int64{1}, s.called())
	assert.Equal(t, 1, summary.Accounts)
}

func TestSyncAccountsStopsOnCancel(t *testing.T) {
	s := &fakeSyncer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := SyncAccounts(ctx, s, []int64{1, 2, 3}, Options{Workers: 1})

	assert.Empty(t, s.called())
	assert.Zero(t, summary.Accounts)
}

func TestWorkerSyncAll(t *testing.T) {
	s := &fakeSyncer{}
	d := &fakeDiscoverer{fids: []int64{5, 6}}
	w := NewWorker(context.Background(), s, d, testConfig())

	_, ok := w.LastSummary()
	assert.False(t, ok)

	require.True(t, w.SyncAll())

	summary, ok := w.LastSummary()
	require.True(t, ok)
	assert.Equal(t, 2, summary.Done)
	assert.Equal(t, []int64{5, 6}, s.called())
	assert.False(t, w.IsRunning())
}

func TestWorkerSkipsWhileRunning(t *testing.T) {
	s := &fakeSyncer{}
	d := &fakeDiscoverer{fids: []int64{5}}
	w := NewWorker(context.Background(), s, d, testConfig())

	require.True(t, w.acquire())
	assert.False(t, w.SyncAll())
	_, err := w.SyncAccount(context.Background(), 5)
	assert.ErrorIs(t, err, ErrSyncInProgress)
	w.release()

	res, err := w.SyncAccount(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, syncer.StatusDone, res.Status)
	assert.Zero(t, d.calls.Load())
}

func TestWorkerSchedule(t *testing.T) {
	s := &fakeSyncer{}
	d := &fakeDiscoverer{fids: []int64{1}}
	w := NewWorker(context.Background(), s, d, testConfig())

	w.Start(10 * time.Millisecond)
	assert.True(t, w.IsActive())

	assert.Eventually(t, func() bool { return d.calls.Load() > 0 }, time.Second, 5*time.Millisecond)

	w.Stop()
	assert.Eventually(t, func() bool { return !w.IsActive() }, time.Second, 5*time.Millisecond)
}

func TestWorkerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(ctx, &fakeSyncer{}, &fakeDiscoverer{}, testConfig())

	w.Start(time.Hour)
	cancel()
	assert.Eventually(t, func() bool { return !w.IsActive() }, time.Second, 5*time.Millisecond)
}
