// SPDX-License-Identifier: AGPL-3.0-only
package worker

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/fluffyriot/hubsync/internal/config"
	"github.com/fluffyriot/hubsync/internal/syncer"
)

var ErrSyncInProgress = errors.New("sync already in progress")

type Worker struct {
	Syncer     AccountSyncer
	Discoverer Discoverer
	Config     *config.AppConfig
	Ticker     *time.Ticker
	StopChan   chan bool

	ctx     context.Context
	mu      sync.Mutex
	running bool
	active  bool
	last    *RunSummary
}

// NewWorker builds a scheduler whose runs are bound to ctx.
func NewWorker(ctx context.Context, s AccountSyncer, d Discoverer, cfg *config.AppConfig) *Worker {
	return &Worker{
		Syncer:     s,
		Discoverer: d,
		Config:     cfg,
		StopChan:   make(chan bool),
		ctx:        ctx,
	}
}

func (w *Worker) Start(interval time.Duration) {
	w.mu.Lock()
	if w.active {
		w.mu.Unlock()
		log.Println("Worker: Scheduler already active, use Restart to change interval")
		return
	}
	w.active = true
	w.mu.Unlock()

	w.Ticker = time.NewTicker(interval)
	go func() {
		defer func() {
			w.mu.Lock()
			w.active = false
			w.mu.Unlock()
		}()
		for {
			select {
			case <-w.Ticker.C:
				w.SyncAll()
			case <-w.StopChan:
				w.Ticker.Stop()
				return
			case <-w.ctx.Done():
				w.Ticker.Stop()
				return
			}
		}
	}()
	log.Printf("Background worker started with interval: %v", interval)
}

func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.active {
		w.mu.Unlock()
		log.Println("Worker: Scheduler not active")
		return
	}
	w.mu.Unlock()

	select {
	case w.StopChan <- true:
	case <-w.ctx.Done():
	}
	log.Println("Background worker stopped")
}

func (w *Worker) Restart(interval time.Duration) {
	w.mu.Lock()
	isActive := w.active
	w.mu.Unlock()

	if isActive {
		w.Stop()
		time.Sleep(100 * time.Millisecond)
	}
	w.Start(interval)
}

func (w *Worker) IsActive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// LastSummary returns the outcome of the most recent full run, if any.
func (w *Worker) LastSummary() (RunSummary, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		return RunSummary{}, false
	}
	return *w.last, true
}

func (w *Worker) acquire() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return false
	}
	w.running = true
	return true
}

func (w *Worker) release() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// SyncAll runs discovery and a full batch. It reports false when another
// run was already in progress.
func (w *Worker) SyncAll() bool {
	if !w.acquire() {
		log.Println("Worker: Sync already in progress, skipping...")
		return false
	}
	defer w.release()

	summary := RunSync(w.ctx, w.Discoverer, w.Syncer, w.Config)

	w.mu.Lock()
	w.last = &summary
	w.mu.Unlock()
	return true
}

func (w *Worker) SyncAccount(ctx context.Context, fid int64) (syncer.AccountSyncResult, error) {
	if !w.acquire() {
		log.Println("Worker: Sync already in progress, skipping...")
		return syncer.AccountSyncResult{}, ErrSyncInProgress
	}
	defer w.release()

	log.Printf("Worker: Starting manual sync for fid %d", fid)
	return syncOne(ctx, w.Syncer, fid)
}
