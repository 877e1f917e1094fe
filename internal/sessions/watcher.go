package sessions

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sagar04-cloud/Smart-Attendance-System/internal/storage"
)

// Watcher ends sessions whose TTL has lapsed. With an interval in the 1-3s
// band it detects expiry within one tick of expiresAt.
type Watcher struct {
	store    *storage.Store
	manager  *Manager
	logger   *zap.Logger
	interval time.Duration
	stop     chan struct{}
	now      func() time.Time
}

func NewWatcher(store *storage.Store, manager *Manager, logger *zap.Logger, interval time.Duration) *Watcher {
	return &Watcher{
		store:    store,
		manager:  manager,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
		now:      time.Now,
	}
}

func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Watcher) Stop() {
	close(w.stop)
}

func (w *Watcher) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.endExpired()
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) endExpired() {
	now := w.now()
	for _, sess := range w.store.Sessions() {
		if !sess.IsActive || !sess.IsExpired(now) {
			continue
		}
		w.logger.Info("session ttl lapsed", zap.String("session_id", sess.ID))
		if err := w.manager.End(sess.ID); err != nil {
			w.logger.Error("failed to end expired session",
				zap.String("session_id", sess.ID), zap.Error(err))
		}
	}
}
