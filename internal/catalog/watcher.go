package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// reloadDebounce coalesces the burst of fsnotify events an editor or data
// sync produces into a single reload.
const reloadDebounce = 500 * time.Millisecond

// Watcher reloads the knowledge base whenever its files change and publishes
// the result with copy-and-swap semantics. A failed reload is logged and the
// prior snapshot stays active.
type Watcher struct {
	store  *Store
	dir    string
	logger *zap.Logger

	// onReload, when non-nil, is invoked after every successful swap.
	onReload func(*Snapshot)

	// reloads, when non-nil, counts successful swaps.
	reloads prometheus.Counter
}

// NewWatcher creates a watcher over the knowledge directory.
func NewWatcher(store *Store, dir string, logger *zap.Logger) *Watcher {
	return &Watcher{store: store, dir: dir, logger: logger}
}

// OnReload registers a callback invoked after each successful reload.
func (w *Watcher) OnReload(fn func(*Snapshot)) {
	w.onReload = fn
}

// CountReloads registers a counter incremented on each successful reload.
func (w *Watcher) CountReloads(c prometheus.Counter) {
	w.reloads = c
}

// Run watches the knowledge directory until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	var debounce *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if debounce == nil {
				debounce = time.NewTimer(reloadDebounce)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(reloadDebounce)
			}
			pending = debounce.C

		case <-pending:
			pending = nil
			w.reload()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("knowledge watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	snap, err := LoadIntoStore(w.store, w.dir)
	if err != nil {
		w.logger.Error("knowledge reload failed, keeping prior snapshot", zap.Error(err))
		return
	}
	w.logger.Info("knowledge base reloaded",
		zap.Uint64("version", snap.Version),
		zap.Int("terms", snap.Catalog.Len()),
		zap.Int("rules", len(snap.Rules)),
	)
	if w.reloads != nil {
		w.reloads.Inc()
	}
	if w.onReload != nil {
		w.onReload(snap)
	}
}
