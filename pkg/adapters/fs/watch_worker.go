package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/uwuw/pkg/core"
)

// debounceInterval is the quiet period before a change is reported.
const debounceInterval = 50 * time.Millisecond

// watchWorker follows a single library file. It watches the parent directory
// so that atomic replaces (write temp, rename over) are observed.
type watchWorker struct {
	*worker.BaseWorker
	store     *Store
	target    string
	events    chan<- core.Event
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc

	// closeOnExit closes events when run fails too. Set for workers that
	// no supervisor will replace.
	closeOnExit bool
}

func newWatchWorker(store *Store, target string, events chan<- core.Event) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		store:      store,
		target:     target,
		events:     events,
	}
}

func (w *watchWorker) logger() *slog.Logger {
	if w.store.config.Logger != nil {
		return w.store.config.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(w.target)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.target, err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(debounceInterval)
	w.store.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"target":            w.target,
		}
	})
}

// mapEventType translates fsnotify operations. Chmod-only events map to "".
func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create):
		return core.EventCreate
	case event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}

// processFilesystemEvent filters out siblings of the target and forwards
// the rest through the debouncer.
func (w *watchWorker) processFilesystemEvent(ctx context.Context, event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.target {
		return false
	}

	eType := mapEventType(event)
	if eType == "" {
		return false
	}

	w.logger().Debug("library changed", "path", w.target, "op", event.Op.String())
	w.store.cache.Invalidate(w.target)

	w.sendEvent(ctx, core.Event{
		Type:      eType,
		Path:      w.target,
		Timestamp: time.Now().Unix(),
	})
	return true
}

// sendEvent enqueues an event via the debouncer, protecting against channel closure during shutdown.
func (w *watchWorker) sendEvent(ctx context.Context, event core.Event) {
	w.debouncer.add(event, func(e core.Event) {
		defer func() {
			_ = recover()
		}()
		select {
		case w.events <- e:
		case <-ctx.Done():
		}
	})
}

func (w *watchWorker) handleWatcherError(err error) {
	w.logger().Error("fsnotify error", "error", err)
	if w.store.config.ErrorHandler != nil {
		w.store.config.ErrorHandler(err)
	}
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			log := w.logger()
			if log.Enabled(ctx, slog.LevelDebug) {
				log.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				log.Error("watcher panic", "error", err)
			}
		}

		// In-flight deliveries must finish before the channel closes.
		w.debouncer.stopAndWait(5 * time.Second)
		if err == nil || w.closeOnExit {
			w.closeEvents()
		}
	}()
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()

	return w.mainEventLoop(ctx)
}

// closeEvents closes the consumer channel once. Supervised workers share the
// channel across restarts, so they close it only on a clean stop.
func (w *watchWorker) closeEvents() {
	defer func() {
		_ = recover()
	}()
	close(w.events)
}

func (w *watchWorker) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}
