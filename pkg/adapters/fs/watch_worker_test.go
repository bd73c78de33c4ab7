package fs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/uwuw/pkg/core"
)

const watchTimeout = 2 * time.Second

// A supervised worker that loses its fsnotify handle is replaced, and the
// replacement keeps delivering on the shared channel.
func TestWatchWorker_SupervisorRestartKeepsDelivering(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore(Config{})
	target := filepath.Join(t.TempDir(), "lib.json")
	events := make(chan core.Event)
	spawned := make(chan *watchWorker, 3)

	sup := supervisor.New("library-watch", supervisor.StrategyOneForOne, supervisor.Spec{
		Name: "fs-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			w := newWatchWorker(store, target, events)
			spawned <- w
			return w, nil
		},
		Backoff: supervisor.Backoff{
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      1,
			ResetDuration:   50 * time.Millisecond,
			MaxRestarts:     2,
			MaxDuration:     200 * time.Millisecond,
		},
		RestartPolicy: supervisor.RestartOnFailure,
	})
	require.NoError(t, sup.Start(ctx))

	first := nextWorker(t, spawned)
	waitForWatcher(t, store, true)
	require.NoError(t, first.watcher.Close())

	second := nextWorker(t, spawned)
	require.NotSame(t, first, second, "restart must build a fresh worker")
	waitForWatcher(t, store, true)

	require.NoError(t, store.Save(ctx, target, core.DefaultDatapath, sampleLibrary()))
	select {
	case ev, ok := <-events:
		require.True(t, ok, "shared channel closed by a failed worker")
		assert.Equal(t, target, ev.Path)
	case <-time.After(watchTimeout):
		t.Fatal("no event after restart")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), watchTimeout)
	defer stopCancel()
	require.NoError(t, sup.Stop(stopCtx))
}

func TestWatchWorker_StandaloneClosesOnFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := NewStore(Config{})
	events := make(chan core.Event)
	w := newWatchWorker(store, filepath.Join(t.TempDir(), "lib.json"), events)
	w.closeOnExit = true
	require.NoError(t, w.Start(ctx))
	waitForWatcher(t, store, true)

	require.NoError(t, w.watcher.Close())

	select {
	case _, ok := <-events:
		assert.False(t, ok, "events must be closed once the worker fails")
	case <-time.After(watchTimeout):
		t.Fatal("events left open after watcher failure")
	}
	waitForWatcher(t, store, false)
}

func TestMapEventType(t *testing.T) {
	cases := map[fsnotify.Op]core.EventType{
		fsnotify.Create:                 core.EventCreate,
		fsnotify.Write:                  core.EventModify,
		fsnotify.Write | fsnotify.Chmod: core.EventModify,
		fsnotify.Remove:                 core.EventDelete,
		fsnotify.Rename:                 core.EventDelete,
		fsnotify.Chmod:                  "",
	}
	for op, want := range cases {
		got := mapEventType(fsnotify.Event{Name: "/lib/materials.json", Op: op})
		assert.Equal(t, want, got, "op %s", op)
	}
}

func nextWorker(t *testing.T, ch <-chan *watchWorker) *watchWorker {
	t.Helper()
	select {
	case w := <-ch:
		return w
	case <-time.After(watchTimeout):
		t.Fatal("supervisor did not spawn a worker")
		return nil
	}
}

func waitForWatcher(t *testing.T, store *Store, active bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		state, ok := store.State().(StoreState)
		return ok && state.WatcherActive == active
	}, watchTimeout, 10*time.Millisecond, "watcher active = %v", active)
}
