package fs

import (
	"sync"
	"time"

	"github.com/aretw0/uwuw/pkg/core"
)

// debouncer coalesces bursts of events per path into a single delivery.
// Editors commonly emit CREATE followed by several WRITEs for one save.
type debouncer struct {
	interval time.Duration

	mu      sync.Mutex
	pending map[string]*pendingEvent
	stopped bool
	wg      sync.WaitGroup
}

type pendingEvent struct {
	event core.Event
	timer *time.Timer
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		pending:  make(map[string]*pendingEvent),
	}
}

// add schedules fire(e) after the interval. A newer event for the same path
// resets the timer and replaces the pending event, except that a pending
// CREATE absorbs later MODIFYs.
func (d *debouncer) add(e core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if p, ok := d.pending[e.Path]; ok {
		if p.timer.Stop() {
			d.wg.Done()
		}
		if p.event.Type == core.EventCreate && e.Type == core.EventModify {
			e.Type = core.EventCreate
		}
	}

	p := &pendingEvent{event: e}
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.interval, func() {
		defer d.wg.Done()

		d.mu.Lock()
		cur, ok := d.pending[e.Path]
		if !ok || cur != p {
			d.mu.Unlock()
			return
		}
		delete(d.pending, e.Path)
		d.mu.Unlock()

		fire(p.event)
	})
	d.pending[e.Path] = p
}

// stopAndWait rejects new events and waits up to timeout for in-flight
// deliveries to finish. Timers that have not fired yet are dropped.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for path, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, path)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
