package fs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/uwuw/pkg/core"
)

type collector struct {
	mu     sync.Mutex
	events []core.Event
}

func (c *collector) fire(e core.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *collector) snapshot() []core.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Event(nil), c.events...)
}

func TestDebouncer(t *testing.T) {
	t.Run("Create Absorbs Modify", func(t *testing.T) {
		d := newDebouncer(20 * time.Millisecond)
		c := &collector{}

		d.add(core.Event{Type: core.EventCreate, Path: "a"}, c.fire)
		d.add(core.Event{Type: core.EventModify, Path: "a"}, c.fire)
		d.add(core.Event{Type: core.EventModify, Path: "b"}, c.fire)

		assert.Eventually(t, func() bool { return len(c.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
		byPath := map[string]core.EventType{}
		for _, e := range c.snapshot() {
			byPath[e.Path] = e.Type
		}
		assert.Equal(t, core.EventCreate, byPath["a"])
		assert.Equal(t, core.EventModify, byPath["b"])
	})

	t.Run("Latest Wins", func(t *testing.T) {
		d := newDebouncer(20 * time.Millisecond)
		c := &collector{}

		d.add(core.Event{Type: core.EventModify, Path: "a"}, c.fire)
		d.add(core.Event{Type: core.EventDelete, Path: "a"}, c.fire)

		assert.Eventually(t, func() bool { return len(c.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, core.EventDelete, c.snapshot()[0].Type)
	})

	t.Run("Stop Drops Pending", func(t *testing.T) {
		d := newDebouncer(time.Hour)
		c := &collector{}

		d.add(core.Event{Type: core.EventModify, Path: "a"}, c.fire)
		d.stopAndWait(time.Second)
		d.add(core.Event{Type: core.EventModify, Path: "b"}, c.fire)

		assert.Empty(t, c.snapshot())
	})
}
