// Package lifecycle exposes library change events as a lifecycle.Source so
// that a watch loop can be driven by the same event router as the rest of
// an application.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/uwuw/pkg/core"
)

// SourceOption configures a library source.
type SourceOption func(*librarySource)

// WithTypes restricts the source to the given event types.
func WithTypes(types ...core.EventType) SourceOption {
	return func(s *librarySource) {
		s.types = make(map[core.EventType]bool, len(types))
		for _, t := range types {
			s.types[t] = true
		}
	}
}

type librarySource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
	types  map[core.EventType]bool
}

// NewSource creates a lifecycle.Source that emits library change events
// read from events. The output closes when events closes or ctx is done.
func NewSource(events <-chan core.Event, opts ...SourceOption) lifecycle.Source {
	s := &librarySource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *librarySource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *librarySource) accepts(e core.Event) bool {
	return s.types == nil || s.types[e.Type]
}

func (s *librarySource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				if !s.accepts(e) {
					continue
				}
				// core.Event satisfies lifecycle.Event through String().
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
