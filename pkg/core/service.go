package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

const defaultEventBuffer = 100

// ServiceConfig tunes a Service. The zero value is valid.
type ServiceConfig struct {
	Datapath    string       // Defaults to DefaultDatapath.
	Logger      *slog.Logger // Nil disables logging.
	EventBuffer int          // Zero means 100.
}

// Service handles the use cases around material libraries on top of a Store.
type Service struct {
	mu              sync.RWMutex
	store           Store
	logger          *slog.Logger
	datapath        string
	eventBufferSize int
}

// NewService creates a new Service.
func NewService(store Store, cfg ServiceConfig) *Service {
	if cfg.Datapath == "" {
		cfg.Datapath = DefaultDatapath
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	return &Service{
		store:           store,
		logger:          cfg.Logger,
		datapath:        cfg.Datapath,
		eventBufferSize: cfg.EventBuffer,
	}
}

// Datapath returns the group the service reads and writes.
func (s *Service) Datapath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.datapath
}

// LoadLibrary reads the library stored at path.
func (s *Service) LoadLibrary(ctx context.Context, path string) (*Library, error) {
	if path == "" {
		return nil, errors.New("library path cannot be empty")
	}
	lib, err := s.store.Load(ctx, path, s.Datapath())
	if err != nil {
		return nil, fmt.Errorf("failed to load library %s: %w", path, err)
	}
	if s.logger != nil {
		s.logger.Debug("library loaded", "path", path, "datapath", s.Datapath(), "materials", lib.Len())
	}
	return lib, nil
}

// SaveLibrary writes lib to path.
func (s *Service) SaveLibrary(ctx context.Context, path string, lib *Library) error {
	if path == "" {
		return errors.New("library path cannot be empty")
	}
	if lib == nil {
		lib = NewLibrary()
	}
	if err := s.store.Save(ctx, path, s.Datapath(), lib); err != nil {
		return fmt.Errorf("failed to save library %s: %w", path, err)
	}
	if s.logger != nil {
		s.logger.Debug("library saved", "path", path, "datapath", s.Datapath(), "materials", lib.Len())
	}
	return nil
}

// Watch observes changes to a library file if the store supports it.
// Events are buffered so a slow consumer does not stall the store.
func (s *Service) Watch(ctx context.Context, path string) (<-chan Event, error) {
	w, ok := s.store.(Watchable)
	if !ok {
		return nil, errors.New("store does not support watching")
	}
	upstream, err := w.Watch(ctx, path)
	if err != nil {
		return nil, err
	}

	out := make(chan Event, s.eventBufferSize)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-upstream:
				if !ok {
					return
				}
				select {
				case out <- e:
				default:
					if s.logger != nil {
						s.logger.Warn("event buffer full, dropping event", "path", e.Path, "type", e.Type)
					}
				}
			}
		}
	}()
	return out, nil
}
