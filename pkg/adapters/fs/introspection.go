package fs

import (
	"sort"
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Serializers   []string   `json:"serializers"`
	Formats       []string   `json:"formats"`
	CacheEnabled  bool       `json:"cache_enabled"`
	CacheSize     int        `json:"cache_size"`
	ReadOnly      bool       `json:"read_only"`
	WatcherActive bool       `json:"watcher_active"`
	Loads         int        `json:"loads"`
	LastLoad      *time.Time `json:"last_load,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	serializers := make([]string, 0, len(s.serializers))
	for ext := range s.serializers {
		serializers = append(serializers, ext)
	}
	sort.Strings(serializers)

	formats := make([]string, 0, len(s.formats))
	for ext := range s.formats {
		formats = append(formats, ext)
	}
	sort.Strings(formats)

	return StoreState{
		Serializers:   serializers,
		Formats:       formats,
		CacheEnabled:  s.config.Cache,
		CacheSize:     s.cache.Len(),
		ReadOnly:      s.config.ReadOnly,
		WatcherActive: s.watcherActive,
		Loads:         s.loads,
		LastLoad:      s.lastLoad,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

func (s *Store) recordLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastLoad = &now
	s.loads++
}
