package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/uwuw/pkg/core"
)

// Config holds the configuration for the filesystem store.
type Config struct {
	Logger       *slog.Logger
	Cache        bool        // Keep loaded libraries in memory until the file changes.
	ReadOnly     bool        // Reject Save with core.ErrReadOnly.
	ErrorHandler func(error) // Receives errors raised inside the watch loop.
}

// Store implements core.Store on top of local files, choosing the codec by
// file extension.
type Store struct {
	config Config

	mu            sync.RWMutex
	serializers   map[string]Serializer
	formats       map[string]FileFormat
	cache         *cache
	watcherActive bool
	lastLoad      *time.Time
	loads         int
}

// NewStore creates a store with the default serializers registered.
// Path based formats such as HDF5 are registered by the caller.
func NewStore(config Config) *Store {
	return &Store{
		config:      config,
		serializers: DefaultSerializers(),
		formats:     make(map[string]FileFormat),
		cache:       newCache(),
	}
}

// RegisterSerializer registers a serializer for an extension (e.g. ".json").
// It replaces any serializer or format previously bound to that extension.
func (s *Store) RegisterSerializer(ext string, ser Serializer) {
	ext = normalizeExt(ext)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.formats, ext)
	s.serializers[ext] = ser
}

// RegisterFormat registers a path based format for an extension (e.g. ".h5m").
// It replaces any serializer or format previously bound to that extension.
func (s *Store) RegisterFormat(ext string, f FileFormat) {
	ext = normalizeExt(ext)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.serializers, ext)
	s.formats[ext] = f
}

// Extensions lists every registered extension in sorted order.
func (s *Store) Extensions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exts := make([]string, 0, len(s.serializers)+len(s.formats))
	for ext := range s.serializers {
		exts = append(exts, ext)
	}
	for ext := range s.formats {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func (s *Store) codecFor(path string) (Serializer, FileFormat, error) {
	ext := normalizeExt(filepath.Ext(path))
	s.mu.RLock()
	defer s.mu.RUnlock()

	if f, ok := s.formats[ext]; ok {
		return nil, f, nil
	}
	if ser, ok := s.serializers[ext]; ok {
		return ser, nil, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, ext)
}

// Load reads every material stored under datapath in the file at path.
func (s *Store) Load(ctx context.Context, path, datapath string) (*core.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ser, format, err := s.codecFor(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat library: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("library path is a directory: %s", path)
	}

	if s.config.Cache {
		if entry, ok := s.cache.Get(path, datapath, info.ModTime(), info.Size()); ok {
			if s.config.Logger != nil {
				s.config.Logger.Debug("library cache hit", "path", path, "datapath", datapath)
			}
			return entry.Library.Clone(), nil
		}
	}

	var lib *core.Library
	if format != nil {
		lib, err = format.Read(path, datapath)
	} else {
		lib, err = s.parseFile(ser, path, datapath)
	}
	if err != nil {
		return nil, err
	}

	if s.config.Cache {
		s.cache.Set(path, datapath, &cacheEntry{
			Library:      lib.Clone(),
			LastModified: info.ModTime(),
			Size:         info.Size(),
		})
	}
	s.recordLoad()
	return lib, nil
}

func (s *Store) parseFile(ser Serializer, path, datapath string) (*core.Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	defer f.Close()
	return ser.Parse(f, datapath)
}

// Save writes lib under datapath, replacing the file at path atomically.
func (s *Store) Save(ctx context.Context, path, datapath string, lib *core.Library) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ser, format, err := s.codecFor(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create library directory: %w", err)
	}

	if format != nil {
		err = replaceFile(path, func(staging string) error {
			return format.Write(staging, datapath, lib)
		})
	} else {
		var data []byte
		data, err = ser.Serialize(lib, datapath)
		if err == nil {
			err = replaceFile(path, func(staging string) error {
				return writeStaged(staging, data)
			})
		}
	}
	if err != nil {
		return err
	}

	s.cache.Invalidate(path)
	return nil
}

// Watch reports changes to the library file at path until ctx is done.
// The returned channel is closed when watching stops.
func (s *Store) Watch(ctx context.Context, path string) (<-chan core.Event, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	events := make(chan core.Event)
	w := newWatchWorker(s, abs, events)
	w.closeOnExit = true
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

var _ core.Store = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
