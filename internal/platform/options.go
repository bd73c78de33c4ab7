package platform

import (
	"log/slog"

	"github.com/aretw0/uwuw/pkg/adapters/fs"
	"github.com/aretw0/uwuw/pkg/core"
)

// options holds the internal configuration for a UWUW workflow.
type options struct {
	store       core.Store
	logger      *slog.Logger
	datapath    string
	config      map[string]interface{}
	serializers map[string]fs.Serializer
	formats     map[string]fs.FileFormat
}

// Option defines a functional option for configuring UWUW.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		datapath:    core.DefaultDatapath,
		config:      make(map[string]interface{}),
		serializers: make(map[string]fs.Serializer),
		formats:     make(map[string]fs.FileFormat),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDatapath selects the group holding the materials. Defaults to "/materials".
func WithDatapath(datapath string) Option {
	return func(o *options) {
		if datapath != "" {
			o.datapath = datapath
		}
	}
}

// WithLogger sets the logger for the service and its store.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore allows injecting a custom storage adapter (e.g. a mock).
// If provided, the default filesystem store is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithSerializer registers a stream serializer for a file extension (e.g. ".toml").
func WithSerializer(ext string, s fs.Serializer) Option {
	return func(o *options) {
		o.serializers[ext] = s
	}
}

// WithFormat registers a path based file format for a file extension.
func WithFormat(ext string, f fs.FileFormat) Option {
	return func(o *options) {
		o.formats[ext] = f
	}
}

// WithCache keeps loaded libraries in memory, keyed by path, datapath and
// file modification time.
func WithCache(enabled bool) Option {
	return func(o *options) {
		o.config["cache"] = enabled
	}
}

// WithReadOnly makes Save return core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithEventBuffer sets the size of the watch event buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithWatcherErrorHandler registers a callback for errors raised inside the
// watch loop, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
