package uwuw

import (
	"context"
	"log/slog"

	"github.com/aretw0/uwuw/internal/platform"
	"github.com/aretw0/uwuw/pkg/adapters/fs"
	"github.com/aretw0/uwuw/pkg/core"
)

// --- Types ---

// Workflow is a material library loaded from a single file.
type Workflow = platform.Workflow

// Config is the content of a uwuw.toml project file.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring a workflow.
type Option = platform.Option

// WithDatapath selects the group holding the materials. Defaults to "/materials".
func WithDatapath(datapath string) Option {
	return platform.WithDatapath(datapath)
}

// WithLogger sets the logger for the service and its store.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore allows injecting a custom storage adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithSerializer registers a stream serializer for a file extension.
func WithSerializer(ext string, s fs.Serializer) Option {
	return platform.WithSerializer(ext, s)
}

// WithFormat registers a path based file format for a file extension.
func WithFormat(ext string, f fs.FileFormat) Option {
	return platform.WithFormat(ext, f)
}

// WithCache keeps loaded libraries in memory until their file changes.
func WithCache(enabled bool) Option {
	return platform.WithCache(enabled)
}

// WithReadOnly rejects saves.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithEventBuffer allows specifying the size of the watch event buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler registers a callback for watch loop errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New resolves path against the working directory and loads its library.
func New(path string, opts ...Option) (*Workflow, error) {
	return platform.New(path, opts...)
}

// Open is New with a caller supplied context.
func Open(ctx context.Context, path string, opts ...Option) (*Workflow, error) {
	return platform.Open(ctx, path, opts...)
}

// Save writes lib to path, choosing the format by extension.
func Save(ctx context.Context, path string, lib *core.Library, opts ...Option) error {
	return platform.Save(ctx, path, lib, opts...)
}

// NewService builds a library service without loading anything.
func NewService(opts ...Option) *core.Service {
	return platform.NewService(opts...)
}

// --- Utils ---

// ResolvePath turns a user supplied path into the canonical full path.
func ResolvePath(path string) (string, error) {
	return platform.ResolvePath(path)
}

// FindRoot looks upwards from startDir for a directory holding uwuw.toml.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// DiscoverConfig loads the nearest uwuw.toml above startDir, or the defaults.
func DiscoverConfig(startDir string, logger *slog.Logger) (Config, bool, error) {
	return platform.DiscoverConfig(startDir, logger)
}
