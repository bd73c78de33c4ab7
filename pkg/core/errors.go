package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrReadOnly          = errors.New("store is in read-only mode")
	ErrInvalidPath       = errors.New("invalid path")
	ErrMissingMetadata   = errors.New("missing metadata")
	ErrDatapathNotFound  = errors.New("datapath not found")
	ErrUnsupportedFormat = errors.New("unsupported library format")
)

// InvalidPathError reports a path that cannot be resolved to an absolute location.
type InvalidPathError struct {
	Path string
	Err  error
}

func (e *InvalidPathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid path %q", e.Path)
	}
	return fmt.Sprintf("invalid path %q: %v", e.Path, e.Err)
}

func (e *InvalidPathError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidPath) hold.
func (e *InvalidPathError) Is(target error) bool { return target == ErrInvalidPath }

// MissingMetadataError reports a metadata key a consumer required but the
// material does not carry.
type MissingMetadataError struct {
	Key      string
	Material string
}

func (e *MissingMetadataError) Error() string {
	if e.Material == "" {
		return fmt.Sprintf("material has no %q metadata", e.Key)
	}
	return fmt.Sprintf("material %q has no %q metadata", e.Material, e.Key)
}

// Is makes errors.Is(err, ErrMissingMetadata) hold.
func (e *MissingMetadataError) Is(target error) bool { return target == ErrMissingMetadata }
