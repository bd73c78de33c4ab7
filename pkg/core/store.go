package core

import (
	"context"
	"fmt"
	"time"
)

// DefaultDatapath is the group under which libraries keep their materials.
const DefaultDatapath = "/materials"

// Store defines the contract for reading and writing material libraries.
// Adhering to this interface keeps the core independent of the file format
// (HDF5, JSON, YAML, msgpack, ...).
type Store interface {
	// Load reads every material under datapath. On error no library is returned.
	Load(ctx context.Context, path, datapath string) (*Library, error)

	// Save writes lib under datapath, replacing the file's previous content.
	Save(ctx context.Context, path, datapath string, lib *Library) error
}

// Watchable is implemented by stores that can report changes to a library file.
type Watchable interface {
	Watch(ctx context.Context, path string) (<-chan Event, error)
}

// EventType represents the type of change to a library file.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a watched library file.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s at %s", e.Type, e.Path, time.Unix(e.Timestamp, 0).UTC().Format(time.RFC3339))
}
