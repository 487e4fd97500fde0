package storage

import (
	"context"
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound = errors.New("storage: slot not found")
	ErrClosed   = errors.New("storage: backend closed")
)

// Slot names one persisted value of a label.
type Slot string

// Slots of a label.
const (
	CurrentSample  Slot = "current-sample"
	OldSample      Slot = "old-sample"
	CurrentResults Slot = "current-results"
	OldResults     Slot = "old-results"
)

// Slots lists every slot in a stable order.
var Slots = []Slot{CurrentSample, OldSample, CurrentResults, OldResults}

// Backend stores raw slot contents keyed by label.
//
// Implementations must return an error wrapping ErrNotFound for a missing
// slot and must reject labels that fail domain.ValidateLabel.
type Backend interface {
	// Read returns the contents of a slot.
	Read(ctx context.Context, label string, slot Slot) ([]byte, error)

	// Write replaces the contents of a slot.
	Write(ctx context.Context, label string, slot Slot, data []byte) error

	// Move renames slot from to slot to, replacing to. Returns ErrNotFound
	// when from does not exist.
	Move(ctx context.Context, label string, from, to Slot) error

	// Labels lists every label with at least one slot.
	Labels(ctx context.Context) ([]string, error)

	// Delete removes every slot of a label.
	Delete(ctx context.Context, label string) error

	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Open creates the named backend rooted at dir.
func Open(name, dir string, opts ...Option) (Backend, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	switch name {
	case BackendFile, "":
		return NewFileBackend(dir)
	case BackendBadger:
		return NewBadgerBackend(dir, o)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", name)
	}
}
