// Package storage defines the interface for save-slot storage backends.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrSlotNotFound is returned when loading or deleting a slot that does not
// exist, and by LatestAutosave when the ring is empty.
var ErrSlotNotFound = errors.New("save slot not found")

// SlotInfo describes one save slot without its world document.
type SlotInfo struct {
	Name      string    `json:"name"`
	Title     string    `json:"title,omitempty"`
	TurnCount int       `json:"turn_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists serialized world documents under named slots. The document
// is an opaque JSON blob; backends never parse it.
//
// Implementations must be safe against concurrent processes (file locking
// or database transactions); a single game session only calls sequentially.
type Store interface {
	// Put writes doc under name, overwriting any previous save.
	Put(ctx context.Context, name string, doc []byte, info SlotInfo) error
	// Get returns the document stored under name.
	Get(ctx context.Context, name string) ([]byte, error)
	// List returns all slots, most recently updated first.
	List(ctx context.Context) ([]SlotInfo, error)
	// Delete removes a slot.
	Delete(ctx context.Context, name string) error

	// Autosave appends doc to the autosave ring, discarding entries beyond
	// keep.
	Autosave(ctx context.Context, doc []byte, keep int) error
	// LatestAutosave returns the newest autosave document.
	LatestAutosave(ctx context.Context) ([]byte, error)

	Close() error
}
