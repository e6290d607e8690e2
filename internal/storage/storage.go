// Package storage provides named-slot persistence for client-side state.
package storage

import "errors"

// ErrClosed is returned by operations on a closed storage.
var ErrClosed = errors.New("storage closed")

// Storage holds serialized values under named slots. Every Set overwrites the
// whole slot.
type Storage interface {
	// Get returns the value stored in the slot and true if present.
	Get(slot string) ([]byte, bool, error)

	// Set replaces the value stored in the slot.
	Set(slot string, data []byte) error

	// Close releases resources.
	Close() error
}
