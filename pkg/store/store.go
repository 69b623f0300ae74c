package store

//go:generate mockgen -source store.go -destination store_mocks.go -package store

import (
	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/labels"
)

// ErrNotFound is returned by Load and Delete for unknown queue names.
var ErrNotFound = errors.New("queue not found")

// Span is a persisted interval. From and To hold the bit patterns of the
// bounds widened to 64 bits so every integer width round-trips.
type Span struct {
	From uint64
	To   uint64
}

// Record is the persisted form of a named queue. Spans holds every stored
// interval including the empty placeholder, so the anchor of an empty queue
// survives a restart.
type Record struct {
	Labels labels.Set
	Spans  []Span
}

// Store persists queue records by name.
type Store interface {
	// Save creates or replaces the record stored under name.
	Save(name string, r Record) error
	// Load returns the record stored under name or ErrNotFound.
	Load(name string) (Record, error)
	// Delete removes the record stored under name or returns ErrNotFound.
	Delete(name string) error
	// List returns the stored names in ascending order.
	List() ([]string, error)
	// Close releases the resources held by the store.
	Close() error
}
