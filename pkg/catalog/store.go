package catalog

import (
	"context"

	"github.com/sre-norns/catalog/pkg/wyrd"
)

// Store is a keyed collection of records of a single type.
// Each method must be atomic on its own; nothing spans calls.
type Store[T any, K wyrd.ResourceKey] interface {
	// FindAll returns every record in store-native order
	FindAll(ctx context.Context) ([]T, error)

	// FindByID returns a record given its key,
	// false if the record does not exist,
	// error if there was communication error with the storage
	FindByID(ctx context.Context, id K) (T, bool, error)

	// Save inserts or replaces the record. A zero generated key is assigned by the store.
	Save(ctx context.Context, entry *T) error

	// Delete removes the record, returns false if there was nothing to remove
	Delete(ctx context.Context, id K) (bool, error)
}
