// Package store provides persistence for resolved build plans.
//
// Two backends are available:
//   - file: JSON files in a config directory, for CLI usage
//   - mongo: MongoDB collection, for server deployments
//
// Plans are immutable once stored; the store supports lookup by plan ID
// and listing by package name.
package store

import (
	"context"
	"errors"

	"github.com/matzehuels/cargoplan/pkg/plan"
)

// ErrNotFound is returned when a plan does not exist in the store.
var ErrNotFound = errors.New("plan not found")

// Store is the interface for plan storage backends.
type Store interface {
	// Get retrieves a plan by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*plan.Plan, error)

	// Put stores a plan under its ID, overwriting any existing entry.
	Put(ctx context.Context, p *plan.Plan) error

	// Delete removes a plan. Deleting a missing plan is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all plans for the given package name,
	// or all plans if name is empty. Order is unspecified.
	List(ctx context.Context, name string) ([]string, error)

	Close() error
}
