// Package storage provides the PostgreSQL-backed repository for locations
// and their contributed codes.
package storage

import (
	"context"
	"errors"

	"github.com/bathroomcodes/bathroomcodes_api/internal/model"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("storage: not found")

	// ErrDuplicatePlace is returned when inserting a location whose provider
	// place id is already committed. The uniqueness constraint on the store
	// is the arbitration point for concurrent find-or-create races; callers
	// recover by re-running the lookup against the row that won.
	ErrDuplicatePlace = errors.New("storage: provider place id already exists")
)

// LocationRepository defines the persistence operations the resolver and the
// HTTP layer need.
type LocationRepository interface {
	// FindByProviderPlaceID returns the location carrying the given provider
	// place id, or ErrNotFound.
	FindByProviderPlaceID(ctx context.Context, providerPlaceID string) (model.Location, error)

	// InsertLocation commits a new location row. Returns ErrDuplicatePlace
	// when a row with the same non-null provider place id already exists.
	InsertLocation(ctx context.Context, loc model.Location) (model.Location, error)

	// InsertCode appends a code contribution to an existing location.
	InsertCode(ctx context.Context, code model.Code) (model.Code, error)

	// ListLocations returns every location, optionally with its codes
	// embedded newest-first.
	ListLocations(ctx context.Context, includeCodes bool) ([]model.Location, error)
}
