package repository

import (
	"context"

	"clubrenting-backend/internal/domain"
)

// InventoryCache is a whole-catalog local mirror of sections and items.
// No partial updates are exposed: the cache is either the full catalog
// or empty.
type InventoryCache interface {
	// ReadAll returns the cached catalog grouped by section. An empty
	// map (never nil) when the cache was never populated or disposed.
	ReadAll(ctx context.Context) (map[domain.Section][]domain.InventoryItem, error)

	// WriteAll replaces the whole catalog in one transaction. A reader
	// running concurrently sees either the fully-old or the fully-new
	// state, never an interleaving.
	WriteAll(ctx context.Context, sections []domain.Section, items []domain.InventoryItem) error

	// Dispose clears all stored sections and items.
	Dispose(ctx context.Context) error
}

// InventoryGateway reads and writes the remote document store. All
// methods return domain.ErrRemoteUnavailable (wrapped) on transport
// failure and *domain.MalformedRecordError when a fetched document is
// missing a required field or carries a wrong type; malformed fetches
// fail as a whole.
type InventoryGateway interface {
	FetchSections(ctx context.Context) ([]domain.Section, error)

	// FetchItems resolves each item's section reference against
	// knownSections by id. When knownSections is empty the gateway
	// fetches the sections itself first.
	FetchItems(ctx context.Context, knownSections []domain.Section) ([]domain.InventoryItem, error)

	// FetchRentals returns every rental record, returned or not.
	FetchRentals(ctx context.Context) ([]domain.RentingData, error)

	FetchUserRentals(ctx context.Context, userUID string) ([]domain.RentingData, error)

	// InsertRental writes one rental record and returns the
	// server-assigned id. Each insert is independent; there is no
	// cross-record transaction.
	InsertRental(ctx context.Context, rental *domain.RentingData) (string, error)

	// MarkReturned sets the returned field of a rental record. Fails
	// with domain.ErrNotFound when the id no longer exists remotely and
	// domain.ErrAlreadyReturned when the record was returned before.
	MarkReturned(ctx context.Context, rentalID string, ret domain.ReturnData) error
}
