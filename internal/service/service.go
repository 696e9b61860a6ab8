package service

import (
	"context"

	"clubrenting-backend/internal/domain"
)

// RentingService is the façade the API layer and the scheduler consume:
// cache-first inventory reads, availability reconciliation, rental
// submission and returns, and cache invalidation.
type RentingService interface {
	// GetInventory returns the full catalog grouped by section,
	// reading through the local cache: a populated cache is served
	// as-is, an empty one triggers a remote fetch that repopulates it.
	GetInventory(ctx context.Context) (map[domain.Section][]domain.InventoryItem, error)

	// GetAvailableItems returns every catalog item annotated with the
	// quantity still available after subtracting outstanding rentals.
	GetAvailableItems(ctx context.Context) ([]domain.ConstrainedInventoryItem, error)

	// GetUserRentals always reads the remote store; rental records are
	// never cached.
	GetUserRentals(ctx context.Context, userUID string) ([]domain.RentingData, error)

	SubmitRental(ctx context.Context, records []domain.RentingData) ([]string, error)
	ReturnRental(ctx context.Context, record *domain.RentingData, returnedByUID string) (*domain.RentingData, error)

	// Invalidate clears the local catalog mirror.
	Invalidate(ctx context.Context) error
}

// RentalManager validates and writes rental transactions.
type RentalManager interface {
	// Submit validates all records first and writes nothing when any
	// fails. The remote writes themselves are independent inserts: on a
	// mid-batch failure the ids committed so far are returned together
	// with the error.
	Submit(ctx context.Context, records []domain.RentingData) ([]string, error)

	// MarkReturned closes a rental exactly once. Re-return attempts
	// fail with domain.ErrAlreadyReturned.
	MarkReturned(ctx context.Context, record *domain.RentingData, returnedByUID string) (*domain.RentingData, error)
}

// EmailService notifies the club back office about rental activity.
// Failures are logged by callers, never propagated into the rental flow.
type EmailService interface {
	SendRentalReceipt(ctx context.Context, rentals []domain.RentingData) error
	SendReturnConfirmation(ctx context.Context, rental *domain.RentingData) error
}
