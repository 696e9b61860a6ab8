package service

import (
	"context"
	"fmt"
	"time"

	"clubrenting-backend/internal/domain"
	"clubrenting-backend/internal/logger"
	"clubrenting-backend/internal/repository"
)

type rentalManager struct {
	gateway repository.InventoryGateway
	now     func() time.Time
}

func NewRentalManager(gateway repository.InventoryGateway) RentalManager {
	return &rentalManager{
		gateway: gateway,
		now:     time.Now,
	}
}

// validateRecord checks the submission preconditions for one record:
// a positive amount, and for priced items a complete, ordered date
// range. Free items may omit dates entirely.
func validateRecord(index int, record *domain.RentingData) error {
	if record.Amount <= 0 {
		return &domain.ValidationError{Index: index, Reason: "amount must be positive"}
	}
	priced := record.Item.Price != nil && record.Item.Price.Period != domain.PeriodNone
	if !priced {
		return nil
	}
	if record.StartDate == nil || record.EndDate == nil {
		return &domain.ValidationError{Index: index, Reason: "priced item requires a start and end date"}
	}
	if record.EndDate.Before(*record.StartDate) {
		return &domain.ValidationError{Index: index, Reason: "end date is before start date"}
	}
	return nil
}

func (m *rentalManager) Submit(ctx context.Context, records []domain.RentingData) ([]string, error) {
	logger.EnterMethod("RentalManager.Submit", "records", len(records))

	// All records are validated before anything is sent: a single bad
	// record rejects the whole batch.
	for i := range records {
		if err := validateRecord(i, &records[i]); err != nil {
			logger.ExitMethodWithError("RentalManager.Submit", err)
			return nil, err
		}
	}

	// The remote store offers no cross-record transaction. Inserts run
	// one by one; a failure mid-batch leaves the earlier records
	// committed, so the ids written so far are surfaced with the error.
	submittedAt := m.now()
	ids := make([]string, 0, len(records))
	for i := range records {
		record := records[i]
		record.Timestamp = submittedAt
		record.Returned = nil

		id, err := m.gateway.InsertRental(ctx, &record)
		if err != nil {
			logger.ExitMethodWithError("RentalManager.Submit", err, "committed", len(ids))
			return ids, fmt.Errorf("submit rental %d of %d: %w", i+1, len(records), err)
		}
		ids = append(ids, id)
	}

	logger.ExitMethod("RentalManager.Submit", "committed", len(ids))
	return ids, nil
}

func (m *rentalManager) MarkReturned(ctx context.Context, record *domain.RentingData, returnedByUID string) (*domain.RentingData, error) {
	logger.EnterMethod("RentalManager.MarkReturned", "rental_id", record.ID)

	if record.HasBeenReturned() {
		return nil, fmt.Errorf("rental %s: %w", record.ID, domain.ErrAlreadyReturned)
	}

	ret := domain.ReturnData{
		ReturnedByUID: returnedByUID,
		Timestamp:     m.now(),
	}
	if err := m.gateway.MarkReturned(ctx, record.ID, ret); err != nil {
		logger.ExitMethodWithError("RentalManager.MarkReturned", err)
		return nil, err
	}

	updated := *record
	updated.Returned = &ret
	logger.ExitMethod("RentalManager.MarkReturned", "rental_id", record.ID)
	return &updated, nil
}
