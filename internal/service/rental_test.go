package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clubrenting-backend/internal/domain"
)

var submittedAt = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestManager(gateway *MockInventoryGateway) *rentalManager {
	return &rentalManager{
		gateway: gateway,
		now:     func() time.Time { return submittedAt },
	}
}

func TestRentalManager_Submit(t *testing.T) {
	ctx := context.Background()
	start := submittedAt.Add(24 * time.Hour)
	end := submittedAt.Add(72 * time.Hour)
	pricedItem := domain.InventoryItem{
		ID:       "rope60",
		Section:  climbing,
		Quantity: 10,
		Price:    &domain.Price{Amount: 2, Period: domain.PeriodDaily},
	}
	freeItem := domain.InventoryItem{ID: "helmet", Section: caving, Quantity: 5}

	t.Run("Valid batch gets timestamps and ids", func(t *testing.T) {
		gateway := new(MockInventoryGateway)
		manager := newTestManager(gateway)

		records := []domain.RentingData{
			{UserUID: "uid-1", Item: pricedItem, Amount: 1, StartDate: &start, EndDate: &end},
			{UserUID: "uid-1", Item: freeItem, Amount: 2},
		}

		gateway.On("InsertRental", ctx, mock.MatchedBy(func(r *domain.RentingData) bool {
			return r.Timestamp.Equal(submittedAt) && r.Returned == nil
		})).Return("id-1", nil).Once()
		gateway.On("InsertRental", ctx, mock.Anything).Return("id-2", nil).Once()

		ids, err := manager.Submit(ctx, records)
		require.NoError(t, err)
		assert.Equal(t, []string{"id-1", "id-2"}, ids)
		gateway.AssertExpectations(t)
	})

	t.Run("Zero amount rejects the whole batch", func(t *testing.T) {
		gateway := new(MockInventoryGateway)
		manager := newTestManager(gateway)

		records := []domain.RentingData{
			{UserUID: "uid-1", Item: freeItem, Amount: 2},
			{UserUID: "uid-1", Item: freeItem, Amount: 0},
		}

		ids, err := manager.Submit(ctx, records)
		var validationErr *domain.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, 1, validationErr.Index)
		assert.Empty(t, ids)
		gateway.AssertNotCalled(t, "InsertRental", mock.Anything, mock.Anything)
	})

	t.Run("Priced item without dates is rejected", func(t *testing.T) {
		gateway := new(MockInventoryGateway)
		manager := newTestManager(gateway)

		records := []domain.RentingData{
			{UserUID: "uid-1", Item: pricedItem, Amount: 1},
		}

		_, err := manager.Submit(ctx, records)
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		gateway.AssertNotCalled(t, "InsertRental", mock.Anything, mock.Anything)
	})

	t.Run("Priced item with inverted range is rejected", func(t *testing.T) {
		gateway := new(MockInventoryGateway)
		manager := newTestManager(gateway)

		records := []domain.RentingData{
			{UserUID: "uid-1", Item: pricedItem, Amount: 1, StartDate: &end, EndDate: &start},
		}

		_, err := manager.Submit(ctx, records)
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("Free item needs no dates", func(t *testing.T) {
		gateway := new(MockInventoryGateway)
		manager := newTestManager(gateway)

		gateway.On("InsertRental", ctx, mock.Anything).Return("id-1", nil).Once()

		ids, err := manager.Submit(ctx, []domain.RentingData{
			{UserUID: "uid-1", Item: freeItem, Amount: 1},
		})
		assert.NoError(t, err)
		assert.Equal(t, []string{"id-1"}, ids)
	})

	t.Run("Mid-batch failure surfaces committed ids", func(t *testing.T) {
		gateway := new(MockInventoryGateway)
		manager := newTestManager(gateway)

		records := []domain.RentingData{
			{UserUID: "uid-1", Item: freeItem, Amount: 1},
			{UserUID: "uid-1", Item: freeItem, Amount: 2},
		}

		gateway.On("InsertRental", ctx, mock.Anything).Return("id-1", nil).Once()
		gateway.On("InsertRental", ctx, mock.Anything).Return("", domain.ErrRemoteUnavailable).Once()

		ids, err := manager.Submit(ctx, records)
		assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
		assert.Equal(t, []string{"id-1"}, ids)
	})
}

func TestRentalManager_MarkReturned(t *testing.T) {
	ctx := context.Background()
	record := &domain.RentingData{
		ID:      "r1",
		UserUID: "uid-1",
		Item:    domain.InventoryItem{ID: "rope60"},
		Amount:  2,
	}

	t.Run("Sets return data once", func(t *testing.T) {
		gateway := new(MockInventoryGateway)
		manager := newTestManager(gateway)

		expected := domain.ReturnData{ReturnedByUID: "uid-2", Timestamp: submittedAt}
		gateway.On("MarkReturned", ctx, "r1", expected).Return(nil).Once()

		updated, err := manager.MarkReturned(ctx, record, "uid-2")
		require.NoError(t, err)
		require.NotNil(t, updated.Returned)
		assert.Equal(t, "uid-2", updated.Returned.ReturnedByUID)
		// Input record is left untouched.
		assert.Nil(t, record.Returned)
		gateway.AssertExpectations(t)
	})

	t.Run("Already returned locally is rejected without a remote call", func(t *testing.T) {
		gateway := new(MockInventoryGateway)
		manager := newTestManager(gateway)

		returned := *record
		returned.Returned = &domain.ReturnData{ReturnedByUID: "uid-2", Timestamp: submittedAt}

		_, err := manager.MarkReturned(ctx, &returned, "uid-3")
		assert.ErrorIs(t, err, domain.ErrAlreadyReturned)
		gateway.AssertNotCalled(t, "MarkReturned", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Remote guards propagate", func(t *testing.T) {
		gateway := new(MockInventoryGateway)
		manager := newTestManager(gateway)

		gateway.On("MarkReturned", ctx, "r1", mock.Anything).Return(domain.ErrNotFound).Once()

		_, err := manager.MarkReturned(ctx, record, "uid-2")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
