package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clubrenting-backend/internal/domain"
)

// MockInventoryCache
type MockInventoryCache struct {
	mock.Mock
}

func (m *MockInventoryCache) ReadAll(ctx context.Context) (map[domain.Section][]domain.InventoryItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Section][]domain.InventoryItem), args.Error(1)
}
func (m *MockInventoryCache) WriteAll(ctx context.Context, sections []domain.Section, items []domain.InventoryItem) error {
	args := m.Called(ctx, sections, items)
	return args.Error(0)
}
func (m *MockInventoryCache) Dispose(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockInventoryGateway
type MockInventoryGateway struct {
	mock.Mock
}

func (m *MockInventoryGateway) FetchSections(ctx context.Context) ([]domain.Section, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Section), args.Error(1)
}
func (m *MockInventoryGateway) FetchItems(ctx context.Context, knownSections []domain.Section) ([]domain.InventoryItem, error) {
	args := m.Called(ctx, knownSections)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}
func (m *MockInventoryGateway) FetchRentals(ctx context.Context) ([]domain.RentingData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentingData), args.Error(1)
}
func (m *MockInventoryGateway) FetchUserRentals(ctx context.Context, userUID string) ([]domain.RentingData, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RentingData), args.Error(1)
}
func (m *MockInventoryGateway) InsertRental(ctx context.Context, rental *domain.RentingData) (string, error) {
	args := m.Called(ctx, rental)
	return args.String(0), args.Error(1)
}
func (m *MockInventoryGateway) MarkReturned(ctx context.Context, rentalID string, ret domain.ReturnData) error {
	args := m.Called(ctx, rentalID, ret)
	return args.Error(0)
}

// MockRentalManager
type MockRentalManager struct {
	mock.Mock
}

func (m *MockRentalManager) Submit(ctx context.Context, records []domain.RentingData) ([]string, error) {
	args := m.Called(ctx, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockRentalManager) MarkReturned(ctx context.Context, record *domain.RentingData, returnedByUID string) (*domain.RentingData, error) {
	args := m.Called(ctx, record, returnedByUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentingData), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRentalReceipt(ctx context.Context, rentals []domain.RentingData) error {
	args := m.Called(ctx, rentals)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnConfirmation(ctx context.Context, rental *domain.RentingData) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
