package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"clubrenting-backend/internal/domain"
	"clubrenting-backend/internal/logger"
	"clubrenting-backend/internal/repository"
)

type rentingDataProvider struct {
	cache    repository.InventoryCache
	gateway  repository.InventoryGateway
	rentals  RentalManager
	emailSvc EmailService // optional, nil disables notifications
}

// NewRentingDataProvider wires the renting façade. All collaborators
// are passed in explicitly; the provider holds no global state.
func NewRentingDataProvider(
	cache repository.InventoryCache,
	gateway repository.InventoryGateway,
	rentals RentalManager,
	emailSvc EmailService,
) RentingService {
	return &rentingDataProvider{
		cache:    cache,
		gateway:  gateway,
		rentals:  rentals,
		emailSvc: emailSvc,
	}
}

func (p *rentingDataProvider) GetInventory(ctx context.Context) (map[domain.Section][]domain.InventoryItem, error) {
	cached, err := p.cache.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 {
		logger.Debug("Serving inventory from cache", "sections", len(cached))
		return cached, nil
	}

	// A cache miss is not an error, it triggers the remote fetch.
	sections, err := p.gateway.FetchSections(ctx)
	if err != nil {
		return nil, err
	}
	items, err := p.gateway.FetchItems(ctx, sections)
	if err != nil {
		return nil, err
	}
	if err := p.cache.WriteAll(ctx, sections, items); err != nil {
		return nil, err
	}
	logger.Info("Inventory cache repopulated", "sections", len(sections), "items", len(items))

	// Build the grouped view locally instead of re-reading the cache;
	// sections without items still get an entry.
	catalog := make(map[domain.Section][]domain.InventoryItem, len(sections))
	for _, section := range sections {
		catalog[section] = []domain.InventoryItem{}
	}
	for _, item := range items {
		catalog[item.Section] = append(catalog[item.Section], item)
	}
	return catalog, nil
}

func (p *rentingDataProvider) GetAvailableItems(ctx context.Context) ([]domain.ConstrainedInventoryItem, error) {
	// The inventory read and the rentals fetch are independent; they
	// run concurrently and both must land before reconciliation.
	var (
		inventory map[domain.Section][]domain.InventoryItem
		rentals   []domain.RentingData
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		inventory, err = p.GetInventory(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		rentals, err = p.gateway.FetchRentals(groupCtx)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return ComputeAvailability(inventory, rentals), nil
}

func (p *rentingDataProvider) GetUserRentals(ctx context.Context, userUID string) ([]domain.RentingData, error) {
	return p.gateway.FetchUserRentals(ctx, userUID)
}

func (p *rentingDataProvider) SubmitRental(ctx context.Context, records []domain.RentingData) ([]string, error) {
	ids, err := p.rentals.Submit(ctx, records)
	if err != nil {
		return ids, err
	}

	if p.emailSvc != nil {
		if mailErr := p.emailSvc.SendRentalReceipt(ctx, records); mailErr != nil {
			logger.Warn("Failed to send rental receipt", "error", mailErr)
		}
	}
	return ids, nil
}

func (p *rentingDataProvider) ReturnRental(ctx context.Context, record *domain.RentingData, returnedByUID string) (*domain.RentingData, error) {
	updated, err := p.rentals.MarkReturned(ctx, record, returnedByUID)
	if err != nil {
		return nil, err
	}

	if p.emailSvc != nil {
		if mailErr := p.emailSvc.SendReturnConfirmation(ctx, updated); mailErr != nil {
			logger.Warn("Failed to send return confirmation", "error", mailErr)
		}
	}
	return updated, nil
}

func (p *rentingDataProvider) Invalidate(ctx context.Context) error {
	logger.Info("Invalidating inventory cache")
	return p.cache.Dispose(ctx)
}
