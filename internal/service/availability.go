package service

import (
	"sort"

	"clubrenting-backend/internal/domain"
)

// ComputeAvailability combines the full inventory with all rental
// records and emits, per item, the quantity still available. Rentals
// that have been returned do not count against availability. The result
// is ordered by section id, keeping each section's item order, so the
// output is stable for a given input.
//
// Pure: no network, no storage, no clock. A negative AvailableAmount
// means the remote data over-commits an item; it is reported as-is.
func ComputeAvailability(inventory map[domain.Section][]domain.InventoryItem, rentals []domain.RentingData) []domain.ConstrainedInventoryItem {
	outstanding := make(map[string]int64)
	for _, rental := range rentals {
		if rental.HasBeenReturned() {
			continue
		}
		outstanding[rental.Item.ID] += rental.Amount
	}

	sections := make([]domain.Section, 0, len(inventory))
	for section := range inventory {
		sections = append(sections, section)
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].ID < sections[j].ID })

	var constrained []domain.ConstrainedInventoryItem
	for _, section := range sections {
		for _, item := range inventory[section] {
			constrained = append(constrained, domain.ConstrainedInventoryItem{
				Item:            item,
				AvailableAmount: item.Quantity - outstanding[item.ID],
			})
		}
	}
	return constrained
}
