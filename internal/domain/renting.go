package domain

import "time"

// ReturnData records who returned a rental and when. Set exactly once;
// a rental with non-nil ReturnData never becomes outstanding again.
type ReturnData struct {
	ReturnedByUID string    `json:"returned_by"`
	Timestamp     time.Time `json:"timestamp"`
}

// RentingData is one rental record: a member borrowing Amount units of
// Item, optionally over [StartDate, EndDate]. The record is owned by the
// remote store; ID is server-assigned and empty before submission.
type RentingData struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	UserUID   string         `json:"user_uid"`
	Item      InventoryItem  `json:"item"`
	Amount    int64          `json:"amount"`
	StartDate *time.Time     `json:"start_date,omitempty"`
	EndDate   *time.Time     `json:"end_date,omitempty"`
	Returned  *ReturnData    `json:"returned,omitempty"`
}

// HasBeenReturned reports whether the rented items are back in stock.
func (r *RentingData) HasBeenReturned() bool {
	return r.Returned != nil
}

// ConstrainedInventoryItem is an inventory item annotated with the
// quantity currently available given all outstanding rentals. It is a
// transient view, recomputed on every availability query and never
// persisted. AvailableAmount may go negative when the remote data is
// inconsistent; that is surfaced as-is, not clamped.
type ConstrainedInventoryItem struct {
	Item            InventoryItem `json:"item"`
	AvailableAmount int64         `json:"available_amount"`
}

// GroupBySections arranges a flat availability list back into a
// per-section map, preserving the input order within each section.
func GroupBySections(items []ConstrainedInventoryItem) map[Section][]ConstrainedInventoryItem {
	grouped := make(map[Section][]ConstrainedInventoryItem)
	for _, item := range items {
		section := item.Item.Section
		grouped[section] = append(grouped[section], item)
	}
	return grouped
}
