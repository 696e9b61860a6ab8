package domain

import (
	"fmt"
	"strings"
)

// PricingPeriod is the time unit a rental price rate is denominated in.
// PeriodNone marks an item that is free to rent.
type PricingPeriod string

const (
	PeriodNone    PricingPeriod = "NONE"
	PeriodHourly  PricingPeriod = "HOURLY"
	PeriodDaily   PricingPeriod = "DAILY"
	PeriodWeekly  PricingPeriod = "WEEKLY"
	PeriodMonthly PricingPeriod = "MONTHLY"
	PeriodYearly  PricingPeriod = "YEARLY"
)

// pricingPeriods is ordered from finest to coarsest. The index in this
// slice is used to pick the coarsest common period when summing prices.
var pricingPeriods = []PricingPeriod{
	PeriodNone,
	PeriodHourly,
	PeriodDaily,
	PeriodWeekly,
	PeriodMonthly,
	PeriodYearly,
}

var periodHours = map[PricingPeriod]float64{
	PeriodNone:    0,
	PeriodHourly:  1,
	PeriodDaily:   24,
	PeriodWeekly:  168,
	PeriodMonthly: 720,
	PeriodYearly:  8760,
}

// HoursPerPeriod returns the fixed number of hours one period spans.
// PeriodNone spans zero hours.
func (p PricingPeriod) HoursPerPeriod() float64 {
	return periodHours[p]
}

// Coarseness returns the rank of the period in the NONE < HOURLY < DAILY
// < WEEKLY < MONTHLY < YEARLY ordering.
func (p PricingPeriod) Coarseness() int {
	for i, period := range pricingPeriods {
		if period == p {
			return i
		}
	}
	return -1
}

// ParsePricingPeriod parses a case-insensitive period name as stored in
// the remote inventory documents.
func ParsePricingPeriod(s string) (PricingPeriod, error) {
	p := PricingPeriod(strings.ToUpper(s))
	if _, ok := periodHours[p]; !ok {
		return PeriodNone, fmt.Errorf("unknown pricing period %q", s)
	}
	return p, nil
}

// Price is a rental rate for an inventory item. Amount is denominated in
// the club's currency per Period.
type Price struct {
	Amount float64       `json:"amount"`
	Period PricingPeriod `json:"period"`
}

// AttributeKey enumerates the item attributes the catalog knows about.
type AttributeKey string

const (
	AttributeBrand  AttributeKey = "brand"
	AttributeColor  AttributeKey = "color"
	AttributeLength AttributeKey = "length"
)

// InventoryItem is one catalog entry. Quantity is the total stock the
// club owns, not the amount currently available; availability is derived
// by subtracting outstanding rentals (see ConstrainedInventoryItem).
// Items are immutable within a session once fetched.
type InventoryItem struct {
	ID          string                  `json:"id"`
	DisplayName string                  `json:"display_name"`
	Section     Section                 `json:"section"`
	Quantity    int64                   `json:"quantity"`
	Attributes  map[AttributeKey]string `json:"attributes"`
	Price       *Price                  `json:"price,omitempty"`
}
