package utils

import (
	"time"

	"clubrenting-backend/internal/domain"
)

// CalculatePrice computes the cost of renting at the given rate over
// [startDate, endDate]. Fractional hours are allowed. Returns
// domain.ErrInvalidRange when endDate precedes startDate.
//
// The rate is scaled by both the period's hour span and the elapsed
// hours. All call sites go through this function so the billing rule can
// be changed in one place.
func CalculatePrice(price domain.Price, startDate, endDate time.Time) (float64, error) {
	if endDate.Before(startDate) {
		return 0, domain.ErrInvalidRange
	}
	elapsedHours := endDate.Sub(startDate).Hours()
	return price.Amount * price.Period.HoursPerPeriod() * elapsedHours, nil
}

// SumPrices merges a heterogeneous bag of per-item prices into a single
// total denominated in the coarsest period present. Rates in finer
// periods are rescaled by the ratio of hour spans; free (PeriodNone)
// entries contribute nothing. An empty input sums to (0, PeriodNone).
//
// Two items at 2/week and 5/month merge to roughly 13.57/month: the
// weekly rate is rescaled by 720/168 before summing.
func SumPrices(prices []domain.Price) (float64, domain.PricingPeriod) {
	commonPeriod := domain.PeriodNone
	for _, price := range prices {
		if price.Period.Coarseness() > commonPeriod.Coarseness() {
			commonPeriod = price.Period
		}
	}
	if commonPeriod == domain.PeriodNone {
		return 0, domain.PeriodNone
	}

	var total float64
	for _, price := range prices {
		hours := price.Period.HoursPerPeriod()
		if hours == 0 {
			// Free entries would divide by zero; they cost nothing.
			continue
		}
		total += price.Amount * (commonPeriod.HoursPerPeriod() / hours)
	}
	return total, commonPeriod
}

// RentalCost derives the cost owed for a rental record. The second
// return value is false when no cost applies: the item is free, has no
// price, or the record has no complete date range.
func RentalCost(r *domain.RentingData) (float64, bool, error) {
	if r.Item.Price == nil || r.Item.Price.Period == domain.PeriodNone {
		return 0, false, nil
	}
	if r.StartDate == nil || r.EndDate == nil {
		return 0, false, nil
	}
	cost, err := CalculatePrice(*r.Item.Price, *r.StartDate, *r.EndDate)
	if err != nil {
		return 0, false, err
	}
	return cost, true, nil
}
