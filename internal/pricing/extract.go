// Package pricing derives room and booking prices from PMS availability data.
package pricing

import "lynra/internal/domain"

// Quote is the price of one room category for a stay. Rate is nil when the
// availability carried no rate catalogue.
type Quote struct {
	Rate     *domain.Rate `json:"rate"`
	PerNight float64      `json:"perNight"`
	Total    float64      `json:"total"`
}

// Extract prices a room from its first occupancy and pricing entry. It returns nil
// when no per-night gross amount exists for currency. A missing total is derived as
// perNight * nights.
//
// An unknown rate id resolves to the first rate in the catalogue.
func Extract(avail domain.RoomCategoryAvailability, rates []domain.Rate, currency string, nights int) *Quote {
	if len(avail.RoomOccupancyAvailabilities) == 0 {
		return nil
	}
	occupancy := avail.RoomOccupancyAvailabilities[0]
	if len(occupancy.Pricing) == 0 {
		return nil
	}
	item := occupancy.Pricing[0]

	perNight := item.Price.AveragePerNight[currency].GrossValue
	if perNight == nil {
		return nil
	}

	total := *perNight * float64(nights)
	if t := item.Price.Total[currency].GrossValue; t != nil {
		total = *t
	}

	return &Quote{
		Rate:     matchRate(rates, item.RateID),
		PerNight: *perNight,
		Total:    total,
	}
}

func matchRate(rates []domain.Rate, id string) *domain.Rate {
	if len(rates) == 0 {
		return nil
	}
	for i := range rates {
		if rates[i].ID == id {
			r := rates[i]
			return &r
		}
	}
	r := rates[0]
	return &r
}
