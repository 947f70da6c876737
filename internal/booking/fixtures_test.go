package booking

import (
	"lynra/internal/domain"
)

const (
	roomID        = "0f1b6a6e-3f3a-4c2e-9a55-2d7b4c1e8a01"
	soldOutRoomID = "0f1b6a6e-3f3a-4c2e-9a55-2d7b4c1e8a02"
	strayRoomID   = "0f1b6a6e-3f3a-4c2e-9a55-2d7b4c1e8a03"
	rateID        = "7c2d0b8e-1a4f-4b8e-b1c2-6e5f4d3c2b10"
	breakfastID   = "5a9e2c71-8d4b-4f0a-9c3e-1b2d3e4f5a60"
	parkingID     = "5a9e2c71-8d4b-4f0a-9c3e-1b2d3e4f5a61"
)

func hotelConfig() *domain.HotelConfig {
	return &domain.HotelConfig{
		ID:                  "hotel-1",
		Name:                domain.LocalizedString{"en-US": "Lynra Village"},
		DefaultCurrencyCode: "EUR",
		RoomCategories: []domain.RoomCategory{
			{ID: roomID, Name: domain.LocalizedString{"en-US": "Cabin"}},
			{ID: soldOutRoomID, Name: domain.LocalizedString{"en-US": "Lodge"}},
		},
		Products: []domain.Product{
			{
				ID:             breakfastID,
				AlwaysIncluded: true,
				Prices:         eurAmount(12),
			},
			{
				ID:     parkingID,
				Prices: eurAmount(5),
			},
		},
	}
}

func pricedAvailability(perNight float64, rates ...domain.Rate) *domain.AvailabilityResponse {
	pricing := []domain.PricingItem{{
		RateID: rateID,
		Price: domain.Price{
			AveragePerNight: eurAmount(perNight),
		},
	}}
	return &domain.AvailabilityResponse{
		Rates: rates,
		RoomCategoryAvailabilities: []domain.RoomCategoryAvailability{
			{
				RoomCategoryID:              roomID,
				AvailableRoomCount:          3,
				RoomOccupancyAvailabilities: []domain.RoomOccupancyAvailability{{Pricing: pricing}},
			},
			{RoomCategoryID: soldOutRoomID, AvailableRoomCount: 0},
			{
				RoomCategoryID:              strayRoomID,
				AvailableRoomCount:          1,
				RoomOccupancyAvailabilities: []domain.RoomOccupancyAvailability{{Pricing: pricing}},
			},
		},
	}
}

func guest() domain.Customer {
	return domain.Customer{
		FirstName:       "  Ada ",
		LastName:        "Lovelace",
		Email:           " Ada@Example.COM ",
		Phone:           "+44 20 7946 0000",
		NationalityCode: "GB",
	}
}

func date(s string) *Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

// loaded returns a state on the Dates step with config and dates set.
func loaded() State {
	s := Initial().SetConfig(hotelConfig())
	s, err := s.SetDates(date("2025-06-01"), date("2025-06-04"))
	if err != nil {
		panic(err)
	}
	return s
}

// onRoomStep returns a state on the Room step holding availability priced at perNight.
func onRoomStep(perNight float64) State {
	s, err := loaded().FetchAvailability()
	if err != nil {
		panic(err)
	}
	s, err = s.SetAvailability(pricedAvailability(perNight))
	if err != nil {
		panic(err)
	}
	return s
}

func eurAmount(v float64) map[string]domain.AmountValue {
	return map[string]domain.AmountValue{"EUR": {Currency: "EUR", GrossValue: &v}}
}
