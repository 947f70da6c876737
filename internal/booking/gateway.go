package booking

import (
	"context"

	"lynra/internal/domain"
)

const utcLayout = "2006-01-02T15:04:05Z"

// AvailabilityQuery is the client body of the availability proxy operation.
type AvailabilityQuery struct {
	StartUtc     string `json:"StartUtc"`
	EndUtc       string `json:"EndUtc"`
	CurrencyCode string `json:"CurrencyCode"`
}

// ReservationBody is the client body of the reservation proxy operation. The
// server adds the PMS credentials.
type ReservationBody struct {
	StartUtc       string          `json:"StartUtc"`
	EndUtc         string          `json:"EndUtc"`
	RoomCategoryID string          `json:"RoomCategoryId"`
	RateID         string          `json:"RateId"`
	AdultCount     int             `json:"AdultCount"`
	ProductIDs     []string        `json:"ProductIds"`
	CurrencyCode   string          `json:"CurrencyCode"`
	Customer       domain.Customer `json:"Customer"`
}

// Gateway is how a Flow reaches the three proxy operations.
type Gateway interface {
	HotelConfig(ctx context.Context) (*domain.HotelConfig, error)
	Availability(ctx context.Context, query AvailabilityQuery) (*domain.AvailabilityResponse, error)
	Reserve(ctx context.Context, body ReservationBody) (*domain.ReservationResponse, error)
}

// Stay fixes the times of day used when the stay dates are sent upstream.
type Stay struct {
	CheckIn  TimeOfDay
	CheckOut TimeOfDay
}

// AvailabilityQuery builds the availability request for the state's dates.
func (s State) AvailabilityQuery(stay Stay, currency string) (AvailabilityQuery, error) {
	if s.CheckIn == nil || s.CheckOut == nil {
		return AvailabilityQuery{}, ErrDatesIncomplete
	}
	return AvailabilityQuery{
		StartUtc:     s.CheckIn.At(stay.CheckIn).Format(utcLayout),
		EndUtc:       s.CheckOut.At(stay.CheckOut).Format(utcLayout),
		CurrencyCode: currency,
	}, nil
}

// ReservationBody builds the reservation request from the selected room and guest.
// Only the stored product selection is sent.
func (s State) ReservationBody(stay Stay) (ReservationBody, error) {
	if s.CheckIn == nil || s.CheckOut == nil {
		return ReservationBody{}, ErrDatesIncomplete
	}
	if s.SelectedRoom == nil {
		return ReservationBody{}, ErrNoRoomSelected
	}
	if s.GuestDetails == nil {
		return ReservationBody{}, ErrNoGuestDetails
	}

	rateID := ""
	if s.SelectedRoom.Rate != nil {
		rateID = s.SelectedRoom.Rate.ID
	}

	return ReservationBody{
		StartUtc:       s.CheckIn.At(stay.CheckIn).Format(utcLayout),
		EndUtc:         s.CheckOut.At(stay.CheckOut).Format(utcLayout),
		RoomCategoryID: s.SelectedRoom.Category.ID,
		RateID:         rateID,
		AdultCount:     s.Adults,
		ProductIDs:     append([]string{}, s.SelectedProductIDs...),
		CurrencyCode:   s.SelectedRoom.CurrencyCode,
		Customer:       *s.GuestDetails,
	}, nil
}
