// Package booking owns the guest-facing booking progression: an immutable State,
// pure transitions over it, and a Flow that drives the network calls.
package booking

import "lynra/internal/domain"

type Step int

const (
	StepDates   Step = 1
	StepRoom    Step = 2
	StepGuest   Step = 3
	StepConfirm Step = 4
)

func (s Step) Valid() bool {
	return s >= StepDates && s <= StepConfirm
}

const (
	MinAdults = 1
	MaxAdults = 10
)

// Messages shown when a network step fails. Upstream detail is never surfaced.
const (
	MsgConfigFailed       = "Unable to load hotel information. Please refresh."
	MsgAvailabilityFailed = "No availability for these dates. Adjust your selection to continue."
	MsgReservationFailed  = "Unable to complete your booking. Please review your details and try again."
)

// SelectedRoom is a snapshot taken from the availability result that was current
// when the room was chosen.
type SelectedRoom struct {
	Category     domain.RoomCategory             `json:"category"`
	Availability domain.RoomCategoryAvailability `json:"availability"`
	Rate         *domain.Rate                    `json:"rate"`
	PerNight     float64                         `json:"perNight"`
	Total        float64                         `json:"total"`
	CurrencyCode string                          `json:"currencyCode"`
	NightCount   int                             `json:"nightCount"`
}

// State is one session's wizard state. Transitions never mutate a State; they
// return a new one. Referenced config and availability values are shared and must
// be treated as read-only.
type State struct {
	Step Step `json:"step"`

	HotelConfig   *domain.HotelConfig `json:"hotelConfig"`
	ConfigLoading bool                `json:"configLoading"`
	ConfigError   string              `json:"configError,omitempty"`

	CheckIn  *Date `json:"checkIn"`
	CheckOut *Date `json:"checkOut"`
	Adults   int   `json:"adults"`

	Availability        *domain.AvailabilityResponse `json:"availability"`
	AvailabilityLoading bool                         `json:"availabilityLoading"`
	AvailabilityError   string                       `json:"availabilityError,omitempty"`
	SelectedRoom        *SelectedRoom                `json:"selectedRoom"`
	SelectedProductIDs  []string                     `json:"selectedProductIds"`

	GuestDetails *domain.Customer `json:"guestDetails"`

	ReservationLoading bool   `json:"reservationLoading"`
	ReservationError   string `json:"reservationError,omitempty"`
	BookingConfirmed   bool   `json:"bookingConfirmed"`
	BookingReference   string `json:"bookingReference,omitempty"`
}

func Initial() State {
	return State{
		Step:               StepDates,
		ConfigLoading:      true,
		Adults:             MinAdults,
		SelectedProductIDs: []string{},
	}
}

// NightCount is the day difference between the dates, or 1 while either is unset.
func (s State) NightCount() int {
	if s.CheckIn == nil || s.CheckOut == nil {
		return 1
	}
	return DaysBetween(*s.CheckIn, *s.CheckOut)
}

func (s State) busy() bool {
	return s.ConfigLoading || s.AvailabilityLoading || s.ReservationLoading
}

func (s State) hasProduct(id string) bool {
	for _, p := range s.SelectedProductIDs {
		if p == id {
			return true
		}
	}
	return false
}

// EffectiveProductIDs is the stored selection plus every always-included product.
func (s State) EffectiveProductIDs() []string {
	ids := append([]string{}, s.SelectedProductIDs...)
	if s.HotelConfig == nil {
		return ids
	}
	for _, p := range s.HotelConfig.Products {
		if p.AlwaysIncluded && !s.hasProduct(p.ID) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
