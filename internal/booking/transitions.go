package booking

import (
	"lynra/internal/domain"
	"lynra/internal/pricing"
	"lynra/internal/validation"
)

func (s State) SetConfig(cfg *domain.HotelConfig) State {
	s.HotelConfig = cfg
	s.ConfigLoading = false
	s.ConfigError = ""
	return s
}

func (s State) FailConfig(message string) State {
	s.ConfigLoading = false
	s.ConfigError = message
	return s
}

// ReloadConfig restarts the config load after a failure. A loaded config is
// never fetched twice.
func (s State) ReloadConfig() (State, error) {
	if s.busy() {
		return s, ErrBusy
	}
	if s.HotelConfig != nil {
		return s, ErrConfigLoaded
	}
	s.ConfigLoading = true
	s.ConfigError = ""
	return s, nil
}

// SetDates edits the stay while on the Dates step. Changing either date drops the
// selected room, whose price was computed for the old stay.
func (s State) SetDates(checkIn, checkOut *Date) (State, error) {
	if err := s.editableAt(StepDates); err != nil {
		return s, err
	}
	if checkIn != nil && checkOut != nil && !checkIn.Before(*checkOut) {
		return s, ErrInvalidDates
	}

	if !sameDate(s.CheckIn, checkIn) || !sameDate(s.CheckOut, checkOut) {
		s.SelectedRoom = nil
	}
	s.CheckIn = copyDate(checkIn)
	s.CheckOut = copyDate(checkOut)
	return s, nil
}

func (s State) SetAdults(n int) (State, error) {
	if err := s.editableAt(StepDates); err != nil {
		return s, err
	}
	if n < MinAdults || n > MaxAdults {
		return s, ErrInvalidAdults
	}
	s.Adults = n
	return s, nil
}

// FetchAvailability enters the availability loading sub-state. The previous
// result and any room selected from it are discarded.
func (s State) FetchAvailability() (State, error) {
	if err := s.editableAt(StepDates); err != nil {
		return s, err
	}
	if s.HotelConfig == nil {
		return s, ErrConfigUnavailable
	}
	if s.CheckIn == nil || s.CheckOut == nil {
		return s, ErrDatesIncomplete
	}

	s.AvailabilityLoading = true
	s.AvailabilityError = ""
	s.Availability = nil
	s.SelectedRoom = nil
	return s, nil
}

func (s State) SetAvailability(resp *domain.AvailabilityResponse) (State, error) {
	if !s.AvailabilityLoading {
		return s, ErrNotInFlight
	}
	s.AvailabilityLoading = false
	s.Availability = resp
	s.Step = StepRoom
	return s, nil
}

func (s State) FailAvailability(message string) (State, error) {
	if !s.AvailabilityLoading {
		return s, ErrNotInFlight
	}
	s.AvailabilityLoading = false
	s.AvailabilityError = message
	return s, nil
}

// SelectRoom snapshots a category from the current availability result, priced in
// currency. It does not advance the step.
func (s State) SelectRoom(roomCategoryID, currency string) (State, error) {
	if err := s.editableAt(StepRoom); err != nil {
		return s, err
	}
	if s.Availability == nil || s.HotelConfig == nil {
		return s, ErrNoAvailability
	}

	category, ok := s.HotelConfig.RoomCategory(roomCategoryID)
	if !ok {
		return s, ErrRoomUnavailable
	}
	avail, ok := s.Availability.Bookable(roomCategoryID)
	if !ok {
		return s, ErrRoomUnavailable
	}

	nights := s.NightCount()
	quote := pricing.Extract(avail, s.Availability.Rates, currency, nights)
	if quote == nil {
		return s, ErrRoomUnpriced
	}

	s.SelectedRoom = &SelectedRoom{
		Category:     category,
		Availability: avail,
		Rate:         quote.Rate,
		PerNight:     quote.PerNight,
		Total:        quote.Total,
		CurrencyCode: currency,
		NightCount:   nights,
	}
	return s, nil
}

// ToggleProduct adds or removes an optional add-on. Always-included products are
// implicit, so toggling one leaves the selection unchanged.
func (s State) ToggleProduct(productID string) (State, error) {
	if err := s.editableAt(StepRoom); err != nil {
		return s, err
	}
	if s.HotelConfig == nil {
		return s, ErrConfigUnavailable
	}
	product, ok := s.HotelConfig.Product(productID)
	if !ok {
		return s, ErrUnknownProduct
	}
	if product.AlwaysIncluded {
		return s, nil
	}

	ids := make([]string, 0, len(s.SelectedProductIDs)+1)
	for _, id := range s.SelectedProductIDs {
		if id != productID {
			ids = append(ids, id)
		}
	}
	if len(ids) == len(s.SelectedProductIDs) {
		ids = append(ids, productID)
	}
	s.SelectedProductIDs = ids
	return s, nil
}

func (s State) AdvanceToGuest() (State, error) {
	if err := s.editableAt(StepRoom); err != nil {
		return s, err
	}
	if s.SelectedRoom == nil {
		return s, ErrNoRoomSelected
	}
	s.Step = StepGuest
	return s, nil
}

// SetGuestDetails validates and stores the guest record, then advances to Confirm.
// Validation failures are returned as *apperrors.ValidationError.
func (s State) SetGuestDetails(details domain.Customer) (State, error) {
	if err := s.editableAt(StepGuest); err != nil {
		return s, err
	}
	if s.SelectedRoom == nil {
		return s, ErrNoRoomSelected
	}

	normalized, err := validation.Customer(details)
	if err != nil {
		return s, err
	}
	s.GuestDetails = &normalized
	s.Step = StepConfirm
	return s, nil
}

func (s State) SubmitReservation() (State, error) {
	if err := s.editableAt(StepConfirm); err != nil {
		return s, err
	}
	if s.SelectedRoom == nil {
		return s, ErrNoRoomSelected
	}
	if s.GuestDetails == nil {
		return s, ErrNoGuestDetails
	}
	if s.CheckIn == nil || s.CheckOut == nil {
		return s, ErrDatesIncomplete
	}

	s.ReservationLoading = true
	s.ReservationError = ""
	return s, nil
}

func (s State) ConfirmReservation(reference string) (State, error) {
	if !s.ReservationLoading {
		return s, ErrNotInFlight
	}
	s.ReservationLoading = false
	s.BookingConfirmed = true
	s.BookingReference = reference
	s.Step = StepConfirm
	return s, nil
}

// FailReservation keeps the Confirm step so the reservation can be retried.
func (s State) FailReservation(message string) (State, error) {
	if !s.ReservationLoading {
		return s, ErrNotInFlight
	}
	s.ReservationLoading = false
	s.ReservationError = message
	return s, nil
}

// GoToStep moves back (or stays) for editing. Data entered for later steps is
// kept; only a new availability fetch discards the selected room.
func (s State) GoToStep(step Step) (State, error) {
	if !step.Valid() || step > s.Step {
		return s, ErrInvalidStep
	}
	if s.BookingConfirmed {
		return s, ErrConfirmed
	}
	if s.busy() {
		return s, ErrBusy
	}
	s.Step = step
	return s, nil
}

// Reset starts a new booking with the already loaded hotel configuration.
func (s State) Reset() State {
	next := Initial()
	next.HotelConfig = s.HotelConfig
	next.ConfigLoading = false
	return next
}

func (s State) editableAt(step Step) error {
	if s.BookingConfirmed {
		return ErrConfirmed
	}
	if s.busy() {
		return ErrBusy
	}
	if s.Step != step {
		return ErrWrongStep
	}
	return nil
}

func sameDate(a, b *Date) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func copyDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
