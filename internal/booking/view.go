package booking

import (
	"lynra/internal/domain"
	"lynra/internal/pricing"
)

type Action string

const (
	ActionReloadConfig      Action = "reloadConfig"
	ActionSetDates          Action = "setDates"
	ActionSetAdults         Action = "setAdults"
	ActionCheckAvailability Action = "checkAvailability"
	ActionSelectRoom        Action = "selectRoom"
	ActionToggleProduct     Action = "toggleProduct"
	ActionContinueToGuest   Action = "continueToGuest"
	ActionSetGuestDetails   Action = "setGuestDetails"
	ActionConfirmBooking    Action = "confirmBooking"
	ActionGoToStep          Action = "goToStep"
	ActionReset             Action = "reset"
)

// AvailableActions lists what a client may trigger now. Anything else would be
// refused by the matching transition.
func (s State) AvailableActions() []Action {
	if s.BookingConfirmed {
		return []Action{ActionReset}
	}
	if s.busy() {
		return []Action{}
	}
	if s.HotelConfig == nil {
		return []Action{ActionReloadConfig}
	}

	actions := []Action{}
	switch s.Step {
	case StepDates:
		actions = append(actions, ActionSetDates, ActionSetAdults)
		if s.CheckIn != nil && s.CheckOut != nil {
			actions = append(actions, ActionCheckAvailability)
		}
	case StepRoom:
		actions = append(actions, ActionSelectRoom, ActionToggleProduct)
		if s.SelectedRoom != nil {
			actions = append(actions, ActionContinueToGuest)
		}
	case StepGuest:
		actions = append(actions, ActionSetGuestDetails)
	case StepConfirm:
		if s.SelectedRoom != nil && s.GuestDetails != nil {
			actions = append(actions, ActionConfirmBooking)
		}
	}
	if s.Step > StepDates {
		actions = append(actions, ActionGoToStep)
	}
	return append(actions, ActionReset)
}

// RoomOption is one selectable room category on the Room step.
type RoomOption struct {
	Category     domain.RoomCategory             `json:"category"`
	Availability domain.RoomCategoryAvailability `json:"availability"`
	Quote        *pricing.Quote                  `json:"quote"`
}

// Rooms lists the categories that have a free room and are known to the hotel
// configuration. Quote is nil when no price exists in currency.
func (s State) Rooms(currency string) []RoomOption {
	rooms := []RoomOption{}
	if s.Availability == nil || s.HotelConfig == nil {
		return rooms
	}
	nights := s.NightCount()
	for _, rca := range s.Availability.RoomCategoryAvailabilities {
		if rca.AvailableRoomCount <= 0 {
			continue
		}
		category, ok := s.HotelConfig.RoomCategory(rca.RoomCategoryID)
		if !ok {
			continue
		}
		rooms = append(rooms, RoomOption{
			Category:     category,
			Availability: rca,
			Quote:        pricing.Extract(rca, s.Availability.Rates, currency, nights),
		})
	}
	return rooms
}

// Summary totals the selected room and products. It is nil until a room is selected.
func (s State) Summary() *pricing.Summary {
	if s.SelectedRoom == nil || s.HotelConfig == nil {
		return nil
	}
	ids := s.EffectiveProductIDs()
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	summary := pricing.Summarize(
		s.SelectedRoom.Total,
		s.SelectedRoom.CurrencyCode,
		s.NightCount(),
		s.HotelConfig.Products,
		selected,
	)
	return &summary
}
