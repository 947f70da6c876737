package booking

import "errors"

// Transition errors. Each means the requested action is not available in the
// current state; the state is left unchanged.
var (
	ErrWrongStep         = errors.New("action not available at the current step")
	ErrBusy              = errors.New("an operation is already in progress")
	ErrConfigUnavailable = errors.New("hotel configuration is not loaded")
	ErrConfigLoaded      = errors.New("hotel configuration is already loaded")
	ErrDatesIncomplete   = errors.New("check-in and check-out dates are required")
	ErrInvalidDates      = errors.New("check-out must be after check-in")
	ErrInvalidAdults     = errors.New("adult count is out of range")
	ErrNoAvailability    = errors.New("no availability result to select from")
	ErrRoomUnavailable   = errors.New("room category is not bookable for these dates")
	ErrRoomUnpriced      = errors.New("room category has no price in the booking currency")
	ErrUnknownProduct    = errors.New("unknown product")
	ErrNoRoomSelected    = errors.New("no room selected")
	ErrNoGuestDetails    = errors.New("guest details are missing")
	ErrNotInFlight       = errors.New("no matching operation is in flight")
	ErrConfirmed         = errors.New("booking is already confirmed")
	ErrInvalidStep       = errors.New("step must be between 1 and 4 and not ahead of the current step")
)
