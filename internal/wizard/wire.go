package wizard

import (
	"fmt"

	"lynra/internal/booking"
	"lynra/internal/config"
	"lynra/internal/proxy"

	"go.uber.org/zap"
)

func NewOptions(cfg config.BookingConfig) (booking.Options, error) {
	checkIn, err := booking.ParseTimeOfDay(cfg.CheckInTime)
	if err != nil {
		return booking.Options{}, fmt.Errorf("check-in time: %w", err)
	}
	checkOut, err := booking.ParseTimeOfDay(cfg.CheckOutTime)
	if err != nil {
		return booking.Options{}, fmt.Errorf("check-out time: %w", err)
	}

	return booking.Options{
		Currency:            cfg.Currency,
		Stay:                booking.Stay{CheckIn: checkIn, CheckOut: checkOut},
		ConfigTimeout:       cfg.ConfigTimeout,
		AvailabilityTimeout: cfg.AvailabilityTimeout,
		ReservationTimeout:  cfg.ReservationTimeout,
	}, nil
}

// NewModule builds the wizard on top of the in-process proxy operations, so
// wizard traffic is rate limited and validated like direct API traffic.
func NewModule(cfg *config.Config, store booking.Store, ops proxy.Operations, logger *zap.Logger) (*Controller, error) {
	opts, err := NewOptions(cfg.Booking)
	if err != nil {
		return nil, err
	}
	flow := booking.NewFlow(store, booking.NewLocalGateway(ops), opts, logger.Named("booking"))
	return NewController(flow, logger), nil
}

var _ Flow = (*booking.Flow)(nil)
