package booking

import (
	"context"
	"time"

	"lynra/internal/domain"
	apperrors "lynra/internal/errors"
	"lynra/internal/validation"

	"go.uber.org/zap"
)

type Options struct {
	Currency string
	Stay     Stay

	ConfigTimeout       time.Duration
	AvailabilityTimeout time.Duration
	ReservationTimeout  time.Duration
}

func DefaultOptions() Options {
	return Options{
		Currency:            validation.DefaultCurrency,
		Stay:                Stay{CheckIn: TimeOfDay{Hour: 14}, CheckOut: TimeOfDay{Hour: 11}},
		ConfigTimeout:       8 * time.Second,
		AvailabilityTimeout: 8 * time.Second,
		ReservationTimeout:  10 * time.Second,
	}
}

// Flow drives booking sessions held in a Store. Each method applies one
// transition; network calls run between two store updates so that a slow PMS
// never holds a session lock, and the loading flag set by the first update keeps
// a second call for the same purpose out.
type Flow struct {
	store   Store
	gateway Gateway
	opts    Options
	logger  *zap.Logger
}

func NewFlow(store Store, gateway Gateway, opts Options, logger *zap.Logger) *Flow {
	if opts.Currency == "" {
		opts.Currency = validation.DefaultCurrency
	}
	return &Flow{
		store:   store,
		gateway: gateway,
		opts:    opts,
		logger:  logger,
	}
}

func (f *Flow) Currency() string {
	return f.opts.Currency
}

// Start creates a session and loads the hotel configuration into it. A failed
// load leaves the session in the config error sub-state.
func (f *Flow) Start(ctx context.Context, id string) (State, error) {
	if err := f.store.Create(ctx, id, Initial()); err != nil {
		return State{}, err
	}
	return f.loadConfig(ctx, id)
}

func (f *Flow) Get(ctx context.Context, id string) (State, error) {
	return f.store.Get(ctx, id)
}

func (f *Flow) End(ctx context.Context, id string) error {
	return f.store.Delete(ctx, id)
}

func (f *Flow) ReloadConfig(ctx context.Context, id string) (State, error) {
	if _, err := f.store.Update(ctx, id, State.ReloadConfig); err != nil {
		return State{}, err
	}
	return f.loadConfig(ctx, id)
}

func (f *Flow) SetDates(ctx context.Context, id string, checkIn, checkOut *Date) (State, error) {
	return f.store.Update(ctx, id, func(s State) (State, error) {
		return s.SetDates(checkIn, checkOut)
	})
}

func (f *Flow) SetAdults(ctx context.Context, id string, adults int) (State, error) {
	return f.store.Update(ctx, id, func(s State) (State, error) {
		return s.SetAdults(adults)
	})
}

func (f *Flow) CheckAvailability(ctx context.Context, id string) (State, error) {
	state, err := f.store.Update(ctx, id, State.FetchAvailability)
	if err != nil {
		return State{}, err
	}
	logger := f.logger.With(zap.String("sessionId", id))

	query, err := state.AvailabilityQuery(f.opts.Stay, f.opts.Currency)
	if err != nil {
		return f.failAvailability(ctx, id, err)
	}

	callCtx, cancel := withTimeout(ctx, f.opts.AvailabilityTimeout)
	resp, err := f.gateway.Availability(callCtx, query)
	cancel()
	if err != nil {
		logger.Warn("availability check failed", zap.Error(err))
		return f.failAvailability(ctx, id, err)
	}

	return f.store.Update(context.WithoutCancel(ctx), id, func(s State) (State, error) {
		return s.SetAvailability(resp)
	})
}

func (f *Flow) SelectRoom(ctx context.Context, id, roomCategoryID string) (State, error) {
	return f.store.Update(ctx, id, func(s State) (State, error) {
		return s.SelectRoom(roomCategoryID, f.opts.Currency)
	})
}

func (f *Flow) ToggleProduct(ctx context.Context, id, productID string) (State, error) {
	return f.store.Update(ctx, id, func(s State) (State, error) {
		return s.ToggleProduct(productID)
	})
}

func (f *Flow) ContinueToGuest(ctx context.Context, id string) (State, error) {
	return f.store.Update(ctx, id, State.AdvanceToGuest)
}

func (f *Flow) SetGuestDetails(ctx context.Context, id string, details domain.Customer) (State, error) {
	return f.store.Update(ctx, id, func(s State) (State, error) {
		return s.SetGuestDetails(details)
	})
}

func (f *Flow) ConfirmBooking(ctx context.Context, id string) (State, error) {
	state, err := f.store.Update(ctx, id, State.SubmitReservation)
	if err != nil {
		return State{}, err
	}
	logger := f.logger.With(zap.String("sessionId", id))

	body, err := state.ReservationBody(f.opts.Stay)
	if err != nil {
		return f.failReservation(ctx, id, err)
	}

	callCtx, cancel := withTimeout(ctx, f.opts.ReservationTimeout)
	resp, err := f.gateway.Reserve(callCtx, body)
	cancel()
	if err != nil {
		logger.Warn("reservation failed", zap.Error(err))
		return f.failReservation(ctx, id, err)
	}

	reference := resp.BookingReference()
	logger.Info("booking confirmed", zap.String("bookingReference", reference))
	return f.store.Update(context.WithoutCancel(ctx), id, func(s State) (State, error) {
		return s.ConfirmReservation(reference)
	})
}

func (f *Flow) GoToStep(ctx context.Context, id string, step Step) (State, error) {
	return f.store.Update(ctx, id, func(s State) (State, error) {
		return s.GoToStep(step)
	})
}

func (f *Flow) Reset(ctx context.Context, id string) (State, error) {
	return f.store.Update(ctx, id, func(s State) (State, error) {
		if s.busy() {
			return s, ErrBusy
		}
		return s.Reset(), nil
	})
}

func (f *Flow) loadConfig(ctx context.Context, id string) (State, error) {
	callCtx, cancel := withTimeout(ctx, f.opts.ConfigTimeout)
	cfg, err := f.gateway.HotelConfig(callCtx)
	cancel()

	ctx = context.WithoutCancel(ctx)
	if err != nil {
		f.logger.Warn("hotel config load failed", zap.String("sessionId", id), zap.Error(err))
		state, updateErr := f.store.Update(ctx, id, func(s State) (State, error) {
			return s.FailConfig(MsgConfigFailed), nil
		})
		return state, surfaced(err, updateErr)
	}

	return f.store.Update(ctx, id, func(s State) (State, error) {
		return s.SetConfig(cfg), nil
	})
}

func (f *Flow) failAvailability(ctx context.Context, id string, cause error) (State, error) {
	state, err := f.store.Update(context.WithoutCancel(ctx), id, func(s State) (State, error) {
		return s.FailAvailability(MsgAvailabilityFailed)
	})
	return state, surfaced(cause, err)
}

func (f *Flow) failReservation(ctx context.Context, id string, cause error) (State, error) {
	state, err := f.store.Update(context.WithoutCancel(ctx), id, func(s State) (State, error) {
		return s.FailReservation(MsgReservationFailed)
	})
	return state, surfaced(cause, err)
}

// surfaced decides what a caller sees after a failed network step has been
// recorded in the state. Only rate limiting is reported; every other failure is
// already visible as the error sub-state.
func surfaced(cause, updateErr error) error {
	if updateErr != nil {
		return updateErr
	}
	if _, ok := apperrors.IsRateLimitError(cause); ok {
		return cause
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
