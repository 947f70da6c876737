// Package wizard serves the booking progression over HTTP, one server-held
// session per booking.
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"lynra/internal/booking"
	"lynra/internal/commons"
	"lynra/internal/domain"
	apperrors "lynra/internal/errors"
	"lynra/internal/pricing"
	"lynra/internal/proxy"
	"lynra/internal/ratelimit"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	BasePath = "/api/booking/sessions"

	maxBodyBytes = 16 << 10
)

type Flow interface {
	Currency() string
	Start(ctx context.Context, id string) (booking.State, error)
	Get(ctx context.Context, id string) (booking.State, error)
	End(ctx context.Context, id string) error
	ReloadConfig(ctx context.Context, id string) (booking.State, error)
	SetDates(ctx context.Context, id string, checkIn, checkOut *booking.Date) (booking.State, error)
	SetAdults(ctx context.Context, id string, adults int) (booking.State, error)
	CheckAvailability(ctx context.Context, id string) (booking.State, error)
	SelectRoom(ctx context.Context, id, roomCategoryID string) (booking.State, error)
	ToggleProduct(ctx context.Context, id, productID string) (booking.State, error)
	ContinueToGuest(ctx context.Context, id string) (booking.State, error)
	SetGuestDetails(ctx context.Context, id string, details domain.Customer) (booking.State, error)
	ConfirmBooking(ctx context.Context, id string) (booking.State, error)
	GoToStep(ctx context.Context, id string, step booking.Step) (booking.State, error)
	Reset(ctx context.Context, id string) (booking.State, error)
}

type Controller struct {
	flow   Flow
	logger *zap.Logger
}

func NewController(flow Flow, logger *zap.Logger) *Controller {
	return &Controller{
		flow:   flow,
		logger: logger,
	}
}

func (c *Controller) Routes(r chi.Router) {
	r.Route(BasePath, func(r chi.Router) {
		r.Use(withCaller)
		r.Post("/", c.Create)
		r.Route("/{sessionId}", func(r chi.Router) {
			r.Get("/", c.Get)
			r.Delete("/", c.Delete)
			r.Post("/config", c.ReloadConfig)
			r.Put("/dates", c.SetDates)
			r.Put("/adults", c.SetAdults)
			r.Post("/availability", c.CheckAvailability)
			r.Put("/room", c.SelectRoom)
			r.Post("/products/{productId}/toggle", c.ToggleProduct)
			r.Post("/guest", c.ContinueToGuest)
			r.Put("/guest", c.SetGuestDetails)
			r.Post("/confirm", c.ConfirmBooking)
			r.Put("/step", c.GoToStep)
			r.Post("/reset", c.Reset)
		})
	})
}

// withCaller tags the request context with the rate-limit identity used by the
// proxy operations the wizard calls in-process.
func withCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := ratelimit.CallerFromForwardedFor(r.Header.Get(proxy.HeaderForwardedFor))
		next.ServeHTTP(w, r.WithContext(commons.WithCaller(r.Context(), caller)))
	})
}

// View is the session representation returned by every endpoint.
type View struct {
	SessionID  string               `json:"sessionId"`
	State      booking.State        `json:"state"`
	NightCount int                  `json:"nightCount"`
	Actions    []booking.Action     `json:"actions"`
	Rooms      []booking.RoomOption `json:"rooms,omitempty"`
	Summary    *pricing.Summary     `json:"summary,omitempty"`
}

func (c *Controller) view(id string, s booking.State) View {
	v := View{
		SessionID:  id,
		State:      s,
		NightCount: s.NightCount(),
		Actions:    s.AvailableActions(),
		Summary:    s.Summary(),
	}
	if s.Step == booking.StepRoom {
		v.Rooms = s.Rooms(c.flow.Currency())
	}
	return v
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	id := uuid.New().String()
	state, err := c.flow.Start(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.writeJSON(w, http.StatusCreated, c.view(id, state))
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	c.apply(w, r, c.flow.Get)
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := c.sessionID(w, r)
	if !ok {
		return
	}
	if err := c.flow.End(r.Context(), id); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) ReloadConfig(w http.ResponseWriter, r *http.Request) {
	c.apply(w, r, c.flow.ReloadConfig)
}

type datesRequest struct {
	CheckIn  *booking.Date `json:"checkIn"`
	CheckOut *booking.Date `json:"checkOut"`
}

func (c *Controller) SetDates(w http.ResponseWriter, r *http.Request) {
	var req datesRequest
	if !c.decode(w, r, &req) {
		return
	}
	c.apply(w, r, func(ctx context.Context, id string) (booking.State, error) {
		return c.flow.SetDates(ctx, id, req.CheckIn, req.CheckOut)
	})
}

type adultsRequest struct {
	Adults int `json:"adults"`
}

func (c *Controller) SetAdults(w http.ResponseWriter, r *http.Request) {
	var req adultsRequest
	if !c.decode(w, r, &req) {
		return
	}
	c.apply(w, r, func(ctx context.Context, id string) (booking.State, error) {
		return c.flow.SetAdults(ctx, id, req.Adults)
	})
}

func (c *Controller) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	c.apply(w, r, c.flow.CheckAvailability)
}

type roomRequest struct {
	RoomCategoryID string `json:"roomCategoryId"`
}

func (c *Controller) SelectRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if !c.decode(w, r, &req) {
		return
	}
	c.apply(w, r, func(ctx context.Context, id string) (booking.State, error) {
		return c.flow.SelectRoom(ctx, id, req.RoomCategoryID)
	})
}

func (c *Controller) ToggleProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	c.apply(w, r, func(ctx context.Context, id string) (booking.State, error) {
		return c.flow.ToggleProduct(ctx, id, productID)
	})
}

func (c *Controller) ContinueToGuest(w http.ResponseWriter, r *http.Request) {
	c.apply(w, r, c.flow.ContinueToGuest)
}

func (c *Controller) SetGuestDetails(w http.ResponseWriter, r *http.Request) {
	var req domain.Customer
	if !c.decode(w, r, &req) {
		return
	}
	c.apply(w, r, func(ctx context.Context, id string) (booking.State, error) {
		return c.flow.SetGuestDetails(ctx, id, req)
	})
}

func (c *Controller) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	c.apply(w, r, c.flow.ConfirmBooking)
}

type stepRequest struct {
	Step booking.Step `json:"step"`
}

func (c *Controller) GoToStep(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if !c.decode(w, r, &req) {
		return
	}
	c.apply(w, r, func(ctx context.Context, id string) (booking.State, error) {
		return c.flow.GoToStep(ctx, id, req.Step)
	})
}

func (c *Controller) Reset(w http.ResponseWriter, r *http.Request) {
	c.apply(w, r, c.flow.Reset)
}

func (c *Controller) apply(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (booking.State, error)) {
	id, ok := c.sessionID(w, r)
	if !ok {
		return
	}
	state, err := op(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.writeJSON(w, http.StatusOK, c.view(id, state))
}

// sessionID rejects ids this server could never have issued as unknown sessions.
func (c *Controller) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "sessionId")
	if _, err := uuid.Parse(id); err != nil {
		c.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Session not found"})
		return "", false
	}
	return id, true
}

func (c *Controller) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		c.logger.Warn("invalid JSON body",
			zap.String("traceId", commons.TraceID(r.Context())),
			zap.Error(err),
		)
		c.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request"})
		return false
	}
	return true
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Controller) fail(w http.ResponseWriter, r *http.Request, err error) {
	logger := c.logger.With(
		zap.String("traceId", commons.TraceID(r.Context())),
		zap.String("sessionId", chi.URLParam(r, "sessionId")),
	)

	if isTransitionError(err) {
		logger.Debug("action not available", zap.Error(err))
		c.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Message})
		return
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Session not found"})
		return
	}
	if ce, ok := apperrors.IsConflictError(err); ok {
		c.writeJSON(w, http.StatusConflict, errorResponse{Error: ce.Message})
		return
	}
	if _, ok := apperrors.IsRateLimitError(err); ok {
		c.writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many requests"})
		return
	}

	logger.Error("booking session failed", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}

var transitionErrors = []error{
	booking.ErrWrongStep,
	booking.ErrBusy,
	booking.ErrConfigUnavailable,
	booking.ErrConfigLoaded,
	booking.ErrDatesIncomplete,
	booking.ErrInvalidDates,
	booking.ErrInvalidAdults,
	booking.ErrNoAvailability,
	booking.ErrRoomUnavailable,
	booking.ErrRoomUnpriced,
	booking.ErrUnknownProduct,
	booking.ErrNoRoomSelected,
	booking.ErrNoGuestDetails,
	booking.ErrNotInFlight,
	booking.ErrConfirmed,
	booking.ErrInvalidStep,
}

func isTransitionError(err error) bool {
	for _, target := range transitionErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
