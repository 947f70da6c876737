package proxy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"lynra/internal/commons"
	apperrors "lynra/internal/errors"
	"lynra/internal/mews"
	"lynra/internal/ratelimit"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	maxRequestBytes = 64 << 10

	HeaderInternalSecret = "X-Internal-Secret"
	HeaderForwardedFor   = "X-Forwarded-For"

	PathHotel        = "/api/mews/hotel"
	PathAvailability = "/api/mews/availability"
	PathReservation  = "/api/mews/reservation"
)

type Operations interface {
	FetchHotelConfig(ctx context.Context, call Call) (*mews.Response, error)
	FetchAvailability(ctx context.Context, call Call) (*mews.Response, error)
	CreateReservation(ctx context.Context, call Call) (*mews.Response, error)
}

type Controller struct {
	ops    Operations
	logger *zap.Logger
}

func NewController(ops Operations, logger *zap.Logger) *Controller {
	return &Controller{
		ops:    ops,
		logger: logger,
	}
}

func (c *Controller) Routes(r chi.Router) {
	r.Post(PathHotel, c.HandleHotel)
	r.Post(PathAvailability, c.HandleAvailability)
	r.Post(PathReservation, c.HandleReservation)
}

func (c *Controller) HandleHotel(w http.ResponseWriter, r *http.Request) {
	// the body is never read; the upstream request takes no client input
	call := Call{
		TraceID: commons.TraceID(r.Context()),
		Caller:  ratelimit.CallerFromForwardedFor(r.Header.Get(HeaderForwardedFor)),
	}
	resp, err := c.ops.FetchHotelConfig(r.Context(), call)
	c.respond(w, call.TraceID, resp, err)
}

func (c *Controller) HandleAvailability(w http.ResponseWriter, r *http.Request) {
	c.handleWithBody(w, r, c.ops.FetchAvailability)
}

func (c *Controller) HandleReservation(w http.ResponseWriter, r *http.Request) {
	c.handleWithBody(w, r, c.ops.CreateReservation)
}

func (c *Controller) handleWithBody(w http.ResponseWriter, r *http.Request, op func(context.Context, Call) (*mews.Response, error)) {
	call := Call{
		TraceID: commons.TraceID(r.Context()),
		Caller:  ratelimit.CallerFromForwardedFor(r.Header.Get(HeaderForwardedFor)),
		Secret:  r.Header.Get(HeaderInternalSecret),
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		// an oversized or broken body fails validation as malformed JSON
		body = nil
	}
	call.Body = body

	resp, err := op(r.Context(), call)
	c.respond(w, call.TraceID, resp, err)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Controller) respond(w http.ResponseWriter, traceID string, resp *mews.Response, err error) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.Status)
		if _, err := w.Write(resp.Body); err != nil {
			c.logger.Error("failed to write response", zap.String("traceId", traceID), zap.Error(err))
		}
		return
	}

	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Message})
		return
	}
	if _, ok := apperrors.IsRateLimitError(err); ok {
		c.writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Too many requests"})
		return
	}
	if _, ok := apperrors.IsForbiddenError(err); ok {
		c.writeJSON(w, http.StatusForbidden, errorResponse{Error: "Forbidden"})
		return
	}
	if _, ok := apperrors.IsUpstreamError(err); ok {
		c.writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Service unavailable"})
		return
	}

	c.logger.Error("unexpected error", zap.String("traceId", traceID), zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

var _ Operations = (*Gateway)(nil)
