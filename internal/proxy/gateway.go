// Package proxy guards the three PMS operations: rate limit, validate, inject the
// server-held credentials, forward, relay.
package proxy

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"lynra/internal/domain"
	apperrors "lynra/internal/errors"
	"lynra/internal/mews"
	"lynra/internal/ratelimit"
	"lynra/internal/validation"

	"go.uber.org/zap"
)

type Policies struct {
	Hotel        ratelimit.Policy
	Availability ratelimit.Policy
	Reservation  ratelimit.Policy
}

// Call is one inbound proxy request.
type Call struct {
	TraceID string
	Caller  string
	// Secret is the X-Internal-Secret value presented by the caller.
	Secret string
	// Trusted marks calls made in-process by this server, which skip the secret check.
	Trusted bool
	Body    []byte
}

type Gateway struct {
	upstream  Upstream
	limiter   RateLimiter
	validator *validation.Validator
	audit     AuditRecorder
	policies  Policies
	secret    string
	logger    *zap.Logger
}

func NewGateway(
	upstream Upstream,
	limiter RateLimiter,
	validator *validation.Validator,
	audit AuditRecorder,
	policies Policies,
	secret string,
	logger *zap.Logger,
) *Gateway {
	return &Gateway{
		upstream:  upstream,
		limiter:   limiter,
		validator: validator,
		audit:     audit,
		policies:  policies,
		secret:    secret,
		logger:    logger,
	}
}

func (g *Gateway) FetchHotelConfig(ctx context.Context, call Call) (*mews.Response, error) {
	logger := g.callLogger(call, g.policies.Hotel)

	if !g.limiter.Allow(g.policies.Hotel, call.Caller) {
		logger.Warn("rate limit exceeded")
		return nil, apperrors.NewRateLimitError(g.policies.Hotel.Key(call.Caller))
	}

	resp, err := g.upstream.GetHotel(ctx, g.validator.Hotel())
	resp, _, err = g.relay(logger, mews.OpHotel, resp, err)
	return resp, err
}

func (g *Gateway) FetchAvailability(ctx context.Context, call Call) (*mews.Response, error) {
	logger := g.callLogger(call, g.policies.Availability)

	if !g.limiter.Allow(g.policies.Availability, call.Caller) {
		logger.Warn("rate limit exceeded")
		return nil, apperrors.NewRateLimitError(g.policies.Availability.Key(call.Caller))
	}

	payload, err := g.validator.Availability(call.Body)
	if err != nil {
		logValidation(logger, err)
		return nil, err
	}

	resp, err := g.upstream.GetAvailability(ctx, payload)
	resp, _, err = g.relay(logger, mews.OpAvailability, resp, err)
	return resp, err
}

// CreateReservation checks the internal secret before the rate limit so that
// unauthenticated callers cannot drain a shared bucket.
func (g *Gateway) CreateReservation(ctx context.Context, call Call) (*mews.Response, error) {
	policy := g.policies.Reservation
	logger := g.callLogger(call, policy)
	started := time.Now()
	entry := domain.AuditEntry{
		TraceID:   call.TraceID,
		CallerKey: policy.Key(call.Caller),
	}

	if !call.Trusted && !g.secretMatches(call.Secret) {
		logger.Warn("reservation rejected: internal secret mismatch")
		entry.Outcome = domain.AuditForbidden
		g.audit.Record(ctx, entry)
		return nil, apperrors.NewForbiddenError("Forbidden")
	}

	if !g.limiter.Allow(policy, call.Caller) {
		logger.Warn("rate limit exceeded")
		entry.Outcome = domain.AuditRateLimited
		g.audit.Record(ctx, entry)
		return nil, apperrors.NewRateLimitError(policy.Key(call.Caller))
	}

	payload, err := g.validator.Reservation(call.Body)
	if err != nil {
		logValidation(logger, err)
		entry.Outcome = domain.AuditRejected
		if ve, ok := apperrors.IsValidationError(err); ok {
			entry.Field = ve.Field()
		}
		g.audit.Record(ctx, entry)
		return nil, err
	}

	resp, err := g.upstream.CreateReservation(ctx, payload)
	resp, status, err := g.relay(logger, mews.OpReservation, resp, err)

	entry.LatencyMS = time.Since(started).Milliseconds()
	entry.UpstreamStatus = status
	entry.Outcome = domain.AuditCreated
	if err != nil {
		entry.Outcome = domain.AuditUpstreamError
	}
	g.audit.Record(ctx, entry)

	return resp, err
}

// relay passes 2xx replies through. Transport failures and non-2xx replies are
// logged in full here and surface to the caller only as upstream errors. The
// returned status is the upstream one, or 0 when no reply arrived.
func (g *Gateway) relay(logger *zap.Logger, op string, resp *mews.Response, err error) (*mews.Response, int, error) {
	if err != nil {
		logger.Error("upstream call failed", zap.String("operation", op), zap.Error(err))
		if _, ok := apperrors.IsUpstreamError(err); ok {
			return nil, 0, err
		}
		return nil, 0, apperrors.NewUpstreamError(op, err)
	}

	if !resp.OK() {
		logger.Error("upstream rejected call",
			zap.String("operation", op),
			zap.Int("status", resp.Status),
			zap.ByteString("body", resp.Body),
		)
		return nil, resp.Status, apperrors.NewUpstreamError(op, fmt.Errorf("status %d", resp.Status))
	}

	return resp, resp.Status, nil
}

func (g *Gateway) secretMatches(presented string) bool {
	if g.secret == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(g.secret)) == 1
}

func (g *Gateway) callLogger(call Call, policy ratelimit.Policy) *zap.Logger {
	return g.logger.With(
		zap.String("traceId", call.TraceID),
		zap.String("callerKey", policy.Key(call.Caller)),
	)
}

func logValidation(logger *zap.Logger, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		logger.Warn("request rejected", zap.String("field", ve.Field()), zap.String("reason", ve.Message))
		return
	}
	logger.Warn("request rejected", zap.Error(err))
}
