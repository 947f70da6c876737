package proxy

import (
	"net/http"

	"lynra/internal/config"
	"lynra/internal/mews"
	"lynra/internal/ratelimit"
	"lynra/internal/validation"

	"go.uber.org/zap"
)

func NewPolicies(cfg config.RateLimitConfig) Policies {
	return Policies{
		Hotel:        ratelimit.Policy{Endpoint: "hotel", Limit: cfg.Hotel.Limit, Window: cfg.Hotel.Window},
		Availability: ratelimit.Policy{Endpoint: "availability", Limit: cfg.Availability.Limit, Window: cfg.Availability.Window},
		Reservation:  ratelimit.Policy{Endpoint: "reservation", Limit: cfg.Reservation.Limit, Window: cfg.Reservation.Window},
	}
}

func NewModule(
	cfg *config.Config,
	limiter RateLimiter,
	audit AuditRecorder,
	httpClient *http.Client,
	logger *zap.Logger,
) (*Controller, *Gateway) {
	upstream := mews.NewClient(mews.Config{
		BaseURL:      cfg.Mews.BaseURL,
		ReadTimeout:  cfg.Mews.ReadTimeout,
		WriteTimeout: cfg.Mews.WriteTimeout,
		RPS:          cfg.Mews.RPS,
		Burst:        cfg.Mews.Burst,
	}, httpClient, logger)

	validator := validation.New(validation.Credentials{
		Client:  cfg.Mews.Client,
		HotelID: cfg.Mews.HotelID,
	})

	gateway := NewGateway(
		upstream,
		limiter,
		validator,
		audit,
		NewPolicies(cfg.RateLimit),
		cfg.Security.InternalSecret,
		logger,
	)

	return NewController(gateway, logger), gateway
}
