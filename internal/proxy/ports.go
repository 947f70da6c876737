package proxy

import (
	"context"

	"lynra/internal/domain"
	"lynra/internal/mews"
	"lynra/internal/ratelimit"
)

type Upstream interface {
	GetHotel(ctx context.Context, payload any) (*mews.Response, error)
	GetAvailability(ctx context.Context, payload any) (*mews.Response, error)
	CreateReservation(ctx context.Context, payload any) (*mews.Response, error)
}

type RateLimiter interface {
	Allow(p ratelimit.Policy, caller string) bool
}

type AuditRecorder interface {
	Record(ctx context.Context, entry domain.AuditEntry)
}
