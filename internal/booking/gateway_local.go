package booking

import (
	"context"
	"encoding/json"
	"fmt"

	"lynra/internal/commons"
	"lynra/internal/domain"
	apperrors "lynra/internal/errors"
	"lynra/internal/mews"
	"lynra/internal/proxy"
)

// LocalGateway calls the proxy operations in-process. The caller identity and
// trace id come from the context, so the wizard's clients share the proxy rate
// limits with direct API clients.
type LocalGateway struct {
	ops proxy.Operations
}

func NewLocalGateway(ops proxy.Operations) *LocalGateway {
	return &LocalGateway{ops: ops}
}

func (g *LocalGateway) HotelConfig(ctx context.Context) (*domain.HotelConfig, error) {
	resp, err := g.ops.FetchHotelConfig(ctx, g.call(ctx, nil))
	if err != nil {
		return nil, err
	}
	var cfg domain.HotelConfig
	if err := decode(mews.OpHotel, resp, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (g *LocalGateway) Availability(ctx context.Context, query AvailabilityQuery) (*domain.AvailabilityResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode availability query", err)
	}
	resp, err := g.ops.FetchAvailability(ctx, g.call(ctx, body))
	if err != nil {
		return nil, err
	}
	var avail domain.AvailabilityResponse
	if err := decode(mews.OpAvailability, resp, &avail); err != nil {
		return nil, err
	}
	return &avail, nil
}

func (g *LocalGateway) Reserve(ctx context.Context, reservation ReservationBody) (*domain.ReservationResponse, error) {
	body, err := json.Marshal(reservation)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode reservation", err)
	}
	resp, err := g.ops.CreateReservation(ctx, g.call(ctx, body))
	if err != nil {
		return nil, err
	}
	var created domain.ReservationResponse
	if err := decode(mews.OpReservation, resp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (g *LocalGateway) call(ctx context.Context, body []byte) proxy.Call {
	return proxy.Call{
		TraceID: commons.TraceID(ctx),
		Caller:  commons.Caller(ctx),
		Trusted: true,
		Body:    body,
	}
}

func decode(op string, resp *mews.Response, out any) error {
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return apperrors.NewUpstreamError(op, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}
