package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"lynra/internal/domain"
	apperrors "lynra/internal/errors"
	"lynra/internal/proxy"
)

const maxGatewayResponseBytes = 8 << 20

// HTTPGateway reaches the proxy operations of a running server over HTTP.
type HTTPGateway struct {
	baseURL string
	secret  string
	client  *http.Client
}

func NewHTTPGateway(baseURL, secret string, client *http.Client) *HTTPGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		client:  client,
	}
}

func (g *HTTPGateway) HotelConfig(ctx context.Context) (*domain.HotelConfig, error) {
	var cfg domain.HotelConfig
	if err := g.post(ctx, proxy.PathHotel, struct{}{}, false, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (g *HTTPGateway) Availability(ctx context.Context, query AvailabilityQuery) (*domain.AvailabilityResponse, error) {
	var resp domain.AvailabilityResponse
	if err := g.post(ctx, proxy.PathAvailability, query, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (g *HTTPGateway) Reserve(ctx context.Context, body ReservationBody) (*domain.ReservationResponse, error) {
	var resp domain.ReservationResponse
	if err := g.post(ctx, proxy.PathReservation, body, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// post sends one proxy request. A non-2xx reply surfaces only its status; a 429
// becomes a RateLimitError so callers can tell throttling apart.
func (g *HTTPGateway) post(ctx context.Context, path string, body any, withSecret bool, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperrors.NewInternalError("failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apperrors.NewInternalError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if withSecret {
		req.Header.Set(proxy.HeaderInternalSecret, g.secret)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return apperrors.NewUpstreamError(path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return apperrors.NewRateLimitError(path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewUpstreamError(path, fmt.Errorf("request failed (%d)", resp.StatusCode))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxGatewayResponseBytes)).Decode(out); err != nil {
		return apperrors.NewUpstreamError(path, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}
