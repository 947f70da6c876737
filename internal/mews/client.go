// Package mews is the outbound client for the Mews distributor API.
package mews

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "lynra/internal/errors"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	pathHotel        = "/api/distributor/v1/hotels/get"
	pathAvailability = "/api/distributor/v1/hotels/getAvailability"
	pathReservation  = "/api/distributor/v1/reservationGroups/create"

	OpHotel        = "hotels/get"
	OpAvailability = "hotels/getAvailability"
	OpReservation  = "reservationGroups/create"

	maxBodyBytes = 8 << 20
)

type Config struct {
	BaseURL      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RPS caps outbound calls across all callers; 0 disables the throttle.
	RPS   float64
	Burst int
}

// Response is an upstream reply relayed as-is. Body is always valid JSON.
type Response struct {
	Status int
	Body   json.RawMessage
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

type Client struct {
	baseURL      string
	http         *http.Client
	throttle     *rate.Limiter
	readTimeout  time.Duration
	writeTimeout time.Duration
	logger       *zap.Logger
}

func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	limit := rate.Inf
	burst := cfg.Burst
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		http:         httpClient,
		throttle:     rate.NewLimiter(limit, burst),
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
		logger:       logger,
	}
}

func (c *Client) GetHotel(ctx context.Context, payload any) (*Response, error) {
	return c.post(ctx, OpHotel, pathHotel, c.readTimeout, payload)
}

func (c *Client) GetAvailability(ctx context.Context, payload any) (*Response, error) {
	return c.post(ctx, OpAvailability, pathAvailability, c.readTimeout, payload)
}

func (c *Client) CreateReservation(ctx context.Context, payload any) (*Response, error) {
	return c.post(ctx, OpReservation, pathReservation, c.writeTimeout, payload)
}

// post sends payload and reads the reply. Transport failures, timeouts and
// non-JSON bodies come back as *apperrors.UpstreamError; any status code with a
// JSON body is returned as a Response.
func (c *Client) post(ctx context.Context, op, path string, timeout time.Duration, payload any) (*Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := c.throttle.Wait(ctx); err != nil {
		return nil, apperrors.NewUpstreamError(op, fmt.Errorf("throttle: %w", err))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode upstream request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build upstream request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, apperrors.NewUpstreamError(op, err)
	}
	if len(raw) > maxBodyBytes {
		return nil, apperrors.NewUpstreamError(op, errors.New("response body too large"))
	}
	if !json.Valid(raw) {
		return nil, apperrors.NewUpstreamError(op, fmt.Errorf("non-JSON response with status %d", resp.StatusCode))
	}

	c.logger.Debug("upstream call completed",
		zap.String("operation", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	return &Response{Status: resp.StatusCode, Body: json.RawMessage(raw)}, nil
}
