package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "lynra/internal/errors"
	"lynra/internal/proxy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		switch r.URL.Path {
		case proxy.PathHotel:
			assert.Empty(t, r.Header.Get(proxy.HeaderInternalSecret))
			_ = json.NewEncoder(w).Encode(hotelConfig())
		case proxy.PathAvailability:
			var q AvailabilityQuery
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&q))
			assert.Equal(t, "EUR", q.CurrencyCode)
			_ = json.NewEncoder(w).Encode(pricedAvailability(80))
		case proxy.PathReservation:
			assert.Equal(t, "s3cret", r.Header.Get(proxy.HeaderInternalSecret))
			_, _ = w.Write([]byte(`{"Id":"group-1"}`))
		}
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL+"/", "s3cret", srv.Client())
	ctx := context.Background()

	cfg, err := gw.HotelConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hotel-1", cfg.ID)

	avail, err := gw.Availability(ctx, AvailabilityQuery{StartUtc: "a", EndUtc: "b", CurrencyCode: "EUR"})
	require.NoError(t, err)
	assert.Len(t, avail.RoomCategoryAvailabilities, 3)

	created, err := gw.Reserve(ctx, ReservationBody{})
	require.NoError(t, err)
	assert.Equal(t, "group-1", created.BookingReference())
}

func TestHTTPGateway_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":"Too many requests"}`,
			check: func(t *testing.T, err error) {
				_, ok := apperrors.IsRateLimitError(err)
				assert.True(t, ok)
			},
		},
		{
			name:   "bad gateway surfaces only the status",
			status: http.StatusBadGateway,
			body:   `{"error":"Service unavailable"}`,
			check: func(t *testing.T, err error) {
				_, ok := apperrors.IsUpstreamError(err)
				assert.True(t, ok)
				assert.Contains(t, err.Error(), "502")
				assert.NotContains(t, err.Error(), "Service unavailable")
			},
		},
		{
			name:   "garbage body",
			status: http.StatusOK,
			body:   `<html>`,
			check: func(t *testing.T, err error) {
				_, ok := apperrors.IsUpstreamError(err)
				assert.True(t, ok)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPGateway(srv.URL, "", srv.Client()).HotelConfig(context.Background())
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestHTTPGateway_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPGateway(url, "", nil).HotelConfig(context.Background())
	_, ok := apperrors.IsUpstreamError(err)
	assert.True(t, ok)
}
