package booking

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"lynra/internal/audit"
	"lynra/internal/commons"
	apperrors "lynra/internal/errors"
	"lynra/internal/mews"
	"lynra/internal/proxy"
	"lynra/internal/ratelimit"
	"lynra/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockOperations struct {
	FetchHotelConfigFunc  func(ctx context.Context, call proxy.Call) (*mews.Response, error)
	FetchAvailabilityFunc func(ctx context.Context, call proxy.Call) (*mews.Response, error)
	CreateReservationFunc func(ctx context.Context, call proxy.Call) (*mews.Response, error)
}

func (m *mockOperations) FetchHotelConfig(ctx context.Context, call proxy.Call) (*mews.Response, error) {
	return m.FetchHotelConfigFunc(ctx, call)
}

func (m *mockOperations) FetchAvailability(ctx context.Context, call proxy.Call) (*mews.Response, error) {
	return m.FetchAvailabilityFunc(ctx, call)
}

func (m *mockOperations) CreateReservation(ctx context.Context, call proxy.Call) (*mews.Response, error) {
	return m.CreateReservationFunc(ctx, call)
}

func TestLocalGateway_PassesCallerAndTrust(t *testing.T) {
	var got proxy.Call
	gw := NewLocalGateway(&mockOperations{
		CreateReservationFunc: func(ctx context.Context, call proxy.Call) (*mews.Response, error) {
			got = call
			return &mews.Response{Status: http.StatusOK, Body: json.RawMessage(`{"Id":"group-1"}`)}, nil
		},
	})
	ctx := commons.WithCaller(commons.WithTraceID(context.Background(), "trace-1"), "10.0.0.9")

	resp, err := gw.Reserve(ctx, ReservationBody{RoomCategoryID: roomID})
	require.NoError(t, err)

	assert.Equal(t, "group-1", resp.BookingReference())
	assert.Equal(t, "trace-1", got.TraceID)
	assert.Equal(t, "10.0.0.9", got.Caller)
	assert.True(t, got.Trusted)
	assert.Empty(t, got.Secret)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(got.Body, &sent))
	assert.Equal(t, roomID, sent["RoomCategoryId"])
}

func TestLocalGateway_PropagatesErrors(t *testing.T) {
	gw := NewLocalGateway(&mockOperations{
		FetchAvailabilityFunc: func(ctx context.Context, call proxy.Call) (*mews.Response, error) {
			return nil, apperrors.NewRateLimitError("availability:unknown")
		},
	})

	_, err := gw.Availability(context.Background(), AvailabilityQuery{})
	_, ok := apperrors.IsRateLimitError(err)
	assert.True(t, ok)
}

func TestLocalGateway_UndecodableBody(t *testing.T) {
	gw := NewLocalGateway(&mockOperations{
		FetchHotelConfigFunc: func(ctx context.Context, call proxy.Call) (*mews.Response, error) {
			return &mews.Response{Status: http.StatusOK, Body: json.RawMessage(`[1,2]`)}, nil
		},
	})

	_, err := gw.HotelConfig(context.Background())
	_, ok := apperrors.IsUpstreamError(err)
	assert.True(t, ok)
}

// TestBookingEndToEnd runs a whole booking through the proxy gateway against a
// stub PMS: 2025-06-01 14:00 to 2025-06-04 11:00, two adults, no rate, no products.
func TestBookingEndToEnd(t *testing.T) {
	var (
		mu          sync.Mutex
		reservation map[string]any
	)
	pms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		switch r.URL.Path {
		case "/api/distributor/v1/hotels/get":
			_ = json.NewEncoder(w).Encode(hotelConfig())
		case "/api/distributor/v1/hotels/getAvailability":
			_ = json.NewEncoder(w).Encode(pricedAvailability(100))
		case "/api/distributor/v1/reservationGroups/create":
			mu.Lock()
			assert.NoError(t, json.Unmarshal(raw, &reservation))
			mu.Unlock()
			_, _ = w.Write([]byte(`{"Id":"group-9","Reservations":[{"Id":"r-1","Number":"4821"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer pms.Close()

	upstream := mews.NewClient(mews.Config{
		BaseURL:      pms.URL,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}, pms.Client(), zap.NewNop())
	validator := validation.New(
		validation.Credentials{Client: "Lynra 1.0", HotelID: "hotel-42"},
		validation.WithNow(func() time.Time { return time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC) }),
	)
	policies := proxy.Policies{
		Hotel:        ratelimit.Policy{Endpoint: "hotel", Limit: 30, Window: time.Minute},
		Availability: ratelimit.Policy{Endpoint: "availability", Limit: 20, Window: time.Minute},
		Reservation:  ratelimit.Policy{Endpoint: "reservation", Limit: 10, Window: time.Hour},
	}
	gateway := proxy.NewGateway(upstream, ratelimit.New(zap.NewNop()), validator, audit.Nop{}, policies, "", zap.NewNop())
	flow := NewFlow(NewMemoryStore(), NewLocalGateway(gateway), DefaultOptions(), zap.NewNop())

	ctx := commons.WithCaller(context.Background(), "203.0.113.7")
	const id = "session-1"

	s, err := flow.Start(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, s.HotelConfig)

	_, err = flow.SetDates(ctx, id, date("2025-06-01"), date("2025-06-04"))
	require.NoError(t, err)
	s, err = flow.SetAdults(ctx, id, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, s.NightCount())

	s, err = flow.CheckAvailability(ctx, id)
	require.NoError(t, err)
	require.Equal(t, StepRoom, s.Step)

	s, err = flow.SelectRoom(ctx, id, roomID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, s.SelectedRoom.Total)

	s, err = flow.ContinueToGuest(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StepGuest, s.Step)

	s, err = flow.SetGuestDetails(ctx, id, guest())
	require.NoError(t, err)
	assert.Equal(t, StepConfirm, s.Step)

	s, err = flow.ConfirmBooking(ctx, id)
	require.NoError(t, err)
	assert.True(t, s.BookingConfirmed)
	assert.Equal(t, "4821", s.BookingReference)

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, reservation)
	assert.Equal(t, "hotel-42", reservation["HotelId"])
	assert.Equal(t, "Lynra 1.0", reservation["Client"])
	assert.Equal(t, true, reservation["FullAmounts"])
	assert.Equal(t, "2025-06-01T14:00:00Z", reservation["StartUtc"])
	assert.Equal(t, "", reservation["RateId"])
	assert.Equal(t, float64(2), reservation["AdultCount"])
	assert.Equal(t, []any{}, reservation["ProductIds"])
	customer := reservation["Customer"].(map[string]any)
	assert.Equal(t, "ada@example.com", customer["Email"])
	assert.Equal(t, "Ada", customer["FirstName"])
}
