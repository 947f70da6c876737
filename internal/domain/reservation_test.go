package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReservationResponse_BookingReference(t *testing.T) {
	tests := []struct {
		name string
		resp *ReservationResponse
		want string
	}{
		{
			name: "reservation number wins",
			resp: &ReservationResponse{
				ID:           "group-1",
				Reservations: []ReservationSummary{{ID: "r-1", Number: "4821"}},
			},
			want: "4821",
		},
		{
			name: "falls back to group id",
			resp: &ReservationResponse{ID: "group-1"},
			want: "group-1",
		},
		{
			name: "empty number falls back to group id",
			resp: &ReservationResponse{ID: "group-1", Reservations: []ReservationSummary{{ID: "r-1"}}},
			want: "group-1",
		},
		{
			name: "nothing known",
			resp: &ReservationResponse{},
			want: UnknownBookingReference,
		},
		{
			name: "nil response",
			resp: nil,
			want: UnknownBookingReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resp.BookingReference())
		})
	}
}

func TestAvailabilityResponse_Bookable(t *testing.T) {
	avail := &AvailabilityResponse{
		RoomCategoryAvailabilities: []RoomCategoryAvailability{
			{RoomCategoryID: "sold-out", AvailableRoomCount: 0},
			{RoomCategoryID: "open", AvailableRoomCount: 2},
		},
	}

	_, ok := avail.Bookable("sold-out")
	assert.False(t, ok)

	rca, ok := avail.Bookable("open")
	assert.True(t, ok)
	assert.Equal(t, 2, rca.AvailableRoomCount)

	_, ok = avail.Bookable("missing")
	assert.False(t, ok)
}

func TestHotelConfig_Lookups(t *testing.T) {
	cfg := &HotelConfig{
		RoomCategories: []RoomCategory{{ID: "cat-1"}},
		Products:       []Product{{ID: "breakfast", AlwaysIncluded: true}},
	}

	_, ok := cfg.RoomCategory("cat-1")
	assert.True(t, ok)
	_, ok = cfg.RoomCategory("cat-2")
	assert.False(t, ok)

	p, ok := cfg.Product("breakfast")
	assert.True(t, ok)
	assert.True(t, p.AlwaysIncluded)
}
