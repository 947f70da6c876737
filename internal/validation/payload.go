package validation

import "lynra/internal/domain"

// Credentials are the server-held identifiers injected into every outbound body.
// They are never read from a client request.
type Credentials struct {
	Client  string
	HotelID string
}

type HotelRequest struct {
	Client      string `json:"Client"`
	HotelID     string `json:"HotelId"`
	FullAmounts bool   `json:"FullAmounts"`
}

type AvailabilityRequest struct {
	Client       string `json:"Client"`
	HotelID      string `json:"HotelId"`
	FullAmounts  bool   `json:"FullAmounts"`
	StartUtc     string `json:"StartUtc"`
	EndUtc       string `json:"EndUtc"`
	CurrencyCode string `json:"CurrencyCode"`
}

// ReservationRequest is the allow-listed body for reservationGroups/create. It is
// rebuilt field by field from validated input; nothing else in the client body
// reaches the upstream.
type ReservationRequest struct {
	Client         string          `json:"Client"`
	HotelID        string          `json:"HotelId"`
	FullAmounts    bool            `json:"FullAmounts"`
	StartUtc       string          `json:"StartUtc"`
	EndUtc         string          `json:"EndUtc"`
	RoomCategoryID string          `json:"RoomCategoryId"`
	RateID         string          `json:"RateId"`
	AdultCount     int             `json:"AdultCount"`
	ProductIDs     []string        `json:"ProductIds"`
	CurrencyCode   string          `json:"CurrencyCode"`
	Customer       domain.Customer `json:"Customer"`
}
