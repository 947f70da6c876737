package domain

// Customer is the guest contact/identity record sent with a reservation.
type Customer struct {
	FirstName       string `json:"FirstName"`
	LastName        string `json:"LastName"`
	Email           string `json:"Email"`
	Phone           string `json:"Phone"`
	NationalityCode string `json:"NationalityCode"`
}

type ReservationSummary struct {
	ID     string `json:"Id"`
	Number string `json:"Number"`
}

type ReservationResponse struct {
	ID                 string               `json:"Id,omitempty"`
	ReservationGroupID string               `json:"ReservationGroupId,omitempty"`
	Reservations       []ReservationSummary `json:"Reservations,omitempty"`
}

const UnknownBookingReference = "N/A"

// BookingReference prefers the first reservation number, then the group id.
func (r *ReservationResponse) BookingReference() string {
	if r == nil {
		return UnknownBookingReference
	}
	if len(r.Reservations) > 0 && r.Reservations[0].Number != "" {
		return r.Reservations[0].Number
	}
	if r.ID != "" {
		return r.ID
	}
	return UnknownBookingReference
}
