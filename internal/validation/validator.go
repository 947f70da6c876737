// Package validation allow-lists the fields a client may send to the PMS proxy
// and rebuilds the outbound bodies from them.
//
// Checks run in a fixed order and stop at the first violation.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strings"
	"time"

	"lynra/internal/domain"
	apperrors "lynra/internal/errors"
)

type Validator struct {
	creds Credentials
	now   func() time.Time
}

type Option func(*Validator)

// WithNow replaces the clock used for the past-date check.
func WithNow(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

func New(creds Credentials, opts ...Option) *Validator {
	v := &Validator{
		creds: creds,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Hotel builds the hotels/get body. The client body is ignored.
func (v *Validator) Hotel() HotelRequest {
	return HotelRequest{
		Client:      v.creds.Client,
		HotelID:     v.creds.HotelID,
		FullAmounts: true,
	}
}

// Availability validates the date range. An absent or unknown currency falls back
// to DefaultCurrency rather than failing.
func (v *Validator) Availability(body []byte) (*AvailabilityRequest, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	start, end, err := checkDateRange(obj)
	if err != nil {
		return nil, err
	}

	currency, _ := obj["CurrencyCode"].(string)
	if !IsAllowedCurrency(currency) {
		currency = DefaultCurrency
	}

	return &AvailabilityRequest{
		Client:       v.creds.Client,
		HotelID:      v.creds.HotelID,
		FullAmounts:  true,
		StartUtc:     start,
		EndUtc:       end,
		CurrencyCode: currency,
	}, nil
}

func (v *Validator) Reservation(body []byte) (*ReservationRequest, error) {
	obj, err := decodeObject(body)
	if err != nil {
		return nil, err
	}

	// Dates
	start, end, err := checkDateRange(obj)
	if err != nil {
		return nil, err
	}
	startAt, _ := time.Parse(time.RFC3339Nano, start)
	if startAt.Before(startOfDay(v.now())) {
		return nil, apperrors.NewFieldError("StartUtc", MsgStartInPast)
	}

	// Room and rate
	roomID, _ := obj["RoomCategoryId"].(string)
	if !IsUUID(roomID) {
		return nil, apperrors.NewFieldError("RoomCategoryId", MsgInvalidRoom)
	}
	rateID, isString := obj["RateId"].(string)
	if !isString || (rateID != "" && !IsUUID(rateID)) {
		return nil, apperrors.NewFieldError("RateId", MsgInvalidRate)
	}

	// Occupancy
	adults, ok := integer(obj["AdultCount"])
	if !ok || adults < 1 || adults > MaxAdultCount {
		return nil, apperrors.NewFieldError("AdultCount", MsgInvalidGuestCount)
	}

	// Products
	rawProducts, ok := obj["ProductIds"].([]any)
	if !ok || len(rawProducts) > MaxProducts {
		return nil, apperrors.NewFieldError("ProductIds", MsgInvalidProducts)
	}
	productIDs := make([]string, 0, len(rawProducts))
	for _, raw := range rawProducts {
		id, ok := raw.(string)
		if !ok || !IsUUID(id) {
			return nil, apperrors.NewFieldError("ProductIds", MsgInvalidProduct)
		}
		productIDs = append(productIDs, id)
	}

	// Currency: pattern first, then the allow-list
	currency, _ := obj["CurrencyCode"].(string)
	if !IsCurrencyCode(currency) {
		return nil, apperrors.NewFieldError("CurrencyCode", MsgInvalidCurrency)
	}

	// Customer
	rawCustomer, ok := obj["Customer"].(map[string]any)
	if !ok {
		return nil, apperrors.NewFieldError("Customer", MsgMissingCustomer)
	}
	customer, err := Customer(customerFrom(rawCustomer))
	if err != nil {
		return nil, err
	}

	return &ReservationRequest{
		Client:         v.creds.Client,
		HotelID:        v.creds.HotelID,
		FullAmounts:    true,
		StartUtc:       start,
		EndUtc:         end,
		RoomCategoryID: roomID,
		RateID:         rateID,
		AdultCount:     adults,
		ProductIDs:     productIDs,
		CurrencyCode:   currency,
		Customer:       customer,
	}, nil
}

// Customer checks a guest record and returns it normalized: names and phone
// trimmed, email trimmed and lower-cased.
func Customer(c domain.Customer) (domain.Customer, error) {
	if !isText(c.FirstName, maxNameLength) {
		return domain.Customer{}, apperrors.NewFieldError("Customer.FirstName", MsgInvalidFirstName)
	}
	if !isText(c.LastName, maxNameLength) {
		return domain.Customer{}, apperrors.NewFieldError("Customer.LastName", MsgInvalidLastName)
	}
	if !isText(c.Email, maxEmailLength) || !emailRE.MatchString(strings.TrimSpace(c.Email)) {
		return domain.Customer{}, apperrors.NewFieldError("Customer.Email", MsgInvalidEmail)
	}
	if !isText(c.Phone, maxPhoneLength) {
		return domain.Customer{}, apperrors.NewFieldError("Customer.Phone", MsgInvalidPhone)
	}
	if !nationalityRE.MatchString(c.NationalityCode) {
		return domain.Customer{}, apperrors.NewFieldError("Customer.NationalityCode", MsgInvalidNationality)
	}

	return domain.Customer{
		FirstName:       strings.TrimSpace(c.FirstName),
		LastName:        strings.TrimSpace(c.LastName),
		Email:           strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:           strings.TrimSpace(c.Phone),
		NationalityCode: c.NationalityCode,
	}, nil
}

// decodeObject parses body as a single JSON object. Numbers are kept as json.Number
// so integer checks see the literal the client sent.
func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, apperrors.NewValidationError(MsgInvalidRequest)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, apperrors.NewValidationError(MsgInvalidRequest)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, apperrors.NewValidationError(MsgInvalidRequest)
	}
	return obj, nil
}

func checkDateRange(obj map[string]any) (string, string, error) {
	start, ok := timestamp(obj["StartUtc"])
	if !ok {
		return "", "", apperrors.NewFieldError("StartUtc", MsgInvalidStartDate)
	}
	end, ok := timestamp(obj["EndUtc"])
	if !ok {
		return "", "", apperrors.NewFieldError("EndUtc", MsgInvalidEndDate)
	}

	startAt, _ := time.Parse(time.RFC3339Nano, start)
	endAt, _ := time.Parse(time.RFC3339Nano, end)
	if !startAt.Before(endAt) {
		return "", "", apperrors.NewFieldError("EndUtc", MsgEndBeforeStart)
	}
	return start, end, nil
}

// timestamp accepts YYYY-MM-DDTHH:mm:ss[.fff]Z naming a real calendar instant.
func timestamp(raw any) (string, bool) {
	s, ok := raw.(string)
	if !ok || !isoTimestampRE.MatchString(s) {
		return "", false
	}
	if _, err := time.Parse(time.RFC3339Nano, s); err != nil {
		return "", false
	}
	return s, true
}

func integer(raw any) (int, bool) {
	n, ok := raw.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// customerFrom keeps only string-typed customer fields; anything else becomes ""
// and fails the matching check.
func customerFrom(raw map[string]any) domain.Customer {
	str := func(key string) string {
		s, _ := raw[key].(string)
		return s
	}
	return domain.Customer{
		FirstName:       str("FirstName"),
		LastName:        str("LastName"),
		Email:           str("Email"),
		Phone:           str("Phone"),
		NationalityCode: str("NationalityCode"),
	}
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
