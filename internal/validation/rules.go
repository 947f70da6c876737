package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const DefaultCurrency = "EUR"

const (
	MaxAdultCount   = 20
	MaxProducts     = 20
	maxNameLength   = 100
	maxEmailLength  = 254
	maxPhoneLength  = 30
	canonicalUUIDLn = 36
)

var (
	isoTimestampRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?Z$`)
	emailRE        = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nationalityRE  = regexp.MustCompile(`^[A-Z]{2}$`)
	currencyRE     = regexp.MustCompile(`^[A-Z]{3}$`)
)

var allowedCurrencies = map[string]struct{}{
	"EUR": {}, "USD": {}, "CZK": {}, "GBP": {}, "NOK": {}, "SEK": {}, "DKK": {},
}

func IsAllowedCurrency(code string) bool {
	_, ok := allowedCurrencies[code]
	return ok
}

// IsCurrencyCode reports whether code is a three-letter uppercase code on the allow-list.
func IsCurrencyCode(code string) bool {
	return currencyRE.MatchString(code) && IsAllowedCurrency(code)
}

// IsUUID accepts only the canonical 8-4-4-4-12 form, in either case.
func IsUUID(s string) bool {
	if len(s) != canonicalUUIDLn {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// isText reports whether s is non-blank after trimming and at most max characters long.
func isText(s string, max int) bool {
	return strings.TrimSpace(s) != "" && utf8.RuneCountInString(s) <= max
}
