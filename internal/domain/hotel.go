package domain

// LocalizedString maps language codes to text.
type LocalizedString map[string]string

// AmountValue is a priced amount. GrossValue is nil when the PMS sent null or
// left it out.
type AmountValue struct {
	Currency   string     `json:"Currency"`
	GrossValue *float64   `json:"GrossValue"`
	NetValue   float64    `json:"NetValue"`
	TaxValues  []TaxValue `json:"TaxValues,omitempty"`
}

type TaxValue struct {
	TaxRateCode string  `json:"TaxRateCode"`
	Value       float64 `json:"Value"`
}

type RoomCategory struct {
	ID             string          `json:"Id"`
	Name           LocalizedString `json:"Name"`
	Description    LocalizedString `json:"Description"`
	ShortName      LocalizedString `json:"ShortName,omitempty"`
	ImageID        *string         `json:"ImageId"`
	ImageIDs       []string        `json:"ImageIds"`
	NormalBedCount int             `json:"NormalBedCount"`
	ExtraBedCount  int             `json:"ExtraBedCount"`
	Capacity       *int            `json:"Capacity"`
	SpaceType      string          `json:"SpaceType,omitempty"`
}

// Product is an add-on. AlwaysIncluded products are part of every booking and cannot be toggled.
type Product struct {
	ID                string                 `json:"Id"`
	Name              LocalizedString        `json:"Name"`
	Description       LocalizedString        `json:"Description"`
	CategoryID        string                 `json:"CategoryId"`
	ImageID           *string                `json:"ImageId"`
	IncludedByDefault bool                   `json:"IncludedByDefault"`
	AlwaysIncluded    bool                   `json:"AlwaysIncluded"`
	Prices            map[string]AmountValue `json:"Prices"`
}

// HotelConfig is the body of hotels/get; the upstream returns the hotel object without a wrapper key.
type HotelConfig struct {
	ID                  string          `json:"Id"`
	Name                LocalizedString `json:"Name"`
	Description         LocalizedString `json:"Description"`
	DefaultLanguageCode string          `json:"DefaultLanguageCode"`
	DefaultCurrencyCode string          `json:"DefaultCurrencyCode"`
	ImageID             *string         `json:"ImageId"`
	ImageIDs            []string        `json:"ImageIds"`
	ImageBaseURL        string          `json:"ImageBaseUrl"`
	RoomCategories      []RoomCategory  `json:"RoomCategories"`
	Products            []Product       `json:"Products"`
}

func (h *HotelConfig) RoomCategory(id string) (RoomCategory, bool) {
	for _, c := range h.RoomCategories {
		if c.ID == id {
			return c, true
		}
	}
	return RoomCategory{}, false
}

func (h *HotelConfig) Product(id string) (Product, bool) {
	for _, p := range h.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
