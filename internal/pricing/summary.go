package pricing

import "lynra/internal/domain"

type ProductLine struct {
	ProductID      string  `json:"productId"`
	AlwaysIncluded bool    `json:"alwaysIncluded"`
	PerNight       float64 `json:"perNight"`
	Amount         float64 `json:"amount"`
}

type Summary struct {
	Currency      string        `json:"currency"`
	Nights        int           `json:"nights"`
	RoomTotal     float64       `json:"roomTotal"`
	Products      []ProductLine `json:"products"`
	ProductsTotal float64       `json:"productsTotal"`
	GrandTotal    float64       `json:"grandTotal"`
}

// Summarize totals a booking. Products count when selected or always included,
// each at its gross price in currency per night; a product without a price in
// currency contributes 0.
func Summarize(roomTotal float64, currency string, nights int, catalogue []domain.Product, selected map[string]bool) Summary {
	s := Summary{
		Currency:  currency,
		Nights:    nights,
		RoomTotal: roomTotal,
		Products:  []ProductLine{},
	}

	for _, p := range catalogue {
		if !p.AlwaysIncluded && !selected[p.ID] {
			continue
		}
		var perNight float64
		if v := p.Prices[currency].GrossValue; v != nil {
			perNight = *v
		}
		line := ProductLine{
			ProductID:      p.ID,
			AlwaysIncluded: p.AlwaysIncluded,
			PerNight:       perNight,
			Amount:         perNight * float64(nights),
		}
		s.Products = append(s.Products, line)
		s.ProductsTotal += line.Amount
	}

	s.GrandTotal = s.RoomTotal + s.ProductsTotal
	return s
}
