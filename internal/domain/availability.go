package domain

type Price struct {
	Total           map[string]AmountValue `json:"Total"`
	AveragePerNight map[string]AmountValue `json:"AveragePerNight"`
}

type PricingItem struct {
	RateID string `json:"RateId"`
	Price  Price  `json:"Price"`
}

type RoomOccupancyAvailability struct {
	Pricing []PricingItem `json:"Pricing"`
}

type RoomCategoryAvailability struct {
	RoomCategoryID              string                      `json:"RoomCategoryId"`
	AvailableRoomCount          int                         `json:"AvailableRoomCount"`
	RoomOccupancyAvailabilities []RoomOccupancyAvailability `json:"RoomOccupancyAvailabilities"`
}

type Rate struct {
	ID          string          `json:"Id"`
	RateGroupID string          `json:"RateGroupId"`
	Name        LocalizedString `json:"Name"`
	Description LocalizedString `json:"Description"`
}

type RateGroup struct {
	ID   string          `json:"Id"`
	Name LocalizedString `json:"Name"`
}

type AvailabilityResponse struct {
	RateGroups                 []RateGroup                `json:"RateGroups"`
	Rates                      []Rate                     `json:"Rates"`
	RoomCategoryAvailabilities []RoomCategoryAvailability `json:"RoomCategoryAvailabilities"`
}

// Bookable returns the availability record for a category when at least one room is free.
func (a *AvailabilityResponse) Bookable(roomCategoryID string) (RoomCategoryAvailability, bool) {
	for _, rca := range a.RoomCategoryAvailabilities {
		if rca.RoomCategoryID == roomCategoryID && rca.AvailableRoomCount > 0 {
			return rca, true
		}
	}
	return RoomCategoryAvailability{}, false
}
