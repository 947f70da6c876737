package validation

// Messages returned to the caller. Each names a single field.
const (
	MsgInvalidRequest     = "Invalid request"
	MsgInvalidStartDate   = "Invalid start date"
	MsgInvalidEndDate     = "Invalid end date"
	MsgEndBeforeStart     = "End date must be after start date"
	MsgStartInPast        = "Start date cannot be in the past"
	MsgInvalidRoom        = "Invalid room selection"
	MsgInvalidRate        = "Invalid rate selection"
	MsgInvalidGuestCount  = "Invalid guest count"
	MsgInvalidProducts    = "Invalid products"
	MsgInvalidProduct     = "Invalid product selection"
	MsgInvalidCurrency    = "Invalid currency"
	MsgMissingCustomer    = "Missing customer details"
	MsgInvalidFirstName   = "Invalid first name"
	MsgInvalidLastName    = "Invalid last name"
	MsgInvalidEmail       = "Invalid email address"
	MsgInvalidPhone       = "Invalid phone number"
	MsgInvalidNationality = "Invalid nationality"
)
