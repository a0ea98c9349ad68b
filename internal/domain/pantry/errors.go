package pantry

import "errors"

var (
	// Item validation errors
	ErrEmptyName       = errors.New("item name must not be empty")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrInvalidExpiry   = errors.New("expiry date must be formatted as YYYY-MM-DD")

	// Lookup errors
	ErrItemNotFound = errors.New("inventory item not found")
)
