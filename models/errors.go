package models

import "errors"

// Sentinel errors for the order engine. Handlers match these with errors.Is
// and map them to HTTP status codes; anything else is treated as an internal
// failure and never surfaced as a validation error.
var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrParticipantNotFound = errors.New("user not found for order")
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrProductNotFound     = errors.New("product not found in the restaurant")
	ErrInvalidIngredient   = errors.New("ingredient not found for product")
	ErrInvalidQuantity     = errors.New("quantity must not be negative")
	ErrInvalidShortCode    = errors.New("invalid short code")
	ErrUnauthorized        = errors.New("user does not control this restaurant")

	// State machine conflicts. Fulfill on an open order and fulfill on an
	// already fulfilled order are distinct rejections.
	ErrOrderNotFinalized = errors.New("order is not finalized")
	ErrOrderFulfilled    = errors.New("order is already fulfilled")
)
