package services

import "github.com/neubistro/bistro/pkg/apperr"

// Caller-facing failures. Each carries the message the API reports verbatim.
var (
	ErrDuplicateEmail     = apperr.New(apperr.KindConflict, "User already exists")
	ErrInvalidCredentials = apperr.New(apperr.KindAuth, "Invalid credentials")
	ErrUserNotFound       = apperr.NotFound("User not found")
	ErrInvalidInput       = apperr.Validation("Invalid input")
	ErrItemNotFound       = apperr.NotFound("Menu item not found or unavailable")
	ErrEmptyCart          = apperr.Validation("Cart is empty")
	ErrCartChanged        = apperr.New(apperr.KindStale, "Cart changed during checkout, please retry")
)

// Event names fired by the services.
const (
	EventMenuChanged    = "menu.changed"
	EventOrderCompleted = "order.completed"
)
