package entities

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrPhoneTaken         = errors.New("phone number already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")

	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrAmountMismatch     = errors.New("total amount does not match catalog prices")
	ErrReturnNotAvailable = errors.New("return is only available for delivered orders")

	ErrForbidden = errors.New("access denied")
)
