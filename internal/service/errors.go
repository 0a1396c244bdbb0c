package service

import (
	"errors"

	"courseloft_backend/internal/store"
)

// Typed error kinds so controllers can map failures to HTTP statuses
// without matching on message strings.
var (
	ErrNotFound         = store.ErrNotFound
	ErrPermissionDenied = errors.New("caller does not own this resource")
	ErrInvalidArgument  = errors.New("invalid argument")

	ErrPromoInvalid     = errors.New("promo code is invalid or inactive")
	ErrPromoExpired     = errors.New("promo code has expired")
	ErrPromoExhausted   = store.ErrPromoExhausted
	ErrPromoAlreadyUsed = store.ErrPromoAlreadyUsed
)
