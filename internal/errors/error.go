package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEmptyAuth        = errors.New("missing authorization")
	ErrEmptySubject     = errors.New("missing subject")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrUserNotFound     = errors.New("user not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrEmptyCart        = errors.New("no cart items for cart")
	ErrOutOfStock       = errors.New("requested quantity is not available")
	ErrKeyRequired      = errors.New("idempotency key is required")
	ErrTransientStorage = errors.New("storage temporarily unavailable")
)

// InsufficientStockError identifies which item failed the all-or-nothing
// stock validation. It unwraps to ErrOutOfStock.
type InsufficientStockError struct {
	ItemID   uuid.UUID
	ItemName string
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"requested quantity is not available for item=%s id=%s",
		e.ItemName,
		e.ItemID,
	)
}

func (e InsufficientStockError) Unwrap() error {
	return ErrOutOfStock
}
