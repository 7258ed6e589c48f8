package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	CartItems []CartItem      `json:"cart_items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CartItem struct {
	ID       uuid.UUID       `json:"id"`
	CartID   uuid.UUID       `json:"cart_id"`
	ItemID   uuid.UUID       `json:"item_id"`
	ItemName string          `json:"item_name"`
	Price    int64           `json:"price"`
	Quantity int32           `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
