package repository

import (
	"github.com/shopspring/decimal"

	cartResponse "github.com/yenkart/yenkart/cart/pkg/response"
	checkoutResponse "github.com/yenkart/yenkart/checkout/pkg/response"
	itemResponse "github.com/yenkart/yenkart/item/pkg/response"
)

func (i Item) Response() itemResponse.Item {
	return itemResponse.Item{
		ID:        i.ID,
		Name:      i.Name,
		Price:     i.Price,
		Quantity:  i.Quantity,
		CreatedAt: i.CreatedAt.Time,
		UpdatedAt: i.UpdatedAt.Time,
	}
}

func (r FindCartItemsWithItemRow) Response() cartResponse.CartItem {
	return cartResponse.CartItem{
		ID:       r.ID,
		CartID:   r.CartID,
		ItemID:   r.ItemID,
		ItemName: r.ItemName,
		Price:    r.ItemPrice,
		Quantity: r.Quantity,
		Subtotal: decimal.NewFromInt(r.ItemPrice).Mul(decimal.NewFromInt32(r.Quantity)),
	}
}

func (p PurchaseRecord) Response() checkoutResponse.PurchaseRecord {
	return checkoutResponse.PurchaseRecord{
		ID:        p.ID,
		UserID:    p.UserID,
		ItemID:    p.ItemID,
		Quantity:  p.Quantity,
		CreatedAt: p.CreatedAt.Time,
	}
}
