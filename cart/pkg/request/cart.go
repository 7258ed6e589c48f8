package request

import (
	"github.com/google/uuid"
)

type AddCartItem struct {
	ItemId   uuid.UUID `validate:"required"       json:"item_id"`
	Quantity int32     `validate:"required,gte=1" json:"quantity"`
}

type RemoveCartItem struct {
	ID     uuid.UUID `validate:"required"`
	CartId uuid.UUID `validate:"required"`
	UserId uuid.UUID `validate:"required"`
}

type FindCart struct {
	UserId uuid.UUID `validate:"required"`
}
