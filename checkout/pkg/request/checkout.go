package request

import (
	"github.com/google/uuid"
)

type Purchase struct {
	UserId         uuid.UUID `validate:"required"`
	CartId         uuid.UUID `validate:"required"         json:"cart_id"`
	IdempotencyKey string    `validate:"required,max=100"`
}

type FindPurchaseRecords struct {
	UserId uuid.UUID `validate:"required"`
}
