package repository

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyKeyStatus string

const (
	IdempotencyKeyStatusPending IdempotencyKeyStatus = "pending"
	IdempotencyKeyStatusSuccess IdempotencyKeyStatus = "success"
	IdempotencyKeyStatusFailed  IdempotencyKeyStatus = "failed"
)

type User struct {
	ID        uuid.UUID
	Email     string
	Password  string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type Item struct {
	ID        uuid.UUID
	Name      string
	Price     int64
	Quantity  int32
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type Cart struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type CartItem struct {
	ID        uuid.UUID
	CartID    uuid.UUID
	ItemID    uuid.UUID
	Quantity  int32
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type IdempotencyKey struct {
	Key          string
	UserID       uuid.UUID
	Status       IdempotencyKeyStatus
	ResponseData []byte
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type PurchaseRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ItemID    uuid.UUID
	Quantity  int32
	CreatedAt pgtype.Timestamptz
}
