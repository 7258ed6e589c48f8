package repository

import (
	"context"

	"github.com/google/uuid"
)

const findIdempotencyKey = `-- name: FindIdempotencyKey :one
SELECT key, user_id, status, response_data, created_at, updated_at
FROM idempotency_keys
WHERE key = $1
`

func (q *Queries) FindIdempotencyKey(ctx context.Context, key string) (IdempotencyKey, error) {
	row := q.db.QueryRow(ctx, findIdempotencyKey, key)
	var i IdempotencyKey
	err := row.Scan(
		&i.Key,
		&i.UserID,
		&i.Status,
		&i.ResponseData,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertIdempotencyKey = `-- name: InsertIdempotencyKey :one
INSERT INTO idempotency_keys (key, user_id, status)
VALUES ($1, $2, 'pending')
RETURNING key, user_id, status, response_data, created_at, updated_at
`

type InsertIdempotencyKeyParams struct {
	Key    string
	UserID uuid.UUID
}

// InsertIdempotencyKey reserves the key in state pending. The primary key
// constraint makes the reservation race-safe: the loser of a concurrent
// insert gets a unique-violation error and must fall back to a re-read.
func (q *Queries) InsertIdempotencyKey(
	ctx context.Context,
	arg InsertIdempotencyKeyParams,
) (IdempotencyKey, error) {
	row := q.db.QueryRow(ctx, insertIdempotencyKey, arg.Key, arg.UserID)
	var i IdempotencyKey
	err := row.Scan(
		&i.Key,
		&i.UserID,
		&i.Status,
		&i.ResponseData,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const burnIdempotencyKey = `-- name: BurnIdempotencyKey :execrows
UPDATE idempotency_keys
SET status = 'failed', response_data = $2, updated_at = now()
WHERE key = $1 AND status = 'pending'
`

type BurnIdempotencyKeyParams struct {
	Key          string
	ResponseData []byte
}

// BurnIdempotencyKey marks a pending key failed. The status guard keeps a
// racing request from clobbering an outcome another request already settled.
func (q *Queries) BurnIdempotencyKey(
	ctx context.Context,
	arg BurnIdempotencyKeyParams,
) (int64, error) {
	result, err := q.db.Exec(ctx, burnIdempotencyKey, arg.Key, arg.ResponseData)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const updateIdempotencyKey = `-- name: UpdateIdempotencyKey :one
UPDATE idempotency_keys
SET status = $2, response_data = $3, updated_at = now()
WHERE key = $1
RETURNING key, user_id, status, response_data, created_at, updated_at
`

type UpdateIdempotencyKeyParams struct {
	Key          string
	Status       IdempotencyKeyStatus
	ResponseData []byte
}

func (q *Queries) UpdateIdempotencyKey(
	ctx context.Context,
	arg UpdateIdempotencyKeyParams,
) (IdempotencyKey, error) {
	row := q.db.QueryRow(ctx, updateIdempotencyKey, arg.Key, arg.Status, arg.ResponseData)
	var i IdempotencyKey
	err := row.Scan(
		&i.Key,
		&i.UserID,
		&i.Status,
		&i.ResponseData,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
