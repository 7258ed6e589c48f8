package repository

import (
	"context"

	"github.com/google/uuid"
)

const findItemById = `-- name: FindItemById :one
SELECT id, name, price, quantity, created_at, updated_at
FROM items
WHERE id = $1
`

func (q *Queries) FindItemById(ctx context.Context, id uuid.UUID) (Item, error) {
	row := q.db.QueryRow(ctx, findItemById, id)
	var i Item
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Price,
		&i.Quantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const findItems = `-- name: FindItems :many
SELECT id, name, price, quantity, created_at, updated_at
FROM items
WHERE ($1::text = '' OR name ILIKE '%' || $1 || '%')
  AND ($2::bigint IS NULL OR price >= $2)
  AND ($3::bigint IS NULL OR price <= $3)
ORDER BY name, id
`

type FindItemsParams struct {
	Name     string
	MinPrice *int64
	MaxPrice *int64
}

func (q *Queries) FindItems(ctx context.Context, arg FindItemsParams) ([]Item, error) {
	rows, err := q.db.Query(ctx, findItems, arg.Name, arg.MinPrice, arg.MaxPrice)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Item{}
	for rows.Next() {
		var i Item
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Price,
			&i.Quantity,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const insertItem = `-- name: InsertItem :one
INSERT INTO items (id, name, price, quantity)
VALUES (gen_random_uuid(), $1, $2, $3)
RETURNING id, name, price, quantity, created_at, updated_at
`

type InsertItemParams struct {
	Name     string
	Price    int64
	Quantity int32
}

func (q *Queries) InsertItem(ctx context.Context, arg InsertItemParams) (Item, error) {
	row := q.db.QueryRow(ctx, insertItem, arg.Name, arg.Price, arg.Quantity)
	var i Item
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Price,
		&i.Quantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const decrementItemQuantity = `-- name: DecrementItemQuantity :one
UPDATE items
SET quantity = quantity - $2, updated_at = now()
WHERE id = $1
RETURNING id, name, price, quantity, created_at, updated_at
`

type DecrementItemQuantityParams struct {
	ID       uuid.UUID
	Quantity int32
}

func (q *Queries) DecrementItemQuantity(
	ctx context.Context,
	arg DecrementItemQuantityParams,
) (Item, error) {
	row := q.db.QueryRow(ctx, decrementItemQuantity, arg.ID, arg.Quantity)
	var i Item
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Price,
		&i.Quantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
