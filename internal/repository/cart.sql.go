package repository

import (
	"context"

	"github.com/google/uuid"
)

const insertCart = `-- name: InsertCart :one
INSERT INTO carts (id, user_id)
VALUES (gen_random_uuid(), $1)
RETURNING id, user_id, created_at, updated_at
`

func (q *Queries) InsertCart(ctx context.Context, userID uuid.UUID) (Cart, error) {
	row := q.db.QueryRow(ctx, insertCart, userID)
	var c Cart
	err := row.Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const findCartByIdAndUserId = `-- name: FindCartByIdAndUserId :one
SELECT id, user_id, created_at, updated_at
FROM carts
WHERE id = $1 AND user_id = $2
`

type FindCartByIdAndUserIdParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) FindCartByIdAndUserId(
	ctx context.Context,
	arg FindCartByIdAndUserIdParams,
) (Cart, error) {
	row := q.db.QueryRow(ctx, findCartByIdAndUserId, arg.ID, arg.UserID)
	var c Cart
	err := row.Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const findCartByUserId = `-- name: FindCartByUserId :one
SELECT id, user_id, created_at, updated_at
FROM carts
WHERE user_id = $1
`

func (q *Queries) FindCartByUserId(ctx context.Context, userID uuid.UUID) (Cart, error) {
	row := q.db.QueryRow(ctx, findCartByUserId, userID)
	var c Cart
	err := row.Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const deleteCartById = `-- name: DeleteCartById :execrows
DELETE FROM carts
WHERE id = $1
`

func (q *Queries) DeleteCartById(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCartById, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const findCartItemsByCartId = `-- name: FindCartItemsByCartId :many
SELECT id, cart_id, item_id, quantity, created_at, updated_at
FROM cart_items
WHERE cart_id = $1
ORDER BY item_id
`

func (q *Queries) FindCartItemsByCartId(
	ctx context.Context,
	cartID uuid.UUID,
) ([]CartItem, error) {
	rows, err := q.db.Query(ctx, findCartItemsByCartId, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []CartItem{}
	for rows.Next() {
		var i CartItem
		if err := rows.Scan(
			&i.ID,
			&i.CartID,
			&i.ItemID,
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

const findCartItemByCartIdAndItemId = `-- name: FindCartItemByCartIdAndItemId :one
SELECT id, cart_id, item_id, quantity, created_at, updated_at
FROM cart_items
WHERE cart_id = $1 AND item_id = $2
`

type FindCartItemByCartIdAndItemIdParams struct {
	CartID uuid.UUID
	ItemID uuid.UUID
}

func (q *Queries) FindCartItemByCartIdAndItemId(
	ctx context.Context,
	arg FindCartItemByCartIdAndItemIdParams,
) (CartItem, error) {
	row := q.db.QueryRow(ctx, findCartItemByCartIdAndItemId, arg.CartID, arg.ItemID)
	var i CartItem
	err := row.Scan(
		&i.ID,
		&i.CartID,
		&i.ItemID,
		&i.Quantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertCartItem = `-- name: InsertCartItem :one
INSERT INTO cart_items (id, cart_id, item_id, quantity)
VALUES (gen_random_uuid(), $1, $2, $3)
RETURNING id, cart_id, item_id, quantity, created_at, updated_at
`

type InsertCartItemParams struct {
	CartID   uuid.UUID
	ItemID   uuid.UUID
	Quantity int32
}

func (q *Queries) InsertCartItem(
	ctx context.Context,
	arg InsertCartItemParams,
) (CartItem, error) {
	row := q.db.QueryRow(ctx, insertCartItem, arg.CartID, arg.ItemID, arg.Quantity)
	var i CartItem
	err := row.Scan(
		&i.ID,
		&i.CartID,
		&i.ItemID,
		&i.Quantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateCartItemQuantity = `-- name: UpdateCartItemQuantity :one
UPDATE cart_items
SET quantity = $2, updated_at = now()
WHERE id = $1
RETURNING id, cart_id, item_id, quantity, created_at, updated_at
`

type UpdateCartItemQuantityParams struct {
	ID       uuid.UUID
	Quantity int32
}

func (q *Queries) UpdateCartItemQuantity(
	ctx context.Context,
	arg UpdateCartItemQuantityParams,
) (CartItem, error) {
	row := q.db.QueryRow(ctx, updateCartItemQuantity, arg.ID, arg.Quantity)
	var i CartItem
	err := row.Scan(
		&i.ID,
		&i.CartID,
		&i.ItemID,
		&i.Quantity,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteCartItemById = `-- name: DeleteCartItemById :execrows
DELETE FROM cart_items
WHERE id = $1 AND cart_id = $2
`

type DeleteCartItemByIdParams struct {
	ID     uuid.UUID
	CartID uuid.UUID
}

func (q *Queries) DeleteCartItemById(
	ctx context.Context,
	arg DeleteCartItemByIdParams,
) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCartItemById, arg.ID, arg.CartID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const findCartItemsWithItem = `-- name: FindCartItemsWithItem :many
SELECT ci.id, ci.cart_id, ci.item_id, ci.quantity,
       i.name AS item_name, i.price AS item_price, i.quantity AS item_quantity
FROM cart_items ci
JOIN items i ON i.id = ci.item_id
WHERE ci.cart_id = $1
ORDER BY ci.item_id
`

type FindCartItemsWithItemRow struct {
	ID           uuid.UUID
	CartID       uuid.UUID
	ItemID       uuid.UUID
	Quantity     int32
	ItemName     string
	ItemPrice    int64
	ItemQuantity int32
}

func (q *Queries) FindCartItemsWithItem(
	ctx context.Context,
	cartID uuid.UUID,
) ([]FindCartItemsWithItemRow, error) {
	rows, err := q.db.Query(ctx, findCartItemsWithItem, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FindCartItemsWithItemRow{}
	for rows.Next() {
		var i FindCartItemsWithItemRow
		if err := rows.Scan(
			&i.ID,
			&i.CartID,
			&i.ItemID,
			&i.Quantity,
			&i.ItemName,
			&i.ItemPrice,
			&i.ItemQuantity,
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

const findCartItemsForUpdate = `-- name: FindCartItemsForUpdate :many
SELECT ci.id, ci.cart_id, ci.item_id, ci.quantity,
       i.name AS item_name, i.price AS item_price, i.quantity AS item_quantity
FROM cart_items ci
JOIN items i ON i.id = ci.item_id
WHERE ci.cart_id = $1
ORDER BY ci.item_id
FOR UPDATE OF ci, i
`

type FindCartItemsForUpdateRow struct {
	ID           uuid.UUID
	CartID       uuid.UUID
	ItemID       uuid.UUID
	Quantity     int32
	ItemName     string
	ItemPrice    int64
	ItemQuantity int32
}

// FindCartItemsForUpdate locks the cart's lines and their items for the
// duration of the enclosing transaction. Rows are ordered by item id so
// concurrent checkouts acquire row locks in a stable order.
func (q *Queries) FindCartItemsForUpdate(
	ctx context.Context,
	cartID uuid.UUID,
) ([]FindCartItemsForUpdateRow, error) {
	rows, err := q.db.Query(ctx, findCartItemsForUpdate, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FindCartItemsForUpdateRow{}
	for rows.Next() {
		var i FindCartItemsForUpdateRow
		if err := rows.Scan(
			&i.ID,
			&i.CartID,
			&i.ItemID,
			&i.Quantity,
			&i.ItemName,
			&i.ItemPrice,
			&i.ItemQuantity,
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
