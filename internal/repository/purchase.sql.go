package repository

import (
	"context"

	"github.com/google/uuid"
)

const insertPurchaseRecord = `-- name: InsertPurchaseRecord :one
INSERT INTO purchase_records (id, user_id, item_id, quantity)
VALUES (gen_random_uuid(), $1, $2, $3)
RETURNING id, user_id, item_id, quantity, created_at
`

type InsertPurchaseRecordParams struct {
	UserID   uuid.UUID
	ItemID   uuid.UUID
	Quantity int32
}

func (q *Queries) InsertPurchaseRecord(
	ctx context.Context,
	arg InsertPurchaseRecordParams,
) (PurchaseRecord, error) {
	row := q.db.QueryRow(ctx, insertPurchaseRecord, arg.UserID, arg.ItemID, arg.Quantity)
	var p PurchaseRecord
	err := row.Scan(&p.ID, &p.UserID, &p.ItemID, &p.Quantity, &p.CreatedAt)
	return p, err
}

const findPurchaseRecordsByUserId = `-- name: FindPurchaseRecordsByUserId :many
SELECT id, user_id, item_id, quantity, created_at
FROM purchase_records
WHERE user_id = $1
ORDER BY created_at DESC, id
`

func (q *Queries) FindPurchaseRecordsByUserId(
	ctx context.Context,
	userID uuid.UUID,
) ([]PurchaseRecord, error) {
	rows, err := q.db.Query(ctx, findPurchaseRecordsByUserId, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := []PurchaseRecord{}
	for rows.Next() {
		var p PurchaseRecord
		if err := rows.Scan(&p.ID, &p.UserID, &p.ItemID, &p.Quantity, &p.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
