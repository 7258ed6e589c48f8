package repository

import (
	"context"

	"github.com/google/uuid"
)

const findUserById = `-- name: FindUserById :one
SELECT id, email, password, created_at, updated_at
FROM users
WHERE id = $1
`

func (q *Queries) FindUserById(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRow(ctx, findUserById, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
