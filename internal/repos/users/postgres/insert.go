package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/MoonieBruva/casino/internal/repos/users"
	"github.com/jackc/pgx/v5/pgconn"
)

func (r *usersRepo) Insert(ctx context.Context, username, passwordHash string, balance int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, balance)
		VALUES ($1, $2, $3)
	`, username, passwordHash, balance)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return users.ErrUserExists
		}

		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}
