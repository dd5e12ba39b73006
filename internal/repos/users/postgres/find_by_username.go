package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MoonieBruva/casino/internal/repos/users"
)

func (r *usersRepo) FindByUsername(ctx context.Context, username string) (*users.User, error) {
	var u users.User

	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, balance, created_at
		FROM users
		WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Balance, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrUserNotFound
		}

		return nil, fmt.Errorf("find by username: %w", err)
	}

	return &u, nil
}
