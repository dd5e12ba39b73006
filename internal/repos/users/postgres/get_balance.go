package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MoonieBruva/casino/internal/repos/users"
)

func (r *usersRepo) GetBalance(ctx context.Context, username string) (int64, error) {
	var balance int64

	err := r.db.QueryRowContext(ctx, `
		SELECT balance
		FROM users
		WHERE username = $1
	`, username).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, users.ErrUserNotFound
		}

		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}
