package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MoonieBruva/casino/internal/repos/users"
)

// AdjustBalance applies the delta and clamps at zero in one statement, so two
// concurrent updates for the same user serialize on the row instead of losing
// one of the writes.
func (r *usersRepo) AdjustBalance(ctx context.Context, username string, delta int64) (int64, error) {
	var balance int64

	err := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET balance = GREATEST(balance + $2, 0)
		WHERE username = $1
		RETURNING balance
	`, username, delta).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, users.ErrUserNotFound
		}

		return 0, fmt.Errorf("adjust balance: %w", err)
	}

	return balance, nil
}
