package users

import (
	"context"
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")

// User is one account record. PasswordHash is a bcrypt hash, never the
// plaintext credential.
type User struct {
	ID           uint64
	Username     string
	PasswordHash string
	Balance      int64
	CreatedAt    time.Time
}

type Users interface {
	// Insert creates a new account. A username collision maps to ErrUserExists.
	Insert(ctx context.Context, username, passwordHash string, balance int64) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	GetBalance(ctx context.Context, username string) (int64, error)
	// AdjustBalance applies a signed delta in a single conditional write,
	// clamping the result at zero, and returns the new balance.
	AdjustBalance(ctx context.Context, username string, delta int64) (int64, error)
}
