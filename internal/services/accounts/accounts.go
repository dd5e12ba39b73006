package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MoonieBruva/casino/internal/repos/users"
	pgusers "github.com/MoonieBruva/casino/internal/repos/users/postgres"
	"golang.org/x/crypto/bcrypt"
)

// StartingBalance is credited to every freshly registered account.
const StartingBalance = 1000

// ErrInvalidPassword means the user exists but the supplied password does not
// match the stored hash.
var ErrInvalidPassword = errors.New("incorrect password")

type Service struct {
	users      users.Users
	bcryptCost int
}

func New(db *sql.DB, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	return &Service{
		users:      pgusers.New(db),
		bcryptCost: bcryptCost,
	}
}

// Register creates an account with the starting balance. The username
// uniqueness check happens inside the store's insert, so two concurrent
// registrations for the same name cannot both succeed.
func (s *Service) Register(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.users.Insert(ctx, username, string(hash), StartingBalance)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// Login verifies the credentials and returns the current balance.
func (s *Service) Login(ctx context.Context, username, password string) (int64, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("find user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	if err != nil {
		return 0, ErrInvalidPassword
	}

	return u.Balance, nil
}

func (s *Service) GetBalance(ctx context.Context, username string) (int64, error) {
	balance, err := s.users.GetBalance(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// UpdateBalance applies a signed delta atomically, clamped at a zero floor,
// and returns the resulting balance.
func (s *Service) UpdateBalance(ctx context.Context, username string, delta int64) (int64, error) {
	balance, err := s.users.AdjustBalance(ctx, username, delta)
	if err != nil {
		return 0, fmt.Errorf("adjust balance: %w", err)
	}

	return balance, nil
}
