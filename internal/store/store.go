// Package store is the persistence boundary for accounts. Workflows depend on
// the AccountStore interface; the GORM/Postgres implementation lives alongside.
package store

import (
	"context"
	"errors"

	"github.com/coinlyapp/coinly-backend/internal/models"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by lookups that match no account.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicate is returned by Create when a unique constraint on
	// username, email, mobile or referral code is violated.
	ErrDuplicate = errors.New("account violates a uniqueness constraint")
)

type AccountStore interface {
	// FindByUniqueFields returns any account matching the given username,
	// email OR mobile. Used for pre-registration duplicate checks.
	FindByUniqueFields(ctx context.Context, username, email, mobile string) (*models.Account, error)

	// FindByIdentifier returns the account whose email or username equals
	// identifier.
	FindByIdentifier(ctx context.Context, identifier string) (*models.Account, error)

	FindByReferralCode(ctx context.Context, code string) (*models.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)

	// Create persists a new account, assigning its id. Returns ErrDuplicate
	// if a concurrent registration won a uniqueness race.
	Create(ctx context.Context, account *models.Account) error

	// Save persists mutated fields of an existing account.
	Save(ctx context.Context, account *models.Account) error
}
