package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/coinlyapp/coinly-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore implements AccountStore on GORM/Postgres. Duplicate detection in
// Create relies on the driver translating unique violations to
// gorm.ErrDuplicatedKey (TranslateError must be enabled on the connection).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindByUniqueFields(ctx context.Context, username, email, mobile string) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ? OR mobile = ?", username, email, mobile).
		First(&account).Error
	return s.found(&account, err)
}

func (s *GormStore) FindByIdentifier(ctx context.Context, identifier string) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", identifier, identifier).
		First(&account).Error
	return s.found(&account, err)
}

func (s *GormStore) FindByReferralCode(ctx context.Context, code string) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Where("referral_code = ?", code).First(&account).Error
	return s.found(&account, err)
}

func (s *GormStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).First(&account, "id = ?", id).Error
	return s.found(&account, err)
}

func (s *GormStore) Create(ctx context.Context, account *models.Account) error {
	if err := s.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *GormStore) Save(ctx context.Context, account *models.Account) error {
	if err := s.db.WithContext(ctx).Save(account).Error; err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (s *GormStore) found(account *models.Account, err error) (*models.Account, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}
	return account, nil
}
