package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coinlyapp/coinly-backend/internal/auth"
	"github.com/coinlyapp/coinly-backend/internal/dto"
	"github.com/coinlyapp/coinly-backend/internal/models"
	"github.com/coinlyapp/coinly-backend/internal/referral"
	"github.com/coinlyapp/coinly-backend/internal/store"
	"github.com/google/uuid"
)

var (
	ErrMissingFields      = errors.New("full name, username, email, mobile and password are required")
	ErrDuplicateAccount   = errors.New("account already exists with provided email, mobile or username")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
)

const (
	// Coins granted when someone signs up with your referral code.
	referrerBonusCoins = 20
	// Starting coins for the new account that used a valid code.
	signupBonusCoins = 10

	// Attempts to find a referral code not already taken.
	codeAllocAttempts = 5
)

// AuthService orchestrates the registration and authentication workflows. It
// holds no mutable state of its own; the account store is the only shared
// resource, so requests are safe to run concurrently.
type AuthService struct {
	accounts store.AccountStore
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenIssuer
	codes    *referral.CodeGenerator
}

func NewAuthService(accounts store.AccountStore, hasher *auth.PasswordHasher, tokens *auth.TokenIssuer, codes *referral.CodeGenerator) *AuthService {
	return &AuthService{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		codes:    codes,
	}
}

// Register creates a new account. When a valid referral code accompanies the
// request, the referrer is credited before the account is created; that credit
// is not rolled back if creation subsequently fails (known inconsistency
// window, matching the store-first write order).
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	if req.FullName == "" || req.Username == "" || req.Email == "" || req.Mobile == "" || req.Password == "" {
		return ErrMissingFields
	}

	if _, err := s.accounts.FindByUniqueFields(ctx, req.Username, req.Email, req.Mobile); err == nil {
		return ErrDuplicateAccount
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("duplicate check failed: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return err
	}

	code, err := s.allocateReferralCode(ctx)
	if err != nil {
		return err
	}

	var coins int64
	if req.ReferralCode != "" {
		referrer, err := s.accounts.FindByReferralCode(ctx, req.ReferralCode)
		switch {
		case err == nil:
			referrer.Coins += referrerBonusCoins
			if err := s.accounts.Save(ctx, referrer); err != nil {
				return fmt.Errorf("failed to credit referrer: %w", err)
			}
			coins = signupBonusCoins
		case errors.Is(err, store.ErrNotFound):
			// Unknown code grants no bonus and is not an error.
		default:
			return fmt.Errorf("referrer lookup failed: %w", err)
		}
	}

	account := &models.Account{
		ID:           uuid.New(),
		FullName:     req.FullName,
		Username:     req.Username,
		Email:        req.Email,
		Mobile:       req.Mobile,
		PasswordHash: hash,
		ReferralCode: code,
		Coins:        coins,
		Role:         models.RoleUser,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		// A concurrent registration may win the store's own uniqueness
		// check after our pre-check passed.
		if errors.Is(err, store.ErrDuplicate) {
			return ErrDuplicateAccount
		}
		return err
	}

	slog.Info("account registered", "account_id", account.ID.String(), "action", "register")
	return nil
}

// Login verifies the identifier (username or email) and password, returning a
// signed session token plus the account projection. Unknown identifier and
// wrong password are deliberately indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	account, err := s.accounts.FindByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}

	if !s.hasher.Check(req.Password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &dto.LoginResponse{
		Token:   token,
		Account: projectAccount(account),
	}, nil
}

// GetAccount returns the non-sensitive projection for an authenticated id.
func (s *AuthService) GetAccount(ctx context.Context, id uuid.UUID) (*dto.AccountResponse, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("account lookup failed: %w", err)
	}
	resp := projectAccount(account)
	return &resp, nil
}

// allocateReferralCode generates a code and retries against the store until it
// finds one not already taken.
func (s *AuthService) allocateReferralCode(ctx context.Context) (string, error) {
	for i := 0; i < codeAllocAttempts; i++ {
		code := s.codes.Generate()
		_, err := s.accounts.FindByReferralCode(ctx, code)
		if errors.Is(err, store.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("referral code check failed: %w", err)
		}
	}
	return "", fmt.Errorf("could not allocate a unique referral code after %d attempts", codeAllocAttempts)
}

func projectAccount(a *models.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:           a.ID,
		FullName:     a.FullName,
		Username:     a.Username,
		Email:        a.Email,
		Mobile:       a.Mobile,
		Coins:        a.Coins,
		ReferralCode: a.ReferralCode,
		Role:         a.Role,
	}
}
