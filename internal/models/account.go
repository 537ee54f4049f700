package models

import (
	"time"

	"github.com/google/uuid"
)

// Account roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleOwner = "owner"
)

// Account is a registered user's identity and credential record. Username,
// email and mobile are each globally unique and usable as login identifiers.
type Account struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName      string    `gorm:"size:100;not null" json:"full_name"`
	Username      string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email         string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Mobile        string    `gorm:"size:20;not null;uniqueIndex" json:"mobile"`
	PasswordHash  string    `gorm:"not null" json:"-"`
	ReferralCode  string    `gorm:"size:12;uniqueIndex" json:"referral_code"`
	Coins         int64     `gorm:"not null;default:0" json:"coins"`
	WalletBalance float64   `gorm:"not null;default:0" json:"-"`
	Role          string    `gorm:"size:20;default:'user'" json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
