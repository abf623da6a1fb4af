package model

import (
	"time"

	"food-spot-backend/internal/domain"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser    UserRole = "USER"
	RolePremium UserRole = "PREMIUM"
	RoleAdmin   UserRole = "ADMIN"
)

// User is a domain entity representing a registered account.
// Subscription state (premium flag + expiry) lives directly on the user,
// mirroring the persisted row.
type User struct {
	ID                     string
	Name                   string
	Email                  string
	PasswordHash           string
	Role                   UserRole
	IsBlocked              bool
	IsPremium              bool
	SubscriptionExpiryDate *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func NewUser(id, name, email, passwordHash string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" || email == "" || passwordHash == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }

// GrantPremium flips the user to premium for the given duration, counted from now.
func (u *User) GrantPremium(durationDays int) {
	expiry := time.Now().AddDate(0, 0, durationDays)
	u.IsPremium = true
	u.SubscriptionExpiryDate = &expiry
	if u.Role != RoleAdmin {
		u.Role = RolePremium
	}
	u.UpdatedAt = time.Now()
}

// RevokePremium clears the premium entitlement.
func (u *User) RevokePremium() {
	u.IsPremium = false
	u.SubscriptionExpiryDate = nil
	if u.Role == RolePremium {
		u.Role = RoleUser
	}
	u.UpdatedAt = time.Now()
}

// PremiumExpired reports whether the entitlement has silently lapsed.
// The expiry sweep is responsible for actually revoking it.
func (u *User) PremiumExpired(now time.Time) bool {
	return u.IsPremium && u.SubscriptionExpiryDate != nil && u.SubscriptionExpiryDate.Before(now)
}
