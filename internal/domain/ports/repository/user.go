package repository

import (
	"context"
	"time"

	"food-spot-backend/internal/domain/model"
)

// UserFilter narrows user list queries. Nil pointer fields mean "any".
type UserFilter struct {
	SearchTerm string // matches name or email
	Role       model.UserRole
	IsPremium  *bool
	IsBlocked  *bool
}

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.User, error)
	List(ctx context.Context, filter UserFilter, page PageRequest) ([]*model.User, int, error)

	// GrantPremium flips the entitlement with an explicit expiry; it runs
	// inside the verify transaction together with the payment status update.
	GrantPremium(ctx context.Context, tx Tx, userID string, expiry time.Time) error

	// SetPremium is the unconditional admin path; a nil expiry revokes.
	SetPremium(ctx context.Context, tx Tx, userID string, isPremium bool, expiry *time.Time) error

	// UpdateProfile applies admin edits (name, role, block flag).
	UpdateProfile(ctx context.Context, tx Tx, u *model.User) error

	// RevokeExpired bulk-revokes premium for every user whose expiry has
	// passed. Returns the number of users revoked; safe to run repeatedly.
	RevokeExpired(ctx context.Context, tx Tx) (int, error)
}
