package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

type UserUseCase interface {
	Get(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, filter repository.UserFilter, page repository.PageRequest) ([]*model.User, PageMeta, error)
	// Update applies admin edits: name, role, block flag.
	Update(ctx context.Context, id string, name *string, role *model.UserRole, isBlocked *bool) (*model.User, error)
	// SetPremium is the manual admin override of the entitlement.
	SetPremium(ctx context.Context, id string, isPremium bool, durationDays int) (*model.User, error)
}

type userUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, logger *zerolog.Logger) *userUC {
	l := logger.With().Str("component", "UserUC").Logger()
	return &userUC{users: users, log: &l}
}

func (u *userUC) Get(ctx context.Context, id string) (*model.User, error) {
	return u.users.FindByID(ctx, nil, id)
}

func (u *userUC) List(ctx context.Context, filter repository.UserFilter, page repository.PageRequest) ([]*model.User, PageMeta, error) {
	page = page.Normalize()
	items, total, err := u.users.List(ctx, filter, page)
	if err != nil {
		return nil, PageMeta{}, err
	}
	return items, NewPageMeta(page.Page, page.Limit, total), nil
}

func (u *userUC) Update(ctx context.Context, id string, name *string, role *model.UserRole, isBlocked *bool) (*model.User, error) {
	user, err := u.users.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		user.Name = *name
	}
	if role != nil {
		user.Role = *role
	}
	if isBlocked != nil {
		user.IsBlocked = *isBlocked
	}
	user.UpdatedAt = time.Now()
	if err := u.users.UpdateProfile(ctx, nil, user); err != nil {
		return nil, err
	}
	u.log.Info().Str("user_id", id).Msg("user profile updated")
	return user, nil
}

func (u *userUC) SetPremium(ctx context.Context, id string, isPremium bool, durationDays int) (*model.User, error) {
	user, err := u.users.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	var expiry *time.Time
	if isPremium {
		if durationDays <= 0 {
			durationDays = 30
		}
		e := time.Now().AddDate(0, 0, durationDays)
		expiry = &e
	}
	if err := u.users.SetPremium(ctx, nil, user.ID, isPremium, expiry); err != nil {
		return nil, err
	}
	if isPremium {
		user.GrantPremium(durationDays)
	} else {
		user.RevokePremium()
	}
	u.log.Info().Str("user_id", id).Bool("is_premium", isPremium).Msg("premium status updated by admin")
	return user, nil
}
