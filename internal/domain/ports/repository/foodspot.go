package repository

import (
	"context"

	"food-spot-backend/internal/domain/model"
)

// FoodSpotFilter narrows food-spot list queries.
type FoodSpotFilter struct {
	SearchTerm     string // matches title, description, location
	Category       string
	Location       string
	MinPrice       int64
	MaxPrice       int64
	ApprovalStatus model.ApprovalStatus
	CreatorID      string
	PremiumVisible bool // include premium-only spots
}

type FoodSpotRepository interface {
	Save(ctx context.Context, tx Tx, f *model.FoodSpot) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.FoodSpot, error)
	List(ctx context.Context, filter FoodSpotFilter, page PageRequest) ([]*model.FoodSpot, int, error)
	UpdateApproval(ctx context.Context, tx Tx, id string, status model.ApprovalStatus, adminComment string) error
	Delete(ctx context.Context, tx Tx, id string) error
}

type ReviewRepository interface {
	Save(ctx context.Context, tx Tx, r *model.Review) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Review, error)
	FindByUserAndSpot(ctx context.Context, tx Tx, userID, foodSpotID string) (*model.Review, error)
	ListForSpot(ctx context.Context, foodSpotID string, page PageRequest) ([]*model.Review, int, error)
	ListAllForSpot(ctx context.Context, tx Tx, foodSpotID string) ([]*model.Review, error)
	Delete(ctx context.Context, tx Tx, id string) error
}

type VoteRepository interface {
	// Upsert stores the vote, replacing a prior vote by the same user on the
	// same spot (revote switches direction).
	Upsert(ctx context.Context, tx Tx, v *model.Vote) error
	FindByUserAndSpot(ctx context.Context, tx Tx, userID, foodSpotID string) (*model.Vote, error)
	Delete(ctx context.Context, tx Tx, userID, foodSpotID string) error
	TallyForSpot(ctx context.Context, tx Tx, foodSpotID string) (model.VoteTally, error)
}
