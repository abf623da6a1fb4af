package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"food-spot-backend/internal/domain"
	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ VoteUseCase = (*voteUC)(nil)

type VoteUseCase interface {
	// Cast records an up or down vote; voting again switches direction.
	Cast(ctx context.Context, userID, foodSpotID string, t model.VoteType) (model.VoteTally, error)
	// Retract removes the caller's vote; retracting a missing vote is a no-op.
	Retract(ctx context.Context, userID, foodSpotID string) (model.VoteTally, error)
	Tally(ctx context.Context, foodSpotID string) (model.VoteTally, error)
}

type voteUC struct {
	votes repository.VoteRepository
	spots repository.FoodSpotRepository
	log   *zerolog.Logger
}

func NewVoteUseCase(votes repository.VoteRepository, spots repository.FoodSpotRepository, logger *zerolog.Logger) *voteUC {
	l := logger.With().Str("component", "VoteUC").Logger()
	return &voteUC{votes: votes, spots: spots, log: &l}
}

func (u *voteUC) Cast(ctx context.Context, userID, foodSpotID string, t model.VoteType) (model.VoteTally, error) {
	spot, err := u.spots.FindByID(ctx, nil, foodSpotID)
	if err != nil {
		return model.VoteTally{}, err
	}
	if spot.ApprovalStatus != model.ApprovalStatusApproved {
		return model.VoteTally{}, domain.ErrNotFound
	}

	vote, err := model.NewVote(foodSpotID, userID, t)
	if err != nil {
		return model.VoteTally{}, err
	}
	// Upsert keeps one row per (user, spot): a revote flips the direction.
	if existing, err := u.votes.FindByUserAndSpot(ctx, nil, userID, foodSpotID); err == nil && existing != nil {
		vote.ID = existing.ID
		vote.CreatedAt = existing.CreatedAt
		vote.UpdatedAt = time.Now()
	}
	if err := u.votes.Upsert(ctx, nil, vote); err != nil {
		return model.VoteTally{}, err
	}
	return u.votes.TallyForSpot(ctx, nil, foodSpotID)
}

func (u *voteUC) Retract(ctx context.Context, userID, foodSpotID string) (model.VoteTally, error) {
	if err := u.votes.Delete(ctx, nil, userID, foodSpotID); err != nil {
		return model.VoteTally{}, err
	}
	return u.votes.TallyForSpot(ctx, nil, foodSpotID)
}

func (u *voteUC) Tally(ctx context.Context, foodSpotID string) (model.VoteTally, error) {
	return u.votes.TallyForSpot(ctx, nil, foodSpotID)
}
