package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"food-spot-backend/internal/domain"
	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ ReviewUseCase = (*reviewUC)(nil)

type ReviewUseCase interface {
	// Create adds a review; one per user per spot.
	Create(ctx context.Context, userID, foodSpotID string, rating int, comment string) (*model.Review, error)
	ListForSpot(ctx context.Context, foodSpotID string, page repository.PageRequest) ([]*model.Review, PageMeta, error)
	// Update edits the caller's own review.
	Update(ctx context.Context, actor *model.User, reviewID string, rating int, comment string) (*model.Review, error)
	// Delete removes the caller's own review; admins may remove any.
	Delete(ctx context.Context, actor *model.User, reviewID string) error
}

type reviewUC struct {
	reviews repository.ReviewRepository
	spots   repository.FoodSpotRepository
	ratings repository.RatingCache
	log     *zerolog.Logger
}

func NewReviewUseCase(reviews repository.ReviewRepository, spots repository.FoodSpotRepository, ratings repository.RatingCache, logger *zerolog.Logger) *reviewUC {
	l := logger.With().Str("component", "ReviewUC").Logger()
	return &reviewUC{reviews: reviews, spots: spots, ratings: ratings, log: &l}
}

func (u *reviewUC) Create(ctx context.Context, userID, foodSpotID string, rating int, comment string) (*model.Review, error) {
	spot, err := u.spots.FindByID(ctx, nil, foodSpotID)
	if err != nil {
		return nil, err
	}
	if spot.ApprovalStatus != model.ApprovalStatusApproved {
		return nil, domain.ErrNotFound
	}
	if existing, err := u.reviews.FindByUserAndSpot(ctx, nil, userID, foodSpotID); err == nil && existing != nil {
		return nil, domain.ErrAlreadyExists
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	review, err := model.NewReview(foodSpotID, userID, rating, comment)
	if err != nil {
		return nil, err
	}
	if err := u.reviews.Save(ctx, nil, review); err != nil {
		return nil, err
	}
	u.invalidateRating(ctx, foodSpotID)
	return review, nil
}

func (u *reviewUC) ListForSpot(ctx context.Context, foodSpotID string, page repository.PageRequest) ([]*model.Review, PageMeta, error) {
	page = page.Normalize()
	items, total, err := u.reviews.ListForSpot(ctx, foodSpotID, page)
	if err != nil {
		return nil, PageMeta{}, err
	}
	return items, NewPageMeta(page.Page, page.Limit, total), nil
}

func (u *reviewUC) Update(ctx context.Context, actor *model.User, reviewID string, rating int, comment string) (*model.Review, error) {
	review, err := u.reviews.FindByID(ctx, nil, reviewID)
	if err != nil {
		return nil, err
	}
	if actor == nil || review.UserID != actor.ID {
		return nil, domain.ErrForbidden
	}
	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidArgument
	}
	review.Rating = rating
	review.Comment = comment
	review.UpdatedAt = time.Now()
	if err := u.reviews.Save(ctx, nil, review); err != nil {
		return nil, err
	}
	u.invalidateRating(ctx, review.FoodSpotID)
	return review, nil
}

func (u *reviewUC) Delete(ctx context.Context, actor *model.User, reviewID string) error {
	review, err := u.reviews.FindByID(ctx, nil, reviewID)
	if err != nil {
		return err
	}
	if actor == nil || (review.UserID != actor.ID && actor.Role != model.RoleAdmin) {
		return domain.ErrForbidden
	}
	if err := u.reviews.Delete(ctx, nil, reviewID); err != nil {
		return err
	}
	u.invalidateRating(ctx, review.FoodSpotID)
	return nil
}

func (u *reviewUC) invalidateRating(ctx context.Context, foodSpotID string) {
	if err := u.ratings.Invalidate(ctx, foodSpotID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		u.log.Warn().Err(err).Str("spot_id", foodSpotID).Msg("failed to drop rating cache entry")
	}
}
