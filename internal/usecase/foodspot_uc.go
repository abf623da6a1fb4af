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
var _ FoodSpotUseCase = (*foodSpotUC)(nil)

// FoodSpotInput carries the writable fields of a spot.
type FoodSpotInput struct {
	Title         string
	Description   string
	Location      string
	Category      string
	MinPrice      int64
	MaxPrice      int64
	ImageURL      string
	IsPremiumOnly bool
}

// FoodSpotListed is a spot decorated with its rating aggregate for listings.
type FoodSpotListed struct {
	*model.FoodSpot
	model.RatingStats
}

// FoodSpotDetail is the full read model for a single spot.
type FoodSpotDetail struct {
	*model.FoodSpot
	model.RatingStats
	model.VoteTally
	Reviews []*model.Review
}

type FoodSpotUseCase interface {
	// Submit creates a spot in the PENDING approval queue.
	Submit(ctx context.Context, creatorID string, in FoodSpotInput) (*model.FoodSpot, error)
	Get(ctx context.Context, id string, viewer *model.User) (*FoodSpotDetail, error)
	// List pages approved spots visible to the viewer, rating-decorated.
	List(ctx context.Context, viewer *model.User, filter repository.FoodSpotFilter, page repository.PageRequest) ([]*FoodSpotListed, PageMeta, error)
	// ListPending pages the admin approval queue.
	ListPending(ctx context.Context, page repository.PageRequest) ([]*model.FoodSpot, PageMeta, error)
	Update(ctx context.Context, actor *model.User, id string, in FoodSpotInput) (*model.FoodSpot, error)
	// SetApproval resolves a queue entry; admin only (enforced at the router).
	SetApproval(ctx context.Context, id string, status model.ApprovalStatus, adminComment string) (*model.FoodSpot, error)
	Delete(ctx context.Context, actor *model.User, id string) error
}

type foodSpotUC struct {
	spots   repository.FoodSpotRepository
	reviews repository.ReviewRepository
	votes   repository.VoteRepository
	ratings repository.RatingCache
	log     *zerolog.Logger
}

func NewFoodSpotUseCase(
	spots repository.FoodSpotRepository,
	reviews repository.ReviewRepository,
	votes repository.VoteRepository,
	ratings repository.RatingCache,
	logger *zerolog.Logger,
) *foodSpotUC {
	l := logger.With().Str("component", "FoodSpotUC").Logger()
	return &foodSpotUC{spots: spots, reviews: reviews, votes: votes, ratings: ratings, log: &l}
}

func (u *foodSpotUC) Submit(ctx context.Context, creatorID string, in FoodSpotInput) (*model.FoodSpot, error) {
	spot, err := model.NewFoodSpot(creatorID, in.Title, in.Description, in.Location, in.Category, in.MinPrice, in.MaxPrice)
	if err != nil {
		return nil, err
	}
	spot.ImageURL = in.ImageURL
	spot.IsPremiumOnly = in.IsPremiumOnly
	if err := u.spots.Save(ctx, nil, spot); err != nil {
		return nil, err
	}
	u.log.Info().Str("spot_id", spot.ID).Str("creator_id", creatorID).Msg("food spot submitted for approval")
	return spot, nil
}

func (u *foodSpotUC) Get(ctx context.Context, id string, viewer *model.User) (*FoodSpotDetail, error) {
	spot, err := u.spots.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !spot.VisibleTo(viewer) && !u.canManage(viewer, spot) {
		return nil, domain.ErrNotFound
	}

	reviews, err := u.reviews.ListAllForSpot(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	tally, err := u.votes.TallyForSpot(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return &FoodSpotDetail{
		FoodSpot:    spot,
		RatingStats: model.CalculateRating(reviews),
		VoteTally:   tally,
		Reviews:     reviews,
	}, nil
}

func (u *foodSpotUC) List(ctx context.Context, viewer *model.User, filter repository.FoodSpotFilter, page repository.PageRequest) ([]*FoodSpotListed, PageMeta, error) {
	page = page.Normalize()
	filter.ApprovalStatus = model.ApprovalStatusApproved
	filter.PremiumVisible = viewer != nil && (viewer.IsPremium || viewer.Role == model.RoleAdmin)

	spots, total, err := u.spots.List(ctx, filter, page)
	if err != nil {
		return nil, PageMeta{}, err
	}

	listed := make([]*FoodSpotListed, 0, len(spots))
	for _, spot := range spots {
		stats, err := u.ratingFor(ctx, spot.ID)
		if err != nil {
			return nil, PageMeta{}, err
		}
		listed = append(listed, &FoodSpotListed{FoodSpot: spot, RatingStats: stats})
	}
	return listed, NewPageMeta(page.Page, page.Limit, total), nil
}

func (u *foodSpotUC) ListPending(ctx context.Context, page repository.PageRequest) ([]*model.FoodSpot, PageMeta, error) {
	page = page.Normalize()
	spots, total, err := u.spots.List(ctx, repository.FoodSpotFilter{
		ApprovalStatus: model.ApprovalStatusPending,
		PremiumVisible: true,
	}, page)
	if err != nil {
		return nil, PageMeta{}, err
	}
	return spots, NewPageMeta(page.Page, page.Limit, total), nil
}

func (u *foodSpotUC) Update(ctx context.Context, actor *model.User, id string, in FoodSpotInput) (*model.FoodSpot, error) {
	spot, err := u.spots.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !u.canManage(actor, spot) {
		return nil, domain.ErrForbidden
	}
	if in.Title == "" || in.Location == "" || in.MinPrice < 0 || in.MaxPrice < in.MinPrice {
		return nil, domain.ErrInvalidArgument
	}

	spot.Title = in.Title
	spot.Description = in.Description
	spot.Location = in.Location
	spot.Category = in.Category
	spot.MinPrice = in.MinPrice
	spot.MaxPrice = in.MaxPrice
	spot.ImageURL = in.ImageURL
	spot.IsPremiumOnly = in.IsPremiumOnly
	spot.UpdatedAt = time.Now()
	// Creator edits re-enter the approval queue; admin edits don't.
	if actor.Role != model.RoleAdmin {
		spot.ApprovalStatus = model.ApprovalStatusPending
		spot.AdminComment = ""
	}
	if err := u.spots.Save(ctx, nil, spot); err != nil {
		return nil, err
	}
	return spot, nil
}

func (u *foodSpotUC) SetApproval(ctx context.Context, id string, status model.ApprovalStatus, adminComment string) (*model.FoodSpot, error) {
	if status != model.ApprovalStatusApproved && status != model.ApprovalStatusRejected {
		return nil, domain.ErrInvalidArgument
	}
	if err := u.spots.UpdateApproval(ctx, nil, id, status, adminComment); err != nil {
		return nil, err
	}
	u.log.Info().Str("spot_id", id).Str("status", string(status)).Msg("food spot approval resolved")
	return u.spots.FindByID(ctx, nil, id)
}

func (u *foodSpotUC) Delete(ctx context.Context, actor *model.User, id string) error {
	spot, err := u.spots.FindByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if !u.canManage(actor, spot) {
		return domain.ErrForbidden
	}
	if err := u.spots.Delete(ctx, nil, id); err != nil {
		return err
	}
	if err := u.ratings.Invalidate(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		u.log.Warn().Err(err).Str("spot_id", id).Msg("failed to drop rating cache entry")
	}
	return nil
}

func (u *foodSpotUC) canManage(actor *model.User, spot *model.FoodSpot) bool {
	return actor != nil && (actor.Role == model.RoleAdmin || actor.ID == spot.CreatorID)
}

// ratingFor serves the aggregate from cache, recomputing on miss.
func (u *foodSpotUC) ratingFor(ctx context.Context, spotID string) (model.RatingStats, error) {
	if cached, err := u.ratings.GetRating(ctx, spotID); err == nil {
		return *cached, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		u.log.Warn().Err(err).Str("spot_id", spotID).Msg("rating cache read failed")
	}

	reviews, err := u.reviews.ListAllForSpot(ctx, nil, spotID)
	if err != nil {
		return model.RatingStats{}, err
	}
	stats := model.CalculateRating(reviews)
	if err := u.ratings.SetRating(ctx, spotID, stats); err != nil {
		u.log.Warn().Err(err).Str("spot_id", spotID).Msg("rating cache write failed")
	}
	return stats, nil
}
