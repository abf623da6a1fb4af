package repository

import (
	"context"

	"food-spot-backend/internal/domain/model"
)

// RatingCache holds precomputed rating aggregates per food spot so listing
// pages don't recount reviews on every request. Misses return ErrNotFound.
type RatingCache interface {
	GetRating(ctx context.Context, foodSpotID string) (*model.RatingStats, error)
	SetRating(ctx context.Context, foodSpotID string, stats model.RatingStats) error
	Invalidate(ctx context.Context, foodSpotID string) error
}
