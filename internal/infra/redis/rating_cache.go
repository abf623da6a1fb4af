package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"food-spot-backend/internal/domain"
	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.RatingCache = (*RatingCache)(nil)

// RatingCache keeps rating aggregates per food spot with a TTL so listings
// don't recount reviews on every request.
type RatingCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewRatingCache(client RedisClient, ttl time.Duration) *RatingCache {
	return &RatingCache{
		client: client,
		ttl:    ttl,
	}
}

func ratingKey(foodSpotID string) string {
	return "rating:" + foodSpotID
}

func (c *RatingCache) GetRating(ctx context.Context, foodSpotID string) (*model.RatingStats, error) {
	data, err := c.client.Get(ctx, ratingKey(foodSpotID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var stats model.RatingStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *RatingCache) SetRating(ctx context.Context, foodSpotID string, stats model.RatingStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ratingKey(foodSpotID), data, c.ttl)
}

func (c *RatingCache) Invalidate(ctx context.Context, foodSpotID string) error {
	return c.client.Del(ctx, ratingKey(foodSpotID))
}
