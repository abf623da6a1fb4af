package model

import (
	"time"

	"food-spot-backend/internal/domain"

	"github.com/google/uuid"
)

// Review is a rated comment on a food spot. One review per user per spot.
type Review struct {
	ID         string
	FoodSpotID string
	UserID     string
	Rating     int // 1..5
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewReview(foodSpotID, userID string, rating int, comment string) (*Review, error) {
	if foodSpotID == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Review{
		ID:         uuid.NewString(),
		FoodSpotID: foodSpotID,
		UserID:     userID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// RatingStats aggregates review ratings for one spot.
type RatingStats struct {
	AverageRating float64
	ReviewCount   int
}

// CalculateRating averages ratings; zero reviews yield a zero value.
func CalculateRating(reviews []*Review) RatingStats {
	if len(reviews) == 0 {
		return RatingStats{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	// Round to one decimal place, matching the listing payload.
	return RatingStats{
		AverageRating: float64(int(avg*10+0.5)) / 10,
		ReviewCount:   len(reviews),
	}
}
