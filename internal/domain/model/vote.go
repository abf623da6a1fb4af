package model

import (
	"time"

	"food-spot-backend/internal/domain"

	"github.com/google/uuid"
)

type VoteType string

const (
	VoteUp   VoteType = "UP"
	VoteDown VoteType = "DOWN"
)

// Vote is a single up/down vote by a user on a food spot. Voting again with
// the opposite direction switches the vote rather than adding a second one.
type Vote struct {
	ID         string
	FoodSpotID string
	UserID     string
	Type       VoteType
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewVote(foodSpotID, userID string, t VoteType) (*Vote, error) {
	if foodSpotID == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if t != VoteUp && t != VoteDown {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Vote{
		ID:         uuid.NewString(),
		FoodSpotID: foodSpotID,
		UserID:     userID,
		Type:       t,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// VoteTally is the aggregated score for one spot.
type VoteTally struct {
	Upvotes   int
	Downvotes int
}

func (t VoteTally) Score() int { return t.Upvotes - t.Downvotes }
