package model

import (
	"time"

	"food-spot-backend/internal/domain"

	"github.com/google/uuid"
)

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

// FoodSpot is a user-submitted venue. Newly submitted spots sit in the
// PENDING approval queue until an admin approves or rejects them.
type FoodSpot struct {
	ID             string
	Title          string
	Description    string
	Location       string
	Category       string
	MinPrice       int64
	MaxPrice       int64
	ImageURL       string
	IsPremiumOnly  bool
	ApprovalStatus ApprovalStatus
	AdminComment   string
	CreatorID      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewFoodSpot(creatorID, title, description, location, category string, minPrice, maxPrice int64) (*FoodSpot, error) {
	if creatorID == "" || title == "" || location == "" {
		return nil, domain.ErrInvalidArgument
	}
	if minPrice < 0 || maxPrice < minPrice {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &FoodSpot{
		ID:             uuid.NewString(),
		Title:          title,
		Description:    description,
		Location:       location,
		Category:       category,
		MinPrice:       minPrice,
		MaxPrice:       maxPrice,
		ApprovalStatus: ApprovalStatusPending,
		CreatorID:      creatorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (f *FoodSpot) IsZero() bool { return f == nil || f.ID == "" }

// VisibleTo reports whether a user may see this spot in public listings.
func (f *FoodSpot) VisibleTo(u *User) bool {
	if f.ApprovalStatus != ApprovalStatusApproved {
		return false
	}
	if !f.IsPremiumOnly {
		return true
	}
	return u != nil && (u.IsPremium || u.Role == RoleAdmin)
}
