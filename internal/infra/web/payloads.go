package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"food-spot-backend/internal/domain"
	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/usecase"
)

// userPayload is the public shape of a user. The password hash never leaves
// the domain layer.
type userPayload struct {
	ID                     string     `json:"id"`
	Name                   string     `json:"name"`
	Email                  string     `json:"email"`
	Role                   string     `json:"role"`
	IsBlocked              bool       `json:"isBlocked"`
	IsPremium              bool       `json:"isPremium"`
	SubscriptionExpiryDate *time.Time `json:"subscriptionExpiryDate,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
}

func toUserPayload(u *model.User) userPayload {
	return userPayload{
		ID:                     u.ID,
		Name:                   u.Name,
		Email:                  u.Email,
		Role:                   string(u.Role),
		IsBlocked:              u.IsBlocked,
		IsPremium:              u.IsPremium,
		SubscriptionExpiryDate: u.SubscriptionExpiryDate,
		CreatedAt:              u.CreatedAt,
	}
}

func toUserPayloads(users []*model.User) []userPayload {
	out := make([]userPayload, 0, len(users))
	for _, u := range users {
		out = append(out, toUserPayload(u))
	}
	return out
}

type planPayload struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Price          int64    `json:"price"`
	Currency       string   `json:"currency"`
	DurationInDays int      `json:"durationInDays"`
	Features       []string `json:"features"`
}

func toPlanPayload(p model.SubscriptionPlan) planPayload {
	return planPayload{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		Currency:       p.CurrencyCode,
		DurationInDays: p.DurationInDays,
		Features:       p.Features,
	}
}

type foodSpotPayload struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	Category       string    `json:"category"`
	MinPrice       int64     `json:"minPrice"`
	MaxPrice       int64     `json:"maxPrice"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	IsPremiumOnly  bool      `json:"isPremiumOnly"`
	ApprovalStatus string    `json:"approvalStatus"`
	AdminComment   string    `json:"adminComment,omitempty"`
	CreatorID      string    `json:"creatorId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toFoodSpotPayload(f *model.FoodSpot) foodSpotPayload {
	return foodSpotPayload{
		ID:             f.ID,
		Title:          f.Title,
		Description:    f.Description,
		Location:       f.Location,
		Category:       f.Category,
		MinPrice:       f.MinPrice,
		MaxPrice:       f.MaxPrice,
		ImageURL:       f.ImageURL,
		IsPremiumOnly:  f.IsPremiumOnly,
		ApprovalStatus: string(f.ApprovalStatus),
		AdminComment:   f.AdminComment,
		CreatorID:      f.CreatorID,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

type foodSpotListedPayload struct {
	foodSpotPayload
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

func toFoodSpotListedPayload(f *usecase.FoodSpotListed) foodSpotListedPayload {
	return foodSpotListedPayload{
		foodSpotPayload: toFoodSpotPayload(f.FoodSpot),
		AverageRating:   f.AverageRating,
		ReviewCount:     f.ReviewCount,
	}
}

type foodSpotDetailPayload struct {
	foodSpotPayload
	AverageRating float64         `json:"averageRating"`
	ReviewCount   int             `json:"reviewCount"`
	Upvotes       int             `json:"upvotes"`
	Downvotes     int             `json:"downvotes"`
	Score         int             `json:"score"`
	Reviews       []reviewPayload `json:"reviews"`
}

func toFoodSpotDetailPayload(d *usecase.FoodSpotDetail) foodSpotDetailPayload {
	return foodSpotDetailPayload{
		foodSpotPayload: toFoodSpotPayload(d.FoodSpot),
		AverageRating:   d.AverageRating,
		ReviewCount:     d.ReviewCount,
		Upvotes:         d.Upvotes,
		Downvotes:       d.Downvotes,
		Score:           d.VoteTally.Score(),
		Reviews:         toReviewPayloads(d.Reviews),
	}
}

type reviewPayload struct {
	ID         string    `json:"id"`
	FoodSpotID string    `json:"foodSpotId"`
	UserID     string    `json:"userId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toReviewPayload(r *model.Review) reviewPayload {
	return reviewPayload{
		ID:         r.ID,
		FoodSpotID: r.FoodSpotID,
		UserID:     r.UserID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toReviewPayloads(reviews []*model.Review) []reviewPayload {
	out := make([]reviewPayload, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toReviewPayload(r))
	}
	return out
}

type tallyPayload struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
	Score     int `json:"score"`
}

func toTallyPayload(t model.VoteTally) tallyPayload {
	return tallyPayload{Upvotes: t.Upvotes, Downvotes: t.Downvotes, Score: t.Score()}
}

type paymentPayload struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	PlanID         string     `json:"planId"`
	Amount         int64      `json:"amount"`
	Currency       string     `json:"currency"`
	Status         string     `json:"status"`
	PaymentMethod  string     `json:"paymentMethod"`
	TransactionID  string     `json:"transactionId"`
	DurationInDays int        `json:"durationInDays"`
	PaidAt         *time.Time `json:"paidAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func toPaymentPayload(p *model.Payment) paymentPayload {
	return paymentPayload{
		ID:             p.ID,
		UserID:         p.UserID,
		PlanID:         p.PlanID,
		Amount:         p.Amount,
		Currency:       p.CurrencyCode,
		Status:         string(p.Status),
		PaymentMethod:  p.PaymentMethod,
		TransactionID:  p.TransactionID,
		DurationInDays: p.DurationInDays,
		PaidAt:         p.PaidAt,
		CreatedAt:      p.CreatedAt,
	}
}

func toPaymentPayloads(payments []*model.Payment) []paymentPayload {
	out := make([]paymentPayload, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentPayload(p))
	}
	return out
}

// listResponse wraps listing payloads with their pagination metadata.
type listResponse struct {
	Data interface{}      `json:"data"`
	Meta usecase.PageMeta `json:"meta"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeDomainError maps domain sentinels to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "already exists"})
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	case errors.Is(err, domain.ErrUserBlocked):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "account is blocked"})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, domain.ErrGatewayUnavailable):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "payment gateway unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
