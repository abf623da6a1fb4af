package model

import (
	"crypto/rand"
	"time"

	"food-spot-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"   // awaiting gateway verification
	PaymentStatusSuccess   PaymentStatus = "SUCCESS"   // verified OK at the gateway
	PaymentStatusFailed    PaymentStatus = "FAILED"    // verification failed or session creation failed
	PaymentStatusCancelled PaymentStatus = "CANCELLED" // user cancelled at the gateway
)

// IsTerminal reports whether the status permits no further transition.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed || s == PaymentStatusCancelled
}

// Payment is one ledger entry: a single purchase attempt and its outcome.
// GatewayData holds the raw gateway payloads (session response, then the
// verification response) as opaque JSON.
type Payment struct {
	ID             string
	UserID         string
	PlanID         string
	Amount         int64
	CurrencyCode   string
	Status         PaymentStatus
	PaymentMethod  string
	TransactionID  string
	GatewayData    map[string]interface{}
	DurationInDays int
	PaidAt         *time.Time // set when the payment reaches SUCCESS
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewPayment builds a PENDING ledger entry with a fresh transaction ID.
func NewPayment(userID string, plan *SubscriptionPlan, method string) (*Payment, error) {
	if userID == "" || plan.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Payment{
		ID:             uuid.NewString(),
		UserID:         userID,
		PlanID:         plan.ID,
		Amount:         plan.Price,
		CurrencyCode:   plan.CurrencyCode,
		Status:         PaymentStatusPending,
		PaymentMethod:  method,
		TransactionID:  NewTransactionID(now),
		GatewayData:    map[string]interface{}{},
		DurationInDays: plan.DurationInDays,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// NewTransactionID returns a globally unique correlation key for gateway
// callbacks. The ULID carries 80 bits of crypto/rand entropy, so the ID cannot
// be guessed from the timestamp alone.
func NewTransactionID(now time.Time) string {
	return "FOOD-SPOT-" + ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
}
