package repository

import (
	"context"
	"time"

	"food-spot-backend/internal/domain/model"
)

// PaymentFilter narrows payment list queries.
type PaymentFilter struct {
	UserID     string
	Status     model.PaymentStatus
	SearchTerm string // matches transaction id or payment method
}

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Payment, error)
	FindByTransactionID(ctx context.Context, tx Tx, transactionID string) (*model.Payment, error)
	List(ctx context.Context, filter PaymentFilter, page PageRequest) ([]*model.Payment, int, error)

	// AttachGatewayData merges raw gateway payloads into the entry without
	// touching its status.
	AttachGatewayData(ctx context.Context, tx Tx, paymentID string, data map[string]interface{}) error

	// MarkTerminal transitions PENDING to the given terminal status as a single
	// conditional update. It is the sole mutual-exclusion point of the ledger:
	// ErrInvalidTransition when the entry is already terminal, ErrNotFound when
	// no entry matches the transaction id.
	MarkTerminal(ctx context.Context, tx Tx, transactionID string, status model.PaymentStatus, extra map[string]interface{}) (*model.Payment, error)

	// ListSuccessWithoutEntitlement returns SUCCESS payments whose user is not
	// premium, for the reconciliation pass.
	ListSuccessWithoutEntitlement(ctx context.Context, tx Tx, limit int) ([]*model.Payment, error)

	// ListPendingWithValidationToken returns PENDING payments older than the
	// cutoff that already carry a gateway validation token, for reconciler
	// re-verification after a crashed or failed verify.
	ListPendingWithValidationToken(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.Payment, error)
}
