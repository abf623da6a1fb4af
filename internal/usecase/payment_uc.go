package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"food-spot-backend/internal/domain"
	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/domain/ports/repository"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// PaymentUseCase is the payment ledger: the durable record of every purchase
// attempt and its outcome. Status transitions are one-way; MarkTerminal is the
// only way out of PENDING and it happens at most once per entry.
type PaymentUseCase interface {
	// Create opens a PENDING ledger entry with a fresh transaction ID.
	Create(ctx context.Context, userID string, plan *model.SubscriptionPlan) (*model.Payment, error)
	// AttachGatewaySession stores the raw create-session payload; status unchanged.
	AttachGatewaySession(ctx context.Context, paymentID string, raw map[string]interface{}) error
	// MarkTerminal transitions PENDING to a terminal status. ErrInvalidTransition
	// when the entry is already terminal, ErrNotFound when unknown.
	MarkTerminal(ctx context.Context, tx repository.Tx, transactionID string, status model.PaymentStatus, extra map[string]interface{}) (*model.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error)
	// FindByID resolves a single ledger entry by its primary key (admin detail view).
	FindByID(ctx context.Context, id string) (*model.Payment, error)
	// ListForUser pages one user's purchase history.
	ListForUser(ctx context.Context, userID string, filter repository.PaymentFilter, page repository.PageRequest) ([]*model.Payment, PageMeta, error)
	// ListAll pages the whole ledger (admin).
	ListAll(ctx context.Context, filter repository.PaymentFilter, page repository.PageRequest) ([]*model.Payment, PageMeta, error)
	// ListSuccessWithoutEntitlement surfaces settled entries whose user never
	// received premium, for the reconciliation pass.
	ListSuccessWithoutEntitlement(ctx context.Context, limit int) ([]*model.Payment, error)
}

type paymentUC struct {
	payments repository.PaymentRepository
	users    repository.UserRepository
	log      *zerolog.Logger
}

func NewPaymentUseCase(payments repository.PaymentRepository, users repository.UserRepository, logger *zerolog.Logger) *paymentUC {
	l := logger.With().Str("component", "PaymentUC").Logger()
	return &paymentUC{payments: payments, users: users, log: &l}
}

func (u *paymentUC) Create(ctx context.Context, userID string, plan *model.SubscriptionPlan) (*model.Payment, error) {
	// The ledger never creates entries for users that don't exist.
	if _, err := u.users.FindByID(ctx, nil, userID); err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	p, err := model.NewPayment(userID, plan, "sslcommerz")
	if err != nil {
		return nil, err
	}
	if err := u.payments.Save(ctx, nil, p); err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}
	u.log.Info().
		Str("payment_id", p.ID).
		Str("user_id", userID).
		Str("plan_id", plan.ID).
		Str("transaction_id", p.TransactionID).
		Msg("payment created")
	return p, nil
}

func (u *paymentUC) AttachGatewaySession(ctx context.Context, paymentID string, raw map[string]interface{}) error {
	return u.payments.AttachGatewayData(ctx, nil, paymentID, raw)
}

func (u *paymentUC) MarkTerminal(ctx context.Context, tx repository.Tx, transactionID string, status model.PaymentStatus, extra map[string]interface{}) (*model.Payment, error) {
	if !status.IsTerminal() {
		return nil, domain.ErrInvalidArgument
	}
	p, err := u.payments.MarkTerminal(ctx, tx, transactionID, status, extra)
	if err != nil {
		return nil, err
	}
	u.log.Info().
		Str("transaction_id", transactionID).
		Str("status", string(status)).
		Msg("payment terminalized")
	return p, nil
}

func (u *paymentUC) FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	return u.payments.FindByTransactionID(ctx, nil, transactionID)
}

func (u *paymentUC) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	return u.payments.FindByID(ctx, nil, id)
}

func (u *paymentUC) ListForUser(ctx context.Context, userID string, filter repository.PaymentFilter, page repository.PageRequest) ([]*model.Payment, PageMeta, error) {
	filter.UserID = userID
	return u.ListAll(ctx, filter, page)
}

func (u *paymentUC) ListAll(ctx context.Context, filter repository.PaymentFilter, page repository.PageRequest) ([]*model.Payment, PageMeta, error) {
	page = page.Normalize()
	items, total, err := u.payments.List(ctx, filter, page)
	if err != nil {
		return nil, PageMeta{}, err
	}
	return items, NewPageMeta(page.Page, page.Limit, total), nil
}

func (u *paymentUC) ListSuccessWithoutEntitlement(ctx context.Context, limit int) ([]*model.Payment, error) {
	return u.payments.ListSuccessWithoutEntitlement(ctx, nil, limit)
}
