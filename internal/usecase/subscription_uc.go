package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"food-spot-backend/internal/domain"
	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/domain/ports/adapter"
	"food-spot-backend/internal/domain/ports/repository"
	"food-spot-backend/internal/infra/metrics"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// CallbackURLs are the four endpoints handed to the gateway on every
// create-session call. Success, fail, cancel and IPN all route back through
// this backend; the frontend only ever sees the final redirect.
type CallbackURLs struct {
	Success string
	Fail    string
	Cancel  string
	IPN     string
}

// SubscriptionUseCase drives the purchase -> verification -> entitlement state
// machine and the expiry sweep.
type SubscriptionUseCase interface {
	Plans(ctx context.Context) []model.SubscriptionPlan
	PlanByID(ctx context.Context, planID string) (*model.SubscriptionPlan, error)

	// Initiate opens a ledger entry and a hosted checkout session, returning
	// the pending payment and the gateway redirect URL.
	Initiate(ctx context.Context, userID, planID string) (*model.Payment, string, error)

	// Verify settles a transaction against the gateway's validator. Idempotent:
	// a payment already terminal is returned unchanged, and concurrent calls
	// grant the entitlement exactly once.
	Verify(ctx context.Context, transactionID, validationToken string) (*model.Payment, error)

	// Cancel and Fail terminalize a pending payment from the explicit gateway
	// callbacks; both are no-ops on already-terminal entries.
	Cancel(ctx context.Context, transactionID string) (*model.Payment, error)
	Fail(ctx context.Context, transactionID string) (*model.Payment, error)

	// SweepExpired revokes premium from every user whose expiry has passed.
	SweepExpired(ctx context.Context) (int, error)

	// ReconcileEntitlements repairs SUCCESS payments whose user never received
	// premium (crash between the status write and the grant).
	ReconcileEntitlements(ctx context.Context) (int, error)
}

type subscriptionUC struct {
	ledger    PaymentUseCase
	users     repository.UserRepository
	gateway   adapter.PaymentGateway
	tm        repository.TransactionManager
	callbacks CallbackURLs
	log       *zerolog.Logger
}

func NewSubscriptionUseCase(
	ledger PaymentUseCase,
	users repository.UserRepository,
	gateway adapter.PaymentGateway,
	tm repository.TransactionManager,
	callbacks CallbackURLs,
	logger *zerolog.Logger,
) *subscriptionUC {
	l := logger.With().Str("component", "SubscriptionUC").Logger()
	return &subscriptionUC{
		ledger:    ledger,
		users:     users,
		gateway:   gateway,
		tm:        tm,
		callbacks: callbacks,
		log:       &l,
	}
}

func (u *subscriptionUC) Plans(ctx context.Context) []model.SubscriptionPlan {
	return model.SubscriptionPlans
}

func (u *subscriptionUC) PlanByID(ctx context.Context, planID string) (*model.SubscriptionPlan, error) {
	return model.PlanByID(planID)
}

func (u *subscriptionUC) Initiate(ctx context.Context, userID, planID string) (*model.Payment, string, error) {
	user, err := u.users.FindByID(ctx, nil, userID)
	if err != nil {
		return nil, "", fmt.Errorf("resolve user: %w", err)
	}
	plan, err := model.PlanByID(planID)
	if err != nil {
		return nil, "", fmt.Errorf("resolve plan %q: %w", planID, err)
	}

	payment, err := u.ledger.Create(ctx, user.ID, plan)
	if err != nil {
		return nil, "", err
	}

	sess, err := u.gateway.CreateSession(ctx, adapter.CreateSessionRequest{
		Amount:        plan.Price,
		CurrencyCode:  plan.CurrencyCode,
		TransactionID: payment.TransactionID,
		ProductName:   plan.Name + " Subscription",
		CustomerName:  user.Name,
		CustomerEmail: user.Email,
		SuccessURL:    u.callbacks.Success,
		FailURL:       u.callbacks.Fail,
		CancelURL:     u.callbacks.Cancel,
		IPNURL:        u.callbacks.IPN,
	})
	if err != nil {
		// A dead gateway must not leave the entry PENDING forever.
		if _, mErr := u.ledger.MarkTerminal(ctx, nil, payment.TransactionID, model.PaymentStatusFailed, nil); mErr != nil {
			u.log.Error().Err(mErr).Str("transaction_id", payment.TransactionID).Msg("failed to mark payment after gateway error")
		}
		u.log.Warn().Err(err).Str("transaction_id", payment.TransactionID).Msg("gateway session creation failed")
		return nil, "", fmt.Errorf("%w: create session: %v", domain.ErrGatewayUnavailable, err)
	}

	if err := u.ledger.AttachGatewaySession(ctx, payment.ID, sess.Raw); err != nil {
		u.log.Error().Err(err).Str("payment_id", payment.ID).Msg("failed to attach gateway session data")
	}
	metrics.IncPaymentInitiated()
	u.log.Info().
		Str("user_id", user.ID).
		Str("plan_id", plan.ID).
		Str("transaction_id", payment.TransactionID).
		Msg("subscription purchase initiated")
	return payment, sess.RedirectURL, nil
}

func (u *subscriptionUC) Verify(ctx context.Context, transactionID, validationToken string) (*model.Payment, error) {
	payment, err := u.ledger.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	// Duplicate delivery (redirect + IPN, or a redelivered IPN) returns the
	// settled record without touching the user again.
	if payment.Status.IsTerminal() {
		metrics.IncPaymentVerify("duplicate")
		return payment, nil
	}

	// Persist the validation token first so the reconciler can retry this
	// verification if we crash or the gateway call below fails.
	if validationToken != "" {
		if err := u.ledger.AttachGatewaySession(ctx, payment.ID, map[string]interface{}{"val_id": validationToken}); err != nil {
			u.log.Error().Err(err).Str("payment_id", payment.ID).Msg("failed to store validation token")
		}
	}

	result, err := u.gateway.ValidateTransaction(ctx, validationToken)
	if err != nil {
		// Retryable: the payment stays PENDING for a later callback or the reconciler.
		metrics.IncPaymentVerify("gateway_error")
		return nil, fmt.Errorf("%w: validate transaction: %v", domain.ErrGatewayUnavailable, err)
	}

	if !result.Valid {
		p, err := u.ledger.MarkTerminal(ctx, nil, transactionID, model.PaymentStatusFailed, result.Raw)
		if errors.Is(err, domain.ErrInvalidTransition) {
			// Lost a race with another verify; return whatever won.
			metrics.IncPaymentVerify("duplicate")
			return u.ledger.FindByTransactionID(ctx, transactionID)
		}
		if err != nil {
			return nil, err
		}
		metrics.IncPaymentVerify("invalid")
		u.log.Info().Str("transaction_id", transactionID).Msg("gateway reported transaction invalid")
		return p, nil
	}

	// Status write and entitlement grant are one atomic unit: a crash between
	// them must not strand a SUCCESS payment on a non-premium user.
	var settled *model.Payment
	txErr := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.ledger.MarkTerminal(ctx, tx, transactionID, model.PaymentStatusSuccess, result.Raw)
		if err != nil {
			return err
		}
		expiry := time.Now().AddDate(0, 0, p.DurationInDays)
		if err := u.users.GrantPremium(ctx, tx, p.UserID, expiry); err != nil {
			return fmt.Errorf("grant entitlement: %w", err)
		}
		settled = p
		return nil
	})
	if errors.Is(txErr, domain.ErrInvalidTransition) {
		// Exactly one concurrent verify wins the conditional update; the
		// losers observe the terminal record and report success to the caller.
		metrics.IncPaymentVerify("duplicate")
		return u.ledger.FindByTransactionID(ctx, transactionID)
	}
	if txErr != nil {
		return nil, txErr
	}

	metrics.IncPaymentVerify("success")
	u.log.Info().
		Str("transaction_id", transactionID).
		Str("user_id", settled.UserID).
		Int("duration_days", settled.DurationInDays).
		Msg("payment verified, premium granted")
	return settled, nil
}

func (u *subscriptionUC) Cancel(ctx context.Context, transactionID string) (*model.Payment, error) {
	return u.terminalizeFromCallback(ctx, transactionID, model.PaymentStatusCancelled)
}

func (u *subscriptionUC) Fail(ctx context.Context, transactionID string) (*model.Payment, error) {
	return u.terminalizeFromCallback(ctx, transactionID, model.PaymentStatusFailed)
}

// terminalizeFromCallback settles a payment from the explicit fail/cancel
// redirect. Duplicate callbacks are tolerated the same way Verify tolerates them.
func (u *subscriptionUC) terminalizeFromCallback(ctx context.Context, transactionID string, status model.PaymentStatus) (*model.Payment, error) {
	p, err := u.ledger.MarkTerminal(ctx, nil, transactionID, status, nil)
	if errors.Is(err, domain.ErrInvalidTransition) {
		return u.ledger.FindByTransactionID(ctx, transactionID)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (u *subscriptionUC) SweepExpired(ctx context.Context) (int, error) {
	n, err := u.users.RevokeExpired(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("revoke expired: %w", err)
	}
	if n > 0 {
		metrics.IncSubscriptionsExpired(n)
		u.log.Info().Int("revoked", n).Msg("expired premium subscriptions revoked")
	}
	return n, nil
}

func (u *subscriptionUC) ReconcileEntitlements(ctx context.Context) (int, error) {
	orphans, err := u.ledger.ListSuccessWithoutEntitlement(ctx, 100)
	if err != nil {
		return 0, err
	}
	repaired := 0
	for _, p := range orphans {
		u.log.Warn().
			Err(domain.ErrInconsistentState).
			Str("payment_id", p.ID).
			Str("user_id", p.UserID).
			Msg("reconciling successful payment without entitlement")
		// Re-grant from the moment the payment settled, not from now, so the
		// user is not silently given extra days.
		base := p.UpdatedAt
		if p.PaidAt != nil {
			base = *p.PaidAt
		}
		expiry := base.AddDate(0, 0, p.DurationInDays)
		if expiry.Before(time.Now()) {
			// Entitlement would already have lapsed; nothing to grant.
			continue
		}
		if err := u.users.GrantPremium(ctx, nil, p.UserID, expiry); err != nil {
			u.log.Error().Err(err).Str("payment_id", p.ID).Msg("entitlement reconciliation failed")
			continue
		}
		repaired++
	}
	if repaired > 0 {
		metrics.IncEntitlementsReconciled(repaired)
	}
	return repaired, nil
}
