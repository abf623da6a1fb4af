package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"food-spot-backend/internal/domain"
	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

const paymentColumns = `id, user_id, plan_id, amount, currency_code, status, payment_method, transaction_id, gateway_data, duration_in_days, paid_at, created_at, updated_at`

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

func scanPayment(row pgx.Row) (*model.Payment, error) {
	p := &model.Payment{}
	if err := row.Scan(&p.ID, &p.UserID, &p.PlanID, &p.Amount, &p.CurrencyCode, &p.Status, &p.PaymentMethod, &p.TransactionID, &p.GatewayData, &p.DurationInDays, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return p, nil
}

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (
  id, user_id, plan_id, amount, currency_code, status, payment_method, transaction_id, gateway_data, duration_in_days, paid_at, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
) ON CONFLICT (id) DO UPDATE SET
  amount=$4, currency_code=$5, status=$6, payment_method=$7, gateway_data=$9, duration_in_days=$10, paid_at=$11, updated_at=$13;`

	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.PlanID, p.Amount, p.CurrencyCode, p.Status, p.PaymentMethod, p.TransactionID, p.GatewayData, p.DurationInDays, p.PaidAt, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) FindByTransactionID(ctx context.Context, tx repository.Tx, transactionID string) (*model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, transactionID)
	if err != nil {
		return nil, err
	}
	return scanPayment(row)
}

func (r *paymentRepo) List(ctx context.Context, filter repository.PaymentFilter, page repository.PageRequest) ([]*model.Payment, int, error) {
	b := &condBuilder{}
	if filter.UserID != "" {
		b.add("user_id=$%d", filter.UserID)
	}
	if filter.Status != "" {
		b.add("status=$%d", string(filter.Status))
	}
	if filter.SearchTerm != "" {
		b.add("(transaction_id ILIKE $%d OR payment_method ILIKE $%d)", "%"+filter.SearchTerm+"%", "%"+filter.SearchTerm+"%")
	}
	where := b.where()

	var total int
	countRow, err := pickRow(ctx, r.pool, nil, `SELECT COUNT(*) FROM payments`+where+`;`, b.args...)
	if err != nil {
		return nil, 0, err
	}
	if err := countRow.Scan(&total); err != nil {
		return nil, 0, domain.ErrReadDatabaseRow
	}

	allowed := map[string]bool{"created_at": true, "updated_at": true, "amount": true, "status": true}
	q := `SELECT ` + paymentColumns + ` FROM payments` + where + orderClause(page, allowed) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d;", b.next(), b.next()+1)
	rows, err := pickRows(ctx, r.pool, nil, q, append(b.args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *paymentRepo) AttachGatewayData(ctx context.Context, tx repository.Tx, paymentID string, data map[string]interface{}) error {
	const q = `UPDATE payments SET gateway_data = gateway_data || $2, updated_at=NOW() WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, paymentID, data)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkTerminal is a single conditional update: only a PENDING row can move to
// a terminal status, which makes the transition at-most-once even across
// concurrent processes.
func (r *paymentRepo) MarkTerminal(ctx context.Context, tx repository.Tx, transactionID string, status model.PaymentStatus, extra map[string]interface{}) (*model.Payment, error) {
	const q = `
UPDATE payments SET
  status=$2,
  gateway_data = CASE WHEN $3::jsonb IS NULL THEN gateway_data ELSE gateway_data || $3::jsonb END,
  paid_at = CASE WHEN $2 = 'SUCCESS' THEN NOW() ELSE paid_at END,
  updated_at = NOW()
WHERE transaction_id=$1 AND status='PENDING'
RETURNING ` + paymentColumns + `;`

	// A typed nil map would encode as JSON null rather than SQL NULL.
	var extraArg interface{}
	if extra != nil {
		extraArg = extra
	}
	row, err := pickRow(ctx, r.pool, tx, q, transactionID, string(status), extraArg)
	if err != nil {
		return nil, err
	}
	p, err := scanPayment(row)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// Nothing updated: distinguish a missing entry from an already-settled one.
	statusRow, err := pickRow(ctx, r.pool, tx, `SELECT status FROM payments WHERE transaction_id=$1;`, transactionID)
	if err != nil {
		return nil, err
	}
	var current model.PaymentStatus
	if err := statusRow.Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return nil, domain.ErrInvalidTransition
}

func (r *paymentRepo) ListSuccessWithoutEntitlement(ctx context.Context, tx repository.Tx, limit int) ([]*model.Payment, error) {
	q := `
SELECT p.id, p.user_id, p.plan_id, p.amount, p.currency_code, p.status, p.payment_method, p.transaction_id, p.gateway_data, p.duration_in_days, p.paid_at, p.created_at, p.updated_at
FROM payments p
JOIN users u ON u.id = p.user_id
WHERE p.status='SUCCESS' AND u.is_premium=FALSE
ORDER BY p.updated_at ASC
LIMIT $1;`
	rows, err := pickRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *paymentRepo) ListPendingWithValidationToken(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.Payment, error) {
	q := `
SELECT ` + paymentColumns + `
FROM payments
WHERE status='PENDING' AND gateway_data ? 'val_id' AND updated_at < $1
ORDER BY updated_at ASC
LIMIT $2;`
	rows, err := pickRows(ctx, r.pool, tx, q, olderThan, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
