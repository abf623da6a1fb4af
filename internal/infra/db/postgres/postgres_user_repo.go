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

var _ repository.UserRepository = (*userRepo)(nil)

const userColumns = `id, name, email, password_hash, role, is_blocked, is_premium, subscription_expiry_date, created_at, updated_at`

type userRepo struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *userRepo {
	return &userRepo{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsBlocked, &u.IsPremium, &u.SubscriptionExpiryDate, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return u, nil
}

func (r *userRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (
  id, name, email, password_hash, role, is_blocked, is_premium, subscription_expiry_date, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
) ON CONFLICT (id) DO UPDATE SET
  name=$2, email=$3, password_hash=$4, role=$5, is_blocked=$6, is_premium=$7, subscription_expiry_date=$8, updated_at=$10;`

	_, err := execSQL(ctx, r.pool, tx, q, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.IsBlocked, u.IsPremium, u.SubscriptionExpiryDate, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *userRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	q += ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *userRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email)=LOWER($1);`
	row, err := pickRow(ctx, r.pool, tx, q, email)
	if err != nil {
		return nil, err
	}
	return scanUser(row)
}

func (r *userRepo) List(ctx context.Context, filter repository.UserFilter, page repository.PageRequest) ([]*model.User, int, error) {
	b := &condBuilder{}
	if filter.SearchTerm != "" {
		b.add("(name ILIKE $%d OR email ILIKE $%d)", "%"+filter.SearchTerm+"%", "%"+filter.SearchTerm+"%")
	}
	if filter.Role != "" {
		b.add("role=$%d", string(filter.Role))
	}
	if filter.IsPremium != nil {
		b.add("is_premium=$%d", *filter.IsPremium)
	}
	if filter.IsBlocked != nil {
		b.add("is_blocked=$%d", *filter.IsBlocked)
	}
	where := b.where()

	var total int
	countRow, err := pickRow(ctx, r.pool, nil, `SELECT COUNT(*) FROM users`+where+`;`, b.args...)
	if err != nil {
		return nil, 0, err
	}
	if err := countRow.Scan(&total); err != nil {
		return nil, 0, domain.ErrReadDatabaseRow
	}

	allowed := map[string]bool{"created_at": true, "updated_at": true, "name": true, "email": true}
	q := `SELECT ` + userColumns + ` FROM users` + where + orderClause(page, allowed) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d;", b.next(), b.next()+1)
	rows, err := pickRows(ctx, r.pool, nil, q, append(b.args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *userRepo) GrantPremium(ctx context.Context, tx repository.Tx, userID string, expiry time.Time) error {
	const q = `
UPDATE users SET
  is_premium=TRUE,
  role = CASE WHEN role='ADMIN' THEN role ELSE 'PREMIUM' END,
  subscription_expiry_date=$2,
  updated_at=NOW()
WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, userID, expiry)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) SetPremium(ctx context.Context, tx repository.Tx, userID string, isPremium bool, expiry *time.Time) error {
	const q = `
UPDATE users SET
  is_premium=$2,
  role = CASE
    WHEN role='ADMIN' THEN role
    WHEN $2 THEN 'PREMIUM'
    ELSE 'USER'
  END,
  subscription_expiry_date=$3,
  updated_at=NOW()
WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, userID, isPremium, expiry)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RevokeExpired is the expiry sweep: one conditional bulk update, so a user
// already revoked by a concurrent run simply isn't selected again.
func (r *userRepo) RevokeExpired(ctx context.Context, tx repository.Tx) (int, error) {
	const q = `
UPDATE users SET
  is_premium=FALSE,
  role = CASE WHEN role='ADMIN' THEN role ELSE 'USER' END,
  subscription_expiry_date=NULL,
  updated_at=NOW()
WHERE is_premium=TRUE AND subscription_expiry_date < NOW();`
	cmd, err := execSQL(ctx, r.pool, tx, q)
	if err != nil {
		return 0, domain.ErrOperationFailed
	}
	return int(cmd.RowsAffected()), nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `UPDATE users SET name=$2, role=$3, is_blocked=$4, updated_at=NOW() WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, u.ID, u.Name, u.Role, u.IsBlocked)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
