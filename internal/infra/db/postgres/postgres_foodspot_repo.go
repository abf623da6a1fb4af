package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"food-spot-backend/internal/domain"
	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/domain/ports/repository"
)

var _ repository.FoodSpotRepository = (*foodSpotRepo)(nil)

const foodSpotColumns = `id, title, description, location, category, min_price, max_price, image_url, is_premium_only, approval_status, admin_comment, creator_id, created_at, updated_at`

type foodSpotRepo struct{ pool *pgxpool.Pool }

func NewFoodSpotRepo(pool *pgxpool.Pool) *foodSpotRepo {
	return &foodSpotRepo{pool: pool}
}

func scanFoodSpot(row pgx.Row) (*model.FoodSpot, error) {
	f := &model.FoodSpot{}
	if err := row.Scan(&f.ID, &f.Title, &f.Description, &f.Location, &f.Category, &f.MinPrice, &f.MaxPrice, &f.ImageURL, &f.IsPremiumOnly, &f.ApprovalStatus, &f.AdminComment, &f.CreatorID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return f, nil
}

func (r *foodSpotRepo) Save(ctx context.Context, tx repository.Tx, f *model.FoodSpot) error {
	const q = `
INSERT INTO food_spots (
  id, title, description, location, category, min_price, max_price, image_url, is_premium_only, approval_status, admin_comment, creator_id, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14
) ON CONFLICT (id) DO UPDATE SET
  title=$2, description=$3, location=$4, category=$5, min_price=$6, max_price=$7, image_url=$8, is_premium_only=$9, approval_status=$10, admin_comment=$11, updated_at=$14;`

	_, err := execSQL(ctx, r.pool, tx, q, f.ID, f.Title, f.Description, f.Location, f.Category, f.MinPrice, f.MaxPrice, f.ImageURL, f.IsPremiumOnly, f.ApprovalStatus, f.AdminComment, f.CreatorID, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *foodSpotRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.FoodSpot, error) {
	q := `SELECT ` + foodSpotColumns + ` FROM food_spots WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanFoodSpot(row)
}

func (r *foodSpotRepo) List(ctx context.Context, filter repository.FoodSpotFilter, page repository.PageRequest) ([]*model.FoodSpot, int, error) {
	b := &condBuilder{}
	if filter.SearchTerm != "" {
		term := "%" + filter.SearchTerm + "%"
		b.add("(title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)", term, term, term)
	}
	if filter.Category != "" {
		b.add("category=$%d", filter.Category)
	}
	if filter.Location != "" {
		b.add("location ILIKE $%d", "%"+filter.Location+"%")
	}
	if filter.MaxPrice > 0 {
		// Price-range overlap with the requested window.
		b.add("min_price <= $%d", filter.MaxPrice)
	}
	if filter.MinPrice > 0 {
		b.add("max_price >= $%d", filter.MinPrice)
	}
	if filter.ApprovalStatus != "" {
		b.add("approval_status=$%d", string(filter.ApprovalStatus))
	}
	if filter.CreatorID != "" {
		b.add("creator_id=$%d", filter.CreatorID)
	}
	if !filter.PremiumVisible {
		b.add("is_premium_only=$%d", false)
	}
	where := b.where()

	var total int
	countRow, err := pickRow(ctx, r.pool, nil, `SELECT COUNT(*) FROM food_spots`+where+`;`, b.args...)
	if err != nil {
		return nil, 0, err
	}
	if err := countRow.Scan(&total); err != nil {
		return nil, 0, domain.ErrReadDatabaseRow
	}

	allowed := map[string]bool{"created_at": true, "updated_at": true, "title": true, "min_price": true, "max_price": true}
	q := `SELECT ` + foodSpotColumns + ` FROM food_spots` + where + orderClause(page, allowed) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d;", b.next(), b.next()+1)
	rows, err := pickRows(ctx, r.pool, nil, q, append(b.args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.FoodSpot
	for rows.Next() {
		f, err := scanFoodSpot(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, f)
	}
	return out, total, rows.Err()
}

func (r *foodSpotRepo) UpdateApproval(ctx context.Context, tx repository.Tx, id string, status model.ApprovalStatus, adminComment string) error {
	const q = `UPDATE food_spots SET approval_status=$2, admin_comment=$3, updated_at=NOW() WHERE id=$1;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, status, adminComment)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *foodSpotRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	cmd, err := execSQL(ctx, r.pool, tx, `DELETE FROM food_spots WHERE id=$1;`, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
