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

var _ repository.ReviewRepository = (*reviewRepo)(nil)

const reviewColumns = `id, food_spot_id, user_id, rating, comment, created_at, updated_at`

type reviewRepo struct{ pool *pgxpool.Pool }

func NewReviewRepo(pool *pgxpool.Pool) *reviewRepo {
	return &reviewRepo{pool: pool}
}

func scanReview(row pgx.Row) (*model.Review, error) {
	rv := &model.Review{}
	if err := row.Scan(&rv.ID, &rv.FoodSpotID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return rv, nil
}

func (r *reviewRepo) Save(ctx context.Context, tx repository.Tx, rv *model.Review) error {
	const q = `
INSERT INTO reviews (id, food_spot_id, user_id, rating, comment, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET rating=$4, comment=$5, updated_at=$7;`

	_, err := execSQL(ctx, r.pool, tx, q, rv.ID, rv.FoodSpotID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt, rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *reviewRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Review, error) {
	q := `SELECT ` + reviewColumns + ` FROM reviews WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanReview(row)
}

func (r *reviewRepo) FindByUserAndSpot(ctx context.Context, tx repository.Tx, userID, foodSpotID string) (*model.Review, error) {
	q := `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id=$1 AND food_spot_id=$2;`
	row, err := pickRow(ctx, r.pool, tx, q, userID, foodSpotID)
	if err != nil {
		return nil, err
	}
	return scanReview(row)
}

func (r *reviewRepo) ListForSpot(ctx context.Context, foodSpotID string, page repository.PageRequest) ([]*model.Review, int, error) {
	var total int
	countRow, err := pickRow(ctx, r.pool, nil, `SELECT COUNT(*) FROM reviews WHERE food_spot_id=$1;`, foodSpotID)
	if err != nil {
		return nil, 0, err
	}
	if err := countRow.Scan(&total); err != nil {
		return nil, 0, domain.ErrReadDatabaseRow
	}

	allowed := map[string]bool{"created_at": true, "updated_at": true, "rating": true}
	q := `SELECT ` + reviewColumns + ` FROM reviews WHERE food_spot_id=$1` + orderClause(page, allowed) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d;", 2, 3)
	rows, err := pickRows(ctx, r.pool, nil, q, foodSpotID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rv)
	}
	return out, total, rows.Err()
}

func (r *reviewRepo) ListAllForSpot(ctx context.Context, tx repository.Tx, foodSpotID string) ([]*model.Review, error) {
	q := `SELECT ` + reviewColumns + ` FROM reviews WHERE food_spot_id=$1 ORDER BY created_at DESC;`
	rows, err := pickRows(ctx, r.pool, tx, q, foodSpotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *reviewRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	cmd, err := execSQL(ctx, r.pool, tx, `DELETE FROM reviews WHERE id=$1;`, id)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
