package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"food-spot-backend/internal/domain"
	"food-spot-backend/internal/domain/model"
	"food-spot-backend/internal/domain/ports/repository"
)

var _ repository.VoteRepository = (*voteRepo)(nil)

type voteRepo struct{ pool *pgxpool.Pool }

func NewVoteRepo(pool *pgxpool.Pool) *voteRepo {
	return &voteRepo{pool: pool}
}

// Upsert keys on (user_id, food_spot_id): a second vote by the same user
// switches direction instead of adding a row.
func (r *voteRepo) Upsert(ctx context.Context, tx repository.Tx, v *model.Vote) error {
	const q = `
INSERT INTO votes (id, food_spot_id, user_id, vote_type, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (user_id, food_spot_id) DO UPDATE SET vote_type=$4, updated_at=$6;`

	_, err := execSQL(ctx, r.pool, tx, q, v.ID, v.FoodSpotID, v.UserID, v.Type, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) || errors.Is(err, domain.ErrInvalidExecContext) {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *voteRepo) FindByUserAndSpot(ctx context.Context, tx repository.Tx, userID, foodSpotID string) (*model.Vote, error) {
	const q = `SELECT id, food_spot_id, user_id, vote_type, created_at, updated_at FROM votes WHERE user_id=$1 AND food_spot_id=$2;`
	row, err := pickRow(ctx, r.pool, tx, q, userID, foodSpotID)
	if err != nil {
		return nil, err
	}
	v := &model.Vote{}
	if err := row.Scan(&v.ID, &v.FoodSpotID, &v.UserID, &v.Type, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return v, nil
}

func (r *voteRepo) Delete(ctx context.Context, tx repository.Tx, userID, foodSpotID string) error {
	_, err := execSQL(ctx, r.pool, tx, `DELETE FROM votes WHERE user_id=$1 AND food_spot_id=$2;`, userID, foodSpotID)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *voteRepo) TallyForSpot(ctx context.Context, tx repository.Tx, foodSpotID string) (model.VoteTally, error) {
	const q = `
SELECT
  COUNT(*) FILTER (WHERE vote_type='UP'),
  COUNT(*) FILTER (WHERE vote_type='DOWN')
FROM votes WHERE food_spot_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, foodSpotID)
	if err != nil {
		return model.VoteTally{}, err
	}
	var t model.VoteTally
	if err := row.Scan(&t.Upvotes, &t.Downvotes); err != nil {
		return model.VoteTally{}, domain.ErrReadDatabaseRow
	}
	return t, nil
}
