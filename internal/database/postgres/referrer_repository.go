package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avoronov/linkpulse/internal/database"
	"github.com/avoronov/linkpulse/internal/models"
	"github.com/jmoiron/sqlx"
)

type referrerRecord struct {
	ID        int64      `db:"id"`
	UserID    int64      `db:"user_id"`
	Name      string     `db:"name"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

func (r *referrerRecord) ToReferrer() *models.Referrer {
	return &models.Referrer{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type ReferrerRepository struct {
	db *sqlx.DB
}

func NewReferrerRepository(db *sqlx.DB) *ReferrerRepository {
	return &ReferrerRepository{
		db: db,
	}
}

func (r *ReferrerRepository) Create(ctx context.Context, referrer *models.Referrer) (*models.Referrer, error) {
	const op = "database.postgres.ReferrerRepository.Create"

	rec := new(referrerRecord)
	query := `INSERT INTO referrers(user_id, name)
		VALUES ($1, $2)
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, referrer.UserID, referrer.Name)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create referrer record: %w", op, err)
	}

	return rec.ToReferrer(), nil
}

func (r *ReferrerRepository) GetByID(ctx context.Context, id int64) (*models.Referrer, error) {
	const op = "database.postgres.ReferrerRepository.GetByID"

	rec := new(referrerRecord)
	query := `SELECT * FROM referrers WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, rec, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrReferrerNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get referrer record: %w", op, err)
	}

	return rec.ToReferrer(), nil
}

func (r *ReferrerRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Referrer, error) {
	const op = "database.postgres.ReferrerRepository.ListByUser"

	var recs []referrerRecord
	query := `SELECT * FROM referrers WHERE user_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &recs, query, userID); err != nil {
		return nil, fmt.Errorf("%s: failed to list referrer records: %w", op, err)
	}

	referrers := make([]*models.Referrer, 0, len(recs))
	for i := range recs {
		referrers = append(referrers, recs[i].ToReferrer())
	}

	return referrers, nil
}

func (r *ReferrerRepository) Update(ctx context.Context, referrer *models.Referrer) (*models.Referrer, error) {
	const op = "database.postgres.ReferrerRepository.Update"

	rec := new(referrerRecord)
	query := `UPDATE referrers
		SET name = $1, updated_at = now()
		WHERE id = $2 AND deleted_at IS NULL
		RETURNING *`

	err := r.db.GetContext(ctx, rec, query, referrer.Name, referrer.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, database.ErrReferrerNotFound)
		}

		return nil, fmt.Errorf("%s: failed to update referrer record: %w", op, err)
	}

	return rec.ToReferrer(), nil
}

func (r *ReferrerRepository) SoftDelete(ctx context.Context, id int64) error {
	const op = "database.postgres.ReferrerRepository.SoftDelete"

	query := `UPDATE referrers SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: failed to soft delete referrer record: %w", op, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get affected rows: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, database.ErrReferrerNotFound)
	}

	return nil
}
