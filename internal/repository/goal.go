package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/mochitomo/mochitomo/internal/model"
)

type GoalRecordRepository interface {
	Create(ctx context.Context, record *model.GoalRecord) error
	All(ctx context.Context) ([]model.GoalRecord, error)
}

type goalRecordRepository struct {
	db *sqlx.DB
}

func NewGoalRecordRepository(db *sqlx.DB) GoalRecordRepository {
	return &goalRecordRepository{db: db}
}

func (r *goalRecordRepository) Create(ctx context.Context, record *model.GoalRecord) error {
	query := `INSERT INTO goal_records (id, goal, reward1, money1, reward2, money2, goal_date, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.Goal,
		record.Reward1,
		record.Money1,
		record.Reward2,
		record.Money2,
		record.GoalDate,
		record.CreatedAt,
	)

	return err
}

// All returns every record, newest first. Records without a creation
// time sort last.
func (r *goalRecordRepository) All(ctx context.Context) ([]model.GoalRecord, error) {
	var records []model.GoalRecord
	query := `SELECT * FROM goal_records ORDER BY created_at IS NULL, created_at DESC`

	err := r.db.SelectContext(ctx, &records, query)
	if err != nil {
		return nil, err
	}

	return records, nil
}
