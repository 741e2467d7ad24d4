package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/mochitomo/mochitomo/internal/model"
)

type FileRepository interface {
	Create(ctx context.Context, file *model.ProofFile) error
	ByGoal(ctx context.Context, goalID string) ([]*model.ProofFile, error)
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *model.ProofFile) error {
	query := `INSERT INTO proof_files (id, goal_id, type, filename, original_name, mime_type, size, storage_path, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.GoalID,
		file.Type,
		file.Filename,
		file.OriginalName,
		file.MimeType,
		file.Size,
		file.StoragePath,
		file.CreatedAt,
	)

	return err
}

func (r *fileRepository) ByGoal(ctx context.Context, goalID string) ([]*model.ProofFile, error) {
	var files []*model.ProofFile
	query := `SELECT * FROM proof_files WHERE goal_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &files, query, goalID)
	if err != nil {
		return nil, err
	}

	return files, nil
}
