package model

import (
	"time"
)

const (
	FileTypeProof = "proof"
)

// ProofFile is an archived proof-of-completion upload.
type ProofFile struct {
	ID           string    `db:"id"`
	GoalID       string    `db:"goal_id"` // Record the proof was submitted against, empty if none existed
	Type         string    `db:"type"`
	Filename     string    `db:"filename"`
	OriginalName string    `db:"original_name"`
	MimeType     string    `db:"mime_type"`
	Size         int64     `db:"size"`
	StoragePath  string    `db:"storage_path"`
	CreatedAt    time.Time `db:"created_at"`
}
