package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mochitomo/mochitomo/internal/model"
	"github.com/mochitomo/mochitomo/internal/repository"
	"github.com/mochitomo/mochitomo/internal/storage"
	"github.com/mochitomo/mochitomo/internal/validation"
)

var ErrInvalidProof = errors.New("invalid proof file")

// ProofLink is an archived proof as shown on the result page.
type ProofLink struct {
	Name      string
	URL       string // empty when the file is not kept
	CreatedAt time.Time
}

// ProofService archives uploaded proofs. Archival never affects the review.
type ProofService struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
	now      func() time.Time
}

func NewProofService(fileRepo repository.FileRepository, storage storage.Storage) *ProofService {
	return &ProofService{
		fileRepo: fileRepo,
		storage:  storage,
		now:      time.Now,
	}
}

// Archive validates an uploaded proof, stores it and records it against
// goalID.
func (s *ProofService) Archive(ctx context.Context, goalID string, header *multipart.FileHeader) (*model.ProofFile, error) {
	mimeType, err := validation.ValidateFile(header, validation.ProofConstraints)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open proof: %w", err)
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := uuid.New().String() + ext
	storagePath := path.Join("private", model.FileTypeProof+"s", filename)

	err = s.storage.Save(ctx, storagePath, mimeType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to save proof: %w", err)
	}

	proof := &model.ProofFile{
		ID:           uuid.New().String(),
		GoalID:       goalID,
		Type:         model.FileTypeProof,
		Filename:     filename,
		OriginalName: header.Filename,
		MimeType:     mimeType,
		Size:         header.Size,
		StoragePath:  storagePath,
		CreatedAt:    s.now().UTC(),
	}

	err = s.fileRepo.Create(ctx, proof)
	if err != nil {
		delErr := s.storage.Delete(context.WithoutCancel(ctx), storagePath)
		if delErr != nil {
			slog.Error("failed to delete proof from storage during cleanup", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to create proof record: %w", err)
	}

	slog.Info("proof archived", "goal_id", goalID, "path", storagePath, "size", header.Size)
	return proof, nil
}

// Proofs lists the archived proofs for a goal, newest first.
func (s *ProofService) Proofs(ctx context.Context, goalID string) ([]ProofLink, error) {
	files, err := s.fileRepo.ByGoal(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proofs: %w", err)
	}

	links := make([]ProofLink, 0, len(files))
	for _, f := range files {
		url, err := s.storage.URL(ctx, f.StoragePath)
		if err != nil {
			slog.Warn("failed to sign proof url", "error", err, "path", f.StoragePath)
		}
		links = append(links, ProofLink{
			Name:      f.OriginalName,
			URL:       url,
			CreatedAt: f.CreatedAt,
		})
	}

	return links, nil
}
