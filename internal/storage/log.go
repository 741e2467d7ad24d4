package storage

import (
	"context"
	"io"
	"log/slog"
)

// LogStorage records what would have been stored and discards the bytes.
type LogStorage struct{}

func (LogStorage) Save(_ context.Context, path, contentType string, file io.Reader) error {
	n, err := io.Copy(io.Discard, file)
	if err != nil {
		return err
	}
	slog.Info("proof received", "path", path, "content_type", contentType, "size", n)
	return nil
}

func (LogStorage) Delete(_ context.Context, path string) error {
	slog.Debug("proof discarded", "path", path)
	return nil
}

// URL is always empty; nothing is kept.
func (LogStorage) URL(context.Context, string) (string, error) {
	return "", nil
}
