package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/mochitomo/mochitomo/internal/markdown"
	"github.com/mochitomo/mochitomo/internal/model"
)

const helpFile = "help.md"

// HelpService serves the usage guide rendered from content/help.md.
type HelpService struct {
	parser      *markdown.Parser
	contentPath string

	mu   sync.RWMutex
	page *model.HelpPage
}

func NewHelpService(contentPath string) *HelpService {
	return &HelpService{
		parser:      markdown.NewParser(),
		contentPath: contentPath,
	}
}

// Load parses the help file and replaces the cached page.
func (s *HelpService) Load() error {
	path := filepath.Join(s.contentPath, helpFile)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read help content: %w", err)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read help content: %w", err)
	}

	html, meta, err := s.parser.ParseWithFrontmatter(source)
	if err != nil {
		return fmt.Errorf("failed to parse help content: %w", err)
	}

	page := &model.HelpPage{
		Title:       "使い方",
		HTMLContent: string(html),
		UpdatedAt:   info.ModTime(),
	}
	if title, ok := meta["title"].(string); ok && title != "" {
		page.Title = title
	}
	if description, ok := meta["description"].(string); ok {
		page.Description = description
	}

	s.mu.Lock()
	s.page = page
	s.mu.Unlock()

	return nil
}

// Page returns the cached page, loading it on first use.
func (s *HelpService) Page() (*model.HelpPage, error) {
	s.mu.RLock()
	page := s.page
	s.mu.RUnlock()
	if page != nil {
		return page, nil
	}

	err := s.Load()
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page, nil
}

// Watch reloads the page whenever the help file changes, until ctx is done.
func (s *HelpService) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create content watcher: %w", err)
	}

	// Editors often replace the file, so watch the directory.
	err = watcher.Add(s.contentPath)
	if err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", s.contentPath, err)
	}

	go func() {
		defer func() { _ = watcher.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != helpFile || !event.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				err := s.Load()
				if err != nil {
					slog.Warn("failed to reload help content", "error", err)
					continue
				}
				slog.Info("help content reloaded")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("content watcher error", "error", err)
			}
		}
	}()

	return nil
}
