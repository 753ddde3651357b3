package content

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Source hands out the current portfolio. A file-backed source can be
// watched so edits show up without a restart.
type Source struct {
	current atomic.Pointer[Portfolio]
	path    string
	logger  *slog.Logger
}

// NewStaticSource serves p forever.
func NewStaticSource(p *Portfolio) *Source {
	s := &Source{logger: slog.Default()}
	s.current.Store(p)
	return s
}

// OpenFile loads the portfolio at path. The file must parse now; later
// reloads that fail keep serving the last good version.
func OpenFile(path string, logger *slog.Logger) (*Source, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Source{path: filepath.Clean(path), logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the portfolio being served.
func (s *Source) Current() *Portfolio { return s.current.Load() }

// Path is the backing file, or "" for a static source.
func (s *Source) Path() string { return s.path }

// Reload re-reads the backing file.
func (s *Source) Reload() error {
	if s.path == "" {
		return nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open content: %w", err)
	}
	defer f.Close()

	p, err := Load(f)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.path, err)
	}
	s.current.Store(p)
	return nil
}

// Watch reloads the file whenever it changes until ctx is done. The parent
// directory is watched so editors that save by rename are picked up too.
func (s *Source) Watch(ctx context.Context) error {
	if s.path == "" {
		<-ctx.Done()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}
	s.logger.Info("content: watching for changes", "path", s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Error("content: reload failed, keeping previous version", "error", err)
				continue
			}
			s.logger.Info("content: reloaded", "path", s.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			s.logger.Warn("content: watcher error", "error", err)
		}
	}
}
