package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/forkline/forkline/pkg/logger"
)

// Store is the process-wide holder of the current session. Reads are atomic
// snapshots and never block; writes go through Set, Clear or a reload of the
// backing file.
//
// Store satisfies api.TokenSource.
type Store struct {
	mgr     *Manager
	current atomic.Pointer[Session]
	logger  *slog.Logger
}

// NewStore loads the session persisted by mgr. A nil mgr yields a purely
// in-memory store.
func NewStore(mgr *Manager, l *slog.Logger) (*Store, error) {
	if l == nil {
		l = logger.Nop()
	}

	s := &Store{mgr: mgr, logger: l}
	s.current.Store(&Session{})

	if mgr != nil {
		if err := s.Reload(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// NewMemoryStore returns a Store holding token that is never persisted.
func NewMemoryStore(token string) *Store {
	s := &Store{logger: logger.Nop()}
	s.current.Store(&Session{Token: token})
	return s
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	return s.current.Load().Token
}

// Session returns a copy of the current session.
func (s *Store) Session() Session {
	return *s.current.Load()
}

// Set persists sess (when backed by a file) and makes it current.
func (s *Store) Set(sess Session) error {
	if s.mgr != nil {
		if err := s.mgr.SetSession(sess); err != nil {
			return err
		}
	}

	s.current.Store(&sess)
	return nil
}

// Clear drops the current session.
func (s *Store) Clear() error {
	return s.Set(Session{})
}

// Reload re-reads the backing file.
func (s *Store) Reload() error {
	if s.mgr == nil {
		return nil
	}

	creds, err := s.mgr.Load()
	if err != nil {
		return err
	}

	sess := creds.Session
	s.current.Store(&sess)
	return nil
}

// Watch reloads the session whenever credentials.toml changes on disk, so a
// login or logout from another process is honored by the next request. It
// blocks until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	if s.mgr == nil {
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating credentials watcher: %w", err)
	}
	defer w.Close()

	target := filepath.Clean(s.mgr.GetTarget())

	// Watch the directory: editors and atomic writers replace the file.
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
				continue
			}

			if err := s.Reload(); err != nil {
				s.logger.Warn("reloading credentials", "error", err)
				continue
			}
			s.logger.Debug("credentials reloaded", "op", ev.Op.String())

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("credentials watcher error", "error", err)
		}
	}
}
