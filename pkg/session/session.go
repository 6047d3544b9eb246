// Package session tracks who is logged in. It owns the bearer token through a
// credentials.Store and caches the current user, and Require gates commands
// on authentication and role.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/forkline/forkline/pkg/api"
	"github.com/forkline/forkline/pkg/credentials"
	"github.com/forkline/forkline/pkg/logger"
)

var (
	// ErrNotAuthenticated is returned by Require when there is no token or the
	// backend rejected it.
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrForbidden is returned by Require when the user lacks a required role.
	ErrForbidden = errors.New("permission denied")

	// ErrNoToken is returned by Login and Register when the backend answered
	// without a token.
	ErrNoToken = errors.New("backend returned no access token")
)

// Backend is the part of api.Client a Session needs.
type Backend interface {
	Login(ctx context.Context, username, password string) (*api.TokenResponse, error)
	Register(ctx context.Context, creds api.Credentials) (*api.TokenResponse, error)
	Me(ctx context.Context) (*api.User, error)
}

// Requirement describes what a command needs. Roles, when non-empty, lists
// the roles allowed in; any authenticated user passes otherwise.
type Requirement struct {
	Public bool
	Roles  []string
}

// Session is the client-side authentication state.
type Session struct {
	backend Backend
	store   *credentials.Store
	logger  *slog.Logger

	mu sync.Mutex
	me *api.User
}

// New returns a Session backed by store.
func New(backend Backend, store *credentials.Store, l *slog.Logger) *Session {
	if l == nil {
		l = logger.Nop()
	}
	return &Session{backend: backend, store: store, logger: l}
}

// Login authenticates and loads the user.
func (s *Session) Login(ctx context.Context, username, password string) (*api.User, error) {
	res, err := s.backend.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.adopt(ctx, res)
}

// Register creates an account, then behaves like Login.
func (s *Session) Register(ctx context.Context, creds api.Credentials) (*api.User, error) {
	res, err := s.backend.Register(ctx, creds)
	if err != nil {
		return nil, err
	}
	return s.adopt(ctx, res)
}

// adopt stores the token from res, which may be empty, and fetches the user
// when there is one.
func (s *Session) adopt(ctx context.Context, res *api.TokenResponse) (*api.User, error) {
	s.mu.Lock()
	s.me = nil
	s.mu.Unlock()

	sess := credentials.Session{
		Token:     res.AccessToken,
		TokenType: res.TokenType,
		UserID:    res.UserID,
	}
	if err := s.store.Set(sess); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	if res.AccessToken == "" {
		return nil, ErrNoToken
	}

	return s.FetchMe(ctx)
}

// FetchMe loads the current user from the backend and caches it.
func (s *Session) FetchMe(ctx context.Context) (*api.User, error) {
	me, err := s.backend.Me(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.me = me
	s.mu.Unlock()

	cur := s.store.Session()
	if cur.Token != "" && (cur.UserID != me.ID || cur.Username != me.Username || cur.Role != me.Role) {
		cur.UserID = me.ID
		cur.Username = me.Username
		cur.Role = me.Role
		if err := s.store.Set(cur); err != nil {
			s.logger.Warn("persisting user profile", "error", err)
		}
	}

	return me, nil
}

// Logout forgets the token and the cached user.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.me = nil
	s.mu.Unlock()
	return s.store.Clear()
}

// IsAuthed reports whether a token is held.
func (s *Session) IsAuthed() bool {
	return s.store.Token() != ""
}

// Me returns the cached user, or nil when it has not been loaded.
func (s *Session) Me() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.me
}

// Role returns the role of the cached user, falling back to the role saved
// with the token.
func (s *Session) Role() string {
	if me := s.Me(); me != nil {
		return me.Role
	}
	return s.store.Session().Role
}

// Require checks req against the current state. The user is fetched once and
// then served from cache. A failed fetch counts as not authenticated.
func (s *Session) Require(ctx context.Context, req Requirement) (*api.User, error) {
	if req.Public {
		return s.Me(), nil
	}

	if !s.IsAuthed() {
		return nil, ErrNotAuthenticated
	}

	me := s.Me()
	if me == nil {
		var err error
		me, err = s.FetchMe(ctx)
		if err != nil {
			s.logger.Debug("session check failed", "error", err)
			return nil, fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
		}
	}

	if len(req.Roles) > 0 && !slices.Contains(req.Roles, me.Role) {
		return me, fmt.Errorf("%w: requires role %v, have %q", ErrForbidden, req.Roles, me.Role)
	}

	return me, nil
}
