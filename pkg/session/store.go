// Package session owns the single authenticated session of a running
// fairdesk client. All reads and writes of the persisted credential go
// through the Store; UI and CLI code never touch the storage directly.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fairdesk/fairdesk/pkg/api/client"
	"github.com/fairdesk/fairdesk/pkg/jwt"
)

// ErrInvalidCredentials marks a login rejected by the API, as opposed to
// a connection failure.
var ErrInvalidCredentials = errors.New("invalid credentials")

// API is the slice of the fairdesk client the store needs.
type API interface {
	Login(ctx context.Context, email, password string) (client.LoginResponse, error)
	Verify(ctx context.Context, token string) error
	Logout(ctx context.Context, token string) error
}

// Session pairs a bearer token with the user it belongs to. The two are
// never observable separately.
type Session struct {
	Token string
	User  client.UserProfile
}

// Store mediates the in-memory and persisted session state.
type Store struct {
	api     API
	storage Storage
	logger  *slog.Logger
	now     func() time.Time

	verifying singleflight.Group

	mu      sync.Mutex
	current *Session
}

// New constructs a Store around the given API and storage backend.
func New(api API, storage Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		api:     api,
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Current returns the in-memory session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Token returns the current bearer token, or "" when unauthenticated.
func (s *Store) Token() string {
	sess, ok := s.Current()
	if !ok {
		return ""
	}
	return sess.Token
}

// Restore loads the persisted session at startup. With nothing persisted
// it returns immediately without touching the network. A persisted pair
// is adopted optimistically, then verified against the backend; any
// verification failure clears the store. A token whose JWT expiry has
// already passed is cleared without the round trip.
func (s *Store) Restore(ctx context.Context) (Session, bool) {
	rec, ok, err := s.storage.Load()
	if err != nil {
		s.logger.Warn("persisted session unreadable, clearing", "error", err)
		s.Clear()
		return Session{}, false
	}
	if !ok {
		return Session{}, false
	}

	var user client.UserProfile
	if err := json.Unmarshal(rec.User, &user); err != nil || rec.Token == "" {
		s.logger.Warn("persisted session malformed, clearing", "error", err)
		s.Clear()
		return Session{}, false
	}

	sess := Session{Token: rec.Token, User: user}
	s.setCurrent(sess)

	if jwt.Expired(rec.Token, s.now()) {
		s.logger.Info("persisted token already expired, clearing")
		s.Clear()
		return Session{}, false
	}

	// Concurrent restores share one verify round trip.
	_, err, _ = s.verifying.Do(rec.Token, func() (any, error) {
		return nil, s.api.Verify(ctx, rec.Token)
	})
	if err != nil {
		s.logger.Warn("session verification failed, clearing", "error", err)
		s.Clear()
		return Session{}, false
	}
	return sess, true
}

// Login exchanges credentials for a session. On success the token+user
// pair is persisted first and only then adopted in memory; on any failure
// a previously established session is left untouched.
func (s *Store) Login(ctx context.Context, email, password string) (Session, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		var apiErr client.APIError
		if errors.As(err, &apiErr) && isCredentialRejection(apiErr.Status) {
			if apiErr.Message != "" {
				return Session{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
			}
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("login: %w", err)
	}

	userJSON, err := json.Marshal(resp.User)
	if err != nil {
		return Session{}, fmt.Errorf("encode user profile: %w", err)
	}
	if err := s.storage.Save(Record{Token: resp.Token, User: userJSON}); err != nil {
		return Session{}, fmt.Errorf("persist session: %w", err)
	}
	sess := Session{Token: resp.Token, User: resp.User}
	s.setCurrent(sess)
	return sess, nil
}

// Logout tells the backend to drop the token, ignoring failures, then
// unconditionally clears local state. It always leaves the store
// unauthenticated.
func (s *Store) Logout(ctx context.Context) {
	if token := s.Token(); token != "" {
		if err := s.api.Logout(ctx, token); err != nil {
			s.logger.Warn("server logout failed, clearing locally anyway", "error", err)
		}
	}
	s.Clear()
}

// Clear removes the persisted pair and the in-memory session together.
// It never fails; storage errors are logged and the memory state is
// dropped regardless.
func (s *Store) Clear() {
	if err := s.storage.Clear(); err != nil {
		s.logger.Warn("clearing persisted session failed", "error", err)
	}
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// isCredentialRejection reports whether a login status means the
// credentials themselves were refused. 401 is the API's rejection
// status; 400 and 422 cover validation of the credential payload.
// Other statuses (404, 429, 5xx) describe the service, not the
// credentials, and pass through unchanged.
func isCredentialRejection(status int) bool {
	switch status {
	case http.StatusUnauthorized, http.StatusBadRequest, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

func (s *Store) setCurrent(sess Session) {
	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
}
