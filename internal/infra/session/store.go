// Package session holds the process-wide answer to "who is logged in":
// the bearer token, the identity resolved behind it, and a durable copy
// that survives restarts.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"medash/config"
	"medash/internal/domain/apierror"
	"medash/internal/domain/entity"
	"medash/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

// State is the session lifecycle state.
type State string

const (
	// StateAnonymous means no token is held.
	StateAnonymous State = "anonymous"
	// StateAuthenticating means a token is held but the identity behind
	// it has not been resolved yet.
	StateAuthenticating State = "authenticating"
	// StateAuthenticated means the token resolved to an assigned role.
	StateAuthenticated State = "authenticated"
	// StateUnassigned means the token resolved to an account that still
	// has to go through the access-request flow.
	StateUnassigned State = "unassigned"
)

// ProfileFetcher resolves the identity behind the current token.
// backend.AuthAPI satisfies it.
type ProfileFetcher interface {
	Profile(ctx context.Context) (entity.UserIdentity, error)
}

type persisted struct {
	Token      string               `json:"token"`
	User       *entity.UserIdentity `json:"user,omitempty"`
	ResolvedAt time.Time            `json:"resolvedAt,omitempty"`
}

// Store is the single source of truth for the current session. It is the
// only writer of the durable session file; the HTTP client reads the
// token through the TokenSource interface and reports expiry through
// HandleAuthExpired.
type Store struct {
	filePath     string
	profileStale time.Duration
	logger       *slog.Logger

	mu         sync.RWMutex
	token      string
	user       *entity.UserIdentity
	resolvedAt time.Time
	profiles   ProfileFetcher
}

// NewStore is the constructor for Store. It reloads any persisted session
// and silently discards tokens whose JWT expiry has already passed, so a
// stale reload lands in Anonymous without a round trip.
func NewStore(cfg *config.Config, logger *slog.Logger) *Store {
	s := &Store{
		filePath:     cfg.Session.FilePath,
		profileStale: cfg.Session.ProfileStaleTime,
		logger:       logger,
	}
	s.load()

	return s
}

// SetProfileFetcher wires the identity resolver. Done post-construction
// because the backend client itself depends on this store for its token.
func (s *Store) SetProfileFetcher(profiles ProfileFetcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = profiles
}

// Token implements backend.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// State derives the lifecycle state from the held token and identity.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stateLocked()
}

func (s *Store) stateLocked() State {
	switch {
	case s.token == "":
		return StateAnonymous
	case s.user == nil:
		return StateAuthenticating
	case s.user.Unassigned():
		return StateUnassigned
	default:
		return StateAuthenticated
	}
}

// Current returns the held identity, which may be nil while authenticating.
func (s *Store) Current() *entity.UserIdentity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user
}

// Login installs a new token, with the identity when the login response
// already carried one, and persists the session. Without an identity the
// session is Authenticating until Identity resolves it.
func (s *Store) Login(token string, user *entity.UserIdentity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.user = user
	s.resolvedAt = time.Time{}
	if user != nil {
		s.resolvedAt = time.Now()
	}
	s.persistLocked()
}

// Logout drops the session from any state and clears durable storage.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// HandleAuthExpired is subscribed to the backend client's 401 signal:
// the backend rejected the token, so the session collapses to Anonymous.
func (s *Store) HandleAuthExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" {
		return
	}
	s.logger.Info("session expired, clearing stored credentials")
	s.clearLocked()
}

// Identity returns the resolved identity, refetching the profile when it
// has never been resolved or its staleness window has lapsed.
func (s *Store) Identity(ctx context.Context) (entity.UserIdentity, error) {
	s.mu.RLock()
	token := s.token
	user := s.user
	resolvedAt := s.resolvedAt
	profiles := s.profiles
	s.mu.RUnlock()

	if token == "" {
		return entity.UserIdentity{}, errors.New("no active session")
	}
	if user != nil && time.Since(resolvedAt) < s.profileStale {
		return *user, nil
	}
	if profiles == nil {
		return entity.UserIdentity{}, errors.New("profile fetcher not wired")
	}

	fetched, err := profiles.Profile(ctx)
	if err != nil {
		// A 401 already tore the session down through the expiry signal;
		// serving the stale identity would resurrect a dead session.
		if apierror.IsAuthExpired(err) {
			return entity.UserIdentity{}, err
		}
		// A stale identity beats none at all on transient failures.
		if user != nil {
			return *user, nil
		}

		return entity.UserIdentity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The session may have been torn down while the fetch was in flight.
	if s.token != token {
		return fetched, nil
	}
	s.user = &fetched
	s.resolvedAt = time.Now()
	s.persistLocked()

	return fetched, nil
}

func (s *Store) clearLocked() {
	s.token = ""
	s.user = nil
	s.resolvedAt = time.Time{}
	if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove session file", slog.Any("error", err))
	}
}

func (s *Store) persistLocked() {
	if s.token == "" {
		return
	}

	data, err := json.Marshal(persisted{
		Token:      s.token,
		User:       s.user,
		ResolvedAt: s.resolvedAt,
	})
	if err != nil {
		s.logger.Warn("failed to encode session", slog.Any("error", err))

		return
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o700); err != nil {
		s.logger.Warn("failed to create session directory", slog.Any("error", err))

		return
	}
	if err := os.WriteFile(s.filePath, data, 0o600); err != nil {
		s.logger.Warn("failed to persist session", slog.Any("error", err))
	}
}

func (s *Store) load() {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return
	}

	var p persisted
	if err := json.Unmarshal(data, &p); err != nil {
		s.logger.Warn("discarding unreadable session file", slog.Any("error", err))
		_ = os.Remove(s.filePath)

		return
	}

	if p.Token == "" || tokenExpired(p.Token) {
		_ = os.Remove(s.filePath)

		return
	}

	s.token = p.Token
	s.user = p.User
	s.resolvedAt = p.ResolvedAt
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; verification is the backend's job, this only avoids reusing
// a token that is already past its lifetime. Opaque tokens pass through.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(time.Now())
}
