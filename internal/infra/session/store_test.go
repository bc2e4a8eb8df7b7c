package session

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"medash/config"
	"medash/internal/domain/apierror"
	"medash/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfiles struct {
	identity entity.UserIdentity
	err      error
	calls    int
}

func (f *fakeProfiles) Profile(ctx context.Context) (entity.UserIdentity, error) {
	f.calls++
	if f.err != nil {
		return entity.UserIdentity{}, f.err
	}

	return f.identity, nil
}

// profileFunc adapts a closure into a ProfileFetcher, for fetchers that
// need to reach back into the store under test.
type profileFunc func(ctx context.Context) (entity.UserIdentity, error)

func (f profileFunc) Profile(ctx context.Context) (entity.UserIdentity, error) {
	return f(ctx)
}

func sessionConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.Session = &config.SessionConfig{
		FilePath:         filepath.Join(t.TempDir(), "session.json"),
		ProfileStaleTime: time.Minute,
	}

	return cfg
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": "user-1",
		"exp": expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return token
}

func TestStore_StartsAnonymous(t *testing.T) {
	s := NewStore(sessionConfig(t), slog.New(slog.DiscardHandler))
	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, s.Token())
}

func TestStore_LoginWithIdentityIsAuthenticated(t *testing.T) {
	s := NewStore(sessionConfig(t), slog.New(slog.DiscardHandler))

	s.Login("tok-1", &entity.UserIdentity{ID: "u1", Role: entity.RoleMEOfficer, HasAccess: true})
	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, "tok-1", s.Token())
}

func TestStore_LoginWithoutIdentityIsAuthenticating(t *testing.T) {
	s := NewStore(sessionConfig(t), slog.New(slog.DiscardHandler))

	s.Login("tok-1", nil)
	assert.Equal(t, StateAuthenticating, s.State())
}

func TestStore_UnassignedRoleIsUnassigned(t *testing.T) {
	s := NewStore(sessionConfig(t), slog.New(slog.DiscardHandler))

	s.Login("tok-1", &entity.UserIdentity{ID: "u1", Role: entity.RoleUnassigned, HasAccess: false})
	assert.Equal(t, StateUnassigned, s.State())
}

func TestStore_RevokedAccessIsUnassignedEvenWithRole(t *testing.T) {
	s := NewStore(sessionConfig(t), slog.New(slog.DiscardHandler))

	s.Login("tok-1", &entity.UserIdentity{ID: "u1", Role: entity.RoleDonor, HasAccess: false})
	assert.Equal(t, StateUnassigned, s.State())
}

func TestStore_PersistsAcrossRestart(t *testing.T) {
	cfg := sessionConfig(t)
	logger := slog.New(slog.DiscardHandler)

	first := NewStore(cfg, logger)
	first.Login(signedToken(t, time.Now().Add(time.Hour)), &entity.UserIdentity{
		ID: "u1", Email: "officer@example.org", Role: entity.RoleMEOfficer, HasAccess: true,
	})

	reloaded := NewStore(cfg, logger)
	assert.Equal(t, StateAuthenticated, reloaded.State())
	require.NotNil(t, reloaded.Current())
	assert.Equal(t, "officer@example.org", reloaded.Current().Email)
}

func TestStore_ExpiredStoredTokenReloadsAnonymous(t *testing.T) {
	cfg := sessionConfig(t)
	logger := slog.New(slog.DiscardHandler)

	first := NewStore(cfg, logger)
	first.Login(signedToken(t, time.Now().Add(-time.Hour)), &entity.UserIdentity{ID: "u1"})

	reloaded := NewStore(cfg, logger)
	assert.Equal(t, StateAnonymous, reloaded.State())

	_, err := os.Stat(cfg.Session.FilePath)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_LogoutClearsStateAndStorage(t *testing.T) {
	cfg := sessionConfig(t)
	s := NewStore(cfg, slog.New(slog.DiscardHandler))

	s.Login("tok-1", &entity.UserIdentity{ID: "u1", Role: entity.RoleAdmin, HasAccess: true})
	s.Logout()

	assert.Equal(t, StateAnonymous, s.State())
	_, err := os.Stat(cfg.Session.FilePath)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_AuthExpiredSignalTearsDownFromAnyState(t *testing.T) {
	cfg := sessionConfig(t)
	s := NewStore(cfg, slog.New(slog.DiscardHandler))

	s.Login("tok-1", &entity.UserIdentity{ID: "u1", Role: entity.RoleFacilitator, HasAccess: true})
	s.HandleAuthExpired()

	assert.Equal(t, StateAnonymous, s.State())
	assert.Empty(t, s.Token())
	_, err := os.Stat(cfg.Session.FilePath)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_IdentityResolvesAuthenticatingSession(t *testing.T) {
	s := NewStore(sessionConfig(t), slog.New(slog.DiscardHandler))
	profiles := &fakeProfiles{identity: entity.UserIdentity{
		ID: "u1", Role: entity.RoleFacilitator, HasAccess: true,
	}}
	s.SetProfileFetcher(profiles)

	s.Login("tok-1", nil)
	require.Equal(t, StateAuthenticating, s.State())

	identity, err := s.Identity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.RoleFacilitator, identity.Role)
	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, 1, profiles.calls)
}

func TestStore_IdentityUsesCachedProfileWithinStaleWindow(t *testing.T) {
	s := NewStore(sessionConfig(t), slog.New(slog.DiscardHandler))
	profiles := &fakeProfiles{identity: entity.UserIdentity{ID: "u1", Role: entity.RoleDonor, HasAccess: true}}
	s.SetProfileFetcher(profiles)

	s.Login("tok-1", nil)
	_, err := s.Identity(context.Background())
	require.NoError(t, err)
	_, err = s.Identity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, profiles.calls)
}

func TestStore_IdentityWithoutSessionFails(t *testing.T) {
	s := NewStore(sessionConfig(t), slog.New(slog.DiscardHandler))

	_, err := s.Identity(context.Background())
	assert.Error(t, err)
}

func TestStore_IdentityKeepsStaleProfileOnFetchFailure(t *testing.T) {
	cfg := sessionConfig(t)
	cfg.Session.ProfileStaleTime = time.Nanosecond
	s := NewStore(cfg, slog.New(slog.DiscardHandler))
	profiles := &fakeProfiles{err: &apierror.ServerError{Status: 503}}
	s.SetProfileFetcher(profiles)

	s.Login("tok-1", &entity.UserIdentity{ID: "u1", Role: entity.RoleMEOfficer, HasAccess: true})
	time.Sleep(time.Millisecond)

	identity, err := s.Identity(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
}

func TestStore_IdentityDropsStaleProfileWhenTokenRejected(t *testing.T) {
	cfg := sessionConfig(t)
	cfg.Session.ProfileStaleTime = time.Nanosecond
	s := NewStore(cfg, slog.New(slog.DiscardHandler))
	// The client fires the expiry signal before the error surfaces, exactly
	// as a 401 on the profile refetch plays out.
	s.SetProfileFetcher(profileFunc(func(ctx context.Context) (entity.UserIdentity, error) {
		s.HandleAuthExpired()

		return entity.UserIdentity{}, &apierror.AuthExpiredError{}
	}))

	s.Login("tok-1", &entity.UserIdentity{ID: "u1", Role: entity.RoleMEOfficer, HasAccess: true})
	time.Sleep(time.Millisecond)

	_, err := s.Identity(context.Background())
	require.Error(t, err)
	assert.True(t, apierror.IsAuthExpired(err))
	assert.Equal(t, StateAnonymous, s.State())
}
