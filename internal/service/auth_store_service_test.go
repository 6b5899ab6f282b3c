package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mercadolink/mercado_api/internal/cache"
	"github.com/mercadolink/mercado_api/internal/models"
	"github.com/mercadolink/mercado_api/internal/utils"
)

type fakeUserReader struct {
	user *models.AuthUser
	err  error
}

func (f *fakeUserReader) GetByEmail(email string) (*models.AuthUser, error) {
	return f.user, f.err
}

type fakeSessionRegistry struct {
	entries map[string]*cache.SessionEntry
}

func newFakeSessionRegistry() *fakeSessionRegistry {
	return &fakeSessionRegistry{entries: make(map[string]*cache.SessionEntry)}
}

func (f *fakeSessionRegistry) Create(ctx context.Context, jti string, entry *cache.SessionEntry, ttl time.Duration) error {
	f.entries[jti] = entry
	return nil
}

func (f *fakeSessionRegistry) Get(ctx context.Context, jti string) (*cache.SessionEntry, error) {
	entry, ok := f.entries[jti]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return entry, nil
}

func (f *fakeSessionRegistry) Delete(ctx context.Context, jtis ...string) error {
	for _, jti := range jtis {
		delete(f.entries, jti)
	}
	return nil
}

func newStoreUser(t *testing.T, email, password string) *models.AuthUser {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.AuthUser{ID: uuid.New(), Email: email, PasswordHash: string(hash)}
}

func TestSignInWithPasswordIssuesSession(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	user := newStoreUser(t, "admin@mercadolink.app", "secret123")
	registry := newFakeSessionRegistry()
	svc := NewAuthStoreService(&fakeUserReader{user: user}, registry, time.Hour)

	session, err := svc.SignInWithPassword(context.Background(), user.Email, "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, user.ID, session.AuthUserID)
	require.Contains(t, registry.entries, session.ID, "session must be registered under its jti")
	assert.Equal(t, user.Email, registry.entries[session.ID].Email)
}

func TestSignInWithPasswordUnknownEmail(t *testing.T) {
	svc := NewAuthStoreService(&fakeUserReader{err: sql.ErrNoRows}, newFakeSessionRegistry(), time.Hour)

	_, err := svc.SignInWithPassword(context.Background(), "nobody@mercadolink.app", "secret123")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestSignInWithPasswordWrongPassword(t *testing.T) {
	user := newStoreUser(t, "admin@mercadolink.app", "secret123")
	svc := NewAuthStoreService(&fakeUserReader{user: user}, newFakeSessionRegistry(), time.Hour)

	_, err := svc.SignInWithPassword(context.Background(), user.Email, "wrong")
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestGetSessionRoundTrip(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	user := newStoreUser(t, "admin@mercadolink.app", "secret123")
	registry := newFakeSessionRegistry()
	svc := NewAuthStoreService(&fakeUserReader{user: user}, registry, time.Hour)

	issued, err := svc.SignInWithPassword(context.Background(), user.Email, "secret123")
	require.NoError(t, err)

	resolved, err := svc.GetSession(context.Background(), issued.Token)
	require.NoError(t, err)
	assert.Equal(t, issued.ID, resolved.ID)
	assert.Equal(t, user.ID, resolved.AuthUserID)
	assert.Equal(t, user.Email, resolved.Email)
}

func TestGetSessionRevokedToken(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	user := newStoreUser(t, "admin@mercadolink.app", "secret123")
	registry := newFakeSessionRegistry()
	svc := NewAuthStoreService(&fakeUserReader{user: user}, registry, time.Hour)

	issued, err := svc.SignInWithPassword(context.Background(), user.Email, "secret123")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(context.Background(), issued.Token))

	_, err = svc.GetSession(context.Background(), issued.Token)
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}

func TestGetSessionGarbageToken(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	svc := NewAuthStoreService(&fakeUserReader{}, newFakeSessionRegistry(), time.Hour)

	_, err := svc.GetSession(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}

func TestSignOutIdempotent(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	svc := NewAuthStoreService(&fakeUserReader{}, newFakeSessionRegistry(), time.Hour)

	assert.NoError(t, svc.SignOut(context.Background(), "not-a-jwt"))
	assert.NoError(t, svc.SignOut(context.Background(), ""))
}
