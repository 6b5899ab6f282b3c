package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercadolink/mercado_api/internal/models"
	"github.com/mercadolink/mercado_api/internal/utils"
)

type fakeAuthStore struct {
	session   *models.Session
	signInErr error

	signInCalls  int
	signOutCalls []string
}

func (f *fakeAuthStore) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	f.signInCalls++
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.session, nil
}

func (f *fakeAuthStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	return nil, utils.ErrSessionNotFound
}

func (f *fakeAuthStore) SignOut(ctx context.Context, token string) error {
	f.signOutCalls = append(f.signOutCalls, token)
	return nil
}

type fakeGate struct {
	decision *models.LoginValidationResult
	err      error
}

func (f *fakeGate) ValidateLogin(authUserID uuid.UUID) (*models.LoginValidationResult, error) {
	return f.decision, f.err
}

type fakeProfiles struct {
	profile *models.AdminProfile
	err     error
}

func (f *fakeProfiles) GetByAuthUserID(authUserID uuid.UUID) (*models.AdminProfile, error) {
	return f.profile, f.err
}

func testSession() *models.Session {
	return &models.Session{
		Token:      "token-abc",
		ID:         "jti-1",
		AuthUserID: uuid.New(),
		Email:      "admin@mercadolink.app",
		ExpiresAt:  time.Now().Add(time.Hour),
	}
}

func TestLoginSuccess(t *testing.T) {
	session := testSession()
	store := &fakeAuthStore{session: session}
	gate := &fakeGate{decision: &models.LoginValidationResult{CanLogin: true, Activo: true, Role: models.RoleAdminFull}}
	profile := &models.AdminProfile{ID: 7, AuthUserID: session.AuthUserID, Email: session.Email, Role: models.RoleAdminFull, Active: true}

	svc := NewAdminAuthService(store, gate, &fakeProfiles{profile: profile})
	result := svc.Login(context.Background(), Credentials{Email: session.Email, Password: "secret"})

	require.True(t, result.Success)
	assert.Equal(t, "token-abc", result.Token)
	assert.Equal(t, profile, result.Profile)
	assert.Empty(t, result.ErrorCode)
	assert.Empty(t, store.signOutCalls)
}

func TestLoginMalformedEmailSkipsStore(t *testing.T) {
	store := &fakeAuthStore{}
	svc := NewAdminAuthService(store, &fakeGate{}, &fakeProfiles{})

	result := svc.Login(context.Background(), Credentials{Email: "not-an-email", Password: "secret"})

	require.False(t, result.Success)
	assert.Equal(t, "INVALID_CREDENTIALS", result.ErrorCode)
	assert.Equal(t, "Credenciales inválidas", result.Message)
	assert.Zero(t, store.signInCalls, "store must not be called for malformed credentials")
}

func TestLoginMissingPasswordSkipsStore(t *testing.T) {
	store := &fakeAuthStore{}
	svc := NewAdminAuthService(store, &fakeGate{}, &fakeProfiles{})

	result := svc.Login(context.Background(), Credentials{Email: "admin@mercadolink.app"})

	require.False(t, result.Success)
	assert.Equal(t, "INVALID_CREDENTIALS", result.ErrorCode)
	assert.Zero(t, store.signInCalls)
}

func TestLoginInvalidCredentials(t *testing.T) {
	store := &fakeAuthStore{signInErr: utils.ErrInvalidCredentials}
	svc := NewAdminAuthService(store, &fakeGate{}, &fakeProfiles{})

	result := svc.Login(context.Background(), Credentials{Email: "admin@mercadolink.app", Password: "wrong"})

	require.False(t, result.Success)
	assert.Equal(t, "INVALID_CREDENTIALS", result.ErrorCode)
	assert.Equal(t, "Credenciales inválidas", result.Message)
}

func TestLoginStoreUnreachable(t *testing.T) {
	store := &fakeAuthStore{signInErr: errors.New("connection refused")}
	svc := NewAdminAuthService(store, &fakeGate{}, &fakeProfiles{})

	result := svc.Login(context.Background(), Credentials{Email: "admin@mercadolink.app", Password: "secret"})

	require.False(t, result.Success)
	assert.Equal(t, "NETWORK_ERROR", result.ErrorCode)
	assert.Equal(t, "Error de conexión. Intenta nuevamente", result.Message)
	assert.NotContains(t, result.Message, "connection refused", "internal error text must not leak")
}

func TestLoginInactiveAccountSignsBackOut(t *testing.T) {
	session := testSession()
	store := &fakeAuthStore{session: session}
	gate := &fakeGate{decision: &models.LoginValidationResult{CanLogin: false, Activo: false}}

	svc := NewAdminAuthService(store, gate, &fakeProfiles{})
	result := svc.Login(context.Background(), Credentials{Email: session.Email, Password: "secret"})

	require.False(t, result.Success)
	assert.Equal(t, "ACCOUNT_INACTIVE", result.ErrorCode)
	assert.Equal(t, "Cuenta inactiva", result.Message)
	assert.Equal(t, []string{"token-abc"}, store.signOutCalls, "rejected login must revoke the store session")
}

func TestLoginBlockedUntilCarriesDeadline(t *testing.T) {
	session := testSession()
	store := &fakeAuthStore{session: session}
	until := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)
	gate := &fakeGate{decision: &models.LoginValidationResult{
		CanLogin:       false,
		Activo:         true,
		Bloqueado:      true,
		BloqueadoHasta: &until,
	}}

	svc := NewAdminAuthService(store, gate, &fakeProfiles{})
	result := svc.Login(context.Background(), Credentials{Email: session.Email, Password: "secret"})

	require.False(t, result.Success)
	assert.Equal(t, "ACCOUNT_BLOCKED", result.ErrorCode)
	assert.Equal(t, "Cuenta bloqueada hasta 15/03/2026 18:30", result.Message)
	require.NotNil(t, result.BlockedUntil)
	assert.True(t, result.BlockedUntil.Equal(until))
	assert.Equal(t, []string{"token-abc"}, store.signOutCalls)
}

func TestLoginBlockedIndefinitely(t *testing.T) {
	session := testSession()
	store := &fakeAuthStore{session: session}
	gate := &fakeGate{decision: &models.LoginValidationResult{CanLogin: false, Activo: true, Bloqueado: true}}

	svc := NewAdminAuthService(store, gate, &fakeProfiles{})
	result := svc.Login(context.Background(), Credentials{Email: session.Email, Password: "secret"})

	require.False(t, result.Success)
	assert.Equal(t, "ACCOUNT_BLOCKED", result.ErrorCode)
	assert.Equal(t, "Cuenta bloqueada", result.Message)
	assert.Nil(t, result.BlockedUntil)
}

func TestLoginGateFailureSignsBackOut(t *testing.T) {
	session := testSession()
	store := &fakeAuthStore{session: session}
	gate := &fakeGate{err: errors.New("db timeout")}

	svc := NewAdminAuthService(store, gate, &fakeProfiles{})
	result := svc.Login(context.Background(), Credentials{Email: session.Email, Password: "secret"})

	require.False(t, result.Success)
	assert.Equal(t, "NETWORK_ERROR", result.ErrorCode)
	assert.Equal(t, []string{"token-abc"}, store.signOutCalls)
}

func TestLoginGateDeniesWithoutNamedReason(t *testing.T) {
	session := testSession()
	store := &fakeAuthStore{session: session}
	gate := &fakeGate{decision: &models.LoginValidationResult{CanLogin: false, Activo: true, Bloqueado: false}}

	svc := NewAdminAuthService(store, gate, &fakeProfiles{})
	result := svc.Login(context.Background(), Credentials{Email: session.Email, Password: "secret"})

	require.False(t, result.Success)
	assert.Equal(t, "INVALID_CREDENTIALS", result.ErrorCode)
	assert.Equal(t, []string{"token-abc"}, store.signOutCalls)
}

func TestLoginProfileLoadFailureSignsBackOut(t *testing.T) {
	session := testSession()
	store := &fakeAuthStore{session: session}
	gate := &fakeGate{decision: &models.LoginValidationResult{CanLogin: true, Activo: true}}

	svc := NewAdminAuthService(store, gate, &fakeProfiles{err: errors.New("db timeout")})
	result := svc.Login(context.Background(), Credentials{Email: session.Email, Password: "secret"})

	require.False(t, result.Success)
	assert.Equal(t, "NETWORK_ERROR", result.ErrorCode)
	assert.Equal(t, []string{"token-abc"}, store.signOutCalls)
}
