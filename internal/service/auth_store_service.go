package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/mercadolink/mercado_api/internal/cache"
	"github.com/mercadolink/mercado_api/internal/models"
	"github.com/mercadolink/mercado_api/internal/utils"
)

// AuthStore is the credential/session subsystem: password sign-in, session
// lookup, sign-out.
type AuthStore interface {
	SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error)
	GetSession(ctx context.Context, token string) (*models.Session, error)
	SignOut(ctx context.Context, token string) error
}

// AuthUserReader reads credential records.
type AuthUserReader interface {
	GetByEmail(email string) (*models.AuthUser, error)
}

// SessionRegistry registers and revokes live sessions by jti.
type SessionRegistry interface {
	Create(ctx context.Context, jti string, entry *cache.SessionEntry, ttl time.Duration) error
	Get(ctx context.Context, jti string) (*cache.SessionEntry, error)
	Delete(ctx context.Context, jtis ...string) error
}

// AuthStoreService implements AuthStore on top of the auth_users table and
// the Redis session registry.
type AuthStoreService struct {
	users    AuthUserReader
	sessions SessionRegistry
	ttl      time.Duration
}

// NewAuthStoreService constructs an AuthStoreService.
func NewAuthStoreService(users AuthUserReader, sessions SessionRegistry, ttl time.Duration) *AuthStoreService {
	return &AuthStoreService{users: users, sessions: sessions, ttl: ttl}
}

// SignInWithPassword verifies the credentials and issues a session. A bad
// email or password returns utils.ErrInvalidCredentials; anything else is
// a transport/storage failure.
func (s *AuthStoreService) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, jti, err := utils.GenerateSessionToken(user.ID, user.Email, s.ttl)
	if err != nil {
		return nil, err
	}

	entry := &cache.SessionEntry{AuthUserID: user.ID, Email: user.Email}
	if err := s.sessions.Create(ctx, jti, entry, s.ttl); err != nil {
		return nil, err
	}

	return &models.Session{
		Token:      token,
		ID:         jti,
		AuthUserID: user.ID,
		Email:      user.Email,
		ExpiresAt:  time.Now().Add(s.ttl),
	}, nil
}

// GetSession resolves a token to its live session. Tokens that fail
// signature checks or whose registration is gone yield ErrSessionNotFound.
func (s *AuthStoreService) GetSession(ctx context.Context, token string) (*models.Session, error) {
	claims, err := utils.ValidateSessionToken(token)
	if err != nil {
		return nil, utils.ErrSessionNotFound
	}

	entry, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, utils.ErrSessionNotFound
		}
		return nil, err
	}

	authUserID, err := uuid.Parse(claims.AuthUserID)
	if err != nil {
		return nil, utils.ErrSessionNotFound
	}

	return &models.Session{
		Token:      token,
		ID:         claims.ID,
		AuthUserID: authUserID,
		Email:      entry.Email,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

// SignOut revokes the session behind a token. Invalid or already-revoked
// tokens are not an error so the operation stays idempotent.
func (s *AuthStoreService) SignOut(ctx context.Context, token string) error {
	claims, err := utils.ValidateSessionToken(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.ID); err != nil {
		log.Warn().Err(err).Msg("Failed to revoke session")
		return err
	}
	return nil
}
