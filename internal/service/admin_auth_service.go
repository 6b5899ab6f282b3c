package service

import (
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mercadolink/mercado_api/internal/models"
	"github.com/mercadolink/mercado_api/internal/utils"
)

// blockedUntilLayout is the human-readable format appended to the
// ACCOUNT_BLOCKED message.
const blockedUntilLayout = "02/01/2006 15:04"

// LoginGate runs the server-side validation procedure for an authenticated
// identity.
type LoginGate interface {
	ValidateLogin(authUserID uuid.UUID) (*models.LoginValidationResult, error)
}

// ProfileReader fetches admin profiles by identity.
type ProfileReader interface {
	GetByAuthUserID(authUserID uuid.UUID) (*models.AdminProfile, error)
}

// Credentials is a transient login attempt. Never persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the credentials shape before any store call is made.
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Password, validation.Required),
	)
}

// LoginResult is the discriminated outcome of a login attempt. On failure,
// ErrorCode is one of INVALID_CREDENTIALS, ACCOUNT_INACTIVE,
// ACCOUNT_BLOCKED or NETWORK_ERROR; internal error text never leaks.
type LoginResult struct {
	Success      bool                 `json:"success"`
	ErrorCode    string               `json:"errorCode,omitempty"`
	Message      string               `json:"message,omitempty"`
	BlockedUntil *time.Time           `json:"blockedUntil,omitempty"`
	Token        string               `json:"token,omitempty"`
	Profile      *models.AdminProfile `json:"profile,omitempty"`
}

// AdminAuthService is the login validator: it authenticates against the
// store, runs the server-side validation procedure, and only then trusts
// profile data.
type AdminAuthService struct {
	store    AuthStore
	gate     LoginGate
	profiles ProfileReader
}

// NewAdminAuthService constructs an AdminAuthService.
func NewAdminAuthService(store AuthStore, gate LoginGate, profiles ProfileReader) *AdminAuthService {
	return &AdminAuthService{store: store, gate: gate, profiles: profiles}
}

// Login runs the full login flow. Every outcome is enumerated in the
// returned LoginResult; it never returns an error.
func (s *AdminAuthService) Login(ctx context.Context, creds Credentials) *LoginResult {
	log.Debug().Str("email", creds.Email).Msg("Login attempt")

	if err := creds.Validate(); err != nil {
		return failure(utils.ErrInvalidCredentials.Error(), "Credenciales inválidas")
	}

	session, err := s.store.SignInWithPassword(ctx, creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) {
			log.Warn().Str("email", creds.Email).Msg("Invalid credentials")
			return failure(utils.ErrInvalidCredentials.Error(), "Credenciales inválidas")
		}
		log.Error().Err(err).Str("email", creds.Email).Msg("Sign-in transport failure")
		return failure(utils.ErrNetworkError.Error(), "Error de conexión. Intenta nuevamente")
	}

	// The gate always runs after sign-in and before any profile data is
	// trusted. A blocked/inactive decision wins over cached profile values.
	decision, err := s.gate.ValidateLogin(session.AuthUserID)
	if err != nil {
		log.Error().Err(err).Str("email", creds.Email).Msg("Login validation failed")
		s.signOutQuietly(ctx, session.Token)
		return failure(utils.ErrNetworkError.Error(), "Error de conexión. Intenta nuevamente")
	}

	if !decision.CanLogin {
		// The store session must not outlive a rejected login.
		s.signOutQuietly(ctx, session.Token)

		if !decision.Activo {
			log.Warn().Str("email", creds.Email).Msg("Account is inactive")
			return failure(utils.ErrAccountInactive.Error(), "Cuenta inactiva")
		}
		if decision.Bloqueado {
			msg := "Cuenta bloqueada"
			if decision.BloqueadoHasta != nil {
				msg += " hasta " + decision.BloqueadoHasta.Format(blockedUntilLayout)
			}
			log.Warn().Str("email", creds.Email).Msg("Account is blocked")
			result := failure(utils.ErrAccountBlocked.Error(), msg)
			result.BlockedUntil = decision.BloqueadoHasta
			return result
		}
		// The gate denied for a reason it did not name; stay generic.
		return failure(utils.ErrInvalidCredentials.Error(), "Credenciales inválidas")
	}

	profile, err := s.profiles.GetByAuthUserID(session.AuthUserID)
	if err != nil {
		log.Error().Err(err).Str("email", creds.Email).Msg("Failed to load admin profile")
		s.signOutQuietly(ctx, session.Token)
		return failure(utils.ErrNetworkError.Error(), "Error de conexión. Intenta nuevamente")
	}

	log.Info().Str("email", creds.Email).Str("role", profile.Role).Msg("Login successful")
	return &LoginResult{Success: true, Token: session.Token, Profile: profile}
}

func (s *AdminAuthService) signOutQuietly(ctx context.Context, token string) {
	if err := s.store.SignOut(ctx, token); err != nil {
		log.Warn().Err(err).Msg("Failed to sign out rejected session")
	}
}

func failure(code, message string) *LoginResult {
	return &LoginResult{Success: false, ErrorCode: code, Message: message}
}
