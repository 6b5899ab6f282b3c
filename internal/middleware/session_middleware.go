package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mercadolink/mercado_api/internal/models"
	"github.com/mercadolink/mercado_api/internal/utils"
)

// SessionResolver resolves a bearer token to a live session.
type SessionResolver interface {
	GetSession(ctx context.Context, token string) (*models.Session, error)
}

// ProfileReader fetches the admin profile behind a session.
type ProfileReader interface {
	GetByAuthUserID(authUserID uuid.UUID) (*models.AdminProfile, error)
}

// SessionMiddleware authenticates admin requests. A valid store session is
// not enough: the profile must exist, be active and not currently blocked.
// Authorization is a superset check, not a presence check.
type SessionMiddleware struct {
	sessions SessionResolver
	profiles ProfileReader
}

// NewSessionMiddleware constructs a SessionMiddleware.
func NewSessionMiddleware(sessions SessionResolver, profiles ProfileReader) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, profiles: profiles}
}

// Handle returns a Gin middleware function that enforces authentication.
func (m *SessionMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
			c.Abort()
			return
		}

		session, err := m.sessions.GetSession(c.Request.Context(), parts[1])
		if err != nil {
			utils.Error(c, 401, "SESSION_NOT_FOUND", "Invalid or expired session")
			c.Abort()
			return
		}

		profile, err := m.profiles.GetByAuthUserID(session.AuthUserID)
		if err != nil {
			utils.Error(c, 401, "UNAUTHORIZED", "No admin profile for this session")
			c.Abort()
			return
		}

		if !profile.Active {
			utils.Error(c, 401, "ACCOUNT_INACTIVE", "Cuenta inactiva")
			c.Abort()
			return
		}
		if profile.BlockedNow(time.Now()) {
			utils.Error(c, 401, "ACCOUNT_BLOCKED", "Cuenta bloqueada")
			c.Abort()
			return
		}

		c.Set("session", session)
		c.Set("profile", profile)
		c.Set("auth_user_id", session.AuthUserID.String())
		c.Set("email", profile.Email)
		c.Set("role", profile.Role)
		c.Next()
	}
}

// RequireRole gates a route to the given roles. Must run after the session
// middleware. This is a UI/API convenience gate; the login validation
// procedure remains the security boundary.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := GetProfile(c)
		if profile == nil {
			utils.Error(c, 401, "UNAUTHORIZED", "Not authenticated")
			c.Abort()
			return
		}
		for _, role := range roles {
			if profile.Role == role {
				c.Next()
				return
			}
		}
		utils.Error(c, 403, "FORBIDDEN", "Insufficient role")
		c.Abort()
	}
}

// GetProfile returns the authenticated admin profile from context.
func GetProfile(c *gin.Context) *models.AdminProfile {
	profile, _ := c.Get("profile")
	if profile == nil {
		return nil
	}
	return profile.(*models.AdminProfile)
}

// GetSession returns the authenticated session from context.
func GetSession(c *gin.Context) *models.Session {
	session, _ := c.Get("session")
	if session == nil {
		return nil
	}
	return session.(*models.Session)
}
