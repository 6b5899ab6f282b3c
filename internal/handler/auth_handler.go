package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/mercadolink/mercado_api/internal/middleware"
	"github.com/mercadolink/mercado_api/internal/service"
	"github.com/mercadolink/mercado_api/internal/utils"
)

type AuthHandler struct {
	authService *service.AdminAuthService
	store       service.AuthStore
	rateLimiter *middleware.FailedLoginRateLimiter
}

func NewAuthHandler(authService *service.AdminAuthService, store service.AuthStore) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		store:       store,
		rateLimiter: middleware.NewFailedLoginRateLimiter(),
	}
}

// Login authenticates an admin and returns a session token plus profile.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result := h.authService.Login(c.Request.Context(), service.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if !result.Success {
		if !h.rateLimiter.Allow(c.ClientIP()) {
			utils.Error(c, 429, "TOO_MANY_REQUESTS", "Demasiados intentos de inicio de sesión")
			return
		}
		var data interface{}
		if result.BlockedUntil != nil {
			data = gin.H{"blockedUntil": result.BlockedUntil}
		}
		utils.ErrorWithData(c, 401, result.ErrorCode, result.Message, data)
		return
	}

	utils.Success(c, 200, "Inicio de sesión exitoso", gin.H{
		"token":   result.Token,
		"profile": result.Profile,
	})
}

// Logout revokes the current session. Idempotent: an absent or invalid
// token is still a success so repeated calls converge on logged-out.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := bearerToken(c); token != "" {
		_ = h.store.SignOut(c.Request.Context(), token)
	}
	utils.Success(c, 200, "Sesión cerrada", nil)
}

// Session returns the current session's user and profile. Runs behind the
// session middleware, so reaching here means the profile is eligible.
func (h *AuthHandler) Session(c *gin.Context) {
	session := middleware.GetSession(c)
	profile := middleware.GetProfile(c)

	utils.Success(c, 200, "Sesión activa", gin.H{
		"user": gin.H{
			"id":    session.AuthUserID,
			"email": session.Email,
		},
		"profile":   profile,
		"expiresAt": session.ExpiresAt,
	})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
