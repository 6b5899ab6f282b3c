package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mercadolink/mercado_api/internal/models"
)

type fakeSessionResolver struct {
	session *models.Session
	err     error
}

func (f *fakeSessionResolver) GetSession(ctx context.Context, token string) (*models.Session, error) {
	return f.session, f.err
}

type fakeProfileReader struct {
	profile *models.AdminProfile
	err     error
}

func (f *fakeProfileReader) GetByAuthUserID(authUserID uuid.UUID) (*models.AdminProfile, error) {
	return f.profile, f.err
}

func serveProtected(mw *SessionMiddleware, extra gin.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := []gin.HandlerFunc{mw.Handle()}
	if extra != nil {
		handlers = append(handlers, extra)
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": GetProfile(c).Role})
	})
	router.GET("/protected", handlers...)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func eligibleFixtures() (*fakeSessionResolver, *fakeProfileReader) {
	authUserID := uuid.New()
	session := &models.Session{Token: "tok", ID: "jti", AuthUserID: authUserID, Email: "ana@mercadolink.app", ExpiresAt: time.Now().Add(time.Hour)}
	profile := &models.AdminProfile{ID: 1, AuthUserID: authUserID, Email: "ana@mercadolink.app", Role: models.RoleAdminFull, Active: true}
	return &fakeSessionResolver{session: session}, &fakeProfileReader{profile: profile}
}

func TestSessionMiddlewareAllowsEligibleAdmin(t *testing.T) {
	sessions, profiles := eligibleFixtures()
	w := serveProtected(NewSessionMiddleware(sessions, profiles), nil, "Bearer tok")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.RoleAdminFull)
}

func TestSessionMiddlewareMissingHeader(t *testing.T) {
	sessions, profiles := eligibleFixtures()
	w := serveProtected(NewSessionMiddleware(sessions, profiles), nil, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestSessionMiddlewareUnknownSession(t *testing.T) {
	_, profiles := eligibleFixtures()
	sessions := &fakeSessionResolver{err: errors.New("not found")}
	w := serveProtected(NewSessionMiddleware(sessions, profiles), nil, "Bearer tok")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_NOT_FOUND")
}

func TestSessionMiddlewareInactiveProfile(t *testing.T) {
	sessions, profiles := eligibleFixtures()
	profiles.profile.Active = false
	w := serveProtected(NewSessionMiddleware(sessions, profiles), nil, "Bearer tok")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ACCOUNT_INACTIVE")
}

func TestSessionMiddlewareBlockedProfile(t *testing.T) {
	sessions, profiles := eligibleFixtures()
	profiles.profile.Blocked = true
	w := serveProtected(NewSessionMiddleware(sessions, profiles), nil, "Bearer tok")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ACCOUNT_BLOCKED")
}

func TestSessionMiddlewareExpiredBlockAdmits(t *testing.T) {
	sessions, profiles := eligibleFixtures()
	past := time.Now().Add(-time.Hour)
	profiles.profile.Blocked = true
	profiles.profile.BlockedUntil = &past
	w := serveProtected(NewSessionMiddleware(sessions, profiles), nil, "Bearer tok")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	sessions, profiles := eligibleFixtures()
	w := serveProtected(NewSessionMiddleware(sessions, profiles), RequireRole(models.RoleSuperadmin), "Bearer tok")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestRequireRoleAdmitsMatchingRole(t *testing.T) {
	sessions, profiles := eligibleFixtures()
	profiles.profile.Role = models.RoleSuperadmin
	w := serveProtected(NewSessionMiddleware(sessions, profiles), RequireRole(models.RoleSuperadmin), "Bearer tok")

	assert.Equal(t, http.StatusOK, w.Code)
}
