package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeRenderer struct {
	body        []byte
	contentType string
	err         error

	gotURL string
}

func (f *fakeRenderer) Render(ctx context.Context, targetURL string) ([]byte, string, error) {
	f.gotURL = targetURL
	return f.body, f.contentType, f.err
}

func prerenderRequest(h *PrerenderHandler, rawQuery string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/prerender", h.Handle)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/prerender"+rawQuery, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestPrerenderMissingURL(t *testing.T) {
	h := NewPrerenderHandler(&fakeRenderer{})
	w := prerenderRequest(h, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "URL requerida"}`, w.Body.String())
}

func TestPrerenderSuccess(t *testing.T) {
	renderer := &fakeRenderer{body: []byte("<html>snapshot</html>"), contentType: "text/html; charset=utf-8"}
	h := NewPrerenderHandler(renderer)
	w := prerenderRequest(h, "?url=https://mercadolink.app/producto/7")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Prerender"))
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<html>snapshot</html>", w.Body.String())
	assert.Equal(t, "https://mercadolink.app/producto/7", renderer.gotURL)
}

func TestPrerenderUpstreamFailureRedirects(t *testing.T) {
	h := NewPrerenderHandler(&fakeRenderer{err: errors.New("upstream 502")})
	w := prerenderRequest(h, "?url=https://mercadolink.app/producto/7")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://mercadolink.app/producto/7", w.Header().Get("Location"))
	assert.Empty(t, w.Header().Get("X-Prerender"))
}

func TestPrerenderNoRendererRedirects(t *testing.T) {
	h := NewPrerenderHandler(nil)
	w := prerenderRequest(h, "?url=https://mercadolink.app/")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://mercadolink.app/", w.Header().Get("Location"))
}
