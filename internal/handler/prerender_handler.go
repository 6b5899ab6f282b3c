package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Renderer fetches a pre-rendered HTML snapshot for a URL.
type Renderer interface {
	Render(ctx context.Context, targetURL string) (body []byte, contentType string, err error)
}

// PrerenderHandler proxies crawler requests to the pre-rendering service.
// Availability beats correctness here: any upstream problem degrades to a
// redirect to the original URL so crawlers always get something.
type PrerenderHandler struct {
	renderer Renderer
}

// NewPrerenderHandler constructs a PrerenderHandler. renderer may be nil
// when no upstream token is configured; the handler then always redirects.
func NewPrerenderHandler(renderer Renderer) *PrerenderHandler {
	return &PrerenderHandler{renderer: renderer}
}

// Handle serves GET /api/prerender?url=<targetUrl>.
func (h *PrerenderHandler) Handle(c *gin.Context) {
	targetURL := c.Query("url")
	if targetURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL requerida"})
		return
	}

	if h.renderer == nil {
		c.Redirect(http.StatusFound, targetURL)
		return
	}

	body, contentType, err := h.renderer.Render(c.Request.Context(), targetURL)
	if err != nil {
		log.Warn().Err(err).Str("url", targetURL).Msg("Prerender upstream failed, falling back to redirect")
		c.Redirect(http.StatusFound, targetURL)
		return
	}

	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}
	c.Header("X-Prerender", "true")
	c.Data(http.StatusOK, contentType, body)
}
