package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shortlink/internal/domain"
	"shortlink/internal/service"
	"shortlink/pkg/logger"
)

// ReservedCreatePath is never treated as a short code
const ReservedCreatePath = "create"

const indexPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>URL shortener</title></head>
<body>
<h1>URL shortener</h1>
<p>To create a short link, call:</p>
<code>GET /create?url=YOUR_URL</code>
<p>Example: <a href="/create?url=https://google.com">/create?url=https://google.com</a></p>
</body>
</html>
`

// URLHandler handles HTTP requests for URL shortening operations
type URLHandler struct {
	service service.URLService
	baseURL string
	logger  *logger.Logger
}

// NewURLHandler creates a new URL handler. An empty baseURL makes short
// links use the scheme and host of the incoming request.
func NewURLHandler(service service.URLService, baseURL string, logger *logger.Logger) *URLHandler {
	return &URLHandler{
		service: service,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// CreateShortLink handles GET /create?url=...
func (h *URLHandler) CreateShortLink(c *gin.Context) {
	code, err := h.service.CreateShortLink(c.Request.Context(), c.Query("url"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.CreateURLResponse{
		ShortURL: h.shortURL(c.Request, code),
	})
}

// RedirectURL handles GET /:shortCode
func (h *URLHandler) RedirectURL(c *gin.Context) {
	shortCode := c.Param("shortCode")

	if shortCode == ReservedCreatePath {
		c.Redirect(http.StatusFound, "/")
		return
	}

	originalURL, err := h.service.Resolve(c.Request.Context(), shortCode)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// Permanent: clients and intermediaries may cache the mapping
	c.Redirect(http.StatusMovedPermanently, originalURL)
}

// Index handles GET /
func (h *URLHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

// shortURL builds <scheme>://<host>/<code>
func (h *URLHandler) shortURL(r *http.Request, code string) string {
	if h.baseURL != "" {
		return h.baseURL + "/" + code
	}

	scheme := "http"
	switch {
	case r.URL.Scheme != "":
		// set by the proxy-headers middleware from X-Forwarded-Proto
		scheme = r.URL.Scheme
	case r.TLS != nil:
		scheme = "https"
	}

	return scheme + "://" + r.Host + "/" + code
}

// handleError maps service errors onto JSON responses. Internal details are
// logged, never returned.
func (h *URLHandler) handleError(c *gin.Context, err error) {
	var appErr *domain.AppError

	switch {
	case errors.As(err, &appErr) && !appErr.Internal:
		c.JSON(appErr.StatusCode, domain.ErrorResponse{Error: appErr.Message})

	case appErr == nil && errors.Is(err, domain.ErrURLNotFound):
		c.JSON(http.StatusNotFound, domain.ErrorResponse{Error: "short link not found"})

	default:
		_ = c.Error(err)
		h.logger.Errorw("Request failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{Error: "internal server error"})
	}
}
