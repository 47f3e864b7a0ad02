package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nc-news-api/internal/apperr"
	"github.com/nc-news-api/internal/service"
	"github.com/nc-news-api/pkg/logger"
	"github.com/rs/zerolog"
)

// HealthChecker reports whether the store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CatalogHandler handles topics, users and the endpoint document
type CatalogHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(services *service.Services, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		services: services,
		log:      log.With().Str("handler", "catalog").Logger(),
	}
}

// Endpoints handles GET /api
func (h *CatalogHandler) Endpoints(c *gin.Context) {
	doc, err := h.services.API.Endpoints(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"endpoints": doc})
}

// ListTopics handles GET /api/topics
func (h *CatalogHandler) ListTopics(c *gin.Context) {
	topics, err := h.services.Topic.ListTopics(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// ListUsers handles GET /api/users
func (h *CatalogHandler) ListUsers(c *gin.Context) {
	users, err := h.services.User.ListUsers(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// GetUser handles GET /api/users/:username
func (h *CatalogHandler) GetUser(c *gin.Context) {
	user, err := h.services.User.GetUser(c.Request.Context(), c.Param("username"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// rootCheck handles GET /
func rootCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"msg": "Healthcheck is passed"})
}

// healthCheck returns the health status, pinging the store
func healthCheck(db HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, code := "healthy", http.StatusOK
		if db != nil {
			if err := db.HealthCheck(ctx); err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("Health check failed")
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   logger.ServiceName,
		})
	}
}

// bindJSON decodes the request body into dst. An empty body decodes as {}.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return badRequest(err)
}

func badRequest(cause error) error {
	e := apperr.Validation("Bad request")
	e.Err = cause
	return e
}
