package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/AtRiskMedia/tractstack-seo/internal/application/services"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-seo/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// AuthHandlers contains the admin authentication handler
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// PostAuth handles POST /api/v1/seo/auth - exchanges the admin password for a bearer token
func (h *AuthHandlers) PostAuth(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_auth_request", "admin")
	defer marker.Complete()

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.HTTP().Debug("Auth request JSON binding failed", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.authService.AuthenticateAdmin(req.Password)
	if errors.Is(err, services.ErrAuthDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		return
	}

	if !result.Success {
		marker.SetSuccess(false)
		h.logger.HTTP().Warn("Admin login rejected", "duration", time.Since(start))
		c.JSON(http.StatusUnauthorized, gin.H{"error": result.Error})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     result.Token,
		"role":      result.Role,
		"expiresAt": result.ExpiresAt,
	})
}
