// Package handler exposes profile CRUD over HTTP.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brlucas/fluxo/internal/domain/common"
	"github.com/brlucas/fluxo/internal/domain/profile"
	"github.com/brlucas/fluxo/pkg/middleware"
)

// ProfileHandler handles the /api/profiles endpoints.
type ProfileHandler struct {
	svc    *profile.Service
	logger *slog.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(svc *profile.Service, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, logger: logger}
}

// Create handles POST /api/profiles.
func (h *ProfileHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.MsgUnauthenticated})
		return
	}

	var in profile.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgBadRequest})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), userID, in)
	if err != nil {
		h.logger.Warn("create profile failed", "error", err, "user_id", userID)
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// List handles GET /api/profiles.
func (h *ProfileHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.MsgUnauthenticated})
		return
	}

	profiles, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// Get handles GET /api/profiles/:id.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.MsgUnauthenticated})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgBadRequest})
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update handles PUT /api/profiles/:id.
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.MsgUnauthenticated})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgBadRequest})
		return
	}

	var in profile.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgBadRequest})
		return
	}

	p, err := h.svc.Update(c.Request.Context(), id, userID, in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /api/profiles/:id. The profile's transactions are
// removed by the schema cascade.
func (h *ProfileHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.MsgUnauthenticated})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgBadRequest})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, userID); err != nil {
		common.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
