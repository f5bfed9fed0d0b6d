// Package handler exposes transaction CRUD and the profile summary over HTTP.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brlucas/fluxo/internal/domain/common"
	"github.com/brlucas/fluxo/internal/domain/transaction"
	"github.com/brlucas/fluxo/pkg/middleware"
)

// TransactionHandler handles the /api/transactions endpoints.
type TransactionHandler struct {
	svc    *transaction.Service
	logger *slog.Logger
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(svc *transaction.Service, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{svc: svc, logger: logger}
}

// Create handles POST /api/transactions.
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.MsgUnauthenticated})
		return
	}

	var in transaction.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgBadRequest})
		return
	}

	t, err := h.svc.Create(c.Request.Context(), userID, in)
	if err != nil {
		h.logger.Warn("create transaction failed", "error", err, "user_id", userID)
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// List handles GET /api/transactions?profile_id=...&from=...&to=...
// The date bounds are optional, ISO formatted and inclusive.
func (h *TransactionHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.MsgUnauthenticated})
		return
	}

	profileID, err := uuid.Parse(c.Query("profile_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgBadRequest})
		return
	}

	filter := transaction.ListFilter{From: c.Query("from"), To: c.Query("to")}
	list, err := h.svc.ListByProfile(c.Request.Context(), profileID, userID, filter)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get handles GET /api/transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
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

	t, err := h.svc.Get(c.Request.Context(), id, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Update handles PUT /api/transactions/:id.
func (h *TransactionHandler) Update(c *gin.Context) {
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

	var in transaction.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgBadRequest})
		return
	}

	t, err := h.svc.Update(c.Request.Context(), id, userID, in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /api/transactions/:id.
func (h *TransactionHandler) Delete(c *gin.Context) {
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

// Summary handles GET /api/profiles/:id/summary.
func (h *TransactionHandler) Summary(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.MsgUnauthenticated})
		return
	}

	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgBadRequest})
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), profileID, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
