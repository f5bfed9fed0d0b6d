// Package handler exposes document staging and AI extraction over HTTP.
package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brlucas/fluxo/internal/domain/common"
	"github.com/brlucas/fluxo/internal/domain/extraction"
	"github.com/brlucas/fluxo/pkg/middleware"
	"github.com/brlucas/fluxo/pkg/observability"
)

// maxUploadBytes bounds staged documents (statement PDFs, receipt photos).
const maxUploadBytes = 20 << 20

var allowedTypes = map[string]bool{
	"application/pdf": true,
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
}

// ExtractionHandler handles the /api/uploads and /api/extract endpoints.
type ExtractionHandler struct {
	svc    *extraction.Service
	logger *slog.Logger
}

// NewExtractionHandler creates a new extraction handler.
func NewExtractionHandler(svc *extraction.Service, logger *slog.Logger) *ExtractionHandler {
	return &ExtractionHandler{svc: svc, logger: logger}
}

// Upload handles POST /api/uploads: multipart with "file" and "profile_id",
// staging the document as a pending file record.
func (h *ExtractionHandler) Upload(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.MsgUnauthenticated})
		return
	}

	profileID, err := uuid.Parse(c.PostForm("profile_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgBadRequest})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgBadRequest})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgBadRequest})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgBadRequest})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgBadRequest})
		return
	}

	staged, err := h.svc.StageFile(c.Request.Context(), userID, profileID, fileHeader.Filename, contentType, data)
	if err != nil {
		h.logger.Error("failed to stage upload", "error", err, "user_id", userID)
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, staged)
}

// List handles GET /api/uploads?profile_id=...
func (h *ExtractionHandler) List(c *gin.Context) {
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

	files, err := h.svc.ListFiles(c.Request.Context(), profileID, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

type extractRequest struct {
	FileID    uuid.UUID `json:"file_id" binding:"required"`
	ProfileID uuid.UUID `json:"profile_id" binding:"required"`
}

// Extract handles POST /api/extract. The owning user comes from the bearer
// token, never the body. Upstream AI failures are distinguished by status
// because the remediation differs: 429 wait-and-retry, 402 top-up, 500
// generic failure.
func (h *ExtractionHandler) Extract(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.MsgUnauthenticated})
		return
	}

	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgBadRequest})
		return
	}

	count, err := h.svc.Extract(c.Request.Context(), userID, req.FileID, req.ProfileID)
	if err != nil {
		h.logger.Error("extraction failed", "error", err, "user_id", userID, "file_id", req.FileID)
		switch {
		case errors.Is(err, extraction.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": common.MsgExtractRateLimit})
		case errors.Is(err, extraction.ErrNoCredits):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": common.MsgExtractNoCredits})
		case errors.Is(err, extraction.ErrExtraction):
			c.JSON(http.StatusInternalServerError, gin.H{"error": common.MsgExtractFailed})
		case errors.Is(err, common.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": common.MsgFileAlreadyQueued})
		default:
			common.RespondError(c, err)
		}
		return
	}

	observability.ImportedRowsTotal.WithLabelValues("extraction").Add(float64(count))
	c.JSON(http.StatusOK, gin.H{"success": true, "transactions_count": count})
}
