// Package handler exposes CSV import and export over HTTP.
package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brlucas/fluxo/internal/domain/common"
	"github.com/brlucas/fluxo/internal/domain/import/service"
	"github.com/brlucas/fluxo/internal/domain/import/tokenizer"
	"github.com/brlucas/fluxo/pkg/middleware"
	"github.com/brlucas/fluxo/pkg/observability"
)

// maxUploadBytes bounds the CSV body; 500 rows never legitimately need more.
const maxUploadBytes = 5 << 20

// ImportHandler handles the /api/import and /api/export endpoints.
type ImportHandler struct {
	svc    *service.ImportService
	logger *slog.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(svc *service.ImportService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{svc: svc, logger: logger}
}

// ImportCSV handles POST /api/import/csv. The request is multipart with a
// "file" part and a "profile_id" field. Validation failures come back as 422
// with the full error list so the user can fix the file in one pass.
func (h *ImportHandler) ImportCSV(c *gin.Context) {
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

	result, validationErrs, err := h.svc.ImportCSV(c.Request.Context(), userID, profileID, data)
	switch {
	case errors.Is(err, tokenizer.ErrEmptyFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgEmptyFile})
		return
	case errors.Is(err, service.ErrTooManyRows):
		c.JSON(http.StatusBadRequest, gin.H{"error": common.MsgTooManyRows})
		return
	case err != nil:
		h.logger.Error("csv import failed", "error", err, "user_id", userID)
		common.RespondError(c, err)
		return
	}

	if len(validationErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": validationErrs})
		return
	}

	observability.ImportedRowsTotal.WithLabelValues("csv").Add(float64(result.RowsImported))
	c.JSON(http.StatusOK, result)
}

// GetJob handles GET /api/import/jobs/:id.
func (h *ImportHandler) GetJob(c *gin.Context) {
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

	job, err := h.svc.GetJob(c.Request.Context(), id, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ExportCSV handles GET /api/export/csv?profile_id=...
func (h *ImportHandler) ExportCSV(c *gin.Context) {
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

	data, err := h.svc.ExportCSV(c.Request.Context(), userID, profileID)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="transacoes.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
