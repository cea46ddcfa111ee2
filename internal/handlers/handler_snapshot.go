package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/money_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/money_ledger/internal/core/ports/services"
	"github.com/SscSPs/money_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type snapshotHandler struct {
	snapshot portssvc.SnapshotSvc
}

func registerSnapshotRoutes(rg *gin.RouterGroup, snapshot portssvc.SnapshotSvc) {
	h := &snapshotHandler{snapshot: snapshot}

	snapshots := rg.Group("/snapshot")
	{
		snapshots.POST("/export", h.export)
		snapshots.POST("/import", h.importLedger)
	}
}

func (h *snapshotHandler) available(c *gin.Context) bool {
	if h.snapshot == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No storage backend configured"})
		return false
	}
	return true
}

// export godoc
// @Summary Save the ledger
// @Description Writes the whole ledger to the configured storage backend.
// @Tags snapshot
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Ledger holds text the backend cannot store"
// @Failure 500 {object} map[string]string "Storage failure"
// @Failure 503 {object} map[string]string "No storage backend configured"
// @Security BearerAuth
// @Router /snapshot/export [post]
func (h *snapshotHandler) export(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if !h.available(c) {
		return
	}
	if err := h.snapshot.Export(c.Request.Context()); err != nil {
		respondError(c, logger, err, "Failed to export ledger")
		return
	}
	logger.Info("Ledger exported", slog.String("by", subjectOf(c)))
	c.Status(http.StatusNoContent)
}

// importLedger godoc
// @Summary Load the ledger
// @Description Replaces the in-memory ledger with the backend's content. On failure the current ledger is kept.
// @Tags snapshot
// @Success 204 "No Content"
// @Failure 422 {object} map[string]string "Stored data is malformed or inconsistent"
// @Failure 500 {object} map[string]string "Storage failure"
// @Failure 503 {object} map[string]string "No storage backend configured"
// @Security BearerAuth
// @Router /snapshot/import [post]
func (h *snapshotHandler) importLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if !h.available(c) {
		return
	}
	err := h.snapshot.Import(c.Request.Context())
	switch {
	case err == nil:
		logger.Info("Ledger imported", slog.String("by", subjectOf(c)))
		c.Status(http.StatusNoContent)
	case errors.Is(err, apperrors.ErrIO):
		respondError(c, logger, err, "Failed to import ledger")
	default:
		// anything but an I/O failure means the stored data itself is bad
		logger.Warn("Rejected stored ledger", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	}
}

// subjectOf names the caller for audit logs; "anonymous" when auth is off.
func subjectOf(c *gin.Context) string {
	if subject, ok := middleware.GetSubjectFromContext(c); ok {
		return subject
	}
	return "anonymous"
}
