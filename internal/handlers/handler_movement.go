package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/money_ledger/internal/core/ports/services"
	"github.com/SscSPs/money_ledger/internal/dto"
	"github.com/SscSPs/money_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type movementHandler struct {
	ledger portssvc.LedgerSvcFacade
}

func registerMovementRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerSvcFacade) {
	h := &movementHandler{ledger: ledger}

	movements := rg.Group("/movements")
	{
		movements.GET("", h.listMovements)
		movements.GET("/:id", h.getMovement)
		movements.PATCH("/:id", h.updateMovement)
		movements.DELETE("/:id", h.deleteMovement)
		movements.PUT("/:id/categories/:categoryID", h.linkCategory)
		movements.DELETE("/:id/categories/:categoryID", h.unlinkCategory)
	}
}

// listMovements godoc
// @Summary List every movement
// @Description Movements of all transactions, ordered by transaction then movement id.
// @Tags movements
// @Produce  json
// @Success 200 {object} dto.ListMovementsResponse
// @Security BearerAuth
// @Router /movements [get]
func (h *movementHandler) listMovements(c *gin.Context) {
	movements := h.ledger.ListMovements(c.Request.Context())
	c.JSON(http.StatusOK, dto.ListMovementsResponse{Movements: dto.ToListMovementResponse(movements)})
}

// getMovement godoc
// @Summary Get a movement by ID
// @Tags movements
// @Produce  json
// @Param   id path int true "Movement ID"
// @Success 200 {object} dto.MovementResponse
// @Failure 404 {object} map[string]string "Movement not found"
// @Security BearerAuth
// @Router /movements/{id} [get]
func (h *movementHandler) getMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := h.ledger.GetMovement(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve movement")
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponse(m))
}

// updateMovement godoc
// @Summary Update a movement
// @Description Changes amount, date and/or description. Negative amounts are rejected.
// @Tags movements
// @Accept  json
// @Produce  json
// @Param   id path int true "Movement ID"
// @Param   movement body dto.UpdateMovementRequest true "Fields to change"
// @Success 200 {object} dto.MovementResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Movement not found"
// @Security BearerAuth
// @Router /movements/{id} [patch]
func (h *movementHandler) updateMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	m, err := h.ledger.UpdateMovement(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update movement")
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponse(m))
}

// deleteMovement godoc
// @Summary Delete a movement
// @Description Removes the movement from its account and transaction. A transaction left empty is dropped.
// @Tags movements
// @Param   id path int true "Movement ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Movement not found"
// @Security BearerAuth
// @Router /movements/{id} [delete]
func (h *movementHandler) deleteMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := h.ledger.GetMovement(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to delete movement")
		return
	}
	if !h.ledger.RemoveMovement(c.Request.Context(), m) {
		logger.Warn("Movement was only partially registered", slog.Int("movement_id", id))
	}
	logger.Info("Movement deleted", slog.Int("movement_id", id))
	c.Status(http.StatusNoContent)
}

// linkCategory godoc
// @Summary Tag a movement with a category
// @Tags movements
// @Produce  json
// @Param   id path int true "Movement ID"
// @Param   categoryID path int true "Category ID"
// @Success 200 {object} dto.MovementResponse
// @Failure 404 {object} map[string]string "Movement or category not found"
// @Security BearerAuth
// @Router /movements/{id}/categories/{categoryID} [put]
func (h *movementHandler) linkCategory(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	categoryID, ok := pathID(c, "categoryID")
	if !ok {
		return
	}
	m, err := h.ledger.GetMovement(ctx, id)
	if err != nil {
		respondError(c, logger, err, "Failed to tag movement")
		return
	}
	category, err := h.ledger.GetCategory(ctx, categoryID)
	if err != nil {
		respondError(c, logger, err, "Failed to tag movement")
		return
	}
	if err := h.ledger.LinkCategoryToMovement(ctx, category, m); err != nil {
		respondError(c, logger, err, "Failed to tag movement")
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponse(m))
}

// unlinkCategory godoc
// @Summary Remove a category from a movement
// @Tags movements
// @Param   id path int true "Movement ID"
// @Param   categoryID path int true "Category ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Movement, category or tag not found"
// @Security BearerAuth
// @Router /movements/{id}/categories/{categoryID} [delete]
func (h *movementHandler) unlinkCategory(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	categoryID, ok := pathID(c, "categoryID")
	if !ok {
		return
	}
	m, err := h.ledger.GetMovement(ctx, id)
	if err != nil {
		respondError(c, logger, err, "Failed to untag movement")
		return
	}
	category, err := h.ledger.GetCategory(ctx, categoryID)
	if err != nil {
		respondError(c, logger, err, "Failed to untag movement")
		return
	}
	if !h.ledger.UnlinkCategoryFromMovement(ctx, category, m) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movement is not tagged with this category"})
		return
	}
	c.Status(http.StatusNoContent)
}
