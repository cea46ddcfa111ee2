package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/money_ledger/internal/core/ports/services"
	"github.com/SscSPs/money_ledger/internal/dto"
	"github.com/SscSPs/money_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type transactionHandler struct {
	ledger portssvc.LedgerSvcFacade
}

func registerTransactionRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerSvcFacade) {
	h := &transactionHandler{ledger: ledger}

	txs := rg.Group("/transactions")
	{
		txs.POST("", h.createTransaction)
		txs.GET("", h.listTransactions)
		txs.GET("/:id", h.getTransaction)
		txs.DELETE("/:id", h.deleteTransaction)
		txs.POST("/:id/movements", h.addMovement)
		txs.PUT("/:id/categories/:categoryID", h.linkCategory)
		txs.DELETE("/:id/categories/:categoryID", h.unlinkCategory)
	}
}

// createTransaction godoc
// @Summary Open a transaction
// @Description Creates a transaction together with its first movement.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   movement body dto.CreateMovementRequest true "First movement"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	var req dto.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		respondError(c, logger, err, "Failed to create transaction")
		return
	}
	account, err := h.ledger.GetAccount(ctx, *req.AccountID)
	if err != nil {
		respondError(c, logger, err, "Failed to create transaction")
		return
	}

	tx, err := h.ledger.AddMovement(ctx, req.MovementType, req.Amount, date, req.Description, account)
	if err != nil {
		respondError(c, logger, err, "Failed to create transaction")
		return
	}
	logger.Info("Transaction created", slog.Int("transaction_id", tx.ID()), slog.Int("account_id", account.ID()))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(tx))
}

// listTransactions godoc
// @Summary List transactions
// @Tags transactions
// @Produce  json
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	txs := h.ledger.ListTransactions(c.Request.Context())
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{Transactions: dto.ToListTransactionResponse(txs)})
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tx, err := h.ledger.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(tx))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Removes the transaction and all of its movements.
// @Tags transactions
// @Param   id path int true "Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tx, err := h.ledger.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to delete transaction")
		return
	}
	h.ledger.RemoveTransaction(c.Request.Context(), tx)
	logger.Info("Transaction deleted", slog.Int("transaction_id", id))
	c.Status(http.StatusNoContent)
}

// addMovement godoc
// @Summary Add a movement to a transaction
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Param   movement body dto.CreateMovementRequest true "Movement"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Transaction or account not found"
// @Security BearerAuth
// @Router /transactions/{id}/movements [post]
func (h *transactionHandler) addMovement(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddMovement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		respondError(c, logger, err, "Failed to add movement")
		return
	}
	tx, err := h.ledger.GetTransaction(ctx, id)
	if err != nil {
		respondError(c, logger, err, "Failed to add movement")
		return
	}
	account, err := h.ledger.GetAccount(ctx, *req.AccountID)
	if err != nil {
		respondError(c, logger, err, "Failed to add movement")
		return
	}

	m, err := h.ledger.AddMovementToTransaction(ctx, req.MovementType, req.Amount, date, req.Description, tx, account)
	if err != nil {
		respondError(c, logger, err, "Failed to add movement")
		return
	}
	logger.Info("Movement added", slog.Int("transaction_id", id), slog.Int("movement_id", m.ID()))
	c.JSON(http.StatusCreated, dto.ToMovementResponse(m))
}

// linkCategory godoc
// @Summary Tag a transaction with a category
// @Description The category is also applied to every movement of the transaction.
// @Tags transactions
// @Produce  json
// @Param   id path int true "Transaction ID"
// @Param   categoryID path int true "Category ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction or category not found"
// @Security BearerAuth
// @Router /transactions/{id}/categories/{categoryID} [put]
func (h *transactionHandler) linkCategory(c *gin.Context) {
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
	tx, err := h.ledger.GetTransaction(ctx, id)
	if err != nil {
		respondError(c, logger, err, "Failed to tag transaction")
		return
	}
	category, err := h.ledger.GetCategory(ctx, categoryID)
	if err != nil {
		respondError(c, logger, err, "Failed to tag transaction")
		return
	}
	if err := h.ledger.LinkCategoryToTransaction(ctx, category, tx); err != nil {
		respondError(c, logger, err, "Failed to tag transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(tx))
}

// unlinkCategory godoc
// @Summary Remove a category from a transaction
// @Description The category is also removed from every movement of the transaction.
// @Tags transactions
// @Param   id path int true "Transaction ID"
// @Param   categoryID path int true "Category ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Transaction, category or tag not found"
// @Security BearerAuth
// @Router /transactions/{id}/categories/{categoryID} [delete]
func (h *transactionHandler) unlinkCategory(c *gin.Context) {
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
	tx, err := h.ledger.GetTransaction(ctx, id)
	if err != nil {
		respondError(c, logger, err, "Failed to untag transaction")
		return
	}
	category, err := h.ledger.GetCategory(ctx, categoryID)
	if err != nil {
		respondError(c, logger, err, "Failed to untag transaction")
		return
	}
	if !h.ledger.UnlinkCategoryFromTransaction(ctx, category, tx) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction is not tagged with this category"})
		return
	}
	c.Status(http.StatusNoContent)
}
