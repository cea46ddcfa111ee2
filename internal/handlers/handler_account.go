package handlers

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/SscSPs/money_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/money_ledger/internal/core/ports/services"
	"github.com/SscSPs/money_ledger/internal/dto"
	"github.com/SscSPs/money_ledger/internal/middleware"
	"github.com/SscSPs/money_ledger/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	ledger portssvc.LedgerSvcFacade
}

func newAccountHandler(ledger portssvc.LedgerSvcFacade) *accountHandler {
	return &accountHandler{ledger: ledger}
}

// registerAccountRoutes registers routes related to accounts and returns the
// group so per-account sub-resources can hang off it.
func registerAccountRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerSvcFacade) *gin.RouterGroup {
	h := newAccountHandler(ledger)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:id", h.getAccount)
		accounts.PATCH("/:id", h.updateAccount)
		accounts.DELETE("/:id", h.deleteAccount)
		accounts.GET("/:id/balance", h.getAccountBalance)
		accounts.GET("/:id/movements", h.listAccountMovements)
	}
	return accounts
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates an account. When id is omitted the next free id is used.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Account id already taken"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	var (
		account *domain.Account
		err     error
	)
	if req.ID != nil {
		account, err = h.ledger.AddAccountWithID(c.Request.Context(), req.AccountType, req.Name, req.Description, *req.ID, req.OpeningBalance)
	} else {
		account, err = h.ledger.AddAccount(c.Request.Context(), req.AccountType, req.Name, req.Description, req.OpeningBalance)
	}
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created", slog.Int("account_id", account.ID()))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.ListAccountsResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	accounts := h.ledger.ListAccounts(c.Request.Context())
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   id path int true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	account, err := h.ledger.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Changes the name and/or description of an account.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   id path int true "Account ID"
// @Param   account body dto.UpdateAccountRequest true "Fields to change"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [patch]
func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	account, err := h.ledger.UpdateAccount(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, logger, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deleteAccount godoc
// @Summary Delete an account
// @Description Removes the account, its movements, and any transaction left empty.
// @Tags accounts
// @Param   id path int true "Account ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id} [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	account, err := h.ledger.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to delete account")
		return
	}
	if !h.ledger.RemoveAccount(c.Request.Context(), account) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	logger.Info("Account deleted", slog.Int("account_id", id))
	c.Status(http.StatusNoContent)
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Balance counting movements dated up to today, or up to asOf when given.
// @Tags accounts
// @Produce  json
// @Param   id path int true "Account ID"
// @Param   asOf query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/balance [get]
func (h *accountHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var params dto.AccountBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	account, err := h.ledger.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}

	res := dto.AccountBalanceResponse{AccountID: id, Balance: account.Balance()}
	if params.AsOf != "" {
		asOf, err := dto.ParseDate(params.AsOf)
		if err != nil {
			respondError(c, logger, err, "Failed to compute balance")
			return
		}
		res.Balance = account.BalanceAt(asOf)
		res.AsOf = params.AsOf
	}
	c.JSON(http.StatusOK, res)
}

// listAccountMovements godoc
// @Summary List the movements of an account
// @Description Pages through the account's movements ordered by date, then id.
// @Tags accounts
// @Produce  json
// @Param   id path int true "Account ID"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/movements [get]
func (h *accountHandler) listAccountMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	account, err := h.ledger.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}

	movements := account.Movements()
	if params.NextToken != nil && *params.NextToken != "" {
		cursor, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			logger.Warn("Bad pagination token", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		movements = slices.DeleteFunc(movements, func(m *domain.Movement) bool {
			return !cursor.Follows(m.Date(), m.ID())
		})
	}
	slices.SortFunc(movements, func(a, b *domain.Movement) int {
		if d := a.Date().Compare(b.Date()); d != 0 {
			return d
		}
		return a.ID() - b.ID()
	})

	res := dto.ListMovementsResponse{}
	if len(movements) > params.Limit {
		movements = movements[:params.Limit]
		last := movements[len(movements)-1]
		token := pagination.EncodeToken(last.Date(), last.ID())
		res.NextToken = &token
	}
	res.Movements = dto.ToListMovementResponse(movements)
	c.JSON(http.StatusOK, res)
}
