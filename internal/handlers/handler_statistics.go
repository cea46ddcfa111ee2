package handlers

import (
	"context"
	"net/http"

	"github.com/SscSPs/money_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/money_ledger/internal/core/ports/services"
	"github.com/SscSPs/money_ledger/internal/dto"
	"github.com/SscSPs/money_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type statisticsHandler struct {
	ledger   portssvc.LedgerReaderSvc
	stats    portssvc.StatisticsSvc
	extremes map[string]func(context.Context, *domain.Account) (*domain.Movement, error)
}

// registerStatisticsRoutes hangs the statistics views below /accounts/:id.
func registerStatisticsRoutes(accounts *gin.RouterGroup, ledger portssvc.LedgerReaderSvc, stats portssvc.StatisticsSvc) {
	h := &statisticsHandler{
		ledger: ledger,
		stats:  stats,
		extremes: map[string]func(context.Context, *domain.Account) (*domain.Movement, error){
			"max-credit": stats.MaxCredit,
			"min-credit": stats.MinCredit,
			"max-debit":  stats.MaxDebit,
			"min-debit":  stats.MinDebit,
		},
	}
	accounts.GET("/:id/statistics", h.getSummary)
	accounts.GET("/:id/statistics/:view", h.getView)
}

func (h *statisticsHandler) account(c *gin.Context) (*domain.Account, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return nil, false
	}
	account, err := h.ledger.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, "Failed to retrieve account")
		return nil, false
	}
	return account, true
}

// getSummary godoc
// @Summary Account statistics
// @Description Balance, per-category totals and the largest and smallest credit and debit.
// @Tags statistics
// @Produce  json
// @Param   id path int true "Account ID"
// @Success 200 {object} dto.AccountSummaryResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /accounts/{id}/statistics [get]
func (h *statisticsHandler) getSummary(c *gin.Context) {
	account, ok := h.account(c)
	if !ok {
		return
	}
	summary, err := h.stats.Summary(c.Request.Context(), account)
	if err != nil {
		respondError(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountSummaryResponse(summary))
}

// getView godoc
// @Summary One statistics view of an account
// @Description view is one of max-credit, min-credit, max-debit, min-debit and returns the matching movement.
// @Description view "categories" returns the per-category totals as an array of dto.CategoryTotalResponse instead.
// @Tags statistics
// @Produce  json
// @Param   id path int true "Account ID"
// @Param   view path string true "categories | max-credit | min-credit | max-debit | min-debit"
// @Success 200 {object} dto.MovementResponse
// @Failure 404 {object} map[string]string "Account, view or matching movement not found"
// @Security BearerAuth
// @Router /accounts/{id}/statistics/{view} [get]
func (h *statisticsHandler) getView(c *gin.Context) {
	view := c.Param("view")
	extreme, isExtreme := h.extremes[view]
	if view != "categories" && !isExtreme {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown statistics view " + view})
		return
	}
	account, ok := h.account(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	if !isExtreme {
		totals, err := h.stats.CategoryTotals(ctx, account)
		if err != nil {
			respondError(c, logger, err, "Failed to compute category totals")
			return
		}
		c.JSON(http.StatusOK, dto.ToCategoryTotalsResponse(totals))
		return
	}

	m, err := extreme(ctx, account)
	if err != nil {
		respondError(c, logger, err, "Failed to compute "+view)
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponse(m))
}
