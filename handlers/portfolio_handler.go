package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ripplegate/services"
	"ripplegate/services/platform"
)

type PortfolioHandler struct {
	portfolio *services.PortfolioService
}

func NewPortfolioHandler(portfolio *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio}
}

// GetStats aggregates the user's tickets into portfolio totals.
func (h *PortfolioHandler) GetStats(e *core.RequestEvent) error {
	userID := e.Request.PathValue("userId")
	if userID == "" {
		return apis.NewBadRequestError("User ID required", nil)
	}

	stats, err := h.portfolio.Stats(e.Request.Context(), userID, time.Now())
	if err != nil {
		return apis.NewApiError(http.StatusBadGateway, platform.ErrorMessage(err, "Failed to load portfolio"), err)
	}
	return e.JSON(http.StatusOK, stats)
}
