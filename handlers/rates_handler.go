package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ripplegate/currency"
	"ripplegate/monitoring"
	"ripplegate/services"
)

type RatesHandler struct {
	rates *services.RateService
}

func NewRatesHandler(rates *services.RateService) *RatesHandler {
	return &RatesHandler{rates: rates}
}

// GetRates serves the cached rate set, fetching on first call. When the
// upstream is unreachable the fixed fallback table is served instead so
// conversion never disappears from the UI.
func (h *RatesHandler) GetRates(e *core.RequestEvent) error {
	set, err := h.rates.Rates(e.Request.Context())
	if err != nil {
		slog.Warn("serving fallback exchange rates", "error", err)
		monitoring.TrackRateFetch("fallback")
		return e.JSON(http.StatusOK, map[string]any{
			"source":     "fallback",
			"rates":      currency.FallbackRates(),
			"currencies": currency.Supported,
		})
	}

	return e.JSON(http.StatusOK, map[string]any{
		"source":     "live",
		"rates":      set.Rates,
		"fetched_at": set.FetchedAt.UTC().Format(time.RFC3339),
		"currencies": currency.Supported,
	})
}

// RefreshRates forces a new upstream fetch, replacing the cached set.
func (h *RatesHandler) RefreshRates(e *core.RequestEvent) error {
	set, err := h.rates.FetchRates(e.Request.Context())
	if err != nil {
		return e.JSON(http.StatusBadGateway, map[string]any{
			"error": "Rate refresh failed",
			"rates": currency.FallbackRates(),
		})
	}

	return e.JSON(http.StatusOK, map[string]any{
		"source":     "live",
		"rates":      set.Rates,
		"fetched_at": set.FetchedAt.UTC().Format(time.RFC3339),
	})
}

// ConvertAmount converts an XRP amount into one display currency.
func (h *RatesHandler) ConvertAmount(e *core.RequestEvent) error {
	code := e.Request.URL.Query().Get("currency")
	rawAmount := e.Request.URL.Query().Get("amount")
	if code == "" || rawAmount == "" {
		return apis.NewBadRequestError("amount and currency required", nil)
	}

	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil {
		return apis.NewBadRequestError("Invalid amount", err)
	}

	set, fetchErr := h.rates.Rates(e.Request.Context())
	rates := currency.FallbackRates()
	source := "fallback"
	if fetchErr == nil {
		rates = set.Rates
		source = "live"
	}

	rate, ok := rates[code]
	if !ok {
		return apis.NewBadRequestError("Unsupported currency", nil)
	}

	converted := currency.Convert(amount, rate)
	return e.JSON(http.StatusOK, map[string]any{
		"amount":    amount,
		"currency":  code,
		"value":     converted,
		"formatted": currency.Format(converted, code),
		"source":    source,
	})
}
