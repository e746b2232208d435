package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ripplegate/models"
	"ripplegate/services"
	"ripplegate/services/platform"
)

type PurchaseHandler struct {
	app       *pocketbase.PocketBase
	purchases *services.PurchaseService
}

func NewPurchaseHandler(app *pocketbase.PocketBase, purchases *services.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{app: app, purchases: purchases}
}

type buyRequest struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
}

// BuyTicket runs the full purchase flow and records the outcome in the
// purchase_log audit collection.
func (h *PurchaseHandler) BuyTicket(e *core.RequestEvent) error {
	var req buyRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.EventID == "" || req.UserID == "" {
		return apis.NewBadRequestError("Missing event_id or user_id", nil)
	}

	ticket, err := h.purchases.Buy(e.Request.Context(), req.UserID, req.EventID)
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		return apis.NewNotFoundError("Event not found", nil)
	case errors.Is(err, services.ErrSoldOut):
		h.logPurchase(req, nil, "sold_out", "No tickets available")
		return e.JSON(http.StatusBadRequest, map[string]any{
			"state": "sold_out",
			"error": "No tickets available for this event",
		})
	case errors.Is(err, services.ErrPurchaseInFlight):
		return e.JSON(http.StatusConflict, map[string]any{
			"state": "busy",
			"error": "A purchase for this event is already in progress",
		})
	case err != nil:
		msg := platform.ErrorMessage(err, "Ticket purchase failed")
		h.logPurchase(req, nil, "failure", msg)
		return e.JSON(http.StatusBadGateway, map[string]any{
			"state": "failed",
			"error": msg,
		})
	}

	h.logPurchase(req, ticket, "success", "Ticket purchased successfully")

	return e.JSON(http.StatusCreated, map[string]any{
		"state":   "settled",
		"message": "Ticket purchased successfully",
		"ticket":  ticket,
	})
}

// GetHistory returns the caller's most recent purchase_log entries.
func (h *PurchaseHandler) GetHistory(e *core.RequestEvent) error {
	userID := e.Request.PathValue("userId")
	if userID == "" {
		return apis.NewBadRequestError("User ID required", nil)
	}

	records := []*core.Record{}
	err := h.app.RecordQuery("purchase_log").
		AndWhere(dbx.HashExp{"user_id": userID}).
		OrderBy("created DESC").
		Limit(50).
		All(&records)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to load purchase history", err)
	}

	history := make([]map[string]any, 0, len(records))
	for _, record := range records {
		history = append(history, map[string]any{
			"id":        record.Id,
			"event_id":  record.GetString("event_id"),
			"ticket_id": record.GetString("ticket_id"),
			"outcome":   record.GetString("outcome"),
			"message":   record.GetString("message"),
			"price":     record.GetString("price"),
			"created":   record.GetDateTime("created"),
		})
	}
	return e.JSON(http.StatusOK, map[string]any{
		"user_id": userID,
		"history": history,
	})
}

// logPurchase is best effort; a failed audit write never fails the purchase.
func (h *PurchaseHandler) logPurchase(req buyRequest, ticket *models.Ticket, outcome, message string) {
	if h.app == nil {
		return
	}

	collection, err := h.app.FindCollectionByNameOrId("purchase_log")
	if err != nil {
		slog.Warn("purchase_log collection unavailable", "error", err)
		return
	}

	record := core.NewRecord(collection)
	record.Set("user_id", req.UserID)
	record.Set("event_id", req.EventID)
	record.Set("outcome", outcome)
	record.Set("message", message)
	if ticket != nil {
		record.Set("ticket_id", ticket.ID)
		record.Set("price", ticket.Price.String())
	}

	if err := h.app.Save(record); err != nil {
		slog.Warn("failed to persist purchase_log record", "error", err)
	}
}
