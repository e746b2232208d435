package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ripplegate/models"
	"ripplegate/services"
)

type EventHandler struct {
	app    *pocketbase.PocketBase
	events *services.EventService
}

func NewEventHandler(app *pocketbase.PocketBase, events *services.EventService) *EventHandler {
	return &EventHandler{app: app, events: events}
}

// GetEvents - current catalog snapshot
func (h *EventHandler) GetEvents(e *core.RequestEvent) error {
	events, err := h.events.List(e.Request.Context())
	if err != nil {
		return apis.NewApiError(http.StatusBadGateway, "Failed to load events", err)
	}
	return e.JSON(http.StatusOK, events)
}

// CreateEvent - register a new event upstream
func (h *EventHandler) CreateEvent(e *core.RequestEvent) error {
	var event models.Event
	if err := e.BindBody(&event); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if event.Title == "" || event.Date == "" {
		return apis.NewBadRequestError("Missing title or date", nil)
	}

	created, err := h.events.Create(e.Request.Context(), event)
	if err != nil {
		return apis.NewApiError(http.StatusBadGateway, "Failed to create event", err)
	}
	return e.JSON(http.StatusCreated, created)
}
