package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ripplegate/services"
	"ripplegate/services/platform"
)

type ActivityHandler struct {
	activity *services.ActivityService
}

func NewActivityHandler(activity *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// GetActivity returns the recent purchase feed with display annotations.
func (h *ActivityHandler) GetActivity(e *core.RequestEvent) error {
	views, err := h.activity.Recent(e.Request.Context(), time.Now())
	if err != nil {
		return apis.NewApiError(http.StatusBadGateway, platform.ErrorMessage(err, "Failed to load activity"), err)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"activity": views,
	})
}
