package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ripplegate/services/platform"
)

type AuthHandler struct {
	platform *platform.Client
}

func NewAuthHandler(pc *platform.Client) *AuthHandler {
	return &AuthHandler{platform: pc}
}

// GetMe proxies the caller's session to the platform profile endpoint.
func (h *AuthHandler) GetMe(e *core.RequestEvent) error {
	token := strings.TrimPrefix(e.Request.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		return apis.NewUnauthorizedError("Missing session token", nil)
	}

	user, err := h.platform.WithSession(token).CurrentUser(e.Request.Context())
	if err != nil {
		return apis.NewUnauthorizedError(platform.ErrorMessage(err, "Session is not valid"), err)
	}
	return e.JSON(http.StatusOK, user)
}
