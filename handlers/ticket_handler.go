package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ripplegate/services"
	"ripplegate/services/platform"
)

type TicketHandler struct {
	app      *pocketbase.PocketBase
	platform *platform.Client
	verifier *services.VerificationService
}

func NewTicketHandler(app *pocketbase.PocketBase, pc *platform.Client, verifier *services.VerificationService) *TicketHandler {
	return &TicketHandler{app: app, platform: pc, verifier: verifier}
}

// GetUserTickets returns all tickets owned by the given user.
func (h *TicketHandler) GetUserTickets(e *core.RequestEvent) error {
	userID := e.Request.PathValue("userId")
	if userID == "" {
		return apis.NewBadRequestError("User ID required", nil)
	}

	tickets, err := h.platform.UserTickets(e.Request.Context(), userID)
	if err != nil {
		return apis.NewApiError(http.StatusBadGateway, platform.ErrorMessage(err, "Failed to load tickets"), err)
	}
	return e.JSON(http.StatusOK, tickets)
}

// GetWalletNFTs lists the on-ledger tokens held by a wallet address.
func (h *TicketHandler) GetWalletNFTs(e *core.RequestEvent) error {
	walletAddress := e.Request.PathValue("walletAddress")
	if walletAddress == "" {
		return apis.NewBadRequestError("Wallet address required", nil)
	}

	nfts, err := h.platform.WalletNFTs(e.Request.Context(), walletAddress)
	if err != nil {
		return apis.NewApiError(http.StatusBadGateway, platform.ErrorMessage(err, "Failed to fetch NFTs"), err)
	}
	return e.JSON(http.StatusOK, map[string]any{
		"success": true,
		"nfts":    nfts,
	})
}

// VerifyTicket checks on-ledger ownership for a confirmed ticket. Tickets
// without a minted NFT are rejected before any ledger call is made.
func (h *TicketHandler) VerifyTicket(e *core.RequestEvent) error {
	ticketID := e.Request.PathValue("ticketId")
	userID := e.Request.URL.Query().Get("user_id")
	if ticketID == "" || userID == "" {
		return apis.NewBadRequestError("Ticket ID and user_id required", nil)
	}

	ctx := e.Request.Context()
	tickets, err := h.platform.UserTickets(ctx, userID)
	if err != nil {
		return apis.NewApiError(http.StatusBadGateway, platform.ErrorMessage(err, "Failed to load tickets"), err)
	}

	for _, ticket := range tickets {
		if ticket.ID != ticketID {
			continue
		}

		result, err := h.verifier.Verify(ctx, ticket)
		if errors.Is(err, services.ErrNotVerifiable) {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"ticket_id": ticketID,
				"verified":  false,
				"error":     "Ticket is not eligible for verification",
			})
		}
		if err != nil {
			return apis.NewApiError(http.StatusBadGateway, "Verification failed", err)
		}
		return e.JSON(http.StatusOK, result)
	}

	return apis.NewNotFoundError("Ticket not found", nil)
}
