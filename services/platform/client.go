// Package platform is the typed HTTP client for the RippleGate ticketing
// backend. It performs no retries; a failed call surfaces immediately so
// callers can make a visible fallback or advisory decision.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ripplegate/models"
)

type Client struct {
	// baseURL is the base url of the platform backend.
	baseURL string

	// sessionToken, when set, is forwarded as the credentialed session
	// cookie on every request.
	sessionToken string

	// hc is the http client.
	hc *http.Client
}

// NewClient creates a platform client with a request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		hc: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithSession returns a copy of the client carrying a session credential.
func (c *Client) WithSession(token string) *Client {
	clone := *c
	clone.sessionToken = token
	return &clone
}

// APIError is a non-2xx platform response with its advisory message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("platform: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("platform: unexpected status %d", e.StatusCode)
}

// ErrorMessage extracts the advisory message from a platform error,
// returning the fallback when the payload carried none.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Events fetches the full event catalog.
func (c *Client) Events(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := c.do(ctx, http.MethodGet, "/api/events", nil, &events); err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	return events, nil
}

// CreateEvent registers a new event in the catalog.
func (c *Client) CreateEvent(ctx context.Context, event models.Event) (*models.Event, error) {
	var created models.Event
	if err := c.do(ctx, http.MethodPost, "/api/events", event, &created); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &created, nil
}

type buyRequest struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
}

type buyResponse struct {
	Message string         `json:"message"`
	Ticket  *models.Ticket `json:"ticket"`
}

// BuyTicket submits a purchase request. The returned ticket's status may be
// pending or confirmed depending on backend mint timing.
func (c *Client) BuyTicket(ctx context.Context, eventID, userID string) (*models.Ticket, error) {
	var resp buyResponse
	if err := c.do(ctx, http.MethodPost, "/api/tickets/buy", buyRequest{EventID: eventID, UserID: userID}, &resp); err != nil {
		return nil, err
	}
	if resp.Ticket == nil {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "purchase response carried no ticket"}
	}
	return resp.Ticket, nil
}

// UserTickets fetches all tickets owned by a user, newest first.
func (c *Client) UserTickets(ctx context.Context, userID string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	if err := c.do(ctx, http.MethodGet, "/api/tickets/user/"+userID, nil, &tickets); err != nil {
		return nil, fmt.Errorf("fetch user tickets: %w", err)
	}
	return tickets, nil
}

type verifyResponse struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason,omitempty"`
	NFTID    string `json:"nft_id,omitempty"`
}

// VerifyTicket asks the backend to prove on-ledger ownership of a ticket.
func (c *Client) VerifyTicket(ctx context.Context, ticketID string) (*models.VerificationResult, error) {
	var resp verifyResponse
	if err := c.do(ctx, http.MethodGet, "/api/tickets/verify/"+ticketID, nil, &resp); err != nil {
		return nil, err
	}
	return &models.VerificationResult{
		TicketID: ticketID,
		Verified: resp.Verified,
		Message:  resp.Reason,
		NFTID:    resp.NFTID,
	}, nil
}

type activityResponse struct {
	Success  bool                    `json:"success"`
	Activity []models.ActivityRecord `json:"activity"`
	Error    string                  `json:"error,omitempty"`
}

// RecentActivity fetches the platform-wide purchase activity log.
func (c *Client) RecentActivity(ctx context.Context) ([]models.ActivityRecord, error) {
	var resp activityResponse
	if err := c.do(ctx, http.MethodGet, "/api/tickets/activity", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch activity: %w", err)
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "activity feed unavailable"
		}
		return nil, &APIError{StatusCode: http.StatusOK, Message: msg}
	}
	return resp.Activity, nil
}

type nftsResponse struct {
	Success bool         `json:"success"`
	NFTs    []models.NFT `json:"nfts"`
	Error   string       `json:"error,omitempty"`
}

// WalletNFTs lists the on-ledger tokens held by a wallet address.
func (c *Client) WalletNFTs(ctx context.Context, walletAddress string) ([]models.NFT, error) {
	var resp nftsResponse
	if err := c.do(ctx, http.MethodGet, "/api/tickets/nfts/"+walletAddress, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch wallet nfts: %w", err)
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "Failed to fetch NFTs"
		}
		return nil, &APIError{StatusCode: http.StatusOK, Message: msg}
	}
	return resp.NFTs, nil
}

// CurrentUser resolves the identity behind the session credential.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	return &user, nil
}

// do performs one JSON round trip. Non-2xx responses are decoded into an
// APIError carrying the backend's advisory message when present.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: c.sessionToken})
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("platform unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			if payload.Error != "" {
				apiErr.Message = payload.Error
			} else {
				apiErr.Message = payload.Message
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
