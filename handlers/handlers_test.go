package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/pocketbase/pocketbase/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ripplegate/models"
	"ripplegate/services"
	"ripplegate/services/platform"
)

func newRequestEvent(method, target, body string) (*core.RequestEvent, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()

	event := &core.RequestEvent{}
	event.Request = req
	event.Response = rec
	return event, rec
}

func TestPurchaseHandler_BuyTicket_MissingFields(t *testing.T) {
	handler := &PurchaseHandler{}

	event, _ := newRequestEvent(http.MethodPost, "/api/tickets/buy", `{"event_id":"e1"}`)
	assert.Error(t, handler.BuyTicket(event))

	event, _ = newRequestEvent(http.MethodPost, "/api/tickets/buy", `{"user_id":"u1"}`)
	assert.Error(t, handler.BuyTicket(event))
}

func TestPurchaseHandler_BuyTicket_SoldOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Event{{ID: "e1", Title: "Ledger Live", Tickets: 0}})
	}))
	defer server.Close()

	db, mock := redismock.NewClientMock()
	pc := platform.NewClient(server.URL, time.Second)
	purchases := services.NewPurchaseService(pc, services.NewEventService(pc), db, nil, time.Minute)
	handler := NewPurchaseHandler(nil, purchases)

	mock.ExpectSetNX("purchase:lock:u1:e1", "1", time.Minute).SetVal(true)
	mock.ExpectDel("purchase:lock:u1:e1").SetVal(1)

	event, rec := newRequestEvent(http.MethodPost, "/api/tickets/buy", `{"event_id":"e1","user_id":"u1"}`)
	require.NoError(t, handler.BuyTicket(event))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "sold_out", payload["state"])
}

func TestEventHandler_CreateEvent_MissingTitle(t *testing.T) {
	handler := &EventHandler{}

	event, _ := newRequestEvent(http.MethodPost, "/api/events", `{"date":"2026-09-01"}`)
	assert.Error(t, handler.CreateEvent(event))
}

func TestEventHandler_GetEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Event{{ID: "e1", Title: "Ledger Live", Tickets: 3}})
	}))
	defer server.Close()

	pc := platform.NewClient(server.URL, time.Second)
	handler := NewEventHandler(nil, services.NewEventService(pc))

	event, rec := newRequestEvent(http.MethodGet, "/api/events", "")
	require.NoError(t, handler.GetEvents(event))
	assert.Equal(t, http.StatusOK, rec.Code)

	var events []models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Ledger Live", events[0].Title)
}

func TestTicketHandler_GetUserTickets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tickets/user/u1", r.URL.Path)
		json.NewEncoder(w).Encode([]models.Ticket{{ID: "t1", Status: models.StatusConfirmed}})
	}))
	defer server.Close()

	pc := platform.NewClient(server.URL, time.Second)
	handler := NewTicketHandler(nil, pc, services.NewVerificationService(pc))

	event, rec := newRequestEvent(http.MethodGet, "/api/tickets/user/u1", "")
	event.Request.SetPathValue("userId", "u1")

	require.NoError(t, handler.GetUserTickets(event))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTicketHandler_GetWalletNFTs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tickets/nfts/rWalletAddr", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"nfts":    []models.NFT{{NFTokenID: "000861A8...", Issuer: "rIssuer"}},
		})
	}))
	defer server.Close()

	pc := platform.NewClient(server.URL, time.Second)
	handler := NewTicketHandler(nil, pc, services.NewVerificationService(pc))

	event, rec := newRequestEvent(http.MethodGet, "/api/tickets/nfts/rWalletAddr", "")
	event.Request.SetPathValue("walletAddress", "rWalletAddr")

	require.NoError(t, handler.GetWalletNFTs(event))
	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Success bool         `json:"success"`
		NFTs    []models.NFT `json:"nfts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload.Success)
	require.Len(t, payload.NFTs, 1)
	assert.Equal(t, "rIssuer", payload.NFTs[0].Issuer)
}

func TestTicketHandler_GetWalletNFTs_MissingAddress(t *testing.T) {
	handler := &TicketHandler{}
	event, _ := newRequestEvent(http.MethodGet, "/api/tickets/nfts/", "")
	assert.Error(t, handler.GetWalletNFTs(event))
}

func TestTicketHandler_VerifyTicket_MissingParams(t *testing.T) {
	handler := &TicketHandler{}

	event, _ := newRequestEvent(http.MethodGet, "/api/tickets/t1/verify", "")
	event.Request.SetPathValue("ticketId", "t1")
	assert.Error(t, handler.VerifyTicket(event))
}

func TestTicketHandler_VerifyTicket_IneligibleTicket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Ticket{{ID: "t1", Status: models.StatusPending}})
	}))
	defer server.Close()

	pc := platform.NewClient(server.URL, time.Second)
	handler := NewTicketHandler(nil, pc, services.NewVerificationService(pc))

	event, rec := newRequestEvent(http.MethodGet, "/api/tickets/t1/verify?user_id=u1", "")
	event.Request.SetPathValue("ticketId", "t1")

	require.NoError(t, handler.VerifyTicket(event))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, false, payload["verified"])
}

func TestTicketHandler_VerifyTicket_UnknownTicket(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Ticket{})
	}))
	defer server.Close()

	pc := platform.NewClient(server.URL, time.Second)
	handler := NewTicketHandler(nil, pc, services.NewVerificationService(pc))

	event, _ := newRequestEvent(http.MethodGet, "/api/tickets/t9/verify?user_id=u1", "")
	event.Request.SetPathValue("ticketId", "t9")

	assert.Error(t, handler.VerifyTicket(event))
}

func TestPortfolioHandler_GetStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Ticket{
			{ID: "t1", Price: "10", Status: models.StatusConfirmed},
			{ID: "t2", Price: "5", Status: models.StatusPending},
		})
	}))
	defer server.Close()

	pc := platform.NewClient(server.URL, time.Second)
	handler := NewPortfolioHandler(services.NewPortfolioService(pc))

	event, rec := newRequestEvent(http.MethodGet, "/api/portfolio/u1", "")
	event.Request.SetPathValue("userId", "u1")

	require.NoError(t, handler.GetStats(event))
	assert.Equal(t, http.StatusOK, rec.Code)

	var stats models.PortfolioStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalTickets)
	assert.Equal(t, 15.0, stats.TotalSpent)
	assert.Equal(t, 1, stats.ConfirmedTickets)
}

func TestRatesHandler_GetRates_ServesFallbackWhenFeedDown(t *testing.T) {
	rates := services.NewRateService("http://127.0.0.1:1", 200*time.Millisecond)
	handler := NewRatesHandler(rates)

	event, rec := newRequestEvent(http.MethodGet, "/api/rates", "")
	require.NoError(t, handler.GetRates(event))
	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Source string             `json:"source"`
		Rates  map[string]float64 `json:"rates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "fallback", payload.Source)
	assert.Equal(t, 0.48, payload.Rates["usd"])
	assert.Len(t, payload.Rates, 10)
}

func TestRatesHandler_ConvertAmount(t *testing.T) {
	rates := services.NewRateService("http://127.0.0.1:1", 200*time.Millisecond)
	handler := NewRatesHandler(rates)

	event, rec := newRequestEvent(http.MethodGet, "/api/rates/convert?amount=25&currency=usd", "")
	require.NoError(t, handler.ConvertAmount(event))
	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Formatted string  `json:"formatted"`
		Value     float64 `json:"value"`
		Source    string  `json:"source"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "$12.00", payload.Formatted)
	assert.Equal(t, 12.0, payload.Value)
	assert.Equal(t, "fallback", payload.Source)
}

func TestRatesHandler_ConvertAmount_Validation(t *testing.T) {
	handler := NewRatesHandler(services.NewRateService("http://127.0.0.1:1", 200*time.Millisecond))

	event, _ := newRequestEvent(http.MethodGet, "/api/rates/convert?amount=25", "")
	assert.Error(t, handler.ConvertAmount(event))

	event, _ = newRequestEvent(http.MethodGet, "/api/rates/convert?amount=lots&currency=usd", "")
	assert.Error(t, handler.ConvertAmount(event))

	event, _ = newRequestEvent(http.MethodGet, "/api/rates/convert?amount=25&currency=btc", "")
	assert.Error(t, handler.ConvertAmount(event))
}

func TestActivityHandler_GetActivity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"activity": []models.ActivityRecord{
				{ID: "a1", UserName: "alice", Status: models.StatusConfirmed, CreatedAt: time.Now().Add(-time.Hour)},
			},
		})
	}))
	defer server.Close()

	pc := platform.NewClient(server.URL, time.Second)
	handler := NewActivityHandler(services.NewActivityService(pc))

	event, rec := newRequestEvent(http.MethodGet, "/api/activity", "")
	require.NoError(t, handler.GetActivity(event))
	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Success  bool                  `json:"success"`
		Activity []models.ActivityView `json:"activity"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload.Success)
	require.Len(t, payload.Activity, 1)
	assert.Equal(t, "1 hour ago", payload.Activity[0].RelativeTime)
	assert.Equal(t, models.ClassSuccess, payload.Activity[0].StatusClass)
}

func TestAuthHandler_GetMe_MissingToken(t *testing.T) {
	handler := NewAuthHandler(platform.NewClient("http://127.0.0.1:1", time.Second))

	event, _ := newRequestEvent(http.MethodGet, "/api/auth/me", "")
	assert.Error(t, handler.GetMe(event))
}
