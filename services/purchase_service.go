package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"

	"ripplegate/models"
	"ripplegate/monitoring"
	"ripplegate/services/platform"
	"ripplegate/utils"
)

// activityChannel receives a notification for every settled purchase.
const activityChannel = "ticket-activity"

// PurchaseService drives one ticket purchase from request through settle.
// Single-flight per user+event is intrinsic: an in-process registry plus a
// Redis lock reject concurrent attempts with ErrPurchaseInFlight instead
// of relying on the caller disabling its trigger.
type PurchaseService struct {
	platform *platform.Client
	events   *EventService
	Redis    *redis.Client
	PubNub   *pubnub.PubNub
	lockTTL  time.Duration

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewPurchaseService(pc *platform.Client, events *EventService, redisClient *redis.Client, pn *pubnub.PubNub, lockTTL time.Duration) *PurchaseService {
	if lockTTL <= 0 {
		lockTTL = 2 * time.Minute
	}
	return &PurchaseService{
		platform: pc,
		events:   events,
		Redis:    redisClient,
		PubNub:   pn,
		lockTTL:  lockTTL,
		inflight: make(map[string]struct{}),
	}
}

func purchaseLockKey(userID, eventID string) string {
	return fmt.Sprintf("purchase:lock:%s:%s", userID, eventID)
}

// IsBusy reports whether a purchase for this user and event is in flight
// in this process.
func (s *PurchaseService) IsBusy(userID, eventID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inflight[purchaseLockKey(userID, eventID)]
	return busy
}

// Buy runs one purchase attempt. The sold-out check happens against the
// current catalog before any purchase network call; on success the catalog
// is re-fetched wholesale so the remaining count is read from the source,
// never decremented locally. On failure no refresh happens.
func (s *PurchaseService) Buy(ctx context.Context, userID, eventID string) (*models.Ticket, error) {
	start := time.Now()
	key := purchaseLockKey(userID, eventID)

	s.mu.Lock()
	if _, busy := s.inflight[key]; busy {
		s.mu.Unlock()
		return nil, ErrPurchaseInFlight
	}
	s.inflight[key] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
	}()

	// Same guard across gateway instances.
	locked, err := s.Redis.SetNX(ctx, key, "1", s.lockTTL).Result()
	if err != nil {
		slog.Warn("purchase lock unavailable, proceeding with local guard only", "key", key, "error", err)
	} else if !locked {
		return nil, ErrPurchaseInFlight
	} else {
		defer s.Redis.Del(context.WithoutCancel(ctx), key)
	}

	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		monitoring.TrackPurchase("failure", time.Since(start))
		return nil, err
	}
	if event.SoldOut() {
		monitoring.TrackPurchase("sold_out", time.Since(start))
		return nil, ErrSoldOut
	}

	ticket, err := s.platform.BuyTicket(ctx, eventID, userID)
	if err != nil {
		monitoring.TrackPurchase("failure", time.Since(start))
		return nil, err
	}

	// Remaining-ticket counts are authoritative only at the source; a
	// stale snapshot here could show an over-sell.
	if _, err := s.events.Refresh(ctx); err != nil {
		slog.Warn("catalog refresh after purchase failed", "event_id", eventID, "error", err)
	}

	s.publishActivity(userID, eventID, ticket)
	monitoring.TrackPurchase("success", time.Since(start))
	return ticket, nil
}

func (s *PurchaseService) publishActivity(userID, eventID string, ticket *models.Ticket) {
	if s.PubNub == nil {
		return
	}

	ref, _ := utils.GenerateCode(4)
	message := map[string]any{
		"type":      "ticket_purchased",
		"ref":       ref,
		"ticket_id": ticket.ID,
		"event_id":  eventID,
		"user_id":   userID,
		"status":    string(ticket.Status),
		"price":     ticket.Price.String(),
	}

	s.PubNub.Publish().
		Channel(activityChannel).
		Message(message).
		Execute()

	s.PubNub.Publish().
		Channel(fmt.Sprintf("user-%s", userID)).
		Message(message).
		Execute()
}
