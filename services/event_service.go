package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ripplegate/models"
	"ripplegate/services/platform"
)

// catalogTTL bounds how old a snapshot may be before a read re-fetches
// it. Remaining-ticket counts are authoritative only at the platform, so
// a decision based on an expired snapshot is never allowed.
const catalogTTL = 30 * time.Second

// EventService keeps a read-through snapshot of the event catalog. The
// snapshot is replaced wholesale by Refresh and never mutated in place.
type EventService struct {
	platform *platform.Client
	ttl      time.Duration

	mu        sync.RWMutex
	catalog   []models.Event
	fetchedAt time.Time
}

func NewEventService(pc *platform.Client) *EventService {
	return &EventService{platform: pc, ttl: catalogTTL}
}

// List returns the cached catalog, fetching it on first use and
// re-fetching once the snapshot outlives its TTL. When a refresh fails
// and a previous snapshot exists, the stale snapshot is served so the
// catalog does not disappear during a platform outage.
func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	s.mu.RLock()
	if s.catalog != nil && time.Since(s.fetchedAt) < s.ttl {
		events := make([]models.Event, len(s.catalog))
		copy(events, s.catalog)
		s.mu.RUnlock()
		return events, nil
	}
	stale := s.catalog != nil
	s.mu.RUnlock()

	events, err := s.Refresh(ctx)
	if err != nil {
		if !stale {
			return nil, err
		}
		slog.Warn("catalog refresh failed, serving stale snapshot", "error", err)
		s.mu.RLock()
		events = make([]models.Event, len(s.catalog))
		copy(events, s.catalog)
		s.mu.RUnlock()
		return events, nil
	}
	return events, nil
}

// Refresh re-reads the catalog from the platform and swaps the snapshot.
func (s *EventService) Refresh(ctx context.Context) ([]models.Event, error) {
	events, err := s.platform.Events(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.catalog = events
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	out := make([]models.Event, len(events))
	copy(out, events)
	return out, nil
}

// Get finds one event in the current catalog snapshot.
func (s *EventService) Get(ctx context.Context, eventID string) (*models.Event, error) {
	events, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].ID == eventID {
			return &events[i], nil
		}
	}
	return nil, ErrEventNotFound
}

// Create registers a new event and refreshes the snapshot so the catalog
// immediately reflects it.
func (s *EventService) Create(ctx context.Context, event models.Event) (*models.Event, error) {
	created, err := s.platform.CreateEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	if _, err := s.Refresh(ctx); err != nil {
		// The event exists upstream; a stale snapshot heals on next read.
		return created, nil
	}
	return created, nil
}

// FetchedAt reports when the current snapshot was taken.
func (s *EventService) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}
