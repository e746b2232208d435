package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"ripplegate/models"
	"ripplegate/services/platform"
)

// Aggregate reduces a ticket collection into portfolio statistics at an
// explicit evaluation instant. It is total and side-effect-free: malformed
// prices are zero-filled rather than poisoning the sum, and tickets whose
// event date is missing or unparseable are excluded from the upcoming
// count, not guessed at.
func Aggregate(tickets []models.Ticket, now time.Time) models.PortfolioStats {
	stats := models.PortfolioStats{TotalTickets: len(tickets)}

	spent := decimal.Zero
	for _, ticket := range tickets {
		if price, err := decimal.NewFromString(ticket.Price.String()); err == nil {
			spent = spent.Add(price)
		}

		if ticket.Status == models.StatusConfirmed {
			stats.ConfirmedTickets++
		}

		if start, ok := ticket.Event.StartsAt(); ok && start.After(now) {
			stats.UpcomingEvents++
		}
	}

	stats.TotalSpent = spent.InexactFloat64()
	return stats
}

// PortfolioService computes a user's portfolio statistics from their live
// ticket set. Nothing is cached: the stats are recomputed on every view.
type PortfolioService struct {
	platform *platform.Client
}

func NewPortfolioService(pc *platform.Client) *PortfolioService {
	return &PortfolioService{platform: pc}
}

func (s *PortfolioService) Stats(ctx context.Context, userID string, now time.Time) (*models.PortfolioStats, error) {
	tickets, err := s.platform.UserTickets(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := Aggregate(tickets, now)
	return &stats, nil
}
