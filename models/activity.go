package models

import (
	"time"
)

// ActivityRecord is a read-only projection from the platform's activity log.
type ActivityRecord struct {
	ID          string       `json:"id"`
	UserName    string       `json:"user_name"`
	EventName   string       `json:"event_name"`
	TicketPrice Amount       `json:"ticket_price"`
	Status      TicketStatus `json:"status"`
	NFTID       string       `json:"nft_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ActivityView is an ActivityRecord decorated for display.
type ActivityView struct {
	ActivityRecord
	RelativeTime string      `json:"relative_time"`
	StatusClass  StatusClass `json:"status_class"`
}

// PortfolioStats is derived from a user's ticket collection and never stored.
type PortfolioStats struct {
	TotalTickets     int     `json:"total_tickets"`
	TotalSpent       float64 `json:"total_spent"`
	ConfirmedTickets int     `json:"confirmed_tickets"`
	UpcomingEvents   int     `json:"upcoming_events"`
}

type User struct {
	ID             string `json:"user_id"`
	Email          string `json:"email"`
	WalletAddress  string `json:"wallet_address"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}
