package models

import (
	"encoding/json"
	"strings"
	"time"
)

// TicketStatus is the closed set of ticket lifecycle states reported by the
// platform backend. Anything unrecognized maps to StatusUnknown instead of
// failing, so a newer backend cannot break older gateways.
type TicketStatus string

const (
	StatusPending   TicketStatus = "pending"
	StatusConfirmed TicketStatus = "confirmed"
	StatusFailed    TicketStatus = "failed"
	StatusUnknown   TicketStatus = "unknown"
)

// StatusClass is the display category a status maps to.
type StatusClass string

const (
	ClassSuccess StatusClass = "success"
	ClassWarning StatusClass = "warning"
	ClassDanger  StatusClass = "danger"
	ClassUnknown StatusClass = "unknown"
)

func ParseTicketStatus(s string) TicketStatus {
	switch TicketStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending
	case StatusConfirmed:
		return StatusConfirmed
	case StatusFailed:
		return StatusFailed
	default:
		return StatusUnknown
	}
}

func (s *TicketStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseTicketStatus(raw)
	return nil
}

// DisplayClass maps a status to its display category.
func (s TicketStatus) DisplayClass() StatusClass {
	switch s {
	case StatusConfirmed:
		return ClassSuccess
	case StatusPending:
		return ClassWarning
	case StatusFailed:
		return ClassDanger
	default:
		return ClassUnknown
	}
}

// Amount is a decimal amount kept as a string. The platform encodes prices
// inconsistently as JSON numbers or quoted strings, so both are accepted.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*a = ""
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	*a = Amount(raw)
	return nil
}

func (a Amount) String() string {
	return string(a)
}

type Ticket struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`

	// Price is the per-ticket XRP amount snapshotted at purchase time. It
	// may diverge from the event's current price.
	Price Amount `json:"price"`

	// NFTID is set only once the ticket is confirmed and the NFT minted.
	// A confirmed ticket without an NFT id is mint-pending, not broken.
	NFTID           string       `json:"nft_id,omitempty"`
	TransactionHash string       `json:"transaction_hash,omitempty"`
	Status          TicketStatus `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`

	Event      *Event `json:"event,omitempty"`
	UserWallet string `json:"user_wallet,omitempty"`
}

// Verifiable reports whether an on-ledger ownership check makes sense for
// this ticket.
func (t Ticket) Verifiable() bool {
	return t.Status == StatusConfirmed && t.NFTID != ""
}

// VerificationResult is the ephemeral outcome of an ownership-proof check.
// It is recomputed per request and never persisted.
type VerificationResult struct {
	TicketID string `json:"ticket_id"`
	Verified bool   `json:"verified"`
	Message  string `json:"message,omitempty"`
	NFTID    string `json:"nft_id,omitempty"`
}
