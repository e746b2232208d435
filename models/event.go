package models

import (
	"time"
)

type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Image       string `json:"image"`

	// Date is a calendar date ("2006-01-02"); Time is a wall clock
	// ("15:04:05") with no timezone guarantee, exactly as the catalog
	// service serves them.
	Date string `json:"date"`
	Time string `json:"time"`

	// Price is the XRP price for one ticket.
	Price Amount `json:"price"`

	// Tickets is the remaining ticket count. Authoritative only at the
	// catalog service; never decremented locally.
	Tickets int `json:"tickets"`

	CreatedAt string `json:"created_at,omitempty"`
}

const (
	eventDateLayout     = "2006-01-02"
	eventDateTimeLayout = "2006-01-02 15:04:05"
)

// StartsAt combines the event's date and wall-clock time into an instant.
// The second return is false when the date is missing or unparseable.
func (e *Event) StartsAt() (time.Time, bool) {
	if e == nil || e.Date == "" {
		return time.Time{}, false
	}
	if e.Time != "" {
		if t, err := time.ParseInLocation(eventDateTimeLayout, e.Date+" "+e.Time, time.Local); err == nil {
			return t, true
		}
	}
	t, err := time.ParseInLocation(eventDateLayout, e.Date, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SoldOut reports whether the event has no remaining tickets. Negative
// counts are treated as zero.
func (e *Event) SoldOut() bool {
	return e == nil || e.Tickets <= 0
}
