package models

import (
	"time"
)

// ExchangeRateSet maps a fiat currency code to units of fiat per 1 XRP.
// A set is always complete for the supported currency list; it is replaced
// wholesale on refresh and never merged partially.
type ExchangeRateSet struct {
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// Rate returns the rate for a currency code, false when absent.
func (s *ExchangeRateSet) Rate(code string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	r, ok := s.Rates[code]
	return r, ok
}

// Clone returns a deep copy so readers can never observe a partial update.
func (s *ExchangeRateSet) Clone() *ExchangeRateSet {
	if s == nil {
		return nil
	}
	rates := make(map[string]float64, len(s.Rates))
	for code, r := range s.Rates {
		rates[code] = r
	}
	return &ExchangeRateSet{Rates: rates, FetchedAt: s.FetchedAt}
}
