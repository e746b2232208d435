package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"ripplegate/currency"
	"ripplegate/models"
	"ripplegate/monitoring"
	"ripplegate/utils"
)

// ledgerAssetID is the CoinGecko identifier of the ledger's native asset.
const ledgerAssetID = "ripple"

// RateService fetches and caches XRP/fiat exchange rates. The cached set
// is replaced wholesale; readers see either the old complete set or the
// new one, never a partial merge. On failure the service surfaces
// ErrRateFetch and never fabricates data; substituting the fallback table
// is an explicit caller decision.
type RateService struct {
	baseURL string
	breaker *utils.CircuitBreaker

	// fetchFunc is swappable in tests.
	fetchFunc func(ctx context.Context, url string) (*http.Response, error)

	mu      sync.RWMutex
	current *models.ExchangeRateSet
}

func NewRateService(baseURL string, timeout time.Duration) *RateService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := &http.Client{Timeout: timeout}
	return &RateService{
		baseURL: baseURL,
		breaker: utils.NewCircuitBreaker("coingecko", 3, time.Minute),
		fetchFunc: func(ctx context.Context, url string) (*http.Response, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Accept", "application/json")
			return hc.Do(req)
		},
	}
}

// FetchRates re-reads the full rate set from the pricing feed and swaps
// the cache atomically. Partial updates are disallowed: a payload missing
// any supported currency fails the whole fetch.
func (s *RateService) FetchRates(ctx context.Context) (*models.ExchangeRateSet, error) {
	if err := s.breaker.Allow(); err != nil {
		monitoring.TrackRateFetch("error")
		return nil, fmt.Errorf("%w: %s", ErrRateFetch, err)
	}

	set, err := s.fetch(ctx)
	s.breaker.Report(err == nil)
	if err != nil {
		monitoring.TrackRateFetch("error")
		return nil, err
	}

	s.mu.Lock()
	s.current = set
	s.mu.Unlock()

	monitoring.TrackRateFetch("live")
	return set.Clone(), nil
}

// Current returns a copy of the cached set, false when no fetch has
// succeeded yet.
func (s *RateService) Current() (*models.ExchangeRateSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	return s.current.Clone(), true
}

// Rates returns the cached set when warm, fetching otherwise.
func (s *RateService) Rates(ctx context.Context) (*models.ExchangeRateSet, error) {
	if set, ok := s.Current(); ok {
		monitoring.TrackRateFetch("cached")
		return set, nil
	}
	return s.FetchRates(ctx)
}

func (s *RateService) fetch(ctx context.Context) (*models.ExchangeRateSet, error) {
	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s",
		s.baseURL, ledgerAssetID, strings.Join(currency.Codes(), ","))

	resp, err := s.fetchFunc(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRateFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrRateFetch, resp.StatusCode)
	}

	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRateFetch, err)
	}

	asset, ok := payload[ledgerAssetID]
	if !ok {
		return nil, fmt.Errorf("%w: payload missing %q", ErrRateFetch, ledgerAssetID)
	}

	rates := make(map[string]float64, len(currency.Supported))
	for _, code := range currency.Codes() {
		rate, ok := asset[code]
		if !ok {
			return nil, fmt.Errorf("%w: payload missing rate for %q", ErrRateFetch, code)
		}
		rates[code] = rate
	}

	return &models.ExchangeRateSet{Rates: rates, FetchedAt: time.Now()}, nil
}
