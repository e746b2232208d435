package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ripplegate/currency"
)

func ratePayload(overrides map[string]float64) map[string]map[string]float64 {
	rates := currency.FallbackRates()
	for code, rate := range overrides {
		rates[code] = rate
	}
	return map[string]map[string]float64{"ripple": rates}
}

func stubFetch(status int, payload any) func(ctx context.Context, url string) (*http.Response, error) {
	return func(ctx context.Context, url string) (*http.Response, error) {
		body, _ := json.Marshal(payload)
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewReader(body)),
		}, nil
	}
}

func TestRateService_FetchRates_StoresFullSet(t *testing.T) {
	svc := NewRateService("http://feed", time.Second)
	svc.fetchFunc = stubFetch(http.StatusOK, ratePayload(map[string]float64{"usd": 0.52}))

	set, err := svc.FetchRates(context.Background())
	require.NoError(t, err)
	require.Len(t, set.Rates, len(currency.Supported))
	assert.Equal(t, 0.52, set.Rates["usd"])
	assert.False(t, set.FetchedAt.IsZero())

	cached, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, set.Rates, cached.Rates)
}

func TestRateService_FetchRates_RequestedURL(t *testing.T) {
	svc := NewRateService("http://feed", time.Second)

	var requested string
	svc.fetchFunc = func(ctx context.Context, url string) (*http.Response, error) {
		requested = url
		body, _ := json.Marshal(ratePayload(nil))
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(body))}, nil
	}

	_, err := svc.FetchRates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://feed/simple/price?ids=ripple&vs_currencies=usd,eur,gbp,jpy,aud,cad,chf,cny,inr,krw", requested)
}

func TestRateService_FetchRates_MissingAssetFails(t *testing.T) {
	svc := NewRateService("http://feed", time.Second)
	svc.fetchFunc = stubFetch(http.StatusOK, map[string]map[string]float64{"bitcoin": {"usd": 1}})

	_, err := svc.FetchRates(context.Background())
	assert.ErrorIs(t, err, ErrRateFetch)
}

func TestRateService_FetchRates_PartialPayloadFails(t *testing.T) {
	svc := NewRateService("http://feed", time.Second)

	partial := ratePayload(nil)
	delete(partial["ripple"], "krw")
	svc.fetchFunc = stubFetch(http.StatusOK, partial)

	_, err := svc.FetchRates(context.Background())
	assert.ErrorIs(t, err, ErrRateFetch)

	_, ok := svc.Current()
	assert.False(t, ok)
}

func TestRateService_FetchRates_HTTPErrorFails(t *testing.T) {
	svc := NewRateService("http://feed", time.Second)
	svc.fetchFunc = stubFetch(http.StatusTooManyRequests, map[string]string{"error": "rate limited"})

	_, err := svc.FetchRates(context.Background())
	assert.ErrorIs(t, err, ErrRateFetch)
}

func TestRateService_FailedFetchKeepsPreviousSet(t *testing.T) {
	svc := NewRateService("http://feed", time.Second)
	svc.fetchFunc = stubFetch(http.StatusOK, ratePayload(map[string]float64{"usd": 0.52}))

	_, err := svc.FetchRates(context.Background())
	require.NoError(t, err)

	svc.fetchFunc = func(ctx context.Context, url string) (*http.Response, error) {
		return nil, errors.New("connection reset")
	}
	_, err = svc.FetchRates(context.Background())
	require.ErrorIs(t, err, ErrRateFetch)

	cached, ok := svc.Current()
	require.True(t, ok)
	assert.Equal(t, 0.52, cached.Rates["usd"])
}

func TestRateService_RatesServesCacheWithoutRefetch(t *testing.T) {
	svc := NewRateService("http://feed", time.Second)

	calls := 0
	svc.fetchFunc = func(ctx context.Context, url string) (*http.Response, error) {
		calls++
		body, _ := json.Marshal(ratePayload(nil))
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(body))}, nil
	}

	_, err := svc.Rates(context.Background())
	require.NoError(t, err)
	_, err = svc.Rates(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestRateService_BreakerTripsAfterRepeatedFailures(t *testing.T) {
	svc := NewRateService("http://feed", time.Second)
	svc.fetchFunc = func(ctx context.Context, url string) (*http.Response, error) {
		return nil, errors.New("connection reset")
	}

	for i := 0; i < 3; i++ {
		_, err := svc.FetchRates(context.Background())
		require.ErrorIs(t, err, ErrRateFetch)
	}

	// Breaker is now open; no fetch attempt happens.
	svc.fetchFunc = func(ctx context.Context, url string) (*http.Response, error) {
		t.Fatal("fetch must not run while the breaker is open")
		return nil, nil
	}
	_, err := svc.FetchRates(context.Background())
	assert.ErrorIs(t, err, ErrRateFetch)
}

func TestRateService_CurrentReturnsCopy(t *testing.T) {
	svc := NewRateService("http://feed", time.Second)
	svc.fetchFunc = stubFetch(http.StatusOK, ratePayload(nil))

	_, err := svc.FetchRates(context.Background())
	require.NoError(t, err)

	first, ok := svc.Current()
	require.True(t, ok)
	first.Rates["usd"] = 99

	second, _ := svc.Current()
	assert.NotEqual(t, 99.0, second.Rates["usd"])
}
