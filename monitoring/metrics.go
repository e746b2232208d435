package monitoring

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	purchaseAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_purchase_attempts_total",
			Help: "Purchase attempts by terminal outcome",
		},
		[]string{"outcome"},
	)

	purchaseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticket_purchase_duration_seconds",
			Help:    "Duration of purchase attempts from request to settle",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	verificationChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_verification_checks_total",
			Help: "Ownership verification checks by result",
		},
		[]string{"result"},
	)

	rateFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exchange_rate_fetches_total",
			Help: "Exchange rate fetches by source",
		},
		[]string{"source"},
	)

	inflightPurchaseLocks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inflight_purchase_locks_total",
			Help: "Purchase locks currently held in Redis",
		},
	)
)

// TrackPurchase records a settled purchase attempt.
func TrackPurchase(outcome string, d time.Duration) {
	purchaseAttempts.WithLabelValues(outcome).Inc()
	purchaseDuration.Observe(d.Seconds())
}

// TrackVerification records a verification result: verified, unverified,
// error or ineligible.
func TrackVerification(result string) {
	verificationChecks.WithLabelValues(result).Inc()
}

// TrackRateFetch records where a served rate set came from: live, cached,
// fallback or error.
func TrackRateFetch(source string) {
	rateFetches.WithLabelValues(source).Inc()
}

type Monitor struct {
	redis *redis.Client
}

// NewMonitor starts background gauge collection.
func NewMonitor(ctx context.Context, redisClient *redis.Client) *Monitor {
	monitor := &Monitor{redis: redisClient}
	go monitor.collectMetrics(ctx)
	return monitor
}

func (m *Monitor) collectMetrics(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collectPurchaseLocks(ctx)
		}
	}
}

func (m *Monitor) collectPurchaseLocks(ctx context.Context) {
	keys, err := m.redis.Keys(ctx, "purchase:lock:*").Result()
	if err != nil {
		return
	}
	inflightPurchaseLocks.Set(float64(len(keys)))
}
