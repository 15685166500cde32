package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	RecommendRequestsTotal   metric.Int64Counter
	RecommendDurationSeconds metric.Float64Histogram
	SessionLookupsTotal      metric.Int64Counter
	AICallErrorsTotal        metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the instruments exactly once, against the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TourRecommendations")
		var err error
		m := &AppMetrics{}

		m.RecommendRequestsTotal, err = meter.Int64Counter(
			"recommend_requests_total",
			metric.WithDescription("Total number of recommendation requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recommend_requests_total: %v", err)
		}

		m.RecommendDurationSeconds, err = meter.Float64Histogram(
			"recommend_duration_seconds",
			metric.WithDescription("Duration of recommendation requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recommend_duration_seconds: %v", err)
		}

		m.SessionLookupsTotal, err = meter.Int64Counter(
			"session_lookups_total",
			metric.WithDescription("Total number of session lookups"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create session_lookups_total: %v", err)
		}

		m.AICallErrorsTotal, err = meter.Int64Counter(
			"ai_call_errors_total",
			metric.WithDescription("Total number of failed text-generation calls"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_call_errors_total: %v", err)
		}

		appMetrics = m
		log.Println("Application metrics initialized successfully.")
	})
}

// Get returns the initialized instruments; nil before InitAppMetrics runs.
func Get() *AppMetrics {
	return appMetrics
}
