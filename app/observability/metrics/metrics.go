package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	PlanRequestsTotal        metric.Int64Counter
	PlanDurationSeconds      metric.Float64Histogram
	EnhancementFailuresTotal metric.Int64Counter
	DbQueryDurationSeconds   metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("exploresl-api")
		var err error
		m := &AppMetrics{}

		m.PlanRequestsTotal, err = meter.Int64Counter(
			"plan_requests_total",
			metric.WithDescription("Total number of plan requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create plan_requests_total: %v", err)
		}

		m.PlanDurationSeconds, err = meter.Float64Histogram(
			"plan_duration_seconds",
			metric.WithDescription("End-to-end duration of plan generation in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create plan_duration_seconds: %v", err)
		}

		m.EnhancementFailuresTotal, err = meter.Int64Counter(
			"enhancement_failures_total",
			metric.WithDescription("Total number of failed enhancement module runs"),
			metric.WithUnit("{failure}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create enhancement_failures_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance, or nil when
// InitAppMetrics has not run. Callers treat nil as metrics disabled.
func Get() *AppMetrics {
	return appMetrics
}

// WithModuleAttr tags a metric data point with the enhancement module name.
func WithModuleAttr(name string) metric.AddOption {
	return metric.WithAttributes(attribute.String("module", name))
}
