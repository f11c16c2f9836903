package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	EmailSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_submissions_total",
			Help: "Total number of email submissions processed (count)",
		},
		[]string{"status", "source"},
	)

	EmailStoreDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "email_store_duration_ms",
			Help:    "Duration of email store writes in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"status"},
	)

	ContentFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetches_total",
			Help: "Total number of content fetches (count)",
		},
		[]string{"resource", "result"},
	)

	ContentStoreDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "content_store_duration_ms",
			Help:    "Duration of content store reads in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		},
		[]string{"resource"},
	)

	AnalyticsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_events_total",
			Help: "Total number of analytics events published (count)",
		},
		[]string{"status"},
	)

	AnalyticsPublishDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_publish_duration_ms",
			Help:    "Duration of analytics event publishes in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"status"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)

	FallbackUsageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fallback_usage_total",
			Help: "Total number of times fallback content was served (count)",
		},
		[]string{"resource", "reason"},
	)

	KafkaMessagesWrittenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_written_total",
			Help: "Total number of messages written to Kafka (count)",
		},
		[]string{"service", "topic"},
	)

	KafkaWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kafka_write_duration_ms",
			Help:    "Duration of writing messages to Kafka in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"service", "topic"},
	)

	RetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts (count)",
		},
		[]string{"service", "topic"},
	)

	DatabaseQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries (count)",
		},
		[]string{"service", "database", "operation", "status"},
	)

	DatabaseQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_ms",
			Help:    "Duration of database queries in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"service", "database", "operation"},
	)

	CacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache lookups by outcome (count)",
		},
		[]string{"resource", "result"},
	)
)

func RegisterSubscriptionMetrics() {
	prometheus.MustRegister(EmailSubmissionsTotal)
	prometheus.MustRegister(EmailStoreDuration)
	prometheus.MustRegister(RateLimitRequestsTotal)
}

func RegisterContentMetrics() {
	prometheus.MustRegister(ContentFetchesTotal)
	prometheus.MustRegister(ContentStoreDuration)
	prometheus.MustRegister(FallbackUsageTotal)
	prometheus.MustRegister(CacheHitsTotal)
}

func RegisterAnalyticsMetrics() {
	prometheus.MustRegister(AnalyticsEventsTotal)
	prometheus.MustRegister(AnalyticsPublishDuration)
	prometheus.MustRegister(KafkaMessagesWrittenTotal)
	prometheus.MustRegister(KafkaWriteDuration)
	prometheus.MustRegister(RetryAttemptsTotal)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(CircuitBreakerState)
	prometheus.MustRegister(CircuitBreakerRequests)
	prometheus.MustRegister(CircuitBreakerFailures)
}

func RegisterDatabaseMetrics() {
	prometheus.MustRegister(DatabaseQueriesTotal)
	prometheus.MustRegister(DatabaseQueryDuration)
}

func IncEmailSubmission(status, source string) {
	EmailSubmissionsTotal.WithLabelValues(status, source).Inc()
}

func ObserveEmailStoreDuration(duration time.Duration, status string) {
	EmailStoreDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func IncContentFetch(resource, result string) {
	ContentFetchesTotal.WithLabelValues(resource, result).Inc()
}

func ObserveContentStoreDuration(resource string, duration time.Duration) {
	ContentStoreDuration.WithLabelValues(resource).Observe(float64(duration.Milliseconds()))
}

func IncAnalyticsEvent(status string) {
	AnalyticsEventsTotal.WithLabelValues(status).Inc()
}

func ObserveAnalyticsPublishDuration(duration time.Duration, status string) {
	AnalyticsPublishDuration.WithLabelValues(status).Observe(float64(duration.Milliseconds()))
}

func IncFallbackUsage(resource, reason string) {
	FallbackUsageTotal.WithLabelValues(resource, reason).Inc()
}

func IncKafkaMessagesWritten(service, topic string) {
	KafkaMessagesWrittenTotal.WithLabelValues(service, topic).Inc()
}

func ObserveKafkaWriteDuration(service, topic string, duration time.Duration) {
	KafkaWriteDuration.WithLabelValues(service, topic).Observe(float64(duration.Milliseconds()))
}

func IncDatabaseQuery(service, database, operation, status string) {
	DatabaseQueriesTotal.WithLabelValues(service, database, operation, status).Inc()
}

func ObserveDatabaseQueryDuration(service, database, operation string, duration time.Duration) {
	DatabaseQueryDuration.WithLabelValues(service, database, operation).Observe(float64(duration.Milliseconds()))
}

func IncCacheLookup(resource, result string) {
	CacheHitsTotal.WithLabelValues(resource, result).Inc()
}
