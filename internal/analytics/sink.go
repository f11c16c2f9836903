package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"pipsite/internal/broker"
	"pipsite/internal/config"
	"pipsite/internal/constants"
	"pipsite/internal/logger"
	pkgerrors "pipsite/pkg/errors"
	"pipsite/pkg/logging"
	"pipsite/pkg/metrics"
	"pipsite/pkg/models"
	"pipsite/pkg/retry"
)

// Sink records site events. Track never blocks the caller and never
// returns an error: a lost event must not affect the HTTP response.
type Sink interface {
	Track(ctx context.Context, name string, properties map[string]interface{})
	Close() error
}

type KafkaSink struct {
	producer broker.Producer
	topic    string
	policy   retry.Policy
	logger   logger.Logger
	wg       sync.WaitGroup
}

func NewKafkaSink(producer broker.Producer, topic string, retryCfg config.RetryConfig, log logger.Logger) *KafkaSink {
	if topic == "" {
		topic = constants.DefaultAnalyticsTopic
	}

	policy := retry.DefaultPolicy()
	policy.MaxElapsedTime = 0
	if retryCfg.MaxAttempts > 0 {
		policy.MaxAttempts = retryCfg.MaxAttempts
	}
	if retryCfg.InitialInterval > 0 {
		policy.InitialInterval = retryCfg.InitialInterval
	}
	if retryCfg.MaxInterval > 0 {
		policy.MaxInterval = retryCfg.MaxInterval
	}
	if retryCfg.Multiplier > 0 {
		policy.Multiplier = retryCfg.Multiplier
	}

	return &KafkaSink{
		producer: producer,
		topic:    topic,
		policy:   policy,
		logger:   log,
	}
}

func (s *KafkaSink) Track(ctx context.Context, name string, properties map[string]interface{}) {
	event := models.NewEventBuilder().
		WithID(uuid.New().String()).
		WithName(name).
		WithTimestamp(time.Now().UTC()).
		WithProperties(properties).
		WithTraceID(traceIDFromContext(ctx)).
		Build()

	// Publishing outlives the request but must not inherit its cancellation.
	bgCtx := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if err := pkgerrors.RecoverPanic(recover()); err != nil {
				metrics.IncAnalyticsEvent("failed")
				s.logger.ErrorwCtx(bgCtx, "Panic while publishing analytics event",
					"error", err,
					"event", event.Name,
				)
			}
		}()
		s.publish(bgCtx, *event)
	}()
}

func (s *KafkaSink) publish(ctx context.Context, event models.Event) {
	ctx, cancel := context.WithTimeout(ctx, constants.AnalyticsPublishTimeout)
	defer cancel()

	start := time.Now()
	err := retry.RetryWithCallback(ctx, s.policy, func() error {
		return s.producer.Publish(ctx, s.topic, event)
	}, func(attempt int, err error, nextDelay time.Duration) {
		metrics.RetryAttemptsTotal.WithLabelValues("site-api", s.topic).Inc()
		s.logger.WarnwCtx(ctx, "Retrying analytics publish",
			"attempt", attempt,
			"next_delay", nextDelay,
			"error", err,
			"event", event.Name,
		)
	})

	if err != nil {
		metrics.IncAnalyticsEvent("failed")
		metrics.ObserveAnalyticsPublishDuration(time.Since(start), "failed")
		s.logger.ErrorwCtx(ctx, "Failed to publish analytics event",
			"error", err,
			"event", event.Name,
			"event_id", event.ID,
			"topic", s.topic,
		)
		return
	}

	metrics.IncAnalyticsEvent("published")
	metrics.ObserveAnalyticsPublishDuration(time.Since(start), "published")
}

func (s *KafkaSink) Close() error {
	s.wg.Wait()
	return s.producer.Close()
}

func traceIDFromContext(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return logging.GetTraceID(ctx)
}

// NopSink discards all events. Used when analytics is disabled.
type NopSink struct{}

func (NopSink) Track(ctx context.Context, name string, properties map[string]interface{}) {}

func (NopSink) Close() error { return nil }
