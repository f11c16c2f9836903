package integration

import (
	"time"

	"pipsite/internal/logger"
	"pipsite/internal/subscription"
)

const (
	containerStartupTimeout = 60
	timestampDelay          = 10 * time.Millisecond
)

func createTestLogger() logger.Logger {
	return logger.NopLogger()
}

func createTestSubmission(email, source string, subscribedAt time.Time) *subscription.EmailSubmission {
	return &subscription.EmailSubmission{
		Email:        email,
		Source:       source,
		IPAddress:    "203.0.113.7",
		UserAgent:    "integration-test",
		SubscribedAt: subscribedAt,
	}
}
