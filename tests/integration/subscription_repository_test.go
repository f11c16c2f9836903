package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipsite/internal/subscription"
	"pipsite/pkg/migrations"
)

func TestEmailRepository_CreateAndList(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)
	ctx := context.Background()

	require.NoError(t, migrations.EnsureMongoIndexes(ctx, infra.MongoDB))
	repo := subscription.NewRepository(infra.MongoDB)

	base := time.Now().UTC().Truncate(time.Millisecond)
	emails := []string{"first@example.com", "second@example.com", "third@example.com"}
	for i, email := range emails {
		sub := createTestSubmission(email, "hero", base.Add(time.Duration(i)*time.Second))
		require.NoError(t, repo.CreateSubmission(ctx, sub))
		assert.False(t, sub.ID.IsZero())
	}

	listed, err := repo.ListSubmissions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	// Newest first.
	assert.Equal(t, "third@example.com", listed[0].Email)
	assert.Equal(t, "second@example.com", listed[1].Email)
	assert.Equal(t, "first@example.com", listed[2].Email)

	limited, err := repo.ListSubmissions(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestEmailRepository_RoundTripsAllFields(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)
	ctx := context.Background()

	repo := subscription.NewRepository(infra.MongoDB)

	subscribedAt := time.Now().UTC().Truncate(time.Millisecond)
	sub := &subscription.EmailSubmission{
		Email:        "user@example.com",
		Source:       "footer",
		UTMSource:    "newsletter",
		UTMMedium:    "email",
		UTMCampaign:  "launch",
		Referrer:     "https://example.com/blog",
		IPAddress:    "198.51.100.4",
		UserAgent:    "Mozilla/5.0",
		SubscribedAt: subscribedAt,
	}
	require.NoError(t, repo.CreateSubmission(ctx, sub))

	listed, err := repo.ListSubmissions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	stored := listed[0]
	assert.Equal(t, sub.ID, stored.ID)
	assert.Equal(t, "user@example.com", stored.Email)
	assert.Equal(t, "footer", stored.Source)
	assert.Equal(t, "newsletter", stored.UTMSource)
	assert.Equal(t, "email", stored.UTMMedium)
	assert.Equal(t, "launch", stored.UTMCampaign)
	assert.Equal(t, "https://example.com/blog", stored.Referrer)
	assert.Equal(t, "198.51.100.4", stored.IPAddress)
	assert.Equal(t, "Mozilla/5.0", stored.UserAgent)
	assert.True(t, stored.SubscribedAt.Equal(subscribedAt))
}

func TestEmailRepository_DuplicatesAllowed(t *testing.T) {
	infra := SetupTestInfraWithOptions(t, true, false, false)
	ctx := context.Background()

	require.NoError(t, migrations.EnsureMongoIndexes(ctx, infra.MongoDB))
	repo := subscription.NewRepository(infra.MongoDB)

	for i := 0; i < 2; i++ {
		sub := createTestSubmission("repeat@example.com", "hero", time.Now().UTC())
		require.NoError(t, repo.CreateSubmission(ctx, sub))
		time.Sleep(timestampDelay)
	}

	listed, err := repo.ListSubmissions(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}
