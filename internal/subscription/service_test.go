package subscription

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"pipsite/internal/constants"
	"pipsite/internal/logger"
	pkgerrors "pipsite/pkg/errors"
)

type fakeRepository struct {
	mu          sync.Mutex
	submissions []EmailSubmission
	createErr   error
	createCalls int
	lastLimit   int
}

func (r *fakeRepository) CreateSubmission(ctx context.Context, submission *EmailSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	r.submissions = append(r.submissions, *submission)
	return nil
}

func (r *fakeRepository) ListSubmissions(ctx context.Context, limit int) ([]EmailSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit
	return r.submissions, nil
}

type trackedEvent struct {
	name       string
	properties map[string]interface{}
}

type fakeSink struct {
	mu     sync.Mutex
	events []trackedEvent
}

func (s *fakeSink) Track(ctx context.Context, name string, properties map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, trackedEvent{name: name, properties: properties})
}

func (s *fakeSink) Close() error { return nil }

func (s *fakeSink) tracked() []trackedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]trackedEvent, len(s.events))
	copy(out, s.events)
	return out
}

func newTestService(repo *fakeRepository, sink *fakeSink) Service {
	return NewService(repo, sink, logger.NopLogger())
}

func TestSubmitEmail_Success(t *testing.T) {
	repo := &fakeRepository{}
	sink := &fakeSink{}
	svc := newTestService(repo, sink)

	before := time.Now().UTC()
	resp, err := svc.SubmitEmail(context.Background(), SubmitEmailRequest{
		Email:  "user@example.com",
		Source: constants.SourceHero,
	}, RequestMeta{IPAddress: "203.0.113.7", UserAgent: "Mozilla/5.0"})
	after := time.Now().UTC()

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, MsgSubmitted, resp.Message)
	assert.NotEmpty(t, resp.ID)
	assert.Empty(t, resp.Note)

	require.Len(t, repo.submissions, 1)
	stored := repo.submissions[0]
	assert.Equal(t, "user@example.com", stored.Email)
	assert.Equal(t, constants.SourceHero, stored.Source)
	assert.Equal(t, "203.0.113.7", stored.IPAddress)
	assert.Equal(t, "Mozilla/5.0", stored.UserAgent)
	assert.Equal(t, stored.ID.Hex(), resp.ID)

	assert.False(t, stored.SubscribedAt.Before(before))
	assert.False(t, stored.SubscribedAt.After(after))
	assert.Equal(t, time.UTC, stored.SubscribedAt.Location())

	events := sink.tracked()
	require.Len(t, events, 1)
	assert.Equal(t, "email_submitted", events[0].name)
	assert.Equal(t, true, events[0].properties["persisted"])
}

func TestSubmitEmail_MissingEmail(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, &fakeSink{})

	resp, err := svc.SubmitEmail(context.Background(), SubmitEmailRequest{
		Source: constants.SourceFooter,
	}, RequestMeta{})

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), MsgRequiredFields)
	assert.Equal(t, 0, repo.createCalls)
}

func TestSubmitEmail_MissingSource(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, &fakeSink{})

	resp, err := svc.SubmitEmail(context.Background(), SubmitEmailRequest{
		Email: "user@example.com",
	}, RequestMeta{})

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Contains(t, err.Error(), MsgRequiredFields)
	assert.Equal(t, 0, repo.createCalls)
}

func TestSubmitEmail_InvalidFormat(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{name: "no at sign", email: "userexample.com"},
		{name: "no domain dot", email: "user@example"},
		{name: "missing local part", email: "@example.com"},
		{name: "missing domain", email: "user@"},
		{name: "embedded whitespace", email: "us er@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			svc := newTestService(repo, &fakeSink{})

			resp, err := svc.SubmitEmail(context.Background(), SubmitEmailRequest{
				Email:  tt.email,
				Source: constants.SourceBlog,
			}, RequestMeta{})

			assert.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, pkgerrors.IsValidation(err))
			assert.Contains(t, err.Error(), MsgInvalidEmail)
			assert.Equal(t, 0, repo.createCalls)
		})
	}
}

func TestSubmitEmail_OptionalFieldsDefaultToEmpty(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, &fakeSink{})

	_, err := svc.SubmitEmail(context.Background(), SubmitEmailRequest{
		Email:  "user@example.com",
		Source: constants.SourceFooter,
	}, RequestMeta{IPAddress: "198.51.100.4"})

	require.NoError(t, err)
	require.Len(t, repo.submissions, 1)
	stored := repo.submissions[0]
	assert.Equal(t, "", stored.UTMSource)
	assert.Equal(t, "", stored.UTMMedium)
	assert.Equal(t, "", stored.UTMCampaign)
	assert.Equal(t, "", stored.Referrer)
	assert.Equal(t, "", stored.UserAgent)
}

func TestSubmitEmail_UserAgentPayloadOverridesHeader(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, &fakeSink{})

	_, err := svc.SubmitEmail(context.Background(), SubmitEmailRequest{
		Email:     "user@example.com",
		Source:    constants.SourceHero,
		UserAgent: "custom-client/1.0",
	}, RequestMeta{UserAgent: "Mozilla/5.0"})

	require.NoError(t, err)
	require.Len(t, repo.submissions, 1)
	assert.Equal(t, "custom-client/1.0", repo.submissions[0].UserAgent)
}

func TestSubmitEmail_UnknownIPWhenMissing(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, &fakeSink{})

	_, err := svc.SubmitEmail(context.Background(), SubmitEmailRequest{
		Email:  "user@example.com",
		Source: constants.SourceHero,
	}, RequestMeta{})

	require.NoError(t, err)
	require.Len(t, repo.submissions, 1)
	assert.Equal(t, constants.IPUnknown, repo.submissions[0].IPAddress)
}

func TestSubmitEmail_AuthFailureFailsOpen(t *testing.T) {
	repo := &fakeRepository{
		createErr: fmt.Errorf("failed to create email submission: %w",
			mongo.CommandError{Code: 13, Message: "not authorized on pipsite to execute command"}),
	}
	sink := &fakeSink{}
	svc := newTestService(repo, sink)

	resp, err := svc.SubmitEmail(context.Background(), SubmitEmailRequest{
		Email:  "user@example.com",
		Source: constants.SourceHero,
	}, RequestMeta{})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, MsgSubmitted, resp.Message)
	assert.Equal(t, NoteAuthPending, resp.Note)
	assert.Empty(t, resp.ID)

	events := sink.tracked()
	require.Len(t, events, 1)
	assert.Equal(t, false, events[0].properties["persisted"])
}

func TestSubmitEmail_StoreFailureReturnsGenericError(t *testing.T) {
	repo := &fakeRepository{createErr: errors.New("connection reset by peer")}
	sink := &fakeSink{}
	svc := newTestService(repo, sink)

	resp, err := svc.SubmitEmail(context.Background(), SubmitEmailRequest{
		Email:  "user@example.com",
		Source: constants.SourceHero,
	}, RequestMeta{})

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, 500, pkgerrors.ToHTTPStatus(err))
	assert.Equal(t, MsgSubmitFailed, pkgerrors.ToErrorResponse(err)["error"])
	assert.Empty(t, sink.tracked())
}

func TestListSubmissions_ClampsLimit(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, &fakeSink{})

	_, err := svc.ListSubmissions(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultLimit, repo.lastLimit)

	_, err = svc.ListSubmissions(context.Background(), constants.MaxLimit+1)
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultLimit, repo.lastLimit)

	_, err = svc.ListSubmissions(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, 25, repo.lastLimit)
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "unauthorized code", err: mongo.CommandError{Code: 13}, want: true},
		{name: "authentication failed code", err: mongo.CommandError{Code: 18}, want: true},
		{name: "wrapped command error", err: fmt.Errorf("insert: %w", mongo.CommandError{Code: 18}), want: true},
		{name: "auth message", err: errors.New("(Unauthorized) not authorized on pipsite"), want: true},
		{name: "authentication message", err: errors.New("authentication failed"), want: true},
		{name: "other command error", err: mongo.CommandError{Code: 11000}, want: false},
		{name: "network error", err: errors.New("connection reset by peer"), want: false},
		{name: "timeout", err: context.DeadlineExceeded, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAuthError(tt.err))
		})
	}
}
