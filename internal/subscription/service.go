package subscription

import (
	"context"
	"regexp"
	"time"

	"pipsite/internal/analytics"
	"pipsite/internal/constants"
	"pipsite/internal/logger"
	pkgerrors "pipsite/pkg/errors"
	"pipsite/pkg/metrics"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Service interface {
	SubmitEmail(ctx context.Context, req SubmitEmailRequest, meta RequestMeta) (*SubmitEmailResponse, error)
	ListSubmissions(ctx context.Context, limit int) ([]EmailSubmission, error)
}

type service struct {
	repo   Repository
	sink   analytics.Sink
	logger logger.Logger
}

func NewService(repo Repository, sink analytics.Sink, log logger.Logger) Service {
	if sink == nil {
		sink = analytics.NopSink{}
	}
	return &service{
		repo:   repo,
		sink:   sink,
		logger: log,
	}
}

func (s *service) SubmitEmail(ctx context.Context, req SubmitEmailRequest, meta RequestMeta) (*SubmitEmailResponse, error) {
	if err := validateSubmitRequest(req); err != nil {
		metrics.IncEmailSubmission("rejected", req.Source)
		return nil, err
	}

	submission := s.enrich(req, meta)

	storeCtx, cancel := context.WithTimeout(ctx, constants.StoreWriteTimeout)
	defer cancel()

	start := time.Now()
	err := s.repo.CreateSubmission(storeCtx, submission)
	if err != nil {
		metrics.ObserveEmailStoreDuration(time.Since(start), "error")

		if IsAuthError(err) {
			// Fail open to the visitor, fail loud to the operator. The
			// full submission is logged so it can be recovered by hand.
			metrics.IncEmailSubmission("auth_failed", submission.Source)
			s.logger.ErrorwCtx(ctx, "Email submission not persisted: store authorization failure",
				"error", err,
				"email", submission.Email,
				"source", submission.Source,
				"subscribed_at", submission.SubscribedAt,
			)

			s.track(ctx, submission, false)

			return &SubmitEmailResponse{
				Success: true,
				Message: MsgSubmitted,
				Note:    NoteAuthPending,
			}, nil
		}

		metrics.IncEmailSubmission("error", submission.Source)
		return nil, pkgerrors.ErrInternal.WithMessage(MsgSubmitFailed).WithCause(err)
	}

	metrics.ObserveEmailStoreDuration(time.Since(start), "success")
	metrics.IncEmailSubmission("accepted", submission.Source)

	s.logger.InfowCtx(ctx, "Email submission stored",
		"id", submission.ID.Hex(),
		"source", submission.Source,
	)

	s.track(ctx, submission, true)

	return &SubmitEmailResponse{
		Success: true,
		Message: MsgSubmitted,
		ID:      submission.ID.Hex(),
	}, nil
}

func (s *service) ListSubmissions(ctx context.Context, limit int) ([]EmailSubmission, error) {
	if limit <= 0 || limit > constants.MaxLimit {
		limit = constants.DefaultLimit
	}

	storeCtx, cancel := context.WithTimeout(ctx, constants.StoreReadTimeout)
	defer cancel()

	submissions, err := s.repo.ListSubmissions(storeCtx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	if submissions == nil {
		submissions = []EmailSubmission{}
	}
	return submissions, nil
}

// enrich builds the persisted document. Optional fields default to ""
// so every document carries the full field set, and the timestamp is
// always taken server-side in UTC.
func (s *service) enrich(req SubmitEmailRequest, meta RequestMeta) *EmailSubmission {
	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = meta.UserAgent
	}

	ipAddress := meta.IPAddress
	if ipAddress == "" {
		ipAddress = constants.IPUnknown
	}

	return &EmailSubmission{
		Email:        req.Email,
		Source:       req.Source,
		UTMSource:    req.UTMSource,
		UTMMedium:    req.UTMMedium,
		UTMCampaign:  req.UTMCampaign,
		Referrer:     req.Referrer,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
		SubscribedAt: time.Now().UTC(),
	}
}

func (s *service) track(ctx context.Context, submission *EmailSubmission, persisted bool) {
	s.sink.Track(ctx, "email_submitted", map[string]interface{}{
		"source":       submission.Source,
		"utm_source":   submission.UTMSource,
		"utm_medium":   submission.UTMMedium,
		"utm_campaign": submission.UTMCampaign,
		"persisted":    persisted,
	})
}

func validateSubmitRequest(req SubmitEmailRequest) error {
	if req.Email == "" || req.Source == "" {
		return pkgerrors.ErrValidation.WithMessage(MsgRequiredFields)
	}

	if !emailPattern.MatchString(req.Email) {
		return pkgerrors.ErrValidation.WithMessage(MsgInvalidEmail)
	}

	return nil
}
