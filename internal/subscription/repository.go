package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pipsite/internal/constants"
	"pipsite/pkg/metrics"
)

type Repository interface {
	CreateSubmission(ctx context.Context, submission *EmailSubmission) error
	ListSubmissions(ctx context.Context, limit int) ([]EmailSubmission, error)
}

type mongoRepository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		collection: db.Collection(constants.CollectionEmails),
	}
}

func (r *mongoRepository) CreateSubmission(ctx context.Context, submission *EmailSubmission) error {
	if submission.ID.IsZero() {
		submission.ID = primitive.NewObjectID()
	}

	start := time.Now()
	_, err := r.collection.InsertOne(ctx, submission)
	metrics.ObserveDatabaseQueryDuration("site-api", "mongodb", "insert_email", time.Since(start))
	if err != nil {
		metrics.IncDatabaseQuery("site-api", "mongodb", "insert_email", "error")
		return fmt.Errorf("failed to create email submission: %w", err)
	}

	metrics.IncDatabaseQuery("site-api", "mongodb", "insert_email", "success")
	return nil
}

func (r *mongoRepository) ListSubmissions(ctx context.Context, limit int) ([]EmailSubmission, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "subscribed_at", Value: -1}}).
		SetLimit(int64(limit))

	start := time.Now()
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	metrics.ObserveDatabaseQueryDuration("site-api", "mongodb", "list_emails", time.Since(start))
	if err != nil {
		metrics.IncDatabaseQuery("site-api", "mongodb", "list_emails", "error")
		return nil, fmt.Errorf("failed to list email submissions: %w", err)
	}
	defer cursor.Close(ctx)

	var submissions []EmailSubmission
	if err := cursor.All(ctx, &submissions); err != nil {
		return nil, fmt.Errorf("failed to decode email submissions: %w", err)
	}

	metrics.IncDatabaseQuery("site-api", "mongodb", "list_emails", "success")
	return submissions, nil
}

// Mongo server error codes for the credential class.
const (
	codeUnauthorized         = 13
	codeAuthenticationFailed = 18
)

// IsAuthError reports whether a store error is an authorization or
// authentication failure. This is the only place that decides whether
// a write failure is eligible for the fail-open response.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		if cmdErr.Code == codeUnauthorized || cmdErr.Code == codeAuthenticationFailed {
			return true
		}
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == codeUnauthorized || we.Code == codeAuthenticationFailed {
				return true
			}
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "authentication failed") ||
		strings.Contains(msg, "not authorized")
}
