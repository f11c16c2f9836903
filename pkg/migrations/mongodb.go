package migrations

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pipsite/internal/constants"
)

func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if err := ensureIndexes(ctx, db, constants.CollectionEmails, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "subscribed_at", Value: -1}},
			Options: options.Index().SetName("idx_emails_subscribed_at"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_emails_email"),
		},
		{
			Keys:    bson.D{{Key: "source", Value: 1}, {Key: "subscribed_at", Value: -1}},
			Options: options.Index().SetName("idx_emails_source_subscribed_at"),
		},
	}); err != nil {
		return err
	}

	if err := ensureIndexes(ctx, db, constants.CollectionPages, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("idx_pages_slug").SetUnique(true),
		},
	}); err != nil {
		return err
	}

	return ensureIndexes(ctx, db, constants.CollectionBlogPosts, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("idx_blog_posts_slug").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "published_at", Value: -1}},
			Options: options.Index().SetName("idx_blog_posts_published_at"),
		},
	})
}

func ensureIndexes(ctx context.Context, db *mongo.Database, collection string, indexes []mongo.IndexModel) error {
	_, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes)
	if err != nil {
		if !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}
	return nil
}
