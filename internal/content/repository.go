package content

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pipsite/internal/constants"
	"pipsite/pkg/metrics"
)

type Repository interface {
	GetLandingPage(ctx context.Context) (*LandingPage, error)
	GetSiteSettings(ctx context.Context) (*SiteSettings, error)
	GetPageBySlug(ctx context.Context, slug string) (*Page, error)
	ListPages(ctx context.Context) ([]Page, error)
	ListBlogPosts(ctx context.Context, featuredOnly bool, limit int) ([]BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*BlogPost, error)
}

type mongoRepository struct {
	db *mongo.Database
}

func NewRepository(db *mongo.Database) Repository {
	return &mongoRepository{db: db}
}

func (r *mongoRepository) GetLandingPage(ctx context.Context) (*LandingPage, error) {
	var page LandingPage
	err := r.findOne(ctx, constants.CollectionLandingPage, bson.M{}, &page, "get_landing_page")
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get landing page: %w", err)
	}
	return &page, nil
}

func (r *mongoRepository) GetSiteSettings(ctx context.Context) (*SiteSettings, error) {
	var settings SiteSettings
	err := r.findOne(ctx, constants.CollectionSiteSettings, bson.M{}, &settings, "get_site_settings")
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get site settings: %w", err)
	}
	return &settings, nil
}

func (r *mongoRepository) GetPageBySlug(ctx context.Context, slug string) (*Page, error) {
	var page Page
	filter := bson.M{"slug": slug, "active": true}
	err := r.findOne(ctx, constants.CollectionPages, filter, &page, "get_page")
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return &page, nil
}

func (r *mongoRepository) ListPages(ctx context.Context) ([]Page, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "title", Value: 1}})

	start := time.Now()
	cursor, err := r.db.Collection(constants.CollectionPages).Find(ctx, bson.M{"active": true}, opts)
	metrics.ObserveDatabaseQueryDuration("site-api", "mongodb", "list_pages", time.Since(start))
	if err != nil {
		metrics.IncDatabaseQuery("site-api", "mongodb", "list_pages", "error")
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer cursor.Close(ctx)

	var pages []Page
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, fmt.Errorf("failed to decode pages: %w", err)
	}

	metrics.IncDatabaseQuery("site-api", "mongodb", "list_pages", "success")
	return pages, nil
}

func (r *mongoRepository) ListBlogPosts(ctx context.Context, featuredOnly bool, limit int) ([]BlogPost, error) {
	filter := bson.M{"published": true}
	if featuredOnly {
		filter["featured"] = true
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetLimit(int64(limit))

	start := time.Now()
	cursor, err := r.db.Collection(constants.CollectionBlogPosts).Find(ctx, filter, opts)
	metrics.ObserveDatabaseQueryDuration("site-api", "mongodb", "list_blog_posts", time.Since(start))
	if err != nil {
		metrics.IncDatabaseQuery("site-api", "mongodb", "list_blog_posts", "error")
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []BlogPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode blog posts: %w", err)
	}

	metrics.IncDatabaseQuery("site-api", "mongodb", "list_blog_posts", "success")
	return posts, nil
}

func (r *mongoRepository) GetBlogPostBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	var post BlogPost
	filter := bson.M{"slug": slug, "published": true}
	err := r.findOne(ctx, constants.CollectionBlogPosts, filter, &post, "get_blog_post")
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}
	return &post, nil
}

func (r *mongoRepository) findOne(ctx context.Context, collection string, filter bson.M, dest interface{}, operation string) error {
	start := time.Now()
	err := r.db.Collection(collection).FindOne(ctx, filter).Decode(dest)
	metrics.ObserveDatabaseQueryDuration("site-api", "mongodb", operation, time.Since(start))

	if err != nil && err != mongo.ErrNoDocuments {
		metrics.IncDatabaseQuery("site-api", "mongodb", operation, "error")
	} else {
		metrics.IncDatabaseQuery("site-api", "mongodb", operation, "success")
	}

	return err
}
