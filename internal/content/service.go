package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"pipsite/internal/constants"
	"pipsite/internal/logger"
	"pipsite/pkg/circuitbreaker"
	pkgerrors "pipsite/pkg/errors"
	"pipsite/pkg/metrics"
)

type Service interface {
	GetLandingPage(ctx context.Context) (*LandingPage, error)
	GetSiteSettings(ctx context.Context) (*SiteSettings, error)
	GetPage(ctx context.Context, slug string) (*Page, error)
	ListPages(ctx context.Context) ([]Page, error)
	ListBlogPosts(ctx context.Context, featuredOnly bool, limit int) ([]BlogPost, error)
	GetBlogPost(ctx context.Context, slug string) (*BlogPost, error)
	Warmup(ctx context.Context) error
}

type service struct {
	repo    Repository
	cache   *Cache
	breaker *circuitbreaker.Wrapper
	logger  logger.Logger
}

func NewService(repo Repository, cache *Cache, breaker *circuitbreaker.Wrapper, log logger.Logger) Service {
	return &service{
		repo:    repo,
		cache:   cache,
		breaker: breaker,
		logger:  log,
	}
}

func (s *service) GetLandingPage(ctx context.Context) (*LandingPage, error) {
	var cached LandingPage
	if s.cacheGet(ctx, "landing", &cached) {
		metrics.IncContentFetch("landing", "cache")
		return &cached, nil
	}

	result, err := s.storeRead(ctx, "landing", func(ctx context.Context) (interface{}, error) {
		return s.repo.GetLandingPage(ctx)
	})
	if err != nil {
		// The landing page must always render; serve the built-in copy.
		reason := storeFailureReason(err)
		metrics.IncFallbackUsage("landing", reason)
		metrics.IncContentFetch("landing", "fallback")
		s.logger.WarnwCtx(ctx, "Serving default landing page",
			"reason", reason,
			"error", err,
		)
		return DefaultLandingPage(), nil
	}

	page := result.(*LandingPage)
	if page == nil {
		metrics.IncFallbackUsage("landing", "missing")
		metrics.IncContentFetch("landing", "fallback")
		return DefaultLandingPage(), nil
	}

	s.cacheSet(ctx, "landing", page)
	metrics.IncContentFetch("landing", "store")
	return page, nil
}

func (s *service) GetSiteSettings(ctx context.Context) (*SiteSettings, error) {
	var cached SiteSettings
	if s.cacheGet(ctx, "settings", &cached) {
		metrics.IncContentFetch("settings", "cache")
		return &cached, nil
	}

	result, err := s.storeRead(ctx, "settings", func(ctx context.Context) (interface{}, error) {
		return s.repo.GetSiteSettings(ctx)
	})
	if err != nil {
		metrics.IncContentFetch("settings", "error")
		return nil, pkgerrors.ErrServiceUnavailable.WithCause(err)
	}

	settings := result.(*SiteSettings)
	if settings == nil {
		metrics.IncContentFetch("settings", "miss")
		return nil, pkgerrors.ErrNotFound.WithDetail("resource", "settings")
	}

	s.cacheSet(ctx, "settings", settings)
	metrics.IncContentFetch("settings", "store")
	return settings, nil
}

func (s *service) GetPage(ctx context.Context, slug string) (*Page, error) {
	key := "page:" + slug

	var cached Page
	if s.cacheGet(ctx, key, &cached) {
		metrics.IncContentFetch("page", "cache")
		return &cached, nil
	}

	result, err := s.storeRead(ctx, "page", func(ctx context.Context) (interface{}, error) {
		return s.repo.GetPageBySlug(ctx, slug)
	})
	if err != nil {
		metrics.IncContentFetch("page", "error")
		return nil, pkgerrors.ErrServiceUnavailable.WithCause(err)
	}

	page := result.(*Page)
	if page == nil {
		metrics.IncContentFetch("page", "miss")
		return nil, pkgerrors.ErrNotFound.WithDetail("slug", slug)
	}

	s.cacheSet(ctx, key, page)
	metrics.IncContentFetch("page", "store")
	return page, nil
}

func (s *service) ListPages(ctx context.Context) ([]Page, error) {
	var cached []Page
	if s.cacheGet(ctx, "pages", &cached) {
		metrics.IncContentFetch("pages", "cache")
		return cached, nil
	}

	result, err := s.storeRead(ctx, "pages", func(ctx context.Context) (interface{}, error) {
		return s.repo.ListPages(ctx)
	})
	if err != nil {
		metrics.IncContentFetch("pages", "error")
		return nil, pkgerrors.ErrServiceUnavailable.WithCause(err)
	}

	pages := result.([]Page)
	if pages == nil {
		pages = []Page{}
	}

	s.cacheSet(ctx, "pages", pages)
	metrics.IncContentFetch("pages", "store")
	return pages, nil
}

func (s *service) ListBlogPosts(ctx context.Context, featuredOnly bool, limit int) ([]BlogPost, error) {
	if limit <= 0 || limit > constants.MaxLimit {
		limit = constants.DefaultLimit
	}
	key := fmt.Sprintf("blog:featured=%t:limit=%d", featuredOnly, limit)

	var cached []BlogPost
	if s.cacheGet(ctx, key, &cached) {
		metrics.IncContentFetch("blog", "cache")
		return cached, nil
	}

	result, err := s.storeRead(ctx, "blog", func(ctx context.Context) (interface{}, error) {
		return s.repo.ListBlogPosts(ctx, featuredOnly, limit)
	})
	if err != nil {
		metrics.IncContentFetch("blog", "error")
		return nil, pkgerrors.ErrServiceUnavailable.WithCause(err)
	}

	posts := result.([]BlogPost)
	if posts == nil {
		posts = []BlogPost{}
	}

	s.cacheSet(ctx, key, posts)
	metrics.IncContentFetch("blog", "store")
	return posts, nil
}

func (s *service) GetBlogPost(ctx context.Context, slug string) (*BlogPost, error) {
	key := "blog:" + slug

	var cached BlogPost
	if s.cacheGet(ctx, key, &cached) {
		metrics.IncContentFetch("blog_post", "cache")
		return &cached, nil
	}

	result, err := s.storeRead(ctx, "blog_post", func(ctx context.Context) (interface{}, error) {
		return s.repo.GetBlogPostBySlug(ctx, slug)
	})
	if err != nil {
		metrics.IncContentFetch("blog_post", "error")
		return nil, pkgerrors.ErrServiceUnavailable.WithCause(err)
	}

	post := result.(*BlogPost)
	if post == nil {
		metrics.IncContentFetch("blog_post", "miss")
		return nil, pkgerrors.ErrNotFound.WithDetail("slug", slug)
	}

	s.cacheSet(ctx, key, post)
	metrics.IncContentFetch("blog_post", "store")
	return post, nil
}

// Warmup primes the cache for the two documents every page load needs.
func (s *service) Warmup(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := s.GetLandingPage(ctx)
		return err
	})

	g.Go(func() error {
		_, err := s.GetSiteSettings(ctx)
		if pkgerrors.IsNotFound(err) {
			return nil
		}
		return err
	})

	return g.Wait()
}

func (s *service) storeRead(ctx context.Context, resource string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	readCtx, cancel := context.WithTimeout(ctx, constants.StoreReadTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.ObserveContentStoreDuration(resource, time.Since(start))
	}()

	if s.breaker == nil {
		return fn(readCtx)
	}

	result, err := s.breaker.ExecuteWithContext(readCtx, func() (interface{}, error) {
		return fn(readCtx)
	})
	s.breaker.RecordRequest(err == nil)
	return result, err
}

func (s *service) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		// A broken cache degrades to direct store reads.
		metrics.IncCacheLookup(key, "error")
		s.logger.WarnwCtx(ctx, "Content cache read failed", "key", key, "error", err)
		return false
	}
	if hit {
		metrics.IncCacheLookup(key, "hit")
		return true
	}
	metrics.IncCacheLookup(key, "miss")
	return false
}

func (s *service) cacheSet(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.WarnwCtx(ctx, "Content cache write failed", "key", key, "error", err)
	}
}

func storeFailureReason(err error) string {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "breaker_open"
	}
	return "store_error"
}
