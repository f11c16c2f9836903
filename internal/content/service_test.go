package content

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipsite/internal/constants"
	"pipsite/internal/logger"
	"pipsite/pkg/circuitbreaker"
	pkgerrors "pipsite/pkg/errors"
	"pipsite/pkg/metrics"
)

type fakeRepository struct {
	landing  *LandingPage
	settings *SiteSettings
	pages    map[string]*Page
	posts    []BlogPost
	err      error

	landingCalls int
	lastLimit    int
	lastFeatured bool
}

func (r *fakeRepository) GetLandingPage(ctx context.Context) (*LandingPage, error) {
	r.landingCalls++
	if r.err != nil {
		return nil, r.err
	}
	return r.landing, nil
}

func (r *fakeRepository) GetSiteSettings(ctx context.Context) (*SiteSettings, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.settings, nil
}

func (r *fakeRepository) GetPageBySlug(ctx context.Context, slug string) (*Page, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.pages[slug], nil
}

func (r *fakeRepository) ListPages(ctx context.Context) ([]Page, error) {
	if r.err != nil {
		return nil, r.err
	}
	var pages []Page
	for _, page := range r.pages {
		if page.Active {
			pages = append(pages, *page)
		}
	}
	return pages, nil
}

func (r *fakeRepository) ListBlogPosts(ctx context.Context, featuredOnly bool, limit int) ([]BlogPost, error) {
	r.lastFeatured = featuredOnly
	r.lastLimit = limit
	if r.err != nil {
		return nil, r.err
	}
	return r.posts, nil
}

func (r *fakeRepository) GetBlogPostBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.posts {
		if r.posts[i].Slug == slug {
			return &r.posts[i], nil
		}
	}
	return nil, nil
}

func newTestService(repo *fakeRepository, breaker *circuitbreaker.Wrapper) Service {
	return NewService(repo, NewCache(nil, 0), breaker, logger.NopLogger())
}

func TestGetLandingPage_FromStore(t *testing.T) {
	stored := &LandingPage{Title: "Custom landing"}
	svc := newTestService(&fakeRepository{landing: stored}, nil)

	page, err := svc.GetLandingPage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Custom landing", page.Title)
}

func TestGetLandingPage_FallsBackOnStoreError(t *testing.T) {
	svc := newTestService(&fakeRepository{err: errors.New("connection refused")}, nil)

	page, err := svc.GetLandingPage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, DefaultLandingPage().Title, page.Title)
	assert.NotEmpty(t, page.Hero.Headline)
	assert.NotEmpty(t, page.Features)
}

func TestGetLandingPage_FallsBackWhenMissing(t *testing.T) {
	svc := newTestService(&fakeRepository{}, nil)

	page, err := svc.GetLandingPage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, DefaultLandingPage().Title, page.Title)
}

func TestGetLandingPage_FallsBackWhenBreakerOpen(t *testing.T) {
	repo := &fakeRepository{err: errors.New("connection refused")}
	breaker := circuitbreaker.NewWrapper(circuitbreaker.Config{
		Name:        "content-store-test",
		MaxRequests: 1,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
	})
	svc := newTestService(repo, breaker)

	// Drive the breaker open, then verify requests still get the fallback
	// without reaching the store.
	for i := 0; i < 5; i++ {
		page, err := svc.GetLandingPage(context.Background())
		require.NoError(t, err)
		assert.Equal(t, DefaultLandingPage().Title, page.Title)
	}

	require.True(t, breaker.IsOpen())
	callsWhenOpen := repo.landingCalls

	page, err := svc.GetLandingPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultLandingPage().Title, page.Title)
	assert.Equal(t, callsWhenOpen, repo.landingCalls)
}

func TestGetSiteSettings_NotFound(t *testing.T) {
	svc := newTestService(&fakeRepository{}, nil)

	settings, err := svc.GetSiteSettings(context.Background())

	assert.Nil(t, settings)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestGetSiteSettings_StoreError(t *testing.T) {
	svc := newTestService(&fakeRepository{err: errors.New("connection refused")}, nil)

	settings, err := svc.GetSiteSettings(context.Background())

	assert.Nil(t, settings)
	require.Error(t, err)
	assert.Equal(t, 503, pkgerrors.ToHTTPStatus(err))
}

func TestGetPage_BySlug(t *testing.T) {
	repo := &fakeRepository{pages: map[string]*Page{
		"about": {Slug: "about", Title: "About us", Active: true},
	}}
	svc := newTestService(repo, nil)

	page, err := svc.GetPage(context.Background(), "about")
	require.NoError(t, err)
	assert.Equal(t, "About us", page.Title)

	_, err = svc.GetPage(context.Background(), "missing")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestListPages_ReturnsActivePages(t *testing.T) {
	repo := &fakeRepository{pages: map[string]*Page{
		"about": {Slug: "about", Title: "About us", Active: true},
	}}
	svc := newTestService(repo, nil)

	pages, err := svc.ListPages(context.Background())

	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "about", pages[0].Slug)
}

func TestListPages_EmptyIsNotNil(t *testing.T) {
	svc := newTestService(&fakeRepository{}, nil)

	pages, err := svc.ListPages(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, pages)
	assert.Empty(t, pages)
}

func TestListPages_StoreError(t *testing.T) {
	svc := newTestService(&fakeRepository{err: errors.New("connection refused")}, nil)

	pages, err := svc.ListPages(context.Background())

	assert.Nil(t, pages)
	require.Error(t, err)
	assert.Equal(t, 503, pkgerrors.ToHTTPStatus(err))
}

func TestStoreRead_ObservesDuration(t *testing.T) {
	svc := newTestService(&fakeRepository{settings: &SiteSettings{SiteName: "MyPip"}}, nil)

	metrics.ContentStoreDuration.Reset()

	_, err := svc.GetSiteSettings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, testutil.CollectAndCount(metrics.ContentStoreDuration))
}

func TestListBlogPosts_ClampsLimit(t *testing.T) {
	repo := &fakeRepository{posts: []BlogPost{{Slug: "first"}}}
	svc := newTestService(repo, nil)

	_, err := svc.ListBlogPosts(context.Background(), false, 0)
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultLimit, repo.lastLimit)

	_, err = svc.ListBlogPosts(context.Background(), true, constants.MaxLimit+1)
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultLimit, repo.lastLimit)
	assert.True(t, repo.lastFeatured)
}

func TestListBlogPosts_EmptyIsNotNil(t *testing.T) {
	svc := newTestService(&fakeRepository{}, nil)

	posts, err := svc.ListBlogPosts(context.Background(), false, 10)

	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestGetBlogPost_BySlug(t *testing.T) {
	repo := &fakeRepository{posts: []BlogPost{
		{Slug: "launch", Title: "We launched"},
	}}
	svc := newTestService(repo, nil)

	post, err := svc.GetBlogPost(context.Background(), "launch")
	require.NoError(t, err)
	assert.Equal(t, "We launched", post.Title)

	_, err = svc.GetBlogPost(context.Background(), "missing")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestWarmup_ToleratesMissingSettings(t *testing.T) {
	svc := newTestService(&fakeRepository{landing: &LandingPage{Title: "Custom"}}, nil)

	assert.NoError(t, svc.Warmup(context.Background()))
}

func TestWarmup_SurfacesSettingsStoreError(t *testing.T) {
	repo := &fakeRepository{
		settings: &SiteSettings{SiteName: "MyPip"},
		err:      errors.New("connection refused"),
	}
	svc := newTestService(repo, nil)

	assert.Error(t, svc.Warmup(context.Background()))
}
