package content

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipsite/internal/logger"
)

func setupRouter(repo *fakeRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewHandler(newTestService(repo, nil), logger.NopLogger())
	handler.RegisterRoutes(router)

	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLandingEndpoint_AlwaysRenders(t *testing.T) {
	router := setupRouter(&fakeRepository{})

	w := get(router, "/api/v1/content/landing")

	assert.Equal(t, http.StatusOK, w.Code)
	var page LandingPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, DefaultLandingPage().Title, page.Title)
}

func TestSettingsEndpoint_NotFound(t *testing.T) {
	router := setupRouter(&fakeRepository{})

	w := get(router, "/api/v1/content/settings")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestPageEndpoint_BySlug(t *testing.T) {
	router := setupRouter(&fakeRepository{pages: map[string]*Page{
		"about": {Slug: "about", Title: "About us", Active: true},
	}})

	w := get(router, "/api/v1/pages/about")
	assert.Equal(t, http.StatusOK, w.Code)

	w = get(router, "/api/v1/pages/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPagesEndpoint_ListsActivePages(t *testing.T) {
	router := setupRouter(&fakeRepository{pages: map[string]*Page{
		"about": {Slug: "about", Title: "About us", Active: true},
		"draft": {Slug: "draft", Title: "Draft", Active: false},
	}})

	w := get(router, "/api/v1/pages")

	assert.Equal(t, http.StatusOK, w.Code)
	var pages []Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pages))
	require.Len(t, pages, 1)
	assert.Equal(t, "about", pages[0].Slug)
}

func TestBlogEndpoint_FeaturedQuery(t *testing.T) {
	repo := &fakeRepository{posts: []BlogPost{{Slug: "launch"}}}
	router := setupRouter(repo)

	w := get(router, "/api/v1/blog?featured=true&limit=5")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.lastFeatured)
	assert.Equal(t, 5, repo.lastLimit)

	w = get(router, "/api/v1/blog")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, repo.lastFeatured)
}

func TestBlogPostEndpoint_BySlug(t *testing.T) {
	router := setupRouter(&fakeRepository{posts: []BlogPost{
		{Slug: "launch", Title: "We launched"},
	}})

	w := get(router, "/api/v1/blog/launch")
	assert.Equal(t, http.StatusOK, w.Code)

	var post BlogPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
	assert.Equal(t, "We launched", post.Title)

	w = get(router, "/api/v1/blog/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
