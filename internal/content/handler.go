package content

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pipsite/internal/constants"
	"pipsite/internal/logger"
	"pipsite/pkg/errors"
)

type Handler struct {
	Service Service
	Logger  logger.Logger
}

func NewHandler(service Service, log logger.Logger) *Handler {
	return &Handler{
		Service: service,
		Logger:  log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		content := v1.Group("/content")
		{
			content.GET("/landing", h.GetLandingPage)
			content.GET("/settings", h.GetSiteSettings)
		}

		v1.GET("/pages", h.ListPages)
		v1.GET("/pages/:slug", h.GetPage)

		blog := v1.Group("/blog")
		{
			blog.GET("", h.ListBlogPosts)
			blog.GET("/:slug", h.GetBlogPost)
		}
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	h.Logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)

	status := errors.ToHTTPStatus(err)
	response := errors.ToErrorResponse(err)

	c.JSON(status, response)
}

// GetLandingPage godoc
// @Summary      Get the landing page
// @Description  Landing page content; falls back to built-in defaults when the store is unavailable
// @Tags         content
// @Produce      json
// @Success      200  {object}  LandingPage
// @Router       /api/v1/content/landing [get]
func (h *Handler) GetLandingPage(c *gin.Context) {
	page, err := h.Service.GetLandingPage(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetSiteSettings godoc
// @Summary      Get site settings
// @Tags         content
// @Produce      json
// @Success      200  {object}  SiteSettings
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      503  {object}  errors.ErrorResponse
// @Router       /api/v1/content/settings [get]
func (h *Handler) GetSiteSettings(c *gin.Context) {
	settings, err := h.Service.GetSiteSettings(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// ListPages godoc
// @Summary      List active pages
// @Description  Active pages ordered by title
// @Tags         content
// @Produce      json
// @Success      200  {array}   Page
// @Failure      503  {object}  errors.ErrorResponse
// @Router       /api/v1/pages [get]
func (h *Handler) ListPages(c *gin.Context) {
	pages, err := h.Service.ListPages(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, pages)
}

// GetPage godoc
// @Summary      Get a page by slug
// @Tags         content
// @Produce      json
// @Param        slug  path      string  true  "Page slug"
// @Success      200   {object}  Page
// @Failure      404   {object}  errors.ErrorResponse
// @Failure      503   {object}  errors.ErrorResponse
// @Router       /api/v1/pages/{slug} [get]
func (h *Handler) GetPage(c *gin.Context) {
	page, err := h.Service.GetPage(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// ListBlogPosts godoc
// @Summary      List published blog posts
// @Description  Newest first; pass featured=true for the featured subset
// @Tags         content
// @Produce      json
// @Param        featured  query     bool  false  "Only featured posts"
// @Param        limit     query     int   false  "Maximum number of posts to return (1-1000)" default(100)
// @Success      200       {array}   BlogPost
// @Failure      503       {object}  errors.ErrorResponse
// @Router       /api/v1/blog [get]
func (h *Handler) ListBlogPosts(c *gin.Context) {
	featured := c.Query("featured") == "true"
	limit := parseLimit(c.Query("limit"))

	posts, err := h.Service.ListBlogPosts(c.Request.Context(), featured, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetBlogPost godoc
// @Summary      Get a blog post by slug
// @Tags         content
// @Produce      json
// @Param        slug  path      string  true  "Post slug"
// @Success      200   {object}  BlogPost
// @Failure      404   {object}  errors.ErrorResponse
// @Failure      503   {object}  errors.ErrorResponse
// @Router       /api/v1/blog/{slug} [get]
func (h *Handler) GetBlogPost(c *gin.Context) {
	post, err := h.Service.GetBlogPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func parseLimit(limitStr string) int {
	if limitStr == "" {
		return constants.DefaultLimit
	}
	parsed, err := strconv.Atoi(limitStr)
	if err != nil || parsed <= 0 || parsed > constants.MaxLimit {
		return constants.DefaultLimit
	}
	return parsed
}
