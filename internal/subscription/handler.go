package subscription

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pipsite/internal/constants"
	"pipsite/internal/logger"
	"pipsite/pkg/errors"
)

type BaseHandler struct {
	Service Service
	Logger  logger.Logger
}

func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	h.Logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)

	status := errors.ToHTTPStatus(err)
	response := errors.ToErrorResponse(err)

	c.JSON(status, response)
}

type Handler struct {
	BaseHandler
}

func NewHandler(service Service, log logger.Logger) *Handler {
	return &Handler{
		BaseHandler: BaseHandler{
			Service: service,
			Logger:  log,
		},
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	emails := router.Group("/api/emails")
	{
		emails.POST("", h.SubmitEmail)
		emails.GET("", h.Status)
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/emails", h.ListSubmissions)
	}
}

// SubmitEmail godoc
// @Summary      Submit an email signup
// @Description  Validate, enrich and store a newsletter email submission
// @Tags         emails
// @Accept       json
// @Produce      json
// @Param        submission  body       SubmitEmailRequest  true  "Email submission"
// @Success      200         {object}   SubmitEmailResponse
// @Failure      400         {object}  errors.ErrorResponse
// @Failure      500         {object}  errors.ErrorResponse
// @Router       /api/emails [post]
func (h *Handler) SubmitEmail(c *gin.Context) {
	var req SubmitEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(
			errors.ErrValidation.WithMessage(MsgRequiredFields).WithCause(err)))
		return
	}

	meta := RequestMeta{
		IPAddress: clientIP(c),
		UserAgent: c.Request.UserAgent(),
	}

	resp, err := h.Service.SubmitEmail(c.Request.Context(), req, meta)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Status godoc
// @Summary      Email API status
// @Description  Identification response for the email endpoint
// @Tags         emails
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /api/emails [get]
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{Message: StatusMessage})
}

// ListSubmissions godoc
// @Summary      List email submissions
// @Description  Newest-first list of stored submissions, for operators
// @Tags         emails
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of submissions to return (1-1000)" default(100)
// @Success      200    {array}   EmailSubmission
// @Failure      500    {object}  errors.ErrorResponse
// @Router       /api/v1/emails [get]
func (h *Handler) ListSubmissions(c *gin.Context) {
	limit := parseLimit(c.Query("limit"))

	submissions, err := h.Service.ListSubmissions(c.Request.Context(), limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// clientIP resolves the visitor address the way the edge proxy presents
// it: first X-Forwarded-For entry, then X-Real-IP, then "unknown".
func clientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first := strings.Split(forwarded, ",")[0]
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}

	return constants.IPUnknown
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
