package subscription

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"pipsite/internal/constants"
	"pipsite/internal/logger"
)

func setupRouter(repo *fakeRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	svc := NewService(repo, &fakeSink{}, logger.NopLogger())
	handler := NewHandler(svc, logger.NopLogger())
	handler.RegisterRoutes(router)

	return router
}

func postEmail(router *gin.Engine, body map[string]interface{}, headers map[string]string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/emails", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSubmitEmailEndpoint_MissingFields(t *testing.T) {
	repo := &fakeRepository{}
	router := setupRouter(repo)

	w := postEmail(router, map[string]interface{}{}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, MsgRequiredFields, body["error"])
	assert.Equal(t, 0, repo.createCalls)
}

func TestSubmitEmailEndpoint_InvalidEmail(t *testing.T) {
	repo := &fakeRepository{}
	router := setupRouter(repo)

	w := postEmail(router, map[string]interface{}{
		"email":  "not-an-email",
		"source": constants.SourceHero,
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, MsgInvalidEmail, body["error"])
	assert.Equal(t, 0, repo.createCalls)
}

func TestSubmitEmailEndpoint_Success(t *testing.T) {
	repo := &fakeRepository{}
	router := setupRouter(repo)

	w := postEmail(router, map[string]interface{}{
		"email":     "user@example.com",
		"source":    constants.SourceHero,
		"utmSource": "newsletter",
	}, map[string]string{"User-Agent": "Mozilla/5.0"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, MsgSubmitted, body["message"])
	assert.NotEmpty(t, body["id"])
	assert.Nil(t, body["note"])

	require.Len(t, repo.submissions, 1)
	stored := repo.submissions[0]
	assert.Equal(t, "user@example.com", stored.Email)
	assert.Equal(t, "newsletter", stored.UTMSource)
	assert.Equal(t, "Mozilla/5.0", stored.UserAgent)
}

func TestSubmitEmailEndpoint_ForwardedForFirstEntry(t *testing.T) {
	repo := &fakeRepository{}
	router := setupRouter(repo)

	w := postEmail(router, map[string]interface{}{
		"email":  "user@example.com",
		"source": constants.SourceFooter,
	}, map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1, 172.16.0.3"})

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.submissions, 1)
	assert.Equal(t, "203.0.113.7", repo.submissions[0].IPAddress)
}

func TestSubmitEmailEndpoint_RealIPFallback(t *testing.T) {
	repo := &fakeRepository{}
	router := setupRouter(repo)

	w := postEmail(router, map[string]interface{}{
		"email":  "user@example.com",
		"source": constants.SourceFooter,
	}, map[string]string{"X-Real-IP": "198.51.100.4"})

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.submissions, 1)
	assert.Equal(t, "198.51.100.4", repo.submissions[0].IPAddress)
}

func TestSubmitEmailEndpoint_UnknownIPWithoutHeaders(t *testing.T) {
	repo := &fakeRepository{}
	router := setupRouter(repo)

	w := postEmail(router, map[string]interface{}{
		"email":  "user@example.com",
		"source": constants.SourceBlog,
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.submissions, 1)
	assert.Equal(t, constants.IPUnknown, repo.submissions[0].IPAddress)
}

func TestSubmitEmailEndpoint_AuthFailureFailsOpen(t *testing.T) {
	repo := &fakeRepository{
		createErr: mongo.CommandError{Code: 18, Message: "authentication failed"},
	}
	router := setupRouter(repo)

	w := postEmail(router, map[string]interface{}{
		"email":  "user@example.com",
		"source": constants.SourceHero,
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, MsgSubmitted, body["message"])
	assert.Equal(t, NoteAuthPending, body["note"])
}

func TestSubmitEmailEndpoint_StoreErrorIsGeneric(t *testing.T) {
	repo := &fakeRepository{createErr: errors.New("server selection timeout")}
	router := setupRouter(repo)

	w := postEmail(router, map[string]interface{}{
		"email":  "user@example.com",
		"source": constants.SourceHero,
	}, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, MsgSubmitFailed, body["error"])
	assert.NotContains(t, w.Body.String(), "server selection timeout")
}

func TestStatusEndpoint(t *testing.T) {
	router := setupRouter(&fakeRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/emails", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, StatusMessage, body["message"])
}

func TestListSubmissionsEndpoint(t *testing.T) {
	repo := &fakeRepository{}
	router := setupRouter(repo)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		w := postEmail(router, map[string]interface{}{
			"email":  email,
			"source": constants.SourceHero,
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/emails?limit=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var listed []EmailSubmission
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
	assert.Equal(t, 10, repo.lastLimit)
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty", input: "", want: constants.DefaultLimit},
		{name: "valid", input: "50", want: 50},
		{name: "zero", input: "0", want: constants.DefaultLimit},
		{name: "negative", input: "-5", want: constants.DefaultLimit},
		{name: "over max", input: "5000", want: constants.DefaultLimit},
		{name: "garbage", input: "abc", want: constants.DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLimit(tt.input))
		})
	}
}
