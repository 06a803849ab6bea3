package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpcontext "github.com/dtroode/blog-server/internal/api/http/context"
	"github.com/dtroode/blog-server/internal/api/http/handler"
	"github.com/dtroode/blog-server/internal/metrics"
	"github.com/dtroode/blog-server/internal/mocks"
	"github.com/dtroode/blog-server/internal/model"
	"github.com/dtroode/blog-server/internal/testutil"
)

func newTestEngine(t *testing.T, origins []string) (*gin.Engine, *mocks.AuthService, *mocks.Authenticator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService := mocks.NewAuthService(t)
	authenticator := mocks.NewAuthenticator(t)
	r := New(authService, authenticator, httpcontext.NewManager(), metrics.New(), Options{
		CORSAllowedOrigins: origins,
		Cookies:            handler.CookieOptions{AccessMaxAge: time.Minute, RefreshMaxAge: time.Hour},
	}, testutil.MakeNoopLogger())

	return r.Register(), authService, authenticator
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthCheck(t *testing.T) {
	engine, _, _ := newTestEngine(t, nil)

	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/healthCheck", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Health check is done")
}

func TestRouter_GatedRoutesRequireToken(t *testing.T) {
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/users/logout"},
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodPost, "/api/v1/users/send-verification-code"},
		{http.MethodPost, "/api/v1/users/check-verification-code"},
		{http.MethodPatch, "/api/v1/users/changePassword"},
		{http.MethodPatch, "/api/v1/users/phoneNumber"},
	}

	for _, rt := range routes {
		t.Run(rt.path, func(t *testing.T) {
			engine, _, authenticator := newTestEngine(t, nil)
			authenticator.On("Authenticate", mock.Anything, "").Return(model.Identity{}, model.ErrMissingAccessToken).Once()

			rec := serve(engine, httptest.NewRequest(rt.method, rt.path, nil))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"success":false,"message":"unauthorized"}`, rec.Body.String())
		})
	}
}

func TestRouter_GatedRouteWithToken(t *testing.T) {
	engine, authService, authenticator := newTestEngine(t, nil)
	identity := model.Identity{AccountID: uuid.New(), Username: "jane"}

	authenticator.On("Authenticate", mock.Anything, "good").Return(identity, nil).Once()
	authService.On("GetAccount", mock.Anything, identity.AccountID).Return(model.Account{ID: identity.AccountID}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := serve(engine, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_PublicRoutesSkipGate(t *testing.T) {
	engine, authService, _ := newTestEngine(t, nil)
	authService.On("Refresh", mock.Anything, "").Return(model.Session{}, assert.AnError).Once()

	rec := serve(engine, httptest.NewRequest(http.MethodPost, "/api/v1/refresh-token", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	engine, _, _ := newTestEngine(t, nil)

	_ = serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/healthCheck", nil))
	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `blog_http_request_duration_seconds_count{method="GET",route="/api/v1/healthCheck",status="200"} 1`)
}

func TestRouter_NoRoute(t *testing.T) {
	engine, _, _ := newTestEngine(t, nil)

	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/blogs", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"route not found"}`, rec.Body.String())
}

func TestRouter_CORS(t *testing.T) {
	engine, _, _ := newTestEngine(t, []string{"https://blog.example.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/users/login", nil)
	req.Header.Set("Origin", "https://blog.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(engine, req)

	assert.Equal(t, "https://blog.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/users/login", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = serve(engine, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
