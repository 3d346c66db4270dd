package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ithomeportal/unilink-energy/config"
	"github.com/ithomeportal/unilink-energy/internal/utils"
)

const testSecret = "gate-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Env:         "development",
		JWTSecret:   testSecret,
		LoginPath:   "/login",
		FrontendURL: "http://localhost:3000",
	}
}

func gatedRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(SessionGate(cfg))
	ok := func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(SessionEmailKey))
	}
	r.GET("/dashboard", ok)
	r.GET("/login", ok)
	r.GET("/api/health", ok)
	r.POST("/api/auth/initiate", ok)
	r.GET("/logo.png", ok)
	r.GET("/_next/static/chunk", ok)
	return r
}

func TestIsPublicPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/login", true},
		{"/api/auth/initiate", true},
		{"/api/auth/verify", true},
		{"/api/health", true},
		{"/swagger/index.html", true},
		{"/_next/static/app.js", true},
		{"/favicon.ico", true},
		{"/images/truck.webp", true},
		{"/fonts/inter.woff2", true},
		{"/reports/chart.SVG", true},
		{"/", false},
		{"/dashboard", false},
		{"/api/emissions", false},
		{"/loginx", false},
		{"/report.pdf", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPublicPath(tt.path, "/login"))
		})
	}
}

func TestSessionGate_PublicPathsPass(t *testing.T) {
	r := gatedRouter(testConfig())
	for _, p := range []string{"/login", "/api/health", "/logo.png", "/_next/static/chunk"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusOK, w.Code, p)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/initiate", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionGate_MissingCookieRedirects(t *testing.T) {
	r := gatedRouter(testConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?returnUrl=%2Fdashboard", w.Header().Get("Location"))
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestSessionGate_InvalidCookieClearedAndRedirected(t *testing.T) {
	r := gatedRouter(testConfig())

	expired, _, err := utils.GenerateSessionToken("jane@acme.com", testSecret, time.Now().Add(-9*time.Hour), 8*time.Hour)
	require.NoError(t, err)
	forged, _, err := utils.GenerateSessionToken("jane@acme.com", "other-secret", time.Now(), 8*time.Hour)
	require.NoError(t, err)

	for name, token := range map[string]string{"expired": expired, "forged": forged, "garbage": "not.a.jwt"} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: token})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/login?returnUrl=%2Fdashboard", w.Header().Get("Location"))
			cookie := w.Header().Get("Set-Cookie")
			assert.True(t, strings.HasPrefix(cookie, utils.SessionCookieName+"=;"), cookie)
			assert.Contains(t, cookie, "Max-Age=0")
		})
	}
}

func TestSessionGate_ValidCookiePasses(t *testing.T) {
	r := gatedRouter(testConfig())

	token, _, err := utils.GenerateSessionToken("jane@acme.com", testSecret, time.Now(), 8*time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jane@acme.com", w.Body.String())
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(testConfig()))
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/health", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, given)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, given, w.Header().Get(RequestIDHeader))
}
