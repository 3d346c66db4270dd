package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ithomeportal/unilink-energy/config"
	"github.com/ithomeportal/unilink-energy/internal/models"
	"github.com/ithomeportal/unilink-energy/internal/services"
	"github.com/ithomeportal/unilink-energy/internal/utils"
)

const testSecret = "handler-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubAuth struct {
	initiateErr error
	verifyErr   error
	client      services.ClientInfo
	email       string
}

func (s *stubAuth) Initiate(_ context.Context, _, email string, client services.ClientInfo) (*services.InitiateResult, error) {
	s.email, s.client = email, client
	if s.initiateErr != nil {
		return nil, s.initiateErr
	}
	return &services.InitiateResult{ExpiresAt: time.Date(2025, 6, 2, 15, 10, 0, 0, time.UTC)}, nil
}

func (s *stubAuth) Verify(_ context.Context, email, _ string, client services.ClientInfo) (*services.VerifyResult, error) {
	s.email, s.client = email, client
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	expires := time.Now().Add(8 * time.Hour)
	token, _, err := utils.GenerateSessionToken(email, testSecret, time.Now(), 8*time.Hour)
	if err != nil {
		return nil, err
	}
	return &services.VerifyResult{Email: email, SessionToken: token, SessionExpiresAt: expires}, nil
}

func authRouter(cfg *config.Config, auth Authenticator) *gin.Engine {
	h := NewAuthHandler(cfg, auth, zerolog.Nop())
	r := gin.New()
	r.POST("/api/auth/initiate", h.Initiate)
	r.POST("/api/auth/verify", h.Verify)
	r.POST("/api/auth/logout", h.Logout)
	r.GET("/api/auth/session", h.Session)
	return r
}

func post(r http.Handler, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestInitiate_Success(t *testing.T) {
	auth := &stubAuth{}
	r := authRouter(&config.Config{JWTSecret: testSecret}, auth)

	w := post(r, "/api/auth/initiate", `{"password":"pw","email":"jane@acme.com"}`, map[string]string{
		"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
		"User-Agent":      "Mozilla/5.0",
	})

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.InitiateResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Verification code sent to your email", resp.Message)
	assert.NotContains(t, w.Body.String(), "code\"")
	assert.Equal(t, "203.0.113.7", auth.client.IPAddress)
	assert.Equal(t, "Mozilla/5.0", auth.client.UserAgent)
}

func TestInitiate_ClientInfoFallbacks(t *testing.T) {
	auth := &stubAuth{}
	r := authRouter(&config.Config{}, auth)

	post(r, "/api/auth/initiate", `{"password":"pw","email":"jane@acme.com"}`, map[string]string{"X-Real-IP": "198.51.100.2"})
	assert.Equal(t, "198.51.100.2", auth.client.IPAddress)
	assert.Equal(t, "Unknown", auth.client.UserAgent)

	post(r, "/api/auth/initiate", `{"password":"pw","email":"jane@acme.com"}`, nil)
	assert.Equal(t, "127.0.0.1", auth.client.IPAddress)
}

func TestInitiate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		msg    string
	}{
		{"malformed body", `{`, nil, http.StatusBadRequest, "Password and email are required"},
		{"auth error", `{"password":"x","email":"a@gmail.com"}`,
			&services.AuthError{Status: http.StatusUnauthorized, Code: services.CodeInvalidPassword, Message: "Invalid password"},
			http.StatusUnauthorized, "Invalid password"},
		{"unexpected error", `{"password":"x","email":"a@b.com"}`, errors.New("boom"),
			http.StatusInternalServerError, "An error occurred. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := authRouter(&config.Config{}, &stubAuth{initiateErr: tt.err})
			w := post(r, "/api/auth/initiate", tt.body, nil)

			assert.Equal(t, tt.status, w.Code)
			resp := decode[models.ErrorResponse](t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.msg, resp.Error)
		})
	}
}

func TestVerify_SetsSessionCookie(t *testing.T) {
	r := authRouter(&config.Config{Env: "production", JWTSecret: testSecret}, &stubAuth{})

	w := post(r, "/api/auth/verify", `{"email":"jane@acme.com","code":"12345678"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[models.VerifyResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "Login successful", resp.Message)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, utils.SessionCookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)
	assert.InDelta(t, (8 * time.Hour).Seconds(), float64(c.MaxAge), 5)

	claims, err := utils.ValidateSessionToken(c.Value, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "jane@acme.com", claims.Email)
}

func TestVerify_NotSecureOutsideProduction(t *testing.T) {
	r := authRouter(&config.Config{Env: "development", JWTSecret: testSecret}, &stubAuth{})

	w := post(r, "/api/auth/verify", `{"email":"jane@acme.com","code":"12345678"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, w.Result().Cookies(), 1)
	assert.False(t, w.Result().Cookies()[0].Secure)
}

func TestVerify_RejectedSetsNoCookie(t *testing.T) {
	authErr := &services.AuthError{Status: http.StatusBadRequest, Code: services.CodeInvalidCode, Message: "Invalid code. 2 attempts remaining."}
	r := authRouter(&config.Config{}, &stubAuth{verifyErr: authErr})

	w := post(r, "/api/auth/verify", `{"email":"jane@acme.com","code":"00000000"}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, "Invalid code. 2 attempts remaining.", decode[models.ErrorResponse](t, w).Error)
}

func TestLogout_ClearsCookie(t *testing.T) {
	r := authRouter(&config.Config{}, &stubAuth{})

	w := post(r, "/api/auth/logout", ``, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, w.Result().Cookies(), 1)
	assert.Equal(t, -1, w.Result().Cookies()[0].MaxAge)
}

func TestSession(t *testing.T) {
	r := authRouter(&config.Config{JWTSecret: testSecret}, &stubAuth{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, expiresAt, err := utils.GenerateSessionToken("jane@acme.com", testSecret, time.Now(), time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookieName, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.SessionResponse](t, w)
	assert.Equal(t, "jane@acme.com", resp.Email)
	assert.WithinDuration(t, expiresAt, resp.ExpiresAt, time.Second)
}

type stubSource struct {
	result      services.EmissionsResult
	invalidated int
}

func (s *stubSource) Get(context.Context) services.EmissionsResult { return s.result }
func (s *stubSource) Invalidate()                                  { s.invalidated++ }

func emissionsRouter(src EmissionsSource) *gin.Engine {
	h := NewEmissionsHandler(src)
	r := gin.New()
	r.GET("/api/emissions", h.GetEmissions)
	r.POST("/api/emissions/refresh", h.Refresh)
	r.GET("/api/emissions/states", h.SearchStates)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetEmissions(t *testing.T) {
	data := services.DemoDataset{}.Dataset(time.Now())
	src := &stubSource{result: services.EmissionsResult{Data: data, Cached: true}}

	w := get(emissionsRouter(src), "/api/emissions")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[models.EmissionsResponse](t, w)
	assert.True(t, resp.Success)
	assert.True(t, resp.Cached)
	assert.False(t, resp.Demo)
	assert.Empty(t, resp.Error)
	require.NotNil(t, resp.Data)
	assert.Equal(t, data.Summary.TotalOrders, resp.Data.Summary.TotalOrders)
	assert.Len(t, resp.Data.TopRoutes, 10)
}

func TestGetEmissions_DemoWithErrorIsStill200(t *testing.T) {
	src := &stubSource{result: services.EmissionsResult{
		Data: services.DemoDataset{}.Dataset(time.Now()),
		Demo: true,
		Err:  errors.New("list shipments: connection refused"),
	}}

	w := get(emissionsRouter(src), "/api/emissions")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[models.EmissionsResponse](t, w)
	assert.True(t, resp.Success)
	assert.True(t, resp.Demo)
	assert.Equal(t, "list shipments: connection refused", resp.Error)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "cached")
}

func TestRefresh_Invalidates(t *testing.T) {
	src := &stubSource{result: services.EmissionsResult{Data: &models.EmissionsData{}}}

	w := post(emissionsRouter(src), "/api/emissions/refresh", ``, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, src.invalidated)
}

func TestSearchStates(t *testing.T) {
	src := &stubSource{result: services.EmissionsResult{Data: services.DemoDataset{}.Dataset(time.Now())}}
	r := emissionsRouter(src)

	resp := decode[models.StateSearchResponse](t, get(r, "/api/emissions/states?q=texas"))
	assert.True(t, resp.Success)
	assert.Equal(t, "texas", resp.Query)
	require.NotEmpty(t, resp.States)
	assert.Equal(t, "TX", resp.States[0].State)

	w := get(r, "/api/emissions/states?q=zzz")
	assert.Contains(t, w.Body.String(), `"states":[]`)
}

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/api/health", Health("postgres"))

	resp := decode[HealthResponse](t, get(r, "/api/health"))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "postgres", resp.Store)
}
