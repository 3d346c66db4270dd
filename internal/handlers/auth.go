package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ithomeportal/unilink-energy/config"
	"github.com/ithomeportal/unilink-energy/internal/models"
	"github.com/ithomeportal/unilink-energy/internal/services"
	"github.com/ithomeportal/unilink-energy/internal/utils"
)

// Authenticator is the two-step login flow the auth endpoints drive.
type Authenticator interface {
	Initiate(ctx context.Context, password, email string, client services.ClientInfo) (*services.InitiateResult, error)
	Verify(ctx context.Context, email, code string, client services.ClientInfo) (*services.VerifyResult, error)
}

type AuthHandler struct {
	cfg    *config.Config
	auth   Authenticator
	logger zerolog.Logger
}

func NewAuthHandler(cfg *config.Config, auth Authenticator, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		auth:   auth,
		logger: logger,
	}
}

// Initiate godoc
// @Summary Start a login
// @Description Checks the site password and corporate email, then emails an 8-digit verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body models.InitiateRequest true "Site password and email"
// @Success 200 {object} models.InitiateResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /auth/initiate [post]
func (h *AuthHandler) Initiate(c *gin.Context) {
	var req models.InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Password and email are required"})
		return
	}

	res, err := h.auth.Initiate(c.Request.Context(), req.Password, req.Email, clientInfo(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.InitiateResponse{
		Success:   true,
		Message:   "Verification code sent to your email",
		ExpiresAt: res.ExpiresAt,
	})
}

// Verify godoc
// @Summary Complete a login
// @Description Checks the emailed code and sets the auth_session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body models.VerifyRequest true "Email and code"
// @Success 200 {object} models.VerifyResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Email and verification code are required"})
		return
	}

	res, err := h.auth.Verify(c.Request.Context(), req.Email, req.Code, clientInfo(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	http.SetCookie(c.Writer, utils.NewSessionCookie(res.SessionToken, res.SessionExpiresAt, h.cfg.IsProduction()))
	c.JSON(http.StatusOK, models.VerifyResponse{
		Success: true,
		Message: "Login successful",
	})
}

// Logout godoc
// @Summary Log out
// @Description Clears the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} models.VerifyResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, utils.ExpiredSessionCookie(h.cfg.IsProduction()))
	c.JSON(http.StatusOK, models.VerifyResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

// Session godoc
// @Summary Current session
// @Description Returns the email bound to the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} models.SessionResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	token, err := c.Cookie(utils.SessionCookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Not authenticated"})
		return
	}

	claims, err := utils.ValidateSessionToken(token, h.cfg.JWTSecret)
	if err != nil {
		http.SetCookie(c.Writer, utils.ExpiredSessionCookie(h.cfg.IsProduction()))
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Session expired"})
		return
	}

	c.JSON(http.StatusOK, models.SessionResponse{
		Success:   true,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

func (h *AuthHandler) writeError(c *gin.Context, err error) {
	var authErr *services.AuthError
	if !errors.As(err, &authErr) {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected auth failure")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "An error occurred. Please try again."})
		return
	}
	if authErr.Status >= http.StatusInternalServerError {
		h.logger.Error().Err(authErr).Str("path", c.FullPath()).Msg("auth request failed")
	}
	c.JSON(authErr.Status, models.ErrorResponse{Error: authErr.Message})
}

// clientInfo identifies the caller: first X-Forwarded-For hop, then
// X-Real-IP, else loopback.
func clientInfo(c *gin.Context) services.ClientInfo {
	ip := utils.FirstForwardedFor(c.GetHeader("X-Forwarded-For"))
	if ip == "" {
		ip = strings.TrimSpace(c.GetHeader("X-Real-IP"))
	}
	if ip == "" {
		ip = "127.0.0.1"
	}

	ua := c.GetHeader("User-Agent")
	if ua == "" {
		ua = "Unknown"
	}
	return services.ClientInfo{IPAddress: ip, UserAgent: ua}
}
