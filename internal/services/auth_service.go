package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ithomeportal/unilink-energy/internal/models"
	"github.com/ithomeportal/unilink-energy/internal/repository"
	"github.com/ithomeportal/unilink-energy/internal/utils"
)

// Auth error codes surfaced to clients.
const (
	CodeInvalidInput    = "invalid_input"
	CodeInvalidPassword = "invalid_password"
	CodeBlockedDomain   = "blocked_domain"
	CodeEmailFailed     = "email_failed"
	CodeNoPending       = "no_pending_verification"
	CodeExpired         = "code_expired"
	CodeMaxAttempts     = "max_attempts"
	CodeInvalidCode     = "invalid_code"
	CodeServerError     = "server_error"
)

// AuthError is a rejected login step. Status is the HTTP status the boundary
// should answer with; Message is safe to show to the user.
type AuthError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

func authError(status int, code, message string) *AuthError {
	return &AuthError{Status: status, Code: code, Message: message}
}

func serverError(err error) *AuthError {
	return &AuthError{
		Status:  http.StatusInternalServerError,
		Code:    CodeServerError,
		Message: "An error occurred. Please try again.",
		Err:     err,
	}
}

// ClientInfo identifies the caller for the audit log.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

type InitiateResult struct {
	ExpiresAt time.Time
}

type VerifyResult struct {
	Email            string
	SessionToken     string
	SessionExpiresAt time.Time
}

// AuthOptions configures an AuthService.
type AuthOptions struct {
	Attempts        repository.AttemptRepository
	Mailer          Mailer
	Notifier        *BestEffort
	SitePassword    utils.SitePassword
	JWTSecret       string
	SessionDuration time.Duration
	CodeTTL         time.Duration
	MaxAttempts     int
	Logger          zerolog.Logger

	// Now and Random default to time.Now and crypto/rand.
	Now    func() time.Time
	Random io.Reader
}

// AuthService runs the two-step login: site password plus corporate email,
// then an emailed one-time code.
type AuthService struct {
	attempts    repository.AttemptRepository
	mailer      Mailer
	notifier    *BestEffort
	password    utils.SitePassword
	secret      string
	sessionTTL  time.Duration
	codeTTL     time.Duration
	maxAttempts int
	logger      zerolog.Logger
	now         func() time.Time
	random      io.Reader
}

func NewAuthService(opts AuthOptions) *AuthService {
	s := &AuthService{
		attempts:    opts.Attempts,
		mailer:      opts.Mailer,
		notifier:    opts.Notifier,
		password:    opts.SitePassword,
		secret:      opts.JWTSecret,
		sessionTTL:  opts.SessionDuration,
		codeTTL:     opts.CodeTTL,
		maxAttempts: opts.MaxAttempts,
		logger:      opts.Logger,
		now:         opts.Now,
		random:      opts.Random,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.sessionTTL <= 0 {
		s.sessionTTL = 8 * time.Hour
	}
	if s.codeTTL <= 0 {
		s.codeTTL = 10 * time.Minute
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = 3
	}
	if s.notifier == nil {
		s.notifier = NewBestEffort(opts.Logger, 30*time.Second)
	}
	return s
}

// SessionDuration is the validity window of issued session tokens.
func (s *AuthService) SessionDuration() time.Duration { return s.sessionTTL }

// Initiate checks the site password and email, records a pending attempt and
// emails its code. Every call writes exactly one audit row, except calls
// rejected for missing or malformed input.
func (s *AuthService) Initiate(ctx context.Context, password, email string, client ClientInfo) (*InitiateResult, error) {
	email = normalizeEmail(email)

	if password == "" || email == "" {
		return nil, authError(http.StatusBadRequest, CodeInvalidInput, "Password and email are required")
	}
	if !utils.IsValidEmail(email) {
		return nil, authError(http.StatusBadRequest, CodeInvalidInput, "Invalid email format")
	}

	log := s.logger.With().Str("email", utils.MaskEmail(email)).Str("ip", client.IPAddress).Logger()

	if !s.password.Matches(password) {
		if err := s.recordFailure(ctx, email, client, models.ReasonInvalidPassword); err != nil {
			return nil, serverError(err)
		}
		log.Info().Str("reason", models.ReasonInvalidPassword).Msg("login initiation rejected")
		return nil, authError(http.StatusUnauthorized, CodeInvalidPassword, "Invalid password")
	}

	if utils.IsBlockedDomain(email) {
		if err := s.recordFailure(ctx, email, client, models.ReasonBlockedDomain); err != nil {
			return nil, serverError(err)
		}
		log.Info().Str("reason", models.ReasonBlockedDomain).Msg("login initiation rejected")
		return nil, authError(http.StatusBadRequest, CodeBlockedDomain,
			"Personal email addresses are not allowed. Please use your corporate email.")
	}

	code, err := utils.GenerateVerificationCode(s.random)
	if err != nil {
		return nil, serverError(fmt.Errorf("generate code: %w", err))
	}

	now := s.now()
	expiresAt := now.Add(s.codeTTL)
	attempt := &models.VerificationAttempt{
		Email:         email,
		IPAddress:     client.IPAddress,
		UserAgent:     client.UserAgent,
		Code:          code,
		CodeSentAt:    &now,
		CodeExpiresAt: &expiresAt,
		Status:        models.StatusPending,
		CreatedAt:     now,
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, serverError(fmt.Errorf("record attempt: %w", err))
	}

	// The pending row stays even if delivery fails; a retry issues a new row.
	if err := s.mailer.SendVerificationCode(ctx, email, code, s.codeTTL); err != nil {
		log.Error().Err(err).Str("attempt", attempt.ID).Msg("verification email failed")
		return nil, &AuthError{
			Status:  http.StatusInternalServerError,
			Code:    CodeEmailFailed,
			Message: "Failed to send verification email. Please try again.",
			Err:     err,
		}
	}

	log.Info().Str("attempt", attempt.ID).Time("expiresAt", expiresAt).Msg("verification code sent")
	return &InitiateResult{ExpiresAt: expiresAt}, nil
}

// Verify checks code against the newest pending attempt for email and, on a
// match, issues a session token.
func (s *AuthService) Verify(ctx context.Context, email, code string, client ClientInfo) (*VerifyResult, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)

	if email == "" || code == "" {
		return nil, authError(http.StatusBadRequest, CodeInvalidInput, "Email and verification code are required")
	}

	log := s.logger.With().Str("email", utils.MaskEmail(email)).Str("ip", client.IPAddress).Logger()

	attempt, err := s.attempts.FindLatestPending(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, s.noPendingError(ctx, email)
	}
	if err != nil {
		return nil, serverError(fmt.Errorf("find pending attempt: %w", err))
	}
	log = log.With().Str("attempt", attempt.ID).Logger()

	if attempt.IsExpired(s.now()) {
		if err := s.transition(ctx, attempt, models.StatusExpired); err != nil {
			return nil, serverError(err)
		}
		log.Info().Msg("verification code expired")
		return nil, errExpired()
	}

	if attempt.Attempts >= s.maxAttempts {
		if err := s.transition(ctx, attempt, models.StatusMaxAttempts); err != nil {
			return nil, serverError(err)
		}
		log.Info().Msg("verification attempts exhausted")
		return nil, authError(http.StatusBadRequest, CodeMaxAttempts,
			"Too many attempts. Please request a new code.")
	}

	used, err := s.attempts.IncrementAttempts(ctx, attempt.ID)
	if err != nil {
		return nil, serverError(fmt.Errorf("increment attempts: %w", err))
	}

	if !utils.CodesEqual(code, attempt.Code) {
		remaining := s.maxAttempts - used
		log.Info().Int("remaining", remaining).Msg("invalid verification code")
		return nil, authError(http.StatusBadRequest, CodeInvalidCode, invalidCodeMessage(remaining))
	}

	token, expiresAt, err := utils.GenerateSessionToken(email, s.secret, s.now(), s.sessionTTL)
	if err != nil {
		return nil, serverError(fmt.Errorf("sign session: %w", err))
	}

	if err := attempt.Transition(models.StatusVerified); err != nil {
		return nil, serverError(err)
	}
	err = s.attempts.MarkVerified(ctx, attempt.ID, token, expiresAt)
	if errors.Is(err, repository.ErrNotFound) {
		// Another request moved the row out of pending first.
		return nil, errNoPending()
	}
	if err != nil {
		return nil, serverError(fmt.Errorf("mark verified: %w", err))
	}

	log.Info().Time("sessionExpiresAt", expiresAt).Msg("login verified")
	s.notifyLogin(attempt.ID, LoginNotice{
		Email:     email,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
		At:        s.now(),
	})

	return &VerifyResult{Email: email, SessionToken: token, SessionExpiresAt: expiresAt}, nil
}

// notifyLogin mails the operations address. It cannot fail the login.
func (s *AuthService) notifyLogin(attemptID string, notice LoginNotice) {
	s.notifier.Go("login-notification", func(ctx context.Context) error {
		if err := s.mailer.SendLoginNotification(ctx, notice); err != nil {
			return err
		}
		return s.attempts.MarkNotificationSent(ctx, attemptID)
	})
}

func (s *AuthService) recordFailure(ctx context.Context, email string, client ClientInfo, reason string) error {
	return s.attempts.Create(ctx, &models.VerificationAttempt{
		Email:         email,
		IPAddress:     client.IPAddress,
		UserAgent:     client.UserAgent,
		Status:        models.StatusFailed,
		FailureReason: reason,
		CreatedAt:     s.now(),
	})
}

// transition applies a terminal status. Losing the race to another request
// that already moved the row is not an error.
func (s *AuthService) transition(ctx context.Context, attempt *models.VerificationAttempt, to models.AttemptStatus) error {
	from := attempt.Status
	if err := attempt.Transition(to); err != nil {
		return err
	}
	err := s.attempts.UpdateStatus(ctx, attempt.ID, from, to)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("update status to %s: %w", to, err)
	}
	return nil
}

// noPendingError reports code_expired when the newest code sent to email was
// already moved to expired by the sweeper, and no_pending_verification
// otherwise.
func (s *AuthService) noPendingError(ctx context.Context, email string) *AuthError {
	latest, err := s.attempts.FindLatestIssued(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().Err(err).Str("email", utils.MaskEmail(email)).Msg("find latest attempt failed")
		}
		return errNoPending()
	}
	if latest.Status == models.StatusExpired {
		return errExpired()
	}
	return errNoPending()
}

func errExpired() *AuthError {
	return authError(http.StatusBadRequest, CodeExpired,
		"Verification code has expired. Please request a new code.")
}

func errNoPending() *AuthError {
	return authError(http.StatusBadRequest, CodeNoPending,
		"No pending verification found. Please request a new code.")
}

func invalidCodeMessage(remaining int) string {
	switch {
	case remaining <= 0:
		return "Invalid code. No attempts remaining. Please request a new code."
	case remaining == 1:
		return "Invalid code. 1 attempt remaining."
	default:
		return fmt.Sprintf("Invalid code. %d attempts remaining.", remaining)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
