package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ithomeportal/unilink-energy/internal/models"
	"github.com/ithomeportal/unilink-energy/internal/repository"
)

// AttemptRepository stores the login audit log in login_audit_logs.
type AttemptRepository struct {
	db *DB
}

var _ repository.AttemptRepository = (*AttemptRepository)(nil)

func NewAttemptRepository(db *DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

func (r *AttemptRepository) Create(ctx context.Context, a *models.VerificationAttempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	var id int64
	err := r.db.Pool.QueryRow(ctx, `
        INSERT INTO login_audit_logs
            (email, ip_address, user_agent, verification_code, code_sent_at, code_expires_at,
             code_attempts, login_status, failure_reason, created_at)
        VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, NULLIF($9, ''), $10)
        RETURNING id
    `, a.Email, a.IPAddress, a.UserAgent, a.Code, a.CodeSentAt, a.CodeExpiresAt,
		a.Attempts, string(a.Status), a.FailureReason, a.CreatedAt).Scan(&id)
	if err != nil {
		return err
	}

	a.ID = strconv.FormatInt(id, 10)
	return nil
}

func (r *AttemptRepository) FindLatestPending(ctx context.Context, email string) (*models.VerificationAttempt, error) {
	return r.findLatest(ctx, "login_status = 'pending'", email)
}

func (r *AttemptRepository) FindLatestIssued(ctx context.Context, email string) (*models.VerificationAttempt, error) {
	return r.findLatest(ctx, "login_status <> 'failed'", email)
}

// findLatest returns the newest row for email matching statusClause.
func (r *AttemptRepository) findLatest(ctx context.Context, statusClause, email string) (*models.VerificationAttempt, error) {
	var (
		a                      models.VerificationAttempt
		id                     int64
		code, status           string
		failureReason, session *string
	)
	err := r.db.Pool.QueryRow(ctx, `
        SELECT id, email, COALESCE(ip_address, ''), COALESCE(user_agent, ''),
               COALESCE(verification_code, ''), code_sent_at, code_expires_at,
               COALESCE(code_attempts, 0), login_status, failure_reason, session_token,
               session_expires_at, COALESCE(notification_sent, FALSE), created_at
        FROM login_audit_logs
        WHERE email = $1 AND `+statusClause+`
        ORDER BY created_at DESC, id DESC
        LIMIT 1
    `, email).Scan(&id, &a.Email, &a.IPAddress, &a.UserAgent, &code,
		&a.CodeSentAt, &a.CodeExpiresAt, &a.Attempts, &status,
		&failureReason, &session, &a.SessionExpiresAt, &a.NotificationSent, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	a.ID = strconv.FormatInt(id, 10)
	a.Code = code
	a.Status = models.AttemptStatus(status)
	if failureReason != nil {
		a.FailureReason = *failureReason
	}
	if session != nil {
		a.SessionToken = *session
	}
	return &a, nil
}

func (r *AttemptRepository) UpdateStatus(ctx context.Context, id string, from, to models.AttemptStatus) error {
	if !models.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", models.ErrIllegalTransition, from, to)
	}
	return r.exec(ctx, `
        UPDATE login_audit_logs SET login_status = $2
        WHERE id = $1 AND login_status = $3
    `, id, string(to), string(from))
}

func (r *AttemptRepository) IncrementAttempts(ctx context.Context, id string) (int, error) {
	rowID, err := parseID(id)
	if err != nil {
		return 0, err
	}

	var attempts int
	err = r.db.Pool.QueryRow(ctx, `
        UPDATE login_audit_logs SET code_attempts = code_attempts + 1
        WHERE id = $1
        RETURNING code_attempts
    `, rowID).Scan(&attempts)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	return attempts, err
}

func (r *AttemptRepository) MarkVerified(ctx context.Context, id, sessionToken string, sessionExpiresAt time.Time) error {
	return r.exec(ctx, `
        UPDATE login_audit_logs
        SET login_status = 'verified', session_token = $2, session_expires_at = $3
        WHERE id = $1 AND login_status = 'pending'
    `, id, sessionToken, sessionExpiresAt)
}

func (r *AttemptRepository) MarkNotificationSent(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE login_audit_logs SET notification_sent = TRUE WHERE id = $1`, id)
}

func (r *AttemptRepository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `
        UPDATE login_audit_logs SET login_status = 'expired'
        WHERE login_status = 'pending' AND code_expires_at < $1
    `, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// exec runs a single-row update keyed by id; zero affected rows is ErrNotFound.
func (r *AttemptRepository) exec(ctx context.Context, sql, id string, args ...any) error {
	rowID, err := parseID(id)
	if err != nil {
		return err
	}

	tag, err := r.db.Pool.Exec(ctx, sql, append([]any{rowID}, args...)...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func parseID(id string) (int64, error) {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid attempt id %q: %w", id, err)
	}
	return rowID, nil
}
