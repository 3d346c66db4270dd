package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ithomeportal/unilink-energy/internal/models"
)

// ErrNotFound is returned when no row matches, including when a
// compare-and-set status update finds the row already moved on.
var ErrNotFound = errors.New("not found")

// ShipmentRepository reads the shipment records the emissions engine consumes.
type ShipmentRepository interface {
	// ListShipments returns orders placed on or after since that carry both
	// states and all four coordinates, newest first.
	ListShipments(ctx context.Context, since time.Time) ([]models.ShipmentRecord, error)
}

// AttemptRepository is the append-only login audit log.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.VerificationAttempt) error
	// FindLatestPending returns the newest pending attempt for email.
	FindLatestPending(ctx context.Context, email string) (*models.VerificationAttempt, error)
	// FindLatestIssued returns the newest attempt for email that carried a
	// code, whatever its status. Rows for rejected initiations are skipped.
	FindLatestIssued(ctx context.Context, email string) (*models.VerificationAttempt, error)
	// UpdateStatus moves id from -> to only if the row is still in from.
	UpdateStatus(ctx context.Context, id string, from, to models.AttemptStatus) error
	// IncrementAttempts bumps the counter and returns the new value.
	IncrementAttempts(ctx context.Context, id string) (int, error)
	// MarkVerified moves a pending row to verified and stores the issued session.
	MarkVerified(ctx context.Context, id, sessionToken string, sessionExpiresAt time.Time) error
	MarkNotificationSent(ctx context.Context, id string) error
	// ExpirePending moves every pending row whose code expired before cutoff
	// to expired and returns how many moved.
	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)
}
