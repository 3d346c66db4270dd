package models

import (
	"errors"
	"fmt"
	"time"
)

// AttemptStatus is the lifecycle state of a VerificationAttempt.
type AttemptStatus string

const (
	StatusPending     AttemptStatus = "pending"
	StatusVerified    AttemptStatus = "verified"
	StatusExpired     AttemptStatus = "expired"
	StatusMaxAttempts AttemptStatus = "max_attempts"
	// StatusFailed marks audit rows written for rejected initiations. A row is
	// created in this state and never moves out of it.
	StatusFailed AttemptStatus = "failed"
)

// Failure reasons recorded on StatusFailed rows.
const (
	ReasonInvalidPassword = "invalid_password"
	ReasonBlockedDomain   = "blocked_domain"
)

var ErrIllegalTransition = errors.New("illegal attempt status transition")

// Valid reports whether s is one of the known statuses.
func (s AttemptStatus) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusExpired, StatusMaxAttempts, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s AttemptStatus) Terminal() bool {
	return s.Valid() && s != StatusPending
}

// CanTransition reports whether from -> to is a legal move. Only pending rows
// move, and only into verified, expired or max_attempts.
func CanTransition(from, to AttemptStatus) bool {
	if from != StatusPending {
		return false
	}
	switch to {
	case StatusVerified, StatusExpired, StatusMaxAttempts:
		return true
	}
	return false
}

// VerificationAttempt is one login-code issuance (or one rejected initiation).
// ID is the store's identifier rendered as a string (ObjectID hex or bigint).
type VerificationAttempt struct {
	ID               string        `json:"id" bson:"-"`
	Email            string        `json:"email" bson:"email"`
	IPAddress        string        `json:"ipAddress" bson:"ipAddress"`
	UserAgent        string        `json:"userAgent" bson:"userAgent"`
	Code             string        `json:"-" bson:"verificationCode,omitempty"`
	CodeSentAt       *time.Time    `json:"codeSentAt,omitempty" bson:"codeSentAt,omitempty"`
	CodeExpiresAt    *time.Time    `json:"codeExpiresAt,omitempty" bson:"codeExpiresAt,omitempty"`
	Attempts         int           `json:"attempts" bson:"codeAttempts"`
	Status           AttemptStatus `json:"status" bson:"loginStatus"`
	FailureReason    string        `json:"failureReason,omitempty" bson:"failureReason,omitempty"`
	SessionToken     string        `json:"-" bson:"sessionToken,omitempty"`
	SessionExpiresAt *time.Time    `json:"sessionExpiresAt,omitempty" bson:"sessionExpiresAt,omitempty"`
	NotificationSent bool          `json:"notificationSent" bson:"notificationSent"`
	CreatedAt        time.Time     `json:"createdAt" bson:"createdAt"`
}

// Transition moves the attempt to next, rejecting anything the state machine
// does not allow.
func (a *VerificationAttempt) Transition(next AttemptStatus) error {
	if !CanTransition(a.Status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, a.Status, next)
	}
	a.Status = next
	return nil
}

// IsExpired reports whether the code was no longer valid at now.
func (a *VerificationAttempt) IsExpired(now time.Time) bool {
	return a.CodeExpiresAt == nil || now.After(*a.CodeExpiresAt)
}

type InitiateRequest struct {
	Password string `json:"password"`
	Email    string `json:"email"`
}

type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type InitiateResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type VerifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SessionResponse struct {
	Success   bool      `json:"success"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ErrorResponse is the failure envelope every endpoint uses.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
